package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

// flexInt decodes a quantity sent either as a JSON number or as a
// numeric string, which legacy clients still do.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	if raw == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid quantity %q", raw)
	}
	*f = flexInt(n)
	return nil
}

type createOrderItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  flexInt `json:"quantity"`
	Variants  string  `json:"variants"`
}

type createOrderRequest struct {
	CustomerName    string                   `json:"customerName" binding:"required"`
	CustomerPhone   string                   `json:"customerPhone"`
	CustomerWilaya  string                   `json:"customerWilaya"`
	CustomerCommune string                   `json:"customerCommune"`
	CustomerAddress string                   `json:"customerAddress"`
	Items           []createOrderItemRequest `json:"items"`
	UserID          string                   `json:"userId"`

	// Legacy single-item shape.
	ProductID string  `json:"productId"`
	Quantity  flexInt `json:"quantity"`
	Variants  string  `json:"variants"`
}

// orderItemInput is the canonical shape every request body is
// normalized into before the workflow touches the database.
type orderItemInput struct {
	ProductID primitive.ObjectID
	Name      string
	Quantity  int
	Variants  string
}

// normalizeOrderItems folds the multi-item and legacy single-item body
// shapes into one validated item list. No database access happens here;
// every failure aborts the request before any stock is touched.
func normalizeOrderItems(req createOrderRequest) ([]orderItemInput, error) {
	raw := req.Items
	if len(raw) == 0 {
		if strings.TrimSpace(req.ProductID) == "" {
			return nil, errors.New("no items provided")
		}
		raw = []createOrderItemRequest{{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Variants:  req.Variants,
		}}
	}

	items := make([]orderItemInput, 0, len(raw))
	for _, item := range raw {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
		if err != nil {
			return nil, errors.New("invalid productId")
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity for item %s", strings.TrimSpace(item.Name))
		}
		items = append(items, orderItemInput{
			ProductID: productID,
			Name:      strings.TrimSpace(item.Name),
			Quantity:  int(item.Quantity),
			Variants:  strings.TrimSpace(item.Variants),
		})
	}
	return items, nil
}

// applyLegacyMirror copies the first item into the flat single-item
// fields that pre-multi-item admin views still read.
func applyLegacyMirror(order *models.Order) {
	if len(order.Items) == 0 {
		return
	}
	first := order.Items[0]
	title := first.Title
	if len(order.Items) > 1 {
		title = fmt.Sprintf("%s (+%d others)", first.Title, len(order.Items)-1)
	}
	totalQty := 0
	for _, item := range order.Items {
		totalQty += item.Qty
	}
	productID := first.ProductID
	order.LegacyProductID = &productID
	order.LegacyTitle = title
	order.LegacyImageURL = first.ImageURL
	order.LegacyVariants = first.Variants
	order.LegacyQty = totalQty
}

/* =========================
   CREATE ORDER
========================= */

// CreateOrder validates every requested line against live stock, then
// reserves stock with one conditional decrement per product and inserts
// the order, all inside a single session transaction. Two concurrent
// orders racing for the last units serialize at the storage layer: the
// loser's decrement matches nothing and the whole transaction aborts
// with the remaining quantity.
func CreateOrder(db *mongo.Database, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		inputs, err := normalizeOrderItems(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		userID, err := userIDFromHeader(c.GetHeader("Authorization"), jwtSecret)
		if err != nil {
			log.Println("[ORDER] [ERROR] token validation failed:", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if userID == nil {
			userID = userIDFromBody(req.UserID)
		}

		order := models.Order{
			UserID:    userID,
			Customer:  strings.TrimSpace(req.CustomerName),
			Email:     strings.TrimSpace(req.CustomerPhone),
			Phone:     strings.TrimSpace(req.CustomerPhone),
			Wilaya:    strings.TrimSpace(req.CustomerWilaya),
			Commune:   strings.TrimSpace(req.CustomerCommune),
			Address:   strings.TrimSpace(req.CustomerAddress),
			Status:    models.StatusPending,
			CreatedAt: time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			items := make([]models.OrderItem, 0, len(inputs))
			total := 0.0

			for _, input := range inputs {
				var product models.Product
				err := db.Collection("products").FindOne(
					sessCtx,
					bson.M{"_id": input.ProductID},
				).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: input.ProductID}
				}
				if err != nil {
					return nil, err
				}

				if product.Quantity < input.Quantity {
					return nil, outOfStockError{
						ProductID: input.ProductID,
						Available: product.Quantity,
						Requested: input.Quantity,
					}
				}

				items = append(items, models.OrderItem{
					ProductID: input.ProductID,
					Title:     product.Name,
					ImageURL:  product.ImageURL,
					Variants:  input.Variants,
					Qty:       input.Quantity,
					Price:     product.Price,
				})
				total += product.Price * float64(input.Quantity)
			}

			// All lines validated; reserve stock. The quantity guard in
			// the filter keeps the count from ever dropping below zero
			// even when another order slipped in after the read above.
			for _, input := range inputs {
				filter := bson.M{
					"_id":      input.ProductID,
					"quantity": bson.M{"$gte": input.Quantity},
				}
				update := bson.M{"$inc": bson.M{"quantity": -input.Quantity}}

				res, err := db.Collection("products").UpdateOne(sessCtx, filter, update)
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					var product models.Product
					remaining := 0
					if err := db.Collection("products").FindOne(
						sessCtx,
						bson.M{"_id": input.ProductID},
					).Decode(&product); err == nil {
						remaining = product.Quantity
					}
					return nil, outOfStockError{
						ProductID: input.ProductID,
						Available: remaining,
						Requested: input.Quantity,
					}
				}
			}

			order.Items = items
			order.TotalPrice = total
			applyLegacyMirror(&order)

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}
			return nil, nil
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "Insufficient stock",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusNotFound, gin.H{
					"error":     "Product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if order.UserID != nil {
			log.Println("[ORDER] [INFO] order created for user:", order.UserID.Hex())
		} else {
			log.Println("[ORDER] [INFO] guest order created")
		}

		c.JSON(http.StatusCreated, order)
	}
}

func userIDFromHeader(header, secret string) (*primitive.ObjectID, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid token format")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		return nil, errors.New("userId claim missing")
	}

	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		return nil, errors.New("invalid userId")
	}

	return &userID, nil
}

// userIDFromBody accepts the legacy body userId that guest checkouts
// still send when no bearer token is present.
func userIDFromBody(raw string) *primitive.ObjectID {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	userID, err := primitive.ObjectIDFromHex(trimmed)
	if err != nil {
		return nil
	}
	return &userID
}
