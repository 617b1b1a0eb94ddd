package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type cartResponse struct {
	CartID string            `json:"cartId"`
	Items  []models.CartItem `json:"items"`
}

func cartJSON(cart models.Cart) cartResponse {
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return cartResponse{CartID: cart.CartID, Items: items}
}

// CreateCart issues a fresh opaque cart token and an empty cart.
func CreateCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart"
		defer handlePanic(c, route)

		now := time.Now()
		cart := models.Cart{
			CartID:    uuid.NewString(),
			Items:     []models.CartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("carts").InsertOne(ctx, cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to create cart")
			return
		}

		log.Printf("[%s] created cart %s", route, cart.CartID)
		c.JSON(http.StatusOK, cartJSON(cart))
	}
}

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart/:cartId"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		err := db.Collection("carts").FindOne(ctx, bson.M{"cartId": c.Param("cartId")}).Decode(&cart)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "cart not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to fetch cart")
			return
		}

		c.JSON(http.StatusOK, cartJSON(cart))
	}
}

type addCartItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  flexInt `json:"quantity"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	Variants  string  `json:"variants"`
}

// AddCartItem appends or grows a line inside a session transaction so
// two concurrent mutations of the same cart serialize instead of
// clobbering each other's read-modify-write. The product snapshot
// (name, price, image) is taken from the live product document, and the
// line's cached stock is refreshed on every successful add.
func AddCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/:cartId/items"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}
		if req.Quantity <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must be greater than zero")
			return
		}

		cartID := c.Param("cartId")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var cart models.Cart
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			var product models.Product
			err := db.Collection("products").FindOne(sessCtx, bson.M{"_id": productID}).Decode(&product)
			if err == mongo.ErrNoDocuments {
				return nil, productNotFoundError{ProductID: productID}
			}
			if err != nil {
				return nil, err
			}

			err = db.Collection("carts").FindOne(sessCtx, bson.M{"cartId": cartID}).Decode(&cart)
			if err == mongo.ErrNoDocuments {
				return nil, errCartNotFound
			}
			if err != nil {
				return nil, err
			}

			incoming := models.CartItem{
				ProductID: productID,
				Name:      product.Name,
				Price:     product.Price,
				ImageURL:  product.ImageURL,
				Color:     strings.TrimSpace(req.Color),
				Size:      strings.TrimSpace(req.Size),
				Variants:  strings.TrimSpace(req.Variants),
				Quantity:  int(req.Quantity),
			}

			items, err := mergeCartLine(cart.Items, incoming, product.Quantity)
			if err != nil {
				return nil, err
			}

			cart.Items = items
			cart.UpdatedAt = time.Now()

			_, err = db.Collection("carts").UpdateOne(
				sessCtx,
				bson.M{"cartId": cartID},
				bson.M{"$set": bson.M{"items": cart.Items, "updatedAt": cart.UpdatedAt}},
			)
			return nil, err
		})
		if err != nil {
			respondCartMutationError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, cartJSON(cart))
	}
}

type updateCartItemRequest struct {
	Quantity flexInt `json:"quantity"`
}

// UpdateCartItem sets a line's quantity, validating against the
// product's live stock rather than the cart's cached snapshot. A
// quantity of zero or less removes the line.
func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/:cartId/items/:productId"
		defer handlePanic(c, route)

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		cartID := c.Param("cartId")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var cart models.Cart
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			err := db.Collection("carts").FindOne(sessCtx, bson.M{"cartId": cartID}).Decode(&cart)
			if err == mongo.ErrNoDocuments {
				return nil, errCartNotFound
			}
			if err != nil {
				return nil, err
			}

			liveStock := 0
			if int(req.Quantity) > 0 {
				var product models.Product
				err = db.Collection("products").FindOne(sessCtx, bson.M{"_id": productID}).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: productID}
				}
				if err != nil {
					return nil, err
				}
				liveStock = product.Quantity
			}

			items, _, err := setCartLineQuantity(cart.Items, productID, int(req.Quantity), liveStock)
			if err != nil {
				return nil, err
			}

			cart.Items = items
			cart.UpdatedAt = time.Now()

			_, err = db.Collection("carts").UpdateOne(
				sessCtx,
				bson.M{"cartId": cartID},
				bson.M{"$set": bson.M{"items": cart.Items, "updatedAt": cart.UpdatedAt}},
			)
			return nil, err
		})
		if err != nil {
			respondCartMutationError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, cartJSON(cart))
	}
}

func RemoveCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/:cartId/items/:productId"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		err = db.Collection("carts").FindOneAndUpdate(
			ctx,
			bson.M{"cartId": c.Param("cartId")},
			bson.M{
				"$pull": bson.M{"items": bson.M{"productId": productID}},
				"$set":  bson.M{"updatedAt": time.Now()},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&cart)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "cart not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to remove cart item")
			return
		}

		c.JSON(http.StatusOK, cartJSON(cart))
	}
}

func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/:cartId"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		err := db.Collection("carts").FindOneAndUpdate(
			ctx,
			bson.M{"cartId": c.Param("cartId")},
			bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&cart)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "cart not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to clear cart")
			return
		}

		c.JSON(http.StatusOK, cartJSON(cart))
	}
}

var errCartNotFound = errors.New("cart not found")

func respondCartMutationError(c *gin.Context, route string, err error) {
	var stockErr outOfStockError
	if errors.As(err, &stockErr) {
		if stockErr.Available == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Out of stock",
				"available": 0,
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Insufficient stock",
			"available": stockErr.Available,
			"message":   "Only " + strconv.Itoa(stockErr.Available) + " more available",
		})
		return
	}

	var notFoundErr productNotFoundError
	if errors.As(err, &notFoundErr) {
		respondWithError(c, http.StatusNotFound, route, "product not found")
		return
	}
	if errors.Is(err, errCartNotFound) {
		respondWithError(c, http.StatusNotFound, route, "cart not found")
		return
	}
	if errors.Is(err, errCartLineNotFound) {
		respondWithError(c, http.StatusNotFound, route, "item not found in cart")
		return
	}

	respondWithError(c, http.StatusInternalServerError, route, "db error")
}
