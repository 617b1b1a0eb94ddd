package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

var errOrderNotFound = errors.New("order not found")

// setOrderStatus applies a transition with no stock side effect
// (Pending, Confirmed, Shipped, Delivered) and returns the updated order.
func setOrderStatus(ctx context.Context, db *mongo.Database, orderID primitive.ObjectID, status string) (models.Order, error) {
	var order models.Order
	err := db.Collection("orders").FindOneAndUpdate(
		ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, errOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// declineOrder restores exactly the stock that order creation reserved,
// then marks the order Declined. The status guard in the first update
// makes the restore idempotent: a second decline matches nothing and
// restores nothing. Products deleted since the order was placed are
// skipped silently.
func declineOrder(ctx context.Context, db *mongo.Database, orderID primitive.ObjectID) (models.Order, error) {
	session, err := db.Client().StartSession()
	if err != nil {
		return models.Order{}, err
	}
	defer session.EndSession(ctx)

	var declined models.Order
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		var order models.Order
		err := db.Collection("orders").FindOneAndUpdate(
			sessCtx,
			bson.M{"_id": orderID, "status": bson.M{"$ne": models.StatusDeclined}},
			bson.M{"$set": bson.M{"status": models.StatusDeclined}},
		).Decode(&order)
		if err == mongo.ErrNoDocuments {
			// Either the order is unknown or it was already declined.
			err = db.Collection("orders").FindOne(sessCtx, bson.M{"_id": orderID}).Decode(&declined)
			if err == mongo.ErrNoDocuments {
				return nil, errOrderNotFound
			}
			return nil, err
		}
		if err != nil {
			return nil, err
		}

		restores := make([]models.OrderItem, 0, len(order.Items))
		restores = append(restores, order.Items...)
		if len(restores) == 0 && order.LegacyProductID != nil {
			// Pre-multi-item orders only carry the flat fields.
			restores = append(restores, models.OrderItem{
				ProductID: *order.LegacyProductID,
				Qty:       order.LegacyQty,
			})
		}

		for _, item := range restores {
			if item.Qty <= 0 {
				continue
			}
			_, err := db.Collection("products").UpdateOne(
				sessCtx,
				bson.M{"_id": item.ProductID},
				bson.M{"$inc": bson.M{"quantity": item.Qty}},
			)
			if err != nil {
				return nil, err
			}
		}

		declined = order
		declined.Status = models.StatusDeclined
		return nil, nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return declined, nil
}

// transitionOrder dispatches to the per-status transition so that every
// path to Declined restores stock, including the generic status route.
func transitionOrder(ctx context.Context, db *mongo.Database, orderID primitive.ObjectID, status string) (models.Order, error) {
	if status == models.StatusDeclined {
		return declineOrder(ctx, db, orderID)
	}
	return setOrderStatus(ctx, db, orderID, status)
}

/* =========================
   TRANSITION HANDLERS
========================= */

func ConfirmOrder(db *mongo.Database) gin.HandlerFunc {
	return transitionHandler("PUT /api/orders/:id/confirm", func(ctx context.Context, orderID primitive.ObjectID) (models.Order, error) {
		return setOrderStatus(ctx, db, orderID, models.StatusConfirmed)
	}, "Order confirmed")
}

func DeclineOrder(db *mongo.Database) gin.HandlerFunc {
	return transitionHandler("PUT /api/orders/:id/decline", func(ctx context.Context, orderID primitive.ObjectID) (models.Order, error) {
		return declineOrder(ctx, db, orderID)
	}, "Order declined and stock restored")
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the generic transition route. The status value
// is validated against the enum and dispatched to the same transition
// functions the dedicated routes use.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req orderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || !models.IsValidStatus(req.Status) {
			respondWithError(c, http.StatusBadRequest, route, "invalid status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := transitionOrder(ctx, db, orderID, req.Status)
		if errors.Is(err, errOrderNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s -> %s", route, orderID.Hex(), req.Status)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Order status updated to " + req.Status,
			"order":   order,
		})
	}
}

func transitionHandler(route string, apply func(context.Context, primitive.ObjectID) (models.Order, error), message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := apply(ctx, orderID)
		if errors.Is(err, errOrderNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s now %s", route, orderID.Hex(), order.Status)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": message,
			"order":   order,
		})
	}
}
