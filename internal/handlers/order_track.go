package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

type trackOrderRequest struct {
	OrderID string `json:"orderId"`
	Phone   string `json:"phone"`
}

type trackedItem struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// normalizePhone strips everything but digits so formatting differences
// between what the customer typed at checkout and at tracking time
// never block a lookup.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// trackedOrderView redacts the order down to what an anonymous caller
// holding the order id and phone may see: no name, no address fields.
func trackedOrderView(order models.Order) gin.H {
	items := make([]trackedItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, trackedItem{
			Name:  item.Title,
			Qty:   item.Qty,
			Price: item.Price,
			Image: item.ImageURL,
		})
	}
	return gin.H{
		"orderId":    order.ID.Hex(),
		"status":     order.Status,
		"totalPrice": order.TotalPrice,
		"createdAt":  order.CreatedAt,
		"items":      items,
	}
}

// TrackOrder returns the redacted view of an order when the caller
// proves ownership with the phone number stored on it.
func TrackOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders/track"
		defer handlePanic(c, route)

		var req trackOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		if strings.TrimSpace(req.OrderID) == "" || strings.TrimSpace(req.Phone) == "" {
			respondWithError(c, http.StatusBadRequest, route, "Please provide both Order ID and Phone Number")
			return
		}

		// A malformed id can never match an order, so it reads as not found.
		orderID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.OrderID))
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		supplied := normalizePhone(req.Phone)
		if supplied == "" || supplied != normalizePhone(order.Phone) {
			respondWithError(c, http.StatusUnauthorized, route, "Phone number does not match this order")
			return
		}

		c.JSON(http.StatusOK, trackedOrderView(order))
	}
}
