package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. Orders start Pending; Declined restores the
// stock that order creation reserved.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusDeclined  = "Declined"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
)

var orderStatuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusDeclined:  true,
	StatusShipped:   true,
	StatusDelivered: true,
}

// IsValidStatus reports whether s is one of the five order statuses.
func IsValidStatus(s string) bool {
	return orderStatuses[s]
}

// OrderItem is an immutable snapshot of a product line at order time.
// Changes to the product afterwards never alter an existing order.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Title     string             `bson:"productTitle" json:"productTitle"`
	ImageURL  string             `bson:"productImageUrl" json:"productImageUrl"`
	Variants  string             `bson:"variants,omitempty" json:"variants,omitempty"`
	Qty       int                `bson:"qty" json:"qty"`
	Price     float64            `bson:"price" json:"price"`
}

// Order is the persisted order document. The top-level product fields
// mirror the first item for legacy admin views; Items is authoritative.
type Order struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Items      []OrderItem         `bson:"items" json:"items"`
	UserID     *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Customer   string              `bson:"customerName" json:"customerName"`
	Email      string              `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	Wilaya     string              `bson:"wilaya,omitempty" json:"wilaya,omitempty"`
	Commune    string              `bson:"commune,omitempty" json:"commune,omitempty"`
	Address    string              `bson:"address,omitempty" json:"address,omitempty"`
	Phone      string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Status     string              `bson:"status" json:"status"`
	TotalPrice float64             `bson:"totalPrice" json:"totalPrice"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`

	// Legacy single-item mirror fields, populated from Items[0].
	LegacyProductID *primitive.ObjectID `bson:"productId,omitempty" json:"productId,omitempty"`
	LegacyTitle     string              `bson:"productTitle,omitempty" json:"productTitle,omitempty"`
	LegacyImageURL  string              `bson:"productImageUrl,omitempty" json:"productImageUrl,omitempty"`
	LegacyVariants  string              `bson:"variants,omitempty" json:"variants,omitempty"`
	LegacyQty       int                 `bson:"qty,omitempty" json:"qty,omitempty"`
}
