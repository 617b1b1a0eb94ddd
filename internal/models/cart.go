package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a single product+variant line within a cart. Name, price
// and image are snapshots taken when the item was added; Stock caches
// the product's quantity as of the last read and can go stale.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	ImageURL  string             `bson:"imageUrl" json:"imageUrl"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	Variants  string             `bson:"variants,omitempty" json:"variants,omitempty"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Stock     int                `bson:"stock" json:"stock"`
}

// SameLine reports whether another item refers to the same product with
// the same variant selection, i.e. whether the two merge into one line.
func (i CartItem) SameLine(productID primitive.ObjectID, color, size, variants string) bool {
	return i.ProductID == productID && i.Color == color && i.Size == size && i.Variants == variants
}

// Cart is the per-session cart document. CartID is an opaque token the
// client stores; abandoned carts are expired by a TTL index on UpdatedAt.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CartID    string             `bson:"cartId" json:"cartId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
