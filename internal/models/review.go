package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review types. Store reviews carry no product reference.
const (
	ReviewTypeProduct = "product"
	ReviewTypeStore   = "store"
)

// Review is created once and never edited; submitting a product review
// triggers a recompute of the product's mean rating.
type Review struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProductID *primitive.ObjectID `bson:"productId,omitempty" json:"productId,omitempty"`
	UserName  string              `bson:"userName" json:"userName"`
	Rating    int                 `bson:"rating" json:"rating"`
	Comment   string              `bson:"comment" json:"comment"`
	Type      string              `bson:"type" json:"type"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
