package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductVariant describes a selectable option axis, e.g. Size with
// options ["S", "M", "L"].
type ProductVariant struct {
	Name    string   `bson:"name" json:"name"`
	Options []string `bson:"options" json:"options"`
}

// Product is the catalog document. Quantity is the authoritative stock
// count; it is only mutated through conditional $inc updates so it is
// never observable below zero.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	PreviousPrice *float64           `bson:"previousPrice,omitempty" json:"previousPrice,omitempty"`
	ImageURL      string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Images        StringList         `bson:"images" json:"images"`
	Variants      []ProductVariant   `bson:"variants,omitempty" json:"variants,omitempty"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	Category      string             `bson:"category" json:"category"`
	HomeCategory  string             `bson:"homeCategory,omitempty" json:"homeCategory"`
	Rating        float64            `bson:"rating" json:"rating"`
	SalesCount    int                `bson:"salesCount" json:"salesCount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

var productCategories = map[string]bool{
	"T-Shirts":    true,
	"Pants":       true,
	"Hats":        true,
	"Accessories": true,
	"Shoes":       true,
	"Watches":     true,
	"Clothes":     true,
	"Other":       true,
}

var homeCategories = map[string]bool{
	"top-rated":           true,
	"trending":            true,
	"new-arrivals":        true,
	"featured-collection": true,
	"":                    true,
}

// IsValidCategory reports whether name is one of the fixed catalog categories.
func IsValidCategory(name string) bool {
	return productCategories[name]
}

// IsValidHomeCategory reports whether name is a known home page section.
// The empty string means the product is not pinned to any section.
func IsValidHomeCategory(name string) bool {
	return homeCategories[name]
}
