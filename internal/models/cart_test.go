package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSameLineMatchesProductAndVariants(t *testing.T) {
	productID := primitive.NewObjectID()
	item := CartItem{ProductID: productID, Color: "Red", Size: "M", Variants: "Material: Wool"}

	if !item.SameLine(productID, "Red", "M", "Material: Wool") {
		t.Fatal("expected identical selection to match")
	}
	if item.SameLine(primitive.NewObjectID(), "Red", "M", "Material: Wool") {
		t.Fatal("different product must not match")
	}
	if item.SameLine(productID, "Blue", "M", "Material: Wool") {
		t.Fatal("different color must not match")
	}
	if item.SameLine(productID, "Red", "L", "Material: Wool") {
		t.Fatal("different size must not match")
	}
	if item.SameLine(productID, "Red", "M", "") {
		t.Fatal("different variants string must not match")
	}
}
