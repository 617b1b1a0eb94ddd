package handlers

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func TestMergeCartLineAppendsNewLine(t *testing.T) {
	productID := primitive.NewObjectID()
	incoming := models.CartItem{ProductID: productID, Name: "Wool Hat", Price: 25, Quantity: 2}

	items, err := mergeCartLine(nil, incoming, 5)
	if err != nil {
		t.Fatalf("mergeCartLine returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 2 || items[0].Stock != 5 {
		t.Fatalf("unexpected line: %+v", items[0])
	}
}

func TestMergeCartLineGrowsMatchingLine(t *testing.T) {
	productID := primitive.NewObjectID()
	existing := []models.CartItem{
		{ProductID: productID, Color: "Red", Quantity: 2, Stock: 3},
	}
	incoming := models.CartItem{ProductID: productID, Color: "Red", Quantity: 1}

	items, err := mergeCartLine(existing, incoming, 5)
	if err != nil {
		t.Fatalf("mergeCartLine returned error: %v", err)
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", items[0].Quantity)
	}
	if items[0].Stock != 5 {
		t.Fatalf("expected refreshed stock 5, got %d", items[0].Stock)
	}
	if existing[0].Quantity != 2 {
		t.Fatalf("input slice was mutated: %+v", existing[0])
	}
}

func TestMergeCartLineKeepsVariantLinesSeparate(t *testing.T) {
	productID := primitive.NewObjectID()
	existing := []models.CartItem{
		{ProductID: productID, Color: "Red", Quantity: 1},
	}
	incoming := models.CartItem{ProductID: productID, Color: "Blue", Quantity: 1}

	items, err := mergeCartLine(existing, incoming, 10)
	if err != nil {
		t.Fatalf("mergeCartLine returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
}

func TestMergeCartLineReportsRemainingAllowance(t *testing.T) {
	productID := primitive.NewObjectID()
	existing := []models.CartItem{
		{ProductID: productID, Quantity: 3},
	}
	incoming := models.CartItem{ProductID: productID, Quantity: 4}

	_, err := mergeCartLine(existing, incoming, 5)
	var stockErr outOfStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected outOfStockError, got %v", err)
	}
	if stockErr.Available != 2 {
		t.Fatalf("expected available 2, got %d", stockErr.Available)
	}
}

func TestMergeCartLineAvailableFloorsAtZero(t *testing.T) {
	productID := primitive.NewObjectID()
	existing := []models.CartItem{
		{ProductID: productID, Quantity: 5},
	}
	incoming := models.CartItem{ProductID: productID, Quantity: 1}

	// Stock dropped below what the cart already holds.
	_, err := mergeCartLine(existing, incoming, 4)
	var stockErr outOfStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected outOfStockError, got %v", err)
	}
	if stockErr.Available != 0 {
		t.Fatalf("expected available 0, got %d", stockErr.Available)
	}
}

func TestMergeCartLineNewLineExceedingStock(t *testing.T) {
	incoming := models.CartItem{ProductID: primitive.NewObjectID(), Quantity: 6}

	_, err := mergeCartLine(nil, incoming, 5)
	var stockErr outOfStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected outOfStockError, got %v", err)
	}
	if stockErr.Available != 5 {
		t.Fatalf("expected available 5, got %d", stockErr.Available)
	}
}

func TestSetCartLineQuantityUpdatesAndRefreshesStock(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Quantity: 1, Stock: 2},
	}

	updated, removed, err := setCartLineQuantity(items, productID, 4, 6)
	if err != nil {
		t.Fatalf("setCartLineQuantity returned error: %v", err)
	}
	if removed {
		t.Fatal("line should not have been removed")
	}
	if updated[0].Quantity != 4 || updated[0].Stock != 6 {
		t.Fatalf("unexpected line: %+v", updated[0])
	}
}

func TestSetCartLineQuantityRemovesOnZero(t *testing.T) {
	productID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Quantity: 2},
		{ProductID: other, Quantity: 1},
	}

	updated, removed, err := setCartLineQuantity(items, productID, 0, 0)
	if err != nil {
		t.Fatalf("setCartLineQuantity returned error: %v", err)
	}
	if !removed {
		t.Fatal("expected line removal")
	}
	if len(updated) != 1 || updated[0].ProductID != other {
		t.Fatalf("unexpected remaining lines: %+v", updated)
	}
}

func TestSetCartLineQuantityInsufficientStock(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Quantity: 1, Stock: 10},
	}

	// Live stock is authoritative, not the cached value.
	_, _, err := setCartLineQuantity(items, productID, 5, 3)
	var stockErr outOfStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected outOfStockError, got %v", err)
	}
	if stockErr.Available != 3 {
		t.Fatalf("expected available 3, got %d", stockErr.Available)
	}
}

func TestSetCartLineQuantityUnknownLine(t *testing.T) {
	_, _, err := setCartLineQuantity(nil, primitive.NewObjectID(), 1, 5)
	if !errors.Is(err, errCartLineNotFound) {
		t.Fatalf("expected errCartLineNotFound, got %v", err)
	}
}
