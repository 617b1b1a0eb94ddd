package handlers

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func TestFlexIntAcceptsNumberAndString(t *testing.T) {
	var payload struct {
		Quantity flexInt `json:"quantity"`
	}

	if err := json.Unmarshal([]byte(`{"quantity": 3}`), &payload); err != nil {
		t.Fatalf("number quantity: %v", err)
	}
	if payload.Quantity != 3 {
		t.Fatalf("expected 3, got %d", payload.Quantity)
	}

	if err := json.Unmarshal([]byte(`{"quantity": "7"}`), &payload); err != nil {
		t.Fatalf("string quantity: %v", err)
	}
	if payload.Quantity != 7 {
		t.Fatalf("expected 7, got %d", payload.Quantity)
	}

	if err := json.Unmarshal([]byte(`{"quantity": "abc"}`), &payload); err == nil {
		t.Fatal("expected error for non-numeric quantity")
	}
}

func TestNormalizeOrderItemsMultiItem(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	req := createOrderRequest{
		CustomerName: "A Customer",
		Items: []createOrderItemRequest{
			{ProductID: first.Hex(), Quantity: 2, Variants: "Size: M"},
			{ProductID: second.Hex(), Quantity: 1},
		},
	}

	items, err := normalizeOrderItems(req)
	if err != nil {
		t.Fatalf("normalizeOrderItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ProductID != first || items[0].Quantity != 2 || items[0].Variants != "Size: M" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].ProductID != second || items[1].Quantity != 1 {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestNormalizeOrderItemsLegacySingleItem(t *testing.T) {
	productID := primitive.NewObjectID()

	req := createOrderRequest{
		CustomerName: "A Customer",
		ProductID:    productID.Hex(),
		Quantity:     4,
		Variants:     "Red / L",
	}

	items, err := normalizeOrderItems(req)
	if err != nil {
		t.Fatalf("normalizeOrderItems returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ProductID != productID || items[0].Quantity != 4 || items[0].Variants != "Red / L" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestNormalizeOrderItemsRejectsEmpty(t *testing.T) {
	if _, err := normalizeOrderItems(createOrderRequest{CustomerName: "x"}); err == nil {
		t.Fatal("expected error for request with no items")
	}
}

func TestNormalizeOrderItemsRejectsBadQuantity(t *testing.T) {
	req := createOrderRequest{
		Items: []createOrderItemRequest{
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 0},
		},
	}
	if _, err := normalizeOrderItems(req); err == nil {
		t.Fatal("expected error for zero quantity")
	}

	req.Items[0].Quantity = -3
	if _, err := normalizeOrderItems(req); err == nil {
		t.Fatal("expected error for negative quantity")
	}
}

func TestNormalizeOrderItemsRejectsBadProductID(t *testing.T) {
	req := createOrderRequest{
		Items: []createOrderItemRequest{
			{ProductID: "not-a-hex-id", Quantity: 1},
		},
	}
	if _, err := normalizeOrderItems(req); err == nil {
		t.Fatal("expected error for malformed productId")
	}
}

func TestApplyLegacyMirrorSingleItem(t *testing.T) {
	productID := primitive.NewObjectID()
	order := models.Order{
		Items: []models.OrderItem{
			{ProductID: productID, Title: "Desert Boots", ImageURL: "http://img/boots", Qty: 2},
		},
	}

	applyLegacyMirror(&order)

	if order.LegacyProductID == nil || *order.LegacyProductID != productID {
		t.Fatalf("legacy productId not mirrored: %+v", order.LegacyProductID)
	}
	if order.LegacyTitle != "Desert Boots" {
		t.Fatalf("expected plain title, got %q", order.LegacyTitle)
	}
	if order.LegacyQty != 2 {
		t.Fatalf("expected qty 2, got %d", order.LegacyQty)
	}
}

func TestApplyLegacyMirrorMultiItem(t *testing.T) {
	order := models.Order{
		Items: []models.OrderItem{
			{ProductID: primitive.NewObjectID(), Title: "Desert Boots", Qty: 1},
			{ProductID: primitive.NewObjectID(), Title: "Wool Hat", Qty: 2},
			{ProductID: primitive.NewObjectID(), Title: "Belt", Qty: 1},
		},
	}

	applyLegacyMirror(&order)

	if order.LegacyTitle != "Desert Boots (+2 others)" {
		t.Fatalf("unexpected mirrored title: %q", order.LegacyTitle)
	}
	if order.LegacyQty != 4 {
		t.Fatalf("expected summed qty 4, got %d", order.LegacyQty)
	}
}
