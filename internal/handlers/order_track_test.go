package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0555 12 34 56", "0555123456"},
		{"+213-555-123-456", "213555123456"},
		{"(0555)123456", "0555123456"},
		{"no digits here", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizePhone(tt.in); got != tt.want {
			t.Fatalf("normalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrackedOrderViewRedactsContactFields(t *testing.T) {
	order := models.Order{
		ID:         primitive.NewObjectID(),
		Customer:   "Secret Name",
		Phone:      "0555123456",
		Wilaya:     "Alger",
		Commune:    "Bab El Oued",
		Address:    "12 Example St",
		Status:     models.StatusShipped,
		TotalPrice: 120,
		CreatedAt:  time.Now(),
		Items: []models.OrderItem{
			{Title: "Desert Boots", Qty: 2, Price: 60, ImageURL: "http://img/boots"},
		},
	}

	view := trackedOrderView(order)

	for _, key := range []string{"customerName", "phone", "wilaya", "commune", "address"} {
		if _, ok := view[key]; ok {
			t.Fatalf("tracked view leaked %q", key)
		}
	}

	if view["status"] != models.StatusShipped {
		t.Fatalf("expected status %q, got %v", models.StatusShipped, view["status"])
	}
	if view["totalPrice"] != 120.0 {
		t.Fatalf("expected totalPrice 120, got %v", view["totalPrice"])
	}

	items, ok := view["items"].([]trackedItem)
	if !ok || len(items) != 1 {
		t.Fatalf("unexpected items: %v", view["items"])
	}
	if items[0].Name != "Desert Boots" || items[0].Qty != 2 || items[0].Price != 60 {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}
