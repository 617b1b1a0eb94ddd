package models

import "testing"

func TestIsValidStatus(t *testing.T) {
	for _, status := range []string{StatusPending, StatusConfirmed, StatusDeclined, StatusShipped, StatusDelivered} {
		if !IsValidStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	for _, status := range []string{"", "pending", "Cancelled", "SHIPPED"} {
		if IsValidStatus(status) {
			t.Fatalf("expected %q to be invalid", status)
		}
	}
}
