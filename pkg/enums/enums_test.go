package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusShipped, OrderStatusConfirmed, false},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusPending, OrderStatus("lost"), false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: expected %v got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if _, err := ParsePaymentMethod("cash_on_delivery"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParsePaymentMethod("bitcoin"); err == nil {
		t.Fatalf("expected invalid payment method")
	}
	if got, err := ParseProductType("shoes"); err != nil || got != ProductTypeShoes {
		t.Fatalf("unexpected product type %q err=%v", got, err)
	}
	if _, err := ParseProductSort("popularity"); err == nil {
		t.Fatalf("expected invalid sort")
	}
	if !SpecialOrderStatusContacted.IsValid() || SpecialOrderStatus("x").IsValid() {
		t.Fatalf("special order status validity mismatch")
	}
	if !NotificationKindError.IsValid() {
		t.Fatalf("error kind should be valid")
	}
	if DefaultPaymentMethod.String() != "cash_on_delivery" {
		t.Fatalf("unexpected default payment method")
	}
}
