package enum

import "testing"

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{PaymentPending, PaymentCompleted, true},
		{PaymentPending, PaymentFailed, true},
		{PaymentCompleted, PaymentRefunded, true},
		{PaymentPending, PaymentRefunded, false},
		{PaymentFailed, PaymentCompleted, false},
		{PaymentRefunded, PaymentCompleted, false},
	}

	for _, tc := range cases {
		if got := PaymentCanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("PaymentCanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPaymentRefundable(t *testing.T) {
	if !PaymentRefundable(PaymentCompleted) {
		t.Fatalf("completed payments must be refundable")
	}
	for _, s := range []string{PaymentPending, PaymentFailed, PaymentRefunded} {
		if PaymentRefundable(s) {
			t.Fatalf("%s must not be refundable", s)
		}
	}
}

func TestItemTransitions(t *testing.T) {
	cases := []struct {
		subStatus, from, to string
		want                bool
	}{
		{SubscriptionActive, ItemPending, ItemPreparing, true},
		{SubscriptionActive, ItemPreparing, ItemDelivered, true},
		{SubscriptionActive, ItemPending, ItemCancelled, true},
		{SubscriptionActive, ItemPreparing, ItemCancelled, true},
		{SubscriptionActive, ItemPending, ItemDelivered, false},
		{SubscriptionActive, ItemDelivered, ItemCancelled, false},
		{SubscriptionActive, ItemCancelled, ItemPending, false},
		{SubscriptionCancelled, ItemPending, ItemPreparing, false},
	}

	for _, tc := range cases {
		if got := ItemCanTransition(tc.subStatus, tc.from, tc.to); got != tc.want {
			t.Errorf("ItemCanTransition(%s, %s, %s) = %v, want %v", tc.subStatus, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidators(t *testing.T) {
	if !ValidRole(RoleManager) || ValidRole("superhero") {
		t.Fatalf("role validation wrong")
	}
	if !ValidMealType(MealLunch) || ValidMealType("brunch") {
		t.Fatalf("meal type validation wrong")
	}
	if !ValidPaymentStatus(PaymentRefunded) || ValidPaymentStatus("held") {
		t.Fatalf("payment status validation wrong")
	}
	if !ValidItemStatus(ItemDelivered) || ValidItemStatus("lost") {
		t.Fatalf("item status validation wrong")
	}
}
