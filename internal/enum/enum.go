// Package enum defines the status, method, and role vocabularies used by
// the admin API, plus the transition rules for stateful entities.
package enum

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentRefunded  = "refunded"
	PaymentFailed    = "failed"
)

// Payment methods.
const (
	MethodCard   = "card"
	MethodCash   = "cash"
	MethodWallet = "wallet"
)

// Subscription statuses.
const (
	SubscriptionActive    = "active"
	SubscriptionPaused    = "paused"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// Subscription item statuses.
const (
	ItemPending   = "pending"
	ItemPreparing = "preparing"
	ItemDelivered = "delivered"
	ItemCancelled = "cancelled"
)

// User roles.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleCustomer = "customer"
)

// Meal types.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// paymentNext lists the states a payment may move to from each state.
// Refund is the only path out of completed; failed and refunded are
// terminal.
var paymentNext = map[string][]string{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
}

// itemNext lists the states a subscription item may move to. Any
// non-terminal state may be cancelled.
var itemNext = map[string][]string{
	ItemPending:   {ItemPreparing, ItemCancelled},
	ItemPreparing: {ItemDelivered, ItemCancelled},
}

// PaymentCanTransition reports whether a payment may move from one state
// to another.
func PaymentCanTransition(from, to string) bool {
	return contains(paymentNext[from], to)
}

// PaymentRefundable reports whether a payment in the given state may be
// refunded.
func PaymentRefundable(status string) bool {
	return status == PaymentCompleted
}

// ItemCanTransition reports whether a subscription item may move from one
// state to another. subscriptionStatus is the parent subscription's
// status; a cancelled subscription freezes its items.
func ItemCanTransition(subscriptionStatus, from, to string) bool {
	if subscriptionStatus == SubscriptionCancelled {
		return false
	}
	return contains(itemNext[from], to)
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

// ValidItemStatus reports whether s is a known subscription item status.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemPending, ItemPreparing, ItemDelivered, ItemCancelled:
		return true
	}
	return false
}

// ValidRole reports whether s is a known user role.
func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleManager, RoleCustomer:
		return true
	}
	return false
}

// ValidMealType reports whether s is a known meal type.
func ValidMealType(s string) bool {
	switch s {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
