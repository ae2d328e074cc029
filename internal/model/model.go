// Package model holds the admin-managed entity records as returned by the
// backend, plus the derived statistics aggregates redisplayed per page.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mealdash/mealadmin/internal/i18n"
)

// Address is a delivery address owned by a user.
type Address struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	AreaID    int64     `json:"area_id"`
	Street    string    `json:"street"`
	Building  string    `json:"building"`
	Floor     string    `json:"floor"`
	Notes     string    `json:"notes"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// Meal is a restaurant menu item.
type Meal struct {
	ID           int64           `json:"id"`
	RestaurantID int64           `json:"restaurant_id"`
	NameAR       string          `json:"name_ar"`
	NameEN       string          `json:"name_en"`
	MealType     string          `json:"meal_type"`
	Price        decimal.Decimal `json:"price"`
	DeliveryTime string          `json:"delivery_time"`
	ImageURL     string          `json:"image_url"`
	IsAvailable  bool            `json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Name returns the meal name as a bilingual text.
func (m Meal) Name() i18n.Text { return i18n.Text{EN: m.NameEN, AR: m.NameAR} }

// Payment is a charge against a subscription.
type Payment struct {
	ID             int64           `json:"id"`
	SubscriptionID int64           `json:"subscription_id"`
	UserID         int64           `json:"user_id"`
	RestaurantID   int64           `json:"restaurant_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	DeliveryPrice  decimal.Decimal `json:"delivery_price"`
	Method         string          `json:"method"`
	Status         string          `json:"status"`
	RefundAmount   decimal.Decimal `json:"refund_amount"`
	RefundReason   string          `json:"refund_reason"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Net is the payment amount minus the delivery price. Used as a derived
// sort key.
func (p Payment) Net() decimal.Decimal { return p.Amount.Sub(p.DeliveryPrice) }

// Subscription groups scheduled meal deliveries for a user.
type Subscription struct {
	ID           int64              `json:"id"`
	UserID       int64              `json:"user_id"`
	RestaurantID int64              `json:"restaurant_id"`
	Status       string             `json:"status"`
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	Items        []SubscriptionItem `json:"items"`
	CreatedAt    time.Time          `json:"created_at"`
}

// SubscriptionItem is a single scheduled delivery within a subscription.
type SubscriptionItem struct {
	ID           int64  `json:"id"`
	MealID       int64  `json:"meal_id"`
	DeliveryDate string `json:"delivery_date"`
	Status       string `json:"status"`
}

// Restaurant is a partner kitchen.
type Restaurant struct {
	ID         int64           `json:"id"`
	NameAR     string          `json:"name_ar"`
	NameEN     string          `json:"name_en"`
	Commission decimal.Decimal `json:"commission"`
	LogoURL    string          `json:"logo_url"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Name returns the restaurant name as a bilingual text.
func (r Restaurant) Name() i18n.Text { return i18n.Text{EN: r.NameEN, AR: r.NameAR} }

// User is a platform account visible to admins.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Area is a delivery zone, used only for lookups.
type Area struct {
	ID     int64  `json:"id"`
	NameAR string `json:"name_ar"`
	NameEN string `json:"name_en"`
}

// Name returns the area name as a bilingual text.
func (a Area) Name() i18n.Text { return i18n.Text{EN: a.NameEN, AR: a.NameAR} }

// PaymentStatistics are the server-computed aggregates shown on the
// payments and reports pages.
type PaymentStatistics struct {
	TotalCount     int64           `json:"total_count"`
	CompletedCount int64           `json:"completed_count"`
	PendingCount   int64           `json:"pending_count"`
	FailedCount    int64           `json:"failed_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
}

// SubscriptionStatistics are the aggregates shown on the subscriptions
// page.
type SubscriptionStatistics struct {
	TotalCount     int64 `json:"total_count"`
	ActiveCount    int64 `json:"active_count"`
	PausedCount    int64 `json:"paused_count"`
	CancelledCount int64 `json:"cancelled_count"`
}

// UserStatistics are the aggregates shown on the users page.
type UserStatistics struct {
	TotalCount    int64 `json:"total_count"`
	ActiveCount   int64 `json:"active_count"`
	NewThisMonth  int64 `json:"new_this_month"`
	CustomerCount int64 `json:"customer_count"`
}
