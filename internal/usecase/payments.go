package usecase

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mealdash/mealadmin/internal/api"
	"github.com/mealdash/mealadmin/internal/i18n"
	"github.com/mealdash/mealadmin/internal/listing"
	"github.com/mealdash/mealadmin/internal/lookup"
	"github.com/mealdash/mealadmin/internal/model"
)

// Payments is the server-paginated payments page with its statistics
// block and refund flow.
type Payments struct {
	deps Deps
	ctrl *listing.Controller[model.Payment]
}

// NewPayments creates the payments usecase.
func NewPayments(deps Deps) *Payments {
	return &Payments{deps: deps, ctrl: listing.NewController[model.Payment]()}
}

// LoadLookups fetches users and restaurants for label resolution.
func (p *Payments) LoadLookups(ctx context.Context) {
	p.deps.Lookups.Load(ctx, map[string]lookup.Fetcher{
		lookup.TableUsers:       userLookupFetcher(p.deps.Client),
		lookup.TableRestaurants: restaurantLookupFetcher(p.deps.Client),
	})
}

// List fetches one page. Valid filters: status, method, date_from,
// date_to; sentinels are stripped by the query encoder.
func (p *Payments) List(ctx context.Context, q listing.Query) ([]model.Payment, api.Pagination, error) {
	return fetchPage(ctx, p.deps.Client, "/api/admin/payments", q, p.ctrl)
}

// Get fetches one payment, used to check refund preconditions against
// the current record rather than a possibly stale row.
func (p *Payments) Get(ctx context.Context, id int64) (model.Payment, error) {
	var payment model.Payment
	path := "/api/admin/payments/" + strconv.FormatInt(id, 10)
	if _, err := p.deps.Client.Get(ctx, path, nil, &payment); err != nil {
		return model.Payment{}, err
	}
	return payment, nil
}

// Statistics fetches the server-computed aggregates. Failures degrade to
// a zero block and are logged, matching the page's non-critical fetch
// policy.
func (p *Payments) Statistics(ctx context.Context) model.PaymentStatistics {
	var stats model.PaymentStatistics
	if _, err := p.deps.Client.Get(ctx, "/api/admin/payments/statistics", nil, &stats); err != nil {
		p.deps.logger().Warn("payment statistics fetch failed", "err", err)
		return model.PaymentStatistics{}
	}
	return stats
}

// UserLabel resolves the paying user for display.
func (p *Payments) UserLabel(payment model.Payment) string {
	return p.deps.Lookups.Resolve(lookup.TableUsers, payment.UserID)
}

// RestaurantLabel resolves the restaurant behind the payment's
// subscription. Payment rows only carry restaurant_id when the backend
// includes the subscription join; otherwise this resolves to the fixed
// placeholder.
func (p *Payments) RestaurantLabel(payment model.Payment) string {
	if payment.RestaurantID == 0 {
		return i18n.T(p.deps.Lookups.Lang(), "not_available")
	}
	return p.deps.Lookups.Resolve(lookup.TableRestaurants, payment.RestaurantID)
}

// Refund refunds a completed payment; preconditions and confirmation are
// enforced by the executor before dispatch.
func (p *Payments) Refund(ctx context.Context, payment model.Payment, amount decimal.Decimal, reason string) error {
	return p.deps.Exec.Refund(ctx, payment, amount, reason)
}

// UpdateStatus moves a pending payment to completed or failed; the
// transition gate and confirmation are enforced by the executor.
func (p *Payments) UpdateStatus(ctx context.Context, payment model.Payment, status string) error {
	return p.deps.Exec.UpdatePaymentStatus(ctx, payment, status)
}
