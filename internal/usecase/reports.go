package usecase

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/mealdash/mealadmin/internal/export"
	"github.com/mealdash/mealadmin/internal/lookup"
	"github.com/mealdash/mealadmin/internal/model"
)

// DateRange bounds a report query. Zero values mean unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) query() url.Values {
	q := url.Values{}
	if !r.From.IsZero() {
		q.Set("date_from", r.From.Format("2006-01-02"))
	}
	if !r.To.IsZero() {
		q.Set("date_to", r.To.Format("2006-01-02"))
	}
	return q
}

// Report is one exportable dataset with its statistics header.
type Report struct {
	Title   string
	Headers []string
	Rows    [][]string
	Summary [][2]string
}

// Reports builds date-ranged exports from the payments and subscriptions
// data, written locally as tab-delimited or HTML files.
type Reports struct {
	deps      Deps
	exportDir string
}

// NewReports creates the reports usecase writing into exportDir.
func NewReports(deps Deps, exportDir string) *Reports {
	return &Reports{deps: deps, exportDir: exportDir}
}

// LoadLookups fetches the tables report rows join against.
func (r *Reports) LoadLookups(ctx context.Context) {
	r.deps.Lookups.Load(ctx, map[string]lookup.Fetcher{
		lookup.TableUsers:       userLookupFetcher(r.deps.Client),
		lookup.TableRestaurants: restaurantLookupFetcher(r.deps.Client),
	})
}

// PaymentsReport fetches payments in the range with their aggregates.
func (r *Reports) PaymentsReport(ctx context.Context, rng DateRange) (Report, error) {
	var payments []model.Payment
	if _, err := r.deps.Client.Get(ctx, "/api/admin/payments", rng.query(), &payments); err != nil {
		return Report{}, err
	}
	var stats model.PaymentStatistics
	if _, err := r.deps.Client.Get(ctx, "/api/admin/payments/statistics", rng.query(), &stats); err != nil {
		r.deps.logger().Warn("payment statistics fetch failed", "err", err)
	}

	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{
			formatID(p.ID),
			r.deps.Lookups.Resolve(lookup.TableUsers, p.UserID),
			p.Amount.StringFixed(2),
			p.DeliveryPrice.StringFixed(2),
			p.Net().StringFixed(2),
			p.Method,
			p.Status,
			p.CreatedAt.Format("2006-01-02"),
		})
	}
	return Report{
		Title:   "payments",
		Headers: []string{"ID", "User", "Amount", "Delivery", "Net", "Method", "Status", "Date"},
		Rows:    rows,
		Summary: [][2]string{
			{"Total payments", formatID(stats.TotalCount)},
			{"Completed", formatID(stats.CompletedCount)},
			{"Pending", formatID(stats.PendingCount)},
			{"Failed", formatID(stats.FailedCount)},
			{"Total amount", stats.TotalAmount.StringFixed(2)},
			{"Refunded amount", stats.RefundedAmount.StringFixed(2)},
		},
	}, nil
}

// SubscriptionsReport fetches subscriptions in the range with their
// aggregates.
func (r *Reports) SubscriptionsReport(ctx context.Context, rng DateRange) (Report, error) {
	var subs []model.Subscription
	if _, err := r.deps.Client.Get(ctx, "/api/admin/subscriptions", rng.query(), &subs); err != nil {
		return Report{}, err
	}
	var stats model.SubscriptionStatistics
	if _, err := r.deps.Client.Get(ctx, "/api/admin/subscriptions/statistics", rng.query(), &stats); err != nil {
		r.deps.logger().Warn("subscription statistics fetch failed", "err", err)
	}

	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, []string{
			formatID(s.ID),
			r.deps.Lookups.Resolve(lookup.TableUsers, s.UserID),
			r.deps.Lookups.Resolve(lookup.TableRestaurants, s.RestaurantID),
			s.Status,
			s.StartDate,
			s.EndDate,
		})
	}
	return Report{
		Title:   "subscriptions",
		Headers: []string{"ID", "User", "Restaurant", "Status", "Start", "End"},
		Rows:    rows,
		Summary: [][2]string{
			{"Total subscriptions", formatID(stats.TotalCount)},
			{"Active", formatID(stats.ActiveCount)},
			{"Paused", formatID(stats.PausedCount)},
			{"Cancelled", formatID(stats.CancelledCount)},
		},
	}, nil
}

// ExportTabDelimited writes the report as a tab-delimited file and
// returns its path. The summary rows follow the data under a blank line.
func (r *Reports) ExportTabDelimited(rep Report) (string, error) {
	return export.WriteTabDelimited(r.exportDir, r.filename(rep), rep.Headers, r.rowsWithSummary(rep))
}

// ExportHTML writes the report as an HTML table and returns its path.
func (r *Reports) ExportHTML(rep Report) (string, error) {
	return export.WriteHTMLTable(r.exportDir, r.filename(rep), rep.Headers, r.rowsWithSummary(rep))
}

func (r *Reports) filename(rep Report) string {
	return rep.Title + "-" + time.Now().Format("20060102-150405")
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

func (r *Reports) rowsWithSummary(rep Report) [][]string {
	rows := make([][]string, 0, len(rep.Rows)+len(rep.Summary)+1)
	rows = append(rows, rep.Rows...)
	if len(rep.Summary) > 0 {
		rows = append(rows, make([]string, len(rep.Headers)))
		for _, s := range rep.Summary {
			rows = append(rows, []string{s[0], s[1]})
		}
	}
	return rows
}
