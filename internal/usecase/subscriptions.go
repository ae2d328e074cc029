package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/mealdash/mealadmin/internal/listing"
	"github.com/mealdash/mealadmin/internal/lookup"
	"github.com/mealdash/mealadmin/internal/model"
)

// Subscriptions is the client-paginated subscriptions page with item
// status management.
type Subscriptions struct {
	deps Deps
	set  *fullSet[model.Subscription]
}

// NewSubscriptions creates the subscriptions usecase.
func NewSubscriptions(deps Deps) *Subscriptions {
	return &Subscriptions{deps: deps, set: newFullSet[model.Subscription]()}
}

// LoadLookups fetches users and restaurants for label resolution.
func (s *Subscriptions) LoadLookups(ctx context.Context) {
	s.deps.Lookups.Load(ctx, map[string]lookup.Fetcher{
		lookup.TableUsers:       userLookupFetcher(s.deps.Client),
		lookup.TableRestaurants: restaurantLookupFetcher(s.deps.Client),
	})
}

// List applies the client-paginated strategy over the memoized full set.
func (s *Subscriptions) List(ctx context.Context, q listing.Query) (listing.Result[model.Subscription], error) {
	items, err := s.set.get(ctx, s.deps.Client, "/api/admin/subscriptions", q)
	if err != nil {
		return listing.Result[model.Subscription]{}, err
	}
	return listing.Apply(items, q, s.match(q), s.comparators()), nil
}

// Invalidate drops the memoized set so the next List refetches.
func (s *Subscriptions) Invalidate() { s.set.invalidate() }

// Get fetches one subscription with its items.
func (s *Subscriptions) Get(ctx context.Context, id int64) (model.Subscription, error) {
	var sub model.Subscription
	path := "/api/admin/subscriptions/" + strconv.FormatInt(id, 10)
	if _, err := s.deps.Client.Get(ctx, path, nil, &sub); err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

// Statistics fetches the aggregates block; failures degrade to zeros.
func (s *Subscriptions) Statistics(ctx context.Context) model.SubscriptionStatistics {
	var stats model.SubscriptionStatistics
	if _, err := s.deps.Client.Get(ctx, "/api/admin/subscriptions/statistics", nil, &stats); err != nil {
		s.deps.logger().Warn("subscription statistics fetch failed", "err", err)
		return model.SubscriptionStatistics{}
	}
	return stats
}

// UserLabel resolves the subscribing user for display.
func (s *Subscriptions) UserLabel(sub model.Subscription) string {
	return s.deps.Lookups.Resolve(lookup.TableUsers, sub.UserID)
}

// RestaurantLabel resolves the restaurant for display.
func (s *Subscriptions) RestaurantLabel(sub model.Subscription) string {
	return s.deps.Lookups.Resolve(lookup.TableRestaurants, sub.RestaurantID)
}

// UpdateItemStatus moves one item through its state machine; transition
// rules and confirmation are enforced by the executor.
func (s *Subscriptions) UpdateItemStatus(ctx context.Context, sub model.Subscription, itemID int64, status string) error {
	return s.deps.Exec.UpdateItemStatus(ctx, sub, itemID, status)
}

func (s *Subscriptions) match(q listing.Query) func(model.Subscription) bool {
	return listing.MatchAll(
		func(sub model.Subscription) bool {
			if q.Search == "" {
				return true
			}
			// Search joins against resolved labels, mirroring the grid.
			return containsFold(s.UserLabel(sub), q.Search) ||
				containsFold(s.RestaurantLabel(sub), q.Search)
		},
		filterEquals(q, "status", func(sub model.Subscription) string { return sub.Status }),
		filterEquals(q, "restaurant_id", func(sub model.Subscription) string {
			return strconv.FormatInt(sub.RestaurantID, 10)
		}),
	)
}

func (s *Subscriptions) comparators() listing.Comparators[model.Subscription] {
	return listing.Comparators[model.Subscription]{
		"id":         listing.ByInt64(func(sub model.Subscription) int64 { return sub.ID }),
		"created_at": listing.ByTime(func(sub model.Subscription) time.Time { return sub.CreatedAt }),
		"user":       listing.ByString(func(sub model.Subscription) string { return s.UserLabel(sub) }),
		"restaurant": listing.ByString(func(sub model.Subscription) string { return s.RestaurantLabel(sub) }),
		"status":     listing.ByString(func(sub model.Subscription) string { return sub.Status }),
	}
}
