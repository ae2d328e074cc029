package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mealdash/mealadmin/internal/api"
	"github.com/mealdash/mealadmin/internal/form"
	"github.com/mealdash/mealadmin/internal/listing"
	"github.com/mealdash/mealadmin/internal/lookup"
	"github.com/mealdash/mealadmin/internal/model"
)

// Restaurants is the client-paginated restaurants page.
type Restaurants struct {
	deps Deps
	set  *fullSet[model.Restaurant]
}

// NewRestaurants creates the restaurants usecase.
func NewRestaurants(deps Deps) *Restaurants {
	return &Restaurants{deps: deps, set: newFullSet[model.Restaurant]()}
}

// List applies the client-paginated strategy over the memoized full set.
func (r *Restaurants) List(ctx context.Context, q listing.Query) (listing.Result[model.Restaurant], error) {
	items, err := r.set.get(ctx, r.deps.Client, "/api/admin/restaurants", q)
	if err != nil {
		return listing.Result[model.Restaurant]{}, err
	}
	return listing.Apply(items, q, r.match(q), r.comparators()), nil
}

// Invalidate drops the memoized set so the next List refetches.
func (r *Restaurants) Invalidate() { r.set.invalidate() }

func (r *Restaurants) match(q listing.Query) func(model.Restaurant) bool {
	return listing.MatchAll(
		func(rest model.Restaurant) bool {
			if q.Search == "" {
				return true
			}
			return containsFold(rest.NameEN, q.Search) || containsFold(rest.NameAR, q.Search)
		},
		filterEquals(q, "status", func(rest model.Restaurant) string {
			if rest.IsActive {
				return "active"
			}
			return "inactive"
		}),
	)
}

func (r *Restaurants) comparators() listing.Comparators[model.Restaurant] {
	lang := r.deps.Lookups.Lang()
	return listing.Comparators[model.Restaurant]{
		"id":         listing.ByInt64(func(rest model.Restaurant) int64 { return rest.ID }),
		"name":       listing.ByString(func(rest model.Restaurant) string { return rest.Name().In(lang) }),
		"commission": listing.ByDecimal(func(rest model.Restaurant) decimal.Decimal { return rest.Commission }),
		"created_at": listing.ByTime(func(rest model.Restaurant) time.Time { return rest.CreatedAt }),
	}
}

// CreateForm builds a restaurant create draft; a logo attachment
// switches it to multipart.
func (r *Restaurants) CreateForm(rest model.Restaurant, logo *form.File) *form.Form {
	f := form.New(form.Create)
	seedRestaurant(f, rest)
	f.Require("name_en", "name_ar")
	if logo != nil {
		f.Attach("logo", logo.Filename, logo.Content)
	}
	return f
}

// EditForm seeds a draft from an existing restaurant.
func (r *Restaurants) EditForm(rest model.Restaurant, logo *form.File) *form.Form {
	f := form.New(form.Edit)
	seedRestaurant(f, rest)
	if logo != nil {
		f.Attach("logo", logo.Filename, logo.Content)
	}
	return f
}

func seedRestaurant(f *form.Form, rest model.Restaurant) {
	f.Set("name_ar", rest.NameAR)
	f.Set("name_en", rest.NameEN)
	if !rest.Commission.IsZero() {
		f.Set("commission", rest.Commission)
	}
	f.Set("is_active", rest.IsActive)
}

// Create submits a new restaurant.
func (r *Restaurants) Create(ctx context.Context, f *form.Form) error {
	return r.deps.Exec.Create(ctx, "restaurants", f)
}

// Update submits an edited restaurant.
func (r *Restaurants) Update(ctx context.Context, id int64, f *form.Form) error {
	return r.deps.Exec.Update(ctx, "restaurants", id, f)
}

// Delete removes a restaurant after confirmation.
func (r *Restaurants) Delete(ctx context.Context, id int64) error {
	return r.deps.Exec.Delete(ctx, "restaurants", id)
}

// ToggleStatus flips the active flag after confirmation and returns the
// server-confirmed value.
func (r *Restaurants) ToggleStatus(ctx context.Context, id int64) (bool, error) {
	return r.deps.Exec.ToggleStatus(ctx, "restaurants", id)
}

func restaurantLookupFetcher(client *api.Client) lookup.Fetcher {
	return func(ctx context.Context) ([]lookup.Entry, error) {
		var restaurants []model.Restaurant
		if _, err := client.Get(ctx, "/api/admin/restaurants/list", nil, &restaurants); err != nil {
			return nil, err
		}
		entries := make([]lookup.Entry, 0, len(restaurants))
		for _, rest := range restaurants {
			entries = append(entries, lookup.Entry{ID: rest.ID, Label: rest.Name()})
		}
		return entries, nil
	}
}
