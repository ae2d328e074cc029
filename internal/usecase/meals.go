package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mealdash/mealadmin/internal/form"
	"github.com/mealdash/mealadmin/internal/listing"
	"github.com/mealdash/mealadmin/internal/lookup"
	"github.com/mealdash/mealadmin/internal/model"
)

// mealRequiredFields are always transmitted, even when logically empty,
// to satisfy the server-side required validation.
var mealRequiredFields = []string{"restaurant_id", "name_ar", "name_en", "meal_type", "delivery_time"}

// Meals is the client-paginated meals page: the full set is fetched once
// per (search, filter) combination and filtered, sorted, and sliced
// locally.
type Meals struct {
	deps Deps
	set  *fullSet[model.Meal]
}

// NewMeals creates the meals usecase.
func NewMeals(deps Deps) *Meals {
	return &Meals{deps: deps, set: newFullSet[model.Meal]()}
}

// LoadLookups fetches the restaurant table for label resolution.
func (m *Meals) LoadLookups(ctx context.Context) {
	m.deps.Lookups.Load(ctx, map[string]lookup.Fetcher{
		lookup.TableRestaurants: restaurantLookupFetcher(m.deps.Client),
	})
}

// List applies the client-paginated strategy over the memoized full set.
func (m *Meals) List(ctx context.Context, q listing.Query) (listing.Result[model.Meal], error) {
	items, err := m.set.get(ctx, m.deps.Client, "/api/admin/meals", q)
	if err != nil {
		return listing.Result[model.Meal]{}, err
	}
	return listing.Apply(items, q, m.match(q), m.comparators()), nil
}

// Invalidate drops the memoized set so the next List refetches.
func (m *Meals) Invalidate() { m.set.invalidate() }

// RestaurantLabel resolves the owning restaurant for display.
func (m *Meals) RestaurantLabel(meal model.Meal) string {
	return m.deps.Lookups.Resolve(lookup.TableRestaurants, meal.RestaurantID)
}

func (m *Meals) match(q listing.Query) func(model.Meal) bool {
	return listing.MatchAll(
		func(meal model.Meal) bool {
			if q.Search == "" {
				return true
			}
			return containsFold(meal.NameEN, q.Search) || containsFold(meal.NameAR, q.Search)
		},
		filterEquals(q, "restaurant_id", func(meal model.Meal) string {
			return strconv.FormatInt(meal.RestaurantID, 10)
		}),
		filterEquals(q, "meal_type", func(meal model.Meal) string { return meal.MealType }),
		filterEquals(q, "availability", func(meal model.Meal) string {
			return strconv.FormatBool(meal.IsAvailable)
		}),
	)
}

func (m *Meals) comparators() listing.Comparators[model.Meal] {
	lang := m.deps.Lookups.Lang()
	return listing.Comparators[model.Meal]{
		"id":         listing.ByInt64(func(meal model.Meal) int64 { return meal.ID }),
		"name":       listing.ByString(func(meal model.Meal) string { return meal.Name().In(lang) }),
		"price":      listing.ByDecimal(func(meal model.Meal) decimal.Decimal { return meal.Price }),
		"created_at": listing.ByTime(func(meal model.Meal) time.Time { return meal.CreatedAt }),
		// Derived value: sorts by the resolved restaurant label, not the id.
		"restaurant": listing.ByString(func(meal model.Meal) string { return m.RestaurantLabel(meal) }),
	}
}

// CreateForm builds a meal create draft. The always-required set is sent
// even when fields are empty; an image attachment switches the draft to
// multipart.
func (m *Meals) CreateForm(meal model.Meal, image *form.File) *form.Form {
	f := form.New(form.Create)
	seedMeal(f, meal)
	f.AlwaysSend(mealRequiredFields...)
	f.Require("restaurant_id", "name_en", "meal_type")
	if image != nil {
		f.Attach("image", image.Filename, image.Content)
	}
	return f
}

// EditForm seeds a draft from an existing meal.
func (m *Meals) EditForm(meal model.Meal, image *form.File) *form.Form {
	f := form.New(form.Edit)
	seedMeal(f, meal)
	f.AlwaysSend(mealRequiredFields...)
	if image != nil {
		f.Attach("image", image.Filename, image.Content)
	}
	return f
}

func seedMeal(f *form.Form, meal model.Meal) {
	if meal.RestaurantID != 0 {
		f.Set("restaurant_id", meal.RestaurantID)
	}
	f.Set("name_ar", meal.NameAR)
	f.Set("name_en", meal.NameEN)
	f.Set("meal_type", meal.MealType)
	f.Set("delivery_time", meal.DeliveryTime)
	if !meal.Price.IsZero() {
		f.Set("price", meal.Price)
	}
	f.Set("is_available", meal.IsAvailable)
}

// Create submits a new meal.
func (m *Meals) Create(ctx context.Context, f *form.Form) error {
	return m.deps.Exec.Create(ctx, "meals", f)
}

// Update submits an edited meal.
func (m *Meals) Update(ctx context.Context, id int64, f *form.Form) error {
	return m.deps.Exec.Update(ctx, "meals", id, f)
}

// Delete removes a meal after confirmation.
func (m *Meals) Delete(ctx context.Context, id int64) error {
	return m.deps.Exec.Delete(ctx, "meals", id)
}

// ToggleAvailability flips availability and returns the confirmed value.
func (m *Meals) ToggleAvailability(ctx context.Context, id int64) (bool, error) {
	return m.deps.Exec.ToggleAvailability(ctx, id)
}

// filterEquals builds a predicate matching one structured filter; empty
// and "all" values match everything.
func filterEquals[T any](q listing.Query, key string, value func(T) string) func(T) bool {
	want := q.Filters[key]
	if want == "" || want == "all" {
		return nil
	}
	return func(item T) bool { return value(item) == want }
}
