package usecase

import (
	"context"

	"github.com/mealdash/mealadmin/internal/api"
	"github.com/mealdash/mealadmin/internal/form"
	"github.com/mealdash/mealadmin/internal/i18n"
	"github.com/mealdash/mealadmin/internal/listing"
	"github.com/mealdash/mealadmin/internal/lookup"
	"github.com/mealdash/mealadmin/internal/model"
)

// Addresses is the server-paginated addresses page.
type Addresses struct {
	deps Deps
	ctrl *listing.Controller[model.Address]
}

// NewAddresses creates the addresses usecase.
func NewAddresses(deps Deps) *Addresses {
	return &Addresses{deps: deps, ctrl: listing.NewController[model.Address]()}
}

// LoadLookups fetches the reference tables the page joins against.
func (a *Addresses) LoadLookups(ctx context.Context) {
	a.deps.Lookups.Load(ctx, map[string]lookup.Fetcher{
		lookup.TableUsers: userLookupFetcher(a.deps.Client),
		lookup.TableAreas: areaLookupFetcher(a.deps.Client),
	})
}

// List fetches one page from the backend using the encoded query.
func (a *Addresses) List(ctx context.Context, q listing.Query) ([]model.Address, api.Pagination, error) {
	return fetchPage(ctx, a.deps.Client, "/api/admin/addresses", q, a.ctrl)
}

// UserLabel resolves the owning user for display.
func (a *Addresses) UserLabel(addr model.Address) string {
	return a.deps.Lookups.Resolve(lookup.TableUsers, addr.UserID)
}

// AreaLabel resolves the delivery area for display.
func (a *Addresses) AreaLabel(addr model.Address) string {
	return a.deps.Lookups.Resolve(lookup.TableAreas, addr.AreaID)
}

// CreateForm builds a create draft with the page's required fields.
func (a *Addresses) CreateForm(userID, areaID int64, street, building, floor, notes string) *form.Form {
	f := form.New(form.Create).
		Set("user_id", userID).
		Set("area_id", areaID).
		Set("street", street).
		Set("building", building).
		Set("floor", floor).
		Set("notes", notes).
		Require("user_id", "area_id", "street")
	return f
}

// EditForm seeds a draft from an existing address.
func (a *Addresses) EditForm(addr model.Address) *form.Form {
	return form.New(form.Edit).Seed(map[string]any{
		"user_id":  addr.UserID,
		"area_id":  addr.AreaID,
		"street":   addr.Street,
		"building": addr.Building,
		"floor":    addr.Floor,
		"notes":    addr.Notes,
	}).Require("user_id", "area_id", "street")
}

// Create submits a new address.
func (a *Addresses) Create(ctx context.Context, f *form.Form) error {
	return a.deps.Exec.Create(ctx, "addresses", f)
}

// Update submits an edited address.
func (a *Addresses) Update(ctx context.Context, id int64, f *form.Form) error {
	return a.deps.Exec.Update(ctx, "addresses", id, f)
}

// Delete removes an address after confirmation.
func (a *Addresses) Delete(ctx context.Context, id int64) error {
	return a.deps.Exec.Delete(ctx, "addresses", id)
}

// SetPrimary promotes an address to the user's primary one.
func (a *Addresses) SetPrimary(ctx context.Context, id int64) error {
	return a.deps.Exec.SetPrimary(ctx, id)
}

func userLookupFetcher(client *api.Client) lookup.Fetcher {
	return func(ctx context.Context) ([]lookup.Entry, error) {
		var users []model.User
		if _, err := client.Get(ctx, "/api/admin/users/list", nil, &users); err != nil {
			return nil, err
		}
		entries := make([]lookup.Entry, 0, len(users))
		for _, u := range users {
			// User names are not bilingual; the same label serves both.
			entries = append(entries, lookup.Entry{ID: u.ID, Label: i18n.Text{EN: u.Name, AR: u.Name}})
		}
		return entries, nil
	}
}

func areaLookupFetcher(client *api.Client) lookup.Fetcher {
	return func(ctx context.Context) ([]lookup.Entry, error) {
		var areas []model.Area
		if _, err := client.Get(ctx, "/api/admin/areas/list", nil, &areas); err != nil {
			return nil, err
		}
		entries := make([]lookup.Entry, 0, len(areas))
		for _, ar := range areas {
			entries = append(entries, lookup.Entry{ID: ar.ID, Label: ar.Name()})
		}
		return entries, nil
	}
}
