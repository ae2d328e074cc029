package usecase

import (
	"context"

	"github.com/mealdash/mealadmin/internal/api"
	"github.com/mealdash/mealadmin/internal/form"
	"github.com/mealdash/mealadmin/internal/listing"
	"github.com/mealdash/mealadmin/internal/model"
)

// minPasswordLen matches the backend's account password policy.
const minPasswordLen = 8

// Users is the server-paginated users page with role and status
// management.
type Users struct {
	deps Deps
	ctrl *listing.Controller[model.User]
}

// NewUsers creates the users usecase.
func NewUsers(deps Deps) *Users {
	return &Users{deps: deps, ctrl: listing.NewController[model.User]()}
}

// List fetches one page. Valid filters: role, status; sentinels are
// stripped by the query encoder.
func (u *Users) List(ctx context.Context, q listing.Query) ([]model.User, api.Pagination, error) {
	return fetchPage(ctx, u.deps.Client, "/api/admin/users", q, u.ctrl)
}

// Statistics fetches the server-computed aggregates. Failures degrade to
// a zero block and are logged.
func (u *Users) Statistics(ctx context.Context) model.UserStatistics {
	var stats model.UserStatistics
	if _, err := u.deps.Client.Get(ctx, "/api/admin/users/statistics", nil, &stats); err != nil {
		u.deps.logger().Warn("user statistics fetch failed", "err", err)
		return model.UserStatistics{}
	}
	return stats
}

// CreateForm builds an account create draft. The password pair is
// validated locally before it ever reaches the form.
func (u *Users) CreateForm(user model.User, password, confirmation string) (*form.Form, error) {
	if err := form.ValidatePassword(password, confirmation, minPasswordLen); err != nil {
		return nil, err
	}
	f := form.New(form.Create)
	seedUser(f, user)
	f.Set("password", password)
	f.Require("name", "email", "phone", "role")
	return f, nil
}

// EditForm seeds a draft from an existing account. Passwords are never
// edited here; role changes go through UpdateRole.
func (u *Users) EditForm(user model.User) *form.Form {
	f := form.New(form.Edit)
	seedUser(f, user)
	f.Require("name", "email", "phone")
	return f
}

func seedUser(f *form.Form, user model.User) {
	f.Set("name", user.Name)
	f.Set("email", user.Email)
	f.Set("phone", user.Phone)
	f.Set("role", user.Role)
	f.Set("is_active", user.IsActive)
}

// Create submits a new account.
func (u *Users) Create(ctx context.Context, f *form.Form) error {
	return u.deps.Exec.Create(ctx, "users", f)
}

// Update submits an edited account.
func (u *Users) Update(ctx context.Context, id int64, f *form.Form) error {
	return u.deps.Exec.Update(ctx, "users", id, f)
}

// Delete removes an account after confirmation.
func (u *Users) Delete(ctx context.Context, id int64) error {
	return u.deps.Exec.Delete(ctx, "users", id)
}

// UpdateRole changes an account's role after confirmation.
func (u *Users) UpdateRole(ctx context.Context, id int64, role string) error {
	return u.deps.Exec.UpdateRole(ctx, id, role)
}

// ToggleStatus flips the active flag after confirmation and returns the
// server-confirmed value.
func (u *Users) ToggleStatus(ctx context.Context, id int64) (bool, error) {
	return u.deps.Exec.ToggleStatus(ctx, "users", id)
}
