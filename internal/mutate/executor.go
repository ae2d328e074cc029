// Package mutate executes guarded mutations against the admin API.
// Destructive or consequential operations pass through a Confirmer before
// any network dispatch, and successful mutations run the registered
// invalidation hooks so list and statistics state is refetched.
package mutate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mealdash/mealadmin/internal/api"
	"github.com/mealdash/mealadmin/internal/enum"
	"github.com/mealdash/mealadmin/internal/form"
	"github.com/mealdash/mealadmin/internal/i18n"
	"github.com/mealdash/mealadmin/internal/model"
)

// Confirmer answers yes/no for a localized confirmation message. The CLI
// supplies a stdin prompt; tests supply stubs.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(message string) bool

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(message string) bool { return f(message) }

// Precondition failures, all raised before any network call.
var (
	ErrDeclined       = errors.New("mutate: cancelled by user")
	ErrNotRefundable  = errors.New("mutate: payment is not in a refundable state")
	ErrRefundAmount   = errors.New("mutate: refund amount must be positive and not exceed the original amount")
	ErrRefundReason   = errors.New("mutate: refund reason is required")
	ErrBadTransition  = errors.New("mutate: status transition not allowed")
	ErrInvalidRole    = errors.New("mutate: unknown role")
	ErrItemNotInScope = errors.New("mutate: item does not belong to subscription")
)

// Executor performs create/update/delete and entity-specific transitions.
type Executor struct {
	client    *api.Client
	confirmer Confirmer
	lang      i18n.Lang
	log       *slog.Logger
	onSuccess []func(context.Context)
}

// New creates an Executor.
func New(client *api.Client, confirmer Confirmer, lang i18n.Lang, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{client: client, confirmer: confirmer, lang: lang, log: log}
}

// OnSuccess registers a hook run after every successful mutation,
// typically a list or statistics refetch.
func (e *Executor) OnSuccess(fn func(context.Context)) {
	e.onSuccess = append(e.onSuccess, fn)
}

// Create submits a create draft. Drafts with file attachments go out as
// multipart, others as JSON.
func (e *Executor) Create(ctx context.Context, entity string, f *form.Form) error {
	if err := f.Validate(); err != nil {
		return err
	}
	path := "/api/admin/" + entity
	if err := e.submit(ctx, path, f); err != nil {
		return err
	}
	e.succeed(ctx, "created", "entity", entity)
	return nil
}

// Update submits an edit draft. Multipart updates POST to the record
// path with the _method=PUT override; JSON updates use PUT directly.
func (e *Executor) Update(ctx context.Context, entity string, id int64, f *form.Form) error {
	if err := f.Validate(); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/admin/%s/%d", entity, id)
	if f.HasFiles() {
		if err := e.submit(ctx, path, f); err != nil {
			return err
		}
	} else {
		if err := e.client.PutJSON(ctx, path, f.JSONBody(), nil); err != nil {
			return err
		}
	}
	e.succeed(ctx, "updated", "entity", entity, "id", id)
	return nil
}

// Delete removes a record after confirmation. The network call never
// fires without it.
func (e *Executor) Delete(ctx context.Context, entity string, id int64) error {
	if !e.confirmed("confirm_delete") {
		return ErrDeclined
	}
	if err := e.client.Delete(ctx, fmt.Sprintf("/api/admin/%s/%d", entity, id)); err != nil {
		return err
	}
	e.succeed(ctx, "deleted", "entity", entity, "id", id)
	return nil
}

// SetPrimary marks an address as the user's primary one.
func (e *Executor) SetPrimary(ctx context.Context, addressID int64) error {
	if !e.confirmed("confirm_set_primary") {
		return ErrDeclined
	}
	path := fmt.Sprintf("/api/admin/addresses/%d/set-primary", addressID)
	if err := e.client.PostJSON(ctx, path, nil, nil); err != nil {
		return err
	}
	e.succeed(ctx, "set primary address", "id", addressID)
	return nil
}

// ToggleAvailability flips a meal's availability and returns the
// server-confirmed value. Local state must only be updated from the
// returned value, never optimistically.
func (e *Executor) ToggleAvailability(ctx context.Context, mealID int64) (bool, error) {
	path := fmt.Sprintf("/api/admin/meals/%d/toggle-availability", mealID)
	var out struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := e.client.PostJSON(ctx, path, nil, &out); err != nil {
		return false, err
	}
	e.succeed(ctx, "toggled availability", "id", mealID, "available", out.IsAvailable)
	return out.IsAvailable, nil
}

// ToggleStatus flips an entity's active flag (restaurants, users) after
// confirmation and returns the server-confirmed value.
func (e *Executor) ToggleStatus(ctx context.Context, entity string, id int64) (bool, error) {
	if !e.confirmed("confirm_status") {
		return false, ErrDeclined
	}
	path := fmt.Sprintf("/api/admin/%s/%d/toggle-status", entity, id)
	var out struct {
		IsActive bool `json:"is_active"`
	}
	if err := e.client.PostJSON(ctx, path, nil, &out); err != nil {
		return false, err
	}
	e.succeed(ctx, "toggled status", "entity", entity, "id", id, "active", out.IsActive)
	return out.IsActive, nil
}

// Refund refunds a completed payment. All preconditions are checked
// before dispatch: refundable state, positive amount within the original,
// and a non-empty reason.
func (e *Executor) Refund(ctx context.Context, payment model.Payment, amount decimal.Decimal, reason string) error {
	if !enum.PaymentRefundable(payment.Status) {
		return ErrNotRefundable
	}
	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThan(payment.Amount) {
		return ErrRefundAmount
	}
	if reason == "" {
		return ErrRefundReason
	}
	if !e.confirmed("confirm_refund") {
		return ErrDeclined
	}

	path := fmt.Sprintf("/api/admin/payments/%d/refund", payment.ID)
	body := map[string]any{
		"refund_amount": amount.String(),
		"refund_reason": reason,
	}
	if err := e.client.PostJSON(ctx, path, body, nil); err != nil {
		return err
	}
	e.succeed(ctx, "refunded payment", "id", payment.ID, "amount", amount.String())
	return nil
}

// UpdatePaymentStatus moves a payment through its state machine after
// confirmation. Only pending payments may be edited (to completed or
// failed); refunds go through Refund, and terminal states are rejected
// before any network call.
func (e *Executor) UpdatePaymentStatus(ctx context.Context, payment model.Payment, status string) error {
	if !enum.ValidPaymentStatus(status) {
		return ErrBadTransition
	}
	if !enum.PaymentCanTransition(payment.Status, status) {
		return ErrBadTransition
	}
	if status == enum.PaymentRefunded {
		// Refunds carry an amount and reason; the bare status edit
		// cannot express them.
		return ErrBadTransition
	}
	if !e.confirmed("confirm_status") {
		return ErrDeclined
	}

	path := fmt.Sprintf("/api/admin/payments/%d/status", payment.ID)
	if err := e.client.PostJSON(ctx, path, map[string]string{"status": status}, nil); err != nil {
		return err
	}
	e.succeed(ctx, "updated payment status", "id", payment.ID, "status", status)
	return nil
}

// UpdateItemStatus moves a subscription item through its state machine.
// Transitions are rejected locally when the parent subscription is
// cancelled or the move is not allowed from the item's current state.
func (e *Executor) UpdateItemStatus(ctx context.Context, sub model.Subscription, itemID int64, status string) error {
	if !enum.ValidItemStatus(status) {
		return ErrBadTransition
	}
	var current *model.SubscriptionItem
	for i := range sub.Items {
		if sub.Items[i].ID == itemID {
			current = &sub.Items[i]
			break
		}
	}
	if current == nil {
		return ErrItemNotInScope
	}
	if !enum.ItemCanTransition(sub.Status, current.Status, status) {
		return ErrBadTransition
	}
	if !e.confirmed("confirm_status") {
		return ErrDeclined
	}

	path := fmt.Sprintf("/api/admin/subscriptions/%d/items/%d/status", sub.ID, itemID)
	if err := e.client.PostJSON(ctx, path, map[string]string{"status": status}, nil); err != nil {
		return err
	}
	e.succeed(ctx, "updated item status", "subscription", sub.ID, "item", itemID, "status", status)
	return nil
}

// UpdateRole changes a user's role after confirmation.
func (e *Executor) UpdateRole(ctx context.Context, userID int64, role string) error {
	if !enum.ValidRole(role) {
		return ErrInvalidRole
	}
	if !e.confirmed("confirm_role") {
		return ErrDeclined
	}
	path := fmt.Sprintf("/api/admin/users/%d", userID)
	if err := e.client.PutJSON(ctx, path, map[string]string{"role": role}, nil); err != nil {
		return err
	}
	e.succeed(ctx, "updated role", "id", userID, "role", role)
	return nil
}

func (e *Executor) submit(ctx context.Context, path string, f *form.Form) error {
	if f.HasFiles() {
		body, contentType, err := f.MultipartBody()
		if err != nil {
			return err
		}
		return e.client.Post(ctx, path, contentType, body, nil)
	}
	return e.client.PostJSON(ctx, path, f.JSONBody(), nil)
}

func (e *Executor) confirmed(messageKey string) bool {
	if e.confirmer == nil {
		return false
	}
	return e.confirmer.Confirm(i18n.T(e.lang, messageKey))
}

func (e *Executor) succeed(ctx context.Context, msg string, args ...any) {
	e.log.Info(msg, args...)
	for _, fn := range e.onSuccess {
		fn(ctx)
	}
}
