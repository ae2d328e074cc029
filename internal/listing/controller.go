package listing

import (
	"sync"

	"github.com/mealdash/mealadmin/internal/api"
)

// Controller owns the rendered state of one list view and serializes
// fetch completions. Every fetch takes a ticket from Begin; a completion
// whose ticket is not the latest issued is discarded, so a slow response
// for an old query can never overwrite a newer one.
type Controller[T any] struct {
	mu     sync.Mutex
	issued uint64
	items  []T
	page   api.Pagination
}

// NewController returns an empty controller.
func NewController[T any]() *Controller[T] {
	return &Controller[T]{}
}

// Begin issues a ticket for a new fetch and marks it as the latest.
func (c *Controller[T]) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return c.issued
}

// Complete installs a fetch result. It reports false, leaving state
// untouched, when a newer fetch was issued after this ticket.
func (c *Controller[T]) Complete(ticket uint64, items []T, page api.Pagination) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket != c.issued {
		return false
	}
	c.items = items
	c.page = page
	return true
}

// Fail records a failed fetch. The view degrades to an empty list rather
// than keeping stale rows; stale failures are ignored.
func (c *Controller[T]) Fail(ticket uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket != c.issued {
		return false
	}
	c.items = nil
	c.page = api.Pagination{}
	return true
}

// Snapshot returns the current page of records and its metadata.
func (c *Controller[T]) Snapshot() ([]T, api.Pagination) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return items, c.page
}
