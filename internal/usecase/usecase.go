// Package usecase wires the listing, lookup, form, and mutation layers
// into one orchestrator per admin page.
package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/mealdash/mealadmin/internal/api"
	"github.com/mealdash/mealadmin/internal/listing"
	"github.com/mealdash/mealadmin/internal/lookup"
	"github.com/mealdash/mealadmin/internal/mutate"
)

// Deps are the shared collaborators injected into every usecase.
type Deps struct {
	Client  *api.Client
	Lookups *lookup.Cache
	Exec    *mutate.Executor
	Log     *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

// fetchPage runs one server-paginated fetch under the controller's
// stale-response guard. On failure the view degrades to an empty list
// and the error is reported to the caller.
func fetchPage[T any](ctx context.Context, client *api.Client, path string, q listing.Query, ctrl *listing.Controller[T]) ([]T, api.Pagination, error) {
	ticket := ctrl.Begin()

	var items []T
	page, err := client.Get(ctx, path, q.Encode(), &items)
	if err != nil {
		ctrl.Fail(ticket)
		return nil, api.Pagination{}, err
	}

	var p api.Pagination
	if page != nil {
		p = *page
	} else {
		// Backend omitted pagination; trust the page we asked for.
		p = api.Pagination{
			CurrentPage: q.Page.Current,
			PerPage:     q.Page.PerPage,
			Total:       len(items),
			TotalPages:  1,
		}
	}

	if !ctrl.Complete(ticket, items, p) {
		// A newer fetch superseded this one; serve its state instead.
		fresh, freshPage := ctrl.Snapshot()
		return fresh, freshPage, nil
	}
	return items, p, nil
}

// fullSet memoizes the full result set for client-paginated entities.
// The backend is hit once per distinct (search, filters) combination;
// page and sort changes replay against the memo.
type fullSet[T any] struct {
	key   string
	items []T
	ctrl  *listing.Controller[T]
}

func newFullSet[T any]() *fullSet[T] {
	return &fullSet[T]{ctrl: listing.NewController[T]()}
}

func (f *fullSet[T]) get(ctx context.Context, client *api.Client, path string, q listing.Query) ([]T, error) {
	key := fetchKey(q)
	if key == f.key && f.items != nil {
		return f.items, nil
	}

	ticket := f.ctrl.Begin()
	var items []T
	if _, err := client.Get(ctx, path, nil, &items); err != nil {
		f.ctrl.Fail(ticket)
		f.items = nil
		f.key = ""
		return nil, err
	}
	if !f.ctrl.Complete(ticket, items, api.Pagination{Total: len(items)}) {
		fresh, _ := f.ctrl.Snapshot()
		return fresh, nil
	}
	f.items = items
	f.key = key
	return items, nil
}

// invalidate forces a refetch on the next access, used after mutations.
func (f *fullSet[T]) invalidate() {
	f.items = nil
	f.key = ""
}

func fetchKey(q listing.Query) string {
	keys := make([]string, 0, len(q.Filters))
	for k, v := range q.Filters {
		if v == "" || v == "all" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(q.Search)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(q.Filters[k])
	}
	return b.String()
}

// containsFold is the search predicate used by client-paginated lists.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
