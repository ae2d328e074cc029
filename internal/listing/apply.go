package listing

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mealdash/mealadmin/internal/api"
)

// Comparator orders two records for a sort column. Negative means a
// before b.
type Comparator[T any] func(a, b T) int

// Comparators maps sort field names to their comparators. Each entity
// registers its own table: numeric ids, dates, case-insensitive strings,
// and derived values all look the same to Apply.
type Comparators[T any] map[string]Comparator[T]

// Result is one rendered page plus its pagination metadata.
type Result[T any] struct {
	Items      []T
	Pagination api.Pagination
}

// Apply runs the client-paginated strategy: filter with match (nil keeps
// everything), sort stably by the registered comparator, and slice the
// requested page. Out-of-range pages clamp to the last page.
func Apply[T any](items []T, q Query, match func(T) bool, cmps Comparators[T]) Result[T] {
	filtered := items
	if match != nil {
		filtered = make([]T, 0, len(items))
		for _, item := range items {
			if match(item) {
				filtered = append(filtered, item)
			}
		}
	}

	if cmp, ok := cmps[q.Sort.Field]; ok && q.Sort.Field != "" {
		sorted := make([]T, len(filtered))
		copy(sorted, filtered)
		sort.SliceStable(sorted, func(i, j int) bool {
			c := cmp(sorted[i], sorted[j])
			if q.Sort.Desc {
				return c > 0
			}
			return c < 0
		})
		filtered = sorted
	}

	total := len(filtered)
	perPage := q.Page.PerPage
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (total + perPage - 1) / perPage

	current := q.Page.Current
	if current < 1 {
		current = 1
	}
	if totalPages > 0 && current > totalPages {
		current = totalPages
	}

	start := (current - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result[T]{
		Items: filtered[start:end],
		Pagination: api.Pagination{
			CurrentPage: current,
			PerPage:     perPage,
			Total:       total,
			TotalPages:  totalPages,
		},
	}
}

// ByInt64 builds a comparator from an integer key.
func ByInt64[T any](key func(T) int64) Comparator[T] {
	return func(a, b T) int {
		av, bv := key(a), key(b)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	}
}

// ByTime builds a comparator from a timestamp key.
func ByTime[T any](key func(T) time.Time) Comparator[T] {
	return func(a, b T) int {
		av, bv := key(a), key(b)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		default:
			return 0
		}
	}
}

// ByString builds a case-insensitive comparator from a string key. Used
// both for plain fields and for derived values such as resolved lookup
// labels.
func ByString[T any](key func(T) string) Comparator[T] {
	return func(a, b T) int {
		return strings.Compare(strings.ToLower(key(a)), strings.ToLower(key(b)))
	}
}

// ByDecimal builds a comparator from a money key, e.g. a payment's
// amount minus delivery price.
func ByDecimal[T any](key func(T) decimal.Decimal) Comparator[T] {
	return func(a, b T) int {
		return key(a).Cmp(key(b))
	}
}

// MatchAll combines filter predicates; a record matches when every
// predicate accepts it.
func MatchAll[T any](preds ...func(T) bool) func(T) bool {
	return func(item T) bool {
		for _, p := range preds {
			if p != nil && !p(item) {
				return false
			}
		}
		return true
	}
}
