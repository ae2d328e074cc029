// Package listing implements the list-management cycle shared by every
// admin page: query state, server-side query encoding, client-side
// filter/sort/paginate, and a stale-response guard for in-flight fetches.
package listing

import (
	"net/url"
	"strconv"
)

// noConstraint is the sentinel meaning "no filter"; it is stripped from
// outgoing requests together with empty values.
const noConstraint = "all"

// Sort names the active sort column and direction.
type Sort struct {
	Field string
	Desc  bool
}

// Page is the pagination cursor.
type Page struct {
	Current int
	PerPage int
}

// Query is the full query state for a list view. Mutate it through the
// setters: any change to search, filters, or sort resets the page to 1.
type Query struct {
	Search  string
	Filters map[string]string
	Sort    Sort
	Page    Page
}

// NewQuery returns a query on page 1 with the given page size.
func NewQuery(perPage int) Query {
	return Query{
		Filters: map[string]string{},
		Page:    Page{Current: 1, PerPage: perPage},
	}
}

// SetSearch replaces the search term and resets to page 1.
func (q *Query) SetSearch(term string) {
	q.Search = term
	q.Page.Current = 1
}

// SetFilter sets one structured filter and resets to page 1. Empty and
// "all" values are kept in the map as explicit no-constraint markers and
// stripped at encode time.
func (q *Query) SetFilter(key, value string) {
	if q.Filters == nil {
		q.Filters = map[string]string{}
	}
	q.Filters[key] = value
	q.Page.Current = 1
}

// SetSort selects the sort column. Selecting the active column flips the
// direction; selecting a new column resets to ascending. Either way the
// page resets to 1.
func (q *Query) SetSort(field string) {
	if q.Sort.Field == field {
		q.Sort.Desc = !q.Sort.Desc
	} else {
		q.Sort = Sort{Field: field}
	}
	q.Page.Current = 1
}

// SetPage moves the cursor without touching the rest of the query.
func (q *Query) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	q.Page.Current = n
}

// Encode serializes the query for a server-paginated request. Filter
// values of "" and "all" mean "no constraint" and are never transmitted.
func (q Query) Encode() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for key, value := range q.Filters {
		if value == "" || value == noConstraint {
			continue
		}
		v.Set(key, value)
	}
	if q.Sort.Field != "" {
		v.Set("sort_by", q.Sort.Field)
		if q.Sort.Desc {
			v.Set("sort_dir", "desc")
		} else {
			v.Set("sort_dir", "asc")
		}
	}
	v.Set("page", strconv.Itoa(q.Page.Current))
	v.Set("per_page", strconv.Itoa(q.Page.PerPage))
	return v
}
