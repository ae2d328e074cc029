package listing

import (
	"fmt"
	"testing"
	"time"

	"github.com/mealdash/mealadmin/internal/api"
)

type row struct {
	ID      int64
	Name    string
	Created time.Time
}

func rowComparators() Comparators[row] {
	return Comparators[row]{
		"id":         ByInt64(func(r row) int64 { return r.ID }),
		"name":       ByString(func(r row) string { return r.Name }),
		"created_at": ByTime(func(r row) time.Time { return r.Created }),
	}
}

func TestSettersResetPage(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Query)
	}{
		{"search", func(q *Query) { q.SetSearch("kebab") }},
		{"filter", func(q *Query) { q.SetFilter("status", "active") }},
		{"filter cleared", func(q *Query) { q.SetFilter("status", "") }},
		{"sort", func(q *Query) { q.SetSort("id") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := NewQuery(10)
			q.SetPage(5)
			tc.mutate(&q)
			if q.Page.Current != 1 {
				t.Fatalf("expected page reset to 1, got %d", q.Page.Current)
			}
		})
	}
}

func TestSetPageDoesNotResetAnythingElse(t *testing.T) {
	q := NewQuery(10)
	q.SetSearch("rice")
	q.SetFilter("meal_type", "lunch")
	q.SetPage(3)
	if q.Page.Current != 3 || q.Search != "rice" || q.Filters["meal_type"] != "lunch" {
		t.Fatalf("unexpected query state: %#v", q)
	}
}

func TestSortToggle(t *testing.T) {
	q := NewQuery(10)

	q.SetSort("id")
	if q.Sort.Field != "id" || q.Sort.Desc {
		t.Fatalf("first selection should be ascending: %#v", q.Sort)
	}

	q.SetSort("id")
	if !q.Sort.Desc {
		t.Fatalf("second selection should flip to descending")
	}

	q.SetSort("created_at")
	if q.Sort.Field != "created_at" || q.Sort.Desc {
		t.Fatalf("new column should reset to ascending: %#v", q.Sort)
	}
}

func TestEncodeStripsSentinels(t *testing.T) {
	q := NewQuery(20)
	q.SetFilter("status", "all")
	q.SetFilter("method", "")
	q.SetFilter("restaurant_id", "4")
	q.SetSearch("")

	v := q.Encode()
	if v.Has("status") || v.Has("method") || v.Has("search") {
		t.Fatalf("sentinel values must not be transmitted: %v", v)
	}
	if v.Get("restaurant_id") != "4" {
		t.Fatalf("real filter dropped: %v", v)
	}
	if v.Get("page") != "1" || v.Get("per_page") != "20" {
		t.Fatalf("pagination missing: %v", v)
	}
}

func TestEncodeIncludesSort(t *testing.T) {
	q := NewQuery(10)
	q.SetSort("created_at")
	q.SetSort("created_at")
	v := q.Encode()
	if v.Get("sort_by") != "created_at" || v.Get("sort_dir") != "desc" {
		t.Fatalf("unexpected sort encoding: %v", v)
	}
}

func TestApplySortNumeric(t *testing.T) {
	rows := []row{{ID: 3}, {ID: 1}, {ID: 2}}

	q := NewQuery(10)
	q.SetSort("id")
	got := Apply(rows, q, nil, rowComparators())
	if got.Items[0].ID != 1 || got.Items[1].ID != 2 || got.Items[2].ID != 3 {
		t.Fatalf("ascending sort wrong: %#v", got.Items)
	}

	q.SetSort("id")
	got = Apply(rows, q, nil, rowComparators())
	if got.Items[0].ID != 3 || got.Items[1].ID != 2 || got.Items[2].ID != 1 {
		t.Fatalf("descending sort wrong: %#v", got.Items)
	}
}

func TestApplySortIsStableAndCaseInsensitive(t *testing.T) {
	rows := []row{
		{ID: 1, Name: "beta"},
		{ID: 2, Name: "Alpha"},
		{ID: 3, Name: "alpha"},
	}
	q := NewQuery(10)
	q.SetSort("name")
	got := Apply(rows, q, nil, rowComparators())
	// "Alpha" and "alpha" compare equal; original order must hold.
	if got.Items[0].ID != 2 || got.Items[1].ID != 3 || got.Items[2].ID != 1 {
		t.Fatalf("expected stable case-insensitive order, got %#v", got.Items)
	}
}

func TestApplyPaginationMath(t *testing.T) {
	rows := make([]row, 25)
	for i := range rows {
		rows[i] = row{ID: int64(i + 1)}
	}

	q := NewQuery(10)
	got := Apply(rows, q, nil, nil)
	if got.Pagination.TotalPages != 3 || got.Pagination.Total != 25 {
		t.Fatalf("unexpected pagination: %#v", got.Pagination)
	}
	if len(got.Items) != 10 || got.Items[0].ID != 1 || got.Items[9].ID != 10 {
		t.Fatalf("page 1 wrong: %#v", got.Items)
	}

	q.SetPage(3)
	got = Apply(rows, q, nil, nil)
	if len(got.Items) != 5 || got.Items[0].ID != 21 || got.Items[4].ID != 25 {
		t.Fatalf("page 3 wrong: %#v", got.Items)
	}
}

func TestApplyPageNeverExceedsPerPage(t *testing.T) {
	for _, total := range []int{0, 1, 9, 10, 11, 37} {
		t.Run(fmt.Sprintf("total=%d", total), func(t *testing.T) {
			rows := make([]row, total)
			q := NewQuery(10)
			for p := 1; p <= 5; p++ {
				q.SetPage(p)
				got := Apply(rows, q, nil, nil)
				if len(got.Items) > 10 {
					t.Fatalf("page %d has %d items", p, len(got.Items))
				}
			}
		})
	}
}

func TestApplyClampsOutOfRangePage(t *testing.T) {
	rows := make([]row, 12)
	q := NewQuery(10)
	q.SetPage(99)
	got := Apply(rows, q, nil, nil)
	if got.Pagination.CurrentPage != 2 || len(got.Items) != 2 {
		t.Fatalf("expected clamp to last page, got %#v", got.Pagination)
	}
}

func TestApplyFilterPredicate(t *testing.T) {
	rows := []row{{ID: 1, Name: "shawarma"}, {ID: 2, Name: "falafel"}, {ID: 3, Name: "shakshuka"}}
	q := NewQuery(10)
	match := MatchAll(func(r row) bool { return r.Name[0] == 's' })
	got := Apply(rows, q, match, nil)
	if got.Pagination.Total != 2 || len(got.Items) != 2 {
		t.Fatalf("unexpected filter result: %#v", got)
	}
}

func TestControllerDiscardsStaleResponses(t *testing.T) {
	c := NewController[row]()

	first := c.Begin()
	second := c.Begin()

	if ok := c.Complete(second, []row{{ID: 2}}, api.Pagination{Total: 1}); !ok {
		t.Fatalf("latest completion must be accepted")
	}
	// The older fetch finishes late; it must not overwrite fresher state.
	if ok := c.Complete(first, []row{{ID: 1}}, api.Pagination{Total: 1}); ok {
		t.Fatalf("stale completion must be discarded")
	}

	items, page := c.Snapshot()
	if len(items) != 1 || items[0].ID != 2 || page.Total != 1 {
		t.Fatalf("unexpected state: %#v %#v", items, page)
	}
}

func TestControllerFailEmptiesList(t *testing.T) {
	c := NewController[row]()
	ticket := c.Begin()
	if ok := c.Complete(ticket, []row{{ID: 9}}, api.Pagination{Total: 1}); !ok {
		t.Fatalf("completion rejected")
	}

	ticket = c.Begin()
	if ok := c.Fail(ticket); !ok {
		t.Fatalf("latest failure must apply")
	}
	items, page := c.Snapshot()
	if len(items) != 0 || page.Total != 0 {
		t.Fatalf("expected empty state after failure, got %#v %#v", items, page)
	}
}

func TestControllerStaleFailureIgnored(t *testing.T) {
	c := NewController[row]()
	old := c.Begin()
	fresh := c.Begin()
	if ok := c.Complete(fresh, []row{{ID: 5}}, api.Pagination{Total: 1}); !ok {
		t.Fatalf("completion rejected")
	}
	if ok := c.Fail(old); ok {
		t.Fatalf("stale failure must be ignored")
	}
	items, _ := c.Snapshot()
	if len(items) != 1 {
		t.Fatalf("fresh data lost")
	}
}
