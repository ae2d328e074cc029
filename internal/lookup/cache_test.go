package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mealdash/mealadmin/internal/database"
	"github.com/mealdash/mealadmin/internal/i18n"
)

func setupRepo(t *testing.T) *database.LookupRepository {
	t.Helper()
	dbCtx, err := database.CreateDatabase(":memory:")
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	t.Cleanup(func() {
		_ = database.CloseDatabase(dbCtx)
	})
	return database.NewLookupRepository(dbCtx)
}

func TestResolveMissReturnsPlaceholder(t *testing.T) {
	table := NewTable([]Entry{{ID: 1, Label: i18n.Text{EN: "Shawarma House", AR: "بيت الشاورما"}}})

	if got := table.Resolve(1, i18n.English); got != "Shawarma House" {
		t.Fatalf("expected label, got %q", got)
	}
	if got := table.Resolve(99, i18n.English); got != "Unknown" {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := table.Resolve(99, i18n.Arabic); got != "غير معروف" {
		t.Fatalf("expected localized placeholder, got %q", got)
	}
}

func TestResolveBilingual(t *testing.T) {
	table := NewTable([]Entry{{ID: 5, Label: i18n.Text{EN: "Downtown", AR: "وسط المدينة"}}})

	if got := table.Resolve(5, i18n.Arabic); got != "وسط المدينة" {
		t.Fatalf("expected arabic label, got %q", got)
	}
	if got := table.Resolve(5, i18n.English); got != "Downtown" {
		t.Fatalf("expected english label, got %q", got)
	}
}

func TestResolveFallsBackAcrossLanguages(t *testing.T) {
	table := NewTable([]Entry{{ID: 2, Label: i18n.Text{EN: "Marina"}}})
	if got := table.Resolve(2, i18n.Arabic); got != "Marina" {
		t.Fatalf("expected fallback to english variant, got %q", got)
	}
}

func TestNilTableResolves(t *testing.T) {
	var table *Table
	if got := table.Resolve(1, i18n.English); got != "Unknown" {
		t.Fatalf("nil table must still resolve to placeholder, got %q", got)
	}
}

func TestCacheLoadFetchesAndPersists(t *testing.T) {
	repo := setupRepo(t)
	c := NewCache(i18n.English, repo, time.Minute, nil)

	calls := 0
	fetch := func(ctx context.Context) ([]Entry, error) {
		calls++
		return []Entry{{ID: 1, Label: i18n.Text{EN: "Alice"}}}, nil
	}

	c.Load(context.Background(), map[string]Fetcher{TableUsers: fetch})
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}
	if got := c.Resolve(TableUsers, 1); got != "Alice" {
		t.Fatalf("expected resolved label, got %q", got)
	}

	// A second cache within the TTL must serve from the local store.
	c2 := NewCache(i18n.English, repo, time.Minute, nil)
	fetch2Called := false
	c2.Load(context.Background(), map[string]Fetcher{TableUsers: func(ctx context.Context) ([]Entry, error) {
		fetch2Called = true
		return nil, nil
	}})
	if fetch2Called {
		t.Fatalf("expected cached table to be served without fetching")
	}
	if got := c2.Resolve(TableUsers, 1); got != "Alice" {
		t.Fatalf("expected cached label, got %q", got)
	}
}

func TestCacheExpiredTTLRefetches(t *testing.T) {
	repo := setupRepo(t)

	c := NewCache(i18n.English, repo, time.Minute, nil)
	c.Load(context.Background(), map[string]Fetcher{TableAreas: func(ctx context.Context) ([]Entry, error) {
		return []Entry{{ID: 1, Label: i18n.Text{EN: "Old"}}}, nil
	}})

	c2 := NewCache(i18n.English, repo, time.Minute, nil)
	c2.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	fetched := false
	c2.Load(context.Background(), map[string]Fetcher{TableAreas: func(ctx context.Context) ([]Entry, error) {
		fetched = true
		return []Entry{{ID: 1, Label: i18n.Text{EN: "Fresh"}}}, nil
	}})
	if !fetched {
		t.Fatalf("expected refetch after TTL expiry")
	}
	if got := c2.Resolve(TableAreas, 1); got != "Fresh" {
		t.Fatalf("expected fresh label, got %q", got)
	}
}

func TestCacheFetchFailureFallsBackToStale(t *testing.T) {
	repo := setupRepo(t)

	c := NewCache(i18n.English, repo, time.Minute, nil)
	c.Load(context.Background(), map[string]Fetcher{TableRestaurants: func(ctx context.Context) ([]Entry, error) {
		return []Entry{{ID: 7, Label: i18n.Text{EN: "Falafel Corner"}}}, nil
	}})

	c2 := NewCache(i18n.English, repo, time.Minute, nil)
	c2.now = func() time.Time { return time.Now().Add(time.Hour) }
	c2.Load(context.Background(), map[string]Fetcher{TableRestaurants: func(ctx context.Context) ([]Entry, error) {
		return nil, errors.New("backend down")
	}})

	if got := c2.Resolve(TableRestaurants, 7); got != "Falafel Corner" {
		t.Fatalf("expected stale fallback, got %q", got)
	}
}

func TestCacheFetchFailureWithoutCacheDegradesToEmpty(t *testing.T) {
	c := NewCache(i18n.English, nil, time.Minute, nil)
	c.Load(context.Background(), map[string]Fetcher{TableUsers: func(ctx context.Context) ([]Entry, error) {
		return nil, errors.New("backend down")
	}})

	if got := c.Resolve(TableUsers, 1); got != "Unknown" {
		t.Fatalf("expected placeholder after failed load, got %q", got)
	}
}

func TestCacheLoadsConcurrentTablesIndependently(t *testing.T) {
	c := NewCache(i18n.English, nil, time.Minute, nil)
	c.Load(context.Background(), map[string]Fetcher{
		TableUsers: func(ctx context.Context) ([]Entry, error) {
			return []Entry{{ID: 1, Label: i18n.Text{EN: "Alice"}}}, nil
		},
		TableAreas: func(ctx context.Context) ([]Entry, error) {
			return nil, errors.New("boom")
		},
		TableRestaurants: func(ctx context.Context) ([]Entry, error) {
			return []Entry{{ID: 2, Label: i18n.Text{EN: "Kebab Spot"}}}, nil
		},
	})

	if got := c.Resolve(TableUsers, 1); got != "Alice" {
		t.Fatalf("users table lost: %q", got)
	}
	if got := c.Resolve(TableRestaurants, 2); got != "Kebab Spot" {
		t.Fatalf("restaurants table lost: %q", got)
	}
	if got := c.Resolve(TableAreas, 3); got != "Unknown" {
		t.Fatalf("failed table must resolve placeholders: %q", got)
	}
}

func TestEntriesOrderedByID(t *testing.T) {
	table := NewTable([]Entry{
		{ID: 3, Label: i18n.Text{EN: "c"}},
		{ID: 1, Label: i18n.Text{EN: "a"}},
		{ID: 2, Label: i18n.Text{EN: "b"}},
	})
	entries := table.Entries()
	if len(entries) != 3 || entries[0].ID != 1 || entries[2].ID != 3 {
		t.Fatalf("unexpected order: %#v", entries)
	}
}
