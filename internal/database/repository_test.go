package database

import (
	"context"
	"errors"
	"testing"
	"time"
)

func setupDB(t *testing.T) *Context {
	t.Helper()
	ctx, err := CreateDatabase(":memory:")
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}

	t.Cleanup(func() {
		if err := CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	return ctx
}

func TestSaveAndLoadTable(t *testing.T) {
	dbCtx := setupDB(t)
	repo := NewLookupRepository(dbCtx)
	ctx := context.Background()

	entries := []LookupEntryRecord{
		{ID: 1, LabelEN: "Downtown", LabelAR: "وسط المدينة"},
		{ID: 2, LabelEN: "Marina", LabelAR: "المارينا"},
	}
	fetchedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	if err := repo.SaveTable(ctx, "areas", entries, fetchedAt); err != nil {
		t.Fatalf("SaveTable failed: %v", err)
	}

	got, gotAt, err := repo.LoadTable(ctx, "areas")
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}
	if len(got) != 2 || got[0].LabelEN != "Downtown" || got[1].LabelAR != "المارينا" {
		t.Fatalf("unexpected entries: %#v", got)
	}
	if !gotAt.Equal(fetchedAt) {
		t.Fatalf("expected fetched_at %v, got %v", fetchedAt, gotAt)
	}
}

func TestSaveTableReplacesPrevious(t *testing.T) {
	dbCtx := setupDB(t)
	repo := NewLookupRepository(dbCtx)
	ctx := context.Background()

	first := []LookupEntryRecord{{ID: 1, LabelEN: "Old"}}
	if err := repo.SaveTable(ctx, "restaurants", first, time.Now()); err != nil {
		t.Fatalf("first SaveTable failed: %v", err)
	}

	second := []LookupEntryRecord{{ID: 2, LabelEN: "New"}, {ID: 3, LabelEN: "Newer"}}
	if err := repo.SaveTable(ctx, "restaurants", second, time.Now()); err != nil {
		t.Fatalf("second SaveTable failed: %v", err)
	}

	got, _, err := repo.LoadTable(ctx, "restaurants")
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 {
		t.Fatalf("expected replacement, got %#v", got)
	}
}

func TestLoadMissingTable(t *testing.T) {
	dbCtx := setupDB(t)
	repo := NewLookupRepository(dbCtx)

	_, _, err := repo.LoadTable(context.Background(), "users")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTable(t *testing.T) {
	dbCtx := setupDB(t)
	repo := NewLookupRepository(dbCtx)
	ctx := context.Background()

	if err := repo.SaveTable(ctx, "areas", []LookupEntryRecord{{ID: 1}}, time.Now()); err != nil {
		t.Fatalf("SaveTable failed: %v", err)
	}
	if err := repo.DeleteTable(ctx, "areas"); err != nil {
		t.Fatalf("DeleteTable failed: %v", err)
	}
	if _, _, err := repo.LoadTable(ctx, "areas"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
