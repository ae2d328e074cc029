package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates a requested lookup table has never been cached.
var ErrNotFound = errors.New("database: not found")

// LookupEntryRecord is one cached id→label row with both language
// variants.
type LookupEntryRecord struct {
	ID      int64
	LabelEN string
	LabelAR string
}

// LookupRepository persists fetched lookup tables so reference data
// survives between runs.
type LookupRepository struct {
	ctx *Context
}

// NewLookupRepository creates a LookupRepository.
func NewLookupRepository(dbCtx *Context) *LookupRepository {
	return &LookupRepository{ctx: dbCtx}
}

// SaveTable replaces the cached contents of one lookup table and stamps
// it with fetchedAt.
func (r *LookupRepository) SaveTable(ctx context.Context, name string, entries []LookupEntryRecord, fetchedAt time.Time) error {
	if r.ctx == nil || r.ctx.DB == nil {
		return fmt.Errorf("lookup repository: missing database context")
	}

	tx, err := r.ctx.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := saveTableTx(ctx, tx, name, entries, fetchedAt); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return nil
}

func saveTableTx(ctx context.Context, tx *sql.Tx, name string, entries []LookupEntryRecord, fetchedAt time.Time) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM lookup_entries WHERE table_name = ?`, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO lookup_tables (name, fetched_at) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET fetched_at = excluded.fetched_at`,
		name, fetchedAt.UTC(),
	); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lookup_entries (table_name, id, label_en, label_ar) VALUES (?, ?, ?, ?)`,
			name, e.ID, e.LabelEN, e.LabelAR,
		); err != nil {
			return err
		}
	}
	return nil
}

// LoadTable returns the cached entries and fetch time for one lookup
// table, or ErrNotFound when the table has never been cached.
func (r *LookupRepository) LoadTable(ctx context.Context, name string) ([]LookupEntryRecord, time.Time, error) {
	if r.ctx == nil || r.ctx.DB == nil {
		return nil, time.Time{}, fmt.Errorf("lookup repository: missing database context")
	}

	var fetchedAt time.Time
	err := r.ctx.DB.QueryRowContext(ctx, `SELECT fetched_at FROM lookup_tables WHERE name = ?`, name).Scan(&fetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, err
	}

	rows, err := r.ctx.DB.QueryContext(ctx, `
		SELECT id, label_en, label_ar FROM lookup_entries WHERE table_name = ? ORDER BY id`, name)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var entries []LookupEntryRecord
	for rows.Next() {
		var e LookupEntryRecord
		if err := rows.Scan(&e.ID, &e.LabelEN, &e.LabelAR); err != nil {
			return nil, time.Time{}, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}

	return entries, fetchedAt, nil
}

// DeleteTable drops one cached lookup table. Used by the cache-clearing
// command.
func (r *LookupRepository) DeleteTable(ctx context.Context, name string) error {
	if r.ctx == nil || r.ctx.DB == nil {
		return fmt.Errorf("lookup repository: missing database context")
	}
	if _, err := r.ctx.DB.ExecContext(ctx, `DELETE FROM lookup_entries WHERE table_name = ?`, name); err != nil {
		return err
	}
	_, err := r.ctx.DB.ExecContext(ctx, `DELETE FROM lookup_tables WHERE name = ?`, name)
	return err
}
