// Package lookup holds the fetch-once reference tables (users,
// restaurants, areas) joined into list views by foreign key. Tables are
// cached in the local database with a TTL so repeated invocations skip
// the network.
package lookup

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mealdash/mealadmin/internal/database"
	"github.com/mealdash/mealadmin/internal/i18n"
)

// Well-known table names.
const (
	TableUsers       = "users"
	TableRestaurants = "restaurants"
	TableAreas       = "areas"
)

// Entry is one id→label pair, carried bilingual.
type Entry struct {
	ID    int64
	Label i18n.Text
}

// Table resolves foreign keys to display labels for one reference
// collection.
type Table struct {
	entries map[int64]i18n.Text
	order   []int64
}

// NewTable builds a table from fetched entries.
func NewTable(entries []Entry) *Table {
	t := &Table{entries: make(map[int64]i18n.Text, len(entries))}
	for _, e := range entries {
		if _, seen := t.entries[e.ID]; !seen {
			t.order = append(t.order, e.ID)
		}
		t.entries[e.ID] = e.Label
	}
	sort.Slice(t.order, func(i, j int) bool { return t.order[i] < t.order[j] })
	return t
}

// Resolve returns the label for id in lang. Missing ids resolve to the
// localized "Unknown" placeholder, never an empty string or an error.
func (t *Table) Resolve(id int64, lang i18n.Lang) string {
	if t != nil {
		if label, ok := t.entries[id]; ok {
			return label.In(lang)
		}
	}
	return i18n.T(lang, "unknown")
}

// Len reports the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the table's entries in id order, for filter dropdown
// population.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, Entry{ID: id, Label: t.entries[id]})
	}
	return out
}

// Fetcher retrieves one reference collection from the backend.
type Fetcher func(ctx context.Context) ([]Entry, error)

// Cache holds the loaded tables for one session. A nil repository
// disables persistence; lookups then always hit the network.
type Cache struct {
	lang i18n.Lang
	repo *database.LookupRepository
	ttl  time.Duration
	log  *slog.Logger
	now  func() time.Time

	mu     sync.RWMutex
	tables map[string]*Table
}

// NewCache creates a Cache.
func NewCache(lang i18n.Lang, repo *database.LookupRepository, ttl time.Duration, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		lang:   lang,
		repo:   repo,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
		tables: map[string]*Table{},
	}
}

// Load populates the named tables concurrently. Each table loads
// independently: a fresh local copy is used without fetching, a fetch
// failure falls back to whatever cached copy exists, and a table that
// cannot be loaded at all stays empty and resolves to placeholders.
// Lookup failures never fail the caller; they are logged and degraded.
func (c *Cache) Load(ctx context.Context, fetchers map[string]Fetcher) {
	var wg sync.WaitGroup
	for name, fetch := range fetchers {
		wg.Add(1)
		go func(name string, fetch Fetcher) {
			defer wg.Done()
			c.loadOne(ctx, name, fetch)
		}(name, fetch)
	}
	wg.Wait()
}

func (c *Cache) loadOne(ctx context.Context, name string, fetch Fetcher) {
	cached, fetchedAt, cacheErr := c.loadCached(ctx, name)
	if cacheErr == nil && c.now().Sub(fetchedAt) < c.ttl {
		c.install(name, cached)
		return
	}

	entries, err := fetch(ctx)
	if err != nil {
		c.log.Warn("lookup fetch failed", "table", name, "err", err)
		if cacheErr == nil {
			// Stale but better than nothing.
			c.install(name, cached)
		} else {
			c.install(name, nil)
		}
		return
	}

	c.install(name, entries)
	c.saveCached(ctx, name, entries)
}

// Table returns the named table. An unloaded table is non-nil and
// resolves every id to the placeholder.
func (c *Cache) Table(name string) *Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if t, ok := c.tables[name]; ok {
		return t
	}
	return NewTable(nil)
}

// Resolve resolves one foreign key against the named table in the
// cache's active language.
func (c *Cache) Resolve(table string, id int64) string {
	return c.Table(table).Resolve(id, c.lang)
}

// Lang reports the cache's active language.
func (c *Cache) Lang() i18n.Lang { return c.lang }

func (c *Cache) install(name string, entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[name] = NewTable(entries)
}

func (c *Cache) loadCached(ctx context.Context, name string) ([]Entry, time.Time, error) {
	if c.repo == nil {
		return nil, time.Time{}, database.ErrNotFound
	}
	records, fetchedAt, err := c.repo.LoadTable(ctx, name)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			c.log.Warn("lookup cache read failed", "table", name, "err", err)
		}
		return nil, time.Time{}, err
	}
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, Entry{ID: r.ID, Label: i18n.Text{EN: r.LabelEN, AR: r.LabelAR}})
	}
	return entries, fetchedAt, nil
}

func (c *Cache) saveCached(ctx context.Context, name string, entries []Entry) {
	if c.repo == nil {
		return
	}
	records := make([]database.LookupEntryRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, database.LookupEntryRecord{ID: e.ID, LabelEN: e.Label.EN, LabelAR: e.Label.AR})
	}
	if err := c.repo.SaveTable(ctx, name, records, c.now()); err != nil {
		c.log.Warn("lookup cache write failed", "table", name, "err", err)
	}
}
