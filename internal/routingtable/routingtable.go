// Package routingtable holds the in-memory, eventually-consistent
// projection of handler resources consulted on every request. It is a
// multi-reader/single-writer map: the reconciler is the sole writer;
// readers snapshot the fields they need and release the guard before any
// I/O, never holding it across a broker send.
package routingtable

import (
	"sync"

	"github.com/Postmaster-Live/postmaster/internal/filter"
	"github.com/Postmaster-Live/postmaster/internal/handlerid"
	"github.com/Postmaster-Live/postmaster/internal/route"
)

// Entry is the per-handler projection consulted by the request pipeline.
type Entry struct {
	Topic        string
	SignatureKey string
	Filters      []filter.Filter
	Routes       []route.Route
}

// Table is a concurrent handlerid.ID -> Entry map.
type Table struct {
	mu      sync.RWMutex
	entries map[handlerid.ID]Entry
}

// New returns an empty Table.
func New() *Table {
	return &Table{entries: make(map[handlerid.ID]Entry)}
}

// Get returns a copy of the entry for id and whether it was present. The
// returned Entry is an independent snapshot; callers may use it across
// I/O without holding any lock.
func (t *Table) Get(id handlerid.ID) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	return e, ok
}

// Upsert inserts or replaces the entry for id. Only the reconciler should
// call this.
func (t *Table) Upsert(id handlerid.ID, entry Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[id] = entry
}

// Evict removes the entry for id, if present. Only the reconciler should
// call this, on an observed deletion event.
func (t *Table) Evict(id handlerid.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, id)
}

// Len returns the number of handlers currently projected, used by the
// readiness probe's handlers_loaded detail.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
