package application

import (
	"sync"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
)

// Table maps source-site identifiers to destination-site identifiers,
// scoped by category so numerically equal ids of different entity kinds
// never collide. Entries are append-only: a mapping recorded once is never
// overwritten within a run, which is what makes re-running a partially
// completed restore safe.
type Table struct {
	mu      sync.Mutex
	entries map[domain.Category]map[string]string
}

func NewTable() *Table {
	return &Table{entries: make(map[domain.Category]map[string]string)}
}

func (t *Table) Lookup(category domain.Category, oldID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	newID, ok := t.entries[category][oldID]
	return newID, ok
}

// Record stores oldID -> newID unless a mapping for oldID already exists.
// It returns the mapping that is in effect after the call.
func (t *Table) Record(category domain.Category, oldID, newID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	scope, ok := t.entries[category]
	if !ok {
		scope = make(map[string]string)
		t.entries[category] = scope
	}
	if existing, ok := scope[oldID]; ok {
		return existing
	}
	scope[oldID] = newID
	return newID
}

// Merge loads previously persisted mappings into one category. Existing
// entries win over merged ones.
func (t *Table) Merge(category domain.Category, mappings map[string]string) {
	for oldID, newID := range mappings {
		t.Record(category, oldID, newID)
	}
}

// Snapshot copies one category's mappings for persistence.
func (t *Table) Snapshot(category domain.Category) map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]string, len(t.entries[category]))
	for oldID, newID := range t.entries[category] {
		out[oldID] = newID
	}
	return out
}

// ReverseLookup finds the source id that maps to newID. Snapshot file
// names carry source ids, so the restore needs the reverse direction when
// walking destination entities.
func (t *Table) ReverseLookup(category domain.Category, newID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for oldID, mapped := range t.entries[category] {
		if mapped == newID {
			return oldID, true
		}
	}
	return "", false
}

func (t *Table) Len(category domain.Category) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries[category])
}
