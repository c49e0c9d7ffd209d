// Package handles keeps a registry of live control blocks.
//
// Registration is opt-in (see sptr.SetTracking). Each tracked block registers
// itself when it is allocated and unregisters when its storage is reclaimed,
// so whatever is left in the registry was never fully released.
package handles

import (
	"sort"
	"sync"
)

// Entry describes one registered control block.
type Entry struct {
	ID   uint64
	Kind string
	Type string
}

var (
	mu      sync.RWMutex
	entries = make(map[uint64]Entry)
	nextID  uint64 = 1
)

// Register records a live block and returns its non-zero ID.
//
// Thread-safe.
func Register(kind, typ string) uint64 {
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	entries[id] = Entry{ID: id, Kind: kind, Type: typ}
	return id
}

// Lookup returns the entry for id.
//
// Thread-safe.
func Lookup(id uint64) (Entry, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := entries[id]
	return e, ok
}

// Unregister removes a block from the registry. Unknown IDs are ignored.
//
// Thread-safe.
func Unregister(id uint64) {
	mu.Lock()
	defer mu.Unlock()
	delete(entries, id)
}

// Count returns the number of registered blocks.
//
// Thread-safe.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(entries)
}

// Snapshot returns all registered blocks ordered by ID.
//
// Thread-safe.
func Snapshot() []Entry {
	mu.RLock()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
