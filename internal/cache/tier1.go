// Package cache implements the two-tier conversion result cache: a
// process-local map in front of the durable SQLite store. Lookup order
// is local then shared; a shared-tier hit is not promoted into the
// local tier, which keeps the local tier scoped to results this
// process actually produced or requested.
package cache

import (
	"sync"
	"sync/atomic"

	"sqlport/internal/convert"
)

// Tier1 is the process-local tier: unbounded, evicted only by process
// termination. All values are deep-copied on the way in and out.
type Tier1 struct {
	mu      sync.RWMutex
	entries map[string]*convert.ConversionResult

	hits   atomic.Int64
	misses atomic.Int64
}

// NewTier1 creates an empty local tier.
func NewTier1() *Tier1 {
	return &Tier1{entries: make(map[string]*convert.ConversionResult)}
}

// Get returns a deep copy of the entry for digest, if present.
func (t *Tier1) Get(digest string) (*convert.ConversionResult, bool) {
	t.mu.RLock()
	res, ok := t.entries[digest]
	t.mu.RUnlock()

	if !ok {
		t.misses.Add(1)
		return nil, false
	}
	t.hits.Add(1)
	return res.Clone(), true
}

// Put stores a deep copy under digest, overwriting any existing entry.
func (t *Tier1) Put(digest string, res *convert.ConversionResult) {
	clone := res.Clone()
	t.mu.Lock()
	t.entries[digest] = clone
	t.mu.Unlock()
}

// Len returns the number of entries.
func (t *Tier1) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Counters returns lifetime hit and miss counts.
func (t *Tier1) Counters() (hits, misses int64) {
	return t.hits.Load(), t.misses.Load()
}
