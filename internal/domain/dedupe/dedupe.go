// Package dedupe tracks the set of unique participant names.
package dedupe

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
)

// Deduper records seen names; inserting a name twice is a no-op.
type Deduper interface {
	// SeenAndRecord atomically checks if name was seen and records it if not.
	// Returns true if name was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, name string) bool

	// Names returns every recorded name in ascending lexicographic order.
	Names(ctx context.Context) []string

	Size() int64
}

// inMemoryDeduper implements Deduper with a map. Entries are never evicted:
// the set must hold every name ever registered.
type inMemoryDeduper struct {
	mu       sync.RWMutex
	seen     map[string]struct{}
	capacity int          // initial map capacity hint
	size     atomic.Int64 // current number of entries (atomic)
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{}, d.capacity)
	return d
}

// SeenAndRecord atomically checks if name was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[name]; exists {
		return true
	}
	d.seen[name] = struct{}{}
	d.size.Add(1)
	return false
}

// Names returns a sorted copy of the recorded names.
func (d *inMemoryDeduper) Names(ctx context.Context) []string {
	d.mu.RLock()
	out := make([]string, 0, len(d.seen))
	for name := range d.seen {
		out = append(out, name)
	}
	d.mu.RUnlock()

	slices.Sort(out)
	return out
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
