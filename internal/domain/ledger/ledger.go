// Package ledger keeps the append-only registration log.
package ledger

import (
	"context"
	"sync"
)

// Log records every registered name in arrival order, duplicates included.
type Log interface {
	// Append adds name to the end of the log and returns the new length.
	Append(ctx context.Context, name string) int

	// Names returns a copy of the log in arrival order.
	Names(ctx context.Context) []string

	// Len returns the number of appended names.
	Len(ctx context.Context) int
}

// InMemoryLog implements Log with a slice.
type InMemoryLog struct {
	mu      sync.RWMutex
	entries []string
}

// NewInMemoryLog creates an empty log.
func NewInMemoryLog(opts ...Option) *InMemoryLog {
	l := &InMemoryLog{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append adds name to the end of the log.
func (l *InMemoryLog) Append(ctx context.Context, name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, name)
	return len(l.entries)
}

// Names returns a copy of the log in arrival order.
func (l *InMemoryLog) Names(ctx context.Context) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of appended names.
func (l *InMemoryLog) Len(ctx context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
