// Package repository defines the score store interface and errors.
package repository

import "github.com/cespare/xxhash/v2"

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithPriorityFunc replaces the function deriving a node's heap priority
// from its name. The default hashes the name with xxhash, so tree shape is
// deterministic across runs.
func WithPriorityFunc(fn func(name string) uint64) Option {
	return func(s *TreapStore) {
		if fn != nil {
			s.priority = fn
		}
	}
}

// WithCapacity presizes the name index.
func WithCapacity(n int) Option {
	return func(s *TreapStore) {
		if n > 0 {
			s.byName = make(map[string]*node, n)
		}
	}
}

func defaultPriority(name string) uint64 {
	return xxhash.Sum64String(name)
}
