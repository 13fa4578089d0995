// Package repository defines the score store interface and errors.
package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: name ASC (byte-wise). In-order traversal yields the score
// mapping in lexicographic key order. Heap priorities come from a hash of
// the name, which keeps the expected depth logarithmic for any insertion
// order.

// treap node
type node struct {
	name  string
	score int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// insert adds nn below n. The caller guarantees nn.name is not yet present.
func insert(n *node, nn *node) *node {
	if n == nil {
		return nn
	}
	if nn.name < n.name {
		n.left = insert(n.left, nn)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, nn)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// collectAll appends all entries in name order.
func collectAll(n *node, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, out)
	*out = append(*out, Entry{Name: n.name, Score: n.score})
	collectAll(n.right, out)
}

// TreapStore is an ordered name -> score map.
type TreapStore struct {
	mu       sync.RWMutex
	root     *node
	byName   map[string]*node
	priority func(name string) uint64
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		priority: defaultPriority,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.byName == nil {
		s.byName = make(map[string]*node)
	}
	return s
}

// Upsert implements Store.Upsert with O(log n) expected time for new names
// and O(1) for overwrites.
func (s *TreapStore) Upsert(ctx context.Context, name string, score int) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if strings.TrimSpace(name) == "" {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.byName[name]; ok {
		prev := n.score
		n.score = score
		return prev, true, nil
	}

	nn := &node{name: name, score: score, prio: s.priority(name), size: 1}
	s.root = insert(s.root, nn)
	s.byName[name] = nn
	return 0, false, nil
}

// Ascend returns every entry ordered by name ascending.
func (s *TreapStore) Ascend(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.byName))
	collectAll(s.root, &out)
	return out, nil
}

// Count returns the total number of names.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}
