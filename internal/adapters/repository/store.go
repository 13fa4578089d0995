// Package repository defines the score store interface and errors.
package repository

import "context"

// Entry represents a final score row.
type Entry struct {
	Name  string
	Score int
}

// Store holds the latest score per name, iterated by name ascending.
type Store interface {
	// Upsert sets name's score, overwriting any earlier value.
	// Returns the previous score and true if name was already present.
	// An empty or whitespace-only name fails with ErrInvalidName.
	Upsert(ctx context.Context, name string, score int) (int, bool, error)

	// Ascend returns every entry ordered by name ascending.
	Ascend(ctx context.Context) ([]Entry, error)

	// Count returns the number of names tracked.
	Count(ctx context.Context) int
}
