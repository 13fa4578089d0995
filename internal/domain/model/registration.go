// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRegistration reports a registration that cannot be recorded.
var ErrInvalidRegistration = errors.New("invalid registration")

// Registration is a single (name, score) pair arriving at the roster.
type Registration struct {
	Name  string `koanf:"name" toml:"name" json:"name"`
	Score int    `koanf:"score" toml:"score" json:"score"`
}

// Validate checks that the registration carries a usable name.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidRegistration)
	}
	return nil
}

// DefaultRegistrations returns the built-in registrations, in arrival order.
// Alice registers twice; her second score replaces the first.
func DefaultRegistrations() []Registration {
	return []Registration{
		{Name: "Alice", Score: 95},
		{Name: "Bob", Score: 80},
		{Name: "Alice", Score: 97},
		{Name: "Charlie", Score: 100},
		{Name: "Diana", Score: 75},
	}
}
