// Package config defines roster configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load accepts context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"strings"
)

// Report formats understood by the report adapter.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log lines on stderr to JSON.
	LogJSON bool `koanf:"log_json"`

	// Format selects the report rendering: text or json.
	Format string `koanf:"format"`

	// RosterFile optionally points at a YAML or TOML file of registrations.
	// Empty means use the built-in registrations.
	RosterFile string `koanf:"roster_file"`

	// MetricsTextfile, when set, receives a Prometheus textfile after the run.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel: "warn",
		Format:   FormatText,
	}
}

// Validate checks field values that Load cannot coerce.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Format) {
	case FormatText, FormatJSON:
		c.Format = strings.ToLower(c.Format)
	default:
		return fmt.Errorf("%w: format must be %q or %q, got %q", ErrInvalidConfig, FormatText, FormatJSON, c.Format)
	}
	return nil
}
