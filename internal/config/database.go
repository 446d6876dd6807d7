package config

import (
	"fmt"
	"slices"

	"github.com/LeJamon/pixpressd/internal/storage/database/backend"
	"github.com/LeJamon/pixpressd/internal/storage/database/compression"
)

// DatabaseConfig represents the [database] section
// Configures the persistent datastore for ledger state
type DatabaseConfig struct {
	Backend     string `toml:"backend" mapstructure:"backend"`
	Path        string `toml:"path" mapstructure:"path"`
	CacheSize   int    `toml:"cache_size" mapstructure:"cache_size"`
	Compression string `toml:"compression" mapstructure:"compression"`
}

// HistoryConfig represents the [history] section
// An empty driver disables the transaction history database
type HistoryConfig struct {
	Driver string `toml:"driver" mapstructure:"driver"`
	DSN    string `toml:"dsn" mapstructure:"dsn"`
}

// Validate performs validation on the database configuration
func (d *DatabaseConfig) Validate() error {
	if !slices.Contains(backend.Names, d.Backend) {
		return fmt.Errorf("invalid backend: %s (valid options: %v)", d.Backend, backend.Names)
	}
	if d.Backend != backend.Memory && d.Path == "" {
		return fmt.Errorf("path is required for the %s backend", d.Backend)
	}
	if d.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", d.CacheSize)
	}
	if !compression.IsAvailable(d.Compression) {
		return fmt.Errorf("invalid compression: %s (valid options: %v)", d.Compression, compression.Available())
	}
	return nil
}

// Enabled reports whether a history database is configured.
func (h *HistoryConfig) Enabled() bool {
	return h.Driver != ""
}

// Validate performs validation on the history configuration
func (h *HistoryConfig) Validate() error {
	switch h.Driver {
	case "":
		return nil
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid history driver: %s (valid options: sqlite, postgres)", h.Driver)
	}
	if h.DSN == "" {
		return fmt.Errorf("dsn is required for the %s history driver", h.Driver)
	}
	return nil
}
