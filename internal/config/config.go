package config

import (
	"path/filepath"
)

// DefaultConfigFile is the file LoadConfig reads when no path is given and
// one exists in the working directory.
const DefaultConfigFile = "pixpressd.toml"

// Config represents the complete pixpressd configuration
type Config struct {
	Server    ServerConfig    `toml:"server" mapstructure:"server"`
	Database  DatabaseConfig  `toml:"database" mapstructure:"database"`
	History   HistoryConfig   `toml:"history" mapstructure:"history"`
	Log       LogConfig       `toml:"log" mapstructure:"log"`
	Metrics   MetricsConfig   `toml:"metrics" mapstructure:"metrics"`
	Genesis   GenesisConfig   `toml:"genesis" mapstructure:"genesis"`
	Economics EconomicsConfig `toml:"economics" mapstructure:"economics"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// GetConfigPath returns the path of the file the configuration was read
// from, or "" when only defaults and environment were used.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// StatePath returns the directory holding the state database.
func (c *Config) StatePath() string {
	return filepath.Join(c.Database.Path, "state")
}
