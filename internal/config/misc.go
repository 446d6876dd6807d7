package config

import (
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
)

var namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// LogConfig represents the [log] section
type LogConfig struct {
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"`
}

// MetricsConfig represents the [metrics] section
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled" mapstructure:"enabled"`
	Namespace string `toml:"namespace" mapstructure:"namespace"`
}

// Validate performs validation on the log configuration
func (l *LogConfig) Validate() error {
	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch l.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid log format: %s (valid options: text, json)", l.Format)
	}
}

// Validate performs validation on the metrics configuration
func (m *MetricsConfig) Validate() error {
	if !m.Enabled {
		return nil
	}
	if !namespacePattern.MatchString(m.Namespace) {
		return fmt.Errorf("invalid metrics namespace: %q", m.Namespace)
	}
	return nil
}
