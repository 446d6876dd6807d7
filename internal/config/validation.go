package config

import "fmt"

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := config.Database.Validate(); err != nil {
		return fmt.Errorf("database validation failed: %w", err)
	}
	if err := config.History.Validate(); err != nil {
		return fmt.Errorf("history validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	if err := config.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics validation failed: %w", err)
	}
	if err := config.Genesis.Validate(); err != nil {
		return fmt.Errorf("genesis validation failed: %w", err)
	}
	if err := config.Economics.Validate(); err != nil {
		return fmt.Errorf("economics validation failed: %w", err)
	}
	return nil
}
