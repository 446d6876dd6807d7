package config

import "github.com/spf13/viper"

// setDefaults sets all default values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.bind", "127.0.0.1")
	v.SetDefault("server.port", 5005)
	v.SetDefault("server.request_timeout", "30s")

	// Database defaults
	v.SetDefault("database.backend", "pebble")
	v.SetDefault("database.path", "./data")
	v.SetDefault("database.cache_size", 4096)
	v.SetDefault("database.compression", "lz4")

	// History is disabled unless a driver is set
	v.SetDefault("history.driver", "")
	v.SetDefault("history.dsn", "")

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "pixpressd")

	// Genesis defaults; identities have none
	v.SetDefault("genesis.window_ratio", 10)
	v.SetDefault("genesis.pool_reserve", 0)
	v.SetDefault("genesis.grant_coordinator", true)

	// Economics defaults
	v.SetDefault("economics.fee_standard", 1000)
	v.SetDefault("economics.fee_legacy", 2500)
	v.SetDefault("economics.dividend_share", 2000)
	v.SetDefault("economics.house_fee", 250)
	v.SetDefault("economics.rate_base", 10000)
	v.SetDefault("economics.dividend_policy", "equal")
}
