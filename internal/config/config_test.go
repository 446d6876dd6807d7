package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerAddr = "0x00000000000000000000000000000000000000a1"
	tokenAddr = "0x00000000000000000000000000000000000000b2"
	stdAddr   = "0x00000000000000000000000000000000000000c3"
	legAddr   = "0x00000000000000000000000000000000000000d4"
	aliceAddr = "0x00000000000000000000000000000000000000e5"
)

const testConfig = `
[server]
bind = "0.0.0.0"
port = 7007
request_timeout = "5s"

[database]
backend = "leveldb"
path = "/tmp/pixpressd-test"
compression = "none"

[history]
driver = "sqlite"
dsn = "file:history.db"

[log]
level = "debug"
format = "json"

[genesis]
owner = "` + ownerAddr + `"
reward_token = "` + tokenAddr + `"
window_ratio = 20
designated_collection = "` + stdAddr + `"
pool_reserve = 5000

[genesis.collections]
"` + stdAddr + `" = "standard"
"` + legAddr + `" = "legacy"

[genesis.accounts]
"` + ownerAddr + `" = 1000000000
"` + aliceAddr + `" = 250000

[genesis.token_balances]
"` + aliceAddr + `" = 77

[[genesis.items]]
holder = "` + aliceAddr + `"
collection = "` + stdAddr + `"
item_id = 3
amount = 2

[economics]
fee_standard = 10
fee_legacy = 25
dividend_policy = "price"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pixpressd.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, testConfig)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, path, config.GetConfigPath())
	assert.Equal(t, "0.0.0.0:7007", config.Server.Address())
	assert.Equal(t, 5*time.Second, config.Server.RequestTimeout)
	assert.Equal(t, "leveldb", config.Database.Backend)
	assert.Equal(t, "/tmp/pixpressd-test/state", config.StatePath())
	assert.Equal(t, 4096, config.Database.CacheSize)
	assert.True(t, config.History.Enabled())
	assert.Equal(t, "json", config.Log.Format)

	// Untouched economics keep their defaults.
	assert.Equal(t, uint64(2000), config.Economics.DividendShare)
	assert.Equal(t, uint64(10000), config.Economics.RateBase)

	g, err := config.GenesisConfig()
	require.NoError(t, err)
	assert.Equal(t, types.MustParseAccountID(ownerAddr), g.Owner)
	assert.Equal(t, uint64(20), g.WindowRatio)
	assert.Equal(t, uint64(5000), g.PoolReserve)
	assert.True(t, g.GrantCoordinator)
	assert.Equal(t, types.ProtocolLegacy, g.Collections[types.MustParseAccountID(legAddr)])
	assert.Equal(t, uint64(250000), g.Accounts[types.MustParseAccountID(aliceAddr)])
	assert.Equal(t, uint64(77), g.TokenBalances[types.MustParseAccountID(aliceAddr)])
	require.Len(t, g.Items, 1)
	assert.Equal(t, uint64(3), g.Items[0].ItemID)
	assert.Equal(t, uint64(10), g.Fees.Standard)
	assert.Equal(t, uint64(25), g.Fees.Legacy)
	assert.Equal(t, entry.DividendPrice, g.DividendPolicy)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Empty(t, config.GetConfigPath())
	assert.Equal(t, "127.0.0.1:5005", config.Server.Address())
	assert.Equal(t, "pebble", config.Database.Backend)
	assert.Equal(t, "lz4", config.Database.Compression)
	assert.False(t, config.History.Enabled())
	assert.True(t, config.Metrics.Enabled)

	// No owner means no genesis can be built.
	_, err = config.GenesisConfig()
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PIXPRESSD_SERVER_PORT", "6001")
	t.Setenv("PIXPRESSD_DATABASE_BACKEND", "memory")
	t.Setenv("PIXPRESSD_ECONOMICS_HOUSE_FEE", "0")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 6001, config.Server.Port)
	assert.Equal(t, "memory", config.Database.Backend)
	assert.Zero(t, config.Economics.HouseFee)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Bind: "127.0.0.1", Port: 5005},
		Database: DatabaseConfig{Backend: "memory", Compression: "none"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Metrics:  MetricsConfig{Enabled: true, Namespace: "pixpressd"},
		Genesis:  GenesisConfig{WindowRatio: 10},
		Economics: EconomicsConfig{
			FeeStandard:    1,
			FeeLegacy:      1,
			DividendShare:  10,
			HouseFee:       10,
			RateBase:       100,
			DividendPolicy: "equal",
		},
	}
}

func TestConfigValidation(t *testing.T) {
	assert.NoError(t, ValidateConfig(validConfig()))
}

func TestConfigValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 99999 }, "port must be between 1 and 65535"},
		{"bind", func(c *Config) { c.Server.Bind = "not an ip" }, "invalid bind address"},
		{"backend", func(c *Config) { c.Database.Backend = "rocksdb" }, "invalid backend"},
		{"path", func(c *Config) { c.Database.Backend = "pebble" }, "path is required"},
		{"compression", func(c *Config) { c.Database.Compression = "zstd" }, "invalid compression"},
		{"history driver", func(c *Config) { c.History.Driver = "mysql" }, "invalid history driver"},
		{"history dsn", func(c *Config) { c.History.Driver = "postgres" }, "dsn is required"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"namespace", func(c *Config) { c.Metrics.Namespace = "has-dash" }, "invalid metrics namespace"},
		{"window ratio", func(c *Config) { c.Genesis.WindowRatio = 0 }, "window_ratio must be at least 1"},
		{"zero fee", func(c *Config) { c.Economics.FeeLegacy = 0 }, "economics validation failed"},
		{"rate base", func(c *Config) { c.Economics.RateBase = 0 }, "rate_base must be positive"},
		{"share", func(c *Config) { c.Economics.DividendShare = 101 }, "dividend_share 101 exceeds rate_base 100"},
		{"house fee", func(c *Config) { c.Economics.HouseFee = 101 }, "house_fee 101 exceeds rate_base 100"},
		{"policy", func(c *Config) { c.Economics.DividendPolicy = "lottery" }, "invalid dividend_policy"},
		{"owner", func(c *Config) { c.Genesis.Owner = "0x12" }, "owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)
			err := ValidateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestToGenesis_Rejects(t *testing.T) {
	base := func() GenesisConfig {
		return GenesisConfig{
			Owner:                ownerAddr,
			RewardToken:          tokenAddr,
			WindowRatio:          10,
			DesignatedCollection: stdAddr,
			Collections:          map[string]string{stdAddr: "standard"},
		}
	}

	g := base()
	_, err := g.ToGenesis(EconomicsConfig{})
	require.NoError(t, err)

	g = base()
	g.Collections[legAddr] = "erc-9999"
	_, err = g.ToGenesis(EconomicsConfig{})
	assert.ErrorIs(t, err, types.ErrUnknownProtocol)

	g = base()
	g.DesignatedCollection = legAddr
	_, err = g.ToGenesis(EconomicsConfig{})
	assert.Error(t, err)

	g = base()
	g.Items = []ItemConfig{{Holder: "nope", Collection: stdAddr, ItemID: 1, Amount: 1}}
	_, err = g.ToGenesis(EconomicsConfig{})
	assert.ErrorContains(t, err, "items[0].holder")

	g = base()
	g.RewardToken = "0x0000000000000000000000000000000000000000"
	_, err = g.ToGenesis(EconomicsConfig{})
	assert.ErrorContains(t, err, "zero address")
}
