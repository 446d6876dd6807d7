package config

import (
	"errors"
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/genesis"
	"github.com/LeJamon/pixpressd/internal/core/tx/fees"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

// GenesisConfig represents the [genesis] section. Addresses are hex
// account ids.
type GenesisConfig struct {
	Owner                string            `toml:"owner" mapstructure:"owner"`
	RewardToken          string            `toml:"reward_token" mapstructure:"reward_token"`
	WindowRatio          uint64            `toml:"window_ratio" mapstructure:"window_ratio"`
	DesignatedCollection string            `toml:"designated_collection" mapstructure:"designated_collection"`
	Collections          map[string]string `toml:"collections" mapstructure:"collections"`
	Accounts             map[string]uint64 `toml:"accounts" mapstructure:"accounts"`
	TokenBalances        map[string]uint64 `toml:"token_balances" mapstructure:"token_balances"`
	Items                []ItemConfig      `toml:"items" mapstructure:"items"`
	PoolReserve          uint64            `toml:"pool_reserve" mapstructure:"pool_reserve"`
	GrantCoordinator     bool              `toml:"grant_coordinator" mapstructure:"grant_coordinator"`
}

// ItemConfig is one entry of genesis.items.
type ItemConfig struct {
	Holder     string `toml:"holder" mapstructure:"holder"`
	Collection string `toml:"collection" mapstructure:"collection"`
	ItemID     uint64 `toml:"item_id" mapstructure:"item_id"`
	Amount     uint64 `toml:"amount" mapstructure:"amount"`
}

// EconomicsConfig represents the [economics] section
type EconomicsConfig struct {
	FeeStandard    uint64 `toml:"fee_standard" mapstructure:"fee_standard"`
	FeeLegacy      uint64 `toml:"fee_legacy" mapstructure:"fee_legacy"`
	DividendShare  uint64 `toml:"dividend_share" mapstructure:"dividend_share"`
	HouseFee       uint64 `toml:"house_fee" mapstructure:"house_fee"`
	RateBase       uint64 `toml:"rate_base" mapstructure:"rate_base"`
	DividendPolicy string `toml:"dividend_policy" mapstructure:"dividend_policy"`
}

// Validate performs validation on the economics configuration
func (e *EconomicsConfig) Validate() error {
	if err := e.schedule().Validate(); err != nil {
		return err
	}
	if e.RateBase == 0 {
		return errors.New("rate_base must be positive")
	}
	if e.DividendShare > e.RateBase {
		return fmt.Errorf("dividend_share %d exceeds rate_base %d", e.DividendShare, e.RateBase)
	}
	if e.HouseFee > e.RateBase {
		return fmt.Errorf("house_fee %d exceeds rate_base %d", e.HouseFee, e.RateBase)
	}
	switch entry.DividendPolicy(e.DividendPolicy) {
	case entry.DividendEqual, entry.DividendPrice:
		return nil
	default:
		return fmt.Errorf("invalid dividend_policy: %s (valid options: equal, price)", e.DividendPolicy)
	}
}

func (e *EconomicsConfig) schedule() fees.Schedule {
	return fees.Schedule{Standard: e.FeeStandard, Legacy: e.FeeLegacy}
}

// Validate performs validation on the genesis configuration. Identities
// are only checked once an owner is configured; a node opening an existing
// ledger needs none.
func (g *GenesisConfig) Validate() error {
	if g.WindowRatio < 1 {
		return fmt.Errorf("window_ratio must be at least 1, got %d", g.WindowRatio)
	}
	if g.Owner == "" {
		return nil
	}
	_, err := g.ToGenesis(EconomicsConfig{})
	return err
}

// ToGenesis converts the section, with the economics, into the genesis
// builder's configuration.
func (g *GenesisConfig) ToGenesis(econ EconomicsConfig) (genesis.Config, error) {
	cfg := genesis.DefaultConfig()
	var err error

	if cfg.Owner, err = parseAddress("owner", g.Owner); err != nil {
		return cfg, err
	}
	if cfg.RewardToken, err = parseAddress("reward_token", g.RewardToken); err != nil {
		return cfg, err
	}
	if cfg.DesignatedCollection, err = parseAddress("designated_collection", g.DesignatedCollection); err != nil {
		return cfg, err
	}
	cfg.WindowRatio = g.WindowRatio
	cfg.PoolReserve = g.PoolReserve
	cfg.GrantCoordinator = g.GrantCoordinator

	for addr, proto := range g.Collections {
		id, err := parseAddress("collections", addr)
		if err != nil {
			return cfg, err
		}
		p := types.Protocol(proto)
		if !p.Valid() {
			return cfg, fmt.Errorf("collection %s: %w: %q", addr, types.ErrUnknownProtocol, proto)
		}
		cfg.Collections[id] = p
	}
	if _, ok := cfg.Collections[cfg.DesignatedCollection]; !ok {
		return cfg, genesis.ErrDesignated
	}
	for addr, bal := range g.Accounts {
		id, err := parseAddress("accounts", addr)
		if err != nil {
			return cfg, err
		}
		cfg.Accounts[id] = bal
	}
	for addr, bal := range g.TokenBalances {
		id, err := parseAddress("token_balances", addr)
		if err != nil {
			return cfg, err
		}
		cfg.TokenBalances[id] = bal
	}
	for i, it := range g.Items {
		holder, err := parseAddress(fmt.Sprintf("items[%d].holder", i), it.Holder)
		if err != nil {
			return cfg, err
		}
		coll, err := parseAddress(fmt.Sprintf("items[%d].collection", i), it.Collection)
		if err != nil {
			return cfg, err
		}
		cfg.Items = append(cfg.Items, genesis.ItemGrant{
			Holder:     holder,
			Collection: coll,
			ItemID:     it.ItemID,
			Amount:     it.Amount,
		})
	}

	if econ != (EconomicsConfig{}) {
		cfg.Fees = econ.schedule()
		cfg.DividendShare = econ.DividendShare
		cfg.HouseFee = econ.HouseFee
		cfg.RateBase = econ.RateBase
		cfg.DividendPolicy = entry.DividendPolicy(econ.DividendPolicy)
	}
	return cfg, nil
}

// GenesisConfig returns the genesis builder configuration for c.
func (c *Config) GenesisConfig() (genesis.Config, error) {
	return c.Genesis.ToGenesis(c.Economics)
}

func parseAddress(field, s string) (types.AccountID, error) {
	id, err := types.ParseAccountID(s)
	if err != nil {
		return id, fmt.Errorf("%s: %w: %q", field, err, s)
	}
	if id.IsZero() {
		return id, fmt.Errorf("%s: zero address", field)
	}
	return id, nil
}
