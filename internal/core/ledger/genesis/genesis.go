// Package genesis builds the initial ledger state: collaborator balances,
// registered collections and the three engine singletons.
package genesis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/ledger/view"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/core/tx/fees"
	"github.com/LeJamon/pixpressd/internal/core/tx/pool"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/tx/stake"
	"github.com/LeJamon/pixpressd/internal/core/tx/swap"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

var (
	ErrAlreadyCreated = errors.New("ledger already has a genesis state")
	ErrMissingOwner   = errors.New("genesis owner is required")
	ErrMissingToken   = errors.New("reward token is required")
	ErrDesignated     = errors.New("designated collection must be registered")
)

// ItemGrant seeds Amount units of one item to Holder.
type ItemGrant struct {
	Holder     types.AccountID `mapstructure:"holder" json:"holder"`
	Collection types.AccountID `mapstructure:"collection" json:"collection"`
	ItemID     uint64          `mapstructure:"item_id" json:"item_id"`
	Amount     uint64          `mapstructure:"amount" json:"amount"`
}

// Config describes the genesis state.
type Config struct {
	// Owner owns the pool, the registry and the market.
	Owner                types.AccountID
	RewardToken          types.AccountID
	WindowRatio          uint64
	DesignatedCollection types.AccountID

	Collections   map[types.AccountID]types.Protocol
	Accounts      map[types.AccountID]uint64
	TokenBalances map[types.AccountID]uint64
	Items         []ItemGrant

	Fees           fees.Schedule
	DividendShare  uint64
	HouseFee       uint64
	RateBase       uint64
	DividendPolicy entry.DividendPolicy

	// PoolReserve is seeded into the pool without an owner deposit.
	PoolReserve uint64
	// GrantCoordinator hands the draw capability to the registry account.
	GrantCoordinator bool
}

// DefaultConfig returns the economics used when nothing is configured.
// Identities must still be filled in.
func DefaultConfig() Config {
	return Config{
		WindowRatio:    10,
		Collections:    map[types.AccountID]types.Protocol{},
		Accounts:       map[types.AccountID]uint64{},
		TokenBalances:  map[types.AccountID]uint64{},
		Fees:           fees.Schedule{Standard: 1000, Legacy: 2500},
		DividendShare:  2000,
		HouseFee:       250,
		RateBase:       10000,
		DividendPolicy: entry.DividendEqual,
	}
}

// Create writes the genesis state into v. v must be empty of engine state.
func Create(v view.LedgerView, cfg Config) error {
	if cfg.Owner.IsZero() {
		return ErrMissingOwner
	}
	if cfg.RewardToken.IsZero() {
		return ErrMissingToken
	}
	if _, ok := cfg.Collections[cfg.DesignatedCollection]; !ok {
		return ErrDesignated
	}
	exists, err := v.Exists(keylet.Pool())
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyCreated
	}

	for _, c := range sortedKeys(cfg.Collections) {
		if err := assets.RegisterCollection(v, c, cfg.Collections[c]); err != nil {
			return fmt.Errorf("collection %s: %w", c, err)
		}
	}

	if err := sle.CreditNative(v, cfg.Owner, cfg.Accounts[cfg.Owner]); err != nil {
		return fmt.Errorf("owner account: %w", err)
	}
	for _, a := range sortedKeys(cfg.Accounts) {
		if a == cfg.Owner {
			continue
		}
		if err := sle.CreditNative(v, a, cfg.Accounts[a]); err != nil {
			return fmt.Errorf("account %s: %w", a, err)
		}
	}
	for _, a := range sortedKeys(cfg.TokenBalances) {
		if err := assets.CreditToken(v, cfg.RewardToken, a, cfg.TokenBalances[a]); err != nil {
			return fmt.Errorf("token balance %s: %w", a, err)
		}
	}
	for _, g := range cfg.Items {
		if _, ok := cfg.Collections[g.Collection]; !ok {
			return fmt.Errorf("item %d: %w", g.ItemID, assets.ErrUnknownCollection)
		}
		if err := assets.CreditItem(v, g.Collection, g.ItemID, g.Holder, g.Amount); err != nil {
			return fmt.Errorf("item %d: %w", g.ItemID, err)
		}
	}

	if err := pool.Init(v, cfg.Owner, cfg.RewardToken, cfg.WindowRatio); err != nil {
		return fmt.Errorf("pool: %w", err)
	}
	if cfg.PoolReserve > 0 || cfg.GrantCoordinator {
		if err := seedPool(v, cfg); err != nil {
			return fmt.Errorf("pool: %w", err)
		}
	}
	err = swap.Init(v, swap.Config{
		Owner:                cfg.Owner,
		Fees:                 cfg.Fees,
		DividendShare:        cfg.DividendShare,
		RateBase:             cfg.RateBase,
		DesignatedCollection: cfg.DesignatedCollection,
	})
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	err = stake.Init(v, stake.Config{
		Owner:      cfg.Owner,
		Collection: cfg.DesignatedCollection,
		HouseFee:   cfg.HouseFee,
		RateBase:   cfg.RateBase,
		Policy:     cfg.DividendPolicy,
	})
	if err != nil {
		return fmt.Errorf("market: %w", err)
	}
	return nil
}

func seedPool(v view.LedgerView, cfg Config) error {
	ps, err := pool.Load(v)
	if err != nil {
		return err
	}
	ps.Reserve = cfg.PoolReserve
	if ps.Reserve > 0 {
		if _, err := pool.UpperBoundary(ps); err != nil {
			return fmt.Errorf("reserve %d with window ratio %d: %w", ps.Reserve, ps.WindowRatio, err)
		}
	}
	if cfg.GrantCoordinator {
		ps.Coordinator = types.RegistryAccount
	}
	if err := sle.Write(v, keylet.Pool(), ps); err != nil {
		return err
	}
	return assets.CreditToken(v, cfg.RewardToken, types.PoolAccount, cfg.PoolReserve)
}

func sortedKeys[V any](m map[types.AccountID]V) []types.AccountID {
	keys := make([]types.AccountID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return string(keys[i][:]) < string(keys[j][:])
	})
	return keys
}
