// Package pool implements the reward liquidity pool: an owner-funded
// reserve of the reward token whose deposit and withdraw units scale with
// the reserve itself, and the coordinator capability that lets the swap
// registry draw rewards from it.
package pool

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

var (
	ErrNotInitialized      = errors.New("pool not initialized")
	ErrUnauthorized        = errors.New("caller lacks pool capability")
	ErrEmptyPool           = errors.New("pool reserve is empty")
	ErrInsufficientReserve = errors.New("amount exceeds pool reserve")
	ErrZeroBoundary        = errors.New("lower boundary is zero")
	ErrBadWindowRatio      = errors.New("window ratio must be at least 1")
)

// Init creates the pool singleton. It is called once, from genesis.
func Init(v tx.LedgerView, owner, token types.AccountID, windowRatio uint64) error {
	if windowRatio < 1 {
		return ErrBadWindowRatio
	}
	return sle.Write(v, keylet.Pool(), &entry.PoolState{
		Owner:       owner,
		Token:       token,
		WindowRatio: windowRatio,
	})
}

// Load returns the pool singleton.
func Load(v tx.LedgerView) (*entry.PoolState, error) {
	ps, err := sle.Read[entry.PoolState](v, keylet.Pool())
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, ErrNotInitialized
	}
	return ps, nil
}

func store(v tx.LedgerView, ps *entry.PoolState) error {
	return sle.Write(v, keylet.Pool(), ps)
}

// UpperBoundary is reserve * windowRatio.
func UpperBoundary(ps *entry.PoolState) (uint64, error) {
	if ps.Reserve == 0 {
		return 0, ErrEmptyPool
	}
	return sle.MulChecked(ps.Reserve, ps.WindowRatio)
}

// LowerBoundary is reserve / windowRatio, truncated.
func LowerBoundary(ps *entry.PoolState) (uint64, error) {
	if ps.Reserve == 0 {
		return 0, ErrEmptyPool
	}
	if ps.WindowRatio == 0 {
		return 0, ErrBadWindowRatio
	}
	return ps.Reserve / ps.WindowRatio, nil
}

// DepositUnit is reserve / lowerBoundary.
func DepositUnit(ps *entry.PoolState) (uint64, error) {
	lower, err := LowerBoundary(ps)
	if err != nil {
		return 0, err
	}
	if lower == 0 {
		return 0, ErrZeroBoundary
	}
	return ps.Reserve / lower, nil
}

// WithdrawUnit is upperBoundary / reserve.
func WithdrawUnit(ps *entry.PoolState) (uint64, error) {
	upper, err := UpperBoundary(ps)
	if err != nil {
		return 0, err
	}
	return upper / ps.Reserve, nil
}

// DrawReward debits one withdraw unit from the reserve and pays it to
// caller, which must hold the coordinator capability. The amount drawn is
// capped at the reserve and rounded down to a multiple of parts so it
// splits evenly; the remainder stays in the pool.
func DrawReward(v tx.LedgerView, caller types.AccountID, parts uint64) (uint64, error) {
	ps, err := Load(v)
	if err != nil {
		return 0, err
	}
	if ps.Coordinator.IsZero() || caller != ps.Coordinator {
		return 0, ErrUnauthorized
	}
	if ps.Reserve == 0 {
		return 0, ErrEmptyPool
	}
	unit, err := WithdrawUnit(ps)
	if err != nil {
		return 0, err
	}
	if unit > ps.Reserve {
		unit = ps.Reserve
	}
	if parts > 1 {
		unit -= unit % parts
	}
	if unit == 0 {
		return 0, nil
	}

	ps.Reserve -= unit
	if err := store(v, ps); err != nil {
		return 0, err
	}
	if err := assets.TransferToken(v, ps.Token, types.PoolAccount, caller, unit); err != nil {
		return 0, err
	}
	return unit, nil
}

// Info is the pool read surface. Derived values are nil while the reserve
// is too small to define them.
type Info struct {
	Owner         types.AccountID `json:"owner"`
	Coordinator   types.AccountID `json:"coordinator"`
	Token         types.AccountID `json:"token"`
	Reserve       uint64          `json:"reserve"`
	WindowRatio   uint64          `json:"window_ratio"`
	UpperBoundary *uint64         `json:"upper_boundary,omitempty"`
	LowerBoundary *uint64         `json:"lower_boundary,omitempty"`
	DepositUnit   *uint64         `json:"deposit_unit,omitempty"`
	WithdrawUnit  *uint64         `json:"withdraw_unit,omitempty"`
}

// GetInfo reads the pool and its derived values.
func GetInfo(v tx.LedgerView) (*Info, error) {
	ps, err := Load(v)
	if err != nil {
		return nil, err
	}
	info := &Info{
		Owner:       ps.Owner,
		Coordinator: ps.Coordinator,
		Token:       ps.Token,
		Reserve:     ps.Reserve,
		WindowRatio: ps.WindowRatio,
	}
	info.UpperBoundary = optional(UpperBoundary(ps))
	info.LowerBoundary = optional(LowerBoundary(ps))
	info.DepositUnit = optional(DepositUnit(ps))
	info.WithdrawUnit = optional(WithdrawUnit(ps))
	return info, nil
}

func optional(n uint64, err error) *uint64 {
	if err != nil {
		return nil
	}
	return &n
}

// Result maps pool errors to transaction results.
func Result(err error) tx.Result {
	switch {
	case err == nil:
		return tx.TesSUCCESS
	case errors.Is(err, ErrUnauthorized):
		return tx.TecNO_PERMISSION
	case errors.Is(err, ErrEmptyPool):
		return tx.TecEMPTY_POOL
	case errors.Is(err, ErrInsufficientReserve):
		return tx.TecINSUFFICIENT_RESERVE
	case errors.Is(err, ErrNotInitialized):
		return tx.TecNO_ENTRY
	case errors.Is(err, assets.ErrAllowanceExceeded), errors.Is(err, sle.ErrInsufficientFunds):
		return tx.TecTRANSFER_REJECTED
	default:
		return tx.ResultFromError(err)
	}
}
