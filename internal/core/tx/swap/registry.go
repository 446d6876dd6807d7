// Package swap implements the swap registry: proposals, matches and their
// atomic settlement, with escrow held by the registry account.
package swap

import (
	"errors"
	"math/bits"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/fees"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/tx/stake"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

var (
	ErrNotInitialized = errors.New("swap registry not initialized")
	ErrBadShare       = errors.New("dividend share exceeds rate base")
)

// Config holds the registry parameters fixed at genesis.
type Config struct {
	Owner                types.AccountID
	Fees                 fees.Schedule
	DividendShare        uint64
	RateBase             uint64
	DesignatedCollection types.AccountID
}

// Init creates the registry singleton. It is called once, from genesis.
func Init(v tx.LedgerView, cfg Config) error {
	if err := cfg.Fees.Validate(); err != nil {
		return err
	}
	if cfg.RateBase == 0 || cfg.DividendShare > cfg.RateBase {
		return ErrBadShare
	}
	return sle.Write(v, keylet.Registry(), &entry.RegistryState{
		Owner:                cfg.Owner,
		NextProposeID:        1,
		NextMatchID:          1,
		FeeStandard:          cfg.Fees.Standard,
		FeeLegacy:            cfg.Fees.Legacy,
		DividendShare:        cfg.DividendShare,
		RateBase:             cfg.RateBase,
		DesignatedCollection: cfg.DesignatedCollection,
	})
}

// Load returns the registry singleton.
func Load(v tx.LedgerView) (*entry.RegistryState, error) {
	rs, err := sle.Read[entry.RegistryState](v, keylet.Registry())
	if err != nil {
		return nil, err
	}
	if rs == nil {
		return nil, ErrNotInitialized
	}
	return rs, nil
}

func storeRegistry(v tx.LedgerView, rs *entry.RegistryState) error {
	return sle.Write(v, keylet.Registry(), rs)
}

// Schedule returns the fee schedule stored in the registry.
func Schedule(rs *entry.RegistryState) fees.Schedule {
	return fees.Schedule{Standard: rs.FeeStandard, Legacy: rs.FeeLegacy}
}

// GetPropose returns proposal id, or nil.
func GetPropose(v tx.LedgerView, id uint64) (*entry.ProposeOrder, error) {
	return sle.Read[entry.ProposeOrder](v, keylet.Propose(id))
}

// GetMatch returns match id, or nil.
func GetMatch(v tx.LedgerView, id uint64) (*entry.MatchOrder, error) {
	return sle.Read[entry.MatchOrder](v, keylet.Match(id))
}

// MatchesFor returns every match recorded against proposal id, in id order.
func MatchesFor(v tx.LedgerView, proposeID uint64) ([]*entry.MatchOrder, error) {
	rs, err := Load(v)
	if err != nil {
		return nil, err
	}
	var out []*entry.MatchOrder
	for id := uint64(1); id < rs.NextMatchID; id++ {
		m, err := GetMatch(v, id)
		if err != nil {
			return nil, err
		}
		if m != nil && m.ProposeID == proposeID {
			out = append(out, m)
		}
	}
	return out, nil
}

// Quote is the fee required for a bundle.
type Quote struct {
	Fee        uint64 `json:"fee"`
	Designated uint64 `json:"designated"`
	Dividend   uint64 `json:"dividend"`
}

// QuoteFee computes the fee a bundle must attach, with the same logic the
// propose and match handlers apply.
func QuoteFee(v tx.LedgerView, items []types.Item) (*Quote, error) {
	rs, err := Load(v)
	if err != nil {
		return nil, err
	}
	total, designated, err := Schedule(rs).Compute(items, rs.DesignatedCollection)
	if err != nil {
		return nil, err
	}
	return &Quote{Fee: total, Designated: designated, Dividend: dividendOf(rs, designated)}, nil
}

func dividendOf(rs *entry.RegistryState, designated uint64) uint64 {
	if rs.DividendShare == 0 || rs.RateBase == 0 {
		return 0
	}
	hi, lo := bits.Mul64(designated, rs.DividendShare)
	q, _ := bits.Div64(hi, lo, rs.RateBase)
	return q
}

// chargeFee collects the bundle fee from the sender, forwards the dividend
// part to the stake market and credits the rest to the registry owner.
func chargeFee(ctx *tx.ApplyContext, rs *entry.RegistryState, items []types.Item) (uint64, tx.Result) {
	total, designated, err := Schedule(rs).Compute(items, rs.DesignatedCollection)
	if err != nil {
		if errors.Is(err, types.ErrUnknownProtocol) {
			return 0, tx.TemBAD_BUNDLE
		}
		return 0, tx.ResultFromError(err)
	}
	if ctx.Value() < total {
		return 0, tx.TecINSUFF_FEE
	}
	if r := ctx.Collect(total, types.RegistryAccount); !r.IsSuccess() {
		return 0, r
	}

	dividend := dividendOf(rs, designated)
	if dividend > 0 {
		err := stake.DistributeDividend(ctx.View, types.RegistryAccount, dividend)
		switch {
		case errors.Is(err, stake.ErrNotInitialized):
			dividend = 0
		case err != nil:
			return 0, tx.ResultFromError(err)
		}
	}
	if err := sle.TransferNative(ctx.View, types.RegistryAccount, rs.Owner, total-dividend); err != nil {
		return 0, tx.ResultFromError(err)
	}
	return total, tx.TesSUCCESS
}

// Result maps registry errors to transaction results.
func Result(err error) tx.Result {
	switch {
	case err == nil:
		return tx.TesSUCCESS
	case errors.Is(err, ErrNotInitialized):
		return tx.TecNO_ENTRY
	default:
		return tx.ResultFromError(err)
	}
}

func writePropose(v tx.LedgerView, p *entry.ProposeOrder) error {
	return sle.Write(v, keylet.Propose(p.ID), p)
}

func writeMatch(v tx.LedgerView, m *entry.MatchOrder) error {
	return sle.Write(v, keylet.Match(m.ID), m)
}
