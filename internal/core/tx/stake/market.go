// Package stake implements the stake market: sell orders for items of one
// designated collection, each accruing a claimable share of the swap fees
// collected while it is active.
package stake

import (
	"errors"
	"math/bits"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

var (
	ErrNotInitialized = errors.New("stake market not initialized")
	ErrUnknownPolicy  = errors.New("unknown dividend policy")
	ErrBadRate        = errors.New("house fee exceeds rate base")
)

// Config holds the market parameters fixed at genesis.
type Config struct {
	Owner      types.AccountID
	Collection types.AccountID
	HouseFee   uint64
	RateBase   uint64
	Policy     entry.DividendPolicy
}

// Init creates the market singleton. It is called once, from genesis.
func Init(v tx.LedgerView, cfg Config) error {
	if cfg.Policy == "" {
		cfg.Policy = entry.DividendEqual
	}
	if cfg.Policy != entry.DividendEqual && cfg.Policy != entry.DividendPrice {
		return ErrUnknownPolicy
	}
	if cfg.RateBase == 0 || cfg.HouseFee > cfg.RateBase {
		return ErrBadRate
	}
	return sle.Write(v, keylet.Market(), &entry.MarketState{
		Owner:      cfg.Owner,
		Collection: cfg.Collection,
		HouseFee:   cfg.HouseFee,
		RateBase:   cfg.RateBase,
		Policy:     cfg.Policy,
	})
}

// Load returns the market singleton.
func Load(v tx.LedgerView) (*entry.MarketState, error) {
	ms, err := sle.Read[entry.MarketState](v, keylet.Market())
	if err != nil {
		return nil, err
	}
	if ms == nil {
		return nil, ErrNotInitialized
	}
	return ms, nil
}

func storeMarket(v tx.LedgerView, ms *entry.MarketState) error {
	return sle.Write(v, keylet.Market(), ms)
}

// GetOrder returns the active order for itemID, or nil.
func GetOrder(v tx.LedgerView, itemID uint64) (*entry.StakedOrder, error) {
	ms, err := Load(v)
	if err != nil {
		return nil, err
	}
	return readOrder(v, ms, itemID)
}

func readOrder(v tx.LedgerView, ms *entry.MarketState, itemID uint64) (*entry.StakedOrder, error) {
	return sle.Read[entry.StakedOrder](v, keylet.StakedOrder(ms.Collection, itemID))
}

func writeOrder(v tx.LedgerView, ms *entry.MarketState, o *entry.StakedOrder) error {
	return sle.Write(v, keylet.StakedOrder(ms.Collection, o.ItemID), o)
}

// ActiveOrders returns every active order in directory order.
func ActiveOrders(v tx.LedgerView) ([]*entry.StakedOrder, error) {
	ms, err := Load(v)
	if err != nil {
		return nil, err
	}
	return activeOrders(v, ms)
}

func activeOrders(v tx.LedgerView, ms *entry.MarketState) ([]*entry.StakedOrder, error) {
	out := make([]*entry.StakedOrder, 0, ms.OrderCount)
	for i := uint64(0); i < ms.OrderCount; i++ {
		id, err := readSlot(v, ms, i)
		if err != nil {
			return nil, err
		}
		o, err := readOrder(v, ms, id)
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, errDanglingSlot
		}
		out = append(out, o)
	}
	return out, nil
}

// IsPaused reports whether order creation is paused.
func IsPaused(v tx.LedgerView) (bool, error) {
	ms, err := Load(v)
	if err != nil {
		return false, err
	}
	return ms.Paused, nil
}

// DistributeDividend pays amount of native currency from payer into the
// revenue of every active order, split by the market's policy. Whatever
// cannot be split, or everything when no order is active, goes to the
// market owner.
func DistributeDividend(v tx.LedgerView, payer types.AccountID, amount uint64) error {
	if amount == 0 {
		return nil
	}
	ms, err := Load(v)
	if err != nil {
		return err
	}
	orders, err := activeOrders(v, ms)
	if err != nil {
		return err
	}
	shares, err := splitShares(ms.Policy, orders, amount)
	if err != nil {
		return err
	}

	var paid uint64
	for i, o := range orders {
		if shares[i] == 0 {
			continue
		}
		if o.Revenue, err = sle.AddChecked(o.Revenue, shares[i]); err != nil {
			return err
		}
		if err := writeOrder(v, ms, o); err != nil {
			return err
		}
		paid += shares[i]
	}
	if err := sle.TransferNative(v, payer, types.MarketAccount, paid); err != nil {
		return err
	}
	return sle.TransferNative(v, payer, ms.Owner, amount-paid)
}

// splitShares returns each order's share of amount. The shares never sum
// to more than amount.
func splitShares(policy entry.DividendPolicy, orders []*entry.StakedOrder, amount uint64) ([]uint64, error) {
	shares := make([]uint64, len(orders))
	if len(orders) == 0 {
		return shares, nil
	}
	switch policy {
	case entry.DividendEqual, "":
		each := amount / uint64(len(orders))
		for i := range shares {
			shares[i] = each
		}
	case entry.DividendPrice:
		var total uint64
		for _, o := range orders {
			var err error
			if total, err = sle.AddChecked(total, o.Price); err != nil {
				return nil, err
			}
		}
		if total == 0 {
			return shares, nil
		}
		for i, o := range orders {
			// amount*price/total fits in 64 bits since price <= total.
			hi, lo := bits.Mul64(amount, o.Price)
			shares[i], _ = bits.Div64(hi, lo, total)
		}
	default:
		return nil, ErrUnknownPolicy
	}
	return shares, nil
}

// item is the transfer line for one staked item.
func item(v tx.LedgerView, ms *entry.MarketState, itemID uint64) (types.Item, error) {
	coll, err := assets.GetCollection(v, ms.Collection)
	if err != nil {
		return types.Item{}, err
	}
	if coll == nil {
		return types.Item{}, assets.ErrUnknownCollection
	}
	return types.Item{Collection: ms.Collection, ItemID: itemID, Amount: 1, Protocol: coll.Protocol}, nil
}

// payRevenue pays out and resets an order's accrued revenue.
func payRevenue(v tx.LedgerView, o *entry.StakedOrder) error {
	if o.Revenue == 0 {
		return nil
	}
	amount := o.Revenue
	o.Revenue = 0
	return sle.TransferNative(v, types.MarketAccount, o.Seller, amount)
}

// Result maps market errors to transaction results.
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
