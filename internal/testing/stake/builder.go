// Package stake provides builders and helpers for staking market tests.
package stake

import (
	gotesting "testing"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	staketx "github.com/LeJamon/pixpressd/internal/core/tx/stake"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/LeJamon/pixpressd/internal/testing"
)

// Create builds a CreateOrder.
func Create(acc *testing.Account, itemID, price uint64) tx.Transaction {
	return staketx.NewCreateOrder(acc.ID, itemID, price)
}

// Cancel builds a CancelOrder.
func Cancel(acc *testing.Account, itemID uint64) tx.Transaction {
	return staketx.NewCancelOrder(acc.ID, itemID)
}

// Claim builds a ClaimRevenue.
func Claim(acc *testing.Account, itemID uint64) tx.Transaction {
	return staketx.NewClaimRevenue(acc.ID, itemID)
}

// Buy builds a BuyOrder carrying value.
func Buy(acc *testing.Account, itemID, value uint64) tx.Transaction {
	return staketx.NewBuyOrder(acc.ID, itemID, value)
}

func Pause(acc *testing.Account) tx.Transaction  { return staketx.NewPauseMarket(acc.ID) }
func Resume(acc *testing.Account) tx.Transaction { return staketx.NewResumeMarket(acc.ID) }

// AllowStake approves the market account as operator of acc's items in
// the market collection.
func AllowStake(t *gotesting.T, env *testing.TestEnv, acc *testing.Account) {
	t.Helper()
	testing.RequireTxSuccess(t, env.Submit(
		assets.NewSetOperatorApproval(acc.ID, env.Genesis.DesignatedCollection, types.MarketAccount, true)))
}

// Stake gives acc the item, approves the market and lists it at price.
func Stake(t *gotesting.T, env *testing.TestEnv, acc *testing.Account, itemID, price uint64) {
	t.Helper()
	env.GiveItem(acc, Item(env, itemID))
	AllowStake(t, env, acc)
	testing.RequireTxSuccess(t, env.Submit(Create(acc, itemID, price)))
}

// Item returns the single-unit market item for itemID.
func Item(env *testing.TestEnv, itemID uint64) types.Item {
	return types.Item{
		Collection: env.Genesis.DesignatedCollection,
		ItemID:     itemID,
		Amount:     1,
		Protocol:   env.Genesis.Collections[env.Genesis.DesignatedCollection],
	}
}

// Order reads the active order for itemID, or nil.
func Order(env *testing.TestEnv, itemID uint64) *entry.StakedOrder {
	var o *entry.StakedOrder
	env.Read(func(v tx.LedgerView) error {
		var err error
		o, err = staketx.GetOrder(v, itemID)
		return err
	})
	return o
}

// Active lists the active orders in directory order.
func Active(env *testing.TestEnv) []*entry.StakedOrder {
	var out []*entry.StakedOrder
	env.Read(func(v tx.LedgerView) error {
		var err error
		out, err = staketx.ActiveOrders(v)
		return err
	})
	return out
}

// CheckDirectory fails the test if the active order directory is
// inconsistent.
func CheckDirectory(t *gotesting.T, env *testing.TestEnv) {
	t.Helper()
	env.Read(func(v tx.LedgerView) error {
		return staketx.CheckDirectory(v)
	})
}
