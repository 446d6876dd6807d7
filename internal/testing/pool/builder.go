// Package pool provides builders and helpers for liquidity pool tests.
package pool

import (
	gotesting "testing"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	pooltx "github.com/LeJamon/pixpressd/internal/core/tx/pool"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/LeJamon/pixpressd/internal/testing"
)

// Deposit builds an OwnerDeposit from acc.
func Deposit(acc *testing.Account, amount uint64) tx.Transaction {
	return pooltx.NewOwnerDeposit(acc.ID, amount)
}

// Withdraw builds an OwnerWithdraw from acc.
func Withdraw(acc *testing.Account, amount uint64) tx.Transaction {
	return pooltx.NewOwnerWithdraw(acc.ID, amount)
}

// Grant builds a GrantCoordinator from acc.
func Grant(acc *testing.Account, coordinator types.AccountID) tx.Transaction {
	return pooltx.NewGrantCoordinator(acc.ID, coordinator)
}

// AllowPull approves the pool account to pull amount of acc's reward
// tokens.
func AllowPull(env *testing.TestEnv, acc *testing.Account, amount uint64) testing.TxResult {
	return env.Submit(assets.NewTokenApprove(acc.ID, env.Genesis.RewardToken, types.PoolAccount, amount))
}

// Fill gives the owner amount tokens and deposits them.
func Fill(t *gotesting.T, env *testing.TestEnv, amount uint64) {
	t.Helper()
	env.GiveTokens(env.Owner, amount)
	testing.RequireTxSuccess(t, AllowPull(env, env.Owner, amount))
	testing.RequireTxSuccess(t, env.Submit(Deposit(env.Owner, amount)))
}

// Info reads the pool.
func Info(env *testing.TestEnv) *pooltx.Info {
	var info *pooltx.Info
	env.Read(func(v tx.LedgerView) error {
		var err error
		info, err = pooltx.GetInfo(v)
		return err
	})
	return info
}
