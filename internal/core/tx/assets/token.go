// Package assets keeps the minimal bookkeeping of the ledgers the engine
// consumes: the reward token and the item collections.
package assets

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

// ErrAllowanceExceeded is returned when a spender pulls more than it was
// approved for.
var ErrAllowanceExceeded = errors.New("allowance exceeded")

// TokenBalance returns holder's balance of token.
func TokenBalance(v tx.LedgerView, token, holder types.AccountID) (uint64, error) {
	b, err := sle.Read[entry.TokenBalance](v, keylet.TokenBalance(token, holder))
	if err != nil || b == nil {
		return 0, err
	}
	return b.Amount, nil
}

func setTokenBalance(v tx.LedgerView, token, holder types.AccountID, amount uint64) error {
	k := keylet.TokenBalance(token, holder)
	if amount == 0 {
		return sle.Erase(v, k)
	}
	return sle.Write(v, k, &entry.TokenBalance{Token: token, Holder: holder, Amount: amount})
}

// CreditToken adds amount to holder's balance.
func CreditToken(v tx.LedgerView, token, holder types.AccountID, amount uint64) error {
	bal, err := TokenBalance(v, token, holder)
	if err != nil {
		return err
	}
	if bal, err = sle.AddChecked(bal, amount); err != nil {
		return err
	}
	return setTokenBalance(v, token, holder, bal)
}

// DebitToken removes amount from holder's balance.
func DebitToken(v tx.LedgerView, token, holder types.AccountID, amount uint64) error {
	bal, err := TokenBalance(v, token, holder)
	if err != nil {
		return err
	}
	if bal < amount {
		return sle.ErrInsufficientFunds
	}
	return setTokenBalance(v, token, holder, bal-amount)
}

// TransferToken moves amount between holders.
func TransferToken(v tx.LedgerView, token, from, to types.AccountID, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := DebitToken(v, token, from, amount); err != nil {
		return err
	}
	return CreditToken(v, token, to, amount)
}

// Allowance returns how much spender may pull from owner.
func Allowance(v tx.LedgerView, token, owner, spender types.AccountID) (uint64, error) {
	a, err := sle.Read[entry.TokenAllowance](v, keylet.TokenAllowance(token, owner, spender))
	if err != nil || a == nil {
		return 0, err
	}
	return a.Amount, nil
}

// SetAllowance replaces the allowance of spender over owner's tokens.
func SetAllowance(v tx.LedgerView, token, owner, spender types.AccountID, amount uint64) error {
	k := keylet.TokenAllowance(token, owner, spender)
	if amount == 0 {
		return sle.Erase(v, k)
	}
	return sle.Write(v, k, &entry.TokenAllowance{Token: token, Owner: owner, Spender: spender, Amount: amount})
}

// TransferTokenFrom moves amount from `from` to `to` on behalf of spender,
// consuming allowance unless spender is the holder.
func TransferTokenFrom(v tx.LedgerView, token, spender, from, to types.AccountID, amount uint64) error {
	if spender != from {
		allowed, err := Allowance(v, token, from, spender)
		if err != nil {
			return err
		}
		if allowed < amount {
			return ErrAllowanceExceeded
		}
		if err := SetAllowance(v, token, from, spender, allowed-amount); err != nil {
			return err
		}
	}
	return TransferToken(v, token, from, to, amount)
}
