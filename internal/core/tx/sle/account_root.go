package sle

import (
	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/ledger/view"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

// ReadAccount returns the account root, or nil if the account does not
// exist.
func ReadAccount(v view.LedgerView, id types.AccountID) (*entry.AccountRoot, error) {
	return Read[entry.AccountRoot](v, keylet.Account(id))
}

// NativeBalance returns the native balance of id, zero for a missing account.
func NativeBalance(v view.LedgerView, id types.AccountID) (uint64, error) {
	acct, err := ReadAccount(v, id)
	if err != nil || acct == nil {
		return 0, err
	}
	return acct.Balance, nil
}

// CreditNative adds amount to id's balance, creating the account root if
// needed. New accounts start at sequence 1.
func CreditNative(v view.LedgerView, id types.AccountID, amount uint64) error {
	acct, err := ReadAccount(v, id)
	if err != nil {
		return err
	}
	if acct == nil {
		acct = &entry.AccountRoot{Account: id, Sequence: 1}
	}
	if acct.Balance, err = AddChecked(acct.Balance, amount); err != nil {
		return err
	}
	return Write(v, keylet.Account(id), acct)
}

// DebitNative removes amount from id's balance.
func DebitNative(v view.LedgerView, id types.AccountID, amount uint64) error {
	if amount == 0 {
		return nil
	}
	acct, err := ReadAccount(v, id)
	if err != nil {
		return err
	}
	if acct == nil || acct.Balance < amount {
		return ErrInsufficientFunds
	}
	acct.Balance -= amount
	return Write(v, keylet.Account(id), acct)
}

// TransferNative moves amount from one account to another.
func TransferNative(v view.LedgerView, from, to types.AccountID, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := DebitNative(v, from, amount); err != nil {
		return err
	}
	return CreditNative(v, to, amount)
}
