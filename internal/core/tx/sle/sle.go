// Package sle reads and writes typed ledger entries through a LedgerView.
package sle

import (
	"errors"
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/ledger/view"
)

var (
	// ErrInsufficientFunds is returned when a debit exceeds a balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrOverflow is returned when a credit would overflow a balance.
	ErrOverflow = errors.New("balance overflow")
)

// EntryPtr is satisfied by pointers to entry structs.
type EntryPtr[T any] interface {
	*T
	entry.Entry
}

// Read loads the entry at k. It returns nil and no error when the entry
// does not exist.
func Read[T any, P EntryPtr[T]](v view.LedgerView, k keylet.Keylet) (P, error) {
	data, err := v.Read(k)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	out := P(new(T))
	if err := entry.Decode(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Write inserts or updates the entry at k.
func Write(v view.LedgerView, k keylet.Keylet, e entry.Entry) error {
	if k.Type != e.EntryType() {
		return fmt.Errorf("%w: keylet %s, entry %s", entry.ErrTypeMismatch, k.Type, e.EntryType())
	}
	data, err := entry.Encode(e)
	if err != nil {
		return err
	}
	exists, err := v.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return v.Update(k, data)
	}
	return v.Insert(k, data)
}

// Erase removes the entry at k if it exists.
func Erase(v view.LedgerView, k keylet.Keylet) error {
	exists, err := v.Exists(k)
	if err != nil || !exists {
		return err
	}
	return v.Erase(k)
}

// AddChecked returns a+b or ErrOverflow.
func AddChecked(a, b uint64) (uint64, error) {
	s := a + b
	if s < a {
		return 0, ErrOverflow
	}
	return s, nil
}

// MulChecked returns a*b or ErrOverflow.
func MulChecked(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	p := a * b
	if p/b != a {
		return 0, ErrOverflow
	}
	return p, nil
}
