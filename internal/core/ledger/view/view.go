// Package view holds the ledger state views the transaction engine applies
// to: an in-memory map and a database-backed store.
package view

import (
	"context"
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
)

var (
	// ErrEntryExists is returned when inserting over an existing entry.
	ErrEntryExists = errors.New("entry already exists")
	// ErrEntryNotFound is returned when updating or erasing a missing entry.
	ErrEntryNotFound = errors.New("entry not found")
)

// LedgerView provides read/write access to ledger state.
// Read returns nil data and a nil error for a missing entry.
type LedgerView interface {
	// Read reads a ledger entry
	Read(k keylet.Keylet) ([]byte, error)

	// Exists checks if an entry exists
	Exists(k keylet.Keylet) (bool, error)

	// Insert adds a new entry
	Insert(k keylet.Keylet, data []byte) error

	// Update modifies an existing entry
	Update(k keylet.Keylet, data []byte) error

	// Erase removes an entry
	Erase(k keylet.Keylet) error

	// ForEach iterates over all state entries in key order.
	// If fn returns false, iteration stops early
	ForEach(fn func(key [32]byte, data []byte) bool) error
}

// Committer is implemented by views that buffer writes until told to
// persist them.
type Committer interface {
	Commit(ctx context.Context) error
	Discard()
}
