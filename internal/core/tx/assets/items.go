package assets

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

var (
	// ErrUnknownCollection is returned for a collection that was never registered.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrInsufficientItems is returned when a holder owns fewer units than moved.
	ErrInsufficientItems = errors.New("insufficient item balance")
)

// GetCollection returns the registered collection, or nil.
func GetCollection(v tx.LedgerView, coll types.AccountID) (*entry.Collection, error) {
	return sle.Read[entry.Collection](v, keylet.Collection(coll))
}

// RegisterCollection records coll and the transfer convention it follows.
func RegisterCollection(v tx.LedgerView, coll types.AccountID, protocol types.Protocol) error {
	if !protocol.Valid() {
		return types.ErrUnknownProtocol
	}
	return sle.Write(v, keylet.Collection(coll), &entry.Collection{Address: coll, Protocol: protocol})
}

// Holding returns how many units of (coll, itemID) holder owns.
func Holding(v tx.LedgerView, coll types.AccountID, itemID uint64, holder types.AccountID) (uint64, error) {
	h, err := sle.Read[entry.ItemHolding](v, keylet.Holding(coll, itemID, holder))
	if err != nil || h == nil {
		return 0, err
	}
	return h.Amount, nil
}

func setHolding(v tx.LedgerView, coll types.AccountID, itemID uint64, holder types.AccountID, amount uint64) error {
	k := keylet.Holding(coll, itemID, holder)
	if amount == 0 {
		return sle.Erase(v, k)
	}
	return sle.Write(v, k, &entry.ItemHolding{Collection: coll, ItemID: itemID, Holder: holder, Amount: amount})
}

// CreditItem adds units of an item to holder.
func CreditItem(v tx.LedgerView, coll types.AccountID, itemID uint64, holder types.AccountID, amount uint64) error {
	cur, err := Holding(v, coll, itemID, holder)
	if err != nil {
		return err
	}
	if cur, err = sle.AddChecked(cur, amount); err != nil {
		return err
	}
	return setHolding(v, coll, itemID, holder, cur)
}

// DebitItem removes units of an item from holder.
func DebitItem(v tx.LedgerView, coll types.AccountID, itemID uint64, holder types.AccountID, amount uint64) error {
	cur, err := Holding(v, coll, itemID, holder)
	if err != nil {
		return err
	}
	if cur < amount {
		return ErrInsufficientItems
	}
	return setHolding(v, coll, itemID, holder, cur-amount)
}

// MoveItem moves units of an item between holders without any
// authorization check.
func MoveItem(v tx.LedgerView, coll types.AccountID, itemID uint64, from, to types.AccountID, amount uint64) error {
	if err := DebitItem(v, coll, itemID, from, amount); err != nil {
		return err
	}
	return CreditItem(v, coll, itemID, to, amount)
}

// IsApprovedForAll reports whether owner lets operator move any of its
// items in coll.
func IsApprovedForAll(v tx.LedgerView, coll, owner, operator types.AccountID) (bool, error) {
	return v.Exists(keylet.OperatorApproval(coll, owner, operator))
}

// SetApprovalForAll grants or revokes an operator approval.
func SetApprovalForAll(v tx.LedgerView, coll, owner, operator types.AccountID, approved bool) error {
	k := keylet.OperatorApproval(coll, owner, operator)
	if !approved {
		return sle.Erase(v, k)
	}
	return sle.Write(v, k, &entry.OperatorApproval{Collection: coll, Owner: owner, Operator: operator})
}

// GetLegacyOffer returns the pending single-item offer, or nil.
func GetLegacyOffer(v tx.LedgerView, coll types.AccountID, itemID uint64) (*entry.LegacyOffer, error) {
	return sle.Read[entry.LegacyOffer](v, keylet.LegacyOffer(coll, itemID))
}

// SetLegacyOffer offers a legacy item to operator. A zero operator clears
// the offer.
func SetLegacyOffer(v tx.LedgerView, coll types.AccountID, itemID uint64, owner, operator types.AccountID) error {
	k := keylet.LegacyOffer(coll, itemID)
	if operator.IsZero() {
		return sle.Erase(v, k)
	}
	return sle.Write(v, k, &entry.LegacyOffer{Collection: coll, ItemID: itemID, Owner: owner, Operator: operator})
}

// ClearLegacyOffer removes any offer on the item.
func ClearLegacyOffer(v tx.LedgerView, coll types.AccountID, itemID uint64) error {
	return sle.Erase(v, keylet.LegacyOffer(coll, itemID))
}
