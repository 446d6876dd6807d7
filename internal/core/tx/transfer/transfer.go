// Package transfer moves items between accounts through the convention
// their collection follows.
package transfer

import (
	"errors"
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

var (
	// ErrRejected wraps every reason a transfer leg can fail.
	ErrRejected = errors.New("transfer rejected")

	errNotAuthorized    = errors.New("operator not authorized")
	errProtocolMismatch = errors.New("collection protocol does not match item tag")
	errLegacyAmount     = errors.New("legacy items move one at a time")
	errHookRefused      = errors.New("recipient refused item")
)

// Strategy implements one transfer convention.
type Strategy interface {
	Move(v tx.LedgerView, hooks tx.HookLookup, operator, from, to types.AccountID, item types.Item) error
}

// Adapter dispatches item moves to the strategy for the item's protocol.
type Adapter struct {
	hooks      tx.HookLookup
	strategies map[types.Protocol]Strategy
}

// New returns an adapter with the standard and legacy strategies. hooks
// may be nil, in which case no receive hooks run.
func New(hooks tx.HookLookup) *Adapter {
	return &Adapter{
		hooks: hooks,
		strategies: map[types.Protocol]Strategy{
			types.ProtocolStandard: standard{},
			types.ProtocolLegacy:   legacy{},
		},
	}
}

// ForContext returns an adapter bound to the engine's receive hooks.
func ForContext(ctx *tx.ApplyContext) *Adapter {
	return New(ctx.Hooks)
}

// Move transfers item.Amount units of item from `from` to `to`, acting as
// operator. Every failure wraps ErrRejected.
func (a *Adapter) Move(v tx.LedgerView, operator, from, to types.AccountID, item types.Item) error {
	s, ok := a.strategies[item.Protocol]
	if !ok {
		return fmt.Errorf("%w: %w", ErrRejected, types.ErrUnknownProtocol)
	}
	if item.Amount == 0 {
		return fmt.Errorf("%w: %w", ErrRejected, types.ErrZeroAmount)
	}
	coll, err := assets.GetCollection(v, item.Collection)
	if err != nil {
		return err
	}
	if coll == nil {
		return fmt.Errorf("%w: %w", ErrRejected, assets.ErrUnknownCollection)
	}
	if coll.Protocol != item.Protocol {
		return fmt.Errorf("%w: %w", ErrRejected, errProtocolMismatch)
	}
	if err := s.Move(v, a.hooks, operator, from, to, item); err != nil {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return nil
}

// MoveAll moves every item in order, stopping at the first failure. The
// caller's apply table discards partial moves.
func (a *Adapter) MoveAll(v tx.LedgerView, operator, from, to types.AccountID, items []types.Item) error {
	for _, it := range items {
		if err := a.Move(v, operator, from, to, it); err != nil {
			return err
		}
	}
	return nil
}

// Result maps a Move error to a transaction result.
func Result(err error) tx.Result {
	switch {
	case err == nil:
		return tx.TesSUCCESS
	case errors.Is(err, ErrRejected):
		return tx.TecTRANSFER_REJECTED
	default:
		return tx.TefINTERNAL
	}
}

type standard struct{}

func (standard) Move(v tx.LedgerView, hooks tx.HookLookup, operator, from, to types.AccountID, item types.Item) error {
	if operator != from {
		ok, err := assets.IsApprovedForAll(v, item.Collection, from, operator)
		if err != nil {
			return err
		}
		if !ok {
			return errNotAuthorized
		}
	}
	if err := assets.MoveItem(v, item.Collection, item.ItemID, from, to, item.Amount); err != nil {
		return err
	}
	if hooks != nil {
		if h := hooks.ReceiveHook(to); h != nil && !h.OnReceive(operator, from, item) {
			return errHookRefused
		}
	}
	return nil
}

type legacy struct{}

func (legacy) Move(v tx.LedgerView, _ tx.HookLookup, operator, from, to types.AccountID, item types.Item) error {
	if item.Amount != 1 {
		return errLegacyAmount
	}
	offer, err := assets.GetLegacyOffer(v, item.Collection, item.ItemID)
	if err != nil {
		return err
	}
	if operator != from && (offer == nil || offer.Owner != from || offer.Operator != operator) {
		return errNotAuthorized
	}
	if err := assets.MoveItem(v, item.Collection, item.ItemID, from, to, 1); err != nil {
		return err
	}
	// The item changed hands, so any pending offer is void.
	if offer != nil {
		return assets.ClearLegacyOffer(v, item.Collection, item.ItemID)
	}
	return nil
}
