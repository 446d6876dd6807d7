package tx

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/sirupsen/logrus"
)

// ApplyContext provides all the state and helpers needed to apply a transaction.
// It is passed to Appliable.Apply() instead of individual parameters.
type ApplyContext struct {
	// View provides read/write access to ledger state (the ApplyStateTable)
	View LedgerView

	// AccountID is the source account
	AccountID types.AccountID

	// Tx is the transaction being applied
	Tx Transaction

	// TxHash is the hash of the current transaction
	TxHash [32]byte

	// Hooks resolves receive hooks for standard-convention transfers
	Hooks HookLookup

	// Log is scoped to the current transaction
	Log logrus.FieldLogger

	collected uint64
}

// Value returns the native amount attached to the transaction.
func (ctx *ApplyContext) Value() uint64 {
	return ctx.Tx.GetCommon().Value
}

// Collected returns how much of the attached value has been taken so far.
func (ctx *ApplyContext) Collected() uint64 {
	return ctx.collected
}

// Collect takes amount from the attached value and pays it to dest. It
// returns TecINSUFF_FEE when the uncollected attachment is too small.
func (ctx *ApplyContext) Collect(amount uint64, dest types.AccountID) Result {
	if amount > ctx.Value()-ctx.collected {
		return TecINSUFF_FEE
	}
	if err := sle.TransferNative(ctx.View, ctx.AccountID, dest, amount); err != nil {
		return ResultFromError(err)
	}
	ctx.collected += amount
	return TesSUCCESS
}

// ResultFromError maps helper errors to result codes.
func ResultFromError(err error) Result {
	switch {
	case err == nil:
		return TesSUCCESS
	case errors.Is(err, sle.ErrInsufficientFunds):
		return TecUNFUNDED
	case errors.Is(err, sle.ErrOverflow):
		return TecOVERFLOW
	default:
		return TefINTERNAL
	}
}
