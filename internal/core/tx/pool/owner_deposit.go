package pool

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeOwnerDeposit, func() tx.Transaction {
		return &OwnerDeposit{BaseTx: *tx.NewBaseTx(tx.TypeOwnerDeposit, types.ZeroAccount)}
	})
}

// OwnerDeposit pulls Amount of the reward token from the owner into the
// reserve. The owner must first approve the pool account as spender.
type OwnerDeposit struct {
	tx.BaseTx

	Amount uint64 `json:"Amount"`
}

// NewOwnerDeposit creates a new OwnerDeposit transaction
func NewOwnerDeposit(account types.AccountID, amount uint64) *OwnerDeposit {
	return &OwnerDeposit{
		BaseTx: *tx.NewBaseTx(tx.TypeOwnerDeposit, account),
		Amount: amount,
	}
}

// TxType returns the transaction type
func (d *OwnerDeposit) TxType() tx.Type {
	return tx.TypeOwnerDeposit
}

// Validate validates the OwnerDeposit transaction
func (d *OwnerDeposit) Validate() error {
	if err := d.BaseTx.Validate(); err != nil {
		return err
	}
	if d.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply applies the OwnerDeposit transaction
func (d *OwnerDeposit) Apply(ctx *tx.ApplyContext) tx.Result {
	ps, err := Load(ctx.View)
	if err != nil {
		return Result(err)
	}
	if ctx.AccountID != ps.Owner {
		return tx.TecNO_PERMISSION
	}

	if ps.Reserve, err = sle.AddChecked(ps.Reserve, d.Amount); err != nil {
		return tx.TecOVERFLOW
	}
	// The upper boundary must stay representable or no reward can be drawn.
	if _, err := UpperBoundary(ps); err != nil {
		return tx.TecOVERFLOW
	}
	if err := store(ctx.View, ps); err != nil {
		return tx.TefINTERNAL
	}

	err = assets.TransferTokenFrom(ctx.View, ps.Token, types.PoolAccount, ps.Owner, types.PoolAccount, d.Amount)
	if err != nil {
		ctx.Log.WithError(err).Debug("deposit pull failed")
		return Result(err)
	}
	return tx.TesSUCCESS
}
