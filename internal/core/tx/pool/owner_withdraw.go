package pool

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeOwnerWithdraw, func() tx.Transaction {
		return &OwnerWithdraw{BaseTx: *tx.NewBaseTx(tx.TypeOwnerWithdraw, types.ZeroAccount)}
	})
}

// OwnerWithdraw returns Amount of the reserve to the owner.
type OwnerWithdraw struct {
	tx.BaseTx

	Amount uint64 `json:"Amount"`
}

// NewOwnerWithdraw creates a new OwnerWithdraw transaction
func NewOwnerWithdraw(account types.AccountID, amount uint64) *OwnerWithdraw {
	return &OwnerWithdraw{
		BaseTx: *tx.NewBaseTx(tx.TypeOwnerWithdraw, account),
		Amount: amount,
	}
}

// TxType returns the transaction type
func (w *OwnerWithdraw) TxType() tx.Type {
	return tx.TypeOwnerWithdraw
}

// Validate validates the OwnerWithdraw transaction
func (w *OwnerWithdraw) Validate() error {
	if err := w.BaseTx.Validate(); err != nil {
		return err
	}
	if w.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply applies the OwnerWithdraw transaction
func (w *OwnerWithdraw) Apply(ctx *tx.ApplyContext) tx.Result {
	ps, err := Load(ctx.View)
	if err != nil {
		return Result(err)
	}
	if ctx.AccountID != ps.Owner {
		return tx.TecNO_PERMISSION
	}
	if w.Amount > ps.Reserve {
		return tx.TecINSUFFICIENT_RESERVE
	}

	// Reserve is debited before the token leaves custody.
	ps.Reserve -= w.Amount
	if err := store(ctx.View, ps); err != nil {
		return tx.TefINTERNAL
	}
	if err := assets.TransferToken(ctx.View, ps.Token, types.PoolAccount, ps.Owner, w.Amount); err != nil {
		return Result(err)
	}
	return tx.TesSUCCESS
}
