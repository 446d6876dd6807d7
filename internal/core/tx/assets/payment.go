package assets

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypePayment, func() tx.Transaction {
		return &Payment{BaseTx: *tx.NewBaseTx(tx.TypePayment, types.ZeroAccount)}
	})
}

// Payment transfers native currency between accounts. A missing
// destination account is created.
type Payment struct {
	tx.BaseTx

	Destination types.AccountID `json:"Destination"`
	Amount      uint64          `json:"Amount"`
}

// NewPayment creates a new Payment transaction
func NewPayment(account, destination types.AccountID, amount uint64) *Payment {
	return &Payment{
		BaseTx:      *tx.NewBaseTx(tx.TypePayment, account),
		Destination: destination,
		Amount:      amount,
	}
}

// Validate validates the Payment transaction
func (p *Payment) Validate() error {
	if err := p.BaseTx.Validate(); err != nil {
		return err
	}
	if p.Destination.IsZero() {
		return errors.New("temDST_NEEDED: Destination is required")
	}
	if p.Destination == p.Account {
		return errors.New("temDST_IS_SRC: Destination may not be source")
	}
	if p.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply applies a Payment transaction
func (p *Payment) Apply(ctx *tx.ApplyContext) tx.Result {
	if err := sle.TransferNative(ctx.View, ctx.AccountID, p.Destination, p.Amount); err != nil {
		return tx.ResultFromError(err)
	}
	return tx.TesSUCCESS
}
