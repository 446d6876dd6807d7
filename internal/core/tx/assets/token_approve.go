package assets

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeTokenApprove, func() tx.Transaction {
		return &TokenApprove{BaseTx: *tx.NewBaseTx(tx.TypeTokenApprove, types.ZeroAccount)}
	})
}

// TokenApprove sets how much of the sender's reward token Spender may pull.
// An Amount of zero revokes the allowance.
type TokenApprove struct {
	tx.BaseTx

	Token   types.AccountID `json:"Token"`
	Spender types.AccountID `json:"Spender"`
	Amount  uint64          `json:"Amount"`
}

func NewTokenApprove(account, token, spender types.AccountID, amount uint64) *TokenApprove {
	return &TokenApprove{
		BaseTx:  *tx.NewBaseTx(tx.TypeTokenApprove, account),
		Token:   token,
		Spender: spender,
		Amount:  amount,
	}
}

func (t *TokenApprove) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Token.IsZero() || t.Spender.IsZero() {
		return errors.New("temMALFORMED: Token and Spender are required")
	}
	if t.Spender == t.Account {
		return errors.New("temREDUNDANT: cannot approve self")
	}
	return nil
}

func (t *TokenApprove) Apply(ctx *tx.ApplyContext) tx.Result {
	if err := SetAllowance(ctx.View, t.Token, ctx.AccountID, t.Spender, t.Amount); err != nil {
		return tx.ResultFromError(err)
	}
	return tx.TesSUCCESS
}
