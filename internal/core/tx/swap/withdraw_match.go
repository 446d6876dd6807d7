package swap

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/transfer"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeWithdrawMatch, func() tx.Transaction {
		return &WithdrawMatch{BaseTx: *tx.NewBaseTx(tx.TypeWithdrawMatch, types.ZeroAccount)}
	})
}

// WithdrawMatch returns an open match's escrow to its matcher. The match
// fee is not refunded.
type WithdrawMatch struct {
	tx.BaseTx

	ProposeID uint64 `json:"ProposeID"`
	MatchID   uint64 `json:"MatchID"`
}

// NewWithdrawMatch creates a new WithdrawMatch transaction
func NewWithdrawMatch(account types.AccountID, proposeID, matchID uint64) *WithdrawMatch {
	return &WithdrawMatch{
		BaseTx:    *tx.NewBaseTx(tx.TypeWithdrawMatch, account),
		ProposeID: proposeID,
		MatchID:   matchID,
	}
}

// TxType returns the transaction type
func (w *WithdrawMatch) TxType() tx.Type {
	return tx.TypeWithdrawMatch
}

// Validate validates the WithdrawMatch transaction
func (w *WithdrawMatch) Validate() error {
	if err := w.BaseTx.Validate(); err != nil {
		return err
	}
	if w.ProposeID == 0 || w.MatchID == 0 {
		return errors.New("temMALFORMED: ProposeID and MatchID are required")
	}
	return nil
}

// Apply applies the WithdrawMatch transaction
func (w *WithdrawMatch) Apply(ctx *tx.ApplyContext) tx.Result {
	match, err := GetMatch(ctx.View, w.MatchID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if match == nil || match.ProposeID != w.ProposeID {
		return tx.TecNO_ENTRY
	}
	if match.Matcher != ctx.AccountID {
		return tx.TecNO_PERMISSION
	}
	switch match.Status {
	case entry.MatchAccepted:
		return tx.TecALREADY_ACCEPTED
	case entry.MatchWithdrawn:
		return tx.TecNO_ENTRY
	}

	match.Status = entry.MatchWithdrawn
	if err := writeMatch(ctx.View, match); err != nil {
		return tx.TefINTERNAL
	}
	err = transfer.ForContext(ctx).MoveAll(ctx.View, types.RegistryAccount, types.RegistryAccount, match.Matcher, match.Items)
	if err != nil {
		return transfer.Result(err)
	}
	return tx.TesSUCCESS
}
