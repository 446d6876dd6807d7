package stake

import (
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypePauseMarket, func() tx.Transaction {
		return &PauseMarket{BaseTx: *tx.NewBaseTx(tx.TypePauseMarket, types.ZeroAccount)}
	})
	tx.Register(tx.TypeResumeMarket, func() tx.Transaction {
		return &ResumeMarket{BaseTx: *tx.NewBaseTx(tx.TypeResumeMarket, types.ZeroAccount)}
	})
}

// PauseMarket stops new orders from being created. Existing orders can
// still be cancelled, claimed and bought.
type PauseMarket struct {
	tx.BaseTx
}

// NewPauseMarket creates a new PauseMarket transaction
func NewPauseMarket(account types.AccountID) *PauseMarket {
	return &PauseMarket{BaseTx: *tx.NewBaseTx(tx.TypePauseMarket, account)}
}

// TxType returns the transaction type
func (p *PauseMarket) TxType() tx.Type {
	return tx.TypePauseMarket
}

// Apply applies the PauseMarket transaction
func (p *PauseMarket) Apply(ctx *tx.ApplyContext) tx.Result {
	return setPaused(ctx, true)
}

// ResumeMarket lifts a pause.
type ResumeMarket struct {
	tx.BaseTx
}

// NewResumeMarket creates a new ResumeMarket transaction
func NewResumeMarket(account types.AccountID) *ResumeMarket {
	return &ResumeMarket{BaseTx: *tx.NewBaseTx(tx.TypeResumeMarket, account)}
}

// TxType returns the transaction type
func (r *ResumeMarket) TxType() tx.Type {
	return tx.TypeResumeMarket
}

// Apply applies the ResumeMarket transaction
func (r *ResumeMarket) Apply(ctx *tx.ApplyContext) tx.Result {
	return setPaused(ctx, false)
}

func setPaused(ctx *tx.ApplyContext, paused bool) tx.Result {
	ms, err := Load(ctx.View)
	if err != nil {
		return Result(err)
	}
	if ctx.AccountID != ms.Owner {
		return tx.TecNO_PERMISSION
	}
	if ms.Paused == paused {
		return tx.TesSUCCESS
	}
	ms.Paused = paused
	if err := storeMarket(ctx.View, ms); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
