package pool

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeGrantCoordinator, func() tx.Transaction {
		return &GrantCoordinator{BaseTx: *tx.NewBaseTx(tx.TypeGrantCoordinator, types.ZeroAccount)}
	})
}

// GrantCoordinator hands the reward-draw capability to Coordinator,
// replacing any previous holder.
type GrantCoordinator struct {
	tx.BaseTx

	Coordinator types.AccountID `json:"Coordinator"`
}

// NewGrantCoordinator creates a new GrantCoordinator transaction
func NewGrantCoordinator(account, coordinator types.AccountID) *GrantCoordinator {
	return &GrantCoordinator{
		BaseTx:      *tx.NewBaseTx(tx.TypeGrantCoordinator, account),
		Coordinator: coordinator,
	}
}

// TxType returns the transaction type
func (g *GrantCoordinator) TxType() tx.Type {
	return tx.TypeGrantCoordinator
}

// Validate validates the GrantCoordinator transaction
func (g *GrantCoordinator) Validate() error {
	if err := g.BaseTx.Validate(); err != nil {
		return err
	}
	if g.Coordinator.IsZero() {
		return errors.New("temMALFORMED: Coordinator is required")
	}
	return nil
}

// Apply applies the GrantCoordinator transaction
func (g *GrantCoordinator) Apply(ctx *tx.ApplyContext) tx.Result {
	ps, err := Load(ctx.View)
	if err != nil {
		return Result(err)
	}
	if ctx.AccountID != ps.Owner {
		return tx.TecNO_PERMISSION
	}
	if ps.Coordinator == g.Coordinator {
		return tx.TesSUCCESS
	}
	ps.Coordinator = g.Coordinator
	if err := store(ctx.View, ps); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
