package swap

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/core/tx/pool"
	"github.com/LeJamon/pixpressd/internal/core/tx/transfer"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/sirupsen/logrus"
)

func init() {
	tx.Register(tx.TypeAcceptSwap, func() tx.Transaction {
		return &AcceptSwap{BaseTx: *tx.NewBaseTx(tx.TypeAcceptSwap, types.ZeroAccount)}
	})
}

// AcceptSwap settles a proposal against one of its matches: both escrows
// change hands and a pool reward is split between the two parties.
type AcceptSwap struct {
	tx.BaseTx

	ProposeID uint64 `json:"ProposeID"`
	MatchID   uint64 `json:"MatchID"`
}

// NewAcceptSwap creates a new AcceptSwap transaction
func NewAcceptSwap(account types.AccountID, proposeID, matchID uint64) *AcceptSwap {
	return &AcceptSwap{
		BaseTx:    *tx.NewBaseTx(tx.TypeAcceptSwap, account),
		ProposeID: proposeID,
		MatchID:   matchID,
	}
}

// TxType returns the transaction type
func (a *AcceptSwap) TxType() tx.Type {
	return tx.TypeAcceptSwap
}

// Validate validates the AcceptSwap transaction
func (a *AcceptSwap) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}
	if a.ProposeID == 0 || a.MatchID == 0 {
		return errors.New("temMALFORMED: ProposeID and MatchID are required")
	}
	return nil
}

// Apply applies the AcceptSwap transaction
func (a *AcceptSwap) Apply(ctx *tx.ApplyContext) tx.Result {
	propose, err := GetPropose(ctx.View, a.ProposeID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if propose == nil {
		return tx.TecNO_ENTRY
	}
	if propose.Proposer != ctx.AccountID {
		return tx.TecNO_PERMISSION
	}
	if propose.Accepted() {
		return tx.TecALREADY_ACCEPTED
	}
	match, err := GetMatch(ctx.View, a.MatchID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if match == nil || match.ProposeID != a.ProposeID || match.Status != entry.MatchOpen {
		return tx.TecNO_ENTRY
	}

	// Settle the records before any asset leaves escrow.
	propose.AcceptedMatch = match.ID
	match.Status = entry.MatchAccepted
	if err := writePropose(ctx.View, propose); err != nil {
		return tx.TefINTERNAL
	}
	if err := writeMatch(ctx.View, match); err != nil {
		return tx.TefINTERNAL
	}

	adapter := transfer.ForContext(ctx)
	err = adapter.MoveAll(ctx.View, types.RegistryAccount, types.RegistryAccount, match.Matcher, types.Offered(propose.Items))
	if err != nil {
		return transfer.Result(err)
	}
	if err := adapter.MoveAll(ctx.View, types.RegistryAccount, types.RegistryAccount, propose.Proposer, match.Items); err != nil {
		return transfer.Result(err)
	}

	reward, r := drawReward(ctx)
	if !r.IsSuccess() {
		return r
	}
	if reward > 0 {
		ps, err := pool.Load(ctx.View)
		if err != nil {
			return pool.Result(err)
		}
		half := reward / 2
		if err := assets.TransferToken(ctx.View, ps.Token, types.RegistryAccount, propose.Proposer, half); err != nil {
			return tx.ResultFromError(err)
		}
		if err := assets.TransferToken(ctx.View, ps.Token, types.RegistryAccount, match.Matcher, half); err != nil {
			return tx.ResultFromError(err)
		}
	}

	ctx.Log.WithFields(logrus.Fields{
		"propose_id": propose.ID,
		"match_id":   match.ID,
		"reward":     reward,
	}).Debug("swap settled")
	return tx.TesSUCCESS
}

// drawReward draws one pool unit for two recipients. An empty or missing
// pool settles without a reward.
func drawReward(ctx *tx.ApplyContext) (uint64, tx.Result) {
	reward, err := pool.DrawReward(ctx.View, types.RegistryAccount, 2)
	switch {
	case err == nil:
		return reward, tx.TesSUCCESS
	case errors.Is(err, pool.ErrEmptyPool), errors.Is(err, pool.ErrNotInitialized):
		return 0, tx.TesSUCCESS
	default:
		return 0, pool.Result(err)
	}
}
