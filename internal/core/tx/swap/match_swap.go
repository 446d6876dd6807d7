package swap

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/transfer"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/sirupsen/logrus"
)

func init() {
	tx.Register(tx.TypeMatchSwap, func() tx.Transaction {
		return &MatchSwap{BaseTx: *tx.NewBaseTx(tx.TypeMatchSwap, types.ZeroAccount)}
	})
}

// MatchSwap answers a proposal with a bundle, all of which is escrowed.
type MatchSwap struct {
	tx.BaseTx
	Bundle

	ProposeID uint64 `json:"ProposeID"`
}

// NewMatchSwap creates a new MatchSwap transaction
func NewMatchSwap(account types.AccountID, proposeID uint64, items []types.Item, value uint64) *MatchSwap {
	m := &MatchSwap{
		BaseTx:    *tx.NewBaseTx(tx.TypeMatchSwap, account),
		Bundle:    BundleOf(items),
		ProposeID: proposeID,
	}
	m.Value = value
	return m
}

// TxType returns the transaction type
func (m *MatchSwap) TxType() tx.Type {
	return tx.TypeMatchSwap
}

// Validate validates the MatchSwap transaction
func (m *MatchSwap) Validate() error {
	if err := m.BaseTx.Validate(); err != nil {
		return err
	}
	if m.ProposeID == 0 {
		return errors.New("temMALFORMED: ProposeID is required")
	}
	items, err := m.Items()
	if err != nil {
		return bundleError(err)
	}
	for _, it := range items {
		if it.Wanted {
			return errors.New("temBAD_BUNDLE: match items cannot be wanted")
		}
	}
	return nil
}

// Apply applies the MatchSwap transaction
func (m *MatchSwap) Apply(ctx *tx.ApplyContext) tx.Result {
	items, err := m.Items()
	if err != nil {
		return tx.TemBAD_BUNDLE
	}
	rs, err := Load(ctx.View)
	if err != nil {
		return Result(err)
	}
	propose, err := GetPropose(ctx.View, m.ProposeID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if propose == nil {
		return tx.TecNO_ENTRY
	}
	if propose.Accepted() {
		return tx.TecALREADY_ACCEPTED
	}
	if propose.Proposer == ctx.AccountID {
		return tx.TecNO_PERMISSION
	}
	if !propose.Receiver.IsZero() && propose.Receiver != ctx.AccountID {
		return tx.TecRECEIVER_MISMATCH
	}

	id := rs.NextMatchID
	rs.NextMatchID++
	if err := storeRegistry(ctx.View, rs); err != nil {
		return tx.TefINTERNAL
	}

	fee, r := chargeFee(ctx, rs, items)
	if !r.IsSuccess() {
		return r
	}

	order := &entry.MatchOrder{
		ID:        id,
		ProposeID: m.ProposeID,
		Matcher:   ctx.AccountID,
		Items:     items,
		Fee:       fee,
		Status:    entry.MatchOpen,
	}
	if err := writeMatch(ctx.View, order); err != nil {
		return tx.TefINTERNAL
	}

	err = transfer.ForContext(ctx).MoveAll(ctx.View, types.RegistryAccount, ctx.AccountID, types.RegistryAccount, items)
	if err != nil {
		ctx.Log.WithError(err).Debug("match escrow failed")
		return transfer.Result(err)
	}

	ctx.Log.WithFields(logrus.Fields{"propose_id": m.ProposeID, "match_id": id}).Debug("match recorded")
	return tx.TesSUCCESS
}
