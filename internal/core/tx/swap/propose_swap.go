package swap

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/transfer"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeProposeSwap, func() tx.Transaction {
		return &ProposeSwap{BaseTx: *tx.NewBaseTx(tx.TypeProposeSwap, types.ZeroAccount)}
	})
}

// MaxNoteSize is the largest proposal note accepted, in bytes.
const MaxNoteSize = 256

// ProposeSwap opens a proposal. Items not marked Wanted are escrowed by
// the registry account, which must be allowed to move them. Value must
// cover the bundle fee.
type ProposeSwap struct {
	tx.BaseTx
	Bundle

	// Receiver, when set, is the only account allowed to match.
	Receiver types.AccountID `json:"Receiver,omitempty"`
	Note     string          `json:"Note,omitempty"`
}

// NewProposeSwap creates a new ProposeSwap transaction
func NewProposeSwap(account, receiver types.AccountID, note string, items []types.Item, value uint64) *ProposeSwap {
	p := &ProposeSwap{
		BaseTx:   *tx.NewBaseTx(tx.TypeProposeSwap, account),
		Bundle:   BundleOf(items),
		Receiver: receiver,
		Note:     note,
	}
	p.Value = value
	return p
}

// TxType returns the transaction type
func (p *ProposeSwap) TxType() tx.Type {
	return tx.TypeProposeSwap
}

// Validate validates the ProposeSwap transaction
func (p *ProposeSwap) Validate() error {
	if err := p.BaseTx.Validate(); err != nil {
		return err
	}
	if _, err := p.Items(); err != nil {
		return bundleError(err)
	}
	if len(p.Note) > MaxNoteSize {
		return errors.New("temMALFORMED: Note too large")
	}
	if p.Receiver == p.Account {
		return errors.New("temREDUNDANT: Receiver may not be the proposer")
	}
	return nil
}

// Apply applies the ProposeSwap transaction
func (p *ProposeSwap) Apply(ctx *tx.ApplyContext) tx.Result {
	items, err := p.Items()
	if err != nil {
		return tx.TemBAD_BUNDLE
	}
	rs, err := Load(ctx.View)
	if err != nil {
		return Result(err)
	}

	id := rs.NextProposeID
	rs.NextProposeID++
	if err := storeRegistry(ctx.View, rs); err != nil {
		return tx.TefINTERNAL
	}

	fee, r := chargeFee(ctx, rs, items)
	if !r.IsSuccess() {
		return r
	}

	order := &entry.ProposeOrder{
		ID:       id,
		Proposer: ctx.AccountID,
		Receiver: p.Receiver,
		Note:     p.Note,
		Items:    items,
		Fee:      fee,
	}
	if err := writePropose(ctx.View, order); err != nil {
		return tx.TefINTERNAL
	}

	err = transfer.ForContext(ctx).MoveAll(ctx.View, types.RegistryAccount, ctx.AccountID, types.RegistryAccount, types.Offered(items))
	if err != nil {
		ctx.Log.WithError(err).Debug("propose escrow failed")
		return transfer.Result(err)
	}

	ctx.Log.WithField("propose_id", id).Debug("proposal opened")
	return tx.TesSUCCESS
}
