package assets

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeSetOperatorApproval, func() tx.Transaction {
		return &SetOperatorApproval{BaseTx: *tx.NewBaseTx(tx.TypeSetOperatorApproval, types.ZeroAccount)}
	})
	tx.Register(tx.TypeOfferLegacyItem, func() tx.Transaction {
		return &OfferLegacyItem{BaseTx: *tx.NewBaseTx(tx.TypeOfferLegacyItem, types.ZeroAccount)}
	})
}

// SetOperatorApproval grants or revokes approval-for-all over the sender's
// items in a standard collection.
type SetOperatorApproval struct {
	tx.BaseTx

	Collection types.AccountID `json:"Collection"`
	Operator   types.AccountID `json:"Operator"`
	Approved   bool            `json:"Approved"`
}

func NewSetOperatorApproval(account, collection, operator types.AccountID, approved bool) *SetOperatorApproval {
	return &SetOperatorApproval{
		BaseTx:     *tx.NewBaseTx(tx.TypeSetOperatorApproval, account),
		Collection: collection,
		Operator:   operator,
		Approved:   approved,
	}
}

func (s *SetOperatorApproval) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if s.Collection.IsZero() || s.Operator.IsZero() {
		return errors.New("temMALFORMED: Collection and Operator are required")
	}
	if s.Operator == s.Account {
		return errors.New("temREDUNDANT: cannot approve self")
	}
	return nil
}

func (s *SetOperatorApproval) Apply(ctx *tx.ApplyContext) tx.Result {
	coll, err := GetCollection(ctx.View, s.Collection)
	if err != nil {
		return tx.TefINTERNAL
	}
	if coll == nil {
		return tx.TecNO_ENTRY
	}
	if coll.Protocol != types.ProtocolStandard {
		return tx.TecNO_PERMISSION
	}
	if err := SetApprovalForAll(ctx.View, s.Collection, ctx.AccountID, s.Operator, s.Approved); err != nil {
		return tx.ResultFromError(err)
	}
	return tx.TesSUCCESS
}

// OfferLegacyItem offers one item of a legacy collection to Operator, who
// may then take it once. A zero Operator withdraws the offer.
type OfferLegacyItem struct {
	tx.BaseTx

	Collection types.AccountID `json:"Collection"`
	ItemID     uint64          `json:"ItemID"`
	Operator   types.AccountID `json:"Operator"`
}

func NewOfferLegacyItem(account, collection types.AccountID, itemID uint64, operator types.AccountID) *OfferLegacyItem {
	return &OfferLegacyItem{
		BaseTx:     *tx.NewBaseTx(tx.TypeOfferLegacyItem, account),
		Collection: collection,
		ItemID:     itemID,
		Operator:   operator,
	}
}

func (o *OfferLegacyItem) Validate() error {
	if err := o.BaseTx.Validate(); err != nil {
		return err
	}
	if o.Collection.IsZero() {
		return errors.New("temMALFORMED: Collection is required")
	}
	if o.Operator == o.Account {
		return errors.New("temREDUNDANT: cannot offer to self")
	}
	return nil
}

func (o *OfferLegacyItem) Apply(ctx *tx.ApplyContext) tx.Result {
	coll, err := GetCollection(ctx.View, o.Collection)
	if err != nil {
		return tx.TefINTERNAL
	}
	if coll == nil {
		return tx.TecNO_ENTRY
	}
	if coll.Protocol != types.ProtocolLegacy {
		return tx.TecNO_PERMISSION
	}
	held, err := Holding(ctx.View, o.Collection, o.ItemID, ctx.AccountID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if held == 0 {
		return tx.TecNO_PERMISSION
	}
	if err := SetLegacyOffer(ctx.View, o.Collection, o.ItemID, ctx.AccountID, o.Operator); err != nil {
		return tx.ResultFromError(err)
	}
	return tx.TesSUCCESS
}
