package stake

import (
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/transfer"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeCancelOrder, func() tx.Transaction {
		return &CancelOrder{BaseTx: *tx.NewBaseTx(tx.TypeCancelOrder, types.ZeroAccount)}
	})
}

// CancelOrder unstakes an item: accrued revenue and the item go back to
// the seller.
type CancelOrder struct {
	tx.BaseTx

	ItemID uint64 `json:"ItemID"`
}

// NewCancelOrder creates a new CancelOrder transaction
func NewCancelOrder(account types.AccountID, itemID uint64) *CancelOrder {
	return &CancelOrder{
		BaseTx: *tx.NewBaseTx(tx.TypeCancelOrder, account),
		ItemID: itemID,
	}
}

// TxType returns the transaction type
func (c *CancelOrder) TxType() tx.Type {
	return tx.TypeCancelOrder
}

// Apply applies the CancelOrder transaction
func (c *CancelOrder) Apply(ctx *tx.ApplyContext) tx.Result {
	ms, err := Load(ctx.View)
	if err != nil {
		return Result(err)
	}
	order, err := readOrder(ctx.View, ms, c.ItemID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if order == nil {
		return tx.TecNO_ENTRY
	}
	if order.Seller != ctx.AccountID {
		return tx.TecNO_PERMISSION
	}

	if err := removeOrder(ctx.View, ms, order); err != nil {
		return tx.TefINTERNAL
	}
	if err := storeMarket(ctx.View, ms); err != nil {
		return tx.TefINTERNAL
	}
	if err := payRevenue(ctx.View, order); err != nil {
		return tx.ResultFromError(err)
	}

	it, err := item(ctx.View, ms, c.ItemID)
	if err != nil {
		return tx.TecNO_ENTRY
	}
	if err := transfer.ForContext(ctx).Move(ctx.View, types.MarketAccount, types.MarketAccount, order.Seller, it); err != nil {
		return transfer.Result(err)
	}
	return tx.TesSUCCESS
}
