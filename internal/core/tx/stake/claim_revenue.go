package stake

import (
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeClaimRevenue, func() tx.Transaction {
		return &ClaimRevenue{BaseTx: *tx.NewBaseTx(tx.TypeClaimRevenue, types.ZeroAccount)}
	})
}

// ClaimRevenue pays an order's accrued revenue to its seller. The order
// stays staked.
type ClaimRevenue struct {
	tx.BaseTx

	ItemID uint64 `json:"ItemID"`
}

// NewClaimRevenue creates a new ClaimRevenue transaction
func NewClaimRevenue(account types.AccountID, itemID uint64) *ClaimRevenue {
	return &ClaimRevenue{
		BaseTx: *tx.NewBaseTx(tx.TypeClaimRevenue, account),
		ItemID: itemID,
	}
}

// TxType returns the transaction type
func (c *ClaimRevenue) TxType() tx.Type {
	return tx.TypeClaimRevenue
}

// Apply applies the ClaimRevenue transaction
func (c *ClaimRevenue) Apply(ctx *tx.ApplyContext) tx.Result {
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
	if order.Revenue == 0 {
		return tx.TesSUCCESS
	}

	amount := order.Revenue
	order.Revenue = 0
	if err := writeOrder(ctx.View, ms, order); err != nil {
		return tx.TefINTERNAL
	}
	if err := sle.TransferNative(ctx.View, types.MarketAccount, order.Seller, amount); err != nil {
		return tx.ResultFromError(err)
	}
	return tx.TesSUCCESS
}
