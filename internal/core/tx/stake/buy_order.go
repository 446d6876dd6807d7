package stake

import (
	"math/bits"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/pool"
	"github.com/LeJamon/pixpressd/internal/core/tx/transfer"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeBuyOrder, func() tx.Transaction {
		return &BuyOrder{BaseTx: *tx.NewBaseTx(tx.TypeBuyOrder, types.ZeroAccount)}
	})
}

// BuyOrder buys a staked item. The attached Value must cover the price;
// anything above it is not collected.
type BuyOrder struct {
	tx.BaseTx

	ItemID uint64 `json:"ItemID"`
}

// NewBuyOrder creates a new BuyOrder transaction
func NewBuyOrder(account types.AccountID, itemID, value uint64) *BuyOrder {
	b := &BuyOrder{
		BaseTx: *tx.NewBaseTx(tx.TypeBuyOrder, account),
		ItemID: itemID,
	}
	b.Value = value
	return b
}

// TxType returns the transaction type
func (b *BuyOrder) TxType() tx.Type {
	return tx.TypeBuyOrder
}

// Apply applies the BuyOrder transaction
func (b *BuyOrder) Apply(ctx *tx.ApplyContext) tx.Result {
	ms, err := Load(ctx.View)
	if err != nil {
		return Result(err)
	}
	order, err := readOrder(ctx.View, ms, b.ItemID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if order == nil {
		return tx.TecNO_ENTRY
	}
	if ctx.Value() < order.Price {
		return tx.TecINSUFFICIENT_PAYMENT
	}

	if err := removeOrder(ctx.View, ms, order); err != nil {
		return tx.TefINTERNAL
	}
	if err := storeMarket(ctx.View, ms); err != nil {
		return tx.TefINTERNAL
	}

	house := houseCut(order.Price, ms.HouseFee, ms.RateBase)
	houseDest := ms.Owner
	if ps, err := pool.Load(ctx.View); err == nil {
		houseDest = ps.Owner
	}
	if r := ctx.Collect(order.Price-house, order.Seller); !r.IsSuccess() {
		return r
	}
	if r := ctx.Collect(house, houseDest); !r.IsSuccess() {
		return r
	}
	if err := payRevenue(ctx.View, order); err != nil {
		return tx.ResultFromError(err)
	}

	it, err := item(ctx.View, ms, b.ItemID)
	if err != nil {
		return tx.TecNO_ENTRY
	}
	if err := transfer.ForContext(ctx).Move(ctx.View, types.MarketAccount, types.MarketAccount, ctx.AccountID, it); err != nil {
		return transfer.Result(err)
	}
	return tx.TesSUCCESS
}

// houseCut is price*fee/base, rounded down.
func houseCut(price, fee, base uint64) uint64 {
	if fee == 0 || base == 0 {
		return 0
	}
	hi, lo := bits.Mul64(price, fee)
	q, _ := bits.Div64(hi, lo, base)
	return q
}
