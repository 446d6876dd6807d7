package stake

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/transfer"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeCreateOrder, func() tx.Transaction {
		return &CreateOrder{BaseTx: *tx.NewBaseTx(tx.TypeCreateOrder, types.ZeroAccount)}
	})
}

// CreateOrder stakes one item of the market's collection for sale at Price.
// The market account pulls the item, so the seller must have approved it
// as operator (standard) or offered it the item (legacy).
type CreateOrder struct {
	tx.BaseTx

	ItemID uint64 `json:"ItemID"`
	Price  uint64 `json:"Price"`
}

// NewCreateOrder creates a new CreateOrder transaction
func NewCreateOrder(account types.AccountID, itemID, price uint64) *CreateOrder {
	return &CreateOrder{
		BaseTx: *tx.NewBaseTx(tx.TypeCreateOrder, account),
		ItemID: itemID,
		Price:  price,
	}
}

// TxType returns the transaction type
func (c *CreateOrder) TxType() tx.Type {
	return tx.TypeCreateOrder
}

// Validate validates the CreateOrder transaction
func (c *CreateOrder) Validate() error {
	if err := c.BaseTx.Validate(); err != nil {
		return err
	}
	if c.Price == 0 {
		return errors.New("temBAD_AMOUNT: Price must be positive")
	}
	return nil
}

// Apply applies the CreateOrder transaction
func (c *CreateOrder) Apply(ctx *tx.ApplyContext) tx.Result {
	ms, err := Load(ctx.View)
	if err != nil {
		return Result(err)
	}
	if ms.Paused {
		return tx.TecMARKET_PAUSED
	}
	existing, err := readOrder(ctx.View, ms, c.ItemID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if existing != nil {
		return tx.TecNO_PERMISSION
	}

	order := &entry.StakedOrder{Seller: ctx.AccountID, ItemID: c.ItemID, Price: c.Price}
	if err := insertOrder(ctx.View, ms, order); err != nil {
		return tx.TefINTERNAL
	}
	if err := storeMarket(ctx.View, ms); err != nil {
		return tx.TefINTERNAL
	}

	it, err := item(ctx.View, ms, c.ItemID)
	if err != nil {
		return tx.TecNO_ENTRY
	}
	if err := transfer.ForContext(ctx).Move(ctx.View, types.MarketAccount, ctx.AccountID, types.MarketAccount, it); err != nil {
		ctx.Log.WithError(err).Debug("stake escrow failed")
		return transfer.Result(err)
	}
	return tx.TesSUCCESS
}
