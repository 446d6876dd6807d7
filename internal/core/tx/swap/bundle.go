package swap

import (
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/types"
)

// Bundle is an asset bundle as it travels in a transaction: parallel
// arrays, one entry per item. Wanted may be omitted, meaning all false.
type Bundle struct {
	Collections []types.AccountID `json:"Collections"`
	ItemIDs     []uint64          `json:"ItemIDs"`
	Amounts     []uint64          `json:"Amounts"`
	Protocols   []types.Protocol  `json:"Protocols"`
	Wanted      []bool            `json:"Wanted,omitempty"`
}

// BundleOf flattens items into parallel arrays.
func BundleOf(items []types.Item) Bundle {
	b := Bundle{
		Collections: make([]types.AccountID, len(items)),
		ItemIDs:     make([]uint64, len(items)),
		Amounts:     make([]uint64, len(items)),
		Protocols:   make([]types.Protocol, len(items)),
	}
	anyWanted := false
	for i, it := range items {
		b.Collections[i] = it.Collection
		b.ItemIDs[i] = it.ItemID
		b.Amounts[i] = it.Amount
		b.Protocols[i] = it.Protocol
		anyWanted = anyWanted || it.Wanted
	}
	if anyWanted {
		b.Wanted = make([]bool, len(items))
		for i, it := range items {
			b.Wanted[i] = it.Wanted
		}
	}
	return b
}

// Items zips the arrays back into items and checks the bundle shape.
func (b Bundle) Items() ([]types.Item, error) {
	n := len(b.Collections)
	if len(b.ItemIDs) != n || len(b.Amounts) != n || len(b.Protocols) != n ||
		(b.Wanted != nil && len(b.Wanted) != n) {
		return nil, types.ErrBundleLength
	}
	items := make([]types.Item, n)
	for i := range items {
		items[i] = types.Item{
			Collection: b.Collections[i],
			ItemID:     b.ItemIDs[i],
			Amount:     b.Amounts[i],
			Protocol:   b.Protocols[i],
		}
		if b.Wanted != nil {
			items[i].Wanted = b.Wanted[i]
		}
	}
	if err := types.ValidateBundle(items); err != nil {
		return nil, err
	}
	return items, nil
}

func bundleError(err error) error {
	return fmt.Errorf("temBAD_BUNDLE: %w", err)
}
