package stake

import (
	"errors"
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
)

var errDanglingSlot = errors.New("directory slot has no order")

// readSlot returns the item id stored at a directory slot. Slots are
// separate entries, so a membership change rewrites at most two slots and
// two orders however long the directory is.
func readSlot(v tx.LedgerView, ms *entry.MarketState, index uint64) (uint64, error) {
	s, err := sle.Read[entry.DirectorySlot](v, keylet.DirectorySlot(ms.Collection, index))
	if err != nil {
		return 0, err
	}
	if s == nil {
		return 0, fmt.Errorf("%w: slot %d missing", errDanglingSlot, index)
	}
	return s.ItemID, nil
}

func writeSlot(v tx.LedgerView, ms *entry.MarketState, index, itemID uint64) error {
	return sle.Write(v, keylet.DirectorySlot(ms.Collection, index), &entry.DirectorySlot{ItemID: itemID})
}

// insertOrder appends o to the directory and records its slot. The caller
// stores the market.
func insertOrder(v tx.LedgerView, ms *entry.MarketState, o *entry.StakedOrder) error {
	o.Index = ms.OrderCount
	if err := writeSlot(v, ms, o.Index, o.ItemID); err != nil {
		return err
	}
	ms.OrderCount++
	return writeOrder(v, ms, o)
}

// removeOrder deletes o, moving the last directory slot into the hole and
// patching the moved order's index. The caller stores the market.
func removeOrder(v tx.LedgerView, ms *entry.MarketState, o *entry.StakedOrder) error {
	n := ms.OrderCount
	if o.Index >= n {
		return fmt.Errorf("%w: item %d at %d", errDanglingSlot, o.ItemID, o.Index)
	}
	id, err := readSlot(v, ms, o.Index)
	if err != nil {
		return err
	}
	if id != o.ItemID {
		return fmt.Errorf("%w: item %d at %d", errDanglingSlot, o.ItemID, o.Index)
	}
	last := n - 1
	if o.Index != last {
		movedID, err := readSlot(v, ms, last)
		if err != nil {
			return err
		}
		moved, err := readOrder(v, ms, movedID)
		if err != nil {
			return err
		}
		if moved == nil {
			return fmt.Errorf("%w: item %d", errDanglingSlot, movedID)
		}
		if err := writeSlot(v, ms, o.Index, movedID); err != nil {
			return err
		}
		moved.Index = o.Index
		if err := writeOrder(v, ms, moved); err != nil {
			return err
		}
	}
	if err := sle.Erase(v, keylet.DirectorySlot(ms.Collection, last)); err != nil {
		return err
	}
	ms.OrderCount = last
	return sle.Erase(v, keylet.StakedOrder(ms.Collection, o.ItemID))
}

// CheckDirectory verifies that every directory slot points at an order
// whose index points back at the slot, and that no slot exists past the end.
func CheckDirectory(v tx.LedgerView) error {
	ms, err := Load(v)
	if err != nil {
		return err
	}
	seen := make(map[uint64]bool, ms.OrderCount)
	for i := uint64(0); i < ms.OrderCount; i++ {
		id, err := readSlot(v, ms, i)
		if err != nil {
			return err
		}
		if seen[id] {
			return fmt.Errorf("item %d listed twice", id)
		}
		seen[id] = true
		o, err := readOrder(v, ms, id)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: slot %d", errDanglingSlot, i)
		}
		if o.Index != i {
			return fmt.Errorf("item %d at slot %d records index %d", id, i, o.Index)
		}
	}
	past, err := sle.Read[entry.DirectorySlot](v, keylet.DirectorySlot(ms.Collection, ms.OrderCount))
	if err != nil {
		return err
	}
	if past != nil {
		return fmt.Errorf("stale slot %d past directory end", ms.OrderCount)
	}
	return nil
}
