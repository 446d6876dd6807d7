// Package fees computes the native fee a swap bundle must attach.
package fees

import (
	"errors"
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
)

// ErrZeroCost is returned by Validate when a protocol has no unit cost.
var ErrZeroCost = errors.New("fee unit cost must be positive")

// Schedule is the per-unit cost of escrowing an item, by protocol.
type Schedule struct {
	Standard uint64 `json:"standard"`
	Legacy   uint64 `json:"legacy"`
}

// Validate checks that every protocol costs at least one unit, which keeps
// the fee of any escrowing bundle strictly positive.
func (s Schedule) Validate() error {
	if s.Standard == 0 || s.Legacy == 0 {
		return ErrZeroCost
	}
	return nil
}

// UnitCost returns the cost of one escrowed unit under protocol p.
func (s Schedule) UnitCost(p types.Protocol) (uint64, error) {
	switch p {
	case types.ProtocolStandard:
		return s.Standard, nil
	case types.ProtocolLegacy:
		return s.Legacy, nil
	default:
		return 0, fmt.Errorf("%w: %q", types.ErrUnknownProtocol, p)
	}
}

// Compute returns the fee for a bundle: the sum over escrowed items
// (Wanted == false) of unit cost times amount. designated is the part of
// total contributed by items of the designated collection.
func (s Schedule) Compute(items []types.Item, designatedCollection types.AccountID) (total, designated uint64, err error) {
	for _, it := range items {
		cost, err := s.UnitCost(it.Protocol)
		if err != nil {
			return 0, 0, err
		}
		if it.Wanted {
			continue
		}
		line, err := sle.MulChecked(cost, it.Amount)
		if err != nil {
			return 0, 0, err
		}
		if total, err = sle.AddChecked(total, line); err != nil {
			return 0, 0, err
		}
		if it.Collection == designatedCollection {
			if designated, err = sle.AddChecked(designated, line); err != nil {
				return 0, 0, err
			}
		}
	}
	return total, designated, nil
}
