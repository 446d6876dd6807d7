package types

import "errors"

// MaxBundleSize is the largest number of items one side of a swap may carry.
const MaxBundleSize = 32

var (
	ErrEmptyBundle     = errors.New("bundle must contain at least one item")
	ErrBundleTooLarge  = errors.New("bundle exceeds maximum size")
	ErrBundleLength    = errors.New("bundle fields have different lengths")
	ErrUnknownProtocol = errors.New("unknown protocol tag")
	ErrZeroAmount      = errors.New("item amount must be positive")
)

// Protocol is the transfer convention a collection follows.
type Protocol string

const (
	// ProtocolStandard collections support operator approval, any positive
	// amount per item and a receive hook on the recipient.
	ProtocolStandard Protocol = "standard"
	// ProtocolLegacy collections hold unique items, move them only by owner
	// action or a single-item offer, and have no receive hook.
	ProtocolLegacy Protocol = "legacy"
)

// Valid reports whether p is a known protocol tag.
func (p Protocol) Valid() bool {
	return p == ProtocolStandard || p == ProtocolLegacy
}

// Item is one line of an asset bundle.
type Item struct {
	Collection AccountID `json:"collection" codec:"collection"`
	ItemID     uint64    `json:"item_id" codec:"item_id"`
	Amount     uint64    `json:"amount" codec:"amount"`
	Protocol   Protocol  `json:"protocol" codec:"protocol"`
	// Wanted marks an item the proposer asks for rather than offers.
	Wanted bool `json:"wanted" codec:"wanted"`
}

// ValidateBundle checks the shape of a bundle.
func ValidateBundle(items []Item) error {
	if len(items) == 0 {
		return ErrEmptyBundle
	}
	if len(items) > MaxBundleSize {
		return ErrBundleTooLarge
	}
	for _, it := range items {
		if !it.Protocol.Valid() {
			return ErrUnknownProtocol
		}
		if it.Amount == 0 {
			return ErrZeroAmount
		}
	}
	return nil
}

// Offered returns the items that are escrowed (Wanted == false).
func Offered(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.Wanted {
			out = append(out, it)
		}
	}
	return out
}
