package entry

import (
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/types"
)

// AccountRoot holds an account's native balance and next sequence number.
type AccountRoot struct {
	Account  types.AccountID `codec:"account" json:"account"`
	Balance  uint64          `codec:"balance" json:"balance"`
	Sequence uint32          `codec:"sequence" json:"sequence"`
}

func (*AccountRoot) EntryType() Type { return TypeAccountRoot }

// TokenBalance is the reward token balance of one holder.
type TokenBalance struct {
	Token  types.AccountID `codec:"token" json:"token"`
	Holder types.AccountID `codec:"holder" json:"holder"`
	Amount uint64          `codec:"amount" json:"amount"`
}

func (*TokenBalance) EntryType() Type { return TypeTokenBalance }

// TokenAllowance is how much Spender may pull from Owner.
type TokenAllowance struct {
	Token   types.AccountID `codec:"token" json:"token"`
	Owner   types.AccountID `codec:"owner" json:"owner"`
	Spender types.AccountID `codec:"spender" json:"spender"`
	Amount  uint64          `codec:"amount" json:"amount"`
}

func (*TokenAllowance) EntryType() Type { return TypeTokenAllowance }

// Collection registers an item collection and its transfer convention.
type Collection struct {
	Address  types.AccountID `codec:"address" json:"address"`
	Protocol types.Protocol  `codec:"protocol" json:"protocol"`
}

func (*Collection) EntryType() Type { return TypeCollection }

// ItemHolding is the number of units of one item held by one account.
type ItemHolding struct {
	Collection types.AccountID `codec:"collection" json:"collection"`
	ItemID     uint64          `codec:"item_id" json:"item_id"`
	Holder     types.AccountID `codec:"holder" json:"holder"`
	Amount     uint64          `codec:"amount" json:"amount"`
}

func (*ItemHolding) EntryType() Type { return TypeItemHolding }

// OperatorApproval lets Operator move any of Owner's items in a standard
// collection.
type OperatorApproval struct {
	Collection types.AccountID `codec:"collection" json:"collection"`
	Owner      types.AccountID `codec:"owner" json:"owner"`
	Operator   types.AccountID `codec:"operator" json:"operator"`
}

func (*OperatorApproval) EntryType() Type { return TypeOperatorApproval }

// LegacyOffer lets Operator take one item of a legacy collection once.
type LegacyOffer struct {
	Collection types.AccountID `codec:"collection" json:"collection"`
	ItemID     uint64          `codec:"item_id" json:"item_id"`
	Owner      types.AccountID `codec:"owner" json:"owner"`
	Operator   types.AccountID `codec:"operator" json:"operator"`
}

func (*LegacyOffer) EntryType() Type { return TypeLegacyOffer }

// PoolState is the liquidity pool singleton. The derived boundaries and
// units are computed from Reserve and WindowRatio, never stored.
type PoolState struct {
	Owner       types.AccountID `codec:"owner" json:"owner"`
	Coordinator types.AccountID `codec:"coordinator" json:"coordinator"`
	Token       types.AccountID `codec:"token" json:"token"`
	Reserve     uint64          `codec:"reserve" json:"reserve"`
	WindowRatio uint64          `codec:"window_ratio" json:"window_ratio"`
}

func (*PoolState) EntryType() Type { return TypePoolState }

// RegistryState holds the swap registry counters and its fee parameters.
type RegistryState struct {
	Owner                types.AccountID `codec:"owner" json:"owner"`
	NextProposeID        uint64          `codec:"next_propose_id" json:"next_propose_id"`
	NextMatchID          uint64          `codec:"next_match_id" json:"next_match_id"`
	FeeStandard          uint64          `codec:"fee_standard" json:"fee_standard"`
	FeeLegacy            uint64          `codec:"fee_legacy" json:"fee_legacy"`
	DividendShare        uint64          `codec:"dividend_share" json:"dividend_share"`
	RateBase             uint64          `codec:"rate_base" json:"rate_base"`
	DesignatedCollection types.AccountID `codec:"designated_collection" json:"designated_collection"`
}

func (*RegistryState) EntryType() Type { return TypeRegistryState }

// ProposeOrder is a swap proposal. Items with Wanted == false are held by
// the registry until the proposal is accepted.
type ProposeOrder struct {
	ID            uint64          `codec:"id" json:"id"`
	Proposer      types.AccountID `codec:"proposer" json:"proposer"`
	Receiver      types.AccountID `codec:"receiver" json:"receiver"`
	Note          string          `codec:"note" json:"note"`
	Items         []types.Item    `codec:"items" json:"items"`
	Fee           uint64          `codec:"fee" json:"fee"`
	AcceptedMatch uint64          `codec:"accepted_match" json:"accepted_match"`
}

func (*ProposeOrder) EntryType() Type { return TypeProposeOrder }

// Accepted reports whether the proposal has been settled.
func (p *ProposeOrder) Accepted() bool { return p.AcceptedMatch != 0 }

// MatchStatus is the lifecycle state of a match.
type MatchStatus uint8

const (
	MatchOpen MatchStatus = iota
	MatchAccepted
	MatchWithdrawn
)

func (s MatchStatus) String() string {
	switch s {
	case MatchOpen:
		return "open"
	case MatchAccepted:
		return "accepted"
	case MatchWithdrawn:
		return "withdrawn"
	default:
		return "unknown"
	}
}

func (s MatchStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *MatchStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "open":
		*s = MatchOpen
	case "accepted":
		*s = MatchAccepted
	case "withdrawn":
		*s = MatchWithdrawn
	default:
		return fmt.Errorf("unknown match status %q", text)
	}
	return nil
}

// MatchOrder is an answer to a proposal. All of its items are escrowed.
type MatchOrder struct {
	ID        uint64          `codec:"id" json:"id"`
	ProposeID uint64          `codec:"propose_id" json:"propose_id"`
	Matcher   types.AccountID `codec:"matcher" json:"matcher"`
	Items     []types.Item    `codec:"items" json:"items"`
	Fee       uint64          `codec:"fee" json:"fee"`
	Status    MatchStatus     `codec:"status" json:"status"`
}

func (*MatchOrder) EntryType() Type { return TypeMatchOrder }

// DividendPolicy selects how a dividend is split across active orders.
type DividendPolicy string

const (
	DividendEqual DividendPolicy = "equal"
	DividendPrice DividendPolicy = "price"
)

// MarketState is the stake market singleton. OrderCount is the length of
// the dense active order directory, whose slots are DirectorySlot entries;
// each StakedOrder stores its own slot in Index.
type MarketState struct {
	Owner      types.AccountID `codec:"owner" json:"owner"`
	Collection types.AccountID `codec:"collection" json:"collection"`
	Paused     bool            `codec:"paused" json:"paused"`
	HouseFee   uint64          `codec:"house_fee" json:"house_fee"`
	RateBase   uint64          `codec:"rate_base" json:"rate_base"`
	Policy     DividendPolicy  `codec:"policy" json:"policy"`
	OrderCount uint64          `codec:"order_count" json:"order_count"`
}

func (*MarketState) EntryType() Type { return TypeMarketState }

// StakedOrder is one item listed for sale in the stake market.
type StakedOrder struct {
	Seller  types.AccountID `codec:"seller" json:"seller"`
	ItemID  uint64          `codec:"item_id" json:"item_id"`
	Price   uint64          `codec:"price" json:"price"`
	Revenue uint64          `codec:"revenue" json:"revenue"`
	Index   uint64          `codec:"index" json:"index"`
}

func (*StakedOrder) EntryType() Type { return TypeStakedOrder }

// DirectorySlot holds the item id of the order at one directory slot.
type DirectorySlot struct {
	ItemID uint64 `codec:"item_id" json:"item_id"`
}

func (*DirectorySlot) EntryType() Type { return TypeDirectorySlot }
