// Package entry defines the typed ledger entries and their binary encoding.
package entry

import "fmt"

// Type represents a ledger entry type
type Type uint16

// All known ledger entry types
const (
	// Collaborator ledgers
	TypeAccountRoot      Type = 0x0061 // Native balance and sequence
	TypeTokenBalance     Type = 0x0074 // Reward token balance
	TypeTokenAllowance   Type = 0x006c // Reward token spending allowance
	TypeCollection       Type = 0x0063 // Registered item collection
	TypeItemHolding      Type = 0x0068 // Units of one item held by one account
	TypeOperatorApproval Type = 0x0070 // Standard-convention approval for all
	TypeLegacyOffer      Type = 0x006f // Legacy-convention single item offer

	// Engine modules
	TypePoolState     Type = 0x0050 // Liquidity pool (singleton)
	TypeRegistryState Type = 0x0052 // Swap registry counters (singleton)
	TypeProposeOrder  Type = 0x0053 // Swap proposal
	TypeMatchOrder    Type = 0x004d // Swap match
	TypeMarketState   Type = 0x004b // Stake market and its directory (singleton)
	TypeStakedOrder   Type = 0x006b // Staked sell order
	TypeDirectorySlot Type = 0x0064 // One slot of the active order directory
)

// String returns the name of the entry type
func (t Type) String() string {
	switch t {
	case TypeAccountRoot:
		return "AccountRoot"
	case TypeTokenBalance:
		return "TokenBalance"
	case TypeTokenAllowance:
		return "TokenAllowance"
	case TypeCollection:
		return "Collection"
	case TypeItemHolding:
		return "ItemHolding"
	case TypeOperatorApproval:
		return "OperatorApproval"
	case TypeLegacyOffer:
		return "LegacyOffer"
	case TypePoolState:
		return "PoolState"
	case TypeRegistryState:
		return "RegistryState"
	case TypeProposeOrder:
		return "ProposeOrder"
	case TypeMatchOrder:
		return "MatchOrder"
	case TypeMarketState:
		return "MarketState"
	case TypeStakedOrder:
		return "StakedOrder"
	case TypeDirectorySlot:
		return "DirectorySlot"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(t))
	}
}

// Entry is implemented by every ledger entry struct.
type Entry interface {
	EntryType() Type
}
