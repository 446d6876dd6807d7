package keylet

import (
	"encoding/binary"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	crypto "github.com/LeJamon/pixpressd/internal/crypto/common"
)

// Space identifiers for keylet generation
const (
	spaceAccount     uint16 = 'a' // Account root
	spaceToken       uint16 = 't' // Reward token balance
	spaceAllowance   uint16 = 'l' // Reward token allowance
	spaceCollection  uint16 = 'c' // Item collection
	spaceHolding     uint16 = 'h' // Item holding
	spaceApproval    uint16 = 'p' // Operator approval for all
	spaceLegacyOffer uint16 = 'o' // Legacy single item offer
	spacePool        uint16 = 'P' // Liquidity pool (singleton)
	spaceRegistry    uint16 = 'R' // Swap registry (singleton)
	spacePropose     uint16 = 'S' // Swap proposal
	spaceMatch       uint16 = 'M' // Swap match
	spaceMarket      uint16 = 'K' // Stake market (singleton)
	spaceStaked      uint16 = 'k' // Staked order
	spaceSlot        uint16 = 'd' // Active order directory slot
)

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Account returns the keylet for an account root entry.
func Account(accountID [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeAccountRoot,
		Key:  indexHash(spaceAccount, accountID[:]),
	}
}

// TokenBalance returns the keylet for a holder's reward token balance.
func TokenBalance(token, holder [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeTokenBalance,
		Key:  indexHash(spaceToken, token[:], holder[:]),
	}
}

// TokenAllowance returns the keylet for the amount spender may pull from owner.
func TokenAllowance(token, owner, spender [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeTokenAllowance,
		Key:  indexHash(spaceAllowance, token[:], owner[:], spender[:]),
	}
}

// Collection returns the keylet for a registered item collection.
func Collection(collection [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeCollection,
		Key:  indexHash(spaceCollection, collection[:]),
	}
}

// Holding returns the keylet for the units of one item held by holder.
func Holding(collection [20]byte, itemID uint64, holder [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeItemHolding,
		Key:  indexHash(spaceHolding, collection[:], u64(itemID), holder[:]),
	}
}

// OperatorApproval returns the keylet for an approval-for-all grant.
func OperatorApproval(collection, owner, operator [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeOperatorApproval,
		Key:  indexHash(spaceApproval, collection[:], owner[:], operator[:]),
	}
}

// LegacyOffer returns the keylet for the pending offer of a legacy item.
// A legacy item has a single owner, so there is at most one offer per item.
func LegacyOffer(collection [20]byte, itemID uint64) Keylet {
	return Keylet{
		Type: entry.TypeLegacyOffer,
		Key:  indexHash(spaceLegacyOffer, collection[:], u64(itemID)),
	}
}

// Pool returns the keylet for the singleton liquidity pool.
func Pool() Keylet {
	return Keylet{
		Type: entry.TypePoolState,
		Key:  indexHash(spacePool),
	}
}

// Registry returns the keylet for the singleton swap registry.
func Registry() Keylet {
	return Keylet{
		Type: entry.TypeRegistryState,
		Key:  indexHash(spaceRegistry),
	}
}

// Propose returns the keylet for a swap proposal.
func Propose(id uint64) Keylet {
	return Keylet{
		Type: entry.TypeProposeOrder,
		Key:  indexHash(spacePropose, u64(id)),
	}
}

// Match returns the keylet for a swap match.
func Match(id uint64) Keylet {
	return Keylet{
		Type: entry.TypeMatchOrder,
		Key:  indexHash(spaceMatch, u64(id)),
	}
}

// Market returns the keylet for the singleton stake market.
func Market() Keylet {
	return Keylet{
		Type: entry.TypeMarketState,
		Key:  indexHash(spaceMarket),
	}
}

// StakedOrder returns the keylet for the sell order of one staked item.
func StakedOrder(collection [20]byte, itemID uint64) Keylet {
	return Keylet{
		Type: entry.TypeStakedOrder,
		Key:  indexHash(spaceStaked, collection[:], u64(itemID)),
	}
}

// DirectorySlot returns the keylet for one slot of the active order
// directory of collection.
func DirectorySlot(collection [20]byte, index uint64) Keylet {
	return Keylet{
		Type: entry.TypeDirectorySlot,
		Key:  indexHash(spaceSlot, collection[:], u64(index)),
	}
}
