package testing

import (
	"crypto/sha512"

	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/LeJamon/pixpressd/internal/crypto"
)

// Account represents a test account with keypair and address information.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	// Key signs the account's transactions.
	Key *crypto.KeyPair

	// ID is the 20-byte account ID derived from the public key.
	ID types.AccountID
}

// NewAccount creates a new test account with a deterministic keypair derived from the name.
// Using the same name will always produce the same account, making tests reproducible.
func NewAccount(name string) *Account {
	seed := sha512.Sum512([]byte(name))
	key, err := crypto.NewKeyPairFromSeed(seed[:32])
	if err != nil {
		panic("failed to derive keypair for account " + name + ": " + err.Error())
	}
	return &Account{
		Name: name,
		Key:  key,
		ID:   types.AccountID(key.AccountID()),
	}
}

// String returns the account name and id.
func (a *Account) String() string {
	return a.Name + "(" + a.ID.String() + ")"
}

// Well-known identities of the default test environment.
var (
	RewardToken        = types.AccountID(crypto.CalcModuleAccountID("test-reward-token"))
	StandardCollection = types.AccountID(crypto.CalcModuleAccountID("test-standard-collection"))
	LegacyCollection   = types.AccountID(crypto.CalcModuleAccountID("test-legacy-collection"))
)

// StandardItem is one line of amount units of a standard-collection item.
func StandardItem(itemID, amount uint64) types.Item {
	return types.Item{Collection: StandardCollection, ItemID: itemID, Amount: amount, Protocol: types.ProtocolStandard}
}

// LegacyItem is one legacy-collection item.
func LegacyItem(itemID uint64) types.Item {
	return types.Item{Collection: LegacyCollection, ItemID: itemID, Amount: 1, Protocol: types.ProtocolLegacy}
}

// Wanted marks it as requested rather than offered.
func Wanted(it types.Item) types.Item {
	it.Wanted = true
	return it
}
