// Package types holds the identifiers shared by every ledger component.
package types

import (
	"encoding/hex"
	"errors"
	"strings"

	crypto "github.com/LeJamon/pixpressd/internal/crypto"
)

// ErrInvalidAccountID is returned when an account id does not parse.
var ErrInvalidAccountID = errors.New("invalid account id")

// AccountID identifies an account: a key holder, a collection, the reward
// token or a module custody account.
type AccountID [crypto.AccountIDSize]byte

// ZeroAccount is the all-zero account id. A zero receiver on a proposal means
// "open to any matcher".
var ZeroAccount AccountID

// Module custody accounts. They hold escrowed items, collected fees and the
// pool reserve.
var (
	RegistryAccount = AccountID(crypto.CalcModuleAccountID("swap-registry"))
	MarketAccount   = AccountID(crypto.CalcModuleAccountID("stake-market"))
	PoolAccount     = AccountID(crypto.CalcModuleAccountID("liquidity-pool"))
)

// AccountFromPublicKey derives the account controlled by a public key.
func AccountFromPublicKey(publicKey []byte) AccountID {
	return AccountID(crypto.CalcAccountID(publicKey))
}

// ParseAccountID parses a 0x-prefixed (or bare) 40 character hex string.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 2*len(id) {
		return id, ErrInvalidAccountID
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, ErrInvalidAccountID
	}
	return id, nil
}

// MustParseAccountID is ParseAccountID for constants and tests.
func MustParseAccountID(s string) AccountID {
	id, err := ParseAccountID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (a AccountID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether a is the zero account.
func (a AccountID) IsZero() bool {
	return a == ZeroAccount
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = ZeroAccount
		return nil
	}
	id, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}
