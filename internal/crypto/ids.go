package crypto

import (
	"crypto/sha256"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// AccountIDSize is the size of an account ID in bytes.
const AccountIDSize = 20

// CalcAccountID computes the account ID from a public key as
// RIPEMD160(SHA256(publicKey)).
func CalcAccountID(publicKey []byte) [AccountIDSize]byte {
	sha256Hash := sha256.Sum256(publicKey)

	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha256Hash[:])
	ripemd160Hash := ripemd160Hasher.Sum(nil)

	var result [AccountIDSize]byte
	copy(result[:], ripemd160Hash)
	return result
}

// CalcModuleAccountID derives the custody account of a built-in module.
// Module accounts have no key pair, so nothing can sign for them.
func CalcModuleAccountID(name string) [AccountIDSize]byte {
	return CalcAccountID([]byte("module:" + name))
}

// AccountIDFromBytes creates an account ID from a byte slice.
// Returns a zero account ID if the slice is not exactly 20 bytes.
func AccountIDFromBytes(b []byte) [AccountIDSize]byte {
	var result [AccountIDSize]byte
	if len(b) == AccountIDSize {
		copy(result[:], b)
	}
	return result
}
