package tx

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/LeJamon/pixpressd/internal/crypto"
	common "github.com/LeJamon/pixpressd/internal/crypto/common"
)

// Signature verification errors
var (
	ErrMissingSignature  = errors.New("transaction is not signed")
	ErrMissingPublicKey  = errors.New("signing public key is missing")
	ErrInvalidSignature  = errors.New("signature is invalid")
	ErrPublicKeyMismatch = errors.New("public key does not match account")
)

// Hash prefixes
var (
	prefixTxSign = []byte{'S', 'T', 'X', 0x00}
	prefixTxID   = []byte{'T', 'X', 'N', 0x00}
)

// canonicalJSON encodes tx as JSON with sorted keys, optionally leaving out
// the signature.
func canonicalJSON(tx Transaction, withSignature bool) ([]byte, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if !withSignature {
		delete(fields, "TxnSignature")
	}
	return json.Marshal(fields)
}

// SigningHash returns the digest that is signed: Sha512Half over the
// signing prefix and the canonical JSON without TxnSignature.
func SigningHash(tx Transaction) ([32]byte, error) {
	data, err := canonicalJSON(tx, false)
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return common.Sha512Half(prefixTxSign, data), nil
}

// ComputeHash returns the transaction id.
func ComputeHash(tx Transaction) ([32]byte, error) {
	data, err := canonicalJSON(tx, true)
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return common.Sha512Half(prefixTxID, data), nil
}

// Sign fills SigningPubKey and TxnSignature using key.
func Sign(tx Transaction, key *crypto.KeyPair) error {
	c := tx.GetCommon()
	c.SigningPubKey = key.PublicKeyHex()
	c.TxnSignature = ""
	digest, err := SigningHash(tx)
	if err != nil {
		return err
	}
	c.TxnSignature = fmt.Sprintf("%X", key.Sign(digest))
	return nil
}

// VerifySignature checks that tx is signed by the key its Account derives
// from.
func VerifySignature(tx Transaction) error {
	c := tx.GetCommon()
	if c.SigningPubKey == "" {
		return ErrMissingPublicKey
	}
	if c.TxnSignature == "" {
		return ErrMissingSignature
	}

	pub, err := hex.DecodeString(c.SigningPubKey)
	if err != nil {
		return fmt.Errorf("%w: bad public key encoding", ErrInvalidSignature)
	}
	if types.AccountFromPublicKey(pub) != c.Account {
		return ErrPublicKeyMismatch
	}
	sig, err := hex.DecodeString(c.TxnSignature)
	if err != nil {
		return fmt.Errorf("%w: bad signature encoding", ErrInvalidSignature)
	}

	digest, err := SigningHash(tx)
	if err != nil {
		return err
	}
	if err := crypto.Verify(pub, digest, sig); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}
