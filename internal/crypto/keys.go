package crypto

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

var (
	// ErrInvalidPrivateKey is returned when the private key is invalid
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrInvalidPublicKey is returned when the public key is invalid
	ErrInvalidPublicKey = errors.New("invalid public key")
	// ErrInvalidSignature is returned when a signature cannot be parsed
	ErrInvalidSignature = errors.New("invalid signature")
)

// KeyPair is a secp256k1 key pair that signs transactions for one account.
type KeyPair struct {
	privateKey *btcec.PrivateKey
	publicKey  *btcec.PublicKey
}

// NewKeyPairFromSeed derives a key pair from a seed of at least 16 bytes.
// The private key is the first half of SHA-512(seed).
func NewKeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) < 16 {
		return nil, errors.New("seed must be at least 16 bytes")
	}

	hash := sha512.Sum512(seed)
	privateKey, _ := btcec.PrivKeyFromBytes(hash[:32])

	return &KeyPair{
		privateKey: privateKey,
		publicKey:  privateKey.PubKey(),
	}, nil
}

// NewKeyPairFromPrivateKey parses a hex-encoded 32-byte private key.
func NewKeyPairFromPrivateKey(privKeyHex string) (*KeyPair, error) {
	if len(privKeyHex) != 64 {
		return nil, ErrInvalidPrivateKey
	}

	privKeyBytes, err := hex.DecodeString(privKeyHex)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}

	privateKey, _ := btcec.PrivKeyFromBytes(privKeyBytes)
	return &KeyPair{
		privateKey: privateKey,
		publicKey:  privateKey.PubKey(),
	}, nil
}

// PublicKey returns the compressed public key bytes.
func (k *KeyPair) PublicKey() []byte {
	return k.publicKey.SerializeCompressed()
}

// PublicKeyHex returns the compressed public key as upper-case hex.
func (k *KeyPair) PublicKeyHex() string {
	return fmt.Sprintf("%X", k.PublicKey())
}

// PrivateKeyHex returns the private key as lower-case hex.
func (k *KeyPair) PrivateKeyHex() string {
	return hex.EncodeToString(k.privateKey.Serialize())
}

// AccountID returns the account controlled by this key pair.
func (k *KeyPair) AccountID() [AccountIDSize]byte {
	return CalcAccountID(k.PublicKey())
}

// Sign signs a 32-byte digest and returns a DER signature.
func (k *KeyPair) Sign(digest [32]byte) []byte {
	return ecdsa.Sign(k.privateKey, digest[:]).Serialize()
}

// Verify checks a DER signature over digest against a compressed public key.
func Verify(publicKey []byte, digest [32]byte, signature []byte) error {
	pub, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if !sig.Verify(digest[:], pub) {
		return ErrInvalidSignature
	}
	return nil
}
