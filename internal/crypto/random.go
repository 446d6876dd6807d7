package crypto

import (
	"crypto/rand"
	"errors"
	"io"
)

// SeedSize is the length of seeds produced by RandomSeed.
const SeedSize = 32

// ErrRandomGeneration is returned when random number generation fails.
var ErrRandomGeneration = errors.New("failed to generate random bytes")

// RandomBytes generates n cryptographically secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, ErrRandomGeneration
	}
	return b, nil
}

// RandomSeed generates a fresh seed for NewKeyPairFromSeed.
func RandomSeed() ([]byte, error) {
	return RandomBytes(SeedSize)
}

// RandomKeyPair generates a key pair from a fresh seed and returns both.
func RandomKeyPair() (*KeyPair, []byte, error) {
	seed, err := RandomSeed()
	if err != nil {
		return nil, nil, err
	}
	kp, err := NewKeyPairFromSeed(seed)
	if err != nil {
		return nil, nil, err
	}
	return kp, seed, nil
}
