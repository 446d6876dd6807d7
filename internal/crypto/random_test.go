package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomBytes(t *testing.T) {
	t.Run("Generates correct length", func(t *testing.T) {
		for _, n := range []int{1, 16, 32, 64} {
			b, err := RandomBytes(n)
			require.NoError(t, err)
			assert.Len(t, b, n)
		}
	})

	t.Run("Non-positive length returns nil", func(t *testing.T) {
		for _, n := range []int{0, -1} {
			b, err := RandomBytes(n)
			require.NoError(t, err)
			assert.Nil(t, b)
		}
	})

	t.Run("Generates different values", func(t *testing.T) {
		b1, err := RandomBytes(32)
		require.NoError(t, err)
		b2, err := RandomBytes(32)
		require.NoError(t, err)
		assert.False(t, bytes.Equal(b1, b2))
	})
}

func TestRandomKeyPair(t *testing.T) {
	kp, seed, err := RandomKeyPair()
	require.NoError(t, err)
	require.Len(t, seed, SeedSize)

	again, err := NewKeyPairFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, kp.AccountID(), again.AccountID())

	other, _, err := RandomKeyPair()
	require.NoError(t, err)
	assert.NotEqual(t, kp.AccountID(), other.AccountID())
}
