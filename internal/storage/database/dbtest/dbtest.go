// Package dbtest runs the same behavioural checks against every database
// backend.
package dbtest

import (
	"context"
	"testing"

	"github.com/LeJamon/pixpressd/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises db. The database must be empty and is closed at the end.
func Run(t *testing.T, db database.DB) {
	t.Helper()
	ctx := context.Background()

	t.Run("ReadWriteDelete", func(t *testing.T) {
		_, err := db.Read(ctx, []byte("missing"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		require.NoError(t, db.Write(ctx, []byte("k1"), []byte("v1")))
		got, err := db.Read(ctx, []byte("k1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)

		require.NoError(t, db.Delete(ctx, []byte("k1")))
		_, err = db.Read(ctx, []byte("k1"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Batch", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, []byte("b0"), []byte("gone")))
		ops := []database.BatchOperation{
			{Type: database.BatchPut, Key: []byte("b1"), Value: []byte("one")},
			{Type: database.BatchPut, Key: []byte("b2"), Value: []byte("two")},
			{Type: database.BatchDelete, Key: []byte("b0")},
		}
		require.NoError(t, db.Batch(ctx, ops))

		got, err := db.Read(ctx, []byte("b2"))
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), got)
		_, err = db.Read(ctx, []byte("b0"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Iterator", func(t *testing.T) {
		for _, k := range []string{"i3", "i1", "i2", "j1"} {
			require.NoError(t, db.Write(ctx, []byte(k), []byte("x"+k)))
		}
		it, err := db.Iterator(ctx, []byte("i"), []byte("j"))
		require.NoError(t, err)
		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
			assert.Equal(t, "x"+string(it.Key()), string(it.Value()))
		}
		require.NoError(t, it.Error())
		require.NoError(t, it.Close())
		assert.Equal(t, []string{"i1", "i2", "i3"}, keys)
	})

	t.Run("Closed", func(t *testing.T) {
		require.NoError(t, db.Close())
		_, err := db.Read(ctx, []byte("k1"))
		assert.ErrorIs(t, err, database.ErrDBClosed)
		assert.ErrorIs(t, db.Write(ctx, []byte("k1"), nil), database.ErrDBClosed)
	})
}
