package sle

import (
	"math"
	"testing"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/ledger/view"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = types.MustParseAccountID("0x00000000000000000000000000000000000000a1")
	bob   = types.MustParseAccountID("0x00000000000000000000000000000000000000b0")
)

func TestReadWrite(t *testing.T) {
	v := view.NewMemory()

	got, err := Read[entry.PoolState](v, keylet.Pool())
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, Write(v, keylet.Pool(), &entry.PoolState{Reserve: 10, WindowRatio: 2}))
	require.NoError(t, Write(v, keylet.Pool(), &entry.PoolState{Reserve: 20, WindowRatio: 2}))

	got, err = Read[entry.PoolState](v, keylet.Pool())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(20), got.Reserve)

	require.NoError(t, Erase(v, keylet.Pool()))
	require.NoError(t, Erase(v, keylet.Pool()))
	assert.Equal(t, 0, v.Len())
}

func TestWrite_KeyletTypeMismatch(t *testing.T) {
	v := view.NewMemory()
	err := Write(v, keylet.Market(), &entry.PoolState{})
	assert.ErrorIs(t, err, entry.ErrTypeMismatch)
}

func TestNativeTransfers(t *testing.T) {
	v := view.NewMemory()

	require.NoError(t, CreditNative(v, alice, 100))
	acct, err := ReadAccount(v, alice)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), acct.Sequence)

	require.NoError(t, TransferNative(v, alice, bob, 40))
	bal, err := NativeBalance(v, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), bal)

	assert.ErrorIs(t, TransferNative(v, alice, bob, 61), ErrInsufficientFunds)
	assert.ErrorIs(t, DebitNative(v, types.ZeroAccount, 1), ErrInsufficientFunds)
	assert.ErrorIs(t, CreditNative(v, bob, math.MaxUint64), ErrOverflow)
}

func TestCheckedMath(t *testing.T) {
	_, err := AddChecked(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = MulChecked(math.MaxUint64/2+1, 2)
	assert.ErrorIs(t, err, ErrOverflow)
	p, err := MulChecked(1000, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), p)
	p, err = MulChecked(0, math.MaxUint64)
	require.NoError(t, err)
	assert.Zero(t, p)
}
