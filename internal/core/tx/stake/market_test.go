package stake

import (
	"math/rand"
	"testing"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/ledger/view"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	marketOwner = types.MustParseAccountID("0x0000000000000000000000000000000000000a01")
	collection  = types.MustParseAccountID("0x0000000000000000000000000000000000000c01")
	seller      = types.MustParseAccountID("0x0000000000000000000000000000000000000501")
	payer       = types.MustParseAccountID("0x0000000000000000000000000000000000000f01")
)

func newMarket(t *testing.T, policy entry.DividendPolicy) *view.Memory {
	t.Helper()
	v := view.NewMemory()
	require.NoError(t, Init(v, Config{
		Owner:      marketOwner,
		Collection: collection,
		RateBase:   10000,
		Policy:     policy,
	}))
	return v
}

func stakeOrders(t *testing.T, v *view.Memory, prices map[uint64]uint64, ids ...uint64) {
	t.Helper()
	ms, err := Load(v)
	require.NoError(t, err)
	for _, id := range ids {
		require.NoError(t, insertOrder(v, ms, &entry.StakedOrder{Seller: seller, ItemID: id, Price: prices[id]}))
	}
	require.NoError(t, storeMarket(v, ms))
}

func TestDirectory_RandomInsertRemove(t *testing.T) {
	v := newMarket(t, entry.DividendEqual)
	rng := rand.New(rand.NewSource(42))
	live := make(map[uint64]bool)

	for step := 0; step < 2000; step++ {
		ms, err := Load(v)
		require.NoError(t, err)

		id := uint64(rng.Intn(64))
		if live[id] {
			o, err := readOrder(v, ms, id)
			require.NoError(t, err)
			require.NotNil(t, o)
			require.NoError(t, removeOrder(v, ms, o))
			delete(live, id)
		} else {
			require.NoError(t, insertOrder(v, ms, &entry.StakedOrder{Seller: seller, ItemID: id, Price: 1}))
			live[id] = true
		}
		require.NoError(t, storeMarket(v, ms))
		require.NoError(t, CheckDirectory(v), "step %d", step)

		orders, err := ActiveOrders(v)
		require.NoError(t, err)
		require.Len(t, orders, len(live))
		for _, o := range orders {
			assert.True(t, live[o.ItemID])
		}
	}
}

func TestDirectory_RemoveLastAndOnly(t *testing.T) {
	v := newMarket(t, entry.DividendEqual)
	stakeOrders(t, v, nil, 5)

	ms, _ := Load(v)
	o, err := readOrder(v, ms, 5)
	require.NoError(t, err)
	require.NoError(t, removeOrder(v, ms, o))
	require.NoError(t, storeMarket(v, ms))

	orders, err := ActiveOrders(v)
	require.NoError(t, err)
	assert.Empty(t, orders)
	o, err = GetOrder(v, 5)
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestDirectory_MarketEntrySizeIndependentOfOrders(t *testing.T) {
	v := newMarket(t, entry.DividendEqual)
	stakeOrders(t, v, nil, 1)
	small, err := v.Read(keylet.Market())
	require.NoError(t, err)

	ids := make([]uint64, 0, 100)
	for id := uint64(2); id <= 101; id++ {
		ids = append(ids, id)
	}
	stakeOrders(t, v, nil, ids...)
	large, err := v.Read(keylet.Market())
	require.NoError(t, err)

	assert.Len(t, large, len(small))
	ms, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, uint64(101), ms.OrderCount)
	require.NoError(t, CheckDirectory(v))
}

func TestDirectory_RemoveMiddlePatchesMovedIndex(t *testing.T) {
	v := newMarket(t, entry.DividendEqual)
	stakeOrders(t, v, nil, 10, 20, 30)

	ms, _ := Load(v)
	o, _ := readOrder(v, ms, 10)
	require.NoError(t, removeOrder(v, ms, o))
	require.NoError(t, storeMarket(v, ms))

	ms, _ = Load(v)
	assert.Equal(t, uint64(2), ms.OrderCount)
	for i, want := range []uint64{30, 20} {
		id, err := readSlot(v, ms, uint64(i))
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
	stale, err := sle.Read[entry.DirectorySlot](v, keylet.DirectorySlot(collection, 2))
	require.NoError(t, err)
	assert.Nil(t, stale)
	moved, err := GetOrder(v, 30)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), moved.Index)
	require.NoError(t, CheckDirectory(v))
}

func fundPayer(t *testing.T, v *view.Memory, amount uint64) {
	t.Helper()
	require.NoError(t, sle.CreditNative(v, payer, amount))
}

func native(t *testing.T, v *view.Memory, id types.AccountID) uint64 {
	t.Helper()
	b, err := sle.NativeBalance(v, id)
	require.NoError(t, err)
	return b
}

func TestDistributeDividend_Equal(t *testing.T) {
	v := newMarket(t, entry.DividendEqual)
	stakeOrders(t, v, nil, 1, 2, 3)
	fundPayer(t, v, 100)

	require.NoError(t, DistributeDividend(v, payer, 100))

	for _, id := range []uint64{1, 2, 3} {
		o, err := GetOrder(v, id)
		require.NoError(t, err)
		assert.Equal(t, uint64(33), o.Revenue)
	}
	assert.Equal(t, uint64(99), native(t, v, types.MarketAccount))
	assert.Equal(t, uint64(1), native(t, v, marketOwner))
	assert.Zero(t, native(t, v, payer))
}

func TestDistributeDividend_Price(t *testing.T) {
	v := newMarket(t, entry.DividendPrice)
	stakeOrders(t, v, map[uint64]uint64{1: 100, 2: 300}, 1, 2)
	fundPayer(t, v, 1000)

	require.NoError(t, DistributeDividend(v, payer, 1000))

	o1, _ := GetOrder(v, 1)
	o2, _ := GetOrder(v, 2)
	assert.Equal(t, uint64(250), o1.Revenue)
	assert.Equal(t, uint64(750), o2.Revenue)
	assert.Zero(t, native(t, v, marketOwner))
}

func TestDistributeDividend_NoOrdersPaysOwner(t *testing.T) {
	v := newMarket(t, entry.DividendEqual)
	fundPayer(t, v, 50)
	require.NoError(t, DistributeDividend(v, payer, 50))
	assert.Equal(t, uint64(50), native(t, v, marketOwner))
}

func TestDistributeDividend_SingleOrderGetsEverything(t *testing.T) {
	v := newMarket(t, entry.DividendEqual)
	stakeOrders(t, v, nil, 9)
	fundPayer(t, v, 77)
	require.NoError(t, DistributeDividend(v, payer, 77))
	o, _ := GetOrder(v, 9)
	assert.Equal(t, uint64(77), o.Revenue)
}

func TestInit_Rejects(t *testing.T) {
	assert.ErrorIs(t, Init(view.NewMemory(), Config{RateBase: 100, Policy: "lottery"}), ErrUnknownPolicy)
	assert.ErrorIs(t, Init(view.NewMemory(), Config{RateBase: 100, HouseFee: 101}), ErrBadRate)
	_, err := Load(view.NewMemory())
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestHouseCut(t *testing.T) {
	assert.Equal(t, uint64(25), houseCut(1000, 250, 10000))
	assert.Zero(t, houseCut(1000, 0, 10000))
	assert.Equal(t, uint64(1000), houseCut(1000, 10000, 10000))
}
