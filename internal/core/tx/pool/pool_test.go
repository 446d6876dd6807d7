package pool

import (
	"math"
	"testing"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/view"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner       = types.MustParseAccountID("0x0000000000000000000000000000000000000a01")
	token       = types.MustParseAccountID("0x0000000000000000000000000000000000000701")
	coordinator = types.RegistryAccount
)

func TestDerivedValues(t *testing.T) {
	tests := []struct {
		name                          string
		reserve, ratio                uint64
		upper, lower, deposit, withdr uint64
	}{
		{"reserve 1000 ratio 10", 1000, 10, 10000, 100, 10, 10},
		{"reserve 1000 ratio 3", 1000, 3, 3000, 333, 3, 3},
		{"reserve 500 ratio 10", 500, 10, 5000, 50, 10, 10},
		{"ratio 1", 77, 1, 77, 77, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := &entry.PoolState{Reserve: tt.reserve, WindowRatio: tt.ratio}
			upper, err := UpperBoundary(ps)
			require.NoError(t, err)
			lower, err := LowerBoundary(ps)
			require.NoError(t, err)
			dep, err := DepositUnit(ps)
			require.NoError(t, err)
			wd, err := WithdrawUnit(ps)
			require.NoError(t, err)

			assert.Equal(t, tt.upper, upper)
			assert.Equal(t, tt.lower, lower)
			assert.Equal(t, tt.deposit, dep)
			assert.Equal(t, tt.withdr, wd)
			assert.Equal(t, tt.reserve/lower, dep)
		})
	}
}

func TestDerivedValues_Undefined(t *testing.T) {
	empty := &entry.PoolState{WindowRatio: 10}
	_, err := UpperBoundary(empty)
	assert.ErrorIs(t, err, ErrEmptyPool)
	_, err = LowerBoundary(empty)
	assert.ErrorIs(t, err, ErrEmptyPool)
	_, err = WithdrawUnit(empty)
	assert.ErrorIs(t, err, ErrEmptyPool)

	shallow := &entry.PoolState{Reserve: 5, WindowRatio: 10}
	_, err = DepositUnit(shallow)
	assert.ErrorIs(t, err, ErrZeroBoundary)

	huge := &entry.PoolState{Reserve: math.MaxUint64, WindowRatio: 2}
	_, err = UpperBoundary(huge)
	assert.Error(t, err)
}

func newPool(t *testing.T, reserve uint64) *view.Memory {
	t.Helper()
	v := view.NewMemory()
	require.NoError(t, Init(v, owner, token, 10))
	ps, err := Load(v)
	require.NoError(t, err)
	ps.Reserve = reserve
	ps.Coordinator = coordinator
	require.NoError(t, store(v, ps))
	if reserve > 0 {
		require.NoError(t, assets.CreditToken(v, token, types.PoolAccount, reserve))
	}
	return v
}

func TestDrawReward(t *testing.T) {
	v := newPool(t, 1000)

	got, err := DrawReward(v, coordinator, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got)

	ps, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, uint64(990), ps.Reserve)

	bal, err := assets.TokenBalance(v, token, coordinator)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), bal)
	bal, err = assets.TokenBalance(v, token, types.PoolAccount)
	require.NoError(t, err)
	assert.Equal(t, uint64(990), bal)
}

func TestDrawReward_OddUnitKeepsRemainder(t *testing.T) {
	v := view.NewMemory()
	require.NoError(t, Init(v, owner, token, 3))
	ps, _ := Load(v)
	ps.Reserve, ps.Coordinator = 100, coordinator
	require.NoError(t, store(v, ps))
	require.NoError(t, assets.CreditToken(v, token, types.PoolAccount, 100))

	got, err := DrawReward(v, coordinator, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got)
	ps, _ = Load(v)
	assert.Equal(t, uint64(98), ps.Reserve)
}

func TestDrawReward_CappedAtReserve(t *testing.T) {
	v := newPool(t, 4)
	got, err := DrawReward(v, coordinator, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), got)
	ps, _ := Load(v)
	assert.Zero(t, ps.Reserve)

	_, err = DrawReward(v, coordinator, 1)
	assert.ErrorIs(t, err, ErrEmptyPool)
	assert.Equal(t, tx.TecEMPTY_POOL, Result(err))
}

func TestDrawReward_CoordinatorOnly(t *testing.T) {
	v := newPool(t, 1000)
	_, err := DrawReward(v, owner, 2)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, tx.TecNO_PERMISSION, Result(err))
}

func TestGetInfo(t *testing.T) {
	v := newPool(t, 1000)
	info, err := GetInfo(v)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), info.Reserve)
	require.NotNil(t, info.UpperBoundary)
	assert.Equal(t, uint64(10000), *info.UpperBoundary)
	assert.Equal(t, uint64(100), *info.LowerBoundary)
	assert.Equal(t, uint64(10), *info.DepositUnit)
	assert.Equal(t, uint64(10), *info.WithdrawUnit)

	again, err := GetInfo(v)
	require.NoError(t, err)
	assert.Equal(t, info, again)

	empty, err := GetInfo(newPool(t, 0))
	require.NoError(t, err)
	assert.Nil(t, empty.UpperBoundary)
	assert.Nil(t, empty.DepositUnit)
}

func TestLoad_NotInitialized(t *testing.T) {
	_, err := Load(view.NewMemory())
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, Init(view.NewMemory(), owner, token, 0), ErrBadWindowRatio)
}

func TestValidate(t *testing.T) {
	d := NewOwnerDeposit(owner, 0)
	d.Sequence = 1
	assert.ErrorContains(t, d.Validate(), "temBAD_AMOUNT")

	w := NewOwnerWithdraw(owner, 0)
	w.Sequence = 1
	assert.ErrorContains(t, w.Validate(), "temBAD_AMOUNT")

	g := NewGrantCoordinator(owner, types.ZeroAccount)
	g.Sequence = 1
	assert.ErrorContains(t, g.Validate(), "temMALFORMED")
}
