package testing

import (
	"testing"

	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/stretchr/testify/require"
)

// RequireBalance asserts that an account has the expected native balance.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, expected uint64) {
	t.Helper()
	actual := env.Balance(acc)
	require.Equal(t, expected, actual,
		"Account %s balance mismatch: expected %d, got %d", acc.Name, expected, actual)
}

// RequireTokenBalance asserts the reward token balance of an account id.
func RequireTokenBalance(t *testing.T, env *TestEnv, id types.AccountID, expected uint64) {
	t.Helper()
	actual := env.TokenBalance(id)
	require.Equal(t, expected, actual,
		"Account %s token balance mismatch: expected %d, got %d", id, expected, actual)
}

// RequireOwns asserts that id holds exactly it.Amount units of it.
func RequireOwns(t *testing.T, env *TestEnv, id types.AccountID, it types.Item) {
	t.Helper()
	actual := env.Holding(id, it)
	require.Equal(t, it.Amount, actual,
		"Account %s holding of %s/%d mismatch: expected %d, got %d",
		id, it.Collection, it.ItemID, it.Amount, actual)
}

// RequireNotOwns asserts that id holds no unit of it.
func RequireNotOwns(t *testing.T, env *TestEnv, id types.AccountID, it types.Item) {
	t.Helper()
	require.Zero(t, env.Holding(id, it),
		"Account %s unexpectedly holds %s/%d", id, it.Collection, it.ItemID)
}

// RequireTxSuccess asserts that a transaction result indicates success.
func RequireTxSuccess(t *testing.T, result TxResult) {
	t.Helper()
	require.True(t, result.Success,
		"Expected transaction success, got %s: %s", result.Code, result.Message)
	require.Equal(t, "tesSUCCESS", result.Code,
		"Expected tesSUCCESS, got %s: %s", result.Code, result.Message)
}

// RequireTxFail asserts that a transaction result indicates failure with a specific code.
func RequireTxFail(t *testing.T, result TxResult, expectedCode string) {
	t.Helper()
	require.False(t, result.Success,
		"Expected transaction failure with code %s, but transaction succeeded", expectedCode)
	require.Equal(t, expectedCode, result.Code,
		"Expected failure code %s, got %s: %s", expectedCode, result.Code, result.Message)
}

// RequireUnchanged runs fn and asserts that the ledger is byte-identical
// afterwards. Use it to check that a failing transaction left no trace.
func RequireUnchanged(t *testing.T, env *TestEnv, fn func()) {
	t.Helper()
	before := env.Snapshot()
	fn()
	require.Equal(t, before, env.Snapshot(), "ledger state changed")
}

// RequireAccountExists asserts that an account exists in the ledger.
func RequireAccountExists(t *testing.T, env *TestEnv, acc *Account) {
	t.Helper()
	require.True(t, env.Exists(acc),
		"Expected account %s to exist, but it does not", acc.Name)
}
