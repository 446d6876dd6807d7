package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/storage/relationaldb"
	jtx "github.com/LeJamon/pixpressd/internal/testing"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "history.db")
	s, err := New(relationaldb.NewConfig(relationaldb.DriverSQLite, dsn))
	require.NoError(t, err)
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func record(hash, account string, applied bool) *relationaldb.TransactionRecord {
	return &relationaldb.TransactionRecord{
		Hash:    hash,
		Account: account,
		TxType:  "Payment",
		Result:  "tesSUCCESS",
		Applied: applied,
		RawTxn:  []byte(`{"TransactionType":"Payment"}`),
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	rec := record("AA", "0x01", true)
	rec.TxnMeta = []byte(`{"AffectedNodes":[]}`)
	require.NoError(t, s.SaveTransaction(ctx, rec))
	assert.Equal(t, int64(1), rec.Seq)

	got, err := s.GetTransaction(ctx, "AA")
	require.NoError(t, err)
	assert.Equal(t, rec.Account, got.Account)
	assert.Equal(t, rec.RawTxn, got.RawTxn)
	assert.Equal(t, rec.TxnMeta, got.TxnMeta)
	assert.True(t, got.Applied)
	assert.Equal(t, rec.CreatedAt.UnixNano(), got.CreatedAt.UnixNano())

	_, err = s.GetTransaction(ctx, "BB")
	assert.ErrorIs(t, err, relationaldb.ErrTransactionNotFound)

	assert.ErrorIs(t, s.SaveTransaction(ctx, record("AA", "0x01", true)), relationaldb.ErrDuplicateEntry)
}

func TestStore_AccountTransactions(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTransaction(ctx, record("01", "0xa", true)))
	require.NoError(t, s.SaveTransaction(ctx, record("02", "0xb", true)))
	require.NoError(t, s.SaveTransaction(ctx, record("03", "0xa", false)))
	require.NoError(t, s.SaveTransaction(ctx, record("04", "0xa", true)))

	all, err := s.GetAccountTransactions(ctx, relationaldb.AccountTxOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := s.GetAccountTransactions(ctx, relationaldb.AccountTxOptions{Account: "0xa"})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, []string{"01", "03", "04"}, []string{mine[0].Hash, mine[1].Hash, mine[2].Hash})

	applied, err := s.GetAccountTransactions(ctx, relationaldb.AccountTxOptions{Account: "0xa", AppliedOnly: true})
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	page, err := s.GetAccountTransactions(ctx, relationaldb.AccountTxOptions{Account: "0xa", Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "03", page[0].Hash)

	n, err := s.GetTransactionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestStore_Closed(t *testing.T) {
	s, err := New(relationaldb.NewConfig(relationaldb.DriverSQLite, "file:unused.db"))
	require.NoError(t, err)
	_, err = s.GetTransactionCount(context.Background())
	assert.ErrorIs(t, err, relationaldb.ErrDatabaseClosed)
}

func TestNew_RejectsConfig(t *testing.T) {
	_, err := New(relationaldb.NewConfig("mysql", "x"))
	assert.ErrorIs(t, err, relationaldb.ErrInvalidDriver)
	_, err = New(relationaldb.NewConfig(relationaldb.DriverPostgres, ""))
	assert.ErrorIs(t, err, relationaldb.ErrMissingDSN)
}

func TestRebind(t *testing.T) {
	q := `SELECT * FROM t WHERE a = ? AND b = ?`
	assert.Equal(t, q, rebind(relationaldb.DriverSQLite, q))
	assert.Equal(t, `SELECT * FROM t WHERE a = $1 AND b = $2`, rebind(relationaldb.DriverPostgres, q))
}

func TestRecorder(t *testing.T) {
	s := openSQLite(t)
	env := jtx.NewTestEnv(t)
	log := logrus.New()
	env.Engine().Subscribe(relationaldb.NewRecorder(s, log, 0))

	alice := jtx.NewAccount("alice")
	env.Fund(alice)
	env.Submit(assets.NewPayment(alice.ID, env.Owner.ID, 2*jtx.DefaultFunding))

	ctx := context.Background()
	owner, err := s.GetAccountTransactions(ctx, relationaldb.AccountTxOptions{Account: env.Owner.ID.String()})
	require.NoError(t, err)
	require.Len(t, owner, 1)
	assert.True(t, owner[0].Applied)
	assert.Equal(t, "Payment", owner[0].TxType)
	assert.NotEmpty(t, owner[0].TxnMeta)

	rejected, err := s.GetAccountTransactions(ctx, relationaldb.AccountTxOptions{Account: alice.ID.String()})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.False(t, rejected[0].Applied)
	assert.Equal(t, "tecUNFUNDED", rejected[0].Result)
	assert.Empty(t, rejected[0].TxnMeta)
}
