// Package sqlstore implements the transaction history repository over
// database/sql, with SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq)
// drivers.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/LeJamon/pixpressd/internal/storage/relationaldb"

	_ "github.com/lib/pq"   // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Store implements relationaldb.RepositoryManager and
// relationaldb.TransactionRepository.
type Store struct {
	config *relationaldb.Config

	mu sync.RWMutex
	db *sql.DB
}

// New creates a store; call Open before use.
func New(config *relationaldb.Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Store{config: config}, nil
}

// Open connects and creates the schema if needed.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	db, err := sql.Open(s.config.Driver, s.config.DSN)
	if err != nil {
		return relationaldb.NewConnectionError("open", "failed to open database", err)
	}
	db.SetMaxOpenConns(s.config.MaxOpenConns)
	db.SetMaxIdleConns(s.config.MaxIdleConns)
	db.SetConnMaxLifetime(s.config.ConnMaxLifetime)
	if s.config.Driver == relationaldb.DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return relationaldb.NewConnectionError("open", relationaldb.ErrConnectionFailed.Error(), err)
	}
	for _, stmt := range schema(s.config.Driver) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return relationaldb.NewSchemaError("open", "failed to create schema", err)
		}
	}
	s.db = db
	return nil
}

// Close closes the connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Transactions returns the transaction repository.
func (s *Store) Transactions() relationaldb.TransactionRepository {
	return s
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, relationaldb.ErrDatabaseClosed
	}
	return s.db, nil
}

func (s *Store) q(query string) string {
	return rebind(s.config.Driver, query)
}

// SaveTransaction inserts rec and fills rec.Seq.
func (s *Store) SaveTransaction(ctx context.Context, rec *relationaldb.TransactionRecord) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var exists int
	err = db.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM transactions WHERE hash = ?`), rec.Hash).Scan(&exists)
	if err != nil {
		return relationaldb.NewQueryError("save_transaction", "failed to check for duplicate", err)
	}
	if exists > 0 {
		return relationaldb.ErrDuplicateEntry
	}

	var meta sql.NullString
	if rec.TxnMeta != nil {
		meta = sql.NullString{String: string(rec.TxnMeta), Valid: true}
	}
	err = db.QueryRowContext(ctx, s.q(`INSERT INTO transactions
		(hash, account, tx_type, sequence, result, applied, raw_txn, txn_meta, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING seq`),
		rec.Hash, rec.Account, rec.TxType, int64(rec.Sequence), rec.Result, rec.Applied,
		string(rec.RawTxn), meta, rec.CreatedAt.UnixNano(),
	).Scan(&rec.Seq)
	if err != nil {
		return relationaldb.NewQueryError("save_transaction", "failed to insert transaction", err)
	}
	return nil
}

const selectColumns = `SELECT seq, hash, account, tx_type, sequence, result, applied, raw_txn, txn_meta, created_at FROM transactions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*relationaldb.TransactionRecord, error) {
	var (
		rec     relationaldb.TransactionRecord
		seq     int64
		raw     string
		meta    sql.NullString
		created int64
	)
	if err := row.Scan(&rec.Seq, &rec.Hash, &rec.Account, &rec.TxType, &seq,
		&rec.Result, &rec.Applied, &raw, &meta, &created); err != nil {
		return nil, err
	}
	rec.Sequence = uint32(seq)
	rec.RawTxn = []byte(raw)
	if meta.Valid {
		rec.TxnMeta = []byte(meta.String)
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	return &rec, nil
}

// GetTransaction returns the record with hash.
func (s *Store) GetTransaction(ctx context.Context, hash string) (*relationaldb.TransactionRecord, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rec, err := scanRecord(db.QueryRowContext(ctx, s.q(selectColumns+` WHERE hash = ?`), hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, relationaldb.ErrTransactionNotFound
	}
	if err != nil {
		return nil, relationaldb.NewQueryError("get_transaction", "failed to query transaction", err)
	}
	return rec, nil
}

// GetAccountTransactions lists records in apply order.
func (s *Store) GetAccountTransactions(ctx context.Context, opts relationaldb.AccountTxOptions) ([]*relationaldb.TransactionRecord, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	query := selectColumns + ` WHERE 1 = 1`
	var args []any
	if opts.Account != "" {
		query += ` AND account = ?`
		args = append(args, opts.Account)
	}
	if opts.AppliedOnly {
		query += ` AND applied = ?`
		args = append(args, true)
	}
	limit := opts.Limit
	if limit == 0 {
		limit = relationaldb.DefaultLimit
	}
	query += ` ORDER BY seq LIMIT ? OFFSET ?`
	args = append(args, int64(limit), int64(opts.Offset))

	rows, err := db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, relationaldb.NewQueryError("get_account_transactions", "failed to query transactions", err)
	}
	defer rows.Close()

	var out []*relationaldb.TransactionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, relationaldb.NewQueryError("get_account_transactions", "failed to scan transaction", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, relationaldb.NewQueryError("get_account_transactions", "failed to iterate transactions", err)
	}
	return out, nil
}

// GetTransactionCount returns the number of recorded transactions.
func (s *Store) GetTransactionCount(ctx context.Context) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, relationaldb.NewQueryError("get_transaction_count", "failed to count transactions", err)
	}
	return count, nil
}
