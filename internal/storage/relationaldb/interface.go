// Package relationaldb records processed transactions in a SQL database
// so they can be listed per account after the fact.
package relationaldb

import (
	"context"
	"time"
)

// TransactionRecord is one processed transaction, successful or not.
type TransactionRecord struct {
	// Seq is the apply order, assigned by the repository.
	Seq       int64     `json:"seq"`
	Hash      string    `json:"hash"`
	Account   string    `json:"account"`
	TxType    string    `json:"tx_type"`
	Sequence  uint32    `json:"sequence"`
	Result    string    `json:"result"`
	Applied   bool      `json:"applied"`
	RawTxn    []byte    `json:"raw_txn"`
	TxnMeta   []byte    `json:"txn_meta,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountTxOptions contains criteria for account transaction queries
type AccountTxOptions struct {
	// Account filters by sender; empty lists every account.
	Account string `json:"account"`
	Offset  uint32 `json:"offset"`
	Limit   uint32 `json:"limit"`
	// AppliedOnly drops rejected transactions.
	AppliedOnly bool `json:"applied_only"`
}

// TransactionRepository stores and queries transaction records.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, rec *TransactionRecord) error
	GetTransaction(ctx context.Context, hash string) (*TransactionRecord, error)
	GetAccountTransactions(ctx context.Context, opts AccountTxOptions) ([]*TransactionRecord, error)
	GetTransactionCount(ctx context.Context) (int64, error)
}

// RepositoryManager owns the connection behind the repositories.
type RepositoryManager interface {
	Open(ctx context.Context) error
	Close() error
	Transactions() TransactionRepository
}
