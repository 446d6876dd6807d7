package relationaldb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/sirupsen/logrus"
)

// Recorder writes every processed transaction to a repository. It
// implements tx.Observer. History is best effort: a failed write is
// logged and never affects the ledger.
type Recorder struct {
	repo    TransactionRepository
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewRecorder creates a recorder writing to repo.
func NewRecorder(repo TransactionRepository, log logrus.FieldLogger, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{repo: repo, log: log, timeout: timeout}
}

// OnApplied implements tx.Observer.
func (r *Recorder) OnApplied(t tx.Transaction, res tx.ApplyResult) {
	rec, err := NewRecord(t, res)
	if err != nil {
		r.log.WithError(err).Warn("failed to encode transaction for history")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.repo.SaveTransaction(ctx, rec); err != nil {
		r.log.WithError(err).WithField("hash", res.Hash).Warn("failed to record transaction")
	}
}

// NewRecord builds the history row for a processed transaction.
func NewRecord(t tx.Transaction, res tx.ApplyResult) (*TransactionRecord, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	var meta []byte
	if res.Metadata != nil {
		if meta, err = json.Marshal(res.Metadata); err != nil {
			return nil, err
		}
	}
	common := t.GetCommon()
	return &TransactionRecord{
		Hash:      res.Hash,
		Account:   common.Account.String(),
		TxType:    t.TxType().String(),
		Sequence:  common.Sequence,
		Result:    res.Result.String(),
		Applied:   res.Applied,
		RawTxn:    raw,
		TxnMeta:   meta,
		CreatedAt: time.Now().UTC(),
	}, nil
}
