package testing

import "github.com/LeJamon/pixpressd/internal/core/tx"

// TxResult represents the result of applying a transaction.
type TxResult struct {
	// Code is the transaction engine result code (e.g., "tesSUCCESS").
	Code string

	// Result is the typed code.
	Result tx.Result

	// Success indicates whether the transaction was successfully applied.
	Success bool

	// Message provides additional details about the result.
	Message string

	// Hash is the transaction id.
	Hash string

	// Metadata lists the entries the transaction touched.
	Metadata *tx.Metadata
}

func newTxResult(res tx.ApplyResult) TxResult {
	return TxResult{
		Code:     res.Result.String(),
		Result:   res.Result,
		Success:  res.Applied,
		Message:  res.Message,
		Hash:     res.Hash,
		Metadata: res.Metadata,
	}
}

// Kind returns the error kind of the result.
func (r TxResult) Kind() tx.Kind {
	return r.Result.Kind()
}
