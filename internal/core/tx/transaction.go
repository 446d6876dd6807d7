package tx

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/types"
)

// Common errors
var (
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// MaxMemoSize is the largest memo accepted, in bytes.
const MaxMemoSize = 1024

// Transaction is the interface that all transaction types must implement
type Transaction interface {
	// TxType returns the transaction type
	TxType() Type

	// GetCommon returns the common transaction fields
	GetCommon() *Common

	// Validate checks if the transaction is well formed. Errors carry a
	// tem code prefix, e.g. "temBAD_AMOUNT: ...".
	Validate() error
}

// Appliable is implemented by transaction types that can apply themselves to ledger state.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

// Common contains fields common to all transaction types
type Common struct {
	// Required fields
	Account         types.AccountID `json:"Account"`
	TransactionType string          `json:"TransactionType"`
	Sequence        uint32          `json:"Sequence"`

	// Value is the native amount attached to the call. Handlers collect
	// only what they need; the rest stays with the sender.
	Value uint64 `json:"Value,omitempty"`

	Memo string `json:"Memo,omitempty"`

	SigningPubKey string `json:"SigningPubKey,omitempty"`
	TxnSignature  string `json:"TxnSignature,omitempty"`
}

// Validate validates the common fields
func (c *Common) Validate() error {
	if c.Account.IsZero() {
		return errors.New("temBAD_SRC_ACCOUNT: Account is required")
	}
	if c.TransactionType == "" {
		return errors.New("temINVALID: TransactionType is required")
	}
	if c.Sequence == 0 {
		return errors.New("temBAD_SEQUENCE: Sequence must be non-zero")
	}
	if len(c.Memo) > MaxMemoSize {
		return errors.New("temMALFORMED: Memo too large")
	}
	return nil
}

// BaseTx provides a base implementation for transactions
type BaseTx struct {
	Common
	txType Type
}

// TxType returns the transaction type
func (b *BaseTx) TxType() Type {
	return b.txType
}

// GetCommon returns the common transaction fields
func (b *BaseTx) GetCommon() *Common {
	return &b.Common
}

// Validate validates the base transaction
func (b *BaseTx) Validate() error {
	return b.Common.Validate()
}

// NewBaseTx creates a new base transaction
func NewBaseTx(txType Type, account types.AccountID) *BaseTx {
	return &BaseTx{
		Common: Common{
			Account:         account,
			TransactionType: txType.String(),
		},
		txType: txType,
	}
}
