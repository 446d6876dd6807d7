package tx

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/ledger/view"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/sirupsen/logrus"
)

// LedgerView provides read/write access to ledger state
type LedgerView = view.LedgerView

// EngineConfig holds configuration for the transaction engine
type EngineConfig struct {
	// SkipSignatureVerification skips signature checks (for replaying
	// trusted files and tests)
	SkipSignatureVerification bool

	// Logger receives per-transaction debug logs. Defaults to a discarding
	// logger.
	Logger logrus.FieldLogger
}

// ApplyResult contains the result of applying a transaction
type ApplyResult struct {
	// Result is the transaction result code
	Result Result `json:"engine_result"`

	// Applied indicates the transaction changed the ledger
	Applied bool `json:"applied"`

	// Hash is the transaction id
	Hash string `json:"hash"`

	// Metadata contains the changes made by the transaction
	Metadata *Metadata `json:"meta,omitempty"`

	// Message is a human-readable result message
	Message string `json:"engine_result_message"`

	// Duration is the time spent inside Apply
	Duration time.Duration `json:"-"`
}

// Engine processes transactions against a ledger, one at a time.
type Engine struct {
	mu        sync.Mutex
	view      LedgerView
	config    EngineConfig
	log       logrus.FieldLogger
	hooks     map[types.AccountID]ReceiveHook
	observers []Observer
}

// NewEngine creates a new transaction engine
func NewEngine(v LedgerView, config EngineConfig) *Engine {
	log := config.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Engine{
		view:   v,
		config: config,
		log:    log,
		hooks:  make(map[types.AccountID]ReceiveHook),
	}
}

// SetReceiveHook registers hook for account. A nil hook removes it.
func (e *Engine) SetReceiveHook(account types.AccountID, hook ReceiveHook) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if hook == nil {
		delete(e.hooks, account)
		return
	}
	e.hooks[account] = hook
}

// ReceiveHook implements HookLookup. It is called with the engine lock held.
func (e *Engine) ReceiveHook(account types.AccountID) ReceiveHook {
	return e.hooks[account]
}

// Subscribe adds an observer.
func (e *Engine) Subscribe(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// Read runs fn against the committed ledger state while no transaction
// is being applied.
func (e *Engine) Read(fn func(v LedgerView) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.view)
}

// Apply processes a transaction and applies it to the ledger. Effects are
// all-or-nothing: any result other than tesSUCCESS leaves the ledger,
// including the sender's sequence, untouched.
func (e *Engine) Apply(tx Transaction) ApplyResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	res := e.apply(tx)
	res.Applied = res.Result.IsSuccess()
	res.Message = res.Result.Message()
	res.Duration = time.Since(start)

	e.log.WithFields(logrus.Fields{
		"tx_type": tx.TxType().String(),
		"account": tx.GetCommon().Account.String(),
		"result":  res.Result.String(),
		"hash":    res.Hash,
	}).Debug("applied transaction")

	for _, o := range e.observers {
		o.OnApplied(tx, res)
	}
	return res
}

func (e *Engine) apply(tx Transaction) ApplyResult {
	var res ApplyResult

	hash, err := ComputeHash(tx)
	if err != nil {
		res.Result = TemINVALID
		return res
	}
	res.Hash = strings.ToUpper(hex.EncodeToString(hash[:]))

	// Step 1: Preflight checks (syntax validation)
	if res.Result = e.preflight(tx); !res.Result.IsSuccess() {
		return res
	}

	// Step 2: Preclaim checks (validate against ledger state)
	if res.Result = e.preclaim(tx); !res.Result.IsSuccess() {
		return res
	}

	// Step 3: Apply through a fresh table
	table := NewApplyStateTable(e.view)
	common := tx.GetCommon()
	ctx := &ApplyContext{
		View:      table,
		AccountID: common.Account,
		Tx:        tx,
		TxHash:    hash,
		Hooks:     e,
		Log:       e.log.WithField("hash", res.Hash),
	}

	appliable, ok := tx.(Appliable)
	if !ok {
		res.Result = TemUNKNOWN
		return res
	}
	if res.Result = appliable.Apply(ctx); !res.Result.IsSuccess() {
		return res
	}

	// Step 4: Consume the sequence and commit
	if err := consumeSequence(table, common.Account); err != nil {
		res.Result = ResultFromError(err)
		return res
	}

	meta, err := table.Apply()
	if err != nil {
		e.log.WithError(err).Error("failed to apply state table")
		e.discard()
		res.Result = TefINTERNAL
		return res
	}
	if c, ok := e.view.(view.Committer); ok {
		if err := c.Commit(context.Background()); err != nil {
			e.log.WithError(err).Error("failed to commit ledger state")
			c.Discard()
			res.Result = TefINTERNAL
			return res
		}
	}

	meta.TransactionResult = TesSUCCESS
	res.Metadata = meta
	return res
}

func (e *Engine) discard() {
	if c, ok := e.view.(view.Committer); ok {
		c.Discard()
	}
}

// preflight performs checks that need no ledger state.
func (e *Engine) preflight(tx Transaction) Result {
	common := tx.GetCommon()

	if common.TransactionType != tx.TxType().String() {
		return TemINVALID
	}

	if err := tx.Validate(); err != nil {
		return parseValidationError(err)
	}

	if !e.config.SkipSignatureVerification {
		if err := VerifySignature(tx); err != nil {
			if errors.Is(err, ErrMissingPublicKey) || errors.Is(err, ErrMissingSignature) {
				return TemBAD_SIGNATURE
			}
			return TefBAD_SIGNATURE
		}
	}

	return TesSUCCESS
}

// preclaim checks the sender against the current ledger.
func (e *Engine) preclaim(tx Transaction) Result {
	common := tx.GetCommon()

	acct, err := sle.ReadAccount(e.view, common.Account)
	if err != nil {
		return TefINTERNAL
	}
	if acct == nil {
		return TerNO_ACCOUNT
	}

	switch {
	case common.Sequence < acct.Sequence:
		return TefPAST_SEQ
	case common.Sequence > acct.Sequence:
		return TerPRE_SEQ
	}

	if common.Value > acct.Balance {
		return TecUNFUNDED
	}
	return TesSUCCESS
}

func consumeSequence(v LedgerView, account types.AccountID) error {
	acct, err := sle.ReadAccount(v, account)
	if err != nil {
		return err
	}
	if acct == nil {
		return view.ErrEntryNotFound
	}
	acct.Sequence++
	return sle.Write(v, keylet.Account(account), acct)
}

// parseValidationError extracts a result code from a validation error
// message of the form "temCODE: detail". Otherwise it returns TemINVALID.
func parseValidationError(err error) Result {
	msg := err.Error()
	code := msg
	if i := strings.IndexAny(msg, ": "); i >= 0 {
		code = msg[:i]
	}
	if r, ok := ResultFromName(code); ok && r.IsTem() {
		return r
	}
	return TemINVALID
}
