package testing

import (
	"io"
	"testing"

	"github.com/LeJamon/pixpressd/internal/core/ledger/genesis"
	"github.com/LeJamon/pixpressd/internal/core/ledger/view"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/sirupsen/logrus"

	_ "github.com/LeJamon/pixpressd/internal/core/tx/all"
)

// DefaultFunding is the native balance Fund gives each account.
const DefaultFunding uint64 = 1_000_000

// OwnerFunding is the genesis native balance of the owner account.
const OwnerFunding uint64 = 1_000_000_000_000

// TestEnv manages a test ledger environment for transaction testing.
// It provides a simplified interface for creating accounts, funding them,
// submitting transactions, and verifying results.
type TestEnv struct {
	t        *testing.T
	view     *view.Memory
	engine   *tx.Engine
	accounts map[types.AccountID]*Account

	// Owner owns the pool, the registry and the market.
	Owner *Account

	// Genesis is the configuration the ledger was built from.
	Genesis genesis.Config
}

// DefaultGenesis returns the genesis configuration of NewTestEnv: a
// standard designated collection, a legacy collection, an empty pool with
// the coordinator already granted, and the default economics.
func DefaultGenesis(owner *Account) genesis.Config {
	cfg := genesis.DefaultConfig()
	cfg.Owner = owner.ID
	cfg.RewardToken = RewardToken
	cfg.DesignatedCollection = StandardCollection
	cfg.Collections[StandardCollection] = types.ProtocolStandard
	cfg.Collections[LegacyCollection] = types.ProtocolLegacy
	cfg.Accounts[owner.ID] = OwnerFunding
	cfg.GrantCoordinator = true
	return cfg
}

// NewTestEnv creates a new test environment with a genesis ledger.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return NewTestEnvWithConfig(t, nil)
}

// NewTestEnvWithConfig creates a test environment after letting configure
// adjust the default genesis configuration.
func NewTestEnvWithConfig(t *testing.T, configure func(*genesis.Config)) *TestEnv {
	t.Helper()

	owner := NewAccount("owner")
	cfg := DefaultGenesis(owner)
	if configure != nil {
		configure(&cfg)
	}

	v := view.NewMemory()
	if err := genesis.Create(v, cfg); err != nil {
		t.Fatalf("Failed to create genesis ledger: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	env := &TestEnv{
		t:        t,
		view:     v,
		engine:   tx.NewEngine(v, tx.EngineConfig{Logger: log}),
		accounts: make(map[types.AccountID]*Account),
		Owner:    owner,
		Genesis:  cfg,
	}
	env.accounts[owner.ID] = owner
	return env
}

// Engine returns the engine transactions are applied through.
func (e *TestEnv) Engine() *tx.Engine {
	return e.engine
}

// Register makes an account known to the environment so Submit can sign
// for it. Fund registers implicitly.
func (e *TestEnv) Register(accounts ...*Account) {
	for _, a := range accounts {
		e.accounts[a.ID] = a
	}
}

// Fund funds the specified accounts from the owner with DefaultFunding each.
func (e *TestEnv) Fund(accounts ...*Account) {
	e.t.Helper()
	for _, a := range accounts {
		e.FundAmount(a, DefaultFunding)
	}
}

// FundAmount pays amount of native currency from the owner to acc.
func (e *TestEnv) FundAmount(acc *Account, amount uint64) {
	e.t.Helper()
	e.Register(acc)
	result := e.Submit(assets.NewPayment(e.Owner.ID, acc.ID, amount))
	if !result.Success {
		e.t.Fatalf("Failed to fund %s: %s", acc.Name, result.Code)
	}
}

// Submit fills in the sender's next sequence, signs the transaction with
// the sender's key and applies it.
func (e *TestEnv) Submit(transaction tx.Transaction) TxResult {
	e.t.Helper()
	common := transaction.GetCommon()
	acc, ok := e.accounts[common.Account]
	if !ok {
		e.t.Fatalf("Submit: account %s is not registered", common.Account)
	}
	if common.Sequence == 0 {
		common.Sequence = e.Seq(acc)
	}
	if err := tx.Sign(transaction, acc.Key); err != nil {
		e.t.Fatalf("Failed to sign transaction: %v", err)
	}
	return e.SubmitSigned(transaction)
}

// SubmitSigned applies a transaction as is.
func (e *TestEnv) SubmitSigned(transaction tx.Transaction) TxResult {
	e.t.Helper()
	return newTxResult(e.engine.Apply(transaction))
}

// Read runs fn against committed state.
func (e *TestEnv) Read(fn func(v tx.LedgerView) error) {
	e.t.Helper()
	if err := e.engine.Read(fn); err != nil {
		e.t.Fatalf("Read failed: %v", err)
	}
}

// Seed mutates state directly, outside any transaction. Use it for
// fixtures the transaction surface cannot create, such as minted items.
func (e *TestEnv) Seed(fn func(v tx.LedgerView) error) {
	e.t.Helper()
	e.Read(fn)
}

// GiveItem mints amount units of an item to acc.
func (e *TestEnv) GiveItem(acc *Account, it types.Item) {
	e.t.Helper()
	e.Seed(func(v tx.LedgerView) error {
		return assets.CreditItem(v, it.Collection, it.ItemID, acc.ID, it.Amount)
	})
}

// GiveTokens mints amount of the reward token to acc.
func (e *TestEnv) GiveTokens(acc *Account, amount uint64) {
	e.t.Helper()
	e.Seed(func(v tx.LedgerView) error {
		return assets.CreditToken(v, e.Genesis.RewardToken, acc.ID, amount)
	})
}

// Seq returns the account's next sequence, or 1 if it does not exist.
func (e *TestEnv) Seq(acc *Account) uint32 {
	e.t.Helper()
	seq := uint32(1)
	e.Read(func(v tx.LedgerView) error {
		root, err := sle.ReadAccount(v, acc.ID)
		if root != nil {
			seq = root.Sequence
		}
		return err
	})
	return seq
}

// Exists reports whether the account has an account root.
func (e *TestEnv) Exists(acc *Account) bool {
	e.t.Helper()
	var found bool
	e.Read(func(v tx.LedgerView) error {
		root, err := sle.ReadAccount(v, acc.ID)
		found = root != nil
		return err
	})
	return found
}

// Balance returns the native balance of an account.
func (e *TestEnv) Balance(acc *Account) uint64 {
	e.t.Helper()
	return e.BalanceOf(acc.ID)
}

// BalanceOf returns the native balance of any account id, including
// module custody accounts.
func (e *TestEnv) BalanceOf(id types.AccountID) uint64 {
	e.t.Helper()
	var bal uint64
	e.Read(func(v tx.LedgerView) error {
		var err error
		bal, err = sle.NativeBalance(v, id)
		return err
	})
	return bal
}

// TokenBalance returns the reward token balance of an account id.
func (e *TestEnv) TokenBalance(id types.AccountID) uint64 {
	e.t.Helper()
	var bal uint64
	e.Read(func(v tx.LedgerView) error {
		var err error
		bal, err = assets.TokenBalance(v, e.Genesis.RewardToken, id)
		return err
	})
	return bal
}

// Holding returns how many units of the item id holds.
func (e *TestEnv) Holding(id types.AccountID, it types.Item) uint64 {
	e.t.Helper()
	var n uint64
	e.Read(func(v tx.LedgerView) error {
		var err error
		n, err = assets.Holding(v, it.Collection, it.ItemID, id)
		return err
	})
	return n
}

// SetReceiveHook registers a receive hook for acc on the engine.
func (e *TestEnv) SetReceiveHook(acc *Account, hook tx.ReceiveHook) {
	e.engine.SetReceiveHook(acc.ID, hook)
}

// EntryCount returns the number of entries in the ledger.
func (e *TestEnv) EntryCount() int {
	e.t.Helper()
	var n int
	e.Read(func(tx.LedgerView) error {
		n = e.view.Len()
		return nil
	})
	return n
}

// Snapshot returns a copy of every ledger entry keyed by keylet key.
func (e *TestEnv) Snapshot() map[[32]byte]string {
	e.t.Helper()
	out := make(map[[32]byte]string)
	e.Read(func(v tx.LedgerView) error {
		return v.ForEach(func(k [32]byte, data []byte) bool {
			out[k] = string(data)
			return true
		})
	})
	return out
}
