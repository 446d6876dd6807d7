package tx_test

import (
	"testing"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	jtx "github.com/LeJamon/pixpressd/internal/testing"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ObserversSeeEveryResult(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")

	var seen []tx.Result
	env.Engine().Subscribe(tx.ObserverFunc(func(_ tx.Transaction, res tx.ApplyResult) {
		seen = append(seen, res.Result)
	}))

	env.Fund(alice)
	env.Submit(assets.NewPayment(alice.ID, env.Owner.ID, 2*jtx.DefaultFunding))

	require.Len(t, seen, 2)
	assert.Equal(t, tx.TesSUCCESS, seen[0])
	assert.True(t, seen[1].IsTec())
}

func TestEngine_Metadata(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	env.Register(alice)

	r := env.Submit(assets.NewPayment(env.Owner.ID, alice.ID, 5000))
	jtx.RequireTxSuccess(t, r)
	require.NotNil(t, r.Metadata)
	assert.Equal(t, tx.TesSUCCESS, r.Metadata.TransactionResult)

	kinds := map[string]int{}
	for _, n := range r.Metadata.AffectedNodes {
		assert.Equal(t, "AccountRoot", n.LedgerEntryType)
		kinds[n.NodeType]++
	}
	assert.Equal(t, map[string]int{"CreatedNode": 1, "ModifiedNode": 1}, kinds)
	assert.Len(t, r.Hash, 64)
}

func TestEngine_FailureHasNoMetadata(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	env.Fund(alice)

	jtx.RequireUnchanged(t, env, func() {
		r := env.Submit(assets.NewPayment(alice.ID, env.Owner.ID, 2*jtx.DefaultFunding))
		assert.False(t, r.Success)
		assert.Nil(t, r.Metadata)
	})
}

func TestEngine_UnknownAccount(t *testing.T) {
	env := jtx.NewTestEnv(t)
	ghost := jtx.NewAccount("ghost")
	env.Register(ghost)

	r := env.Submit(assets.NewPayment(ghost.ID, env.Owner.ID, 1))
	jtx.RequireTxFail(t, r, "terNO_ACCOUNT")
}

func TestEngine_ValueAboveBalance(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	env.Fund(alice)

	p := assets.NewPayment(alice.ID, env.Owner.ID, 1)
	p.Value = jtx.DefaultFunding + 1
	jtx.RequireTxFail(t, env.Submit(p), "tecUNFUNDED")
	assert.Equal(t, uint32(1), env.Seq(alice))
}

func TestEngine_DebugLog(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	// Preflight rejects the payment before any ledger read.
	engine := tx.NewEngine(nil, tx.EngineConfig{Logger: log, SkipSignatureVerification: true})
	alice := jtx.NewAccount("alice")
	res := engine.Apply(assets.NewPayment(alice.ID, alice.ID, 1))
	assert.Equal(t, "temDST_IS_SRC", res.Result.String())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "applied transaction", entry.Message)
	assert.Equal(t, "Payment", entry.Data["tx_type"])
	assert.Equal(t, "temDST_IS_SRC", entry.Data["result"])
	assert.Equal(t, alice.ID.String(), entry.Data["account"])
}
