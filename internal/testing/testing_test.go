package testing

import (
	"testing"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	alice1 := NewAccount("alice")
	alice2 := NewAccount("alice")

	// Same name should produce same account
	assert.Equal(t, alice1.ID, alice2.ID)
	assert.Equal(t, alice1.Key.PublicKeyHex(), alice2.Key.PublicKeyHex())

	// Different name should produce different account
	bob := NewAccount("bob")
	assert.NotEqual(t, alice1.ID, bob.ID)
}

func TestFund(t *testing.T) {
	env := NewTestEnv(t)
	alice := NewAccount("alice")
	env.Fund(alice)

	RequireAccountExists(t, env, alice)
	RequireBalance(t, env, alice, DefaultFunding)
	RequireBalance(t, env, env.Owner, OwnerFunding-DefaultFunding)
	assert.Equal(t, uint32(2), env.Seq(env.Owner))
	assert.Equal(t, uint32(1), env.Seq(alice))
}

func TestSubmit_SequenceAdvancesOnlyOnSuccess(t *testing.T) {
	env := NewTestEnv(t)
	alice, bob := NewAccount("alice"), NewAccount("bob")
	env.Fund(alice, bob)

	RequireTxSuccess(t, env.Submit(assets.NewPayment(alice.ID, bob.ID, 10)))
	assert.Equal(t, uint32(2), env.Seq(alice))

	RequireTxFail(t, env.Submit(assets.NewPayment(alice.ID, bob.ID, DefaultFunding)), "tecUNFUNDED")
	assert.Equal(t, uint32(2), env.Seq(alice))
}

func TestSubmit_RejectsWrongSequence(t *testing.T) {
	env := NewTestEnv(t)
	alice, bob := NewAccount("alice"), NewAccount("bob")
	env.Fund(alice, bob)

	past := assets.NewPayment(alice.ID, bob.ID, 1)
	past.Sequence = 1
	RequireTxSuccess(t, env.Submit(past))

	replay := assets.NewPayment(alice.ID, bob.ID, 1)
	replay.Sequence = 1
	RequireTxFail(t, env.Submit(replay), "tefPAST_SEQ")

	future := assets.NewPayment(alice.ID, bob.ID, 1)
	future.Sequence = 9
	RequireTxFail(t, env.Submit(future), "terPRE_SEQ")
}

func TestSubmit_SignatureChecked(t *testing.T) {
	env := NewTestEnv(t)
	alice, bob := NewAccount("alice"), NewAccount("bob")
	env.Fund(alice, bob)

	pay := assets.NewPayment(alice.ID, bob.ID, 5)
	pay.Sequence = env.Seq(alice)
	require.NoError(t, tx.Sign(pay, bob.Key))
	RequireTxFail(t, env.SubmitSigned(pay), "tefBAD_SIGNATURE")

	unsigned := assets.NewPayment(alice.ID, bob.ID, 5)
	unsigned.Sequence = env.Seq(alice)
	RequireTxFail(t, env.SubmitSigned(unsigned), "temBAD_SIGNATURE")

	tampered := assets.NewPayment(alice.ID, bob.ID, 5)
	tampered.Sequence = env.Seq(alice)
	require.NoError(t, tx.Sign(tampered, alice.Key))
	tampered.Amount = 500
	RequireTxFail(t, env.SubmitSigned(tampered), "tefBAD_SIGNATURE")
}

func TestRequireUnchanged(t *testing.T) {
	env := NewTestEnv(t)
	alice, bob := NewAccount("alice"), NewAccount("bob")
	env.Fund(alice, bob)

	RequireUnchanged(t, env, func() {
		RequireTxFail(t, env.Submit(assets.NewPayment(alice.ID, bob.ID, DefaultFunding+1)), "tecUNFUNDED")
	})
}

func TestGiveItemAndTokens(t *testing.T) {
	env := NewTestEnv(t)
	alice := NewAccount("alice")
	env.Fund(alice)

	env.GiveItem(alice, StandardItem(3, 4))
	env.GiveItem(alice, LegacyItem(8))
	env.GiveTokens(alice, 250)

	RequireOwns(t, env, alice.ID, StandardItem(3, 4))
	RequireOwns(t, env, alice.ID, LegacyItem(8))
	RequireNotOwns(t, env, env.Owner.ID, LegacyItem(8))
	RequireTokenBalance(t, env, alice.ID, 250)
}
