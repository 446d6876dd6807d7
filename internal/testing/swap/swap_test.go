package swap

import (
	"math"
	"testing"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/types"
	jtx "github.com/LeJamon/pixpressd/internal/testing"
	pooltest "github.com/LeJamon/pixpressd/internal/testing/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	env              *jtx.TestEnv
	alice, bob, carol *jtx.Account
}

func setup(t *testing.T) *fixture {
	t.Helper()
	env := jtx.NewTestEnv(t)
	f := &fixture{
		env:   env,
		alice: jtx.NewAccount("alice"),
		bob:   jtx.NewAccount("bob"),
		carol: jtx.NewAccount("carol"),
	}
	env.Fund(f.alice, f.bob, f.carol)
	env.GiveItem(f.alice, jtx.StandardItem(1, 2))
	env.GiveItem(f.alice, jtx.LegacyItem(5))
	env.GiveItem(f.bob, jtx.StandardItem(9, 1))
	env.GiveItem(f.carol, jtx.StandardItem(9, 1))
	return f
}

func (f *fixture) propose(t *testing.T) uint64 {
	t.Helper()
	offer := []types.Item{jtx.StandardItem(1, 2), jtx.LegacyItem(5)}
	AllowEscrow(t, f.env, f.alice, offer...)
	jtx.RequireTxSuccess(t, f.env.Submit(Propose(f.alice).
		Offer(offer...).
		Want(jtx.StandardItem(9, 1)).
		Note("two for one").
		Build(f.env)))
	return LastProposeID(f.env)
}

func (f *fixture) match(t *testing.T, matcher *jtx.Account, proposeID uint64) uint64 {
	t.Helper()
	AllowEscrow(t, f.env, matcher, jtx.StandardItem(9, 1))
	jtx.RequireTxSuccess(t, f.env.Submit(Match(matcher, proposeID).
		Offer(jtx.StandardItem(9, 1)).
		Build(f.env)))
	return LastMatchID(f.env)
}

func TestPropose(t *testing.T) {
	f := setup(t)
	ownerBefore := f.env.Balance(f.env.Owner)

	pid := f.propose(t)
	assert.Equal(t, uint64(1), pid)

	p := GetPropose(f.env, pid)
	require.NotNil(t, p)
	assert.Equal(t, f.alice.ID, p.Proposer)
	assert.True(t, p.Receiver.IsZero())
	assert.Equal(t, "two for one", p.Note)
	assert.Len(t, p.Items, 3)
	assert.False(t, p.Accepted())

	// 2 standard units at 1000 plus one legacy item at 2500.
	assert.Equal(t, uint64(4500), p.Fee)
	jtx.RequireBalance(t, f.env, f.alice, jtx.DefaultFunding-4500)
	jtx.RequireBalance(t, f.env, f.env.Owner, ownerBefore+4500)

	jtx.RequireOwns(t, f.env, types.RegistryAccount, jtx.StandardItem(1, 2))
	jtx.RequireOwns(t, f.env, types.RegistryAccount, jtx.LegacyItem(5))
	jtx.RequireNotOwns(t, f.env, f.alice.ID, jtx.LegacyItem(5))
	// Wanted items are not escrowed.
	jtx.RequireNotOwns(t, f.env, types.RegistryAccount, jtx.StandardItem(9, 1))
}

func TestPropose_InsufficientFee(t *testing.T) {
	f := setup(t)
	offer := jtx.StandardItem(1, 2)
	AllowEscrow(t, f.env, f.alice, offer)

	jtx.RequireUnchanged(t, f.env, func() {
		r := f.env.Submit(Propose(f.alice).Offer(offer).Value(1999).Build(f.env))
		jtx.RequireTxFail(t, r, "tecINSUFF_FEE")
		assert.Equal(t, tx.KindInsufficientFee, r.Kind())
	})
}

func TestPropose_ExcessValueNotCollected(t *testing.T) {
	f := setup(t)
	offer := jtx.StandardItem(1, 2)
	AllowEscrow(t, f.env, f.alice, offer)

	jtx.RequireTxSuccess(t, f.env.Submit(Propose(f.alice).Offer(offer).Value(50_000).Build(f.env)))
	jtx.RequireBalance(t, f.env, f.alice, jtx.DefaultFunding-2000)
}

func TestPropose_PartialEscrowReverts(t *testing.T) {
	f := setup(t)
	// The standard item is approved, the legacy item is not offered.
	AllowEscrow(t, f.env, f.alice, jtx.StandardItem(1, 2))

	jtx.RequireUnchanged(t, f.env, func() {
		r := f.env.Submit(Propose(f.alice).
			Offer(jtx.StandardItem(1, 2), jtx.LegacyItem(5)).
			Build(f.env))
		jtx.RequireTxFail(t, r, "tecTRANSFER_REJECTED")
	})
	jtx.RequireOwns(t, f.env, f.alice.ID, jtx.StandardItem(1, 2))
	assert.Zero(t, LastProposeID(f.env))
}

func TestPropose_AllWantedIsFree(t *testing.T) {
	f := setup(t)
	r := f.env.Submit(Propose(f.alice).Want(jtx.StandardItem(9, 1)).Build(f.env))
	jtx.RequireTxSuccess(t, r)
	jtx.RequireBalance(t, f.env, f.alice, jtx.DefaultFunding)
	assert.Zero(t, GetPropose(f.env, LastProposeID(f.env)).Fee)
}

func TestPropose_Malformed(t *testing.T) {
	f := setup(t)
	jtx.RequireTxFail(t, f.env.Submit(Propose(f.alice).Build(f.env)), "temBAD_BUNDLE")

	bad := jtx.StandardItem(1, 1)
	bad.Protocol = "erc-9999"
	jtx.RequireTxFail(t, f.env.Submit(Propose(f.alice).Offer(bad).Value(10).Build(f.env)), "temBAD_BUNDLE")
}

func TestMatch(t *testing.T) {
	f := setup(t)
	pid := f.propose(t)
	mid := f.match(t, f.bob, pid)

	m := GetMatch(f.env, mid)
	require.NotNil(t, m)
	assert.Equal(t, pid, m.ProposeID)
	assert.Equal(t, f.bob.ID, m.Matcher)
	assert.Equal(t, entry.MatchOpen, m.Status)
	assert.Equal(t, uint64(1000), m.Fee)
	jtx.RequireOwns(t, f.env, types.RegistryAccount, jtx.StandardItem(9, 1))

	// Several matches may wait on one proposal.
	mid2 := f.match(t, f.carol, pid)
	assert.Equal(t, mid+1, mid2)
}

func TestMatch_ReceiverMismatch(t *testing.T) {
	f := setup(t)
	offer := jtx.StandardItem(1, 2)
	AllowEscrow(t, f.env, f.alice, offer)
	jtx.RequireTxSuccess(t, f.env.Submit(Propose(f.alice).To(f.bob).Offer(offer).Build(f.env)))
	pid := LastProposeID(f.env)

	AllowEscrow(t, f.env, f.carol, jtx.StandardItem(9, 1))
	jtx.RequireUnchanged(t, f.env, func() {
		r := f.env.Submit(Match(f.carol, pid).Offer(jtx.StandardItem(9, 1)).Build(f.env))
		jtx.RequireTxFail(t, r, "tecRECEIVER_MISMATCH")
	})

	f.match(t, f.bob, pid)
}

func TestMatch_Rejections(t *testing.T) {
	f := setup(t)
	pid := f.propose(t)

	jtx.RequireTxFail(t, f.env.Submit(Match(f.bob, 42).Offer(jtx.StandardItem(9, 1)).Build(f.env)), "tecNO_ENTRY")

	f.env.GiveItem(f.alice, jtx.StandardItem(9, 1))
	r := f.env.Submit(Match(f.alice, pid).Offer(jtx.StandardItem(9, 1)).Build(f.env))
	jtx.RequireTxFail(t, r, "tecNO_PERMISSION")

	wanted := Match(f.bob, pid).Offer(jtx.Wanted(jtx.StandardItem(9, 1))).Value(1000).Build(f.env)
	jtx.RequireTxFail(t, f.env.Submit(wanted), "temBAD_BUNDLE")

	AllowEscrow(t, f.env, f.bob, jtx.StandardItem(9, 1))
	r = f.env.Submit(Match(f.bob, pid).Offer(jtx.StandardItem(9, 1)).Value(999).Build(f.env))
	jtx.RequireTxFail(t, r, "tecINSUFF_FEE")
}

func TestAccept(t *testing.T) {
	f := setup(t)
	pooltest.Fill(t, f.env, 1000)
	pid := f.propose(t)
	mid := f.match(t, f.bob, pid)

	jtx.RequireTxSuccess(t, f.env.Submit(Accept(f.alice, pid, mid)))

	jtx.RequireOwns(t, f.env, f.bob.ID, jtx.StandardItem(1, 2))
	jtx.RequireOwns(t, f.env, f.bob.ID, jtx.LegacyItem(5))
	jtx.RequireOwns(t, f.env, f.alice.ID, jtx.StandardItem(9, 1))
	jtx.RequireNotOwns(t, f.env, types.RegistryAccount, jtx.StandardItem(1, 1))
	jtx.RequireNotOwns(t, f.env, types.RegistryAccount, jtx.StandardItem(9, 1))

	// Reserve 1000 at ratio 10 draws a unit of 10, split evenly.
	jtx.RequireTokenBalance(t, f.env, f.alice.ID, 5)
	jtx.RequireTokenBalance(t, f.env, f.bob.ID, 5)
	assert.Equal(t, uint64(990), pooltest.Info(f.env).Reserve)

	assert.Equal(t, mid, GetPropose(f.env, pid).AcceptedMatch)
	assert.Equal(t, entry.MatchAccepted, GetMatch(f.env, mid).Status)

	r := f.env.Submit(Accept(f.alice, pid, mid))
	jtx.RequireTxFail(t, r, "tecALREADY_ACCEPTED")
	assert.Equal(t, tx.KindAlreadyAccepted, r.Kind())

	AllowEscrow(t, f.env, f.carol, jtx.StandardItem(9, 1))
	r = f.env.Submit(Match(f.carol, pid).Offer(jtx.StandardItem(9, 1)).Build(f.env))
	jtx.RequireTxFail(t, r, "tecALREADY_ACCEPTED")
}

func TestAccept_FirstAcceptedWins(t *testing.T) {
	f := setup(t)
	pid := f.propose(t)
	bobMatch := f.match(t, f.bob, pid)
	carolMatch := f.match(t, f.carol, pid)

	jtx.RequireTxSuccess(t, f.env.Submit(Accept(f.alice, pid, carolMatch)))
	jtx.RequireTxFail(t, f.env.Submit(Accept(f.alice, pid, bobMatch)), "tecALREADY_ACCEPTED")

	// The losing match stays recorded and can be withdrawn.
	assert.Equal(t, entry.MatchOpen, GetMatch(f.env, bobMatch).Status)
	jtx.RequireTxSuccess(t, f.env.Submit(Withdraw(f.bob, pid, bobMatch)))
	jtx.RequireOwns(t, f.env, f.bob.ID, jtx.StandardItem(9, 1))
}

func TestAccept_OnlyProposer(t *testing.T) {
	f := setup(t)
	pid := f.propose(t)
	mid := f.match(t, f.bob, pid)

	jtx.RequireTxFail(t, f.env.Submit(Accept(f.bob, pid, mid)), "tecNO_PERMISSION")
	jtx.RequireTxFail(t, f.env.Submit(Accept(f.alice, pid, mid+7)), "tecNO_ENTRY")
}

func TestAccept_EmptyPoolPaysNoReward(t *testing.T) {
	f := setup(t)
	pid := f.propose(t)
	mid := f.match(t, f.bob, pid)

	jtx.RequireTxSuccess(t, f.env.Submit(Accept(f.alice, pid, mid)))
	jtx.RequireTokenBalance(t, f.env, f.alice.ID, 0)
	jtx.RequireTokenBalance(t, f.env, f.bob.ID, 0)
}

func TestAccept_DeepestPoolSettles(t *testing.T) {
	f := setup(t)
	w := pooltest.Info(f.env).WindowRatio
	limit := math.MaxUint64 / w
	pooltest.Fill(t, f.env, limit)

	// A deposit past the representable upper boundary is refused.
	f.env.GiveTokens(f.env.Owner, 1)
	jtx.RequireTxSuccess(t, pooltest.AllowPull(f.env, f.env.Owner, 1))
	jtx.RequireTxFail(t, f.env.Submit(pooltest.Deposit(f.env.Owner, 1)), "tecOVERFLOW")

	pid := f.propose(t)
	mid := f.match(t, f.bob, pid)
	jtx.RequireTxSuccess(t, f.env.Submit(Accept(f.alice, pid, mid)))

	share := w / 2
	jtx.RequireTokenBalance(t, f.env, f.alice.ID, share)
	jtx.RequireTokenBalance(t, f.env, f.bob.ID, share)
	assert.Equal(t, limit-2*share, pooltest.Info(f.env).Reserve)
}

func TestAccept_ReceiveHookRefusal(t *testing.T) {
	f := setup(t)
	pid := f.propose(t)
	mid := f.match(t, f.bob, pid)
	f.env.SetReceiveHook(f.bob, tx.RejectAll)

	jtx.RequireUnchanged(t, f.env, func() {
		jtx.RequireTxFail(t, f.env.Submit(Accept(f.alice, pid, mid)), "tecTRANSFER_REJECTED")
	})

	f.env.SetReceiveHook(f.bob, nil)
	jtx.RequireTxSuccess(t, f.env.Submit(Accept(f.alice, pid, mid)))
}

func TestWithdrawMatch(t *testing.T) {
	f := setup(t)
	pid := f.propose(t)
	mid := f.match(t, f.bob, pid)
	paid := jtx.DefaultFunding - f.env.Balance(f.bob)

	jtx.RequireTxFail(t, f.env.Submit(Withdraw(f.carol, pid, mid)), "tecNO_PERMISSION")
	jtx.RequireTxSuccess(t, f.env.Submit(Withdraw(f.bob, pid, mid)))

	jtx.RequireOwns(t, f.env, f.bob.ID, jtx.StandardItem(9, 1))
	assert.Equal(t, entry.MatchWithdrawn, GetMatch(f.env, mid).Status)
	// The match fee is kept.
	jtx.RequireBalance(t, f.env, f.bob, jtx.DefaultFunding-paid)

	jtx.RequireTxFail(t, f.env.Submit(Accept(f.alice, pid, mid)), "tecNO_ENTRY")
	jtx.RequireTxFail(t, f.env.Submit(Withdraw(f.bob, pid, mid)), "tecNO_ENTRY")
}
