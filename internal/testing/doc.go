// Package testing provides test infrastructure for transaction testing.
//
// # Overview
//
// The testing package provides:
//   - TestEnv: an in-memory genesis ledger driven by the real engine
//   - Account: deterministic test accounts with keypairs
//   - Item helpers for the two test collections
//   - Assertions for results, balances and ownership
//
// Per-domain transaction builders live in the pool, swap and stake
// subpackages.
//
// # Basic Usage
//
//	func TestPropose(t *testing.T) {
//	    env := testing.NewTestEnv(t)
//	    alice := testing.NewAccount("alice")
//	    env.Fund(alice)
//	    env.GiveItem(alice, testing.StandardItem(1, 1))
//
//	    swap.AllowEscrow(t, env, alice, testing.StandardItem(1, 1))
//	    result := env.Submit(swap.Propose(alice).
//	        Offer(testing.StandardItem(1, 1)).
//	        Build(env))
//	    testing.RequireTxSuccess(t, result)
//	}
//
// # TestEnv
//
// Submit fills in the sender's sequence and signs with the sender's key,
// so signature checking stays on. Seed, GiveItem and GiveTokens mutate
// state outside any transaction for fixtures that have no transaction
// surface, such as minted items.
package testing
