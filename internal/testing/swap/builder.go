// Package swap provides builders and helpers for swap registry tests.
package swap

import (
	gotesting "testing"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	swaptx "github.com/LeJamon/pixpressd/internal/core/tx/swap"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/LeJamon/pixpressd/internal/testing"
)

// ProposeBuilder provides a fluent interface for building ProposeSwap transactions.
type ProposeBuilder struct {
	from     *testing.Account
	receiver types.AccountID
	note     string
	items    []types.Item
	value    *uint64
}

// Propose creates a new ProposeBuilder.
func Propose(from *testing.Account) *ProposeBuilder {
	return &ProposeBuilder{from: from}
}

// To restricts matching to receiver.
func (b *ProposeBuilder) To(receiver *testing.Account) *ProposeBuilder {
	b.receiver = receiver.ID
	return b
}

// Note sets the free text note.
func (b *ProposeBuilder) Note(note string) *ProposeBuilder {
	b.note = note
	return b
}

// Offer adds items the proposer escrows.
func (b *ProposeBuilder) Offer(items ...types.Item) *ProposeBuilder {
	b.items = append(b.items, items...)
	return b
}

// Want adds items the proposer asks for.
func (b *ProposeBuilder) Want(items ...types.Item) *ProposeBuilder {
	for _, it := range items {
		b.items = append(b.items, testing.Wanted(it))
	}
	return b
}

// Value overrides the attached value. By default the quoted fee is attached.
func (b *ProposeBuilder) Value(v uint64) *ProposeBuilder {
	b.value = &v
	return b
}

// Build constructs the ProposeSwap transaction.
func (b *ProposeBuilder) Build(env *testing.TestEnv) tx.Transaction {
	value := quoteOr(env, b.items, b.value)
	return swaptx.NewProposeSwap(b.from.ID, b.receiver, b.note, b.items, value)
}

// MatchBuilder provides a fluent interface for building MatchSwap transactions.
type MatchBuilder struct {
	from      *testing.Account
	proposeID uint64
	items     []types.Item
	value     *uint64
}

// Match creates a new MatchBuilder.
func Match(from *testing.Account, proposeID uint64) *MatchBuilder {
	return &MatchBuilder{from: from, proposeID: proposeID}
}

// Offer adds items the matcher escrows.
func (b *MatchBuilder) Offer(items ...types.Item) *MatchBuilder {
	b.items = append(b.items, items...)
	return b
}

// Value overrides the attached value.
func (b *MatchBuilder) Value(v uint64) *MatchBuilder {
	b.value = &v
	return b
}

// Build constructs the MatchSwap transaction.
func (b *MatchBuilder) Build(env *testing.TestEnv) tx.Transaction {
	value := quoteOr(env, b.items, b.value)
	return swaptx.NewMatchSwap(b.from.ID, b.proposeID, b.items, value)
}

// Accept builds an AcceptSwap.
func Accept(from *testing.Account, proposeID, matchID uint64) tx.Transaction {
	return swaptx.NewAcceptSwap(from.ID, proposeID, matchID)
}

// Withdraw builds a WithdrawMatch.
func Withdraw(from *testing.Account, proposeID, matchID uint64) tx.Transaction {
	return swaptx.NewWithdrawMatch(from.ID, proposeID, matchID)
}

func quoteOr(env *testing.TestEnv, items []types.Item, override *uint64) uint64 {
	if override != nil {
		return *override
	}
	return Quote(env, items).Fee
}

// Quote returns the fee quote for items, or a zero quote for a bundle the
// registry cannot price.
func Quote(env *testing.TestEnv, items []types.Item) swaptx.Quote {
	var q swaptx.Quote
	env.Read(func(v tx.LedgerView) error {
		got, err := swaptx.QuoteFee(v, items)
		if err == nil {
			q = *got
		}
		return nil
	})
	return q
}

// AllowEscrow lets the registry account pull items from acc: operator
// approval for standard collections, a single-item offer for legacy ones.
func AllowEscrow(t *gotesting.T, env *testing.TestEnv, acc *testing.Account, items ...types.Item) {
	t.Helper()
	approved := make(map[types.AccountID]bool)
	for _, it := range items {
		switch it.Protocol {
		case types.ProtocolStandard:
			if approved[it.Collection] {
				continue
			}
			approved[it.Collection] = true
			testing.RequireTxSuccess(t, env.Submit(
				assets.NewSetOperatorApproval(acc.ID, it.Collection, types.RegistryAccount, true)))
		case types.ProtocolLegacy:
			testing.RequireTxSuccess(t, env.Submit(
				assets.NewOfferLegacyItem(acc.ID, it.Collection, it.ItemID, types.RegistryAccount)))
		}
	}
}

// LastProposeID returns the id of the most recent proposal.
func LastProposeID(env *testing.TestEnv) uint64 {
	var id uint64
	env.Read(func(v tx.LedgerView) error {
		rs, err := swaptx.Load(v)
		if err == nil {
			id = rs.NextProposeID - 1
		}
		return err
	})
	return id
}

// LastMatchID returns the id of the most recent match.
func LastMatchID(env *testing.TestEnv) uint64 {
	var id uint64
	env.Read(func(v tx.LedgerView) error {
		rs, err := swaptx.Load(v)
		if err == nil {
			id = rs.NextMatchID - 1
		}
		return err
	})
	return id
}

// GetPropose reads a proposal.
func GetPropose(env *testing.TestEnv, id uint64) *entry.ProposeOrder {
	var p *entry.ProposeOrder
	env.Read(func(v tx.LedgerView) error {
		var err error
		p, err = swaptx.GetPropose(v, id)
		return err
	})
	return p
}

// GetMatch reads a match.
func GetMatch(env *testing.TestEnv, id uint64) *entry.MatchOrder {
	var m *entry.MatchOrder
	env.Read(func(v tx.LedgerView) error {
		var err error
		m, err = swaptx.GetMatch(v, id)
		return err
	})
	return m
}
