package tx

import "github.com/LeJamon/pixpressd/internal/core/types"

// ReceiveHook is consulted after a standard-convention item is moved to
// the account it is registered for. Returning false rejects the transfer.
// Hooks see only the transfer itself, never the ledger.
type ReceiveHook interface {
	OnReceive(operator, from types.AccountID, item types.Item) bool
}

// ReceiveHookFunc adapts a function to ReceiveHook.
type ReceiveHookFunc func(operator, from types.AccountID, item types.Item) bool

func (f ReceiveHookFunc) OnReceive(operator, from types.AccountID, item types.Item) bool {
	return f(operator, from, item)
}

// HookLookup finds the receive hook registered for an account.
type HookLookup interface {
	ReceiveHook(account types.AccountID) ReceiveHook
}

// RejectAll is a hook that refuses every item.
var RejectAll = ReceiveHookFunc(func(types.AccountID, types.AccountID, types.Item) bool { return false })
