package rpc_handlers

import (
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/tx/pool"
	"github.com/LeJamon/pixpressd/internal/core/tx/stake"
	"github.com/LeJamon/pixpressd/internal/core/tx/swap"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
)

// stateError converts a ledger read failure to an RPC error.
func stateError(err error) error {
	switch {
	case errors.Is(err, pool.ErrNotInitialized),
		errors.Is(err, swap.ErrNotInitialized),
		errors.Is(err, stake.ErrNotInitialized):
		return rpc_types.RpcErrorNotReady(err.Error())
	default:
		return err
	}
}

// requireID rejects a missing (zero) numeric identifier.
func requireID(field string, id uint64) *rpc_types.RpcError {
	if id == 0 {
		return rpc_types.RpcErrorMissingField(field)
	}
	return nil
}
