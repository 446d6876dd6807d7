package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/pool"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
)

// PoolInfoMethod handles the pool_info RPC method. Derived values that
// are undefined for the current reserve are omitted.
type PoolInfoMethod struct{}

func (m *PoolInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var info *pool.Info
	rpcErr := ctx.Services.Read(func(v tx.LedgerView) error {
		var err error
		info, err = pool.GetInfo(v)
		return stateError(err)
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	return map[string]interface{}{
		"pool": info,
	}, nil
}
