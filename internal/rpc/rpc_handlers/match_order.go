package rpc_handlers

import (
	"encoding/json"
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/swap"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
)

// MatchOrderMethod handles the match_order RPC method.
type MatchOrderMethod struct{}

func (m *MatchOrderMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		ID uint64 `json:"id"`
	}
	if rpcErr := rpc_types.ParseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if rpcErr := requireID("id", request.ID); rpcErr != nil {
		return nil, rpcErr
	}

	var order *entry.MatchOrder
	rpcErr := ctx.Services.Read(func(v tx.LedgerView) error {
		var err error
		if order, err = swap.GetMatch(v, request.ID); err != nil {
			return err
		}
		if order == nil {
			return rpc_types.RpcErrorObjectNotFound(fmt.Sprintf("Match order %d not found.", request.ID))
		}
		return nil
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	return map[string]interface{}{
		"match_order": order,
	}, nil
}
