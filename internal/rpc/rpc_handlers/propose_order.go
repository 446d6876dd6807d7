package rpc_handlers

import (
	"encoding/json"
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/swap"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
)

// ProposeOrderMethod handles the propose_order RPC method. The response
// lists every match recorded against the proposal.
type ProposeOrderMethod struct{}

func (m *ProposeOrderMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		ID uint64 `json:"id"`
	}
	if rpcErr := rpc_types.ParseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if rpcErr := requireID("id", request.ID); rpcErr != nil {
		return nil, rpcErr
	}

	var (
		order   *entry.ProposeOrder
		matches []*entry.MatchOrder
	)
	rpcErr := ctx.Services.Read(func(v tx.LedgerView) error {
		var err error
		if order, err = swap.GetPropose(v, request.ID); err != nil {
			return err
		}
		if order == nil {
			return rpc_types.RpcErrorObjectNotFound(fmt.Sprintf("Propose order %d not found.", request.ID))
		}
		matches, err = swap.MatchesFor(v, request.ID)
		return stateError(err)
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	if matches == nil {
		matches = []*entry.MatchOrder{}
	}
	return map[string]interface{}{
		"propose_order": order,
		"accepted":      order.Accepted(),
		"matches":       matches,
	}, nil
}
