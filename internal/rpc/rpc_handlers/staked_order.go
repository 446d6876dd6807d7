package rpc_handlers

import (
	"encoding/json"
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/stake"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
)

// StakedOrderMethod handles the staked_order RPC method.
type StakedOrderMethod struct{}

func (m *StakedOrderMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		ItemID *uint64 `json:"item_id"`
	}
	if rpcErr := rpc_types.ParseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.ItemID == nil {
		return nil, rpc_types.RpcErrorMissingField("item_id")
	}
	itemID := *request.ItemID

	var order *entry.StakedOrder
	rpcErr := ctx.Services.Read(func(v tx.LedgerView) error {
		var err error
		if order, err = stake.GetOrder(v, itemID); err != nil {
			return stateError(err)
		}
		if order == nil {
			return rpc_types.RpcErrorObjectNotFound(fmt.Sprintf("No active order for item %d.", itemID))
		}
		return nil
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	return map[string]interface{}{
		"staked_order": order,
	}, nil
}
