package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/stake"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
)

// ActiveOrdersMethod handles the active_orders RPC method: every staked
// order in directory order, paginated with limit and offset.
type ActiveOrdersMethod struct{}

func (m *ActiveOrdersMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		rpc_types.PaginationParams
	}
	if rpcErr := rpc_types.ParseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}

	var (
		orders []*entry.StakedOrder
		ms     *entry.MarketState
	)
	rpcErr := ctx.Services.Read(func(v tx.LedgerView) error {
		var err error
		if ms, err = stake.Load(v); err != nil {
			return stateError(err)
		}
		orders, err = stake.ActiveOrders(v)
		return err
	})
	if rpcErr != nil {
		return nil, rpcErr
	}

	total := len(orders)
	start := int(request.Offset)
	if start > total {
		start = total
	}
	end := total
	if request.Limit > 0 && start+int(request.Limit) < end {
		end = start + int(request.Limit)
	}

	return map[string]interface{}{
		"collection": ms.Collection.String(),
		"paused":     ms.Paused,
		"count":      total,
		"orders":     orders[start:end],
	}, nil
}
