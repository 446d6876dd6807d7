package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/swap"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
)

// FeeQuoteMethod handles the fee_quote RPC method. The bundle uses the
// same parallel arrays as ProposeSwap.
type FeeQuoteMethod struct{}

func (m *FeeQuoteMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		swap.Bundle
	}
	if rpcErr := rpc_types.ParseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	items, err := request.Items()
	if err != nil {
		return nil, rpc_types.RpcErrorInvalidParams("Invalid bundle: " + err.Error())
	}

	var quote *swap.Quote
	rpcErr := ctx.Services.Read(func(v tx.LedgerView) error {
		var err error
		quote, err = swap.QuoteFee(v, items)
		return stateError(err)
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	return map[string]interface{}{
		"fee":        quote.Fee,
		"designated": quote.Designated,
		"dividend":   quote.Dividend,
	}, nil
}
