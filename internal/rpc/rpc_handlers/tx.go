package rpc_handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
	"github.com/LeJamon/pixpressd/internal/storage/relationaldb"
)

// TxMethod handles the tx RPC method: one recorded transaction by hash.
type TxMethod struct{}

func (m *TxMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Transaction string `json:"transaction"`
	}
	if rpcErr := rpc_types.ParseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Transaction == "" {
		return nil, rpc_types.RpcErrorMissingField("transaction")
	}
	if ctx.Services == nil || ctx.Services.History == nil {
		return nil, rpc_types.RpcErrorNotEnabled("history")
	}

	rec, err := ctx.Services.History.GetTransaction(ctx.Context, strings.ToUpper(request.Transaction))
	if errors.Is(err, relationaldb.ErrTransactionNotFound) {
		return nil, rpc_types.RpcErrorTxnNotFound("Transaction not found.")
	}
	if err != nil {
		return nil, rpc_types.RpcErrorInternal("Failed to query history: " + err.Error())
	}
	return recordJSON(rec), nil
}
