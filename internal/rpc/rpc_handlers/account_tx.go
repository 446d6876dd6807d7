package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
	"github.com/LeJamon/pixpressd/internal/storage/relationaldb"
)

// AccountTxMethod handles the account_tx RPC method. It needs a history
// database.
type AccountTxMethod struct{}

func (m *AccountTxMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		rpc_types.AccountParam
		rpc_types.PaginationParams
		AppliedOnly bool `json:"applied_only,omitempty"`
	}
	if rpcErr := rpc_types.ParseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	account, rpcErr := request.ParseAccount()
	if rpcErr != nil {
		return nil, rpcErr
	}

	if ctx.Services == nil || ctx.Services.History == nil {
		return nil, rpc_types.RpcErrorNotEnabled("history")
	}

	records, err := ctx.Services.History.GetAccountTransactions(ctx.Context, relationaldb.AccountTxOptions{
		Account:     account.String(),
		Offset:      request.Offset,
		Limit:       request.Limit,
		AppliedOnly: request.AppliedOnly,
	})
	if err != nil {
		return nil, rpc_types.RpcErrorInternal("Failed to query history: " + err.Error())
	}

	transactions := make([]interface{}, 0, len(records))
	for _, rec := range records {
		transactions = append(transactions, recordJSON(rec))
	}
	return map[string]interface{}{
		"account":      account.String(),
		"transactions": transactions,
		"offset":       request.Offset,
	}, nil
}

func recordJSON(rec *relationaldb.TransactionRecord) map[string]interface{} {
	out := map[string]interface{}{
		"hash":          rec.Hash,
		"seq":           rec.Seq,
		"account":       rec.Account,
		"tx_type":       rec.TxType,
		"sequence":      rec.Sequence,
		"engine_result": rec.Result,
		"applied":       rec.Applied,
		"tx_json":       json.RawMessage(rec.RawTxn),
		"date":          rec.CreatedAt.UTC(),
	}
	if len(rec.TxnMeta) > 0 {
		out["meta"] = json.RawMessage(rec.TxnMeta)
	}
	return out
}
