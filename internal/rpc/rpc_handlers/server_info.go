package rpc_handlers

import (
	"encoding/json"
	"time"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
)

// ServerInfoMethod handles the server_info RPC method
type ServerInfoMethod struct{}

func (m *ServerInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	services := ctx.Services
	if services == nil || services.Engine == nil {
		return nil, rpc_types.RpcErrorInternal("Ledger service not available")
	}

	registered := tx.RegisteredTypes()
	txTypes := make([]string, len(registered))
	for i, t := range registered {
		txTypes[i] = t.String()
	}

	info := map[string]interface{}{
		"build_version":     services.Version,
		"server_state":      "standalone",
		"time":              time.Now().UTC().Format(time.RFC3339),
		"uptime":            int64(time.Since(services.StartTime).Seconds()),
		"transaction_types": txTypes,
		"history":           services.History != nil,
	}
	if services.History != nil {
		count, err := services.History.GetTransactionCount(ctx.Context)
		if err != nil {
			return nil, rpc_types.RpcErrorInternal("Failed to count transactions: " + err.Error())
		}
		info["history_transactions"] = count
	}

	return map[string]interface{}{
		"info": info,
	}, nil
}
