package rpc_handlers

import (
	"encoding/hex"
	"encoding/json"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/LeJamon/pixpressd/internal/crypto"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
)

// SubmitMethod handles the submit RPC method. tx_json is applied as is
// unless seed_hex is given, in which case the server fills Sequence when
// it is zero and signs with the seed's key.
type SubmitMethod struct{}

func (m *SubmitMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		TxJson  json.RawMessage `json:"tx_json,omitempty"`
		SeedHex string          `json:"seed_hex,omitempty"`
	}
	if rpcErr := rpc_types.ParseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if len(request.TxJson) == 0 {
		return nil, rpc_types.RpcErrorMissingField("tx_json")
	}

	services := ctx.Services
	if services == nil || services.Engine == nil {
		return nil, rpc_types.RpcErrorInternal("Ledger service not available")
	}

	transaction, err := tx.FromJSON(request.TxJson)
	if err != nil {
		return nil, rpc_types.RpcErrorInvalidTransaction(err.Error())
	}

	if request.SeedHex != "" {
		if rpcErr := signWithSeed(services, transaction, request.SeedHex); rpcErr != nil {
			return nil, rpcErr
		}
	}

	result := services.Engine.Apply(transaction)

	response := map[string]interface{}{
		"engine_result":         result.Result.String(),
		"engine_result_code":    int(result.Result),
		"engine_result_message": result.Message,
		"applied":               result.Applied,
		"hash":                  result.Hash,
		"tx_json":               transaction,
	}
	if result.Metadata != nil {
		response["meta"] = result.Metadata
	}
	return response, nil
}

func signWithSeed(services *rpc_types.ServiceContainer, transaction tx.Transaction, seedHex string) *rpc_types.RpcError {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return rpc_types.RpcErrorBadSeed("Seed is not valid hex.")
	}
	key, err := crypto.NewKeyPairFromSeed(seed)
	if err != nil {
		return rpc_types.RpcErrorBadSeed(err.Error())
	}

	common := transaction.GetCommon()
	if common.Account != types.AccountID(key.AccountID()) {
		return rpc_types.RpcErrorBadSeed("Seed does not control Account.")
	}
	if common.Sequence == 0 {
		rpcErr := services.Read(func(v tx.LedgerView) error {
			acct, err := sle.ReadAccount(v, common.Account)
			if err != nil {
				return err
			}
			if acct == nil {
				return rpc_types.RpcErrorActNotFound("Account not found.")
			}
			common.Sequence = acct.Sequence
			return nil
		})
		if rpcErr != nil {
			return rpcErr
		}
	}
	if err := tx.Sign(transaction, key); err != nil {
		return rpc_types.RpcErrorInternal("Failed to sign transaction: " + err.Error())
	}
	return nil
}
