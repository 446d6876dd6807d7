package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/core/tx/pool"
	"github.com/LeJamon/pixpressd/internal/core/tx/sle"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
)

// AccountInfoMethod handles the account_info RPC method: the native
// account root plus the reward token balance.
type AccountInfoMethod struct{}

func (m *AccountInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		rpc_types.AccountParam
	}
	if rpcErr := rpc_types.ParseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	account, rpcErr := request.ParseAccount()
	if rpcErr != nil {
		return nil, rpcErr
	}

	response := make(map[string]interface{})
	rpcErr = ctx.Services.Read(func(v tx.LedgerView) error {
		acct, err := sle.ReadAccount(v, account)
		if err != nil {
			return err
		}
		if acct == nil {
			return rpc_types.RpcErrorActNotFound("Account not found.")
		}
		response["account_data"] = map[string]interface{}{
			"Account":         account.String(),
			"Balance":         acct.Balance,
			"Sequence":        acct.Sequence,
			"LedgerEntryType": "AccountRoot",
		}

		ps, err := pool.Load(v)
		if errors.Is(err, pool.ErrNotInitialized) {
			return nil
		}
		if err != nil {
			return err
		}
		balance, err := assets.TokenBalance(v, ps.Token, account)
		if err != nil {
			return err
		}
		response["token_balance"] = balance
		return nil
	})
	if rpcErr != nil {
		return nil, rpcErr
	}
	return response, nil
}
