package rpc

import (
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_handlers"
)

// registerAllMethods registers all RPC methods
// This function is called by NewServer to set up the complete method registry
func (s *Server) registerAllMethods() {
	// Server Information Methods
	s.registry.Register("server_info", &rpc_handlers.ServerInfoMethod{})

	// Account Methods
	s.registry.Register("account_info", &rpc_handlers.AccountInfoMethod{})
	s.registry.Register("account_tx", &rpc_handlers.AccountTxMethod{})

	// Transaction Methods
	s.registry.Register("submit", &rpc_handlers.SubmitMethod{})
	s.registry.Register("tx", &rpc_handlers.TxMethod{})

	// Pool and Swap Methods
	s.registry.Register("pool_info", &rpc_handlers.PoolInfoMethod{})
	s.registry.Register("propose_order", &rpc_handlers.ProposeOrderMethod{})
	s.registry.Register("match_order", &rpc_handlers.MatchOrderMethod{})
	s.registry.Register("fee_quote", &rpc_handlers.FeeQuoteMethod{})

	// Stake Market Methods
	s.registry.Register("staked_order", &rpc_handlers.StakedOrderMethod{})
	s.registry.Register("active_orders", &rpc_handlers.ActiveOrdersMethod{})
}
