package rpc_types

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/LeJamon/pixpressd/internal/storage/relationaldb"
	"github.com/sirupsen/logrus"
)

// RPC Context contains request-specific information
type RpcContext struct {
	Context   context.Context
	ClientIP  string
	RequestID string
	Services  *ServiceContainer
}

// Method handler interface - all RPC methods implement this
type MethodHandler interface {
	Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError)
}

// Method registry for dynamic method registration
type MethodRegistry struct {
	methods map[string]MethodHandler
}

func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{
		methods: make(map[string]MethodHandler),
	}
}

func (r *MethodRegistry) Register(name string, handler MethodHandler) {
	r.methods[name] = handler
}

func (r *MethodRegistry) Get(name string) (MethodHandler, bool) {
	handler, exists := r.methods[name]
	return handler, exists
}

// List returns the registered method names, sorted.
func (r *MethodRegistry) List() []string {
	methods := make([]string, 0, len(r.methods))
	for name := range r.methods {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	return methods
}

// ServiceContainer holds references to all services needed by RPC handlers
type ServiceContainer struct {
	// Engine applies submitted transactions and serves ledger reads.
	Engine *tx.Engine

	// History is nil when no history database is configured.
	History relationaldb.TransactionRepository

	Logger    logrus.FieldLogger
	Version   string
	StartTime time.Time
}

// Read runs fn against the current ledger state.
func (s *ServiceContainer) Read(fn func(v tx.LedgerView) error) *RpcError {
	if s == nil || s.Engine == nil {
		return RpcErrorInternal("Ledger service not available")
	}
	if err := s.Engine.Read(fn); err != nil {
		if rpcErr, ok := err.(*RpcError); ok {
			return rpcErr
		}
		return RpcErrorInternal(err.Error())
	}
	return nil
}

// Account identifier
type AccountParam struct {
	Account string `json:"account"`
}

// ParseAccount parses the account field of a request.
func (p AccountParam) ParseAccount() (types.AccountID, *RpcError) {
	if p.Account == "" {
		return types.AccountID{}, RpcErrorMissingField("account")
	}
	id, err := types.ParseAccountID(p.Account)
	if err != nil {
		return types.AccountID{}, RpcErrorActMalformed("Account malformed.")
	}
	return id, nil
}

// Pagination parameters
type PaginationParams struct {
	Limit  uint32 `json:"limit,omitempty"`
	Offset uint32 `json:"offset,omitempty"`
}

// ParseParams decodes params into v. Absent params leave v untouched.
func ParseParams(params json.RawMessage, v interface{}) *RpcError {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return RpcErrorInvalidParams("Invalid parameters: " + err.Error())
	}
	return nil
}
