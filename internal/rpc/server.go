package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// maxRequestBody bounds the size of one request.
const maxRequestBody = 1 << 20

// Server handles HTTP JSON-RPC requests
type Server struct {
	registry *rpc_types.MethodRegistry
	services *rpc_types.ServiceContainer
	timeout  time.Duration
	log      logrus.FieldLogger
	metrics  *prometheus.Registry
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithMetrics serves reg on GET /metrics.
func WithMetrics(reg *prometheus.Registry) ServerOption {
	return func(s *Server) { s.metrics = reg }
}

// WithLogger sets the request logger.
func WithLogger(log logrus.FieldLogger) ServerOption {
	return func(s *Server) { s.log = log }
}

// NewServer creates a new RPC server with the given timeout
func NewServer(services *rpc_types.ServiceContainer, timeout time.Duration, opts ...ServerOption) *Server {
	server := &Server{
		registry: rpc_types.NewMethodRegistry(),
		services: services,
		timeout:  timeout,
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		server.log = l
	}

	// Register all RPC methods
	server.registerAllMethods()

	return server
}

// Methods lists the registered method names.
func (s *Server) Methods() []string {
	return s.registry.List()
}

// Request represents a JSON-RPC request
// Format: {"method": "method_name", "params": [{...}]}
type Request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// Handler returns the HTTP handler serving RPC on / and, when a metrics
// registry is configured, prometheus metrics on /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s)
	if s.metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"pixpressd"}`))
	})
	return mux
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	// Handle preflight requests
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	// GET serves simple queries, defaulting to server_info
	if r.Method == http.MethodGet {
		method := r.URL.Query().Get("command")
		if method == "" {
			method = "server_info"
		}
		s.dispatch(w, r, requestID, method, nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, nil, "internal", "Failed to read request body")
		return
	}
	defer r.Body.Close()

	var request Request
	if err := json.Unmarshal(body, &request); err != nil {
		s.writeError(w, nil, "jsonInvalid", "Invalid JSON: "+err.Error())
		return
	}
	if request.Method == "" {
		s.writeError(w, nil, "missingCommand", "Missing method field")
		return
	}

	// params is an array with one object
	var params json.RawMessage
	if len(request.Params) > 0 {
		params = request.Params[0]
	}
	s.dispatch(w, r, requestID, request.Method, params)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, requestID, method string, params json.RawMessage) {
	start := time.Now()

	reqCtx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(reqCtx, s.timeout)
		defer cancel()
	}

	ctx := &rpc_types.RpcContext{
		Context:   reqCtx,
		ClientIP:  getClientIP(r),
		RequestID: requestID,
		Services:  s.services,
	}

	result, rpcErr := s.Execute(ctx, method, params)

	entry := s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"client":     ctx.ClientIP,
		"duration":   time.Since(start),
	})
	if rpcErr != nil {
		entry.WithField("error", rpcErr.ErrorString).Debug("rpc request failed")
	} else {
		entry.Debug("rpc request")
	}

	s.writeResponse(w, requestObject(method, params), result, rpcErr)
}

// Execute runs method with params.
func (s *Server) Execute(ctx *rpc_types.RpcContext, method string, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	handler, exists := s.registry.Get(method)
	if !exists {
		return nil, rpc_types.RpcErrorMethodNotFound(method)
	}
	if ctx.Services == nil {
		ctx.Services = s.services
	}
	return handler.Handle(ctx, params)
}

// requestObject echoes the request back in error responses.
func requestObject(method string, params json.RawMessage) interface{} {
	reqMap := map[string]interface{}{}
	if params != nil {
		if err := json.Unmarshal(params, &reqMap); err != nil {
			reqMap = map[string]interface{}{}
		}
	}
	reqMap["command"] = method
	return reqMap
}

// writeResponse writes a JSON-RPC response:
// result.status is "success" or "error"
func (s *Server) writeResponse(w http.ResponseWriter, request interface{}, result interface{}, rpcErr *rpc_types.RpcError) {
	response := make(map[string]interface{})

	if rpcErr != nil {
		resultObj := map[string]interface{}{
			"status":        "error",
			"error":         rpcErr.ErrorString,
			"error_code":    rpcErr.Code,
			"error_message": rpcErr.Message,
		}
		if request != nil {
			resultObj["request"] = request
		}
		response["result"] = resultObj
	} else if resultMap, ok := result.(map[string]interface{}); ok {
		resultMap["status"] = "success"
		response["result"] = resultMap
	} else {
		response["result"] = map[string]interface{}{
			"status": "success",
			"data":   result,
		}
	}

	s.writeJSON(w, response)
}

// writeError writes an error response for requests that never reached a method
func (s *Server) writeError(w http.ResponseWriter, request interface{}, errorCode string, message string) {
	resultObj := map[string]interface{}{
		"status":        "error",
		"error":         errorCode,
		"error_message": message,
	}
	if request != nil {
		resultObj["request"] = request
	}
	s.writeJSON(w, map[string]interface{}{"result": resultObj})
}

func (s *Server) writeJSON(w http.ResponseWriter, response interface{}) {
	responseData, err := json.Marshal(response)
	if err != nil {
		s.log.WithError(err).Error("failed to marshal response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(responseData)
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}
