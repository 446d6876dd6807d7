package rpc_types

// RpcError represents an RPC error with code and message
type RpcError struct {
	Code        int    `json:"error_code"`
	ErrorString string `json:"error"`
	Type        string `json:"type"`
	Message     string `json:"error_message,omitempty"`
}

func (e RpcError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorString
}

// Error codes
const (
	// Universal errors
	RpcUNKNOWN          = -1
	RpcMETHOD_NOT_FOUND = -32601
	RpcINVALID_PARAMS   = -32602
	RpcINTERNAL         = -32603
	RpcPARSE_ERROR      = -32700

	// General purpose errors
	RpcMISSING_COMMAND = 2
	RpcNOT_ENABLED     = 31

	// Account errors
	RpcACT_NOT_FOUND = 19
	RpcACT_MALFORMED = 50

	// Transaction errors
	RpcTXN_NOT_FOUND = 24
	RpcINVALID_TX    = 58

	// State errors
	RpcOBJECT_NOT_FOUND = 92
	RpcNOT_READY        = 93
	RpcBAD_SEED         = 94
)

func NewRpcError(code int, error, errorType, message string) *RpcError {
	return &RpcError{
		Code:        code,
		ErrorString: error,
		Type:        errorType,
		Message:     message,
	}
}

// Common error constructors
func RpcErrorUnknown(message string) *RpcError {
	return NewRpcError(RpcUNKNOWN, "unknown", "unknown", message)
}

func RpcErrorInvalidParams(message string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", "invalidParams", message)
}

func RpcErrorMethodNotFound(method string) *RpcError {
	return NewRpcError(RpcMETHOD_NOT_FOUND, "unknownCmd", "unknownCmd", "Unknown method: "+method)
}

func RpcErrorActNotFound(message string) *RpcError {
	return NewRpcError(RpcACT_NOT_FOUND, "actNotFound", "actNotFound", message)
}

func RpcErrorActMalformed(message string) *RpcError {
	return NewRpcError(RpcACT_MALFORMED, "actMalformed", "actMalformed", message)
}

func RpcErrorTxnNotFound(message string) *RpcError {
	return NewRpcError(RpcTXN_NOT_FOUND, "txnNotFound", "txnNotFound", message)
}

func RpcErrorInvalidTransaction(message string) *RpcError {
	return NewRpcError(RpcINVALID_TX, "invalidTransaction", "invalidTransaction", message)
}

func RpcErrorBadSeed(message string) *RpcError {
	return NewRpcError(RpcBAD_SEED, "badSeed", "badSeed", message)
}

func RpcErrorInternal(message string) *RpcError {
	return NewRpcError(RpcINTERNAL, "internal", "internal", message)
}

func RpcErrorNotEnabled(feature string) *RpcError {
	return NewRpcError(RpcNOT_ENABLED, "notEnabled", "notEnabled", "Feature not enabled: "+feature)
}

// RpcErrorNotReady is returned when a module the method reads was never
// initialized at genesis.
func RpcErrorNotReady(message string) *RpcError {
	return NewRpcError(RpcNOT_READY, "notReady", "notReady", message)
}

// RpcErrorObjectNotFound returns an error for a missing ledger object
func RpcErrorObjectNotFound(message string) *RpcError {
	return NewRpcError(RpcOBJECT_NOT_FOUND, "entryNotFound", "entryNotFound", message)
}

// RpcErrorMissingField returns an error for missing required field
func RpcErrorMissingField(field string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", "invalidParams", "Missing field '"+field+"'.")
}

// RpcErrorInvalidField returns an error for invalid field value
func RpcErrorInvalidField(field string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", "invalidParams", "Invalid field '"+field+"'.")
}
