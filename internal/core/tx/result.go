package tx

import "fmt"

// Result represents a transaction result code
type Result int

// Transaction result codes, organized by category: tes, tec, tef, tem, ter.
// Unlike fee-charging ledgers, only tesSUCCESS changes state here.
const (
	// tesSUCCESS (0)
	TesSUCCESS Result = 0

	// tec codes (100-199): the transaction was well formed but could not
	// be carried out against the current state
	TecUNFUNDED             Result = 129
	TecINSUFF_FEE           Result = 136
	TecNO_PERMISSION        Result = 139
	TecNO_ENTRY             Result = 140
	TecINSUFFICIENT_RESERVE Result = 141
	TecINSUFFICIENT_PAYMENT Result = 161
	TecEMPTY_POOL           Result = 180
	TecTRANSFER_REJECTED    Result = 181
	TecALREADY_ACCEPTED     Result = 182
	TecRECEIVER_MISMATCH    Result = 183
	TecMARKET_PAUSED        Result = 184
	TecOVERFLOW             Result = 185

	// tef codes (-199 to -100): failure, not applied
	TefFAILURE       Result = -199
	TefINTERNAL      Result = -192
	TefPAST_SEQ      Result = -190
	TefBAD_SIGNATURE Result = -186

	// tem codes (-299 to -200): malformed transaction
	TemMALFORMED          Result = -299
	TemBAD_AMOUNT         Result = -298
	TemBAD_SEQUENCE       Result = -283
	TemBAD_SIGNATURE      Result = -282
	TemBAD_SRC_ACCOUNT    Result = -281
	TemDST_IS_SRC         Result = -279
	TemDST_NEEDED         Result = -278
	TemINVALID            Result = -277
	TemREDUNDANT          Result = -275
	TemINVALID_ACCOUNT_ID Result = -268
	TemUNKNOWN            Result = -264
	TemBAD_BUNDLE         Result = -240

	// ter codes (-99 to -1): retry later
	TerNO_ACCOUNT Result = -96
	TerPRE_SEQ    Result = -92
)

var resultNames = map[Result]string{
	TesSUCCESS:              "tesSUCCESS",
	TecUNFUNDED:             "tecUNFUNDED",
	TecINSUFF_FEE:           "tecINSUFF_FEE",
	TecNO_PERMISSION:        "tecNO_PERMISSION",
	TecNO_ENTRY:             "tecNO_ENTRY",
	TecINSUFFICIENT_RESERVE: "tecINSUFFICIENT_RESERVE",
	TecINSUFFICIENT_PAYMENT: "tecINSUFFICIENT_PAYMENT",
	TecEMPTY_POOL:           "tecEMPTY_POOL",
	TecTRANSFER_REJECTED:    "tecTRANSFER_REJECTED",
	TecALREADY_ACCEPTED:     "tecALREADY_ACCEPTED",
	TecRECEIVER_MISMATCH:    "tecRECEIVER_MISMATCH",
	TecMARKET_PAUSED:        "tecMARKET_PAUSED",
	TecOVERFLOW:             "tecOVERFLOW",
	TefFAILURE:              "tefFAILURE",
	TefINTERNAL:             "tefINTERNAL",
	TefPAST_SEQ:             "tefPAST_SEQ",
	TefBAD_SIGNATURE:        "tefBAD_SIGNATURE",
	TemMALFORMED:            "temMALFORMED",
	TemBAD_AMOUNT:           "temBAD_AMOUNT",
	TemBAD_SEQUENCE:         "temBAD_SEQUENCE",
	TemBAD_SIGNATURE:        "temBAD_SIGNATURE",
	TemBAD_SRC_ACCOUNT:      "temBAD_SRC_ACCOUNT",
	TemDST_IS_SRC:           "temDST_IS_SRC",
	TemDST_NEEDED:           "temDST_NEEDED",
	TemINVALID:              "temINVALID",
	TemREDUNDANT:            "temREDUNDANT",
	TemINVALID_ACCOUNT_ID:   "temINVALID_ACCOUNT_ID",
	TemUNKNOWN:              "temUNKNOWN",
	TemBAD_BUNDLE:           "temBAD_BUNDLE",
	TerNO_ACCOUNT:           "terNO_ACCOUNT",
	TerPRE_SEQ:              "terPRE_SEQ",
}

var resultsByName = func() map[string]Result {
	m := make(map[string]Result, len(resultNames))
	for r, name := range resultNames {
		m[name] = r
	}
	return m
}()

// String returns the string representation of the result code
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(r))
}

// ResultFromName returns the result code for a token such as "tecNO_ENTRY".
func ResultFromName(name string) (Result, bool) {
	r, ok := resultsByName[name]
	return r, ok
}

// MarshalText encodes the result as its token.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a result token.
func (r *Result) UnmarshalText(text []byte) error {
	v, ok := ResultFromName(string(text))
	if !ok {
		return fmt.Errorf("unknown result code %q", text)
	}
	*r = v
	return nil
}

// IsSuccess returns true if the result indicates success
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (failure) code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsTer returns true if this is a ter (retry) code
func (r Result) IsTer() bool {
	return r >= -99 && r <= -1
}

// ShouldRetry returns true if the transaction may succeed later
func (r Result) ShouldRetry() bool {
	return r.IsTer()
}

// Kind groups result codes into the engine's error taxonomy.
type Kind int

const (
	KindNone Kind = iota
	KindUnauthorized
	KindInsufficientFee
	KindInsufficientPayment
	KindInsufficientReserve
	KindEmptyPool
	KindTransferRejected
	KindAlreadyAccepted
	KindReceiverMismatch
	KindMarketPaused
	KindNotFound
	KindMalformed
	KindRejected
	KindInternal
)

var kindNames = [...]string{
	KindNone:                "None",
	KindUnauthorized:        "Unauthorized",
	KindInsufficientFee:     "InsufficientFee",
	KindInsufficientPayment: "InsufficientPayment",
	KindInsufficientReserve: "InsufficientReserve",
	KindEmptyPool:           "EmptyPool",
	KindTransferRejected:    "TransferRejected",
	KindAlreadyAccepted:     "AlreadyAccepted",
	KindReceiverMismatch:    "ReceiverMismatch",
	KindMarketPaused:        "MarketPaused",
	KindNotFound:            "NotFound",
	KindMalformed:           "Malformed",
	KindRejected:            "Rejected",
	KindInternal:            "Internal",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kind maps the result onto the error taxonomy.
func (r Result) Kind() Kind {
	switch r {
	case TesSUCCESS:
		return KindNone
	case TecNO_PERMISSION:
		return KindUnauthorized
	case TecINSUFF_FEE:
		return KindInsufficientFee
	case TecINSUFFICIENT_PAYMENT, TecUNFUNDED:
		return KindInsufficientPayment
	case TecINSUFFICIENT_RESERVE:
		return KindInsufficientReserve
	case TecEMPTY_POOL:
		return KindEmptyPool
	case TecTRANSFER_REJECTED:
		return KindTransferRejected
	case TecALREADY_ACCEPTED:
		return KindAlreadyAccepted
	case TecRECEIVER_MISMATCH:
		return KindReceiverMismatch
	case TecMARKET_PAUSED:
		return KindMarketPaused
	case TecNO_ENTRY:
		return KindNotFound
	case TefINTERNAL, TefFAILURE, TecOVERFLOW:
		return KindInternal
	}
	switch {
	case r.IsTem():
		return KindMalformed
	case r.IsTef(), r.IsTer():
		return KindRejected
	default:
		return KindInternal
	}
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	switch r {
	case TesSUCCESS:
		return "The transaction was applied."
	case TecUNFUNDED:
		return "Insufficient balance to cover the attached value."
	case TecINSUFF_FEE:
		return "Attached value does not cover the required fee."
	case TecNO_PERMISSION:
		return "The caller is not authorized for this operation."
	case TecNO_ENTRY:
		return "The referenced entry does not exist."
	case TecINSUFFICIENT_RESERVE:
		return "The pool reserve cannot cover the requested amount."
	case TecINSUFFICIENT_PAYMENT:
		return "Attached value does not cover the price."
	case TecEMPTY_POOL:
		return "The pool reserve is empty."
	case TecTRANSFER_REJECTED:
		return "An asset transfer leg was rejected."
	case TecALREADY_ACCEPTED:
		return "The proposal has already been accepted."
	case TecRECEIVER_MISMATCH:
		return "The proposal is reserved for a different receiver."
	case TecMARKET_PAUSED:
		return "The market is paused."
	case TecOVERFLOW:
		return "Arithmetic overflow."
	case TefPAST_SEQ:
		return "Sequence number has already passed."
	case TefBAD_SIGNATURE:
		return "Invalid signature."
	case TerPRE_SEQ:
		return "Missing/inapplicable prior transaction."
	case TerNO_ACCOUNT:
		return "The source account does not exist."
	case TemBAD_BUNDLE:
		return "The asset bundle is malformed."
	case TemINVALID:
		return "The transaction is ill-formed."
	default:
		return r.String()
	}
}
