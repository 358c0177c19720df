package errors

// ErrorCode identifies an application error category in responses and logs.
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004

	// Call lifecycle
	ErrorCode_CALL_NOT_FOUND      ErrorCode = 2000
	ErrorCode_CALL_ALREADY_EXISTS ErrorCode = 2001
	ErrorCode_CALL_INVALID_EVENT  ErrorCode = 2002

	// Integrations
	ErrorCode_GATEWAY_FAILED          ErrorCode = 3000
	ErrorCode_MESSAGE_DISPATCH_FAILED ErrorCode = 3001

	// Persistence
	ErrorCode_DB_CONNECTION_FAILED ErrorCode = 4000
	ErrorCode_DB_QUERY_FAILED      ErrorCode = 4001
	ErrorCode_PERSISTENCE_FAILED   ErrorCode = 4002
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                 "OK",
	ErrorCode_INTERNAL:                "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:        "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:               "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:          "ALREADY_EXISTS",
	ErrorCode_INVALID_PAYLOAD:         "INVALID_PAYLOAD",
	ErrorCode_CALL_NOT_FOUND:          "CALL_NOT_FOUND",
	ErrorCode_CALL_ALREADY_EXISTS:     "CALL_ALREADY_EXISTS",
	ErrorCode_CALL_INVALID_EVENT:      "CALL_INVALID_EVENT",
	ErrorCode_GATEWAY_FAILED:          "GATEWAY_FAILED",
	ErrorCode_MESSAGE_DISPATCH_FAILED: "MESSAGE_DISPATCH_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:    "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:         "DB_QUERY_FAILED",
	ErrorCode_PERSISTENCE_FAILED:      "PERSISTENCE_FAILED",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
