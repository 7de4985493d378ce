package errors

// ErrorCode identifies an application error category on the wire.
type ErrorCode string

const (
	ErrorCode_INTERNAL         ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_NOT_FOUND        ErrorCode = "NOT_FOUND"
	ErrorCode_ALREADY_EXISTS   ErrorCode = "ALREADY_EXISTS"
	ErrorCode_INVALID_PAYLOAD  ErrorCode = "INVALID_PAYLOAD"

	ErrorCode_CONFIGURATION ErrorCode = "CONFIGURATION"

	ErrorCode_AI_SERVICE_UNAVAILABLE ErrorCode = "AI_SERVICE_UNAVAILABLE"
	ErrorCode_AI_UNAUTHENTICATED     ErrorCode = "AI_UNAUTHENTICATED"
	ErrorCode_AI_QUOTA_EXCEEDED      ErrorCode = "AI_QUOTA_EXCEEDED"
	ErrorCode_AI_TIMEOUT             ErrorCode = "AI_TIMEOUT"
	ErrorCode_AI_MALFORMED_RESPONSE  ErrorCode = "AI_MALFORMED_RESPONSE"

	ErrorCode_DB_CONNECTION_FAILED  ErrorCode = "DB_CONNECTION_FAILED"
	ErrorCode_DB_QUERY_FAILED       ErrorCode = "DB_QUERY_FAILED"
	ErrorCode_DB_TRANSACTION_FAILED ErrorCode = "DB_TRANSACTION_FAILED"

	ErrorCode_INTEGRATION_CACHE_FAILED ErrorCode = "INTEGRATION_CACHE_FAILED"
	ErrorCode_INTEGRATION_MAIL_FAILED  ErrorCode = "INTEGRATION_MAIL_FAILED"

	ErrorCode_UPLOAD_UNSUPPORTED_TYPE ErrorCode = "UPLOAD_UNSUPPORTED_TYPE"
	ErrorCode_UPLOAD_TOO_LARGE        ErrorCode = "UPLOAD_TOO_LARGE"

	ErrorCode_HTTP_OK ErrorCode = "OK"
)

// String implements fmt.Stringer
func (c ErrorCode) String() string {
	return string(c)
}
