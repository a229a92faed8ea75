package errors

// ErrorCode is a stable machine-readable error identifier returned to clients.
type ErrorCode string

const (
	ErrorCode_INTERNAL         ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_NOT_FOUND        ErrorCode = "NOT_FOUND"
	ErrorCode_ALREADY_EXISTS   ErrorCode = "ALREADY_EXISTS"
	ErrorCode_UNAUTHENTICATED  ErrorCode = "UNAUTHENTICATED"
	ErrorCode_FORBIDDEN        ErrorCode = "FORBIDDEN"
	ErrorCode_INVALID_PAYLOAD  ErrorCode = "INVALID_PAYLOAD"

	ErrorCode_AUTH_INVALID_TOKEN       ErrorCode = "AUTH_INVALID_TOKEN"
	ErrorCode_AUTH_TOKEN_EXPIRED       ErrorCode = "AUTH_TOKEN_EXPIRED"
	ErrorCode_AUTH_INVALID_CREDENTIALS ErrorCode = "AUTH_INVALID_CREDENTIALS"

	ErrorCode_SESSION_NOT_FOUND     ErrorCode = "SESSION_NOT_FOUND"
	ErrorCode_SESSION_INVALID_STATE ErrorCode = "SESSION_INVALID_STATE"
	ErrorCode_SESSION_START_FAILED  ErrorCode = "SESSION_START_FAILED"
	ErrorCode_SESSION_NOT_LIVE      ErrorCode = "SESSION_NOT_LIVE"

	ErrorCode_AVATAR_API_FAILED ErrorCode = "AVATAR_API_FAILED"
	ErrorCode_MEDIA_ROOM_FAILED ErrorCode = "MEDIA_ROOM_FAILED"

	ErrorCode_ALREADY_RECORDING    ErrorCode = "ALREADY_RECORDING"
	ErrorCode_TRANSCRIPTION_FAILED ErrorCode = "TRANSCRIPTION_FAILED"

	ErrorCode_DIALOGUE_BUSY ErrorCode = "DIALOGUE_BUSY"
	ErrorCode_LLM_FAILED    ErrorCode = "LLM_FAILED"

	ErrorCode_KNOWLEDGE_NOT_FOUND       ErrorCode = "KNOWLEDGE_NOT_FOUND"
	ErrorCode_KNOWLEDGE_INVALID_CONTENT ErrorCode = "KNOWLEDGE_INVALID_CONTENT"

	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = "INTEGRATION_STORAGE_FAILED"
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = "INTEGRATION_CACHE_FAILED"
	ErrorCode_DB_QUERY_FAILED            ErrorCode = "DB_QUERY_FAILED"
)

func (c ErrorCode) String() string {
	return string(c)
}
