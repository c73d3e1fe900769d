package dto

import "net/http"

// Error code constants
// Format: ERR_<CATEGORY>

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is used for malformed or invalid request input
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Platform integration error codes
const (
	// ErrCodeAuthCodeInvalid is used when the platform rejects an OAuth code
	ErrCodeAuthCodeInvalid = "ERR_AUTH_CODE_INVALID"
	// ErrCodePlatformUnreachable is used when the platform API cannot be reached
	ErrCodePlatformUnreachable = "ERR_PLATFORM_UNREACHABLE"
	// ErrCodeUnsupportedPayload is used when a platform cannot carry the media type
	ErrCodeUnsupportedPayload = "ERR_UNSUPPORTED_PAYLOAD"
	// ErrCodePlatformNotConfigured is used when platform credentials are absent
	ErrCodePlatformNotConfigured = "ERR_PLATFORM_NOT_CONFIGURED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeNotFound:     http.StatusNotFound,

	ErrCodeAuthCodeInvalid:       http.StatusBadRequest,
	ErrCodePlatformUnreachable:   http.StatusBadGateway,
	ErrCodeUnsupportedPayload:    http.StatusUnprocessableEntity,
	ErrCodePlatformNotConfigured: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
