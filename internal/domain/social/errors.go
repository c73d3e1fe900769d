package social

import "errors"

var (
	// Platform errors
	ErrPlatformUnsupported     = errors.New("social: unsupported platform")
	ErrPlatformNotConfigured   = errors.New("social: platform not configured")
	ErrPlatformUnreachable     = errors.New("social: platform unreachable")
	ErrPlatformInvalidResponse = errors.New("social: invalid platform response")

	// Connection lifecycle errors
	ErrAuthorizationCodeInvalid  = errors.New("social: authorization code invalid")
	ErrAuthorizationCodeRequired = errors.New("social: authorization code is required")
	ErrConnectionNotFound        = errors.New("social: connection not found")
	ErrUserRequired              = errors.New("social: authenticated user is required")

	// Token errors
	ErrRefreshNotSupported = errors.New("social: token refresh not supported")
	ErrRefreshTokenMissing = errors.New("social: refresh token missing")

	// Publish errors
	ErrUnsupportedPayload = errors.New("social: unsupported payload type")
	ErrMediaURLRequired   = errors.New("social: media URL is required")
	ErrPlatformsRequired  = errors.New("social: at least one platform is required")
)
