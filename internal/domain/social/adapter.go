package social

import "context"

// PlatformAdapter defines the port interface a social platform integration
// must satisfy. It is defined in the domain layer following the Ports &
// Adapters pattern; concrete implementations (TikTok, Instagram, OAuth2
// based platforms) live in the infrastructure layer.
//
// Adapters translate platform-native wire formats into domain values and
// map platform failures onto the sentinel errors in this package:
//
//   - ExchangeCode returns ErrAuthorizationCodeInvalid for rejected codes
//   - network and 5xx failures surface as ErrPlatformUnreachable
//   - missing credentials surface as ErrPlatformNotConfigured at call
//     time, so one unconfigured platform never blocks the others
type PlatformAdapter interface {
	// Platform returns the platform this adapter handles
	Platform() Platform

	// SupportsRefresh reports whether the platform issues refresh tokens
	SupportsRefresh() bool

	// ExchangeCode trades an OAuth authorization code for a token bundle
	ExchangeCode(ctx context.Context, code string) (*TokenBundle, error)

	// FetchProfile retrieves the account profile for an access token
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)

	// FetchPosts retrieves up to limit recent posts for the account.
	// The cursor is platform-opaque; empty means start from the newest.
	FetchPosts(ctx context.Context, accessToken, platformUserID string, limit int, cursor string) ([]ExternalPost, error)

	// Publish posts the payload to the account. Adapters return
	// ErrUnsupportedPayload when the platform cannot carry the media type.
	Publish(ctx context.Context, accessToken, platformUserID string, payload *PublishPayload) (*PublishReceipt, error)

	// RefreshToken exchanges a refresh token for a new bundle.
	// Adapters with SupportsRefresh() == false return ErrRefreshNotSupported.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenBundle, error)
}

// AdapterRegistry resolves platform adapters by platform code
type AdapterRegistry interface {
	// Get returns the adapter for the platform, or ErrPlatformUnsupported
	Get(platform Platform) (PlatformAdapter, error)

	// List returns all registered adapters
	List() []PlatformAdapter
}
