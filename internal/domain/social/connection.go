package social

import (
	"time"

	"github.com/google/uuid"

	"github.com/joachimaross/quemiai-sub000/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Per-platform profile statistics
// ---------------------------------------------------------------------------

// TikTokStats holds the public statistics exposed by the TikTok user API
type TikTokStats struct {
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
	LikesCount     int64 `json:"likes_count"`
	VideoCount     int64 `json:"video_count"`
}

// InstagramStats holds the public statistics exposed by the Instagram Graph API
type InstagramStats struct {
	FollowerCount int64  `json:"follower_count"`
	MediaCount    int64  `json:"media_count"`
	AccountType   string `json:"account_type,omitempty"`
}

// XStats holds the public statistics exposed by the X user API
type XStats struct {
	FollowerCount int64 `json:"follower_count"`
	PostCount     int64 `json:"post_count"`
	Verified      bool  `json:"verified,omitempty"`
}

// FacebookStats holds the public statistics exposed by the Facebook Graph API
type FacebookStats struct {
	FriendCount int64 `json:"friend_count"`
	PageCount   int64 `json:"page_count,omitempty"`
}

// Metadata is a closed union of platform-specific profile statistics.
// Exactly one member is expected to be set per connection; adding support
// for a new platform means adding a field here, not loosening the type.
type Metadata struct {
	TikTok    *TikTokStats    `json:"tiktok,omitempty"`
	Instagram *InstagramStats `json:"instagram,omitempty"`
	X         *XStats         `json:"x,omitempty"`
	Facebook  *FacebookStats  `json:"facebook,omitempty"`
}

// IsZero returns true when no platform stats are present
func (m Metadata) IsZero() bool {
	return m.TikTok == nil && m.Instagram == nil && m.X == nil && m.Facebook == nil
}

// FollowerCount returns the follower-equivalent count for whichever
// platform stats are present. The second return value is false when
// no stats are set.
func (m Metadata) FollowerCount() (int64, bool) {
	switch {
	case m.TikTok != nil:
		return m.TikTok.FollowerCount, true
	case m.Instagram != nil:
		return m.Instagram.FollowerCount, true
	case m.X != nil:
		return m.X.FollowerCount, true
	case m.Facebook != nil:
		return m.Facebook.FriendCount, true
	default:
		return 0, false
	}
}

// ---------------------------------------------------------------------------
// PlatformConnection entity
// ---------------------------------------------------------------------------

// PlatformConnection represents an authorized link between a local user
// and an account on an external social platform. At most one connection
// exists per (user, platform) pair; disconnecting deactivates the row
// rather than deleting it.
type PlatformConnection struct {
	shared.BaseEntity
	UserID           uuid.UUID
	Platform         Platform
	PlatformUserID   string
	PlatformUsername string
	AccessToken      string
	RefreshToken     string
	TokenExpiresAt   *time.Time
	IsActive         bool
	Metadata         Metadata
}

// NewPlatformConnection creates an active connection from a freshly
// exchanged token bundle and the profile fetched with it.
func NewPlatformConnection(userID uuid.UUID, platform Platform, profile *Profile, tokens *TokenBundle) *PlatformConnection {
	conn := &PlatformConnection{
		BaseEntity:       shared.NewBaseEntity(),
		UserID:           userID,
		Platform:         platform,
		PlatformUserID:   profile.PlatformUserID,
		PlatformUsername: profile.Username,
		IsActive:         true,
		Metadata:         profile.Stats,
	}
	conn.ApplyTokens(tokens, time.Now())
	return conn
}

// ApplyTokens replaces the connection's credentials with a new bundle.
// A bundle without a refresh token keeps the previous refresh token so
// platforms that rotate only access tokens do not lose the ability to
// refresh.
func (c *PlatformConnection) ApplyTokens(tokens *TokenBundle, now time.Time) {
	c.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		c.RefreshToken = tokens.RefreshToken
	}
	if tokens.ExpiresIn > 0 {
		expiresAt := now.Add(time.Duration(tokens.ExpiresIn) * time.Second)
		c.TokenExpiresAt = &expiresAt
	} else {
		c.TokenExpiresAt = nil
	}
	c.UpdatedAt = now
}

// TokenExpiresWithin reports whether the access token expires within
// the given window. Connections without an expiry never report true.
func (c *PlatformConnection) TokenExpiresWithin(window time.Duration, now time.Time) bool {
	if c.TokenExpiresAt == nil {
		return false
	}
	return c.TokenExpiresAt.Before(now.Add(window))
}

// Summary returns the externally visible view of the connection.
// Credentials are never part of the summary.
func (c *PlatformConnection) Summary() ConnectionSummary {
	return ConnectionSummary{
		Platform:       c.Platform,
		Username:       c.PlatformUsername,
		PlatformUserID: c.PlatformUserID,
		IsActive:       c.IsActive,
		ConnectedAt:    c.CreatedAt,
		Stats:          c.Metadata,
	}
}

// ConnectionSummary is the redacted representation of a connection
// returned by the API. It deliberately has no token fields.
type ConnectionSummary struct {
	Platform       Platform
	Username       string
	PlatformUserID string
	IsActive       bool
	ConnectedAt    time.Time
	Stats          Metadata
}
