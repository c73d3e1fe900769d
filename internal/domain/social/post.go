package social

import (
	"sort"
	"time"
)

// ---------------------------------------------------------------------------
// Value objects exchanged with platform adapters
// ---------------------------------------------------------------------------

// TokenBundle is the result of an OAuth code exchange or token refresh.
// It is transient and never persisted as-is.
type TokenBundle struct {
	// AccessToken is the bearer token for subsequent API calls
	AccessToken string
	// RefreshToken is empty for platforms that do not issue one
	RefreshToken string
	// ExpiresIn is the access token lifetime in seconds (0 = unknown)
	ExpiresIn int64
}

// Profile is a snapshot of the user's account on the external platform
type Profile struct {
	// PlatformUserID is the user's identifier on the platform
	PlatformUserID string
	// Username is the display handle on the platform
	Username string
	// Stats holds the platform-specific public statistics
	Stats Metadata
}

// ExternalPost represents a post fetched from an external platform.
// Posts are transient; they are aggregated and returned, never stored.
type ExternalPost struct {
	// ID is the post's identifier as assigned by the platform. Posts
	// have no local identity of their own; the external one is the
	// only ID they carry.
	ID string
	// Platform identifies where the post came from
	Platform Platform
	// AuthorHandle is the author's handle on the platform
	AuthorHandle string
	// Content is the text body or caption
	Content string
	// MediaURLs contains image or video URLs attached to the post
	MediaURLs []string
	// PostedAt is the publication time on the platform
	PostedAt time.Time
	// Engagement counters as reported by the platform
	LikeCount    int64
	CommentCount int64
	ShareCount   int64
	// ExternalURL is the canonical link to the post
	ExternalURL string
}

// PublishPayload describes a piece of content to publish
type PublishPayload struct {
	// MediaURL points at the image or video to publish
	MediaURL string
	// Caption is the optional text accompanying the media
	Caption string
	// IsVideo distinguishes video from image payloads
	IsVideo bool
}

// Validate checks the payload invariants
func (p *PublishPayload) Validate() error {
	if p == nil || p.MediaURL == "" {
		return ErrMediaURLRequired
	}
	return nil
}

// PublishReceipt is the adapter's confirmation of a successful publish
type PublishReceipt struct {
	Platform    Platform
	ExternalID  string
	ExternalURL string
	PublishedAt time.Time
}

// ---------------------------------------------------------------------------
// Aggregation
// ---------------------------------------------------------------------------

// AggregationResult is the merged output of a multi-platform feed fetch.
// Per-platform failures are reported in Errors and never fail the whole
// aggregation.
type AggregationResult struct {
	// Items is sorted by PostedAt descending; ties keep their relative order
	Items []ExternalPost
	// HasMore indicates more merged items exist beyond the returned page
	HasMore bool
	// NextCursor is an opaque marker for the next page, empty when done
	NextCursor string
	// Errors maps each failed platform to a short failure description
	Errors map[Platform]string
}

// SortPostsByRecency orders posts newest first. The sort is stable so
// posts with identical timestamps keep their merge order.
func SortPostsByRecency(posts []ExternalPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PostedAt.After(posts[j].PostedAt)
	})
}
