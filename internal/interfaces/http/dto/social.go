package dto

import (
	"time"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

// PlatformURI binds the :platform path parameter
type PlatformURI struct {
	Platform string `uri:"platform" binding:"required"`
}

// ConnectRequest carries the OAuth authorization code
type ConnectRequest struct {
	Code string `json:"code" binding:"required"`
}

// FeedQuery binds the feed and posts query parameters. Platforms is a
// comma-separated list; empty means every connected platform.
type FeedQuery struct {
	Platforms string `form:"platforms"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Cursor    string `form:"cursor"`
}

// PublishRequest carries content to fan out to one or more platforms
type PublishRequest struct {
	Platforms []string `json:"platforms" binding:"required,min=1"`
	MediaURL  string   `json:"media_url" binding:"required,url"`
	Caption   string   `json:"caption"`
	IsVideo   bool     `json:"is_video"`
}

// ToPayload converts the request into the domain publish payload
func (r *PublishRequest) ToPayload() *social.PublishPayload {
	return &social.PublishPayload{
		MediaURL: r.MediaURL,
		Caption:  r.Caption,
		IsVideo:  r.IsVideo,
	}
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

// ConnectionResponse is the redacted view of a platform connection.
// It never carries token material.
type ConnectionResponse struct {
	Platform       string     `json:"platform"`
	Username       string     `json:"username"`
	PlatformUserID string     `json:"platform_user_id"`
	IsActive       bool       `json:"is_active"`
	ConnectedAt    time.Time  `json:"connected_at"`
	FollowerCount  *int64     `json:"follower_count,omitempty"`
	Stats          *StatsView `json:"stats,omitempty"`
}

// StatsView exposes the platform-specific statistics union
type StatsView struct {
	TikTok    *social.TikTokStats    `json:"tiktok,omitempty"`
	Instagram *social.InstagramStats `json:"instagram,omitempty"`
	X         *social.XStats         `json:"x,omitempty"`
	Facebook  *social.FacebookStats  `json:"facebook,omitempty"`
}

// NewConnectionResponse maps a domain summary to its API shape
func NewConnectionResponse(summary social.ConnectionSummary) ConnectionResponse {
	resp := ConnectionResponse{
		Platform:       summary.Platform.String(),
		Username:       summary.Username,
		PlatformUserID: summary.PlatformUserID,
		IsActive:       summary.IsActive,
		ConnectedAt:    summary.ConnectedAt,
	}
	if count, ok := summary.Stats.FollowerCount(); ok {
		resp.FollowerCount = &count
	}
	if !summary.Stats.IsZero() {
		resp.Stats = &StatsView{
			TikTok:    summary.Stats.TikTok,
			Instagram: summary.Stats.Instagram,
			X:         summary.Stats.X,
			Facebook:  summary.Stats.Facebook,
		}
	}
	return resp
}

// NewConnectionListResponse maps a slice of summaries
func NewConnectionListResponse(summaries []social.ConnectionSummary) []ConnectionResponse {
	out := make([]ConnectionResponse, len(summaries))
	for i, s := range summaries {
		out[i] = NewConnectionResponse(s)
	}
	return out
}

// PostResponse is the API shape of an aggregated external post
type PostResponse struct {
	ID           string    `json:"id"`
	Platform     string    `json:"platform"`
	AuthorHandle string    `json:"author_handle,omitempty"`
	Content      string    `json:"content,omitempty"`
	MediaURLs    []string  `json:"media_urls,omitempty"`
	PostedAt     time.Time `json:"posted_at"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	ShareCount   int64     `json:"share_count"`
	ExternalURL  string    `json:"external_url,omitempty"`
}

// NewPostResponse maps a domain post to its API shape
func NewPostResponse(post social.ExternalPost) PostResponse {
	return PostResponse{
		ID:           post.ID,
		Platform:     post.Platform.String(),
		AuthorHandle: post.AuthorHandle,
		Content:      post.Content,
		MediaURLs:    post.MediaURLs,
		PostedAt:     post.PostedAt,
		LikeCount:    post.LikeCount,
		CommentCount: post.CommentCount,
		ShareCount:   post.ShareCount,
		ExternalURL:  post.ExternalURL,
	}
}

// NewPostListResponse maps a slice of domain posts
func NewPostListResponse(posts []social.ExternalPost) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i, p := range posts {
		out[i] = NewPostResponse(p)
	}
	return out
}

// FeedResponse is the merged multi-platform feed page
type FeedResponse struct {
	Posts      []PostResponse    `json:"posts"`
	HasMore    bool              `json:"has_more"`
	NextCursor string            `json:"next_cursor,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// NewFeedResponse maps an aggregation result to its API shape
func NewFeedResponse(result *social.AggregationResult) FeedResponse {
	resp := FeedResponse{
		Posts:      NewPostListResponse(result.Items),
		HasMore:    result.HasMore,
		NextCursor: result.NextCursor,
	}
	if len(result.Errors) > 0 {
		resp.Errors = make(map[string]string, len(result.Errors))
		for platform, message := range result.Errors {
			resp.Errors[platform.String()] = message
		}
	}
	return resp
}

// PlatformPostsResponse is the per-platform entry of the posts endpoint.
// Either Posts or Error is set.
type PlatformPostsResponse struct {
	Posts []PostResponse `json:"posts,omitempty"`
	Error string         `json:"error,omitempty"`
}

// ProfileResponse is the API shape of a platform profile snapshot
type ProfileResponse struct {
	PlatformUserID string     `json:"platform_user_id"`
	Username       string     `json:"username"`
	Stats          *StatsView `json:"stats,omitempty"`
}

// NewProfileResponse maps a domain profile to its API shape
func NewProfileResponse(profile *social.Profile) *ProfileResponse {
	if profile == nil {
		return nil
	}
	resp := &ProfileResponse{
		PlatformUserID: profile.PlatformUserID,
		Username:       profile.Username,
	}
	if !profile.Stats.IsZero() {
		resp.Stats = &StatsView{
			TikTok:    profile.Stats.TikTok,
			Instagram: profile.Stats.Instagram,
			X:         profile.Stats.X,
			Facebook:  profile.Stats.Facebook,
		}
	}
	return resp
}

// UserDataResponse is the per-platform entry of the user-data endpoint.
// Either Profile or Error is set.
type UserDataResponse struct {
	Profile *ProfileResponse `json:"profile,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// PublishResultResponse is the per-platform outcome of a publish request
type PublishResultResponse struct {
	Success     bool       `json:"success"`
	PostID      string     `json:"post_id,omitempty"`
	ExternalURL string     `json:"external_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// NewPublishResultResponse maps a receipt or failure to its API shape
func NewPublishResultResponse(success bool, receipt *social.PublishReceipt, errMsg string) PublishResultResponse {
	resp := PublishResultResponse{Success: success, Error: errMsg}
	if receipt != nil {
		resp.PostID = receipt.ExternalID
		resp.ExternalURL = receipt.ExternalURL
		if !receipt.PublishedAt.IsZero() {
			publishedAt := receipt.PublishedAt
			resp.PublishedAt = &publishedAt
		}
	}
	return resp
}
