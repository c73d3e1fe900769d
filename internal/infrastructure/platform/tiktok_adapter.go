package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

// maxResponseSize limits response body reads to prevent memory exhaustion
const maxResponseSize = 1 << 20 // 1MB

// TikTokAdapter implements the PlatformAdapter interface for TikTok.
// TikTok issues refresh tokens and only carries video content.
type TikTokAdapter struct {
	config     *TikTokConfig
	httpClient *http.Client
}

// NewTikTokAdapter creates a new TikTok adapter with the given configuration.
// Missing credentials are tolerated here; calls against an unconfigured
// adapter fail with ErrPlatformNotConfigured.
func NewTikTokAdapter(config *TikTokConfig) *TikTokAdapter {
	if config.APIBaseURL == "" {
		config.APIBaseURL = TikTokAPIBaseURL
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = 30
	}
	return &TikTokAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}
}

// Platform returns the platform this adapter handles
func (a *TikTokAdapter) Platform() social.Platform {
	return social.PlatformTikTok
}

// SupportsRefresh reports that TikTok issues refresh tokens
func (a *TikTokAdapter) SupportsRefresh() bool {
	return true
}

// ExchangeCode trades an authorization code for a token bundle
func (a *TikTokAdapter) ExchangeCode(ctx context.Context, code string) (*social.TokenBundle, error) {
	if code == "" {
		return nil, social.ErrAuthorizationCodeInvalid
	}
	form := url.Values{
		"client_key":    {a.config.ClientKey},
		"client_secret": {a.config.ClientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {a.config.RedirectURI},
	}
	return a.requestToken(ctx, form)
}

// RefreshToken exchanges a refresh token for a new bundle
func (a *TikTokAdapter) RefreshToken(ctx context.Context, refreshToken string) (*social.TokenBundle, error) {
	if refreshToken == "" {
		return nil, social.ErrRefreshTokenMissing
	}
	form := url.Values{
		"client_key":    {a.config.ClientKey},
		"client_secret": {a.config.ClientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	return a.requestToken(ctx, form)
}

// requestToken performs a call against the OAuth token endpoint
func (a *TikTokAdapter) requestToken(ctx context.Context, form url.Values) (*social.TokenBundle, error) {
	if !a.config.Configured() {
		return nil, social.ErrPlatformNotConfigured
	}

	endpoint := a.config.APIBaseURL + "/v2/oauth/token/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("tiktok: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("tiktok: failed to read response: %w", err)
	}

	var tokenResp TikTokTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformInvalidResponse, err)
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: HTTP %d", social.ErrPlatformUnreachable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 || tokenResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", social.ErrAuthorizationCodeInvalid, tokenResp.ErrorDescription)
	}
	if tokenResp.AccessToken == "" {
		return nil, social.ErrPlatformInvalidResponse
	}

	return &social.TokenBundle{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresIn:    tokenResp.ExpiresIn,
	}, nil
}

// FetchProfile retrieves the account profile for an access token
func (a *TikTokAdapter) FetchProfile(ctx context.Context, accessToken string) (*social.Profile, error) {
	fields := "open_id,union_id,display_name,avatar_url,follower_count,following_count,likes_count,video_count"
	endpoint := fmt.Sprintf("%s/v2/user/info/?fields=%s", a.config.APIBaseURL, url.QueryEscape(fields))

	body, err := a.doRequest(ctx, http.MethodGet, endpoint, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var userResp TikTokUserResponse
	if err := json.Unmarshal(body, &userResp); err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformInvalidResponse, err)
	}
	if !userResp.Error.IsSuccess() {
		return nil, fmt.Errorf("%w: %s - %s", social.ErrPlatformUnreachable, userResp.Error.Code, userResp.Error.Message)
	}
	if userResp.Data.User == nil {
		return nil, social.ErrPlatformInvalidResponse
	}

	user := userResp.Data.User
	return &social.Profile{
		PlatformUserID: user.OpenID,
		Username:       user.DisplayName,
		Stats: social.Metadata{
			TikTok: &social.TikTokStats{
				FollowerCount:  user.FollowerCount,
				FollowingCount: user.FollowingCount,
				LikesCount:     user.LikesCount,
				VideoCount:     user.VideoCount,
			},
		},
	}, nil
}

// FetchPosts retrieves the account's recent videos
func (a *TikTokAdapter) FetchPosts(ctx context.Context, accessToken, platformUserID string, limit int, cursor string) ([]social.ExternalPost, error) {
	if limit <= 0 {
		limit = 20
	}
	params := map[string]any{
		"max_count": limit,
	}
	if cursor != "" {
		if c, err := strconv.ParseInt(cursor, 10, 64); err == nil {
			params["cursor"] = c
		}
	}

	endpoint := a.config.APIBaseURL + "/v2/video/list/"
	body, err := a.doRequest(ctx, http.MethodPost, endpoint, accessToken, params)
	if err != nil {
		return nil, err
	}

	var listResp TikTokVideoListResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformInvalidResponse, err)
	}
	if !listResp.Error.IsSuccess() {
		return nil, fmt.Errorf("%w: %s - %s", social.ErrPlatformUnreachable, listResp.Error.Code, listResp.Error.Message)
	}

	posts := make([]social.ExternalPost, 0, len(listResp.Data.Videos))
	for _, video := range listResp.Data.Videos {
		posts = append(posts, a.convertVideo(&video, platformUserID))
	}
	return posts, nil
}

// convertVideo converts a TikTok video to the domain post shape
func (a *TikTokAdapter) convertVideo(video *TikTokVideo, authorHandle string) social.ExternalPost {
	content := video.Description
	if content == "" {
		content = video.Title
	}
	post := social.ExternalPost{
		ID:           video.ID,
		Platform:     social.PlatformTikTok,
		AuthorHandle: authorHandle,
		Content:      content,
		ExternalURL:  video.ShareURL,
		LikeCount:    video.LikeCount,
		CommentCount: video.CommentCount,
		ShareCount:   video.ShareCount,
	}
	if video.CreateTime > 0 {
		post.PostedAt = time.Unix(video.CreateTime, 0)
	}
	if video.CoverURL != "" {
		post.MediaURLs = append(post.MediaURLs, video.CoverURL)
	}
	return post
}

// Publish posts a video to the account. TikTok carries video only;
// image payloads are rejected as unsupported.
func (a *TikTokAdapter) Publish(ctx context.Context, accessToken, platformUserID string, payload *social.PublishPayload) (*social.PublishReceipt, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if !payload.IsVideo {
		return nil, fmt.Errorf("%w: tiktok accepts video only", social.ErrUnsupportedPayload)
	}

	params := map[string]any{
		"post_info": map[string]any{
			"title": payload.Caption,
		},
		"source_info": map[string]any{
			"source":    "PULL_FROM_URL",
			"video_url": payload.MediaURL,
		},
	}

	endpoint := a.config.APIBaseURL + "/v2/post/publish/video/init/"
	body, err := a.doRequest(ctx, http.MethodPost, endpoint, accessToken, params)
	if err != nil {
		return nil, err
	}

	var publishResp TikTokPublishResponse
	if err := json.Unmarshal(body, &publishResp); err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformInvalidResponse, err)
	}
	if !publishResp.Error.IsSuccess() {
		return nil, fmt.Errorf("%w: %s - %s", social.ErrPlatformUnreachable, publishResp.Error.Code, publishResp.Error.Message)
	}

	return &social.PublishReceipt{
		Platform:    social.PlatformTikTok,
		ExternalID:  publishResp.Data.PublishID,
		PublishedAt: time.Now(),
	}, nil
}

// doRequest performs an authenticated HTTP request against the TikTok API
func (a *TikTokAdapter) doRequest(ctx context.Context, method, endpoint, accessToken string, params map[string]any) ([]byte, error) {
	if !a.config.Configured() {
		return nil, social.ErrPlatformNotConfigured
	}

	var reqBody io.Reader
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("tiktok: failed to marshal params: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("tiktok: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if params != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("tiktok: failed to read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: HTTP %d", social.ErrPlatformUnreachable, resp.StatusCode)
	}
	return body, nil
}

// Ensure TikTokAdapter implements PlatformAdapter interface
var _ social.PlatformAdapter = (*TikTokAdapter)(nil)
