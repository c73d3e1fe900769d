package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

// InstagramConfig holds configuration for the Instagram Graph API integration
type InstagramConfig struct {
	// ClientID is the application ID from the Meta developer portal
	ClientID string
	// ClientSecret is the application secret
	ClientSecret string
	// RedirectURI must match the URI registered for the OAuth app
	RedirectURI string
	// APIBaseURL is the base URL for Graph API calls
	APIBaseURL string
	// TokenBaseURL is the base URL for the OAuth token endpoint
	TokenBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// InstagramAPIBaseURL is the production Graph API endpoint
	InstagramAPIBaseURL = "https://graph.instagram.com"
	// InstagramTokenBaseURL is the production OAuth endpoint
	InstagramTokenBaseURL = "https://api.instagram.com"
	// instagramLongLivedTokenTTL is the documented long-lived token lifetime
	instagramLongLivedTokenTTL = int64(60 * 24 * 3600)
)

// Errors for Instagram configuration
var (
	ErrInstagramConfigMissingClientID     = errors.New("instagram: client ID is required")
	ErrInstagramConfigMissingClientSecret = errors.New("instagram: client secret is required")
)

// NewInstagramConfig creates a new Instagram configuration with defaults
func NewInstagramConfig(clientID, clientSecret, redirectURI string) *InstagramConfig {
	return &InstagramConfig{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		RedirectURI:    redirectURI,
		APIBaseURL:     InstagramAPIBaseURL,
		TokenBaseURL:   InstagramTokenBaseURL,
		TimeoutSeconds: 30,
	}
}

// Validate checks credentials and fills in defaults
func (c *InstagramConfig) Validate() error {
	if c.APIBaseURL == "" {
		c.APIBaseURL = InstagramAPIBaseURL
	}
	if c.TokenBaseURL == "" {
		c.TokenBaseURL = InstagramTokenBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.ClientID == "" {
		return ErrInstagramConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrInstagramConfigMissingClientSecret
	}
	return nil
}

// Configured returns true when OAuth credentials are present
func (c *InstagramConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

// instagramGraphError is the Graph API error envelope
type instagramGraphError struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

type instagramTokenResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id"`
	ExpiresIn   int64  `json:"expires_in"`
	// OAuth error fields
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
}

type instagramProfile struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	AccountType   string `json:"account_type"`
	MediaCount    int64  `json:"media_count"`
	FollowerCount int64  `json:"followers_count"`
}

type instagramMedia struct {
	ID            string `json:"id"`
	Caption       string `json:"caption"`
	MediaURL      string `json:"media_url"`
	Permalink     string `json:"permalink"`
	Timestamp     string `json:"timestamp"`
	LikeCount     int64  `json:"like_count"`
	CommentsCount int64  `json:"comments_count"`
}

type instagramMediaListResponse struct {
	Data   []instagramMedia `json:"data"`
	Paging *struct {
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
	} `json:"paging"`
}

type instagramIDResponse struct {
	ID string `json:"id"`
}

// ---------------------------------------------------------------------------
// Adapter
// ---------------------------------------------------------------------------

// InstagramAdapter implements the PlatformAdapter interface for Instagram.
// Instagram issues long-lived tokens without a refresh token, so the
// adapter reports SupportsRefresh() == false.
type InstagramAdapter struct {
	config     *InstagramConfig
	httpClient *http.Client
}

// NewInstagramAdapter creates a new Instagram adapter
func NewInstagramAdapter(config *InstagramConfig) *InstagramAdapter {
	if config.APIBaseURL == "" {
		config.APIBaseURL = InstagramAPIBaseURL
	}
	if config.TokenBaseURL == "" {
		config.TokenBaseURL = InstagramTokenBaseURL
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = 30
	}
	return &InstagramAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}
}

// Platform returns the platform this adapter handles
func (a *InstagramAdapter) Platform() social.Platform {
	return social.PlatformInstagram
}

// SupportsRefresh reports that Instagram does not issue refresh tokens
func (a *InstagramAdapter) SupportsRefresh() bool {
	return false
}

// RefreshToken always fails; Instagram long-lived tokens cannot be refreshed here
func (a *InstagramAdapter) RefreshToken(_ context.Context, _ string) (*social.TokenBundle, error) {
	return nil, social.ErrRefreshNotSupported
}

// ExchangeCode trades an authorization code for a long-lived token bundle
func (a *InstagramAdapter) ExchangeCode(ctx context.Context, code string) (*social.TokenBundle, error) {
	if code == "" {
		return nil, social.ErrAuthorizationCodeInvalid
	}
	if !a.config.Configured() {
		return nil, social.ErrPlatformNotConfigured
	}

	form := url.Values{
		"client_id":     {a.config.ClientID},
		"client_secret": {a.config.ClientSecret},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {a.config.RedirectURI},
		"code":          {code},
	}

	endpoint := a.config.TokenBaseURL + "/oauth/access_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("instagram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("instagram: failed to read response: %w", err)
	}

	var tokenResp instagramTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformInvalidResponse, err)
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: HTTP %d", social.ErrPlatformUnreachable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 || tokenResp.ErrorType != "" {
		return nil, fmt.Errorf("%w: %s", social.ErrAuthorizationCodeInvalid, tokenResp.ErrorMessage)
	}
	if tokenResp.AccessToken == "" {
		return nil, social.ErrPlatformInvalidResponse
	}

	expiresIn := tokenResp.ExpiresIn
	if expiresIn == 0 {
		expiresIn = instagramLongLivedTokenTTL
	}
	return &social.TokenBundle{
		AccessToken: tokenResp.AccessToken,
		ExpiresIn:   expiresIn,
	}, nil
}

// FetchProfile retrieves the account profile for an access token
func (a *InstagramAdapter) FetchProfile(ctx context.Context, accessToken string) (*social.Profile, error) {
	endpoint := fmt.Sprintf("%s/me?fields=%s&access_token=%s",
		a.config.APIBaseURL,
		url.QueryEscape("id,username,account_type,media_count,followers_count"),
		url.QueryEscape(accessToken),
	)

	body, err := a.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var profile instagramProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformInvalidResponse, err)
	}
	if profile.ID == "" {
		return nil, social.ErrPlatformInvalidResponse
	}

	return &social.Profile{
		PlatformUserID: profile.ID,
		Username:       profile.Username,
		Stats: social.Metadata{
			Instagram: &social.InstagramStats{
				FollowerCount: profile.FollowerCount,
				MediaCount:    profile.MediaCount,
				AccountType:   profile.AccountType,
			},
		},
	}, nil
}

// FetchPosts retrieves the account's recent media
func (a *InstagramAdapter) FetchPosts(ctx context.Context, accessToken, platformUserID string, limit int, cursor string) ([]social.ExternalPost, error) {
	if limit <= 0 {
		limit = 20
	}
	endpoint := fmt.Sprintf("%s/me/media?fields=%s&limit=%d&access_token=%s",
		a.config.APIBaseURL,
		url.QueryEscape("id,caption,media_url,permalink,timestamp,like_count,comments_count"),
		limit,
		url.QueryEscape(accessToken),
	)
	if cursor != "" {
		endpoint += "&after=" + url.QueryEscape(cursor)
	}

	body, err := a.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var listResp instagramMediaListResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformInvalidResponse, err)
	}

	posts := make([]social.ExternalPost, 0, len(listResp.Data))
	for _, media := range listResp.Data {
		post := social.ExternalPost{
			ID:           media.ID,
			Platform:     social.PlatformInstagram,
			AuthorHandle: platformUserID,
			Content:      media.Caption,
			ExternalURL:  media.Permalink,
			LikeCount:    media.LikeCount,
			CommentCount: media.CommentsCount,
		}
		if media.MediaURL != "" {
			post.MediaURLs = append(post.MediaURLs, media.MediaURL)
		}
		if media.Timestamp != "" {
			// Graph API timestamps look like 2026-03-01T12:00:00+0000
			if ts, err := parseGraphTimestamp(media.Timestamp); err == nil {
				post.PostedAt = ts
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Publish creates a media container and publishes it. Both image and
// video payloads are supported.
func (a *InstagramAdapter) Publish(ctx context.Context, accessToken, platformUserID string, payload *social.PublishPayload) (*social.PublishReceipt, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if !a.config.Configured() {
		return nil, social.ErrPlatformNotConfigured
	}

	form := url.Values{
		"caption":      {payload.Caption},
		"access_token": {accessToken},
	}
	if payload.IsVideo {
		form.Set("media_type", "REELS")
		form.Set("video_url", payload.MediaURL)
	} else {
		form.Set("image_url", payload.MediaURL)
	}

	// Step 1: create the media container
	containerBody, err := a.doPostForm(ctx, a.config.APIBaseURL+"/me/media", form)
	if err != nil {
		return nil, err
	}
	var container instagramIDResponse
	if err := json.Unmarshal(containerBody, &container); err != nil || container.ID == "" {
		return nil, social.ErrPlatformInvalidResponse
	}

	// Step 2: publish the container
	publishForm := url.Values{
		"creation_id":  {container.ID},
		"access_token": {accessToken},
	}
	publishBody, err := a.doPostForm(ctx, a.config.APIBaseURL+"/me/media_publish", publishForm)
	if err != nil {
		return nil, err
	}
	var published instagramIDResponse
	if err := json.Unmarshal(publishBody, &published); err != nil || published.ID == "" {
		return nil, social.ErrPlatformInvalidResponse
	}

	return &social.PublishReceipt{
		Platform:    social.PlatformInstagram,
		ExternalID:  published.ID,
		PublishedAt: time.Now(),
	}, nil
}

// doGet performs a GET request and surfaces Graph errors
func (a *InstagramAdapter) doGet(ctx context.Context, endpoint string) ([]byte, error) {
	if !a.config.Configured() {
		return nil, social.ErrPlatformNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("instagram: failed to create request: %w", err)
	}
	return a.do(req)
}

// doPostForm performs a form POST and surfaces Graph errors
func (a *InstagramAdapter) doPostForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("instagram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *InstagramAdapter) do(req *http.Request) ([]byte, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("instagram: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var graphErr instagramGraphError
		if err := json.Unmarshal(body, &graphErr); err == nil && graphErr.Error != nil {
			return nil, fmt.Errorf("%w: %s", social.ErrPlatformUnreachable, graphErr.Error.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", social.ErrPlatformUnreachable, resp.StatusCode)
	}
	return body, nil
}

// parseGraphTimestamp parses the Graph API timestamp format, falling
// back to RFC3339
func parseGraphTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02T15:04:05-0700", value); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("instagram: unrecognized timestamp %s", strconv.Quote(value))
}

// Ensure InstagramAdapter implements PlatformAdapter interface
var _ social.PlatformAdapter = (*InstagramAdapter)(nil)
