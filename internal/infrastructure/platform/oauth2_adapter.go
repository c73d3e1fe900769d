package platform

import (
	"bytes"
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

// OAuth2Config holds endpoints and credentials for a standard OAuth2
// platform. One adapter implementation serves every platform whose API
// follows the common shape: form-encoded token exchange, bearer-token
// JSON resources.
type OAuth2Config struct {
	// Platform identifies which platform this config instantiates
	Platform social.Platform
	// ClientID is the OAuth application ID
	ClientID string
	// ClientSecret is the OAuth application secret
	ClientSecret string
	// RedirectURI must match the URI registered for the OAuth app
	RedirectURI string
	// TokenURL is the token exchange endpoint
	TokenURL string
	// UserInfoURL is the authenticated profile endpoint
	UserInfoURL string
	// PostsURL is the authenticated recent-posts endpoint
	PostsURL string
	// PublishURL is the authenticated publish endpoint
	PublishURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for OAuth2 configuration
var (
	ErrOAuth2ConfigMissingPlatform = errors.New("oauth2: platform is required")
	ErrOAuth2ConfigMissingTokenURL = errors.New("oauth2: token URL is required")
)

// NewXConfig creates an OAuth2 configuration for X with production endpoints
func NewXConfig(clientID, clientSecret, redirectURI string) *OAuth2Config {
	return &OAuth2Config{
		Platform:       social.PlatformX,
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		RedirectURI:    redirectURI,
		TokenURL:       "https://api.x.com/2/oauth2/token",
		UserInfoURL:    "https://api.x.com/2/users/me?user.fields=public_metrics,verified",
		PostsURL:       "https://api.x.com/2/users/me/tweets?tweet.fields=created_at,public_metrics",
		PublishURL:     "https://api.x.com/2/tweets",
		TimeoutSeconds: 30,
	}
}

// NewFacebookConfig creates an OAuth2 configuration for Facebook with
// production Graph API endpoints
func NewFacebookConfig(clientID, clientSecret, redirectURI string) *OAuth2Config {
	return &OAuth2Config{
		Platform:       social.PlatformFacebook,
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		RedirectURI:    redirectURI,
		TokenURL:       "https://graph.facebook.com/v19.0/oauth/access_token",
		UserInfoURL:    "https://graph.facebook.com/v19.0/me?fields=id,name",
		PostsURL:       "https://graph.facebook.com/v19.0/me/posts?fields=id,message,created_time,permalink_url",
		PublishURL:     "https://graph.facebook.com/v19.0/me/feed",
		TimeoutSeconds: 30,
	}
}

// Validate checks the configuration shape and fills in defaults
func (c *OAuth2Config) Validate() error {
	if !c.Platform.IsValid() {
		return ErrOAuth2ConfigMissingPlatform
	}
	if c.TokenURL == "" {
		return ErrOAuth2ConfigMissingTokenURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Configured returns true when OAuth credentials are present
func (c *OAuth2Config) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

type oauth2TokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// oauth2User covers the common profile fields across X and Facebook.
// X wraps the payload in a data object; Facebook returns it flat.
type oauth2User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	Verified      bool   `json:"verified"`
	PublicMetrics *struct {
		FollowersCount int64 `json:"followers_count"`
		TweetCount     int64 `json:"tweet_count"`
	} `json:"public_metrics"`
}

type oauth2Post struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	Message       string `json:"message"`
	CreatedAt     string `json:"created_at"`
	CreatedTime   string `json:"created_time"`
	PermalinkURL  string `json:"permalink_url"`
	PublicMetrics *struct {
		LikeCount    int64 `json:"like_count"`
		ReplyCount   int64 `json:"reply_count"`
		RetweetCount int64 `json:"retweet_count"`
	} `json:"public_metrics"`
}

// ---------------------------------------------------------------------------
// Adapter
// ---------------------------------------------------------------------------

// OAuth2Adapter implements the PlatformAdapter interface for platforms
// with standard OAuth2 semantics. It is instantiated once per platform
// with that platform's endpoint set.
type OAuth2Adapter struct {
	config     *OAuth2Config
	httpClient *http.Client
}

// NewOAuth2Adapter creates a new generic OAuth2 adapter
func NewOAuth2Adapter(config *OAuth2Config) (*OAuth2Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &OAuth2Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Platform returns the platform this adapter instance handles
func (a *OAuth2Adapter) Platform() social.Platform {
	return a.config.Platform
}

// SupportsRefresh reports that standard OAuth2 platforms issue refresh tokens
func (a *OAuth2Adapter) SupportsRefresh() bool {
	return true
}

// ExchangeCode trades an authorization code for a token bundle
func (a *OAuth2Adapter) ExchangeCode(ctx context.Context, code string) (*social.TokenBundle, error) {
	if code == "" {
		return nil, social.ErrAuthorizationCodeInvalid
	}
	form := url.Values{
		"client_id":     {a.config.ClientID},
		"client_secret": {a.config.ClientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {a.config.RedirectURI},
	}
	return a.requestToken(ctx, form)
}

// RefreshToken exchanges a refresh token for a new bundle
func (a *OAuth2Adapter) RefreshToken(ctx context.Context, refreshToken string) (*social.TokenBundle, error) {
	if refreshToken == "" {
		return nil, social.ErrRefreshTokenMissing
	}
	form := url.Values{
		"client_id":     {a.config.ClientID},
		"client_secret": {a.config.ClientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	return a.requestToken(ctx, form)
}

func (a *OAuth2Adapter) requestToken(ctx context.Context, form url.Values) (*social.TokenBundle, error) {
	if !a.config.Configured() {
		return nil, social.ErrPlatformNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("oauth2: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("oauth2: failed to read response: %w", err)
	}

	var tokenResp oauth2TokenResponse
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
func (a *OAuth2Adapter) FetchProfile(ctx context.Context, accessToken string) (*social.Profile, error) {
	body, err := a.doRequest(ctx, http.MethodGet, a.config.UserInfoURL, accessToken, nil)
	if err != nil {
		return nil, err
	}

	user, err := unwrapData[oauth2User](body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformInvalidResponse, err)
	}
	if user.ID == "" {
		return nil, social.ErrPlatformInvalidResponse
	}

	username := user.Username
	if username == "" {
		username = user.Name
	}

	profile := &social.Profile{
		PlatformUserID: user.ID,
		Username:       username,
	}
	switch a.config.Platform {
	case social.PlatformX:
		stats := &social.XStats{Verified: user.Verified}
		if user.PublicMetrics != nil {
			stats.FollowerCount = user.PublicMetrics.FollowersCount
			stats.PostCount = user.PublicMetrics.TweetCount
		}
		profile.Stats = social.Metadata{X: stats}
	case social.PlatformFacebook:
		profile.Stats = social.Metadata{Facebook: &social.FacebookStats{}}
	}
	return profile, nil
}

// FetchPosts retrieves the account's recent posts
func (a *OAuth2Adapter) FetchPosts(ctx context.Context, accessToken, platformUserID string, limit int, cursor string) ([]social.ExternalPost, error) {
	if limit <= 0 {
		limit = 20
	}
	endpoint := a.config.PostsURL
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	endpoint += sep + "max_results=" + strconv.Itoa(limit)
	if cursor != "" {
		endpoint += "&pagination_token=" + url.QueryEscape(cursor)
	}

	body, err := a.doRequest(ctx, http.MethodGet, endpoint, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var listResp struct {
		Data []oauth2Post `json:"data"`
	}
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("%w: %v", social.ErrPlatformInvalidResponse, err)
	}

	posts := make([]social.ExternalPost, 0, len(listResp.Data))
	for _, raw := range listResp.Data {
		content := raw.Text
		if content == "" {
			content = raw.Message
		}
		post := social.ExternalPost{
			ID:           raw.ID,
			Platform:     a.config.Platform,
			AuthorHandle: platformUserID,
			Content:      content,
			ExternalURL:  raw.PermalinkURL,
		}
		if raw.PublicMetrics != nil {
			post.LikeCount = raw.PublicMetrics.LikeCount
			post.CommentCount = raw.PublicMetrics.ReplyCount
			post.ShareCount = raw.PublicMetrics.RetweetCount
		}
		created := raw.CreatedAt
		if created == "" {
			created = raw.CreatedTime
		}
		if created != "" {
			if ts, err := time.Parse(time.RFC3339, created); err == nil {
				post.PostedAt = ts
			} else if ts, err := parseGraphTimestamp(created); err == nil {
				post.PostedAt = ts
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Publish posts the payload. Both image and video payloads are carried
// as a link attachment alongside the caption.
func (a *OAuth2Adapter) Publish(ctx context.Context, accessToken, platformUserID string, payload *social.PublishPayload) (*social.PublishReceipt, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	params := map[string]any{
		"text":      payload.Caption,
		"media_url": payload.MediaURL,
	}
	body, err := a.doRequest(ctx, http.MethodPost, a.config.PublishURL, accessToken, params)
	if err != nil {
		return nil, err
	}

	created, err := unwrapData[struct {
		ID string `json:"id"`
	}](body)
	if err != nil || created.ID == "" {
		return nil, social.ErrPlatformInvalidResponse
	}

	return &social.PublishReceipt{
		Platform:    a.config.Platform,
		ExternalID:  created.ID,
		PublishedAt: time.Now(),
	}, nil
}

// doRequest performs an authenticated HTTP request
func (a *OAuth2Adapter) doRequest(ctx context.Context, method, endpoint, accessToken string, params map[string]any) ([]byte, error) {
	if !a.config.Configured() {
		return nil, social.ErrPlatformNotConfigured
	}

	var reqBody io.Reader
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("oauth2: failed to marshal params: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("oauth2: failed to create request: %w", err)
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
		return nil, fmt.Errorf("oauth2: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", social.ErrPlatformUnreachable, resp.StatusCode)
	}
	return body, nil
}

// unwrapData decodes a JSON body that is either {"data": T} or a bare T
func unwrapData[T any](body []byte) (T, error) {
	var wrapped struct {
		Data *T `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != nil {
		return *wrapped.Data, nil
	}
	var flat T
	err := json.Unmarshal(body, &flat)
	return flat, err
}

// Ensure OAuth2Adapter implements PlatformAdapter interface
var _ social.PlatformAdapter = (*OAuth2Adapter)(nil)
