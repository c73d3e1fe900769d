package platform

import "errors"

// TikTokConfig holds configuration for the TikTok open API integration
type TikTokConfig struct {
	// ClientKey is the application key from the TikTok developer portal
	ClientKey string
	// ClientSecret is the application secret
	ClientSecret string
	// RedirectURI must match the URI registered for the OAuth app
	RedirectURI string
	// APIBaseURL is the base URL for TikTok API calls
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// TikTokAPIBaseURL is the production API endpoint
const TikTokAPIBaseURL = "https://open.tiktokapis.com"

// Errors for TikTok configuration
var (
	ErrTikTokConfigMissingClientKey    = errors.New("tiktok: client key is required")
	ErrTikTokConfigMissingClientSecret = errors.New("tiktok: client secret is required")
)

// NewTikTokConfig creates a new TikTok configuration with defaults
func NewTikTokConfig(clientKey, clientSecret, redirectURI string) *TikTokConfig {
	return &TikTokConfig{
		ClientKey:      clientKey,
		ClientSecret:   clientSecret,
		RedirectURI:    redirectURI,
		APIBaseURL:     TikTokAPIBaseURL,
		TimeoutSeconds: 30,
	}
}

// Validate checks that credentials are present and fills in defaults.
// Missing credentials are not fatal at startup; adapters report them as
// a platform-not-configured condition when the platform is actually used.
func (c *TikTokConfig) Validate() error {
	if c.APIBaseURL == "" {
		c.APIBaseURL = TikTokAPIBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.ClientKey == "" {
		return ErrTikTokConfigMissingClientKey
	}
	if c.ClientSecret == "" {
		return ErrTikTokConfigMissingClientSecret
	}
	return nil
}

// Configured returns true when OAuth credentials are present
func (c *TikTokConfig) Configured() bool {
	return c.ClientKey != "" && c.ClientSecret != ""
}
