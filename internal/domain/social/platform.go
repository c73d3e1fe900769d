package social

import "strings"

// Platform identifies a supported social media platform.
type Platform string

const (
	// PlatformTikTok represents TikTok
	PlatformTikTok Platform = "tiktok"
	// PlatformInstagram represents Instagram
	PlatformInstagram Platform = "instagram"
	// PlatformX represents X (formerly Twitter)
	PlatformX Platform = "x"
	// PlatformFacebook represents Facebook
	PlatformFacebook Platform = "facebook"
)

// AllPlatforms returns every supported platform in a stable order.
func AllPlatforms() []Platform {
	return []Platform{PlatformTikTok, PlatformInstagram, PlatformX, PlatformFacebook}
}

// IsValid returns true if the platform is supported
func (p Platform) IsValid() bool {
	switch p {
	case PlatformTikTok, PlatformInstagram, PlatformX, PlatformFacebook:
		return true
	default:
		return false
	}
}

// String returns the string representation of Platform
func (p Platform) String() string {
	return string(p)
}

// DisplayName returns a human-readable name for the platform
func (p Platform) DisplayName() string {
	switch p {
	case PlatformTikTok:
		return "TikTok"
	case PlatformInstagram:
		return "Instagram"
	case PlatformX:
		return "X"
	case PlatformFacebook:
		return "Facebook"
	default:
		return string(p)
	}
}

// ParsePlatform normalizes and validates a platform identifier.
// Identifiers are matched case-insensitively; "twitter" is accepted
// as a legacy alias for "x".
func ParsePlatform(s string) (Platform, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "twitter" {
		normalized = string(PlatformX)
	}
	p := Platform(normalized)
	if !p.IsValid() {
		return "", ErrPlatformUnsupported
	}
	return p, nil
}

// ParsePlatforms parses a list of platform identifiers, dropping duplicates
// while preserving input order. An empty input returns an empty slice.
func ParsePlatforms(values []string) ([]Platform, error) {
	seen := make(map[Platform]struct{}, len(values))
	platforms := make([]Platform, 0, len(values))
	for _, v := range values {
		p, err := ParsePlatform(v)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		platforms = append(platforms, p)
	}
	return platforms, nil
}
