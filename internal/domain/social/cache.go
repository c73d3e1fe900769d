package social

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProfileCache defines the caching port for platform profile data.
// Implementations return (nil, nil) on a cache miss; errors are reserved
// for backend failures so callers can fall through to the live platform.
type ProfileCache interface {
	// GetProfile retrieves a cached profile for (user, platform)
	GetProfile(ctx context.Context, userID uuid.UUID, platform Platform) (*Profile, error)

	// SetProfile stores a profile with the given TTL
	SetProfile(ctx context.Context, userID uuid.UUID, platform Platform, profile *Profile, ttl time.Duration) error

	// DeleteProfile evicts the cached profile for (user, platform)
	DeleteProfile(ctx context.Context, userID uuid.UUID, platform Platform) error
}
