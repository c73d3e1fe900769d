package social

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ConnectionRepository defines the persistence port for platform connections
type ConnectionRepository interface {
	// Upsert inserts the connection or, when a row for the same
	// (user, platform) already exists, atomically replaces its credentials,
	// profile fields and metadata and reactivates it. The write is resolved
	// by the store's unique index, not by read-then-write, so concurrent
	// upserts serialize there. Returns the persisted state.
	Upsert(ctx context.Context, conn *PlatformConnection) (*PlatformConnection, error)

	// Deactivate marks the active connection for (user, platform) inactive.
	// Returns ErrConnectionNotFound when no active row matches, including
	// when the connection was already deactivated.
	Deactivate(ctx context.Context, userID uuid.UUID, platform Platform) error

	// FindActive returns the user's active connections, optionally filtered
	// to the given platforms. A nil or empty filter returns all of them.
	FindActive(ctx context.Context, userID uuid.UUID, platforms []Platform) ([]*PlatformConnection, error)

	// FindAll returns every connection for the user, active or not
	FindAll(ctx context.Context, userID uuid.UUID) ([]*PlatformConnection, error)

	// FindExpiring returns active connections whose access token expires
	// before the given instant and that carry a refresh token.
	FindExpiring(ctx context.Context, before time.Time) ([]*PlatformConnection, error)

	// UpdateTokens persists refreshed credentials for an existing connection
	UpdateTokens(ctx context.Context, conn *PlatformConnection) error
}
