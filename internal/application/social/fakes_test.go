package social

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

// ---------------------------------------------------------------------------
// Repository fake
// ---------------------------------------------------------------------------

type fakeRepo struct {
	mu          sync.Mutex
	connections []*social.PlatformConnection

	upsertErr     error
	findActiveErr error
	deactivateErr error

	updatedTokens []*social.PlatformConnection
}

func (r *fakeRepo) Upsert(_ context.Context, conn *social.PlatformConnection) (*social.PlatformConnection, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.connections {
		if existing.UserID == conn.UserID && existing.Platform == conn.Platform {
			conn.ID = existing.ID
			conn.CreatedAt = existing.CreatedAt
			if conn.RefreshToken == "" {
				conn.RefreshToken = existing.RefreshToken
			}
			r.connections[i] = conn
			return conn, nil
		}
	}
	r.connections = append(r.connections, conn)
	return conn, nil
}

func (r *fakeRepo) Deactivate(_ context.Context, userID uuid.UUID, platform social.Platform) error {
	if r.deactivateErr != nil {
		return r.deactivateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conn := range r.connections {
		if conn.UserID == userID && conn.Platform == platform && conn.IsActive {
			conn.IsActive = false
			return nil
		}
	}
	return social.ErrConnectionNotFound
}

func (r *fakeRepo) FindActive(_ context.Context, userID uuid.UUID, platforms []social.Platform) ([]*social.PlatformConnection, error) {
	if r.findActiveErr != nil {
		return nil, r.findActiveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*social.PlatformConnection
	for _, conn := range r.connections {
		if conn.UserID != userID || !conn.IsActive {
			continue
		}
		if len(platforms) > 0 && !containsPlatform(platforms, conn.Platform) {
			continue
		}
		out = append(out, conn)
	}
	return out, nil
}

func (r *fakeRepo) FindAll(_ context.Context, userID uuid.UUID) ([]*social.PlatformConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*social.PlatformConnection
	for _, conn := range r.connections {
		if conn.UserID == userID {
			out = append(out, conn)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindExpiring(_ context.Context, before time.Time) ([]*social.PlatformConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*social.PlatformConnection
	for _, conn := range r.connections {
		if conn.IsActive && conn.RefreshToken != "" && conn.TokenExpiresAt != nil && conn.TokenExpiresAt.Before(before) {
			out = append(out, conn)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateTokens(_ context.Context, conn *social.PlatformConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updatedTokens = append(r.updatedTokens, conn)
	return nil
}

func containsPlatform(platforms []social.Platform, p social.Platform) bool {
	for _, candidate := range platforms {
		if candidate == p {
			return true
		}
	}
	return false
}

var _ social.ConnectionRepository = (*fakeRepo)(nil)

// ---------------------------------------------------------------------------
// Adapter and registry fakes
// ---------------------------------------------------------------------------

type fakeAdapter struct {
	platform        social.Platform
	supportsRefresh bool

	tokens      *social.TokenBundle
	exchangeErr error

	profile    *social.Profile
	profileErr error

	posts    []social.ExternalPost
	postsErr error
	// postsDelay simulates a slow platform
	postsDelay time.Duration

	receipt    *social.PublishReceipt
	publishErr error
	// publishDelay simulates a slow platform
	publishDelay time.Duration

	refreshTokens *social.TokenBundle
	refreshErr    error

	mu             sync.Mutex
	exchangeCalls  int
	profileCalls   int
	postsCalls     int
	publishCalls   int
	publishedLoads []*social.PublishPayload
}

func (a *fakeAdapter) Platform() social.Platform { return a.platform }
func (a *fakeAdapter) SupportsRefresh() bool     { return a.supportsRefresh }

func (a *fakeAdapter) ExchangeCode(_ context.Context, _ string) (*social.TokenBundle, error) {
	a.mu.Lock()
	a.exchangeCalls++
	a.mu.Unlock()
	if a.exchangeErr != nil {
		return nil, a.exchangeErr
	}
	return a.tokens, nil
}

func (a *fakeAdapter) FetchProfile(_ context.Context, _ string) (*social.Profile, error) {
	a.mu.Lock()
	a.profileCalls++
	a.mu.Unlock()
	if a.profileErr != nil {
		return nil, a.profileErr
	}
	return a.profile, nil
}

func (a *fakeAdapter) FetchPosts(ctx context.Context, _, _ string, _ int, _ string) ([]social.ExternalPost, error) {
	a.mu.Lock()
	a.postsCalls++
	a.mu.Unlock()
	if a.postsDelay > 0 {
		select {
		case <-time.After(a.postsDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.postsErr != nil {
		return nil, a.postsErr
	}
	return a.posts, nil
}

func (a *fakeAdapter) Publish(ctx context.Context, _, _ string, payload *social.PublishPayload) (*social.PublishReceipt, error) {
	a.mu.Lock()
	a.publishCalls++
	a.publishedLoads = append(a.publishedLoads, payload)
	a.mu.Unlock()
	if a.publishDelay > 0 {
		select {
		case <-time.After(a.publishDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.publishErr != nil {
		return nil, a.publishErr
	}
	return a.receipt, nil
}

func (a *fakeAdapter) RefreshToken(_ context.Context, _ string) (*social.TokenBundle, error) {
	if a.refreshErr != nil {
		return nil, a.refreshErr
	}
	return a.refreshTokens, nil
}

var _ social.PlatformAdapter = (*fakeAdapter)(nil)

type fakeRegistry struct {
	adapters map[social.Platform]social.PlatformAdapter
}

func newFakeRegistry(adapters ...social.PlatformAdapter) *fakeRegistry {
	r := &fakeRegistry{adapters: make(map[social.Platform]social.PlatformAdapter)}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

func (r *fakeRegistry) Get(platform social.Platform) (social.PlatformAdapter, error) {
	adapter, ok := r.adapters[platform]
	if !ok {
		return nil, social.ErrPlatformUnsupported
	}
	return adapter, nil
}

func (r *fakeRegistry) List() []social.PlatformAdapter {
	out := make([]social.PlatformAdapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	return out
}

var _ social.AdapterRegistry = (*fakeRegistry)(nil)

// ---------------------------------------------------------------------------
// Profile cache fake
// ---------------------------------------------------------------------------

type fakeCache struct {
	mu       sync.Mutex
	profiles map[string]*social.Profile
	getErr   error
	setErr   error

	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{profiles: make(map[string]*social.Profile)}
}

func cacheKey(userID uuid.UUID, platform social.Platform) string {
	return userID.String() + ":" + string(platform)
}

func (c *fakeCache) GetProfile(_ context.Context, userID uuid.UUID, platform social.Platform) (*social.Profile, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profiles[cacheKey(userID, platform)], nil
}

func (c *fakeCache) SetProfile(_ context.Context, userID uuid.UUID, platform social.Platform, profile *social.Profile, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[cacheKey(userID, platform)] = profile
	c.sets++
	return nil
}

func (c *fakeCache) DeleteProfile(_ context.Context, userID uuid.UUID, platform social.Platform) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.profiles, cacheKey(userID, platform))
	c.deletes++
	return nil
}

var _ social.ProfileCache = (*fakeCache)(nil)
