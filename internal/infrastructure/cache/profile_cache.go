package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

// defaultCleanupInterval is how often the in-memory cache sweeps expired entries
const defaultCleanupInterval = 30 * time.Second

// profileCacheKey generates the cache key for a (user, platform) profile
func profileCacheKey(userID uuid.UUID, platform social.Platform) string {
	return "social:profile:" + userID.String() + ":" + string(platform)
}

// ---------------------------------------------------------------------------
// Redis-backed implementation
// ---------------------------------------------------------------------------

// RedisProfileCache implements ProfileCache using Redis. Suitable for
// distributed deployments where multiple instances share cached profiles.
type RedisProfileCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisProfileCache creates a Redis-backed profile cache and verifies
// the connection.
func NewRedisProfileCache(client *redis.Client, logger *zap.Logger) (*RedisProfileCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProfileCache{client: client, logger: logger}, nil
}

// GetProfile retrieves a cached profile, returning (nil, nil) on a miss
func (c *RedisProfileCache) GetProfile(ctx context.Context, userID uuid.UUID, platform social.Platform) (*social.Profile, error) {
	raw, err := c.client.Get(ctx, profileCacheKey(userID, platform)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile from cache: %w", err)
	}

	var profile social.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		c.logger.Warn("dropping corrupt cached profile",
			zap.String("user_id", userID.String()),
			zap.String("platform", string(platform)),
			zap.Error(err))
		return nil, nil
	}
	return &profile, nil
}

// SetProfile stores a profile with the given TTL
func (c *RedisProfileCache) SetProfile(ctx context.Context, userID uuid.UUID, platform social.Platform, profile *social.Profile, ttl time.Duration) error {
	if profile == nil {
		return nil
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := c.client.Set(ctx, profileCacheKey(userID, platform), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}
	return nil
}

// DeleteProfile evicts the cached profile
func (c *RedisProfileCache) DeleteProfile(ctx context.Context, userID uuid.UUID, platform social.Platform) error {
	if err := c.client.Del(ctx, profileCacheKey(userID, platform)).Err(); err != nil {
		return fmt.Errorf("failed to evict cached profile: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisProfileCache) Close() error {
	return c.client.Close()
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

// InMemoryProfileCache implements ProfileCache using process-local storage.
// Used when Redis is disabled; entries expire by TTL and a background
// goroutine sweeps them.
type InMemoryProfileCache struct {
	profiles sync.Map // map[string]*profileEntry
	logger   *zap.Logger
	stopCh   chan struct{}
	stopped  int32

	hits   int64
	misses int64
}

type profileEntry struct {
	profile   *social.Profile
	expiresAt time.Time
}

func (e *profileEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// NewInMemoryProfileCache creates a new in-memory profile cache
func NewInMemoryProfileCache(logger *zap.Logger) *InMemoryProfileCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := &InMemoryProfileCache{
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go cache.cleanupExpired()
	return cache
}

// GetProfile retrieves a cached profile, returning (nil, nil) on a miss
func (c *InMemoryProfileCache) GetProfile(_ context.Context, userID uuid.UUID, platform social.Platform) (*social.Profile, error) {
	key := profileCacheKey(userID, platform)
	if value, ok := c.profiles.Load(key); ok {
		entry := value.(*profileEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.profile, nil
		}
		c.profiles.Delete(key)
	}
	atomic.AddInt64(&c.misses, 1)
	return nil, nil
}

// SetProfile stores a profile with the given TTL
func (c *InMemoryProfileCache) SetProfile(_ context.Context, userID uuid.UUID, platform social.Platform, profile *social.Profile, ttl time.Duration) error {
	if profile == nil || ttl <= 0 {
		return nil
	}
	c.profiles.Store(profileCacheKey(userID, platform), &profileEntry{
		profile:   profile,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// DeleteProfile evicts the cached profile
func (c *InMemoryProfileCache) DeleteProfile(_ context.Context, userID uuid.UUID, platform social.Platform) error {
	c.profiles.Delete(profileCacheKey(userID, platform))
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryProfileCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns cache hit and miss counters
func (c *InMemoryProfileCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// cleanupExpired periodically removes expired entries
func (c *InMemoryProfileCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.profiles.Range(func(key, value any) bool {
				if value.(*profileEntry).isExpired() {
					c.profiles.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("cleaned up expired cached profiles", zap.Int("removed", removed))
			}
		}
	}
}

// Ensure both implementations satisfy the ProfileCache port
var (
	_ social.ProfileCache = (*RedisProfileCache)(nil)
	_ social.ProfileCache = (*InMemoryProfileCache)(nil)
)
