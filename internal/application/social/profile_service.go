package social

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

// UserData is the per-platform outcome of a profile fetch
type UserData struct {
	Profile *social.Profile
	Error   string
}

// ProfileService fetches fresh account data from connected platforms,
// backed by a short-lived cache so bursts of requests do not hammer the
// platform APIs.
type ProfileService struct {
	repo        social.ConnectionRepository
	registry    social.AdapterRegistry
	cache       social.ProfileCache
	logger      *zap.Logger
	callTimeout time.Duration
	cacheTTL    time.Duration
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	repo social.ConnectionRepository,
	registry social.AdapterRegistry,
	cache social.ProfileCache,
	logger *zap.Logger,
	callTimeout time.Duration,
	cacheTTL time.Duration,
) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ProfileService{
		repo:        repo,
		registry:    registry,
		cache:       cache,
		logger:      logger,
		callTimeout: callTimeout,
		cacheTTL:    cacheTTL,
	}
}

// GetUserData returns the user's current profile on each connected
// platform, optionally filtered. Cached profiles are served without a
// platform call; misses fetch from the platform and repopulate the cache.
func (s *ProfileService) GetUserData(ctx context.Context, userID uuid.UUID, platformNames []string) (map[social.Platform]UserData, error) {
	if userID == uuid.Nil {
		return nil, social.ErrUserRequired
	}

	filter, err := social.ParsePlatforms(platformNames)
	if err != nil {
		return nil, err
	}

	connections, err := s.repo.FindActive(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[social.Platform]UserData, len(connections))
	)

	for _, conn := range connections {
		wg.Add(1)
		go func(conn *social.PlatformConnection) {
			defer wg.Done()

			data := s.fetchOne(ctx, conn)

			mu.Lock()
			results[conn.Platform] = data
			mu.Unlock()
		}(conn)
	}

	wg.Wait()
	return results, nil
}

func (s *ProfileService) fetchOne(ctx context.Context, conn *social.PlatformConnection) UserData {
	if s.cache != nil {
		cached, err := s.cache.GetProfile(ctx, conn.UserID, conn.Platform)
		if err != nil {
			s.logger.Warn("profile cache lookup failed",
				zap.String("platform", string(conn.Platform)),
				zap.Error(err))
		}
		if cached != nil {
			return UserData{Profile: cached}
		}
	}

	adapter, err := s.registry.Get(conn.Platform)
	if err != nil {
		return UserData{Error: err.Error()}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	profile, err := adapter.FetchProfile(callCtx, conn.AccessToken)
	if err != nil {
		s.logger.Warn("profile fetch failed",
			zap.String("platform", string(conn.Platform)),
			zap.String("user_id", conn.UserID.String()),
			zap.Error(err))
		return UserData{Error: err.Error()}
	}

	if s.cache != nil {
		if err := s.cache.SetProfile(ctx, conn.UserID, conn.Platform, profile, s.cacheTTL); err != nil {
			s.logger.Warn("profile cache store failed",
				zap.String("platform", string(conn.Platform)),
				zap.Error(err))
		}
	}
	return UserData{Profile: profile}
}
