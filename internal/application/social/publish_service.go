package social

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

// PublishResult is the per-platform outcome of a publish request
type PublishResult struct {
	Success bool
	Receipt *social.PublishReceipt
	Error   string
}

// PublishService fans a single piece of content out to several platforms.
// Platforms succeed or fail independently; one rejected publish never
// rolls back another.
type PublishService struct {
	repo        social.ConnectionRepository
	registry    social.AdapterRegistry
	logger      *zap.Logger
	callTimeout time.Duration
}

// NewPublishService creates a new PublishService
func NewPublishService(
	repo social.ConnectionRepository,
	registry social.AdapterRegistry,
	logger *zap.Logger,
	callTimeout time.Duration,
) *PublishService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &PublishService{
		repo:        repo,
		registry:    registry,
		logger:      logger,
		callTimeout: callTimeout,
	}
}

// Publish posts the payload to each requested platform concurrently and
// reports a per-platform result. Requested platforms without an active
// connection get a "not connected" entry rather than an error return.
func (s *PublishService) Publish(ctx context.Context, userID uuid.UUID, platformNames []string, payload *social.PublishPayload) (map[social.Platform]PublishResult, error) {
	if userID == uuid.Nil {
		return nil, social.ErrUserRequired
	}
	if len(platformNames) == 0 {
		return nil, social.ErrPlatformsRequired
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	platforms, err := social.ParsePlatforms(platformNames)
	if err != nil {
		return nil, err
	}
	if len(platforms) == 0 {
		return nil, social.ErrPlatformsRequired
	}

	connections, err := s.repo.FindActive(ctx, userID, platforms)
	if err != nil {
		return nil, err
	}
	byPlatform := make(map[social.Platform]*social.PlatformConnection, len(connections))
	for _, conn := range connections {
		byPlatform[conn.Platform] = conn
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[social.Platform]PublishResult, len(platforms))
	)

	for _, platform := range platforms {
		conn, ok := byPlatform[platform]
		if !ok {
			// Goroutines launched in earlier iterations may already be
			// writing to results, so this write needs the lock too.
			mu.Lock()
			results[platform] = PublishResult{Error: "platform not connected"}
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(platform social.Platform, conn *social.PlatformConnection) {
			defer wg.Done()

			result := s.publishOne(ctx, platform, conn, payload)

			mu.Lock()
			results[platform] = result
			mu.Unlock()
		}(platform, conn)
	}

	wg.Wait()
	return results, nil
}

func (s *PublishService) publishOne(ctx context.Context, platform social.Platform, conn *social.PlatformConnection, payload *social.PublishPayload) PublishResult {
	adapter, err := s.registry.Get(platform)
	if err != nil {
		return PublishResult{Error: err.Error()}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	receipt, err := adapter.Publish(callCtx, conn.AccessToken, conn.PlatformUserID, payload)
	if err != nil {
		s.logger.Warn("publish failed",
			zap.String("platform", string(platform)),
			zap.String("user_id", conn.UserID.String()),
			zap.Error(err))
		return PublishResult{Error: err.Error()}
	}

	s.logger.Info("published",
		zap.String("platform", string(platform)),
		zap.String("user_id", conn.UserID.String()),
		zap.String("external_id", receipt.ExternalID))
	return PublishResult{Success: true, Receipt: receipt}
}
