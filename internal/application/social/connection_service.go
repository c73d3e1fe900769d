package social

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

// ConnectionService manages the lifecycle of platform connections:
// connect via OAuth code exchange, disconnect, list and token refresh.
type ConnectionService struct {
	repo        social.ConnectionRepository
	registry    social.AdapterRegistry
	cache       social.ProfileCache
	logger      *zap.Logger
	callTimeout time.Duration
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(
	repo social.ConnectionRepository,
	registry social.AdapterRegistry,
	cache social.ProfileCache,
	logger *zap.Logger,
	callTimeout time.Duration,
) *ConnectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &ConnectionService{
		repo:        repo,
		registry:    registry,
		cache:       cache,
		logger:      logger,
		callTimeout: callTimeout,
	}
}

// Connect exchanges an authorization code for tokens, fetches the account
// profile and stores the connection. Reconnecting an existing (user,
// platform) pair replaces its credentials rather than adding a row.
// Nothing is written when the exchange or the profile fetch fails.
func (s *ConnectionService) Connect(ctx context.Context, userID uuid.UUID, platformName, code string) (*social.ConnectionSummary, error) {
	if userID == uuid.Nil {
		return nil, social.ErrUserRequired
	}
	if code == "" {
		return nil, social.ErrAuthorizationCodeRequired
	}

	platform, err := social.ParsePlatform(platformName)
	if err != nil {
		return nil, err
	}

	adapter, err := s.registry.Get(platform)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	tokens, err := adapter.ExchangeCode(callCtx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code for %s: %w", platform, err)
	}

	profile, err := adapter.FetchProfile(callCtx, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetching profile for %s: %w", platform, err)
	}

	conn := social.NewPlatformConnection(userID, platform, profile, tokens)
	persisted, err := s.repo.Upsert(ctx, conn)
	if err != nil {
		return nil, err
	}

	// A reconnect invalidates whatever profile was cached before.
	if s.cache != nil {
		_ = s.cache.DeleteProfile(ctx, userID, platform)
	}

	s.logger.Info("platform connected",
		zap.String("user_id", userID.String()),
		zap.String("platform", string(platform)),
		zap.String("platform_user_id", persisted.PlatformUserID))

	summary := persisted.Summary()
	return &summary, nil
}

// Disconnect deactivates the user's connection to the platform. The row
// is retained for audit; a second disconnect reports not found.
func (s *ConnectionService) Disconnect(ctx context.Context, userID uuid.UUID, platformName string) error {
	if userID == uuid.Nil {
		return social.ErrUserRequired
	}
	platform, err := social.ParsePlatform(platformName)
	if err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, userID, platform); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.DeleteProfile(ctx, userID, platform)
	}

	s.logger.Info("platform disconnected",
		zap.String("user_id", userID.String()),
		zap.String("platform", string(platform)))
	return nil
}

// ListConnections returns redacted summaries of every connection the
// user has, disconnected ones included. Disconnect is a soft delete, so
// inactive rows remain visible here. Token material never leaves this
// layer.
func (s *ConnectionService) ListConnections(ctx context.Context, userID uuid.UUID) ([]social.ConnectionSummary, error) {
	if userID == uuid.Nil {
		return nil, social.ErrUserRequired
	}

	connections, err := s.repo.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]social.ConnectionSummary, len(connections))
	for i, conn := range connections {
		summaries[i] = conn.Summary()
	}
	return summaries, nil
}

// RefreshExpiring refreshes credentials of active connections whose
// access token expires within the given window. Connections on platforms
// without refresh support are skipped; individual failures do not stop
// the sweep.
func (s *ConnectionService) RefreshExpiring(ctx context.Context, window time.Duration) (int, error) {
	expiring, err := s.repo.FindExpiring(ctx, time.Now().Add(window))
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, conn := range expiring {
		adapter, err := s.registry.Get(conn.Platform)
		if err != nil {
			continue
		}
		if !adapter.SupportsRefresh() {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		tokens, err := adapter.RefreshToken(callCtx, conn.RefreshToken)
		cancel()
		if err != nil {
			s.logger.Warn("token refresh failed",
				zap.String("user_id", conn.UserID.String()),
				zap.String("platform", string(conn.Platform)),
				zap.Error(err))
			continue
		}

		conn.ApplyTokens(tokens, time.Now())
		if err := s.repo.UpdateTokens(ctx, conn); err != nil {
			s.logger.Warn("persisting refreshed tokens failed",
				zap.String("user_id", conn.UserID.String()),
				zap.String("platform", string(conn.Platform)),
				zap.Error(err))
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		s.logger.Info("refreshed expiring tokens", zap.Int("count", refreshed))
	}
	return refreshed, nil
}
