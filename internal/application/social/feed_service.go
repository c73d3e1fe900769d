package social

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// PlatformPosts is the per-platform result of a post fetch. Either Posts
// or Error is set, never both.
type PlatformPosts struct {
	Posts []social.ExternalPost
	Error string
}

// FeedService aggregates posts across a user's connected platforms.
// Each platform is queried concurrently with its own deadline so a slow
// or failing platform degrades to an error entry instead of failing or
// stalling the whole feed.
type FeedService struct {
	repo        social.ConnectionRepository
	registry    social.AdapterRegistry
	logger      *zap.Logger
	callTimeout time.Duration
}

// NewFeedService creates a new FeedService
func NewFeedService(
	repo social.ConnectionRepository,
	registry social.AdapterRegistry,
	logger *zap.Logger,
	callTimeout time.Duration,
) *FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &FeedService{
		repo:        repo,
		registry:    registry,
		logger:      logger,
		callTimeout: callTimeout,
	}
}

// GetFeed returns a merged, recency-ordered feed of posts from the user's
// active connections. An optional platform filter narrows the fan-out.
// The cursor is a flat offset into the merged ordering; it is only stable
// while the underlying feeds do not move, which is acceptable for a
// scrolling feed.
func (s *FeedService) GetFeed(ctx context.Context, userID uuid.UUID, platformNames []string, limit int, cursor string) (*social.AggregationResult, error) {
	if userID == uuid.Nil {
		return nil, social.ErrUserRequired
	}
	limit = clampLimit(limit)

	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil || parsed < 0 {
			offset = 0
		} else {
			offset = parsed
		}
	}

	filter, err := social.ParsePlatforms(platformNames)
	if err != nil {
		return nil, err
	}

	connections, err := s.repo.FindActive(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	// Each platform must contribute enough items to cover the requested
	// window even if all other platforms return nothing.
	perPlatform := offset + limit
	if perPlatform > maxFeedLimit {
		perPlatform = maxFeedLimit
	}

	posts, failures := s.fanOut(ctx, connections, perPlatform)

	merged := make([]social.ExternalPost, 0, len(posts))
	for _, platformPosts := range posts {
		merged = append(merged, platformPosts...)
	}
	social.SortPostsByRecency(merged)

	result := &social.AggregationResult{Errors: failures}
	if offset < len(merged) {
		end := offset + limit
		if end > len(merged) {
			end = len(merged)
		}
		result.Items = merged[offset:end]
		if end < len(merged) {
			result.HasMore = true
			result.NextCursor = strconv.Itoa(end)
		}
	} else {
		result.Items = []social.ExternalPost{}
	}
	return result, nil
}

// GetPosts returns the user's recent posts grouped by platform, without
// merging. Platforms that fail report an error entry instead.
func (s *FeedService) GetPosts(ctx context.Context, userID uuid.UUID, platformNames []string, limit int) (map[social.Platform]PlatformPosts, error) {
	if userID == uuid.Nil {
		return nil, social.ErrUserRequired
	}
	limit = clampLimit(limit)

	filter, err := social.ParsePlatforms(platformNames)
	if err != nil {
		return nil, err
	}

	connections, err := s.repo.FindActive(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	posts, failures := s.fanOut(ctx, connections, limit)

	results := make(map[social.Platform]PlatformPosts, len(connections))
	for platform, platformPosts := range posts {
		results[platform] = PlatformPosts{Posts: platformPosts}
	}
	for platform, message := range failures {
		results[platform] = PlatformPosts{Error: message}
	}
	return results, nil
}

// fanOut fetches posts from every connection concurrently. It always
// waits for all platforms; each call runs under its own timeout derived
// from the parent context.
func (s *FeedService) fanOut(ctx context.Context, connections []*social.PlatformConnection, limit int) (map[social.Platform][]social.ExternalPost, map[social.Platform]string) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		posts    = make(map[social.Platform][]social.ExternalPost, len(connections))
		failures = make(map[social.Platform]string)
	)

	for _, conn := range connections {
		wg.Add(1)
		go func(conn *social.PlatformConnection) {
			defer wg.Done()

			adapter, err := s.registry.Get(conn.Platform)
			if err != nil {
				mu.Lock()
				failures[conn.Platform] = err.Error()
				mu.Unlock()
				return
			}

			callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			defer cancel()

			fetched, err := adapter.FetchPosts(callCtx, conn.AccessToken, conn.PlatformUserID, limit, "")
			if err != nil {
				s.logger.Warn("post fetch failed",
					zap.String("platform", string(conn.Platform)),
					zap.String("user_id", conn.UserID.String()),
					zap.Error(err))
				mu.Lock()
				failures[conn.Platform] = err.Error()
				mu.Unlock()
				return
			}

			mu.Lock()
			posts[conn.Platform] = fetched
			mu.Unlock()
		}(conn)
	}

	wg.Wait()
	return posts, failures
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultFeedLimit
	}
	if limit > maxFeedLimit {
		return maxFeedLimit
	}
	return limit
}
