package social

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

func newTikTokFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		platform:        social.PlatformTikTok,
		supportsRefresh: true,
		tokens: &social.TokenBundle{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresIn:    3600,
		},
		profile: &social.Profile{
			PlatformUserID: "tt-user-1",
			Username:       "creator",
			Stats:          social.Metadata{TikTok: &social.TikTokStats{FollowerCount: 1200}},
		},
	}
}

func TestConnectionService_Connect(t *testing.T) {
	repo := &fakeRepo{}
	adapter := newTikTokFakeAdapter()
	cache := newFakeCache()
	svc := NewConnectionService(repo, newFakeRegistry(adapter), cache, nil, time.Second)

	userID := uuid.New()
	summary, err := svc.Connect(context.Background(), userID, "tiktok", "auth-code")

	require.NoError(t, err)
	assert.Equal(t, social.PlatformTikTok, summary.Platform)
	assert.Equal(t, "creator", summary.Username)
	assert.Equal(t, "tt-user-1", summary.PlatformUserID)
	assert.True(t, summary.IsActive)
	require.NotNil(t, summary.Stats.TikTok)
	assert.Equal(t, int64(1200), summary.Stats.TikTok.FollowerCount)

	require.Len(t, repo.connections, 1)
	stored := repo.connections[0]
	assert.Equal(t, "access-1", stored.AccessToken)
	assert.Equal(t, "refresh-1", stored.RefreshToken)
	require.NotNil(t, stored.TokenExpiresAt)
	assert.True(t, stored.TokenExpiresAt.After(time.Now()))
}

func TestConnectionService_Connect_NormalizesPlatformName(t *testing.T) {
	repo := &fakeRepo{}
	adapter := newTikTokFakeAdapter()
	svc := NewConnectionService(repo, newFakeRegistry(adapter), nil, nil, time.Second)

	summary, err := svc.Connect(context.Background(), uuid.New(), "  TikTok ", "auth-code")

	require.NoError(t, err)
	assert.Equal(t, social.PlatformTikTok, summary.Platform)
}

func TestConnectionService_Connect_Validation(t *testing.T) {
	svc := NewConnectionService(&fakeRepo{}, newFakeRegistry(), nil, nil, time.Second)

	tests := []struct {
		name     string
		userID   uuid.UUID
		platform string
		code     string
		wantErr  error
	}{
		{name: "missing user", userID: uuid.Nil, platform: "tiktok", code: "c", wantErr: social.ErrUserRequired},
		{name: "missing code", userID: uuid.New(), platform: "tiktok", code: "", wantErr: social.ErrAuthorizationCodeRequired},
		{name: "unknown platform", userID: uuid.New(), platform: "myspace", code: "c", wantErr: social.ErrPlatformUnsupported},
		{name: "unregistered platform", userID: uuid.New(), platform: "tiktok", code: "c", wantErr: social.ErrPlatformUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Connect(context.Background(), tt.userID, tt.platform, tt.code)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConnectionService_Connect_NoWriteOnExchangeFailure(t *testing.T) {
	repo := &fakeRepo{}
	adapter := newTikTokFakeAdapter()
	adapter.exchangeErr = social.ErrAuthorizationCodeInvalid
	svc := NewConnectionService(repo, newFakeRegistry(adapter), nil, nil, time.Second)

	_, err := svc.Connect(context.Background(), uuid.New(), "tiktok", "bad-code")

	assert.ErrorIs(t, err, social.ErrAuthorizationCodeInvalid)
	assert.Empty(t, repo.connections)
}

func TestConnectionService_Connect_NoWriteOnProfileFailure(t *testing.T) {
	repo := &fakeRepo{}
	adapter := newTikTokFakeAdapter()
	adapter.profileErr = social.ErrPlatformUnreachable
	svc := NewConnectionService(repo, newFakeRegistry(adapter), nil, nil, time.Second)

	_, err := svc.Connect(context.Background(), uuid.New(), "tiktok", "auth-code")

	assert.ErrorIs(t, err, social.ErrPlatformUnreachable)
	assert.Empty(t, repo.connections)
}

func TestConnectionService_Connect_ReconnectReplacesConnection(t *testing.T) {
	repo := &fakeRepo{}
	adapter := newTikTokFakeAdapter()
	cache := newFakeCache()
	svc := NewConnectionService(repo, newFakeRegistry(adapter), cache, nil, time.Second)
	userID := uuid.New()

	_, err := svc.Connect(context.Background(), userID, "tiktok", "code-1")
	require.NoError(t, err)

	adapter.tokens = &social.TokenBundle{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresIn: 3600}
	_, err = svc.Connect(context.Background(), userID, "tiktok", "code-2")
	require.NoError(t, err)

	require.Len(t, repo.connections, 1)
	assert.Equal(t, "access-2", repo.connections[0].AccessToken)
	assert.Equal(t, 2, cache.deletes)
}

func TestConnectionService_Disconnect(t *testing.T) {
	repo := &fakeRepo{}
	adapter := newTikTokFakeAdapter()
	svc := NewConnectionService(repo, newFakeRegistry(adapter), newFakeCache(), nil, time.Second)
	userID := uuid.New()

	_, err := svc.Connect(context.Background(), userID, "tiktok", "auth-code")
	require.NoError(t, err)

	require.NoError(t, svc.Disconnect(context.Background(), userID, "tiktok"))
	assert.False(t, repo.connections[0].IsActive)

	// Row is retained, so a second disconnect finds nothing active.
	err = svc.Disconnect(context.Background(), userID, "tiktok")
	assert.ErrorIs(t, err, social.ErrConnectionNotFound)
}

func TestConnectionService_Disconnect_Validation(t *testing.T) {
	svc := NewConnectionService(&fakeRepo{}, newFakeRegistry(), nil, nil, time.Second)

	assert.ErrorIs(t, svc.Disconnect(context.Background(), uuid.Nil, "tiktok"), social.ErrUserRequired)
	assert.ErrorIs(t, svc.Disconnect(context.Background(), uuid.New(), "friendster"), social.ErrPlatformUnsupported)
	assert.ErrorIs(t, svc.Disconnect(context.Background(), uuid.New(), "tiktok"), social.ErrConnectionNotFound)
}

func TestConnectionService_ListConnections(t *testing.T) {
	repo := &fakeRepo{}
	tiktok := newTikTokFakeAdapter()
	instagram := &fakeAdapter{
		platform: social.PlatformInstagram,
		tokens:   &social.TokenBundle{AccessToken: "ig-access"},
		profile: &social.Profile{
			PlatformUserID: "ig-user-1",
			Username:       "photographer",
			Stats:          social.Metadata{Instagram: &social.InstagramStats{FollowerCount: 900}},
		},
	}
	svc := NewConnectionService(repo, newFakeRegistry(tiktok, instagram), nil, nil, time.Second)
	userID := uuid.New()

	_, err := svc.Connect(context.Background(), userID, "tiktok", "code-1")
	require.NoError(t, err)
	_, err = svc.Connect(context.Background(), userID, "instagram", "code-2")
	require.NoError(t, err)

	summaries, err := svc.ListConnections(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	platforms := []social.Platform{summaries[0].Platform, summaries[1].Platform}
	assert.Contains(t, platforms, social.PlatformTikTok)
	assert.Contains(t, platforms, social.PlatformInstagram)

	// Other users see nothing.
	other, err := svc.ListConnections(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestConnectionService_ListConnections_IncludesDisconnected(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewConnectionService(repo, newFakeRegistry(newTikTokFakeAdapter()), nil, nil, time.Second)
	userID := uuid.New()

	_, err := svc.Connect(context.Background(), userID, "tiktok", "code-1")
	require.NoError(t, err)
	require.NoError(t, svc.Disconnect(context.Background(), userID, "tiktok"))

	// Disconnect is a soft delete; the listing keeps the row, marked
	// inactive.
	summaries, err := svc.ListConnections(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, social.PlatformTikTok, summaries[0].Platform)
	assert.False(t, summaries[0].IsActive)
}

func TestConnectionService_RefreshExpiring(t *testing.T) {
	repo := &fakeRepo{}
	adapter := newTikTokFakeAdapter()
	adapter.refreshTokens = &social.TokenBundle{AccessToken: "access-new", RefreshToken: "refresh-new", ExpiresIn: 7200}
	svc := NewConnectionService(repo, newFakeRegistry(adapter), nil, nil, time.Second)
	userID := uuid.New()

	// Token expiring in 30 minutes.
	adapter.tokens = &social.TokenBundle{AccessToken: "access-old", RefreshToken: "refresh-old", ExpiresIn: 1800}
	_, err := svc.Connect(context.Background(), userID, "tiktok", "auth-code")
	require.NoError(t, err)

	refreshed, err := svc.RefreshExpiring(context.Background(), time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 1, refreshed)
	require.Len(t, repo.updatedTokens, 1)
	assert.Equal(t, "access-new", repo.updatedTokens[0].AccessToken)
	assert.Equal(t, "refresh-new", repo.updatedTokens[0].RefreshToken)
}

func TestConnectionService_RefreshExpiring_SkipsUnsupported(t *testing.T) {
	repo := &fakeRepo{}
	adapter := newTikTokFakeAdapter()
	adapter.supportsRefresh = false
	svc := NewConnectionService(repo, newFakeRegistry(adapter), nil, nil, time.Second)

	adapter.tokens = &social.TokenBundle{AccessToken: "access-old", RefreshToken: "refresh-old", ExpiresIn: 60}
	_, err := svc.Connect(context.Background(), uuid.New(), "tiktok", "auth-code")
	require.NoError(t, err)

	refreshed, err := svc.RefreshExpiring(context.Background(), time.Hour)

	require.NoError(t, err)
	assert.Zero(t, refreshed)
	assert.Empty(t, repo.updatedTokens)
}

func TestConnectionService_RefreshExpiring_FailureDoesNotStopSweep(t *testing.T) {
	repo := &fakeRepo{}
	tiktok := newTikTokFakeAdapter()
	tiktok.refreshErr = social.ErrPlatformUnreachable
	x := &fakeAdapter{
		platform:        social.PlatformX,
		supportsRefresh: true,
		tokens:          &social.TokenBundle{AccessToken: "x-old", RefreshToken: "x-refresh", ExpiresIn: 60},
		profile:         &social.Profile{PlatformUserID: "x-1", Username: "poster"},
		refreshTokens:   &social.TokenBundle{AccessToken: "x-new", ExpiresIn: 7200},
	}
	svc := NewConnectionService(repo, newFakeRegistry(tiktok, x), nil, nil, time.Second)
	userID := uuid.New()

	tiktok.tokens = &social.TokenBundle{AccessToken: "tt-old", RefreshToken: "tt-refresh", ExpiresIn: 60}
	_, err := svc.Connect(context.Background(), userID, "tiktok", "c1")
	require.NoError(t, err)
	_, err = svc.Connect(context.Background(), userID, "x", "c2")
	require.NoError(t, err)

	refreshed, err := svc.RefreshExpiring(context.Background(), time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 1, refreshed)
	require.Len(t, repo.updatedTokens, 1)
	assert.Equal(t, "x-new", repo.updatedTokens[0].AccessToken)
}
