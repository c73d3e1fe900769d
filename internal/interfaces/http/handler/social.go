package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	appsocial "github.com/joachimaross/quemiai-sub000/internal/application/social"
	"github.com/joachimaross/quemiai-sub000/internal/interfaces/http/dto"
	"github.com/joachimaross/quemiai-sub000/internal/interfaces/http/middleware"
)

// SocialHandler exposes the platform connection, aggregation and publish
// endpoints.
type SocialHandler struct {
	BaseHandler
	connections *appsocial.ConnectionService
	feed        *appsocial.FeedService
	publish     *appsocial.PublishService
	profiles    *appsocial.ProfileService
}

// NewSocialHandler creates a new SocialHandler
func NewSocialHandler(
	connections *appsocial.ConnectionService,
	feed *appsocial.FeedService,
	publish *appsocial.PublishService,
	profiles *appsocial.ProfileService,
) *SocialHandler {
	return &SocialHandler{
		connections: connections,
		feed:        feed,
		publish:     publish,
		profiles:    profiles,
	}
}

// Connect handles POST /social/connect/:platform
func (h *SocialHandler) Connect(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.PlatformURI
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var req dto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	summary, err := h.connections.Connect(c.Request.Context(), userID, uri.Platform, req.Code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.NewConnectionResponse(*summary))
}

// Disconnect handles DELETE /social/disconnect/:platform
func (h *SocialHandler) Disconnect(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.PlatformURI
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.connections.Disconnect(c.Request.Context(), userID, uri.Platform); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMessage(c, "Platform disconnected", nil)
}

// ListConnections handles GET /social/connections
func (h *SocialHandler) ListConnections(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summaries, err := h.connections.ListConnections(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.NewConnectionListResponse(summaries))
}

// GetUserData handles GET /social/user-data
func (h *SocialHandler) GetUserData(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	platforms := splitPlatformList(c.Query("platforms"))
	results, err := h.profiles.GetUserData(c.Request.Context(), userID, platforms)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	data := make(map[string]dto.UserDataResponse, len(results))
	for platform, entry := range results {
		data[platform.String()] = dto.UserDataResponse{
			Profile: dto.NewProfileResponse(entry.Profile),
			Error:   entry.Error,
		}
	}
	h.Success(c, data)
}

// GetPosts handles GET /social/posts
func (h *SocialHandler) GetPosts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query dto.FeedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	platforms := splitPlatformList(query.Platforms)
	results, err := h.feed.GetPosts(c.Request.Context(), userID, platforms, query.Limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	data := make(map[string]dto.PlatformPostsResponse, len(results))
	for platform, entry := range results {
		data[platform.String()] = dto.PlatformPostsResponse{
			Posts: dto.NewPostListResponse(entry.Posts),
			Error: entry.Error,
		}
	}
	h.Success(c, data)
}

// GetFeed handles GET /social/feed
func (h *SocialHandler) GetFeed(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query dto.FeedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	platforms := splitPlatformList(query.Platforms)
	result, err := h.feed.GetFeed(c.Request.Context(), userID, platforms, query.Limit, query.Cursor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.NewFeedResponse(result))
}

// Publish handles POST /social/post
func (h *SocialHandler) Publish(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	results, err := h.publish.Publish(c.Request.Context(), userID, req.Platforms, req.ToPayload())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	data := make(map[string]dto.PublishResultResponse, len(results))
	for platform, entry := range results {
		data[platform.String()] = dto.NewPublishResultResponse(entry.Success, entry.Receipt, entry.Error)
	}
	h.Success(c, data)
}

// splitPlatformList splits a comma-separated platform list, dropping
// empty entries. A nil return means "all connected platforms".
func splitPlatformList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
