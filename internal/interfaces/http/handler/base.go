package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
	"github.com/joachimaross/quemiai-sub000/internal/infrastructure/logger"
	"github.com/joachimaross/quemiai-sub000/internal/interfaces/http/dto"
	"github.com/joachimaross/quemiai-sub000/internal/interfaces/http/middleware"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// getUserID extracts the authenticated user ID from JWT claims
func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr := middleware.GetJWTUserID(c)
	if userIDStr == "" {
		return uuid.Nil, social.ErrUserRequired
	}
	return uuid.Parse(userIDStr)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMessage sends a success response with a human message
func (h *BaseHandler) SuccessWithMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessMessageResponse(message, data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleDomainError maps domain sentinel errors onto API error codes.
// Wrapped errors are matched with errors.Is so service-layer context does
// not hide the sentinel.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, social.ErrUserRequired):
		h.ErrorWithCode(c, dto.ErrCodeUnauthorized, "Authentication required")
	case errors.Is(err, social.ErrConnectionNotFound):
		h.ErrorWithCode(c, dto.ErrCodeNotFound, "Connection not found")
	case errors.Is(err, social.ErrPlatformUnsupported):
		h.ErrorWithCode(c, dto.ErrCodeValidation, "Unsupported platform")
	case errors.Is(err, social.ErrAuthorizationCodeRequired):
		h.ErrorWithCode(c, dto.ErrCodeValidation, "Authorization code is required")
	case errors.Is(err, social.ErrAuthorizationCodeInvalid):
		h.ErrorWithCode(c, dto.ErrCodeAuthCodeInvalid, "Authorization code was rejected by the platform")
	case errors.Is(err, social.ErrPlatformNotConfigured):
		h.ErrorWithCode(c, dto.ErrCodePlatformNotConfigured, "Platform credentials are not configured")
	case errors.Is(err, social.ErrPlatformUnreachable):
		h.ErrorWithCode(c, dto.ErrCodePlatformUnreachable, "Platform could not be reached")
	case errors.Is(err, social.ErrPlatformInvalidResponse):
		h.ErrorWithCode(c, dto.ErrCodePlatformUnreachable, "Platform returned an invalid response")
	case errors.Is(err, social.ErrUnsupportedPayload):
		h.ErrorWithCode(c, dto.ErrCodeUnsupportedPayload, "Platform does not support this payload type")
	case errors.Is(err, social.ErrMediaURLRequired):
		h.ErrorWithCode(c, dto.ErrCodeValidation, "Media URL is required")
	case errors.Is(err, social.ErrPlatformsRequired):
		h.ErrorWithCode(c, dto.ErrCodeValidation, "At least one platform is required")
	default:
		// Unknown errors get a generic 500; the detail stays in the log.
		logger.GetGinLogger(c).Error("unhandled error", zap.Error(err))
		h.InternalError(c, "An unexpected error occurred")
	}
}
