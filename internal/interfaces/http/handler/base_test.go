package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
	"github.com/joachimaross/quemiai-sub000/internal/interfaces/http/dto"
	"github.com/joachimaross/quemiai-sub000/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(c *gin.Context)
		expected string
	}{
		{
			name: "from context key",
			setup: func(c *gin.Context) {
				c.Set("request_id", "ctx-id-123")
			},
			expected: "ctx-id-123",
		},
		{
			name: "from request header",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(RequestIDKey, "header-id-456")
			},
			expected: "header-id-456",
		},
		{
			name:     "empty when absent",
			setup:    func(c *gin.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)
			assert.Equal(t, tt.expected, getRequestID(c))
		})
	}
}

func TestGetUserID(t *testing.T) {
	t.Run("parses user ID from JWT context", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		want := uuid.New()
		c.Set(middleware.JWTUserIDKey, want.String())

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("fails without JWT context", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		_, err := getUserID(c)
		assert.ErrorIs(t, err, social.ErrUserRequired)
	})

	t.Run("fails on malformed user ID", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(middleware.JWTUserIDKey, "not-a-uuid")

		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestHandleDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "user required",
			err:            social.ErrUserRequired,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   dto.ErrCodeUnauthorized,
		},
		{
			name:           "connection not found",
			err:            social.ErrConnectionNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrCodeNotFound,
		},
		{
			name:           "unsupported platform",
			err:            social.ErrPlatformUnsupported,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeValidation,
		},
		{
			name:           "authorization code required",
			err:            social.ErrAuthorizationCodeRequired,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeValidation,
		},
		{
			name:           "authorization code rejected",
			err:            social.ErrAuthorizationCodeInvalid,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeAuthCodeInvalid,
		},
		{
			name:           "platform not configured",
			err:            social.ErrPlatformNotConfigured,
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrCodePlatformNotConfigured,
		},
		{
			name:           "platform unreachable",
			err:            social.ErrPlatformUnreachable,
			expectedStatus: http.StatusBadGateway,
			expectedCode:   dto.ErrCodePlatformUnreachable,
		},
		{
			name:           "invalid platform response",
			err:            social.ErrPlatformInvalidResponse,
			expectedStatus: http.StatusBadGateway,
			expectedCode:   dto.ErrCodePlatformUnreachable,
		},
		{
			name:           "unsupported payload",
			err:            social.ErrUnsupportedPayload,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   dto.ErrCodeUnsupportedPayload,
		},
		{
			name:           "media URL required",
			err:            social.ErrMediaURLRequired,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeValidation,
		},
		{
			name:           "platforms required",
			err:            social.ErrPlatformsRequired,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeValidation,
		},
		{
			name:           "unknown error",
			err:            fmt.Errorf("something broke"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
		},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, dto.StatusError, resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestHandleDomainError_WrappedSentinel(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	wrapped := fmt.Errorf("exchanging code for tiktok: %w", social.ErrAuthorizationCodeInvalid)
	h.HandleDomainError(c, wrapped)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeAuthCodeInvalid)
}
