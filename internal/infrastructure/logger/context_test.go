package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newCapturingLogger returns a logger whose JSON output is written to buf.
func newCapturingLogger(buf *bytes.Buffer) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	base := newCapturingLogger(&buf)

	ctx := WithContext(context.Background(), base)

	FromContext(ctx).Info("feed aggregation started")
	assert.Contains(t, buf.String(), `"msg":"feed aggregation started"`)
}

func TestFromContext_NotFound(t *testing.T) {
	logger := FromContext(context.Background())

	// No-op fallback, never nil.
	assert.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.Info("dropped")
	})
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := newCapturingLogger(&buf)

	ctx, enriched := WithRequestID(context.Background(), base, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	enriched.Info("connecting")
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
}

func TestWithUserID(t *testing.T) {
	var buf bytes.Buffer
	base := newCapturingLogger(&buf)

	ctx, enriched := WithUserID(context.Background(), base, "user-789")

	assert.Equal(t, "user-789", GetUserID(ctx))
	enriched.Info("publishing")
	assert.Contains(t, buf.String(), `"user_id":"user-789"`)
}

func TestContextChaining(t *testing.T) {
	var buf bytes.Buffer
	logger := newCapturingLogger(&buf)

	ctx := context.Background()
	ctx, logger = WithRequestID(ctx, logger, "req-1")
	ctx, logger = WithUserID(ctx, logger, "user-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))

	// The context-carried logger holds both correlation fields.
	FromContext(ctx).Info("disconnecting")
	output := buf.String()
	assert.Contains(t, output, `"request_id":"req-1"`)
	assert.Contains(t, output, `"user_id":"user-1"`)
}

func TestGetRequestID_NotFound(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGetUserID_NotFound(t *testing.T) {
	assert.Empty(t, GetUserID(context.Background()))
}

func TestContextKeys(t *testing.T) {
	assert.NotEqual(t, LoggerKey, RequestIDKey)
	assert.NotEqual(t, RequestIDKey, UserIDKey)
	assert.NotEqual(t, LoggerKey, UserIDKey)
}
