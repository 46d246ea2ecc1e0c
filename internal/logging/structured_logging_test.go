package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("creates JSON logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("test message", slog.String("component", "poller"), slog.Int("count", 42))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"test message"`)
		assert.Contains(t, output, `"component":"poller"`)
		assert.Contains(t, output, `"count":42`)
	})

	t.Run("creates text logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "text", slog.LevelInfo)

		logger.Info("hello", slog.String("stop", "14225"))

		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "stop=14225")
	})

	t.Run("respects log level configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Component(NewStructuredLogger(&buf, slog.LevelInfo), "transit").Info("ready")
	assert.Contains(t, buf.String(), `"component":"transit"`)
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogError(logger, "seek failed", errors.New("connection refused"), slog.String("stop", "14225"))

	output := buf.String()
	assert.Contains(t, output, `"level":"ERROR"`)
	assert.Contains(t, output, `"error":"connection refused"`)
	assert.Contains(t, output, `"stop":"14225"`)

	assert.NotPanics(t, func() {
		LogError(nil, "ignored", errors.New("x"))
		LogError(logger, "no error value", nil)
	})
}

func TestLogOperationSkipsZeroDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogOperation(logger, "poll_complete", slog.Duration("duration", 0), slog.String("trigger", "tick"))
	assert.NotContains(t, buf.String(), `"duration"`)
	assert.Contains(t, buf.String(), `"trigger":"tick"`)

	buf.Reset()
	LogOperation(logger, "poll_complete", slog.Duration("duration", time.Second))
	assert.Contains(t, buf.String(), `"duration"`)
}

func TestLogHTTPRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogHTTPRequest(logger, "GET", "/api/stops/14225", 200, 12.5)

	output := buf.String()
	assert.Contains(t, output, `"msg":"http_request"`)
	assert.Contains(t, output, `"method":"GET"`)
	assert.Contains(t, output, `"path":"/api/stops/14225"`)
	assert.Contains(t, output, `"status":200`)
	assert.Contains(t, output, `"duration_ms":12.5`)
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
