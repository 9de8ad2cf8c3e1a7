package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fnhost/pkg/environment"
	"github.com/dmitrymomot/fnhost/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Run("creates JSON logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		require.NotNil(t, log)
		log.Info("hello")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text formatter option", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithTextFormatter())
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level filters records", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("skipped")
		assert.Empty(t, buf.String())
		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestWithMode(t *testing.T) {
	t.Run("development", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithMode(environment.Development, "svc"))
		log.Debug("msg")
		out := buf.String()
		assert.Contains(t, out, "DEBUG")
		assert.Contains(t, out, "service=svc")
		assert.Contains(t, out, "env=development")
	})

	t.Run("production", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithMode(environment.Production, "svc"))
		log.Debug("hidden")
		assert.Empty(t, buf.String())
		log.Info("msg")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "svc", entry["service"])
		assert.Equal(t, "production", entry["env"])
	})
}

type ctxKey struct{}

func TestContextExtractors(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextValue("trace", ctxKey{}),
		logger.WithContextExtractors(nil, environment.LoggerExtractor()),
	)
	ctx := context.WithValue(context.Background(), ctxKey{}, "t-1")
	ctx = environment.WithContext(ctx, environment.Production)
	log.With("a", 1).InfoContext(ctx, "hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "t-1", entry["trace"])
	assert.Equal(t, "production", entry["env"])
	assert.EqualValues(t, 1, entry["a"])
}

func TestContextExtractors_BoundKeyWins(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithTextFormatter(),
		logger.WithAttr(slog.String("env", "development")),
		logger.WithContextExtractors(environment.LoggerExtractor()),
	)
	ctx := environment.WithContext(context.Background(), environment.Production)

	log.InfoContext(ctx, "first")
	assert.Equal(t, 1, strings.Count(buf.String(), "env="), "extracted key is skipped when already bound")
	assert.Contains(t, buf.String(), "env=development")

	buf.Reset()
	log.WithGroup("req").InfoContext(ctx, "second")
	assert.Contains(t, buf.String(), "req.env=production", "a new group starts without bound keys")

	buf.Reset()
	log.WithGroup("req").With("env", "x").InfoContext(ctx, "third")
	assert.Equal(t, 1, strings.Count(buf.String(), "req.env="))
	assert.Contains(t, buf.String(), "req.env=x")
}

func TestNop(t *testing.T) {
	log := logger.Nop()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	assert.NotPanics(t, func() { log.With("a", 1).WithGroup("g").Error("x") })
}

func TestAttrs(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, "error", logger.Error(err).Key)
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))

	errs := logger.Errors(err, nil, err)
	require.Equal(t, slog.KindGroup, errs.Value.Kind())
	assert.Len(t, errs.Value.Group(), 2)
	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))

	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.Equal(t, "abc", logger.RequestID("abc").Value.String())
	assert.Equal(t, "hello", logger.Function("hello").Value.String())
	assert.Equal(t, int64(8080), logger.Port(8080).Value.Int64())
	assert.Equal(t, "terminated", logger.Signal(syscall.SIGTERM).Value.String())
	assert.True(t, logger.Signal(nil).Equal(slog.Attr{}))
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())

	g := logger.Group("req", logger.Method("GET"), logger.Path("/"))
	require.Equal(t, slog.KindGroup, g.Value.Kind())
	assert.Len(t, g.Value.Group(), 2)
}
