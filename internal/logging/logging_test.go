package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabula/tabula/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("anything else"))
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	multi := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	}}

	logger := slog.New(multi)
	logger.Info("hello", "k", "v")

	assert.Contains(t, a.String(), "hello")
	assert.Contains(t, b.String(), `"msg":"hello"`)
}

func TestMultiHandlerEnabled(t *testing.T) {
	var buf bytes.Buffer
	multi := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}

	ctx := context.Background()
	assert.True(t, multi.Enabled(ctx, slog.LevelDebug))
	assert.True(t, multi.Enabled(ctx, slog.LevelError))
}

func TestMultiHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	multi := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&buf, nil),
	}}

	logger := slog.New(multi).With("session", "abc")
	logger.Info("tagged")
	assert.Contains(t, buf.String(), "session=abc")
}

func TestSetupWithoutSeq(t *testing.T) {
	logger, cleanup := Setup(config.LogConfig{Level: "info", Format: "text"})
	require.NotNil(t, logger)
	cleanup()
}
