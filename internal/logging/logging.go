// Package logging sets up the shell's structured logger: a console
// handler, optionally fanned out to a Seq sink when one is configured.
package logging

import (
	"context"
	"log/slog"
	"os"
	"time"

	slogseq "github.com/sokkalf/slog-seq"

	"github.com/tabula/tabula/internal/config"
)

// multiHandler forwards log records to multiple handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// Setup builds the logger described by cfg and returns it with a cleanup
// function that flushes the Seq handler, if any.
func Setup(cfg config.LogConfig) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var console slog.Handler
	if cfg.Format == "json" {
		console = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		console = slog.NewTextHandler(os.Stderr, opts)
	}

	if cfg.SeqURL == "" {
		return slog.New(console), func() {}
	}

	_, seqHandler := slogseq.NewLogger(
		cfg.SeqURL,
		slogseq.WithBatchSize(1),
		slogseq.WithFlushInterval(500*time.Millisecond),
		slogseq.WithHandlerOptions(opts),
	)
	if seqHandler == nil {
		return slog.New(console), func() {}
	}

	multi := &multiHandler{handlers: []slog.Handler{console, seqHandler}}
	return slog.New(multi), func() { seqHandler.Close() }
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
