// Package applog builds the engine's structured logger: a console
// handler chained to a file handler, adapted from the teacher's
// in-memory-handler-chained-to-file-handler shape, with the in-memory
// UI buffer dropped since this engine has no panel to show it on.
package applog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// multiHandler forwards every record to both the console and file
// handlers, mirroring the teacher's InMemoryHandler.Handle chaining
// step into its next handler.
type multiHandler struct {
	console slog.Handler
	file    slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.console.Enabled(ctx, r.Level) {
		if err := h.console.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	if h.file.Enabled(ctx, r.Level) {
		if err := h.file.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &multiHandler{console: h.console.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	return &multiHandler{console: h.console.WithGroup(name), file: h.file.WithGroup(name)}
}

// New opens <dir>/engine.log for append and returns a logger writing
// INFO and above to stderr and DEBUG and above to the log file,
// creating dir if needed.
func New(dir string) (*slog.Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("applog: create %s: %w", dir, err)
	}

	logFile, err := os.OpenFile(filepath.Join(dir, "engine.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("applog: open engine.log: %w", err)
	}

	console := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	file := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(&multiHandler{console: console, file: file}), nil
}
