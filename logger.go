package sdf

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record and reports itself disabled so callers skip
// formatting altogether.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(discard{}))
}

// SetLogger sets the logger used by sdf and its sub-packages. The library is
// silent by default. Passing nil restores the silent logger.
//
// Only debug level records are emitted: cache resets, root finder fallbacks,
// fillet corner edits and voxeliser runs.
//
//	sdf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//		Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discard{})
	}
	logger.Store(l)
}

// Logger returns the current package logger. It is never nil.
func Logger() *slog.Logger {
	return logger.Load()
}
