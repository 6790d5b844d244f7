package pipemagic

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so SetLogger can
// be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by the scheduler, executors, and the
// gpu package. By default pipemagic produces no log output.
//
// Log levels used throughout this module:
//   - [slog.LevelInfo]: GPU device acquisition
//   - [slog.LevelWarn]: GPU init failure, GPU device loss, and the outline
//     executor's GPU-to-CPU fallback
//
// The scheduler does not log node transitions, cache hits or executor
// failures (those surface through Options callbacks), and the
// segmentation provider does not log its webgpu-to-wasm retry.
//
// SetLogger is safe for concurrent use. Pass nil to restore silent behavior.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages (gpu, executor, internal/*)
// call this to share logging configuration without an import cycle.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
