package log

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
)

// mirrorErrors controls whether error records also reach the console handler.
// Full screen views turn it off so stderr writes do not corrupt the screen.
var mirrorErrors atomic.Bool

func init() {
	mirrorErrors.Store(true)
}

// EnableErrorMirroring resumes mirroring error records to the console.
func EnableErrorMirroring() {
	mirrorErrors.Store(true)
}

// DisableErrorMirroring stops mirroring error records to the console.
func DisableErrorMirroring() {
	mirrorErrors.Store(false)
}

// NewDualHandler fans records out to primary (everything at its level) and
// secondary (error records only, while mirroring is enabled). Either may be nil.
func NewDualHandler(primary slog.Handler, secondary slog.Handler) slog.Handler {
	return &dualHandler{primary: primary, secondary: secondary}
}

type dualHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primaryEnabled(ctx, level) || h.secondaryEnabled(ctx, level)
}

func (h *dualHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	if h.primaryEnabled(ctx, record.Level) {
		errs = append(errs, h.primary.Handle(ctx, record))
	}
	if h.secondaryEnabled(ctx, record.Level) {
		errs = append(errs, h.secondary.Handle(ctx, record.Clone()))
	}
	return errors.Join(errs...)
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(in slog.Handler) slog.Handler { return in.WithAttrs(attrs) })
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(in slog.Handler) slog.Handler { return in.WithGroup(name) })
}

func (h *dualHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	out := &dualHandler{}
	if h.primary != nil {
		out.primary = fn(h.primary)
	}
	if h.secondary != nil {
		out.secondary = fn(h.secondary)
	}
	return out
}

func (h *dualHandler) primaryEnabled(ctx context.Context, level slog.Level) bool {
	return h.primary != nil && h.primary.Enabled(ctx, level)
}

func (h *dualHandler) secondaryEnabled(ctx context.Context, level slog.Level) bool {
	return h.secondary != nil &&
		level >= slog.LevelError &&
		mirrorErrors.Load() &&
		h.secondary.Enabled(ctx, level)
}
