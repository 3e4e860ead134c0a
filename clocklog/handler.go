// Package clocklog makes log output deterministic under a virtual clock.
//
// Handler is a slog.Handler that replaces each record's wall-clock
// timestamp with the clock's current local-offset instant before passing
// it on, so logs emitted during a test carry simulated time instead of
// whenever the test machine happened to run.
package clocklog

import (
	"context"
	"log/slog"

	"github.com/smnsjas/timewarp/clock"
)

// Handler is a slog.Handler that stamps records with virtual time.
type Handler struct {
	next  slog.Handler
	clock *clock.Clock
}

// NewHandler wraps next so every record it handles carries the clock's
// current instant.
func NewHandler(next slog.Handler, c *clock.Clock) *Handler {
	return &Handler{next: next, clock: c}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler. It rewrites the record time from the
// clock; a non-advancing read, so logging never moves simulated time.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	stamped := slog.NewRecord(h.clock.TZTime(), r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		stamped.AddAttrs(a)
		return true
	})
	return h.next.Handle(ctx, stamped)
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{next: h.next.WithAttrs(attrs), clock: h.clock}
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{next: h.next.WithGroup(name), clock: h.clock}
}
