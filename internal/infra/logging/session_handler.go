package logging

import (
	"context"
	"log/slog"

	context_ "github.com/mkrupp/todoshell/internal/infra/context"
)

// SessionHandler wraps another slog.Handler to stamp the session user and
// the per-command trace id from the context onto every log record.
type SessionHandler struct {
	h slog.Handler
}

var _ slog.Handler = (*SessionHandler)(nil)

// NewSessionHandler creates a new SessionHandler wrapping the given handler.
func NewSessionHandler(h slog.Handler) *SessionHandler {
	return &SessionHandler{h: h}
}

// Handle implements slog.Handler by adding session and trace information
// if available in the context before delegating to the wrapped handler.
func (h *SessionHandler) Handle(ctx context.Context, r slog.Record) error {
	if session, ok := context_.SessionFromContext(ctx); ok {
		r.AddAttrs(slog.Group("session",
			slog.Int64("userID", session.UserID),
			slog.String("username", session.Username),
		))
	}

	if traceID, ok := context_.TraceIDFromContext(ctx); ok {
		r.AddAttrs(slog.Group("trace",
			slog.String("id", traceID),
		))
	}

	//nolint:wrapcheck
	return h.h.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.WithAttrs.
func (h *SessionHandler) WithAttrs(attrs []slog.Attr) Handler {
	return NewSessionHandler(h.h.WithAttrs(attrs))
}

// WithGroup implements slog.Handler.WithGroup.
func (h *SessionHandler) WithGroup(name string) Handler {
	return NewSessionHandler(h.h.WithGroup(name))
}

// Enabled implements slog.Handler.Enabled.
func (h *SessionHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}
