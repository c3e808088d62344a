package context

import (
	"context"
)

const contextKeySession = contextKey("session")

// Session identifies the authenticated user of the current shell session.
// It is established exactly once, after a successful login, and threaded
// through every access-layer call instead of living in ambient state.
type Session struct {
	UserID   int64
	Username string
}

// WithSession creates a new context carrying the given session.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, contextKeySession, session)
}

// SessionFromContext extracts the session from the context.
// Returns the session and true if present, or a zero session and false if not.
func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(contextKeySession).(Session)

	return session, ok
}
