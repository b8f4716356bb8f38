// ABOUTME: Session context for tracking identity through request handlers
// ABOUTME: Provides WithSession/FromContext for propagating auth info via context

package auth

import (
	"context"

	"github.com/LuisRuivo21/task-app/internal/store"
)

// Session holds the authenticated identity resolved from a request.
// Token is the raw bearer string; logout needs it to revoke exactly the
// presenting session.
type Session struct {
	Account *store.Account
	Token   string
}

// sessionContextKey is the key type for storing a Session in context.Context.
type sessionContextKey struct{}

// WithSession returns a new context with the Session attached.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// FromContext retrieves the Session from the context, returning nil if not present.
func FromContext(ctx context.Context) *Session {
	val := ctx.Value(sessionContextKey{})
	if val == nil {
		return nil
	}
	session, ok := val.(*Session)
	if !ok {
		return nil
	}
	return session
}

// MustFromContext retrieves the Session from the context, panicking if not present.
func MustFromContext(ctx context.Context) *Session {
	session := FromContext(ctx)
	if session == nil {
		panic("auth: Session not found in context")
	}
	return session
}
