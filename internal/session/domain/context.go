package domain

import "context"

type contextKey struct{}

// ContextWithSession stores the authenticated session in ctx.
func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

// FromContext returns the authenticated session, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(contextKey{}).(*Session)
	return session, ok && session != nil
}
