package session

import "context"

// Session identifies the signed-in user for a request.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type contextKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session, or false when the request is anonymous.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	if !ok || s.UserID == "" {
		return Session{}, false
	}
	return s, true
}
