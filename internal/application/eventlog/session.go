package eventlog

import (
	"context"

	"coown-backend/internal/domain"
)

// Session tags the events produced by one client session.
type Session struct {
	ID      string
	Channel domain.Channel
}

type sessionKey struct{}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session attached to ctx, or fallback. A missing
// channel defaults to web.
func SessionFrom(ctx context.Context, fallback Session) Session {
	s := fallback
	if ctx != nil {
		if v, ok := ctx.Value(sessionKey{}).(Session); ok && v.ID != "" {
			s = v
		}
	}
	if s.Channel == "" {
		s.Channel = domain.ChannelWeb
	}
	return s
}
