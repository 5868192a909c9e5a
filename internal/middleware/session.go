package middleware

import (
	"strings"
	"time"

	"coown-backend/internal/application/eventlog"
	"coown-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "coown.sid"
	ChannelHeader     = "X-Client-Channel"
	sessionMaxAge     = 30 * 24 * time.Hour
	sessionLocal      = "client_session"
)

// SessionConfig controls the client session cookie.
type SessionConfig struct {
	IsProduction bool
}

// ClientSession tags each request with a client session. The id comes from
// the coown.sid cookie, which is issued when missing; the channel is "app"
// when X-Client-Channel says so and "web" otherwise. The session is attached
// to the request's user context for the demand store.
func ClientSession(cfg SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(SessionCookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
				HTTPOnly: true,
				Secure:   cfg.IsProduction,
				SameSite: "Lax",
			})
		}
		channel := domain.ChannelWeb
		if strings.EqualFold(strings.TrimSpace(c.Get(ChannelHeader)), string(domain.ChannelApp)) {
			channel = domain.ChannelApp
		}
		s := eventlog.Session{ID: "s-" + id, Channel: channel}
		c.Locals(sessionLocal, s)
		c.SetUserContext(eventlog.WithSession(c.UserContext(), s))
		return c.Next()
	}
}

// GetSession returns the client session from context.
func GetSession(c *fiber.Ctx) (eventlog.Session, bool) {
	s, ok := c.Locals(sessionLocal).(eventlog.Session)
	return s, ok
}
