package middleware

import (
	"strings"

	"coown-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORSConfig holds CORS configuration (suffix + dev password).
type CORSConfig struct {
	AllowedSuffix string
	DevPassword   string
}

const corsAllowHeaders = "Content-Type, dev-password, X-Client-Channel, X-Trace-Id, X-Admin-Key"

// CORS allows origins ending with AllowedSuffix, local development origins,
// and requests carrying the correct dev-password header. Credentials are
// allowed. Other cross-origin requests get 403.
func CORS(cfg CORSConfig) fiber.Handler {
	allowed := func(origin string) bool {
		o := strings.ToLower(origin)
		if strings.HasPrefix(o, "http://localhost:") || strings.HasPrefix(o, "http://127.0.0.1:") {
			return true
		}
		return cfg.AllowedSuffix != "" && strings.HasSuffix(o, strings.ToLower(cfg.AllowedSuffix))
	}
	handler := cors.New(cors.Config{
		AllowOriginsFunc: allowed,
		AllowCredentials: true,
		AllowHeaders:     corsAllowHeaders,
		ExposeHeaders:    traceIDHeader,
	})

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		// No origin (e.g. same-origin or tools): allow
		if origin == "" {
			return c.Next()
		}
		if cfg.DevPassword != "" && c.Get("dev-password") == cfg.DevPassword {
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
			c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
			c.Set(fiber.HeaderAccessControlAllowHeaders, corsAllowHeaders)
			return c.Next()
		}
		if !allowed(origin) {
			return response.Forbidden(c, "Not allowed by CORS")
		}
		return handler(c)
	}
}
