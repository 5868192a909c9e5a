package middleware

import (
	"strings"

	"coown-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader carries the operator key for admin endpoints.
const AdminKeyHeader = "X-Admin-Key"

// RequireAdminKey admits requests whose X-Admin-Key (or ?key=) matches the
// bcrypt hash. With no hash configured every request is refused.
func RequireAdminKey(hash string) fiber.Handler {
	hashed := []byte(strings.TrimSpace(hash))
	return func(c *fiber.Ctx) error {
		if len(hashed) == 0 {
			return response.Forbidden(c, "Admin access is not configured")
		}
		key := c.Get(AdminKeyHeader)
		if key == "" {
			key = c.Query("key")
		}
		if key == "" || bcrypt.CompareHashAndPassword(hashed, []byte(key)) != nil {
			return response.Forbidden(c, "Unauthorized")
		}
		return c.Next()
	}
}
