package health

import (
	"errors"

	healthsvc "coown-backend/internal/application/health"
	"coown-backend/internal/middleware"
	"coown-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const serviceName = "coown-demand-api"

// Handlers holds dependencies for health endpoints. Rdb, DB and Persistence
// may each be nil.
type Handlers struct {
	Rdb         *redis.Client
	DB          healthsvc.DBPinger
	Persistence healthsvc.PersistenceStats
}

func (h *Handlers) deps() healthsvc.Deps {
	return healthsvc.Deps{Rdb: h.Rdb, DB: h.DB, Persistence: h.Persistence}
}

// Summary handles GET /.
func (h *Handlers) Summary(c *fiber.Ctx) error {
	result := healthsvc.CollectHealth(c.UserContext(), h.deps())
	return c.JSON(fiber.Map{
		"service":     serviceName,
		"status":      result.Status,
		"uptime":      result.Runtime.UptimeSeconds,
		"persistence": result.Persistence.Backend,
	})
}

// JSON handles GET /health/json: status, runtime, traffic, persistence and dependencies.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := healthsvc.CollectHealth(c.UserContext(), h.deps())
	return c.JSON(fiber.Map{
		"service":      serviceName,
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"persistence":  result.Persistence,
		"dependencies": result.Dependencies,
	})
}

// Reset handles POST /health/reset. The route is guarded by the admin key.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if err := healthsvc.ResetTraffic(c.UserContext(), h.Rdb); err != nil {
		if errors.Is(err, healthsvc.ErrNoRedis) {
			return response.Error(c, err.Error(), fiber.StatusServiceUnavailable, nil)
		}
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// Errors handles GET /health/errors: the last logged server errors, newest first.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	entries, err := healthsvc.RecentErrors(c.UserContext(), h.Rdb, middleware.ErrorLogSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]interface{}{})
	}
	return c.JSON(entries)
}
