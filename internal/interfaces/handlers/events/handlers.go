package events

import (
	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/response"
	"coown-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Source interface {
	RecentEvents(limit int) []domain.DemandEvent
}

type Handlers struct {
	Store Source
}

// Recent handles GET /api/v1/demand-events?limit=N, newest first.
func (h *Handlers) Recent(c *fiber.Ctx) error {
	limit := validation.ParseLimit(c.Query("limit"), defaultLimit, maxLimit)
	list := h.Store.RecentEvents(limit)
	return response.Success(c, "Demand events fetched successfully", list, fiber.Map{"count": len(list), "limit": limit})
}
