package analytics

import (
	analyticsvc "coown-backend/internal/application/analytics"
	"coown-backend/internal/pkg/response"
	"coown-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultTop = 10
	maxTop     = 100
)

type Handlers struct {
	Service *analyticsvc.Service
}

// Kpi handles GET /api/v1/analytics/kpi.
func (h *Handlers) Kpi(c *fiber.Ctx) error {
	return response.Success(c, "KPI computed successfully", h.Service.Kpi(), nil)
}

// Regions handles GET /api/v1/analytics/regions.
func (h *Handlers) Regions(c *fiber.Ctx) error {
	regions := h.Service.Regions()
	return response.Success(c, "Region summaries computed successfully", regions, fiber.Map{"count": len(regions)})
}

// Funnel handles GET /api/v1/analytics/funnel.
func (h *Handlers) Funnel(c *fiber.Ctx) error {
	return response.Success(c, "Funnel computed successfully", h.Service.Funnel(), nil)
}

// PriorityBoard handles GET /api/v1/analytics/priority-board?top=N.
func (h *Handlers) PriorityBoard(c *fiber.Ctx) error {
	top := validation.ParseLimit(c.Query("top"), defaultTop, maxTop)
	board := h.Service.PriorityBoard(top)
	return response.Success(c, "Priority board computed successfully", board, fiber.Map{"count": len(board), "top": top})
}

// Dashboard handles GET /api/v1/analytics/dashboard?top=N.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	top := validation.ParseLimit(c.Query("top"), defaultTop, maxTop)
	return response.Success(c, "Dashboard computed successfully", h.Service.Dashboard(top), fiber.Map{"top": top})
}
