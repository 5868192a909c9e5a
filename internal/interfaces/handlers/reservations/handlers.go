package reservations

import (
	"context"
	"encoding/json"

	"coown-backend/internal/application/demand"
	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/response"
	"coown-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Store is the part of the demand store these handlers call.
type Store interface {
	CreateReservation(ctx context.Context, propertyID string, amount float64) demand.Result
	FulfillReservation(ctx context.Context, reservationID string) demand.Result
	ReservationsFor(userID string) []domain.Reservation
	HoldingsFor(userID string) []domain.Holding
	User() domain.User
}

type Handlers struct {
	Store Store
}

type createRequest struct {
	PropertyID string  `json:"property_id"`
	Amount     float64 `json:"amount"`
}

// Create handles POST /api/v1/reservations with {property_id, amount}.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	res := h.Store.CreateReservation(c.UserContext(), req.PropertyID, req.Amount)
	if !res.OK {
		return response.DomainError(c, res.Err)
	}
	return response.SuccessCreated(c, res.Message, res, nil)
}

// List handles GET /api/v1/reservations, newest first.
func (h *Handlers) List(c *fiber.Ctx) error {
	list := h.Store.ReservationsFor(h.Store.User().ID)
	return response.Success(c, "Reservations fetched successfully", list, fiber.Map{"count": len(list)})
}

// Fulfill handles POST /api/v1/reservations/:id/fulfill.
func (h *Handlers) Fulfill(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validation.IsValidID(id) {
		return response.DomainError(c, domain.ErrReservationNotFound)
	}
	res := h.Store.FulfillReservation(c.UserContext(), id)
	if !res.OK {
		return response.DomainError(c, res.Err)
	}
	return response.Success(c, res.Message, res, nil)
}

// Holdings handles GET /api/v1/holdings, newest first.
func (h *Handlers) Holdings(c *fiber.Ctx) error {
	list := h.Store.HoldingsFor(h.Store.User().ID)
	return response.Success(c, "Holdings fetched successfully", list, fiber.Map{"count": len(list)})
}

// Me handles GET /api/v1/me.
func (h *Handlers) Me(c *fiber.Ctx) error {
	return response.Success(c, "User fetched successfully", h.Store.User(), nil)
}
