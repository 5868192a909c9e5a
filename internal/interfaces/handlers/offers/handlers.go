package offers

import (
	"context"

	"coown-backend/internal/application/demand"
	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/response"
	"coown-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Opener interface {
	OpenPublicOffer(ctx context.Context, propertyID string) demand.Result
}

type Handlers struct {
	Store Opener
}

// Open handles POST /api/v1/properties/:id/open-offer.
func (h *Handlers) Open(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validation.IsValidID(id) {
		return response.DomainError(c, domain.ErrPropertyNotFound)
	}
	res := h.Store.OpenPublicOffer(c.UserContext(), id)
	if !res.OK {
		return response.DomainError(c, res.Err)
	}
	return response.Success(c, res.Message, res, nil)
}
