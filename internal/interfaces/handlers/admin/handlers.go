package admin

import (
	"context"

	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Store interface {
	ResetTo(snap domain.Snapshot, wipe func() error) error
}

type Resetter interface {
	Reset(ctx context.Context) error
}

type Handlers struct {
	Store       Store
	// Persistence is nil when no backend is configured.
	Persistence Resetter
	Seed        func() (domain.Snapshot, error)
}

// ResetState handles POST /api/v1/admin/reset-state. It clears persisted
// state and restores the store to the seed snapshot in one step, so a
// concurrent mutation lands either before both or after both.
func (h *Handlers) ResetState(c *fiber.Ctx) error {
	snap, err := h.Seed()
	if err != nil {
		return err
	}
	var wipe func() error
	if h.Persistence != nil {
		ctx := c.UserContext()
		wipe = func() error { return h.Persistence.Reset(ctx) }
	}
	if err := h.Store.ResetTo(snap, wipe); err != nil {
		log.Error().Err(err).Msg("admin reset: clear persisted state")
		return response.Error(c, "Could not clear persisted state", fiber.StatusBadGateway, nil)
	}
	log.Warn().Int("properties", len(snap.Properties)).Msg("demand state reset to seed")
	return response.Success(c, "State reset to seed", fiber.Map{"properties": len(snap.Properties)}, nil)
}
