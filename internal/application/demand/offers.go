package demand

import (
	"context"

	"coown-backend/internal/application/workflow"
	"coown-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

const msgOfferOpened = "Public offer opened."

// OpenPublicOffer moves a property whose goal is met into public offer.
func (s *Service) OpenPublicOffer(ctx context.Context, propertyID string) Result {
	const op = "open_public_offer"

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.propertyIdx[propertyID]
	if !ok {
		return s.reject(op, domain.ErrPropertyNotFound)
	}
	before := s.properties[idx]
	if !before.GoalMet() {
		return s.reject(op, domain.ErrGoalNotMet)
	}
	if !workflow.CanOpenOffer(before.Status) {
		return s.reject(op, domain.ErrOfferNotAllowed)
	}
	if err := workflow.Validate(before.Status, domain.StatusPublicOffer); err != nil {
		return s.reject(op, err)
	}

	after := before
	after.Status = domain.StatusPublicOffer
	event := s.newEvent(ctx, after, s.user.ID, domain.EventStageChange, 0, before.Status, after.Status, s.clock())
	if err := s.events.Append(event); err != nil {
		return s.reject(op, err)
	}
	s.properties[idx] = after
	s.persistLocked()

	log.Debug().Str("op", op).Str("property_id", propertyID).Str("status_after", string(after.Status)).Msg("public offer opened")
	return Result{OK: true, Message: msgOfferOpened, Status: after.Status}
}
