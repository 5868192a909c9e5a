package demand

import (
	"context"

	"coown-backend/internal/application/workflow"
	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/money"

	"github.com/rs/zerolog/log"
)

const (
	msgReserved        = "Reservation recorded."
	msgReservedGoalMet = "Reservation recorded. Funding goal met; the property is now pending public offer."
	msgFulfilled       = "Reservation fulfilled."

	// A holding's average price is quoted in units of 100,000 KRW of target.
	avgPriceUnit = 100000
	trustBonus   = 10
	trustCap     = 100
	limitGrowth  = 0.2
)

// CreateReservation commits amount against a property that is open for
// reservations. The limit is checked per call, not against the user's
// outstanding total.
func (s *Service) CreateReservation(ctx context.Context, propertyID string, amount float64) Result {
	const op = "create_reservation"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !money.Valid(amount) || amount <= 0 {
		return s.reject(op, domain.ErrInvalidAmount)
	}
	if amount > s.user.ReservationLimit {
		return s.reject(op, domain.ErrLimitExceeded)
	}
	idx, ok := s.propertyIdx[propertyID]
	if !ok {
		return s.reject(op, domain.ErrPropertyNotFound)
	}
	before := s.properties[idx]
	if !workflow.CanReserve(before.Status) {
		return s.reject(op, domain.ErrReservationsClosed)
	}

	after := before
	after.ReservedAmount += amount
	after.VoterCount++
	after.Status = workflow.AfterFunding(after)
	changed := after.Status != before.Status
	if changed {
		if err := workflow.Validate(before.Status, after.Status); err != nil {
			return s.reject(op, err)
		}
	}

	now := s.clock()
	reservation := domain.Reservation{
		ID:         s.ids.NewID("r"),
		UserID:     s.user.ID,
		PropertyID: propertyID,
		Amount:     amount,
		CreatedAt:  now,
		Status:     domain.ReservationActive,
	}
	events := []domain.DemandEvent{
		s.newEvent(ctx, after, s.user.ID, domain.EventCreate, amount, before.Status, after.Status, now),
	}
	if changed {
		events = append(events, s.newEvent(ctx, after, s.user.ID, domain.EventStageChange, 0, before.Status, after.Status, now))
	}
	if err := s.events.Append(events...); err != nil {
		return s.reject(op, err)
	}

	s.properties[idx] = after
	s.reservations = append(s.reservations, reservation)
	s.reservIdx[reservation.ID] = len(s.reservations) - 1
	s.user.ReservedTotal += amount
	s.persistLocked()

	log.Debug().
		Str("op", op).
		Str("property_id", propertyID).
		Str("reservation_id", reservation.ID).
		Float64("amount", amount).
		Str("status_after", string(after.Status)).
		Msg("reservation recorded")

	msg := msgReserved
	if changed {
		msg = msgReservedGoalMet
	}
	return Result{OK: true, Message: msg, ReservationID: reservation.ID, Status: after.Status}
}

// FulfillReservation converts an ACTIVE reservation on a property in public
// offer into a holding. The property becomes TRADABLE once no ACTIVE
// reservation remains on it.
func (s *Service) FulfillReservation(ctx context.Context, reservationID string) Result {
	const op = "fulfill_reservation"

	s.mu.Lock()
	defer s.mu.Unlock()

	ri, ok := s.reservIdx[reservationID]
	if !ok {
		return s.reject(op, domain.ErrReservationNotFound)
	}
	reservation := s.reservations[ri]
	if reservation.Status != domain.ReservationActive {
		return s.reject(op, domain.ErrReservationProcessed)
	}
	pi, ok := s.propertyIdx[reservation.PropertyID]
	if !ok {
		return s.reject(op, domain.ErrPropertyNotFound)
	}
	before := s.properties[pi]
	if !workflow.CanFulfill(before.Status) {
		return s.reject(op, domain.ErrFulfillmentNotAllowed)
	}

	remaining := 0
	for i, r := range s.reservations {
		if i != ri && r.PropertyID == before.ID && r.Status == domain.ReservationActive {
			remaining++
		}
	}
	after := before
	after.Status = workflow.AfterFulfillment(before.Status, remaining)
	if after.Status != before.Status {
		if err := workflow.Validate(before.Status, after.Status); err != nil {
			return s.reject(op, err)
		}
	}

	now := s.clock()
	reservation.Status = domain.ReservationFulfilled
	holding := domain.Holding{
		ID:         s.ids.NewID("h"),
		UserID:     reservation.UserID,
		PropertyID: reservation.PropertyID,
		Amount:     reservation.Amount,
		AvgPrice:   money.Round(before.TargetPrice / avgPriceUnit),
		CreatedAt:  now,
	}
	user := s.user
	if reservation.UserID == user.ID {
		user = s.userAfterFulfillment(user, ri, holding)
	}
	event := s.newEvent(ctx, after, reservation.UserID, domain.EventFulfill, reservation.Amount, before.Status, after.Status, now)
	if err := s.events.Append(event); err != nil {
		return s.reject(op, err)
	}

	s.reservations[ri] = reservation
	s.holdings = append(s.holdings, holding)
	s.properties[pi] = after
	s.user = user
	s.persistLocked()

	log.Debug().
		Str("op", op).
		Str("reservation_id", reservationID).
		Str("holding_id", holding.ID).
		Str("status_after", string(after.Status)).
		Msg("reservation fulfilled")

	return Result{OK: true, Message: msgFulfilled, ReservationID: reservation.ID, HoldingID: holding.ID, Status: after.Status}
}

// userAfterFulfillment applies the aggregate updates for fulfilling the
// reservation at index ri into holding. It reads but does not modify store
// state.
func (s *Service) userAfterFulfillment(u domain.User, ri int, holding domain.Holding) domain.User {
	amount := holding.Amount

	var total, fulfilled int
	for i, r := range s.reservations {
		if r.UserID != u.ID {
			continue
		}
		total++
		if i == ri || r.Status == domain.ReservationFulfilled {
			fulfilled++
		}
	}

	var held, weighted float64
	for _, h := range append(s.holdingsOfLocked(u.ID), holding) {
		held += h.Amount
		weighted += h.Amount * h.AvgPrice
	}

	u.TrustScore = min(trustCap, u.TrustScore+trustBonus)
	u.ReservationFulfillmentRate = money.Percent(float64(fulfilled), float64(total))
	u.ReservationLimit += money.Round(amount * limitGrowth)
	u.Balance = max(0, u.Balance-amount)
	u.ReservedTotal = max(0, u.ReservedTotal-amount)
	u.PortfolioTotal += amount
	u.AvgBuyPrice = money.Round(money.Ratio(weighted, held))
	return u
}

// holdingsOfLocked returns the user's holdings in insertion order. The caller
// must hold the lock.
func (s *Service) holdingsOfLocked(userID string) []domain.Holding {
	out := []domain.Holding{}
	for _, h := range s.holdings {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out
}
