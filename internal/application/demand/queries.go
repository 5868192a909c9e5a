package demand

import "coown-backend/internal/domain"

// GetPropertyByID looks up a property.
func (s *Service) GetPropertyByID(id string) (domain.Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.propertyIdx[id]
	if !ok {
		return domain.Property{}, false
	}
	return s.properties[i], true
}

// GetActiveReservation returns the user's ACTIVE reservation on a property.
// At most one is expected; if several exist the newest wins.
func (s *Service) GetActiveReservation(userID, propertyID string) (domain.Reservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.reservations) - 1; i >= 0; i-- {
		r := s.reservations[i]
		if r.UserID == userID && r.PropertyID == propertyID && r.Status == domain.ReservationActive {
			return r, true
		}
	}
	return domain.Reservation{}, false
}

// Properties lists properties in catalogue order, optionally filtered.
func (s *Service) Properties(status domain.PropertyStatus) []domain.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Property, 0, len(s.properties))
	for _, p := range s.properties {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// User returns the acting user's profile.
func (s *Service) User() domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// ReservationsFor lists a user's reservations, newest first.
func (s *Service) ReservationsFor(userID string) []domain.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Reservation{}
	for i := len(s.reservations) - 1; i >= 0; i-- {
		if s.reservations[i].UserID == userID {
			out = append(out, s.reservations[i])
		}
	}
	return out
}

// HoldingsFor lists a user's holdings, newest first.
func (s *Service) HoldingsFor(userID string) []domain.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Holding{}
	for i := len(s.holdings) - 1; i >= 0; i-- {
		if s.holdings[i].UserID == userID {
			out = append(out, s.holdings[i])
		}
	}
	return out
}

// RecentEvents returns up to limit demand events, newest first.
func (s *Service) RecentEvents(limit int) []domain.DemandEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.Recent(limit)
}
