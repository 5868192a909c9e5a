// Package workflow holds the property status state machine. It is pure: no
// state, no I/O.
package workflow

import (
	"fmt"

	"coown-backend/internal/domain"
)

// CanReserve reports whether new reservations are accepted in status s.
func CanReserve(s domain.PropertyStatus) bool {
	return s == domain.StatusVotingOpen
}

// CanOpenOffer reports whether a public offer may be opened from status s.
func CanOpenOffer(s domain.PropertyStatus) bool {
	return s == domain.StatusVotingMet
}

// CanFulfill reports whether reservations may be fulfilled in status s.
func CanFulfill(s domain.PropertyStatus) bool {
	return s == domain.StatusPublicOffer
}

// Transition is one allowed edge of the lifecycle.
type Transition struct {
	From domain.PropertyStatus
	To   domain.PropertyStatus
}

// Forward-only. CLOSED has no inbound edge yet.
var transitions = []Transition{
	{From: domain.StatusDiscovery, To: domain.StatusVotingOpen},
	{From: domain.StatusVotingOpen, To: domain.StatusVotingMet},
	{From: domain.StatusVotingMet, To: domain.StatusPublicOffer},
	{From: domain.StatusPublicOffer, To: domain.StatusTradable},
}

// Transitions returns a copy of the transition table.
func Transitions() []Transition {
	return append([]Transition(nil), transitions...)
}

// CanTransition reports whether from → to is an edge of the table.
func CanTransition(from, to domain.PropertyStatus) bool {
	for _, t := range transitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// Validate returns domain.ErrIllegalTransition (wrapped with the edge) when
// from → to is not allowed.
func Validate(from, to domain.PropertyStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return fmt.Errorf("%s -> %s: %w", from, to, domain.ErrIllegalTransition)
}

// AfterFunding is the status a property moves to once its reserved amount
// changes. Every mutation that touches ReservedAmount goes through here so
// the goal-reached rule lives in one place.
func AfterFunding(p domain.Property) domain.PropertyStatus {
	if p.Status == domain.StatusVotingOpen && p.GoalMet() {
		return domain.StatusVotingMet
	}
	return p.Status
}

// AfterFulfillment is the status a property moves to after one of its
// reservations is fulfilled.
func AfterFulfillment(current domain.PropertyStatus, activeRemaining int) domain.PropertyStatus {
	if current == domain.StatusPublicOffer && activeRemaining == 0 {
		return domain.StatusTradable
	}
	return current
}
