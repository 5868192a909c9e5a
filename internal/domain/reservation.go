package domain

import "time"

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationFulfilled ReservationStatus = "FULFILLED"
	// ReservationCancelled is part of the model but no operation produces it.
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation is a user's capital commitment toward a property's goal.
type Reservation struct {
	ID         string            `json:"id" yaml:"id"`
	UserID     string            `json:"user_id" yaml:"user_id"`
	PropertyID string            `json:"property_id" yaml:"property_id"`
	Amount     float64           `json:"amount" yaml:"amount"`
	CreatedAt  time.Time         `json:"created_at" yaml:"created_at"`
	Status     ReservationStatus `json:"status" yaml:"status"`
}

// Committed reports whether the reservation counts toward its property's
// reserved amount.
func (r Reservation) Committed() bool {
	return r.Status == ReservationActive || r.Status == ReservationFulfilled
}

// Holding is the ownership stake created when a reservation is fulfilled.
// Holdings are never mutated or deleted.
type Holding struct {
	ID         string    `json:"id" yaml:"id"`
	UserID     string    `json:"user_id" yaml:"user_id"`
	PropertyID string    `json:"property_id" yaml:"property_id"`
	Amount     float64   `json:"amount" yaml:"amount"`
	AvgPrice   float64   `json:"avg_price" yaml:"avg_price"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}
