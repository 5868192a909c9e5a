package domain

import "errors"

// Error kinds. Every domain error wraps exactly one of these, so callers can
// branch with errors.Is(err, domain.ErrNotFound) and still show err.Error().
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrState      = errors.New("state error")
)

var (
	ErrInvalidAmount         = kindError(ErrValidation, "Enter a valid reservation amount.")
	ErrLimitExceeded         = kindError(ErrValidation, "Amount exceeds your reservation limit. Enter an amount within the limit.")
	ErrPropertyNotFound      = kindError(ErrNotFound, "Property not found.")
	ErrReservationNotFound   = kindError(ErrNotFound, "Reservation not found.")
	ErrReservationsClosed    = kindError(ErrState, "Reservations are not accepted at the current stage.")
	ErrGoalNotMet            = kindError(ErrState, "Funding goal not met; the public offer cannot be opened.")
	ErrOfferNotAllowed       = kindError(ErrState, "The public offer cannot be opened at the current stage.")
	ErrReservationProcessed  = kindError(ErrState, "This reservation has already been processed.")
	ErrFulfillmentNotAllowed = kindError(ErrState, "Reservations cannot be fulfilled at the current stage.")
	ErrIllegalTransition     = kindError(ErrState, "Illegal property status transition.")
)

type domainError struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

func (e *domainError) Error() string { return e.msg }

func (e *domainError) Unwrap() error { return e.kind }

// KindOf returns a short machine name for the error's kind, or "" when err is
// not a domain error.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrState):
		return "state"
	default:
		return ""
	}
}
