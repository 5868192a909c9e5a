// Package eventlog is the append-only demand event trail. The store is its
// only writer; analytics reads copies.
package eventlog

import (
	"errors"

	"coown-backend/internal/domain"
)

var (
	ErrMissingID   = errors.New("demand event id is required")
	ErrUnknownType = errors.New("unknown demand event type")
)

// Log is not safe for concurrent use on its own; the store serialises access
// under its lock.
type Log struct {
	events []domain.DemandEvent
}

// New returns a log seeded with existing events, oldest first.
func New(existing []domain.DemandEvent) *Log {
	return &Log{events: append([]domain.DemandEvent(nil), existing...)}
}

// Validate checks events without appending them.
func Validate(events ...domain.DemandEvent) error {
	for _, e := range events {
		if e.ID == "" {
			return ErrMissingID
		}
		if !e.EventType.Valid() {
			return ErrUnknownType
		}
	}
	return nil
}

// Append adds events in order. Either all are appended or none.
func (l *Log) Append(events ...domain.DemandEvent) error {
	if err := Validate(events...); err != nil {
		return err
	}
	l.events = append(l.events, events...)
	return nil
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	return len(l.events)
}

// Events returns a copy of all events, oldest first.
func (l *Log) Events() []domain.DemandEvent {
	return append(make([]domain.DemandEvent, 0, len(l.events)), l.events...)
}

// Recent returns up to limit events, newest first. limit <= 0 means all.
func (l *Log) Recent(limit int) []domain.DemandEvent {
	n := len(l.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.DemandEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.events[i])
	}
	return out
}
