package domain

import "time"

// Snapshot is the full entity state plus the demand event log. Values handed
// out by the store are deep copies; mutating them has no effect on the store.
type Snapshot struct {
	User         User          `json:"user"`
	Properties   []Property    `json:"properties"`
	Reservations []Reservation `json:"reservations"`
	Holdings     []Holding     `json:"holdings"`
	DemandEvents []DemandEvent `json:"demand_events"`
	// AsOf is the instant the snapshot was taken; time-windowed analytics
	// measure from it.
	AsOf time.Time `json:"as_of"`
}

// Valid reports whether a loaded snapshot is usable. A snapshot without a
// user or without any property is treated as absent.
func (s Snapshot) Valid() bool {
	return s.User.ID != "" && len(s.Properties) > 0
}

// Clone returns a copy that shares no slice storage with s. Pointer fields
// inside entities are never mutated in place, so they are shared.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Properties = append(make([]Property, 0, len(s.Properties)), s.Properties...)
	out.Reservations = append(make([]Reservation, 0, len(s.Reservations)), s.Reservations...)
	out.Holdings = append(make([]Holding, 0, len(s.Holdings)), s.Holdings...)
	out.DemandEvents = append(make([]DemandEvent, 0, len(s.DemandEvents)), s.DemandEvents...)
	return out
}

// StatusPtr returns a pointer to a copy of s, for optional event fields.
func StatusPtr(s PropertyStatus) *PropertyStatus {
	return &s
}
