package domain

import "time"

type EventType string

const (
	EventCreate      EventType = "CREATE"
	EventUpdate      EventType = "UPDATE"
	EventCancel      EventType = "CANCEL"
	EventFulfill     EventType = "FULFILL"
	EventStageChange EventType = "STAGE_CHANGE"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventCreate, EventUpdate, EventCancel, EventFulfill, EventStageChange:
		return true
	}
	return false
}

type Channel string

const (
	ChannelWeb Channel = "web"
	ChannelApp Channel = "app"
)

// DemandEvent is an immutable audit record of a state-affecting action.
type DemandEvent struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	PropertyID   string          `json:"property_id"`
	RegionCode   string          `json:"region_code"`
	EventType    EventType       `json:"event_type"`
	IntentAmount float64         `json:"intent_amount"`
	StatusBefore *PropertyStatus `json:"status_before,omitempty"`
	StatusAfter  *PropertyStatus `json:"status_after,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	SessionID    string          `json:"session_id"`
	Channel      Channel         `json:"channel"`
}
