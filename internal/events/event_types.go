package events

import "time"

// EventType enumerates session lifecycle events.
type EventType string

const (
	EventSessionStarted  EventType = "session_started"
	EventSessionEnded    EventType = "session_ended"
	EventSessionEvicted  EventType = "session_evicted"
	EventSessionRejected EventType = "session_rejected"
)

// Eviction reasons carried by EventSessionEvicted.
const (
	ReasonMalformed = "malformed"
	ReasonExpired   = "expired"
	ReasonRejected  = "rejected"
	ReasonLogout    = "logout"
)

// Event represents a session lifecycle change.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Reason    string    `json:"reason,omitempty"`
	Role      string    `json:"role,omitempty"`
	Path      string    `json:"path,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
