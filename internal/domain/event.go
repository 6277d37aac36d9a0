package domain

import "time"

type EventType string

const (
	EventTypeCreated      EventType = "created"
	EventTypeRemoved      EventType = "removed"
	EventTypeStatusChange EventType = "status_change"
)

func (et EventType) IsValid() bool {
	switch et {
	case EventTypeCreated,
		EventTypeRemoved,
		EventTypeStatusChange:
		return true
	}
	return false
}

// Event is a normalized container event as delivered to stream subscribers.
// Time is the instant the raw event was normalized, not the daemon's event time.
type Event struct {
	Type      EventType `json:"type"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Status    string    `json:"status"`
	RawStatus string    `json:"raw_status"`
	Time      time.Time `json:"time"`
}
