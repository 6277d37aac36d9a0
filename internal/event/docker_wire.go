package event

import (
	"github.com/docker/docker/api/types/events"
)

// RawEvent holds the fields of a daemon event the translator consumes.
type RawEvent struct {
	Type       string
	Status     string
	ID         string
	ActorName  string
	ActorImage string
}

func fromEventsMessage(msg events.Message) RawEvent {
	status := string(msg.Action)
	if status == "" {
		status = msg.Status
	}
	id := msg.Actor.ID
	if id == "" {
		id = msg.ID
	}
	return RawEvent{
		Type:       string(msg.Type),
		Status:     status,
		ID:         id,
		ActorName:  msg.Actor.Attributes["name"],
		ActorImage: msg.Actor.Attributes["image"],
	}
}
