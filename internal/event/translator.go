package event

import (
	"sort"
	"strings"
	"time"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

const containerType = "container"

type mapping struct {
	eventType domain.EventType
	status    string
}

// actionMappings lists every daemon action that produces a domain event.
var actionMappings = map[string]mapping{
	"create":  {domain.EventTypeCreated, "created"},
	"destroy": {domain.EventTypeRemoved, "removed"},
	"start":   {domain.EventTypeStatusChange, "running"},
	"restart": {domain.EventTypeStatusChange, "running"},
	"unpause": {domain.EventTypeStatusChange, "running"},
	"stop":    {domain.EventTypeStatusChange, "exited"},
	"kill":    {domain.EventTypeStatusChange, "exited"},
	"die":     {domain.EventTypeStatusChange, "exited"},
	"pause":   {domain.EventTypeStatusChange, "paused"},
}

// MappedActions returns the daemon actions Translate accepts.
func MappedActions() []string {
	actions := make([]string, 0, len(actionMappings))
	for a := range actionMappings {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	return actions
}

// Translate maps a raw daemon event onto the domain taxonomy. The second
// return value is false when the event is not a container event, carries an
// unmapped action or has no id.
func Translate(raw RawEvent, now time.Time) (domain.Event, bool) {
	if raw.Type != containerType || raw.ID == "" {
		return domain.Event{}, false
	}

	rawStatus := strings.ToLower(raw.Status)
	m, ok := actionMappings[rawStatus]
	if !ok {
		return domain.Event{}, false
	}

	name := raw.ActorName
	if name == "" {
		name = raw.ID
		if len(name) > 12 {
			name = name[:12]
		}
	}

	return domain.Event{
		Type:      m.eventType,
		ID:        raw.ID,
		Name:      name,
		Image:     raw.ActorImage,
		Status:    m.status,
		RawStatus: rawStatus,
		Time:      now.UTC(),
	}, true
}
