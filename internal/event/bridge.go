package event

import (
	"context"
	"time"

	"github.com/docker/docker/api/types/events"
	"github.com/docker/docker/api/types/filters"
	"github.com/rs/zerolog"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

const defaultBufferSize = 100

// Bridge adapts the daemon's blocking event subscription into an ordered
// channel of domain events. Every Subscribe call opens its own upstream
// subscription; nothing is shared between subscribers.
type Bridge struct {
	logger     zerolog.Logger
	src        Source
	bufferSize int
	now        func() time.Time
}

func NewBridge(src Source, bufferSize int, logger zerolog.Logger) *Bridge {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Bridge{
		logger:     logger.With().Str("component", "event_bridge").Logger(),
		src:        src,
		bufferSize: bufferSize,
		now:        time.Now,
	}
}

// Subscribe starts forwarding translated events until ctx is cancelled or
// the upstream subscription ends, then closes the returned channel.
// Upstream failures are logged and end the stream; they are not retried.
func (b *Bridge) Subscribe(ctx context.Context) <-chan domain.Event {
	out := make(chan domain.Event, b.bufferSize)

	filterArgs := filters.NewArgs()
	filterArgs.Add("type", containerType)
	for _, action := range MappedActions() {
		filterArgs.Add("event", action)
	}
	eventCh, errCh := b.src.Events(ctx, events.ListOptions{Filters: filterArgs})

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				b.logger.Debug().Msg("Event bridge cancelled by context")
				return
			case err, ok := <-errCh:
				if !ok {
					errCh = nil
					continue
				}
				if err != nil && ctx.Err() == nil {
					b.logger.Warn().Err(err).Msg("Docker events stream ended")
				}
				return
			case msg, ok := <-eventCh:
				if !ok {
					b.logger.Info().Msg("Docker events channel closed")
					return
				}

				ev, accepted := Translate(fromEventsMessage(msg), b.now())
				if !accepted {
					b.logger.Debug().Str("type", string(msg.Type)).Str("action", string(msg.Action)).Msg("Dropping untranslatable event")
					continue
				}

				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
