package event

import (
	"context"

	"github.com/docker/docker/api/types/events"
)

// Source opens a daemon event subscription. The returned channels stop
// delivering once ctx is cancelled or the daemon connection fails.
type Source interface {
	Events(ctx context.Context, options events.ListOptions) (<-chan events.Message, <-chan error)
}
