package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/errdefs"
	"github.com/rs/zerolog"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

// Client projects daemon state into the API's snapshot shapes. It holds the
// process-wide SDK client by reference and never mutates it.
type Client struct {
	api    dockerAPI
	logger zerolog.Logger
	now    func() time.Time
}

func NewClient(api dockerAPI, logger zerolog.Logger) *Client {
	return &Client{
		api:    api,
		logger: logger.With().Str("component", "docker").Logger(),
		now:    time.Now,
	}
}

// Ping checks that the daemon answers.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.Ping(ctx); err != nil {
		return fmt.Errorf("ping docker daemon: %w", err)
	}
	return nil
}

// wrapErr translates daemon errors onto domain sentinels.
func wrapErr(err error, kind, id string) error {
	switch {
	case err == nil:
		return nil
	case errdefs.IsNotFound(err):
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	case errdefs.IsConflict(err):
		return fmt.Errorf("%s %s: %w: %v", kind, id, domain.ErrConflict, err)
	case errdefs.IsInvalidParameter(err):
		return fmt.Errorf("%s %s: %w: %v", kind, id, domain.ErrInvalid, err)
	}
	return fmt.Errorf("%s %s: %w", kind, id, err)
}
