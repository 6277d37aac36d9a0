package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/volume"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

func (c *Client) ListVolumes(ctx context.Context) ([]domain.VolumeSummary, error) {
	resp, err := c.api.VolumeList(ctx, volume.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list volumes: %w", err)
	}
	for _, w := range resp.Warnings {
		c.logger.Warn().Msg(w)
	}

	vols := make([]domain.VolumeSummary, 0, len(resp.Volumes))
	for _, v := range resp.Volumes {
		if v == nil {
			continue
		}
		labels := v.Labels
		if labels == nil {
			labels = map[string]string{}
		}
		vols = append(vols, domain.VolumeSummary{
			Name:       v.Name,
			Driver:     v.Driver,
			Mountpoint: v.Mountpoint,
			Labels:     labels,
			CreatedAt:  parseCreatedAt(v.CreatedAt),
		})
	}
	return vols, nil
}

// parseCreatedAt returns nil for an empty or malformed timestamp.
func parseCreatedAt(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}
