package docker

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/network"

	"github.com/auto-dns/mira-gateway/internal/domain"
	"github.com/auto-dns/mira-gateway/internal/util"
)

const defaultNetworkDriver = "bridge"

func (c *Client) ListNetworks(ctx context.Context) ([]domain.NetworkSummary, error) {
	nets, err := c.api.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list networks: %w", err)
	}
	return util.Map(nets, networkSummary), nil
}

func (c *Client) GetNetwork(ctx context.Context, id string) (domain.NetworkDetail, error) {
	n, err := c.api.NetworkInspect(ctx, id, network.InspectOptions{})
	if err != nil {
		return domain.NetworkDetail{}, wrapErr(err, "network", id)
	}

	labels := n.Labels
	if labels == nil {
		labels = map[string]string{}
	}
	refs := make([]domain.NetworkContainerRef, 0, len(n.Containers))
	for cid, ep := range n.Containers {
		var ipv4 *string
		if ep.IPv4Address != "" {
			addr, _, _ := strings.Cut(ep.IPv4Address, "/")
			ipv4 = &addr
		}
		refs = append(refs, domain.NetworkContainerRef{ID: cid, Name: ep.Name, IPv4Address: ipv4})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })

	return domain.NetworkDetail{
		NetworkSummary: networkSummary(n),
		Labels:         labels,
		Containers:     refs,
	}, nil
}

func (c *Client) CreateNetwork(ctx context.Context, req domain.NetworkCreateRequest) (domain.NetworkSummary, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.NetworkSummary{}, fmt.Errorf("network name is required: %w", domain.ErrInvalid)
	}
	opts := network.CreateOptions{Driver: req.Driver}
	if opts.Driver == "" {
		opts.Driver = defaultNetworkDriver
	}
	if req.Internal != nil {
		opts.Internal = *req.Internal
	}
	if req.Attachable != nil {
		opts.Attachable = *req.Attachable
	}

	resp, err := c.api.NetworkCreate(ctx, req.Name, opts)
	if err != nil {
		return domain.NetworkSummary{}, wrapErr(err, "create network", req.Name)
	}
	if resp.Warning != "" {
		c.logger.Warn().Str("network_id", resp.ID).Msg(resp.Warning)
	}
	c.logger.Info().Str("network_id", resp.ID).Str("name", req.Name).Msg("Network created")

	n, err := c.api.NetworkInspect(ctx, resp.ID, network.InspectOptions{})
	if err != nil {
		return domain.NetworkSummary{}, wrapErr(err, "network", resp.ID)
	}
	return networkSummary(n), nil
}

// RemoveNetwork deletes a user network. The daemon's built-in networks are
// refused with domain.ErrProtected.
func (c *Client) RemoveNetwork(ctx context.Context, id string) error {
	n, err := c.api.NetworkInspect(ctx, id, network.InspectOptions{})
	if err != nil {
		return wrapErr(err, "network", id)
	}
	if slices.Contains(domain.SystemNetworks, n.Name) {
		return fmt.Errorf("cannot delete system network %s: %w", n.Name, domain.ErrProtected)
	}
	if err := c.api.NetworkRemove(ctx, n.ID); err != nil {
		return wrapErr(err, "network", id)
	}
	c.logger.Info().Str("network_id", n.ID).Str("name", n.Name).Msg("Network removed")
	return nil
}

func networkSummary(n network.Inspect) domain.NetworkSummary {
	return domain.NetworkSummary{
		ID:     n.ID,
		Name:   n.Name,
		Driver: n.Driver,
		Scope:  n.Scope,
	}
}
