package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/errdefs"

	"github.com/auto-dns/mira-gateway/internal/domain"
	"github.com/auto-dns/mira-gateway/internal/util"
)

const untaggedRef = "<none>:<none>"

func (c *Client) ListImages(ctx context.Context) ([]domain.ImageSummary, error) {
	images, err := c.api.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return util.Map(images, func(img image.Summary) domain.ImageSummary {
		return domain.ImageSummary{
			ID:        img.ID,
			RepoTags:  taggedOnly(img.RepoTags),
			SizeBytes: img.Size,
			Created:   time.Unix(img.Created, 0).UTC().Format(time.RFC3339),
		}
	}), nil
}

// GetImage inspects an image and lists every container created from it.
func (c *Client) GetImage(ctx context.Context, id string) (domain.ImageDetail, error) {
	img, _, err := c.api.ImageInspectWithRaw(ctx, id)
	if errdefs.IsNotFound(err) && strings.TrimSpace(id) != id {
		img, _, err = c.api.ImageInspectWithRaw(ctx, strings.TrimSpace(id))
	}
	if err != nil {
		return domain.ImageDetail{}, wrapErr(err, "image", id)
	}

	users, err := c.api.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("ancestor", img.ID)),
	})
	if err != nil {
		return domain.ImageDetail{}, fmt.Errorf("list containers for image %s: %w", img.ID, err)
	}

	labels := map[string]string{}
	if img.Config != nil && img.Config.Labels != nil {
		labels = img.Config.Labels
	}

	return domain.ImageDetail{
		ImageSummary: domain.ImageSummary{
			ID:        img.ID,
			RepoTags:  taggedOnly(img.RepoTags),
			SizeBytes: img.Size,
			Created:   img.Created,
		},
		Labels: labels,
		Containers: util.Map(users, func(ctr container.Summary) domain.ImageContainerRef {
			state := ctr.State
			if state == "" {
				state = "unknown"
			}
			return domain.ImageContainerRef{
				ID:     ctr.ID,
				Name:   containerName(ctr.Names),
				State:  state,
				Status: ctr.Status,
			}
		}),
	}, nil
}

// RemoveImage deletes an image. With force it behaves like `docker rmi -f`.
func (c *Client) RemoveImage(ctx context.Context, id string, force bool) error {
	_, err := c.api.ImageRemove(ctx, id, image.RemoveOptions{Force: force, PruneChildren: true})
	return wrapErr(err, "image", id)
}

// taggedOnly drops the placeholder reference the daemon reports for
// untagged images.
func taggedOnly(tags []string) []string {
	return util.Filter(tags, func(t string) bool { return t != "" && t != untaggedRef })
}
