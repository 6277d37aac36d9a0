package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"

	"github.com/auto-dns/mira-gateway/internal/domain"
	"github.com/auto-dns/mira-gateway/internal/normalize"
)

const (
	DefaultLogTail = 500
	MaxLogTail     = 5000
)

// ListContainers returns one summary per container. Stopped containers are
// included when all is true.
func (c *Client) ListContainers(ctx context.Context, all bool) ([]domain.ContainerSummary, error) {
	containers, err := c.api.ContainerList(ctx, container.ListOptions{All: all})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	names := c.imageNames(ctx)
	summaries := make([]domain.ContainerSummary, 0, len(containers))
	for _, ctr := range containers {
		imageName, ok := names[ctr.ImageID]
		if !ok {
			imageName = normalize.DisplayName(nil, normalize.ShortID(ctr.ImageID))
		}
		status := ctr.State
		if status == "" {
			status = "unknown"
		}
		summaries = append(summaries, domain.ContainerSummary{
			ID:     ctr.ID,
			Name:   containerName(ctr.Names),
			Image:  imageName,
			Status: status,
			State:  status,
			Ports:  normalize.ExpandPorts(summaryPorts(ctr)),
		})
	}
	return summaries, nil
}

// GetContainer inspects one container. CPU and memory figures are not
// sampled and stay nil.
func (c *Client) GetContainer(ctx context.Context, id string) (domain.ContainerDetail, error) {
	info, err := c.api.ContainerInspect(ctx, id)
	if err != nil {
		return domain.ContainerDetail{}, wrapErr(err, "container", id)
	}
	if info.ContainerJSONBase == nil {
		return domain.ContainerDetail{}, fmt.Errorf("container %s: empty inspect response", id)
	}

	detail := domain.ContainerDetail{
		ContainerSummary: domain.ContainerSummary{
			ID:     info.ID,
			Name:   strings.TrimPrefix(info.Name, "/"),
			Image:  c.imageName(ctx, info.Image),
			Status: "unknown",
			State:  "unknown",
			Ports:  normalize.ExpandPorts(inspectPorts(info)),
		},
	}
	if info.State != nil && info.State.Status != "" {
		detail.Status = info.State.Status
		detail.State = info.State.Status
	}
	if info.State != nil {
		detail.Uptime = normalize.FormatUptime(info.State.StartedAt, c.now())
	}
	return detail, nil
}

// ContainerLogs returns the last tail lines of stdout and stderr as text.
// Invalid UTF-8 is replaced rather than rejected.
func (c *Client) ContainerLogs(ctx context.Context, id string, tail int) (domain.ContainerLogs, error) {
	if tail < 1 || tail > MaxLogTail {
		return domain.ContainerLogs{}, fmt.Errorf("tail must be between 1 and %d: %w", MaxLogTail, domain.ErrInvalid)
	}

	info, err := c.api.ContainerInspect(ctx, id)
	if err != nil {
		return domain.ContainerLogs{}, wrapErr(err, "container", id)
	}

	rc, err := c.api.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       strconv.Itoa(tail),
	})
	if err != nil {
		return domain.ContainerLogs{}, wrapErr(err, "container logs", id)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if info.Config != nil && info.Config.Tty {
		_, err = io.Copy(&buf, rc)
	} else {
		_, err = stdcopy.StdCopy(&buf, &buf, rc)
	}
	if err != nil {
		return domain.ContainerLogs{}, fmt.Errorf("read logs for container %s: %w", id, err)
	}
	return domain.ContainerLogs{Content: strings.ToValidUTF8(buf.String(), "�")}, nil
}

func (c *Client) StartContainer(ctx context.Context, id string) error {
	return wrapErr(c.api.ContainerStart(ctx, id, container.StartOptions{}), "container", id)
}

func (c *Client) StopContainer(ctx context.Context, id string) error {
	return wrapErr(c.api.ContainerStop(ctx, id, container.StopOptions{}), "container", id)
}

func (c *Client) RestartContainer(ctx context.Context, id string) error {
	return wrapErr(c.api.ContainerRestart(ctx, id, container.StopOptions{}), "container", id)
}

// CreateContainer creates and starts a container, pulling the image first
// when the daemon does not have it.
func (c *Client) CreateContainer(ctx context.Context, req domain.ContainerCreateRequest) (domain.ContainerSummary, error) {
	if strings.TrimSpace(req.Image) == "" {
		return domain.ContainerSummary{}, fmt.Errorf("image is required: %w", domain.ErrInvalid)
	}
	cfg, hostCfg, err := buildCreateConfig(req)
	if err != nil {
		return domain.ContainerSummary{}, err
	}

	resp, err := c.api.ContainerCreate(ctx, cfg, hostCfg, nil, nil, req.Name)
	if errdefs.IsNotFound(err) {
		c.logger.Info().Str("image", req.Image).Msg("Image not present locally, pulling")
		if err := c.pullImage(ctx, req.Image); err != nil {
			return domain.ContainerSummary{}, err
		}
		resp, err = c.api.ContainerCreate(ctx, cfg, hostCfg, nil, nil, req.Name)
	}
	if err != nil {
		return domain.ContainerSummary{}, wrapErr(err, "create container", req.Name)
	}
	for _, w := range resp.Warnings {
		c.logger.Warn().Str("container_id", resp.ID).Msg(w)
	}

	if err := c.api.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return domain.ContainerSummary{}, wrapErr(err, "start container", resp.ID)
	}
	c.logger.Info().Str("container_id", resp.ID).Str("image", req.Image).Msg("Container created and started")

	detail, err := c.GetContainer(ctx, resp.ID)
	if err != nil {
		return domain.ContainerSummary{}, err
	}
	return detail.ContainerSummary, nil
}

func (c *Client) pullImage(ctx context.Context, ref string) error {
	rc, err := c.api.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return wrapErr(err, "pull image", ref)
	}
	defer rc.Close()
	// The pull only completes once the progress stream is drained.
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("pull image %s: %w", ref, err)
	}
	return nil
}

func buildCreateConfig(req domain.ContainerCreateRequest) (*container.Config, *container.HostConfig, error) {
	exposed := nat.PortSet{}
	bindings := nat.PortMap{}
	for _, p := range req.Ports {
		proto := p.Protocol
		if proto == "" {
			proto = "tcp"
		}
		port, err := nat.NewPort(proto, strconv.Itoa(p.ContainerPort))
		if err != nil {
			return nil, nil, fmt.Errorf("port %d/%s: %w", p.ContainerPort, proto, domain.ErrInvalid)
		}
		exposed[port] = struct{}{}
		hostPort := ""
		if p.HostPort != nil {
			hostPort = strconv.Itoa(*p.HostPort)
		}
		bindings[port] = append(bindings[port], nat.PortBinding{HostPort: hostPort})
	}

	env := make([]string, 0, len(req.Env))
	for k, v := range req.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)

	binds := make([]string, 0, len(req.Volumes))
	for _, v := range req.Volumes {
		mode := "rw"
		if v.ReadOnly {
			mode = "ro"
		}
		binds = append(binds, fmt.Sprintf("%s:%s:%s", v.VolumeName, v.Mountpoint, mode))
	}

	cfg := &container.Config{
		Image:        req.Image,
		Env:          env,
		ExposedPorts: exposed,
	}
	hostCfg := &container.HostConfig{
		PortBindings: bindings,
		Binds:        binds,
	}
	if req.RestartPolicy != "" && req.RestartPolicy != "no" {
		hostCfg.RestartPolicy = container.RestartPolicy{Name: container.RestartPolicyMode(req.RestartPolicy)}
	}
	return cfg, hostCfg, nil
}

// imageNames maps image ids to display names. A failed lookup degrades to an
// empty map so listings still succeed.
func (c *Client) imageNames(ctx context.Context) map[string]string {
	images, err := c.api.ImageList(ctx, image.ListOptions{})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to list images for container names")
		return map[string]string{}
	}
	names := make(map[string]string, len(images))
	for _, img := range images {
		names[img.ID] = normalize.DisplayName(taggedOnly(img.RepoTags), normalize.ShortID(img.ID))
	}
	return names
}

func (c *Client) imageName(ctx context.Context, id string) string {
	img, _, err := c.api.ImageInspectWithRaw(ctx, id)
	if err != nil {
		c.logger.Debug().Err(err).Str("image_id", id).Msg("Image lookup failed")
		return normalize.DisplayName(nil, normalize.ShortID(id))
	}
	return normalize.DisplayName(taggedOnly(img.RepoTags), normalize.ShortID(img.ID))
}

func summaryPorts(ctr container.Summary) map[string][]normalize.HostBinding {
	raw := make(map[string][]normalize.HostBinding)
	for _, p := range ctr.Ports {
		key := fmt.Sprintf("%d/%s", p.PrivatePort, p.Type)
		if p.PublicPort == 0 {
			if _, ok := raw[key]; !ok {
				raw[key] = nil
			}
			continue
		}
		raw[key] = append(raw[key], normalize.HostBinding{
			HostIP:   p.IP,
			HostPort: strconv.Itoa(int(p.PublicPort)),
		})
	}
	return raw
}

func inspectPorts(info types.ContainerJSON) map[string][]normalize.HostBinding {
	raw := make(map[string][]normalize.HostBinding)
	if info.NetworkSettings == nil {
		return raw
	}
	for port, bindings := range info.NetworkSettings.Ports {
		hb := make([]normalize.HostBinding, 0, len(bindings))
		for _, b := range bindings {
			hb = append(hb, normalize.HostBinding{HostIP: b.HostIP, HostPort: b.HostPort})
		}
		raw[string(port)] = hb
	}
	return raw
}

func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}
