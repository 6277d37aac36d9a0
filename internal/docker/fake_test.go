package docker

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/rs/zerolog"
)

type notFoundErr struct{ msg string }

func (e notFoundErr) Error() string { return e.msg }
func (notFoundErr) NotFound()       {}

type createCall struct {
	config *container.Config
	host   *container.HostConfig
	name   string
}

// fakeAPI embeds the interface so unimplemented calls panic loudly.
type fakeAPI struct {
	dockerAPI

	containers   []container.Summary
	listOpts     []container.ListOptions
	inspect      map[string]types.ContainerJSON
	logs         string
	logsOpts     container.LogsOptions
	images       []image.Summary
	imageListErr error
	imageInspect map[string]types.ImageInspect
	removed      []string

	missingImages map[string]bool
	pulled        []string
	creates       []createCall
	started       []string
	startErr      error

	networks        map[string]network.Inspect
	networkCreates  []network.CreateOptions
	removedNetworks []string

	volumes volume.ListResponse
}

func (f *fakeAPI) ContainerList(_ context.Context, opts container.ListOptions) ([]container.Summary, error) {
	f.listOpts = append(f.listOpts, opts)
	return f.containers, nil
}

func (f *fakeAPI) ContainerInspect(_ context.Context, id string) (types.ContainerJSON, error) {
	info, ok := f.inspect[id]
	if !ok {
		return types.ContainerJSON{}, notFoundErr{"no such container: " + id}
	}
	return info, nil
}

func (f *fakeAPI) ContainerLogs(_ context.Context, _ string, opts container.LogsOptions) (io.ReadCloser, error) {
	f.logsOpts = opts
	return io.NopCloser(strings.NewReader(f.logs)), nil
}

func (f *fakeAPI) ContainerStart(_ context.Context, id string, _ container.StartOptions) error {
	if f.startErr != nil {
		return f.startErr
	}
	if _, ok := f.inspect[id]; !ok {
		return notFoundErr{"no such container: " + id}
	}
	f.started = append(f.started, id)
	return nil
}

func (f *fakeAPI) ContainerStop(_ context.Context, id string, _ container.StopOptions) error {
	if _, ok := f.inspect[id]; !ok {
		return notFoundErr{"no such container: " + id}
	}
	return nil
}

func (f *fakeAPI) ContainerRestart(_ context.Context, _ string, _ container.StopOptions) error {
	return errors.New("daemon unavailable")
}

func (f *fakeAPI) ContainerCreate(_ context.Context, cfg *container.Config, host *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, name string) (container.CreateResponse, error) {
	if f.missingImages[cfg.Image] {
		return container.CreateResponse{}, notFoundErr{"no such image: " + cfg.Image}
	}
	f.creates = append(f.creates, createCall{config: cfg, host: host, name: name})
	return container.CreateResponse{ID: "new123"}, nil
}

func (f *fakeAPI) ImageList(_ context.Context, _ image.ListOptions) ([]image.Summary, error) {
	return f.images, f.imageListErr
}

func (f *fakeAPI) ImageInspectWithRaw(_ context.Context, id string) (types.ImageInspect, []byte, error) {
	img, ok := f.imageInspect[id]
	if !ok {
		return types.ImageInspect{}, nil, notFoundErr{"no such image: " + id}
	}
	return img, nil, nil
}

func (f *fakeAPI) ImageRemove(_ context.Context, id string, _ image.RemoveOptions) ([]image.DeleteResponse, error) {
	if _, ok := f.imageInspect[id]; !ok {
		return nil, notFoundErr{"no such image: " + id}
	}
	f.removed = append(f.removed, id)
	return nil, nil
}

func (f *fakeAPI) ImagePull(_ context.Context, ref string, _ image.PullOptions) (io.ReadCloser, error) {
	f.pulled = append(f.pulled, ref)
	delete(f.missingImages, ref)
	return io.NopCloser(strings.NewReader(`{"status":"Downloaded"}`)), nil
}

func (f *fakeAPI) NetworkList(_ context.Context, _ network.ListOptions) ([]network.Inspect, error) {
	nets := make([]network.Inspect, 0, len(f.networks))
	for _, n := range f.networks {
		nets = append(nets, n)
	}
	return nets, nil
}

func (f *fakeAPI) NetworkInspect(_ context.Context, id string, _ network.InspectOptions) (network.Inspect, error) {
	n, ok := f.networks[id]
	if !ok {
		return network.Inspect{}, notFoundErr{"network " + id + " not found"}
	}
	return n, nil
}

func (f *fakeAPI) NetworkCreate(_ context.Context, name string, opts network.CreateOptions) (network.CreateResponse, error) {
	f.networkCreates = append(f.networkCreates, opts)
	id := "net-" + name
	f.networks[id] = network.Inspect{ID: id, Name: name, Driver: opts.Driver, Scope: "local"}
	return network.CreateResponse{ID: id}, nil
}

func (f *fakeAPI) NetworkRemove(_ context.Context, id string) error {
	f.removedNetworks = append(f.removedNetworks, id)
	return nil
}

func (f *fakeAPI) VolumeList(_ context.Context, _ volume.ListOptions) (volume.ListResponse, error) {
	return f.volumes, nil
}

func (f *fakeAPI) Ping(_ context.Context) (types.Ping, error) {
	return types.Ping{APIVersion: "1.47"}, nil
}

func newTestClient(api *fakeAPI) *Client {
	return NewClient(api, zerolog.Nop())
}
