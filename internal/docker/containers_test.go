package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

const nginxImageID = "sha256:4cad75abc83d5ca6ee22053d85850676eaef657ee9d723d7bef61179e1e1e485"

// decode builds SDK values from daemon-shaped JSON fixtures.
func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func webInspect(t *testing.T) types.ContainerJSON {
	return decode[types.ContainerJSON](t, `{
		"Id": "abc123",
		"Name": "/web",
		"Image": "`+nginxImageID+`",
		"State": {"Status": "running", "StartedAt": "2024-01-01T10:00:00.123456789Z"},
		"Config": {"Tty": false},
		"NetworkSettings": {"Ports": {
			"80/tcp": [{"HostIp": "0.0.0.0", "HostPort": "8080"}, {"HostIp": "::", "HostPort": "8080"}],
			"443/tcp": null
		}}
	}`)
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{
		inspect: map[string]types.ContainerJSON{"abc123": webInspect(t)},
		images: []image.Summary{
			{ID: nginxImageID, RepoTags: []string{"nginx:latest"}},
		},
		imageInspect: map[string]types.ImageInspect{
			nginxImageID: {ID: nginxImageID, RepoTags: []string{"nginx:latest"}},
		},
		missingImages: map[string]bool{},
	}
}

func TestListContainers(t *testing.T) {
	api := newFakeAPI(t)
	api.containers = decode[[]container.Summary](t, `[
		{"Id": "abc123", "Names": ["/web"], "ImageID": "`+nginxImageID+`", "State": "running", "Status": "Up 2 hours",
		 "Ports": [{"IP": "0.0.0.0", "PrivatePort": 80, "PublicPort": 8080, "Type": "tcp"}, {"PrivatePort": 443, "Type": "tcp"}]},
		{"Id": "def456", "Names": ["/db"], "ImageID": "sha256:0123456789abcdef", "State": "exited", "Status": "Exited (0)"}
	]`)

	got, err := newTestClient(api).ListContainers(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, api.listOpts[0].All)

	web := got[0]
	assert.Equal(t, "web", web.Name)
	assert.Equal(t, "nginx:latest", web.Image)
	assert.Equal(t, "running", web.Status)
	assert.Equal(t, "running", web.State)
	require.Len(t, web.Ports, 2)
	require.NotNil(t, web.Ports[0].HostPort)
	assert.Equal(t, 8080, *web.Ports[0].HostPort)
	assert.Equal(t, 80, web.Ports[0].ContainerPort)
	assert.Nil(t, web.Ports[1].HostPort)
	assert.Equal(t, 443, web.Ports[1].ContainerPort)

	db := got[1]
	assert.Equal(t, "sha256:0123456789", db.Image)
	assert.Equal(t, "exited", db.Status)
	assert.Empty(t, db.Ports)
}

func TestListContainers_ImageLookupFailureDegrades(t *testing.T) {
	api := newFakeAPI(t)
	api.imageListErr = assert.AnError
	api.containers = decode[[]container.Summary](t, `[{"Id": "abc123", "Names": ["/web"], "ImageID": "`+nginxImageID+`", "State": "running"}]`)

	got, err := newTestClient(api).ListContainers(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sha256:4cad75abc8", got[0].Image)
	assert.False(t, api.listOpts[0].All)
}

func TestGetContainer(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(api)
	c.now = func() time.Time { return time.Date(2024, 1, 1, 11, 1, 1, 500, time.UTC) }

	got, err := c.GetContainer(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, "abc123", got.ID)
	assert.Equal(t, "web", got.Name)
	assert.Equal(t, "nginx:latest", got.Image)
	assert.Equal(t, "running", got.Status)
	require.NotNil(t, got.Uptime)
	assert.Equal(t, "1h 1m", *got.Uptime)
	assert.Nil(t, got.CPUPercent)
	assert.Nil(t, got.MemoryUsage)

	// 80/tcp has two bindings, 443/tcp none.
	require.Len(t, got.Ports, 3)
	assert.Equal(t, 80, got.Ports[0].ContainerPort)
	assert.Equal(t, 80, got.Ports[1].ContainerPort)
	assert.Equal(t, 443, got.Ports[2].ContainerPort)
	assert.Nil(t, got.Ports[2].HostPort)
}

func TestGetContainer_NotFound(t *testing.T) {
	_, err := newTestClient(newFakeAPI(t)).GetContainer(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContainerLogs(t *testing.T) {
	t.Run("multiplexed", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := stdcopy.NewStdWriter(&buf, stdcopy.Stdout).Write([]byte("hello\n"))
		require.NoError(t, err)
		_, err = stdcopy.NewStdWriter(&buf, stdcopy.Stderr).Write([]byte("oops\xff\n"))
		require.NoError(t, err)

		api := newFakeAPI(t)
		api.logs = buf.String()

		got, err := newTestClient(api).ContainerLogs(context.Background(), "abc123", 50)
		require.NoError(t, err)
		assert.Equal(t, "hello\noops�\n", got.Content)
		assert.Equal(t, "50", api.logsOpts.Tail)
		assert.True(t, api.logsOpts.ShowStdout)
		assert.True(t, api.logsOpts.ShowStderr)
	})

	t.Run("tty is copied raw", func(t *testing.T) {
		api := newFakeAPI(t)
		info := webInspect(t)
		info.Config.Tty = true
		api.inspect["abc123"] = info
		api.logs = "plain output\n"

		got, err := newTestClient(api).ContainerLogs(context.Background(), "abc123", DefaultLogTail)
		require.NoError(t, err)
		assert.Equal(t, "plain output\n", got.Content)
	})

	t.Run("tail out of range", func(t *testing.T) {
		_, err := newTestClient(newFakeAPI(t)).ContainerLogs(context.Background(), "abc123", MaxLogTail+1)
		assert.ErrorIs(t, err, domain.ErrInvalid)
	})

	t.Run("unknown container", func(t *testing.T) {
		_, err := newTestClient(newFakeAPI(t)).ContainerLogs(context.Background(), "missing", 10)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLifecycleErrors(t *testing.T) {
	c := newTestClient(newFakeAPI(t))

	assert.NoError(t, c.StartContainer(context.Background(), "abc123"))
	assert.ErrorIs(t, c.StopContainer(context.Background(), "missing"), domain.ErrNotFound)

	err := c.RestartContainer(context.Background(), "abc123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "daemon unavailable")
}

func TestCreateContainer(t *testing.T) {
	api := newFakeAPI(t)
	api.inspect["new123"] = api.inspect["abc123"]
	hostPort := 8080

	got, err := newTestClient(api).CreateContainer(context.Background(), domain.ContainerCreateRequest{
		Name:  "web",
		Image: "nginx:latest",
		Ports: []domain.PortBinding{
			{HostPort: &hostPort, ContainerPort: 80, Protocol: "tcp"},
			{ContainerPort: 53, Protocol: "udp"},
		},
		Env:           map[string]string{"B": "2", "A": "1"},
		Volumes:       []domain.VolumeMount{{VolumeName: "data", Mountpoint: "/data", ReadOnly: true}},
		RestartPolicy: "unless-stopped",
	})
	require.NoError(t, err)
	assert.Equal(t, "web", got.Name)

	require.Len(t, api.creates, 1)
	call := api.creates[0]
	assert.Equal(t, "web", call.name)
	assert.Equal(t, []string{"A=1", "B=2"}, call.config.Env)
	assert.Contains(t, call.config.ExposedPorts, nat.Port("80/tcp"))
	assert.Contains(t, call.config.ExposedPorts, nat.Port("53/udp"))
	assert.Equal(t, []nat.PortBinding{{HostPort: "8080"}}, call.host.PortBindings[nat.Port("80/tcp")])
	assert.Equal(t, []nat.PortBinding{{HostPort: ""}}, call.host.PortBindings[nat.Port("53/udp")])
	assert.Equal(t, []string{"data:/data:ro"}, call.host.Binds)
	assert.Equal(t, container.RestartPolicyUnlessStopped, call.host.RestartPolicy.Name)
	assert.Equal(t, []string{"new123"}, api.started)
	assert.Empty(t, api.pulled)
}

func TestCreateContainer_PullsMissingImage(t *testing.T) {
	api := newFakeAPI(t)
	api.inspect["new123"] = api.inspect["abc123"]
	api.missingImages["redis:7"] = true

	_, err := newTestClient(api).CreateContainer(context.Background(), domain.ContainerCreateRequest{Image: "redis:7", RestartPolicy: "no"})
	require.NoError(t, err)

	assert.Equal(t, []string{"redis:7"}, api.pulled)
	require.Len(t, api.creates, 1)
	assert.Empty(t, api.creates[0].host.RestartPolicy.Name)
}

func TestCreateContainer_RequiresImage(t *testing.T) {
	_, err := newTestClient(newFakeAPI(t)).CreateContainer(context.Background(), domain.ContainerCreateRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalid)
}
