package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	dockerCli "github.com/docker/docker/client"
	"github.com/rs/zerolog"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/auto-dns/mira-gateway/internal/api"
	"github.com/auto-dns/mira-gateway/internal/config"
	"github.com/auto-dns/mira-gateway/internal/docker"
	"github.com/auto-dns/mira-gateway/internal/event"
	"github.com/auto-dns/mira-gateway/internal/state"
	"github.com/auto-dns/mira-gateway/internal/templates"
)

type App struct {
	cfg          *config.Config
	dockerClient *dockerCli.Client
	runtime      *docker.Client
	store        templates.Store
	sessions     *state.Sessions
	server       *http.Server
	logger       zerolog.Logger
}

// New creates a new App by wiring up all dependencies. The Docker client is
// created once here and shared by every component that talks to the daemon.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	// Docker CLI
	opts := []dockerCli.Opt{dockerCli.FromEnv}
	if cfg.Docker.Host != "" {
		opts = append(opts, dockerCli.WithHost(cfg.Docker.Host))
	}
	if cfg.Docker.APIVersion != "" {
		opts = append(opts, dockerCli.WithVersion(cfg.Docker.APIVersion))
	} else {
		opts = append(opts, dockerCli.WithAPIVersionNegotiation())
	}
	dockerClient, err := dockerCli.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	// Template store
	store, err := newTemplateStore(cfg, logger)
	if err != nil {
		dockerClient.Close()
		return nil, err
	}

	runtime := docker.NewClient(dockerClient, logger)
	bridge := event.NewBridge(dockerClient, cfg.Events.BufferSize, logger)
	sessions := state.NewSessions()
	handler := api.NewServer(cfg, runtime, templates.NewService(store, logger), bridge, sessions, logger)

	return &App{
		cfg:          cfg,
		dockerClient: dockerClient,
		runtime:      runtime,
		store:        store,
		sessions:     sessions,
		server: &http.Server{
			Addr:              cfg.Server.ListenAddr,
			Handler:           handler.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

func newTemplateStore(cfg *config.Config, logger zerolog.Logger) (templates.Store, error) {
	switch cfg.Templates.Backend {
	case config.BackendEtcd:
		etcdClient, err := clientv3.New(clientv3.Config{
			Endpoints:   []string{cfg.Etcd.Endpoint()},
			DialTimeout: 2 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to etcd: %w", err)
		}
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown-host"
		}
		return templates.NewEtcdStore(etcdClient, &cfg.Etcd, hostname, logger), nil
	case config.BackendFile:
		return templates.NewFileStore(cfg.Templates.File, logger), nil
	}
	return nil, fmt.Errorf("unknown templates backend %q", cfg.Templates.Backend)
}

// Run serves the API until ctx is cancelled, then closes every live event
// stream and drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	a.logger.Info().Str("addr", ln.Addr().String()).Msg("Application starting")

	if err := a.runtime.Ping(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("Docker daemon is not reachable yet")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	// Shutdown does not touch hijacked connections.
	closed := a.sessions.CloseAll()
	a.logger.Info().Int("streams_closed", closed).Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	var firstErr error
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close template store: %w", err)
		}
	}
	if a.dockerClient != nil {
		if err := a.dockerClient.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close docker client: %w", err)
		}
	}
	return firstErr
}
