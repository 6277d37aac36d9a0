package api

import (
	"context"

	"github.com/auto-dns/mira-gateway/internal/domain"
	"github.com/auto-dns/mira-gateway/internal/templates"
)

// Runtime is the daemon-facing surface the handlers call.
type Runtime interface {
	Ping(ctx context.Context) error

	ListContainers(ctx context.Context, all bool) ([]domain.ContainerSummary, error)
	GetContainer(ctx context.Context, id string) (domain.ContainerDetail, error)
	ContainerLogs(ctx context.Context, id string, tail int) (domain.ContainerLogs, error)
	StartContainer(ctx context.Context, id string) error
	StopContainer(ctx context.Context, id string) error
	RestartContainer(ctx context.Context, id string) error
	CreateContainer(ctx context.Context, req domain.ContainerCreateRequest) (domain.ContainerSummary, error)

	ListImages(ctx context.Context) ([]domain.ImageSummary, error)
	GetImage(ctx context.Context, id string) (domain.ImageDetail, error)
	RemoveImage(ctx context.Context, id string, force bool) error

	ListNetworks(ctx context.Context) ([]domain.NetworkSummary, error)
	GetNetwork(ctx context.Context, id string) (domain.NetworkDetail, error)
	CreateNetwork(ctx context.Context, req domain.NetworkCreateRequest) (domain.NetworkSummary, error)
	RemoveNetwork(ctx context.Context, id string) error

	ListVolumes(ctx context.Context) ([]domain.VolumeSummary, error)
}

// Templates is the template service surface the handlers call.
type Templates interface {
	List(ctx context.Context) ([]domain.Template, error)
	Get(ctx context.Context, id domain.TemplateID) (domain.Template, error)
	Create(ctx context.Context, t domain.Template) (domain.Template, error)
	Update(ctx context.Context, id domain.TemplateID, t domain.Template) (domain.Template, error)
	Delete(ctx context.Context, id domain.TemplateID) error
	Export(ctx context.Context) ([]domain.Template, error)
	Import(ctx context.Context, incoming []domain.Template, mode templates.ImportMode) ([]domain.Template, error)
}
