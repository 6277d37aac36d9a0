package templates

import (
	"context"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

// Store persists the template set as a whole.
type Store interface {
	// Load returns the stored templates in order. A store that has never
	// been written returns the default set and persists it.
	Load(ctx context.Context) ([]domain.Template, error)
	Save(ctx context.Context, templates []domain.Template) error
	// Lock runs fn while holding the store's write lock.
	Lock(ctx context.Context, fn func() error) error
	Close() error
}

// withEmptyCollections replaces nil collections so they encode as [] and {}.
func withEmptyCollections(t domain.Template) domain.Template {
	if t.Ports == nil {
		t.Ports = []domain.PortBinding{}
	}
	if t.Env == nil {
		t.Env = map[string]string{}
	}
	if t.Volumes == nil {
		t.Volumes = []domain.VolumeMount{}
	}
	return t
}
