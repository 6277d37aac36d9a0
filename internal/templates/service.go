package templates

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

type ImportMode string

const (
	ImportMerge   ImportMode = "merge"
	ImportReplace ImportMode = "replace"
)

// ParseImportMode accepts "merge", "replace" or "" (merge).
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(s) {
	case "", ImportMerge:
		return ImportMerge, nil
	case ImportReplace:
		return ImportReplace, nil
	}
	return "", fmt.Errorf("unknown import mode %q: %w", s, domain.ErrInvalid)
}

// Service implements template CRUD on top of a Store. Every write is a
// read-modify-write under the store lock.
type Service struct {
	store  Store
	logger zerolog.Logger
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "templates").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Template, error) {
	return s.store.Load(ctx)
}

// Export returns the full set in stored order.
func (s *Service) Export(ctx context.Context) ([]domain.Template, error) {
	return s.store.Load(ctx)
}

func (s *Service) Get(ctx context.Context, id domain.TemplateID) (domain.Template, error) {
	templates, err := s.store.Load(ctx)
	if err != nil {
		return domain.Template{}, err
	}
	idx := indexOf(templates, id)
	if idx < 0 {
		return domain.Template{}, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	return templates[idx], nil
}

func (s *Service) Create(ctx context.Context, t domain.Template) (domain.Template, error) {
	if err := t.Validate(); err != nil {
		return domain.Template{}, err
	}
	t = withEmptyCollections(t)
	err := s.mutate(ctx, func(templates []domain.Template) ([]domain.Template, error) {
		if indexOf(templates, t.ID) >= 0 {
			return nil, fmt.Errorf("template id %s already exists: %w", t.ID, domain.ErrConflict)
		}
		return append(templates, t), nil
	})
	if err != nil {
		return domain.Template{}, err
	}
	s.logger.Info().Str("template_id", string(t.ID)).Msg("Template created")
	return t, nil
}

// Update replaces the template stored under id. The payload may carry a new
// id as long as no other template already uses it; an empty payload id keeps
// the current one.
func (s *Service) Update(ctx context.Context, id domain.TemplateID, t domain.Template) (domain.Template, error) {
	if t.ID == "" {
		t.ID = id
	}
	if err := t.Validate(); err != nil {
		return domain.Template{}, err
	}
	t = withEmptyCollections(t)
	err := s.mutate(ctx, func(templates []domain.Template) ([]domain.Template, error) {
		idx := indexOf(templates, id)
		if idx < 0 {
			return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
		}
		if t.ID != id && indexOf(templates, t.ID) >= 0 {
			return nil, fmt.Errorf("another template with id %s already exists: %w", t.ID, domain.ErrConflict)
		}
		templates[idx] = t
		return templates, nil
	})
	if err != nil {
		return domain.Template{}, err
	}
	s.logger.Info().Str("template_id", string(t.ID)).Msg("Template updated")
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id domain.TemplateID) error {
	err := s.mutate(ctx, func(templates []domain.Template) ([]domain.Template, error) {
		idx := indexOf(templates, id)
		if idx < 0 {
			return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
		}
		return append(templates[:idx], templates[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("template_id", string(id)).Msg("Template deleted")
	return nil
}

// Import merges incoming templates into the set (matching ids are replaced
// in place, new ones appended) or replaces the set outright.
func (s *Service) Import(ctx context.Context, incoming []domain.Template, mode ImportMode) ([]domain.Template, error) {
	seen := make(map[domain.TemplateID]struct{}, len(incoming))
	for i, t := range incoming {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %s: %w", t.ID, domain.ErrInvalid)
		}
		seen[t.ID] = struct{}{}
		incoming[i] = withEmptyCollections(t)
	}

	var result []domain.Template
	err := s.mutate(ctx, func(templates []domain.Template) ([]domain.Template, error) {
		if mode == ImportReplace {
			result = append([]domain.Template{}, incoming...)
			return result, nil
		}
		for _, t := range incoming {
			if idx := indexOf(templates, t.ID); idx >= 0 {
				templates[idx] = t
			} else {
				templates = append(templates, t)
			}
		}
		result = templates
		return templates, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("mode", string(mode)).Int("count", len(incoming)).Msg("Templates imported")
	return result, nil
}

func (s *Service) mutate(ctx context.Context, fn func([]domain.Template) ([]domain.Template, error)) error {
	return s.store.Lock(ctx, func() error {
		templates, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		updated, err := fn(templates)
		if err != nil {
			return err
		}
		return s.store.Save(ctx, updated)
	})
}

func indexOf(templates []domain.Template, id domain.TemplateID) int {
	for i, t := range templates {
		if t.ID == id {
			return i
		}
	}
	return -1
}
