package templates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

// FileStore keeps templates in a single JSON document on disk.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With().Str("component", "template_store").Str("path", path).Logger(),
	}
}

// Load reads the file. A missing or unreadable document is replaced by the
// defaults.
func (s *FileStore) Load(ctx context.Context) ([]domain.Template, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info().Msg("Template file not found, writing defaults")
		return s.seed(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	var templates []domain.Template
	if err := json.Unmarshal(data, &templates); err != nil {
		s.logger.Warn().Err(err).Msg("Template file is corrupt, restoring defaults")
		return s.seed(ctx)
	}
	for i := range templates {
		templates[i] = withEmptyCollections(templates[i])
	}
	return templates, nil
}

func (s *FileStore) seed(ctx context.Context) ([]domain.Template, error) {
	templates := DefaultTemplates()
	if err := s.Save(ctx, templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Save replaces the file atomically.
func (s *FileStore) Save(_ context.Context, templates []domain.Template) error {
	if templates == nil {
		templates = []domain.Template{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(templates); err != nil {
		return fmt.Errorf("encode templates: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create template dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".templates-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write templates: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync templates: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close templates: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace templates: %w", err)
	}
	s.logger.Debug().Int("count", len(templates)).Msg("Templates saved")
	return nil
}

func (s *FileStore) Lock(_ context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *FileStore) Close() error {
	return nil
}
