package templates

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "templates.json"), zerolog.Nop())
	return NewService(store, zerolog.Nop())
}

func tpl(id, name string) domain.Template {
	return domain.Template{ID: domain.TemplateID(id), Name: name, Image: "busybox"}
}

func ids(templates []domain.Template) []domain.TemplateID {
	out := make([]domain.TemplateID, 0, len(templates))
	for _, t := range templates {
		out = append(out, t.ID)
	}
	return out
}

func TestService_ListStartsWithDefaults(t *testing.T) {
	got, err := newTestService(t).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.TemplateID{"basic-nginx", "mira-web", "mariadb-basic"}, ids(got))
}

func TestService_CreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, tpl("redis", "Redis"))
	require.NoError(t, err)
	assert.NotNil(t, created.Ports)

	got, err := svc.Get(ctx, "redis")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Create(ctx, tpl("redis", "Again"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Create(ctx, domain.Template{ID: "x", Name: "No image"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Update(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("in place", func(t *testing.T) {
		updated, err := svc.Update(ctx, "mira-web", domain.Template{Name: "Renamed", Image: "nginx:1.27"})
		require.NoError(t, err)
		assert.Equal(t, domain.TemplateID("mira-web"), updated.ID)

		got, err := svc.Get(ctx, "mira-web")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
	})

	t.Run("rename onto existing id", func(t *testing.T) {
		_, err := svc.Update(ctx, "mira-web", tpl("basic-nginx", "Clash"))
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("rename keeps position", func(t *testing.T) {
		_, err := svc.Update(ctx, "mira-web", tpl("mira-frontend", "Frontend"))
		require.NoError(t, err)
		all, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.TemplateID{"basic-nginx", "mira-frontend", "mariadb-basic"}, ids(all))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", tpl("missing", "Nope"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "mira-web"))
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TemplateID{"basic-nginx", "mariadb-basic"}, ids(all))

	assert.ErrorIs(t, svc.Delete(ctx, "mira-web"), domain.ErrNotFound)
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("merge updates and appends", func(t *testing.T) {
		svc := newTestService(t)
		got, err := svc.Import(ctx, []domain.Template{tpl("mira-web", "New Web"), tpl("redis", "Redis")}, ImportMerge)
		require.NoError(t, err)
		assert.Equal(t, []domain.TemplateID{"basic-nginx", "mira-web", "mariadb-basic", "redis"}, ids(got))
		assert.Equal(t, "New Web", got[1].Name)

		exported, err := svc.Export(ctx)
		require.NoError(t, err)
		assert.Equal(t, got, exported)
	})

	t.Run("replace swaps the set", func(t *testing.T) {
		svc := newTestService(t)
		got, err := svc.Import(ctx, []domain.Template{tpl("redis", "Redis")}, ImportReplace)
		require.NoError(t, err)
		assert.Equal(t, []domain.TemplateID{"redis"}, ids(got))

		all, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, got, all)
	})

	t.Run("duplicate ids rejected", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.Import(ctx, []domain.Template{tpl("a", "A"), tpl("a", "B")}, ImportReplace)
		assert.ErrorIs(t, err, domain.ErrInvalid)
	})
}

func TestParseImportMode(t *testing.T) {
	for in, want := range map[string]ImportMode{"": ImportMerge, "merge": ImportMerge, "replace": ImportReplace} {
		got, err := ParseImportMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseImportMode("append")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}
