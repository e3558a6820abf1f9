package localsession

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/mbuildgo/internal/converter"
	"github.com/specialistvlad/mbuildgo/internal/inmemorystore"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/objid"
	"github.com/specialistvlad/mbuildgo/internal/projectstore"
	"github.com/specialistvlad/mbuildgo/internal/registry"
	"github.com/specialistvlad/mbuildgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(t *testing.T, store projectstore.Store, reg *registry.Registry) *SessionFactory {
	t.Helper()
	resolver, err := converter.NewResolver(reg, converter.DefaultCacheSize)
	require.NoError(t, err)
	return New(reg, resolver, store, objid.NewSequenceGenerator())
}

func TestSession_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	reg := testutil.Registry(t, []registry.Module{converter.Module{}})
	store := inmemorystore.New(reg)
	f := newFactory(t, store, reg)

	// A new project is saved on close even when empty.
	s, err := f.NewSession(ctx, "app")
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))
	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, names)

	// Committed changes are saved on close.
	s, err = f.NewSession(ctx, "app")
	require.NoError(t, err)
	w := s.Project().Checkout(ctx)
	_, err = w.CreateConfiguration(ctx, "debug", "Debug", "gnu.base", []string{"c"})
	require.NoError(t, err)
	require.NoError(t, w.Commit(ctx))
	require.NoError(t, s.Close(ctx))
	assert.False(t, s.Project().Dirty())

	// Reopening sees them.
	s, err = f.NewSession(ctx, "app")
	require.NoError(t, err)
	cfg, err := s.Project().Snapshot().Configuration("debug")
	require.NoError(t, err)
	tc, err := cfg.ToolChain()
	require.NoError(t, err)
	assert.Equal(t, "gnu.base", tc.RealID())
	require.NoError(t, s.Close(ctx))
}

func TestSession_DeleteIsSaved(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	reg := testutil.Registry(t, []registry.Module{converter.Module{}})
	store := inmemorystore.New(reg)
	f := newFactory(t, store, reg)

	s, err := f.NewSession(ctx, "app")
	require.NoError(t, err)
	w := s.Project().Checkout(ctx)
	_, err = w.CreateConfiguration(ctx, "debug", "Debug", "gnu.base", []string{"c"})
	require.NoError(t, err)
	require.NoError(t, w.Commit(ctx))
	require.NoError(t, s.Close(ctx))

	s, err = f.NewSession(ctx, "app")
	require.NoError(t, err)
	w = s.Project().Checkout(ctx)
	require.NoError(t, w.DeleteConfiguration(ctx, "debug"))
	require.NoError(t, w.Commit(ctx))
	require.NoError(t, s.Close(ctx))

	saved, err := store.Load(ctx, "app")
	require.NoError(t, err)
	assert.Empty(t, saved.Roots())
	_, err = saved.Configuration("debug")
	require.ErrorIs(t, err, model.ErrNotFound)
}

type spyStore struct {
	projectstore.Store
	saves   int
	loadErr error
}

func (s *spyStore) Save(ctx context.Context, name string, a *model.Arena) error {
	s.saves++
	return s.Store.Save(ctx, name, a)
}

func (s *spyStore) Load(ctx context.Context, name string) (*model.Arena, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.Store.Load(ctx, name)
}

func TestSession_CloseSkipsCleanProject(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	reg := testutil.Registry(t, []registry.Module{converter.Module{}})
	mem := inmemorystore.New(reg)
	require.NoError(t, mem.Save(ctx, "app", model.NewArena(reg.Arena())))
	spy := &spyStore{Store: mem}
	f := newFactory(t, spy, reg)

	s, err := f.NewSession(ctx, "app")
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))
	assert.Zero(t, spy.saves)
}

func TestSession_LoadError(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	reg := testutil.Registry(t, []registry.Module{converter.Module{}})
	boom := errors.New("disk on fire")
	f := newFactory(t, &spyStore{Store: inmemorystore.New(reg), loadErr: boom}, reg)

	_, err := f.NewSession(ctx, "app")
	require.ErrorIs(t, err, boom)
}
