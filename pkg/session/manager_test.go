package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/tristate"
	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wideOutline(n int) domain.Outline {
	o := domain.Outline{ID: "root", Label: "root"}
	for i := 0; i < n; i++ {
		o.Children = append(o.Children, domain.Outline{Label: "leaf"})
	}
	return o
}

func newManager(t *testing.T, style domain.Style) *session.Manager {
	t.Helper()
	loader := memory.NewLoader(map[string]domain.Outline{"wide": wideOutline(32)})
	return session.NewManager(func() (*tristate.Engine, error) {
		return tristate.New("", tristate.WithLoader(loader), tristate.WithStyle(style))
	})
}

func TestManager_OpenGetDelete(t *testing.T) {
	mgr := newManager(t, domain.StyleStandard)
	ctx := context.Background()

	ws, err := mgr.Open(ctx, "wide")
	require.NoError(t, err)
	assert.NotEmpty(t, ws.ID)
	assert.Equal(t, "wide", ws.Source)
	assert.Equal(t, 33, ws.Tree.Len())

	got, err := mgr.Get(ws.ID)
	require.NoError(t, err)
	assert.Same(t, ws, got)

	list := mgr.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, 33, list[0].Nodes)

	require.NoError(t, mgr.Delete(ctx, ws.ID))
	_, err = mgr.Get(ws.ID)
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	assert.ErrorIs(t, mgr.Delete(ctx, ws.ID), domain.ErrWorkspaceNotFound)

	_, err = mgr.Open(ctx, "narrow")
	assert.ErrorIs(t, err, domain.ErrOutlineNotFound)

	_, err = mgr.Create(ctx, domain.Outline{})
	assert.ErrorIs(t, err, domain.ErrEmptyOutline)

	_, err = mgr.Create(ctx, domain.Outline{ID: "root", Children: []domain.Outline{
		{ID: "x", Label: "a"}, {ID: "x", Label: "b"},
	}})
	assert.ErrorIs(t, err, domain.ErrDuplicateNodeID)

	solo, err := mgr.Create(ctx, domain.Outline{ID: "solo"})
	require.NoError(t, err)
	assert.Equal(t, 1, solo.Tree.Len())
}

func TestManager_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	mgr := session.NewManager(func() (*tristate.Engine, error) { return nil, boom })

	_, err := mgr.Create(context.Background(), domain.Outline{Label: "x"})
	assert.ErrorIs(t, err, boom)
}

func TestManager_Locking(t *testing.T) {
	mgr := newManager(t, domain.StyleInstaller)
	ctx := context.Background()

	ws, err := mgr.Open(ctx, "wide")
	require.NoError(t, err)
	other, err := mgr.Open(ctx, "wide")
	require.NoError(t, err)

	// Every leaf of both workspaces is toggled from its own goroutine. Without the
	// per-workspace lock the engines' latches and the trees would race.
	var wg sync.WaitGroup
	for _, w := range []*session.Workspace{ws, other} {
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func(id string, leaf int) {
				defer wg.Done()
				err := mgr.WithLock(ctx, id, func(ctx context.Context, w *session.Workspace) error {
					n, err := w.Tree.Lookup(w.Tree.Roots()[0].Nodes()[leaf].ID())
					if err != nil {
						return err
					}
					w.Engine.Toggle(ctx, n)
					return nil
				})
				assert.NoError(t, err)
			}(w.ID, i)
		}
	}
	wg.Wait()

	for _, w := range []*session.Workspace{ws, other} {
		err := mgr.WithLock(ctx, w.ID, func(ctx context.Context, w *session.Workspace) error {
			root := w.Tree.Roots()[0]
			assert.Equal(t, domain.Checked, root.State())
			assert.True(t, root.Checked())
			assert.Empty(t, w.Engine.Check(w.Tree.RootNodes()...))
			return nil
		})
		require.NoError(t, err)
	}
}

func TestManager_WithLockHonorsContext(t *testing.T) {
	mgr := newManager(t, domain.StyleStandard)
	ws, err := mgr.Create(context.Background(), wideOutline(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = mgr.WithLock(ctx, ws.ID, func(context.Context, *session.Workspace) error {
		t.Fatal("fn must not run on a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
