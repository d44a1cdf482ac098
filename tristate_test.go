package tristate_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/tristate"
	"github.com/aretw0/tristate/internal/testutils"
	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade_LoamDirectory(t *testing.T) {
	repoPath := t.TempDir()
	testutils.WriteOutlines(t, repoPath, map[string]string{"garden.md": `---
id: garden
label: Garden
children:
  - id: tomatoes
    label: Tomatoes
  - id: herbs
    label: Herbs
    children:
      - id: basil
        label: Basil
---
`})

	engine, err := tristate.New(repoPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(repoPath), engine.Name)

	ctx := context.Background()
	tree, err := engine.Open(ctx, "garden")
	require.NoError(t, err)
	assert.Empty(t, engine.Check(tree.RootNodes()...))

	basil, err := tree.Lookup("basil")
	require.NoError(t, err)
	require.True(t, engine.Toggle(ctx, basil))

	herbs, _ := tree.Lookup("herbs")
	garden, _ := tree.Lookup("garden")
	assert.Equal(t, domain.Mixed, herbs.State(), "standard style: herbs itself is not checked")
	assert.Equal(t, domain.Mixed, garden.State())

	_, err = engine.Open(ctx, "orchard")
	assert.ErrorIs(t, err, domain.ErrOutlineNotFound)
}

func TestFacade_SingleFile(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteOutlines(t, dir, map[string]string{"menu.yaml": "label: Menu\nchildren:\n  - label: Soup\n"})
	path := filepath.Join(dir, "menu.yaml")

	engine, err := tristate.New(path, tristate.WithStyle(domain.StyleInstaller))
	require.NoError(t, err)
	assert.Equal(t, domain.StyleInstaller, engine.Style())

	tree, err := engine.Open(context.Background(), "menu")
	require.NoError(t, err)

	soup, err := tree.Lookup("0.0")
	require.NoError(t, err)
	soup.SetChecked(true)

	menu := tree.Roots()[0]
	assert.Equal(t, domain.Checked, menu.State())
	assert.True(t, menu.Checked())

	_, err = engine.Watch(context.Background())
	assert.Error(t, err, "file loader cannot watch")
}

func TestFacade_WithoutLoader(t *testing.T) {
	engine, err := tristate.New("")
	require.NoError(t, err)
	assert.Nil(t, engine.Loader())

	_, err = engine.Open(context.Background(), "anything")
	assert.ErrorIs(t, err, tristate.ErrNoLoader)

	_, err = tristate.New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFacade_WithLoader(t *testing.T) {
	loader := memory.NewLoader(map[string]domain.Outline{"f": features()})
	engine, err := tristate.New("fixtures", tristate.WithLoader(loader))
	require.NoError(t, err)
	assert.Equal(t, "fixtures", engine.Name)

	tree, err := engine.Open(context.Background(), "f")
	require.NoError(t, err)
	assert.Equal(t, 3, tree.Len())
}

func TestFacade_ExpandAndResolve(t *testing.T) {
	var propagations []domain.EventType
	engine, err := tristate.New("", tristate.WithLifecycleHooks(domain.LifecycleHooks{
		OnPropagate: func(_ context.Context, ev *domain.PropagationEvent) {
			propagations = append(propagations, ev.Trigger)
		},
	}))
	require.NoError(t, err)

	ctx := context.Background()
	tree, err := engine.Build(ctx, features())
	require.NoError(t, err)
	root, _ := tree.Lookup("features")
	engine.SetChecked(ctx, root, true)

	docs, _ := tree.Lookup("docs")
	docs.AddChild(memory.NewNode("api", "API reference"))
	assert.Equal(t, 1, engine.Expand(ctx, docs))

	api, _ := tree.Lookup("api")
	assert.Equal(t, domain.Checked, api.State())
	assert.Empty(t, engine.Check(tree.RootNodes()...))

	// Drift introduced outside the engine is repaired by Resolve.
	api.SetState(domain.Unchecked)
	violations := engine.Check(tree.RootNodes()...)
	require.Len(t, violations, 1)
	assert.Equal(t, tristate.RuleResolution, violations[0].Rule)

	assert.Equal(t, 2, engine.Resolve(ctx, docs))
	assert.Equal(t, domain.Mixed, root.State())

	assert.Equal(t, []domain.EventType{
		domain.EventInitialize, domain.EventToggle, domain.EventExpand, domain.EventResolve,
	}, propagations)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(tristate.Version))
}
