package tea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tristate"
	"github.com/aretw0/tristate/pkg/adapters/memory"
	adapter "github.com/aretw0/tristate/pkg/adapters/tea"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/ports"
)

type fixedSelection struct{ node *memory.Node }

func (s fixedSelection) Selected() *memory.Node { return s.node }

type gridHits map[[2]int]hit

type hit struct {
	node *memory.Node
	loc  adapter.Location
}

func (g gridHits) HitTest(x, y int) (*memory.Node, adapter.Location) {
	h, ok := g[[2]int{x, y}]
	if !ok {
		return nil, adapter.LocationNone
	}
	return h.node, h.loc
}

// countingEngine records how often each entry point is reached and delegates.
type countingEngine struct {
	inner    *tristate.Engine
	accepted int
	rejected int
	expands  int
}

func (c *countingEngine) AfterCheck(ctx context.Context, n ports.TreeNode) bool {
	ok := c.inner.AfterCheck(ctx, n)
	if ok {
		c.accepted++
	} else {
		c.rejected++
	}
	return ok
}

func (c *countingEngine) Expand(ctx context.Context, n ports.TreeNode) int {
	c.expands++
	return c.inner.Expand(ctx, n)
}

func setup(t *testing.T, style domain.Style) (*countingEngine, *memory.Tree) {
	t.Helper()
	inner, err := tristate.New("", tristate.WithStyle(style))
	require.NoError(t, err)
	tree, err := inner.Build(context.Background(), domain.Outline{ID: "root", Label: "Root", Children: []domain.Outline{
		{ID: "a", Label: "A", Children: []domain.Outline{{ID: "a1", Label: "A1"}}},
		{ID: "b", Label: "B"},
	}})
	require.NoError(t, err)
	return &countingEngine{inner: inner}, tree
}

func lookup(t *testing.T, tree *memory.Tree, id string) *memory.Node {
	t.Helper()
	n, err := tree.Lookup(id)
	require.NoError(t, err)
	return n
}

func run(t *testing.T, cmd tea.Cmd) adapter.ChangedMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(adapter.ChangedMsg)
	require.True(t, ok)
	return msg
}

func TestController_SpaceTogglesSelection(t *testing.T) {
	eng, tree := setup(t, domain.StyleInstaller)
	a := lookup(t, tree, "a")
	ctrl := adapter.New(eng, tree, fixedSelection{a}, nil)

	handled, cmd := ctrl.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.True(t, handled)

	msg := run(t, cmd)
	assert.Equal(t, domain.EventToggle, msg.Trigger)
	assert.Same(t, a, msg.Node)
	require.NotNil(t, msg.Diff)
	assert.Len(t, msg.Diff.Changes, 3, "a, a1 and root")

	assert.Equal(t, domain.Checked, lookup(t, tree, "a1").State())
	assert.Equal(t, domain.Mixed, lookup(t, tree, "root").State())

	assert.Equal(t, 1, eng.accepted, "the flip runs the pass once")
	assert.Equal(t, 1, eng.rejected, "the write to a1 is suppressed")
}

func TestController_IgnoresOtherKeys(t *testing.T) {
	eng, tree := setup(t, domain.StyleStandard)
	ctrl := adapter.New(eng, tree, fixedSelection{lookup(t, tree, "b")}, nil)

	handled, cmd := ctrl.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.False(t, handled)
	assert.Nil(t, cmd)

	ctrl = adapter.New(eng, tree, fixedSelection{}, nil)
	handled, cmd = ctrl.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, handled, "space is consumed even with nothing selected")
	assert.Nil(t, cmd)
}

func TestController_MouseOnGlyphOnly(t *testing.T) {
	eng, tree := setup(t, domain.StyleStandard)
	b := lookup(t, tree, "b")
	ctrl := adapter.New(eng, tree, nil, gridHits{
		{0, 1}: {b, adapter.LocationStateGlyph},
		{5, 1}: {b, adapter.LocationLabel},
	})

	press := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	handled, _ := ctrl.Update(press(5, 1))
	assert.False(t, handled, "clicking the label selects, it does not toggle")
	assert.False(t, b.Checked())

	handled, _ = ctrl.Update(tea.MouseMsg{X: 0, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.False(t, handled)

	handled, cmd := ctrl.Update(press(0, 1))
	require.True(t, handled)
	run(t, cmd)
	assert.True(t, b.Checked())
	assert.Equal(t, domain.Checked, b.State())
}

func TestController_Expand(t *testing.T) {
	eng, tree := setup(t, domain.StyleStandard)
	a := lookup(t, tree, "a")
	ctrl := adapter.New(eng, tree, fixedSelection{a}, nil)

	ctrl.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	late := a.AddChild(memory.NewNode("a2", "A2"))

	handled, cmd := ctrl.Update(adapter.ExpandMsg{Node: a})
	require.True(t, handled)
	msg := run(t, cmd)

	assert.Equal(t, domain.EventExpand, msg.Trigger)
	assert.Equal(t, 1, eng.expands)
	assert.Equal(t, domain.Checked, late.State())
	assert.True(t, late.Checked())
	require.NotNil(t, msg.Diff)
	assert.Len(t, msg.Diff.Changes, 1)
}
