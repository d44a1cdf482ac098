package tea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/ports"
)

// Engine is the subset of the propagation engine the controller drives.
type Engine interface {
	AfterCheck(ctx context.Context, n ports.TreeNode) bool
	Expand(ctx context.Context, n ports.TreeNode) int
}

// Location identifies which part of a rendered node a pointer hit.
type Location int

const (
	LocationNone Location = iota
	LocationLabel
	LocationStateGlyph
)

// Selection reports the node keyboard activation applies to.
type Selection interface {
	Selected() *memory.Node
}

// HitTester maps a screen cell to the node drawn there.
type HitTester interface {
	HitTest(x, y int) (*memory.Node, Location)
}

// ExpandMsg asks the controller to run the lazy-expansion pass for Node, after the
// host has materialized and revealed its children.
type ExpandMsg struct {
	Node *memory.Node
}

// ChangedMsg is emitted after a handled event so the host can redraw.
// Diff is nil when the event changed nothing.
type ChangedMsg struct {
	Trigger domain.EventType
	Node    *memory.Node
	Diff    *domain.SnapshotDiff
}

// Controller turns key and mouse events into engine calls.
// Toggles are applied by flipping the node's checked flag; the tree's change
// notification then reaches Notify, which runs the toggle pass. Writes made by the
// pass notify too, and are dropped by the engine's re-entrancy latch.
type Controller struct {
	engine    Engine
	tree      *memory.Tree
	selection Selection
	hits      HitTester
}

// New creates a controller and subscribes it to tree's change notifications.
// selection and hits may be nil, disabling keyboard or mouse toggles.
func New(engine Engine, tree *memory.Tree, selection Selection, hits HitTester) *Controller {
	c := &Controller{
		engine:    engine,
		tree:      tree,
		selection: selection,
		hits:      hits,
	}
	tree.OnCheckedChange(c.Notify)
	return c
}

// Notify is the checked-flag change handler.
func (c *Controller) Notify(n *memory.Node) {
	c.engine.AfterCheck(context.Background(), n)
}

// Update handles the messages the controller owns. It reports whether msg was
// consumed; the command, when non-nil, yields a ChangedMsg.
func (c *Controller) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type != tea.KeySpace || c.selection == nil {
			return false, nil
		}
		n := c.selection.Selected()
		if n == nil {
			return true, nil
		}
		return true, c.flip(n)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || c.hits == nil {
			return false, nil
		}
		n, loc := c.hits.HitTest(msg.X, msg.Y)
		if n == nil || loc != LocationStateGlyph {
			return false, nil
		}
		return true, c.flip(n)

	case ExpandMsg:
		if msg.Node == nil {
			return true, nil
		}
		before := c.tree.Snapshot()
		c.engine.Expand(context.Background(), msg.Node)
		return true, changed(domain.EventExpand, msg.Node, domain.Diff(before, c.tree.Snapshot()))
	}
	return false, nil
}

func (c *Controller) flip(n *memory.Node) tea.Cmd {
	before := c.tree.Snapshot()
	n.SetChecked(!n.Checked())
	return changed(domain.EventToggle, n, domain.Diff(before, c.tree.Snapshot()))
}

func changed(trigger domain.EventType, n *memory.Node, diff *domain.SnapshotDiff) tea.Cmd {
	return func() tea.Msg {
		return ChangedMsg{Trigger: trigger, Node: n, Diff: diff}
	}
}
