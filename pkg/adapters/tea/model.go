package tea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/tristate/pkg/adapters/memory"
)

var (
	glyphs         = [...]string{"[ ]", "[x]", "[-]"}
	cursorStyle    = lipgloss.NewStyle().Bold(true)
	statusStyle    = lipgloss.NewStyle().Faint(true)
	glyphWidth     = 3
	cursorGutter   = 2
	indentPerLevel = 2
)

type row struct {
	node  *memory.Node
	depth int
}

// Model is a minimal tree browser: arrows move and expand, space toggles, a click on
// a glyph toggles. It hosts a Controller.
type Model struct {
	ctrl     *Controller
	tree     *memory.Tree
	expanded map[*memory.Node]bool
	rows     []row
	cursor   int
	status   string
}

// NewModel creates a browser over tree with every root visible and collapsed.
func NewModel(engine Engine, tree *memory.Tree) *Model {
	m := &Model{
		tree:     tree,
		expanded: make(map[*memory.Node]bool),
	}
	m.ctrl = New(engine, tree, m, m)
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := m.ctrl.Update(msg); handled {
		return m, cmd
	}

	switch msg := msg.(type) {
	case ChangedMsg:
		n := 0
		if msg.Diff != nil {
			n = len(msg.Diff.Changes)
		}
		m.status = fmt.Sprintf("%s %s: %d node(s) changed", msg.Trigger, msg.Node.ID(), n)
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "right", "l", "enter":
			n := m.Selected()
			if n == nil || n.IsLeaf() || m.expanded[n] {
				return m, nil
			}
			m.expanded[n] = true
			m.refresh()
			return m, func() tea.Msg { return ExpandMsg{Node: n} }
		case "left", "h":
			n := m.Selected()
			if n == nil {
				return m, nil
			}
			if m.expanded[n] {
				delete(m.expanded, n)
			} else if p := n.ParentNode(); p != nil {
				m.moveTo(p)
			}
			m.refresh()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	for i, r := range m.rows {
		line := fmt.Sprintf("%s%s %s",
			strings.Repeat(" ", r.depth*indentPerLevel), glyph(r.node), r.node.Label())
		if i == m.cursor {
			b.WriteString("> " + cursorStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteByte('\n')
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	return b.String()
}

// Selected implements Selection.
func (m *Model) Selected() *memory.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

// HitTest implements HitTester over the layout drawn by View: one row per line,
// a two-column cursor gutter, then the indented glyph and label.
func (m *Model) HitTest(x, y int) (*memory.Node, Location) {
	if y < 0 || y >= len(m.rows) {
		return nil, LocationNone
	}
	r := m.rows[y]
	start := cursorGutter + r.depth*indentPerLevel
	switch {
	case x >= start && x < start+glyphWidth:
		return r.node, LocationStateGlyph
	case x > start+glyphWidth:
		return r.node, LocationLabel
	default:
		return nil, LocationNone
	}
}

func (m *Model) moveTo(n *memory.Node) {
	for i, r := range m.rows {
		if r.node == n {
			m.cursor = i
			return
		}
	}
}

func (m *Model) refresh() {
	selected := m.Selected()
	m.rows = m.rows[:0]
	m.tree.Walk(func(n *memory.Node, depth int) bool {
		m.rows = append(m.rows, row{node: n, depth: depth})
		return m.expanded[n]
	})
	if selected != nil {
		m.moveTo(selected)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

func glyph(n *memory.Node) string {
	if i, ok := n.State().GlyphIndex(); ok && i < len(glyphs) {
		return glyphs[i]
	}
	return "[?]"
}
