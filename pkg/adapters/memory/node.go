package memory

import (
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/ports"
)

// Node implements ports.TreeNode in memory.
// A node owns its children; the parent pointer is a lookup-only back reference.
type Node struct {
	id      string
	label   string
	checked bool
	state   domain.State

	parent   *Node
	children []*Node
	tree     *Tree
}

var _ ports.TreeNode = (*Node)(nil)

// NewNode creates a detached, unchecked node in the Uninitialized state.
func NewNode(id, label string) *Node {
	return &Node{
		id:    id,
		label: label,
		state: domain.Uninitialized,
	}
}

// ID returns the node identifier.
func (n *Node) ID() string { return n.id }

// Label returns the display text.
func (n *Node) Label() string { return n.label }

// Parent returns the enclosing node, or nil for a root.
func (n *Node) Parent() ports.TreeNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// ParentNode is the typed variant of Parent.
func (n *Node) ParentNode() *Node { return n.parent }

// Children returns the immediate children as ports.TreeNode.
func (n *Node) Children() []ports.TreeNode {
	out := make([]ports.TreeNode, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Nodes returns the immediate children.
func (n *Node) Nodes() []*Node {
	return append([]*Node(nil), n.children...)
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Checked returns the node's own boolean flag.
func (n *Node) Checked() bool { return n.checked }

// SetChecked assigns the flag and, when the value actually changes, notifies the
// owning tree's OnCheckedChange callback.
func (n *Node) SetChecked(checked bool) {
	if n.checked == checked {
		return
	}
	n.checked = checked
	if n.tree != nil && n.tree.onChecked != nil {
		n.tree.onChecked(n)
	}
}

// State returns the tri-state value.
func (n *Node) State() domain.State { return n.state }

// SetState assigns the tri-state value. It never notifies.
func (n *Node) SetState(state domain.State) { n.state = state }

// AddChild appends c to n's children and returns c.
// c is detached from any previous parent first.
func (n *Node) AddChild(c *Node) *Node {
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = n
	c.attach(n.tree)
	n.children = append(n.children, c)
	return c
}

// RemoveChild detaches c from n. It reports whether c was a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			c.attach(nil)
			return true
		}
	}
	return false
}

func (n *Node) attach(t *Tree) {
	n.tree = t
	for _, c := range n.children {
		c.attach(t)
	}
}
