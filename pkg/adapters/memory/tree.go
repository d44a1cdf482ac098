package memory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/ports"
)

// Tree is an ordered forest of Nodes plus the change-notification callback that
// the nodes report checked-flag changes to.
// It is not safe for concurrent use; serialize access per tree (see pkg/session).
type Tree struct {
	roots     []*Node
	onChecked func(*Node)
}

// NewTree creates a tree from the given roots.
func NewTree(roots ...*Node) *Tree {
	t := &Tree{}
	for _, r := range roots {
		t.AddRoot(r)
	}
	return t
}

// AddRoot appends a root node and returns it.
func (t *Tree) AddRoot(n *Node) *Node {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
	n.attach(t)
	t.roots = append(t.roots, n)
	return n
}

// Roots returns the top-level nodes.
func (t *Tree) Roots() []*Node {
	return append([]*Node(nil), t.roots...)
}

// RootNodes returns the top-level nodes as ports.TreeNode.
func (t *Tree) RootNodes() []ports.TreeNode {
	out := make([]ports.TreeNode, len(t.roots))
	for i, r := range t.roots {
		out[i] = r
	}
	return out
}

// OnCheckedChange registers the callback fired whenever a node's checked flag
// changes. Passing nil removes it.
func (t *Tree) OnCheckedChange(fn func(*Node)) {
	t.onChecked = fn
}

// Walk visits every node in pre-order. Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.children {
			visit(c, depth+1)
		}
	}
	for _, r := range t.roots {
		visit(r, 0)
	}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(*Node, int) bool {
		n++
		return true
	})
	return n
}

// Lookup resolves ref to a node. ref is matched against node IDs first, then read
// as a dotted positional path ("0.2.1" is the second child of the third child of the
// first root).
func (t *Tree) Lookup(ref string) (*Node, error) {
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.id == ref {
			found = n
			return false
		}
		return true
	})
	if found != nil {
		return found, nil
	}

	if n, ok := t.lookupPath(ref); ok {
		return n, nil
	}

	if suggestion := t.closest(ref); suggestion != "" {
		return nil, fmt.Errorf("%w: %q (did you mean %q?)", domain.ErrNodeNotFound, ref, suggestion)
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrNodeNotFound, ref)
}

func (t *Tree) lookupPath(ref string) (*Node, bool) {
	if ref == "" {
		return nil, false
	}
	level := t.roots
	var n *Node
	for _, part := range strings.Split(ref, ".") {
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 || i >= len(level) {
			return nil, false
		}
		n = level[i]
		level = n.children
	}
	return n, true
}

// closest returns the node ID or label nearest to ref, if any is reasonably close.
func (t *Tree) closest(ref string) string {
	best, bestDist := "", len(ref)/3+2
	t.Walk(func(n *Node, _ int) bool {
		for _, candidate := range []string{n.id, n.label} {
			if candidate == "" {
				continue
			}
			if d := levenshtein.ComputeDistance(ref, candidate); d < bestDist {
				best, bestDist = n.id, d
			}
		}
		return true
	})
	return best
}

// Snapshot captures the observable outputs of every node in pre-order.
func (t *Tree) Snapshot() *domain.Snapshot {
	snap := &domain.Snapshot{}
	t.Walk(func(n *Node, depth int) bool {
		snap.Nodes = append(snap.Nodes, domain.NodeSnapshot{
			ID:      n.id,
			Label:   n.label,
			Depth:   depth,
			Checked: n.checked,
			State:   n.state,
		})
		return true
	})
	return snap
}

// FromOutlines materializes outlines into a tree, one root per outline.
// Nodes without an explicit ID get their dotted positional path.
// The outlines are not checked; run Validate first on untrusted input.
func FromOutlines(outlines ...domain.Outline) *Tree {
	t := &Tree{}
	for i := range outlines {
		t.AddRoot(build(&outlines[i], strconv.Itoa(i)))
	}
	return t
}

// Validate reports whether outlines can be materialized into a tree whose node IDs,
// positional fallbacks included, are unique. Lookup and snapshot diffs key on IDs.
func Validate(outlines ...domain.Outline) error {
	if len(outlines) == 0 {
		return domain.ErrEmptyOutline
	}
	seen := make(map[string]string)
	var visit func(o *domain.Outline, path string) error
	visit = func(o *domain.Outline, path string) error {
		id := nodeID(o, path)
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q at %s and %s", domain.ErrDuplicateNodeID, id, prev, path)
		}
		seen[id] = path
		for i := range o.Children {
			if err := visit(&o.Children[i], path+"."+strconv.Itoa(i)); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range outlines {
		if outlines[i].IsEmpty() {
			return domain.ErrEmptyOutline
		}
		if err := visit(&outlines[i], strconv.Itoa(i)); err != nil {
			return err
		}
	}
	return nil
}

func nodeID(o *domain.Outline, path string) string {
	if o.ID != "" {
		return o.ID
	}
	return path
}

func build(o *domain.Outline, path string) *Node {
	n := NewNode(nodeID(o, path), o.Label)
	for i := range o.Children {
		n.AddChild(build(&o.Children[i], path+"."+strconv.Itoa(i)))
	}
	return n
}

// ToOutlines converts the tree back into outlines (structure only, no check state).
func (t *Tree) ToOutlines() []domain.Outline {
	var toOutline func(n *Node) domain.Outline
	toOutline = func(n *Node) domain.Outline {
		o := domain.Outline{ID: n.id, Label: n.label}
		for _, c := range n.children {
			o.Children = append(o.Children, toOutline(c))
		}
		return o
	}

	out := make([]domain.Outline, 0, len(t.roots))
	for _, r := range t.roots {
		out = append(out, toOutline(r))
	}
	return out
}
