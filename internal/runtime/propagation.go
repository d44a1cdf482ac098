package runtime

import (
	"context"

	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/ports"
)

// propagateDown writes state and checked into nodes and, recursively, their descendants.
// Siblings are independent, so traversal order does not affect the result.
func (e *Engine) propagateDown(ctx context.Context, nodes []ports.TreeNode, state domain.State, checked, onlyIfUninitialized bool) int {
	touched := 0
	for _, child := range nodes {
		if onlyIfUninitialized && child.State() != domain.Uninitialized {
			continue
		}

		e.setState(ctx, child, state)
		child.SetChecked(checked)
		touched++

		if grandchildren := child.Children(); len(grandchildren) > 0 {
			touched += e.propagateDown(ctx, grandchildren, state, checked, onlyIfUninitialized)
		}
	}
	return touched
}

// propagateUp resolves p from its immediate children and continues with p's parent
// until a level comes out unchanged or the root has been resolved.
func (e *Engine) propagateUp(ctx context.Context, p ports.TreeNode) int {
	changed := 0
	for p != nil {
		children := p.Children()
		if len(children) == 0 {
			// Leaves are owned by the toggle pass.
			return changed
		}

		orig := p.State()
		state, checked := Resolve(e.style, p.Checked(), Count(children))
		if checked != p.Checked() {
			p.SetChecked(checked)
		}
		e.setState(ctx, p, state)

		if state == orig {
			return changed
		}
		changed++
		p = p.Parent()
	}
	return changed
}

// Count partitions children by state. It stops at the first Mixed child, since one
// is enough to make the parent Mixed. Uninitialized children count as unchecked.
func Count(children []ports.TreeNode) domain.Tally {
	var t domain.Tally
	for _, c := range children {
		switch c.State() {
		case domain.Checked:
			t.Checked++
		case domain.Mixed:
			t.Mixed++
			return t
		default:
			t.Unchecked++
		}
	}
	return t
}

// Resolve computes a parent's state from the tally of its children and its own
// checked flag, and returns the checked flag the parent should carry afterwards.
//
// Under Installer style, with no Mixed child, the flag is first forced to
// "no child unchecked". Standard style never changes it, so a parent whose children
// are all checked but which is not itself checked resolves to Mixed.
func Resolve(style domain.Style, checked bool, t domain.Tally) (domain.State, bool) {
	if style == domain.StyleInstaller && t.Mixed == 0 {
		checked = t.Unchecked == 0
	}

	switch {
	case t.Mixed > 0:
		return domain.Mixed, checked
	case t.Checked > 0 && t.Unchecked == 0:
		if checked {
			return domain.Checked, checked
		}
		return domain.Mixed, checked
	case t.Checked > 0:
		return domain.Mixed, checked
	default:
		if checked {
			return domain.Mixed, checked
		}
		return domain.Unchecked, checked
	}
}
