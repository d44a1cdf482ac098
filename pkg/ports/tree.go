package ports

import "github.com/aretw0/tristate/pkg/domain"

// TreeNode is the view of a tree node the propagation engine operates on.
// Implementations own their children; Parent is a lookup-only back reference.
type TreeNode interface {
	// ID identifies the node within its tree.
	ID() string

	// Parent returns the enclosing node, or nil for a root.
	Parent() TreeNode

	// Children returns the immediate children in display order.
	Children() []TreeNode

	Checked() bool
	SetChecked(checked bool)

	State() domain.State
	SetState(state domain.State)
}
