package dsl

import "github.com/aretw0/tristate/pkg/domain"

// NodeBuilder provides a fluent API for describing a node and its children.
type NodeBuilder struct {
	outline  domain.Outline
	parent   *NodeBuilder
	children []*NodeBuilder
	builder  *Builder
}

// Label sets the display text. It defaults to the ID.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	n.outline.Label = label
	return n
}

// Child adds a child and returns its builder, so calls chain downwards.
// If the child already exists, it returns the existing builder.
func (n *NodeBuilder) Child(id string) *NodeBuilder {
	for _, c := range n.children {
		if c.outline.ID == id {
			return c
		}
	}
	c := &NodeBuilder{
		outline: domain.Outline{ID: id, Label: id},
		parent:  n,
		builder: n.builder,
	}
	n.children = append(n.children, c)
	return c
}

// Leaves adds childless children and returns the receiver.
func (n *NodeBuilder) Leaves(ids ...string) *NodeBuilder {
	for _, id := range ids {
		n.Child(id)
	}
	return n
}

// Up returns the parent builder. On a root it returns the root itself.
func (n *NodeBuilder) Up() *NodeBuilder {
	if n.parent == nil {
		return n
	}
	return n.parent
}

// Done returns the owning Builder.
func (n *NodeBuilder) Done() *Builder {
	return n.builder
}

// Outline returns the described subtree.
func (n *NodeBuilder) Outline() domain.Outline {
	o := domain.Outline{ID: n.outline.ID, Label: n.outline.Label}
	for _, c := range n.children {
		o.Children = append(o.Children, c.Outline())
	}
	return o
}
