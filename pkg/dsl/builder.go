package dsl

import (
	"fmt"

	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
)

// Builder manages the tree construction.
type Builder struct {
	roots []*NodeBuilder
}

// New creates a new tree builder.
func New() *Builder {
	return &Builder{}
}

// Root adds a top-level node.
// If a root with the same ID already exists, it returns the existing builder.
func (b *Builder) Root(id string) *NodeBuilder {
	for _, r := range b.roots {
		if r.outline.ID == id {
			return r
		}
	}
	nb := &NodeBuilder{
		outline: domain.Outline{ID: id, Label: id},
		builder: b,
	}
	b.roots = append(b.roots, nb)
	return nb
}

// Outlines returns the outlines described so far, one per root.
func (b *Builder) Outlines() []domain.Outline {
	out := make([]domain.Outline, 0, len(b.roots))
	for _, r := range b.roots {
		out = append(out, r.Outline())
	}
	return out
}

// Build validates the description and materializes it as an in-memory tree.
// Every node must have a non-empty ID, unique across the whole tree.
func (b *Builder) Build() (*memory.Tree, error) {
	outlines := b.Outlines()
	if len(outlines) == 0 {
		return nil, domain.ErrEmptyOutline
	}

	var check func(o *domain.Outline) error
	check = func(o *domain.Outline) error {
		if o.ID == "" {
			return fmt.Errorf("node %q has an empty id", o.Label)
		}
		for i := range o.Children {
			if err := check(&o.Children[i]); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range outlines {
		if err := check(&outlines[i]); err != nil {
			return nil, fmt.Errorf("failed to build tree: %w", err)
		}
	}
	if err := memory.Validate(outlines...); err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}

	return memory.FromOutlines(outlines...), nil
}

// Loader exposes each root as an outline of a memory.Loader, keyed by root ID.
func (b *Builder) Loader() *memory.Loader {
	data := make(map[string]domain.Outline, len(b.roots))
	for _, o := range b.Outlines() {
		data[o.ID] = o
	}
	return memory.NewLoader(data)
}
