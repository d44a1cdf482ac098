package domain

// Outline describes a tree as handed over by a population collaborator
// (file loader, document library, HTTP payload) before it is materialized.
// Check state is not part of an outline: every materialized node starts Uninitialized
// and unchecked.
type Outline struct {
	ID       string    `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Label    string    `json:"label" yaml:"label" mapstructure:"label"`
	Children []Outline `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`
}

// IsEmpty reports whether the outline describes no node at all. A lone node with
// only an ID is a valid one-node tree.
func (o *Outline) IsEmpty() bool {
	return o == nil || (o.ID == "" && o.Label == "" && len(o.Children) == 0)
}

// Count returns the number of nodes in the outline, the receiver included.
func (o *Outline) Count() int {
	if o == nil {
		return 0
	}
	n := 1
	for i := range o.Children {
		n += o.Children[i].Count()
	}
	return n
}
