package domain

// NodeSnapshot captures the observable outputs of one node.
type NodeSnapshot struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Depth   int    `json:"depth"`
	Checked bool   `json:"checked"`
	State   State  `json:"state"`
}

// Snapshot is a pre-order listing of every node in a tree.
type Snapshot struct {
	Nodes []NodeSnapshot `json:"nodes"`
}

// Find returns the snapshot entry for id.
func (s *Snapshot) Find(id string) (NodeSnapshot, bool) {
	if s == nil {
		return NodeSnapshot{}, false
	}
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeSnapshot{}, false
}

// Count returns the number of nodes in each state.
func (s *Snapshot) Count() map[State]int {
	counts := make(map[State]int)
	if s == nil {
		return counts
	}
	for _, n := range s.Nodes {
		counts[n.State]++
	}
	return counts
}
