package domain

// NodeChange records how one node's observable outputs moved between two snapshots.
type NodeChange struct {
	ID         string `json:"id"`
	OldState   State  `json:"old_state"`
	NewState   State  `json:"new_state"`
	OldChecked bool   `json:"old_checked"`
	NewChecked bool   `json:"new_checked"`
}

// SnapshotDiff lists the nodes whose state or checked flag changed.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	Changes []NodeChange `json:"changes,omitempty"`

	// Added and Removed hold node IDs present in only one of the snapshots.
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, every node of newSnap is reported as added (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{}

	previous := make(map[string]NodeSnapshot)
	if oldSnap != nil {
		for _, n := range oldSnap.Nodes {
			previous[n.ID] = n
		}
	}

	seen := make(map[string]bool, len(newSnap.Nodes))
	for _, n := range newSnap.Nodes {
		seen[n.ID] = true
		old, ok := previous[n.ID]
		if !ok {
			diff.Added = append(diff.Added, n.ID)
			continue
		}
		if old.State != n.State || old.Checked != n.Checked {
			diff.Changes = append(diff.Changes, NodeChange{
				ID:         n.ID,
				OldState:   old.State,
				NewState:   n.State,
				OldChecked: old.Checked,
				NewChecked: n.Checked,
			})
		}
	}

	if oldSnap != nil {
		for _, n := range oldSnap.Nodes {
			if !seen[n.ID] {
				diff.Removed = append(diff.Removed, n.ID)
			}
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d == nil || (len(d.Changes) == 0 && len(d.Added) == 0 && len(d.Removed) == 0)
}
