package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	base := &Snapshot{Nodes: []NodeSnapshot{
		{ID: "root", State: Unchecked},
		{ID: "a", Depth: 1, State: Unchecked},
		{ID: "b", Depth: 1, State: Unchecked},
	}}

	tests := []struct {
		name     string
		old      *Snapshot
		new      *Snapshot
		wantDiff *SnapshotDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  base,
			wantDiff: &SnapshotDiff{
				Added: []string{"root", "a", "b"},
			},
		},
		{
			name:     "No Changes",
			old:      base,
			new:      base,
			wantDiff: nil,
		},
		{
			name: "State And Checked Change",
			old:  base,
			new: &Snapshot{Nodes: []NodeSnapshot{
				{ID: "root", State: Mixed},
				{ID: "a", Depth: 1, State: Checked, Checked: true},
				{ID: "b", Depth: 1, State: Unchecked},
			}},
			wantDiff: &SnapshotDiff{
				Changes: []NodeChange{
					{ID: "root", OldState: Unchecked, NewState: Mixed},
					{ID: "a", OldState: Unchecked, NewState: Checked, NewChecked: true},
				},
			},
		},
		{
			name: "Checked Flag Only",
			old:  base,
			new: &Snapshot{Nodes: []NodeSnapshot{
				{ID: "root", State: Unchecked, Checked: true},
				{ID: "a", Depth: 1, State: Unchecked},
				{ID: "b", Depth: 1, State: Unchecked},
			}},
			wantDiff: &SnapshotDiff{
				Changes: []NodeChange{
					{ID: "root", OldState: Unchecked, NewState: Unchecked, NewChecked: true},
				},
			},
		},
		{
			name: "Node Added And Removed",
			old:  base,
			new: &Snapshot{Nodes: []NodeSnapshot{
				{ID: "root", State: Unchecked},
				{ID: "a", Depth: 1, State: Unchecked},
				{ID: "c", Depth: 1, State: Uninitialized},
			}},
			wantDiff: &SnapshotDiff{
				Added:   []string{"c"},
				Removed: []string{"b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				if got != nil {
					t.Errorf("Diff() = %+v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Diff() = nil, want %+v", tt.wantDiff)
			}
			if !reflect.DeepEqual(got.Changes, tt.wantDiff.Changes) {
				t.Errorf("Diff().Changes = %+v, want %+v", got.Changes, tt.wantDiff.Changes)
			}
			if !reflect.DeepEqual(got.Added, tt.wantDiff.Added) {
				t.Errorf("Diff().Added = %v, want %v", got.Added, tt.wantDiff.Added)
			}
			if !reflect.DeepEqual(got.Removed, tt.wantDiff.Removed) {
				t.Errorf("Diff().Removed = %v, want %v", got.Removed, tt.wantDiff.Removed)
			}
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("States Serialized By Name", func(t *testing.T) {
		old := &Snapshot{Nodes: []NodeSnapshot{{ID: "a", State: Unchecked}}}
		next := &Snapshot{Nodes: []NodeSnapshot{{ID: "a", State: Mixed}}}

		bytes, err := json.Marshal(Diff(old, next))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if !strings.Contains(string(bytes), `"new_state":"mixed"`) {
			t.Errorf("JSON should carry state names, got: %s", string(bytes))
		}
	})

	t.Run("Empty Lists Omitted", func(t *testing.T) {
		old := &Snapshot{Nodes: []NodeSnapshot{{ID: "a", State: Unchecked}}}
		next := &Snapshot{Nodes: []NodeSnapshot{{ID: "a", State: Checked, Checked: true}}}

		bytes, _ := json.Marshal(Diff(old, next))
		if strings.Contains(string(bytes), `"added"`) || strings.Contains(string(bytes), `"removed"`) {
			t.Errorf("JSON should not contain empty added/removed, got: %s", string(bytes))
		}
	})
}
