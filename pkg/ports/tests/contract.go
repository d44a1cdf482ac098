package tests

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/ports"
)

// TreeNodeContractTest is a reusable test suite that verifies if an adapter complies with ports.TreeNode.
// root must be a freshly built root node with at least one child.
func TreeNodeContractTest(t *testing.T, root ports.TreeNode) {
	t.Helper()

	// 1. Roots have no parent
	t.Run("Root_HasNoParent", func(t *testing.T) {
		if p := root.Parent(); p != nil {
			t.Errorf("expected nil parent for root %s, got %s", root.ID(), p.ID())
		}
	})

	// 2. Back references point at the owning node
	t.Run("Children_PointBackToParent", func(t *testing.T) {
		children := root.Children()
		if len(children) == 0 {
			t.Fatal("contract requires a root with children")
		}
		var visit func(n ports.TreeNode)
		visit = func(n ports.TreeNode) {
			for _, c := range n.Children() {
				p := c.Parent()
				if p == nil {
					t.Fatalf("child %s has nil parent", c.ID())
				}
				if p.ID() != n.ID() {
					t.Errorf("child %s parent = %s, want %s", c.ID(), p.ID(), n.ID())
				}
				visit(c)
			}
		}
		visit(root)
	})

	// 3. New nodes start uninitialized
	t.Run("Fresh_Uninitialized", func(t *testing.T) {
		var visit func(n ports.TreeNode)
		visit = func(n ports.TreeNode) {
			if n.State() != domain.Uninitialized {
				t.Errorf("node %s state = %s, want uninitialized", n.ID(), n.State())
			}
			for _, c := range n.Children() {
				visit(c)
			}
		}
		visit(root)
	})

	// 4. Accessors round-trip
	t.Run("Accessors_RoundTrip", func(t *testing.T) {
		n := root.Children()[0]
		prevChecked, prevState := n.Checked(), n.State()
		defer func() {
			n.SetChecked(prevChecked)
			n.SetState(prevState)
		}()

		n.SetChecked(!prevChecked)
		if n.Checked() == prevChecked {
			t.Error("SetChecked did not change the flag")
		}
		n.SetState(domain.Mixed)
		if n.State() != domain.Mixed {
			t.Errorf("State() = %s after SetState(mixed)", n.State())
		}
	})

	// 5. IDs are unique
	t.Run("IDs_Unique", func(t *testing.T) {
		seen := make(map[string]bool)
		var visit func(n ports.TreeNode)
		visit = func(n ports.TreeNode) {
			if seen[n.ID()] {
				t.Errorf("duplicate node id %q", n.ID())
			}
			seen[n.ID()] = true
			for _, c := range n.Children() {
				visit(c)
			}
		}
		visit(root)
	})
}

// OutlineLoaderContractTest verifies if an adapter complies with ports.OutlineLoader.
func OutlineLoaderContractTest(t *testing.T, loader ports.OutlineLoader, setupData map[string]domain.Outline) {
	t.Helper()
	ctx := context.Background()

	// 1. Test Load (Success)
	t.Run("Load_Success", func(t *testing.T) {
		for id, expected := range setupData {
			got, err := loader.Load(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error loading outline %s: %v", id, err)
			}
			if !reflect.DeepEqual(*got, expected) {
				t.Errorf("outline mismatch for %s.\n got %+v\nwant %+v", id, *got, expected)
			}
		}
	})

	// 2. Test Load (NotFound)
	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-outline")
		if err == nil {
			t.Fatal("expected error for non-existent outline, got nil")
		}
		if !errors.Is(err, domain.ErrOutlineNotFound) {
			t.Errorf("expected ErrOutlineNotFound, got %v", err)
		}
	})

	// 3. Test List
	t.Run("List", func(t *testing.T) {
		ids, err := loader.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing outlines: %v", err)
		}

		if len(ids) != len(setupData) {
			t.Errorf("expected %d outlines, got %d", len(setupData), len(ids))
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}
		for id := range setupData {
			if !lookup[id] {
				t.Errorf("outline %s missing from list", id)
			}
		}
	})
}
