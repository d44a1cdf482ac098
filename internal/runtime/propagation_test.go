package runtime_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/tristate/internal/runtime"
	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		style       domain.Style
		checked     bool
		tally       domain.Tally
		wantState   domain.State
		wantChecked bool
	}{
		{"mixed dominates", domain.StyleStandard, true, domain.Tally{Checked: 3, Mixed: 1}, domain.Mixed, true},
		{"mixed keeps installer flag", domain.StyleInstaller, false, domain.Tally{Checked: 2, Mixed: 1}, domain.Mixed, false},
		{"all checked and checked", domain.StyleStandard, true, domain.Tally{Checked: 2}, domain.Checked, true},
		{"all checked but unchecked", domain.StyleStandard, false, domain.Tally{Checked: 2}, domain.Mixed, false},
		{"all checked installer", domain.StyleInstaller, false, domain.Tally{Checked: 2}, domain.Checked, true},
		{"partial", domain.StyleStandard, true, domain.Tally{Checked: 1, Unchecked: 1}, domain.Mixed, true},
		{"partial installer", domain.StyleInstaller, true, domain.Tally{Checked: 1, Unchecked: 1}, domain.Mixed, false},
		{"all unchecked", domain.StyleStandard, false, domain.Tally{Unchecked: 2}, domain.Unchecked, false},
		{"all unchecked but checked", domain.StyleStandard, true, domain.Tally{Unchecked: 2}, domain.Mixed, true},
		{"all unchecked installer", domain.StyleInstaller, true, domain.Tally{Unchecked: 2}, domain.Unchecked, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, checked := runtime.Resolve(tt.style, tt.checked, tt.tally)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantChecked, checked)
		})
	}
}

func TestCount_StopsAtFirstMixed(t *testing.T) {
	states := []domain.State{domain.Checked, domain.Uninitialized, domain.Mixed, domain.Checked, domain.Unchecked}
	children := make([]ports.TreeNode, len(states))
	for i, s := range states {
		n := memory.NewNode(fmt.Sprint(i), "")
		n.SetState(s)
		children[i] = n
	}

	assert.Equal(t, domain.Tally{Checked: 1, Unchecked: 1, Mixed: 1}, runtime.Count(children))
	assert.Equal(t, domain.Tally{}, runtime.Count(nil))
}

func TestPropagateToChildren_OnlyIfUninitialized(t *testing.T) {
	root := memory.NewNode("r", "r")
	kept := root.AddChild(memory.NewNode("kept", ""))
	keptChild := kept.AddChild(memory.NewNode("kept.child", ""))
	fresh := root.AddChild(memory.NewNode("fresh", ""))
	kept.SetState(domain.Unchecked)

	engine := runtime.NewEngine()
	n := engine.PropagateToChildren(context.Background(), root, domain.Checked, true, true)

	assert.Equal(t, 1, n)
	assert.Equal(t, domain.Checked, fresh.State())
	assert.Equal(t, domain.Unchecked, kept.State())
	assert.Equal(t, domain.Uninitialized, keptChild.State(), "a touched subtree is skipped whole")

	n = engine.PropagateToChildren(context.Background(), root, domain.Unchecked, false, false)
	assert.Equal(t, 3, n)
	assert.Equal(t, domain.Unchecked, keptChild.State())
}

func TestPropagateToParent_LeafIsNeverResolved(t *testing.T) {
	leaf := memory.NewNode("leaf", "")
	leaf.SetState(domain.Checked)
	leaf.SetChecked(true)

	engine := runtime.NewEngine(runtime.WithStyle(domain.StyleInstaller))
	assert.Zero(t, engine.PropagateToParent(context.Background(), leaf))
	assert.Equal(t, domain.Checked, leaf.State())
}

// randomOutline builds a tree of the given depth with 1..maxFan children per node.
func randomOutline(r *rand.Rand, depth, maxFan int) domain.Outline {
	o := domain.Outline{Label: "n"}
	if depth == 0 {
		return o
	}
	for range 1 + r.IntN(maxFan) {
		if r.IntN(4) == 0 {
			o.Children = append(o.Children, domain.Outline{Label: "leaf"})
			continue
		}
		o.Children = append(o.Children, randomOutline(r, depth-1, maxFan))
	}
	return o
}

func allNodes(tree *memory.Tree) []*memory.Node {
	var out []*memory.Node
	tree.Walk(func(n *memory.Node, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

func TestToggle_RandomTreesStayConsistent(t *testing.T) {
	for _, style := range []domain.Style{domain.StyleStandard, domain.StyleInstaller} {
		for seed := range uint64(20) {
			t.Run(fmt.Sprintf("%s/%d", style, seed), func(t *testing.T) {
				r := rand.New(rand.NewPCG(seed, 7))
				h := newHost(t, style, randomOutline(r, 4, 4))
				ctx := context.Background()
				nodes := allNodes(h.tree)

				for range 30 {
					n := nodes[r.IntN(len(nodes))]
					require.True(t, h.engine.Toggle(ctx, n))

					// The toggled subtree is uniform.
					want := domain.StateFor(n.Checked())
					var walk func(*memory.Node)
					walk = func(m *memory.Node) {
						assert.Equal(t, want, m.State(), m.ID())
						assert.Equal(t, n.Checked(), m.Checked(), m.ID())
						for _, c := range m.Nodes() {
							walk(c)
						}
					}
					walk(n)

					require.Empty(t, h.engine.Check(h.tree.RootNodes()...))
				}

				// Resolving again changes nothing.
				for _, n := range nodes {
					assert.Zero(t, h.engine.PropagateToParent(ctx, n), n.ID())
				}
				assert.Zero(t, h.accepted)
				assert.False(t, h.engine.Busy())
			})
		}
	}
}

func TestCheck_ReportsDrift(t *testing.T) {
	h := newHost(t, domain.StyleInstaller, pair())
	root := h.node(t, "root")
	b := h.node(t, "b")

	b.SetState(domain.Checked) // bypasses the engine
	root.SetState(domain.Checked)
	h.node(t, "a").SetState(domain.Uninitialized)

	rules := map[string]string{}
	for _, v := range h.engine.Check(h.tree.RootNodes()...) {
		rules[v.NodeID] = v.Rule
		assert.NotEmpty(t, v.Error())
	}
	assert.Equal(t, runtime.RuleUninitialized, rules["a"])
	assert.Contains(t, []string{runtime.RuleResolution, runtime.RuleInstallerFlag}, rules["root"])
}
