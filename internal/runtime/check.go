package runtime

import (
	"fmt"

	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/ports"
)

// Rule names reported by Check.
const (
	RuleUninitialized = "uninitialized"
	RuleLeafMixed     = "leaf_mixed"
	RuleResolution    = "resolution"
	RuleInstallerFlag = "installer_flag"
)

// Violation is a node whose state disagrees with the engine's invariants.
type Violation struct {
	NodeID string       `json:"node_id"`
	Rule   string       `json:"rule"`
	Got    domain.State `json:"got"`
	Want   domain.State `json:"want"`
}

func (v Violation) Error() string {
	if v.Rule == RuleResolution {
		return fmt.Sprintf("node %s: %s: state is %s, children resolve to %s", v.NodeID, v.Rule, v.Got, v.Want)
	}
	return fmt.Sprintf("node %s: %s (state %s)", v.NodeID, v.Rule, v.Got)
}

// Check walks the trees under roots and reports every invariant violation:
// nodes still Uninitialized, leaves in Mixed, parents whose state differs from what
// their children resolve to and, under Installer style, parents whose checked flag
// disagrees with child uniformity. A tree left by the entry points reports none,
// except for leaves revealed under a Mixed parent by Expand, which inherit Mixed.
func (e *Engine) Check(roots ...ports.TreeNode) []Violation {
	var out []Violation

	var visit func(n ports.TreeNode)
	visit = func(n ports.TreeNode) {
		state := n.State()
		children := n.Children()

		switch {
		case state == domain.Uninitialized:
			out = append(out, Violation{NodeID: n.ID(), Rule: RuleUninitialized, Got: state})
		case len(children) == 0 && state == domain.Mixed:
			out = append(out, Violation{NodeID: n.ID(), Rule: RuleLeafMixed, Got: state})
		case len(children) > 0:
			tally := Count(children)
			want, checked := Resolve(e.style, n.Checked(), tally)
			if want != state {
				out = append(out, Violation{NodeID: n.ID(), Rule: RuleResolution, Got: state, Want: want})
			}
			if e.style == domain.StyleInstaller && tally.Mixed == 0 && checked != n.Checked() {
				out = append(out, Violation{NodeID: n.ID(), Rule: RuleInstallerFlag, Got: state, Want: want})
			}
		}

		for _, c := range children {
			visit(c)
		}
	}

	for _, r := range roots {
		if r != nil {
			visit(r)
		}
	}
	return out
}
