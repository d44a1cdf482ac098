package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tristate/pkg/domain"
)

var glyphs = map[domain.State]string{
	domain.Unchecked: "☐",
	domain.Checked:   "☑",
	domain.Mixed:     "▣",
}

// GenerateMermaid produces a Mermaid flowchart of a snapshot. Parent edges are
// recovered from the pre-order depths, and every node gets the class of its state:
// checked, mixed, unchecked or uninitialized.
func GenerateMermaid(snap *domain.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if snap == nil {
		return sb.String()
	}

	// stack[d] holds the most recent node seen at depth d.
	var stack []string
	classes := make(map[domain.State][]string)

	for _, n := range snap.Nodes {
		safeID := sanitizeMermaidID(n.ID)

		label := n.Label
		if label == "" {
			label = n.ID
		}
		label = strings.ReplaceAll(label, "\"", "'")
		if g, ok := glyphs[n.State]; ok {
			label = g + " " + label
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, label))

		if n.Depth > len(stack) {
			// Malformed depth sequence; treat as a root.
			stack = stack[:0]
		} else {
			stack = stack[:n.Depth]
		}
		if len(stack) > 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", stack[len(stack)-1], safeID))
		}
		stack = append(stack, safeID)

		classes[n.State] = append(classes[n.State], safeID)
	}

	sb.WriteString("\n    %% State Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef checked fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef mixed fill:#fff59d,stroke:#f9a825,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef unchecked fill:#eceff1,stroke:#90a4ae,color:#000;\n")
	sb.WriteString("    classDef uninitialized fill:#fff,stroke:#bdbdbd,stroke-dasharray:4 2,color:#000;\n")

	for _, state := range []domain.State{domain.Checked, domain.Mixed, domain.Unchecked, domain.Uninitialized} {
		if ids := classes[state]; len(ids) > 0 {
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", strings.Join(ids, ","), state))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return "n_" + s
}
