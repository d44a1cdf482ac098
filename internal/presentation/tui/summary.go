package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/tristate/pkg/domain"
)

var boxes = map[domain.State]string{
	domain.Unchecked: "[ ]",
	domain.Checked:   "[x]",
	domain.Mixed:     "[-]",
}

// Summary renders a snapshot as a markdown checklist followed by per-state totals.
func Summary(title string, style domain.Style, snap *domain.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "_Style: %s_\n\n", style)

	for _, n := range snap.Nodes {
		box, ok := boxes[n.State]
		if !ok {
			box = "[?]"
		}
		label := n.Label
		if label == "" {
			label = n.ID
		}
		// Escaped so markdown renders the box literally instead of as a task list item.
		box = strings.ReplaceAll(strings.ReplaceAll(box, "[", `\[`), "]", `\]`)
		fmt.Fprintf(&sb, "%s- %s %s `%s`\n", strings.Repeat("  ", n.Depth), box, label, n.ID)
	}

	counts := snap.Count()
	sb.WriteString("\n| State | Nodes |\n|---|---|\n")
	for _, s := range []domain.State{domain.Checked, domain.Mixed, domain.Unchecked, domain.Uninitialized} {
		if counts[s] > 0 {
			fmt.Fprintf(&sb, "| %s | %d |\n", s, counts[s])
		}
	}
	return sb.String()
}
