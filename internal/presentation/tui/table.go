package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/tristate/pkg/domain"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var stateColors = map[domain.State]*color.Color{
	domain.Checked:       color.New(color.FgGreen),
	domain.Mixed:         color.New(color.FgYellow),
	domain.Unchecked:     color.New(color.Faint),
	domain.Uninitialized: color.New(color.FgRed, color.Italic),
}

// NodeTable renders a snapshot as an aligned table: indented label, state, flag and ID.
func NodeTable(snap *domain.Snapshot) string {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Node"), bold.Sprint("State"), bold.Sprint("Checked"), bold.Sprint("ID"))
	for _, n := range snap.Nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		box, ok := boxes[n.State]
		if !ok {
			box = "[?]"
		}
		c := stateColors[n.State]
		if c == nil {
			c = color.New()
		}
		tbl.AddRow(
			strings.Repeat("  ", n.Depth)+c.Sprint(box)+" "+label,
			c.Sprint(n.State),
			fmt.Sprint(n.Checked),
			n.ID,
		)
	}
	return tbl.String()
}
