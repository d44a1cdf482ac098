package main

import (
	"fmt"

	teaAdapter "github.com/aretw0/tristate/pkg/adapters/tea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse <outline>",
	Short: "Browse an outline interactively",
	Long: `Opens the outline in a terminal UI. Space or a click on the box toggles the
selected node; arrows (or j/k/h/l) move; q quits.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, tree, err := openTree(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		model := teaAdapter.NewModel(eng, tree)
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("browse: %w", err)
		}

		if violations := eng.Check(tree.RootNodes()...); len(violations) > 0 {
			cfg.Logger.Warn("tree left inconsistent", "violations", len(violations))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
