package main

import (
	"fmt"

	"github.com/aretw0/tristate/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <outline>",
	Short: "Export the tree as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the outline, each node styled by its state.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, tree, err := openTree(ctx, args[0])
		if err != nil {
			return err
		}
		toggles, _ := cmd.Flags().GetStringSlice("toggle")
		if err := toggleAll(ctx, eng, tree, toggles); err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(tree.Snapshot()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("toggle", nil, "Nodes to toggle, in order, before exporting")
}
