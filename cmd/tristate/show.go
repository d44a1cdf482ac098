package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tristate/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [outline]",
	Short: "List outlines, or print one as a checkbox tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			eng, err := newEngine()
			if err != nil {
				return err
			}
			if eng.Loader() == nil {
				return fmt.Errorf("no outlines found in %q", cfg.Outlines)
			}
			ids, err := eng.Loader().List(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		}

		eng, tree, err := openTree(ctx, args[0])
		if err != nil {
			return err
		}
		toggles, _ := cmd.Flags().GetStringSlice("toggle")
		if err := toggleAll(ctx, eng, tree, toggles); err != nil {
			return err
		}

		if md, _ := cmd.Flags().GetBool("markdown"); md {
			render := tui.NewRenderer(!tui.IsTerminal(os.Stdout))
			text, err := render(tui.Summary(args[0], eng.Style(), tree.Snapshot()))
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
			return nil
		}
		fmt.Fprint(out, tui.NodeTable(tree.Snapshot()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringSlice("toggle", nil, "Nodes to toggle, in order, before printing")
	showCmd.Flags().Bool("markdown", false, "Print a markdown checklist (rendered when stdout is a terminal)")
}
