package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/tristate/internal/presentation/tui"
	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <outline> <node>...",
	Short: "Toggle nodes in order and print the result",
	Long: `Loads the outline, toggles each node (by ID or dotted position such as 0.2.1)
and prints the resulting tree. With --json, prints the change list instead.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, tree, err := openTree(ctx, args[0])
		if err != nil {
			return err
		}

		before := tree.Snapshot()
		if err := toggleAll(ctx, eng, tree, args[1:]); err != nil {
			return err
		}
		after := tree.Snapshot()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			diff := domain.Diff(before, after)
			if diff == nil {
				diff = &domain.SnapshotDiff{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(diff)
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.NodeTable(after))
		return nil
	},
}

var expandCmd = &cobra.Command{
	Use:   "expand <outline> <node>...",
	Short: "Replay lazy expansion over an outline",
	Long: `Builds the outline without the display-ready pass, so every node starts
uninitialized. The --check nodes are toggled first; then each <node> is expanded,
letting its uninitialized descendants inherit its state. Nodes never reached stay
uninitialized and print as [?].`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := newEngine()
		if err != nil {
			return err
		}
		if eng.Loader() == nil {
			return fmt.Errorf("no outlines found in %q", cfg.Outlines)
		}
		o, err := eng.Loader().Load(ctx, args[0])
		if err != nil {
			return err
		}
		tree := memory.FromOutlines(*o)
		eng.Attach(tree)

		checks, _ := cmd.Flags().GetStringSlice("check")
		if err := toggleAll(ctx, eng, tree, checks); err != nil {
			return err
		}
		for _, ref := range args[1:] {
			n, err := tree.Lookup(ref)
			if err != nil {
				return err
			}
			touched := eng.Expand(ctx, n)
			cfg.Logger.Info("expanded", "node", n.ID(), "touched", touched)
		}

		fmt.Fprint(cmd.OutOrStdout(), tui.NodeTable(tree.Snapshot()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	toggleCmd.Flags().Bool("json", false, "Print the state changes as JSON")

	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringSlice("check", nil, "Nodes to toggle before expanding")
}
