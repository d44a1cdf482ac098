package main

import (
	"fmt"
	"time"

	"github.com/aretw0/tristate/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [outline...]",
	Short: "Load outlines and check the propagation invariants",
	Long: `Loads every outline (or the given ones), optionally toggles nodes in order,
and reports nodes whose state disagrees with their children.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		eng, err := newEngine()
		if err != nil {
			return err
		}
		if eng.Loader() == nil {
			return fmt.Errorf("no outlines found in %q", cfg.Outlines)
		}

		ids := args
		if len(ids) == 0 {
			if ids, err = eng.Loader().List(ctx); err != nil {
				return err
			}
		}
		toggles, _ := cmd.Flags().GetStringSlice("toggle")

		violations := 0
		for _, id := range ids {
			rep := cli.CheckOutline(ctx, eng, id, toggles)
			if rep.Err != nil {
				return fmt.Errorf("%s: %w", id, rep.Err)
			}
			for _, v := range rep.Violations {
				fmt.Fprintf(out, "%s: %s\n", id, v.Error())
			}
			violations += len(rep.Violations)
		}

		if violations > 0 {
			return fmt.Errorf("%d violation(s) in %d outline(s)", violations, len(ids))
		}
		fmt.Fprintf(out, "%d outline(s) valid ✅\n", len(ids))
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check outlines whenever they change on disk",
	Long: `Checks every outline of a directory source, then re-checks each outline as it
is edited. Stops on Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		toggles, _ := cmd.Flags().GetStringSlice("toggle")

		in := cli.OnInterrupt(cmd.Context())
		defer in.Stop()

		err = cli.RunWatch(in, cli.WatchOptions{
			Engine:  eng,
			Out:     cmd.OutOrStdout(),
			Logger:  cfg.Logger,
			Toggles: toggles,
			Settle:  100 * time.Millisecond,
		})
		if sig := in.Signal(); sig != nil {
			cfg.Logger.Info("watch stopped", "signal", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringSlice("toggle", nil, "Nodes to toggle, in order, in every outline before checking")

	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSlice("toggle", nil, "Nodes to toggle, in order, in every outline before checking")
}
