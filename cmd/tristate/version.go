package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tristate"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tristate",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tristate version %s\n", strings.TrimSpace(tristate.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
