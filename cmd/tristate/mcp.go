package main

import (
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aretw0/tristate/internal/cli"
	"github.com/aretw0/tristate/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes outline workspaces as MCP tools (open_outline, toggle_node,
set_checked, expand_node, get_tree, check_tree, ...).

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		workspaces, _, err := newWorkspaces(nil)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(workspaces)
		slog.SetDefault(cfg.Logger)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			cfg.Logger.Info("Starting tristate MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			cfg.Logger.Info("Starting tristate MCP Server (SSE)", "port", port)

			in := cli.OnInterrupt(cmd.Context())
			defer in.Stop()

			if err := srv.ServeSSE(in, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			cfg.Logger.Info("MCP Server stopped gracefully", "signal", in.Signal())
			return nil
		default:
			return errors.New("unknown transport " + transport + ": supported are stdio and sse")
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
