package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/tristate/internal/cli"
	httpAdapter "github.com/aretw0/tristate/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves workspaces over a JSON API (see /openapi.yaml), with server-sent events
per workspace and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if !cmd.Flags().Changed("addr") && cfg.Addr != "" {
			addr = cfg.Addr
		}

		reg := prometheus.NewRegistry()
		workspaces, template, err := newWorkspaces(reg)
		if err != nil {
			return err
		}

		opts := []httpAdapter.Option{httpAdapter.WithGatherer(reg)}
		if template.Loader() != nil {
			opts = append(opts, httpAdapter.WithWatcher(template))
		}
		handler, err := httpAdapter.NewHandler(workspaces, opts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Starting tristate server on %s\n", srv.Addr)
			fmt.Fprintf(cmd.ErrOrStderr(), "Serving outlines from: %s\n", cfg.Outlines)
			serverErrors <- srv.ListenAndServe()
		}()

		in := cli.OnInterrupt(cmd.Context())
		defer in.Stop()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-in.Done():
			cfg.Logger.Info("shutting down", "signal", in.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(shutdownCtx); err != nil {
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
				return fmt.Errorf("graceful shutdown did not complete in %v: %w", 5*time.Second, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "tristate server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
