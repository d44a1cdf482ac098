package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/tristate"
	"github.com/aretw0/tristate/internal/logging"
	"github.com/aretw0/tristate/internal/presentation/tui"
	"github.com/aretw0/tristate/pkg/adapters/file"
	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/observability"
	"github.com/spf13/cobra"
)

// settings is the merged view of tristate.yaml and the persistent flags.
type settings struct {
	Outlines string
	Style    domain.Style
	Logger   *slog.Logger
	Addr     string
}

var cfg settings

var rootCmd = &cobra.Command{
	Use:   "tristate",
	Short: "tristate propagates checkbox state through outline trees",
	Long: `tristate loads outlines (YAML, JSON or a Markdown repository) into trees of
tri-state checkboxes: checking a node checks its descendants, and every ancestor
resolves to checked, unchecked or mixed from its children.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	Run: func(cmd *cobra.Command, args []string) {
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(cmd.OutOrStdout())
		}
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Outline source: a directory of outlines or a single YAML/JSON file")
	rootCmd.PersistentFlags().String("style", "standard", "Propagation style: 'standard' or 'installer'")
	rootCmd.PersistentFlags().String("log-level", "", "Log level written to stderr: debug, info, warn or error (default: silent)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log record format: text or json")
	rootCmd.PersistentFlags().String("config", file.DefaultConfigName, "Configuration file")
}

// loadSettings reads the config file, then lets explicitly set flags override it.
func loadSettings(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	cfgPath, _ := flags.GetString("config")
	fc, err := file.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	cfg.Outlines, _ = flags.GetString("dir")
	if !flags.Changed("dir") && fc.Outlines != "" {
		cfg.Outlines = fc.Outlines
	}

	cfg.Style = fc.Style
	if flags.Changed("style") || fc.Style == domain.StyleStandard {
		raw, _ := flags.GetString("style")
		if cfg.Style, err = domain.ParseStyle(raw); err != nil {
			return err
		}
	}

	level, _ := flags.GetString("log-level")
	if !flags.Changed("log-level") {
		level = fc.LogLevel
	}
	format, _ := flags.GetString("log-format")
	if !flags.Changed("log-format") && fc.LogFormat != "" {
		format = fc.LogFormat
	}
	cfg.Logger = logging.NewNop()
	if level != "" {
		l, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		f, err := logging.ParseFormat(format)
		if err != nil {
			return err
		}
		cfg.Logger = logging.New(logging.Options{
			Level:  l,
			Format: f,
			Output: cmd.ErrOrStderr(),
			Source: cfg.Outlines,
		})
	}

	cfg.Addr = fc.Addr
	return nil
}

// newEngine builds an engine over the configured outline source.
func newEngine(opts ...tristate.Option) (*tristate.Engine, error) {
	base := []tristate.Option{
		tristate.WithStyle(cfg.Style),
		tristate.WithLogger(cfg.Logger),
		tristate.WithLifecycleHooks(observability.LogHooks(cfg.Logger)),
	}
	eng, err := tristate.New(cfg.Outlines, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("error initializing tristate: %w", err)
	}
	return eng, nil
}

// openTree loads an outline into a ready tree.
func openTree(ctx context.Context, id string) (*tristate.Engine, *memory.Tree, error) {
	eng, err := newEngine()
	if err != nil {
		return nil, nil, err
	}
	tree, err := eng.Open(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return eng, tree, nil
}

// toggleAll toggles each referenced node in order.
func toggleAll(ctx context.Context, eng *tristate.Engine, tree *memory.Tree, refs []string) error {
	for _, ref := range refs {
		n, err := tree.Lookup(ref)
		if err != nil {
			return err
		}
		eng.Toggle(ctx, n)
	}
	return nil
}
