package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/tristate"
	"github.com/aretw0/tristate/internal/logging"
)

// WatchOptions configures RunWatch.
type WatchOptions struct {
	Engine *tristate.Engine
	Out    io.Writer
	Logger *slog.Logger
	// Toggles are applied, in order, to every outline before checking.
	Toggles []string
	// Settle delays each re-check after a change so editors can finish writing.
	Settle time.Duration
}

// Report is the outcome of checking one outline.
type Report struct {
	ID         string
	Nodes      int
	Violations []tristate.Violation
	Err        error
}

// OK reports whether the outline loaded and passed every check.
func (r Report) OK() bool {
	return r.Err == nil && len(r.Violations) == 0
}

// CheckOutline loads id into a fresh tree, applies toggles and checks the result.
func CheckOutline(ctx context.Context, eng *tristate.Engine, id string, toggles []string) Report {
	rep := Report{ID: id}
	tree, err := eng.Open(ctx, id)
	if err != nil {
		rep.Err = err
		return rep
	}
	rep.Nodes = tree.Len()
	for _, ref := range toggles {
		n, err := tree.Lookup(ref)
		if err != nil {
			rep.Err = err
			return rep
		}
		eng.Toggle(ctx, n)
	}
	rep.Violations = eng.Check(tree.RootNodes()...)
	return rep
}

// RunWatch checks every outline once, then re-checks each outline the loader reports
// as changed, until ctx is done or the loader stops watching.
func RunWatch(ctx context.Context, opts WatchOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	loader := opts.Engine.Loader()
	if loader == nil {
		return tristate.ErrNoLoader
	}

	events, err := opts.Engine.Watch(ctx)
	if err != nil {
		return err
	}

	ids, err := loader.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		printReport(opts.Out, CheckOutline(ctx, opts.Engine, id, opts.Toggles))
	}

	logger.Info("Starting Watcher", "outlines", len(ids))
	printSystemMessage(opts.Out, "Waiting for changes...")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher")
			return nil
		case id, ok := <-events:
			if !ok {
				return nil
			}
			logger.Info("Change detected, re-checking", "outline", id)
			if opts.Settle > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(opts.Settle):
				}
			}
			printReport(opts.Out, CheckOutline(ctx, opts.Engine, id, opts.Toggles))
		}
	}
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func printReport(w io.Writer, r Report) {
	switch {
	case r.Err != nil:
		fmt.Fprintf(w, "❌ %s: %v\n", r.ID, r.Err)
	case len(r.Violations) > 0:
		fmt.Fprintf(w, "❌ %s: %d violation(s)\n", r.ID, len(r.Violations))
		for _, v := range r.Violations {
			fmt.Fprintf(w, "   %s\n", v.Error())
		}
	default:
		fmt.Fprintf(w, "✅ %s: %d node(s)\n", r.ID, r.Nodes)
	}
}
