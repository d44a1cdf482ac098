package main

import (
	"github.com/aretw0/tristate"
	"github.com/aretw0/tristate/pkg/observability"
	"github.com/aretw0/tristate/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// newWorkspaces builds the workspace registry shared by the server commands.
// Every workspace gets its own engine over one shared outline loader. The returned
// engine is a template that exposes the loader (and its Watch).
func newWorkspaces(reg prometheus.Registerer) (*session.Manager, *tristate.Engine, error) {
	hooks := observability.LogHooks(cfg.Logger)
	if reg != nil {
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return nil, nil, err
		}
		hooks = observability.Chain(hooks, metrics.Hooks())
	}

	template, err := newEngine(tristate.WithLifecycleHooks(hooks))
	if err != nil {
		return nil, nil, err
	}

	factory := func() (*tristate.Engine, error) {
		opts := []tristate.Option{
			tristate.WithStyle(cfg.Style),
			tristate.WithLogger(cfg.Logger),
			tristate.WithLifecycleHooks(hooks),
		}
		if l := template.Loader(); l != nil {
			opts = append(opts, tristate.WithLoader(l))
		}
		return tristate.New("", opts...)
	}

	cfg.Logger.Info("workspace registry ready", "outlines", cfg.Outlines, "style", cfg.Style.String(),
		"loader", template.Loader() != nil)
	return session.NewManager(factory, session.WithLogger(cfg.Logger)), template, nil
}
