package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/tristate/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured record per event.
// State changes are logged at Debug, propagation passes at Info.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateChange: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "state_change",
				"node_id", e.NodeID,
				"old", e.Old.String(),
				"new", e.New.String(),
				"checked", e.Checked,
			)
		},
		OnPropagate: func(ctx context.Context, e *domain.PropagationEvent) {
			logger.InfoContext(ctx, "propagate",
				"trigger", string(e.Trigger),
				"node_id", e.NodeID,
				"touched", e.Touched,
				"duration", e.Duration,
			)
		},
	}
}

// Chain merges several hook sets; each event is delivered to every non-nil hook in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateChange: func(ctx context.Context, e *domain.NodeEvent) {
			for _, h := range hooks {
				if h.OnStateChange != nil {
					h.OnStateChange(ctx, e)
				}
			}
		},
		OnPropagate: func(ctx context.Context, e *domain.PropagationEvent) {
			for _, h := range hooks {
				if h.OnPropagate != nil {
					h.OnPropagate(ctx, e)
				}
			}
		},
	}
}
