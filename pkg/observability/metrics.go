package observability

import (
	"context"
	"fmt"

	"github.com/aretw0/tristate/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the engine's lifecycle hooks.
type Metrics struct {
	Propagations *prometheus.CounterVec
	Touched      *prometheus.HistogramVec
	Duration     *prometheus.HistogramVec
	StateChanges *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Propagations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tristate_propagations_total",
				Help: "Total number of propagation passes by trigger",
			},
			[]string{"trigger"},
		),
		Touched: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tristate_nodes_touched",
				Help:    "Nodes written per propagation pass",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"trigger"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tristate_propagation_duration_seconds",
				Help:    "Duration of propagation passes",
				Buckets: prometheus.ExponentialBuckets(1e-6, 10, 7),
			},
			[]string{"trigger"},
		),
		StateChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tristate_state_changes_total",
				Help: "Total number of node state changes by new state",
			},
			[]string{"state"},
		),
	}

	for _, c := range []prometheus.Collector{m.Propagations, m.Touched, m.Duration, m.StateChanges} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateChange: func(ctx context.Context, e *domain.NodeEvent) {
			m.StateChanges.WithLabelValues(e.New.String()).Inc()
		},
		OnPropagate: func(ctx context.Context, e *domain.PropagationEvent) {
			trigger := string(e.Trigger)
			m.Propagations.WithLabelValues(trigger).Inc()
			m.Touched.WithLabelValues(trigger).Observe(float64(e.Touched))
			m.Duration.WithLabelValues(trigger).Observe(e.Duration.Seconds())
		},
	}
}
