package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/tristate"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordPropagation(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	engine, err := tristate.New("", tristate.WithLifecycleHooks(
		observability.Chain(metrics.Hooks(), observability.LogHooks(logger)),
	))
	require.NoError(t, err)

	ctx := context.Background()
	tree, err := engine.Build(ctx, domain.Outline{ID: "r", Label: "r", Children: []domain.Outline{
		{ID: "a", Label: "a"}, {ID: "b", Label: "b"},
	}})
	require.NoError(t, err)
	a, err := tree.Lookup("a")
	require.NoError(t, err)
	engine.Toggle(ctx, a)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Propagations.WithLabelValues("initialize")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Propagations.WithLabelValues("toggle")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.StateChanges.WithLabelValues("unchecked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StateChanges.WithLabelValues("checked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StateChanges.WithLabelValues("mixed")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.Touched))

	assert.Contains(t, logs.String(), "msg=propagate trigger=toggle node_id=a")
	assert.Contains(t, logs.String(), "msg=state_change node_id=r old=unchecked new=mixed")
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestChain_SkipsNilHooks(t *testing.T) {
	calls := 0
	hooks := observability.Chain(
		domain.LifecycleHooks{},
		domain.LifecycleHooks{OnPropagate: func(context.Context, *domain.PropagationEvent) { calls++ }},
	)
	assert.NotPanics(t, func() {
		hooks.OnStateChange(context.Background(), &domain.NodeEvent{})
		hooks.OnPropagate(context.Background(), &domain.PropagationEvent{})
	})
	assert.Equal(t, 1, calls)
}
