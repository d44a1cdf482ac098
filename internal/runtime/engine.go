package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/ports"
)

// Engine is the tri-state propagation core.
//
// It is single-threaded by contract: every entry point runs synchronously on the
// caller's goroutine. The busy counter is a recursion latch, not a mutex. It is raised
// for the duration of every pass so that change notifications fired by the pass's own
// writes (see AfterCheck) return immediately instead of re-entering.
type Engine struct {
	style  domain.Style
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	busy   int
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithStyle selects Standard or Installer semantics. Fixed for the engine's lifetime.
func WithStyle(style domain.Style) EngineOption {
	return func(e *Engine) {
		e.style = style
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates a new engine. The default style is Standard.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		style:  domain.StyleStandard,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("style", e.style.String())
	return e
}

// Style returns the style selected at construction.
func (e *Engine) Style() domain.Style {
	return e.style
}

// Busy reports whether a propagation pass is in progress.
func (e *Engine) Busy() bool {
	return e.busy > 0
}

func (e *Engine) enter() func() {
	e.busy++
	return func() { e.busy-- }
}

// AfterCheck is the change-notification handler for a node whose checked flag was
// just flipped by the user. It stamps the node with the matching state, forces every
// descendant to inherit it and resolves the ancestors.
// It returns false, doing nothing, when called while a pass is already running.
func (e *Engine) AfterCheck(ctx context.Context, n ports.TreeNode) bool {
	if n == nil || e.busy > 0 {
		return false
	}
	defer e.enter()()

	start := time.Now()
	e.setState(ctx, n, domain.StateFor(n.Checked()))
	touched := 1
	touched += e.propagateDown(ctx, n.Children(), n.State(), n.Checked(), false)
	touched += e.propagateUp(ctx, n.Parent())

	e.emitPropagate(ctx, domain.EventToggle, n, touched, start)
	return true
}

// Toggle flips n's checked flag and runs the toggle pass.
func (e *Engine) Toggle(ctx context.Context, n ports.TreeNode) bool {
	if n == nil {
		return false
	}
	return e.SetChecked(ctx, n, !n.Checked())
}

// SetChecked assigns n's checked flag and runs the toggle pass.
// The write itself happens under the latch so a notification-driven adapter does
// not run the pass a second time.
func (e *Engine) SetChecked(ctx context.Context, n ports.TreeNode, checked bool) bool {
	if n == nil || e.busy > 0 {
		return false
	}
	leave := e.enter()
	n.SetChecked(checked)
	leave()
	return e.AfterCheck(ctx, n)
}

// Expand runs the lazy-expansion pass: n's still-uninitialized descendants inherit
// n's current state and checked flag. Nodes a user already touched are kept.
func (e *Engine) Expand(ctx context.Context, n ports.TreeNode) int {
	if n == nil {
		return 0
	}
	defer e.enter()()

	start := time.Now()
	touched := e.propagateDown(ctx, n.Children(), n.State(), n.Checked(), true)
	e.emitPropagate(ctx, domain.EventExpand, n, touched, start)
	return touched
}

// Initialize runs the display-ready pass over a set of roots: every node still
// Uninitialized, the roots included, becomes Unchecked.
func (e *Engine) Initialize(ctx context.Context, roots ...ports.TreeNode) int {
	defer e.enter()()

	start := time.Now()
	touched := e.propagateDown(ctx, roots, domain.Unchecked, false, true)
	e.emitPropagate(ctx, domain.EventInitialize, nil, touched, start)
	return touched
}

// PropagateToChildren writes state and checked to every descendant of n.
// With onlyIfUninitialized, subtrees whose root already carries a state are skipped.
// It returns the number of nodes written.
func (e *Engine) PropagateToChildren(ctx context.Context, n ports.TreeNode, state domain.State, checked, onlyIfUninitialized bool) int {
	if n == nil {
		return 0
	}
	defer e.enter()()
	return e.propagateDown(ctx, n.Children(), state, checked, onlyIfUninitialized)
}

// PropagateToParent recomputes p's state from its children and walks up while
// states keep changing. It returns the number of nodes whose state changed.
func (e *Engine) PropagateToParent(ctx context.Context, p ports.TreeNode) int {
	defer e.enter()()

	start := time.Now()
	changed := e.propagateUp(ctx, p)
	if p != nil {
		e.emitPropagate(ctx, domain.EventResolve, p, changed, start)
	}
	return changed
}

func (e *Engine) setState(ctx context.Context, n ports.TreeNode, state domain.State) {
	old := n.State()
	if old == state {
		return
	}
	n.SetState(state)
	if e.hooks.OnStateChange != nil {
		e.hooks.OnStateChange(ctx, &domain.NodeEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStateChange},
			NodeID:    n.ID(),
			Old:       old,
			New:       state,
			Checked:   n.Checked(),
		})
	}
}

func (e *Engine) emitPropagate(ctx context.Context, trigger domain.EventType, n ports.TreeNode, touched int, start time.Time) {
	id := ""
	if n != nil {
		id = n.ID()
	}
	elapsed := time.Since(start)
	e.logger.Debug("propagation complete", "trigger", trigger, "node", id, "touched", touched, "duration", elapsed)

	if e.hooks.OnPropagate != nil {
		e.hooks.OnPropagate(ctx, &domain.PropagationEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: trigger},
			Trigger:   trigger,
			NodeID:    id,
			Touched:   touched,
			Duration:  elapsed,
		})
	}
}
