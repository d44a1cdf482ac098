package tristate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/loam"
	"github.com/aretw0/tristate/internal/runtime"
	"github.com/aretw0/tristate/pkg/adapters/file"
	loamAdapter "github.com/aretw0/tristate/pkg/adapters/loam"
	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/ports"
)

// ErrNoLoader is returned by Open when the engine was built without an outline source.
var ErrNoLoader = errors.New("no outline loader configured")

// Violation is an invariant breach reported by Check.
type Violation = runtime.Violation

// Rule names carried by Violation.Rule.
const (
	RuleUninitialized = runtime.RuleUninitialized
	RuleLeafMixed     = runtime.RuleLeafMixed
	RuleResolution    = runtime.RuleResolution
	RuleInstallerFlag = runtime.RuleInstallerFlag
)

// Engine is the high-level entry point for the tristate library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	loader  ports.OutlineLoader
	style   domain.Style
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	Name    string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStyle selects Standard (default) or Installer semantics.
func WithStyle(style domain.Style) Option {
	return func(e *Engine) {
		e.style = style
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom OutlineLoader, bypassing the default path-based one.
func WithLoader(l ports.OutlineLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
// path names the outline source: a directory becomes a read-only Loam repository,
// a single .yaml/.yml/.json file is read directly. path may be empty when WithLoader
// is given or when trees are only built in code (see Build).
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil && path != "" {
		loader, name, err := defaultLoader(path)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
		eng.Name = name
	} else if path != "" {
		eng.Name = filepath.Base(path)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("outlines", eng.Name)
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithStyle(eng.style),
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)

	return eng, nil
}

func defaultLoader(path string) (ports.OutlineLoader, string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open outline source: %w", err)
	}
	name := filepath.Base(absPath)

	if !info.IsDir() {
		l, err := file.New(absPath)
		if err != nil {
			return nil, "", err
		}
		return l, name, nil
	}

	// Strict mode keeps numeric frontmatter consistent across formats; read-only keeps
	// Loam from sandboxing writes, since outlines are never written back.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to initialize loam: %w", err)
	}
	typedRepo := loam.NewTypedRepository[loamAdapter.OutlineMetadata](repo)
	return loamAdapter.New(typedRepo), name, nil
}

// Style returns the style the engine was built with.
func (e *Engine) Style() domain.Style {
	return e.runtime.Style()
}

// Open loads the outline id through the configured loader and returns a ready tree
// (see Build).
func (e *Engine) Open(ctx context.Context, id string) (*memory.Tree, error) {
	if e.loader == nil {
		return nil, ErrNoLoader
	}
	o, err := e.loader.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("outline loaded", "outline", id, "nodes", o.Count())
	return e.Build(ctx, *o)
}

// Build materializes outlines into an in-memory tree, attaches it to the engine and
// runs the display-ready pass, so every node starts Unchecked.
// It fails with domain.ErrEmptyOutline or domain.ErrDuplicateNodeID (see memory.Validate).
func (e *Engine) Build(ctx context.Context, outlines ...domain.Outline) (*memory.Tree, error) {
	if err := memory.Validate(outlines...); err != nil {
		return nil, err
	}
	tree := memory.FromOutlines(outlines...)
	e.Attach(tree)
	e.Initialize(ctx, tree.RootNodes()...)
	return tree, nil
}

// Attach subscribes the engine to tree's checked-flag notifications, so a host that
// flips node.SetChecked directly gets the toggle pass run for it.
func (e *Engine) Attach(tree *memory.Tree) {
	tree.OnCheckedChange(func(n *memory.Node) {
		e.runtime.AfterCheck(context.Background(), n)
	})
}

// Initialize runs the display-ready pass over roots.
func (e *Engine) Initialize(ctx context.Context, roots ...ports.TreeNode) int {
	return e.runtime.Initialize(ctx, roots...)
}

// Toggle flips n's checked flag and propagates the change.
func (e *Engine) Toggle(ctx context.Context, n ports.TreeNode) bool {
	return e.runtime.Toggle(ctx, n)
}

// SetChecked assigns n's checked flag and propagates the change.
func (e *Engine) SetChecked(ctx context.Context, n ports.TreeNode, checked bool) bool {
	return e.runtime.SetChecked(ctx, n, checked)
}

// AfterCheck propagates a checked flag the host already changed.
// It returns false when suppressed because a pass is already running.
func (e *Engine) AfterCheck(ctx context.Context, n ports.TreeNode) bool {
	return e.runtime.AfterCheck(ctx, n)
}

// Expand runs the lazy-expansion pass for n's newly revealed descendants.
func (e *Engine) Expand(ctx context.Context, n ports.TreeNode) int {
	return e.runtime.Expand(ctx, n)
}

// Resolve recomputes n's state from its children and walks up while states change.
func (e *Engine) Resolve(ctx context.Context, n ports.TreeNode) int {
	return e.runtime.PropagateToParent(ctx, n)
}

// Check reports invariant violations in the trees under roots.
func (e *Engine) Check(roots ...ports.TreeNode) []Violation {
	return e.runtime.Check(roots...)
}

// Watch returns a channel that signals when an outline changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying OutlineLoader, or nil.
func (e *Engine) Loader() ports.OutlineLoader {
	return e.loader
}
