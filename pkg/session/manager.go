package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/tristate"
	"github.com/aretw0/tristate/internal/logging"
	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/google/uuid"
)

// Factory builds the engine for a new workspace.
// Each workspace gets its own engine because the engine's re-entrancy latch is
// per-instance and unsynchronized.
type Factory func() (*tristate.Engine, error)

// Workspace is a live tree plus the engine propagating over it.
// Tree and Engine must only be used inside Manager.WithLock.
type Workspace struct {
	ID      string
	Source  string
	Created time.Time
	Tree    *memory.Tree
	Engine  *tristate.Engine
}

// Summary describes a workspace without exposing its tree.
type Summary struct {
	ID      string    `json:"id"`
	Source  string    `json:"source,omitempty"`
	Created time.Time `json:"created"`
	Nodes   int       `json:"nodes"`
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates workspace access, ensuring operations on one workspace are
// serialized. It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	factory Factory

	mu         sync.Mutex            // Global lock for the maps
	locks      map[string]*lockEntry // Map of active locks
	workspaces map[string]*Workspace

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new workspace Manager.
func NewManager(factory Factory, opts ...Option) *Manager {
	m := &Manager{
		factory:    factory,
		locks:      make(map[string]*lockEntry),
		workspaces: make(map[string]*Workspace),
		logger:     logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Open creates a workspace from an outline served by the engine's loader.
func (m *Manager) Open(ctx context.Context, source string) (*Workspace, error) {
	eng, err := m.factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	tree, err := eng.Open(ctx, source)
	if err != nil {
		return nil, err
	}
	return m.register(source, tree, eng), nil
}

// Create creates a workspace from an outline supplied by the caller.
func (m *Manager) Create(ctx context.Context, outline domain.Outline) (*Workspace, error) {
	if err := memory.Validate(outline); err != nil {
		return nil, err
	}
	eng, err := m.factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	tree, err := eng.Build(ctx, outline)
	if err != nil {
		return nil, err
	}
	return m.register("", tree, eng), nil
}

func (m *Manager) register(source string, tree *memory.Tree, eng *tristate.Engine) *Workspace {
	ws := &Workspace{
		ID:      uuid.NewString(),
		Source:  source,
		Created: time.Now().UTC(),
		Tree:    tree,
		Engine:  eng,
	}

	m.mu.Lock()
	m.workspaces[ws.ID] = ws
	m.mu.Unlock()

	m.logger.Debug("workspace opened", "workspace_id", ws.ID, "source", source, "nodes", tree.Len())
	return ws
}

// Get returns the workspace without locking it.
func (m *Manager) Get(id string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, ok := m.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrWorkspaceNotFound, id)
	}
	return ws, nil
}

// Delete removes the workspace.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context, ws *Workspace) error {
		m.mu.Lock()
		delete(m.workspaces, id)
		m.mu.Unlock()
		m.logger.Debug("workspace deleted", "workspace_id", id)
		return nil
	})
}

// List summarizes all workspaces, oldest first.
func (m *Manager) List(ctx context.Context) []Summary {
	m.mu.Lock()
	all := make([]*Workspace, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		all = append(all, ws)
	}
	m.mu.Unlock()

	out := make([]Summary, 0, len(all))
	for _, ws := range all {
		_ = m.WithLock(ctx, ws.ID, func(ctx context.Context, ws *Workspace) error {
			out = append(out, Summary{ID: ws.ID, Source: ws.Source, Created: ws.Created, Nodes: ws.Tree.Len()})
			return nil
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out
}

// WithLock executes fn while holding the lock for the workspace.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context, *Workspace) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	ws, err := m.Get(id)
	if err != nil {
		return err
	}
	return fn(ctx, ws)
}
