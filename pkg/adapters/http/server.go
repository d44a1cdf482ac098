package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/tristate"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/session"
)

// Watcher reports outline changes for the global event stream.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves workspaces over HTTP.
type Server struct {
	Workspaces *session.Manager
	Streams    *StreamManager
	Watcher    Watcher
	gatherer   prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithWatcher enables GET /events.
func WithWatcher(w Watcher) Option {
	return func(s *Server) {
		s.Watcher = w
	}
}

// WithGatherer selects the registry served on /metrics (default: prometheus.DefaultGatherer).
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// CreateWorkspaceRequest is the body of POST /workspaces.
type CreateWorkspaceRequest struct {
	Outline *domain.Outline `json:"outline,omitempty"`
	Source  string          `json:"source,omitempty"`
}

// SetCheckedRequest is the body of POST .../check.
type SetCheckedRequest struct {
	Checked bool `json:"checked"`
}

// WorkspaceResponse describes a workspace and its current snapshot.
type WorkspaceResponse struct {
	ID     string          `json:"id"`
	Source string          `json:"source,omitempty"`
	Style  domain.Style    `json:"style"`
	Tree   domain.Snapshot `json:"tree"`
}

// MutationResponse is returned by node operations.
type MutationResponse struct {
	WorkspaceResponse
	Applied bool                 `json:"applied"`
	Diff    *domain.SnapshotDiff `json:"diff,omitempty"`
}

// NewHandler creates a new HTTP handler for the workspace registry.
func NewHandler(workspaces *session.Manager, opts ...Option) (http.Handler, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Workspaces: workspaces,
		Streams:    NewStreamManager(),
		gatherer:   prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	v := &validator{doc: doc}
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(v.middleware)

		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/events", s.SubscribeOutlines)

		r.Get("/workspaces", s.ListWorkspaces)
		r.Post("/workspaces", s.CreateWorkspace)
		r.Get("/workspaces/{id}", s.GetWorkspace)
		r.Delete("/workspaces/{id}", s.DeleteWorkspace)
		r.Get("/workspaces/{id}/violations", s.GetViolations)
		r.Get("/workspaces/{id}/events", s.SubscribeWorkspace)
		r.Post("/workspaces/{id}/nodes/{node}/toggle", s.ToggleNode)
		r.Post("/workspaces/{id}/nodes/{node}/check", s.SetChecked)
		r.Post("/workspaces/{id}/nodes/{node}/expand", s.ExpandNode)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "tristate-http",
		"version":     strings.TrimSpace(tristate.Version),
		"api_version": apiVersion,
	})
}

// ListWorkspaces handles GET /workspaces.
func (s *Server) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Workspaces.List(r.Context()))
}

// CreateWorkspace handles POST /workspaces.
func (s *Server) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var body CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	var (
		ws  *session.Workspace
		err error
	)
	switch {
	case body.Outline != nil:
		ws, err = s.Workspaces.Create(r.Context(), *body.Outline)
	case body.Source != "":
		ws, err = s.Workspaces.Open(r.Context(), body.Source)
	default:
		err = domain.ErrEmptyOutline
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var resp WorkspaceResponse
	err = s.Workspaces.WithLock(r.Context(), ws.ID, func(ctx context.Context, ws *session.Workspace) error {
		resp = view(ws)
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	slog.Info("Workspace created", "workspace_id", ws.ID, "source", ws.Source, "nodes", len(resp.Tree.Nodes))
	writeJSON(w, http.StatusCreated, resp)
}

// GetWorkspace handles GET /workspaces/{id}.
func (s *Server) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	var resp WorkspaceResponse
	err := s.Workspaces.WithLock(r.Context(), id, func(ctx context.Context, ws *session.Workspace) error {
		resp = view(ws)
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteWorkspace handles DELETE /workspaces/{id}.
func (s *Server) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.Workspaces.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetViolations handles GET /workspaces/{id}/violations.
func (s *Server) GetViolations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	var violations []tristate.Violation
	err := s.Workspaces.WithLock(r.Context(), id, func(ctx context.Context, ws *session.Workspace) error {
		violations = ws.Engine.Check(ws.Tree.RootNodes()...)
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if violations == nil {
		violations = []tristate.Violation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"violations": violations})
}

// ToggleNode handles POST /workspaces/{id}/nodes/{node}/toggle.
func (s *Server) ToggleNode(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(ctx context.Context, ws *session.Workspace, ref string) (bool, error) {
		n, err := ws.Tree.Lookup(ref)
		if err != nil {
			return false, err
		}
		return ws.Engine.Toggle(ctx, n), nil
	})
}

// SetChecked handles POST /workspaces/{id}/nodes/{node}/check.
func (s *Server) SetChecked(w http.ResponseWriter, r *http.Request) {
	var body SetCheckedRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.mutate(w, r, func(ctx context.Context, ws *session.Workspace, ref string) (bool, error) {
		n, err := ws.Tree.Lookup(ref)
		if err != nil {
			return false, err
		}
		if n.Checked() == body.Checked {
			return false, nil
		}
		return ws.Engine.SetChecked(ctx, n, body.Checked), nil
	})
}

// ExpandNode handles POST /workspaces/{id}/nodes/{node}/expand.
func (s *Server) ExpandNode(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(ctx context.Context, ws *session.Workspace, ref string) (bool, error) {
		n, err := ws.Tree.Lookup(ref)
		if err != nil {
			return false, err
		}
		return ws.Engine.Expand(ctx, n) > 0, nil
	})
}

// mutate runs op under the workspace lock, then answers with the new snapshot and
// broadcasts the diff to the workspace's event subscribers.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, *session.Workspace, string) (bool, error)) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	ref, ok := pathParam(w, r, "node")
	if !ok {
		return
	}

	var resp MutationResponse
	err := s.Workspaces.WithLock(r.Context(), id, func(ctx context.Context, ws *session.Workspace) error {
		before := ws.Tree.Snapshot()
		applied, err := op(ctx, ws, ref)
		if err != nil {
			return err
		}
		resp.WorkspaceResponse = view(ws)
		resp.Applied = applied
		resp.Diff = domain.Diff(before, &resp.Tree)
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if resp.Diff != nil {
		slog.Debug("Mutation: Diff calculated", "workspace_id", id, "node", ref, "changes", len(resp.Diff.Changes))
		if bytes, err := json.Marshal(resp.Diff); err == nil {
			s.Streams.Broadcast(id, string(bytes))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// -- Helpers --

func view(ws *session.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:     ws.ID,
		Source: ws.Source,
		Style:  ws.Engine.Style(),
		Tree:   *ws.Tree.Snapshot(),
	}
}

func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter %s: %w", name, err))
		return "", false
	}
	return value, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrWorkspaceNotFound),
		errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrOutlineNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrEmptyOutline),
		errors.Is(err, domain.ErrDuplicateNodeID),
		errors.Is(err, tristate.ErrNoLoader):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		slog.Error("Request failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}
