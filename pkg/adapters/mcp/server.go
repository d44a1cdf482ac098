package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tristate"
	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
	"github.com/aretw0/tristate/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// WorkspacesURI names the resource listing open workspaces.
const WorkspacesURI = "tristate://workspaces"

// TreeView is the payload returned by every tool that reads or mutates a tree.
type TreeView struct {
	WorkspaceID string                `json:"workspace_id"`
	Style       domain.Style          `json:"style"`
	Applied     *bool                 `json:"applied,omitempty"`
	Nodes       []domain.NodeSnapshot `json:"nodes"`
	Diff        *domain.SnapshotDiff  `json:"diff,omitempty"`
}

// Server exposes workspaces of tri-state trees as MCP tools.
type Server struct {
	workspaces *session.Manager
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(workspaces *session.Manager) *Server {
	s := &Server{
		workspaces: workspaces,
		mcpServer: server.NewMCPServer("tristate-mcp", strings.TrimSpace(tristate.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: open_outline
	s.mcpServer.AddTool(mcp.NewTool("open_outline",
		mcp.WithDescription("Open a workspace from a stored outline (source) or an inline outline (JSON object with label, id and children). The tree comes back initialized: every node unchecked."),
		mcp.WithString("source", mcp.Description("ID of a stored outline")),
		mcp.WithString("outline", mcp.Description("Inline outline as a JSON object")),
	), s.handleOpen)

	// TOOL: list_workspaces
	s.mcpServer.AddTool(mcp.NewTool("list_workspaces",
		mcp.WithDescription("List open workspaces, oldest first."),
	), s.handleList)

	// TOOL: get_tree
	s.mcpServer.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Get the current state of every node in a workspace."),
		mcp.WithString("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
	), s.handleGetTree)

	// TOOL: toggle_node
	s.mcpServer.AddTool(mcp.NewTool("toggle_node",
		mcp.WithDescription("Flip a node's checked flag. Descendants follow it and ancestors are resolved."),
		mcp.WithString("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
		mcp.WithString("node", mcp.Required(), mcp.Description("Node ID or dotted positional path such as 0.2.1")),
	), s.handleToggle)

	// TOOL: set_checked
	s.mcpServer.AddTool(mcp.NewTool("set_checked",
		mcp.WithDescription("Set a node's checked flag. No-op when the flag already has that value."),
		mcp.WithString("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
		mcp.WithString("node", mcp.Required(), mcp.Description("Node ID or dotted positional path")),
		mcp.WithBoolean("checked", mcp.Required(), mcp.Description("New flag value")),
	), s.handleSetChecked)

	// TOOL: expand_node
	s.mcpServer.AddTool(mcp.NewTool("expand_node",
		mcp.WithDescription("Let the node's still-uninitialized descendants inherit its state."),
		mcp.WithString("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
		mcp.WithString("node", mcp.Required(), mcp.Description("Node ID or dotted positional path")),
	), s.handleExpand)

	// TOOL: check_tree
	s.mcpServer.AddTool(mcp.NewTool("check_tree",
		mcp.WithDescription("Report nodes whose state disagrees with their children."),
		mcp.WithString("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
	), s.handleCheck)

	// TOOL: close_workspace
	s.mcpServer.AddTool(mcp.NewTool("close_workspace",
		mcp.WithDescription("Discard a workspace."),
		mcp.WithString("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
	), s.handleClose)
}

func (s *Server) handleOpen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := request.GetString("source", "")
	raw := request.GetString("outline", "")

	var (
		ws  *session.Workspace
		err error
	)
	switch {
	case raw != "":
		var m map[string]any
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("outline is not a JSON object: %v", err)), nil
		}
		outline, err := memory.DecodeOutline(m)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ws, err = s.workspaces.Create(ctx, *outline)
		if err != nil {
			return toolError(err), nil
		}
	case source != "":
		ws, err = s.workspaces.Open(ctx, source)
		if err != nil {
			return toolError(err), nil
		}
	default:
		return mcp.NewToolResultError("one of source or outline is required"), nil
	}

	return s.read(ctx, ws.ID)
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.workspaces.List(ctx))
}

func (s *Server) handleGetTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("workspace_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.read(ctx, id)
}

func (s *Server) handleToggle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutate(ctx, request, func(ctx context.Context, ws *session.Workspace, n *memory.Node) bool {
		return ws.Engine.Toggle(ctx, n)
	})
}

func (s *Server) handleSetChecked(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	checked, err := request.RequireBool("checked")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.mutate(ctx, request, func(ctx context.Context, ws *session.Workspace, n *memory.Node) bool {
		if n.Checked() == checked {
			return false
		}
		return ws.Engine.SetChecked(ctx, n, checked)
	})
}

func (s *Server) handleExpand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutate(ctx, request, func(ctx context.Context, ws *session.Workspace, n *memory.Node) bool {
		return ws.Engine.Expand(ctx, n) > 0
	})
}

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("workspace_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	violations := []tristate.Violation{}
	err = s.workspaces.WithLock(ctx, id, func(ctx context.Context, ws *session.Workspace) error {
		violations = append(violations, ws.Engine.Check(ws.Tree.RootNodes()...)...)
		return nil
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]any{"violations": violations})
}

func (s *Server) handleClose(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("workspace_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.workspaces.Delete(ctx, id); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText("closed " + id), nil
}

func (s *Server) read(ctx context.Context, id string) (*mcp.CallToolResult, error) {
	var view TreeView
	err := s.workspaces.WithLock(ctx, id, func(ctx context.Context, ws *session.Workspace) error {
		view = TreeView{
			WorkspaceID: ws.ID,
			Style:       ws.Engine.Style(),
			Nodes:       ws.Tree.Snapshot().Nodes,
		}
		return nil
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(view)
}

func (s *Server) mutate(ctx context.Context, request mcp.CallToolRequest, op func(context.Context, *session.Workspace, *memory.Node) bool) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("workspace_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ref, err := request.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var view TreeView
	err = s.workspaces.WithLock(ctx, id, func(ctx context.Context, ws *session.Workspace) error {
		n, err := ws.Tree.Lookup(ref)
		if err != nil {
			return err
		}
		before := ws.Tree.Snapshot()
		applied := op(ctx, ws, n)
		after := ws.Tree.Snapshot()
		view = TreeView{
			WorkspaceID: ws.ID,
			Style:       ws.Engine.Style(),
			Applied:     &applied,
			Nodes:       after.Nodes,
			Diff:        domain.Diff(before, after),
		}
		return nil
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(view)
}

func (s *Server) registerResources() {
	// EXPOSE: tristate://workspaces
	s.mcpServer.AddResource(mcp.NewResource(WorkspacesURI, "Open Workspaces",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.workspaces.List(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list workspaces: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      WorkspacesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// toolError reports domain failures to the client as tool errors; the protocol call
// itself still succeeds.
func toolError(err error) *mcp.CallToolResult {
	if !errors.Is(err, domain.ErrWorkspaceNotFound) && !errors.Is(err, domain.ErrNodeNotFound) &&
		!errors.Is(err, domain.ErrOutlineNotFound) && !errors.Is(err, domain.ErrEmptyOutline) &&
		!errors.Is(err, domain.ErrDuplicateNodeID) {
		slog.Error("MCP tool failed", "error", err)
	}
	return mcp.NewToolResultError(err.Error())
}
