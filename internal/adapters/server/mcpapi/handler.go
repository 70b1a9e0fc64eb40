// Package mcpapi provides a stateless MCP streamable-HTTP adapter.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hylla/sysla/internal/app"
	"github.com/hylla/sysla/internal/domain"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// TodoService is the command surface the MCP tools drive.
type TodoService interface {
	Snapshot() app.Snapshot
	Load(ctx context.Context) (app.Snapshot, error)
	Add(ctx context.Context, title string) (app.Snapshot, error)
	Toggle(ctx context.Context, id int64) (app.Snapshot, error)
	Rename(ctx context.Context, id int64, title string) (app.Snapshot, error)
	Remove(ctx context.Context, id int64) (app.Snapshot, error)
	RemoveCompleted(ctx context.Context) (app.Snapshot, error)
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter exposing the todo command tools.
func NewHandler(cfg Config, todos TodoService) (*Handler, error) {
	if todos == nil {
		return nil, fmt.Errorf("todo service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerListTool(mcpSrv, todos)
	registerAddTool(mcpSrv, todos)
	registerToggleTool(mcpSrv, todos)
	registerRenameTool(mcpSrv, todos)
	registerRemoveTool(mcpSrv, todos)
	registerClearCompletedTool(mcpSrv, todos)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "sysla"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// listResult is the `sysla.list_todos` response payload.
type listResult struct {
	Todos     []domain.Todo `json:"todos"`
	Filter    domain.Filter `json:"filter"`
	Total     int           `json:"total"`
	Active    int           `json:"active"`
	Completed int           `json:"completed"`
}

// registerListTool registers the `sysla.list_todos` tool.
func registerListTool(srv *mcpserver.MCPServer, todos TodoService) {
	srv.AddTool(
		mcp.NewTool(
			"sysla.list_todos",
			mcp.WithDescription("List the synchronized todos, optionally narrowed to one filter."),
			mcp.WithString("filter", mcp.Description("Visible subset"), mcp.Enum("all", "active", "completed")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			filter, err := domain.ParseFilter(req.GetString("filter", ""))
			if err != nil {
				return toolResultFromError(err), nil
			}
			snap := todos.Snapshot()
			if !snap.Loaded {
				if snap, err = todos.Load(ctx); err != nil {
					return toolResultFromError(err), nil
				}
			}
			result, err := mcp.NewToolResultJSON(listResult{
				Todos:     filter.Apply(snap.Todos),
				Filter:    filter,
				Total:     snap.TotalCount(),
				Active:    snap.ActiveCount(),
				Completed: snap.CompletedCount(),
			})
			if err != nil {
				return nil, fmt.Errorf("encode list_todos result: %w", err)
			}
			return result, nil
		},
	)
}

// registerAddTool registers the `sysla.add_todo` tool.
func registerAddTool(srv *mcpserver.MCPServer, todos TodoService) {
	srv.AddTool(
		mcp.NewTool(
			"sysla.add_todo",
			mcp.WithDescription("Create one todo with the given title."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Todo title")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			title, err := req.RequireString("title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			snap, err := todos.Add(ctx, title)
			if err != nil {
				return toolResultFromError(err), nil
			}
			return snapshotResult("add_todo", snap)
		},
	)
}

// registerToggleTool registers the `sysla.toggle_todo` tool.
func registerToggleTool(srv *mcpserver.MCPServer, todos TodoService) {
	srv.AddTool(
		mcp.NewTool(
			"sysla.toggle_todo",
			mcp.WithDescription("Flip the completed flag of one todo."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Todo identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireInt("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			snap, err := todos.Toggle(ctx, int64(id))
			if err != nil {
				return toolResultFromError(err), nil
			}
			return snapshotResult("toggle_todo", snap)
		},
	)
}

// registerRenameTool registers the `sysla.rename_todo` tool.
func registerRenameTool(srv *mcpserver.MCPServer, todos TodoService) {
	srv.AddTool(
		mcp.NewTool(
			"sysla.rename_todo",
			mcp.WithDescription("Replace the title of one todo."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Todo identifier")),
			mcp.WithString("title", mcp.Required(), mcp.Description("New title")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireInt("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			title, err := req.RequireString("title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			snap, err := todos.Rename(ctx, int64(id), title)
			if err != nil {
				return toolResultFromError(err), nil
			}
			return snapshotResult("rename_todo", snap)
		},
	)
}

// registerRemoveTool registers the `sysla.remove_todo` tool.
func registerRemoveTool(srv *mcpserver.MCPServer, todos TodoService) {
	srv.AddTool(
		mcp.NewTool(
			"sysla.remove_todo",
			mcp.WithDescription("Delete one todo by id."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Todo identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireInt("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			snap, err := todos.Remove(ctx, int64(id))
			if err != nil {
				return toolResultFromError(err), nil
			}
			return snapshotResult("remove_todo", snap)
		},
	)
}

// registerClearCompletedTool registers the `sysla.clear_completed` tool.
func registerClearCompletedTool(srv *mcpserver.MCPServer, todos TodoService) {
	srv.AddTool(
		mcp.NewTool(
			"sysla.clear_completed",
			mcp.WithDescription("Delete every completed todo."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			snap, err := todos.RemoveCompleted(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			return snapshotResult("clear_completed", snap)
		},
	)
}

// snapshotResult encodes the settled snapshot as one tool result.
func snapshotResult(tool string, snap app.Snapshot) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", tool, err)
	}
	return result, nil
}

// toolResultFromError maps service errors onto MCP tool error results.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyPatch):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case errors.Is(err, app.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	default:
		return mcp.NewToolResultError("remote_failed: " + err.Error())
	}
}
