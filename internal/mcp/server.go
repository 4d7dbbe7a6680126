// Package mcp exposes the window manager as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/wm"
)

const (
	ServerName    = "deskwm"
	ServerVersion = "0.1.0"
)

// Server is the MCP server over one daemon.Service.
type Server struct {
	mcpServer *mcpsdk.Server
	svc       *daemon.Service
}

// NewServer creates a new MCP server. The caller keeps ownership of svc.
func NewServer(svc *daemon.Service) *Server {
	s := &Server{svc: svc}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_window",
		Description: "Open a new window on the virtual desktop. It becomes the active, topmost window. Omitted fields take the configured defaults; omit x/y for a staggered position.",
	}, s.handleCreateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. If it was active, the topmost remaining non-minimized window becomes active.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Make a window active and raise it above all others. A minimized window is restored.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_maximize",
		Description: "Toggle the maximized flag of a window.",
	}, s.handleToggleMaximize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_minimize",
		Description: "Toggle the minimized flag of a window. Minimizing the active window passes focus to the topmost visible window.",
	}, s.handleToggleMinimize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window to a new top-left position without changing its size.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Set a window's full geometry. Width and height must be positive.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_title",
		Description: "Change a window's title.",
	}, s.handleSetTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_content",
		Description: "Replace a window's text content. The window is reported dirty until mark_saved is called.",
	}, s.handleSetContent)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "mark_saved",
		Description: "Record a window's current content as saved, clearing its dirty flag.",
	}, s.handleMarkSaved)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_to_group",
		Description: "Move a window into another group.",
	}, s.handleMoveToGroup)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_group",
		Description: "Create a named window group and return its id.",
	}, s.handleCreateGroup)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_group",
		Description: "Rename or recolor a group. Only the fields provided are changed.",
	}, s.handleUpdateGroup)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "delete_group",
		Description: "Delete a group. Its windows move to the default group. The default group cannot be deleted.",
	}, s.handleDeleteGroup)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_groups",
		Description: "List every group in order with the ids of its member windows.",
	}, s.handleListGroups)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange",
		Description: "Arrange all visible, non-sidebar windows with a configured layout (cascade, grid, rows, columns, half-left, half-right or a custom one), or undo the last arrangement.",
	}, s.handleArrange)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_state",
		Description: "Return the full desktop state: windows, groups, icons, counters and the active window.",
	}, s.handleGetState)
}

// windowResult reads back a window after a change. Closed windows yield
// an empty window.
func (s *Server) windowResult(id int, summary string) (*mcpsdk.CallToolResult, WindowOutput) {
	var out WindowOutput
	_ = s.svc.Do(func(m *wm.Manager) error {
		out.Window, _ = m.Window(id)
		return nil
	})
	return textResult(summary), out
}

func textResult(text string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: text},
		},
	}
}

func (s *Server) windowTool(id int, verb string, fn func(*wm.Manager, int) error) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := s.svc.Do(func(m *wm.Manager) error { return fn(m, id) }); err != nil {
		return nil, WindowOutput{}, err
	}
	res, out := s.windowResult(id, fmt.Sprintf("%s window %d", verb, id))
	return res, out, nil
}

func (s *Server) groupResult(id, summary string) (*mcpsdk.CallToolResult, GroupOutput) {
	var out GroupOutput
	_ = s.svc.Do(func(m *wm.Manager) error {
		out.Group, _ = m.Group(id)
		return nil
	})
	return textResult(summary), out
}
