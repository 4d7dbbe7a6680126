package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskwm/internal/wm"
)

func (s *Server) handleCreateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	var id int
	err := s.svc.Do(func(m *wm.Manager) error {
		var err error
		id, err = m.Create(args.options())
		return err
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	res, out := s.windowResult(id, fmt.Sprintf("Created window %d", id))
	return res, out, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.svc.Do(func(m *wm.Manager) error { return m.Close(args.WindowID) }); err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("Closed window %d", args.WindowID)), nil, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool(args.WindowID, "Focused", (*wm.Manager).SetActive)
}

func (s *Server) handleToggleMaximize(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool(args.WindowID, "Toggled maximize on", (*wm.Manager).ToggleMaximize)
}

func (s *Server) handleToggleMinimize(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool(args.WindowID, "Toggled minimize on", (*wm.Manager).ToggleMinimize)
}

func (s *Server) handleMarkSaved(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool(args.WindowID, "Marked saved", (*wm.Manager).MarkSaved)
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool(args.WindowID, "Moved", func(m *wm.Manager, id int) error {
		return m.Move(id, args.X, args.Y)
	})
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool(args.WindowID, "Resized", func(m *wm.Manager, id int) error {
		return m.Resize(id, args.X, args.Y, args.Width, args.Height)
	})
}

func (s *Server) handleSetTitle(_ context.Context, _ *mcpsdk.CallToolRequest, args SetTitleInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool(args.WindowID, "Retitled", func(m *wm.Manager, id int) error {
		return m.SetTitle(id, args.Title)
	})
}

func (s *Server) handleSetContent(_ context.Context, _ *mcpsdk.CallToolRequest, args SetContentInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool(args.WindowID, "Updated content of", func(m *wm.Manager, id int) error {
		return m.SetContent(id, args.Content)
	})
}

func (s *Server) handleMoveToGroup(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveToGroupInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool(args.WindowID, "Regrouped", func(m *wm.Manager, id int) error {
		return m.MoveToGroup(id, args.GroupID)
	})
}

func (s *Server) handleCreateGroup(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateGroupInput) (*mcpsdk.CallToolResult, GroupOutput, error) {
	var id string
	err := s.svc.Do(func(m *wm.Manager) error {
		var err error
		id, err = m.CreateGroup(args.Name, args.Color)
		return err
	})
	if err != nil {
		return nil, GroupOutput{}, err
	}
	res, out := s.groupResult(id, fmt.Sprintf("Created group %s", id))
	return res, out, nil
}

func (s *Server) handleUpdateGroup(_ context.Context, _ *mcpsdk.CallToolRequest, args UpdateGroupInput) (*mcpsdk.CallToolResult, GroupOutput, error) {
	err := s.svc.Do(func(m *wm.Manager) error {
		return m.UpdateGroup(args.GroupID, wm.GroupPatch{Name: args.Name, Color: args.Color})
	})
	if err != nil {
		return nil, GroupOutput{}, err
	}
	res, out := s.groupResult(args.GroupID, fmt.Sprintf("Updated group %s", args.GroupID))
	return res, out, nil
}

func (s *Server) handleDeleteGroup(_ context.Context, _ *mcpsdk.CallToolRequest, args GroupInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.svc.Do(func(m *wm.Manager) error { return m.DeleteGroup(args.GroupID) }); err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("Deleted group %s", args.GroupID)), nil, nil
}

func (s *Server) handleListGroups(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListGroupsInput) (*mcpsdk.CallToolResult, ListGroupsOutput, error) {
	out := ListGroupsOutput{Groups: []GroupInfo{}}
	_ = s.svc.Do(func(m *wm.Manager) error {
		for _, b := range m.Buckets() {
			info := GroupInfo{ID: b.Group.ID, Name: b.Group.Name, Color: b.Group.Color, Windows: []int{}}
			for _, w := range b.Windows {
				info.Windows = append(info.Windows, w.ID)
			}
			out.Groups = append(out.Groups, info)
		}
		return nil
	})
	return textResult(fmt.Sprintf("%d groups", len(out.Groups))), out, nil
}

func (s *Server) handleArrange(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeInput) (*mcpsdk.CallToolResult, ArrangeOutput, error) {
	var out ArrangeOutput
	if args.Undo {
		if err := s.svc.Do((*wm.Manager).UndoArrange); err != nil {
			return nil, ArrangeOutput{}, err
		}
		out.Undone = true
	} else {
		name, layout, err := s.svc.Arrange(args.Layout)
		if err != nil {
			return nil, ArrangeOutput{}, err
		}
		out.Layout = name
		out.Mode = string(layout.Mode)
	}

	_ = s.svc.Do(func(m *wm.Manager) error {
		for _, w := range m.Windows() {
			if w.Floating() {
				out.Windows++
			}
		}
		return nil
	})

	if out.Undone {
		return textResult("Restored geometry from before the last arrangement"), out, nil
	}
	return textResult(fmt.Sprintf("Arranged %d windows with layout %s (%s)", out.Windows, out.Layout, out.Mode)), out, nil
}

func (s *Server) handleGetState(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStateInput) (*mcpsdk.CallToolResult, wm.Snapshot, error) {
	snap := s.svc.Snapshot()
	return textResult(fmt.Sprintf("%d windows, %d groups", len(snap.Windows), len(snap.Groups))), *snap, nil
}
