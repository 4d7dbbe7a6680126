package mcp

import "github.com/1broseidon/deskwm/internal/wm"

// CreateWindowInput is the input for the create_window tool.
type CreateWindowInput struct {
	Title       string `json:"title,omitempty" jsonschema:"Window title (default from config window_defaults.title)"`
	X           *int   `json:"x,omitempty" jsonschema:"Left edge in pixels. Omit for a staggered position."`
	Y           *int   `json:"y,omitempty" jsonschema:"Top edge in pixels. Omit for a staggered position."`
	Width       int    `json:"width,omitempty" jsonschema:"Width in pixels (0 uses the configured default)"`
	Height      int    `json:"height,omitempty" jsonschema:"Height in pixels (0 uses the configured default)"`
	Content     string `json:"content,omitempty" jsonschema:"Initial text content"`
	DocumentID  *int64 `json:"document_id,omitempty" jsonschema:"Optional id of the document shown in the window"`
	GroupID     string `json:"group_id,omitempty" jsonschema:"Group to place the window in (default group when empty)"`
	Maximized   bool   `json:"maximized,omitempty" jsonschema:"Open maximized"`
	SidebarMode bool   `json:"sidebar_mode,omitempty" jsonschema:"Dock as a sidebar panel; sidebar windows are skipped by arrangements"`
	SidebarSide string `json:"sidebar_side,omitempty" jsonschema:"Sidebar side: left or right"`
}

func (in CreateWindowInput) options() wm.CreateOptions {
	return wm.CreateOptions{
		Title:       in.Title,
		X:           in.X,
		Y:           in.Y,
		Width:       in.Width,
		Height:      in.Height,
		Content:     in.Content,
		DocumentID:  in.DocumentID,
		GroupID:     in.GroupID,
		Maximized:   in.Maximized,
		SidebarMode: in.SidebarMode,
		SidebarSide: in.SidebarSide,
	}
}

// WindowOutput describes a window after a tool changed it.
type WindowOutput struct {
	Window wm.Window `json:"window"`
}

// WindowInput targets a single window.
type WindowInput struct {
	WindowID int `json:"window_id" jsonschema:"Id of the target window"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	WindowID int `json:"window_id" jsonschema:"Id of the target window"`
	X        int `json:"x" jsonschema:"New left edge in pixels"`
	Y        int `json:"y" jsonschema:"New top edge in pixels"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	WindowID int `json:"window_id" jsonschema:"Id of the target window"`
	X        int `json:"x" jsonschema:"New left edge in pixels"`
	Y        int `json:"y" jsonschema:"New top edge in pixels"`
	Width    int `json:"width" jsonschema:"New width in pixels (must be positive)"`
	Height   int `json:"height" jsonschema:"New height in pixels (must be positive)"`
}

// SetTitleInput is the input for the set_title tool.
type SetTitleInput struct {
	WindowID int    `json:"window_id" jsonschema:"Id of the target window"`
	Title    string `json:"title" jsonschema:"New title"`
}

// SetContentInput is the input for the set_content tool.
type SetContentInput struct {
	WindowID int    `json:"window_id" jsonschema:"Id of the target window"`
	Content  string `json:"content" jsonschema:"New text content"`
}

// MoveToGroupInput is the input for the move_to_group tool.
type MoveToGroupInput struct {
	WindowID int    `json:"window_id" jsonschema:"Id of the target window"`
	GroupID  string `json:"group_id" jsonschema:"Id of the destination group"`
}

// CreateGroupInput is the input for the create_group tool.
type CreateGroupInput struct {
	Name  string `json:"name" jsonschema:"Display name of the group"`
	Color string `json:"color,omitempty" jsonschema:"CSS color; a palette color is picked when empty"`
}

// GroupOutput describes a group after a tool changed it.
type GroupOutput struct {
	Group wm.Group `json:"group"`
}

// UpdateGroupInput is the input for the update_group tool.
type UpdateGroupInput struct {
	GroupID string  `json:"group_id" jsonschema:"Id of the group to change"`
	Name    *string `json:"name,omitempty" jsonschema:"New display name"`
	Color   *string `json:"color,omitempty" jsonschema:"New color"`
}

// GroupInput targets a single group.
type GroupInput struct {
	GroupID string `json:"group_id" jsonschema:"Id of the target group"`
}

// ListGroupsInput is the input for the list_groups tool.
type ListGroupsInput struct{}

// GroupInfo is a group with its member window ids.
type GroupInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Windows []int  `json:"windows"`
}

// ListGroupsOutput is the output for the list_groups tool.
type ListGroupsOutput struct {
	Groups []GroupInfo `json:"groups"`
}

// ArrangeInput is the input for the arrange tool.
type ArrangeInput struct {
	Layout string `json:"layout,omitempty" jsonschema:"Configured layout name (e.g. grid, cascade, rows, columns, half-left). Empty uses default_layout."`
	Undo   bool   `json:"undo,omitempty" jsonschema:"When true, restore the geometry from before the most recent arrangement instead"`
}

// ArrangeOutput is the output for the arrange tool.
type ArrangeOutput struct {
	Layout  string `json:"layout,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Undone  bool   `json:"undone,omitempty"`
	Windows int    `json:"windows"`
}

// GetStateInput is the input for the get_state tool.
type GetStateInput struct{}
