package ipc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/1broseidon/deskwm/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetState    CommandType = "GET_STATE"
	CommandListLayouts CommandType = "LIST_LAYOUTS"
	CommandListGroups  CommandType = "LIST_GROUPS"

	CommandCreateWindow   CommandType = "CREATE_WINDOW"
	CommandCloseWindow    CommandType = "CLOSE_WINDOW"
	CommandFocusWindow    CommandType = "FOCUS_WINDOW"
	CommandToggleMaximize CommandType = "TOGGLE_MAXIMIZE"
	CommandToggleMinimize CommandType = "TOGGLE_MINIMIZE"
	CommandMoveWindow     CommandType = "MOVE_WINDOW"
	CommandResizeWindow   CommandType = "RESIZE_WINDOW"
	CommandSetTitle       CommandType = "SET_TITLE"
	CommandSetContent     CommandType = "SET_CONTENT"
	CommandMarkSaved      CommandType = "MARK_SAVED"
	CommandMoveToGroup    CommandType = "MOVE_TO_GROUP"

	CommandCreateGroup CommandType = "CREATE_GROUP"
	CommandUpdateGroup CommandType = "UPDATE_GROUP"
	CommandDeleteGroup CommandType = "DELETE_GROUP"

	CommandArrange CommandType = "ARRANGE"
	CommandUndo    CommandType = "UNDO"

	CommandAddIcon    CommandType = "ADD_ICON"
	CommandMoveIcon   CommandType = "MOVE_ICON"
	CommandRemoveIcon CommandType = "REMOVE_ICON"
)

// Error codes carried in Response.Code so clients can tell failures apart.
const (
	CodeNotFound  = "NOT_FOUND"
	CodeInvalid   = "INVALID_OPERATION"
	CodeMalformed = "MALFORMED"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Code   string          `json:"code,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount    int    `json:"window_count"`
	GroupCount     int    `json:"group_count"`
	ActiveWindowID *int   `json:"active_window_id"`
	DefaultLayout  string `json:"default_layout"`
	Backend        string `json:"backend"`
	StatePath      string `json:"state_path,omitempty"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DaemonRunning  bool   `json:"daemon_running"`
}

type LayoutsData struct {
	Layouts       []string `json:"layouts"`
	DefaultLayout string   `json:"default_layout"`
}

type GroupsData struct {
	Groups []GroupInfo `json:"groups"`
}

// GroupInfo is a group with the ids of its member windows.
type GroupInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Windows []int  `json:"windows"`
}

// CreateWindowPayload mirrors wm.CreateOptions. Zero sizes take the
// configured defaults; nil x/y take the staggered position.
type CreateWindowPayload struct {
	Title       string `json:"title,omitempty"`
	X           *int   `json:"x,omitempty"`
	Y           *int   `json:"y,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Content     string `json:"content,omitempty"`
	DocumentID  *int64 `json:"document_id,omitempty"`
	GroupID     string `json:"group_id,omitempty"`
	Maximized   bool   `json:"maximized,omitempty"`
	SidebarMode bool   `json:"sidebar_mode,omitempty"`
	SidebarSide string `json:"sidebar_side,omitempty"`
}

// Options converts the payload.
func (p CreateWindowPayload) Options() wm.CreateOptions {
	return wm.CreateOptions{
		Title:       p.Title,
		X:           p.X,
		Y:           p.Y,
		Width:       p.Width,
		Height:      p.Height,
		Content:     p.Content,
		DocumentID:  p.DocumentID,
		GroupID:     p.GroupID,
		Maximized:   p.Maximized,
		SidebarMode: p.SidebarMode,
		SidebarSide: p.SidebarSide,
	}
}

// WindowPayload targets one window.
type WindowPayload struct {
	WindowID int `json:"window_id"`
}

type MoveWindowPayload struct {
	WindowID int `json:"window_id"`
	X        int `json:"x"`
	Y        int `json:"y"`
}

type ResizeWindowPayload struct {
	WindowID int `json:"window_id"`
	X        int `json:"x"`
	Y        int `json:"y"`
	Width    int `json:"width"`
	Height   int `json:"height"`
}

type SetTitlePayload struct {
	WindowID int    `json:"window_id"`
	Title    string `json:"title"`
}

type SetContentPayload struct {
	WindowID int    `json:"window_id"`
	Content  string `json:"content"`
}

type MoveToGroupPayload struct {
	WindowID int    `json:"window_id"`
	GroupID  string `json:"group_id"`
}

type CreateGroupPayload struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// UpdateGroupPayload changes only the fields that are set.
type UpdateGroupPayload struct {
	GroupID string  `json:"group_id"`
	Name    *string `json:"name,omitempty"`
	Color   *string `json:"color,omitempty"`
}

type GroupPayload struct {
	GroupID string `json:"group_id"`
}

// ArrangePayload names a configured layout; empty uses the default.
type ArrangePayload struct {
	Layout string `json:"layout,omitempty"`
}

type ArrangeData struct {
	Layout string `json:"layout"`
	Mode   string `json:"mode"`
}

type AddIconPayload struct {
	ID     string `json:"id,omitempty"`
	Glyph  string `json:"glyph,omitempty"`
	Label  string `json:"label"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Action string `json:"action,omitempty"`
}

type MoveIconPayload struct {
	IconID string `json:"icon_id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type IconPayload struct {
	IconID string `json:"icon_id"`
}

// CreatedData returns the identifier a create command allocated.
type CreatedData struct {
	WindowID int    `json:"window_id,omitempty"`
	GroupID  string `json:"group_id,omitempty"`
	IconID   string `json:"icon_id,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// NewErrorResponseFrom creates an error response classified by the
// manager's error kinds.
func NewErrorResponseFrom(err error) *Response {
	resp := NewErrorResponse(err.Error())
	resp.Code = codeFor(err)
	return resp
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, wm.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, wm.ErrInvalidOperation):
		return CodeInvalid
	case errors.Is(err, wm.ErrMalformedSnapshot):
		return CodeMalformed
	default:
		return ""
	}
}

// Err converts an error response back into an error wrapping the matching
// manager sentinel. It returns nil for OK responses.
func (r *Response) Err() error {
	if r.Status != "ERROR" {
		return nil
	}
	switch r.Code {
	case CodeNotFound:
		return fmt.Errorf("daemon error: %s: %w", r.Error, wm.ErrNotFound)
	case CodeInvalid:
		return fmt.Errorf("daemon error: %s: %w", r.Error, wm.ErrInvalidOperation)
	case CodeMalformed:
		return fmt.Errorf("daemon error: %s: %w", r.Error, wm.ErrMalformedSnapshot)
	default:
		return fmt.Errorf("daemon error: %s", r.Error)
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
