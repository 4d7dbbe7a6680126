package wm

import (
	"encoding/json"

	"github.com/1broseidon/deskwm/internal/tiling"
)

// Sidebar sides accepted for docked windows.
const (
	SidebarLeft  = "left"
	SidebarRight = "right"
)

// Window is one open document surface.
type Window struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	IsMaximized bool   `json:"isMaximized"`
	IsMinimized bool   `json:"isMinimized"`
	ZIndex      int    `json:"zIndex"`
	IsActive    bool   `json:"isActive"`
	Content     string `json:"content"`
	// SavedContent is the content as of the last MarkSaved.
	SavedContent string `json:"savedContent"`
	// DocumentID refers to an external document; never dereferenced here.
	DocumentID  *int64 `json:"documentId"`
	GroupID     string `json:"groupId"`
	SidebarMode bool   `json:"sidebarMode"`
	SidebarSide string `json:"sidebarSide"`
}

// UnmarshalJSON defaults a missing savedContent to the window's content,
// so snapshots written before saved-content tracking load as clean.
func (w *Window) UnmarshalJSON(data []byte) error {
	type plain Window
	aux := struct {
		*plain
		SavedContent *string `json:"savedContent"`
	}{plain: (*plain)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.SavedContent != nil {
		w.SavedContent = *aux.SavedContent
	} else {
		w.SavedContent = w.Content
	}
	return nil
}

// Rect returns the window geometry.
func (w Window) Rect() tiling.Rect {
	return tiling.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}
}

// Dirty reports whether the content changed since the last save.
func (w Window) Dirty() bool {
	return w.Content != w.SavedContent
}

// Floating reports whether arrangements may move the window: it is
// neither minimized nor docked as a sidebar.
func (w Window) Floating() bool {
	return !w.IsMinimized && !w.SidebarMode
}

func (w *Window) clone() Window {
	c := *w
	if w.DocumentID != nil {
		id := *w.DocumentID
		c.DocumentID = &id
	}
	return c
}

// WindowDefaults fill in CreateOptions fields left zero.
type WindowDefaults struct {
	Title  string
	Width  int
	Height int
}

// DefaultWindowDefaults returns the stock title and size of new windows.
func DefaultWindowDefaults() WindowDefaults {
	return WindowDefaults{Title: "Untitled", Width: 900, Height: 600}
}

// CreateOptions configures Create. Zero values take defaults:
//   - Title: WindowDefaults.Title
//   - X, Y: staggered 100 + ((id-1) mod 5) * 40
//   - Width, Height: WindowDefaults.Width/Height
//   - GroupID: the default group
type CreateOptions struct {
	Title       string
	X           *int
	Y           *int
	Width       int
	Height      int
	Content     string
	DocumentID  *int64
	GroupID     string
	Maximized   bool
	SidebarMode bool
	SidebarSide string
}

func (o CreateOptions) validate() error {
	if o.Width < 0 || o.Height < 0 {
		return invalidf("window size must not be negative (got %dx%d)", o.Width, o.Height)
	}
	return validateSidebarSide(o.SidebarSide)
}

func validateSidebarSide(side string) error {
	switch side {
	case "", SidebarLeft, SidebarRight:
		return nil
	default:
		return invalidf("sidebar side must be %q or %q (got %q)", SidebarLeft, SidebarRight, side)
	}
}

// staggerOffset is the default position of window id along each axis.
func staggerOffset(id int) int {
	return 100 + ((id-1)%5)*40
}
