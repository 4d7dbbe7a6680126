package wm

import (
	"fmt"

	"github.com/1broseidon/deskwm/internal/tiling"
)

// Options configures a Manager. Zero values take defaults.
type Options struct {
	// Allocator and Stack are injected so callers can share or inspect
	// them; nil creates fresh ones.
	Allocator *IdentityAllocator
	Stack     *StackOrder

	Defaults     WindowDefaults
	DefaultGroup Group
	Cascade      tiling.Cascade
	GapSize      int
	// Icons are the default desktop icons, merged with saved ones on restore.
	Icons []Icon
}

func (o Options) withDefaults() Options {
	d := DefaultWindowDefaults()
	if o.Defaults.Title == "" {
		o.Defaults.Title = d.Title
	}
	if o.Defaults.Width <= 0 {
		o.Defaults.Width = d.Width
	}
	if o.Defaults.Height <= 0 {
		o.Defaults.Height = d.Height
	}
	def := DefaultGroup()
	if o.DefaultGroup.Name == "" {
		o.DefaultGroup.Name = def.Name
	}
	if o.DefaultGroup.Color == "" {
		o.DefaultGroup.Color = def.Color
	}
	o.DefaultGroup.ID = DefaultGroupID
	if o.Cascade == (tiling.Cascade{}) {
		o.Cascade = tiling.DefaultCascade()
	}
	if o.GapSize < 0 {
		o.GapSize = 0
	}
	return o
}

// Manager is the window manager state machine.
type Manager struct {
	opts   Options
	ids    *IdentityAllocator
	stack  *StackOrder
	groups *GroupRegistry

	// windows is in creation order, not display order.
	windows  []*Window
	activeID int
	icons    []Icon

	// lastArrange holds geometry from before the most recent arrangement.
	lastArrange map[int]arrangedGeometry

	listeners    []listenerEntry
	nextListener int
}

type arrangedGeometry struct {
	rect      tiling.Rect
	maximized bool
}

// NewManager returns an empty manager.
func NewManager(opts Options) *Manager {
	opts = opts.withDefaults()
	ids := opts.Allocator
	if ids == nil {
		ids = NewIdentityAllocator()
	}
	stack := opts.Stack
	if stack == nil {
		stack = NewStackOrder(DefaultBaseZIndex)
	}
	m := &Manager{
		opts:   opts,
		ids:    ids,
		stack:  stack,
		groups: newGroupRegistry(opts.DefaultGroup),
	}
	m.icons = mergeIcons(opts.Icons, nil)
	return m
}

// Configure replaces the creation defaults, cascade parameters, gap and
// default icons. Existing windows, groups and counters are untouched.
func (m *Manager) Configure(opts Options) {
	opts.Allocator = m.ids
	opts.Stack = m.stack
	m.opts = opts.withDefaults()
}

func (m *Manager) find(id int) *Window {
	for _, w := range m.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// Window returns a copy of the window with id.
func (m *Manager) Window(id int) (Window, bool) {
	w := m.find(id)
	if w == nil {
		return Window{}, false
	}
	return w.clone(), true
}

// Windows returns copies of all windows in creation order.
func (m *Manager) Windows() []Window {
	out := make([]Window, len(m.windows))
	for i, w := range m.windows {
		out[i] = w.clone()
	}
	return out
}

// Len returns the number of open windows.
func (m *Manager) Len() int {
	return len(m.windows)
}

// ActiveWindowID returns the active window id; ok is false when no window
// is active.
func (m *Manager) ActiveWindowID() (id int, ok bool) {
	return m.activeID, m.activeID != 0
}

// Create opens a window and makes it active. Options are validated before
// any id is consumed.
func (m *Manager) Create(opts CreateOptions) (int, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}
	groupID := opts.GroupID
	if groupID == "" {
		groupID = DefaultGroupID
	}
	if !m.groups.has(groupID) {
		return 0, groupNotFound(groupID)
	}

	id := m.ids.NextWindowID()
	w := &Window{
		ID:           id,
		Title:        opts.Title,
		X:            staggerOffset(id),
		Y:            staggerOffset(id),
		Width:        opts.Width,
		Height:       opts.Height,
		IsMaximized:  opts.Maximized,
		Content:      opts.Content,
		SavedContent: opts.Content,
		DocumentID:   opts.DocumentID,
		GroupID:      groupID,
		SidebarMode:  opts.SidebarMode,
		SidebarSide:  opts.SidebarSide,
	}
	if w.Title == "" {
		w.Title = m.opts.Defaults.Title
	}
	if opts.X != nil {
		w.X = *opts.X
	}
	if opts.Y != nil {
		w.Y = *opts.Y
	}
	if w.Width == 0 {
		w.Width = m.opts.Defaults.Width
	}
	if w.Height == 0 {
		w.Height = m.opts.Defaults.Height
	}
	if opts.DocumentID != nil {
		doc := *opts.DocumentID
		w.DocumentID = &doc
	}

	m.windows = append(m.windows, w)
	m.activate(w)
	m.notify(Event{Op: OpCreate, WindowID: id, GroupID: groupID})
	return id, nil
}

// Close removes a window. When it was active, the topmost remaining
// non-minimized window becomes active, if any.
func (m *Manager) Close(id int) error {
	idx := -1
	for i, w := range m.windows {
		if w.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return windowNotFound(id)
	}

	wasActive := m.activeID == id
	m.windows = append(m.windows[:idx], m.windows[idx+1:]...)
	delete(m.lastArrange, id)
	if wasActive {
		m.activeID = 0
		if next := Topmost(m.windows, notMinimized); next != nil {
			m.activate(next)
		}
	}
	m.notify(Event{Op: OpClose, WindowID: id})
	return nil
}

// SetActive focuses a window and brings it to front. A minimized window is
// restored first, the way clicking its taskbar entry would.
func (m *Manager) SetActive(id int) error {
	w := m.find(id)
	if w == nil {
		return windowNotFound(id)
	}
	if w.IsActive && !w.IsMinimized && w.ZIndex == m.stack.Current() {
		return nil
	}
	w.IsMinimized = false
	m.activate(w)
	m.notify(Event{Op: OpFocus, WindowID: id})
	return nil
}

// ToggleMaximize flips the maximized flag. Geometry is kept so that
// un-maximizing restores the previous rectangle.
func (m *Manager) ToggleMaximize(id int) error {
	w := m.find(id)
	if w == nil {
		return windowNotFound(id)
	}
	w.IsMaximized = !w.IsMaximized
	m.notify(Event{Op: OpMaximize, WindowID: id})
	return nil
}

// ToggleMinimize flips the minimized flag. Minimizing the active window
// hands focus to the topmost other non-minimized window; restoring a
// window activates it.
func (m *Manager) ToggleMinimize(id int) error {
	w := m.find(id)
	if w == nil {
		return windowNotFound(id)
	}

	if w.IsMinimized {
		w.IsMinimized = false
		m.activate(w)
	} else {
		w.IsMinimized = true
		if w.IsActive || m.activeID == id {
			w.IsActive = false
			m.activeID = 0
			next := Topmost(m.windows, func(c *Window) bool {
				return c.ID != id && !c.IsMinimized
			})
			if next != nil {
				m.activate(next)
			}
		}
	}
	m.notify(Event{Op: OpMinimize, WindowID: id})
	return nil
}

// Move sets the top-left corner of a window.
func (m *Manager) Move(id, x, y int) error {
	w := m.find(id)
	if w == nil {
		return windowNotFound(id)
	}
	if w.X == x && w.Y == y {
		return nil
	}
	w.X, w.Y = x, y
	m.notify(Event{Op: OpMove, WindowID: id})
	return nil
}

// Resize sets the full geometry of a window; resizing from the top or left
// edge moves the origin too.
func (m *Manager) Resize(id, x, y, width, height int) error {
	w := m.find(id)
	if w == nil {
		return windowNotFound(id)
	}
	if width <= 0 || height <= 0 {
		return invalidf("window size must be positive (got %dx%d)", width, height)
	}
	next := tiling.Rect{X: x, Y: y, Width: width, Height: height}
	if w.Rect() == next {
		return nil
	}
	w.X, w.Y, w.Width, w.Height = x, y, width, height
	m.notify(Event{Op: OpResize, WindowID: id})
	return nil
}

// SetTitle renames a window.
func (m *Manager) SetTitle(id int, title string) error {
	w := m.find(id)
	if w == nil {
		return windowNotFound(id)
	}
	if w.Title == title {
		return nil
	}
	w.Title = title
	m.notify(Event{Op: OpTitle, WindowID: id, Detail: title})
	return nil
}

// SetContent replaces the opaque content payload of a window.
func (m *Manager) SetContent(id int, content string) error {
	w := m.find(id)
	if w == nil {
		return windowNotFound(id)
	}
	if w.Content == content {
		return nil
	}
	w.Content = content
	m.notify(Event{Op: OpContent, WindowID: id})
	return nil
}

// MarkSaved records the current content as saved.
func (m *Manager) MarkSaved(id int) error {
	w := m.find(id)
	if w == nil {
		return windowNotFound(id)
	}
	if !w.Dirty() {
		return nil
	}
	w.SavedContent = w.Content
	m.notify(Event{Op: OpMarkSaved, WindowID: id})
	return nil
}

// Dirty reports whether a window has unsaved content.
func (m *Manager) Dirty(id int) (bool, error) {
	w := m.find(id)
	if w == nil {
		return false, windowNotFound(id)
	}
	return w.Dirty(), nil
}

// activate makes w the only active window and brings it to front.
func (m *Manager) activate(w *Window) {
	for _, other := range m.windows {
		other.IsActive = false
	}
	w.IsActive = true
	m.activeID = w.ID
	m.stack.BringToFront(w)
}

func notMinimized(w *Window) bool {
	return !w.IsMinimized
}

func (m *Manager) String() string {
	return fmt.Sprintf("wm.Manager(windows=%d groups=%d active=%d)", len(m.windows), len(m.groups.groups), m.activeID)
}
