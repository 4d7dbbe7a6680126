package wm

import (
	"fmt"
	"strings"
)

// DefaultGroupID is the id of the group that always exists.
const DefaultGroupID = "default"

// Group is a named, colored bucket of windows.
type Group struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// GroupPatch updates the fields that are non-nil.
type GroupPatch struct {
	Name  *string
	Color *string
}

// DefaultGroup returns the stock default group.
func DefaultGroup() Group {
	return Group{ID: DefaultGroupID, Name: "Default", Color: "#64748b"}
}

// groupPalette cycles colors for groups created without one.
var groupPalette = []string{"#3b82f6", "#22c55e", "#f59e0b", "#ef4444", "#a855f7", "#14b8a6"}

// GroupRegistry owns the ordered set of groups, default first.
type GroupRegistry struct {
	groups []Group
}

func newGroupRegistry(def Group) *GroupRegistry {
	def.ID = DefaultGroupID
	return &GroupRegistry{groups: []Group{def}}
}

func (r *GroupRegistry) index(id string) int {
	for i, g := range r.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (r *GroupRegistry) has(id string) bool {
	return r.index(id) >= 0
}

func (r *GroupRegistry) list() []Group {
	out := make([]Group, len(r.groups))
	copy(out, r.groups)
	return out
}

// Groups returns all groups, default first.
func (m *Manager) Groups() []Group {
	return m.groups.list()
}

// Group returns the group with id.
func (m *Manager) Group(id string) (Group, bool) {
	i := m.groups.index(id)
	if i < 0 {
		return Group{}, false
	}
	return m.groups.groups[i], true
}

// CreateGroup appends a new group and returns its id. A blank color picks
// the next palette color.
func (m *Manager) CreateGroup(name, color string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalidf("group name is required")
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = groupPalette[(len(m.groups.groups)-1)%len(groupPalette)]
	}

	id := m.ids.NextGroupID()
	m.groups.groups = append(m.groups.groups, Group{ID: id, Name: name, Color: color})
	m.notify(Event{Op: OpGroupCreate, GroupID: id})
	return id, nil
}

// UpdateGroup renames and/or recolors a group. The default group may be
// renamed and recolored, only not deleted.
func (m *Manager) UpdateGroup(id string, patch GroupPatch) error {
	i := m.groups.index(id)
	if i < 0 {
		return groupNotFound(id)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return invalidf("group name must not be empty")
	}

	g := m.groups.groups[i]
	next := g
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Color != nil && strings.TrimSpace(*patch.Color) != "" {
		next.Color = strings.TrimSpace(*patch.Color)
	}
	if next == g {
		return nil
	}
	m.groups.groups[i] = next
	m.notify(Event{Op: OpGroupUpdate, GroupID: id})
	return nil
}

// RenameGroup is UpdateGroup with only a name.
func (m *Manager) RenameGroup(id, name string) error {
	return m.UpdateGroup(id, GroupPatch{Name: &name})
}

// RecolorGroup is UpdateGroup with only a color.
func (m *Manager) RecolorGroup(id, color string) error {
	return m.UpdateGroup(id, GroupPatch{Color: &color})
}

// DeleteGroup removes a group after moving its windows to the default
// group. Deleting the default group is rejected.
func (m *Manager) DeleteGroup(id string) error {
	if id == DefaultGroupID {
		return invalidf("the default group cannot be deleted")
	}
	i := m.groups.index(id)
	if i < 0 {
		return groupNotFound(id)
	}

	for _, w := range m.windows {
		if w.GroupID == id {
			w.GroupID = DefaultGroupID
		}
	}
	m.groups.groups = append(m.groups.groups[:i], m.groups.groups[i+1:]...)
	m.notify(Event{Op: OpGroupDelete, GroupID: id})
	return nil
}

// MoveToGroup reassigns a window to an existing group.
func (m *Manager) MoveToGroup(windowID int, groupID string) error {
	w := m.find(windowID)
	if w == nil {
		return windowNotFound(windowID)
	}
	if !m.groups.has(groupID) {
		return groupNotFound(groupID)
	}
	if w.GroupID == groupID {
		return nil
	}
	w.GroupID = groupID
	m.notify(Event{Op: OpMoveToGroup, WindowID: windowID, GroupID: groupID})
	return nil
}

// Bucket is a group together with its member windows.
type Bucket struct {
	Group   Group
	Windows []Window
}

// Buckets groups windows for display, in group order. Every group is
// present, including an empty default bucket.
func (m *Manager) Buckets() []Bucket {
	buckets := make([]Bucket, len(m.groups.groups))
	pos := make(map[string]int, len(m.groups.groups))
	for i, g := range m.groups.groups {
		buckets[i] = Bucket{Group: g, Windows: []Window{}}
		pos[g.ID] = i
	}
	for _, w := range m.windows {
		i, ok := pos[w.GroupID]
		if !ok {
			i = pos[DefaultGroupID]
		}
		buckets[i].Windows = append(buckets[i].Windows, w.clone())
	}
	return buckets
}

// MembersOf returns the windows of one group in creation order.
func (m *Manager) MembersOf(groupID string) ([]Window, error) {
	if !m.groups.has(groupID) {
		return nil, groupNotFound(groupID)
	}
	out := []Window{}
	for _, w := range m.windows {
		if w.GroupID == groupID {
			out = append(out, w.clone())
		}
	}
	return out, nil
}

func groupNotFound(id string) error {
	return fmt.Errorf("group %q: %w", id, ErrNotFound)
}

func windowNotFound(id int) error {
	return fmt.Errorf("window %d: %w", id, ErrNotFound)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}
