package wm

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the full serializable state of a Manager.
type Snapshot struct {
	NextWindowID int `json:"nextWindowId"`
	// NextZIndex is the highest z-index issued so far; the next window
	// brought to front receives NextZIndex+1.
	NextZIndex     int      `json:"nextZIndex"`
	NextGroupID    int      `json:"nextGroupId"`
	ActiveWindowID *int     `json:"activeWindowId"`
	Groups         []Group  `json:"groups"`
	Windows        []Window `json:"windows"`
	DesktopIcons   []Icon   `json:"desktopIcons,omitempty"`
}

// Serialize returns a deep copy of the current state.
func (m *Manager) Serialize() *Snapshot {
	nextWindow, nextGroup := m.ids.Counters()
	snap := &Snapshot{
		NextWindowID: nextWindow,
		NextZIndex:   m.stack.Current(),
		NextGroupID:  nextGroup,
		Groups:       m.groups.list(),
		Windows:      m.Windows(),
		DesktopIcons: m.Icons(),
	}
	if id, ok := m.ActiveWindowID(); ok {
		snap.ActiveWindowID = &id
	}
	return snap
}

// Encode returns the JSON form of the snapshot.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses JSON produced by Encode. Structural problems are
// reported as ErrMalformedSnapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap *Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedSnapshot)
	}
	return snap, nil
}

// Restore replaces the manager state with snap. A malformed snapshot
// returns an error wrapping ErrMalformedSnapshot and leaves the current
// state untouched. Missing fields are normalized:
//   - counters at or below zero default to 1 (windows, groups) and
//     DefaultBaseZIndex (z-index), then are raised past every restored id
//   - zero sizes take the window defaults
//   - an empty or unknown groupId becomes the default group
//   - the default group is inserted, or moved to the front
//   - the active window is the saved one when it exists and is not
//     minimized, otherwise the topmost non-minimized window
//
// Configured default icons are merged with the saved ones by id.
func (m *Manager) Restore(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrMalformedSnapshot)
	}

	groups, err := m.restoreGroups(snap.Groups)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(groups.groups))
	for _, g := range groups.groups {
		known[g.ID] = true
	}

	windows := make([]*Window, 0, len(snap.Windows))
	seen := make(map[int]bool, len(snap.Windows))
	maxID, maxZ := 0, 0
	for i := range snap.Windows {
		w := snap.Windows[i].clone()
		switch {
		case w.ID <= 0:
			return fmt.Errorf("%w: window %d has invalid id %d", ErrMalformedSnapshot, i, w.ID)
		case seen[w.ID]:
			return fmt.Errorf("%w: duplicate window id %d", ErrMalformedSnapshot, w.ID)
		case w.Width < 0 || w.Height < 0:
			return fmt.Errorf("%w: window %d has negative size %dx%d", ErrMalformedSnapshot, w.ID, w.Width, w.Height)
		}
		if err := validateSidebarSide(w.SidebarSide); err != nil {
			return fmt.Errorf("%w: window %d: %v", ErrMalformedSnapshot, w.ID, err)
		}
		seen[w.ID] = true

		if w.Width == 0 {
			w.Width = m.opts.Defaults.Width
		}
		if w.Height == 0 {
			w.Height = m.opts.Defaults.Height
		}
		if !known[w.GroupID] {
			w.GroupID = DefaultGroupID
		}
		w.IsActive = false
		maxID = max(maxID, w.ID)
		maxZ = max(maxZ, w.ZIndex)
		windows = append(windows, &w)
	}

	nextWindow := snap.NextWindowID
	if nextWindow <= 0 {
		nextWindow = 1
	}
	nextWindow = max(nextWindow, maxID+1)

	zCounter := snap.NextZIndex
	if zCounter <= 0 {
		zCounter = DefaultBaseZIndex
	}
	zCounter = max(zCounter, maxZ)

	nextGroup := snap.NextGroupID
	if nextGroup <= 0 {
		nextGroup = 1
	}
	for _, g := range groups.groups {
		if n, ok := groupSequence(g.ID); ok {
			nextGroup = max(nextGroup, n+1)
		}
	}

	var active *Window
	if snap.ActiveWindowID != nil {
		for _, w := range windows {
			if w.ID == *snap.ActiveWindowID && !w.IsMinimized {
				active = w
				break
			}
		}
	}
	if active == nil {
		active = Topmost(windows, notMinimized)
	}
	activeID := 0
	if active != nil {
		active.IsActive = true
		activeID = active.ID
	}

	m.ids.reset(nextWindow, nextGroup)
	m.stack.reset(zCounter)
	m.groups = groups
	m.windows = windows
	m.activeID = activeID
	m.icons = mergeIcons(m.opts.Icons, snap.DesktopIcons)
	m.lastArrange = nil
	m.notify(Event{Op: OpRestore})
	return nil
}

func (m *Manager) restoreGroups(saved []Group) (*GroupRegistry, error) {
	reg := &GroupRegistry{groups: make([]Group, 0, len(saved)+1)}
	seen := make(map[string]bool, len(saved))
	var def *Group
	for i, g := range saved {
		if g.ID == "" {
			return nil, fmt.Errorf("%w: group %d has empty id", ErrMalformedSnapshot, i)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("%w: duplicate group id %q", ErrMalformedSnapshot, g.ID)
		}
		seen[g.ID] = true
		if g.ID == DefaultGroupID {
			def = &g
			continue
		}
		reg.groups = append(reg.groups, g)
	}
	if def == nil {
		d := m.opts.DefaultGroup
		def = &d
	}
	reg.groups = append([]Group{*def}, reg.groups...)
	return reg, nil
}
