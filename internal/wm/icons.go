package wm

import (
	"fmt"
	"strconv"
	"strings"
)

// Icon is a launcher placed on the desktop background.
type Icon struct {
	ID     string `json:"id"`
	Glyph  string `json:"icon"`
	Label  string `json:"label"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Action string `json:"action"`
}

// Icons returns the desktop icons in display order.
func (m *Manager) Icons() []Icon {
	out := make([]Icon, len(m.icons))
	copy(out, m.icons)
	return out
}

func (m *Manager) iconIndex(id string) int {
	for i, ic := range m.icons {
		if ic.ID == id {
			return i
		}
	}
	return -1
}

// AddIcon appends an icon and returns its id. A blank id becomes
// "icon-N"; a zero position stacks the icon below the existing ones.
func (m *Manager) AddIcon(icon Icon) (string, error) {
	icon.ID = strings.TrimSpace(icon.ID)
	if icon.ID == "" {
		for n := len(m.icons) + 1; ; n++ {
			candidate := "icon-" + strconv.Itoa(n)
			if m.iconIndex(candidate) < 0 {
				icon.ID = candidate
				break
			}
		}
	} else if m.iconIndex(icon.ID) >= 0 {
		return "", invalidf("icon %q already exists", icon.ID)
	}
	if icon.X == 0 {
		icon.X = 20
	}
	if icon.Y == 0 {
		icon.Y = 20 + len(m.icons)*100
	}

	m.icons = append(m.icons, icon)
	m.notify(Event{Op: OpIconAdd, IconID: icon.ID})
	return icon.ID, nil
}

// MoveIcon repositions an icon.
func (m *Manager) MoveIcon(id string, x, y int) error {
	i := m.iconIndex(id)
	if i < 0 {
		return iconNotFound(id)
	}
	if m.icons[i].X == x && m.icons[i].Y == y {
		return nil
	}
	m.icons[i].X = x
	m.icons[i].Y = y
	m.notify(Event{Op: OpIconMove, IconID: id})
	return nil
}

// RemoveIcon deletes an icon.
func (m *Manager) RemoveIcon(id string) error {
	i := m.iconIndex(id)
	if i < 0 {
		return iconNotFound(id)
	}
	m.icons = append(m.icons[:i], m.icons[i+1:]...)
	m.notify(Event{Op: OpIconRemove, IconID: id})
	return nil
}

// mergeIcons overlays saved icons onto the defaults by id; saved icons
// without a default are appended in their saved order.
func mergeIcons(defaults, saved []Icon) []Icon {
	merged := make([]Icon, len(defaults))
	copy(merged, defaults)
	for _, s := range saved {
		found := false
		for i := range merged {
			if merged[i].ID == s.ID {
				merged[i] = s
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, s)
		}
	}
	return merged
}

func iconNotFound(id string) error {
	return fmt.Errorf("icon %q: %w", id, ErrNotFound)
}
