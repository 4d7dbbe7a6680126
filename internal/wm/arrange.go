package wm

import (
	"fmt"

	"github.com/1broseidon/deskwm/internal/tiling"
)

// floating returns the windows arrangements may move, in creation order.
func (m *Manager) floating() []*Window {
	var out []*Window
	for _, w := range m.windows {
		if w.Floating() {
			out = append(out, w)
		}
	}
	return out
}

// ArrangeCascade stacks floating windows diagonally with the configured
// cascade size.
func (m *Manager) ArrangeCascade() error {
	return m.Arrange(tiling.ModeCascade, tiling.Rect{})
}

// ArrangeHorizontal places floating windows side by side across viewport.
func (m *Manager) ArrangeHorizontal(viewport tiling.Rect) error {
	return m.Arrange(tiling.ModeHorizontal, viewport)
}

// ArrangeVertical stacks floating windows top to bottom within viewport.
func (m *Manager) ArrangeVertical(viewport tiling.Rect) error {
	return m.Arrange(tiling.ModeVertical, viewport)
}

// ArrangeGrid places floating windows in a grid within viewport.
func (m *Manager) ArrangeGrid(viewport tiling.Rect) error {
	return m.Arrange(tiling.ModeGrid, viewport)
}

// Arrange applies mode to every floating window and clears their maximized
// flag. Minimized and sidebar windows keep their geometry. With no floating
// windows it does nothing. The previous geometry is kept for UndoArrange.
func (m *Manager) Arrange(mode tiling.Mode, viewport tiling.Rect) error {
	if _, err := tiling.ParseMode(string(mode)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	targets := m.floating()
	if len(targets) == 0 {
		return nil
	}
	positions, err := tiling.Positions(mode, len(targets), viewport, m.opts.GapSize, m.opts.Cascade)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}

	previous := make(map[int]arrangedGeometry, len(targets))
	for i, w := range targets {
		previous[w.ID] = arrangedGeometry{rect: w.Rect(), maximized: w.IsMaximized}
		p := positions[i]
		w.X, w.Y, w.Width, w.Height = p.X, p.Y, p.Width, p.Height
		w.IsMaximized = false
	}
	m.lastArrange = previous
	m.notify(Event{Op: OpArrange, Detail: string(mode)})
	return nil
}

// CanUndoArrange reports whether an arrangement can be reverted.
func (m *Manager) CanUndoArrange() bool {
	return len(m.lastArrange) > 0
}

// UndoArrange restores the geometry and maximized flag windows had before
// the most recent arrangement. Windows closed since then are skipped.
func (m *Manager) UndoArrange() error {
	if len(m.lastArrange) == 0 {
		return invalidf("no arrangement to undo")
	}
	for _, w := range m.windows {
		prev, ok := m.lastArrange[w.ID]
		if !ok {
			continue
		}
		w.X, w.Y, w.Width, w.Height = prev.rect.X, prev.rect.Y, prev.rect.Width, prev.rect.Height
		w.IsMaximized = prev.maximized
	}
	m.lastArrange = nil
	m.notify(Event{Op: OpUndoArrange})
	return nil
}
