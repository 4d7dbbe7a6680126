/*
Package wm is the headless virtual window manager.

A Manager owns a desktop of overlapping document windows: their geometry,
stacking order, focus, minimize/maximize flags and group membership. It
never renders anything. Callers issue already-resolved numeric commands
("move window 4 to (120,80)") and read back a serializable Snapshot.

Invariants kept by every operation:
  - at most one window is active, and it is never minimized; whenever a
    non-minimized window exists, exactly one window is active
  - z-index values only come from StackOrder and strictly increase
  - every window's GroupID names an existing group; the default group
    cannot be removed
  - window and group identifiers are never reused, also across restore

A Manager is not safe for concurrent use. Serialize access externally
(see internal/daemon).

Example:

	m := wm.NewManager(wm.Options{})
	id, err := m.Create(wm.CreateOptions{Title: "Doc"})
	if err != nil {
		// handle error
	}
	_ = m.ToggleMaximize(id)
	snap := m.Serialize()
*/
package wm
