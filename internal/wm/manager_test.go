package wm

import (
	"errors"
	"reflect"
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(Options{})
}

func mustCreate(t *testing.T, m *Manager, opts CreateOptions) int {
	t.Helper()
	id, err := m.Create(opts)
	if err != nil {
		t.Fatalf("Create(%+v) error: %v", opts, err)
	}
	return id
}

func mustWindow(t *testing.T, m *Manager, id int) Window {
	t.Helper()
	w, ok := m.Window(id)
	if !ok {
		t.Fatalf("window %d not found", id)
	}
	return w
}

// assertSingleActive checks the focus invariant: exactly one active window
// when any window is not minimized, none otherwise.
func assertSingleActive(t *testing.T, m *Manager) {
	t.Helper()
	active := 0
	visible := 0
	for _, w := range m.Windows() {
		if w.IsActive {
			active++
			if w.IsMinimized {
				t.Fatalf("window %d is active and minimized", w.ID)
			}
			if id, ok := m.ActiveWindowID(); !ok || id != w.ID {
				t.Fatalf("ActiveWindowID() = %d,%v, want %d", id, ok, w.ID)
			}
		}
		if !w.IsMinimized {
			visible++
		}
	}
	want := 0
	if visible > 0 {
		want = 1
	}
	if active != want {
		t.Fatalf("active windows = %d, want %d", active, want)
	}
	if want == 0 {
		if _, ok := m.ActiveWindowID(); ok {
			t.Fatalf("ActiveWindowID() reported a window with none active")
		}
	}
}

func TestCreate_DefaultsAndStagger(t *testing.T) {
	m := newTestManager(t)

	var ids []int
	for i := 0; i < 6; i++ {
		ids = append(ids, mustCreate(t, m, CreateOptions{}))
		assertSingleActive(t, m)
	}
	if !reflect.DeepEqual(ids, []int{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("ids = %v, want 1..6", ids)
	}

	wantOffsets := []int{100, 140, 180, 220, 260, 100}
	for i, id := range ids {
		w := mustWindow(t, m, id)
		if w.X != wantOffsets[i] || w.Y != wantOffsets[i] {
			t.Fatalf("window %d at (%d,%d), want (%d,%d)", id, w.X, w.Y, wantOffsets[i], wantOffsets[i])
		}
		if w.Title != "Untitled" || w.Width != 900 || w.Height != 600 {
			t.Fatalf("window %d defaults = %q %dx%d", id, w.Title, w.Width, w.Height)
		}
		if w.GroupID != DefaultGroupID {
			t.Fatalf("window %d group = %q, want default", id, w.GroupID)
		}
		if w.ZIndex != DefaultBaseZIndex+1+i {
			t.Fatalf("window %d zIndex = %d, want %d", id, w.ZIndex, DefaultBaseZIndex+1+i)
		}
	}

	if id, _ := m.ActiveWindowID(); id != 6 {
		t.Fatalf("active = %d, want 6", id)
	}
}

func TestCreate_ExplicitOptions(t *testing.T) {
	m := NewManager(Options{Defaults: WindowDefaults{Title: "Note", Width: 400, Height: 300}})
	x, y := 0, 15
	doc := int64(42)
	id := mustCreate(t, m, CreateOptions{
		X:          &x,
		Y:          &y,
		Width:      640,
		Content:    "hello",
		DocumentID: &doc,
		Maximized:  true,
	})

	w := mustWindow(t, m, id)
	if w.X != 0 || w.Y != 15 || w.Width != 640 || w.Height != 300 {
		t.Fatalf("geometry = %+v", w.Rect())
	}
	if w.Title != "Note" {
		t.Fatalf("title = %q, want configured default", w.Title)
	}
	if !w.IsMaximized {
		t.Fatalf("expected maximized window")
	}
	if w.DocumentID == nil || *w.DocumentID != 42 {
		t.Fatalf("documentId = %v, want 42", w.DocumentID)
	}
	if w.Dirty() {
		t.Fatalf("new window should start clean")
	}

	doc = 7
	if got := mustWindow(t, m, id); *got.DocumentID != 42 {
		t.Fatalf("documentId aliased caller memory: %d", *got.DocumentID)
	}
}

func TestCreate_RejectsInvalidOptionsWithoutConsumingID(t *testing.T) {
	m := newTestManager(t)

	cases := []struct {
		name string
		opts CreateOptions
		want error
	}{
		{name: "negative width", opts: CreateOptions{Width: -1}, want: ErrInvalidOperation},
		{name: "bad sidebar side", opts: CreateOptions{SidebarMode: true, SidebarSide: "top"}, want: ErrInvalidOperation},
		{name: "unknown group", opts: CreateOptions{GroupID: "group-9"}, want: ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := m.Create(tc.opts); !errors.Is(err, tc.want) {
				t.Fatalf("Create() error = %v, want %v", err, tc.want)
			}
		})
	}

	if m.Len() != 0 {
		t.Fatalf("rejected creates left %d windows", m.Len())
	}
	if id := mustCreate(t, m, CreateOptions{}); id != 1 {
		t.Fatalf("first successful id = %d, want 1", id)
	}
}

func TestBringToFront_StrictlyMonotonic(t *testing.T) {
	m := newTestManager(t)
	a := mustCreate(t, m, CreateOptions{})
	b := mustCreate(t, m, CreateOptions{})

	if err := m.SetActive(a); err != nil {
		t.Fatalf("SetActive(a): %v", err)
	}
	za := mustWindow(t, m, a).ZIndex
	if err := m.SetActive(b); err != nil {
		t.Fatalf("SetActive(b): %v", err)
	}
	zb := mustWindow(t, m, b).ZIndex
	if zb <= za {
		t.Fatalf("zIndex not monotonic: %d then %d", za, zb)
	}
	assertSingleActive(t, m)
}

func TestSetActive_RestoresMinimizedWindow(t *testing.T) {
	m := newTestManager(t)
	a := mustCreate(t, m, CreateOptions{})
	mustCreate(t, m, CreateOptions{})

	if err := m.ToggleMinimize(a); err != nil {
		t.Fatalf("ToggleMinimize: %v", err)
	}
	if err := m.SetActive(a); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	w := mustWindow(t, m, a)
	if w.IsMinimized || !w.IsActive {
		t.Fatalf("window = minimized:%v active:%v, want restored and active", w.IsMinimized, w.IsActive)
	}
	assertSingleActive(t, m)
}

func TestSetActive_NoEventWhenAlreadyFront(t *testing.T) {
	m := newTestManager(t)
	id := mustCreate(t, m, CreateOptions{})

	events := 0
	m.Subscribe(func(Event) { events++ })
	if err := m.SetActive(id); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if events != 0 {
		t.Fatalf("events = %d, want 0", events)
	}
}

func TestClose_ActivatesTopmostSurvivor(t *testing.T) {
	m := newTestManager(t)
	a := mustCreate(t, m, CreateOptions{})
	mustCreate(t, m, CreateOptions{}) // b
	c := mustCreate(t, m, CreateOptions{})
	d := mustCreate(t, m, CreateOptions{})

	// Stack bottom to top: b, c(minimized), a, d(active).
	_ = m.SetActive(c)
	_ = m.SetActive(a)
	_ = m.SetActive(d)
	_ = m.ToggleMinimize(c)
	_ = m.SetActive(d)

	if err := m.Close(d); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if id, _ := m.ActiveWindowID(); id != a {
		t.Fatalf("active after close = %d, want %d", id, a)
	}
	assertSingleActive(t, m)
}

func TestClose_LastWindowLeavesNoneActive(t *testing.T) {
	m := newTestManager(t)
	id := mustCreate(t, m, CreateOptions{})
	if err := m.Close(id); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := m.ActiveWindowID(); ok {
		t.Fatalf("expected no active window")
	}
	if next := mustCreate(t, m, CreateOptions{}); next != 2 {
		t.Fatalf("id after close = %d, want 2 (ids are never reused)", next)
	}
}

func TestClose_MissingIDIsNoOp(t *testing.T) {
	m := newTestManager(t)
	mustCreate(t, m, CreateOptions{Title: "Doc"})
	before := m.Serialize()

	events := 0
	m.Subscribe(func(Event) { events++ })

	err := m.Close(99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Close(99) error = %v, want ErrNotFound", err)
	}
	if !reflect.DeepEqual(before, m.Serialize()) {
		t.Fatalf("state changed after Close(99)")
	}
	if events != 0 {
		t.Fatalf("events = %d, want 0", events)
	}
}

func TestMutators_MissingIDReturnsNotFound(t *testing.T) {
	m := newTestManager(t)
	mustCreate(t, m, CreateOptions{})
	before := m.Serialize()

	ops := map[string]func() error{
		"SetActive":      func() error { return m.SetActive(5) },
		"ToggleMaximize": func() error { return m.ToggleMaximize(5) },
		"ToggleMinimize": func() error { return m.ToggleMinimize(5) },
		"Move":           func() error { return m.Move(5, 1, 1) },
		"Resize":         func() error { return m.Resize(5, 1, 1, 10, 10) },
		"SetTitle":       func() error { return m.SetTitle(5, "x") },
		"SetContent":     func() error { return m.SetContent(5, "x") },
		"MarkSaved":      func() error { return m.MarkSaved(5) },
		"MoveToGroup":    func() error { return m.MoveToGroup(5, DefaultGroupID) },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s error = %v, want ErrNotFound", name, err)
		}
	}
	if !reflect.DeepEqual(before, m.Serialize()) {
		t.Fatalf("state changed after missing-id calls")
	}
}

func TestToggleMinimize_HandsFocusToNextTopmost(t *testing.T) {
	m := newTestManager(t)
	a := mustCreate(t, m, CreateOptions{})
	b := mustCreate(t, m, CreateOptions{})

	if err := m.ToggleMinimize(b); err != nil {
		t.Fatalf("ToggleMinimize(b): %v", err)
	}
	if id, _ := m.ActiveWindowID(); id != a {
		t.Fatalf("active = %d, want %d", id, a)
	}

	if err := m.ToggleMinimize(a); err != nil {
		t.Fatalf("ToggleMinimize(a): %v", err)
	}
	if _, ok := m.ActiveWindowID(); ok {
		t.Fatalf("expected no active window when all are minimized")
	}
	assertSingleActive(t, m)

	if err := m.ToggleMinimize(b); err != nil {
		t.Fatalf("ToggleMinimize(b) restore: %v", err)
	}
	if id, _ := m.ActiveWindowID(); id != b {
		t.Fatalf("restored window should be active, got %d", id)
	}
	assertSingleActive(t, m)
}

func TestToggleMaximize_PreservesGeometry(t *testing.T) {
	m := newTestManager(t)
	id := mustCreate(t, m, CreateOptions{})
	before := mustWindow(t, m, id).Rect()

	_ = m.ToggleMaximize(id)
	if w := mustWindow(t, m, id); !w.IsMaximized || w.Rect() != before {
		t.Fatalf("maximize changed geometry or flag: %+v", w)
	}
	_ = m.ToggleMaximize(id)
	if w := mustWindow(t, m, id); w.IsMaximized || w.Rect() != before {
		t.Fatalf("restore changed geometry or flag: %+v", w)
	}
}

func TestResize_RejectsNonPositiveSize(t *testing.T) {
	m := newTestManager(t)
	id := mustCreate(t, m, CreateOptions{})

	if err := m.Resize(id, 0, 0, 0, 100); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("Resize error = %v, want ErrInvalidOperation", err)
	}
	if err := m.Resize(id, 10, 20, 300, 200); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	w := mustWindow(t, m, id)
	if w.X != 10 || w.Y != 20 || w.Width != 300 || w.Height != 200 {
		t.Fatalf("geometry = %+v", w.Rect())
	}
}

func TestMutators_IdempotentOnMatchingState(t *testing.T) {
	m := newTestManager(t)
	id := mustCreate(t, m, CreateOptions{Title: "Doc", Content: "body"})

	var ops []Op
	m.Subscribe(func(ev Event) { ops = append(ops, ev.Op) })

	_ = m.SetTitle(id, "Doc")
	_ = m.SetContent(id, "body")
	_ = m.MarkSaved(id)
	w := mustWindow(t, m, id)
	_ = m.Move(id, w.X, w.Y)
	_ = m.Resize(id, w.X, w.Y, w.Width, w.Height)
	_ = m.MoveToGroup(id, DefaultGroupID)

	if len(ops) != 0 {
		t.Fatalf("matching-state calls emitted %v", ops)
	}

	_ = m.SetTitle(id, "Renamed")
	_ = m.SetTitle(id, "Renamed")
	if !reflect.DeepEqual(ops, []Op{OpTitle}) {
		t.Fatalf("ops = %v, want one title event", ops)
	}
}

func TestContent_DirtyAndMarkSaved(t *testing.T) {
	m := newTestManager(t)
	id := mustCreate(t, m, CreateOptions{Content: "v1"})

	if err := m.SetContent(id, "v2"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	dirty, err := m.Dirty(id)
	if err != nil || !dirty {
		t.Fatalf("Dirty() = %v, %v; want true", dirty, err)
	}
	if err := m.MarkSaved(id); err != nil {
		t.Fatalf("MarkSaved: %v", err)
	}
	if dirty, _ := m.Dirty(id); dirty {
		t.Fatalf("window still dirty after MarkSaved")
	}
	if _, err := m.Dirty(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Dirty(99) error = %v", err)
	}
}

func TestSubscribe_EventsAndUnsubscribe(t *testing.T) {
	m := newTestManager(t)

	var got []Event
	unsubscribe := m.Subscribe(func(ev Event) {
		got = append(got, ev)
		// Listeners may read state while being notified.
		_ = m.Serialize()
	})

	id := mustCreate(t, m, CreateOptions{})
	_ = m.SetTitle(id, "Hello")
	unsubscribe()
	_ = m.Close(id)

	want := []Event{
		{Op: OpCreate, WindowID: id, GroupID: DefaultGroupID},
		{Op: OpTitle, WindowID: id, Detail: "Hello"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %+v, want %+v", got, want)
	}
}

func TestWindows_ReturnsCopies(t *testing.T) {
	m := newTestManager(t)
	id := mustCreate(t, m, CreateOptions{Title: "Doc"})

	ws := m.Windows()
	ws[0].Title = "mutated"
	if w := mustWindow(t, m, id); w.Title != "Doc" {
		t.Fatalf("Windows() exposed internal state: title = %q", w.Title)
	}
}
