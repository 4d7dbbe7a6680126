package wm

import (
	"errors"
	"testing"

	"github.com/1broseidon/deskwm/internal/tiling"
)

func TestArrangeCascade_SkipsMinimized(t *testing.T) {
	m := newTestManager(t)
	a := mustCreate(t, m, CreateOptions{Title: "A"})
	b := mustCreate(t, m, CreateOptions{Title: "B"})
	c := mustCreate(t, m, CreateOptions{Title: "C"})

	if err := m.ToggleMinimize(b); err != nil {
		t.Fatalf("ToggleMinimize: %v", err)
	}
	bBefore := mustWindow(t, m, b)
	_ = m.ToggleMaximize(c)

	if err := m.ArrangeCascade(); err != nil {
		t.Fatalf("ArrangeCascade: %v", err)
	}

	if got, want := mustWindow(t, m, a).Rect(), (tiling.Rect{X: 50, Y: 80, Width: 800, Height: 500}); got != want {
		t.Fatalf("A = %+v, want %+v", got, want)
	}
	cw := mustWindow(t, m, c)
	if got, want := cw.Rect(), (tiling.Rect{X: 80, Y: 110, Width: 800, Height: 500}); got != want {
		t.Fatalf("C = %+v, want %+v", got, want)
	}
	if cw.IsMaximized {
		t.Fatalf("arrangement should clear isMaximized")
	}
	if bAfter := mustWindow(t, m, b); bAfter.Rect() != bBefore.Rect() {
		t.Fatalf("minimized window moved: %+v -> %+v", bBefore.Rect(), bAfter.Rect())
	}
}

func TestArrangeGrid_FiveWindows(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 5; i++ {
		mustCreate(t, m, CreateOptions{})
	}

	if err := m.ArrangeGrid(tiling.Rect{Width: 1200, Height: 800}); err != nil {
		t.Fatalf("ArrangeGrid: %v", err)
	}
	ws := m.Windows()
	if got, want := ws[3].Rect(), (tiling.Rect{X: 0, Y: 400, Width: 400, Height: 400}); got != want {
		t.Fatalf("window index 3 = %+v, want %+v", got, want)
	}
	if got, want := ws[4].Rect(), (tiling.Rect{X: 400, Y: 400, Width: 400, Height: 400}); got != want {
		t.Fatalf("window index 4 = %+v, want %+v", got, want)
	}
}

func TestArrangeHorizontalAndVertical(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 3; i++ {
		mustCreate(t, m, CreateOptions{})
	}
	sidebar := mustCreate(t, m, CreateOptions{SidebarMode: true, SidebarSide: SidebarLeft})
	sidebarBefore := mustWindow(t, m, sidebar).Rect()

	vp := tiling.Rect{Width: 1000, Height: 600}
	if err := m.ArrangeHorizontal(vp); err != nil {
		t.Fatalf("ArrangeHorizontal: %v", err)
	}
	ws := m.Windows()
	for i := 0; i < 3; i++ {
		want := tiling.Rect{X: i * 333, Y: 0, Width: 333, Height: 600}
		if ws[i].Rect() != want {
			t.Fatalf("horizontal window %d = %+v, want %+v", i, ws[i].Rect(), want)
		}
	}

	if err := m.ArrangeVertical(vp); err != nil {
		t.Fatalf("ArrangeVertical: %v", err)
	}
	ws = m.Windows()
	for i := 0; i < 3; i++ {
		want := tiling.Rect{X: 0, Y: i * 200, Width: 1000, Height: 200}
		if ws[i].Rect() != want {
			t.Fatalf("vertical window %d = %+v, want %+v", i, ws[i].Rect(), want)
		}
	}

	if got := mustWindow(t, m, sidebar).Rect(); got != sidebarBefore {
		t.Fatalf("sidebar window moved to %+v", got)
	}
}

func TestArrange_NoFloatingWindowsIsNoOp(t *testing.T) {
	m := newTestManager(t)
	id := mustCreate(t, m, CreateOptions{})
	_ = m.ToggleMinimize(id)

	events := 0
	m.Subscribe(func(Event) { events++ })
	if err := m.ArrangeGrid(tiling.Rect{Width: 100, Height: 100}); err != nil {
		t.Fatalf("ArrangeGrid: %v", err)
	}
	if events != 0 || m.CanUndoArrange() {
		t.Fatalf("empty arrangement should not emit or record undo")
	}
}

func TestArrange_Errors(t *testing.T) {
	m := newTestManager(t)
	mustCreate(t, m, CreateOptions{})
	mustCreate(t, m, CreateOptions{})
	before := m.Serialize()

	if err := m.Arrange(tiling.Mode("spiral"), tiling.Rect{Width: 100, Height: 100}); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("unknown mode error = %v", err)
	}
	if err := m.ArrangeGrid(tiling.Rect{Width: 1, Height: 1}); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("tiny viewport error = %v", err)
	}
	after := m.Serialize()
	for i := range before.Windows {
		if before.Windows[i].Rect() != after.Windows[i].Rect() {
			t.Fatalf("failed arrangement moved window %d", before.Windows[i].ID)
		}
	}
}

func TestUndoArrange_RestoresPreviousGeometry(t *testing.T) {
	m := newTestManager(t)
	a := mustCreate(t, m, CreateOptions{})
	b := mustCreate(t, m, CreateOptions{})
	_ = m.ToggleMaximize(b)
	aBefore := mustWindow(t, m, a).Rect()
	bBefore := mustWindow(t, m, b).Rect()

	if err := m.UndoArrange(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("undo without arrangement error = %v", err)
	}
	if err := m.ArrangeGrid(tiling.Rect{Width: 800, Height: 600}); err != nil {
		t.Fatalf("ArrangeGrid: %v", err)
	}
	if err := m.UndoArrange(); err != nil {
		t.Fatalf("UndoArrange: %v", err)
	}

	if got := mustWindow(t, m, a).Rect(); got != aBefore {
		t.Fatalf("a = %+v, want %+v", got, aBefore)
	}
	bw := mustWindow(t, m, b)
	if bw.Rect() != bBefore || !bw.IsMaximized {
		t.Fatalf("b = %+v maximized=%v, want %+v maximized", bw.Rect(), bw.IsMaximized, bBefore)
	}
	if m.CanUndoArrange() {
		t.Fatalf("undo should be consumed")
	}
}
