package wm

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func populatedManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(Options{Icons: []Icon{{ID: "notes", Glyph: "N", Label: "Notes", X: 20, Y: 20}}})
	g, _ := m.CreateGroup("Work", "#3b82f6")
	doc := int64(9)
	a := mustCreate(t, m, CreateOptions{Title: "A", Content: "alpha", DocumentID: &doc})
	b := mustCreate(t, m, CreateOptions{Title: "B", GroupID: g})
	mustCreate(t, m, CreateOptions{Title: "Side", SidebarMode: true, SidebarSide: SidebarRight})
	_ = m.SetContent(a, "alpha v2")
	_ = m.ToggleMinimize(b)
	_ = m.SetActive(a)
	_, _ = m.AddIcon(Icon{Label: "Trash"})
	return m
}

func TestSerializeRestore_RoundTrip(t *testing.T) {
	src := populatedManager(t)
	snap := src.Serialize()

	data, err := snap.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}

	dst := NewManager(Options{Icons: []Icon{{ID: "notes", Glyph: "N", Label: "Notes", X: 20, Y: 20}}})
	if err := dst.Restore(decoded); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := dst.Serialize(); !reflect.DeepEqual(got, snap) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, snap)
	}

	// Counters survive: the next ids continue past the restored ones.
	if id := mustCreate(t, dst, CreateOptions{}); id != 4 {
		t.Fatalf("next window id = %d, want 4", id)
	}
	if g, _ := dst.CreateGroup("More", ""); g != "group-2" {
		t.Fatalf("next group id = %q, want group-2", g)
	}
	if w := mustWindow(t, dst, 4); w.ZIndex != snap.NextZIndex+1 {
		t.Fatalf("next zIndex = %d, want %d", w.ZIndex, snap.NextZIndex+1)
	}
	if dirty, _ := dst.Dirty(1); !dirty {
		t.Fatalf("dirty flag lost in round trip")
	}
}

func TestRestore_MalformedLeavesStateUntouched(t *testing.T) {
	cases := []struct {
		name string
		snap *Snapshot
	}{
		{name: "nil", snap: nil},
		{name: "zero window id", snap: &Snapshot{Windows: []Window{{ID: 0}}}},
		{name: "duplicate window id", snap: &Snapshot{Windows: []Window{{ID: 1}, {ID: 1}}}},
		{name: "negative size", snap: &Snapshot{Windows: []Window{{ID: 1, Width: -5}}}},
		{name: "bad sidebar side", snap: &Snapshot{Windows: []Window{{ID: 1, SidebarSide: "up"}}}},
		{name: "empty group id", snap: &Snapshot{Groups: []Group{{Name: "x"}}}},
		{name: "duplicate group id", snap: &Snapshot{Groups: []Group{{ID: "group-1"}, {ID: "group-1"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := populatedManager(t)
			before := m.Serialize()
			events := 0
			m.Subscribe(func(Event) { events++ })

			err := m.Restore(tc.snap)
			if !errors.Is(err, ErrMalformedSnapshot) {
				t.Fatalf("Restore error = %v, want ErrMalformedSnapshot", err)
			}
			if !reflect.DeepEqual(before, m.Serialize()) {
				t.Fatalf("state changed after malformed restore")
			}
			if events != 0 {
				t.Fatalf("events = %d, want 0", events)
			}
		})
	}
}

func TestRestore_NormalizesMissingFields(t *testing.T) {
	m := newTestManager(t)
	data := `{
		"groups": [{"id": "group-7", "name": "Work", "color": "#fff"}],
		"windows": [
			{"id": 3, "title": "A", "x": 1, "y": 2, "zIndex": 150, "content": "c", "groupId": "group-7"},
			{"id": 8, "title": "B", "width": 10, "height": 10, "zIndex": 120, "groupId": "gone"},
			{"id": 5, "title": "C", "width": 10, "height": 10, "zIndex": 190, "isMinimized": true}
		]
	}`
	snap, err := DecodeSnapshot([]byte(data))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if err := m.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	groups := m.Groups()
	if len(groups) != 2 || groups[0].ID != DefaultGroupID || groups[1].ID != "group-7" {
		t.Fatalf("groups = %+v, want default inserted first", groups)
	}

	a := mustWindow(t, m, 3)
	if a.Width != 900 || a.Height != 600 {
		t.Fatalf("zero size not defaulted: %dx%d", a.Width, a.Height)
	}
	if a.Dirty() {
		t.Fatalf("missing savedContent should load clean")
	}
	if b := mustWindow(t, m, 8); b.GroupID != DefaultGroupID {
		t.Fatalf("unknown group not reset: %q", b.GroupID)
	}
	if c := mustWindow(t, m, 5); c.GroupID != DefaultGroupID {
		t.Fatalf("missing group not defaulted: %q", c.GroupID)
	}

	// No saved active id: topmost non-minimized wins.
	if id, _ := m.ActiveWindowID(); id != 3 {
		t.Fatalf("active = %d, want 3", id)
	}
	assertSingleActive(t, m)

	next := m.Serialize()
	if next.NextWindowID != 9 || next.NextGroupID != 8 || next.NextZIndex != 190 {
		t.Fatalf("counters = %d/%d/%d, want 9/8/190", next.NextWindowID, next.NextGroupID, next.NextZIndex)
	}
}

func TestRestore_SavedActiveMinimizedFallsBack(t *testing.T) {
	m := newTestManager(t)
	active := 2
	snap := &Snapshot{
		NextWindowID:   3,
		NextZIndex:     105,
		NextGroupID:    1,
		ActiveWindowID: &active,
		Windows: []Window{
			{ID: 1, Width: 10, Height: 10, ZIndex: 101, IsActive: true},
			{ID: 2, Width: 10, Height: 10, ZIndex: 105, IsMinimized: true, IsActive: true},
		},
	}
	if err := m.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if id, _ := m.ActiveWindowID(); id != 1 {
		t.Fatalf("active = %d, want 1", id)
	}
	assertSingleActive(t, m)
}

func TestRestore_EmitsRestoreEvent(t *testing.T) {
	m := newTestManager(t)
	var ops []Op
	m.Subscribe(func(ev Event) { ops = append(ops, ev.Op) })

	if err := m.Restore(&Snapshot{}); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !reflect.DeepEqual(ops, []Op{OpRestore}) {
		t.Fatalf("ops = %v", ops)
	}
}

func TestDecodeSnapshot_Malformed(t *testing.T) {
	for _, in := range []string{"", "null", "{", `{"windows": "nope"}`} {
		_, err := DecodeSnapshot([]byte(in))
		if !errors.Is(err, ErrMalformedSnapshot) {
			t.Fatalf("DecodeSnapshot(%q) error = %v, want ErrMalformedSnapshot", in, err)
		}
	}
}

func TestSnapshotEncode_FieldNames(t *testing.T) {
	m := newTestManager(t)
	mustCreate(t, m, CreateOptions{})
	data, err := m.Serialize().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, key := range []string{`"nextWindowId":2`, `"nextZIndex":101`, `"nextGroupId":1`, `"activeWindowId":1`, `"isMaximized":false`, `"groupId":"default"`, `"documentId":null`, `"sidebarMode":false`, `"sidebarSide":""`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("encoded snapshot missing %s: %s", key, data)
		}
	}
}
