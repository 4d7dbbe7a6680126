package persist

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatcher_FiresOnWriteAndRename(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "state.json")

	w, err := NewWatcher(20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	fired := make(chan struct{}, 4)
	if err := w.Watch(target, func() { fired <- struct{}{} }); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	select {
	case <-fired:
		t.Fatalf("callback fired for an unrelated file")
	case <-time.After(150 * time.Millisecond):
	}

	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	if err := kv.Set("state", []byte("{}")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("callback did not fire after atomic write")
	}
}

func TestWatcher_SupersededTimerDoesNotFire(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "state.json")

	w, err := NewWatcher(30*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	var calls atomic.Int32
	if err := w.Watch(target, func() { calls.Add(1) }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	ev := fsnotify.Event{Name: target, Op: fsnotify.Write}
	w.handle(ev)
	w.handle(ev)

	// A timer from the first event that was already waiting on the lock
	// when the second event arrived.
	w.fire(filepath.Clean(target), 1)
	if got := calls.Load(); got != 0 {
		t.Fatalf("calls after stale fire = %d, want 0", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(120 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestWatcher_NoCallbackAfterClose(t *testing.T) {
	target := filepath.Join(t.TempDir(), "state.json")

	w, err := NewWatcher(time.Hour, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	var calls atomic.Int32
	if err := w.Watch(target, func() { calls.Add(1) }); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	w.handle(fsnotify.Event{Name: target, Op: fsnotify.Write})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	w.fire(filepath.Clean(target), 1)
	if got := calls.Load(); got != 0 {
		t.Fatalf("calls after Close = %d, want 0", got)
	}
}
