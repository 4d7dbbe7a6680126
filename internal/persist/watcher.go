package persist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the bursts of events an editor or an
// atomic rename produces.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watcher calls a function when a watched file is written, created or
// replaced. Parent directories are watched so atomic renames are seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	targets map[string]func()
	timers  map[string]*time.Timer
	gens    map[string]uint64 // bumped on every event; stale timers see a newer value
	dirs    map[string]bool
	closed  bool
}

// NewWatcher creates a watcher. A zero debounce uses DefaultWatchDebounce.
func NewWatcher(debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		fs:       fw,
		debounce: debounce,
		logger:   logger,
		targets:  make(map[string]func()),
		timers:   make(map[string]*time.Timer),
		gens:     make(map[string]uint64),
		dirs:     make(map[string]bool),
	}, nil
}

// Watch registers fn for path. The file does not need to exist yet.
func (w *Watcher) Watch(path string, fn func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %q: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.targets[abs] = fn
	return nil
}

// Run dispatches events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.targets[path]; !ok || w.closed {
		return
	}
	w.gens[path]++
	gen := w.gens[path]
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() { w.fire(path, gen) })
}

// fire runs the callback for path unless a later event superseded gen.
func (w *Watcher) fire(path string, gen uint64) {
	w.mu.Lock()
	fn, ok := w.targets[path]
	if !ok || w.closed || w.gens[path] != gen {
		w.mu.Unlock()
		return
	}
	delete(w.timers, path)
	w.mu.Unlock()
	fn()
}

// Close stops the watcher and pending callbacks.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	return w.fs.Close()
}
