// Package daemon owns the running window manager: one manager, its
// persistence gateway and the action log behind a single mutex.
package daemon

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/deskwm/internal/actionlog"
	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/persist"
	"github.com/1broseidon/deskwm/internal/tiling"
	"github.com/1broseidon/deskwm/internal/wm"
)

// ErrClosed is returned by operations on a closed service.
var ErrClosed = errors.New("service closed")

// Service serializes every command against one wm.Manager. Change
// notifications fan out to the persistence gateway and the action log
// while the mutex is held.
type Service struct {
	mu sync.Mutex

	cfg       *config.Config
	manager   *wm.Manager
	kv        persist.KV
	gateway   *persist.Gateway
	statePath string
	lock      *persist.Lock
	actions   *actionlog.Logger
	logger    *slog.Logger

	unsubscribeActions func()
	closed             bool
}

// Open locks and builds the store named by cfg, restores the saved state
// and starts persisting changes. A store already owned by another process
// fails with persist.ErrLocked. A malformed saved state is logged and the
// service starts empty.
func Open(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	path, err := StatePath(cfg)
	if err != nil {
		return nil, err
	}

	var lock *persist.Lock
	if lockPath := persist.LockPath(cfg.Persistence.Backend, path); lockPath != "" {
		if lock, err = persist.AcquireLock(lockPath); err != nil {
			return nil, err
		}
	}
	kv, err := persist.Open(cfg.Persistence.Backend, path)
	if err != nil {
		lock.Release()
		return nil, fmt.Errorf("open %s store: %w", cfg.Persistence.Backend, err)
	}
	s, err := OpenWithKV(cfg, kv, path, logger)
	if err != nil {
		lock.Release()
		return nil, err
	}
	s.lock = lock
	return s, nil
}

// OpenWithKV is Open over an existing store. The service takes ownership
// of kv and closes it on Close. path is informational and may be empty.
func OpenWithKV(cfg *config.Config, kv persist.KV, path string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	actions, err := actionlog.New(ActionLogConfig(cfg))
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("action log: %w", err)
	}

	s := &Service{
		cfg:       cfg,
		manager:   wm.NewManager(ManagerOptions(cfg)),
		kv:        kv,
		statePath: path,
		actions:   actions,
		logger:    logger,
	}
	s.gateway = persist.NewGateway(kv, persist.GatewayOptions{
		Key:      cfg.Persistence.Key,
		Debounce: time.Duration(cfg.Persistence.DebounceMS) * time.Millisecond,
		Logger:   logger,
	})

	if err := s.gateway.Load(s.manager); err != nil {
		if !errors.Is(err, wm.ErrMalformedSnapshot) {
			actions.Close()
			kv.Close()
			return nil, fmt.Errorf("load state: %w", err)
		}
		logger.Warn("saved state is malformed, starting empty", "key", s.gateway.Key(), "error", err)
	}
	s.gateway.Attach(s.manager)
	s.unsubscribeActions = s.manager.Subscribe(s.logEvent)

	logger.Info("state loaded",
		"backend", cfg.Persistence.Backend,
		"path", path,
		"windows", s.manager.Len())
	return s, nil
}

// logEvent runs inside the manager notification, so the mutex is held.
func (s *Service) logEvent(ev wm.Event) {
	var details map[string]any
	switch ev.Op {
	case wm.OpContent:
		if w, ok := s.manager.Window(ev.WindowID); ok {
			details = s.actions.ContentDetails(w.Content)
		}
	case wm.OpCreate, wm.OpMove, wm.OpResize:
		if w, ok := s.manager.Window(ev.WindowID); ok {
			details = map[string]any{"x": w.X, "y": w.Y, "width": w.Width, "height": w.Height}
			if ev.Op == wm.OpCreate {
				details["title"] = w.Title
			}
		}
	case wm.OpRestore:
		details = map[string]any{"windows": s.manager.Len()}
	}
	if ev.GroupID == "" && ev.WindowID != 0 {
		if w, ok := s.manager.Window(ev.WindowID); ok {
			ev.GroupID = w.GroupID
		}
	}
	s.actions.Event(ev, details)
}

// Do runs fn with exclusive access to the manager.
func (s *Service) Do(fn func(m *wm.Manager) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return fn(s.manager)
}

// Arrange applies the named layout to the configured viewport. An empty
// name uses the default layout.
func (s *Service) Arrange(name string) (string, config.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", config.Layout{}, ErrClosed
	}

	if name == "" {
		name = s.cfg.DefaultLayout
	}
	layout, err := s.cfg.GetLayout(name)
	if err != nil {
		return "", config.Layout{}, fmt.Errorf("%w: %v", wm.ErrNotFound, err)
	}
	vp := tiling.ApplyRegion(Viewport(s.cfg), Region(layout.TileRegion))
	if err := s.manager.Arrange(tiling.Mode(layout.Mode), vp); err != nil {
		return "", config.Layout{}, err
	}
	return name, *layout, nil
}

// Snapshot returns a point-in-time copy of the state.
func (s *Service) Snapshot() *wm.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.Serialize()
}

// Config returns the active configuration.
func (s *Service) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// StatePath returns the store location: a directory for the file backend,
// a database file for sqlite, empty for memory.
func (s *Service) StatePath() string {
	return s.statePath
}

// StateFile returns the file holding the snapshot when the store keeps one
// file per key, for change watching. Other backends return "".
func (s *Service) StateFile() string {
	fkv, ok := s.kv.(*persist.FileKV)
	if !ok {
		return ""
	}
	path, err := fkv.Path(s.gateway.Key())
	if err != nil {
		return ""
	}
	return path
}

// Reconfigure applies a new configuration. Creation defaults, cascade,
// gap, icons, layouts and the action log take effect immediately; a
// change of persistence settings needs a restart and is only logged.
func (s *Service) Reconfigure(cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if cfg.Persistence != s.cfg.Persistence {
		s.logger.Warn("persistence settings changed, restart to apply",
			"backend", cfg.Persistence.Backend,
			"key", cfg.Persistence.Key)
	}

	if cfg.GetLoggingConfig() != s.cfg.GetLoggingConfig() {
		actions, err := actionlog.New(ActionLogConfig(cfg))
		if err != nil {
			return fmt.Errorf("action log: %w", err)
		}
		if err := s.actions.Close(); err != nil {
			s.logger.Warn("close action log", "error", err)
		}
		s.actions = actions
	}

	s.manager.Configure(ManagerOptions(cfg))
	next := *cfg
	next.Persistence = s.cfg.Persistence
	s.cfg = &next
	return nil
}

// ReloadState restores the manager from the store when the stored state
// was written by someone else. It reports whether a restore happened.
func (s *Service) ReloadState() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	return s.gateway.Reload(s.manager)
}

// Resave writes the current state again if the last write failed.
func (s *Service) Resave() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.gateway.LastError() == nil {
		return nil
	}
	data, err := s.manager.Serialize().Encode()
	if err != nil {
		return err
	}
	return s.gateway.Save(data)
}

// Flush writes any debounced change now.
func (s *Service) Flush() error {
	return s.gateway.Flush()
}

// Close flushes pending writes and releases the store and action log.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.unsubscribeActions != nil {
		s.unsubscribeActions()
	}
	gwErr := s.gateway.Close()
	logErr := s.actions.Close()
	lockErr := s.lock.Release()
	return errors.Join(gwErr, logErr, lockErr)
}
