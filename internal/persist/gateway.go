package persist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/deskwm/internal/wm"
)

// DefaultKey is the key snapshots are stored under.
const DefaultKey = "windowManagerState"

// GatewayOptions configures a Gateway.
type GatewayOptions struct {
	Key string
	// Debounce delays writes until no change arrived for this long.
	// Zero writes through on every change.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Gateway persists manager snapshots to a KV. Snapshots are taken
// synchronously inside the change notification, so each write is a
// consistent point-in-time copy; only the write itself may be deferred.
type Gateway struct {
	kv       KV
	key      string
	debounce time.Duration
	logger   *slog.Logger

	mu          sync.Mutex
	timer       *time.Timer
	pending     []byte
	last        []byte
	lastErr     error
	unsubscribe func()
}

// NewGateway returns a gateway over kv.
func NewGateway(kv KV, opts GatewayOptions) *Gateway {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gateway{kv: kv, key: opts.Key, debounce: opts.Debounce, logger: logger}
}

// Key returns the storage key.
func (g *Gateway) Key() string { return g.key }

// Load restores m from the store. A missing key leaves m untouched and
// returns nil; a malformed snapshot returns an error wrapping
// wm.ErrMalformedSnapshot and also leaves m untouched.
func (g *Gateway) Load(m *wm.Manager) error {
	data, err := g.kv.Get(g.key)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			return nil
		}
		return err
	}
	if err := restoreBytes(m, data); err != nil {
		return err
	}
	g.mu.Lock()
	g.last = data
	g.mu.Unlock()
	return nil
}

// Reload restores m when the stored bytes differ from what this gateway
// last wrote or loaded. It reports whether a restore happened.
//
// A pending debounced write wins over the external change: it is written
// now and m is left as is.
func (g *Gateway) Reload(m *wm.Manager) (bool, error) {
	data, err := g.kv.Get(g.key)
	if err != nil && !errors.Is(err, ErrNotExist) {
		return false, err
	}
	missing := err != nil

	g.mu.Lock()
	if g.pending != nil {
		if bytes.Equal(data, g.pending) {
			g.mu.Unlock()
			return false, nil
		}
		if !missing {
			g.logger.Warn("store changed by another writer; keeping unsaved local state", "key", g.key)
		}
		if g.timer != nil {
			g.timer.Stop()
		}
		pending := g.pending
		g.pending = nil
		err := g.saveLocked(pending)
		if err != nil {
			// Keep it queued for the next flush or reconcile.
			g.pending = pending
		}
		g.mu.Unlock()
		return false, err
	}
	same := missing || bytes.Equal(data, g.last)
	g.mu.Unlock()
	if same {
		return false, nil
	}
	if err := restoreBytes(m, data); err != nil {
		return false, err
	}
	g.mu.Lock()
	g.last = data
	g.pending = nil
	if g.timer != nil {
		g.timer.Stop()
	}
	g.mu.Unlock()
	return true, nil
}

func restoreBytes(m *wm.Manager, data []byte) error {
	snap, err := wm.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	return m.Restore(snap)
}

// Attach subscribes the gateway to m. Every change except a restore is
// serialized and saved, immediately or after the debounce interval.
func (g *Gateway) Attach(m *wm.Manager) {
	unsubscribe := m.Subscribe(func(ev wm.Event) {
		if ev.Op == wm.OpRestore {
			return
		}
		data, err := m.Serialize().Encode()
		if err != nil {
			g.logger.Error("encode snapshot", "op", ev.Op, "error", err)
			return
		}
		g.schedule(data)
	})
	g.mu.Lock()
	prev := g.unsubscribe
	g.unsubscribe = unsubscribe
	g.mu.Unlock()
	if prev != nil {
		prev()
	}
}

func (g *Gateway) schedule(data []byte) {
	if g.debounce == 0 {
		if err := g.Save(data); err != nil {
			g.logger.Error("save snapshot", "key", g.key, "error", err)
		}
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = data
	if g.timer == nil {
		g.timer = time.AfterFunc(g.debounce, g.flushPending)
		return
	}
	g.timer.Reset(g.debounce)
}

func (g *Gateway) flushPending() {
	if err := g.Flush(); err != nil {
		g.logger.Error("save snapshot", "key", g.key, "error", err)
	}
}

// Save writes data unless it equals the last stored snapshot.
func (g *Gateway) Save(data []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saveLocked(data)
}

func (g *Gateway) saveLocked(data []byte) error {
	if bytes.Equal(data, g.last) {
		return nil
	}
	if err := g.kv.Set(g.key, data); err != nil {
		g.lastErr = err
		return fmt.Errorf("save %q: %w", g.key, err)
	}
	g.last = data
	g.lastErr = nil
	return nil
}

// Flush writes a pending debounced snapshot now.
func (g *Gateway) Flush() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
	}
	if g.pending == nil {
		return nil
	}
	data := g.pending
	g.pending = nil
	return g.saveLocked(data)
}

// Pending reports whether a debounced write has not reached the store.
func (g *Gateway) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending != nil
}

// LastError returns the error of the most recent failed write, if the
// store has not been written successfully since.
func (g *Gateway) LastError() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// Close detaches from the manager, flushes and closes the store.
func (g *Gateway) Close() error {
	g.mu.Lock()
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
	flushErr := g.Flush()
	closeErr := g.kv.Close()
	return errors.Join(flushErr, closeErr)
}
