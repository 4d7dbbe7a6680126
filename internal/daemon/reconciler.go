package daemon

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// DefaultReconcileInterval is used when ReconcilerConfig.Interval is unset.
const DefaultReconcileInterval = 10 * time.Second

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks for drift between the service and its
// store: state written by another process is picked up, and a write that
// failed earlier is retried. It covers stores that file watching cannot
// observe, such as SQLite.
type Reconciler struct {
	interval time.Duration
	svc      *Service
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, svc *Service) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Reconciler{
		interval: interval,
		svc:      svc,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	if err := r.svc.Resave(); err != nil {
		r.logger.Warn("reconciler: retrying failed save", "error", err)
		return
	}

	reloaded, err := r.svc.ReloadState()
	if err != nil {
		r.logger.Error("reconciler: failed to reload state", "error", err)
		return
	}
	if reloaded {
		r.logger.Info("reconciler: picked up external state change",
			"windows", len(r.svc.Snapshot().Windows))
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
