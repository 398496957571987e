package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"longbox/internal/api"
	"longbox/internal/config"
	"longbox/internal/library"
	"longbox/internal/logging"
	"longbox/internal/scanner"
)

// Daemon coordinates the longbox server process and enforces single-instance
// execution. Startup runs the library scan to completion before the REST
// adapter begins accepting traffic.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *library.Store
	scanner *scanner.Scanner
	server  *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	DBPath       string
	LockFilePath string
	Library      api.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *library.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	svc := api.NewService(cfg, store, logger)
	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		scanner:  scanner.New(cfg, store, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.server = newAPIServer(cfg, svc, logger)
	return d, nil
}

// Start acquires the daemon lock, reconciles the library, and brings up the
// REST adapter.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another longbox daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	// The scan must finish before requests are served; it is the only
	// writer of series/issue rows.
	if _, err := d.scanner.Scan(d.ctx); err != nil {
		d.logger.Warn("startup scan incomplete", logging.Error(err))
	}

	if err := d.server.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("longbox daemon started",
		logging.String("lock", d.lockPath),
		logging.String("library", d.cfg.Paths.LibraryDir))
	return nil
}

// Stop shuts down the REST adapter and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("longbox daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Addr returns the REST adapter's listen address once started.
func (d *Daemon) Addr() string {
	return d.server.addr()
}

// Status reports daemon runtime information.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		DBPath:       d.store.Path(),
		LockFilePath: d.lockPath,
	}
	if libStatus, err := d.server.service.Status(ctx); err == nil {
		status.Library = libStatus
	}
	return status
}
