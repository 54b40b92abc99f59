package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"patchbay/internal/config"
	"patchbay/internal/dsp"
	"patchbay/internal/engine"
	"patchbay/internal/flow"
	"patchbay/internal/levels"
	"patchbay/internal/logging"
	"patchbay/internal/routing"
)

// Daemon owns the engine connection and the background services around it.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	client *engine.Client
	poller *levels.Poller

	lockPath string
	lock     *flock.Flock
	monitor  *hotplugMonitor

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu             sync.Mutex
	lastError      string
	connectedSince time.Time
}

// Status represents daemon runtime information.
type Status struct {
	Running         bool
	PID             int
	EngineAddress   string
	EngineConnected bool
	EngineVersion   string
	EngineState     string
	ConnectedSince  time.Time
	LastError       string
	LockPath        string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	client := engine.FromConfig(cfg)
	lockPath := filepath.Join(cfg.Paths.StateDir, "patchbayd.lock")

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		client:   client,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.poller = levels.NewPoller(client, logger, levels.Options{
		Interval: time.Duration(cfg.Levels.PollIntervalMS) * time.Millisecond,
		Decay:    cfg.Levels.PeakHoldDecay,
	})
	if cfg.Monitor.Enabled {
		d.monitor = newHotplugMonitor(logger, d.handleDeviceEvent)
	}
	return d, nil
}

// Start acquires the daemon lock and launches the background services.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another patchbay daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.supervise(runCtx)
	}()

	if d.cfg.Levels.Enabled {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.poller.Run(runCtx)
		}()
	}

	if d.monitor != nil {
		d.monitor.Start(runCtx)
	}

	d.running.Store(true)
	d.logger.Info("patchbay daemon started",
		logging.String("engine", d.cfg.Engine.Address),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.monitor != nil {
		d.monitor.Stop()
	}
	d.wg.Wait()
	_ = d.client.Close()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("patchbay daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// supervise keeps the engine connection alive, retrying on the configured
// interval whenever it drops.
func (d *Daemon) supervise(ctx context.Context) {
	retry := time.Duration(d.cfg.Engine.ReconnectInterval) * time.Second

	for {
		if !d.client.IsConnected() {
			if err := d.client.Connect(ctx); err != nil {
				d.setLastError(err)
				d.logger.Debug("engine connect failed",
					logging.String("address", d.cfg.Engine.Address),
					logging.Error(err))
			} else {
				d.markConnected()
				version, err := d.client.Version(ctx)
				if err != nil {
					version = "unknown"
				}
				d.logger.Info("connected to engine",
					logging.String(logging.FieldEventType, "engine_connected"),
					logging.String("address", d.cfg.Engine.Address),
					logging.String("version", version))
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}
	}
}

func (d *Daemon) setLastError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastError = err.Error()
}

func (d *Daemon) markConnected() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastError = ""
	d.connectedSince = time.Now()
}

func (d *Daemon) handleDeviceEvent(action, device string) {
	d.logger.Info("sound device event",
		logging.String(logging.FieldEventType, "sound_device_"+action),
		logging.String(logging.FieldDevice, device))
}

// Status reports the daemon and engine state. Engine queries are best-effort;
// a disconnected engine yields empty version/state rather than an error.
func (d *Daemon) Status(ctx context.Context) Status {
	d.mu.Lock()
	status := Status{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		EngineAddress:  d.cfg.Engine.Address,
		ConnectedSince: d.connectedSince,
		LastError:      d.lastError,
		LockPath:       d.lockPath,
	}
	d.mu.Unlock()

	if d.client.IsConnected() {
		status.EngineConnected = true
		if version, err := d.client.Version(ctx); err == nil {
			status.EngineVersion = version
		}
		if state, err := d.client.State(ctx); err == nil {
			status.EngineState = state
		}
	}
	return status
}

// Levels returns the current metering snapshot.
func (d *Daemon) Levels() levels.Snapshot {
	return d.poller.Snapshot()
}

// GetConfig fetches the engine's active configuration.
func (d *Daemon) GetConfig(ctx context.Context) (dsp.Config, error) {
	return d.client.GetConfig(ctx)
}

// ApplyConfig replaces the engine's configuration.
func (d *Daemon) ApplyConfig(ctx context.Context, cfg dsp.Config) error {
	if err := d.client.SetConfig(ctx, cfg); err != nil {
		d.setLastError(err)
		return err
	}
	d.logger.Info("engine config replaced",
		logging.String(logging.FieldEventType, "config_applied"))
	return nil
}

// ApplyFlow synthesizes the model against the engine's current configuration
// and pushes the result. With activate set, a missing routing mixer step is
// appended before pushing; otherwise the synthesized config is applied as-is
// and representability is left to the caller to inspect.
func (d *Daemon) ApplyFlow(ctx context.Context, model flow.Model, activate bool) (flow.Result, error) {
	current, err := d.client.GetConfig(ctx)
	if err != nil {
		d.setLastError(err)
		return flow.Result{}, fmt.Errorf("fetch engine config: %w", err)
	}

	if activate {
		current = routing.EnsureRoutingStep(current)
	}
	result := flow.Synthesize(current, model)

	if err := d.client.SetConfig(ctx, result.Config); err != nil {
		d.setLastError(err)
		return result, fmt.Errorf("push synthesized config: %w", err)
	}

	d.logger.Info("signal flow applied",
		logging.String(logging.FieldEventType, "flow_applied"),
		logging.Bool("representable", result.Representable),
		logging.Int("warnings", len(result.Warnings)))
	return result, nil
}

// Reload asks the engine to re-apply its configuration.
func (d *Daemon) Reload(ctx context.Context) error {
	if err := d.client.Reload(ctx); err != nil {
		d.setLastError(err)
		return err
	}
	return nil
}

// LogPath returns the daemon log file location.
func (d *Daemon) LogPath() string {
	return d.cfg.LogFilePath()
}
