package levels

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"patchbay/internal/logging"
)

// Source is the slice of the engine transport the poller needs.
type Source interface {
	CaptureLevels(ctx context.Context) ([]float64, error)
	PlaybackLevels(ctx context.Context) ([]float64, error)
}

// Options describes poller construction parameters.
type Options struct {
	Interval time.Duration
	// Decay is the peak-hold decay in dB per second.
	Decay float64
}

// Snapshot is a point-in-time view of both meters.
type Snapshot struct {
	Capture   []Channel `json:"capture"`
	Playback  []Channel `json:"playback"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Poller periodically queries the source and feeds the meters.
type Poller struct {
	source   Source
	logger   *slog.Logger
	interval time.Duration

	mu       sync.Mutex
	capture  *Meter
	playback *Meter
	updated  time.Time
}

// NewPoller constructs a poller; Run starts it.
func NewPoller(source Source, logger *slog.Logger, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = 100 * time.Millisecond
	}
	if opts.Decay <= 0 {
		opts.Decay = 11
	}
	return &Poller{
		source:   source,
		logger:   logging.NewComponentLogger(logger, "levels"),
		interval: opts.Interval,
		capture:  NewMeter(opts.Decay),
		playback: NewMeter(opts.Decay),
	}
}

// Run polls until the context is canceled. Poll failures are logged at debug
// level and leave the last snapshot in place; a disconnected engine is an
// expected steady state, not an error.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	capture, err := p.source.CaptureLevels(ctx)
	if err != nil {
		p.logger.Debug("capture level poll failed", logging.Error(err))
		return
	}
	playback, err := p.source.PlaybackLevels(ctx)
	if err != nil {
		p.logger.Debug("playback level poll failed", logging.Error(err))
		return
	}

	now := time.Now()
	p.mu.Lock()
	p.capture.Observe(capture, now)
	p.playback.Observe(playback, now)
	p.updated = now
	p.mu.Unlock()
}

// Snapshot returns the current meter state.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Capture:   p.capture.Channels(),
		Playback:  p.playback.Channels(),
		UpdatedAt: p.updated,
	}
}
