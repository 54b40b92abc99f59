package levels_test

import (
	"context"
	"math"
	"testing"
	"time"

	"patchbay/internal/levels"
	"patchbay/internal/logging"
)

func TestMeterHoldSnapsUpAndDecays(t *testing.T) {
	meter := levels.NewMeter(10) // 10 dB/s
	start := time.Now()

	meter.Observe([]float64{-20}, start)
	if got := meter.Channels()[0]; got.Peak != -20 || got.Hold != -20 {
		t.Fatalf("unexpected initial state: %+v", got)
	}

	// Signal drops; hold decays by decay*elapsed.
	meter.Observe([]float64{-60}, start.Add(time.Second))
	got := meter.Channels()[0]
	if got.Peak != -60 {
		t.Fatalf("unexpected peak: %v", got.Peak)
	}
	if math.Abs(got.Hold-(-30)) > 1e-9 {
		t.Fatalf("expected hold -30 after 1s decay, got %v", got.Hold)
	}

	// A louder peak snaps the hold upward immediately.
	meter.Observe([]float64{-5}, start.Add(2*time.Second))
	if got := meter.Channels()[0]; got.Hold != -5 {
		t.Fatalf("expected hold to snap to -5, got %v", got.Hold)
	}
}

func TestMeterClampsToFloor(t *testing.T) {
	meter := levels.NewMeter(1000)
	start := time.Now()

	meter.Observe([]float64{-200, math.NaN()}, start)
	for i, ch := range meter.Channels() {
		if ch.Peak != levels.Floor || ch.Hold != levels.Floor {
			t.Fatalf("channel %d not clamped to floor: %+v", i, ch)
		}
	}

	meter.Observe([]float64{-20, -20}, start.Add(time.Hour))
	for i, ch := range meter.Channels() {
		if ch.Hold != -20 {
			t.Fatalf("channel %d hold below observation after long decay: %+v", i, ch)
		}
	}
}

func TestMeterResetsOnChannelCountChange(t *testing.T) {
	meter := levels.NewMeter(10)
	start := time.Now()

	meter.Observe([]float64{-10, -10}, start)
	meter.Observe([]float64{-30}, start.Add(time.Second))

	got := meter.Channels()
	if len(got) != 1 {
		t.Fatalf("expected one channel, got %d", len(got))
	}
	if got[0].Hold != -30 {
		t.Fatalf("expected fresh hold after reset, got %+v", got[0])
	}
}

type fakeSource struct {
	capture  []float64
	playback []float64
}

func (f *fakeSource) CaptureLevels(context.Context) ([]float64, error)  { return f.capture, nil }
func (f *fakeSource) PlaybackLevels(context.Context) ([]float64, error) { return f.playback, nil }

func TestPollerSnapshot(t *testing.T) {
	source := &fakeSource{capture: []float64{-12, -14}, playback: []float64{-6}}
	poller := levels.NewPoller(source, logging.NewNop(), levels.Options{
		Interval: 5 * time.Millisecond,
		Decay:    10,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := poller.Snapshot()
		if len(snap.Capture) == 2 && len(snap.Playback) == 1 {
			if snap.Capture[0].Peak != -12 || snap.Playback[0].Peak != -6 {
				t.Fatalf("unexpected snapshot: %+v", snap)
			}
			if snap.UpdatedAt.IsZero() {
				t.Fatal("expected snapshot timestamp")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("poller never produced a snapshot: %+v", snap)
		}
		time.Sleep(time.Millisecond)
	}
}
