package levels

import (
	"math"
	"time"
)

// Floor is the level reported for silent or unobserved channels, in dB.
const Floor = -150.0

// Channel is the metering state of one channel: the latest instantaneous peak
// and the decaying held peak, both in dB.
type Channel struct {
	Peak float64 `json:"peak"`
	Hold float64 `json:"hold"`
}

// Meter tracks peak-hold state for one side of the engine. It is not safe for
// concurrent use; the poller serializes access.
type Meter struct {
	decay    float64
	channels []Channel
	last     time.Time
}

// NewMeter creates a meter with the given hold decay in dB per second.
func NewMeter(decay float64) *Meter {
	return &Meter{decay: decay}
}

// Observe records one poll result. Held peaks decay linearly with the time
// elapsed since the previous observation and snap upward when the new peak
// exceeds them. A channel-count change resets the meter.
func (m *Meter) Observe(peaks []float64, now time.Time) {
	if len(peaks) != len(m.channels) {
		m.channels = make([]Channel, len(peaks))
		for i := range m.channels {
			m.channels[i] = Channel{Peak: Floor, Hold: Floor}
		}
		m.last = now
	}

	elapsed := now.Sub(m.last).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	m.last = now

	for i, peak := range peaks {
		if math.IsNaN(peak) || math.IsInf(peak, 0) {
			peak = Floor
		}
		peak = math.Max(peak, Floor)

		hold := m.channels[i].Hold - m.decay*elapsed
		if peak > hold {
			hold = peak
		}
		m.channels[i] = Channel{Peak: peak, Hold: math.Max(hold, Floor)}
	}
}

// Channels returns a copy of the per-channel state.
func (m *Meter) Channels() []Channel {
	out := make([]Channel, len(m.channels))
	copy(out, m.channels)
	return out
}
