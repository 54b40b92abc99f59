package dsp

import (
	"encoding/json"
	"math"
)

// InvalidIndex marks a mixer index that could not be decoded as a channel
// number. It sorts below every valid index, so normalization drops it through
// the ordinary range check.
const InvalidIndex = -1

// MixerChannels declares a mixer's input and output channel counts.
type MixerChannels struct {
	In  int `json:"in"`
	Out int `json:"out"`
}

// MixerSource feeds one input channel into a destination, with gain in dB and
// optional polarity inversion and mute. The optional flags serialize only when
// true.
type MixerSource struct {
	Channel  int     `json:"channel"`
	Gain     float64 `json:"gain"`
	Inverted bool    `json:"inverted,omitempty"`
	Mute     bool    `json:"mute,omitempty"`
}

// MixerMapping collects the sources feeding one output channel.
type MixerMapping struct {
	Dest    int           `json:"dest"`
	Sources []MixerSource `json:"sources"`
}

// Mixer routes input channels to output channels through a gain matrix.
type Mixer struct {
	Channels MixerChannels  `json:"channels"`
	Mapping  []MixerMapping `json:"mapping"`
}

// Clone returns a deep copy of the mixer.
func (m Mixer) Clone() Mixer {
	out := m
	if m.Mapping != nil {
		out.Mapping = make([]MixerMapping, len(m.Mapping))
		for i, entry := range m.Mapping {
			cp := entry
			if entry.Sources != nil {
				cp.Sources = make([]MixerSource, len(entry.Sources))
				copy(cp.Sources, entry.Sources)
			}
			out.Mapping[i] = cp
		}
	}
	return out
}

// UnmarshalJSON decodes a source leniently: a missing, fractional, or
// non-finite channel becomes InvalidIndex, and a missing or non-finite gain
// becomes 0.
func (s *MixerSource) UnmarshalJSON(data []byte) error {
	var raw struct {
		Channel  *float64 `json:"channel"`
		Gain     *float64 `json:"gain"`
		Inverted bool     `json:"inverted"`
		Mute     bool     `json:"mute"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Channel = decodeIndex(raw.Channel)
	s.Gain = decodeGain(raw.Gain)
	s.Inverted = raw.Inverted
	s.Mute = raw.Mute
	return nil
}

// UnmarshalJSON decodes a mapping entry leniently; a malformed dest becomes
// InvalidIndex.
func (m *MixerMapping) UnmarshalJSON(data []byte) error {
	var raw struct {
		Dest    *float64      `json:"dest"`
		Sources []MixerSource `json:"sources"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Dest = decodeIndex(raw.Dest)
	m.Sources = raw.Sources
	return nil
}

func decodeIndex(v *float64) int {
	if v == nil {
		return InvalidIndex
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return InvalidIndex
	}
	return int(f)
}

func decodeGain(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}
