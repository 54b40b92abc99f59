package routing

import (
	"math"
	"sort"

	"patchbay/internal/dsp"
)

// MixerName is the canonical mixer the signal-flow graph is mapped onto. The
// rest of the engine config may define any number of other mixers; patchbay
// only ever rewrites this one.
const MixerName = "routing"

type sourceKey struct {
	dest    int
	channel int
}

// Normalize reduces a raw mixer to canonical form against the given device
// channel counts:
//
//   - mapping entries whose dest is outside [0, outChannels) are dropped, as
//     are sources whose channel is outside [0, inChannels)
//   - a non-finite gain becomes 0
//   - duplicate (dest, channel) pairs keep the last occurrence, matching
//     most-recent-edit-wins for data assembled by successive edits
//   - dest entries left without sources are dropped entirely
//   - output is sorted ascending by dest, then by source channel
//
// The returned channel counts are always the passed-in values; counts embedded
// in the input mixer are never trusted.
func Normalize(mixer dsp.Mixer, inChannels, outChannels int) dsp.Mixer {
	sources := make(map[sourceKey]dsp.MixerSource)
	dests := make(map[int][]int)

	for _, entry := range mixer.Mapping {
		if entry.Dest < 0 || entry.Dest >= outChannels {
			continue
		}
		for _, src := range entry.Sources {
			if src.Channel < 0 || src.Channel >= inChannels {
				continue
			}
			if math.IsNaN(src.Gain) || math.IsInf(src.Gain, 0) {
				src.Gain = 0
			}
			key := sourceKey{dest: entry.Dest, channel: src.Channel}
			if _, seen := sources[key]; !seen {
				dests[entry.Dest] = append(dests[entry.Dest], src.Channel)
			}
			sources[key] = src
		}
	}

	mapping := make([]dsp.MixerMapping, 0, len(dests))
	order := make([]int, 0, len(dests))
	for dest := range dests {
		order = append(order, dest)
	}
	sort.Ints(order)

	for _, dest := range order {
		channels := dests[dest]
		sort.Ints(channels)
		entry := dsp.MixerMapping{Dest: dest, Sources: make([]dsp.MixerSource, 0, len(channels))}
		for _, channel := range channels {
			entry.Sources = append(entry.Sources, sources[sourceKey{dest: dest, channel: channel}])
		}
		mapping = append(mapping, entry)
	}

	return dsp.Mixer{
		Channels: dsp.MixerChannels{In: inChannels, Out: outChannels},
		Mapping:  mapping,
	}
}

// PatchConfig returns a copy of cfg with mixers[MixerName] replaced by the
// normalized mixer. Channel counts come from the configured devices; every
// other mixer entry is preserved unchanged.
func PatchConfig(cfg dsp.Config, mixer dsp.Mixer) dsp.Config {
	out := cfg.Clone()
	if out.Mixers == nil {
		out.Mixers = make(map[string]dsp.Mixer, 1)
	}
	out.Mixers[MixerName] = Normalize(mixer, cfg.Devices.Capture.Channels, cfg.Devices.Playback.Channels)
	return out
}

// EnsureRoutingStep returns a copy of cfg whose pipeline contains a routing
// mixer step, appending one to the end only when absent. Existing steps are
// never reordered or removed, and a second call is a no-op.
func EnsureRoutingStep(cfg dsp.Config) dsp.Config {
	out := cfg.Clone()
	if HasRoutingStep(out) {
		return out
	}
	out.Pipeline = append(out.Pipeline, dsp.MixerStep(MixerName))
	return out
}

// HasRoutingStep reports whether the pipeline already runs the routing mixer.
func HasRoutingStep(cfg dsp.Config) bool {
	for _, step := range cfg.Pipeline {
		if step.IsMixer(MixerName) {
			return true
		}
	}
	return false
}
