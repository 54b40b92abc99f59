package dsp

// StepType discriminates pipeline step kinds.
type StepType string

const (
	// StepMixer runs a named mixer across all channels.
	StepMixer StepType = "Mixer"
	// StepFilter runs a named filter on one channel.
	StepFilter StepType = "Filter"
)

// Device describes one side of the engine's audio interface.
type Device struct {
	Type     string `json:"type"`
	Channels int    `json:"channels"`
	Device   string `json:"device"`
	Format   string `json:"format,omitempty"`
}

// Devices holds the engine's capture and playback descriptors.
type Devices struct {
	Capture  Device `json:"capture"`
	Playback Device `json:"playback"`
}

// Filter is an opaque filter definition. The type tag selects a handler; the
// parameters are never interpreted outside the filters registry.
type Filter struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// PipelineStep is one ordered instruction in the engine pipeline: run a named
// mixer, or run a named filter on a specific channel. Channel is present only
// for filter steps.
type PipelineStep struct {
	Type    StepType `json:"type"`
	Name    string   `json:"name"`
	Channel *int     `json:"channel,omitempty"`
}

// MixerStep builds a pipeline step that runs the named mixer.
func MixerStep(name string) PipelineStep {
	return PipelineStep{Type: StepMixer, Name: name}
}

// FilterStep builds a pipeline step that runs the named filter on one channel.
func FilterStep(name string, channel int) PipelineStep {
	ch := channel
	return PipelineStep{Type: StepFilter, Name: name, Channel: &ch}
}

// IsMixer reports whether the step runs the named mixer.
func (p PipelineStep) IsMixer(name string) bool {
	return p.Type == StepMixer && p.Name == name
}

// Config is the engine's complete configuration.
type Config struct {
	Devices  Devices           `json:"devices"`
	Mixers   map[string]Mixer  `json:"mixers,omitempty"`
	Filters  map[string]Filter `json:"filters,omitempty"`
	Pipeline []PipelineStep    `json:"pipeline,omitempty"`
}

// Clone returns a deep copy. Rewrites always operate on a clone so the caller's
// config is never mutated.
func (c Config) Clone() Config {
	out := c
	if c.Mixers != nil {
		out.Mixers = make(map[string]Mixer, len(c.Mixers))
		for name, mixer := range c.Mixers {
			out.Mixers[name] = mixer.Clone()
		}
	}
	if c.Filters != nil {
		out.Filters = make(map[string]Filter, len(c.Filters))
		for name, filter := range c.Filters {
			out.Filters[name] = filter.Clone()
		}
	}
	if c.Pipeline != nil {
		out.Pipeline = make([]PipelineStep, len(c.Pipeline))
		for i, step := range c.Pipeline {
			out.Pipeline[i] = step.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the step.
func (p PipelineStep) Clone() PipelineStep {
	out := p
	if p.Channel != nil {
		ch := *p.Channel
		out.Channel = &ch
	}
	return out
}

// Clone returns a deep copy of the filter definition.
func (f Filter) Clone() Filter {
	out := f
	if f.Parameters != nil {
		out.Parameters = cloneValue(f.Parameters).(map[string]any)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return val
	}
}
