package flow

import (
	"fmt"

	"patchbay/internal/dsp"
	"patchbay/internal/routing"
)

// Warning codes describing why a model could not be fully expressed.
const (
	// WarnUnrepresentableRoute marks a route whose endpoints do not both
	// resolve to the engine's capture and playback devices.
	WarnUnrepresentableRoute = "unrepresentable_route"
	// WarnMissingRoutingStep marks a pipeline that lacks the routing mixer
	// step, so the synthesized routing data is present but inactive.
	WarnMissingRoutingStep = "missing_routing_mixer_step"
)

// Warning is one structured representability finding.
type Warning struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// Result is the outcome of synthesizing a model into an engine config.
// Representable is false when any warning was emitted; Config is always a
// best-effort translation regardless.
type Result struct {
	Config        dsp.Config `json:"config"`
	Representable bool       `json:"representable"`
	Warnings      []Warning  `json:"warnings,omitempty"`
}

// Synthesize folds the model into a new engine configuration derived from
// existing. It never mutates its arguments and never fails: malformed or
// unrepresentable model data degrades to warnings plus best-effort output.
//
// The produced pipeline encodes the physical signal path: all input-side
// filter steps, then the routing mixer, then all output-side filter steps.
// The routing mixer step is carried over only when the existing pipeline
// already has one; synthesis never inserts it on its own, so it cannot
// silently reorder steps a caller placed by hand. Config sections the model
// does not cover (devices, other mixers, unreferenced filter definitions) are
// copied through untouched.
func Synthesize(existing dsp.Config, model Model) Result {
	result := Result{Representable: true}

	raw := dsp.Mixer{}
	byDest := make(map[int]int)
	for _, route := range model.Routes {
		if route.From.DeviceID != CaptureDeviceID || route.To.DeviceID != PlaybackDeviceID {
			result.warn(WarnUnrepresentableRoute, fmt.Sprintf("%s -> %s",
				PortKey(SideInput, route.From), PortKey(SideOutput, route.To)))
			continue
		}
		src := dsp.MixerSource{
			Channel:  route.From.ChannelIndex,
			Gain:     route.Gain,
			Inverted: route.Inverted,
			Mute:     route.Mute,
		}
		idx, ok := byDest[route.To.ChannelIndex]
		if !ok {
			idx = len(raw.Mapping)
			byDest[route.To.ChannelIndex] = idx
			raw.Mapping = append(raw.Mapping, dsp.MixerMapping{Dest: route.To.ChannelIndex})
		}
		raw.Mapping[idx].Sources = append(raw.Mapping[idx].Sources, src)
	}

	cfg := routing.PatchConfig(existing, raw)

	hasRoutingStep := routing.HasRoutingStep(existing)
	if !hasRoutingStep {
		result.warn(WarnMissingRoutingStep, "pipeline has no routing mixer step")
	}

	if cfg.Filters == nil {
		cfg.Filters = make(map[string]dsp.Filter)
	}

	pipeline := make([]dsp.PipelineStep, 0, len(cfg.Pipeline))
	pipeline = appendFilterSteps(pipeline, cfg.Filters, model.Inputs)
	if hasRoutingStep {
		pipeline = append(pipeline, dsp.MixerStep(routing.MixerName))
	}
	pipeline = appendFilterSteps(pipeline, cfg.Filters, model.Outputs)
	cfg.Pipeline = pipeline

	result.Config = cfg
	return result
}

// appendFilterSteps writes each chain entry's filter definition into filters
// (overwriting any prior definition under that name) and appends its pipeline
// step, preserving node order then chain order.
func appendFilterSteps(pipeline []dsp.PipelineStep, filters map[string]dsp.Filter, nodes []ChannelNode) []dsp.PipelineStep {
	for _, node := range nodes {
		for _, instance := range node.Processing {
			filters[instance.Name] = instance.Filter.Clone()
			pipeline = append(pipeline, dsp.FilterStep(instance.Name, node.ChannelIndex))
		}
	}
	return pipeline
}

func (r *Result) warn(code, detail string) {
	r.Representable = false
	r.Warnings = append(r.Warnings, Warning{Code: code, Detail: detail})
}
