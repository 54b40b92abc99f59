package flow_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"patchbay/internal/dsp"
	"patchbay/internal/flow"
	"patchbay/internal/routing"
)

func stereoConfig() dsp.Config {
	return dsp.Config{
		Devices: dsp.Devices{
			Capture:  dsp.Device{Type: "Alsa", Channels: 2, Device: "hw:0"},
			Playback: dsp.Device{Type: "Alsa", Channels: 2, Device: "hw:1"},
		},
		Pipeline: []dsp.PipelineStep{dsp.MixerStep(routing.MixerName)},
	}
}

func TestSynthesizeSingleRoute(t *testing.T) {
	model := flow.Model{
		Routes: []flow.Route{{
			From:     flow.Endpoint{DeviceID: flow.CaptureDeviceID, ChannelIndex: 0},
			To:       flow.Endpoint{DeviceID: flow.PlaybackDeviceID, ChannelIndex: 1},
			Gain:     -4.5,
			Inverted: true,
		}},
	}

	result := flow.Synthesize(stereoConfig(), model)

	if !result.Representable {
		t.Fatalf("expected representable result, warnings: %+v", result.Warnings)
	}
	want := []dsp.MixerMapping{
		{Dest: 1, Sources: []dsp.MixerSource{{Channel: 0, Gain: -4.5, Inverted: true}}},
	}
	got := result.Config.Mixers[routing.MixerName].Mapping
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected routing mapping: %+v", got)
	}
}

func TestSynthesizePipelineOrder(t *testing.T) {
	gain := dsp.Filter{Type: "Gain", Parameters: map[string]any{"gain": -3.0}}
	conv := dsp.Filter{Type: "Conv", Parameters: map[string]any{"filename": "left.wav"}}
	model := flow.Model{
		Inputs: []flow.ChannelNode{{
			DeviceID:     flow.CaptureDeviceID,
			ChannelIndex: 0,
			Processing:   []flow.FilterInstance{{Name: "inGain", Filter: gain}},
		}},
		Outputs: []flow.ChannelNode{{
			DeviceID:     flow.PlaybackDeviceID,
			ChannelIndex: 0,
			Processing:   []flow.FilterInstance{{Name: "outConv", Filter: conv}},
		}},
	}

	result := flow.Synthesize(stereoConfig(), model)

	want := []dsp.PipelineStep{
		dsp.FilterStep("inGain", 0),
		dsp.MixerStep(routing.MixerName),
		dsp.FilterStep("outConv", 0),
	}
	if !reflect.DeepEqual(result.Config.Pipeline, want) {
		t.Fatalf("unexpected pipeline: %+v", result.Config.Pipeline)
	}
	if result.Config.Filters["inGain"].Type != "Gain" {
		t.Fatalf("input filter definition not written: %+v", result.Config.Filters)
	}
	if result.Config.Filters["outConv"].Type != "Conv" {
		t.Fatalf("output filter definition not written: %+v", result.Config.Filters)
	}
}

func TestSynthesizeMissingRoutingStep(t *testing.T) {
	cfg := stereoConfig()
	cfg.Pipeline = nil
	model := flow.Model{
		Routes: []flow.Route{{
			From: flow.Endpoint{DeviceID: flow.CaptureDeviceID, ChannelIndex: 0},
			To:   flow.Endpoint{DeviceID: flow.PlaybackDeviceID, ChannelIndex: 0},
		}},
	}

	result := flow.Synthesize(cfg, model)

	if result.Representable {
		t.Fatal("expected unrepresentable result")
	}
	if !hasWarning(result.Warnings, flow.WarnMissingRoutingStep) {
		t.Fatalf("expected %s warning, got %+v", flow.WarnMissingRoutingStep, result.Warnings)
	}
	// Routing data is still patched in so EnsureRoutingStep can activate it later.
	if len(result.Config.Mixers[routing.MixerName].Mapping) != 1 {
		t.Fatalf("expected routing mixer to be populated: %+v", result.Config.Mixers)
	}
	for _, step := range result.Config.Pipeline {
		if step.IsMixer(routing.MixerName) {
			t.Fatal("synthesis must not insert the routing step itself")
		}
	}
}

func TestSynthesizeSkipsForeignDeviceRoutes(t *testing.T) {
	model := flow.Model{
		Routes: []flow.Route{
			{
				From: flow.Endpoint{DeviceID: "aux", ChannelIndex: 0},
				To:   flow.Endpoint{DeviceID: flow.PlaybackDeviceID, ChannelIndex: 0},
			},
			{
				From: flow.Endpoint{DeviceID: flow.CaptureDeviceID, ChannelIndex: 1},
				To:   flow.Endpoint{DeviceID: flow.PlaybackDeviceID, ChannelIndex: 1},
				Gain: -1,
			},
		},
	}

	result := flow.Synthesize(stereoConfig(), model)

	if result.Representable {
		t.Fatal("expected unrepresentable result")
	}
	if !hasWarning(result.Warnings, flow.WarnUnrepresentableRoute) {
		t.Fatalf("expected %s warning, got %+v", flow.WarnUnrepresentableRoute, result.Warnings)
	}
	mapping := result.Config.Mixers[routing.MixerName].Mapping
	if len(mapping) != 1 || mapping[0].Dest != 1 {
		t.Fatalf("expected only the valid route to survive: %+v", mapping)
	}
}

func TestSynthesizeDoesNotMutateArguments(t *testing.T) {
	cfg := stereoConfig()
	cfg.Mixers = map[string]dsp.Mixer{
		"downmix": {Channels: dsp.MixerChannels{In: 4, Out: 2}},
	}
	cfg.Filters = map[string]dsp.Filter{
		"legacy": {Type: "Delay", Parameters: map[string]any{"delay": 2.5}},
	}
	model := flow.Model{
		Inputs: []flow.ChannelNode{{
			DeviceID:     flow.CaptureDeviceID,
			ChannelIndex: 0,
			Processing: []flow.FilterInstance{{
				Name:   "legacy",
				Filter: dsp.Filter{Type: "Gain"},
			}},
		}},
		Routes: []flow.Route{{
			From: flow.Endpoint{DeviceID: flow.CaptureDeviceID, ChannelIndex: 0},
			To:   flow.Endpoint{DeviceID: flow.PlaybackDeviceID, ChannelIndex: 0},
		}},
	}

	before, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}

	result := flow.Synthesize(cfg, model)

	after, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("Synthesize mutated its input:\nbefore: %s\nafter:  %s", before, after)
	}
	if result.Config.Filters["legacy"].Type != "Gain" {
		t.Fatal("expected model filter to overwrite prior definition in the output")
	}
}

func TestSynthesizePreservesUnownedSections(t *testing.T) {
	cfg := stereoConfig()
	cfg.Mixers = map[string]dsp.Mixer{
		"monitor": {Channels: dsp.MixerChannels{In: 2, Out: 1}},
	}
	cfg.Filters = map[string]dsp.Filter{
		"roomEQ": {Type: "Biquad", Parameters: map[string]any{"freq": 63.0}},
	}

	result := flow.Synthesize(cfg, flow.Model{})

	if _, ok := result.Config.Mixers["monitor"]; !ok {
		t.Fatal("expected unrelated mixer to be copied through")
	}
	if _, ok := result.Config.Filters["roomEQ"]; !ok {
		t.Fatal("expected unreferenced filter definition to be copied through")
	}
	if !reflect.DeepEqual(result.Config.Devices, cfg.Devices) {
		t.Fatal("expected device descriptors to be copied through")
	}
}

func TestSynthesizeDropsStaleSteps(t *testing.T) {
	cfg := stereoConfig()
	cfg.Pipeline = []dsp.PipelineStep{
		dsp.FilterStep("obsolete", 0),
		dsp.MixerStep(routing.MixerName),
	}

	result := flow.Synthesize(cfg, flow.Model{})

	want := []dsp.PipelineStep{dsp.MixerStep(routing.MixerName)}
	if !reflect.DeepEqual(result.Config.Pipeline, want) {
		t.Fatalf("expected stale filter step to be dropped: %+v", result.Config.Pipeline)
	}
}

func hasWarning(warnings []flow.Warning, code string) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
