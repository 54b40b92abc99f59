package filters

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"patchbay/internal/dsp"
)

var titleCaser = cases.Title(language.English)

// builtinHandler implements Handler from a parameter table.
type builtinHandler struct {
	typeTag   string
	display   string
	defaults  map[string]any
	validate  func(params map[string]any) error
	summarize func(params map[string]any) string
}

func (h *builtinHandler) Type() string { return h.typeTag }

func (h *builtinHandler) DisplayName() string {
	if h.display != "" {
		return h.display
	}
	return titleCaser.String(h.typeTag)
}

func (h *builtinHandler) Default() dsp.Filter {
	return dsp.Filter{Type: h.typeTag, Parameters: dsp.Filter{Parameters: h.defaults}.Clone().Parameters}
}

func (h *builtinHandler) Validate(f dsp.Filter) error {
	if f.Type != h.typeTag {
		return fmt.Errorf("filter type %q does not match handler %q", f.Type, h.typeTag)
	}
	if h.validate == nil {
		return nil
	}
	return h.validate(f.Parameters)
}

func (h *builtinHandler) Summary(f dsp.Filter) string {
	if h.summarize == nil {
		return h.DisplayName()
	}
	return h.summarize(f.Parameters)
}

// Builtin returns a registry populated with every filter type patchbay ships
// handlers for.
func Builtin() *Registry {
	r := NewRegistry()
	for _, h := range builtinHandlers() {
		if err := r.Register(h); err != nil {
			// Duplicate registration in the static table is a programmer error.
			panic(err)
		}
	}
	return r
}

func builtinHandlers() []Handler {
	return []Handler{
		&builtinHandler{
			typeTag: "Biquad",
			defaults: map[string]any{
				"type": "Peaking", "freq": 1000.0, "q": 0.7, "gain": 0.0,
			},
			validate: func(p map[string]any) error {
				if err := requirePositive(p, "freq"); err != nil {
					return err
				}
				return requirePositive(p, "q")
			},
			summarize: func(p map[string]any) string {
				shape, _ := stringParam(p, "type")
				freq, _ := numberParam(p, "freq")
				if shape == "" {
					shape = "biquad"
				}
				return fmt.Sprintf("%s @ %g Hz", titleCaser.String(shape), freq)
			},
		},
		&builtinHandler{
			typeTag: "Conv",
			display: "Convolution",
			defaults: map[string]any{
				"type": "Wav", "filename": "", "channel": 0.0,
			},
			validate: func(p map[string]any) error {
				name, ok := stringParam(p, "filename")
				if !ok || name == "" {
					return fmt.Errorf("Conv: parameter filename is required")
				}
				return nil
			},
			summarize: func(p map[string]any) string {
				name, _ := stringParam(p, "filename")
				return fmt.Sprintf("Convolution %s", name)
			},
		},
		&builtinHandler{
			typeTag:  "Delay",
			defaults: map[string]any{"delay": 0.0, "unit": "ms", "subsample": false},
			validate: func(p map[string]any) error {
				return requireNonNegative(p, "delay")
			},
			summarize: func(p map[string]any) string {
				delay, _ := numberParam(p, "delay")
				unit, ok := stringParam(p, "unit")
				if !ok {
					unit = "ms"
				}
				return fmt.Sprintf("Delay %g %s", delay, unit)
			},
		},
		&builtinHandler{
			typeTag:  "Gain",
			defaults: map[string]any{"gain": 0.0, "inverted": false, "mute": false},
			validate: func(p map[string]any) error {
				_, ok := numberParam(p, "gain")
				if !ok {
					return fmt.Errorf("Gain: parameter gain is required")
				}
				return nil
			},
			summarize: func(p map[string]any) string {
				gain, _ := numberParam(p, "gain")
				return fmt.Sprintf("Gain %+.1f dB", gain)
			},
		},
		&builtinHandler{
			typeTag:  "Volume",
			defaults: map[string]any{"ramp_time": 400.0},
			validate: func(p map[string]any) error {
				return requireNonNegative(p, "ramp_time")
			},
		},
		&builtinHandler{
			typeTag:  "Dither",
			defaults: map[string]any{"type": "Simple", "bits": 16.0},
			validate: func(p map[string]any) error {
				return requirePositive(p, "bits")
			},
			summarize: func(p map[string]any) string {
				bits, _ := numberParam(p, "bits")
				return fmt.Sprintf("Dither to %g bits", bits)
			},
		},
		&builtinHandler{
			typeTag: "DiffEq",
			display: "Difference Equation",
			defaults: map[string]any{
				"a": []any{1.0}, "b": []any{1.0},
			},
			validate: func(p map[string]any) error {
				for _, key := range []string{"a", "b"} {
					coeffs, ok := p[key].([]any)
					if !ok || len(coeffs) == 0 {
						return fmt.Errorf("DiffEq: parameter %s requires at least one coefficient", key)
					}
				}
				return nil
			},
		},
		&builtinHandler{
			typeTag: "Compressor",
			defaults: map[string]any{
				"channels": 2.0, "attack": 25.0, "release": 100.0,
				"threshold": -25.0, "factor": 5.0, "makeup_gain": 0.0,
			},
			validate: func(p map[string]any) error {
				if err := requirePositive(p, "attack"); err != nil {
					return err
				}
				if err := requirePositive(p, "release"); err != nil {
					return err
				}
				return requirePositive(p, "factor")
			},
			summarize: func(p map[string]any) string {
				factor, _ := numberParam(p, "factor")
				threshold, _ := numberParam(p, "threshold")
				return fmt.Sprintf("Compressor %g:1 @ %g dB", factor, threshold)
			},
		},
		&builtinHandler{
			typeTag: "Loudness",
			defaults: map[string]any{
				"reference_level": -25.0, "high_boost": 10.0, "low_boost": 10.0,
			},
			validate: func(p map[string]any) error {
				_, ok := numberParam(p, "reference_level")
				if !ok {
					return fmt.Errorf("Loudness: parameter reference_level is required")
				}
				return nil
			},
		},
		&builtinHandler{
			typeTag: "NoiseGate",
			display: "Noise Gate",
			defaults: map[string]any{
				"channels": 2.0, "attack": 25.0, "release": 100.0,
				"threshold": -60.0, "attenuation": 60.0,
			},
			validate: func(p map[string]any) error {
				if err := requirePositive(p, "attack"); err != nil {
					return err
				}
				return requirePositive(p, "release")
			},
			summarize: func(p map[string]any) string {
				threshold, _ := numberParam(p, "threshold")
				return fmt.Sprintf("Noise Gate @ %g dB", threshold)
			},
		},
	}
}

func numberParam(p map[string]any, key string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func stringParam(p map[string]any, key string) (string, bool) {
	if p == nil {
		return "", false
	}
	s, ok := p[key].(string)
	return s, ok
}

func requirePositive(p map[string]any, key string) error {
	v, ok := numberParam(p, key)
	if !ok || v <= 0 {
		return fmt.Errorf("parameter %s must be a positive number", key)
	}
	return nil
}

func requireNonNegative(p map[string]any, key string) error {
	v, ok := numberParam(p, key)
	if !ok || v < 0 {
		return fmt.Errorf("parameter %s must be a non-negative number", key)
	}
	return nil
}
