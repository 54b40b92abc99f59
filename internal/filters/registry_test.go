package filters_test

import (
	"strings"
	"testing"

	"patchbay/internal/dsp"
	"patchbay/internal/filters"
)

func TestBuiltinCoversKnownTypes(t *testing.T) {
	reg := filters.Builtin()

	for _, tag := range []string{
		"Biquad", "Conv", "Delay", "Gain", "Volume",
		"Dither", "DiffEq", "Compressor", "Loudness", "NoiseGate",
	} {
		h, ok := reg.Lookup(tag)
		if !ok {
			t.Fatalf("missing handler for %s", tag)
		}
		if h.DisplayName() == "" {
			t.Fatalf("%s: empty display name", tag)
		}
	}
}

func TestBuiltinDefaultsValidate(t *testing.T) {
	reg := filters.Builtin()
	for _, tag := range reg.Types() {
		h, _ := reg.Lookup(tag)
		def := h.Default()
		if def.Type != tag {
			t.Fatalf("%s: default has type %q", tag, def.Type)
		}
		if tag == "Conv" {
			// A convolution filter has no usable default filename.
			continue
		}
		if err := h.Validate(def); err != nil {
			t.Fatalf("%s: default does not validate: %v", tag, err)
		}
	}
}

func TestDefaultsAreIndependent(t *testing.T) {
	reg := filters.Builtin()
	h, _ := reg.Lookup("Biquad")

	first := h.Default()
	first.Parameters["freq"] = 63.0

	second := h.Default()
	if second.Parameters["freq"] != 1000.0 {
		t.Fatalf("defaults share state: %+v", second.Parameters)
	}
}

func TestValidateRejectsBadParameters(t *testing.T) {
	reg := filters.Builtin()

	bad := dsp.Filter{Type: "Biquad", Parameters: map[string]any{"freq": -20.0, "q": 0.7}}
	if err := reg.Validate(bad); err == nil {
		t.Fatal("expected validation error for negative frequency")
	}

	missing := dsp.Filter{Type: "Conv", Parameters: map[string]any{}}
	if err := reg.Validate(missing); err == nil {
		t.Fatal("expected validation error for missing filename")
	}
}

func TestValidateTypeMismatch(t *testing.T) {
	reg := filters.Builtin()
	h, _ := reg.Lookup("Gain")
	if err := h.Validate(dsp.Filter{Type: "Delay"}); err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestValidatePassesUnknownTypes(t *testing.T) {
	reg := filters.Builtin()
	if err := reg.Validate(dsp.Filter{Type: "FutureFilter"}); err != nil {
		t.Fatalf("unknown types must pass validation, got %v", err)
	}
}

func TestSummaries(t *testing.T) {
	reg := filters.Builtin()

	gain := dsp.Filter{Type: "Gain", Parameters: map[string]any{"gain": -3.0}}
	if got := reg.Summary(gain); got != "Gain -3.0 dB" {
		t.Fatalf("unexpected gain summary: %q", got)
	}

	biquad := dsp.Filter{Type: "Biquad", Parameters: map[string]any{"type": "highpass", "freq": 80.0}}
	if got := reg.Summary(biquad); !strings.Contains(got, "Highpass") || !strings.Contains(got, "80") {
		t.Fatalf("unexpected biquad summary: %q", got)
	}

	if got := reg.Summary(dsp.Filter{Type: "FutureFilter"}); got != "FutureFilter" {
		t.Fatalf("unknown type summary should be the tag, got %q", got)
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	reg := filters.Builtin()
	h, _ := reg.Lookup("Gain")
	if err := reg.Register(h); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}
