package presets_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"patchbay/internal/dsp"
	"patchbay/internal/presets"
)

func openStore(t *testing.T) *presets.Store {
	t.Helper()
	store, err := presets.Open(filepath.Join(t.TempDir(), "presets.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleConfig(gain float64) dsp.Config {
	return dsp.Config{
		Devices: dsp.Devices{
			Capture:  dsp.Device{Type: "Alsa", Channels: 2, Device: "hw:0"},
			Playback: dsp.Device{Type: "Alsa", Channels: 2, Device: "hw:1"},
		},
		Mixers: map[string]dsp.Mixer{
			"routing": {
				Channels: dsp.MixerChannels{In: 2, Out: 2},
				Mapping: []dsp.MixerMapping{
					{Dest: 0, Sources: []dsp.MixerSource{{Channel: 0, Gain: gain}}},
				},
			},
		},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "evening", sampleConfig(-10))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated preset id")
	}
	if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got %+v", saved)
	}

	got, err := store.Get(ctx, "evening")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	mapping := got.Config.Mixers["routing"].Mapping
	if len(mapping) != 1 || mapping[0].Sources[0].Gain != -10 {
		t.Fatalf("unexpected stored config: %+v", got.Config)
	}
}

func TestSaveOverwritesByName(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, "evening", sampleConfig(-10))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := store.Save(ctx, "evening", sampleConfig(-20))
	if err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("overwrite must keep the preset id")
	}
	if second.Config.Mixers["routing"].Mapping[0].Sources[0].Gain != -20 {
		t.Fatalf("expected overwritten config, got %+v", second.Config)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one preset, got %d", len(all))
	}
}

func TestListOrdersByName(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, name := range []string{"movie", "attenuated", "flat"} {
		if _, err := store.Save(ctx, name, sampleConfig(0)); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"attenuated", "flat", "movie"}
	for i, preset := range all {
		if preset.Name != want[i] {
			t.Fatalf("unexpected order: %v", presetNames(all))
		}
	}
}

func TestGetMissing(t *testing.T) {
	store := openStore(t)
	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, presets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, "temp", sampleConfig(0)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	removed, err := store.Delete(ctx, "temp")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !removed {
		t.Fatal("expected preset to be removed")
	}

	removed, err = store.Delete(ctx, "temp")
	if err != nil {
		t.Fatalf("Delete again: %v", err)
	}
	if removed {
		t.Fatal("second delete must report nothing removed")
	}
}

func TestSaveRejectsEmptyName(t *testing.T) {
	store := openStore(t)
	if _, err := store.Save(context.Background(), "  ", sampleConfig(0)); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func presetNames(all []*presets.Preset) []string {
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}
