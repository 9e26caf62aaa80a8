package calibration

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

func TestComputeMmPerPx(t *testing.T) {
	tests := []struct {
		name     string
		lengthMm float64
		distPx   float64
		want     float64
		wantOK   bool
	}{
		{"zero distance", 100, 0, 0, false},
		{"half mm per px", 100, 200, 0.5, true},
		{"one pixel", 100, 1, 0, false},
		{"just over one pixel", 100, 1.0001, 100 / 1.0001, true},
		{"zero length", 0, 200, 0, false},
		{"negative length", -5, 200, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeMmPerPx(tt.lengthMm, tt.distPx)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("mm/px: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalibrate(t *testing.T) {
	card, err := LookupPreset("card")
	if err != nil {
		t.Fatalf("LookupPreset: %v", err)
	}

	sc, err := Calibrate(geom.Pt(100, 100), geom.Pt(100+171.2, 100), card)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if math.Abs(sc.MmPerPx-0.5) > 1e-9 {
		t.Errorf("MmPerPx: got %v, want 0.5", sc.MmPerPx)
	}
	if sc.PresetID != "card" {
		t.Errorf("PresetID: got %q, want card", sc.PresetID)
	}
	if got := sc.ToMm(400); math.Abs(got-200) > 1e-9 {
		t.Errorf("ToMm(400): got %v, want 200", got)
	}
}

func TestCalibrate_Rejections(t *testing.T) {
	ruler, _ := LookupPreset("ruler-100")

	_, err := Calibrate(geom.Pt(5, 5), geom.Pt(5.5, 5.5), ruler)
	if !errors.Is(err, ErrPointsTooClose) {
		t.Errorf("coincident points: got %v, want ErrPointsTooClose", err)
	}

	bogus := Preset{ID: "bogus", ReferenceLengthMm: 0}
	_, err = Calibrate(geom.Pt(0, 0), geom.Pt(300, 0), bogus)
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("zero reference: got %v, want ErrInvalidReference", err)
	}
}

func TestPresets(t *testing.T) {
	want := map[string]float64{
		"card":      85.6,
		"a4-short":  210,
		"a4-long":   297,
		"ruler-100": 100,
	}
	got := Presets()
	if len(got) != len(want) {
		t.Fatalf("preset count: got %d, want %d", len(got), len(want))
	}
	for _, p := range got {
		if want[p.ID] != p.ReferenceLengthMm {
			t.Errorf("%s: got %v mm, want %v", p.ID, p.ReferenceLengthMm, want[p.ID])
		}
	}

	// Mutating the returned slice must not affect later callers.
	got[0].ReferenceLengthMm = -1
	if p, _ := LookupPreset(got[0].ID); p.ReferenceLengthMm <= 0 {
		t.Error("Presets returned shared backing storage")
	}

	if _, err := LookupPreset("door"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("unknown preset: got %v, want ErrUnknownPreset", err)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scale.json")
	store := NewStore(path)

	if _, ok, err := store.Load(); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	a4, _ := LookupPreset("a4-long")
	sc, err := Calibrate(geom.Pt(0, 0), geom.Pt(0, 594), a4)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if err := store.Save(sc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if loaded.MmPerPx != sc.MmPerPx || loaded.PresetID != "a4-long" {
		t.Errorf("loaded scale: got %+v, want %+v", loaded, sc)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("Load after Clear should report no scale")
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear on an empty store: %v", err)
	}
}

func TestStore_Rejects(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "scale.json"))

	if err := store.Save(Scale{MmPerPx: 0}); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Save zero scale: got %v, want ErrInvalidReference", err)
	}

	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if _, _, err := store.Load(); err == nil {
		t.Error("Load should fail on a corrupt file")
	}
}
