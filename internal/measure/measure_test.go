package measure

import (
	"path/filepath"
	"testing"

	"github.com/ironsheep/door-ar-mcp/internal/calibration"
	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

func TestNew(t *testing.T) {
	q := geom.RectQuad(10, 20, 400, 900, geom.SpaceScreen)

	t.Run("uncalibrated", func(t *testing.T) {
		r := New(q, nil)
		if r.WidthPx != 400 || r.HeightPx != 900 {
			t.Errorf("px: got %vx%v, want 400x900", r.WidthPx, r.HeightPx)
		}
		if r.WidthMm != nil || r.HeightMm != nil || r.MmPerPx != nil {
			t.Error("mm fields should be nil without a scale")
		}
	})

	t.Run("calibrated", func(t *testing.T) {
		r := New(q, &calibration.Scale{MmPerPx: 2.5})
		if r.WidthMm == nil || *r.WidthMm != 1000 {
			t.Errorf("WidthMm: got %v, want 1000", r.WidthMm)
		}
		if r.HeightMm == nil || *r.HeightMm != 2250 {
			t.Errorf("HeightMm: got %v, want 2250", r.HeightMm)
		}
		if r.MmPerPx == nil || *r.MmPerPx != 2.5 {
			t.Errorf("MmPerPx: got %v", r.MmPerPx)
		}
	})

	t.Run("zero scale ignored", func(t *testing.T) {
		if r := New(q, &calibration.Scale{}); r.MmPerPx != nil {
			t.Error("a zero scale should not produce mm values")
		}
	})
}

func TestQueryValues(t *testing.T) {
	q := geom.RectQuad(10, 20, 400, 900, geom.SpaceScreen)
	v := New(q, &calibration.Scale{MmPerPx: 0.5}).QueryValues()

	want := map[string]string{
		"widthPx":  "400.00",
		"heightPx": "900.00",
		"widthMm":  "200.00",
		"heightMm": "450.00",
		"mmPerPx":  "0.5",
		"tl":       "10.00,20.00",
		"tr":       "410.00,20.00",
		"br":       "410.00,920.00",
		"bl":       "10.00,920.00",
	}
	for k, w := range want {
		if got := v.Get(k); got != w {
			t.Errorf("%s: got %q, want %q", k, got, w)
		}
	}

	bare := New(q, nil).QueryValues()
	if bare.Has("widthMm") || bare.Has("mmPerPx") {
		t.Errorf("uncalibrated values should omit mm keys: %v", bare)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handoff", "measurement.json")
	q := geom.RectQuad(1, 2, 300, 600, geom.SpaceScreen)
	r := New(q, &calibration.Scale{MmPerPx: 3})

	if err := r.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Quad != q {
		t.Errorf("quad: got %+v, want %+v", got.Quad, q)
	}
	if got.WidthMm == nil || *got.WidthMm != 900 {
		t.Errorf("WidthMm: got %v", got.WidthMm)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}
