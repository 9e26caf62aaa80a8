package pose

import (
	"math"
	"testing"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

func TestProject_ZeroPose(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   geom.Quad
	}{
		{"scale 1", Params{Scale: 1}, geom.RectQuad(300, 250, 200, 100, geom.SpaceScreen)},
		{"zero scale means 1", Params{}, geom.RectQuad(300, 250, 200, 100, geom.SpaceScreen)},
		{"scale 2", Params{Scale: 2}, geom.RectQuad(200, 200, 400, 200, geom.SpaceScreen)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.params, 200, 100, 800, 600)
			if got.Space != geom.SpaceScreen {
				t.Errorf("space: got %v", got.Space)
			}
			gc, wc := got.Corners(), tt.want.Corners()
			for i := range gc {
				if !geom.NearlyEqual(gc[i], wc[i], 1e-9) {
					t.Errorf("corner %d: got %+v, want %+v", i, gc[i], wc[i])
				}
			}
			wh := got.WH()
			if math.Abs(wh.WPx/wh.HPx-2) > 1e-9 {
				t.Errorf("aspect: got %v, want 2", wh.WPx/wh.HPx)
			}
			if c := got.Centroid(); !geom.NearlyEqual(c, geom.Pt(400, 300), 1e-9) {
				t.Errorf("centroid: got %+v", c)
			}
		})
	}
}

func TestProject_Yaw(t *testing.T) {
	q := Project(Params{Yaw: 30, Scale: 1}, 200, 100, 800, 600)
	left := geom.Distance(q.TL, q.BL)
	right := geom.Distance(q.TR, q.BR)
	// Positive yaw swings the right edge away from the camera.
	if right >= left {
		t.Errorf("right edge %v should be shorter than left %v", right, left)
	}
	if math.Abs(q.TL.Y-(600-q.BL.Y)) > 1e-9 {
		t.Errorf("yaw should keep vertical symmetry: TL.y=%v BL.y=%v", q.TL.Y, q.BL.Y)
	}
}

func TestProject_Pitch(t *testing.T) {
	q := Project(Params{Pitch: 25, Scale: 1}, 200, 100, 800, 600)
	top := geom.Distance(q.TL, q.TR)
	bottom := geom.Distance(q.BL, q.BR)
	if math.Abs(top-bottom) < 1 {
		t.Errorf("pitch should foreshorten one horizontal edge: top %v bottom %v", top, bottom)
	}
}

func TestProject_Roll90(t *testing.T) {
	q := Project(Params{Roll: 90, Scale: 1}, 200, 100, 800, 600)
	// (-100,-50) rotated 90 degrees about Z lands at (50,-100).
	if !geom.NearlyEqual(q.TL, geom.Pt(450, 200), 1e-9) {
		t.Errorf("TL: got %+v, want (450,200)", q.TL)
	}
}

func TestRotation_Orthonormal(t *testing.T) {
	r := Rotation(Params{Yaw: 17, Pitch: -33, Roll: 71})
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var dot float64
			for k := 0; k < 3; k++ {
				dot += r.At(k, i) * r.At(k, j)
			}
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(dot-want) > 1e-12 {
				t.Errorf("column dot (%d,%d) = %v, want %v", i, j, dot, want)
			}
		}
	}
}

func TestProject_BehindCameraIsFinite(t *testing.T) {
	q := Project(Params{Yaw: 89, Scale: 20}, 200, 100, 800, 600)
	for _, p := range q.Corners() {
		if math.IsInf(p.X, 0) || math.IsNaN(p.X) || math.IsInf(p.Y, 0) || math.IsNaN(p.Y) {
			t.Fatalf("non-finite corner %+v", p)
		}
	}
}
