package geom

import (
	"math"
	"math/rand"
	"testing"
)

func TestOrderCorners_Shuffled(t *testing.T) {
	want := RectQuad(10, 20, 100, 50, SpaceScreen)
	perms := [][4]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}
	corners := want.Corners()

	for _, perm := range perms {
		var in [4]Point
		for i, idx := range perm {
			in[i] = corners[idx]
		}
		got := OrderCorners(in, SpaceScreen)
		if got != want {
			t.Errorf("OrderCorners(%v): got %+v, want %+v", in, got, want)
		}
	}
}

func TestOrderCorners_ExtremaProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		// Jittered rectangle: always a simple quadrilateral.
		x, y := rng.Float64()*200, rng.Float64()*200
		w, h := 80+rng.Float64()*200, 80+rng.Float64()*200
		j := func() float64 { return (rng.Float64() - 0.5) * 30 }
		pts := [4]Point{
			{x + j(), y + j()},
			{x + w + j(), y + j()},
			{x + w + j(), y + h + j()},
			{x + j(), y + h + j()},
		}
		rng.Shuffle(4, func(a, b int) { pts[a], pts[b] = pts[b], pts[a] })

		q := OrderCorners(pts, SpaceDetection)
		for _, p := range pts {
			if p.X+p.Y < q.TL.X+q.TL.Y {
				t.Fatalf("TL %+v is not argmin(x+y) of %v", q.TL, pts)
			}
			if p.X+p.Y > q.BR.X+q.BR.Y {
				t.Fatalf("BR %+v is not argmax(x+y) of %v", q.BR, pts)
			}
			if p.X-p.Y > q.TR.X-q.TR.Y {
				t.Fatalf("TR %+v is not argmax(x-y) of %v", q.TR, pts)
			}
			if p.X-p.Y < q.BL.X-q.BL.Y {
				t.Fatalf("BL %+v is not argmin(x-y) of %v", q.BL, pts)
			}
		}
		if q.Space != SpaceDetection {
			t.Fatalf("Space: got %s, want detection", q.Space)
		}
	}
}

func TestQuadWH_AxisAligned(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
	}{
		{"landscape", 200, 100},
		{"portrait door", 90, 210},
		{"square", 64, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wh := RectQuad(5, 7, tt.w, tt.h, SpaceScreen).WH()
			if math.Abs(wh.WPx-tt.w) > 1e-9 || math.Abs(wh.HPx-tt.h) > 1e-9 {
				t.Errorf("WH: got %+v, want (%v, %v)", wh, tt.w, tt.h)
			}
		})
	}
}

func TestQuadWH_Trapezoid(t *testing.T) {
	q := Quad{TL: Pt(10, 0), TR: Pt(90, 0), BR: Pt(100, 100), BL: Pt(0, 100)}
	wh := q.WH()
	if math.Abs(wh.WPx-90) > 1e-9 {
		t.Errorf("WPx: got %v, want 90", wh.WPx)
	}
	wantH := math.Hypot(10, 100)
	if math.Abs(wh.HPx-wantH) > 1e-9 {
		t.Errorf("HPx: got %v, want %v", wh.HPx, wantH)
	}
}

func TestQuadValid(t *testing.T) {
	tests := []struct {
		name string
		q    Quad
		want bool
	}{
		{"healthy", RectQuad(0, 0, 100, 100, SpaceScreen), true},
		{"collapsed width", RectQuad(0, 0, 10, 100, SpaceScreen), false},
		{"collapsed height", RectQuad(0, 0, 100, 10, SpaceScreen), false},
		{"one short side", Quad{TL: Pt(0, 0), TR: Pt(100, 0), BR: Pt(100, 100), BL: Pt(5, 5)}, false},
		{"exact threshold", RectQuad(0, 0, MinSideLength, MinSideLength, SpaceScreen), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Valid(MinSideLength); got != tt.want {
				t.Errorf("Valid: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuadContains(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 100; i++ {
		x, y := rng.Float64()*100, rng.Float64()*100
		w, h := 50+rng.Float64()*100, 50+rng.Float64()*100
		j := func() float64 { return (rng.Float64() - 0.5) * 20 }
		q := Quad{
			TL: Pt(x+j(), y+j()),
			TR: Pt(x+w+j(), y+j()),
			BR: Pt(x+w+j(), y+h+j()),
			BL: Pt(x+j(), y+h+j()),
		}

		if !q.Contains(q.Centroid()) {
			t.Fatalf("centroid %+v reported outside %+v", q.Centroid(), q)
		}
		b := q.Bounds()
		far := Pt(float64(b.Max.X)+500, float64(b.Max.Y)+500)
		if q.Contains(far) {
			t.Fatalf("far point %+v reported inside %+v", far, q)
		}
	}
}

func TestQuadContains_Edges(t *testing.T) {
	q := RectQuad(0, 0, 10, 10, SpaceScreen)

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"corner", Pt(0, 0), true},
		{"edge", Pt(5, 0), true},
		{"diagonal", Pt(5, 5), true},
		{"left of", Pt(-0.5, 5), false},
		{"below", Pt(5, 10.5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := q.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%+v): got %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestQuadBounds(t *testing.T) {
	q := Quad{TL: Pt(1.5, 2.2), TR: Pt(9.1, 2), BR: Pt(10, 8.7), BL: Pt(1, 9)}
	b := q.Bounds()
	if b.Min.X != 1 || b.Min.Y != 2 || b.Max.X != 11 || b.Max.Y != 10 {
		t.Errorf("Bounds: got %v, want (1,2)-(11,10)", b)
	}
}

func TestParseCorner(t *testing.T) {
	for _, name := range []string{"tl", "tr", "br", "bl"} {
		c, ok := ParseCorner(name)
		if !ok {
			t.Fatalf("ParseCorner(%q) failed", name)
		}
		q := RectQuad(0, 0, 10, 10, SpaceScreen).WithCorner(c, Pt(-1, -1))
		if q.Corner(c) != Pt(-1, -1) {
			t.Errorf("WithCorner(%s) did not replace the corner", name)
		}
	}
	if _, ok := ParseCorner("middle"); ok {
		t.Error("ParseCorner should reject unknown names")
	}
}
