package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestEdgeMap_VerticalStep(t *testing.T) {
	img := createSplitImage(40, 40, color.Black, color.White)
	edges := EdgeMap(img, DefaultEdgeLow, DefaultEdgeHigh)

	if edges.Bounds() != image.Rect(0, 0, 40, 40) {
		t.Fatalf("bounds: got %v", edges.Bounds())
	}

	row := 20
	found := false
	for x := 16; x <= 24; x++ {
		if edges.GrayAt(x, row).Y == 255 {
			found = true
		}
	}
	if !found {
		t.Error("expected an edge pixel near the step at x=20")
	}
	for _, x := range []int{2, 8, 32, 37} {
		if edges.GrayAt(x, row).Y != 0 {
			t.Errorf("unexpected edge at flat region x=%d", x)
		}
	}
}

func TestEdgeMap_Uniform(t *testing.T) {
	edges := EdgeMap(createInMemoryImage(30, 30, color.Gray{128}), DefaultEdgeLow, DefaultEdgeHigh)
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			if edges.GrayAt(x, y).Y != 0 {
				t.Fatalf("uniform image produced edge at (%d,%d)", x, y)
			}
		}
	}
}

func TestEdgeMap_OffsetBoundsAndTinyImage(t *testing.T) {
	src := createSplitImage(20, 20, color.Black, color.White)
	sub := src.SubImage(image.Rect(4, 4, 16, 16))
	edges := EdgeMap(sub, DefaultEdgeLow, DefaultEdgeHigh)
	if edges.Bounds() != image.Rect(0, 0, 12, 12) {
		t.Errorf("sub-image bounds should be rebased to origin, got %v", edges.Bounds())
	}

	tiny := EdgeMap(createInMemoryImage(2, 2, color.White), DefaultEdgeLow, DefaultEdgeHigh)
	if tiny.Bounds().Dx() != 2 || tiny.Bounds().Dy() != 2 {
		t.Errorf("tiny image bounds: got %v", tiny.Bounds())
	}
}

func TestDilate(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 11, 11))
	src.SetGray(5, 5, color.Gray{255})

	tests := []struct {
		iterations int
		set        []image.Point
		unset      []image.Point
	}{
		{0, []image.Point{{5, 5}}, []image.Point{{4, 5}}},
		{1, []image.Point{{4, 4}, {6, 6}, {5, 6}}, []image.Point{{3, 5}, {7, 7}}},
		{2, []image.Point{{3, 3}, {7, 7}}, []image.Point{{2, 5}, {8, 8}}},
	}

	for _, tt := range tests {
		got := Dilate(src, tt.iterations)
		for _, p := range tt.set {
			if got.GrayAt(p.X, p.Y).Y != 255 {
				t.Errorf("iterations=%d: %v should be set", tt.iterations, p)
			}
		}
		for _, p := range tt.unset {
			if got.GrayAt(p.X, p.Y).Y != 0 {
				t.Errorf("iterations=%d: %v should be clear", tt.iterations, p)
			}
		}
	}

	if src.GrayAt(4, 4).Y != 0 {
		t.Error("Dilate must not modify its input")
	}

	corner := image.NewGray(image.Rect(0, 0, 3, 3))
	corner.SetGray(0, 0, color.Gray{255})
	if Dilate(corner, 1).GrayAt(1, 1).Y != 255 {
		t.Error("dilation at the border should still grow inward")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := clamp(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
