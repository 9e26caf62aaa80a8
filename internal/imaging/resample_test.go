package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

func mustMapper(t *testing.T, nativeW, nativeH, detW, viewW, viewH int, mode geom.FitMode) *geom.Mapper {
	t.Helper()
	m, err := geom.NewMapper(nativeW, nativeH, detW, viewW, viewH, mode)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	return m
}

func TestDownsample(t *testing.T) {
	tests := []struct {
		name           string
		w, h, detW     int
		wantW, wantH   int
	}{
		{"halves", 640, 480, 320, 320, 240},
		{"already small", 200, 100, 320, 200, 100},
		{"exact width", 320, 180, 320, 320, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(tt.w, tt.h, color.White)
			m := mustMapper(t, tt.w, tt.h, tt.detW, 0, 0, geom.FitCover)
			got := Downsample(img, m)
			if b := got.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderViewport_Contain(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	img := createInMemoryImage(100, 50, red)
	m := mustMapper(t, 100, 50, 320, 100, 100, geom.FitContain)

	out := RenderViewport(img, m, color.Black)
	if out.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("bounds: got %v", out.Bounds())
	}
	if got := out.RGBAAt(50, 50); got != red {
		t.Errorf("center: got %v, want red", got)
	}
	if got := out.RGBAAt(50, 5); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("letterbox: got %v, want black", got)
	}
	if got := out.RGBAAt(50, 95); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("bottom letterbox: got %v, want black", got)
	}
}

func TestRenderViewport_Cover(t *testing.T) {
	img := createSplitImage(200, 100, color.RGBA{0, 0, 255, 255}, color.RGBA{0, 255, 0, 255})
	m := mustMapper(t, 200, 100, 320, 100, 100, geom.FitCover)

	out := RenderViewport(img, m, color.Black)
	// Cover fills the whole viewport; the split lands at the center column.
	if got := out.RGBAAt(10, 50); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("left: got %v, want blue", got)
	}
	if got := out.RGBAAt(90, 50); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("right: got %v, want green", got)
	}
}

func TestRoundInt(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1.4, 1},
		{1.5, 2},
		{-1.4, -1},
		{-1.5, -2},
	}
	for _, tt := range tests {
		if got := roundInt(tt.in); got != tt.want {
			t.Errorf("roundInt(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
