package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

func TestCaptureRegion(t *testing.T) {
	blue := color.RGBA{0, 0, 255, 255}
	white := color.RGBA{255, 255, 255, 255}
	img := createSplitImage(200, 100, blue, white)
	// 200x100 shown in a 100x50 viewport: screen pixels are 2x2 native pixels.
	m := mustMapper(t, 200, 100, 320, 100, 50, geom.FitCover)

	tests := []struct {
		name         string
		screen       image.Rectangle
		wantW, wantH int
		wantColor    color.NRGBA
	}{
		{"left half", image.Rect(10, 10, 20, 20), 20, 20, color.NRGBA{0, 0, 255, 255}},
		{"right half", image.Rect(60, 5, 90, 45), 60, 80, color.NRGBA{255, 255, 255, 255}},
		{"spills past frame", image.Rect(90, 40, 150, 90), 20, 20, color.NRGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CaptureRegion(img, m, tt.screen)
			if err != nil {
				t.Fatalf("CaptureRegion: %v", err)
			}
			if b := got.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
			if c := got.NRGBAAt(0, 0); c != tt.wantColor {
				t.Errorf("color: got %v, want %v", c, tt.wantColor)
			}
		})
	}
}

func TestCaptureRegion_Invalid(t *testing.T) {
	img := createInMemoryImage(200, 100, color.White)
	m := mustMapper(t, 200, 100, 320, 100, 50, geom.FitCover)

	if _, err := CaptureRegion(img, m, image.Rect(10, 10, 10, 20)); err == nil {
		t.Error("empty selection should fail")
	}
	if _, err := CaptureRegion(img, m, image.Rect(200, 200, 300, 300)); err == nil {
		t.Error("selection outside the frame should fail")
	}
}

func TestCaptureRegion_Letterbox(t *testing.T) {
	img := createInMemoryImage(100, 50, color.White)
	// Contain: frame occupies screen rows 25..75 of a 100x100 viewport.
	m := mustMapper(t, 100, 50, 320, 100, 100, geom.FitContain)

	got, err := CaptureRegion(img, m, image.Rect(0, 0, 100, 100))
	if err != nil {
		t.Fatalf("CaptureRegion: %v", err)
	}
	if b := got.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("letterboxed selection should clamp to frame, got %v", b)
	}
}
