package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

// Downsample shrinks a native frame to the detection buffer described by m.
// Frames already at or below the detection width are returned as an NRGBA
// copy at their original size.
func Downsample(img image.Image, m *geom.Mapper) *image.NRGBA {
	if m.DetW >= img.Bounds().Dx() {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, m.DetW, m.DetH, imaging.Linear)
}

// RenderViewport draws a native frame into a ViewW x ViewH canvas the way
// the viewport shows it: scaled by the mapper's fit mode and centered, with
// the letterbox (contain) filled by background.
func RenderViewport(img image.Image, m *geom.Mapper, background color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, m.ViewW, m.ViewH))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)

	tr := m.NativeToScreen()
	sb := img.Bounds()
	tl := tr.Apply(geom.Pt(0, 0))
	br := tr.Apply(geom.Pt(float64(m.NativeW), float64(m.NativeH)))
	dr := image.Rect(roundInt(tl.X), roundInt(tl.Y), roundInt(br.X), roundInt(br.Y))

	xdraw.ApproxBiLinear.Scale(dst, dr, img, sb, xdraw.Over, nil)
	return dst
}

func roundInt(v float64) int {
	if v < 0 {
		return -int(-v + 0.5)
	}
	return int(v + 0.5)
}
