package composite

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
	"github.com/ironsheep/door-ar-mcp/internal/homography"
	"github.com/ironsheep/door-ar-mcp/internal/imaging"
)

// Sampling selects how source pixels are read.
type Sampling int

const (
	// SamplingNearest reads the single source pixel under the mapped point.
	SamplingNearest Sampling = iota
	// SamplingBilinear interpolates the four nearest source pixels.
	SamplingBilinear
)

func (s Sampling) String() string {
	if s == SamplingBilinear {
		return "bilinear"
	}
	return "nearest"
}

// ParseSampling parses "nearest" or "bilinear". Empty means nearest.
func ParseSampling(name string) (Sampling, error) {
	switch name {
	case "", "nearest":
		return SamplingNearest, nil
	case "bilinear":
		return SamplingBilinear, nil
	default:
		return SamplingNearest, fmt.Errorf("unknown sampling mode %q", name)
	}
}

// Options controls blending. Opacity multiplies the source alpha and is
// clamped to [0,1]; the zero value draws nothing.
type Options struct {
	Opacity  float64
	Sampling Sampling
}

// DefaultOptions is fully opaque nearest-neighbour sampling.
func DefaultOptions() Options {
	return Options{Opacity: 1, Sampling: SamplingNearest}
}

// PointInQuad reports whether p lies in q, edges included.
func PointInQuad(p geom.Point, q geom.Quad) bool {
	return q.Contains(p)
}

// Warp blends src into dst inside quad. quad must be in dst's pixel space
// with its corners matching the source's TL, TR, BR, BL. The RGB channels
// of dst are blended with effective alpha srcA*opacity; dst alpha is left
// unchanged, so dst is expected to be opaque.
func Warp(dst *image.RGBA, src image.Image, quad geom.Quad, opts Options) error {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()

	h, err := homography.FromRect(float64(sw), float64(sh), quad)
	if err != nil {
		return fmt.Errorf("failed to solve homography: %w", err)
	}
	inv, err := h.Invert()
	if err != nil {
		return fmt.Errorf("failed to invert homography: %w", err)
	}

	opacity := math.Max(0, math.Min(1, opts.Opacity))
	if opacity == 0 {
		return nil
	}

	sample := sampleNearest
	if opts.Sampling == SamplingBilinear {
		sample = sampleBilinear
	}

	r := quad.Bounds().Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cx, cy := float64(x)+0.5, float64(y)+0.5
			if !quad.Contains(geom.Pt(cx, cy)) {
				continue
			}
			sx, sy, ok := inv.Apply(cx, cy)
			if !ok || sx < 0 || sy < 0 || sx >= float64(sw) || sy >= float64(sh) {
				continue
			}

			c := sample(src, sb, sx, sy)
			a := float64(c.A) / 255 * opacity
			if a <= 0 {
				continue
			}

			d := dst.RGBAAt(x, y)
			d.R = blendChannel(c.R, d.R, a)
			d.G = blendChannel(c.G, d.G, a)
			d.B = blendChannel(c.B, d.B, a)
			dst.SetRGBA(x, y, d)
		}
	}
	return nil
}

// Composite copies background and warps asset onto it.
func Composite(background, asset image.Image, quad geom.Quad, opts Options) (*image.RGBA, error) {
	dst := clone.AsRGBA(background)
	if err := Warp(dst, asset, quad, opts); err != nil {
		return nil, err
	}
	return dst, nil
}

// EncodePNG encodes a composited raster as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	return imaging.EncodePNG(img)
}

func blendChannel(src, dst uint8, a float64) uint8 {
	v := float64(src)*a + float64(dst)*(1-a)
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// sampleNearest reads the pixel containing (sx, sy), in source-local
// coordinates.
func sampleNearest(src image.Image, sb image.Rectangle, sx, sy float64) color.NRGBA {
	return nrgbaAt(src, sb.Min.X+int(sx), sb.Min.Y+int(sy))
}

// sampleBilinear interpolates between the four pixel centers around
// (sx, sy), clamping at the source edges.
func sampleBilinear(src image.Image, sb image.Rectangle, sx, sy float64) color.NRGBA {
	fx, fy := sx-0.5, sy-0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	maxX, maxY := sb.Dx()-1, sb.Dy()-1
	x1, y1 := clampInt(x0+1, 0, maxX), clampInt(y0+1, 0, maxY)
	x0, y0 = clampInt(x0, 0, maxX), clampInt(y0, 0, maxY)

	c00 := nrgbaAt(src, sb.Min.X+x0, sb.Min.Y+y0)
	c10 := nrgbaAt(src, sb.Min.X+x1, sb.Min.Y+y0)
	c01 := nrgbaAt(src, sb.Min.X+x0, sb.Min.Y+y1)
	c11 := nrgbaAt(src, sb.Min.X+x1, sb.Min.Y+y1)

	w00, w10 := (1-tx)*(1-ty), tx*(1-ty)
	w01, w11 := (1-tx)*ty, tx*ty
	a := float64(c00.A)*w00 + float64(c10.A)*w10 + float64(c01.A)*w01 + float64(c11.A)*w11
	if a <= 0 {
		return color.NRGBA{}
	}
	// Weight colors by coverage so transparent texels don't bleed.
	lerp := func(c0, c1, c2, c3 uint8) uint8 {
		v := float64(c0)*float64(c00.A)*w00 + float64(c1)*float64(c10.A)*w10 +
			float64(c2)*float64(c01.A)*w01 + float64(c3)*float64(c11.A)*w11
		return uint8(math.Max(0, math.Min(255, math.Round(v/a))))
	}
	return color.NRGBA{
		R: lerp(c00.R, c10.R, c01.R, c11.R),
		G: lerp(c00.G, c10.G, c01.G, c11.G),
		B: lerp(c00.B, c10.B, c01.B, c11.B),
		A: uint8(math.Max(0, math.Min(255, math.Round(a)))),
	}
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n.NRGBAAt(x, y)
	}
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
