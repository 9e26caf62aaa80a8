// Package layer prepares a door asset before warping: glass infill behind
// the frame, the frame itself, and an optional tint on the frame only.
package layer

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/anthonynsimon/bild/blend"
	dimaging "github.com/disintegration/imaging"

	"github.com/ironsheep/door-ar-mcp/internal/imaging"
)

// Glass is the infill style drawn behind the frame.
type Glass string

const (
	GlassClear  Glass = "clear"
	GlassSatin  Glass = "satin"
	GlassDark   Glass = "dark"
	GlassBronze Glass = "bronze"
	GlassFluted Glass = "fluted"
)

// FluteSpacing is the stripe period of fluted glass in pixels.
const FluteSpacing = 8

const fluteWidth = 2

// DefaultFrameColor leaves the frame untinted.
const DefaultFrameColor = "#ffffff"

type glassStyle struct {
	hex   string
	alpha float64
}

var glassStyles = map[Glass]glassStyle{
	GlassClear:  {"#e6f2fa", 0.25},
	GlassSatin:  {"#f5f5f5", 0.70},
	GlassDark:   {"#2b2f33", 0.60},
	GlassBronze: {"#8c6a43", 0.50},
	GlassFluted: {"#e6f2fa", 0.35},
}

var fluteStripe = glassStyle{"#ffffff", 0.55}

// ParseGlass maps a style name to a Glass. Unknown names fall back to clear.
func ParseGlass(name string) Glass {
	g := Glass(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := glassStyles[g]; ok {
		return g
	}
	return GlassClear
}

// Glasses lists the supported styles.
func Glasses() []Glass {
	return []Glass{GlassClear, GlassSatin, GlassDark, GlassBronze, GlassFluted}
}

// Config describes how to texture an asset. Opacity is not applied here;
// it is carried to the compositor.
type Config struct {
	AssetID    string  `json:"asset_id"`
	FrameColor string  `json:"frame_color"`
	Glass      Glass   `json:"glass"`
	Opacity    float64 `json:"opacity"`
}

// Compose returns a raster the size of frame: glass fill, then the frame
// drawn over it. A FrameColor other than white multiplies the frame's
// colors and is masked to the frame's own alpha, so glass is never tinted.
func Compose(frame image.Image, cfg Config) (*image.NRGBA, error) {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("invalid frame raster: %dx%d", w, h)
	}

	glass := ParseGlass(string(cfg.Glass))
	fill, err := styleColor(glassStyles[glass])
	if err != nil {
		return nil, err
	}
	canvas := dimaging.New(w, h, fill)
	if glass == GlassFluted {
		stripe, err := styleColor(fluteStripe)
		if err != nil {
			return nil, err
		}
		canvas = drawFlutes(canvas, stripe)
	}

	top := dimaging.Clone(frame)
	if tint := strings.TrimSpace(cfg.FrameColor); tint != "" && !strings.EqualFold(tint, DefaultFrameColor) {
		top, err = tintFrame(top, tint)
		if err != nil {
			return nil, err
		}
	}

	return dimaging.Overlay(canvas, top, image.Pt(0, 0), 1.0), nil
}

// tintFrame multiplies frame's straight colors by a solid tint and restores
// frame's alpha. The multiply runs on an opaque copy so partially
// transparent pixels are not darkened by premultiplication.
func tintFrame(frame *image.NRGBA, hex string) (*image.NRGBA, error) {
	c, err := imaging.ParseColor(hex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse frame color: %w", err)
	}
	b := frame.Bounds()
	opaque := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := frame.NRGBAAt(x, y)
			p.A = 255
			opaque.SetNRGBA(x, y, p)
		}
	}
	solid := dimaging.New(b.Dx(), b.Dy(), c)
	multiplied := blend.Multiply(opaque, solid)
	mb := multiplied.Bounds()

	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := frame.NRGBAAt(x, y).A
			if a == 0 {
				continue
			}
			m := color.NRGBAModel.Convert(multiplied.At(mb.Min.X+x-b.Min.X, mb.Min.Y+y-b.Min.Y)).(color.NRGBA)
			m.A = a
			out.SetNRGBA(x, y, m)
		}
	}
	return out, nil
}

// drawFlutes blends vertical stripes over canvas.
func drawFlutes(canvas *image.NRGBA, stripe color.NRGBA) *image.NRGBA {
	b := canvas.Bounds()
	stripes := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if (x-b.Min.X)%FluteSpacing < fluteWidth {
				stripes.SetNRGBA(x, y, stripe)
			}
		}
	}
	return dimaging.Overlay(canvas, stripes, b.Min, 1.0)
}

func styleColor(s glassStyle) (color.NRGBA, error) {
	c, err := imaging.ParseColor(s.hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	return imaging.WithAlpha(c, s.alpha), nil
}
