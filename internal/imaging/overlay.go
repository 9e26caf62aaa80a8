package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

// Default overlay colors: detected outline and drag handles.
var (
	OutlineColor = color.RGBA{0, 200, 255, 255}
	HandleColor  = color.RGBA{255, 255, 255, 255}
)

// handleRadius is the half-width of the square drawn at each corner.
const handleRadius = 4

// DrawQuadOverlay returns a copy of img with the quad outlined and its four
// corners marked with drag handles. q must already be in img's pixel space.
func DrawQuadOverlay(img image.Image, q geom.Quad, outline color.Color) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	corners := q.Corners()
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%4]
		drawLine(result, a, b, outline)
	}
	for _, c := range corners {
		drawHandle(result, c, HandleColor, outline)
	}
	return result
}

// drawLine rasterizes a segment with Bresenham's algorithm, clipped to the
// image bounds.
func drawLine(img *image.RGBA, a, b geom.Point, c color.Color) {
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	bounds := img.Bounds()
	errv := dx + dy

	for {
		if image.Pt(x0, y0).In(bounds) {
			img.Set(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * errv
		if e2 >= dy {
			errv += dy
			x0 += sx
		}
		if e2 <= dx {
			errv += dx
			y0 += sy
		}
	}
}

// drawHandle draws a filled square with a one-pixel border.
func drawHandle(img *image.RGBA, p geom.Point, fill, border color.Color) {
	cx, cy := int(math.Round(p.X)), int(math.Round(p.Y))
	bounds := img.Bounds()
	for dy := -handleRadius; dy <= handleRadius; dy++ {
		for dx := -handleRadius; dx <= handleRadius; dx++ {
			px, py := cx+dx, cy+dy
			if !image.Pt(px, py).In(bounds) {
				continue
			}
			if abs(dx) == handleRadius || abs(dy) == handleRadius {
				img.Set(px, py, border)
			} else {
				img.Set(px, py, fill)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
