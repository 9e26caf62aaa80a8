package geom

import (
	"image"
	"math"
)

// MinSideLength is the default shortest side, in pixels, that a quad may
// have before it is treated as collapsed.
const MinSideLength = 24.0

// Quad is four ordered corners approximating a planar rectangular surface.
type Quad struct {
	TL    Point `json:"tl"`
	TR    Point `json:"tr"`
	BR    Point `json:"br"`
	BL    Point `json:"bl"`
	Space Space `json:"space"`
}

// Corner names one of the four quad corners.
type Corner int

const (
	CornerTL Corner = iota
	CornerTR
	CornerBR
	CornerBL
)

var cornerNames = [...]string{"tl", "tr", "br", "bl"}

func (c Corner) String() string {
	if c < CornerTL || c > CornerBL {
		return "unknown"
	}
	return cornerNames[c]
}

// ParseCorner converts "tl", "tr", "br" or "bl" to a Corner.
func ParseCorner(name string) (Corner, bool) {
	switch name {
	case "tl":
		return CornerTL, true
	case "tr":
		return CornerTR, true
	case "br":
		return CornerBR, true
	case "bl":
		return CornerBL, true
	}
	return 0, false
}

// RectWH is the averaged width and height of a quad.
type RectWH struct {
	WPx float64 `json:"w_px"`
	HPx float64 `json:"h_px"`
}

// OrderCorners arranges four points canonically: TL = argmin(x+y),
// BR = argmax(x+y), TR = argmax(x-y), BL = argmin(x-y).
func OrderCorners(pts [4]Point, space Space) Quad {
	q := Quad{TL: pts[0], TR: pts[0], BR: pts[0], BL: pts[0], Space: space}
	minSum, maxSum := math.Inf(1), math.Inf(-1)
	minDiff, maxDiff := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		sum := p.X + p.Y
		diff := p.X - p.Y
		if sum < minSum {
			minSum, q.TL = sum, p
		}
		if sum > maxSum {
			maxSum, q.BR = sum, p
		}
		if diff > maxDiff {
			maxDiff, q.TR = diff, p
		}
		if diff < minDiff {
			minDiff, q.BL = diff, p
		}
	}
	return q
}

// RectQuad returns the axis-aligned quad for the rectangle (x, y, w, h).
func RectQuad(x, y, w, h float64, space Space) Quad {
	return Quad{
		TL:    Pt(x, y),
		TR:    Pt(x+w, y),
		BR:    Pt(x+w, y+h),
		BL:    Pt(x, y+h),
		Space: space,
	}
}

// Corners returns the corners in TL, TR, BR, BL order.
func (q Quad) Corners() [4]Point {
	return [4]Point{q.TL, q.TR, q.BR, q.BL}
}

// Corner returns a single corner.
func (q Quad) Corner(c Corner) Point {
	return q.Corners()[c]
}

// WithCorner returns a copy of q with one corner replaced.
func (q Quad) WithCorner(c Corner, p Point) Quad {
	switch c {
	case CornerTL:
		q.TL = p
	case CornerTR:
		q.TR = p
	case CornerBR:
		q.BR = p
	case CornerBL:
		q.BL = p
	}
	return q
}

// WH averages the top/bottom side lengths into WPx and the left/right side
// lengths into HPx.
func (q Quad) WH() RectWH {
	top := Distance(q.TL, q.TR)
	bottom := Distance(q.BL, q.BR)
	left := Distance(q.TL, q.BL)
	right := Distance(q.TR, q.BR)
	return RectWH{
		WPx: (top + bottom) / 2,
		HPx: (left + right) / 2,
	}
}

// Valid reports whether every side is at least minSide long. A quad failing
// this check has collapsed along one axis.
func (q Quad) Valid(minSide float64) bool {
	if Distance(q.TL, q.TR) < minSide || Distance(q.BL, q.BR) < minSide {
		return false
	}
	if Distance(q.TL, q.BL) < minSide || Distance(q.TR, q.BR) < minSide {
		return false
	}
	return true
}

// Centroid returns the mean of the four corners.
func (q Quad) Centroid() Point {
	return Point{
		X: (q.TL.X + q.TR.X + q.BR.X + q.BL.X) / 4,
		Y: (q.TL.Y + q.TR.Y + q.BR.Y + q.BL.Y) / 4,
	}
}

// Bounds returns the smallest integer rectangle containing all four corners.
func (q Quad) Bounds() image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range q.Corners() {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
}

// Contains reports whether p lies inside the quad. The quad is split along
// the TL-BR diagonal and p is tested against each triangle with barycentric
// sign tests; points on an edge count as inside.
func (q Quad) Contains(p Point) bool {
	return inTriangle(p, q.TL, q.TR, q.BR) || inTriangle(p, q.TL, q.BR, q.BL)
}

func inTriangle(p, a, b, c Point) bool {
	d1 := Cross(a, b, p)
	d2 := Cross(b, c, p)
	d3 := Cross(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// Map applies fn to every corner and returns the result tagged with space.
func (q Quad) Map(fn func(Point) Point, space Space) Quad {
	return Quad{
		TL:    fn(q.TL),
		TR:    fn(q.TR),
		BR:    fn(q.BR),
		BL:    fn(q.BL),
		Space: space,
	}
}
