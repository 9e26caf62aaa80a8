package detection

import (
	"image"
	"math"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

// Default candidate limits.
const (
	// ApproxFactor scales the closed arc length into the Douglas-Peucker
	// epsilon.
	ApproxFactor = 0.02

	MinAreaRatio = 0.12
	MaxAreaRatio = 0.94
	MinAspect    = 0.35
	MaxAspect    = 2.9
)

// QuadDetector finds one quadrilateral in a binary edge buffer. The quad is
// returned in detection space with canonical corner order.
type QuadDetector interface {
	DetectQuad(edges *image.Gray) (geom.Quad, bool)
}

// Filters bounds which simplified contours count as a door candidate.
// Area ratios compare the candidate's bounding box to the frame area.
type Filters struct {
	ApproxFactor float64 `json:"approx_factor"`
	MinAreaRatio float64 `json:"min_area_ratio"`
	MaxAreaRatio float64 `json:"max_area_ratio"`
	MinAspect    float64 `json:"min_aspect"`
	MaxAspect    float64 `json:"max_aspect"`
}

// DefaultFilters returns the standard door-frame limits.
func DefaultFilters() Filters {
	return Filters{
		ApproxFactor: ApproxFactor,
		MinAreaRatio: MinAreaRatio,
		MaxAreaRatio: MaxAreaRatio,
		MinAspect:    MinAspect,
		MaxAspect:    MaxAspect,
	}
}

// accept reports whether poly passes the filters for a frameW x frameH
// buffer, and returns its bounding-box area for ranking.
func (f Filters) accept(poly []geom.Point, frameW, frameH int) (float64, bool) {
	if len(poly) != 4 || frameW <= 0 || frameH <= 0 {
		return 0, false
	}
	if !isConvex(poly) {
		return 0, false
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return 0, false
	}

	area := w * h
	ratio := area / float64(frameW*frameH)
	if ratio < f.MinAreaRatio || ratio > f.MaxAreaRatio {
		return 0, false
	}
	aspect := w / h
	if aspect < f.MinAspect || aspect > f.MaxAspect {
		return 0, false
	}
	return area, true
}

// isConvex reports whether every turn of the closed polygon has the same
// non-zero orientation.
func isConvex(poly []geom.Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		c := geom.Cross(poly[i], poly[(i+1)%n], poly[(i+2)%n])
		s := 0
		switch {
		case c > 0:
			s = 1
		case c < 0:
			s = -1
		default:
			return false
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return true
}

// best keeps the largest accepted candidate seen so far.
type best struct {
	area  float64
	quad  geom.Quad
	found bool
}

func (b *best) offer(poly []geom.Point, area float64) {
	if b.found && area <= b.area {
		return
	}
	b.area = area
	b.quad = geom.OrderCorners([4]geom.Point{poly[0], poly[1], poly[2], poly[3]}, geom.SpaceDetection)
	b.found = true
}
