//go:build gocv

package detection

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

// OpenCVDetector finds quads with OpenCV's external contour search and
// polygon approximation. It applies the same Filters as ContourDetector.
type OpenCVDetector struct {
	Filters Filters
}

// NewOpenCVDetector returns a detector with DefaultFilters.
func NewOpenCVDetector() *OpenCVDetector {
	return &OpenCVDetector{Filters: DefaultFilters()}
}

// DetectQuad implements QuadDetector.
func (d *OpenCVDetector) DetectQuad(edges *image.Gray) (geom.Quad, bool) {
	mat, err := gocv.ImageGrayToMatGray(edges)
	if err != nil {
		return geom.Quad{}, false
	}
	defer mat.Close()

	contours := gocv.FindContours(mat, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	b := edges.Bounds()
	var pick best
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		eps := d.Filters.ApproxFactor * gocv.ArcLength(c, true)
		approx := gocv.ApproxPolyDP(c, eps, true)
		pts := approx.ToPoints()
		approx.Close()

		poly := make([]geom.Point, len(pts))
		for j, p := range pts {
			poly[j] = geom.Pt(float64(p.X), float64(p.Y))
		}
		if area, ok := d.Filters.accept(poly, b.Dx(), b.Dy()); ok {
			pick.offer(poly, area)
		}
	}

	if !pick.found {
		return geom.Quad{}, false
	}
	return pick.quad, true
}

func defaultDetector() QuadDetector {
	return NewOpenCVDetector()
}
