// Package homography solves and inverts the 3x3 projective transform that
// maps one planar quadrilateral onto another.
//
// Degenerate input never panics. Solve and Invert always hand back a defined
// matrix (zero-filled for Solve, the unchanged input for Invert) together
// with an error, so a render loop can keep running while callers that care
// can tell a real transform from the fallback.
package homography

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

const (
	// PivotEpsilon is the smallest pivot magnitude accepted during elimination.
	PivotEpsilon = 1e-10

	// DetEpsilon is the smallest determinant magnitude accepted by Invert.
	DetEpsilon = 1e-12
)

var (
	// ErrDegenerate is returned when the correspondences are collinear or
	// otherwise do not determine a unique homography.
	ErrDegenerate = errors.New("degenerate point correspondences")

	// ErrSingular is returned when a matrix has no inverse.
	ErrSingular = errors.New("singular matrix")
)

// Matrix is a row-major 3x3 homography:
//
//	| h0 h1 h2 |
//	| h3 h4 h5 |
//	| h6 h7 h8 |
type Matrix [9]float64

// IdentityMatrix returns the identity homography.
func IdentityMatrix() Matrix {
	return Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Solve computes H such that H maps src[i] onto dst[i] for all four
// correspondences, normalized so h8 = 1. On degenerate input it returns the
// zero matrix and ErrDegenerate.
func Solve(src, dst [4]geom.Point) (Matrix, error) {
	var a [8][8]float64
	var b [8]float64
	for i := 0; i < 4; i++ {
		X, Y := src[i].X, src[i].Y
		x, y := dst[i].X, dst[i].Y
		r := 2 * i

		// x = (h0 X + h1 Y + h2) / (h6 X + h7 Y + 1)
		a[r] = [8]float64{X, Y, 1, 0, 0, 0, -X * x, -Y * x}
		b[r] = x

		// y = (h3 X + h4 Y + h5) / (h6 X + h7 Y + 1)
		a[r+1] = [8]float64{0, 0, 0, X, Y, 1, -X * y, -Y * y}
		b[r+1] = y
	}

	h, ok := solve8(a, b)
	if !ok {
		return Matrix{}, fmt.Errorf("%w: src %v dst %v", ErrDegenerate, src, dst)
	}
	return Matrix{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, nil
}

// FromRect solves the homography from the w x h source rectangle
// (0,0),(w,0),(w,h),(0,h) onto q.
func FromRect(w, h float64, q geom.Quad) (Matrix, error) {
	src := [4]geom.Point{geom.Pt(0, 0), geom.Pt(w, 0), geom.Pt(w, h), geom.Pt(0, h)}
	return Solve(src, q.Corners())
}

// solve8 runs Gauss-Jordan elimination with partial pivoting on an 8x8
// system. It reports false when a pivot falls below PivotEpsilon.
func solve8(a [8][8]float64, b [8]float64) ([8]float64, bool) {
	for col := 0; col < 8; col++ {
		pivot := col
		maxAbs := math.Abs(a[col][col])
		for r := col + 1; r < 8; r++ {
			if v := math.Abs(a[r][col]); v > maxAbs {
				maxAbs, pivot = v, r
			}
		}
		if maxAbs < PivotEpsilon || math.IsNaN(maxAbs) {
			return [8]float64{}, false
		}
		if pivot != col {
			a[col], a[pivot] = a[pivot], a[col]
			b[col], b[pivot] = b[pivot], b[col]
		}

		div := a[col][col]
		for c := col; c < 8; c++ {
			a[col][c] /= div
		}
		b[col] /= div

		for r := 0; r < 8; r++ {
			if r == col {
				continue
			}
			factor := a[r][col]
			if factor == 0 {
				continue
			}
			for c := col; c < 8; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}
	return b, true
}

// Apply maps (x, y) through m. It reports false when the point maps to
// infinity (w close to zero).
func (m Matrix) Apply(x, y float64) (float64, float64, bool) {
	w := m[6]*x + m[7]*y + m[8]
	if math.Abs(w) < DetEpsilon {
		return 0, 0, false
	}
	return (m[0]*x + m[1]*y + m[2]) / w, (m[3]*x + m[4]*y + m[5]) / w, true
}

// ApplyPoint is Apply on a geom.Point.
func (m Matrix) ApplyPoint(p geom.Point) (geom.Point, bool) {
	x, y, ok := m.Apply(p.X, p.Y)
	return geom.Pt(x, y), ok
}

// Det returns the determinant.
func (m Matrix) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Invert returns the inverse via the adjugate and determinant, rescaled so
// the bottom-right element is 1 where possible. A singular matrix is
// returned unchanged with ErrSingular.
func (m Matrix) Invert() (Matrix, error) {
	det := m.Det()
	if math.Abs(det) < DetEpsilon || math.IsNaN(det) {
		return m, fmt.Errorf("%w: det=%g", ErrSingular, det)
	}

	inv := Matrix{
		(m[4]*m[8] - m[5]*m[7]) / det,
		(m[2]*m[7] - m[1]*m[8]) / det,
		(m[1]*m[5] - m[2]*m[4]) / det,
		(m[5]*m[6] - m[3]*m[8]) / det,
		(m[0]*m[8] - m[2]*m[6]) / det,
		(m[2]*m[3] - m[0]*m[5]) / det,
		(m[3]*m[7] - m[4]*m[6]) / det,
		(m[1]*m[6] - m[0]*m[7]) / det,
		(m[0]*m[4] - m[1]*m[3]) / det,
	}
	if math.Abs(inv[8]) > DetEpsilon {
		k := inv[8]
		for i := range inv {
			inv[i] /= k
		}
	}
	return inv, nil
}

// Mul returns m * n, the transform that applies n first and then m.
func (m Matrix) Mul(n Matrix) Matrix {
	var out Matrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m[r*3+k] * n[k*3+c]
			}
			out[r*3+c] = sum
		}
	}
	return out
}

// IsZero reports whether m is the zero-filled fallback returned by Solve.
func (m Matrix) IsZero() bool {
	return m == Matrix{}
}
