package geom

import (
	"fmt"
	"math"
)

// Space identifies the pixel coordinate space a point or quad lives in.
type Space int

const (
	// SpaceNative is the intrinsic resolution of the camera frame or photo.
	SpaceNative Space = iota
	// SpaceDetection is the downsampled buffer the quad detector runs on.
	SpaceDetection
	// SpaceScreen is the viewport the frame is rendered into.
	SpaceScreen
)

// String returns the lower-case name used in tool arguments and logs.
func (s Space) String() string {
	switch s {
	case SpaceNative:
		return "native"
	case SpaceDetection:
		return "detection"
	case SpaceScreen:
		return "screen"
	default:
		return fmt.Sprintf("space(%d)", int(s))
	}
}

// ParseSpace converts "native", "detection" or "screen" to a Space.
func ParseSpace(name string) (Space, error) {
	switch name {
	case "native":
		return SpaceNative, nil
	case "detection":
		return SpaceDetection, nil
	case "screen":
		return SpaceScreen, nil
	default:
		return 0, fmt.Errorf("unknown coordinate space: %s", name)
	}
}

// Point is a sub-pixel coordinate. Its space is implied by the Quad or
// Transform that carries it.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p*k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Lerp moves from p toward q by the fraction t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Cross returns the z component of (b-a) x (c-a).
func Cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// NearlyEqual reports whether p and q agree within tol on both axes.
func NearlyEqual(p, q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// MarshalText encodes the space by name.
func (s Space) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a space name. An empty name leaves s unchanged.
func (s *Space) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return nil
	}
	parsed, err := ParseSpace(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
