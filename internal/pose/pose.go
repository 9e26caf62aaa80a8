// Package pose synthesizes a door quad from a virtual camera pose instead of
// detecting one in a frame.
package pose

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

// Virtual camera. Equal focal length and distance make an unrotated
// asset at scale 1 project at its natural size.
const (
	Focal    = 1000.0
	Distance = 1000.0
)

// minDepth keeps corners that swing behind the camera from dividing by
// zero or flipping sign.
const minDepth = 1.0

// Params is a pose in degrees plus a uniform scale. A non-positive Scale
// is treated as 1.
type Params struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
	Scale float64 `json:"scale"`
}

// Rotation returns the 3x3 rotation applying pitch about X, then yaw about
// Y, then roll about Z.
func Rotation(p Params) *mat.Dense {
	rx := rotX(p.Pitch * math.Pi / 180)
	ry := rotY(p.Yaw * math.Pi / 180)
	rz := rotZ(p.Roll * math.Pi / 180)

	var zy, r mat.Dense
	zy.Mul(rz, ry)
	r.Mul(&zy, rx)
	return &r
}

// Project places an assetW x assetH asset, rotated by p, centered on a
// canvasW x canvasH canvas. Corners keep the asset's identity: TL is where
// the asset's top-left lands, which is the canonical TL for rolls under 45
// degrees. The quad is in screen space.
func Project(p Params, assetW, assetH, canvasW, canvasH float64) geom.Quad {
	s := p.Scale
	if s <= 0 {
		s = 1
	}
	hw, hh := assetW*s/2, assetH*s/2

	// Columns are TL, TR, BR, BL.
	corners := mat.NewDense(3, 4, []float64{
		-hw, hw, hw, -hw,
		-hh, -hh, hh, hh,
		0, 0, 0, 0,
	})

	var rotated mat.Dense
	rotated.Mul(Rotation(p), corners)

	var pts [4]geom.Point
	for i := range pts {
		x, y, z := rotated.At(0, i), rotated.At(1, i), rotated.At(2, i)
		k := Focal / math.Max(Distance-z, minDepth)
		pts[i] = geom.Pt(x*k+canvasW/2, y*k+canvasH/2)
	}
	return geom.Quad{TL: pts[0], TR: pts[1], BR: pts[2], BL: pts[3], Space: geom.SpaceScreen}
}

func rotX(a float64) *mat.Dense {
	c, s := math.Cos(a), math.Sin(a)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

func rotY(a float64) *mat.Dense {
	c, s := math.Cos(a), math.Sin(a)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

func rotZ(a float64) *mat.Dense {
	c, s := math.Cos(a), math.Sin(a)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}
