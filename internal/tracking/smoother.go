// Package tracking holds the live quad and smooths noisy per-frame
// detections with an exponential moving average.
package tracking

import "github.com/ironsheep/door-ar-mcp/internal/geom"

// DefaultAlpha is the blend factor applied to each new detection. Higher is
// snappier, lower is smoother and laggier.
const DefaultAlpha = 0.2

// EMAQuad blends each corner of next into prev: prev + (next-prev)*alpha.
// alpha is clamped to [0, 1]; alpha=1 returns next and alpha=0 returns prev.
// The result carries next's space.
func EMAQuad(prev, next geom.Quad, alpha float64) geom.Quad {
	switch {
	case alpha <= 0:
		prev.Space = next.Space
		return prev
	case alpha >= 1:
		return next
	}
	return geom.Quad{
		TL:    prev.TL.Lerp(next.TL, alpha),
		TR:    prev.TR.Lerp(next.TR, alpha),
		BR:    prev.BR.Lerp(next.BR, alpha),
		BL:    prev.BL.Lerp(next.BL, alpha),
		Space: next.Space,
	}
}

// Smoother applies EMAQuad across a stream of detections.
type Smoother struct {
	Alpha float64

	prev geom.Quad
	has  bool
}

// NewSmoother returns a smoother with the given alpha. Pass 1 to disable
// smoothing entirely.
func NewSmoother(alpha float64) *Smoother {
	return &Smoother{Alpha: alpha}
}

// Next folds a detection into the running average and returns the smoothed
// quad. The first detection after construction or Reset passes through.
// A detection in a different space from the running average restarts it.
func (s *Smoother) Next(q geom.Quad) geom.Quad {
	if !s.has || s.prev.Space != q.Space {
		s.prev, s.has = q, true
		return q
	}
	s.prev = EMAQuad(s.prev, q, s.Alpha)
	return s.prev
}

// Seed replaces the running average, e.g. after the user drags a corner.
func (s *Smoother) Seed(q geom.Quad) {
	s.prev, s.has = q, true
}

// Reset forgets the running average.
func (s *Smoother) Reset() {
	s.prev, s.has = geom.Quad{}, false
}
