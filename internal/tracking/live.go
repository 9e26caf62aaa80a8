package tracking

import (
	"errors"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

// ErrNoQuad is returned when a drag starts before any quad exists.
var ErrNoQuad = errors.New("no live quad to drag")

// Live is the single live quad shown to the user. The detection loop writes
// it through Observe; while a corner drag is active Observe is ignored and
// only DragTo writes. Live performs no locking of its own.
type Live struct {
	smoother *Smoother
	minSide  float64

	quad     geom.Quad
	has      bool
	dragging bool
	corner   geom.Corner
}

// NewLive returns an empty live quad with the given smoothing alpha and
// minimum side length.
func NewLive(alpha, minSide float64) *Live {
	return &Live{smoother: NewSmoother(alpha), minSide: minSide}
}

// Quad returns the current quad and whether one exists.
func (l *Live) Quad() (geom.Quad, bool) {
	return l.quad, l.has
}

// Dragging reports whether a manual drag is in progress.
func (l *Live) Dragging() bool {
	return l.dragging
}

// Set replaces the quad if every side meets the minimum length. A rejected
// quad leaves the previous value in place and reports false.
func (l *Live) Set(q geom.Quad) bool {
	if !q.Valid(l.minSide) {
		return false
	}
	l.quad, l.has = q, true
	return true
}

// Observe feeds a fresh detection through the smoother into the live quad.
// It reports false when the detection was dropped because a drag is active
// or because the smoothed quad collapsed.
func (l *Live) Observe(q geom.Quad) bool {
	if l.dragging {
		return false
	}
	return l.Set(l.smoother.Next(q))
}

// BeginDrag starts moving one corner and pauses Observe.
func (l *Live) BeginDrag(c geom.Corner) error {
	if !l.has {
		return ErrNoQuad
	}
	l.dragging, l.corner = true, c
	return nil
}

// DragTo moves the dragged corner. Positions that would collapse the quad
// are rejected and the previous corner position is kept.
func (l *Live) DragTo(p geom.Point) bool {
	if !l.dragging {
		return false
	}
	return l.Set(l.quad.WithCorner(l.corner, p))
}

// EndDrag finishes the drag. The smoother is re-seeded with the dragged
// quad so resumed detection blends from where the user left it.
func (l *Live) EndDrag() {
	if !l.dragging {
		return
	}
	l.dragging = false
	l.smoother.Seed(l.quad)
}

// Clear drops the quad and the smoothing history.
func (l *Live) Clear() {
	l.quad, l.has = geom.Quad{}, false
	l.dragging = false
	l.smoother.Reset()
}
