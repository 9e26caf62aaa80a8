package geom

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrSpaceMismatch is returned when a quad is mapped by a transform that
// does not start in the quad's space.
var ErrSpaceMismatch = errors.New("coordinate space mismatch")

// FitMode is the policy used to render a native frame into a viewport with a
// different aspect ratio.
type FitMode int

const (
	// FitCover fills the viewport and crops the overflow, centered.
	FitCover FitMode = iota
	// FitContain shows the whole frame and letterboxes the remainder, centered.
	FitContain
)

// String returns "cover" or "contain".
func (m FitMode) String() string {
	if m == FitContain {
		return "contain"
	}
	return "cover"
}

// ParseFitMode converts "cover" or "contain" to a FitMode. An empty string
// selects FitCover.
func ParseFitMode(name string) (FitMode, error) {
	switch name {
	case "", "cover":
		return FitCover, nil
	case "contain":
		return FitContain, nil
	default:
		return 0, fmt.Errorf("unknown fit mode: %s", name)
	}
}

// Transform is an axis-aligned scale followed by a translation from one
// coordinate space to another: p' = p*scale + offset.
type Transform struct {
	From    Space
	To      Space
	ScaleX  float64
	ScaleY  float64
	OffsetX float64
	OffsetY float64
}

// Identity returns the identity transform on a single space.
func Identity(s Space) Transform {
	return Transform{From: s, To: s, ScaleX: 1, ScaleY: 1}
}

// Apply maps a point from t.From to t.To.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: p.X*t.ScaleX + t.OffsetX,
		Y: p.Y*t.ScaleY + t.OffsetY,
	}
}

// ApplyQuad maps every corner of q, which must be tagged with t.From.
func (t Transform) ApplyQuad(q Quad) (Quad, error) {
	if q.Space != t.From {
		return Quad{}, fmt.Errorf("%w: quad is %s, transform expects %s", ErrSpaceMismatch, q.Space, t.From)
	}
	return q.Map(t.Apply, t.To), nil
}

// Inverse returns the transform from t.To back to t.From.
func (t Transform) Inverse() Transform {
	return Transform{
		From:    t.To,
		To:      t.From,
		ScaleX:  1 / t.ScaleX,
		ScaleY:  1 / t.ScaleY,
		OffsetX: -t.OffsetX / t.ScaleX,
		OffsetY: -t.OffsetY / t.ScaleY,
	}
}

// Then composes t with next, producing a transform that applies t first.
// next.From must equal t.To.
func (t Transform) Then(next Transform) (Transform, error) {
	if t.To != next.From {
		return Transform{}, fmt.Errorf("%w: cannot chain %s->%s with %s->%s",
			ErrSpaceMismatch, t.From, t.To, next.From, next.To)
	}
	return Transform{
		From:    t.From,
		To:      next.To,
		ScaleX:  t.ScaleX * next.ScaleX,
		ScaleY:  t.ScaleY * next.ScaleY,
		OffsetX: t.OffsetX*next.ScaleX + next.OffsetX,
		OffsetY: t.OffsetY*next.ScaleY + next.OffsetY,
	}, nil
}

// Fit returns the native->screen transform for a nativeW x nativeH frame
// shown in a viewW x viewH viewport. Cover uses the larger of the two axis
// ratios and crops; contain uses the smaller and letterboxes. Either way the
// frame is centered.
func Fit(nativeW, nativeH, viewW, viewH float64, mode FitMode) Transform {
	sx := viewW / nativeW
	sy := viewH / nativeH
	s := math.Max(sx, sy)
	if mode == FitContain {
		s = math.Min(sx, sy)
	}
	return Transform{
		From:    SpaceNative,
		To:      SpaceScreen,
		ScaleX:  s,
		ScaleY:  s,
		OffsetX: (viewW - nativeW*s) / 2,
		OffsetY: (viewH - nativeH*s) / 2,
	}
}

// Downscale returns the native->detection transform for a working buffer
// detW pixels wide, plus the buffer height that preserves the aspect ratio.
// A detW at or above nativeW yields the identity scale.
func Downscale(nativeW, nativeH float64, detW int) (Transform, int) {
	s := 1.0
	if detW > 0 && float64(detW) < nativeW {
		s = float64(detW) / nativeW
	}
	h := int(math.Round(nativeH * s))
	if h < 1 {
		h = 1
	}
	return Transform{
		From:   SpaceNative,
		To:     SpaceDetection,
		ScaleX: s,
		ScaleY: s,
	}, h
}

// Mapper bundles the three spaces of one frame/viewport pairing.
type Mapper struct {
	NativeW, NativeH int
	DetW, DetH       int
	ViewW, ViewH     int
	Mode             FitMode

	toDetection Transform
	toScreen    Transform
}

// NewMapper builds a mapper for a native frame, a detection buffer detW wide
// and a viewport. A zero viewport is treated as the native size.
func NewMapper(nativeW, nativeH, detW, viewW, viewH int, mode FitMode) (*Mapper, error) {
	if nativeW <= 0 || nativeH <= 0 {
		return nil, fmt.Errorf("invalid native size %dx%d", nativeW, nativeH)
	}
	if viewW <= 0 || viewH <= 0 {
		viewW, viewH = nativeW, nativeH
	}
	toDet, detH := Downscale(float64(nativeW), float64(nativeH), detW)
	m := &Mapper{
		NativeW:     nativeW,
		NativeH:     nativeH,
		DetW:        int(math.Round(float64(nativeW) * toDet.ScaleX)),
		DetH:        detH,
		ViewW:       viewW,
		ViewH:       viewH,
		Mode:        mode,
		toDetection: toDet,
		toScreen:    Fit(float64(nativeW), float64(nativeH), float64(viewW), float64(viewH), mode),
	}
	return m, nil
}

// NativeToDetection returns the native->detection transform.
func (m *Mapper) NativeToDetection() Transform {
	return m.toDetection
}

// NativeToScreen returns the native->screen transform.
func (m *Mapper) NativeToScreen() Transform {
	return m.toScreen
}

// DetectionToScreen returns the detection->screen transform used to place
// detected quads on the viewport.
func (m *Mapper) DetectionToScreen() Transform {
	t, _ := m.toDetection.Inverse().Then(m.toScreen)
	return t
}

// ScreenToNative returns the screen->native transform used to capture the
// native-resolution region behind a screen selection.
func (m *Mapper) ScreenToNative() Transform {
	return m.toScreen.Inverse()
}

// Between returns the transform from one space to another.
func (m *Mapper) Between(from, to Space) Transform {
	toNative := map[Space]Transform{
		SpaceNative:    Identity(SpaceNative),
		SpaceDetection: m.toDetection.Inverse(),
		SpaceScreen:    m.toScreen.Inverse(),
	}
	fromNative := map[Space]Transform{
		SpaceNative:    Identity(SpaceNative),
		SpaceDetection: m.toDetection,
		SpaceScreen:    m.toScreen,
	}
	t, _ := toNative[from].Then(fromNative[to])
	return t
}

// ScreenRectToNative maps a screen-space rectangle to the native pixels
// behind it, clamped to the native frame.
func (m *Mapper) ScreenRectToNative(r image.Rectangle) image.Rectangle {
	inv := m.ScreenToNative()
	a := inv.Apply(Pt(float64(r.Min.X), float64(r.Min.Y)))
	b := inv.Apply(Pt(float64(r.Max.X), float64(r.Max.Y)))
	out := image.Rect(
		int(math.Floor(a.X)), int(math.Floor(a.Y)),
		int(math.Ceil(b.X)), int(math.Ceil(b.Y)),
	)
	return out.Intersect(image.Rect(0, 0, m.NativeW, m.NativeH))
}

// VisibleNative returns the native-space rectangle visible in the viewport.
// For contain this is the whole frame; for cover it is the centered crop.
func (m *Mapper) VisibleNative() image.Rectangle {
	return m.ScreenRectToNative(image.Rect(0, 0, m.ViewW, m.ViewH))
}
