package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
	"github.com/ironsheep/door-ar-mcp/internal/imaging"
)

// DefaultDetectWidth is the detection buffer width in pixels.
const DefaultDetectWidth = 320

// defaultDilate closes the one-pixel gaps Canny leaves at corners.
const defaultDilate = 1

// Pipeline turns a native frame into a detection-space quad.
type Pipeline struct {
	Detector    QuadDetector
	DetectWidth int
	EdgeLow     int
	EdgeHigh    int
	Dilate      int
}

// NewPipeline returns a pipeline with default edge thresholds.
func NewPipeline(det QuadDetector, detectWidth int) *Pipeline {
	if detectWidth <= 0 {
		detectWidth = DefaultDetectWidth
	}
	return &Pipeline{
		Detector:    det,
		DetectWidth: detectWidth,
		EdgeLow:     imaging.DefaultEdgeLow,
		EdgeHigh:    imaging.DefaultEdgeHigh,
		Dilate:      defaultDilate,
	}
}

// Detection is the outcome of one pipeline pass.
type Detection struct {
	// Found is false when no candidate passed the filters. Quad and
	// Screen are zero in that case.
	Found bool `json:"found"`

	// Quad is in detection space.
	Quad geom.Quad `json:"quad"`

	// Screen is Quad mapped to the viewport.
	Screen geom.Quad `json:"screen"`

	Mapper *geom.Mapper `json:"-"`
	Edges  *image.Gray  `json:"-"`
}

// Prepare builds the mapper for frame and the viewport, downsamples the
// frame to the detection buffer, and returns its dilated edge map.
func (p *Pipeline) Prepare(frame image.Image, viewW, viewH int, mode geom.FitMode) (*geom.Mapper, *image.Gray, error) {
	b := frame.Bounds()
	m, err := geom.NewMapper(b.Dx(), b.Dy(), p.DetectWidth, viewW, viewH, mode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to map frame: %w", err)
	}

	small := imaging.Downsample(frame, m)
	edges := imaging.EdgeMap(small, p.EdgeLow, p.EdgeHigh)
	if p.Dilate > 0 {
		edges = imaging.Dilate(edges, p.Dilate)
	}
	return m, edges, nil
}

// Detect runs the full pass. A frame without a door is not an error.
func (p *Pipeline) Detect(frame image.Image, viewW, viewH int, mode geom.FitMode) (*Detection, error) {
	if p.Detector == nil {
		return nil, fmt.Errorf("no detector configured")
	}
	m, edges, err := p.Prepare(frame, viewW, viewH, mode)
	if err != nil {
		return nil, err
	}

	det := &Detection{Mapper: m, Edges: edges}
	q, ok := p.Detector.DetectQuad(edges)
	if !ok {
		return det, nil
	}

	screen, err := m.DetectionToScreen().ApplyQuad(q)
	if err != nil {
		return nil, fmt.Errorf("failed to map quad to screen: %w", err)
	}
	det.Found, det.Quad, det.Screen = true, q, screen
	return det, nil
}
