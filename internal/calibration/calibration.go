// Package calibration derives a millimetres-per-pixel scale from two points
// placed on a reference object of known length, and persists that scale
// between sessions until the user recalibrates.
package calibration

import (
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

// MinPointSeparation is the smallest pixel distance between the two
// calibration points that still yields a usable scale.
const MinPointSeparation = 1.0

var (
	// ErrInvalidReference is returned for a zero or negative reference length.
	ErrInvalidReference = errors.New("reference length must be positive")

	// ErrPointsTooClose is returned when the calibration points nearly coincide.
	ErrPointsTooClose = errors.New("calibration points are too close together")

	// ErrUnknownPreset is returned by LookupPreset for an unregistered ID.
	ErrUnknownPreset = errors.New("unknown calibration preset")
)

// Preset is a named physical length the user can hold up to the camera.
type Preset struct {
	ID                string  `json:"id"`
	Label             string  `json:"label"`
	ReferenceLengthMm float64 `json:"reference_length_mm"`
}

var presets = []Preset{
	{ID: "card", Label: "Credit card (long edge)", ReferenceLengthMm: 85.6},
	{ID: "a4-short", Label: "A4 sheet (short edge)", ReferenceLengthMm: 210},
	{ID: "a4-long", Label: "A4 sheet (long edge)", ReferenceLengthMm: 297},
	{ID: "ruler-100", Label: "Ruler (100 mm)", ReferenceLengthMm: 100},
}

// Presets returns the built-in reference objects.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a built-in preset by ID.
func LookupPreset(id string) (Preset, error) {
	for _, p := range presets {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, id)
}

// Scale is the result of a calibration session.
type Scale struct {
	MmPerPx      float64   `json:"mm_per_px"`
	PresetID     string    `json:"preset_id,omitempty"`
	DistancePx   float64   `json:"distance_px"`
	CalibratedAt time.Time `json:"calibrated_at"`
}

// ComputeMmPerPx divides the reference length by the pixel distance. It
// reports false when lengthMm <= 0 or distPx <= MinPointSeparation.
func ComputeMmPerPx(lengthMm, distPx float64) (float64, bool) {
	if lengthMm <= 0 || distPx <= MinPointSeparation {
		return 0, false
	}
	return lengthMm / distPx, true
}

// Calibrate computes a Scale from two screen-space points spanning the
// preset's reference length.
func Calibrate(a, b geom.Point, preset Preset) (Scale, error) {
	if preset.ReferenceLengthMm <= 0 {
		return Scale{}, fmt.Errorf("%w: %s has %.2f mm", ErrInvalidReference, preset.ID, preset.ReferenceLengthMm)
	}
	dist := geom.Distance(a, b)
	mmPerPx, ok := ComputeMmPerPx(preset.ReferenceLengthMm, dist)
	if !ok {
		return Scale{}, fmt.Errorf("%w: %.2f px apart", ErrPointsTooClose, dist)
	}
	return Scale{
		MmPerPx:      mmPerPx,
		PresetID:     preset.ID,
		DistancePx:   dist,
		CalibratedAt: time.Now().UTC(),
	}, nil
}

// ToMm converts a pixel length to millimetres.
func (s Scale) ToMm(px float64) float64 {
	return px * s.MmPerPx
}
