// Package measure turns a confirmed quad into the measurement record handed
// to the rest of the application, either as query parameters or as a JSON
// file.
package measure

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ironsheep/door-ar-mcp/internal/calibration"
	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

// Result is the measurement handoff record. The millimetre fields are nil
// when no calibration exists.
type Result struct {
	Quad     geom.Quad `json:"quad"`
	WidthPx  float64   `json:"widthPx"`
	HeightPx float64   `json:"heightPx"`
	WidthMm  *float64  `json:"widthMm,omitempty"`
	HeightMm *float64  `json:"heightMm,omitempty"`
	MmPerPx  *float64  `json:"mmPerPx,omitempty"`
}

// New measures q. A nil or non-positive scale leaves the millimetre fields
// empty.
func New(q geom.Quad, scale *calibration.Scale) Result {
	wh := q.WH()
	r := Result{Quad: q, WidthPx: wh.WPx, HeightPx: wh.HPx}
	if scale != nil && scale.MmPerPx > 0 {
		w, h, k := scale.ToMm(wh.WPx), scale.ToMm(wh.HPx), scale.MmPerPx
		r.WidthMm, r.HeightMm, r.MmPerPx = &w, &h, &k
	}
	return r
}

// QueryValues encodes the result for a follow-on page's query string.
// Corners are "x,y" pairs; lengths have two decimals.
func (r Result) QueryValues() url.Values {
	v := url.Values{}
	v.Set("widthPx", formatFloat(r.WidthPx))
	v.Set("heightPx", formatFloat(r.HeightPx))
	if r.WidthMm != nil {
		v.Set("widthMm", formatFloat(*r.WidthMm))
	}
	if r.HeightMm != nil {
		v.Set("heightMm", formatFloat(*r.HeightMm))
	}
	if r.MmPerPx != nil {
		v.Set("mmPerPx", strconv.FormatFloat(*r.MmPerPx, 'f', -1, 64))
	}
	for _, c := range []geom.Corner{geom.CornerTL, geom.CornerTR, geom.CornerBR, geom.CornerBL} {
		p := r.Quad.Corner(c)
		v.Set(c.String(), formatFloat(p.X)+","+formatFloat(p.Y))
	}
	return v
}

// Save writes the result as indented JSON, creating parent directories.
func (r Result) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode measurement: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create measurement directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write measurement: %w", err)
	}
	return nil
}

// Load reads a result written by Save.
func Load(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read measurement: %w", err)
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("failed to decode measurement: %w", err)
	}
	return r, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
