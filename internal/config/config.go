// Package config loads server settings from DOOR_AR_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. DOOR_AR_DETECT_WIDTH.
const Prefix = "DOOR_AR"

type Config struct {
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	DetectWidth       int           `envconfig:"DETECT_WIDTH" default:"320"`
	SmoothAlpha       float64       `envconfig:"SMOOTH_ALPHA" default:"0.2"`
	DetectEveryN      int           `envconfig:"DETECT_EVERY_N" default:"6"`
	RenderInterval    time.Duration `envconfig:"RENDER_INTERVAL" default:"16ms"`
	FirstFrameTimeout time.Duration `envconfig:"FIRST_FRAME_TIMEOUT" default:"5s"`
	ScaleFile         string        `envconfig:"SCALE_FILE" default:"~/.door-ar/scale.json"`
	MinSidePx         float64       `envconfig:"MIN_SIDE_PX" default:"24"`
	EdgeLow           int           `envconfig:"EDGE_LOW" default:"50"`
	EdgeHigh          int           `envconfig:"EDGE_HIGH" default:"150"`
	Sampling          string        `envconfig:"SAMPLING" default:"nearest"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.DetectWidth < 16:
		return fmt.Errorf("invalid %s_DETECT_WIDTH %d: must be at least 16", Prefix, c.DetectWidth)
	case c.SmoothAlpha <= 0 || c.SmoothAlpha > 1:
		return fmt.Errorf("invalid %s_SMOOTH_ALPHA %v: must be within (0,1]", Prefix, c.SmoothAlpha)
	case c.DetectEveryN < 1:
		return fmt.Errorf("invalid %s_DETECT_EVERY_N %d: must be positive", Prefix, c.DetectEveryN)
	case c.RenderInterval <= 0:
		return fmt.Errorf("invalid %s_RENDER_INTERVAL %v: must be positive", Prefix, c.RenderInterval)
	case c.FirstFrameTimeout <= 0:
		return fmt.Errorf("invalid %s_FIRST_FRAME_TIMEOUT %v: must be positive", Prefix, c.FirstFrameTimeout)
	case c.MinSidePx <= 0:
		return fmt.Errorf("invalid %s_MIN_SIDE_PX %v: must be positive", Prefix, c.MinSidePx)
	case c.EdgeLow < 0 || c.EdgeHigh < 1 || c.EdgeHigh > 255 || c.EdgeLow > c.EdgeHigh:
		return fmt.Errorf("invalid edge thresholds %d/%d: need 0 <= low <= high, 1 <= high <= 255", c.EdgeLow, c.EdgeHigh)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// ScalePath returns ScaleFile with a leading "~" expanded to the home
// directory.
func (c *Config) ScalePath() string {
	p := c.ScaleFile
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
