package config

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/wegman-software/osm2scene-go/internal/units"
)

// Config holds the global configuration for a scene generation run
type Config struct {
	// Project anchor (required)
	Lat float64 // anchor latitude in degrees
	Lon float64 // anchor longitude in degrees

	// Query settings
	RadiusMeters float64 // circular region radius around the anchor
	OverpassURL  string  // Overpass API endpoint

	// Scene settings
	TrueNorthRad float64 // rotation aligning project frame to geodetic north
	Units        string  // output length unit (m, ft, ...)
	BasePlane    bool    // emit the square ground plane mesh

	// Output settings
	OutputDir string
	StyleFile string // path to style YAML (palette, road widths); empty = defaults

	// Processing settings
	Workers int
	Seed    int64 // RNG seed for vegetation placement; 0 = time-based

	// Logging and metrics
	Verbose         bool
	LogFile         string        // path to log file (empty = no file logging)
	MetricsInterval time.Duration // interval for system metrics logging
}

// DefaultConfig returns a configuration with sensible defaults.
// The anchor is intentionally unset and must be provided by the caller.
func DefaultConfig() *Config {
	return &Config{
		Lat:             math.NaN(),
		Lon:             math.NaN(),
		RadiusMeters:    500,
		OverpassURL:     "https://overpass-api.de/api/interpreter",
		Units:           "m",
		BasePlane:       true,
		OutputDir:       "./scene_out",
		Workers:         runtime.NumCPU(),
		MetricsInterval: 30 * time.Second,
	}
}

// Validate checks that the configuration is valid.
// A missing or out-of-range anchor is fatal to the whole run.
func (c *Config) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return fmt.Errorf("project anchor is required: set both --lat and --lon")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("anchor latitude %f out of range [-90, 90]", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("anchor longitude %f out of range [-180, 180]", c.Lon)
	}
	if c.RadiusMeters < 50 || c.RadiusMeters > 1000 {
		return fmt.Errorf("radius must be between 50 and 1000 meters, got %f", c.RadiusMeters)
	}
	if _, err := units.ScaleFactor(c.Units); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}
