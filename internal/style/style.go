// Package style holds the presentation configuration for generated scenes:
// mesh colors, road widths per highway class, and the vegetation tag subset.
// Values can be overridden from a YAML file; Default mirrors the built-in
// palette.
package style

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Style is the immutable presentation configuration passed into the feature
// pipelines at construction time.
type Style struct {
	// Palette as "#RRGGBB" hex strings in YAML
	BuildingColor  Color `yaml:"building_color"`
	RoadColor      Color `yaml:"road_color"`
	GreenColor     Color `yaml:"green_color"`
	CanopyColor    Color `yaml:"canopy_color"`
	TreeBaseColor  Color `yaml:"tree_base_color"`
	TreeTrunkColor Color `yaml:"tree_trunk_color"`
	BaseColor      Color `yaml:"base_color"`

	// Building heights (meters)
	NominalHeight  float64 `yaml:"nominal_height"`
	MetersPerLevel float64 `yaml:"meters_per_level"`

	// Road half-widths (meters) by highway class; ribbons are offset by the
	// half-width on each side of the centerline
	RoadHalfWidths       map[string]float64 `yaml:"road_half_widths"`
	RoadHalfWidthDefault float64            `yaml:"road_half_width_default"`

	// Flat mesh elevations (meters), slightly staggered to avoid z-fighting
	GreenElevation    float64 `yaml:"green_elevation"`
	RoadElevation     float64 `yaml:"road_elevation"`
	TreeBaseElevation float64 `yaml:"tree_base_elevation"`

	// Tag values treated as green fill polygons, per tag key
	GreenPolygons map[string][]string `yaml:"green_polygons"`
}

// Color is an ARGB-packed color that unmarshals from "#RRGGBB" hex.
type Color int

// UnmarshalYAML parses "#RRGGBB" (or "RRGGBB") into an opaque ARGB value.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimPrefix(strings.TrimSpace(value.Value), "#")
	if len(s) != 6 {
		return fmt.Errorf("color must be RRGGBB hex, got %q", value.Value)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", value.Value, err)
	}
	*c = Color(255<<24 | int(v))
	return nil
}

// MarshalYAML renders the color back as "#RRGGBB".
func (c Color) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("#%06x", int(c)&0xffffff), nil
}

// ARGB returns the packed ARGB integer used in mesh color buffers.
func (c Color) ARGB() int {
	return int(c)
}

func rgb(r, g, b int) Color {
	return Color(255<<24 | r<<16 | g<<8 | b)
}

// Default returns the built-in style.
func Default() *Style {
	return &Style{
		BuildingColor:  rgb(230, 230, 230),
		RoadColor:      rgb(30, 30, 30),
		GreenColor:     rgb(25, 50, 13),
		CanopyColor:    rgb(60, 120, 40),
		TreeBaseColor:  rgb(18, 30, 8),
		TreeTrunkColor: rgb(15, 10, 2),
		BaseColor:      rgb(80, 80, 80),

		NominalHeight:  9,
		MetersPerLevel: 3,

		RoadHalfWidths: map[string]float64{
			"primary":   9,
			"secondary": 6,
		},
		RoadHalfWidthDefault: 2,

		GreenElevation:    0.01,
		RoadElevation:     0.02,
		TreeBaseElevation: 0.025,

		GreenPolygons: map[string][]string{
			"landuse": {"forest", "meadow", "grass"},
			"natural": {"scrub", "grassland"},
			"leisure": {"nature_reserve", "garden", "park", "playground"},
		},
	}
}

// Load reads a style YAML file, applying it over the defaults so partial
// files are valid.
func Load(path string) (*Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style file: %w", err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse style YAML: %w", err)
	}
	return s, nil
}

// HalfWidth returns the ribbon half-width for a highway class.
func (s *Style) HalfWidth(class string) float64 {
	if w, ok := s.RoadHalfWidths[class]; ok {
		return w
	}
	return s.RoadHalfWidthDefault
}

// IsGreenPolygon reports whether key=value names a vegetation fill polygon.
func (s *Style) IsGreenPolygon(key, value string) bool {
	for _, v := range s.GreenPolygons[key] {
		if v == value {
			return true
		}
	}
	return false
}
