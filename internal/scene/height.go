package scene

import (
	"strconv"
	"strings"

	"github.com/paulmach/osm"

	"github.com/wegman-software/osm2scene-go/internal/style"
)

// HeightKind identifies which tag a building height was derived from.
type HeightKind int

const (
	// HeightDefault means no usable tag was found
	HeightDefault HeightKind = iota
	// HeightExplicit comes from the height tag, in meters
	HeightExplicit
	// HeightLevels comes from building:levels
	HeightLevels
	// HeightLayerSign carries only the layer tag's sign (below-grade volumes)
	HeightLayerSign
)

// HeightSource is the resolved origin of a building's extrusion height.
type HeightSource struct {
	Kind  HeightKind
	Value float64
}

// ResolveHeight examines tags in priority order height > building:levels >
// layer, falling through to the default when no tag value parses as a
// number.
func ResolveHeight(tags osm.Tags) HeightSource {
	if v, ok := parseTagNumber(tags.Find("height")); ok {
		return HeightSource{Kind: HeightExplicit, Value: v}
	}
	if v, ok := parseTagNumber(tags.Find("building:levels")); ok {
		return HeightSource{Kind: HeightLevels, Value: v}
	}
	if v, ok := parseTagNumber(tags.Find("layer")); ok {
		return HeightSource{Kind: HeightLayerSign, Value: v}
	}
	return HeightSource{Kind: HeightDefault}
}

// Meters resolves the source to an extrusion height in meters. A negative
// layer inverts the nominal height to a below-grade volume.
func (h HeightSource) Meters(st *style.Style) float64 {
	switch h.Kind {
	case HeightExplicit:
		return h.Value
	case HeightLevels:
		return h.Value * st.MetersPerLevel
	case HeightLayerSign:
		if h.Value < 0 {
			return -st.NominalHeight
		}
		return st.NominalHeight
	default:
		return st.NominalHeight
	}
}

// parseTagNumber parses a numeric tag value. Multi-value tags are cut at the
// first ',' or ';', and trailing non-numeric characters (units like "m") are
// stripped before parsing.
func parseTagNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if i := strings.IndexAny(s, ",;"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)

	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || c == '.' || (c == '-' && end == 0) {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
