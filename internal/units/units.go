// Package units converts between the caller's length unit and meters, the
// unit all metric geometry is computed in.
package units

import (
	"fmt"
	"strings"
)

// factors maps a canonical unit name to meters per unit.
var factors = map[string]float64{
	"mm": 0.001,
	"cm": 0.01,
	"m":  1,
	"km": 1000,
	"in": 0.0254,
	"ft": 0.3048,
	"yd": 0.9144,
	"mi": 1609.344,
}

// aliases accepted in config and project metadata.
var aliases = map[string]string{
	"millimeters": "mm",
	"millimetres": "mm",
	"centimeters": "cm",
	"centimetres": "cm",
	"meters":      "m",
	"metres":      "m",
	"kilometers":  "km",
	"kilometres":  "km",
	"inches":      "in",
	"feet":        "ft",
	"yards":       "yd",
	"miles":       "mi",
}

// Normalize returns the canonical short name for a unit string.
func Normalize(unit string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if alias, ok := aliases[u]; ok {
		u = alias
	}
	if _, ok := factors[u]; !ok {
		return "", fmt.Errorf("unknown unit %q", unit)
	}
	return u, nil
}

// ScaleFactor returns meters per one unit. Coordinates computed in meters are
// divided by this factor before being emitted.
func ScaleFactor(unit string) (float64, error) {
	u, err := Normalize(unit)
	if err != nil {
		return 0, err
	}
	return factors[u], nil
}
