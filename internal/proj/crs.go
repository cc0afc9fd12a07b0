// Package proj implements the local tangent-plane coordinate system used for
// all metric geometry: a transverse Mercator projection on the WGS84
// ellipsoid, centered at the project anchor so the anchor projects to (0,0).
package proj

import (
	"fmt"
	"math"
)

// WGS84 ellipsoid constants
const (
	semiMajor    = 6378137.0
	flattening   = 1.0 / 298.257223563
	scaleCentral = 1.0 // k0 for a custom tangent projection
)

var (
	e2  = flattening * (2 - flattening) // first eccentricity squared
	ep2 = e2 / (1 - e2)                 // second eccentricity squared
)

// BBox is a geographic bounding box in degrees.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// LocalCRS is a transverse Mercator plane centered at an anchor point.
// It is immutable and safe for concurrent use.
type LocalCRS struct {
	lat0, lon0 float64 // anchor in degrees
	m0         float64 // meridian arc length at the anchor
}

// NewLocalCRS creates a local CRS with its origin at lat, lon (degrees).
func NewLocalCRS(lat, lon float64) (*LocalCRS, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("latitude %f out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("longitude %f out of range [-180, 180]", lon)
	}
	return &LocalCRS{
		lat0: lat,
		lon0: lon,
		m0:   meridianArc(lat * math.Pi / 180),
	}, nil
}

// Anchor returns the anchor coordinates in degrees.
func (c *LocalCRS) Anchor() (lat, lon float64) {
	return c.lat0, c.lon0
}

// Project converts geodetic lat, lon (degrees) to planar x, y (meters).
// Project applied to the anchor returns (0, 0).
func (c *LocalCRS) Project(lat, lon float64) (x, y float64) {
	phi := lat * math.Pi / 180
	dLam := (lon - c.lon0) * math.Pi / 180

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := math.Tan(phi)

	nu := semiMajor / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	cc := ep2 * cosPhi * cosPhi
	a := dLam * cosPhi

	a2 := a * a
	a3 := a2 * a
	a4 := a2 * a2
	a5 := a4 * a
	a6 := a4 * a2

	x = scaleCentral * nu * (a +
		(1-t+cc)*a3/6 +
		(5-18*t+t*t+72*cc-58*ep2)*a5/120)

	m := meridianArc(phi)
	y = scaleCentral * (m - c.m0 + nu*tanPhi*(a2/2+
		(5-t+9*cc+4*cc*cc)*a4/24+
		(61-58*t+t*t+600*cc-330*ep2)*a6/720))

	return x, y
}

// BBoxAround returns the degree bounding box spanning radius meters in each
// direction from lat, lon, using the local curvature radii at that latitude.
func BBoxAround(lat, lon, radius float64) BBox {
	phi := lat * math.Pi / 180
	sinPhi := math.Sin(phi)
	w := 1 - e2*sinPhi*sinPhi

	// Meridional and prime-vertical radii of curvature
	rho := semiMajor * (1 - e2) / math.Pow(w, 1.5)
	nu := semiMajor / math.Sqrt(w)

	dLat := radius / rho * 180 / math.Pi
	dLon := radius / (nu * math.Cos(phi)) * 180 / math.Pi

	return BBox{
		MinLat: lat - dLat,
		MinLon: lon - dLon,
		MaxLat: lat + dLat,
		MaxLon: lon + dLon,
	}
}

// meridianArc returns the meridian arc length from the equator to phi
// (radians) on the WGS84 ellipsoid.
func meridianArc(phi float64) float64 {
	e4 := e2 * e2
	e6 := e4 * e2
	return semiMajor * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}
