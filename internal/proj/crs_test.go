package proj

import (
	"math"
	"testing"
)

func TestProjectAnchorIsOrigin(t *testing.T) {
	anchors := []struct{ lat, lon float64 }{
		{52.52, 13.405},
		{0, 0},
		{-33.86, 151.21},
		{64.15, -21.94},
	}

	for _, a := range anchors {
		crs, err := NewLocalCRS(a.lat, a.lon)
		if err != nil {
			t.Fatalf("NewLocalCRS(%f, %f): %v", a.lat, a.lon, err)
		}
		x, y := crs.Project(a.lat, a.lon)
		if math.Abs(x) > 1e-6 || math.Abs(y) > 1e-6 {
			t.Errorf("anchor (%f, %f) projects to (%g, %g), want origin", a.lat, a.lon, x, y)
		}
	}
}

func TestProjectDistances(t *testing.T) {
	crs, err := NewLocalCRS(52.52, 13.405)
	if err != nil {
		t.Fatal(err)
	}

	// One millidegree of latitude is about 111.2 m of northing.
	_, y := crs.Project(52.521, 13.405)
	if math.Abs(y-111.2) > 1 {
		t.Errorf("northing for +0.001 deg lat = %f, want ~111.2", y)
	}

	// One millidegree of longitude at 52.5N is about 67.7 m of easting.
	x, _ := crs.Project(52.52, 13.406)
	if math.Abs(x-67.7) > 1 {
		t.Errorf("easting for +0.001 deg lon = %f, want ~67.7", x)
	}

	// West and south go negative.
	x, y = crs.Project(52.519, 13.404)
	if x >= 0 || y >= 0 {
		t.Errorf("southwest offset projects to (%f, %f), want both negative", x, y)
	}
}

func TestNewLocalCRSRange(t *testing.T) {
	if _, err := NewLocalCRS(91, 0); err == nil {
		t.Error("expected error for latitude 91")
	}
	if _, err := NewLocalCRS(0, 181); err == nil {
		t.Error("expected error for longitude 181")
	}
}

func TestBBoxAround(t *testing.T) {
	bbox := BBoxAround(52.52, 13.405, 500)

	if bbox.MinLat >= 52.52 || bbox.MaxLat <= 52.52 {
		t.Errorf("latitude range [%f, %f] does not bracket the anchor", bbox.MinLat, bbox.MaxLat)
	}
	if bbox.MinLon >= 13.405 || bbox.MaxLon <= 13.405 {
		t.Errorf("longitude range [%f, %f] does not bracket the anchor", bbox.MinLon, bbox.MaxLon)
	}

	// 500 m of latitude is about 0.0045 degrees.
	dLat := (bbox.MaxLat - bbox.MinLat) / 2
	if math.Abs(dLat-0.0045) > 0.0005 {
		t.Errorf("latitude half-span = %f, want ~0.0045", dLat)
	}

	// The longitude span widens with latitude.
	dLon := (bbox.MaxLon - bbox.MinLon) / 2
	if dLon <= dLat {
		t.Errorf("longitude half-span %f should exceed latitude half-span %f at 52.5N", dLon, dLat)
	}
}
