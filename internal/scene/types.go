// Package scene builds the per-feature-class mesh collections (buildings,
// road ribbons, vegetation) from raw OSM elements, applying true-north
// rotation and unit scaling on the way.
package scene

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"github.com/wegman-software/osm2scene-go/internal/config"
	"github.com/wegman-software/osm2scene-go/internal/geometry"
	"github.com/wegman-software/osm2scene-go/internal/proj"
	"github.com/wegman-software/osm2scene-go/internal/style"
	"github.com/wegman-software/osm2scene-go/internal/units"
)

// OSM source attribution attached to every generated record
const (
	SourceData = "© OpenStreetMap"
	SourceURL  = "https://www.openstreetmap.org/"
)

// Record is one generated feature: its meshes plus class-specific metadata
// and source attribution. Ownership of the meshes transfers to the caller.
type Record struct {
	Meshes []*geometry.Mesh

	// Road records also carry the joined centerline
	Polyline []orb.Point
	Closed   bool

	// Class-specific metadata
	Class  string  // building type, highway class or vegetation kind
	Height float64 // building extrusion height, in output units
	Width  float64 // road ribbon full width, in output units

	SourceData string
	SourceURL  string
}

// Collection groups the records of one feature class into a named layer.
type Collection struct {
	Name    string
	Kind    string
	Units   string
	Records []*Record
}

// Fetcher retrieves raw elements for one tag keyword inside a bounding box.
// Implemented by overpass.Client.
type Fetcher interface {
	FetchElements(ctx context.Context, keyword string, bbox proj.BBox) (*osm.OSM, error)
}

// Generator runs the feature pipelines for one project anchor. The three
// pipelines are independent and may run concurrently; the generator itself
// only holds immutable inputs, except for the vegetation RNG which is used
// by the nature pipeline alone.
type Generator struct {
	fetch Fetcher
	crs   *proj.LocalCRS
	bbox  proj.BBox
	scale float64 // meters per output unit
	angle float64 // true-north rotation in radians
	units string
	style *style.Style
	rng   *rand.Rand
}

// NewGenerator creates a generator from the run configuration.
func NewGenerator(cfg *config.Config, st *style.Style, fetch Fetcher) (*Generator, error) {
	crs, err := proj.NewLocalCRS(cfg.Lat, cfg.Lon)
	if err != nil {
		return nil, fmt.Errorf("invalid project anchor: %w", err)
	}
	scale, err := units.ScaleFactor(cfg.Units)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		fetch: fetch,
		crs:   crs,
		bbox:  proj.BBoxAround(cfg.Lat, cfg.Lon, cfg.RadiusMeters),
		scale: scale,
		angle: cfg.TrueNorthRad,
		units: cfg.Units,
		style: st,
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

// project converts a geodetic coordinate to the rotated, unit-scaled local
// plane.
func (g *Generator) project(lat, lon float64) orb.Point {
	x, y := g.crs.Project(lat, lon)
	p := orb.Point{x / g.scale, y / g.scale}
	if g.angle != 0 {
		p = geometry.Rotate(p, g.angle)
	}
	return p
}

// nodeLookup builds the node-id to planar coordinate table for one feature
// batch. Built once per batch and discarded after use.
func (g *Generator) nodeLookup(nodes osm.Nodes) map[osm.NodeID]orb.Point {
	lookup := make(map[osm.NodeID]orb.Point, len(nodes))
	for _, n := range nodes {
		lookup[n.ID] = g.project(n.Lat, n.Lon)
	}
	return lookup
}

// resolveRing maps a node-id ring to planar coordinates, skipping ids with
// no known coordinate.
func resolveRing(ids []int64, lookup map[osm.NodeID]orb.Point) []orb.Point {
	pts := make([]orb.Point, 0, len(ids))
	for _, id := range ids {
		if p, ok := lookup[osm.NodeID(id)]; ok {
			pts = append(pts, p)
		}
	}
	return pts
}

// wayNodeIDs returns a way's node ids as plain int64s.
func wayNodeIDs(w *osm.Way) []int64 {
	ids := make([]int64, len(w.Nodes))
	for i, n := range w.Nodes {
		ids[i] = int64(n.ID)
	}
	return ids
}

func attributed(r *Record) *Record {
	r.SourceData = SourceData
	r.SourceURL = SourceURL
	return r
}
