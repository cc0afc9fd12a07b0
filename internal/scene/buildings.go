package scene

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"go.uber.org/zap"

	"github.com/wegman-software/osm2scene-go/internal/geometry"
	"github.com/wegman-software/osm2scene-go/internal/logger"
)

// footprintWay is one building candidate before coordinate resolution:
// the outer node-id ring plus zero or more hole rings, with the source tags.
type footprintWay struct {
	outer []int64
	inner [][]int64
	tags  osm.Tags
}

// Buildings fetches tagged building elements and extrudes every footprint
// into a volumetric mesh. Retrieval failure is fatal to the run; individual
// footprints that cannot be meshed are skipped.
func (g *Generator) Buildings(ctx context.Context) (*Collection, error) {
	log := logger.Get()

	o, err := g.fetch.FetchElements(ctx, "building", g.bbox)
	if err != nil {
		return nil, fmt.Errorf("building retrieval failed: %w", err)
	}

	lookup := g.nodeLookup(o.Nodes)
	footprints := assembleFootprints(o, "building")

	coll := &Collection{
		Name:  "Context: Buildings",
		Kind:  "buildings",
		Units: g.units,
	}

	for _, fw := range footprints {
		outerIDs, _ := geometry.OpenRing(fw.outer)
		outer := resolveRing(outerIDs, lookup)
		if len(outer) < 3 {
			continue
		}

		var holes [][]orb.Point
		for _, ring := range fw.inner {
			ids, _ := geometry.OpenRing(ring)
			if hole := resolveRing(ids, lookup); len(hole) >= 3 {
				holes = append(holes, hole)
			}
		}

		height := ResolveHeight(fw.tags).Meters(g.style) / g.scale
		mesh := geometry.Extrude(outer, holes, height, g.style.BuildingColor.ARGB())
		if mesh == nil {
			log.Debug("Skipping degenerate building footprint",
				zap.Int("points", len(outer)))
			continue
		}

		coll.Records = append(coll.Records, attributed(&Record{
			Meshes: []*geometry.Mesh{mesh},
			Class:  fw.tags.Find("building"),
			Height: height,
		}))
	}

	log.Info("Built building meshes",
		zap.Int("footprints", len(footprints)),
		zap.Int("meshes", len(coll.Records)))
	return coll, nil
}

// assembleFootprints splits the element set into directly tagged footprint
// ways and a fragment pool, then stitches every relation's outer members
// into one ring per relation and each inner member into one hole ring.
// A member with no pooled fragment leaves a partial ring rather than
// dropping the relation.
func assembleFootprints(o *osm.OSM, keyword string) []footprintWay {
	var footprints []footprintWay
	pool := geometry.NewFragmentPool()

	for _, w := range o.Ways {
		if w.Tags.Find(keyword) != "" {
			footprints = append(footprints, footprintWay{
				outer: wayNodeIDs(w),
				tags:  w.Tags,
			})
		} else {
			pool.Add(int64(w.ID), wayNodeIDs(w))
		}
	}

	for _, rel := range o.Relations {
		if rel.Tags.Find(keyword) == "" {
			continue
		}
		var outerRefs []int64
		var innerRefs []int64
		for _, m := range rel.Members {
			if m.Type != osm.TypeWay {
				continue
			}
			switch m.Role {
			case "outer":
				outerRefs = append(outerRefs, m.Ref)
			case "inner":
				innerRefs = append(innerRefs, m.Ref)
			}
		}

		fw := footprintWay{
			outer: geometry.StitchMembers(outerRefs, pool),
			tags:  rel.Tags,
		}
		for _, ref := range innerRefs {
			// Each inner member is its own hole ring
			hole := geometry.StitchMembers([]int64{ref}, pool)
			if len(hole) > 0 {
				fw.inner = append(fw.inner, hole)
			}
		}
		if len(fw.outer) > 0 {
			footprints = append(footprints, fw)
		}
	}

	return footprints
}
