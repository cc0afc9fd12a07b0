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

// Trees scattered inside each forest polygon
const forestSampleCount = 3

// greenArea is one vegetation fill polygon before coordinate resolution.
type greenArea struct {
	nodes  []int64
	class  string // tag value, e.g. "forest" or "park"
	forest bool   // scatter aggregate trees after filling
}

// treePlacement marks one individual or aggregate tree instance.
type treePlacement struct {
	at        orb.Point
	aggregate bool
}

// Nature fetches landuse, natural and leisure elements and emits flat green
// fills, scattered forest trees and individual trees (tree nodes and
// tree_row ways). A tree instance that fails to generate is logged and
// skipped; it never aborts the batch.
func (g *Generator) Nature(ctx context.Context) (*Collection, error) {
	log := logger.Get()

	coll := &Collection{
		Name:  "Context: Nature",
		Kind:  "nature",
		Units: g.units,
	}

	var placements []treePlacement
	for _, keyword := range []string{"landuse", "natural", "leisure"} {
		o, err := g.fetch.FetchElements(ctx, keyword, g.bbox)
		if err != nil {
			return nil, fmt.Errorf("nature retrieval (%s) failed: %w", keyword, err)
		}

		lookup := g.nodeLookup(o.Nodes)
		areas, rows := g.assembleGreenAreas(o, keyword)

		for _, area := range areas {
			ids, _ := geometry.OpenRing(area.nodes)
			ring := resolveRing(ids, lookup)
			if len(ring) < 3 {
				continue
			}

			// Forest fills also seed aggregate tree scatter points.
			if area.forest && len(ring) > 3 {
				pts, err := geometry.SampleInside(ring, forestSampleCount, g.rng)
				if err != nil {
					log.Debug("Forest sampling failed", zap.Error(err))
				}
				for _, p := range pts {
					placements = append(placements, treePlacement{at: p, aggregate: true})
				}
			}

			mesh := geometry.FlatMesh(ring, g.style.GreenColor.ARGB(), g.style.GreenElevation/g.scale)
			if mesh == nil {
				continue
			}
			coll.Records = append(coll.Records, attributed(&Record{
				Meshes: []*geometry.Mesh{mesh},
				Class:  area.class,
			}))
		}

		// Each tree_row node is one individual tree.
		for _, row := range rows {
			for _, p := range resolveRing(row, lookup) {
				placements = append(placements, treePlacement{at: p})
			}
		}

		// Standalone natural=tree nodes
		for _, n := range o.Nodes {
			if n.Tags.Find(keyword) == "tree" {
				placements = append(placements, treePlacement{at: g.project(n.Lat, n.Lon)})
			}
		}
	}

	failed := 0
	for _, pl := range placements {
		meshes, err := g.generateTree(pl.at, pl.aggregate)
		if err != nil {
			failed++
			log.Debug("Tree generation failed", zap.Error(err))
			continue
		}
		coll.Records = append(coll.Records, attributed(&Record{
			Meshes: meshes,
			Class:  "tree",
		}))
	}

	log.Info("Built vegetation",
		zap.Int("records", len(coll.Records)),
		zap.Int("trees", len(placements)-failed),
		zap.Int("failed_trees", failed))
	return coll, nil
}

// assembleGreenAreas collects the fill polygons and tree_row centerlines for
// one tag keyword. Relation outer members are stitched into a single ring
// from the untagged fragment pool, same as building footprints.
func (g *Generator) assembleGreenAreas(o *osm.OSM, keyword string) (areas []greenArea, rows [][]int64) {
	pool := geometry.NewFragmentPool()

	type taggedRel struct {
		refs []int64
		val  string
	}
	var rels []taggedRel

	for _, w := range o.Ways {
		val := w.Tags.Find(keyword)
		switch {
		case val == "tree_row":
			rows = append(rows, wayNodeIDs(w))
		case g.style.IsGreenPolygon(keyword, val):
			areas = append(areas, greenArea{
				nodes:  wayNodeIDs(w),
				class:  val,
				forest: val == "forest",
			})
		default:
			pool.Add(int64(w.ID), wayNodeIDs(w))
		}
	}

	for _, rel := range o.Relations {
		val := rel.Tags.Find(keyword)
		if !g.style.IsGreenPolygon(keyword, val) {
			continue
		}
		var refs []int64
		for _, m := range rel.Members {
			if m.Type == osm.TypeWay && m.Role == "outer" {
				refs = append(refs, m.Ref)
			}
		}
		rels = append(rels, taggedRel{refs: refs, val: val})
	}
	for _, r := range rels {
		if ring := geometry.StitchMembers(r.refs, pool); len(ring) > 0 {
			areas = append(areas, greenArea{
				nodes:  ring,
				class:  r.val,
				forest: r.val == "forest",
			})
		}
	}

	return areas, rows
}
