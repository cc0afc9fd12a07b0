package scene

import (
	"context"
	"fmt"

	"github.com/paulmach/osm"
	"go.uber.org/zap"

	"github.com/wegman-software/osm2scene-go/internal/geometry"
	"github.com/wegman-software/osm2scene-go/internal/logger"
)

// roadWay is one centerline candidate before coordinate resolution.
type roadWay struct {
	nodes  []int64
	tags   osm.Tags
	closed bool
}

// Roads fetches highway elements and buffers every centerline into a flat
// ribbon mesh; each record also carries the joined polyline. Ways tagged
// area=yes describe footprint-like surfaces and are skipped here.
func (g *Generator) Roads(ctx context.Context) (*Collection, error) {
	log := logger.Get()

	o, err := g.fetch.FetchElements(ctx, "highway", g.bbox)
	if err != nil {
		return nil, fmt.Errorf("road retrieval failed: %w", err)
	}

	lookup := g.nodeLookup(o.Nodes)
	ways := assembleRoadWays(o)

	coll := &Collection{
		Name:  "Context: Roads",
		Kind:  "roads",
		Units: g.units,
	}

	for _, rw := range ways {
		class := rw.tags.Find("highway")
		halfWidth := g.style.HalfWidth(class) / g.scale

		line := resolveRing(rw.nodes, lookup)
		if len(line) < 2 {
			continue
		}

		mesh := geometry.Ribbon(line, halfWidth, g.style.RoadElevation/g.scale, g.style.RoadColor.ARGB())
		if mesh == nil {
			continue
		}

		coll.Records = append(coll.Records, attributed(&Record{
			Meshes:   []*geometry.Mesh{mesh},
			Polyline: line,
			Closed:   rw.closed,
			Class:    class,
			Width:    2 * halfWidth,
		}))
	}

	log.Info("Built road ribbons",
		zap.Int("ways", len(ways)),
		zap.Int("ribbons", len(coll.Records)))
	return coll, nil
}

// assembleRoadWays collects tagged highway ways and relation members,
// splitting self-intersecting centerlines into disjoint sections. An
// explicit area=yes marks an intentionally self-touching surface: it is
// neither split nor ribboned.
func assembleRoadWays(o *osm.OSM) []roadWay {
	var ways []roadWay
	pool := geometry.NewFragmentPool()

	add := func(nodes []int64, tags osm.Tags) {
		if tags.Find("area") == "yes" {
			return
		}
		// A closing node repeat is a loop, not a self intersection; open
		// the ring first so only genuine repeats trigger a split.
		open, closed := geometry.OpenRing(nodes)
		parts := geometry.SplitSelfIntersecting(open)
		for _, part := range parts {
			ways = append(ways, roadWay{nodes: part, tags: tags, closed: closed && len(parts) == 1})
		}
	}

	var tagged []roadWay
	for _, w := range o.Ways {
		if w.Tags.Find("highway") != "" {
			tagged = append(tagged, roadWay{nodes: wayNodeIDs(w), tags: w.Tags})
		} else {
			pool.Add(int64(w.ID), wayNodeIDs(w))
		}
	}

	// Relation members become independent road sections under the
	// relation's tags.
	for _, rel := range o.Relations {
		if rel.Tags.Find("highway") == "" {
			continue
		}
		for _, m := range rel.Members {
			if m.Type != osm.TypeWay {
				continue
			}
			if frag := geometry.StitchMembers([]int64{m.Ref}, pool); len(frag) > 0 {
				add(frag, rel.Tags)
			}
		}
	}

	for _, rw := range tagged {
		add(rw.nodes, rw.tags)
	}

	return ways
}
