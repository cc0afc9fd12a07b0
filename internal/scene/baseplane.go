package scene

import (
	"github.com/wegman-software/osm2scene-go/internal/geometry"
)

// BasePlane builds the square ground quad under the whole scene. It is the
// projected bounding box at z=0 and ignores true-north rotation, matching
// the unrotated map extent.
func (g *Generator) BasePlane() *Collection {
	minX, minY := g.crs.Project(g.bbox.MinLat, g.bbox.MinLon)
	maxX, maxY := g.crs.Project(g.bbox.MaxLat, g.bbox.MaxLon)
	minX, minY = minX/g.scale, minY/g.scale
	maxX, maxY = maxX/g.scale, maxY/g.scale

	color := g.style.BaseColor.ARGB()
	mesh := &geometry.Mesh{
		Vertices: []float64{
			minX, minY, 0,
			maxX, minY, 0,
			maxX, maxY, 0,
			minX, maxY, 0,
		},
		Faces:  []int{4, 0, 1, 2, 3},
		Colors: []int{color, color, color, color},
	}

	return &Collection{
		Name:  "Context: Base",
		Kind:  "base",
		Units: g.units,
		Records: []*Record{attributed(&Record{
			Meshes: []*geometry.Mesh{mesh},
			Class:  "base",
		})},
	}
}
