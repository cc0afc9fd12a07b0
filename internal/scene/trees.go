package scene

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/wegman-software/osm2scene-go/internal/geometry"
)

// canopyTemplate is the tree proxy instanced at every placement: a square
// trunk prism topped by a hexagonal bipyramid canopy. Coordinates are in
// meters around the origin; faces are triangles and quads in the usual
// count-prefixed form with outward windings.
type canopyTemplate struct {
	Vertices []float64
	Faces    []int
	trunk    int // vertex count of the trunk section, colored separately
}

var treeTemplate = buildTreeTemplate()

func buildTreeTemplate() canopyTemplate {
	t := canopyTemplate{}

	// Trunk: 4 walls from z=0 to z=2.4, half-width 0.15
	const tw, th = 0.15, 2.4
	base := [][2]float64{{tw, tw}, {tw, -tw}, {-tw, -tw}, {-tw, tw}}
	for i := range base {
		cur, next := base[i], base[(i+1)%4]
		n := len(t.Vertices) / 3
		t.Vertices = append(t.Vertices,
			cur[0], cur[1], 0,
			cur[0], cur[1], th,
			next[0], next[1], th,
			next[0], next[1], 0,
		)
		t.Faces = append(t.Faces, 4, n, n+1, n+2, n+3)
	}
	t.trunk = len(t.Vertices) / 3

	// Canopy: hexagonal bipyramid, equator at z=3.2, radius 1.8, tips at
	// z=1.8 and z=5.2
	const r, ze, zb, zt = 1.8, 3.2, 1.8, 5.2
	ring := make([][2]float64, 6)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / 6
		ring[i] = [2]float64{r * math.Cos(a), r * math.Sin(a)}
	}
	bottomTip := len(t.Vertices) / 3
	t.Vertices = append(t.Vertices, 0, 0, zb)
	topTip := len(t.Vertices) / 3
	t.Vertices = append(t.Vertices, 0, 0, zt)
	ringStart := len(t.Vertices) / 3
	for _, p := range ring {
		t.Vertices = append(t.Vertices, p[0], p[1], ze)
	}
	for i := 0; i < 6; i++ {
		a := ringStart + i
		b := ringStart + (i+1)%6
		t.Faces = append(t.Faces, 3, topTip, a, b)
		t.Faces = append(t.Faces, 3, bottomTip, b, a)
	}

	return t
}

// generateTree instantiates the tree proxy at a placement point with
// randomized scale and rotation. Aggregate markers (forest scatter) are
// doubled in size and skip the base discs that individual trees get.
// A failed instance returns an error and must not abort the batch.
func (g *Generator) generateTree(at orb.Point, aggregate bool) ([]*geometry.Mesh, error) {
	if math.IsNaN(at[0]) || math.IsNaN(at[1]) {
		return nil, fmt.Errorf("tree placement is not a number")
	}

	scale := (0.8 + g.rng.Float64()*0.6) / g.scale
	scaleZ := (0.8 + g.rng.Float64()*0.6) / g.scale
	if aggregate {
		scale *= 2
		scaleZ *= 2
	}
	angle := -2 + g.rng.Float64()*4

	tpl := treeTemplate
	canopy := &geometry.Mesh{
		Vertices: make([]float64, 0, len(tpl.Vertices)),
		Faces:    append([]int(nil), tpl.Faces...),
		Colors:   make([]int, 0, len(tpl.Vertices)/3),
	}
	trunkColor := g.style.TreeTrunkColor.ARGB()
	canopyColor := g.style.CanopyColor.ARGB()
	for i := 0; i < len(tpl.Vertices); i += 3 {
		p := geometry.Rotate(orb.Point{tpl.Vertices[i] * scale, tpl.Vertices[i+1] * scale}, angle)
		canopy.Vertices = append(canopy.Vertices,
			p[0]+at[0], p[1]+at[1], tpl.Vertices[i+2]*scaleZ)
		if i/3 < tpl.trunk {
			canopy.Colors = append(canopy.Colors, trunkColor)
		} else {
			canopy.Colors = append(canopy.Colors, canopyColor)
		}
	}

	meshes := []*geometry.Mesh{canopy}
	if !aggregate {
		elevation := g.style.TreeBaseElevation / g.scale
		meshes = append(meshes,
			g.treeDisc(at, 1/g.scale, elevation, g.style.TreeTrunkColor.ARGB()),
			g.treeDisc(at, 0.9/g.scale, elevation*1.15, g.style.TreeBaseColor.ARGB()),
		)
	}
	return meshes, nil
}

// treeDisc emits a down-wound 12-sided disc around the placement point, used
// for the trunk base and its lighter cap.
func (g *Generator) treeDisc(at orb.Point, radius, elevation float64, color int) *geometry.Mesh {
	const steps = 12
	m := &geometry.Mesh{}
	m.Faces = append(m.Faces, steps)
	for s := 0; s < steps; s++ {
		p := geometry.Rotate(orb.Point{radius, 0}, -2*math.Pi*float64(s)/steps)
		m.Vertices = append(m.Vertices, p[0]+at[0], p[1]+at[1], elevation)
		m.Colors = append(m.Colors, color)
		m.Faces = append(m.Faces, s)
	}
	return m
}
