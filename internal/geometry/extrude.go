package geometry

import "github.com/paulmach/orb"

// Extrude builds a closed volumetric mesh (bottom, top, side walls) from a
// footprint and height. Footprints without holes take the cheap single-ring
// path; footprints with holes are triangulated, degrading to the
// boundary-only path when triangulation fails. Fewer than 3 outer points
// yields nil. A negative height extrudes below grade.
func Extrude(outer []orb.Point, holes [][]orb.Point, height float64, color int) *Mesh {
	if len(outer) < 3 {
		return nil
	}
	if len(holes) == 0 {
		return extrudeSimple(outer, height, color)
	}
	return extrudeComplex(outer, holes, height, color)
}

// extrudeSimple extrudes a single ring into a prism: one bottom face, one
// top face, one wall quad per boundary edge.
func extrudeSimple(pts []orb.Point, height float64, color int) *Mesh {
	if len(pts) < 3 {
		return nil
	}
	m := &Mesh{}
	n := len(pts)

	// Bottom face in canonical down-facing orientation
	bottom, clockwise := Normalize(pts, ringIndices(n), true, 1)
	for _, p := range pts {
		m.addVertex(p[0], p[1], 0, color)
	}
	m.Faces = append(m.Faces, n)
	m.Faces = append(m.Faces, bottom...)

	// Top face: same ring at z=height, winding reversed relative to the
	// bottom so both faces point outward
	top := make([]int, n)
	for i := range top {
		top[i] = n + i
	}
	for _, p := range pts {
		m.addVertex(p[0], p[1], height, color)
	}
	if clockwise {
		reverse(top)
	}
	m.Faces = append(m.Faces, n)
	m.Faces = append(m.Faces, top...)

	appendSideWalls(m, pts, height, clockwise, color)
	return m
}

// extrudeComplex extrudes a footprint with holes: triangulated bottom and
// top caps plus side walls for the outer ring and every hole ring.
func extrudeComplex(outer []orb.Point, holes [][]orb.Point, height float64, color int) *Mesh {
	tri, err := Triangulate(outer, holes)
	if err != nil {
		// Explicit fallback: boundary-only extrusion, never an empty mesh.
		return extrudeSimple(outer, height, color)
	}

	m := &Mesh{}

	// Bottom cap. Triangles come out counter-clockwise (facing up), so the
	// vertex order is reversed to face down.
	for _, t := range tri.Triangles {
		base := m.VertexCount()
		for _, vi := range t {
			p := tri.Vertices[vi]
			m.addVertex(p[0], p[1], 0, color)
		}
		m.Faces = append(m.Faces, 3, base+2, base+1, base)
	}

	// Top cap in original winding, facing up.
	for _, t := range tri.Triangles {
		base := m.VertexCount()
		for _, vi := range t {
			p := tri.Vertices[vi]
			m.addVertex(p[0], p[1], height, color)
		}
		m.Faces = append(m.Faces, 3, base, base+1, base+2)
	}

	// Outer walls face outward per the boundary's own winding.
	clockwise := IsClockwise(outer, 1)
	appendSideWalls(m, outer, height, clockwise, color)

	// Hole walls face inward per each hole's own winding.
	for _, hole := range holes {
		holeClockwise := IsClockwise(hole, 1)
		appendSideWalls(m, hole, height, holeClockwise, color)
	}

	return m
}

// appendSideWalls emits one quad per ring edge. The two vertex orderings
// per winding must be reproduced exactly or the face normals invert.
func appendSideWalls(m *Mesh, pts []orb.Point, height float64, clockwise bool, color int) {
	n := len(pts)
	for i := 0; i < n; i++ {
		cur := pts[i]
		next := pts[(i+1)%n]

		base := m.VertexCount()
		if clockwise {
			m.addVertex(cur[0], cur[1], 0, color)
			m.addVertex(cur[0], cur[1], height, color)
			m.addVertex(next[0], next[1], height, color)
			m.addVertex(next[0], next[1], 0, color)
		} else {
			m.addVertex(cur[0], cur[1], 0, color)
			m.addVertex(next[0], next[1], 0, color)
			m.addVertex(next[0], next[1], height, color)
			m.addVertex(cur[0], cur[1], height, color)
		}
		m.Faces = append(m.Faces, 4, base, base+1, base+2, base+3)
	}
}

// FlatMesh emits a single up-facing polygon face at a constant elevation,
// no holes. Fewer than 3 points yields nil.
func FlatMesh(pts []orb.Point, color int, elevation float64) *Mesh {
	if len(pts) < 3 {
		return nil
	}
	m := &Mesh{}
	n := len(pts)

	indices, _ := Normalize(pts, ringIndices(n), true, 1)
	reverse(indices) // flat fill faces up

	for _, p := range pts {
		m.addVertex(p[0], p[1], elevation, color)
	}
	m.Faces = append(m.Faces, n)
	m.Faces = append(m.Faces, indices...)
	return m
}
