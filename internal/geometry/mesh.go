// Package geometry implements the mesh synthesis core: ring assembly from way
// fragments, winding normalization, constrained triangulation of polygons
// with holes, footprint extrusion, centerline ribbon buffering and point
// sampling for vegetation placement.
//
// All operations work on planar coordinates (meters in the local CRS, or the
// caller's unit) and hold no global state; they are safe to call concurrently.
package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Mesh is a flat polygon mesh buffer: vertex coordinates as x,y,z triples,
// faces as vertex-count prefixed index runs (e.g. 4,i0,i1,i2,i3 for a quad),
// and one ARGB color per vertex.
type Mesh struct {
	Vertices []float64
	Faces    []int
	Colors   []int
}

// VertexCount returns the number of vertices in the buffer.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// FaceCount returns the number of faces in the buffer.
func (m *Mesh) FaceCount() int {
	count := 0
	for i := 0; i < len(m.Faces); i += 1 + m.Faces[i] {
		count++
	}
	return count
}

// Validate checks the buffer invariants: colors parallel to vertices and
// every face index inside the vertex range.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("vertex buffer length %d is not a multiple of 3", len(m.Vertices))
	}
	n := m.VertexCount()
	if len(m.Colors) != n {
		return fmt.Errorf("color count %d does not match vertex count %d", len(m.Colors), n)
	}
	for i := 0; i < len(m.Faces); {
		size := m.Faces[i]
		if size < 3 || i+1+size > len(m.Faces) {
			return fmt.Errorf("malformed face run at offset %d", i)
		}
		for _, idx := range m.Faces[i+1 : i+1+size] {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face index %d out of range (%d vertices)", idx, n)
			}
		}
		i += 1 + size
	}
	return nil
}

// addVertex appends one vertex with its color and returns its index.
func (m *Mesh) addVertex(x, y, z float64, color int) int {
	m.Vertices = append(m.Vertices, x, y, z)
	m.Colors = append(m.Colors, color)
	return len(m.Colors) - 1
}

// Rotate rotates a point about the origin by angleRad around the vertical
// axis. Positive angles rotate the frame toward true north.
func Rotate(p orb.Point, angleRad float64) orb.Point {
	sin, cos := math.Sincos(angleRad)
	return orb.Point{
		p[0]*cos + p[1]*sin,
		-p[0]*sin + p[1]*cos,
	}
}

// RotateAll rotates every point of a ring, returning a new slice.
func RotateAll(pts []orb.Point, angleRad float64) []orb.Point {
	if angleRad == 0 {
		return pts
	}
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[i] = Rotate(p, angleRad)
	}
	return out
}
