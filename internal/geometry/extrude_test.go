package geometry

import (
	"testing"

	"github.com/paulmach/orb"
)

const testColor = 0xff808080

func TestExtrudeSimpleSquare(t *testing.T) {
	outer := []orb.Point{{5, 5}, {5, -5}, {-5, -5}, {-5, 5}}

	m := Extrude(outer, nil, 10, testColor)
	if m == nil {
		t.Fatal("expected a mesh")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid mesh: %v", err)
	}

	// Bottom 4 + top 4 + 4 side quads with 4 vertices each.
	if got := m.VertexCount(); got != 24 {
		t.Errorf("vertex count = %d, want 24", got)
	}
	if got := len(m.Vertices); got != 72 {
		t.Errorf("vertex scalar count = %d, want 72", got)
	}
	if got := m.FaceCount(); got != 6 {
		t.Errorf("face count = %d, want 6", got)
	}
}

func TestExtrudeVertexScalarsPerRingSize(t *testing.T) {
	// N boundary vertices produce 3*6*N vertex scalars on the simple path.
	for _, n := range []int{3, 4, 6} {
		ring := regularRing(n, 10)
		m := Extrude(ring, nil, 5, testColor)
		if m == nil {
			t.Fatalf("n=%d: expected a mesh", n)
		}
		if got, want := len(m.Vertices), 3*6*n; got != want {
			t.Errorf("n=%d: vertex scalars = %d, want %d", n, got, want)
		}
	}
}

func TestExtrudeWithHole(t *testing.T) {
	outer := []orb.Point{{5, 5}, {5, -5}, {-5, -5}, {-5, 5}}
	hole := []orb.Point{{2, 2}, {2, -2}, {-2, -2}, {-2, 2}}

	m := Extrude(outer, [][]orb.Point{hole}, 10, testColor)
	if m == nil {
		t.Fatal("expected a mesh")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid mesh: %v", err)
	}
	if got := len(m.Vertices); got < 144 {
		t.Errorf("vertex scalar count = %d, want >= 144", got)
	}
}

func TestExtrudeDegenerate(t *testing.T) {
	cases := [][]orb.Point{
		nil,
		{{1, 1}},
		{{0, 0}, {1, 1}},
	}
	for _, outer := range cases {
		if m := Extrude(outer, nil, 10, testColor); m != nil {
			t.Errorf("Extrude(%v) = %v, want nil", outer, m)
		}
	}
}

func TestExtrudeNegativeHeight(t *testing.T) {
	outer := []orb.Point{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	m := Extrude(outer, nil, -9, testColor)
	if m == nil {
		t.Fatal("expected a mesh")
	}

	below := false
	for i := 2; i < len(m.Vertices); i += 3 {
		if m.Vertices[i] == -9 {
			below = true
			break
		}
	}
	if !below {
		t.Error("no vertex at z = -9")
	}
}

func TestExtrudeFallsBackWhenTriangulationFails(t *testing.T) {
	// A fully collinear outer ring cannot be triangulated; with a hole
	// present the complex path must degrade to boundary-only extrusion.
	outer := []orb.Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	hole := []orb.Point{{0.5, 0.5}, {1, 0.5}, {1, 1}}

	m := Extrude(outer, [][]orb.Point{hole}, 4, testColor)
	if m == nil {
		t.Fatal("expected fallback mesh, got nil")
	}
	if got, want := len(m.Vertices), 3*6*4; got != want {
		t.Errorf("fallback vertex scalars = %d, want %d", got, want)
	}
}

func TestFlatMesh(t *testing.T) {
	ring := []orb.Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}}

	m := FlatMesh(ring, testColor, 0.01)
	if m == nil {
		t.Fatal("expected a mesh")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid mesh: %v", err)
	}
	if got := m.FaceCount(); got != 1 {
		t.Fatalf("face count = %d, want 1", got)
	}
	for i := 2; i < len(m.Vertices); i += 3 {
		if m.Vertices[i] != 0.01 {
			t.Fatalf("vertex %d elevation = %f, want 0.01", i/3, m.Vertices[i])
		}
	}

	// The emitted face winds counter-clockwise, facing up.
	n := m.Faces[0]
	ordered := make([]orb.Point, n)
	for i := 0; i < n; i++ {
		vi := m.Faces[1+i]
		ordered[i] = orb.Point{m.Vertices[vi*3], m.Vertices[vi*3+1]}
	}
	if IsClockwise(ordered, 1) {
		t.Error("flat mesh face winds clockwise, want counter-clockwise")
	}
}

func TestFlatMeshDegenerate(t *testing.T) {
	if m := FlatMesh([]orb.Point{{0, 0}, {1, 0}}, testColor, 0); m != nil {
		t.Error("expected nil for a 2-point ring")
	}
}

// regularRing returns an n-gon of the given radius around the origin.
func regularRing(n int, radius float64) []orb.Point {
	ring := make([]orb.Point, n)
	for i := range ring {
		ring[i] = Rotate(orb.Point{radius, 0}, float64(i)*6.283185307179586/float64(n))
	}
	return ring
}
