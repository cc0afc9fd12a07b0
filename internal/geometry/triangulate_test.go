package geometry

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestTriangulateSquare(t *testing.T) {
	square := []orb.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	tri, err := Triangulate(square, nil)
	if err != nil {
		t.Fatalf("Triangulate: %v", err)
	}
	if got := len(tri.Triangles); got != 2 {
		t.Errorf("triangle count = %d, want 2", got)
	}
	// Adjacent triangles share deduplicated vertices.
	if got := len(tri.Vertices); got != 4 {
		t.Errorf("vertex count = %d, want 4", got)
	}
	for _, tr := range tri.Triangles {
		for _, vi := range tr {
			if vi < 0 || vi >= len(tri.Vertices) {
				t.Fatalf("index %d out of range", vi)
			}
		}
	}
}

func TestTriangulateSquareWithHole(t *testing.T) {
	outer := []orb.Point{{5, 5}, {5, -5}, {-5, -5}, {-5, 5}}
	hole := []orb.Point{{2, 2}, {2, -2}, {-2, -2}, {-2, 2}}

	tri, err := Triangulate(outer, [][]orb.Point{hole})
	if err != nil {
		t.Fatalf("Triangulate: %v", err)
	}
	if got := len(tri.Triangles); got < 6 {
		t.Errorf("triangle count = %d, want >= 6", got)
	}

	// No triangle centroid may land inside the hole.
	for _, tr := range tri.Triangles {
		a, b, c := tri.Vertices[tr[0]], tri.Vertices[tr[1]], tri.Vertices[tr[2]]
		cx := (a[0] + b[0] + c[0]) / 3
		cy := (a[1] + b[1] + c[1]) / 3
		if cx > -2 && cx < 2 && cy > -2 && cy < 2 {
			t.Errorf("triangle centroid (%f, %f) inside the hole", cx, cy)
		}
	}
}

func TestTriangulateNearDuplicateVertices(t *testing.T) {
	// A vertex a millionth of a unit from its neighbor collapses during
	// dedup instead of breaking the triangulation.
	square := []orb.Point{{0, 0}, {1e-6, 1e-6}, {1, 0}, {1, 1}, {0, 1}}

	tri, err := Triangulate(square, nil)
	if err != nil {
		t.Fatalf("Triangulate: %v", err)
	}
	if len(tri.Triangles) < 2 {
		t.Errorf("triangle count = %d, want >= 2", len(tri.Triangles))
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		outer []orb.Point
	}{
		{
			name:  "collinear ring",
			outer: []orb.Point{{0, 0}, {1, 1}, {2, 2}},
		},
		{
			name:  "all coincident",
			outer: []orb.Point{{1, 1}, {1, 1}, {1, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Triangulate(tt.outer, nil); err == nil {
				t.Error("expected an error for a degenerate ring")
			}
		})
	}
}

func TestDedupeRing(t *testing.T) {
	ring := []orb.Point{{0, 0}, {0.0001, 0.0001}, {1, 0}, {1, 1}}

	// At 3 digits the second point rounds onto the first.
	if got := dedupeRing(ring, 3); len(got) != 3 {
		t.Errorf("dedupeRing(3 digits) kept %d points, want 3", len(got))
	}
	// At 4 digits it survives.
	if got := dedupeRing(ring, 4); len(got) != 4 {
		t.Errorf("dedupeRing(4 digits) kept %d points, want 4", len(got))
	}
}
