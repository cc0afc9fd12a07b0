package geometry

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/paulmach/orb"
)

// SampleInside returns count points uniformly distributed inside the ring.
// Triangles of the ring's triangulation are chosen with probability
// proportional to their area, and a uniform point is drawn in each via the
// barycentric fold (the sample is reflected across the diagonal when
// u+v > 1).
func SampleInside(ring []orb.Point, count int, rng *rand.Rand) ([]orb.Point, error) {
	if count <= 0 {
		return nil, nil
	}
	tri, err := Triangulate(ring, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot sample polygon: %w", err)
	}

	cum := make([]float64, len(tri.Triangles))
	total := 0.0
	for i, t := range tri.Triangles {
		a, b, c := tri.Vertices[t[0]], tri.Vertices[t[1]], tri.Vertices[t[2]]
		total += math.Abs(cross(a, b, c)) / 2
		cum[i] = total
	}
	if total == 0 {
		return nil, fmt.Errorf("cannot sample degenerate polygon")
	}

	points := make([]orb.Point, 0, count)
	for i := 0; i < count; i++ {
		pick := rng.Float64() * total
		ti := sort.SearchFloat64s(cum, pick)
		if ti >= len(tri.Triangles) {
			ti = len(tri.Triangles) - 1
		}
		t := tri.Triangles[ti]
		a, b, c := tri.Vertices[t[0]], tri.Vertices[t[1]], tri.Vertices[t[2]]

		u, v := rng.Float64(), rng.Float64()
		if u+v > 1 {
			u, v = 1-u, 1-v
		}
		points = append(points, orb.Point{
			a[0] + u*(b[0]-a[0]) + v*(c[0]-a[0]),
			a[1] + u*(b[1]-a[1]) + v*(c[1]-a[1]),
		})
	}
	return points, nil
}
