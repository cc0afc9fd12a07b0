package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"

	"github.com/wegman-software/osm2scene-go/internal/logger"
)

// Triangulation is the result of constrained triangulation: deduplicated
// planar vertices and triangles as index triples into them.
type Triangulation struct {
	Vertices  []orb.Point
	Triangles [][3]int
}

// maxTriangulateAttempts bounds the retry loop: 1 initial try + 3 retries.
const maxTriangulateAttempts = 4

// Triangulate triangulates a polygon with holes into a shared-vertex index
// buffer. Real-world footprints routinely carry near-duplicate or
// self-touching vertices, so each attempt deduplicates input vertices at
// 3-attempt decimal digits and the whole call is retried at coarser
// precision on failure. After exhausting the attempts an error is returned;
// callers must fall back to boundary-only handling, never reinterpret the
// failure as an empty result.
func Triangulate(outer []orb.Point, holes [][]orb.Point) (*Triangulation, error) {
	log := logger.Get()
	var lastErr error

	for attempt := 0; attempt < maxTriangulateAttempts; attempt++ {
		digits := 3 - attempt

		o := dedupeRing(outer, digits)
		if len(o) < 3 {
			lastErr = fmt.Errorf("outer ring degenerate at %d digits", digits)
			continue
		}
		hs := make([][]orb.Point, 0, len(holes))
		for _, h := range holes {
			if hh := dedupeRing(h, digits); len(hh) >= 3 {
				hs = append(hs, hh)
			}
		}

		tri, err := triangulateOnce(o, hs)
		if err != nil {
			lastErr = err
			log.Debug("Triangulation attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("digits", digits),
				zap.Error(err))
			continue
		}
		return tri, nil
	}

	return nil, fmt.Errorf("triangulation failed after %d attempts: %w", maxTriangulateAttempts, lastErr)
}

// dedupeRing drops vertices whose coordinates round to a value already seen
// in the ring. The final vertex is always kept so the closing edge survives.
func dedupeRing(pts []orb.Point, digits int) []orb.Point {
	scale := math.Pow(10, float64(digits))
	type key struct{ x, y int64 }
	seen := make(map[key]bool, len(pts))

	out := make([]orb.Point, 0, len(pts))
	for i, p := range pts {
		k := key{int64(math.Round(p[0] * scale)), int64(math.Round(p[1] * scale))}
		if seen[k] && i != len(pts)-1 {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

// triangulateOnce runs one triangulation pass: bridge the holes into the
// outer ring, ear-clip the resulting simple polygon, then keep only
// triangles whose centroid lies inside the original polygon (rejecting
// leaks into holes or outside the boundary) and deduplicate the output
// vertices by exact coordinate so adjacent triangles share indices.
func triangulateOnce(outer []orb.Point, holes [][]orb.Point) (*Triangulation, error) {
	// Canonical windings for bridging: outer counter-clockwise, holes
	// clockwise.
	o := withWinding(outer, false)
	hs := make([][]orb.Point, len(holes))
	for i, h := range holes {
		hs[i] = withWinding(h, true)
	}

	merged, err := eliminateHoles(o, hs)
	if err != nil {
		return nil, err
	}

	triangles, err := earClip(merged)
	if err != nil {
		return nil, err
	}

	original := closedPolygon(outer, holes)
	tri := &Triangulation{}
	index := make(map[orb.Point]int)

	for _, t := range triangles {
		centroid := orb.Point{
			(t[0][0] + t[1][0] + t[2][0]) / 3,
			(t[0][1] + t[1][1] + t[2][1]) / 3,
		}
		if !planar.PolygonContains(original, centroid) {
			continue
		}

		var idx [3]int
		for i, p := range t {
			j, ok := index[p]
			if !ok {
				j = len(tri.Vertices)
				tri.Vertices = append(tri.Vertices, p)
				index[p] = j
			}
			idx[i] = j
		}
		tri.Triangles = append(tri.Triangles, idx)
	}

	if len(tri.Triangles) == 0 {
		return nil, fmt.Errorf("no triangles inside polygon")
	}
	return tri, nil
}

// withWinding returns the ring with the requested winding, copying only when
// a reversal is needed.
func withWinding(pts []orb.Point, clockwise bool) []orb.Point {
	if IsClockwise(pts, 1) == clockwise {
		return pts
	}
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// closedPolygon builds an orb.Polygon with explicitly closed rings for
// point-in-polygon tests.
func closedPolygon(outer []orb.Point, holes [][]orb.Point) orb.Polygon {
	poly := orb.Polygon{closeRing(outer)}
	for _, h := range holes {
		poly = append(poly, closeRing(h))
	}
	return poly
}

func closeRing(pts []orb.Point) orb.Ring {
	r := make(orb.Ring, 0, len(pts)+1)
	r = append(r, pts...)
	if len(pts) > 0 && pts[0] != pts[len(pts)-1] {
		r = append(r, pts[0])
	}
	return r
}

// eliminateHoles splices every hole ring into the outer ring through bridge
// edges, producing one simple polygon that ear clipping can consume. Holes
// are processed rightmost first.
func eliminateHoles(outer []orb.Point, holes [][]orb.Point) ([]orb.Point, error) {
	if len(holes) == 0 {
		return outer, nil
	}

	sorted := make([][]orb.Point, len(holes))
	copy(sorted, holes)
	sort.Slice(sorted, func(i, j int) bool {
		return maxX(sorted[i]) > maxX(sorted[j])
	})

	merged := outer
	for _, hole := range sorted {
		var err error
		merged, err = spliceHole(merged, hole)
		if err != nil {
			return nil, err
		}
	}
	return merged, nil
}

func maxX(pts []orb.Point) float64 {
	m := math.Inf(-1)
	for _, p := range pts {
		if p[0] > m {
			m = p[0]
		}
	}
	return m
}

// spliceHole connects a hole to the polygon through a bridge at a mutually
// visible vertex pair and returns the combined ring. The bridge vertices are
// duplicated so both sides of the cut are walkable.
func spliceHole(poly, hole []orb.Point) ([]orb.Point, error) {
	// Hole vertex with maximum x: guaranteed to see the boundary to its
	// right.
	hi := 0
	for i, p := range hole {
		if p[0] > hole[hi][0] {
			hi = i
		}
	}
	anchor := hole[hi]

	// Prefer the nearest polygon vertex visible from the anchor.
	bi := -1
	best := math.Inf(1)
	for i, p := range poly {
		d := dist2(anchor, p)
		if d >= best {
			continue
		}
		if visible(anchor, p, poly, hole) {
			bi = i
			best = d
		}
	}
	if bi < 0 {
		// Degenerate input (e.g. hole touching the boundary); fall back to
		// the nearest vertex and let the centroid filter discard any leaked
		// triangles.
		for i, p := range poly {
			if d := dist2(anchor, p); d < best {
				bi = i
				best = d
			}
		}
	}
	if bi < 0 {
		return nil, fmt.Errorf("cannot bridge hole")
	}

	merged := make([]orb.Point, 0, len(poly)+len(hole)+2)
	merged = append(merged, poly[:bi+1]...)
	for k := 0; k <= len(hole); k++ {
		merged = append(merged, hole[(hi+k)%len(hole)])
	}
	merged = append(merged, poly[bi:]...)
	return merged, nil
}

// visible reports whether segment a-b crosses no edge of the polygon or
// hole rings.
func visible(a, b orb.Point, poly, hole []orb.Point) bool {
	return !segmentHitsRing(a, b, poly) && !segmentHitsRing(a, b, hole)
}

func segmentHitsRing(a, b orb.Point, ring []orb.Point) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		p, q := ring[i], ring[(i+1)%n]
		if p == a || p == b || q == a || q == b {
			continue
		}
		if segmentsCross(a, b, p, q) {
			return true
		}
	}
	return false
}

// segmentsCross reports proper intersection of segments ab and pq.
func segmentsCross(a, b, p, q orb.Point) bool {
	d1 := cross(p, q, a)
	d2 := cross(p, q, b)
	d3 := cross(a, b, p)
	d4 := cross(a, b, q)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func dist2(a, b orb.Point) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx + dy*dy
}

// earClip triangulates a simple counter-clockwise polygon by iterated ear
// removal. Zero-area ears are removed without emitting a triangle. An
// iteration that finds no ear means the polygon is malformed and the caller
// should retry at coarser precision.
func earClip(pts []orb.Point) ([][3]orb.Point, error) {
	idx := ringIndices(len(pts))
	var out [][3]orb.Point

	for len(idx) > 3 {
		clipped := false
		for i := 0; i < len(idx); i++ {
			prev := pts[idx[(i-1+len(idx))%len(idx)]]
			cur := pts[idx[i]]
			next := pts[idx[(i+1)%len(idx)]]

			area := cross(prev, cur, next)
			if area < 0 {
				continue // reflex
			}
			if area == 0 {
				// Collinear spike: drop the vertex, no triangle.
				idx = append(idx[:i], idx[i+1:]...)
				clipped = true
				break
			}
			if containsOther(prev, cur, next, pts, idx, i) {
				continue
			}

			out = append(out, [3]orb.Point{prev, cur, next})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return nil, fmt.Errorf("no ear found with %d vertices left", len(idx))
		}
	}

	if len(idx) == 3 {
		a, b, c := pts[idx[0]], pts[idx[1]], pts[idx[2]]
		if cross(a, b, c) > 0 {
			out = append(out, [3]orb.Point{a, b, c})
		}
	}
	return out, nil
}

// containsOther reports whether any remaining vertex lies strictly inside
// the candidate ear triangle.
func containsOther(a, b, c orb.Point, pts []orb.Point, idx []int, ear int) bool {
	n := len(idx)
	for j := 0; j < n; j++ {
		if j == ear || j == (ear-1+n)%n || j == (ear+1)%n {
			continue
		}
		p := pts[idx[j]]
		if p == a || p == b || p == c {
			continue
		}
		if cross(a, b, p) > 0 && cross(b, c, p) > 0 && cross(c, a, p) > 0 {
			return true
		}
	}
	return false
}
