package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// miterLimit caps spiky joins at sharp centerline angles, in multiples of
// the offset distance.
const miterLimit = 4.0

// Ribbon offsets a centerline polyline by halfWidth on each side using
// square end caps, producing a closed ribbon polygon emitted as a single
// up-facing flat face at the given elevation. A zero or negative halfWidth
// yields nil (polygonal "area" ways are handled as footprints instead), as
// does a polyline with fewer than 2 points.
func Ribbon(line []orb.Point, halfWidth, elevation float64, color int) *Mesh {
	outline := OffsetPolyline(line, halfWidth)
	if len(outline) < 3 {
		return nil
	}

	m := &Mesh{}
	n := len(outline)

	indices, _ := Normalize(outline, ringIndices(n), true, 1)
	reverse(indices) // ribbon faces up

	for _, p := range outline {
		m.addVertex(p[0], p[1], elevation, color)
	}
	m.Faces = append(m.Faces, n)
	m.Faces = append(m.Faces, indices...)
	return m
}

// OffsetPolyline builds the closed ribbon outline around a polyline: the
// left offset side, a square cap past the last point, the right side walked
// back, and a square cap before the first point. The closing duplicate is
// not stored.
func OffsetPolyline(line []orb.Point, dist float64) []orb.Point {
	pts := dropRepeats(line)
	if len(pts) < 2 || dist <= 0 {
		return nil
	}

	n := len(pts)
	dirs := make([]orb.Point, n-1)
	for i := 0; i < n-1; i++ {
		dirs[i] = normalize(orb.Point{pts[i+1][0] - pts[i][0], pts[i+1][1] - pts[i][1]})
	}

	left := func(d orb.Point) orb.Point { return orb.Point{-d[1], d[0]} }

	var leftSide, rightSide []orb.Point

	// Square cap before the first point
	start := pts[0]
	d0 := dirs[0]
	capStart := orb.Point{start[0] - d0[0]*dist, start[1] - d0[1]*dist}
	l0 := left(d0)
	leftSide = append(leftSide, orb.Point{capStart[0] + l0[0]*dist, capStart[1] + l0[1]*dist})
	rightSide = append(rightSide, orb.Point{capStart[0] - l0[0]*dist, capStart[1] - l0[1]*dist})

	// Interior joins: mitered, beveled past the miter limit
	for i := 1; i < n-1; i++ {
		p := pts[i]
		la, lb := left(dirs[i-1]), left(dirs[i])
		leftSide = append(leftSide, joinPoints(p, la, lb, dist)...)
		rightSide = append(rightSide, joinPoints(p, neg(la), neg(lb), dist)...)
	}

	// Square cap past the last point
	end := pts[n-1]
	dn := dirs[n-2]
	capEnd := orb.Point{end[0] + dn[0]*dist, end[1] + dn[1]*dist}
	ln := left(dn)
	leftSide = append(leftSide, orb.Point{capEnd[0] + ln[0]*dist, capEnd[1] + ln[1]*dist})
	rightSide = append(rightSide, orb.Point{capEnd[0] - ln[0]*dist, capEnd[1] - ln[1]*dist})

	outline := leftSide
	for i := len(rightSide) - 1; i >= 0; i-- {
		outline = append(outline, rightSide[i])
	}
	return outline
}

// joinPoints returns the offset point(s) at an interior vertex for one side
// of the ribbon, given the side normals of the two adjacent segments.
func joinPoints(p, na, nb orb.Point, dist float64) []orb.Point {
	bis := normalize(orb.Point{na[0] + nb[0], na[1] + nb[1]})
	if bis[0] == 0 && bis[1] == 0 {
		// 180 degree turn: bevel with both segment offsets.
		return []orb.Point{
			{p[0] + na[0]*dist, p[1] + na[1]*dist},
			{p[0] + nb[0]*dist, p[1] + nb[1]*dist},
		}
	}

	dot := bis[0]*na[0] + bis[1]*na[1]
	if dot <= 1.0/miterLimit {
		return []orb.Point{
			{p[0] + na[0]*dist, p[1] + na[1]*dist},
			{p[0] + nb[0]*dist, p[1] + nb[1]*dist},
		}
	}

	miter := dist / dot
	return []orb.Point{{p[0] + bis[0]*miter, p[1] + bis[1]*miter}}
}

func normalize(d orb.Point) orb.Point {
	l := math.Hypot(d[0], d[1])
	if l == 0 {
		return orb.Point{}
	}
	return orb.Point{d[0] / l, d[1] / l}
}

func neg(p orb.Point) orb.Point {
	return orb.Point{-p[0], -p[1]}
}

// dropRepeats removes consecutive duplicate points.
func dropRepeats(pts []orb.Point) []orb.Point {
	out := make([]orb.Point, 0, len(pts))
	for i, p := range pts {
		if i > 0 && p == pts[i-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}
