package geometry

import "github.com/paulmach/orb"

// Normalize classifies a ring's winding and reorders the vertex indices to
// the requested orientation. The convention is z-up: a clockwise ring faces
// down. The shoelace sum is taken over points sampled every stride, which
// gives a cheap approximation on very large rings.
//
// The returned flag reports whether the ring was originally clockwise, so a
// repeated call with the already-requested orientation classifies the same
// way (the index order is only reversed when the target differs from what
// was found).
func Normalize(points []orb.Point, indices []int, makeDownFacing bool, stride int) ([]int, bool) {
	wasClockwise := IsClockwise(points, stride)
	if wasClockwise != makeDownFacing {
		reverse(indices)
	}
	return indices, wasClockwise
}

// IsClockwise reports whether the ring winds clockwise, sampling every
// stride points.
func IsClockwise(points []orb.Point, stride int) bool {
	return shoelace(points, stride) > 0
}

// shoelace computes sum of (x2-x1)*(y2+y1) over the sampled ring edges.
// Positive means clockwise in a y-up plane.
func shoelace(points []orb.Point, stride int) float64 {
	if stride < 1 {
		stride = 1
	}
	n := len(points)
	sum := 0.0
	for i := 0; i*stride < n; i++ {
		j := (i + 1) * stride
		if j >= n {
			j = 0
		}
		p, q := points[i*stride], points[j]
		sum += (q[0] - p[0]) * (q[1] + p[1])
	}
	return sum
}

// signedArea returns the conventional signed area of an open ring (positive
// for counter-clockwise).
func signedArea(points []orb.Point) float64 {
	return -shoelace(points, 1) / 2
}

func reverse(indices []int) {
	for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
		indices[i], indices[j] = indices[j], indices[i]
	}
}

// ringIndices returns 0..n-1.
func ringIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
