package geometry

import (
	"reflect"
	"testing"
)

func TestSplitSelfIntersecting(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		want [][]int64
	}{
		{
			name: "no repeats",
			ids:  []int64{33, 11, 44},
			want: [][]int64{{33, 11, 44}},
		},
		{
			name: "split at repeated id",
			ids:  []int64{0, 1, 2, 3, 1, 4},
			want: [][]int64{{0, 1, 2, 3}, {1, 4}},
		},
		{
			name: "trailing singleton dropped",
			ids:  []int64{1, 2, 3, 1},
			want: [][]int64{{1, 2, 3}},
		},
		{
			name: "repeat restarts the scan",
			ids:  []int64{1, 2, 1, 3, 2, 4},
			want: [][]int64{{1, 2}, {1, 3, 2, 4}},
		},
		{
			name: "too short",
			ids:  []int64{7},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSelfIntersecting(tt.ids)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSelfIntersecting(%v) = %v, want %v", tt.ids, got, tt.want)
			}
		})
	}
}

func TestSplitSelfIntersectingTotal(t *testing.T) {
	// Two source ways, one self-intersecting, yield three rings overall.
	var rings [][]int64
	for _, way := range [][]int64{{0, 1, 2, 3, 1, 4}, {33, 11, 44}} {
		rings = append(rings, SplitSelfIntersecting(way)...)
	}
	if len(rings) != 3 {
		t.Fatalf("got %d rings, want 3", len(rings))
	}
	if !reflect.DeepEqual(rings[0], []int64{0, 1, 2, 3}) {
		t.Errorf("first ring = %v, want [0 1 2 3]", rings[0])
	}
}

func TestStitchMembers(t *testing.T) {
	tests := []struct {
		name  string
		frags map[int64][]int64
		refs  []int64
		want  []int64
	}{
		{
			name:  "forward continuation",
			frags: map[int64][]int64{1: {1, 2, 3}, 2: {3, 4, 5}},
			refs:  []int64{1, 2},
			want:  []int64{1, 2, 3, 4, 5},
		},
		{
			name:  "reversed continuation",
			frags: map[int64][]int64{1: {1, 2, 3}, 2: {5, 4, 3}},
			refs:  []int64{1, 2},
			want:  []int64{1, 2, 3, 4, 5},
		},
		{
			name:  "closing node kept despite dedup",
			frags: map[int64][]int64{1: {1, 2, 3}, 2: {3, 4, 1}},
			refs:  []int64{1, 2},
			want:  []int64{1, 2, 3, 4, 1},
		},
		{
			name:  "unmatched member skipped",
			frags: map[int64][]int64{1: {1, 2}, 3: {2, 5}},
			refs:  []int64{1, 99, 3},
			want:  []int64{1, 2, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewFragmentPool()
			for id, nodes := range tt.frags {
				pool.Add(id, nodes)
			}
			got := StitchMembers(tt.refs, pool)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StitchMembers(%v) = %v, want %v", tt.refs, got, tt.want)
			}
		})
	}
}

func TestFragmentPoolConsumesOnce(t *testing.T) {
	pool := NewFragmentPool()
	pool.Add(7, []int64{1, 2, 3})

	if got := StitchMembers([]int64{7}, pool); len(got) != 3 {
		t.Fatalf("first stitch = %v, want 3 nodes", got)
	}
	if got := StitchMembers([]int64{7}, pool); len(got) != 0 {
		t.Errorf("second stitch = %v, want empty (fragment consumed)", got)
	}
	if pool.Len() != 0 {
		t.Errorf("pool still holds %d fragments", pool.Len())
	}
}

func TestOpenRing(t *testing.T) {
	open, closed := OpenRing([]int64{1, 2, 3, 1})
	if !closed || !reflect.DeepEqual(open, []int64{1, 2, 3}) {
		t.Errorf("OpenRing closed ring = %v, %v", open, closed)
	}

	open, closed = OpenRing([]int64{1, 2, 3})
	if closed || !reflect.DeepEqual(open, []int64{1, 2, 3}) {
		t.Errorf("OpenRing open ring = %v, %v", open, closed)
	}
}
