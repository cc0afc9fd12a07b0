package geometry

import "github.com/paulmach/orb"

// Footprint is one outer ring plus zero or more hole rings. Rings are open:
// the closing edge runs from the last point back to the first, and rings
// with fewer than 3 points are invalid.
type Footprint struct {
	Outer []orb.Point
	Holes [][]orb.Point
}

// FragmentPool holds way fragments (ordered node-id sequences) available for
// relation stitching. Each fragment is consumed at most once.
type FragmentPool struct {
	frags map[int64][]int64
}

// NewFragmentPool creates an empty pool.
func NewFragmentPool() *FragmentPool {
	return &FragmentPool{frags: make(map[int64][]int64)}
}

// Add registers a way fragment under its way id.
func (p *FragmentPool) Add(id int64, nodes []int64) {
	p.frags[id] = nodes
}

// take removes and returns a fragment, consuming it.
func (p *FragmentPool) take(id int64) ([]int64, bool) {
	nodes, ok := p.frags[id]
	if ok {
		delete(p.frags, id)
	}
	return nodes, ok
}

// Len returns the number of unconsumed fragments.
func (p *FragmentPool) Len() int {
	return len(p.frags)
}

// StitchMembers greedily merges the pooled way fragments referenced by one
// relation role group into a single contiguous node-id sequence. A fragment
// whose first node does not continue the accumulated sequence is reversed
// before appending, and the shared joint node is not repeated. Members that
// cannot be matched to a pooled fragment are skipped, leaving a partial
// ring rather than failing the relation.
func StitchMembers(refs []int64, pool *FragmentPool) []int64 {
	var acc []int64
	seen := make(map[int64]bool)

	for _, ref := range refs {
		nodes, ok := pool.take(ref)
		if !ok {
			continue
		}

		frag := make([]int64, len(nodes))
		copy(frag, nodes)
		if len(acc) > 0 && acc[len(acc)-1] != frag[0] {
			reverseIDs(frag)
		}

		for i, id := range frag {
			// The fragment's final node may close the ring, so it is kept
			// even when already present.
			if seen[id] && i != len(frag)-1 {
				continue
			}
			acc = append(acc, id)
			seen[id] = true
		}
	}

	return acc
}

// SplitSelfIntersecting splits a node-id sequence at each repeated id into
// disjoint sub-sequences, each describing an independent ring. Sub-sequences
// of fewer than 2 ids are dropped. A sequence with no repetitions is
// returned as a single ring.
func SplitSelfIntersecting(ids []int64) [][]int64 {
	var out [][]int64

	rest := ids
	for len(rest) > 1 {
		seen := make(map[int64]bool, len(rest))
		cur := make([]int64, 0, len(rest))
		splitAt := -1
		for i, id := range rest {
			if seen[id] {
				splitAt = i
				break
			}
			seen[id] = true
			cur = append(cur, id)
		}

		if splitAt == -1 {
			out = append(out, cur)
			break
		}
		if len(cur) > 1 {
			out = append(out, cur)
		}
		// Restart from the repeated id so it begins the next ring.
		rest = rest[splitAt:]
	}

	return out
}

// OpenRing drops a trailing node id equal to the first, returning the open
// form and whether the sequence was explicitly closed.
func OpenRing(ids []int64) (open []int64, wasClosed bool) {
	if len(ids) > 1 && ids[0] == ids[len(ids)-1] {
		return ids[:len(ids)-1], true
	}
	return ids, false
}

func reverseIDs(ids []int64) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}
