// Package gridbox implements the search-space box and the receptor grid
// maps the conformation evaluator samples for inter-molecular energy,
// per spec.md §3-§4.3.
package gridbox

import (
	"math"

	"github.com/HongjianLi/idock/spatial"
)

// Box is the rectangular search space, corner0 <= corner1 component-wise.
type Box struct {
	Corner0     spatial.Vec3
	Corner1     spatial.Vec3
	Granularity float64
	NumGrids    [3]int
}

// NewBox builds a Box spanning [corner0, corner1) at the given grid
// granularity, deriving NumGrids the way a grid-map builder would: enough
// cells to cover the span, plus one so forward-difference lookups at the
// last interior grid line still have a neighbor to read.
func NewBox(corner0, corner1 spatial.Vec3, granularity float64) Box {
	b := Box{Corner0: corner0, Corner1: corner1, Granularity: granularity}
	for d := 0; d < 3; d++ {
		span := corner1[d] - corner0[d]
		n := int(math.Ceil(span/granularity)) + 1
		if n < 1 {
			n = 1
		}
		b.NumGrids[d] = n
	}
	return b
}

// Within reports whether c lies in the half-open box, per spec.md §3:
// corner0[d] <= c[d] < corner1[d] for all d.
func (b Box) Within(c spatial.Vec3) bool {
	for d := 0; d < 3; d++ {
		if c[d] < b.Corner0[d] || c[d] >= b.Corner1[d] {
			return false
		}
	}
	return true
}

// GranularityInverse returns 1/Granularity, cached by callers that sample
// many coordinates against the same box.
func (b Box) GranularityInverse() float64 {
	return 1 / b.Granularity
}

// GridIndex returns the integer grid index of c, floor((c-corner0)/granularity),
// per spec.md §3. Does not bounds-check against NumGrids; callers must
// verify c is Within the box first.
func (b Box) GridIndex(c spatial.Vec3) [3]int {
	inv := b.GranularityInverse()
	var idx [3]int
	for d := 0; d < 3; d++ {
		idx[d] = int((c[d] - b.Corner0[d]) * inv)
	}
	return idx
}
