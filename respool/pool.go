// Package respool implements the bounded, cluster-deduplicated, sorted
// result collection that Monte Carlo search tasks feed into concurrently
// (spec.md §3 "Result pool", §4.5). Grounded on the teacher's mSD type in
// align/lovo.go, which keeps a same-length parallel-slice container sorted
// with sort.Stable via a Less/Swap/Len triple; this pool follows the same
// shape but additionally deduplicates on insert rather than just sorting.
package respool

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/HongjianLi/idock/spatial"
)

// Result is a reported docking pose: its total and inter-molecular free
// energy, and the world coordinates of every heavy atom and hydrogen
// (spec.md §3 "Result"). It lives in this package rather than search's, so
// that search.Task can call Pool.Offer directly without an import cycle.
type Result struct {
	ETotal      float64
	EInter      float64
	HeavyCoords []spatial.Vec3
	HydroCoords []spatial.Vec3
}

// squaredDisplacement sums the squared distance between a's and b's heavy
// atoms, the RMSD-like clustering metric spec.md §3 and §4.5 use to decide
// whether two poses belong to the same cluster.
func squaredDisplacement(a, b []spatial.Vec3) float64 {
	diff := make([]float64, 3*len(a))
	for i := range a {
		diff[3*i], diff[3*i+1], diff[3*i+2] = a[i][0]-b[i][0], a[i][1]-b[i][1], a[i][2]-b[i][2]
	}
	return floats.Dot(diff, diff)
}

// Pool is a fixed-capacity container of Results, kept sorted ascending by
// ETotal, with no two entries within requiredSquareError of each other by
// squaredDisplacement; of two such poses the lower-energy one is kept
// (spec.md §4.5). Safe for concurrent use by
// multiple search tasks; Offer serializes on a single mutex, matching
// spec.md §5's "inserts must be serialized" requirement.
type Pool struct {
	mu                  sync.Mutex
	capacity            int
	requiredSquareError float64
	entries             []Result
}

// NewPool allocates an empty Pool of the given capacity. requiredSquareError
// is the clustering threshold from spec.md §4.5 (num_heavy_atoms in
// practice: an RMSD-of-1-Å cutoff scaled by atom count).
func NewPool(capacity int, requiredSquareError float64) *Pool {
	return &Pool{
		capacity:            capacity,
		requiredSquareError: requiredSquareError,
		entries:             make([]Result, 0, capacity),
	}
}

// Offer attempts to insert r, reporting whether it was kept. r is discarded
// if its heavy-atom coordinates cluster within requiredSquareError of any
// entry whose energy is already at or below r's (spec.md §4.5 step 1).
// Otherwise r is inserted at its sorted position, every higher-energy entry
// that clusters within requiredSquareError of r is dropped, and, if the
// pool is still over capacity, the highest-energy entry is dropped.
func (p *Pool) Offer(r Result) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.entries {
		if s.ETotal > r.ETotal {
			continue
		}
		if squaredDisplacement(r.HeavyCoords, s.HeavyCoords) < p.requiredSquareError {
			return false
		}
	}

	i := sort.Search(len(p.entries), func(i int) bool { return p.entries[i].ETotal >= r.ETotal })
	p.entries = append(p.entries, Result{})
	copy(p.entries[i+1:], p.entries[i:])
	p.entries[i] = r

	kept := p.entries[:i+1]
	for _, s := range p.entries[i+1:] {
		if squaredDisplacement(r.HeavyCoords, s.HeavyCoords) >= p.requiredSquareError {
			kept = append(kept, s)
		}
	}
	p.entries = kept

	if len(p.entries) > p.capacity {
		p.entries = p.entries[:p.capacity]
	}
	return true
}

// Len reports the number of entries currently held.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// HasRoom reports whether the pool has not yet reached capacity.
func (p *Pool) HasRoom() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries) < p.capacity
}

// Results returns a copy of the pool's entries, sorted ascending by ETotal.
func (p *Pool) Results() []Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Result, len(p.entries))
	copy(out, p.entries)
	return out
}
