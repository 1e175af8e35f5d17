// Package scoring implements the pairwise intra-ligand scoring function
// external contract described in spec.md §4.2. The precise numerical form
// of the potential is explicitly out of scope for the docking core (spec.md
// §1); what this package guarantees is the *shape* of the contract every
// caller in this module relies on: a pure, cutoff-bounded function of a
// triangular type-pair index and a squared distance, returning an energy
// and the r²-derivative factor needed to assemble the analytic gradient.
package scoring

import (
	"math"

	"github.com/HongjianLi/idock/atomtype"
	"github.com/HongjianLi/idock/spatial"
)

// CutoffSqr is the squared distance beyond which intra-ligand pairwise
// interactions are ignored, matching spec.md §4.2's CUTOFF_SQR (~64 Å²).
const CutoffSqr = 64.0

const numXS = int(atomtype.NumXS)

type wellParams struct {
	epsilon float64 // well depth
	sigma   float64 // van der Waals contact distance
	hbDepth float64 // hydrogen-bond Gaussian bonus depth, 0 if the pair cannot hydrogen bond
	hbDist  float64 // hydrogen-bond optimal distance
}

// table is indexed by the packed triangular index of the two XS types, per
// spatial.TriRestrictive/TriPermissive.
var table [numXS * (numXS + 1) / 2]wellParams

func init() {
	for y := 0; y < numXS; y++ {
		for x := 0; x <= y; x++ {
			table[spatial.TriRestrictive(x, y)] = wellFor(atomtype.XS(x), atomtype.XS(y))
		}
	}
}

func isDonor(x atomtype.XS) bool {
	switch x {
	case atomtype.XSNDonor, atomtype.XSNDonorAcceptor, atomtype.XSODonor, atomtype.XSODonorAcceptor, atomtype.XSMetalDonor, atomtype.XSHydrogenDonor:
		return true
	}
	return false
}

func isAcceptor(x atomtype.XS) bool {
	switch x {
	case atomtype.XSNAcceptor, atomtype.XSNDonorAcceptor, atomtype.XSOAcceptor, atomtype.XSODonorAcceptor:
		return true
	}
	return false
}

func isHydrophobic(x atomtype.XS) bool {
	switch x {
	case atomtype.XSCHydrophobic, atomtype.XSFluorine, atomtype.XSChlorine, atomtype.XSBromine, atomtype.XSIodine:
		return true
	}
	return false
}

// wellFor derives Lennard-Jones-like well parameters and an optional
// hydrogen-bond bonus for a pair of XS types. The exact weights are not
// specified (spec.md §1 places scoring-function numerics out of scope);
// this is one self-consistent, differentiable choice that produces a
// steric repulsion, a van der Waals minimum, and a directional-strength
// hydrogen bond bonus when one side donates and the other accepts.
func wellFor(a, b atomtype.XS) wellParams {
	sigma := 3.5
	epsilon := 0.03
	if isHydrophobic(a) && isHydrophobic(b) {
		epsilon = 0.06
	}
	hbDepth := 0.0
	hbDist := 2.9
	if (isDonor(a) && isAcceptor(b)) || (isDonor(b) && isAcceptor(a)) {
		hbDepth = 0.6
	}
	return wellParams{epsilon: epsilon, sigma: sigma, hbDepth: hbDepth, hbDist: hbDist}
}

// Evaluate returns the pairwise energy e and dor, twice the derivative of e
// with respect to r², at squared distance rSqr for the type pair identified
// by typePairIndex (a packed triangular index over XS types). The factor of
// two makes dor*Δr, with Δr = r2-r1, the 3-vector gradient of e with
// respect to atom 2's position, per spec.md §4.3.
func Evaluate(typePairIndex int, rSqr float64) (e, dor float64) {
	p := table[typePairIndex]
	s := rSqr
	if s <= 0 {
		s = 1e-6
	}
	sigma2 := p.sigma * p.sigma
	u := sigma2 / s
	u3 := u * u * u
	u6 := u3 * u3
	e = p.epsilon * (u6 - 2*u3)
	// d/ds [eps*(u^6 - 2u^3)] where u = sigma2/s, du/ds = -u/s:
	// d(u^6)/ds = -6u^6/s, d(u^3)/ds = -3u^3/s, so the bracket's
	// derivative is 6/s*(u^3 - u^6).
	dEdsLJ := 6 * p.epsilon / s * (u3 - u6)
	deds := dEdsLJ

	if p.hbDepth != 0 {
		r := math.Sqrt(s)
		w := 0.35
		d := (r - p.hbDist) / w
		g := p.hbDepth * math.Exp(-d*d)
		e -= g
		dgdr := g * (-2 * d / w)
		dgds := dgdr / (2 * r)
		deds -= dgds
	}
	dor = 2 * deds
	return e, dor
}

// TypePairIndex returns the packed triangular scoring-table index for the
// unordered pair of XS types (xs1, xs2).
func TypePairIndex(xs1, xs2 atomtype.XS) int {
	return spatial.TriPermissive(int(xs1), int(xs2))
}
