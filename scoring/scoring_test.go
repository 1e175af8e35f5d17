package scoring

import (
	"math"
	"testing"

	"github.com/HongjianLi/idock/atomtype"
)

func TestEvaluateMatchesFiniteDifference(t *testing.T) {
	idx := TypePairIndex(atomtype.XSCHydrophobic, atomtype.XSOAcceptor)
	rSqr := 12.25 // r = 3.5
	const h = 1e-4
	_, dor := Evaluate(idx, rSqr)
	ePlus, _ := Evaluate(idx, rSqr+h)
	eMinus, _ := Evaluate(idx, rSqr-h)
	// dor folds in the extra factor of 2 from d(r^2)/d(r2) = 2*Δr, the
	// same convention force fields use so that dor*Δr is directly usable
	// as a gradient (spec.md §4.3).
	numeric := 2 * (ePlus - eMinus) / (2 * h)
	if math.Abs(numeric-dor) > 1e-3*math.Max(1, math.Abs(numeric)) {
		t.Fatalf("dor = %v, finite-difference 2*d(e)/d(r^2) = %v", dor, numeric)
	}
}

func TestEvaluateSymmetricUnderTypeSwap(t *testing.T) {
	a := TypePairIndex(atomtype.XSCHydrophobic, atomtype.XSSulfur)
	b := TypePairIndex(atomtype.XSSulfur, atomtype.XSCHydrophobic)
	if a != b {
		t.Fatalf("TypePairIndex should be order-independent: %d vs %d", a, b)
	}
}

func TestDonorAcceptorPairIsMoreAttractiveNearHBondDistance(t *testing.T) {
	da := TypePairIndex(atomtype.XSNDonor, atomtype.XSOAcceptor)
	nn := TypePairIndex(atomtype.XSNDonor, atomtype.XSNDonor)
	r := 2.9
	eDA, _ := Evaluate(da, r*r)
	eNN, _ := Evaluate(nn, r*r)
	if eDA >= eNN {
		t.Fatalf("donor/acceptor pair at hbond distance should be more attractive: eDA=%v eNN=%v", eDA, eNN)
	}
}
