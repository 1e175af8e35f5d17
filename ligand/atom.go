package ligand

import (
	"github.com/HongjianLi/idock/atomtype"
	"github.com/HongjianLi/idock/spatial"
)

// Atom is a single heavy atom or hydrogen parsed from a PDBQT ligand.
// Local starts as the raw input coordinate and is rewritten in place to be
// relative to its frame's rotor-Y atom once parsing finishes (spec.md
// §4.1, the final "relativize" pass).
type Atom struct {
	Kind        atomtype.Kind
	Local       spatial.Vec3
	Serial      int // PDBQT atom serial number; heavy atoms only, 0 for hydrogens
	hydrophobic bool
	donor       bool
}

func newAtom(kind atomtype.Kind, local spatial.Vec3) Atom {
	return Atom{
		Kind:        kind,
		Local:       local,
		hydrophobic: kind.DefaultHydrophobic(),
		donor:       kind.IsPolarHydrogen(),
	}
}

// IsHetero reports whether a is neither carbon nor hydrogen.
func (a Atom) IsHetero() bool { return a.Kind.IsHetero() }

// IsHydrogen reports whether a is a hydrogen (polar or non-polar).
func (a Atom) IsHydrogen() bool { return a.Kind.IsHydrogen() }

// IsNeighbor reports whether a and b are covalently bonded, per spec.md §3:
// the squared distance between them is less than the squared sum of their
// covalent radii.
func (a Atom) IsNeighbor(b Atom) bool {
	return atomtype.IsNeighbor(a.Kind, b.Kind, a.Local.DistanceSqr(b.Local))
}

// Hydrophobic reports whether a still counts as a hydrophobic carbon after
// the dehydrophobicization pass.
func (a Atom) Hydrophobic() bool { return a.hydrophobic }

func (a *Atom) dehydrophobicize() { a.hydrophobic = false }

// Donor reports whether a is a hydrogen-bond donor: an HD hydrogen, or a
// hetero heavy atom found bonded to one during parsing.
func (a Atom) Donor() bool { return a.donor }

func (a *Atom) donorize() { a.donor = true }

// XS returns the coarse XScore type used to index the scoring function and
// grid maps, folding in the hydrophobic/donor refinements parsing applied.
func (a Atom) XS() atomtype.XS {
	switch {
	case a.Kind.IsHydrogen():
		if a.donor {
			return atomtype.XSHydrogenDonor
		}
		return atomtype.XSHydrogen
	case a.Kind == atomtype.KindC, a.Kind == atomtype.KindA:
		if a.hydrophobic {
			return atomtype.XSCHydrophobic
		}
		return atomtype.XSCPolar
	case a.donor:
		switch a.Kind.XS() {
		case atomtype.XSNAcceptor:
			return atomtype.XSNDonorAcceptor
		case atomtype.XSOAcceptor:
			return atomtype.XSODonorAcceptor
		}
		return a.Kind.XS()
	default:
		return a.Kind.XS()
	}
}
