// Package ligand parses PDBQT ligand files into a kinematic tree of rigid
// frames connected by rotatable torsions, and re-emits a conformation's
// coordinates back into PDBQT form. Grounded on the AutoDock4/PDBQT parsing
// algorithm of the original ligand.cpp, expressed in the line-oriented
// streaming-parser style gochem's files.go uses for PDB.
package ligand

import "github.com/HongjianLi/idock/atomtype"

// lineKind classifies one input line for re-emission.
type lineKind uint8

const (
	lineOther lineKind = iota
	lineHeavyAtom
	lineHydrogen
)

type lineRef struct {
	kind lineKind
	idx  int // index into HeavyAtoms or Hydrogens when kind != lineOther
}

// Ligand is a fully parsed PDBQT ligand: a kinematic tree of Frames, the
// heavy atoms and hydrogens each owns, and the intra-ligand interacting
// pairs used by the scoring function (spec.md §4.1).
type Ligand struct {
	Frames           []Frame
	HeavyAtoms       []Atom
	Hydrogens        []Atom
	InteractingPairs []InteractingPair

	numActiveTorsions int

	lines    []string
	lineRefs []lineRef
}

// NumFrames returns the number of rigid frames, including ROOT.
func (l *Ligand) NumFrames() int { return len(l.Frames) }

// NumTorsions returns the number of BRANCH frames, one fewer than
// NumFrames since ROOT contributes no torsion.
func (l *Ligand) NumTorsions() int { return len(l.Frames) - 1 }

// NumActiveTorsions returns the number of frames whose torsion actually
// moves an atom the scoring function sees, i.e. Conformation.Torsions'
// length.
func (l *Ligand) NumActiveTorsions() int { return l.numActiveTorsions }

// NumHeavyAtoms returns the number of heavy (non-hydrogen) atoms.
func (l *Ligand) NumHeavyAtoms() int { return len(l.HeavyAtoms) }

// NumHydrogens returns the number of hydrogens.
func (l *Ligand) NumHydrogens() int { return len(l.Hydrogens) }

// NumHeavyAtomsInverse returns 1/NumHeavyAtoms, the factor that turns a
// summed per-atom squared displacement into a mean one.
func (l *Ligand) NumHeavyAtomsInverse() float64 {
	return 1 / float64(len(l.HeavyAtoms))
}

// FlexibilityPenaltyFactor returns the 1/(1+w*(active+0.5*inactive))
// penalty spec.md §4.1 applies to inter-molecular free energy, rewarding
// ligands with fewer effective torsions.
func (l *Ligand) FlexibilityPenaltyFactor() float64 {
	inactive := l.NumTorsions() - l.numActiveTorsions
	return 1 / (1 + 0.05846*(float64(l.numActiveTorsions)+0.5*float64(inactive)))
}

// AtomTypes returns the distinct XScore types present among the heavy
// atoms, in first-seen order, the set of grid maps an evaluation of this
// ligand needs loaded.
func (l *Ligand) AtomTypes() []atomtype.XS {
	types := make([]atomtype.XS, 0, 10)
	seen := make(map[atomtype.XS]bool, 10)
	for _, a := range l.HeavyAtoms {
		xs := a.XS()
		if !seen[xs] {
			seen[xs] = true
			types = append(types, xs)
		}
	}
	return types
}
