package ligand

import "github.com/HongjianLi/idock/scoring"

// buildBonds returns, for each heavy atom, the indices of its covalently
// bonded neighbors: atoms within the same frame closer than the sum of
// their covalent radii, plus each BRANCH frame's (rotorX, rotorY) joint
// bond to its parent (spec.md §4.1).
func buildBonds(heavyAtoms []Atom, frames []Frame) [][]int {
	bonds := make([][]int, len(heavyAtoms))
	for k := range frames {
		f := &frames[k]
		for i := f.HaBegin; i < f.HaEnd; i++ {
			for j := i + 1; j < f.HaEnd; j++ {
				if heavyAtoms[i].IsNeighbor(heavyAtoms[j]) {
					bonds[i] = append(bonds[i], j)
					bonds[j] = append(bonds[j], i)
				}
			}
		}
		if k > 0 {
			bonds[f.RotorY] = append(bonds[f.RotorY], f.RotorX)
			bonds[f.RotorX] = append(bonds[f.RotorX], f.RotorY)
		}
	}
	return bonds
}

// computeInteractingPairs finds, for each heavy atom i, every heavy atom j
// in a later frame that is not within 3 consecutive covalent bonds of i,
// per spec.md §4.1's "interacting pairs that are not 1-4" rule. When i's
// frame is the parent of j's frame, j is also skipped if it is that child
// frame's rotor-Y atom, and every j in the child frame is skipped if i is
// the child frame's rotor-X atom.
func computeInteractingPairs(heavyAtoms []Atom, frames []Frame, bonds [][]int) []InteractingPair {
	pairs := make([]InteractingPair, 0, len(heavyAtoms)*len(heavyAtoms))
	neighbors := make([]int, 0, 10)
	inNeighbors := func(x int) bool {
		for _, n := range neighbors {
			if n == x {
				return true
			}
		}
		return false
	}
	addNeighbor := func(x int) {
		if !inNeighbors(x) {
			neighbors = append(neighbors, x)
		}
	}

	for k1 := range frames {
		f1 := &frames[k1]
		for i := f1.HaBegin; i < f1.HaEnd; i++ {
			neighbors = neighbors[:0]
			for _, b1 := range bonds[i] {
				addNeighbor(b1)
				for _, b2 := range bonds[b1] {
					addNeighbor(b2)
					for _, b3 := range bonds[b2] {
						addNeighbor(b3)
					}
				}
			}

			for k2 := k1 + 1; k2 < len(frames); k2++ {
				f2 := &frames[k2]
				for j := f2.HaBegin; j < f2.HaEnd; j++ {
					if (k1 == f2.Parent && (j == f2.RotorY || i == f2.RotorX)) || inNeighbors(j) {
						continue
					}
					idx := scoring.TypePairIndex(heavyAtoms[i].XS(), heavyAtoms[j].XS())
					pairs = append(pairs, InteractingPair{I1: i, I2: j, TypePairIndex: idx})
				}
			}
		}
	}
	return pairs
}
