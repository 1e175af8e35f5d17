package ligand

// InteractingPair is a pair of heavy atoms, more than 3 covalent bonds
// apart, whose intra-ligand interaction contributes to the scoring
// function (spec.md §4.1 "interacting pairs").
type InteractingPair struct {
	I1, I2        int // indices into Ligand.HeavyAtoms, I1 < I2's frame order
	TypePairIndex int // spec.md §4.2 triangular type-pair index
}
