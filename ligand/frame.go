package ligand

import "github.com/HongjianLi/idock/spatial"

// Frame is one rigid body in the ligand's kinematic tree: either the ROOT
// (frame 0, translated and rotated freely) or a BRANCH rotating about the
// axis from its parent's rotor-X atom to its own rotor-Y atom (spec.md
// §4.1 "Frame").
type Frame struct {
	Parent int // index into Ligand.Frames; meaningless for frame 0
	RotorX int // index into Ligand.HeavyAtoms; meaningless for frame 0
	RotorY int // index into Ligand.HeavyAtoms

	HaBegin, HaEnd int // half-open range into Ligand.HeavyAtoms
	HyBegin, HyEnd int // half-open range into Ligand.Hydrogens

	// Active is false for a frame whose torsion cannot affect scoring
	// because it consists of rotor Y and hydrogens only (e.g. -OH, -NH2);
	// such a frame contributes no entry to Conformation.Torsions.
	Active bool

	// ParentRotorYToCurrentRotorY is the displacement, in the parent
	// frame's local coordinates, from the parent's rotor-Y atom to this
	// frame's rotor-Y atom.
	ParentRotorYToCurrentRotorY spatial.Vec3

	// ParentRotorXToCurrentRotorY is the unit vector, in the parent
	// frame's local coordinates, from this frame's rotor-X atom to this
	// frame's rotor-Y atom: the torsion rotation axis.
	ParentRotorXToCurrentRotorY spatial.Vec3
}

func newFrame(parent, rotorX, haBegin, hyBegin int) Frame {
	return Frame{
		Parent:  parent,
		RotorX:  rotorX,
		HaBegin: haBegin,
		HyBegin: hyBegin,
		Active:  true,
	}
}
