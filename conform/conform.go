// Package conform implements the conformation representation and the
// forward-kinematics energy-and-gradient evaluator: given a pose, it
// places every ligand atom in world space, sums inter-molecular energy
// from receptor grid maps with intra-molecular energy from the scoring
// function, and produces the analytic gradient BFGS needs (spec.md §4.3).
// Grounded on ligand::evaluate/compose_result in the original ligand.cpp,
// expressed with the same per-frame reverse-accumulation the teacher's
// gochem uses for its own tree-shaped topology walks (chemgraph).
package conform

import (
	"github.com/HongjianLi/idock/gridbox"
	"github.com/HongjianLi/idock/ligand"
	"github.com/HongjianLi/idock/scoring"
	"github.com/HongjianLi/idock/spatial"
)

// Conformation is a docking pose: the ROOT frame's position and
// orientation, plus one angle per active torsion (spec.md §4).
type Conformation struct {
	Position    spatial.Vec3
	Orientation spatial.Quat
	Torsions    []float64
}

// Clone returns a deep copy, since Torsions is a slice callers mutate in
// place during search.
func (c Conformation) Clone() Conformation {
	torsions := make([]float64, len(c.Torsions))
	copy(torsions, c.Torsions)
	return Conformation{Position: c.Position, Orientation: c.Orientation, Torsions: torsions}
}

// Change is the gradient of energy with respect to a Conformation's
// variables: a 3-vector force, a 3-vector axial torque, and one scalar
// projection per active torsion (spec.md §4).
type Change struct {
	Position    spatial.Vec3
	Orientation spatial.Vec3
	Torsions    []float64
}

// NewChange allocates a Change sized for numActiveTorsions, zeroed.
func NewChange(numActiveTorsions int) Change {
	return Change{Torsions: make([]float64, numActiveTorsions)}
}

// At returns the i-th component of the flat gradient vector convention
// spec.md §9 Design Notes describes: 0-2 is Position, 3-5 is Orientation,
// 6 and beyond is Torsions. BFGS treats a Change purely through this
// indexer, never touching the named fields directly.
func (c Change) At(i int) float64 {
	switch {
	case i < 3:
		return c.Position[i]
	case i < 6:
		return c.Orientation[i-3]
	default:
		return c.Torsions[i-6]
	}
}

// frameState is the per-frame scratch state forward kinematics and
// gradient aggregation share.
type frameState struct {
	origin       spatial.Vec3
	orientationQ spatial.Quat
	orientationM spatial.Mat3
	axis         spatial.Vec3
	force        spatial.Vec3
	torque       spatial.Vec3
}

// Evaluate runs forward kinematics for conf, sums inter- and
// intra-molecular energy, and (if the pose survives every box check and
// beats eUpperBound) fills grad with the analytic gradient. ok is false
// whenever spec.md §4.3 says to reject the pose, in which case e, eInter
// and grad are meaningless.
func Evaluate(lig *ligand.Ligand, box gridbox.Box, maps gridbox.Maps, conf Conformation, eUpperBound float64, grad *Change) (e, eInter float64, ok bool) {
	if !box.Within(conf.Position) {
		return 0, 0, false
	}

	numFrames := lig.NumFrames()
	frames := make([]frameState, numFrames)
	coords := make([]spatial.Vec3, lig.NumHeavyAtoms())
	derivatives := make([]spatial.Vec3, lig.NumHeavyAtoms())

	root := &lig.Frames[0]
	frames[0].origin = conf.Position
	frames[0].orientationQ = conf.Orientation
	frames[0].orientationM = conf.Orientation.ToMat3()
	for i := root.HaBegin; i < root.HaEnd; i++ {
		coords[i] = frames[0].origin.Add(frames[0].orientationM.MulVec3(lig.HeavyAtoms[i].Local))
		if !box.Within(coords[i]) {
			return 0, 0, false
		}
	}

	t := 0
	for k := 1; k < numFrames; k++ {
		f := &lig.Frames[k]
		parent := &frames[f.Parent]
		frames[k].origin = parent.origin.Add(parent.orientationM.MulVec3(f.ParentRotorYToCurrentRotorY))
		if !box.Within(frames[k].origin) {
			return 0, 0, false
		}

		if !f.Active {
			coords[f.RotorY] = frames[k].origin
			continue
		}

		frames[k].axis = parent.orientationM.MulVec3(f.ParentRotorXToCurrentRotorY)
		frames[k].orientationQ = spatial.AxisAngle(frames[k].axis, conf.Torsions[t]).Mul(parent.orientationQ)
		t++
		frames[k].orientationM = frames[k].orientationQ.ToMat3()

		for i := f.HaBegin; i < f.HaEnd; i++ {
			coords[i] = frames[k].origin.Add(frames[k].orientationM.MulVec3(lig.HeavyAtoms[i].Local))
			if !box.Within(coords[i]) {
				return 0, 0, false
			}
		}
	}

	granularityInverse := box.GranularityInverse()
	for i, a := range lig.HeavyAtoms {
		gm, ok := maps[a.XS()]
		if !ok {
			return 0, 0, false
		}
		idx := box.GridIndex(coords[i])
		e000, deriv := gm.Sample(idx, granularityInverse)
		derivatives[i] = spatial.Vec3{deriv[0], deriv[1], deriv[2]}
		eInter += e000
	}
	e = eInter

	for _, p := range lig.InteractingPairs {
		r := coords[p.I2].Sub(coords[p.I1])
		r2 := r.NormSqr()
		if r2 >= scoring.CutoffSqr {
			continue
		}
		de, dor := scoring.Evaluate(p.TypePairIndex, r2)
		e += de
		d := r.Scale(dor)
		derivatives[p.I1] = derivatives[p.I1].Sub(d)
		derivatives[p.I2] = derivatives[p.I2].Add(d)
	}

	if e >= eUpperBound {
		return 0, 0, false
	}

	if grad != nil {
		t = lig.NumActiveTorsions()
		for k := numFrames - 1; k > 0; k-- {
			f := &lig.Frames[k]
			for i := f.HaBegin; i < f.HaEnd; i++ {
				frames[k].force = frames[k].force.Add(derivatives[i])
				frames[k].torque = frames[k].torque.Add(coords[i].Sub(frames[k].origin).Cross(derivatives[i]))
			}

			parent := &frames[f.Parent]
			parent.force = parent.force.Add(frames[k].force)
			parent.torque = parent.torque.Add(frames[k].torque).Add(frames[k].origin.Sub(parent.origin).Cross(frames[k].force))

			if !f.Active {
				continue
			}
			t--
			grad.Torsions[t] = frames[k].torque.Dot(frames[k].axis)
		}

		for i := root.HaBegin; i < root.HaEnd; i++ {
			frames[0].force = frames[0].force.Add(derivatives[i])
			frames[0].torque = frames[0].torque.Add(coords[i].Sub(frames[0].origin).Cross(derivatives[i]))
		}
		grad.Position = frames[0].force
		grad.Orientation = frames[0].torque
	}

	return e, eInter, true
}

// ComposeWorldCoordinates runs forward kinematics for conf without scoring
// and returns every heavy atom's and hydrogen's world coordinate, the
// representation WriteConformation needs to re-emit a result pose
// (spec.md §4.3's compose_result role).
func ComposeWorldCoordinates(lig *ligand.Ligand, conf Conformation) (heavy, hydro []spatial.Vec3) {
	numFrames := lig.NumFrames()
	origins := make([]spatial.Vec3, numFrames)
	orientationsQ := make([]spatial.Quat, numFrames)
	orientationsM := make([]spatial.Mat3, numFrames)
	heavy = make([]spatial.Vec3, lig.NumHeavyAtoms())
	hydro = make([]spatial.Vec3, lig.NumHydrogens())

	origins[0] = conf.Position
	orientationsQ[0] = conf.Orientation
	orientationsM[0] = conf.Orientation.ToMat3()

	root := &lig.Frames[0]
	for i := root.HaBegin; i < root.HaEnd; i++ {
		heavy[i] = origins[0].Add(orientationsM[0].MulVec3(lig.HeavyAtoms[i].Local))
	}
	for i := root.HyBegin; i < root.HyEnd; i++ {
		hydro[i] = origins[0].Add(orientationsM[0].MulVec3(lig.Hydrogens[i].Local))
	}

	t := 0
	for k := 1; k < numFrames; k++ {
		f := &lig.Frames[k]
		origins[k] = origins[f.Parent].Add(orientationsM[f.Parent].MulVec3(f.ParentRotorYToCurrentRotorY))

		angle := 0.0
		if f.Active {
			angle = conf.Torsions[t]
			t++
		}
		axis := orientationsM[f.Parent].MulVec3(f.ParentRotorXToCurrentRotorY)
		orientationsQ[k] = spatial.AxisAngle(axis, angle).Mul(orientationsQ[f.Parent])
		orientationsM[k] = orientationsQ[k].ToMat3()

		for i := f.HaBegin; i < f.HaEnd; i++ {
			heavy[i] = origins[k].Add(orientationsM[k].MulVec3(lig.HeavyAtoms[i].Local))
		}
		for i := f.HyBegin; i < f.HyEnd; i++ {
			hydro[i] = origins[k].Add(orientationsM[k].MulVec3(lig.Hydrogens[i].Local))
		}
	}

	return heavy, hydro
}
