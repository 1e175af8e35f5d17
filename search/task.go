// Package search implements the Monte Carlo + BFGS local-search task
// (spec.md §4.4): random initialization, entity mutation, BFGS descent
// under Wolfe conditions, and Metropolis acceptance feeding a shared result
// pool. Grounded on monte_carlo_task.cpp from the original source, with the
// packed-triangle Hessian replaced by gonum's mat.SymDense per DESIGN.md,
// and per-task randomness drawn through gonum/stat/distuv the way the
// teacher's chemstat/histo.go already depends on gonum/stat's sibling
// packages rather than hand-rolling distributions.
package search

import (
	"context"
	"log"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/HongjianLi/idock/conform"
	"github.com/HongjianLi/idock/gridbox"
	"github.com/HongjianLi/idock/ligand"
	"github.com/HongjianLi/idock/respool"
	"github.com/HongjianLi/idock/spatial"
)

const (
	maxInitAttempts          = 1000
	numAlphaTrials           = 5
	wolfeC1                  = 1e-4
	wolfeC2                  = 0.9
	orientationMutationScale = 0.01
)

// Task runs one independent Monte Carlo + BFGS search against a shared,
// read-only ligand, box and set of receptor grid maps, offering a
// Metropolis-accepted pose to a shared Pool whenever it beats the task's
// best energy so far or the Pool has room (spec.md §4.4, §5). A Task owns
// its own PRNG state; two Tasks never share mutable state except through
// Pool.Offer's internal mutex.
type Task struct {
	Ligand *ligand.Ligand
	Box    gridbox.Box
	Maps   gridbox.Maps
	Seed   uint64
	Logger *log.Logger
}

// NewTask builds a Task for the given seed, defaulting Logger to
// log.Default so a caller that doesn't care about InitializationFailure
// diagnostics doesn't have to wire one up, mirroring how align.Options'
// WriteTraj gates an optional side effect rather than requiring it.
func NewTask(lig *ligand.Ligand, box gridbox.Box, maps gridbox.Maps, seed uint64) *Task {
	return &Task{Ligand: lig, Box: box, Maps: maps, Seed: seed, Logger: log.Default()}
}

func (t *Task) logf(format string, args ...any) {
	if t.Logger != nil {
		t.Logger.Printf(format, args...)
	}
}

// Run executes num_iterations = 100*num_heavy_atoms Monte Carlo steps,
// offering an accepted pose to pool when its energy is below the best seen
// so far or pool.HasRoom() (spec.md §4.4). ctx is checked only
// at iteration boundaries (spec.md §5): cancellation never interrupts a
// BFGS inner loop mid-flight. If no feasible conformation is found among
// maxInitAttempts random starts, Run logs and returns without error
// (spec.md §7 InitializationFailure is not fatal).
func (t *Task) Run(ctx context.Context, pool *respool.Pool) {
	lig := t.Ligand
	numHeavyAtoms := lig.NumHeavyAtoms()
	numActiveTorsions := lig.NumActiveTorsions()
	numEntities := 2 + numActiveTorsions
	numVariables := 6 + numActiveTorsions

	numIterations := 100 * numHeavyAtoms
	eUpperBound := 4 * float64(numHeavyAtoms)

	rng := rand.New(rand.NewSource(t.Seed))
	uniformPi := distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: rng}
	uniform11 := distuv.Uniform{Min: -1, Max: 1, Src: rng}
	uniform01 := distuv.Uniform{Min: 0, Max: 1, Src: rng}
	uniformX := distuv.Uniform{Min: t.Box.Corner0[0], Max: t.Box.Corner1[0], Src: rng}
	uniformY := distuv.Uniform{Min: t.Box.Corner0[1], Max: t.Box.Corner1[1], Src: rng}
	uniformZ := distuv.Uniform{Min: t.Box.Corner0[2], Max: t.Box.Corner1[2], Src: rng}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}

	randomConformation := func() conform.Conformation {
		q := spatial.Quat{normal.Rand(), normal.Rand(), normal.Rand(), normal.Rand()}.Normalize()
		torsions := make([]float64, numActiveTorsions)
		for i := range torsions {
			torsions[i] = uniformPi.Rand()
		}
		return conform.Conformation{
			Position:    spatial.Vec3{uniformX.Rand(), uniformY.Rand(), uniformZ.Rand()},
			Orientation: q,
			Torsions:    torsions,
		}
	}

	var c0 conform.Conformation
	var e0 float64
	found := false
	for i := 0; i < maxInitAttempts && !found; i++ {
		c0 = randomConformation()
		g0 := conform.NewChange(numActiveTorsions)
		var ok bool
		e0, _, ok = conform.Evaluate(lig, t.Box, t.Maps, c0, eUpperBound, &g0)
		found = ok
	}
	if !found {
		t.logf("search: seed %d found no valid initial conformation after %d attempts", t.Seed, maxInitAttempts)
		return
	}
	bestE := e0

	identity := mat.NewSymDense(numVariables, nil)
	for i := 0; i < numVariables; i++ {
		identity.SetSym(i, i, 1)
	}

	for iter := 0; iter < numIterations; iter++ {
		if ctx.Err() != nil {
			return
		}

		c1, e1, e1Inter, g1 := t.mutate(lig, c0, numEntities, numActiveTorsions, eUpperBound, uniformPi, uniform11, rng)

		h := mat.NewSymDense(numVariables, nil)
		h.CopySym(identity)

		g1Flat := flattenChange(g1, numVariables)
		for {
			p := make([]float64, numVariables)
			for i := 0; i < numVariables; i++ {
				sum := 0.0
				for j := 0; j < numVariables; j++ {
					sum += h.At(i, j) * g1Flat[j]
				}
				p[i] = -sum
			}
			pg1 := floats.Dot(p, g1Flat)

			c2, e2, e2Inter, g2, alpha, ok := t.lineSearch(lig, c1, e1, pg1, p, numActiveTorsions, numVariables, eUpperBound)
			if !ok {
				break
			}

			g2Flat := flattenChange(g2, numVariables)
			y := make([]float64, numVariables)
			copy(y, g2Flat)
			floats.Sub(y, g1Flat)
			mhy := make([]float64, numVariables)
			for i := 0; i < numVariables; i++ {
				sum := 0.0
				for j := 0; j < numVariables; j++ {
					sum += h.At(i, j) * y[j]
				}
				mhy[i] = -sum
			}
			yhy := -floats.Dot(y, mhy)
			yp := floats.Dot(y, p)
			ryp := 1 / yp
			pco := ryp * (ryp*yhy + alpha)
			for i := 0; i < numVariables; i++ {
				for j := i; j < numVariables; j++ {
					h.SetSym(i, j, h.At(i, j)+ryp*(mhy[i]*p[j]+mhy[j]*p[i])+pco*p[i]*p[j])
				}
			}

			c1, e1, e1Inter, g1 = c2, e2, e2Inter, g2
			g1Flat = g2Flat
		}

		delta := e0 - e1
		if delta > 0 || uniform01.Rand() < math.Exp(delta) {
			if e1 < bestE || pool.HasRoom() {
				heavy, hydro := conform.ComposeWorldCoordinates(lig, c1)
				pool.Offer(respool.Result{ETotal: e1, EInter: e1Inter, HeavyCoords: heavy, HydroCoords: hydro})
				if e1 < bestE {
					// spec.md §9: the original assigns best_e = e0 here, a
					// flagged bug. We assign the new energy, as recommended.
					bestE = e1
				}
			}
			c0, e0 = c1, e1
		}
	}
}

// flattenChange materializes a conform.Change's flat gradient vector
// (spec.md §9's Position/Orientation/Torsions packing) so gonum/floats can
// take its dot product with a plain []float64 descent direction.
func flattenChange(c conform.Change, numVariables int) []float64 {
	out := make([]float64, numVariables)
	for i := range out {
		out[i] = c.At(i)
	}
	return out
}

// mutate repeats a single-entity random perturbation of c0 until the
// evaluator accepts the result, per spec.md §4.4 step 1.
func (t *Task) mutate(lig *ligand.Ligand, c0 conform.Conformation, numEntities, numActiveTorsions int, eUpperBound float64, uniformPi, uniform11 distuv.Uniform, rng *rand.Rand) (c1 conform.Conformation, e1, e1Inter float64, g1 conform.Change) {
	for {
		c1 = c0.Clone()
		entity := rng.Intn(numEntities)
		switch {
		case entity < numActiveTorsions:
			c1.Torsions[entity] = uniformPi.Rand()
		case entity == numActiveTorsions:
			c1.Position = c1.Position.Add(spatial.Vec3{uniform11.Rand(), uniform11.Rand(), uniform11.Rand()})
		default:
			delta := spatial.Vec3{
				orientationMutationScale * uniform11.Rand(),
				orientationMutationScale * uniform11.Rand(),
				orientationMutationScale * uniform11.Rand(),
			}
			c1.Orientation = spatial.AxisAngleFromVec3(delta).Mul(c1.Orientation).Normalize()
		}

		g1 = conform.NewChange(numActiveTorsions)
		var ok bool
		e1, e1Inter, ok = conform.Evaluate(lig, t.Box, t.Maps, c1, eUpperBound, &g1)
		if ok {
			return c1, e1, e1Inter, g1
		}
	}
}

// lineSearch performs the backtracking Wolfe line search of spec.md §4.4
// step 2: up to numAlphaTrials shrinking steps along descent direction p,
// accepting the first alpha that satisfies both the Armijo and curvature
// conditions.
func (t *Task) lineSearch(lig *ligand.Ligand, c1 conform.Conformation, e1, pg1 float64, p []float64, numActiveTorsions, numVariables int, eUpperBound float64) (c2 conform.Conformation, e2, e2Inter float64, g2 conform.Change, alpha float64, ok bool) {
	alpha = 1.0
	for trial := 0; trial < numAlphaTrials; trial++ {
		alpha *= 0.1

		torsions := make([]float64, numActiveTorsions)
		for i := range torsions {
			torsions[i] = c1.Torsions[i] + alpha*p[6+i]
		}
		c2 = conform.Conformation{
			Position:    c1.Position.Add(spatial.Vec3{p[0], p[1], p[2]}.Scale(alpha)),
			Orientation: spatial.AxisAngleFromVec3(spatial.Vec3{p[3], p[4], p[5]}.Scale(alpha)).Mul(c1.Orientation).Normalize(),
			Torsions:    torsions,
		}

		localBound := e1 + wolfeC1*alpha*pg1
		g2 = conform.NewChange(numActiveTorsions)
		var accepted bool
		e2, e2Inter, accepted = conform.Evaluate(lig, t.Box, t.Maps, c2, localBound, &g2)
		if !accepted {
			continue
		}
		pg2 := floats.Dot(p, flattenChange(g2, numVariables))
		if pg2 >= wolfeC2*pg1 {
			return c2, e2, e2Inter, g2, alpha, true
		}
	}
	return c2, e2, e2Inter, g2, alpha, false
}
