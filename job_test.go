package dock

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/HongjianLi/idock/atomtype"
	"github.com/HongjianLi/idock/gridbox"
	"github.com/HongjianLi/idock/ligand"
	"github.com/HongjianLi/idock/spatial"
)

const twoAtomLigand = `ROOT
ATOM      1  C   LIG A   1       0.000   0.000   0.000  0.00  0.00     0.000 C
ENDROOT
BRANCH   1   2
ATOM      2  C   LIG A   1       1.500   0.000   0.000  0.00  0.00     0.000 C
ENDBRANCH   1   2
TORSDOF 1
`

func buildJob(t *testing.T) *Job {
	t.Helper()
	lig, err := ligand.Parse(strings.NewReader(twoAtomLigand), "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	box := gridbox.NewBox(spatial.Vec3{-10, -10, -10}, spatial.Vec3{10, 10, 10}, 0.5)
	nx, ny, nz := box.NumGrids[0], box.NumGrids[1], box.NumGrids[2]
	values := make([]float64, nx*ny*nz)
	for i := range values {
		values[i] = -0.01
	}
	maps := gridbox.Maps{atomtype.XSCHydrophobic: &gridbox.GridMap{NumGrids: [3]int{nx, ny, nz}, Values: values}}
	return NewJob(lig, box, maps)
}

func TestJobRunProducesResultsWithinBox(t *testing.T) {
	job := buildJob(t)
	results := job.Run(context.Background(), Options{Seed: 1, NumTasks: 2, PoolCapacity: 5, Cpus: 2})
	if len(results) == 0 {
		t.Fatal("expected at least one accepted pose")
	}
	for _, r := range results {
		for _, c := range r.HeavyCoords {
			if !job.Box.Within(c) {
				t.Fatalf("reported heavy atom %v outside the search box", c)
			}
		}
	}
}

// TestJobRunIsDeterministic exercises spec.md §8 property 6: fixed seed,
// identical results across repeated runs.
func TestJobRunIsDeterministic(t *testing.T) {
	job := buildJob(t)
	opts := Options{Seed: 42, NumTasks: 1, PoolCapacity: 3, Cpus: 1}
	first := job.Run(context.Background(), opts)
	second := job.Run(context.Background(), opts)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ across runs with the same seed:\n%v\n%v", first, second)
	}
}

func TestJobRunHonorsCancellation(t *testing.T) {
	job := buildJob(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := job.Run(ctx, Options{Seed: 1, NumTasks: 4, PoolCapacity: 5, Cpus: 2})
	if results == nil {
		t.Fatal("canceled Run should still return a (possibly empty) result slice, not nil")
	}
}
