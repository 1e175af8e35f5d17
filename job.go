// Package dock wires the ligand, conform, search and respool packages into
// a runnable docking job: N independent Monte Carlo search tasks sharing a
// read-only ligand/box/grid-map triple and a mutex-guarded result pool
// (spec.md §5). Grounded on align.MSDTraj's chunked-goroutine pattern in
// the teacher's align/lovo.go, which runs a fixed number of worker
// goroutines over channel-delivered work with an Options.Cpus field
// defaulting via runtime.NumCPU().
package dock

import (
	"context"
	"runtime"
	"sync"

	"github.com/HongjianLi/idock/gridbox"
	"github.com/HongjianLi/idock/ligand"
	"github.com/HongjianLi/idock/respool"
	"github.com/HongjianLi/idock/search"
)

// Options configures a Job, following the teacher's align.Options shape
// (Begin/Skip/Cpus passed by value, Cpus defaulted when zero).
type Options struct {
	// Seed derives each task's own PRNG seed deterministically
	// (Seed+uint64(taskIndex)), so a Job is reproducible end to end
	// (spec.md §8 property 6) while still giving every task independent
	// randomness.
	Seed uint64
	// NumTasks is the number of independent Monte Carlo search tasks to
	// run. spec.md does not fix this; a caller typically sets it to the
	// number of CPUs it intends to dedicate to one docking job.
	NumTasks int
	// PoolCapacity bounds the shared result pool (spec.md §3 "Result
	// pool").
	PoolCapacity int
	// Cpus bounds the number of worker goroutines running tasks
	// concurrently. Zero defaults to runtime.NumCPU(), mirroring
	// align.Options.Cpus.
	Cpus int
}

func (o Options) cpus() int {
	if o.Cpus > 0 {
		return o.Cpus
	}
	return runtime.NumCPU()
}

// Job holds the read-only inputs a docking run shares across every search
// task: the parsed ligand, the search-space box, and the receptor's grid
// maps (spec.md §5 "Shared, read-only state").
type Job struct {
	Ligand *ligand.Ligand
	Box    gridbox.Box
	Maps   gridbox.Maps
}

// NewJob builds a Job from a parsed ligand, a search box and a set of
// receptor grid maps.
func NewJob(lig *ligand.Ligand, box gridbox.Box, maps gridbox.Maps) *Job {
	return &Job{Ligand: lig, Box: box, Maps: maps}
}

// Run spawns options.NumTasks search.Tasks across a pool of options.cpus()
// worker goroutines, returning the merged, sorted, deduplicated results
// once every task has finished or ctx is canceled. Cancellation is
// cooperative: in-flight tasks notice ctx at their next iteration boundary
// (spec.md §5 "Cancellation") and return early, contributing whatever they
// had already offered to the pool.
func (j *Job) Run(ctx context.Context, options Options) []respool.Result {
	pool := respool.NewPool(options.PoolCapacity, float64(j.Ligand.NumHeavyAtoms()))

	work := make(chan uint64)
	var wg sync.WaitGroup
	cpus := options.cpus()
	if cpus > options.NumTasks {
		cpus = options.NumTasks
	}
	for w := 0; w < cpus; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range work {
				task := search.NewTask(j.Ligand, j.Box, j.Maps, seed)
				task.Run(ctx, pool)
			}
		}()
	}

	for i := 0; i < options.NumTasks; i++ {
		select {
		case work <- options.Seed + uint64(i):
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return pool.Results()
		}
	}
	close(work)
	wg.Wait()

	return pool.Results()
}
