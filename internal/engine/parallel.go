package engine

import (
	"math"
	"sync"
)

// parallelThreshold is the body count below which the partitioned force
// pass costs more in goroutine and reduction overhead than it saves.
const parallelThreshold = 64

// solveForcesParallel partitions the outer pair loop across workers. Each
// worker accumulates into its own per-body scratch, and the results are
// reduced into Body.Acc after all workers finish, so the accumulation per
// body stays serialized and the integrator sees complete accelerations.
//
// The split is by outer index only, which leaves the inner j loop and the
// symmetric +/- accumulation identical to the serial pass; only the float
// summation order differs between worker counts.
func (e *Engine) solveForcesParallel(bodies []*Body) {
	n := len(bodies)
	workers := e.Workers
	if workers > n {
		workers = n
	}

	type accum struct {
		ax, ay []float64
	}
	partial := make([]accum, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			ax := make([]float64, n)
			ay := make([]float64, n)
			// Strided outer indices balance the triangular pair loop
			// better than contiguous chunks.
			for i := w; i < n; i += workers {
				bi := bodies[i]
				for j := i + 1; j < n; j++ {
					bj := bodies[j]
					dx := bj.Pos.X - bi.Pos.X
					dy := bj.Pos.Y - bi.Pos.Y
					r2 := dx*dx + dy*dy + Softening
					r := math.Sqrt(r2)
					f := G * bi.Mass * bj.Mass / r2
					fx := f * dx / r
					fy := f * dy / r
					ax[i] += fx / bi.Mass
					ay[i] += fy / bi.Mass
					ax[j] -= fx / bj.Mass
					ay[j] -= fy / bj.Mass
				}
			}
			partial[w] = accum{ax: ax, ay: ay}
		}(w)
	}
	wg.Wait()

	for _, p := range partial {
		for i, b := range bodies {
			b.Acc.X += p.ax[i]
			b.Acc.Y += p.ay[i]
		}
	}
}
