package engine

import (
	"image/color"
	"math"
)

// Physical constants in source units. G is scaled up so motion is visible
// at interactive time steps; Softening is added to the squared separation
// so close approaches never produce a singular force.
const (
	G         = 6.674
	Softening = 1000.0
)

// Engine is the simulation core. A host constructs one, loads bodies with
// AddBody (directly or through a preset), and calls Step once per tick.
type Engine struct {
	reg Registry

	// Workers > 1 enables the partitioned force pass for large body
	// counts. Zero means serial, which is the contract for interactive
	// hosts.
	Workers int

	merges int
}

func New() *Engine {
	return &Engine{}
}

// AddBody validates and registers a new body, returning it for the caller
// to inspect. Mass must be positive and finite; position and velocity must
// be finite. Rejection leaves the registry untouched.
func (e *Engine) AddBody(pos Vec2, mass float64, vel Vec2, col color.RGBA) (*Body, error) {
	if mass <= 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return nil, ErrNonPositiveMass
	}
	if !pos.IsValid() || !vel.IsValid() {
		return nil, ErrInvalidBody
	}
	b := newBody(pos, mass, vel, col)
	e.reg.Add(b)
	return b, nil
}

// Clear empties the registry.
func (e *Engine) Clear() {
	e.reg.Clear()
	e.merges = 0
}

// Len returns the number of live bodies.
func (e *Engine) Len() int {
	return e.reg.Len()
}

// Snapshot returns the current bodies for rendering or inspection.
// Callers must not mutate the returned bodies.
func (e *Engine) Snapshot() []*Body {
	return e.reg.Snapshot()
}

// Merges returns the number of merges resolved since the last Clear.
func (e *Engine) Merges() int {
	return e.merges
}

// Step advances the simulation by dt: force solve, then integration, then
// collision resolution. The update is atomic from the caller's view; no
// partial state is observable. Not reentrant.
func (e *Engine) Step(dt float64) {
	e.solveForces()
	e.integrate(dt)
	e.resolveCollisions()
}

// solveForces recomputes every body's acceleration from scratch by
// visiting each unordered pair exactly once.
func (e *Engine) solveForces() {
	bodies := e.reg.bodies
	for _, b := range bodies {
		b.Acc = Vec2{}
	}
	if e.Workers > 1 && len(bodies) >= parallelThreshold {
		e.solveForcesParallel(bodies)
		return
	}
	accumulatePairs(bodies, 0, len(bodies))
}

// accumulatePairs runs the pair loop for outer indices [lo, hi), adding
// directly into each body's Acc. Serial callers pass the full range.
func accumulatePairs(bodies []*Body, lo, hi int) {
	for i := lo; i < hi; i++ {
		bi := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			bj := bodies[j]

			dx := bj.Pos.X - bi.Pos.X
			dy := bj.Pos.Y - bi.Pos.Y
			r2 := dx*dx + dy*dy + Softening
			r := math.Sqrt(r2)

			f := G * bi.Mass * bj.Mass / r2
			fx := f * dx / r
			fy := f * dy / r

			bi.Acc.X += fx / bi.Mass
			bi.Acc.Y += fy / bi.Mass
			bj.Acc.X -= fx / bj.Mass
			bj.Acc.Y -= fy / bj.Mass
		}
	}
}

// integrate applies semi-implicit Euler once all accelerations for the
// tick are final: velocity from the just-computed acceleration, then
// position from the new velocity. The order is load-bearing; swapping it
// yields explicit Euler, which drifts.
func (e *Engine) integrate(dt float64) {
	for _, b := range e.reg.bodies {
		b.Vel.X += b.Acc.X * dt
		b.Vel.Y += b.Acc.Y * dt
		b.Pos.X += b.Vel.X * dt
		b.Pos.Y += b.Vel.Y * dt
		b.recordTrail()
	}
}

// resolveCollisions scans all pairs in ascending index order and merges
// overlapping bodies inelastically. The heavier body survives; on an
// exact mass tie the higher-indexed body survives. A body absorbed
// earlier in the pass is skipped for every later pair, and removals are
// applied in one compaction after the scan, so no body can feed two
// different survivors in the same tick.
func (e *Engine) resolveCollisions() {
	bodies := e.reg.bodies
	if len(bodies) < 2 {
		return
	}

	var absorbed []bool
	for i := 0; i < len(bodies); i++ {
		if absorbed != nil && absorbed[i] {
			continue
		}
		bi := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			if absorbed != nil && absorbed[j] {
				continue
			}
			bj := bodies[j]
			if Dist(bi.Pos, bj.Pos) >= bi.Radius+bj.Radius {
				continue
			}

			if absorbed == nil {
				absorbed = make([]bool, len(bodies))
			}
			main, other := bj, bi
			lost := i
			if bi.Mass > bj.Mass {
				main, other = bi, bj
				lost = j
			}
			merge(main, other)
			absorbed[lost] = true
			e.merges++
			if lost == i {
				break
			}
		}
	}

	if absorbed != nil {
		e.reg.compact(absorbed)
	}
}

// merge folds other into main: velocity is the momentum-weighted average
// over the pre-merge masses (exact momentum conservation for the pair),
// then mass and radius update together. main keeps its color and trail.
func merge(main, other *Body) {
	total := main.Mass + other.Mass
	main.Vel = Vec2{
		X: (main.Vel.X*main.Mass + other.Vel.X*other.Mass) / total,
		Y: (main.Vel.Y*main.Mass + other.Vel.Y*other.Mass) / total,
	}
	main.setMass(total)
}

// TotalMass sums the mass of all live bodies.
func (e *Engine) TotalMass() float64 {
	m := 0.0
	for _, b := range e.reg.bodies {
		m += b.Mass
	}
	return m
}

// Momentum returns the total linear momentum of the system.
func (e *Engine) Momentum() Vec2 {
	var p Vec2
	for _, b := range e.reg.bodies {
		p.X += b.Mass * b.Vel.X
		p.Y += b.Mass * b.Vel.Y
	}
	return p
}

// AngularMomentum returns the total angular momentum about the origin.
func (e *Engine) AngularMomentum() float64 {
	L := 0.0
	for _, b := range e.reg.bodies {
		L += b.Mass * (b.Pos.X*b.Vel.Y - b.Pos.Y*b.Vel.X)
	}
	return L
}

// Energy returns kinetic plus softened potential energy. The potential
// uses the same softened separation as the force solver, so the value is
// consistent with the dynamics actually integrated.
func (e *Engine) Energy() float64 {
	bodies := e.reg.bodies
	ke := 0.0
	pe := 0.0
	for i, bi := range bodies {
		ke += bi.KineticEnergy()
		for j := i + 1; j < len(bodies); j++ {
			bj := bodies[j]
			dx := bj.Pos.X - bi.Pos.X
			dy := bj.Pos.Y - bi.Pos.Y
			r := math.Sqrt(dx*dx + dy*dy + Softening)
			pe -= G * bi.Mass * bj.Mass / r
		}
	}
	return ke + pe
}
