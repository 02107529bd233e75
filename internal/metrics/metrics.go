// Package metrics implements run-level diagnostics over engine state.
// Each metric satisfies the sim.Metric interface.
package metrics

import (
	"math"

	"github.com/san-kum/gravlab/internal/engine"
)

// MomentumDrift tracks the worst relative deviation of total linear
// momentum from its first observed value. Merges conserve momentum
// exactly; softening plus finite steps should keep drift small but
// nonzero for isolated systems.
type MomentumDrift struct {
	initial  engine.Vec2
	initMag  float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(bodies []*engine.Body, t float64) {
	var p engine.Vec2
	for _, b := range bodies {
		p.X += b.Mass * b.Vel.X
		p.Y += b.Mass * b.Vel.Y
	}
	if m.samples == 0 {
		m.initial = p
		m.initMag = p.Len()
	}
	m.samples++

	drift := p.Sub(m.initial).Len()
	if m.initMag > 0 {
		drift /= m.initMag
	}
	if drift > m.maxDrift {
		m.maxDrift = drift
	}
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	*m = MomentumDrift{}
}

// Energy reports the final total energy (kinetic plus softened
// potential) observed during the run.
type Energy struct {
	last    float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{}
}

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(bodies []*engine.Body, t float64) {
	ke := 0.0
	pe := 0.0
	for i, bi := range bodies {
		ke += bi.KineticEnergy()
		for j := i + 1; j < len(bodies); j++ {
			bj := bodies[j]
			dx := bj.Pos.X - bi.Pos.X
			dy := bj.Pos.Y - bi.Pos.Y
			r := math.Sqrt(dx*dx + dy*dy + engine.Softening)
			pe -= engine.G * bi.Mass * bj.Mass / r
		}
	}
	e.last = ke + pe
	e.samples++
}

func (e *Energy) Value() float64 {
	return e.last
}

func (e *Energy) Reset() {
	*e = Energy{}
}

// BodyCount reports the number of live bodies at the end of the run.
type BodyCount struct {
	last int
}

func NewBodyCount() *BodyCount {
	return &BodyCount{}
}

func (c *BodyCount) Name() string { return "bodies" }

func (c *BodyCount) Observe(bodies []*engine.Body, t float64) {
	c.last = len(bodies)
}

func (c *BodyCount) Value() float64 {
	return float64(c.last)
}

func (c *BodyCount) Reset() {
	c.last = 0
}
