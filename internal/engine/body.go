package engine

import (
	"image/color"
	"math"
)

// TrailCap bounds the number of past positions a body remembers.
const TrailCap = 100

// Body is a point mass in the simulation. Pos, Vel, and Mass evolve every
// tick; Acc is transient scratch that the force solver rewrites from zero
// each tick. Radius is always sqrt(Mass). Color is inert to the physics
// and survives merges with the heavier body.
type Body struct {
	Pos    Vec2
	Vel    Vec2
	Acc    Vec2
	Mass   float64
	Radius float64
	Color  color.RGBA

	// Trail holds past positions, oldest first, capped at TrailCap.
	Trail []Vec2
}

func newBody(pos Vec2, mass float64, vel Vec2, col color.RGBA) *Body {
	return &Body{
		Pos:    pos,
		Vel:    vel,
		Mass:   mass,
		Radius: math.Sqrt(mass),
		Color:  col,
		Trail:  make([]Vec2, 0, TrailCap),
	}
}

// setMass updates mass and the derived radius together so the
// radius == sqrt(mass) invariant can never be observed broken.
func (b *Body) setMass(m float64) {
	b.Mass = m
	b.Radius = math.Sqrt(m)
}

// recordTrail appends the current position, evicting the oldest entry
// once the trail is full.
func (b *Body) recordTrail() {
	b.Trail = append(b.Trail, b.Pos)
	if len(b.Trail) > TrailCap {
		b.Trail = b.Trail[1:]
	}
}

// Momentum returns the body's linear momentum.
func (b *Body) Momentum() Vec2 {
	return b.Vel.Scale(b.Mass)
}

// KineticEnergy returns 0.5*m*v^2.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * (b.Vel.X*b.Vel.X + b.Vel.Y*b.Vel.Y)
}
