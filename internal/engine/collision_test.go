package engine_test

import (
	"image/color"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravlab/internal/engine"
)

var _ = Describe("Collision resolution", func() {
	var e *engine.Engine

	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}

	BeforeEach(func() {
		e = engine.New()
	})

	add := func(pos engine.Vec2, mass float64, vel engine.Vec2, col color.RGBA) *engine.Body {
		b, err := e.AddBody(pos, mass, vel, col)
		Expect(err).NotTo(HaveOccurred())
		return b
	}

	Describe("a single overlapping pair", func() {
		It("merges into the heavier body with exact mass and radius", func() {
			// Radii sqrt(100)=10 and sqrt(50)~7.07; distance 5 overlaps.
			heavy := add(engine.Vec2{}, 100, engine.Vec2{X: 2}, red)
			add(engine.Vec2{X: 5}, 50, engine.Vec2{X: -1}, blue)

			e.Step(1e-12) // negligible motion, the step only triggers the resolver

			Expect(e.Len()).To(Equal(1))
			survivor := e.Snapshot()[0]
			Expect(survivor).To(BeIdenticalTo(heavy))
			Expect(survivor.Mass).To(Equal(150.0))
			Expect(survivor.Radius).To(Equal(math.Sqrt(150)))
			Expect(survivor.Color).To(Equal(red))
		})

		It("sets the survivor velocity to the pre-merge mass-weighted average", func() {
			add(engine.Vec2{}, 100, engine.Vec2{X: 2, Y: 1}, red)
			add(engine.Vec2{X: 5}, 50, engine.Vec2{X: -1, Y: 4}, blue)

			p0 := e.Momentum()
			e.Step(1e-12)

			survivor := e.Snapshot()[0]
			Expect(survivor.Vel.X).To(BeNumerically("~", (2.0*100-1.0*50)/150, 1e-9))
			Expect(survivor.Vel.Y).To(BeNumerically("~", (1.0*100+4.0*50)/150, 1e-9))

			p1 := e.Momentum()
			Expect(p1.X).To(BeNumerically("~", p0.X, 1e-9))
			Expect(p1.Y).To(BeNumerically("~", p0.Y, 1e-9))
		})

		It("does not merge bodies that only touch at exactly radius sum", func() {
			// Overlap requires strict inequality.
			add(engine.Vec2{}, 100, engine.Vec2{}, red)
			add(engine.Vec2{X: 10 + math.Sqrt(50)}, 50, engine.Vec2{}, blue)

			e.Step(1e-12)
			Expect(e.Len()).To(Equal(2))
		})
	})

	Describe("the equal-mass tie-break", func() {
		It("keeps the higher-indexed body", func() {
			add(engine.Vec2{}, 100, engine.Vec2{}, red)
			later := add(engine.Vec2{X: 3}, 100, engine.Vec2{}, blue)

			e.Step(1e-12)

			Expect(e.Len()).To(Equal(1))
			Expect(e.Snapshot()[0]).To(BeIdenticalTo(later))
			Expect(e.Snapshot()[0].Color).To(Equal(blue))
		})
	})

	Describe("multiple collisions in one tick", func() {
		It("never reuses a body absorbed earlier in the pass", func() {
			// Three mutually overlapping bodies. Pair (0,1) merges into
			// index 1 (20 > 10), making it mass 30; pair (0,2) is skipped
			// because body 0 is already absorbed; pair (1,2) is then an
			// exact 30 vs 30 tie and index 2 survives with mass 60.
			add(engine.Vec2{}, 10, engine.Vec2{X: 6}, red)
			add(engine.Vec2{X: 2}, 20, engine.Vec2{}, blue)
			last := add(engine.Vec2{X: 4}, 30, engine.Vec2{}, green)

			p0 := e.Momentum()
			e.Step(1e-12)

			Expect(e.Len()).To(Equal(1))
			survivor := e.Snapshot()[0]
			Expect(survivor).To(BeIdenticalTo(last))
			Expect(survivor.Mass).To(Equal(60.0))
			Expect(survivor.Radius).To(Equal(math.Sqrt(60)))

			p1 := e.Momentum()
			Expect(p1.X).To(BeNumerically("~", p0.X, 1e-9))
			Expect(p1.Y).To(BeNumerically("~", p0.Y, 1e-9))
		})

		It("resolves disjoint pairs independently", func() {
			a := add(engine.Vec2{}, 100, engine.Vec2{}, red)
			add(engine.Vec2{X: 3}, 50, engine.Vec2{}, blue)
			c := add(engine.Vec2{X: 1000}, 200, engine.Vec2{}, green)
			add(engine.Vec2{X: 1004}, 80, engine.Vec2{}, blue)

			e.Step(1e-12)

			Expect(e.Len()).To(Equal(2))
			bodies := e.Snapshot()
			Expect(bodies[0]).To(BeIdenticalTo(a))
			Expect(bodies[0].Mass).To(Equal(150.0))
			Expect(bodies[1]).To(BeIdenticalTo(c))
			Expect(bodies[1].Mass).To(Equal(280.0))
		})

		It("counts merges", func() {
			add(engine.Vec2{}, 10, engine.Vec2{}, red)
			add(engine.Vec2{X: 2}, 20, engine.Vec2{}, blue)
			e.Step(1e-12)
			Expect(e.Merges()).To(Equal(1))
		})
	})
})
