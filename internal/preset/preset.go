// Package preset provides deterministic scenario generators that load
// bodies into an engine. Random presets take a seeded *rand.Rand so a run
// is reproducible from its seed alone.
package preset

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/san-kum/gravlab/internal/engine"
)

// Generator loads a scenario into e. Generators assume an empty engine
// and never clear it themselves.
type Generator func(e *engine.Engine, rng *rand.Rand) error

var presets = map[string]Generator{
	"binary":  BinaryStars,
	"solar":   SolarSystem,
	"galaxy":  GalaxyCore,
	"cluster": RandomCluster,
}

// Get returns the named generator.
func Get(name string) (Generator, error) {
	gen, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, Names())
	}
	return gen, nil
}

// Names lists preset names in stable order.
func Names() []string {
	return []string{"binary", "solar", "galaxy", "cluster"}
}

// Load clears the engine and fills it from the named preset.
func Load(e *engine.Engine, name string, rng *rand.Rand) error {
	gen, err := Get(name)
	if err != nil {
		return err
	}
	e.Clear()
	return gen(e, rng)
}

// BinaryStars places two equal mass-1000 stars on the x axis with
// opposing vertical velocities.
func BinaryStars(e *engine.Engine, rng *rand.Rand) error {
	if _, err := e.AddBody(engine.Vec2{X: -300}, 1000, engine.Vec2{Y: 1.5}, color.RGBA{R: 255, G: 220, B: 120, A: 255}); err != nil {
		return err
	}
	_, err := e.AddBody(engine.Vec2{X: 300}, 1000, engine.Vec2{Y: -1.5}, color.RGBA{R: 140, G: 190, B: 255, A: 255})
	return err
}

// SolarSystem places a mass-5000 star at the origin and three planets on
// circular orbits at increasing distance.
func SolarSystem(e *engine.Engine, rng *rand.Rand) error {
	if _, err := e.AddBody(engine.Vec2{}, 5000, engine.Vec2{}, color.RGBA{R: 255, G: 200, B: 60, A: 255}); err != nil {
		return err
	}
	planets := []struct {
		dist float64
		mass float64
		col  color.RGBA
	}{
		{150, 10, color.RGBA{R: 180, G: 180, B: 200, A: 255}},
		{300, 15, color.RGBA{R: 120, G: 200, B: 160, A: 255}},
		{450, 20, color.RGBA{R: 200, G: 120, B: 120, A: 255}},
	}
	for _, p := range planets {
		vel := engine.Vec2{Y: OrbitalSpeed(5000, p.dist)}
		if _, err := e.AddBody(engine.Vec2{X: p.dist}, p.mass, vel, p.col); err != nil {
			return err
		}
	}
	return nil
}

// GalaxyCore places a mass-10000 core at the origin surrounded by 50
// bodies on circular orbits at random angles and distances.
func GalaxyCore(e *engine.Engine, rng *rand.Rand) error {
	if _, err := e.AddBody(engine.Vec2{}, 10000, engine.Vec2{}, color.RGBA{R: 255, G: 255, B: 255, A: 255}); err != nil {
		return err
	}
	for i := 0; i < 50; i++ {
		angle := rng.Float64() * 2 * math.Pi
		dist := 100 + rng.Float64()*400
		mass := 10 + rng.Float64()*40

		pos := engine.Vec2{X: dist * math.Cos(angle), Y: dist * math.Sin(angle)}
		speed := OrbitalSpeed(10000, dist)
		// Tangential: perpendicular to the radial direction.
		vel := engine.Vec2{X: -math.Sin(angle) * speed, Y: math.Cos(angle) * speed}

		if _, err := e.AddBody(pos, mass, vel, randomColor(rng)); err != nil {
			return err
		}
	}
	return nil
}

// RandomCluster scatters 50 bodies uniformly in a box with small random
// velocities.
func RandomCluster(e *engine.Engine, rng *rand.Rand) error {
	for i := 0; i < 50; i++ {
		pos := engine.Vec2{
			X: -400 + rng.Float64()*800,
			Y: -400 + rng.Float64()*800,
		}
		mass := 10 + rng.Float64()*90
		vel := engine.Vec2{
			X: -1 + rng.Float64()*2,
			Y: -1 + rng.Float64()*2,
		}
		if _, err := e.AddBody(pos, mass, vel, randomColor(rng)); err != nil {
			return err
		}
	}
	return nil
}

// OrbitalSpeed returns the circular orbit speed sqrt(G*M/r) around a
// central mass M at distance r.
func OrbitalSpeed(centralMass, dist float64) float64 {
	return math.Sqrt(engine.G * centralMass / dist)
}

func randomColor(rng *rand.Rand) color.RGBA {
	return color.RGBA{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
		A: 255,
	}
}
