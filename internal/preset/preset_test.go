package preset

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravlab/internal/engine"
)

func TestNamesStable(t *testing.T) {
	assert.Equal(t, []string{"binary", "solar", "galaxy", "cluster"}, Names())
	for _, name := range Names() {
		_, err := Get(name)
		assert.NoError(t, err, name)
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("nope")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
}

func TestBinaryStars(t *testing.T) {
	e := engine.New()
	require.NoError(t, BinaryStars(e, nil))

	bodies := e.Snapshot()
	require.Len(t, bodies, 2)
	assert.Equal(t, engine.Vec2{X: -300}, bodies[0].Pos)
	assert.Equal(t, engine.Vec2{Y: 1.5}, bodies[0].Vel)
	assert.Equal(t, engine.Vec2{X: 300}, bodies[1].Pos)
	assert.Equal(t, engine.Vec2{Y: -1.5}, bodies[1].Vel)
	assert.Equal(t, 1000.0, bodies[0].Mass)
	assert.Equal(t, 1000.0, bodies[1].Mass)
}

func TestSolarSystem(t *testing.T) {
	e := engine.New()
	require.NoError(t, SolarSystem(e, nil))

	bodies := e.Snapshot()
	require.Len(t, bodies, 4)
	assert.Equal(t, 5000.0, bodies[0].Mass)
	assert.Equal(t, engine.Vec2{}, bodies[0].Pos)

	dists := []float64{150, 300, 450}
	masses := []float64{10, 15, 20}
	for i, b := range bodies[1:] {
		assert.Equal(t, dists[i], b.Pos.X)
		assert.Equal(t, masses[i], b.Mass)
		// Circular orbit speed around the star, tangential.
		assert.Equal(t, OrbitalSpeed(5000, dists[i]), b.Vel.Y)
		assert.Zero(t, b.Vel.X)
	}
}

func TestGalaxyCore(t *testing.T) {
	e := engine.New()
	require.NoError(t, GalaxyCore(e, rand.New(rand.NewSource(7))))

	bodies := e.Snapshot()
	require.Len(t, bodies, 51)
	assert.Equal(t, 10000.0, bodies[0].Mass)

	for _, b := range bodies[1:] {
		dist := b.Pos.Len()
		assert.Greater(t, dist, 99.999)
		assert.Less(t, dist, 500.0)
		assert.GreaterOrEqual(t, b.Mass, 10.0)
		assert.Less(t, b.Mass, 50.0)
		// Velocity is perpendicular to the radial direction at orbital speed.
		dot := b.Pos.X*b.Vel.X + b.Pos.Y*b.Vel.Y
		assert.InDelta(t, 0, dot, 1e-9)
		assert.InDelta(t, OrbitalSpeed(10000, dist), b.Vel.Len(), 1e-9)
	}
}

func TestRandomCluster(t *testing.T) {
	e := engine.New()
	require.NoError(t, RandomCluster(e, rand.New(rand.NewSource(7))))

	bodies := e.Snapshot()
	require.Len(t, bodies, 50)
	for _, b := range bodies {
		assert.GreaterOrEqual(t, b.Pos.X, -400.0)
		assert.Less(t, b.Pos.X, 400.0)
		assert.GreaterOrEqual(t, b.Pos.Y, -400.0)
		assert.Less(t, b.Pos.Y, 400.0)
		assert.GreaterOrEqual(t, b.Mass, 10.0)
		assert.Less(t, b.Mass, 100.0)
		assert.LessOrEqual(t, math.Abs(b.Vel.X), 1.0)
		assert.LessOrEqual(t, math.Abs(b.Vel.Y), 1.0)
	}
}

func TestSeededPresetsDeterministic(t *testing.T) {
	for _, name := range []string{"galaxy", "cluster"} {
		e1 := engine.New()
		e2 := engine.New()
		require.NoError(t, Load(e1, name, rand.New(rand.NewSource(99))))
		require.NoError(t, Load(e2, name, rand.New(rand.NewSource(99))))

		b1 := e1.Snapshot()
		b2 := e2.Snapshot()
		require.Equal(t, len(b1), len(b2), name)
		for i := range b1 {
			assert.Equal(t, b1[i].Pos, b2[i].Pos, name)
			assert.Equal(t, b1[i].Vel, b2[i].Vel, name)
			assert.Equal(t, b1[i].Mass, b2[i].Mass, name)
			assert.Equal(t, b1[i].Color, b2[i].Color, name)
		}
	}
}

func TestLoadClearsFirst(t *testing.T) {
	e := engine.New()
	require.NoError(t, Load(e, "binary", nil))
	require.NoError(t, Load(e, "solar", nil))
	assert.Equal(t, 4, e.Len())
}
