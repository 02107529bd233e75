// Package sim drives an engine headlessly at a fixed timestep, feeding
// metrics and collecting sampled frames for storage and plotting.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/engine"
	"github.com/san-kum/gravlab/internal/preset"
)

// Metric observes engine state once per tick and reduces it to a single
// value at the end of a run.
type Metric interface {
	Name() string
	Observe(bodies []*engine.Body, t float64)
	Value() float64
	Reset()
}

// BodySample is one body's state in a recorded frame.
type BodySample struct {
	X, Y   float64
	VX, VY float64
	Mass   float64
	Color  string // "#rrggbb"
}

// Frame is the sampled state of every live body at one instant.
type Frame struct {
	Time   float64
	Bodies []BodySample
}

// Result collects the output of a headless run.
type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Merges     int
	Elapsed    time.Duration
}

// Runner steps an engine for a configured duration.
type Runner struct {
	eng     *engine.Engine
	metrics []Metric
}

func New(eng *engine.Engine) *Runner {
	return &Runner{eng: eng}
}

func (r *Runner) AddMetric(m Metric) {
	r.metrics = append(r.metrics, m)
}

// Populate clears the engine and loads it from cfg: the explicit body
// list when present, the named preset otherwise. The rng seeded from
// cfg.Seed makes random presets reproducible.
func Populate(eng *engine.Engine, cfg *config.Config) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if len(cfg.Bodies) > 0 {
		eng.Clear()
		for i, b := range cfg.Bodies {
			pos := engine.Vec2{X: b.Pos[0], Y: b.Pos[1]}
			vel := engine.Vec2{X: b.Vel[0], Y: b.Vel[1]}
			if _, err := eng.AddBody(pos, b.Mass, vel, config.ParseColor(b.Color)); err != nil {
				return fmt.Errorf("body %d: %w", i, err)
			}
		}
		return nil
	}
	return preset.Load(eng, cfg.Preset, rng)
}

// Run steps the engine at cfg.Dt until cfg.Duration elapses or ctx is
// canceled, sampling a frame and observing metrics every tick. The engine
// must already be populated.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Frames:  make([]Frame, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	start := time.Now()
	t := 0.0
	result.Frames = append(result.Frames, sample(r.eng, t))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		r.eng.Step(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		bodies := r.eng.Snapshot()
		for _, m := range r.metrics {
			m.Observe(bodies, t)
		}
		result.Frames = append(result.Frames, sample(r.eng, t))
	}

	result.Elapsed = time.Since(start)
	result.Merges = r.eng.Merges()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// RunWithCallback steps the engine, invoking callback after every tick.
// Returning false from the callback stops the run early. No frames are
// recorded; hosts that pump their own render loop use this form.
func (r *Runner) RunWithCallback(ctx context.Context, cfg *config.Config, callback func(bodies []*engine.Body, t float64) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.eng.Step(cfg.Dt)
		t += cfg.Dt

		if !callback(r.eng.Snapshot(), t) {
			return nil
		}
	}
	return nil
}

func sample(eng *engine.Engine, t float64) Frame {
	bodies := eng.Snapshot()
	f := Frame{Time: t, Bodies: make([]BodySample, len(bodies))}
	for i, b := range bodies {
		f.Bodies[i] = BodySample{
			X: b.Pos.X, Y: b.Pos.Y,
			VX: b.Vel.X, VY: b.Vel.Y,
			Mass:  b.Mass,
			Color: config.FormatColor(b.Color),
		}
	}
	return f
}
