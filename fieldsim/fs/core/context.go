package core

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// SimulationContext is the whole mutable state of one session. The frame
// driver owns it; input handlers change it only between frames.
type SimulationContext struct {
	Params   Parameters
	Emitters *EmitterSet
	Viewport Viewport
	Velocity VelocityMode
	Field    GravityField

	ShowField     bool
	ShowParticles bool

	// Cursor is the last pointer position in world coordinates.
	Cursor mgl32.Vec2

	rng *rand.Rand
}

type ContextOptions struct {
	Params   Parameters
	Policy   CommitPolicy
	Viewport Viewport
	Velocity VelocityMode
	Field    GravityField
	Seed     int64
}

func NewSimulationContext(opts ContextOptions) *SimulationContext {
	params := opts.Params
	params.Normalize()
	return &SimulationContext{
		Params:        params,
		Emitters:      NewEmitterSet(opts.Policy),
		Viewport:      opts.Viewport,
		Velocity:      opts.Velocity,
		Field:         opts.Field,
		ShowField:     true,
		ShowParticles: true,
		rng:           rand.New(rand.NewSource(opts.Seed)),
	}
}

// SpawnArea covers the visible world around the origin.
func (c *SimulationContext) SpawnArea() SpawnArea {
	return SpawnArea{Center: c.Params.Origin, HalfExtent: c.Viewport.Extent()}
}

// Seeder returns the generator for the initial particle buffers.
func (c *SimulationContext) Seeder() func(int) ParticleRecord {
	return NewSeeder(c.rng, c.SpawnArea(), c.Params, c.Velocity)
}

// Frame snapshots everything a step and its draws read.
type Frame struct {
	Index uint64
	// Dt is the simulated step: the wall clock delta times the time scale.
	Dt float32

	Params   Parameters
	Emitters []Emitter
	Seed     uint32
	Spawn    SpawnArea
	View     mgl32.Vec2
	Velocity VelocityMode
	Field    GravityField

	DrawField     bool
	DrawParticles bool
}

func (c *SimulationContext) frame(index uint64, dt float32) *Frame {
	return &Frame{
		Index:         index,
		Dt:            dt * c.Params.TimeScale,
		Params:        c.Params,
		Emitters:      c.Emitters.Snapshot(),
		Seed:          c.rng.Uint32(),
		Spawn:         c.SpawnArea(),
		View:          c.Viewport.Extent(),
		Velocity:      c.Velocity,
		Field:         c.Field,
		DrawField:     c.ShowField,
		DrawParticles: c.ShowParticles,
	}
}
