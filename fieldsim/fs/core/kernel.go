package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// VelocityFunc is the per-particle force kernel: it returns the velocity after
// dt seconds under the given emitters. invert is +1 or -1.
type VelocityFunc func(pos, vel mgl32.Vec2, emitters []Emitter, dt, invert float32) mgl32.Vec2

// GravityField treats each emitter as a planet whose radius is the emitter
// radius (metres) and pulls particles inside its influence radius.
// particle_update.wgsl and field_render.wgsl implement the same formula.
type GravityField struct {
	G       float32
	Density float32
	// MinDistance, as a fraction of the influence radius, bounds the
	// acceleration near the centre.
	MinDistance float32
}

func DefaultGravityField() GravityField {
	return GravityField{G: 6.67e-11, Density: 5.51e3, MinDistance: 0.1}
}

// Acceleration of a particle at pos due to e, in world units per second squared.
func (g GravityField) Acceleration(pos mgl32.Vec2, e Emitter) mgl32.Vec2 {
	reach := e.InfluenceRadius()
	d := e.Center.Sub(pos)
	dist := d.Len()
	if reach <= 0 || dist == 0 || dist > reach {
		return mgl32.Vec2{}
	}
	distM := max(dist, g.MinDistance*reach) * DistanceScale
	mass := 4.0 / 3.0 * math32.Pi * g.Density * e.Radius * e.Radius * e.Radius
	return d.Mul(g.G * mass / (distM * distM) / dist)
}

func (g GravityField) Integrate(pos, vel mgl32.Vec2, emitters []Emitter, dt, invert float32) mgl32.Vec2 {
	if len(emitters) == 0 {
		return vel
	}
	var acc mgl32.Vec2
	for _, e := range emitters {
		acc = acc.Add(g.Acceleration(pos, e))
	}
	return vel.Add(acc.Mul(dt * invert))
}

// Strength is the summed acceleration magnitude at pos, used for field views.
func (g GravityField) Strength(pos mgl32.Vec2, emitters []Emitter) float32 {
	var acc mgl32.Vec2
	for _, e := range emitters {
		acc = acc.Add(g.Acceleration(pos, e))
	}
	return acc.Len()
}

// Kernel runs the per-particle state machine on the CPU. It is the reference
// for particle_update.wgsl.
type Kernel struct {
	// Velocity overrides the frame's gravity field when set.
	Velocity VelocityFunc
}

// Advance moves one particle through one step. A particle alive at the start
// of the step ages by dt; when it reaches its life it is respawned in the same
// step instead of being integrated.
func (k *Kernel) Advance(r ParticleRecord, f *Frame, index uint32) (ParticleRecord, bool) {
	age := r.Age + f.Dt
	if age >= r.Life {
		return k.Respawn(f, index), true
	}

	integrate := k.Velocity
	if integrate == nil {
		integrate = f.Field.Integrate
	}
	vel := integrate(r.Position, r.Velocity, f.Emitters, f.Dt, f.Params.Invert)
	return ParticleRecord{
		Position: r.Position.Add(vel.Mul(f.Dt)),
		Age:      age,
		Life:     r.Life,
		Velocity: vel,
	}, false
}

func (k *Kernel) Respawn(f *Frame, index uint32) ParticleRecord {
	rnd := func(stream uint32) float32 { return Random(f.Seed, index, stream) }
	return ParticleRecord{
		Position: f.Spawn.Sample(rnd(streamPosX), rnd(streamPosY)),
		Age:      0,
		Life:     lerp(f.Params.LifeMin, f.Params.LifeMax, rnd(streamLife)),
		Velocity: f.Velocity.Sample(rnd(streamAngle), rnd(streamSpeed), &f.Params),
	}
}

type StepStats struct {
	Particles int
	Respawned int
}

// CPUStepper steps a CPU buffer pair: reads Current, writes Next. The caller
// swaps afterwards.
type CPUStepper struct {
	Kernel Kernel
}

func (s *CPUStepper) Step(pair *BufferPair[[]ParticleRecord], f *Frame) StepStats {
	src, dst := pair.Current(), pair.Next()
	stats := StepStats{Particles: len(src)}
	for i := range src {
		var respawned bool
		dst[i], respawned = s.Kernel.Advance(src[i], f, uint32(i))
		if respawned {
			stats.Respawned++
		}
	}
	return stats
}
