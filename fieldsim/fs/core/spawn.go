package core

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldHalfWidth is the world-space half width mapped onto the viewport.
const WorldHalfWidth float32 = 1.5

// VelocityMode selects how a (re)spawned particle gets its velocity. The
// values are uploaded as velocity_mode in the update kernel.
type VelocityMode uint32

const (
	VelocityZero VelocityMode = iota
	// VelocityRandom draws the angle in bias±spread and the speed in [SpeedMin, SpeedMax].
	VelocityRandom
	// VelocityConstant draws the angle like VelocityRandom and always uses SpeedMax.
	VelocityConstant
)

func ParseVelocityMode(s string) (VelocityMode, bool) {
	switch s {
	case "zero":
		return VelocityZero, true
	case "random":
		return VelocityRandom, true
	case "constant":
		return VelocityConstant, true
	}
	return VelocityRandom, false
}

func (m VelocityMode) String() string {
	switch m {
	case VelocityZero:
		return "zero"
	case VelocityRandom:
		return "random"
	case VelocityConstant:
		return "constant"
	}
	return "unknown"
}

// Sample maps two uniform numbers in [0,1) to a spawn velocity.
func (m VelocityMode) Sample(uAngle, uSpeed float32, p *Parameters) mgl32.Vec2 {
	var speed float32
	switch m {
	case VelocityRandom:
		speed = lerp(p.SpeedMin, p.SpeedMax, uSpeed)
	case VelocityConstant:
		speed = p.SpeedMax
	default:
		return mgl32.Vec2{}
	}
	angle := p.AngleBias + (2*uAngle-1)*p.AngleSpread
	return mgl32.Vec2{math32.Cos(angle) * speed, math32.Sin(angle) * speed}
}

type Viewport struct {
	Width, Height int
}

// Extent is the world half extent shown by the viewport: 1.5 horizontally,
// scaled by the aspect ratio vertically.
func (v Viewport) Extent() mgl32.Vec2 {
	if v.Width <= 0 || v.Height <= 0 {
		return mgl32.Vec2{WorldHalfWidth, WorldHalfWidth}
	}
	return mgl32.Vec2{WorldHalfWidth, WorldHalfWidth * float32(v.Height) / float32(v.Width)}
}

// ToWorld converts a pixel position (origin top left) to world coordinates (y up).
func (v Viewport) ToWorld(px, py float64) mgl32.Vec2 {
	if v.Width <= 0 || v.Height <= 0 {
		return mgl32.Vec2{}
	}
	ext := v.Extent()
	nx := float32(px)/float32(v.Width)*2 - 1
	ny := float32(float64(v.Height)-py)/float32(v.Height)*2 - 1
	return mgl32.Vec2{nx * ext.X(), ny * ext.Y()}
}

// SpawnArea is the axis aligned rectangle new particles are placed in.
type SpawnArea struct {
	Center     mgl32.Vec2
	HalfExtent mgl32.Vec2
}

func (a SpawnArea) Sample(u, v float32) mgl32.Vec2 {
	return mgl32.Vec2{
		a.Center.X() + (2*u-1)*a.HalfExtent.X(),
		a.Center.Y() + (2*v-1)*a.HalfExtent.Y(),
	}
}

func (a SpawnArea) Contains(p mgl32.Vec2) bool {
	d := p.Sub(a.Center)
	return math32.Abs(d.X()) <= a.HalfExtent.X() && math32.Abs(d.Y()) <= a.HalfExtent.Y()
}

// NewSeeder returns the initial record generator for a buffer pair. Output
// depends only on rng's state, so equal seeds give equal buffers.
func NewSeeder(rng *rand.Rand, area SpawnArea, params Parameters, mode VelocityMode) func(int) ParticleRecord {
	return func(int) ParticleRecord {
		pos := area.Sample(rng.Float32(), rng.Float32())
		life := lerp(params.LifeMin, params.LifeMax, rng.Float32())
		vel := mode.Sample(rng.Float32(), rng.Float32(), &params)
		return ParticleRecord{Position: pos, Life: life, Velocity: vel}
	}
}

// Random streams used by the update kernel; WGSL uses the same indices.
const (
	streamPosX uint32 = iota
	streamPosY
	streamLife
	streamAngle
	streamSpeed
	streamCount
)

// Random returns a uniform number in [0,1) for (seed, particle, stream). It
// is the same PCG hash as rand01 in particle_update.wgsl.
func Random(seed, index, stream uint32) float32 {
	h := pcgHash(seed ^ pcgHash(index*streamCount+stream))
	return float32(h>>8) / float32(1<<24)
}

func pcgHash(v uint32) uint32 {
	state := v*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }
