package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gekko3d/particlefield/fieldsim/fs/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func u32At(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off:])
}

func TestPackSimParams_Layout(t *testing.T) {
	params := core.DefaultParameters()
	params.Origin = mgl32.Vec2{0.25, -0.5}
	params.Invert = -1
	f := &core.Frame{
		Dt:       0.016,
		Params:   params,
		Seed:     0xdeadbeef,
		Spawn:    core.SpawnArea{Center: params.Origin, HalfExtent: mgl32.Vec2{1.5, 0.75}},
		View:     mgl32.Vec2{1.5, 0.75},
		Velocity: core.VelocityConstant,
		Field:    core.DefaultGravityField(),
		Emitters: []core.Emitter{
			{Center: mgl32.Vec2{0.1, 0.2}, Radius: 3000},
		},
	}

	buf := PackSimParams(f, 1000)
	require.Len(t, buf, SimParamsSize)
	assert.Equal(t, 352, SimParamsSize)

	assert.Equal(t, float32(0.25), f32At(buf, offOrigin))
	assert.Equal(t, float32(-0.5), f32At(buf, offOrigin+4))
	assert.Equal(t, float32(0.75), f32At(buf, offSpawnExtent+4))
	assert.Equal(t, float32(1.5), f32At(buf, offViewExtent))
	assert.Equal(t, float32(0.016), f32At(buf, offDeltaTime))
	assert.Equal(t, params.LifeMin, f32At(buf, offLifeMin))
	assert.Equal(t, params.LifeMax, f32At(buf, offLifeMax))
	assert.Equal(t, params.SpeedMax, f32At(buf, offSpeedMax))
	assert.Equal(t, float32(-1), f32At(buf, offInvert))
	assert.Equal(t, f.Field.G, f32At(buf, offGravity))
	assert.Equal(t, core.DistanceScale, f32At(buf, offDistanceScale))

	assert.Equal(t, uint32(1), u32At(buf, offEmitterCount))
	assert.Equal(t, uint32(0xdeadbeef), u32At(buf, offSeed))
	assert.Equal(t, uint32(1000), u32At(buf, offParticleCount))
	assert.Equal(t, uint32(core.VelocityConstant), u32At(buf, offVelocityMode))

	assert.Equal(t, float32(0.1), f32At(buf, offEmitters))
	assert.Equal(t, float32(0.2), f32At(buf, offEmitters+4))
	assert.Equal(t, float32(3000), f32At(buf, offEmitters+8))
}

func TestPackSimParams_ClampsEmitters(t *testing.T) {
	emitters := make([]core.Emitter, core.MaxEmitters+5)
	for i := range emitters {
		emitters[i] = core.Emitter{Center: mgl32.Vec2{float32(i), 0}, Radius: 1}
	}
	f := &core.Frame{Params: core.DefaultParameters(), Emitters: emitters}

	buf := PackSimParams(f, 1)
	require.Len(t, buf, SimParamsSize)
	assert.Equal(t, uint32(core.MaxEmitters), u32At(buf, offEmitterCount))
	last := offEmitters + (core.MaxEmitters-1)*emitterStride
	assert.Equal(t, float32(core.MaxEmitters-1), f32At(buf, last))
}

func TestParticleVertexLayout_MatchesRecord(t *testing.T) {
	assert.Equal(t, uint64(core.ParticleStride), ParticleVertexLayout.ArrayStride)
	require.Len(t, ParticleVertexLayout.Attributes, 3)
	assert.Equal(t, uint64(core.OffsetAge), ParticleVertexLayout.Attributes[1].Offset)
	assert.Equal(t, uint64(core.OffsetLife), ParticleVertexLayout.Attributes[2].Offset)
}

func TestComputeStepper_Workgroups(t *testing.T) {
	cases := map[uint32]uint32{1: 1, 64: 1, 65: 2, 10000: 157}
	for n, want := range cases {
		s := &ComputeStepper{Particles: n}
		assert.Equal(t, want, s.Workgroups(), "particles=%d", n)
	}
}
