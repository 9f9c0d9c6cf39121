package gpu

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particlefield/fieldsim/fs/core"
)

// SimParams byte layout, mirrored by struct SimParams in common.wgsl.
const (
	offOrigin        = 0
	offSpawnExtent   = 8
	offViewExtent    = 16
	offDeltaTime     = 24
	offLifeMin       = 28
	offLifeMax       = 32
	offSpeedMin      = 36
	offSpeedMax      = 40
	offAngleSpread   = 44
	offAngleBias     = 48
	offInvert        = 52
	offGravity       = 56
	offDensity       = 60
	offMinDistance   = 64
	offDistanceScale = 68
	offEmitterCount  = 72
	offSeed          = 76
	offParticleCount = 80
	offVelocityMode  = 84
	offEmitters      = 96
	emitterStride    = 16

	SimParamsSize = offEmitters + core.MaxEmitters*emitterStride
)

// PackSimParams encodes one frame for the step and draw shaders. Emitters past
// core.MaxEmitters are dropped.
func PackSimParams(f *core.Frame, particles uint32) []byte {
	buf := make([]byte, SimParamsSize)
	putVec2(buf, offOrigin, f.Params.Origin[0], f.Params.Origin[1])
	putVec2(buf, offSpawnExtent, f.Spawn.HalfExtent[0], f.Spawn.HalfExtent[1])
	putVec2(buf, offViewExtent, f.View[0], f.View[1])
	putF32(buf, offDeltaTime, f.Dt)
	putF32(buf, offLifeMin, f.Params.LifeMin)
	putF32(buf, offLifeMax, f.Params.LifeMax)
	putF32(buf, offSpeedMin, f.Params.SpeedMin)
	putF32(buf, offSpeedMax, f.Params.SpeedMax)
	putF32(buf, offAngleSpread, f.Params.AngleSpread)
	putF32(buf, offAngleBias, f.Params.AngleBias)
	putF32(buf, offInvert, f.Params.Invert)
	putF32(buf, offGravity, f.Field.G)
	putF32(buf, offDensity, f.Field.Density)
	putF32(buf, offMinDistance, f.Field.MinDistance)
	putF32(buf, offDistanceScale, core.DistanceScale)

	emitters := f.Emitters
	if len(emitters) > core.MaxEmitters {
		emitters = emitters[:core.MaxEmitters]
	}
	binary.LittleEndian.PutUint32(buf[offEmitterCount:], uint32(len(emitters)))
	binary.LittleEndian.PutUint32(buf[offSeed:], f.Seed)
	binary.LittleEndian.PutUint32(buf[offParticleCount:], particles)
	binary.LittleEndian.PutUint32(buf[offVelocityMode:], uint32(f.Velocity))

	for i, e := range emitters {
		off := offEmitters + i*emitterStride
		putVec2(buf, off, e.Center[0], e.Center[1])
		putF32(buf, off+8, e.Radius)
	}
	return buf
}

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

func putVec2(buf []byte, off int, x, y float32) {
	putF32(buf, off, x)
	putF32(buf, off+4, y)
}

// SimUniforms is the uniform buffer shared by the compute step and both draws.
// RenderGroup binds it alone for the render pipelines.
type SimUniforms struct {
	Buffer      *wgpu.Buffer
	RenderBGL   *wgpu.BindGroupLayout
	RenderGroup *wgpu.BindGroup
}

func NewSimUniforms(device *wgpu.Device) (*SimUniforms, error) {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "SimParamsUB",
		Size:  SimParamsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "SimParamsBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: SimParamsSize,
				},
			},
		},
	})
	if err != nil {
		buf.Release()
		return nil, err
	}

	group, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "SimParamsBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		bgl.Release()
		buf.Release()
		return nil, err
	}

	return &SimUniforms{Buffer: buf, RenderBGL: bgl, RenderGroup: group}, nil
}

// Upload writes the frame's parameters. Must run before the frame's passes are submitted.
func (u *SimUniforms) Upload(queue *wgpu.Queue, f *core.Frame, particles uint32) error {
	return queue.WriteBuffer(u.Buffer, 0, PackSimParams(f, particles))
}

func (u *SimUniforms) Release() {
	if u.RenderGroup != nil {
		u.RenderGroup.Release()
	}
	if u.RenderBGL != nil {
		u.RenderBGL.Release()
	}
	if u.Buffer != nil {
		u.Buffer.Release()
	}
}
