package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particlefield/fieldsim/fs/core"
	"github.com/gekko3d/particlefield/fieldsim/fs/shaders"
)

var alphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
}

// ParticleVertexLayout reads position, age and life straight out of a
// particle buffer. Velocity is skipped by the stride.
var ParticleVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: core.ParticleStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: core.OffsetPosition, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32, Offset: core.OffsetAge, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32, Offset: core.OffsetLife, ShaderLocation: 2},
	},
}

type renderDesc struct {
	label    string
	code     string
	buffers  []wgpu.VertexBufferLayout
	topology wgpu.PrimitiveTopology
}

func createRenderPipeline(device *wgpu.Device, format wgpu.TextureFormat, uniforms *SimUniforms, d renderDesc) (*wgpu.RenderPipeline, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          d.label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: d.code},
	})
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", d.label, err)
	}
	defer module.Release()

	pl, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            d.label + "PL",
		BindGroupLayouts: []*wgpu.BindGroupLayout{uniforms.RenderBGL},
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline layout: %w", d.label, err)
	}
	defer pl.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  d.label + "Pipeline",
		Layout: pl,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    d.buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					Blend:     &alphaBlend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  d.topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", d.label, err)
	}
	return pipeline, nil
}

// FieldRenderer shades the emitter field over the whole viewport.
type FieldRenderer struct {
	Pipeline *wgpu.RenderPipeline
	uniforms *SimUniforms
}

func NewFieldRenderer(device *wgpu.Device, format wgpu.TextureFormat, uniforms *SimUniforms) (*FieldRenderer, error) {
	pipeline, err := createRenderPipeline(device, format, uniforms, renderDesc{
		label:    "Field",
		code:     shaders.FieldRenderWGSL,
		topology: wgpu.PrimitiveTopologyTriangleList,
	})
	if err != nil {
		return nil, err
	}
	return &FieldRenderer{Pipeline: pipeline, uniforms: uniforms}, nil
}

func (r *FieldRenderer) Draw(pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(r.Pipeline)
	pass.SetBindGroup(0, r.uniforms.RenderGroup, nil)
	pass.Draw(6, 1, 0, 0)
}

func (r *FieldRenderer) Release() {
	if r.Pipeline != nil {
		r.Pipeline.Release()
		r.Pipeline = nil
	}
}

// ParticleRenderer draws one point per particle from a particle buffer.
type ParticleRenderer struct {
	Pipeline *wgpu.RenderPipeline
	uniforms *SimUniforms
}

func NewParticleRenderer(device *wgpu.Device, format wgpu.TextureFormat, uniforms *SimUniforms) (*ParticleRenderer, error) {
	pipeline, err := createRenderPipeline(device, format, uniforms, renderDesc{
		label:    "Particles",
		code:     shaders.ParticleRenderWGSL,
		buffers:  []wgpu.VertexBufferLayout{ParticleVertexLayout},
		topology: wgpu.PrimitiveTopologyPointList,
	})
	if err != nil {
		return nil, err
	}
	return &ParticleRenderer{Pipeline: pipeline, uniforms: uniforms}, nil
}

func (r *ParticleRenderer) Draw(pass *wgpu.RenderPassEncoder, particles *wgpu.Buffer, count uint32) {
	pass.SetPipeline(r.Pipeline)
	pass.SetBindGroup(0, r.uniforms.RenderGroup, nil)
	pass.SetVertexBuffer(0, particles, 0, particles.GetSize())
	pass.Draw(count, 1, 0, 0)
}

func (r *ParticleRenderer) Release() {
	if r.Pipeline != nil {
		r.Pipeline.Release()
		r.Pipeline = nil
	}
}
