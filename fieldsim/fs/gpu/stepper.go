package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particlefield/fieldsim/fs/shaders"
)

const WorkgroupSize = 64

// ComputeStepper advances the particle pair on the device. Bind group i reads
// slot i and writes the other slot, so the group picked by FrontIndex always
// writes Next.
type ComputeStepper struct {
	Pipeline   *wgpu.ComputePipeline
	Layout     *wgpu.BindGroupLayout
	BindGroups [2]*wgpu.BindGroup
	Particles  uint32
}

func NewComputeStepper(device *wgpu.Device, uniforms *SimUniforms, buffers *ParticleBuffers) (*ComputeStepper, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ParticleUpdate CS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticleUpdateWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("particle update shader: %w", err)
	}
	defer module.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ParticleUpdateBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: SimParamsSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageCompute,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageCompute,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("particle update layout: %w", err)
	}

	pl, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "ParticleUpdatePL",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		bgl.Release()
		return nil, fmt.Errorf("particle update pipeline layout: %w", err)
	}
	defer pl.Release()

	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "ParticleUpdate Pipeline",
		Layout: pl,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		bgl.Release()
		return nil, fmt.Errorf("particle update pipeline: %w", err)
	}

	s := &ComputeStepper{
		Pipeline:  pipeline,
		Layout:    bgl,
		Particles: uint32(buffers.Capacity()),
	}
	for i := range s.BindGroups {
		s.BindGroups[i], err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("ParticleUpdateBG%d", i),
			Layout: bgl,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: uniforms.Buffer, Size: wgpu.WholeSize},
				{Binding: 1, Buffer: buffers.Slot(i), Size: wgpu.WholeSize},
				{Binding: 2, Buffer: buffers.Slot(1 - i), Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("particle update bind group %d: %w", i, err)
		}
	}
	return s, nil
}

// Workgroups is the dispatch size covering every particle.
func (s *ComputeStepper) Workgroups() uint32 {
	return (s.Particles + WorkgroupSize - 1) / WorkgroupSize
}

// Encode records one step reading slot front. The uniforms must already hold
// this frame's parameters.
func (s *ComputeStepper) Encode(encoder *wgpu.CommandEncoder, front int) error {
	pass := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "ParticleUpdate"})
	defer pass.Release()
	pass.SetPipeline(s.Pipeline)
	pass.SetBindGroup(0, s.BindGroups[front], nil)
	pass.DispatchWorkgroups(s.Workgroups(), 1, 1)
	return pass.End()
}

func (s *ComputeStepper) Release() {
	for i, bg := range s.BindGroups {
		if bg != nil {
			bg.Release()
			s.BindGroups[i] = nil
		}
	}
	if s.Layout != nil {
		s.Layout.Release()
		s.Layout = nil
	}
	if s.Pipeline != nil {
		s.Pipeline.Release()
		s.Pipeline = nil
	}
}
