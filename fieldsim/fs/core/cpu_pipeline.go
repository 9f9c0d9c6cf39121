package core

// Canvas receives the draws of a CPU pipeline.
type Canvas interface {
	Clear()
	DrawField(f *Frame)
	DrawParticles(recs []ParticleRecord, f *Frame)
	Present() error
}

// CPUPipeline runs the reference kernel on CPU buffers. Canvas may be nil for
// headless runs.
type CPUPipeline struct {
	Buffers *BufferPair[[]ParticleRecord]
	Stepper CPUStepper
	Canvas  Canvas
}

func NewCPUPipeline(ctx *SimulationContext, particles int, canvas Canvas) (*CPUPipeline, error) {
	buffers, err := NewCPUBuffers(particles, ctx.Seeder())
	if err != nil {
		return nil, err
	}
	return &CPUPipeline{Buffers: buffers, Canvas: canvas}, nil
}

func (p *CPUPipeline) BeginFrame(f *Frame) error {
	if p.Canvas != nil {
		p.Canvas.Clear()
	}
	return nil
}

func (p *CPUPipeline) DrawField(f *Frame) {
	if p.Canvas != nil {
		p.Canvas.DrawField(f)
	}
}

func (p *CPUPipeline) Step(f *Frame) StepStats {
	return p.Stepper.Step(p.Buffers, f)
}

func (p *CPUPipeline) DrawParticles(f *Frame) {
	if p.Canvas != nil {
		p.Canvas.DrawParticles(p.Buffers.Next(), f)
	}
}

func (p *CPUPipeline) EndFrame() error {
	if p.Canvas != nil {
		return p.Canvas.Present()
	}
	return nil
}

func (p *CPUPipeline) Swap() {
	p.Buffers.Swap()
}

// Particles returns the current generation.
func (p *CPUPipeline) Particles() []ParticleRecord {
	return p.Buffers.Current()
}
