package core

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/particlefield"
)

// Pipeline issues the work of one frame. FrameDriver calls, in order:
// BeginFrame (clears the target), DrawField, Step, DrawParticles, EndFrame,
// Swap. DrawField and DrawParticles are skipped when toggled off. Swap is
// skipped when BeginFrame or EndFrame fails.
type Pipeline interface {
	BeginFrame(f *Frame) error
	DrawField(f *Frame)
	// Step reads the current buffer and writes the next one for every particle.
	Step(f *Frame) StepStats
	// DrawParticles reads the buffer written by Step.
	DrawParticles(f *Frame)
	EndFrame() error
	Swap()
}

type FrameStats struct {
	Index    uint64
	Dt       float32
	Emitters int
	Step     StepStats
	Elapsed  time.Duration
	Skipped  bool
}

type FrameObserver interface {
	FrameDone(s FrameStats)
}

// Observers fans one frame out to several observers in order. Nil entries are skipped.
type Observers []FrameObserver

func (o Observers) FrameDone(s FrameStats) {
	for _, obs := range o {
		if obs != nil {
			obs.FrameDone(s)
		}
	}
}

// FrameDriver is the per-frame orchestration and the input entry point for
// front-ends. It is not safe for concurrent use: callers deliver input and
// frames from one goroutine.
type FrameDriver struct {
	ctx      *SimulationContext
	pipeline Pipeline
	log      particlefield.Logger
	observer FrameObserver

	maxDelta float64
	last     float64
	started  bool
	frames   uint64
}

// NewFrameDriver drives pipeline from ctx. A positive maxDelta caps the step
// after a stall (window drag, breakpoint); zero leaves deltas uncapped.
func NewFrameDriver(ctx *SimulationContext, pipeline Pipeline, maxDelta float64, logger particlefield.Logger) *FrameDriver {
	return &FrameDriver{
		ctx:      ctx,
		pipeline: pipeline,
		log:      particlefield.OrNop(logger),
		maxDelta: maxDelta,
	}
}

func (d *FrameDriver) SetObserver(o FrameObserver) { d.observer = o }

func (d *FrameDriver) Context() *SimulationContext { return d.ctx }

func (d *FrameDriver) Frames() uint64 { return d.frames }

// OnFrame runs one frame at timestamp (seconds). The first call steps with
// dt = 0; later deltas are timestamp minus the previous timestamp, never
// negative and capped at maxDelta when one is set.
func (d *FrameDriver) OnFrame(timestamp float64) FrameStats {
	start := time.Now()

	var dt float64
	if d.started {
		dt = max(timestamp-d.last, 0)
		if d.maxDelta > 0 {
			dt = min(dt, d.maxDelta)
		}
	}
	d.started = true
	d.last = timestamp

	f := d.ctx.frame(d.frames, float32(dt))
	d.frames++
	stats := FrameStats{Index: f.Index, Dt: f.Dt, Emitters: len(f.Emitters)}

	if err := d.pipeline.BeginFrame(f); err != nil {
		d.log.Warnf("frame %d skipped: %v", f.Index, err)
		stats.Skipped = true
		return d.finish(stats, start)
	}
	if f.DrawField {
		d.pipeline.DrawField(f)
	}
	stats.Step = d.pipeline.Step(f)
	if f.DrawParticles {
		d.pipeline.DrawParticles(f)
	}
	if err := d.pipeline.EndFrame(); err != nil {
		d.log.Warnf("frame %d not submitted: %v", f.Index, err)
		stats.Skipped = true
		return d.finish(stats, start)
	}
	d.pipeline.Swap()
	return d.finish(stats, start)
}

func (d *FrameDriver) finish(stats FrameStats, start time.Time) FrameStats {
	stats.Elapsed = time.Since(start)
	if d.observer != nil {
		d.observer.FrameDone(stats)
	}
	return stats
}

func (d *FrameDriver) OnPointerDown(pos mgl32.Vec2) {
	d.ctx.Cursor = pos
	if !d.ctx.Emitters.Begin(pos) {
		d.log.Debugf("emitter limit %d reached, gesture ignored", MaxEmitters)
	}
}

func (d *FrameDriver) OnPointerMove(pos mgl32.Vec2) {
	d.ctx.Cursor = pos
	d.ctx.Emitters.UpdateRadius(pos)
}

func (d *FrameDriver) OnPointerUp(pos mgl32.Vec2) {
	d.ctx.Cursor = pos
	d.ctx.Emitters.UpdateRadius(pos)
	if e, ok := d.ctx.Emitters.Commit(); ok {
		d.log.Debugf("emitter %s at (%.3f, %.3f) radius %.4g", e.ID, e.Center.X(), e.Center.Y(), e.Radius)
	}
}

// OnKey applies a key press. '0' and '9' toggle the field and particle draws,
// Shift moves the spawn origin to the cursor, everything else adjusts
// parameters.
func (d *FrameDriver) OnKey(ev KeyEvent) {
	switch ev.Key {
	case Key0:
		d.ctx.ShowField = !d.ctx.ShowField
	case Key9:
		d.ctx.ShowParticles = !d.ctx.ShowParticles
	case KeyShift:
		d.ctx.Params.Origin = d.ctx.Cursor
	default:
		if d.ctx.Params.Apply(ev) {
			p := d.ctx.Params
			d.log.Debugf("params: life [%.1f, %.1f] speed [%.2f, %.2f] spread %.2f bias %.2f scale %.1f invert %+.0f",
				p.LifeMin, p.LifeMax, p.SpeedMin, p.SpeedMax, p.AngleSpread, p.AngleBias, p.TimeScale, p.Invert)
		}
	}
}

// OnResize updates the viewport; the new aspect ratio applies to later respawns.
func (d *FrameDriver) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.ctx.Viewport = Viewport{Width: width, Height: height}
}
