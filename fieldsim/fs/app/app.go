package app

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/fieldsim/fs/core"
	"github.com/gekko3d/particlefield/fieldsim/fs/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

var clearColor = wgpu.Color{R: 0.02, G: 0.02, B: 0.05, A: 1}

// App is the windowed WebGPU front-end. It implements core.Pipeline: one
// frame is a clear pass with the optional field, the compute step, then a
// second render pass for the particles.
type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Uniforms  *gpu.SimUniforms
	Buffers   *gpu.ParticleBuffers
	Stepper   *gpu.ComputeStepper
	Field     *gpu.FieldRenderer
	Particles *gpu.ParticleRenderer

	Profiler *Profiler

	// per-frame state, valid between BeginFrame and EndFrame
	texture *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder

	log         particlefield.Logger
	reportEvery float64
	lastReport  float64
}

func NewApp(window *glfw.Window, logger particlefield.Logger) *App {
	return &App{
		Window:      window,
		Profiler:    NewProfiler(),
		log:         particlefield.OrNop(logger),
		reportEvery: 1.0,
	}
}

// Init acquires the device and builds the particle buffers, stepper and
// renderers for ctx. Any failure is fatal for this front-end.
func (a *App) Init(ctx *core.SimulationContext, particles int) error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Particle Field Device"})
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return errors.New("surface reports no formats")
	}
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	if a.Uniforms, err = gpu.NewSimUniforms(a.Device); err != nil {
		return fmt.Errorf("sim uniforms: %w", err)
	}
	if a.Buffers, err = gpu.NewParticleBuffers(a.Device, particles, ctx.Seeder()); err != nil {
		return err
	}
	if a.Stepper, err = gpu.NewComputeStepper(a.Device, a.Uniforms, a.Buffers); err != nil {
		return err
	}
	if a.Field, err = gpu.NewFieldRenderer(a.Device, a.Config.Format, a.Uniforms); err != nil {
		return err
	}
	if a.Particles, err = gpu.NewParticleRenderer(a.Device, a.Config.Format, a.Uniforms); err != nil {
		return err
	}

	a.log.Infof("webgpu ready: %dx%d, format %v, %d particles", width, height, a.Config.Format, particles)
	return nil
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
	}
}

// toWorld maps window cursor coordinates; cursor positions are in screen
// units, which may differ from the framebuffer on high-DPI displays.
func (a *App) toWorld(x, y float64) mgl32.Vec2 {
	w, h := a.Window.GetSize()
	return core.Viewport{Width: w, Height: h}.ToWorld(x, y)
}

func (a *App) BeginFrame(f *core.Frame) error {
	a.Profiler.BeginScope("begin")
	defer a.Profiler.EndScope("begin")

	texture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return fmt.Errorf("create view: %w", err)
	}
	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		texture.Release()
		return fmt.Errorf("create command encoder: %w", err)
	}
	a.texture, a.view, a.encoder = texture, view, encoder

	if err := a.Uniforms.Upload(a.Queue, f, uint32(a.Buffers.Capacity())); err != nil {
		a.releaseFrame()
		return fmt.Errorf("upload sim params: %w", err)
	}

	a.pass = a.beginPass(wgpu.LoadOpClear)
	return nil
}

func (a *App) beginPass(load wgpu.LoadOp) *wgpu.RenderPassEncoder {
	return a.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       a.view,
			LoadOp:     load,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearColor,
		}},
	})
}

func (a *App) endPass() {
	if a.pass == nil {
		return
	}
	if err := a.pass.End(); err != nil {
		a.log.Errorf("render pass end: %v", err)
	}
	a.pass.Release()
	a.pass = nil
}

func (a *App) DrawField(f *core.Frame) {
	a.Profiler.BeginScope("field")
	a.Field.Draw(a.pass)
	a.Profiler.EndScope("field")
}

// Step closes the clear pass and records the compute step from Current into
// Next. The GPU path does not read back respawn counts.
func (a *App) Step(f *core.Frame) core.StepStats {
	a.Profiler.BeginScope("step")
	defer a.Profiler.EndScope("step")

	a.endPass()
	if err := a.Stepper.Encode(a.encoder, a.Buffers.FrontIndex()); err != nil {
		a.log.Errorf("compute pass end: %v", err)
	}
	return core.StepStats{Particles: a.Buffers.Capacity()}
}

func (a *App) DrawParticles(f *core.Frame) {
	a.Profiler.BeginScope("particles")
	a.pass = a.beginPass(wgpu.LoadOpLoad)
	a.Particles.Draw(a.pass, a.Buffers.Next(), a.Stepper.Particles)
	a.Profiler.EndScope("particles")
}

func (a *App) EndFrame() error {
	a.Profiler.BeginScope("submit")
	defer a.Profiler.EndScope("submit")
	defer a.releaseFrame()

	a.endPass()
	cmd, err := a.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()

	a.Queue.Submit(cmd)
	a.Surface.Present()
	return nil
}

func (a *App) Swap() {
	a.Buffers.Swap()
}

func (a *App) releaseFrame() {
	a.endPass()
	if a.encoder != nil {
		a.encoder.Release()
		a.encoder = nil
	}
	if a.view != nil {
		a.view.Release()
		a.view = nil
	}
	if a.texture != nil {
		a.texture.Release()
		a.texture = nil
	}
}

// FrameDone feeds the profiler and logs its report once per interval when
// debug output is on.
func (a *App) FrameDone(stats core.FrameStats) {
	a.Profiler.FrameDone()
	a.Profiler.SetCount("emitters", stats.Emitters)
	if stats.Skipped {
		a.Profiler.AddCount("skipped", 1)
	}

	now := glfw.GetTime()
	if now-a.lastReport < a.reportEvery {
		return
	}
	if a.log.DebugEnabled() && a.lastReport > 0 {
		elapsed := now - a.lastReport
		a.log.Debugf("%.1f fps; %s", float64(a.Profiler.Frames)/elapsed, a.Profiler.StatsString())
	}
	a.lastReport = now
	a.Profiler.Reset()
}

func (a *App) Release() {
	a.releaseFrame()
	if a.Particles != nil {
		a.Particles.Release()
	}
	if a.Field != nil {
		a.Field.Release()
	}
	if a.Stepper != nil {
		a.Stepper.Release()
	}
	gpu.ReleaseParticleBuffers(a.Buffers)
	if a.Uniforms != nil {
		a.Uniforms.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Adapter != nil {
		a.Adapter.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}
