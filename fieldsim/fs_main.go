package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/fieldsim/fs/app"
	"github.com/gekko3d/particlefield/fieldsim/fs/core"
	"github.com/gekko3d/particlefield/fieldsim/fs/telemetry"
	"github.com/gekko3d/particlefield/fieldsim/fs/tty"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML or TOML config file")
	frontend := flag.String("frontend", "", "gpu, tty or headless (overrides config)")
	particles := flag.Int("particles", 0, "particle count (overrides config)")
	seed := flag.Int64("seed", 0, "random seed (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging and the frame profiler")
	metrics := flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :9090")
	frames := flag.Int("frames", 0, "frames to run in headless mode (overrides config)")
	flag.Parse()

	cfg, err := particlefield.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	applyFlags(&cfg, *frontend, *particles, *seed, *debug, *metrics, *frames)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := particlefield.NewDefaultLogger("fieldsim", cfg.Debug)
	if err := run(cfg, logger); err != nil {
		logger.Errorf("%v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func applyFlags(cfg *particlefield.Config, frontend string, particles int, seed int64, debug bool, metrics string, frames int) {
	if frontend != "" {
		cfg.Frontend = frontend
	}
	if particles > 0 {
		cfg.Particles = particles
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if debug {
		cfg.Debug = true
	}
	if metrics != "" {
		cfg.MetricsAddr = metrics
	}
	if frames > 0 {
		cfg.Headless.Frames = frames
	}
}

func newContext(cfg particlefield.Config) (*core.SimulationContext, error) {
	policy, ok := core.ParseCommitPolicy(cfg.EmitterPolicy)
	if !ok {
		return nil, fmt.Errorf("unknown emitter policy %q", cfg.EmitterPolicy)
	}
	velocity, ok := core.ParseVelocityMode(cfg.Velocity)
	if !ok {
		return nil, fmt.Errorf("unknown velocity mode %q", cfg.Velocity)
	}

	p := cfg.Params
	invert := float32(1)
	if p.Invert {
		invert = -1
	}
	return core.NewSimulationContext(core.ContextOptions{
		Params: core.Parameters{
			TimeScale:   p.TimeScale,
			LifeMin:     p.LifeMin,
			LifeMax:     p.LifeMax,
			SpeedMin:    p.SpeedMin,
			SpeedMax:    p.SpeedMax,
			AngleSpread: p.AngleSpread,
			AngleBias:   p.AngleBias,
			Invert:      invert,
		},
		Policy:   policy,
		Viewport: core.Viewport{Width: cfg.Window.Width, Height: cfg.Window.Height},
		Velocity: velocity,
		Field: core.GravityField{
			G:           cfg.Field.Gravity,
			Density:     cfg.Field.Density,
			MinDistance: cfg.Field.MinDistance,
		},
		Seed: cfg.Seed,
	}), nil
}

func run(cfg particlefield.Config, logger *particlefield.DefaultLogger) error {
	ctx, err := newContext(cfg)
	if err != nil {
		return err
	}

	var observers core.Observers
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		observers = append(observers, telemetry.NewFrameMetrics(reg))
		srv := telemetry.Serve(cfg.MetricsAddr, reg, logger)
		defer srv.Close()
	}

	logger.Infof("starting %s front-end: %d particles, seed %d, velocity %s",
		cfg.Frontend, cfg.Particles, cfg.Seed, ctx.Velocity)

	switch cfg.Frontend {
	case particlefield.FrontendGPU:
		return runGPU(cfg, ctx, observers, logger)
	case particlefield.FrontendTerminal:
		return runTerminal(cfg, ctx, observers, logger)
	default:
		return runHeadless(cfg, ctx, observers, logger)
	}
}

func runGPU(cfg particlefield.Config, ctx *core.SimulationContext, observers core.Observers, logger particlefield.Logger) error {
	window, err := app.NewWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	w, h := window.GetFramebufferSize()
	ctx.Viewport = core.Viewport{Width: w, Height: h}

	application := app.NewApp(window, logger)
	defer application.Release()
	if err := application.Init(ctx, cfg.Particles); err != nil {
		return fmt.Errorf("webgpu init: %w", err)
	}

	driver := core.NewFrameDriver(ctx, application, cfg.MaxFrameDelta, logger)
	driver.SetObserver(append(observers, application))
	application.InstallCallbacks(driver)

	for !window.ShouldClose() {
		glfw.PollEvents()
		driver.OnFrame(glfw.GetTime())
	}
	return nil
}

func runTerminal(cfg particlefield.Config, ctx *core.SimulationContext, observers core.Observers, logger particlefield.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()

	// Log lines would tear the screen.
	logger.SetDebug(false)

	term, err := tty.New(screen, ctx, cfg.Particles, cfg.MaxFrameDelta, particlefield.NewNopLogger())
	if err != nil {
		return err
	}
	term.Driver().SetObserver(observers)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := term.Run(sigCtx); err != nil && sigCtx.Err() == nil {
		return err
	}
	return nil
}

func runHeadless(cfg particlefield.Config, ctx *core.SimulationContext, observers core.Observers, logger particlefield.Logger) error {
	pipe, err := core.NewCPUPipeline(ctx, cfg.Particles, nil)
	if err != nil {
		return err
	}
	driver := core.NewFrameDriver(ctx, pipe, cfg.MaxFrameDelta, logger)
	driver.SetObserver(observers)

	start := time.Now()
	respawned := 0
	for i := range cfg.Headless.Frames {
		stats := driver.OnFrame(float64(i) * cfg.Headless.Step)
		respawned += stats.Step.Respawned
		if logger.DebugEnabled() && i%60 == 0 {
			logger.Debugf("frame %d: dt %.4f, respawned %d, took %v", stats.Index, stats.Dt, stats.Step.Respawned, stats.Elapsed)
		}
	}

	var ageSum float32
	live := pipe.Particles()
	for _, r := range live {
		ageSum += r.Age / r.Life
	}
	logger.Infof("headless: %d frames in %v, %d respawns, mean age %.2f of life",
		driver.Frames(), time.Since(start).Round(time.Millisecond), respawned, ageSum/float32(len(live)))
	return nil
}
