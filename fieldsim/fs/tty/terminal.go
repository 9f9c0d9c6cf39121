// Package tty runs the simulation in a terminal on the CPU reference kernel.
// Each cell is treated as two pixels tall so world space keeps its aspect.
package tty

import (
	"context"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/fieldsim/fs/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	statusRows   = 1
	cellAspect   = 2
	frameTick    = 33 * time.Millisecond
	particleRune = '•'
)

var (
	attractColor = [3]float32{50, 120, 255}
	repelColor   = [3]float32{255, 80, 50}
	youngColor   = [3]float32{255, 220, 110}
	oldColor     = [3]float32{90, 60, 20}
)

// Terminal is a core.Canvas drawing into a tcell screen, plus the input loop
// that feeds the frame driver.
type Terminal struct {
	screen tcell.Screen
	driver *core.FrameDriver
	pipe   *core.CPUPipeline
	log    particlefield.Logger

	cols, rows int
	pressed    bool
	start      time.Time
}

// New builds a CPU pipeline drawing into screen. The screen must already be
// initialised; New enables mouse reporting.
func New(screen tcell.Screen, ctx *core.SimulationContext, particles int, maxDelta float64, logger particlefield.Logger) (*Terminal, error) {
	t := &Terminal{screen: screen, log: particlefield.OrNop(logger)}
	t.cols, t.rows = screen.Size()
	ctx.Viewport = t.viewport()

	pipe, err := core.NewCPUPipeline(ctx, particles, t)
	if err != nil {
		return nil, err
	}
	t.pipe = pipe
	t.driver = core.NewFrameDriver(ctx, pipe, maxDelta, logger)
	screen.EnableMouse(tcell.MouseDragEvents)
	return t, nil
}

func (t *Terminal) Driver() *core.FrameDriver { return t.driver }

func (t *Terminal) Pipeline() *core.CPUPipeline { return t.pipe }

// viewport is the simulation area in half-cell pixels, excluding the status line.
func (t *Terminal) viewport() core.Viewport {
	return core.Viewport{Width: t.cols, Height: max(t.rows-statusRows, 1) * cellAspect}
}

func (t *Terminal) cellToWorld(x, y int) mgl32.Vec2 {
	return t.viewport().ToWorld(float64(x)+0.5, (float64(y)+0.5)*cellAspect)
}

func (t *Terminal) worldToCell(p, extent mgl32.Vec2) (int, int, bool) {
	rows := t.rows - statusRows
	x := int(math32.Floor((p.X()/extent.X() + 1) / 2 * float32(t.cols)))
	y := int(math32.Floor((1 - p.Y()/extent.Y()) / 2 * float32(rows)))
	return x, y, x >= 0 && x < t.cols && y >= 0 && y < rows
}

// HandleEvent applies one terminal event. It returns false when the user asked to quit.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if k, ok := TranslateKey(ev); ok {
			t.driver.OnKey(k)
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		pos := t.cellToWorld(x, y)
		down := ev.Buttons()&tcell.Button1 != 0
		switch {
		case down && !t.pressed:
			t.pressed = true
			t.driver.OnPointerDown(pos)
		case !down && t.pressed:
			t.pressed = false
			t.driver.OnPointerUp(pos)
		default:
			t.driver.OnPointerMove(pos)
		}
	case *tcell.EventResize:
		t.screen.Sync()
		t.cols, t.rows = t.screen.Size()
		vp := t.viewport()
		t.driver.OnResize(vp.Width, vp.Height)
		t.log.Debugf("terminal resized to %dx%d cells", t.cols, t.rows)
	}
	return true
}

// Frame runs one driver frame at the given time since start.
func (t *Terminal) Frame(elapsed time.Duration) core.FrameStats {
	return t.driver.OnFrame(elapsed.Seconds())
}

// Run drives frames on a ticker until ctx is cancelled or the user quits.
// Events are read on a separate goroutine and applied between frames.
func (t *Terminal) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The reader stops when Run returns or the screen is finalized.
	events := make(chan tcell.Event, 100)
	go t.screen.ChannelEvents(events, ctx.Done())

	ticker := time.NewTicker(frameTick)
	defer ticker.Stop()
	t.start = time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !t.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			t.Frame(now.Sub(t.start))
		}
	}
}

func (t *Terminal) Clear() {
	t.screen.Clear()
}

// DrawField shades cells by the summed emitter acceleration.
func (t *Terminal) DrawField(f *core.Frame) {
	if len(f.Emitters) == 0 {
		return
	}
	tint := attractColor
	if f.Params.Invert < 0 {
		tint = repelColor
	}
	for y := 0; y < t.rows-statusRows; y++ {
		for x := 0; x < t.cols; x++ {
			a := f.Field.Strength(t.cellToWorld(x, y), f.Emitters)
			if a == 0 {
				continue
			}
			k := 1 - math32.Exp(-a*0.5)
			bg := rgb(tint, k*0.6)
			t.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(bg))
		}
	}
	for _, e := range f.Emitters {
		if x, y, ok := t.worldToCell(e.Center, f.View); ok {
			t.screen.SetContent(x, y, '+', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite))
		}
	}
}

// DrawParticles plots each live particle, fading from young to old colour.
func (t *Terminal) DrawParticles(recs []core.ParticleRecord, f *core.Frame) {
	for _, r := range recs {
		x, y, ok := t.worldToCell(r.Position, f.View)
		if !ok {
			continue
		}
		age := mgl32.Clamp(r.Age/max(r.Life, 1e-4), 0, 1)
		c := [3]float32{
			youngColor[0] + (oldColor[0]-youngColor[0])*age,
			youngColor[1] + (oldColor[1]-youngColor[1])*age,
			youngColor[2] + (oldColor[2]-youngColor[2])*age,
		}
		_, _, style, _ := t.screen.GetContent(x, y)
		t.screen.SetContent(x, y, particleRune, nil, style.Foreground(rgb(c, 1)))
	}
}

func (t *Terminal) Present() error {
	t.drawStatus()
	t.screen.Show()
	return nil
}

func (t *Terminal) drawStatus() {
	ctx := t.driver.Context()
	p := ctx.Params
	line := fmt.Sprintf("emitters %d/%d  life %.0f-%.0fs  speed %.2f-%.2f  spread %.2f  bias %.2f  x%.1f  %s  [0]field [9]particles [o]origin [esc]quit",
		ctx.Emitters.Len(), core.MaxEmitters, p.LifeMin, p.LifeMax, p.SpeedMin, p.SpeedMax,
		p.AngleSpread, p.AngleBias, p.TimeScale, invertLabel(p.Invert))
	y := t.rows - 1
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	x := 0
	for _, r := range line {
		if x >= t.cols {
			break
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < t.cols; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
}

func invertLabel(v float32) string {
	if v < 0 {
		return "repel"
	}
	return "attract"
}

func rgb(c [3]float32, k float32) tcell.Color {
	return tcell.NewRGBColor(int32(c[0]*k), int32(c[1]*k), int32(c[2]*k))
}
