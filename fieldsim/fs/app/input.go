package app

import (
	"github.com/gekko3d/particlefield/fieldsim/fs/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var glfwToKey = map[glfw.Key]core.Key{
	glfw.KeyPageUp:     core.KeyPageUp,
	glfw.KeyPageDown:   core.KeyPageDown,
	glfw.KeyUp:         core.KeyUp,
	glfw.KeyDown:       core.KeyDown,
	glfw.KeyLeft:       core.KeyLeft,
	glfw.KeyRight:      core.KeyRight,
	glfw.KeyQ:          core.KeyQ,
	glfw.KeyA:          core.KeyA,
	glfw.KeyW:          core.KeyW,
	glfw.KeyS:          core.KeyS,
	glfw.KeyI:          core.KeyI,
	glfw.Key0:          core.Key0,
	glfw.KeyKP0:        core.Key0,
	glfw.Key9:          core.Key9,
	glfw.KeyKP9:        core.Key9,
	glfw.KeyEqual:      core.KeyPlus,
	glfw.KeyKPAdd:      core.KeyPlus,
	glfw.KeyMinus:      core.KeyMinus,
	glfw.KeyKPSubtract: core.KeyMinus,
	glfw.KeyLeftShift:  core.KeyShift,
	glfw.KeyRightShift: core.KeyShift,
	glfw.KeyEscape:     core.KeyEscape,
}

// TranslateKey maps a glfw key press (or repeat) to a core event.
func TranslateKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) (core.KeyEvent, bool) {
	if action != glfw.Press && action != glfw.Repeat {
		return core.KeyEvent{}, false
	}
	k, ok := glfwToKey[key]
	if !ok {
		return core.KeyEvent{}, false
	}
	// Holding shift would otherwise re-anchor the origin on every repeat.
	if k == core.KeyShift && action == glfw.Repeat {
		return core.KeyEvent{}, false
	}
	return core.KeyEvent{Key: k, Shift: mods&glfw.ModShift != 0}, true
}

// InstallCallbacks routes window input into the driver.
func (a *App) InstallCallbacks(driver *core.FrameDriver) {
	a.Window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		a.Resize(width, height)
		driver.OnResize(width, height)
	})

	a.Window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		ev, ok := TranslateKey(key, action, mods)
		if !ok {
			return
		}
		if ev.Key == core.KeyEscape {
			w.SetShouldClose(true)
			return
		}
		driver.OnKey(ev)
	})

	a.Window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		driver.OnPointerMove(a.toWorld(xpos, ypos))
	})

	a.Window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		pos := a.toWorld(w.GetCursorPos())
		switch action {
		case glfw.Press:
			driver.OnPointerDown(pos)
		case glfw.Release:
			driver.OnPointerUp(pos)
		}
	})
}
