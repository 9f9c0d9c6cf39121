package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Parameter bounds and key steps.
const (
	LifeFloor    float32 = 1
	LifeCeil     float32 = 20
	LifeStep     float32 = 1
	SpeedCeil    float32 = 2
	SpeedStep    float32 = 0.05
	AngleStep    float32 = 0.05
	TimeScaleMin float32 = 0.1
	TimeScaleMax float32 = 4
	TimeStep     float32 = 0.1
)

// Parameters are read once per step and changed only by input between frames.
// Angles are radians; Invert is +1 (attract) or -1 (repel).
type Parameters struct {
	TimeScale   float32
	Origin      mgl32.Vec2
	LifeMin     float32
	LifeMax     float32
	SpeedMin    float32
	SpeedMax    float32
	AngleSpread float32
	AngleBias   float32
	Invert      float32
}

func DefaultParameters() Parameters {
	return Parameters{
		TimeScale:   1,
		LifeMin:     2,
		LifeMax:     10,
		SpeedMin:    0.1,
		SpeedMax:    0.2,
		AngleSpread: math32.Pi,
		Invert:      1,
	}
}

// Normalize clamps every field into range and orders the min/max pairs.
func (p *Parameters) Normalize() {
	p.TimeScale = mgl32.Clamp(p.TimeScale, TimeScaleMin, TimeScaleMax)
	p.LifeMin = mgl32.Clamp(p.LifeMin, LifeFloor, LifeCeil)
	p.LifeMax = mgl32.Clamp(p.LifeMax, LifeFloor, LifeCeil)
	if p.LifeMin > p.LifeMax {
		p.LifeMin, p.LifeMax = p.LifeMax, p.LifeMin
	}
	p.SpeedMin = mgl32.Clamp(p.SpeedMin, 0, SpeedCeil)
	p.SpeedMax = mgl32.Clamp(p.SpeedMax, 0, SpeedCeil)
	if p.SpeedMin > p.SpeedMax {
		p.SpeedMin, p.SpeedMax = p.SpeedMax, p.SpeedMin
	}
	p.AngleSpread = mgl32.Clamp(p.AngleSpread, 0, math32.Pi)
	p.AngleBias = wrapAngle(p.AngleBias)
	if p.Invert < 0 {
		p.Invert = -1
	} else {
		p.Invert = 1
	}
}

// Apply adjusts the parameter bound to ev and reports whether ev was consumed.
// Moving one end of a range never pushes it past the other end.
func (p *Parameters) Apply(ev KeyEvent) bool {
	switch ev.Key {
	case KeyPageUp:
		if ev.Shift {
			p.LifeMax = min(p.LifeMax+LifeStep, LifeCeil)
		} else {
			p.LifeMin = min(p.LifeMin+LifeStep, p.LifeMax)
		}
	case KeyPageDown:
		if ev.Shift {
			p.LifeMax = max(p.LifeMax-LifeStep, p.LifeMin)
		} else {
			p.LifeMin = max(p.LifeMin-LifeStep, LifeFloor)
		}
	case KeyUp:
		p.AngleSpread = min(p.AngleSpread+AngleStep, math32.Pi)
	case KeyDown:
		p.AngleSpread = max(p.AngleSpread-AngleStep, 0)
	case KeyLeft:
		p.AngleBias = wrapAngle(p.AngleBias - AngleStep)
	case KeyRight:
		p.AngleBias = wrapAngle(p.AngleBias + AngleStep)
	case KeyQ:
		p.SpeedMin = min(p.SpeedMin+SpeedStep, p.SpeedMax)
	case KeyA:
		p.SpeedMin = max(p.SpeedMin-SpeedStep, 0)
	case KeyW:
		p.SpeedMax = min(p.SpeedMax+SpeedStep, SpeedCeil)
	case KeyS:
		p.SpeedMax = max(p.SpeedMax-SpeedStep, p.SpeedMin)
	case KeyPlus:
		p.TimeScale = min(p.TimeScale+TimeStep, TimeScaleMax)
	case KeyMinus:
		p.TimeScale = max(p.TimeScale-TimeStep, TimeScaleMin)
	case KeyI:
		p.Invert = -p.Invert
		if p.Invert == 0 {
			p.Invert = 1
		}
	default:
		return false
	}
	return true
}

func wrapAngle(a float32) float32 {
	a = math32.Mod(a, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a
}
