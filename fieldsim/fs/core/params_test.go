package core

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestParameters_LifeRangeNeverInverts(t *testing.T) {
	p := DefaultParameters()
	for i := 0; i < 50; i++ {
		p.Apply(KeyEvent{Key: KeyPageUp})
	}
	assert.Equal(t, p.LifeMax, p.LifeMin, "life min stops at life max")

	for i := 0; i < 50; i++ {
		p.Apply(KeyEvent{Key: KeyPageDown, Shift: true})
	}
	assert.LessOrEqual(t, p.LifeMin, p.LifeMax)

	for i := 0; i < 50; i++ {
		p.Apply(KeyEvent{Key: KeyPageDown})
	}
	assert.Equal(t, LifeFloor, p.LifeMin)

	for i := 0; i < 50; i++ {
		p.Apply(KeyEvent{Key: KeyPageUp, Shift: true})
	}
	assert.Equal(t, LifeCeil, p.LifeMax)
}

func TestParameters_SpeedAndSpread(t *testing.T) {
	p := DefaultParameters()
	for i := 0; i < 100; i++ {
		p.Apply(KeyEvent{Key: KeyS})
	}
	assert.Equal(t, p.SpeedMin, p.SpeedMax)

	for i := 0; i < 100; i++ {
		p.Apply(KeyEvent{Key: KeyA})
	}
	assert.Equal(t, float32(0), p.SpeedMin)

	for i := 0; i < 100; i++ {
		p.Apply(KeyEvent{Key: KeyW})
	}
	assert.Equal(t, SpeedCeil, p.SpeedMax)

	for i := 0; i < 100; i++ {
		p.Apply(KeyEvent{Key: KeyUp})
	}
	assert.Equal(t, math32.Pi, p.AngleSpread)
	for i := 0; i < 100; i++ {
		p.Apply(KeyEvent{Key: KeyDown})
	}
	assert.Equal(t, float32(0), p.AngleSpread)
}

func TestParameters_BiasWraps(t *testing.T) {
	p := DefaultParameters()
	p.Apply(KeyEvent{Key: KeyRight})
	assert.InDelta(t, AngleStep, p.AngleBias, 1e-6, "right increases the bias")
	p.Apply(KeyEvent{Key: KeyLeft})
	p.Apply(KeyEvent{Key: KeyLeft})
	assert.InDelta(t, 2*math32.Pi-AngleStep, p.AngleBias, 1e-5, "left wraps below zero")
	p.Apply(KeyEvent{Key: KeyRight})
	assert.True(t, p.AngleBias < 1e-4 || p.AngleBias > 2*math32.Pi-1e-4, "bias back at zero, got %v", p.AngleBias)
}

func TestParameters_InvertAndTimeScale(t *testing.T) {
	p := DefaultParameters()
	assert.True(t, p.Apply(KeyEvent{Key: KeyI}))
	assert.Equal(t, float32(-1), p.Invert)
	p.Apply(KeyEvent{Key: KeyI})
	assert.Equal(t, float32(1), p.Invert)

	for i := 0; i < 100; i++ {
		p.Apply(KeyEvent{Key: KeyMinus})
	}
	assert.Equal(t, TimeScaleMin, p.TimeScale)
	for i := 0; i < 100; i++ {
		p.Apply(KeyEvent{Key: KeyPlus})
	}
	assert.Equal(t, TimeScaleMax, p.TimeScale)

	assert.False(t, p.Apply(KeyEvent{Key: KeyEscape}))
}

func TestParameters_Normalize(t *testing.T) {
	p := Parameters{
		TimeScale:   0,
		LifeMin:     30,
		LifeMax:     3,
		SpeedMin:    5,
		SpeedMax:    -1,
		AngleSpread: 10,
		AngleBias:   -math32.Pi / 2,
		Invert:      0,
	}
	p.Normalize()
	assert.Equal(t, TimeScaleMin, p.TimeScale)
	assert.Equal(t, float32(3), p.LifeMin)
	assert.Equal(t, LifeCeil, p.LifeMax)
	assert.Equal(t, float32(0), p.SpeedMin)
	assert.Equal(t, SpeedCeil, p.SpeedMax)
	assert.Equal(t, math32.Pi, p.AngleSpread)
	assert.InDelta(t, 1.5*math32.Pi, p.AngleBias, 1e-5)
	assert.Equal(t, float32(1), p.Invert)
}
