package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestViewport_ToWorld(t *testing.T) {
	v := Viewport{Width: 200, Height: 100}
	assert.Equal(t, mgl32.Vec2{1.5, 0.75}, v.Extent())

	assert.Equal(t, mgl32.Vec2{-1.5, 0.75}, v.ToWorld(0, 0))
	assert.Equal(t, mgl32.Vec2{1.5, -0.75}, v.ToWorld(200, 100))
	assert.Equal(t, mgl32.Vec2{0, 0}, v.ToWorld(100, 50))

	assert.Equal(t, mgl32.Vec2{}, Viewport{}.ToWorld(10, 10))
	assert.Equal(t, mgl32.Vec2{1.5, 1.5}, Viewport{}.Extent())
}

func TestSpawnArea_Sample(t *testing.T) {
	a := SpawnArea{Center: mgl32.Vec2{1, -1}, HalfExtent: mgl32.Vec2{0.5, 0.25}}
	assert.Equal(t, mgl32.Vec2{0.5, -1.25}, a.Sample(0, 0))
	assert.Equal(t, mgl32.Vec2{1, -1}, a.Sample(0.5, 0.5))
	assert.True(t, a.Contains(a.Sample(0.99, 0.01)))
	assert.False(t, a.Contains(mgl32.Vec2{2, -1}))
}

func TestRandom_RangeAndDeterminism(t *testing.T) {
	seen := map[float32]bool{}
	for i := uint32(0); i < 1000; i++ {
		r := Random(7, i, streamLife)
		assert.GreaterOrEqual(t, r, float32(0))
		assert.Less(t, r, float32(1))
		assert.Equal(t, r, Random(7, i, streamLife))
		seen[r] = true
	}
	assert.Greater(t, len(seen), 990, "hash should spread indices")
	assert.NotEqual(t, Random(7, 3, streamPosX), Random(7, 3, streamPosY))
	assert.NotEqual(t, Random(7, 3, streamPosX), Random(8, 3, streamPosX))
}

func TestVelocityMode_Parse(t *testing.T) {
	for _, m := range []VelocityMode{VelocityZero, VelocityRandom, VelocityConstant} {
		got, ok := ParseVelocityMode(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := ParseVelocityMode("sideways")
	assert.False(t, ok)
}
