package core

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRecords_Layout(t *testing.T) {
	rec := ParticleRecord{
		Position: mgl32.Vec2{1.5, -2},
		Age:      0.25,
		Life:     6.5,
		Velocity: mgl32.Vec2{0.1, -0.3},
	}
	buf := EncodeRecords([]ParticleRecord{{}, rec})
	require.Len(t, buf, 2*ParticleStride)

	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[ParticleStride+off:]))
	}
	assert.Equal(t, float32(1.5), f(OffsetPosition))
	assert.Equal(t, float32(-2), f(OffsetPosition+4))
	assert.Equal(t, float32(0.25), f(OffsetAge))
	assert.Equal(t, float32(6.5), f(OffsetLife))
	assert.Equal(t, float32(0.1), f(OffsetVelocity))
	assert.Equal(t, float32(-0.3), f(OffsetVelocity+4))

	back, err := DecodeRecords(buf)
	require.NoError(t, err)
	assert.Equal(t, rec, back[1])
}

func TestDecodeRecords_BadLength(t *testing.T) {
	_, err := DecodeRecords(make([]byte, ParticleStride+3))
	assert.Error(t, err)
}

func TestParticleRecord_Expired(t *testing.T) {
	assert.False(t, ParticleRecord{Age: 0.5, Life: 1}.Expired())
	assert.True(t, ParticleRecord{Age: 1, Life: 1}.Expired())
	assert.True(t, ParticleRecord{Age: 1.2, Life: 1}.Expired())
}
