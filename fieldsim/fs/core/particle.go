package core

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ParticleRecord matches the WGSL layout in particle_update.wgsl
// struct Particle { pos: vec2<f32>, age: f32, life: f32, vel: vec2<f32> }
type ParticleRecord struct {
	Position mgl32.Vec2
	Age      float32
	Life     float32
	Velocity mgl32.Vec2
}

// Attribute offsets inside one packed record, in bytes.
const (
	OffsetPosition = 0
	OffsetAge      = 8
	OffsetLife     = 12
	OffsetVelocity = 16

	ParticleStride = 24
)

func (r ParticleRecord) Expired() bool {
	return r.Age >= r.Life
}

// EncodeRecords packs records little endian, ParticleStride bytes each.
func EncodeRecords(recs []ParticleRecord) []byte {
	buf := make([]byte, len(recs)*ParticleStride)
	for i, r := range recs {
		off := i * ParticleStride
		putF32(buf[off+OffsetPosition:], r.Position.X())
		putF32(buf[off+OffsetPosition+4:], r.Position.Y())
		putF32(buf[off+OffsetAge:], r.Age)
		putF32(buf[off+OffsetLife:], r.Life)
		putF32(buf[off+OffsetVelocity:], r.Velocity.X())
		putF32(buf[off+OffsetVelocity+4:], r.Velocity.Y())
	}
	return buf
}

func DecodeRecords(data []byte) ([]ParticleRecord, error) {
	if len(data)%ParticleStride != 0 {
		return nil, fmt.Errorf("particle data length %d is not a multiple of %d", len(data), ParticleStride)
	}
	recs := make([]ParticleRecord, len(data)/ParticleStride)
	for i := range recs {
		off := i * ParticleStride
		recs[i] = ParticleRecord{
			Position: mgl32.Vec2{getF32(data[off+OffsetPosition:]), getF32(data[off+OffsetPosition+4:])},
			Age:      getF32(data[off+OffsetAge:]),
			Life:     getF32(data[off+OffsetLife:]),
			Velocity: mgl32.Vec2{getF32(data[off+OffsetVelocity:]), getF32(data[off+OffsetVelocity+4:])},
		}
	}
	return recs, nil
}

func putF32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func getF32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
