package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particlefield/fieldsim/fs/core"
)

// ParticleBuffers is the ping-pong pair living on the device. Each slot is
// bound as a storage buffer by the step and as a vertex buffer by the draw.
type ParticleBuffers = core.BufferPair[*wgpu.Buffer]

const particleUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageVertex |
	wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc

// NewParticleBuffers uploads the same seeded generation into both slots.
func NewParticleBuffers(device *wgpu.Device, capacity int, seed func(int) core.ParticleRecord) (*ParticleBuffers, error) {
	slot := 0
	return core.NewBufferPair(capacity, seed, func(recs []core.ParticleRecord) (*wgpu.Buffer, error) {
		label := fmt.Sprintf("Particles%d", slot)
		slot++
		return device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    label,
			Contents: core.EncodeRecords(recs),
			Usage:    particleUsage,
		})
	})
}

func ReleaseParticleBuffers(p *ParticleBuffers) {
	if p == nil {
		return
	}
	p.Release(func(b *wgpu.Buffer) {
		if b != nil {
			b.Release()
		}
	})
}
