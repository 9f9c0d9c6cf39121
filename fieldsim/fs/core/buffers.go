package core

import (
	"fmt"
)

// BufferPair holds the two particle generations. The front slot is the state
// produced by the last completed step; the other slot is the write target of
// the next one. B is the storage handle (a CPU slice or a GPU buffer).
type BufferPair[B any] struct {
	slots    [2]B
	front    int
	capacity int
	released bool
}

// NewBufferPair seeds capacity records once and allocates both slots from
// them, so the first step reads the same content whichever slot is front.
func NewBufferPair[B any](capacity int, seed func(index int) ParticleRecord, alloc func(recs []ParticleRecord) (B, error)) (*BufferPair[B], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("particle buffer capacity must be positive, got %d", capacity)
	}

	recs := make([]ParticleRecord, capacity)
	for i := range recs {
		recs[i] = seed(i)
	}

	p := &BufferPair[B]{capacity: capacity}
	for i := range p.slots {
		b, err := alloc(recs)
		if err != nil {
			return nil, fmt.Errorf("allocate particle buffer %d: %w", i, err)
		}
		p.slots[i] = b
	}
	return p, nil
}

func (p *BufferPair[B]) Current() B { return p.slots[p.front] }

func (p *BufferPair[B]) Next() B { return p.slots[1-p.front] }

// FrontIndex is the slot index currently holding Current.
func (p *BufferPair[B]) FrontIndex() int { return p.front }

func (p *BufferPair[B]) Slot(i int) B { return p.slots[i] }

func (p *BufferPair[B]) Capacity() int { return p.capacity }

// Swap promotes Next to Current. Call exactly once per completed step.
func (p *BufferPair[B]) Swap() {
	p.front = 1 - p.front
}

// Release hands both slots to fn once; later calls do nothing.
func (p *BufferPair[B]) Release(fn func(B)) {
	if p.released {
		return
	}
	p.released = true
	for _, b := range p.slots {
		fn(b)
	}
}

// NewCPUBuffers builds a pair of independent record slices.
func NewCPUBuffers(capacity int, seed func(int) ParticleRecord) (*BufferPair[[]ParticleRecord], error) {
	return NewBufferPair(capacity, seed, func(recs []ParticleRecord) ([]ParticleRecord, error) {
		out := make([]ParticleRecord, len(recs))
		copy(out, recs)
		return out, nil
	})
}
