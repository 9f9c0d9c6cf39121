package core

import (
	"iter"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

const (
	// MaxEmitters must match MAX_EMITTERS in the WGSL kernels.
	MaxEmitters = 16

	// DistanceScale maps a world-space distance to the emitter radius unit (Earth radius, metres).
	DistanceScale float32 = 6.371e6
)

type CommitPolicy int

const (
	// CancelZeroRadius discards a gesture released without any drag.
	CancelZeroRadius CommitPolicy = iota
	// CommitAlways keeps zero radius emitters (they exert no force).
	CommitAlways
)

func ParseCommitPolicy(s string) (CommitPolicy, bool) {
	switch s {
	case "cancel-zero":
		return CancelZeroRadius, true
	case "always":
		return CommitAlways, true
	}
	return CancelZeroRadius, false
}

type Emitter struct {
	ID     uuid.UUID
	Center mgl32.Vec2
	Radius float32
}

// InfluenceRadius is Radius converted back to world units.
func (e Emitter) InfluenceRadius() float32 {
	return e.Radius / DistanceScale
}

// EmitterSet is the session's list of committed emitters plus at most one
// provisional emitter being dragged out. Only the input handlers mutate it,
// and only between frames.
type EmitterSet struct {
	policy   CommitPolicy
	active   []Emitter
	pending  Emitter
	open     bool
	dropped  int
	capacity int
}

func NewEmitterSet(policy CommitPolicy) *EmitterSet {
	return &EmitterSet{
		policy:   policy,
		active:   make([]Emitter, 0, MaxEmitters),
		capacity: MaxEmitters,
	}
}

func (s *EmitterSet) Policy() CommitPolicy { return s.policy }

// Begin opens a provisional emitter at center with radius 0. A gesture started
// while the set is full is dropped.
func (s *EmitterSet) Begin(center mgl32.Vec2) bool {
	if len(s.active) >= s.capacity {
		s.dropped++
		s.open = false
		return false
	}
	s.pending = Emitter{ID: uuid.New(), Center: center}
	s.open = true
	return true
}

// UpdateRadius sets the provisional radius from the pointer distance.
func (s *EmitterSet) UpdateRadius(pointer mgl32.Vec2) {
	if !s.open {
		return
	}
	s.pending.Radius = pointer.Sub(s.pending.Center).Len() * DistanceScale
}

// Commit closes the provisional emitter. It reports the emitter and whether
// it was appended.
func (s *EmitterSet) Commit() (Emitter, bool) {
	if !s.open {
		return Emitter{}, false
	}
	e := s.pending
	s.open = false
	s.pending = Emitter{}

	if e.Radius == 0 && s.policy == CancelZeroRadius {
		return e, false
	}
	if len(s.active) >= s.capacity {
		s.dropped++
		return e, false
	}
	s.active = append(s.active, e)
	return e, true
}

func (s *EmitterSet) Cancel() {
	s.open = false
	s.pending = Emitter{}
}

// Pending returns the provisional emitter, if a gesture is open.
func (s *EmitterSet) Pending() (Emitter, bool) {
	return s.pending, s.open
}

// Len is the active count, never above MaxEmitters.
func (s *EmitterSet) Len() int {
	return min(len(s.active), s.capacity)
}

func (s *EmitterSet) Dropped() int { return s.dropped }

// All yields the active emitters in insertion order.
func (s *EmitterSet) All() iter.Seq[Emitter] {
	return func(yield func(Emitter) bool) {
		n := s.Len()
		for i := 0; i < n; i++ {
			if !yield(s.active[i]) {
				return
			}
		}
	}
}

// Snapshot copies the active emitters for one frame.
func (s *EmitterSet) Snapshot() []Emitter {
	out := make([]Emitter, 0, s.Len())
	for e := range s.All() {
		out = append(out, e)
	}
	return out
}

func (s *EmitterSet) Reset() {
	s.active = s.active[:0]
	s.Cancel()
}
