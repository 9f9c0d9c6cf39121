package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterSet_DragCommit(t *testing.T) {
	s := NewEmitterSet(CancelZeroRadius)
	s.Begin(mgl32.Vec2{0, 0})
	s.UpdateRadius(mgl32.Vec2{0, 1})
	e, ok := s.Commit()
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, e.ID)

	got := s.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, mgl32.Vec2{0, 0}, got[0].Center)
	assert.Equal(t, DistanceScale, got[0].Radius)
	assert.InDelta(t, 1.0, got[0].InfluenceRadius(), 1e-6)
}

func TestEmitterSet_RadiusIsEuclidean(t *testing.T) {
	s := NewEmitterSet(CommitAlways)
	s.Begin(mgl32.Vec2{1, 1})
	s.UpdateRadius(mgl32.Vec2{4, 5})
	e, ok := s.Commit()
	require.True(t, ok)
	assert.InDelta(t, 5*DistanceScale, e.Radius, 1)
}

func TestEmitterSet_ZeroRadiusPolicies(t *testing.T) {
	s := NewEmitterSet(CancelZeroRadius)
	s.Begin(mgl32.Vec2{0.5, 0.5})
	_, ok := s.Commit()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	s = NewEmitterSet(CommitAlways)
	s.Begin(mgl32.Vec2{0.5, 0.5})
	e, ok := s.Commit()
	assert.True(t, ok)
	assert.Equal(t, float32(0), e.Radius)
	assert.Equal(t, 1, s.Len())
}

func TestEmitterSet_NoOpsWithoutGesture(t *testing.T) {
	s := NewEmitterSet(CommitAlways)
	s.UpdateRadius(mgl32.Vec2{1, 1})
	_, ok := s.Commit()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	_, open := s.Pending()
	assert.False(t, open)
}

func TestEmitterSet_CapacityDropsSilently(t *testing.T) {
	s := NewEmitterSet(CommitAlways)
	for i := 0; i < MaxEmitters+3; i++ {
		s.Begin(mgl32.Vec2{float32(i), 0})
		s.UpdateRadius(mgl32.Vec2{float32(i), 0.1})
		s.Commit()
	}
	assert.Equal(t, MaxEmitters, s.Len())
	assert.Equal(t, 3, s.Dropped())
	assert.Len(t, s.Snapshot(), MaxEmitters)
}

func TestEmitterSet_AllIsRestartableAndOrdered(t *testing.T) {
	s := NewEmitterSet(CommitAlways)
	for i := 0; i < 3; i++ {
		s.Begin(mgl32.Vec2{float32(i), 0})
		s.Commit()
	}

	var first, second []float32
	for e := range s.All() {
		first = append(first, e.Center.X())
	}
	for e := range s.All() {
		second = append(second, e.Center.X())
	}
	assert.Equal(t, []float32{0, 1, 2}, first)
	assert.Equal(t, first, second)

	n := 0
	for range s.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestEmitterSet_SnapshotIsACopy(t *testing.T) {
	s := NewEmitterSet(CommitAlways)
	s.Begin(mgl32.Vec2{0, 0})
	s.Commit()

	snap := s.Snapshot()
	snap[0].Radius = 42
	assert.Equal(t, float32(0), s.Snapshot()[0].Radius)

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestParseCommitPolicy(t *testing.T) {
	p, ok := ParseCommitPolicy("always")
	assert.True(t, ok)
	assert.Equal(t, CommitAlways, p)
	p, ok = ParseCommitPolicy("cancel-zero")
	assert.True(t, ok)
	assert.Equal(t, CancelZeroRadius, p)
	_, ok = ParseCommitPolicy("never")
	assert.False(t, ok)
}
