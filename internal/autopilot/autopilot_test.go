package autopilot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arena-core/internal/vec"
)

func TestSameSeedSameInput(t *testing.T) {
	a, b := New(42, 8), New(42, 8)
	for i := 0; i < 200; i++ {
		tm := float64(i) / 60
		assert.Equal(t, a.Next(tm, vec.Vec2{}, nil), b.Next(tm, vec.Vec2{}, nil))
	}
}

func TestFiresAtTarget(t *testing.T) {
	a := New(1, 8)
	target := vec.Vec2{X: 2, Y: -3}
	in := a.Next(1.3, vec.Vec2{}, &target)

	assert.True(t, in.Fire)
	require.NotNil(t, in.Ground)
	assert.Equal(t, target, *in.Ground)

	in = a.Next(1.3, vec.Vec2{}, nil)
	assert.False(t, in.Fire)
	require.NotNil(t, in.Ground)
}

func TestLeavesWalls(t *testing.T) {
	a := New(1, 8)
	for i := 0; i < 100; i++ {
		in := a.Next(float64(i)*0.1, vec.Vec2{X: 7.5, Y: -7.5}, nil)
		assert.True(t, in.Left)
		assert.False(t, in.Right)
		assert.True(t, in.Up)
		assert.False(t, in.Down)
	}
}

func TestNearest(t *testing.T) {
	_, ok := Nearest(vec.Vec2{}, nil)
	assert.False(t, ok)

	p, ok := Nearest(vec.Vec2{X: 1}, []vec.Vec2{{X: 5}, {X: 0, Y: 1}, {X: -3}})
	require.True(t, ok)
	assert.Equal(t, vec.Vec2{X: 0, Y: 1}, p)
}
