package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arena-core/internal/vec"
)

func TestMove(t *testing.T) {
	assert.Equal(t, vec.Vec3{X: 1, Y: 1}, Snapshot{Up: true, Right: true}.Move())
	assert.Equal(t, vec.Zero, Snapshot{Up: true, Down: true}.Move())
	assert.True(t, Snapshot{Fire: true}.Move().IsZero())
}

func TestProjectToGround(t *testing.T) {
	p, ok := ProjectToGround(Ray{Origin: vec.Vec3{X: 1, Y: 2, Z: 10}, Dir: vec.Vec3{X: 1, Z: -2}})
	require.True(t, ok)
	assert.InDelta(t, 6, p.X, 1e-9)
	assert.InDelta(t, 2, p.Y, 1e-9)

	_, ok = ProjectToGround(Ray{Origin: vec.Vec3{Z: 10}, Dir: vec.Vec3{X: 1}})
	assert.False(t, ok, "параллельный полу луч")

	_, ok = ProjectToGround(Ray{Origin: vec.Vec3{Z: 10}, Dir: vec.Vec3{Z: 1}})
	assert.False(t, ok, "луч от пола")
}

func TestAimPointFallbacks(t *testing.T) {
	last := vec.Vec2{X: 3, Y: 3}

	p, fresh := Snapshot{}.AimPoint(last)
	assert.False(t, fresh)
	assert.Equal(t, last, p)

	ground := vec.Vec2{X: -1, Y: 4}
	p, fresh = Snapshot{Ground: &ground, Pointer: &Ray{Dir: vec.Vec3{X: 1}}}.AimPoint(last)
	assert.True(t, fresh)
	assert.Equal(t, ground, p)
}
