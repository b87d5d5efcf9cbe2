package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/vec"
)

const friction = 150.0

func mover() *entity.Entity {
	return &entity.Entity{MaxSpeed: 10, Acceleration: 300, Health: 5, MaxHealth: 5}
}

func TestIntegrate_AcceleratesAndClamps(t *testing.T) {
	e := mover()
	for i := 0; i < 120; i++ {
		Integrate(e, vec.Vec3{X: 1, Y: 1}, friction, 1.0/60)
		assert.LessOrEqual(t, e.Velocity.Length(), e.MaxSpeed+1e-9)
	}
	assert.True(t, e.Walking)
	assert.InDelta(t, 10, e.Velocity.Length(), 1e-9)
	assert.Greater(t, e.Position.X, 0.0)
}

func TestClampSpeed_Idempotent(t *testing.T) {
	e := mover()
	e.Velocity = vec.Vec3{X: 30, Y: -40}

	ClampSpeed(e)
	once := e.Velocity
	ClampSpeed(e)

	assert.Equal(t, once, e.Velocity)
	assert.InDelta(t, 10, once.Length(), 1e-9)
	assert.InDelta(t, 6, once.X, 1e-9)
	assert.InDelta(t, -8, once.Y, 1e-9)
}

func TestApplyFriction_StopsWithoutOvershoot(t *testing.T) {
	e := mover()
	e.Velocity = vec.Vec3{X: 2}

	// 150 * 1/60 = 2.5 >= 2
	ApplyFriction(e, friction, 1.0/60)
	assert.Equal(t, vec.Zero, e.Velocity)
}

func TestApplyFriction_Reduces(t *testing.T) {
	e := mover()
	e.Velocity = vec.Vec3{Y: -10}

	ApplyFriction(e, friction, 1.0/60)
	assert.InDelta(t, -7.5, e.Velocity.Y, 1e-9)
	assert.InDelta(t, 0, e.Velocity.X, 1e-9)
}

func TestIntegrate_NoInputAppliesFriction(t *testing.T) {
	e := mover()
	e.Walking = true
	e.Velocity = vec.Vec3{X: 1}

	Integrate(e, vec.Zero, friction, 1.0/60)
	assert.False(t, e.Walking)
	assert.Equal(t, vec.Zero, e.Velocity)
	assert.Equal(t, vec.Zero, e.Position)
}

func TestFaceTowards(t *testing.T) {
	e := mover()
	require.True(t, FaceTowards(e, vec.Vec3{X: -1}))
	assert.InDelta(t, 90, e.Heading, 1e-9)

	assert.False(t, FaceTowards(e, vec.Vec3{Z: 3}))
	assert.InDelta(t, 90, e.Heading, 1e-9, "нулевое направление не меняет курс")
}

func TestCircleWorld_PushApartAndContacts(t *testing.T) {
	w := NewCircleWorld(8)
	a := w.AddCollider(engine.GroupPlayer, vec.Vec3{}, 0.3)
	b := w.AddCollider(engine.GroupWalker, vec.Vec3{X: 0.4}, 0.3)

	contacts := w.Step()
	require.Len(t, contacts, 1)
	assert.Equal(t, a, contacts[0].A)
	assert.Equal(t, b, contacts[0].B)

	pa, _ := w.Position(a)
	pb, _ := w.Position(b)
	assert.InDelta(t, 0.6, pa.DistanceTo(pb), 1e-9)
	assert.InDelta(t, -0.1, pa.X, 1e-9)
}

func TestCircleWorld_TrapIsKinematic(t *testing.T) {
	w := NewCircleWorld(8)
	trap := w.AddCollider(engine.GroupTrap, vec.Vec3{}, 0.3)
	walker := w.AddCollider(engine.GroupWalker, vec.Vec3{Y: 0.5}, 0.3)

	w.Step()

	pt, _ := w.Position(trap)
	pw, _ := w.Position(walker)
	assert.Equal(t, vec.Zero, pt)
	assert.InDelta(t, 0.6, pw.Y, 1e-9)
}

func TestCircleWorld_TrapsSeparateAlongAxes(t *testing.T) {
	cases := []struct {
		name         string
		axisA, axisB vec.Vec3
		wantA, wantB vec.Vec3
	}{
		{"shared axis", vec.Vec3{X: 1}, vec.Vec3{X: 1}, vec.Vec3{X: -0.1}, vec.Vec3{X: 0.5}},
		{"crossing axes", vec.Vec3{Y: 1}, vec.Vec3{X: 1}, vec.Vec3{}, vec.Vec3{X: 0.6}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewCircleWorld(8)
			a := w.AddCollider(engine.GroupTrap, vec.Vec3{}, 0.3)
			b := w.AddCollider(engine.GroupTrap, vec.Vec3{X: 0.4}, 0.3)
			w.ConstrainAxis(a, tc.axisA)
			w.ConstrainAxis(b, tc.axisB)

			contacts := w.Step()
			require.Len(t, contacts, 1)
			assert.Equal(t, engine.GroupTrap, contacts[0].GroupA)
			assert.Equal(t, engine.GroupTrap, contacts[0].GroupB)

			pa, _ := w.Position(a)
			pb, _ := w.Position(b)
			assert.InDelta(t, tc.wantA.X, pa.X, 1e-9)
			assert.InDelta(t, tc.wantB.X, pb.X, 1e-9)
			assert.InDelta(t, 0, pa.Y, 1e-9)
			assert.GreaterOrEqual(t, pa.DistanceTo(pb), 0.6-1e-9)
		})
	}
}

func TestCircleWorld_TrapsWithoutAxisStayPut(t *testing.T) {
	w := NewCircleWorld(8)
	a := w.AddCollider(engine.GroupTrap, vec.Vec3{}, 0.3)
	b := w.AddCollider(engine.GroupTrap, vec.Vec3{X: 0.4}, 0.3)
	w.ConstrainAxis(b, vec.Vec3{})

	w.Step()

	pa, _ := w.Position(a)
	pb, _ := w.Position(b)
	assert.Equal(t, vec.Zero, pa)
	assert.Equal(t, vec.Vec3{X: 0.4}, pb)
}

func TestCircleWorld_WallContact(t *testing.T) {
	w := NewCircleWorld(8)
	h := w.AddCollider(engine.GroupTrap, vec.Vec3{X: 7.9}, 0.3)

	contacts := w.Step()
	require.Len(t, contacts, 1)
	assert.Equal(t, WallRight, contacts[0].B)
	assert.Equal(t, engine.GroupWall, contacts[0].GroupB)

	p, _ := w.Position(h)
	assert.InDelta(t, 7.7, p.X, 1e-9)
}

func TestCircleWorld_RayCastOrdersHits(t *testing.T) {
	w := NewCircleWorld(8)
	far := w.AddCollider(engine.GroupWalker, vec.Vec3{X: 5}, 0.3)
	near := w.AddCollider(engine.GroupWalker, vec.Vec3{X: 2}, 0.3)
	w.AddCollider(engine.GroupPlayer, vec.Vec3{X: 1}, 0.3)

	hits := w.RayCast(vec.Zero, vec.Vec3{X: 1}, engine.MaskPlayerRay)
	require.Len(t, hits, 3)
	assert.Equal(t, near, hits[0].Collider)
	assert.InDelta(t, 1.7, hits[0].Distance, 1e-9)
	assert.Equal(t, far, hits[1].Collider)
	assert.Equal(t, WallRight, hits[2].Collider)
	assert.InDelta(t, 8, hits[2].Distance, 1e-9)
}

func TestCircleWorld_SegmentCastRespectsLength(t *testing.T) {
	w := NewCircleWorld(8)
	p := w.AddCollider(engine.GroupPlayer, vec.Vec3{Y: 1}, 0.3)

	assert.Empty(t, w.SegmentCast(vec.Zero, vec.Vec3{Y: 0.5}, engine.MaskMeleeStrike))

	hits := w.SegmentCast(vec.Zero, vec.Vec3{Y: 0.75}, engine.MaskMeleeStrike)
	require.Len(t, hits, 1)
	assert.Equal(t, p, hits[0].Collider)
}

func TestCircleWorld_RemoveIsIdempotent(t *testing.T) {
	w := NewCircleWorld(8)
	h := w.AddCollider(engine.GroupWalker, vec.Vec3{}, 0.3)

	w.RemoveCollider(h)
	w.RemoveCollider(h)
	assert.Equal(t, 0, w.Len())

	_, ok := w.Position(h)
	assert.False(t, ok)
	assert.NotEqual(t, h, w.AddCollider(engine.GroupWalker, vec.Vec3{}, 0.3))
}
