package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/vec"
)

func newWalker(health float64) *Entity {
	return &Entity{Kind: KindWalker, Health: health, MaxHealth: health, Melee: &MeleeState{AttackRange: 0.75}}
}

func TestAlterHealth_ClampsAndDiesOnce(t *testing.T) {
	e := newWalker(5)

	assert.True(t, e.AlterHealth(-7))
	assert.Equal(t, 0.0, e.Health)

	assert.False(t, e.AlterHealth(-1), "повторная смерть не сигнализируется")
	assert.False(t, e.AlterHealth(+3), "мёртвая сущность не лечится")
	assert.Equal(t, 0.0, e.Health)
}

func TestAlterHealth_UpperBound(t *testing.T) {
	e := newWalker(10)
	e.Health = 8

	assert.False(t, e.AlterHealth(+5))
	assert.Equal(t, 10.0, e.Health)
}

func TestAlterHealth_Invulnerable(t *testing.T) {
	trap := &Entity{Kind: KindTrap, Health: 100, MaxHealth: 100, Invulnerable: true}

	assert.False(t, trap.AlterHealth(-1000))
	assert.Equal(t, 100.0, trap.Health)
}

func TestHeadingVector(t *testing.T) {
	e := &Entity{}
	v := e.HeadingVector()
	assert.InDelta(t, 0, v.X, 1e-9)
	assert.InDelta(t, 1, v.Y, 1e-9)

	e.Heading = -90
	v = e.HeadingVector()
	assert.InDelta(t, 1, v.X, 1e-9)
	assert.InDelta(t, 0, v.Y, 1e-9)
}

func TestMeleeSegment(t *testing.T) {
	e := newWalker(7)
	e.Position = vec.Vec3{X: 1, Y: 1}
	e.Heading = 180

	from, to := e.MeleeSegment()
	assert.Equal(t, e.Position, from)
	assert.InDelta(t, 1, to.X, 1e-9)
	assert.InDelta(t, 0.25, to.Y, 1e-9)
}

func TestClone_IsDeep(t *testing.T) {
	e := &Entity{Kind: KindPlayer, Player: &PlayerState{Score: 3}}
	c := e.Clone()
	c.Player.Score = 9
	assert.Equal(t, 3, e.Player.Score)
}

func TestArena_AddAndOrder(t *testing.T) {
	a := NewArena()
	p := a.Add(&Entity{Kind: KindPlayer})
	w1 := a.Add(newWalker(7))
	tr := a.Add(&Entity{Kind: KindTrap})
	w2 := a.Add(newWalker(7))

	assert.Equal(t, 4, a.Len())
	assert.Equal(t, p, a.Player().ID)

	var ids []uint64
	for _, e := range a.Enemies() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []uint64{w1, tr, w2}, ids)
	assert.Len(t, a.OfKind(KindWalker), 2)
	assert.Equal(t, 2, a.LiveWalkers())
}

func TestArena_ColliderOwnership(t *testing.T) {
	a := NewArena()
	id := a.Add(newWalker(7))
	other := a.Add(newWalker(7))

	require.NoError(t, a.BindCollider(id, 42))
	assert.Error(t, a.BindCollider(other, 42))

	owner, ok := a.Owner(42)
	require.True(t, ok)
	assert.Equal(t, id, owner.ID)

	h, ok := a.ReleaseCollider(id)
	assert.True(t, ok)
	assert.Equal(t, engine.ColliderHandle(42), h)

	_, ok = a.ReleaseCollider(id)
	assert.False(t, ok, "повторное освобождение ничего не делает")

	_, ok = a.Owner(42)
	assert.False(t, ok)
}

func TestArena_RemoveDuringEach(t *testing.T) {
	a := NewArena()
	for i := 0; i < 3; i++ {
		a.Add(newWalker(7))
	}

	visited := 0
	a.Each(func(e *Entity) {
		visited++
		a.Remove(e.ID)
	})

	assert.Equal(t, 3, visited)
	assert.Equal(t, 0, a.Len())
	assert.False(t, a.Remove(1))
}

func TestArena_LiveWalkersIgnoresDying(t *testing.T) {
	a := NewArena()
	a.Add(newWalker(7))
	id := a.Add(newWalker(7))
	e, _ := a.Get(id)
	e.Status = StatusDying

	assert.Equal(t, 1, a.LiveWalkers())
}
