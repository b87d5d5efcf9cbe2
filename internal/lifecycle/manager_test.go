package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/physics"
	"github.com/annel0/arena-core/internal/vec"
)

type fixture struct {
	arena *entity.Arena
	world *physics.CircleWorld
	anim  *engine.TimedAnimator
	m     *Manager
	p     *entity.Entity
}

func newFixture() *fixture {
	f := &fixture{
		arena: entity.NewArena(),
		world: physics.NewCircleWorld(8),
		anim:  engine.NewTimedAnimator(nil),
	}
	f.m = NewManager(f.arena, f.world, f.anim, engine.NopAudio{})
	f.p = f.add(&entity.Entity{Kind: entity.KindPlayer, Health: 5, MaxHealth: 5, Player: &entity.PlayerState{}}, engine.GroupPlayer)
	return f
}

func (f *fixture) add(e *entity.Entity, g engine.ColliderGroup) *entity.Entity {
	e.Collider = f.world.AddCollider(g, e.Position, 0.3)
	f.arena.Add(e)
	return e
}

func (f *fixture) walker() *entity.Entity {
	return f.add(&entity.Entity{Kind: entity.KindWalker, Health: 3, MaxHealth: 3, ScoreValue: 1,
		Position: vec.Vec3{X: 2}}, engine.GroupWalker)
}

func TestReap_ScoreOnceAndColliderReleased(t *testing.T) {
	f := newFixture()
	w := f.walker()

	// Несколько попаданий в одном кадре
	assert.False(t, w.AlterHealth(-2))
	assert.True(t, w.AlterHealth(-2))
	assert.False(t, w.AlterHealth(-2))

	kills := f.m.Reap()
	require.Len(t, kills, 1)
	assert.Equal(t, 1, kills[0].Score)
	assert.Equal(t, 1, f.p.Player.Score)
	assert.Equal(t, entity.StatusDying, w.Status)
	assert.Equal(t, engine.NoCollider, w.Collider)
	assert.Equal(t, 1, f.world.Len())
	assert.True(t, f.anim.IsPlaying(w.ID, engine.ClipDie))

	assert.Empty(t, f.m.Reap())
	assert.Equal(t, 1, f.p.Player.Score)
}

func TestSweep_WaitsForDeathClip(t *testing.T) {
	f := newFixture()
	w := f.walker()
	w.AlterHealth(-3)
	f.m.Reap()

	assert.Empty(t, f.m.Sweep())
	assert.Equal(t, 1, f.m.Dying())

	f.anim.Advance(2)
	removed := f.m.Sweep()
	assert.Equal(t, []uint64{w.ID}, removed)
	assert.Equal(t, 0, f.m.Dying())

	_, ok := f.arena.Get(w.ID)
	assert.False(t, ok)
	assert.Empty(t, f.m.Sweep())
}

func TestReap_PlayerNeverRemoved(t *testing.T) {
	f := newFixture()
	f.p.AlterHealth(-10)

	kills := f.m.Reap()
	require.Len(t, kills, 1)
	assert.Equal(t, entity.KindPlayer, kills[0].Victim.Kind)
	assert.Equal(t, 0, f.m.Dying())

	f.anim.Advance(5)
	f.m.Sweep()
	assert.NotNil(t, f.arena.Player())
}

func TestReap_TrapsNeverDie(t *testing.T) {
	f := newFixture()
	trap := f.add(&entity.Entity{Kind: entity.KindTrap, Health: 100, MaxHealth: 100, Invulnerable: true,
		Trap: &entity.TrapState{}}, engine.GroupTrap)

	trap.AlterHealth(-1000)
	assert.Empty(t, f.m.Reap())
	assert.Equal(t, entity.StatusLive, trap.Status)
}
