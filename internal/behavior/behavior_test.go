package behavior

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/vec"
)

const dt = 1.0 / 60

func newEnv(player *entity.Entity) (*Env, *engine.TimedAnimator) {
	anim := engine.NewTimedAnimator(nil)
	return &Env{
		Player:   player,
		Animator: anim,
		Audio:    engine.NopAudio{},
		Rand:     rand.New(rand.NewSource(1)),
	}, anim
}

func newWalker(pos vec.Vec3) *entity.Entity {
	return &entity.Entity{
		ID: 2, Kind: entity.KindWalker, Position: pos,
		Health: 3, MaxHealth: 3, MaxSpeed: 7, Acceleration: 100,
		Melee: &entity.MeleeState{AttackRange: 0.75, AttackDamage: -1, AttackDelay: 0.3},
	}
}

func newTrap(axisIsX bool) *entity.Entity {
	return &entity.Entity{
		ID: 3, Kind: entity.KindTrap, Health: 100, MaxHealth: 100, Invulnerable: true,
		Trap: &entity.TrapState{AxisIsX: axisIsX, Proximity: 0.5},
	}
}

func TestMelee_ApproachFacesAndMoves(t *testing.T) {
	player := &entity.Entity{ID: 1, Position: vec.Vec3{X: 4}}
	env, _ := newEnv(player)
	w := newWalker(vec.Zero)
	b := NewMeleeApproach(0.5, 0.7)

	dir := b.Update(env, w, dt)
	assert.InDelta(t, 1, dir.X, 1e-9)
	assert.InDelta(t, -90, w.Heading, 1e-9)
	assert.Equal(t, entity.PhaseApproach, w.Melee.Phase)
}

func TestMelee_SpawnClipSkipsFrame(t *testing.T) {
	player := &entity.Entity{ID: 1, Position: vec.Vec3{X: 0.5}}
	env, anim := newEnv(player)
	w := newWalker(vec.Zero)
	b := NewMeleeApproach(0.5, 0.7)
	b.OnSpawn(env, w)

	assert.Equal(t, vec.Zero, b.Update(env, w, dt))
	assert.Equal(t, entity.PhaseApproach, w.Melee.Phase)
	assert.Equal(t, 0.0, w.Heading, "курс не пересчитывается во время вступления")

	anim.Advance(1.1)
	b.Update(env, w, dt)
	assert.Equal(t, entity.PhaseWindup, w.Melee.Phase)
}

func TestMelee_SingleStrikeAfterDelay(t *testing.T) {
	player := &entity.Entity{ID: 1, Position: vec.Vec3{Y: 0.5}}
	env, anim := newEnv(player)
	w := newWalker(vec.Zero)
	w.Velocity = vec.Vec3{Y: 3}
	b := NewMeleeApproach(0.5, 0.7)

	b.Update(env, w, dt)
	require.Equal(t, entity.PhaseWindup, w.Melee.Phase)
	assert.Equal(t, vec.Zero, w.Velocity, "замах останавливает врага")

	strikes := 0
	strikeAt := 0.0
	elapsed := 0.0
	for elapsed < 0.6 {
		b.Update(env, w, dt)
		anim.Advance(dt)
		elapsed += dt
		if w.Melee.Phase == entity.PhaseStrike {
			strikes++
			strikeAt = elapsed
			// Разрешение удара в фазе столкновений
			w.Melee.Phase = entity.PhaseCooldown
		}
	}

	assert.Equal(t, 1, strikes)
	assert.InDelta(t, 0.3, strikeAt, dt+1e-9)
	assert.GreaterOrEqual(t, w.Melee.CooldownTimer, 0.0)
}

func TestMelee_AttackClipBlocksWindup(t *testing.T) {
	player := &entity.Entity{ID: 1, Position: vec.Vec3{Y: 0.5}}
	env, anim := newEnv(player)
	w := newWalker(vec.Zero)
	b := NewMeleeApproach(0.5, 0.7)

	anim.Play(w.ID, engine.ClipAttack)
	b.Update(env, w, dt)
	assert.Equal(t, entity.PhaseApproach, w.Melee.Phase)
}

func TestMelee_CooldownReturnsToApproach(t *testing.T) {
	player := &entity.Entity{ID: 1, Position: vec.Vec3{Y: 5}}
	env, _ := newEnv(player)
	w := newWalker(vec.Zero)
	w.Melee.Phase = entity.PhaseCooldown
	w.Melee.CooldownTimer = 0.05
	b := NewMeleeApproach(0.5, 0.7)

	b.Update(env, w, 0.1)
	assert.Equal(t, entity.PhaseApproach, w.Melee.Phase)
}

func TestMelee_CooldownDrawnInRange(t *testing.T) {
	env, _ := newEnv(&entity.Entity{})
	b := NewMeleeApproach(0.5, 0.7)
	for i := 0; i < 100; i++ {
		c := b.drawCooldown(env)
		assert.GreaterOrEqual(t, c, 0.5)
		assert.Less(t, c, 0.7)
	}
}

func TestTrap_ArmsOnPerpendicularProximity(t *testing.T) {
	cases := []struct {
		name    string
		axisIsX bool
		player  vec.Vec3
		want    int
	}{
		{"x-axis positive", true, vec.Vec3{X: 3, Y: 0.3}, 1},
		{"x-axis negative", true, vec.Vec3{X: -3, Y: -0.2}, -1},
		{"y-axis negative", false, vec.Vec3{X: 0.4, Y: -6}, -1},
		{"too far", true, vec.Vec3{X: 3, Y: 0.6}, 0},
		{"on boundary", false, vec.Vec3{X: 0.5, Y: 2}, 0},
		{"zero parallel offset", true, vec.Vec3{X: 0, Y: 0.2}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env, _ := newEnv(&entity.Entity{ID: 1, Position: tc.player})
			trap := newTrap(tc.axisIsX)

			SlidingTrap{}.Update(env, trap, dt)
			assert.Equal(t, tc.want, trap.Trap.MoveDirection)
		})
	}
}

func TestTrap_SlidesAlongAxisUntilStopped(t *testing.T) {
	env, _ := newEnv(&entity.Entity{ID: 1, Position: vec.Vec3{X: -4}})
	trap := newTrap(true)

	assert.Equal(t, vec.Vec3{X: -1}, SlidingTrap{}.Update(env, trap, dt))

	// Игрок ушёл с линии, ловушка продолжает скользить
	env.Player.Position = vec.Vec3{Y: 5}
	assert.Equal(t, vec.Vec3{X: -1}, SlidingTrap{}.Update(env, trap, dt))

	trap.Trap.IgnorePlayerContact = true
	assert.True(t, StopTrap(trap))
	assert.Equal(t, 0, trap.Trap.MoveDirection)
	assert.False(t, trap.Trap.IgnorePlayerContact)
	assert.False(t, StopTrap(trap))
	assert.Equal(t, vec.Zero, SlidingTrap{}.Update(env, trap, dt))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(entity.KindTrap, SlidingTrap{})

	assert.IsType(t, SlidingTrap{}, r.For(entity.KindTrap))
	assert.IsType(t, None{}, r.For(entity.KindPlayer))
}

func TestAnimate(t *testing.T) {
	anim := engine.NewTimedAnimator(nil)
	e := newWalker(vec.Zero)

	Animate(anim, e)
	assert.True(t, anim.IsPlaying(e.ID, engine.ClipStand))

	e.Walking = true
	Animate(anim, e)
	assert.True(t, anim.IsPlaying(e.ID, engine.ClipWalk))
	assert.False(t, anim.IsPlaying(e.ID, engine.ClipStand))

	anim.Play(e.ID, engine.ClipAttack)
	e.Walking = false
	Animate(anim, e)
	assert.True(t, anim.IsPlaying(e.ID, engine.ClipWalk), "атака не прерывается")
}
