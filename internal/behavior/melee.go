package behavior

import (
	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/physics"
	"github.com/annel0/arena-core/internal/vec"
)

// windupRangeFactor - доля дальности атаки, с которой начинается замах
const windupRangeFactor = 0.9

// MeleeApproach - автомат ближнего врага: Approach -> Windup -> Strike -> Cooldown.
// Сам удар (проверка отрезка и урон) разрешает combat.Resolver в фазе
// столкновений того же кадра, после чего враг уходит в Cooldown.
type MeleeApproach struct {
	CooldownMin float64
	CooldownMax float64
}

// NewMeleeApproach создаёт поведение с диапазоном случайной паузы после удара
func NewMeleeApproach(cooldownMin, cooldownMax float64) *MeleeApproach {
	return &MeleeApproach{CooldownMin: cooldownMin, CooldownMax: cooldownMax}
}

// OnSpawn запускает вступительный клип
func (b *MeleeApproach) OnSpawn(env *Env, e *entity.Entity) {
	if e.Melee != nil {
		e.Melee.Phase = entity.PhaseApproach
	}
	env.Animator.Play(e.ID, engine.ClipSpawn)
	env.Audio.Play(engine.CueEnemySpawn)
}

// Update продвигает автомат на кадр
func (b *MeleeApproach) Update(env *Env, e *entity.Entity, dt float64) vec.Vec3 {
	m := e.Melee
	if m == nil || env.Player == nil {
		return vec.Zero
	}
	// Пока играет вступление, враг не двигается и не атакует
	if env.Animator.IsPlaying(e.ID, engine.ClipSpawn) {
		return vec.Zero
	}

	switch m.Phase {
	case entity.PhaseApproach:
		toPlayer := env.Player.Position.Sub(e.Position)
		toPlayer.Z = 0
		physics.FaceTowards(e, toPlayer)

		if toPlayer.Length() <= windupRangeFactor*m.AttackRange &&
			!env.Animator.IsPlaying(e.ID, engine.ClipAttack) {
			b.enterWindup(env, e)
			return vec.Zero
		}

		dir, ok := toPlayer.Normalized()
		if !ok {
			return vec.Zero
		}
		return dir

	case entity.PhaseWindup:
		m.WindupTimer -= dt
		if m.WindupTimer <= 0 {
			m.WindupTimer = 0
			m.Phase = entity.PhaseStrike
			m.CooldownTimer = b.drawCooldown(env)
		}

	case entity.PhaseCooldown:
		m.CooldownTimer -= dt
		if m.CooldownTimer <= 0 {
			m.CooldownTimer = 0
			m.Phase = entity.PhaseApproach
		}
	}

	// Strike ждёт разрешения удара и тоже стоит на месте
	return vec.Zero
}

func (b *MeleeApproach) enterWindup(env *Env, e *entity.Entity) {
	e.Melee.Phase = entity.PhaseWindup
	e.Melee.WindupTimer = e.Melee.AttackDelay
	e.Velocity = vec.Zero
	env.Animator.Play(e.ID, engine.ClipAttack)
}

func (b *MeleeApproach) drawCooldown(env *Env) float64 {
	span := b.CooldownMax - b.CooldownMin
	if span <= 0 || env.Rand == nil {
		return b.CooldownMin
	}
	return b.CooldownMin + env.Rand.Float64()*span
}
