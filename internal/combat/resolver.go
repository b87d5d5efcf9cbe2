// Package combat переводит результаты проверок попаданий и контакты
// столкновений в изменения здоровья.
package combat

import (
	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/logging"
)

// Cause - источник урона
type Cause uint8

const (
	CauseBeam Cause = iota
	CauseMelee
	CauseTrap
)

// String возвращает имя источника урона
func (c Cause) String() string {
	switch c {
	case CauseBeam:
		return "beam"
	case CauseMelee:
		return "melee"
	case CauseTrap:
		return "trap"
	default:
		return "unknown"
	}
}

// minAimLength - минимальная длина вектора прицеливания
const minAimLength = 0.001

// Damage описывает одно применённое изменение здоровья
type Damage struct {
	Source *entity.Entity
	Target *entity.Entity
	Amount float64
	Cause  Cause
	Died   bool // Здоровье цели впервые опустилось до нуля
}

// Resolver применяет урон от луча игрока, ударов врагов и ловушек
type Resolver struct {
	arena *entity.Arena
	world engine.CollisionWorld
	audio engine.Audio
	log   *logging.Logger

	// OnDamage вызывается после каждого применённого изменения здоровья
	OnDamage func(Damage)
}

// NewResolver создаёт резолвер поверх арены и системы столкновений
func NewResolver(arena *entity.Arena, world engine.CollisionWorld, audio engine.Audio) *Resolver {
	return &Resolver{
		arena: arena,
		world: world,
		audio: audio,
		log:   logging.GetCombatLogger(),
	}
}

// Apply изменяет здоровье цели на amount. Неуязвимые и неживые цели не меняются;
// в этом случае возвращается false.
func (r *Resolver) Apply(source, target *entity.Entity, amount float64, cause Cause) (Damage, bool) {
	if target == nil || !target.IsAlive() || target.Invulnerable {
		return Damage{}, false
	}

	d := Damage{Source: source, Target: target, Amount: amount, Cause: cause}
	d.Died = target.AlterHealth(amount)

	if d.Died {
		r.log.Debug("%s %d killed by %s (source %d)", target.Kind, target.ID, cause, sourceID(source))
	}
	if r.OnDamage != nil {
		r.OnDamage(d)
	}
	return d, true
}

// ResolveRay пускает луч игрока вдоль прицела. Ближайшее попадание задаёт
// длину луча; если игрок стреляет и это попадание принадлежит живой
// сущности, она получает DamagePerSecond*dt.
func (r *Resolver) ResolveRay(player *entity.Entity, dt float64) (Damage, bool) {
	p := player.Player
	if p == nil {
		return Damage{}, false
	}
	p.BeamLength = 0
	if !p.Firing || !player.IsAlive() || p.AimDir.Length() <= minAimLength {
		return Damage{}, false
	}

	hits := r.world.RayCast(p.AimOrigin, p.AimDir, engine.MaskPlayerRay)
	if len(hits) == 0 {
		return Damage{}, false
	}

	nearest := hits[0]
	p.BeamLength = nearest.Distance

	target, ok := r.arena.Owner(nearest.Collider)
	if !ok {
		// Стена или коллайдер без владельца
		return Damage{}, false
	}
	return r.Apply(player, target, p.DamagePerSecond*dt, CauseBeam)
}

// ResolveStrike разрешает удар врага в фазе Strike: проверяет отрезок вдоль
// взгляда и наносит урон первой цели. Фаза переходит в Cooldown в любом случае,
// поэтому каждый замах даёт ровно одно разрешение.
func (r *Resolver) ResolveStrike(attacker *entity.Entity) (Damage, bool) {
	m := attacker.Melee
	if m == nil || m.Phase != entity.PhaseStrike {
		return Damage{}, false
	}
	m.Phase = entity.PhaseCooldown

	if !attacker.IsAlive() {
		return Damage{}, false
	}
	r.audio.Play(engine.CueEnemyAttack)

	from, to := attacker.MeleeSegment()
	for _, hit := range r.world.SegmentCast(from, to, engine.MaskMeleeStrike) {
		target, ok := r.arena.Owner(hit.Collider)
		if !ok || target.ID == attacker.ID {
			continue
		}
		return r.Apply(attacker, target, m.AttackDamage, CauseMelee)
	}
	return Damage{}, false
}

func sourceID(e *entity.Entity) uint64 {
	if e == nil {
		return 0
	}
	return e.ID
}
