// Package behavior содержит конечные автоматы врагов. Каждый кадр поведение
// читает уже обновлённую позицию игрока и возвращает намерение движения.
package behavior

import (
	"math/rand"

	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/vec"
)

// Env - окружение поведения на один кадр
type Env struct {
	Player   *entity.Entity
	Animator engine.Animator
	Audio    engine.Audio
	Rand     *rand.Rand
}

// Behavior - поведение сущности определённого типа
type Behavior interface {
	// OnSpawn вызывается один раз при создании сущности
	OnSpawn(env *Env, e *entity.Entity)
	// Update возвращает множители ускорения на текущий кадр
	Update(env *Env, e *entity.Entity, dt float64) vec.Vec3
}

// None - поведение без собственной логики (игрок управляется вводом)
type None struct{}

func (None) OnSpawn(*Env, *entity.Entity) {}

func (None) Update(*Env, *entity.Entity, float64) vec.Vec3 { return vec.Zero }

// Registry выбирает поведение по типу сущности
type Registry struct {
	behaviors map[entity.Kind]Behavior
}

// NewRegistry создаёт пустой реестр
func NewRegistry() *Registry {
	return &Registry{behaviors: make(map[entity.Kind]Behavior)}
}

// Register регистрирует поведение для типа сущности
func (r *Registry) Register(kind entity.Kind, b Behavior) {
	r.behaviors[kind] = b
}

// For возвращает поведение типа или None
func (r *Registry) For(kind entity.Kind) Behavior {
	if b, ok := r.behaviors[kind]; ok {
		return b
	}
	return None{}
}

// Animate выбирает фоновый клип: ходьба или стойка.
// Пока играет одиночный клип (появление, атака, смерть), ничего не меняет.
func Animate(anim engine.Animator, e *entity.Entity) {
	if e.Status != entity.StatusLive {
		return
	}
	for _, busy := range []string{engine.ClipSpawn, engine.ClipAttack, engine.ClipDie} {
		if anim.IsPlaying(e.ID, busy) {
			return
		}
	}

	want, other := engine.ClipStand, engine.ClipWalk
	if e.Walking {
		want, other = engine.ClipWalk, engine.ClipStand
	}
	if anim.IsPlaying(e.ID, want) {
		return
	}
	anim.Stop(e.ID, other)
	anim.Loop(e.ID, want)
}
