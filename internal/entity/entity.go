package entity

import (
	"math"

	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/vec"
)

// deathEpsilon поглощает ошибку округления при накоплении урона за кадры
const deathEpsilon = 1e-9

// Entity - состояние одного участника симуляции.
// Инварианты: 0 <= Health <= MaxHealth после каждого AlterHealth;
// |Velocity| <= MaxSpeed после интегрирования.
type Entity struct {
	ID           uint64   `msgpack:"id"`
	Kind         Kind     `msgpack:"kind"`
	Position     vec.Vec3 `msgpack:"pos"`
	Velocity     vec.Vec3 `msgpack:"vel"`
	Heading      float64  `msgpack:"heading"` // Градусы, 0 - вдоль +Y
	Health       float64  `msgpack:"health"`
	MaxHealth    float64  `msgpack:"max_health"`
	MaxSpeed     float64  `msgpack:"max_speed"`
	Acceleration float64  `msgpack:"accel"`
	Walking      bool     `msgpack:"walking"` // Пока true, трение не применяется
	Invulnerable bool     `msgpack:"invulnerable"`
	ScoreValue   int      `msgpack:"score_value"`
	Radius       float64  `msgpack:"radius"`
	Status       Status   `msgpack:"status"`

	// Коллайдер принадлежит только этой сущности; после освобождения равен NoCollider
	Collider engine.ColliderHandle `msgpack:"-"`

	Player *PlayerState `msgpack:"player,omitempty"`
	Melee  *MeleeState  `msgpack:"melee,omitempty"`
	Trap   *TrapState   `msgpack:"trap,omitempty"`
}

// PlayerState - расширение игрока
type PlayerState struct {
	Score           int      `msgpack:"score"`
	DamagePerSecond float64  `msgpack:"dps"`
	AimOrigin       vec.Vec3 `msgpack:"aim_origin"`
	AimDir          vec.Vec3 `msgpack:"aim_dir"`
	LastPointer     vec.Vec2 `msgpack:"last_pointer"`
	Firing          bool     `msgpack:"firing"`
	BeamLength      float64  `msgpack:"beam_length"` // Длина луча до первого попадания, 0 - луч скрыт
}

// MeleeState - расширение ближнего врага
type MeleeState struct {
	Phase         MeleePhase `msgpack:"phase"`
	WindupTimer   float64    `msgpack:"windup"`
	CooldownTimer float64    `msgpack:"cooldown"`
	AttackRange   float64    `msgpack:"range"`
	AttackDamage  float64    `msgpack:"damage"`
	AttackDelay   float64    `msgpack:"delay"`
}

// TrapState - расширение ловушки
type TrapState struct {
	MoveDirection       int     `msgpack:"dir"` // -1, 0 или +1
	AxisIsX             bool    `msgpack:"axis_x"`
	IgnorePlayerContact bool    `msgpack:"ignore_player"`
	Proximity           float64 `msgpack:"proximity"`
	PlayerDamage        float64 `msgpack:"player_damage"`
	EnemyDamage         float64 `msgpack:"enemy_damage"`
}

// Sliding сообщает, что ловушка в движении
func (t *TrapState) Sliding() bool { return t.MoveDirection != 0 }

// Axis возвращает единичный вектор оси скольжения
func (t *TrapState) Axis() vec.Vec3 {
	if t.AxisIsX {
		return vec.Vec3{X: 1}
	}
	return vec.Vec3{Y: 1}
}

// IsAlive сообщает, что сущность жива и участвует в симуляции
func (e *Entity) IsAlive() bool {
	return e.Status == StatusLive && e.Health > 0
}

// AlterHealth добавляет delta к здоровью и ограничивает его диапазоном [0, MaxHealth].
// Возвращает true ровно на том вызове, где здоровье впервые опустилось до нуля.
// Неуязвимые и уже мёртвые сущности не меняются.
func (e *Entity) AlterHealth(delta float64) bool {
	if e.Invulnerable || e.Health <= 0 || e.Status != StatusLive {
		return false
	}

	e.Health += delta
	if e.Health > e.MaxHealth {
		e.Health = e.MaxHealth
	}
	if e.Health <= deathEpsilon {
		e.Health = 0
		return true
	}
	return false
}

// HeadingVector возвращает единичный вектор взгляда в горизонтальной плоскости
func (e *Entity) HeadingVector() vec.Vec3 {
	rad := e.Heading * math.Pi / 180
	return vec.Vec3{X: -math.Sin(rad), Y: math.Cos(rad)}
}

// MeleeSegment возвращает отрезок удара: от позиции вдоль взгляда длиной AttackRange
func (e *Entity) MeleeSegment() (from, to vec.Vec3) {
	if e.Melee == nil {
		return e.Position, e.Position
	}
	return e.Position, e.Position.Add(e.HeadingVector().Mul(e.Melee.AttackRange))
}

// Clone возвращает глубокую копию сущности
func (e *Entity) Clone() *Entity {
	c := *e
	if e.Player != nil {
		p := *e.Player
		c.Player = &p
	}
	if e.Melee != nil {
		m := *e.Melee
		c.Melee = &m
	}
	if e.Trap != nil {
		t := *e.Trap
		c.Trap = &t
	}
	return &c
}
