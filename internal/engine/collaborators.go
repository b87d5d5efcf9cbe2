// Package engine описывает внешних коллабораторов ядра симуляции: систему
// столкновений, анимацию и звук. Ядро только отдаёт им команды и читает
// простые результаты запросов.
package engine

import "github.com/annel0/arena-core/internal/vec"

// ColliderHandle - непрозрачная ссылка на коллайдер во внешней системе столкновений.
// Нулевое значение означает "нет коллайдера".
type ColliderHandle uint32

// NoCollider - пустой дескриптор
const NoCollider ColliderHandle = 0

// ColliderGroup - группа коллайдера (аналог битовых масок столкновений)
type ColliderGroup uint8

const (
	GroupPlayer ColliderGroup = 1 << iota
	GroupWalker
	GroupTrap
	GroupWall
)

// GroupMask - набор групп, с которыми пересекается запрос
type GroupMask uint8

// Has сообщает, входит ли группа в маску
func (m GroupMask) Has(g ColliderGroup) bool {
	return m&GroupMask(g) != 0
}

// Маски запросов
const (
	// Луч игрока бьёт врагов, ловушки и стены, но не самого игрока
	MaskPlayerRay = GroupMask(GroupWalker | GroupTrap | GroupWall)
	// Удар ближнего врага попадает только в игрока
	MaskMeleeStrike = GroupMask(GroupPlayer)
)

// Hit - одно пересечение луча или отрезка
type Hit struct {
	Collider ColliderHandle
	Group    ColliderGroup
	Point    vec.Vec3
	Distance float64
}

// Contact - пара коллайдеров, соприкасающихся в текущем кадре
type Contact struct {
	A, B           ColliderHandle
	GroupA, GroupB ColliderGroup
}

// CollisionWorld - внешняя система столкновений
type CollisionWorld interface {
	// AddCollider регистрирует круговой коллайдер и возвращает его дескриптор
	AddCollider(group ColliderGroup, pos vec.Vec3, radius float64) ColliderHandle
	// RemoveCollider освобождает коллайдер; повторный вызов - no-op
	RemoveCollider(h ColliderHandle)
	// SetPosition переносит коллайдер в новую позицию сущности
	SetPosition(h ColliderHandle, pos vec.Vec3)
	// Position возвращает позицию коллайдера после расталкивания
	Position(h ColliderHandle) (vec.Vec3, bool)
	// Step выполняет расталкивание и возвращает контакты кадра (один раз на пару)
	Step() []Contact
	// RayCast возвращает пересечения луча, упорядоченные по расстоянию
	RayCast(origin, dir vec.Vec3, mask GroupMask) []Hit
	// SegmentCast возвращает пересечения отрезка, упорядоченные по расстоянию
	SegmentCast(from, to vec.Vec3, mask GroupMask) []Hit
}

// AxisConstrainer - необязательная возможность системы столкновений: ограничить
// расталкивание кинематического коллайдера его осью скольжения
type AxisConstrainer interface {
	ConstrainAxis(h ColliderHandle, axis vec.Vec3)
}

// Animator - проигрывание клипов на сущностях
type Animator interface {
	Play(entityID uint64, clip string)
	Loop(entityID uint64, clip string)
	Stop(entityID uint64, clip string)
	IsPlaying(entityID uint64, clip string) bool
	// Release забывает все клипы сущности при её удалении
	Release(entityID uint64)
}

// Audio - проигрывание звуковых сигналов
type Audio interface {
	Play(cue string)
	Loop(cue string)
	Stop(cue string)
}

// Имена клипов
const (
	ClipStand  = "stand"
	ClipWalk   = "walk"
	ClipAttack = "attack"
	ClipDie    = "die"
	ClipSpawn  = "spawn"
)

// Имена звуковых сигналов
const (
	CueLaser       = "laser"
	CueEnemyAttack = "enemyAttack"
	CuePlayerHurt  = "playerHurt"
	CueEnemyDie    = "enemyDie"
	CueEnemySpawn  = "enemySpawn"
	CueTrapSlide   = "trapSlide"
	CueTrapImpact  = "trapImpact"
	CueGameOver    = "gameOver"
)
