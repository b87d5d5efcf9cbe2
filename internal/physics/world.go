package physics

import (
	"math"
	"sort"

	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/vec"
)

// Дескрипторы четырёх стен арены. Они не регистрируются как коллайдеры,
// но возвращаются в контактах и попаданиях с группой GroupWall.
const (
	WallLeft engine.ColliderHandle = math.MaxUint32 - iota
	WallRight
	WallBottom
	WallTop
)

// contactSlop - допуск, при котором касающиеся круги считаются контактом
const contactSlop = 1e-6

// minAxisProjection - ниже этой проекции нормали на ось круг не может уйти вдоль оси
const minAxisProjection = 0.1

type circle struct {
	group  engine.ColliderGroup
	pos    vec.Vec3
	radius float64
	axis   vec.Vec3 // Ось скольжения кинематического круга; ноль - неподвижен
}

// kinematic сообщает, что круг не сдвигается свободными кругами при расталкивании.
// Ловушки двигаются только вдоль своей оси.
func (c *circle) kinematic() bool {
	return c.group == engine.GroupTrap
}

// CircleWorld - эталонная система столкновений: круговые коллайдеры в
// горизонтальной плоскости внутри квадратной арены с полустороной half.
type CircleWorld struct {
	half      float64
	colliders map[engine.ColliderHandle]*circle
	order     []engine.ColliderHandle
	next      engine.ColliderHandle
}

// NewCircleWorld создаёт пустой мир
func NewCircleWorld(half float64) *CircleWorld {
	return &CircleWorld{
		half:      half,
		colliders: make(map[engine.ColliderHandle]*circle),
		next:      1,
	}
}

// AddCollider регистрирует круговой коллайдер
func (w *CircleWorld) AddCollider(group engine.ColliderGroup, pos vec.Vec3, radius float64) engine.ColliderHandle {
	h := w.next
	w.next++
	w.colliders[h] = &circle{group: group, pos: pos, radius: radius}
	w.order = append(w.order, h)
	return h
}

// ConstrainAxis задаёт ось, вдоль которой кинематический круг расходится
// с другими кинематическими кругами
func (w *CircleWorld) ConstrainAxis(h engine.ColliderHandle, axis vec.Vec3) {
	c, ok := w.colliders[h]
	if !ok {
		return
	}
	axis.Z = 0
	if n, ok := axis.Normalized(); ok {
		c.axis = n
	}
}

// RemoveCollider освобождает коллайдер. Дескриптор больше не переиспользуется.
func (w *CircleWorld) RemoveCollider(h engine.ColliderHandle) {
	if _, ok := w.colliders[h]; !ok {
		return
	}
	delete(w.colliders, h)
	for i, oh := range w.order {
		if oh == h {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// SetPosition переносит коллайдер
func (w *CircleWorld) SetPosition(h engine.ColliderHandle, pos vec.Vec3) {
	if c, ok := w.colliders[h]; ok {
		c.pos = pos
	}
}

// Position возвращает текущую позицию коллайдера
func (w *CircleWorld) Position(h engine.ColliderHandle) (vec.Vec3, bool) {
	c, ok := w.colliders[h]
	if !ok {
		return vec.Zero, false
	}
	return c.pos, true
}

// Len возвращает число зарегистрированных коллайдеров
func (w *CircleWorld) Len() int {
	return len(w.colliders)
}

// Step расталкивает пересекающиеся круги, удерживает их внутри стен и
// возвращает контакты кадра. Каждая пара попадает в результат один раз.
func (w *CircleWorld) Step() []engine.Contact {
	var contacts []engine.Contact

	for i := 0; i < len(w.order); i++ {
		a := w.colliders[w.order[i]]
		for j := i + 1; j < len(w.order); j++ {
			b := w.colliders[w.order[j]]
			if w.separate(a, b) {
				contacts = append(contacts, engine.Contact{
					A: w.order[i], B: w.order[j],
					GroupA: a.group, GroupB: b.group,
				})
			}
		}
	}

	for _, h := range w.order {
		c := w.colliders[h]
		for _, wall := range w.clampToWalls(c) {
			contacts = append(contacts, engine.Contact{
				A: h, B: wall,
				GroupA: c.group, GroupB: engine.GroupWall,
			})
		}
	}

	return contacts
}

// separate раздвигает два круга и сообщает, касались ли они
func (w *CircleWorld) separate(a, b *circle) bool {
	delta := b.pos.Sub(a.pos)
	delta.Z = 0
	dist := delta.Length()
	minDist := a.radius + b.radius
	if dist >= minDist+contactSlop {
		return false
	}

	overlap := minDist - dist
	if overlap <= 0 {
		return true
	}

	normal, ok := delta.Normalized()
	if !ok {
		// Совпадающие центры: раздвигаем вдоль X
		normal = vec.Vec3{X: 1}
	}

	switch {
	case a.kinematic() && b.kinematic():
		separateAlongAxes(a, b, normal, overlap)
	case a.kinematic():
		b.pos = b.pos.Add(normal.Mul(overlap))
	case b.kinematic():
		a.pos = a.pos.Sub(normal.Mul(overlap))
	default:
		a.pos = a.pos.Sub(normal.Mul(overlap / 2))
		b.pos = b.pos.Add(normal.Mul(overlap / 2))
	}
	return true
}

// separateAlongAxes делит перекрытие двух кинематических кругов, сдвигая каждый
// только вдоль его оси. Круг, чья ось почти перпендикулярна нормали, не двигается,
// и всё перекрытие забирает второй.
func separateAlongAxes(a, b *circle, normal vec.Vec3, overlap float64) {
	da, db := normal.Dot(a.axis), normal.Dot(b.axis)
	movableA := math.Abs(da) >= minAxisProjection
	movableB := math.Abs(db) >= minAxisProjection

	shareA, shareB := overlap/2, overlap/2
	switch {
	case movableA && movableB:
	case movableA:
		shareA = overlap
	case movableB:
		shareB = overlap
	default:
		return
	}

	if movableA {
		a.pos = a.pos.Sub(a.axis.Mul(shareA / da))
	}
	if movableB {
		b.pos = b.pos.Add(b.axis.Mul(shareB / db))
	}
}

// clampToWalls возвращает круг внутрь арены и список стен, которых он коснулся
func (w *CircleWorld) clampToWalls(c *circle) []engine.ColliderHandle {
	var touched []engine.ColliderHandle
	limit := w.half - c.radius

	if c.pos.X <= -limit+contactSlop {
		c.pos.X = math.Max(c.pos.X, -limit)
		touched = append(touched, WallLeft)
	}
	if c.pos.X >= limit-contactSlop {
		c.pos.X = math.Min(c.pos.X, limit)
		touched = append(touched, WallRight)
	}
	if c.pos.Y <= -limit+contactSlop {
		c.pos.Y = math.Max(c.pos.Y, -limit)
		touched = append(touched, WallBottom)
	}
	if c.pos.Y >= limit-contactSlop {
		c.pos.Y = math.Min(c.pos.Y, limit)
		touched = append(touched, WallTop)
	}
	return touched
}

// RayCast возвращает все пересечения луча с кругами и стенами из mask,
// упорядоченные по расстоянию
func (w *CircleWorld) RayCast(origin, dir vec.Vec3, mask engine.GroupMask) []engine.Hit {
	return w.cast(origin, dir, math.Inf(1), mask)
}

// SegmentCast возвращает пересечения отрезка from-to
func (w *CircleWorld) SegmentCast(from, to vec.Vec3, mask engine.GroupMask) []engine.Hit {
	delta := to.Sub(from)
	delta.Z = 0
	return w.cast(from, delta, delta.Length(), mask)
}

func (w *CircleWorld) cast(origin, dir vec.Vec3, maxDist float64, mask engine.GroupMask) []engine.Hit {
	origin.Z = 0
	dir.Z = 0
	d, ok := dir.Normalized()
	if !ok {
		return nil
	}

	var hits []engine.Hit
	for _, h := range w.order {
		c := w.colliders[h]
		if !mask.Has(c.group) {
			continue
		}
		t, ok := rayCircle(origin, d, c.pos, c.radius)
		if !ok || t > maxDist {
			continue
		}
		hits = append(hits, engine.Hit{
			Collider: h,
			Group:    c.group,
			Point:    origin.Add(d.Mul(t)),
			Distance: t,
		})
	}

	if mask.Has(engine.GroupWall) {
		if wall, t, ok := w.rayWall(origin, d); ok && t <= maxDist {
			hits = append(hits, engine.Hit{
				Collider: wall,
				Group:    engine.GroupWall,
				Point:    origin.Add(d.Mul(t)),
				Distance: t,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// rayCircle возвращает расстояние до первого пересечения луча (d единичный)
// с кругом. Для начала внутри круга расстояние равно нулю.
func rayCircle(origin, d, center vec.Vec3, radius float64) (float64, bool) {
	center.Z = 0
	m := origin.Sub(center)
	b := m.Dot(d)
	c := m.Dot(m) - radius*radius
	if c > 0 && b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 {
		t = 0
	}
	return t, true
}

// rayWall находит стену, в которую упирается луч, выпущенный изнутри арены
func (w *CircleWorld) rayWall(origin, d vec.Vec3) (engine.ColliderHandle, float64, bool) {
	best := math.Inf(1)
	wall := engine.NoCollider

	if d.X > 0 {
		if t := (w.half - origin.X) / d.X; t < best {
			best, wall = t, WallRight
		}
	} else if d.X < 0 {
		if t := (-w.half - origin.X) / d.X; t < best {
			best, wall = t, WallLeft
		}
	}
	if d.Y > 0 {
		if t := (w.half - origin.Y) / d.Y; t < best {
			best, wall = t, WallTop
		}
	} else if d.Y < 0 {
		if t := (-w.half - origin.Y) / d.Y; t < best {
			best, wall = t, WallBottom
		}
	}

	if wall == engine.NoCollider || best < 0 {
		return engine.NoCollider, 0, false
	}
	return wall, best, true
}

var _ engine.CollisionWorld = (*CircleWorld)(nil)
