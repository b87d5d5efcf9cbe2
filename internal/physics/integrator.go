// Package physics продвигает сущности на один кадр: ускорение, ограничение
// скорости, трение и интегрирование позиции. Здесь же лежит эталонная
// система столкновений на кругах.
package physics

import (
	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/vec"
)

// Integrate продвигает сущность на один кадр.
// input задаёт множитель ускорения по каждой оси (для игрока -1/0/+1,
// для врагов нормализованное направление); нулевой вход означает торможение.
func Integrate(e *entity.Entity, input vec.Vec3, friction, dt float64) {
	if input.IsZero() {
		e.Walking = false
	} else {
		e.Velocity = e.Velocity.Add(input.Mul(e.Acceleration * dt))
		e.Walking = true
	}

	ClampSpeed(e)

	if !e.Walking {
		ApplyFriction(e, friction, dt)
	}

	e.Position = e.Position.Add(e.Velocity.Mul(dt))
}

// ClampSpeed масштабирует скорость до MaxSpeed, если она превышена.
// Повторный вызов ничего не меняет.
func ClampSpeed(e *entity.Entity) {
	speed := e.Velocity.Length()
	if speed <= e.MaxSpeed || speed == 0 {
		return
	}
	e.Velocity = e.Velocity.Mul(e.MaxSpeed / speed)
}

// ApplyFriction гасит скорость на friction*dt против направления движения.
// Если трение за кадр не меньше скорости, скорость обнуляется без перелёта.
func ApplyFriction(e *entity.Entity, friction, dt float64) {
	magnitude := friction * dt
	speed := e.Velocity.Length()
	if magnitude >= speed {
		e.Velocity = vec.Zero
		return
	}

	dir, ok := e.Velocity.Normalized()
	if !ok {
		return
	}
	e.Velocity = e.Velocity.Sub(dir.Mul(magnitude))
}

// FaceTowards поворачивает сущность вдоль dir.
// Для вектора нулевой длины направление взгляда не меняется и возвращается false.
func FaceTowards(e *entity.Entity, dir vec.Vec3) bool {
	flat := dir.XY()
	if _, ok := flat.Normalized(); !ok {
		return false
	}
	e.Heading = vec.Forward.SignedAngleDeg(flat)
	return true
}
