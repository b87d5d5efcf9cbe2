package behavior

import (
	"math"

	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/vec"
)

// SlidingTrap - автомат ловушки: Armed (MoveDirection == 0) -> Sliding.
// Остановку (Stopped) вызывает маршрутизатор столкновений через StopTrap.
type SlidingTrap struct{}

// OnSpawn ставит ловушку во взведённое состояние
func (SlidingTrap) OnSpawn(_ *Env, e *entity.Entity) {
	if e.Trap == nil {
		return
	}
	e.Trap.MoveDirection = 0
	e.Trap.IgnorePlayerContact = false
}

// Update взводит ловушку, когда игрок оказывается на её линии, и ведёт её вдоль оси
func (SlidingTrap) Update(env *Env, e *entity.Entity, _ float64) vec.Vec3 {
	t := e.Trap
	if t == nil {
		return vec.Zero
	}

	if t.MoveDirection == 0 {
		if env.Player == nil {
			return vec.Zero
		}
		parallel, perpendicular := trapOffsets(t, env.Player.Position.Sub(e.Position))
		if math.Abs(perpendicular) >= t.Proximity {
			return vec.Zero
		}
		// Нулевое смещение вдоль оси даёт +1
		t.MoveDirection = int(math.Copysign(1, parallel))
		env.Audio.Play(engine.CueTrapSlide)
	}

	return t.Axis().Mul(float64(t.MoveDirection))
}

// trapOffsets раскладывает смещение до цели на составляющие вдоль оси ловушки и поперёк неё
func trapOffsets(t *entity.TrapState, offset vec.Vec3) (parallel, perpendicular float64) {
	if t.AxisIsX {
		return offset.X, offset.Y
	}
	return offset.Y, offset.X
}

// StopTrap останавливает скользящую ловушку и сбрасывает защёлку контакта с игроком.
// Возвращает false, если ловушка уже стояла.
func StopTrap(e *entity.Entity) bool {
	if e.Trap == nil || e.Trap.MoveDirection == 0 {
		return false
	}
	e.Trap.MoveDirection = 0
	e.Trap.IgnorePlayerContact = false
	return true
}
