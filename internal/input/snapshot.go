// Package input описывает неизменяемый снимок ввода одного кадра.
package input

import (
	"math"

	"github.com/annel0/arena-core/internal/vec"
)

// Ray - луч указателя в мировых координатах
type Ray struct {
	Origin vec.Vec3 `json:"origin"`
	Dir    vec.Vec3 `json:"dir"`
}

// Snapshot - состояние ввода на один кадр. Создаётся оболочкой один раз
// перед тиком и не меняется во время кадра.
type Snapshot struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Fire  bool `json:"fire"`

	// Pointer - луч из камеры через курсор; nil, если указатель недоступен
	Pointer *Ray `json:"pointer,omitempty"`
	// Ground - запасная 2D точка прицеливания на полу
	Ground *vec.Vec2 `json:"ground,omitempty"`
}

// Move возвращает множители ускорения по осям: -1, 0 или +1 для каждой.
// Противоположные клавиши гасят друг друга.
func (s Snapshot) Move() vec.Vec3 {
	var v vec.Vec3
	if s.Up {
		v.Y += 1
	}
	if s.Down {
		v.Y -= 1
	}
	if s.Left {
		v.X -= 1
	}
	if s.Right {
		v.X += 1
	}
	return v
}

// AimPoint возвращает точку прицеливания на полу (z = 0).
// Порядок: пересечение луча указателя с полом, затем Ground, затем last.
// Второе значение сообщает, удалось ли получить свежую точку.
func (s Snapshot) AimPoint(last vec.Vec2) (vec.Vec2, bool) {
	if s.Pointer != nil {
		if p, ok := ProjectToGround(*s.Pointer); ok {
			return p, true
		}
	}
	if s.Ground != nil {
		return *s.Ground, true
	}
	return last, false
}

// ProjectToGround пересекает луч с плоскостью z = 0.
// Луч, параллельный полу или направленный от него, пересечения не даёт.
func ProjectToGround(r Ray) (vec.Vec2, bool) {
	if math.Abs(r.Dir.Z) < 1e-9 {
		return vec.Vec2{}, false
	}
	t := -r.Origin.Z / r.Dir.Z
	if t < 0 {
		return vec.Vec2{}, false
	}
	p := r.Origin.Add(r.Dir.Mul(t))
	return p.XY(), true
}
