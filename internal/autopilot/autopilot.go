// Package autopilot генерирует ввод игрока для безголового запуска симуляции:
// блуждание по шуму Перлина и стрельба по ближайшему врагу.
package autopilot

import (
	"github.com/aquilax/go-perlin"

	"github.com/annel0/arena-core/internal/input"
	"github.com/annel0/arena-core/internal/vec"
)

const (
	alpha   = 2.0  // Сглаживание шума
	beta    = 2.0  // Частота шума
	octaves = 3    // Количество октав
	speed   = 0.35 // Скорость движения по полю шума
	dead    = 0.08 // Мёртвая зона: слабый шум не нажимает клавиш
)

// Autopilot - детерминированный источник ввода
type Autopilot struct {
	noise *perlin.Perlin
	// Зона у стен, из которой автопилот уходит к центру
	margin float64
	half   float64
}

// New создаёт автопилот для арены с полустороной half
func New(seed int64, half float64) *Autopilot {
	return &Autopilot{
		noise:  perlin.NewPerlin(alpha, beta, octaves, seed),
		margin: 1.5,
		half:   half,
	}
}

// Next возвращает ввод на момент t секунд. target - ближайший враг, nil если
// врагов нет.
func (a *Autopilot) Next(t float64, player vec.Vec2, target *vec.Vec2) input.Snapshot {
	var in input.Snapshot

	// Разнесённые координаты дают независимые оси
	nx := a.noise.Noise2D(t*speed, 0.5)
	ny := a.noise.Noise2D(17.5, t*speed)

	in.Right, in.Left = axis(nx, player.X, a.half-a.margin)
	in.Up, in.Down = axis(ny, player.Y, a.half-a.margin)

	if target != nil {
		aim := *target
		in.Ground = &aim
		in.Fire = true
		return in
	}

	aim := player.Add(vec.Vec2{X: nx, Y: ny + 1})
	in.Ground = &aim
	return in
}

// axis переводит шум в пару клавиш (плюс, минус) и уводит от стены
func axis(n, pos, limit float64) (plus, minus bool) {
	switch {
	case pos > limit:
		return false, true
	case pos < -limit:
		return true, false
	}
	return n > dead, n < -dead
}

// Nearest возвращает ближайшую к from точку
func Nearest(from vec.Vec2, points []vec.Vec2) (vec.Vec2, bool) {
	if len(points) == 0 {
		return vec.Vec2{}, false
	}
	best := points[0]
	bestDist := from.DistanceTo(best)
	for _, p := range points[1:] {
		if d := from.DistanceTo(p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, true
}
