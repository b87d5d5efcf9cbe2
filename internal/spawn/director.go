// Package spawn решает, когда и где появляются новые ближние враги, и
// постепенно повышает сложность.
package spawn

import (
	"math"
	"math/rand"

	"github.com/annel0/arena-core/internal/config"
	"github.com/annel0/arena-core/internal/logging"
	"github.com/annel0/arena-core/internal/vec"
)

// State - снимок счётчиков директора
type State struct {
	SpawnTimer      float64 `json:"spawn_timer" msgpack:"spawn_timer"`
	SpawnInterval   float64 `json:"spawn_interval" msgpack:"spawn_interval"`
	MaxEnemies      int     `json:"max_enemies" msgpack:"max_enemies"`
	DifficultyTimer float64 `json:"difficulty_timer" msgpack:"difficulty_timer"`
	Level           int     `json:"level" msgpack:"level"`
}

// SpawnFunc создаёт ближнего врага в точке
type SpawnFunc func(pos vec.Vec3)

// Director - директор спавна
type Director struct {
	cfg    config.SpawnConfig
	points []vec.Vec3
	rand   *rand.Rand
	state  State
	log    *logging.Logger
}

// NewDirector создаёт директора со статическим списком точек появления
func NewDirector(cfg config.SpawnConfig, rng *rand.Rand) *Director {
	points := make([]vec.Vec3, 0, len(cfg.Points))
	for _, p := range cfg.Points {
		points = append(points, vec.Vec3{X: p.X, Y: p.Y})
	}

	d := &Director{
		cfg:    cfg,
		points: points,
		rand:   rng,
		log:    logging.GetSpawnLogger(),
	}
	d.Reset()
	return d
}

// Reset возвращает счётчики к начальным значениям
func (d *Director) Reset() {
	d.state = State{
		SpawnTimer:      d.cfg.InitialInterval,
		SpawnInterval:   d.cfg.InitialInterval,
		MaxEnemies:      d.cfg.InitialMaxEnemies,
		DifficultyTimer: d.cfg.DifficultyInterval,
	}
}

// State возвращает текущие счётчики
func (d *Director) State() State {
	return d.state
}

// Restore восстанавливает счётчики из снимка
func (d *Director) Restore(s State) {
	d.state = s
}

// Update продвигает таймеры на dt. live - текущее число живых ближних врагов.
// Возвращает true, если в этом кадре был вызван spawn.
func (d *Director) Update(dt float64, live int, spawn SpawnFunc) bool {
	spawned := false

	d.state.SpawnTimer -= dt
	if d.state.SpawnTimer <= 0 {
		// Таймер сбрасывается даже при пропуске, иначе директор зациклится на попытках
		d.state.SpawnTimer = d.state.SpawnInterval
		spawned = d.trySpawn(live, spawn)
	}

	d.state.DifficultyTimer -= dt
	if d.state.DifficultyTimer <= 0 {
		d.state.DifficultyTimer = d.cfg.DifficultyInterval
		d.escalate()
	}

	return spawned
}

func (d *Director) trySpawn(live int, spawn SpawnFunc) bool {
	if live >= d.state.MaxEnemies || len(d.points) == 0 {
		d.log.Trace("spawn skipped: live=%d max=%d points=%d", live, d.state.MaxEnemies, len(d.points))
		return false
	}
	pos := d.points[d.rand.Intn(len(d.points))]
	spawn(pos)
	return true
}

// escalate поднимает потолок врагов и сокращает интервал, пока не достигнут потолок
func (d *Director) escalate() {
	if d.state.MaxEnemies >= d.cfg.MaximumMaxEnemies {
		return
	}
	d.state.MaxEnemies++
	d.state.SpawnInterval = math.Max(d.cfg.MinimumInterval, d.state.SpawnInterval-d.cfg.IntervalStep)
	d.state.Level++
	d.log.Info("difficulty level %d: max enemies %d, spawn interval %.2fs",
		d.state.Level, d.state.MaxEnemies, d.state.SpawnInterval)
}
