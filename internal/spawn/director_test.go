package spawn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/annel0/arena-core/internal/config"
	"github.com/annel0/arena-core/internal/vec"
)

func newDirector() *Director {
	return NewDirector(config.Default().Spawn, rand.New(rand.NewSource(7)))
}

func TestDirector_SpawnsAfterInterval(t *testing.T) {
	d := newDirector()
	var spawned []vec.Vec3
	spawn := func(p vec.Vec3) { spawned = append(spawned, p) }

	assert.False(t, d.Update(0.5, 0, spawn))
	assert.True(t, d.Update(0.5, 0, spawn))
	assert.Len(t, spawned, 1)
	assert.InDelta(t, 1.0, d.State().SpawnTimer, 1e-9)

	valid := make(map[vec.Vec3]bool)
	for _, p := range config.Default().Spawn.Points {
		valid[vec.Vec3{X: p.X, Y: p.Y}] = true
	}
	assert.True(t, valid[spawned[0]], "точка из статического списка")
}

func TestDirector_CapSkipsButResetsTimer(t *testing.T) {
	d := newDirector()
	calls := 0
	spawn := func(vec.Vec3) { calls++ }

	assert.False(t, d.Update(1.0, d.State().MaxEnemies, spawn))
	assert.Equal(t, 0, calls)
	assert.InDelta(t, 1.0, d.State().SpawnTimer, 1e-9)
}

func TestDirector_NeverExceedsCap(t *testing.T) {
	d := newDirector()
	live := 0
	spawn := func(vec.Vec3) { live++ }

	for i := 0; i < 60*120; i++ {
		before := live
		d.Update(1.0/60, live, spawn)
		assert.LessOrEqual(t, live, d.State().MaxEnemies)
		if before == d.State().MaxEnemies {
			assert.Equal(t, before, live)
		}
	}
}

func TestDirector_CeilingAndFloor(t *testing.T) {
	d := newDirector()
	cfg := config.Default().Spawn

	for i := 0; i < 100; i++ {
		d.Update(cfg.DifficultyInterval, 1000, func(vec.Vec3) {})
		s := d.State()
		assert.LessOrEqual(t, s.MaxEnemies, cfg.MaximumMaxEnemies)
		assert.GreaterOrEqual(t, s.SpawnInterval, cfg.MinimumInterval)
	}

	s := d.State()
	assert.Equal(t, cfg.MaximumMaxEnemies, s.MaxEnemies)
	assert.InDelta(t, cfg.MinimumInterval, s.SpawnInterval, 1e-9)
	assert.Equal(t, cfg.MaximumMaxEnemies-cfg.InitialMaxEnemies, s.Level)
}

func TestDirector_NoPointsIsSilent(t *testing.T) {
	cfg := config.Default().Spawn
	cfg.Points = nil
	d := NewDirector(cfg, rand.New(rand.NewSource(1)))

	assert.False(t, d.Update(2, 0, func(vec.Vec3) { t.Fatal("spawn без точек") }))
}

func TestDirector_ResetAndRestore(t *testing.T) {
	d := newDirector()
	d.Update(5, 0, func(vec.Vec3) {})
	snap := d.State()
	assert.Equal(t, 3, snap.MaxEnemies)

	d.Reset()
	assert.Equal(t, 2, d.State().MaxEnemies)

	d.Restore(snap)
	assert.Equal(t, snap, d.State())
}
