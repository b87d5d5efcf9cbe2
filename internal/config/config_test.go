package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutPath(t *testing.T) {
	t.Setenv("GAME_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 150.0, cfg.Sim.Friction)
	assert.Equal(t, 20, cfg.Spawn.MaximumMaxEnemies)
	assert.Len(t, cfg.Spawn.Points, 20, "По 5 точек на каждую из 4 стен")
	assert.Len(t, cfg.Trap.Placements, 4)
}

func TestLoad_OverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	data := []byte(`
sim:
  tick_rate: 30
walker:
  attack_delay: 0.5
spawn:
  points:
    - {x: 1, y: 2}
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Sim.TickRate)
	assert.Equal(t, 0.5, cfg.Walker.AttackDelay)
	assert.Equal(t, 0.75, cfg.Walker.AttackRange, "Незаданные поля остаются по умолчанию")
	assert.Equal(t, []SpawnPoint{{X: 1, Y: 2}}, cfg.Spawn.Points)
}

func TestLoad_EnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  seed: 42\n"), 0644))
	t.Setenv("GAME_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Sim.Seed)
}

func TestValidate_RejectsInconsistentValues(t *testing.T) {
	cfg := Default()
	cfg.Walker.CooldownMin = 2
	cfg.Spawn.MinimumInterval = 5
	cfg.Sim.TickRate = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cooldown_min")
	assert.Contains(t, err.Error(), "minimum_interval")
	assert.Contains(t, err.Error(), "tick_rate")
}

func TestServerConfig_PortFallback(t *testing.T) {
	t.Setenv("ARENA_API_PORT", "9999")

	s := ServerConfig{}
	assert.Equal(t, 9999, s.GetAPIPort())
	assert.Equal(t, 2112, s.GetMetricsPort())

	s.APIPort = 7000
	assert.Equal(t, 7000, s.GetAPIPort())
}

func TestWallSpawnPoints(t *testing.T) {
	points := WallSpawnPoints(7, 2)
	require.Len(t, points, 8)
	for _, p := range points {
		onWall := p.X == 7 || p.X == -7 || p.Y == 7 || p.Y == -7
		assert.True(t, onWall, "Точка %+v должна лежать на стене", p)
	}
	assert.Nil(t, WallSpawnPoints(7, 0))
}
