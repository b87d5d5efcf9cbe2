package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/annel0/arena-core/internal/vec"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации симуляции арены.
// Все числовые значения, не заданные в файле, берутся из Default().
type Config struct {
	Sim       SimConfig       `yaml:"sim"`
	Player    PlayerConfig    `yaml:"player"`
	Walker    WalkerConfig    `yaml:"walker"`
	Trap      TrapConfig      `yaml:"trap"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SimConfig общие параметры симуляции
type SimConfig struct {
	Friction       float64 `yaml:"friction"`
	TickRate       int     `yaml:"tick_rate"`
	Seed           int64   `yaml:"seed"`
	ArenaHalfSize  float64 `yaml:"arena_half_size"`
	ColliderRadius float64 `yaml:"collider_radius"`
	// Пауза перед автоматическим рестартом в cmd/arena; 0 - не перезапускать
	RestartDelay float64 `yaml:"restart_delay_seconds"`
}

// PlayerConfig параметры игрока
type PlayerConfig struct {
	MaxHealth       float64 `yaml:"max_health"`
	MaxSpeed        float64 `yaml:"max_speed"`
	Acceleration    float64 `yaml:"acceleration"`
	DamagePerSecond float64 `yaml:"damage_per_second"`
}

// WalkerConfig параметры ближнего врага
type WalkerConfig struct {
	MaxHealth    float64 `yaml:"max_health"`
	MaxSpeed     float64 `yaml:"max_speed"`
	Acceleration float64 `yaml:"acceleration"`
	AttackRange  float64 `yaml:"attack_range"`
	AttackDamage float64 `yaml:"attack_damage"`
	AttackDelay  float64 `yaml:"attack_delay"`
	CooldownMin  float64 `yaml:"cooldown_min"`
	CooldownMax  float64 `yaml:"cooldown_max"`
	ScoreValue   int     `yaml:"score_value"`
}

// TrapPlacement - статическая ловушка: позиция и ось скольжения
type TrapPlacement struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	AxisIsX bool    `yaml:"axis_is_x"`
}

// Position возвращает позицию ловушки
func (p TrapPlacement) Position() vec.Vec3 {
	return vec.Vec3{X: p.X, Y: p.Y}
}

// TrapConfig параметры скользящих ловушек
type TrapConfig struct {
	MaxHealth    float64         `yaml:"max_health"`
	MaxSpeed     float64         `yaml:"max_speed"`
	Acceleration float64         `yaml:"acceleration"`
	Proximity    float64         `yaml:"proximity"`
	PlayerDamage float64         `yaml:"player_damage"`
	EnemyDamage  float64         `yaml:"enemy_damage"`
	Placements   []TrapPlacement `yaml:"placements"`
}

// SpawnPoint точка появления врагов
type SpawnPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// SpawnConfig параметры директора спавна и роста сложности
type SpawnConfig struct {
	InitialInterval    float64      `yaml:"initial_interval"`
	MinimumInterval    float64      `yaml:"minimum_interval"`
	IntervalStep       float64      `yaml:"interval_step"`
	InitialMaxEnemies  int          `yaml:"initial_max_enemies"`
	MaximumMaxEnemies  int          `yaml:"maximum_max_enemies"`
	DifficultyInterval float64      `yaml:"difficulty_interval"`
	PointsPerWall      int          `yaml:"points_per_wall"`
	Points             []SpawnPoint `yaml:"points"`
}

// SnapshotConfig журнал кадров в памяти
type SnapshotConfig struct {
	JournalFrames int `yaml:"journal_frames"`
}

// EventBusConfig шина игровых событий. Пустой URL - шина в памяти.
type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Buffer    int    `yaml:"buffer"`
}

// ServerConfig порты HTTP-поверхности оболочки
type ServerConfig struct {
	APIPort     int `yaml:"api_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// TelemetryConfig OpenTelemetry
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// GetAPIPort возвращает порт REST API с поддержкой fallback значений
func (s *ServerConfig) GetAPIPort() int {
	return getPortWithEnvFallback(s.APIPort, "ARENA_API_PORT", 8088)
}

// GetMetricsPort возвращает порт Prometheus метрик с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "ARENA_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	cfg := &Config{
		Sim: SimConfig{
			Friction:       150.0,
			TickRate:       60,
			ArenaHalfSize:  8.0,
			ColliderRadius: 0.3,
			RestartDelay:   3.0,
		},
		Player: PlayerConfig{
			MaxHealth:       5,
			MaxSpeed:        10,
			Acceleration:    300,
			DamagePerSecond: -5.0,
		},
		Walker: WalkerConfig{
			MaxHealth:    3.0,
			MaxSpeed:     7.0,
			Acceleration: 100.0,
			AttackRange:  0.75,
			AttackDamage: -1,
			AttackDelay:  0.3,
			CooldownMin:  0.5,
			CooldownMax:  0.7,
			ScoreValue:   1,
		},
		Trap: TrapConfig{
			MaxHealth:    100.0,
			MaxSpeed:     10.0,
			Acceleration: 300.0,
			Proximity:    0.5,
			PlayerDamage: -1,
			EnemyDamage:  -10,
			Placements: []TrapPlacement{
				{X: -2, Y: 7, AxisIsX: true},
				{X: 2, Y: -7, AxisIsX: true},
				{X: -7, Y: -2, AxisIsX: false},
				{X: 7, Y: 2, AxisIsX: false},
			},
		},
		Spawn: SpawnConfig{
			InitialInterval:    1.0,
			MinimumInterval:    0.2,
			IntervalStep:       0.1,
			InitialMaxEnemies:  2,
			MaximumMaxEnemies:  20,
			DifficultyInterval: 5.0,
			PointsPerWall:      5,
		},
		EventBus: EventBusConfig{
			Stream:    "ARENA",
			Retention: 24,
			Buffer:    256,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "arena-core",
		},
	}
	cfg.Spawn.Points = WallSpawnPoints(cfg.Sim.ArenaHalfSize-1, cfg.Spawn.PointsPerWall)
	return cfg
}

// WallSpawnPoints равномерно расставляет по n точек вдоль каждой из четырёх стен
// квадрата с полустороной half.
func WallSpawnPoints(half float64, n int) []SpawnPoint {
	if n <= 0 || half <= 0 {
		return nil
	}

	points := make([]SpawnPoint, 0, n*4)
	step := 2 * half / float64(n)
	for i := 0; i < n; i++ {
		coord := -half + step*(float64(i)+0.5)
		points = append(points,
			SpawnPoint{X: -half, Y: coord},
			SpawnPoint{X: half, Y: coord},
			SpawnPoint{X: coord, Y: -half},
			SpawnPoint{X: coord, Y: half},
		)
	}
	return points
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV GAME_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if len(cfg.Spawn.Points) == 0 {
		cfg.Spawn.Points = WallSpawnPoints(cfg.Sim.ArenaHalfSize-1, cfg.Spawn.PointsPerWall)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	var errs []error

	if c.Sim.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("sim.tick_rate должен быть > 0, получено %d", c.Sim.TickRate))
	}
	if c.Sim.ArenaHalfSize <= 0 {
		errs = append(errs, fmt.Errorf("sim.arena_half_size должен быть > 0"))
	}
	if c.Walker.CooldownMin > c.Walker.CooldownMax {
		errs = append(errs, fmt.Errorf("walker.cooldown_min (%.2f) больше cooldown_max (%.2f)",
			c.Walker.CooldownMin, c.Walker.CooldownMax))
	}
	if c.Spawn.MinimumInterval > c.Spawn.InitialInterval {
		errs = append(errs, fmt.Errorf("spawn.minimum_interval (%.2f) больше initial_interval (%.2f)",
			c.Spawn.MinimumInterval, c.Spawn.InitialInterval))
	}
	if c.Spawn.InitialMaxEnemies > c.Spawn.MaximumMaxEnemies {
		errs = append(errs, fmt.Errorf("spawn.initial_max_enemies больше maximum_max_enemies"))
	}

	return errors.Join(errs...)
}
