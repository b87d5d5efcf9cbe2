// Package metrics собирает Prometheus-метрики симуляции в собственном реестре.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sim - метрики симуляции. Все методы безопасны для nil-получателя,
// поэтому сессия может работать без метрик.
type Sim struct {
	registry *prometheus.Registry

	frameDuration prometheus.Histogram
	frames        prometheus.Counter
	liveEnemies   prometheus.Gauge
	maxEnemies    prometheus.Gauge
	spawnInterval prometheus.Gauge
	score         prometheus.Gauge
	playerHealth  prometheus.Gauge
	kills         *prometheus.CounterVec
	spawns        prometheus.Counter
	playerDamage  prometheus.Counter
	gameOvers     prometheus.Counter
	restarts      prometheus.Counter
	processCPU    prometheus.Gauge
	processRSS    prometheus.Gauge
}

// New создаёт метрики в новом реестре с указанным namespace
func New(namespace string) *Sim {
	s := &Sim{
		registry: prometheus.NewRegistry(),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Время обработки одного кадра симуляции.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Число обработанных кадров.",
		}),
		liveEnemies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_enemies",
			Help:      "Живые ближние враги.",
		}),
		maxEnemies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_enemies",
			Help:      "Текущий потолок числа врагов.",
		}),
		spawnInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spawn_interval_seconds",
			Help:      "Текущий интервал появления врагов.",
		}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_score",
			Help:      "Очки игрока.",
		}),
		playerHealth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_health",
			Help:      "Здоровье игрока.",
		}),
		kills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enemies_killed_total",
			Help:      "Убитые враги по источнику урона.",
		}, []string{"cause"}),
		spawns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enemies_spawned_total",
			Help:      "Созданные директором враги.",
		}),
		playerDamage: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "player_damage_total",
			Help:      "Суммарный урон, полученный игроком.",
		}),
		gameOvers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_overs_total",
			Help:      "Завершённые гибелью игрока сессии.",
		}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_restarts_total",
			Help:      "Перезапуски сессии.",
		}),
		processCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_cpu_percent",
			Help:      "Загрузка CPU процессом (gopsutil).",
		}),
		processRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_rss_bytes",
			Help:      "Резидентная память процесса (gopsutil).",
		}),
	}

	s.registry.MustRegister(
		s.frameDuration, s.frames, s.liveEnemies, s.maxEnemies, s.spawnInterval,
		s.score, s.playerHealth, s.kills, s.spawns, s.playerDamage,
		s.gameOvers, s.restarts, s.processCPU, s.processRSS,
		collectors.NewGoCollector(),
	)
	return s
}

// Registry возвращает реестр для регистрации внешних метрик (HTTP, шина)
func (s *Sim) Registry() *prometheus.Registry {
	return s.registry
}

// Handler возвращает HTTP-обработчик /metrics для реестра
func (s *Sim) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}

// ObserveFrame учитывает обработанный кадр
func (s *Sim) ObserveFrame(d time.Duration) {
	if s == nil {
		return
	}
	s.frames.Inc()
	s.frameDuration.Observe(d.Seconds())
}

// SetDirector обновляет показатели директора спавна
func (s *Sim) SetDirector(live, max int, interval float64) {
	if s == nil {
		return
	}
	s.liveEnemies.Set(float64(live))
	s.maxEnemies.Set(float64(max))
	s.spawnInterval.Set(interval)
}

// SetPlayer обновляет очки и здоровье игрока
func (s *Sim) SetPlayer(score int, health float64) {
	if s == nil {
		return
	}
	s.score.Set(float64(score))
	s.playerHealth.Set(health)
}

// Kill учитывает убийство врага
func (s *Sim) Kill(cause string) {
	if s == nil {
		return
	}
	s.kills.WithLabelValues(cause).Inc()
}

// Spawn учитывает появление врага
func (s *Sim) Spawn() {
	if s == nil {
		return
	}
	s.spawns.Inc()
}

// PlayerDamaged учитывает урон игроку (amount отрицательный)
func (s *Sim) PlayerDamaged(amount float64) {
	if s == nil || amount >= 0 {
		return
	}
	s.playerDamage.Add(-amount)
}

// GameOver учитывает гибель игрока
func (s *Sim) GameOver() {
	if s == nil {
		return
	}
	s.gameOvers.Inc()
}

// Restart учитывает перезапуск сессии
func (s *Sim) Restart() {
	if s == nil {
		return
	}
	s.restarts.Inc()
}

// SetProcess обновляет показатели процесса
func (s *Sim) SetProcess(cpuPercent float64, rssBytes uint64) {
	if s == nil {
		return
	}
	s.processCPU.Set(cpuPercent)
	s.processRSS.Set(float64(rssBytes))
}
