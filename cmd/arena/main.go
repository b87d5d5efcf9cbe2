package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/arena-core/internal/api"
	"github.com/annel0/arena-core/internal/autopilot"
	"github.com/annel0/arena-core/internal/config"
	"github.com/annel0/arena-core/internal/eventbus"
	"github.com/annel0/arena-core/internal/game"
	"github.com/annel0/arena-core/internal/input"
	"github.com/annel0/arena-core/internal/logging"
	"github.com/annel0/arena-core/internal/metrics"
	"github.com/annel0/arena-core/internal/observability"
	"github.com/annel0/arena-core/internal/snapshot"
	"github.com/annel0/arena-core/internal/vec"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию ENV GAME_CONFIG)")
	pilot := flag.Bool("autopilot", true, "управлять игроком автопилотом")
	flag.Parse()

	if err := logging.InitDefaultLogger("arena"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	if err := run(*configPath, *pilot); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Симуляция остановлена")
}

func run(configPath string, pilot bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("телеметрия: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("остановка телеметрии: %v", err)
		}
	}()

	sim := metrics.New("arena")

	bus, err := newBus(cfg.EventBus)
	if err != nil {
		return err
	}
	defer bus.Close()

	if _, err := eventbus.StartLoggingListener(ctx, bus); err != nil {
		return fmt.Errorf("слушатель событий: %w", err)
	}
	exporter, err := eventbus.NewMetricsExporter(bus, sim.Registry())
	if err != nil {
		return fmt.Errorf("метрики шины: %w", err)
	}
	exporter.Start(5 * time.Second)
	defer exporter.Stop()

	sampler, err := metrics.NewProcessSampler(sim)
	if err != nil {
		logging.Warn("показатели процесса недоступны: %v", err)
	} else {
		go sampler.Run(ctx, 5*time.Second)
	}

	var journal *snapshot.Journal
	if cfg.Snapshot.JournalFrames > 0 {
		journal, err = snapshot.NewJournal(cfg.Snapshot.JournalFrames)
		if err != nil {
			return err
		}
		defer journal.Close()
	}

	session, err := game.NewSession(cfg, game.Deps{Bus: bus, Metrics: sim, Journal: journal})
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Config{
		Addr:    fmt.Sprintf(":%d", cfg.Server.GetAPIPort()),
		Session: session,
		Metrics: sim,
		Sampler: sampler,
	})
	if err != nil {
		return err
	}
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.GetMetricsPort()),
		Handler:           sim.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() { errCh <- server.Start() }()
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logging.Info("🎮 Арена запущена: tick=%dHz, API :%d, метрики :%d",
		cfg.Sim.TickRate, cfg.Server.GetAPIPort(), cfg.Server.GetMetricsPort())

	loopErr := make(chan error, 1)
	go func() { loopErr <- loop(ctx, cfg, session, pilot) }()

	select {
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал завершения")
	case err = <-errCh:
		if err != nil {
			logging.Error("HTTP сервер: %v", err)
		}
		stop()
	}
	<-loopErr

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Warn("остановка REST API: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logging.Warn("остановка метрик: %v", err)
	}
	return err
}

func newBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		return eventbus.NewMemoryBus(cfg.Buffer), nil
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("JetStream %s: %w", cfg.URL, err)
	}
	logging.Info("События публикуются в JetStream %s (stream %s)", cfg.URL, cfg.Stream)
	return bus, nil
}

// loop продвигает сессию с фиксированным шагом и перезапускает её после
// гибели игрока
func loop(ctx context.Context, cfg *config.Config, session *game.Session, pilot bool) error {
	dt := 1.0 / float64(cfg.Sim.TickRate)
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	driver := autopilot.New(cfg.Sim.Seed, cfg.Sim.ArenaHalfSize)
	restartDelay := time.Duration(cfg.Sim.RestartDelay * float64(time.Second))
	var elapsed float64
	var overAt time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if session.Status() == game.StatusGameOver {
				if overAt.IsZero() {
					overAt = now
				}
				if restartDelay > 0 && now.Sub(overAt) >= restartDelay {
					session.Restart()
					overAt = time.Time{}
				}
				continue
			}

			in := input.Snapshot{}
			if pilot {
				player, enemies := session.Targets()
				var target *vec.Vec2
				if p, ok := autopilot.Nearest(player, enemies); ok {
					target = &p
				}
				in = driver.Next(elapsed, player, target)
			}
			session.Tick(ctx, in, dt)
			elapsed += dt
		}
	}
}
