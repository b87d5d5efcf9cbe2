// Package game связывает системы ядра в кадр симуляции и отдаёт оболочке
// счёт, здоровье, статус сессии и перезапуск.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/arena-core/internal/behavior"
	"github.com/annel0/arena-core/internal/combat"
	"github.com/annel0/arena-core/internal/config"
	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/eventbus"
	"github.com/annel0/arena-core/internal/input"
	"github.com/annel0/arena-core/internal/lifecycle"
	"github.com/annel0/arena-core/internal/logging"
	"github.com/annel0/arena-core/internal/metrics"
	"github.com/annel0/arena-core/internal/observability"
	"github.com/annel0/arena-core/internal/physics"
	"github.com/annel0/arena-core/internal/snapshot"
	"github.com/annel0/arena-core/internal/spawn"
	"github.com/annel0/arena-core/internal/vec"
)

// Status - статус игровой сессии
type Status int

const (
	StatusActive Status = iota
	StatusGameOver
)

// String возвращает имя статуса
func (s Status) String() string {
	if s == StatusGameOver {
		return "game_over"
	}
	return "active"
}

// minAimLength - минимальная длина вектора до точки прицеливания
const minAimLength = 0.001

// Deps - внешние коллабораторы сессии. Пустые поля заменяются эталонными
// реализациями (CircleWorld, TimedAnimator, NopAudio); шина, метрики и журнал
// необязательны.
type Deps struct {
	World    engine.CollisionWorld
	Animator engine.Animator
	Audio    engine.Audio
	Bus      eventbus.EventBus
	Metrics  *metrics.Sim
	Journal  *snapshot.Journal
	Rand     *rand.Rand
}

// advancer - аниматор, которому нужно сообщать время кадра
type advancer interface {
	Advance(dt float64)
}

// View - состояние сессии для оболочки
type View struct {
	SessionID     string  `json:"session_id"`
	Status        string  `json:"status"`
	Score         int     `json:"score"`
	FinalScore    int     `json:"final_score"`
	Health        float64 `json:"health"`
	MaxHealth     float64 `json:"max_health"`
	Frame         uint64  `json:"frame"`
	Elapsed       float64 `json:"elapsed"`
	LiveEnemies   int     `json:"live_enemies"`
	MaxEnemies    int     `json:"max_enemies"`
	SpawnInterval float64 `json:"spawn_interval"`
	Level         int     `json:"level"`
	Restarts      int     `json:"restarts"`
}

// Session - одна игровая сессия. Кадры обрабатываются строго по одному;
// методы безопасны для вызова из нескольких горутин.
type Session struct {
	mu sync.Mutex

	cfg     *config.Config
	world   engine.CollisionWorld
	anim    engine.Animator
	audio   engine.Audio
	bus     eventbus.EventBus
	metrics *metrics.Sim
	journal *snapshot.Journal
	rng     *rand.Rand

	id         string
	arena      *entity.Arena
	behaviors  *behavior.Registry
	resolver   *combat.Resolver
	router     *combat.Router
	director   *spawn.Director
	lifecycle  *lifecycle.Manager
	status     Status
	finalScore int
	frame      uint64
	elapsed    float64
	restarts   int
	killCause  map[uint64]combat.Cause

	// ctx текущего кадра для публикации событий из обработчиков урона
	frameCtx context.Context

	tracer trace.Tracer
	log    *logging.Logger
}

// NewSession создаёт сессию и строит начальное состояние арены
func NewSession(cfg *config.Config, deps Deps) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("конфигурация сессии: %w", err)
	}

	s := &Session{
		cfg:     cfg,
		world:   deps.World,
		anim:    deps.Animator,
		audio:   deps.Audio,
		bus:     deps.Bus,
		metrics: deps.Metrics,
		journal: deps.Journal,
		rng:     deps.Rand,
		tracer:  observability.Tracer("game"),
		log:     logging.GetGameLogger(),
	}
	if s.world == nil {
		s.world = physics.NewCircleWorld(cfg.Sim.ArenaHalfSize)
	}
	if s.anim == nil {
		s.anim = engine.NewTimedAnimator(nil)
	}
	if s.audio == nil {
		s.audio = engine.NopAudio{}
	}
	if s.rng == nil {
		seed := cfg.Sim.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
	}

	s.behaviors = behavior.NewRegistry()
	s.behaviors.Register(entity.KindWalker, behavior.NewMeleeApproach(cfg.Walker.CooldownMin, cfg.Walker.CooldownMax))
	s.behaviors.Register(entity.KindTrap, behavior.SlidingTrap{})

	s.build()
	s.log.Info("session %s started: %d traps, %d spawn points", s.id, len(cfg.Trap.Placements), len(cfg.Spawn.Points))
	return s, nil
}

// build создаёт арену с нуля: игрок, ловушки, свежие системы
func (s *Session) build() {
	s.id = uuid.NewString()
	s.arena = entity.NewArena()
	s.status = StatusActive
	s.finalScore = 0
	s.frame = 0
	s.elapsed = 0
	s.killCause = make(map[uint64]combat.Cause)

	s.resolver = combat.NewResolver(s.arena, s.world, s.audio)
	s.resolver.OnDamage = s.onDamage
	s.router = combat.NewRouter(s.arena, s.resolver, s.audio)
	s.lifecycle = lifecycle.NewManager(s.arena, s.world, s.anim, s.audio)
	s.director = spawn.NewDirector(s.cfg.Spawn, s.rng)

	s.addEntity(newPlayer(s.cfg))
	for _, p := range s.cfg.Trap.Placements {
		s.addEntity(newTrap(s.cfg, p))
	}
}

// addEntity регистрирует сущность в арене, выдаёт ей коллайдер и вызывает OnSpawn
func (s *Session) addEntity(e *entity.Entity) *entity.Entity {
	s.arena.Add(e)
	h := s.world.AddCollider(colliderGroup(e.Kind), e.Position, e.Radius)
	if err := s.arena.BindCollider(e.ID, h); err != nil {
		// Дескрипторы уникальны во внешней системе, сюда попадать не должны
		s.log.Error("bind collider: %v", err)
	}
	if c, ok := s.world.(engine.AxisConstrainer); ok && e.Trap != nil {
		c.ConstrainAxis(h, e.Trap.Axis())
	}
	s.behaviors.For(e.Kind).OnSpawn(s.env(), e)
	return e
}

func (s *Session) env() *behavior.Env {
	return &behavior.Env{
		Player:   s.arena.Player(),
		Animator: s.anim,
		Audio:    s.audio,
		Rand:     s.rng,
	}
}

// Tick продвигает симуляцию на один кадр длительностью dt секунд.
// Порядок: игрок, враги по порядку создания, столкновения и урон,
// жизненный цикл, спавн. После гибели игрока кадры не обрабатываются.
func (s *Session) Tick(ctx context.Context, in input.Snapshot, dt float64) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusGameOver || dt <= 0 {
		return s.status
	}

	ctx, span := s.tracer.Start(ctx, "Session.Tick")
	defer span.End()
	s.frameCtx = ctx
	start := time.Now()

	s.frame++
	s.elapsed += dt
	if adv, ok := s.anim.(advancer); ok {
		adv.Advance(dt)
	}

	player := s.arena.Player()
	env := s.env()

	// 1. Игрок
	s.updatePlayer(player, in, dt)

	// 2. Враги в стабильном порядке
	for _, e := range s.arena.Enemies() {
		if e.Status != entity.StatusLive {
			continue
		}
		intent := s.behaviors.For(e.Kind).Update(env, e, dt)
		physics.Integrate(e, intent, s.cfg.Sim.Friction, dt)
		s.world.SetPosition(e.Collider, e.Position)
		if e.Kind == entity.KindWalker {
			behavior.Animate(s.anim, e)
		}
	}

	// 3. Столкновения, удары и луч
	contacts := s.world.Step()
	s.readBackPositions()
	s.router.Route(contacts)
	for _, e := range s.arena.OfKind(entity.KindWalker) {
		s.resolver.ResolveStrike(e)
	}
	player.Player.AimOrigin = player.Position
	s.resolver.ResolveRay(player, dt)

	// 4. Жизненный цикл
	for _, kill := range s.lifecycle.Reap() {
		s.onKill(kill)
	}
	s.lifecycle.Sweep()

	// 5. Спавн и сложность
	if s.status == StatusActive {
		s.director.Update(dt, s.arena.LiveWalkers(), s.spawnWalker)
	}

	s.record()
	span.SetAttributes(
		attribute.Int64("arena.frame", int64(s.frame)),
		attribute.Int("arena.entities", s.arena.Len()),
		attribute.String("arena.status", s.status.String()),
	)
	s.metrics.ObserveFrame(time.Since(start))
	s.frameCtx = nil
	return s.status
}

// updatePlayer применяет ввод: прицел, стрельба, движение и анимация
func (s *Session) updatePlayer(p *entity.Entity, in input.Snapshot, dt float64) {
	ps := p.Player

	aim, fresh := in.AimPoint(ps.LastPointer)
	if fresh {
		ps.LastPointer = aim
	}
	toAim := aim.Sub(p.Position.XY())
	if toAim.Length() > minAimLength {
		if dir, ok := toAim.Normalized(); ok {
			ps.AimDir = dir.XYZ(0)
			physics.FaceTowards(p, ps.AimDir)
		}
	}

	if in.Fire && !ps.Firing {
		s.audio.Loop(engine.CueLaser)
	} else if !in.Fire && ps.Firing {
		s.audio.Stop(engine.CueLaser)
	}
	ps.Firing = in.Fire

	physics.Integrate(p, in.Move(), s.cfg.Sim.Friction, dt)
	s.world.SetPosition(p.Collider, p.Position)
	behavior.Animate(s.anim, p)
}

// readBackPositions забирает позиции после расталкивания
func (s *Session) readBackPositions() {
	s.arena.Each(func(e *entity.Entity) {
		if e.Collider == engine.NoCollider {
			return
		}
		if pos, ok := s.world.Position(e.Collider); ok {
			e.Position = pos
		}
	})
}

// spawnWalker создаёт ближнего врага в точке появления
func (s *Session) spawnWalker(pos vec.Vec3) {
	e := s.addEntity(newWalker(s.cfg, pos))
	s.metrics.Spawn()
	st := s.director.State()
	s.publish(eventbus.TypeEnemySpawned, eventbus.EnemySpawned{
		EntityID: e.ID, X: pos.X, Y: pos.Y, Frame: s.frame,
		Live: s.arena.LiveWalkers(), Max: st.MaxEnemies,
	})
}

// onDamage вызывается резолвером после каждого изменения здоровья
func (s *Session) onDamage(d combat.Damage) {
	if d.Died {
		s.killCause[d.Target.ID] = d.Cause
	}
	if d.Target.Kind != entity.KindPlayer || d.Amount >= 0 {
		return
	}

	s.audio.Play(engine.CuePlayerHurt)
	s.metrics.PlayerDamaged(d.Amount)
	var sourceID uint64
	if d.Source != nil {
		sourceID = d.Source.ID
	}
	s.publish(eventbus.TypePlayerDamaged, eventbus.PlayerDamaged{
		Amount: d.Amount, Health: d.Target.Health, Cause: d.Cause.String(),
		SourceID: sourceID, Frame: s.frame,
	})
}

// onKill обрабатывает переход сущности в dying
func (s *Session) onKill(kill lifecycle.Kill) {
	cause := "unknown"
	if c, ok := s.killCause[kill.Victim.ID]; ok {
		cause = c.String()
		delete(s.killCause, kill.Victim.ID)
	}

	if kill.Victim.Kind == entity.KindPlayer {
		s.gameOver()
		return
	}

	s.metrics.Kill(cause)
	s.publish(eventbus.TypeEnemyKilled, eventbus.EnemyKilled{
		EntityID: kill.Victim.ID, Kind: kill.Victim.Kind.String(), Cause: cause,
		Score: kill.Score, TotalScore: s.scoreLocked(), Frame: s.frame,
	})
}

func (s *Session) gameOver() {
	s.status = StatusGameOver
	s.finalScore = s.scoreLocked()
	s.audio.Stop(engine.CueLaser)
	s.audio.Play(engine.CueGameOver)
	s.metrics.GameOver()
	s.log.Info("session %s game over: score %d after %.1fs", s.id, s.finalScore, s.elapsed)
	s.publish(eventbus.TypeGameOver, eventbus.GameOver{
		FinalScore: s.finalScore, Frame: s.frame, Elapsed: s.elapsed,
	})
}

// record обновляет метрики и журнал кадров
func (s *Session) record() {
	st := s.director.State()
	s.metrics.SetDirector(s.arena.LiveWalkers(), st.MaxEnemies, st.SpawnInterval)
	if p := s.arena.Player(); p != nil {
		s.metrics.SetPlayer(p.Player.Score, p.Health)
	}

	if s.journal == nil {
		return
	}
	if err := s.journal.Append(s.snapshotLocked()); err != nil {
		s.log.Warn("journal frame %d: %v", s.frame, err)
	}
}

func (s *Session) publish(eventType string, payload any) {
	if s.bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(eventType, s.id, payload)
	if err != nil {
		s.log.Warn("event %s: %v", eventType, err)
		return
	}
	ctx := s.frameCtx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn("publish %s: %v", eventType, err)
	}
}

// Restart разрушает всё состояние сессии и строит его заново
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.id
	s.arena.Each(func(e *entity.Entity) {
		if h, ok := s.arena.ReleaseCollider(e.ID); ok {
			s.world.RemoveCollider(h)
		}
		s.anim.Release(e.ID)
		s.arena.Remove(e.ID)
	})
	s.lifecycle.Reset()
	s.audio.Stop(engine.CueLaser)
	if s.journal != nil {
		if err := s.journal.Reset(); err != nil {
			s.log.Warn("journal reset: %v", err)
		}
	}

	s.build()
	s.restarts++
	s.metrics.Restart()
	s.log.Info("session %s restarted as %s", previous, s.id)
	s.publish(eventbus.TypeSessionRestarted, eventbus.SessionRestarted{
		PreviousSessionID: previous, Restarts: s.restarts,
	})
}

// Status возвращает статус сессии
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Score возвращает текущий счёт игрока
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreLocked()
}

func (s *Session) scoreLocked() int {
	if p := s.arena.Player(); p != nil {
		return p.Player.Score
	}
	return 0
}

// FinalScore возвращает счёт на момент гибели игрока
func (s *Session) FinalScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalScore
}

// Health возвращает текущее и максимальное здоровье игрока
func (s *Session) Health() (health, maxHealth float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.arena.Player(); p != nil {
		return p.Health, p.MaxHealth
	}
	return 0, 0
}

// ID возвращает идентификатор текущей сессии
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// View возвращает сводку состояния для оболочки
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.director.State()
	v := View{
		SessionID:     s.id,
		Status:        s.status.String(),
		Score:         s.scoreLocked(),
		FinalScore:    s.finalScore,
		Frame:         s.frame,
		Elapsed:       s.elapsed,
		LiveEnemies:   s.arena.LiveWalkers(),
		MaxEnemies:    st.MaxEnemies,
		SpawnInterval: st.SpawnInterval,
		Level:         st.Level,
		Restarts:      s.restarts,
	}
	if p := s.arena.Player(); p != nil {
		v.Health, v.MaxHealth = p.Health, p.MaxHealth
	}
	return v
}

// Snapshot возвращает снимок текущего кадра
func (s *Session) Snapshot() *snapshot.Arena {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() *snapshot.Arena {
	return &snapshot.Arena{
		Frame:    s.frame,
		Elapsed:  s.elapsed,
		Status:   s.status.String(),
		Director: s.director.State(),
		Entities: s.arena.Snapshot(),
	}
}

// FrameSnapshot возвращает кадр из журнала
func (s *Session) FrameSnapshot(frame uint64) (*snapshot.Arena, error) {
	if s.journal == nil {
		return nil, snapshot.ErrNotFound
	}
	return s.journal.Get(frame)
}

// LatestFrame возвращает последний кадр журнала. Без журнала или пока он
// пуст отдаётся текущее состояние сессии.
func (s *Session) LatestFrame() (*snapshot.Arena, error) {
	if s.journal == nil {
		return s.Snapshot(), nil
	}
	a, err := s.journal.Latest()
	if errors.Is(err, snapshot.ErrNotFound) {
		return s.Snapshot(), nil
	}
	return a, err
}

// Targets возвращает позицию игрока и позиции живых ближних врагов
func (s *Session) Targets() (player vec.Vec2, enemies []vec.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p := s.arena.Player(); p != nil {
		player = p.Position.XY()
	}
	for _, e := range s.arena.OfKind(entity.KindWalker) {
		if e.IsAlive() {
			enemies = append(enemies, e.Position.XY())
		}
	}
	return player, enemies
}
