// Package lifecycle ведёт сущности через стадии live -> dying -> removed.
package lifecycle

import (
	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/logging"
	"github.com/annel0/arena-core/internal/vec"
)

// Kill описывает переход сущности в стадию dying
type Kill struct {
	Victim *entity.Entity
	Score  int // Очки, начисленные игроку
}

// Manager следит за умирающими сущностями и удаляет их после анимации смерти
type Manager struct {
	arena *entity.Arena
	world engine.CollisionWorld
	anim  engine.Animator
	audio engine.Audio
	dying []uint64
	log   *logging.Logger
}

// NewManager создаёт менеджер жизненного цикла
func NewManager(arena *entity.Arena, world engine.CollisionWorld, anim engine.Animator, audio engine.Audio) *Manager {
	return &Manager{
		arena: arena,
		world: world,
		anim:  anim,
		audio: audio,
		log:   logging.GetGameLogger(),
	}
}

// Reap переводит в dying все живые сущности с нулевым здоровьем.
// Коллайдер освобождается сразу, очки за врага начисляются один раз.
// Игрок переводится в dying, но никогда не удаляется.
func (m *Manager) Reap() []Kill {
	var kills []Kill

	m.arena.Each(func(e *entity.Entity) {
		if e.Status != entity.StatusLive || e.Health > 0 {
			return
		}
		e.Status = entity.StatusDying
		e.Velocity = vec.Zero
		e.Walking = false
		m.releaseCollider(e)

		m.anim.Stop(e.ID, engine.ClipWalk)
		m.anim.Stop(e.ID, engine.ClipStand)
		m.anim.Play(e.ID, engine.ClipDie)

		kill := Kill{Victim: e}
		if e.Kind == entity.KindPlayer {
			m.log.Info("player %d died", e.ID)
			kills = append(kills, kill)
			return
		}

		m.audio.Play(engine.CueEnemyDie)
		if player := m.arena.Player(); player != nil && player.Player != nil && e.ScoreValue > 0 {
			player.Player.Score += e.ScoreValue
			kill.Score = e.ScoreValue
		}
		m.dying = append(m.dying, e.ID)
		kills = append(kills, kill)
	})

	return kills
}

// Sweep удаляет умирающие сущности, у которых закончилась анимация смерти.
// Возвращает ID удалённых сущностей.
func (m *Manager) Sweep() []uint64 {
	var removed []uint64
	kept := m.dying[:0]

	for _, id := range m.dying {
		e, ok := m.arena.Get(id)
		if !ok {
			continue
		}
		if m.anim.IsPlaying(id, engine.ClipDie) {
			kept = append(kept, id)
			continue
		}
		m.releaseCollider(e)
		m.anim.Release(id)
		m.arena.Remove(id)
		removed = append(removed, id)
	}

	m.dying = kept
	return removed
}

// Dying возвращает число сущностей, ожидающих удаления
func (m *Manager) Dying() int {
	return len(m.dying)
}

// Reset забывает все умирающие сущности
func (m *Manager) Reset() {
	m.dying = m.dying[:0]
}

func (m *Manager) releaseCollider(e *entity.Entity) {
	if h, ok := m.arena.ReleaseCollider(e.ID); ok {
		m.world.RemoveCollider(h)
	}
}
