package entity

import (
	"fmt"

	"github.com/annel0/arena-core/internal/engine"
)

// Arena хранит все сущности сессии в порядке создания.
// Не потокобезопасна: синхронизацию обеспечивает владелец (игровая сессия).
type Arena struct {
	entities map[uint64]*Entity               // Хранилище всех сущностей
	order    []uint64                         // Стабильный порядок обхода
	owners   map[engine.ColliderHandle]uint64 // Коллайдер -> владелец
	nextID   uint64                           // Счетчик для генерации ID
	playerID uint64
}

// NewArena создаёт пустую арену
func NewArena() *Arena {
	return &Arena{
		entities: make(map[uint64]*Entity),
		owners:   make(map[engine.ColliderHandle]uint64),
		nextID:   1,
	}
}

// Add регистрирует сущность, назначает ей ID и возвращает его.
// Если у сущности уже есть коллайдер, он привязывается к ней.
func (a *Arena) Add(e *Entity) uint64 {
	e.ID = a.nextID
	a.nextID++

	a.entities[e.ID] = e
	a.order = append(a.order, e.ID)
	if e.Collider != engine.NoCollider {
		a.owners[e.Collider] = e.ID
	}
	if e.Kind == KindPlayer {
		a.playerID = e.ID
	}
	return e.ID
}

// BindCollider привязывает коллайдер к сущности
func (a *Arena) BindCollider(id uint64, h engine.ColliderHandle) error {
	e, ok := a.entities[id]
	if !ok {
		return fmt.Errorf("сущность %d не найдена", id)
	}
	if prev, taken := a.owners[h]; taken && prev != id {
		return fmt.Errorf("коллайдер %d уже принадлежит сущности %d", h, prev)
	}
	if e.Collider != engine.NoCollider {
		delete(a.owners, e.Collider)
	}
	e.Collider = h
	a.owners[h] = id
	return nil
}

// ReleaseCollider отвязывает коллайдер и возвращает его для удаления из мира.
// Повторный вызов возвращает false.
func (a *Arena) ReleaseCollider(id uint64) (engine.ColliderHandle, bool) {
	e, ok := a.entities[id]
	if !ok || e.Collider == engine.NoCollider {
		return engine.NoCollider, false
	}
	h := e.Collider
	delete(a.owners, h)
	e.Collider = engine.NoCollider
	return h, true
}

// Get возвращает сущность по ID
func (a *Arena) Get(id uint64) (*Entity, bool) {
	e, ok := a.entities[id]
	return e, ok
}

// Owner возвращает владельца коллайдера
func (a *Arena) Owner(h engine.ColliderHandle) (*Entity, bool) {
	id, ok := a.owners[h]
	if !ok {
		return nil, false
	}
	return a.Get(id)
}

// Player возвращает игрока или nil
func (a *Arena) Player() *Entity {
	if a.playerID == 0 {
		return nil
	}
	return a.entities[a.playerID]
}

// Remove удаляет сущность из арены. Коллайдер должен быть освобождён заранее.
func (a *Arena) Remove(id uint64) bool {
	e, ok := a.entities[id]
	if !ok {
		return false
	}
	if e.Collider != engine.NoCollider {
		delete(a.owners, e.Collider)
		e.Collider = engine.NoCollider
	}
	e.Status = StatusRemoved

	delete(a.entities, id)
	for i, oid := range a.order {
		if oid == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	if id == a.playerID {
		a.playerID = 0
	}
	return true
}

// Each обходит сущности в порядке создания.
// Обход идёт по копии порядка, поэтому fn может удалять сущности.
func (a *Arena) Each(fn func(e *Entity)) {
	ids := make([]uint64, len(a.order))
	copy(ids, a.order)
	for _, id := range ids {
		if e, ok := a.entities[id]; ok {
			fn(e)
		}
	}
}

// Enemies возвращает всех врагов (ближних и ловушки) в порядке создания
func (a *Arena) Enemies() []*Entity {
	out := make([]*Entity, 0, len(a.order))
	for _, id := range a.order {
		e := a.entities[id]
		if e.Kind != KindPlayer {
			out = append(out, e)
		}
	}
	return out
}

// OfKind возвращает сущности заданного типа в порядке создания
func (a *Arena) OfKind(k Kind) []*Entity {
	var out []*Entity
	for _, id := range a.order {
		if e := a.entities[id]; e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// LiveWalkers возвращает число живых ближних врагов
func (a *Arena) LiveWalkers() int {
	n := 0
	for _, e := range a.entities {
		if e.Kind == KindWalker && e.Status == StatusLive {
			n++
		}
	}
	return n
}

// Len возвращает число сущностей
func (a *Arena) Len() int {
	return len(a.entities)
}

// Snapshot возвращает копии всех сущностей в порядке создания
func (a *Arena) Snapshot() []*Entity {
	out := make([]*Entity, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.entities[id].Clone())
	}
	return out
}
