package combat

import (
	"github.com/annel0/arena-core/internal/behavior"
	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/entity"
)

// EventKind - типизированное событие столкновения с ловушкой
type EventKind uint8

const (
	EventNone EventKind = iota
	EventTrapWall
	EventTrapTrap
	EventTrapPlayer
	EventTrapEnemy
)

// String возвращает имя события
func (k EventKind) String() string {
	switch k {
	case EventTrapWall:
		return "trap-wall"
	case EventTrapTrap:
		return "trap-trap"
	case EventTrapPlayer:
		return "trap-player"
	case EventTrapEnemy:
		return "trap-enemy"
	default:
		return "none"
	}
}

// Event - контакт ловушки с чем-либо в текущем кадре.
// Other равен nil для стен.
type Event struct {
	Kind  EventKind
	Trap  *entity.Entity
	Other *entity.Entity
}

// Router раскладывает контакты кадра на события ловушек и применяет их
type Router struct {
	arena    *entity.Arena
	resolver *Resolver
	audio    engine.Audio
}

// NewRouter создаёт маршрутизатор
func NewRouter(arena *entity.Arena, resolver *Resolver, audio engine.Audio) *Router {
	return &Router{arena: arena, resolver: resolver, audio: audio}
}

// dispatch - таблица обработчиков по типу события
var dispatch = [...]func(*Router, Event){
	EventNone:       nil,
	EventTrapWall:   (*Router).stop,
	EventTrapTrap:   (*Router).stop,
	EventTrapPlayer: (*Router).hitPlayer,
	EventTrapEnemy:  (*Router).hitEnemy,
}

// Route классифицирует и применяет все контакты кадра по порядку
func (r *Router) Route(contacts []engine.Contact) {
	for _, c := range contacts {
		for _, ev := range r.Classify(c) {
			r.Dispatch(ev)
		}
	}
}

// Classify превращает контакт в события. Контакт двух ловушек даёт событие
// для каждой из них. Контакты без ловушек и с коллайдерами без владельца
// игнорируются.
func (r *Router) Classify(c engine.Contact) []Event {
	var events []Event
	if ev, ok := r.classifySide(c.A, c.GroupA, c.B, c.GroupB); ok {
		events = append(events, ev)
	}
	if ev, ok := r.classifySide(c.B, c.GroupB, c.A, c.GroupA); ok {
		events = append(events, ev)
	}
	return events
}

func (r *Router) classifySide(self engine.ColliderHandle, selfGroup engine.ColliderGroup,
	other engine.ColliderHandle, otherGroup engine.ColliderGroup) (Event, bool) {
	if selfGroup != engine.GroupTrap {
		return Event{}, false
	}
	trap, ok := r.arena.Owner(self)
	if !ok || trap.Trap == nil {
		return Event{}, false
	}

	if otherGroup == engine.GroupWall {
		return Event{Kind: EventTrapWall, Trap: trap}, true
	}

	target, ok := r.arena.Owner(other)
	if !ok {
		return Event{}, false
	}

	ev := Event{Trap: trap, Other: target}
	switch target.Kind {
	case entity.KindTrap:
		ev.Kind = EventTrapTrap
	case entity.KindPlayer:
		ev.Kind = EventTrapPlayer
	default:
		ev.Kind = EventTrapEnemy
	}
	return ev, true
}

// Dispatch применяет одно событие
func (r *Router) Dispatch(ev Event) {
	if int(ev.Kind) >= len(dispatch) || dispatch[ev.Kind] == nil || ev.Trap == nil {
		return
	}
	dispatch[ev.Kind](r, ev)
}

func (r *Router) stop(ev Event) {
	if behavior.StopTrap(ev.Trap) {
		r.audio.Play(engine.CueTrapImpact)
	}
}

// hitPlayer наносит урон игроку один раз за скольжение
func (r *Router) hitPlayer(ev Event) {
	t := ev.Trap.Trap
	if !t.Sliding() || t.IgnorePlayerContact {
		return
	}
	t.IgnorePlayerContact = true
	if _, ok := r.resolver.Apply(ev.Trap, ev.Other, t.PlayerDamage, CauseTrap); ok {
		r.audio.Play(engine.CueTrapImpact)
	}
}

// hitEnemy наносит урон другому врагу в каждом кадре контакта
func (r *Router) hitEnemy(ev Event) {
	t := ev.Trap.Trap
	if !t.Sliding() {
		return
	}
	r.resolver.Apply(ev.Trap, ev.Other, t.EnemyDamage, CauseTrap)
}
