package entity

// Kind представляет тип сущности
type Kind uint8

const (
	KindPlayer Kind = iota
	KindWalker      // Ближний враг
	KindTrap        // Скользящая ловушка
)

// String возвращает имя типа
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindWalker:
		return "walker"
	case KindTrap:
		return "trap"
	default:
		return "unknown"
	}
}

// Status - стадия жизненного цикла сущности
type Status uint8

const (
	StatusLive Status = iota
	StatusDying
	StatusRemoved
)

// String возвращает имя стадии
func (s Status) String() string {
	switch s {
	case StatusLive:
		return "live"
	case StatusDying:
		return "dying"
	case StatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// MeleePhase - подсостояние атаки ближнего врага
type MeleePhase uint8

const (
	PhaseApproach MeleePhase = iota
	PhaseWindup
	PhaseStrike
	PhaseCooldown
)

// String возвращает имя подсостояния
func (p MeleePhase) String() string {
	switch p {
	case PhaseApproach:
		return "approach"
	case PhaseWindup:
		return "windup"
	case PhaseStrike:
		return "strike"
	case PhaseCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}
