package game

import (
	"github.com/annel0/arena-core/internal/config"
	"github.com/annel0/arena-core/internal/engine"
	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/vec"
)

// newPlayer создаёт игрока в центре арены
func newPlayer(cfg *config.Config) *entity.Entity {
	return &entity.Entity{
		Kind:         entity.KindPlayer,
		Health:       cfg.Player.MaxHealth,
		MaxHealth:    cfg.Player.MaxHealth,
		MaxSpeed:     cfg.Player.MaxSpeed,
		Acceleration: cfg.Player.Acceleration,
		Radius:       cfg.Sim.ColliderRadius,
		Player: &entity.PlayerState{
			DamagePerSecond: cfg.Player.DamagePerSecond,
			AimDir:          vec.Vec3{Y: 1},
		},
	}
}

// newWalker создаёт ближнего врага
func newWalker(cfg *config.Config, pos vec.Vec3) *entity.Entity {
	w := cfg.Walker
	return &entity.Entity{
		Kind:         entity.KindWalker,
		Position:     pos,
		Health:       w.MaxHealth,
		MaxHealth:    w.MaxHealth,
		MaxSpeed:     w.MaxSpeed,
		Acceleration: w.Acceleration,
		ScoreValue:   w.ScoreValue,
		Radius:       cfg.Sim.ColliderRadius,
		Melee: &entity.MeleeState{
			AttackRange:  w.AttackRange,
			AttackDamage: w.AttackDamage,
			AttackDelay:  w.AttackDelay,
		},
	}
}

// newTrap создаёт неуязвимую скользящую ловушку
func newTrap(cfg *config.Config, p config.TrapPlacement) *entity.Entity {
	t := cfg.Trap
	return &entity.Entity{
		Kind:         entity.KindTrap,
		Position:     p.Position(),
		Health:       t.MaxHealth,
		MaxHealth:    t.MaxHealth,
		MaxSpeed:     t.MaxSpeed,
		Acceleration: t.Acceleration,
		Invulnerable: true,
		Radius:       cfg.Sim.ColliderRadius,
		Trap: &entity.TrapState{
			AxisIsX:      p.AxisIsX,
			Proximity:    t.Proximity,
			PlayerDamage: t.PlayerDamage,
			EnemyDamage:  t.EnemyDamage,
		},
	}
}

// colliderGroup возвращает группу коллайдера для типа сущности
func colliderGroup(k entity.Kind) engine.ColliderGroup {
	switch k {
	case entity.KindPlayer:
		return engine.GroupPlayer
	case entity.KindTrap:
		return engine.GroupTrap
	default:
		return engine.GroupWalker
	}
}
