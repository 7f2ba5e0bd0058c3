package engine

import (
	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"go.uber.org/zap"
)

const (
	bossVampire = "vampire"
	bossWitch   = "witch"
)

// bossAction is a special move a boss may take on its turn. A nil apply is
// the default move: a plain attack.
type bossAction struct {
	name   string
	weight int
	apply  func(s *models.GameState)
}

// bossMove rolls a special move for a boss type and applies it. It reports
// false when the boss falls back to its plain attack or typ is no boss.
func (e *Engine) bossMove(typ string, s *models.GameState) bool {
	var pool []bossAction
	switch typ {
	case bossVampire:
		pool = e.vampireMoves(s)
	case bossWitch:
		pool = e.witchMoves(s)
	default:
		return false
	}
	move := e.chooseMove(pool)
	e.logger.Debug("boss move", zap.String("boss", typ), zap.String("move", move.name))
	if move.apply == nil {
		return false
	}
	move.apply(s)
	return true
}

// chooseMove draws one move from pool by weight. Whatever weight the pool
// leaves of 100 goes to the default move.
func (e *Engine) chooseMove(pool []bossAction) bossAction {
	used := 0
	for _, m := range pool {
		used += m.weight
	}
	if used < 100 {
		pool = append(pool, bossAction{name: "default", weight: 100 - used})
	}
	roll := e.between(1, 100)
	cum := 0
	for _, m := range pool {
		cum += m.weight
		if roll <= cum {
			return m
		}
	}
	return bossAction{name: "default"}
}

func (e *Engine) vampireMoves(s *models.GameState) []bossAction {
	cfg := e.rules.Settings.Boss.Vampire
	vampires := s.Horde[bossVampire]
	maxHP := e.rules.Monsters[bossVampire].Health
	together := s.World.HordeLocation == s.World.CurrentLocation
	inReach := e.rules.Settings.Topology.InReach(s.World.CurrentLocation, s.World.HordeLocation)

	var pool []bossAction
	if s.Player.Health > cfg.LifeDrain.MinPlayerHealth && vampires[0].CurrentHealth < maxHP && together {
		pool = append(pool, bossAction{name: "life_drain", weight: cfg.LifeDrain.Weight, apply: func(s *models.GameState) {
			before := s.Player.Health
			s.Player.Health = models.Clamp(before - cfg.LifeDrain.Damage)
			drained := before - s.Player.Health
			v := &s.Horde[bossVampire][0]
			v.CurrentHealth = min(maxHP, v.CurrentHealth+drained)
			s.Status.Push(refLifeDrain, map[string]any{"damage": drained})
		}})
	}
	if s.Player.Stamina > cfg.Enfeeble.MinPlayerStamina && !s.World.Flags[flagEnfeebled] && inReach {
		pool = append(pool, bossAction{name: "enfeeble", weight: cfg.Enfeeble.Weight, apply: func(s *models.GameState) {
			setFlag(s, flagEnfeebled, true)
			s.Player.Stamina = models.Clamp(s.Player.Stamina - cfg.Enfeeble.StaminaDrain)
			s.Status.Push(refEnfeeble, nil)
		}})
	}
	return pool
}

// damagedAllies counts the wounded non-boss monsters.
func (e *Engine) damagedAllies(h models.Horde) int {
	n := 0
	for typ, list := range h {
		data := e.rules.Monsters[typ]
		if data.IsBoss() {
			continue
		}
		for _, m := range list {
			if m.CurrentHealth < data.Health {
				n++
			}
		}
	}
	return n
}

func (e *Engine) witchMoves(s *models.GameState) []bossAction {
	cfg := e.rules.Settings.Boss.Witch
	inReach := e.rules.Settings.Topology.InReach(s.World.CurrentLocation, s.World.HordeLocation)

	var pool []bossAction
	if e.damagedAllies(s.Horde) >= cfg.HealHorde.MinDamagedAllies {
		pool = append(pool, bossAction{name: "heal_horde", weight: cfg.HealHorde.Weight, apply: func(s *models.GameState) {
			healed := 0
			for _, typ := range monsterTypes(s.Horde) {
				data := e.rules.Monsters[typ]
				if data.IsBoss() {
					continue
				}
				list := s.Horde[typ]
				for i := range list {
					if list[i].CurrentHealth < data.Health {
						list[i].CurrentHealth = min(data.Health, list[i].CurrentHealth+cfg.HealHorde.Amount)
						healed++
					}
				}
			}
			s.Status.Push(refHealHorde, map[string]any{"count": healed, "amount": cfg.HealHorde.Amount})
		}})
	}
	if inReach {
		pool = append(pool, bossAction{name: "ranged_potion", weight: cfg.RangedPotion.Weight, apply: func(s *models.GameState) {
			s.Player.Health = models.Clamp(s.Player.Health - cfg.RangedPotion.Damage)
			s.Status.Push(refRangedPotion, map[string]any{"damage": cfg.RangedPotion.Damage})
		}})
	}
	return pool
}
