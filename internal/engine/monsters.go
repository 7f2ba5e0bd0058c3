package engine

import (
	"fmt"
	"slices"

	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
	"go.uber.org/zap"
)

// RunMonsterTurn runs the world's side of a turn in a fixed order: scripted
// spawns, noise spawns, noise despawns, traps, then fortification attrition.
func (e *Engine) RunMonsterTurn(s *models.GameState) {
	if s.Horde == nil {
		s.Horde = make(models.Horde)
	}
	e.timedSpawn(s)
	e.noiseSpawn(s)
	e.noiseDespawn(s)
	e.resolveTraps(s)
	e.attackFortifications(s)
}

func (e *Engine) spawnHealth(typ string) (int, bool) {
	data, ok := e.rules.Monsters[typ]
	if !ok {
		e.logger.Warn("spawn of unknown monster type", zap.String("monster", typ))
		return 0, false
	}
	return max(1, data.Health+e.between(-1, 1)), true
}

func (e *Engine) timedSpawn(s *models.GameState) {
	phase, ok := e.rules.Phase(s.World.CurrentPhaseID)
	if !ok {
		e.logger.Error("monster turn in unknown phase", zap.String("phase", s.World.CurrentPhaseID))
		return
	}
	var event *ruleset.PhaseEvent
	for i := range phase.Events {
		if phase.Events[i].Trigger.Value == s.World.ActionsRemaining {
			event = &phase.Events[i]
			break
		}
	}
	if event == nil {
		return
	}

	// lone monsters already here join the horde for good
	for _, list := range s.Horde {
		for i := range list {
			list[i].Persistent = true
		}
	}

	composition := make(map[string]int)
	var bosses []string
	for si, sp := range event.Effect.Spawn {
		typ, count := sp.Monster, sp.Count
		if len(sp.BossPool) > 0 {
			typ, count = sp.BossPool[e.rng.IntN(len(sp.BossPool))], 1
			bosses = append(bosses, typ)
		}
		for i := range count {
			hp, ok := e.spawnHealth(typ)
			if !ok {
				break
			}
			s.Horde[typ] = append(s.Horde[typ], models.MonsterInstance{
				ID:            fmt.Sprintf("%s_%s_%d_%d_%d", typ, phase.ID, event.Trigger.Value, si, i),
				CurrentHealth: hp,
				Persistent:    true,
			})
			composition[typ]++
		}
	}
	if len(composition) == 0 {
		return
	}

	if s.World.HordeLocation == "" {
		s.World.HordeLocation = e.rules.Settings.Topology.SpawnGate(s.World.CurrentLocation)
	}
	s.Status.GameMode = models.ModeCombat
	s.Status.Push(refTimedSpawn+phase.ID, map[string]any{
		"gate":        s.World.HordeLocation,
		"composition": composition,
	})
	for _, boss := range bosses {
		s.Status.Push(refBossSpawn+boss, nil)
	}
	e.logger.Debug("timed spawn",
		zap.String("phase", phase.ID),
		zap.Int("trigger", event.Trigger.Value),
		zap.Any("composition", composition))
}

func (e *Engine) noiseSpawn(s *models.GameState) {
	if s.World.Noise < e.rules.Settings.Noise.SpawnThreshold {
		return
	}
	if s.Status.GracePeriodCooldown > 0 || s.Status.RepeatedSpawnCooldown > 0 {
		return
	}
	phase, ok := e.rules.Phase(s.World.CurrentPhaseID)
	if !ok || len(phase.NoiseSpawnPool) == 0 {
		return
	}

	typ := phase.NoiseSpawnPool[e.rng.IntN(len(phase.NoiseSpawnPool))]
	hp, ok := e.spawnHealth(typ)
	if !ok {
		return
	}
	s.Status.NoiseSpawnCount++
	s.Horde[typ] = append(s.Horde[typ], models.MonsterInstance{
		ID:            fmt.Sprintf("%s_lone_%d", typ, s.Status.NoiseSpawnCount),
		CurrentHealth: hp,
	})
	if s.Status.GameMode != models.ModeCombat {
		s.Status.GameMode = models.ModeCombatLone
	}
	if s.World.HordeLocation == "" {
		s.World.HordeLocation = e.rules.Settings.Topology.SpawnGate(s.World.CurrentLocation)
	}
	s.Status.RepeatedSpawnCooldown = e.rules.Settings.Cooldowns.RepeatedSpawn
	s.Status.Push(refLoneSpawn, map[string]any{"monster": e.rules.MonsterName(typ)})
}

// despawnThreshold is the noise level below which a lone monster of the given
// type loses interest.
func (e *Engine) despawnThreshold(data ruleset.Monster) int {
	if data.Has(ruleset.SpecialLingersLong) {
		return e.rules.Settings.Noise.DespawnLong
	}
	return e.rules.Settings.Noise.DespawnShort
}

func (e *Engine) noiseDespawn(s *models.GameState) {
	if s.Status.GameMode != models.ModeCombatLone {
		return
	}
	engaged := s.Status.PlayerState != models.PlayerHiding &&
		e.rules.Settings.Topology.InReach(s.World.CurrentLocation, s.World.HordeLocation)
	if engaged {
		return
	}

	gone := make(map[string]int)
	for _, typ := range monsterTypes(s.Horde) {
		lone := s.Horde.Lone(typ)
		if lone == 0 {
			continue
		}
		data, ok := e.rules.Monsters[typ]
		if !ok || s.World.Noise >= e.despawnThreshold(data) {
			continue
		}
		kept := s.Horde[typ][:0]
		for _, m := range s.Horde[typ] {
			if m.Persistent {
				kept = append(kept, m)
			}
		}
		s.Horde[typ] = kept
		gone[typ] = lone
	}
	if len(gone) == 0 {
		return
	}
	s.Status.Push(refLoneDespawn, map[string]any{"monsters": gone})
	e.checkGracePeriod(s)
}

// resolveTraps lets the traps armed at the horde's location each kill one
// random non-boss monster.
func (e *Engine) resolveTraps(s *models.GameState) {
	gate := s.World.HordeLocation
	if gate == "" || s.World.Traps[gate] <= 0 {
		return
	}

	caught := make(map[string]int)
	total := 0
	for s.World.Traps[gate] > 0 {
		type victim struct {
			typ string
			idx int
		}
		var eligible []victim
		for _, typ := range monsterTypes(s.Horde) {
			if e.rules.Monsters[typ].IsBoss() {
				continue
			}
			for i := range s.Horde[typ] {
				eligible = append(eligible, victim{typ, i})
			}
		}
		if len(eligible) == 0 {
			break
		}
		v := eligible[e.rng.IntN(len(eligible))]
		list := s.Horde[v.typ]
		s.Horde[v.typ] = slices.Delete(list, v.idx, v.idx+1)
		s.World.Traps[gate]--
		caught[v.typ]++
		total++
	}
	if total == 0 {
		return
	}
	s.Status.Push(refTrap, map[string]any{"gate": gate, "monsters": caught, "count": total})
	e.checkGracePeriod(s)
}

// attackFortifications lets the horde batter the fortification guarding its
// location. A fallen fortification moves the horde one tier inward.
func (e *Engine) attackFortifications(s *models.GameState) {
	loc := s.World.HordeLocation
	if loc == "" || loc == s.World.CurrentLocation || s.Horde.Total() == 0 {
		return
	}
	siege, ok := e.rules.Settings.Topology.Sieges[loc]
	if !ok {
		return
	}
	hp := s.World.Fortifications[siege.Fortification]
	if hp <= 0 {
		e.breach(siege, s)
		return
	}

	damage := 0
	for _, typ := range monsterTypes(s.Horde) {
		n := len(s.Horde[typ])
		data, ok := e.rules.Monsters[typ]
		if n == 0 || !ok || !data.Targets(ruleset.TargetFortification) {
			continue
		}
		damage += data.Behavior.Damage*n + e.between(-n, n)
	}
	if damage <= 0 {
		return
	}

	hp = max(0, hp-damage)
	s.World.Fortifications[siege.Fortification] = hp
	s.Status.Push(refFortAttacked+siege.Fortification, map[string]any{"damage": damage, "strength": hp})
	if hp == 0 {
		e.breach(siege, s)
	}
}

func (e *Engine) breach(siege ruleset.Siege, s *models.GameState) {
	s.World.HordeLocation = siege.BreachTo
	s.Status.Push(refFortBreached+siege.Fortification, nil)
	if s.World.HordeLocation == s.World.CurrentLocation && s.Status.PlayerState == models.PlayerHiding {
		s.Status.PlayerState = models.PlayerNormal
		s.Status.Push(refHidingBroke, nil)
	}
	e.logger.Debug("fortification breached",
		zap.String("fortification", siege.Fortification),
		zap.String("horde_location", siege.BreachTo))
}

// attackPlayer resolves the horde's strike at the player after an action.
// Bosses try a special move first, hidden or not; melee only hits a player
// who is at the horde's location and not hiding.
func (e *Engine) attackPlayer(s *models.GameState) {
	if s.Horde.Total() == 0 || s.World.HordeLocation == "" {
		return
	}
	hiding := s.Status.PlayerState == models.PlayerHiding
	together := s.World.HordeLocation == s.World.CurrentLocation

	damage := 0
	attackers := make(map[string]int)
	for _, typ := range monsterTypes(s.Horde) {
		n := len(s.Horde[typ])
		data, ok := e.rules.Monsters[typ]
		if n == 0 || !ok || !data.Targets(ruleset.TargetPlayer) {
			continue
		}
		if e.bossMove(typ, s) {
			continue
		}
		if !together || hiding {
			continue
		}
		damage += data.Behavior.Damage*n + e.between(-n, n)
		attackers[typ] = n
	}
	if damage <= 0 {
		return
	}
	s.Player.Health = models.Clamp(s.Player.Health - damage)
	s.Status.Push(refPlayerHit, map[string]any{"damage": damage, "monsters": attackers})
}
