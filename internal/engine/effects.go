package engine

import (
	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
	"go.uber.org/zap"
)

// ApplyEffects applies an action's effect steps to s in declaration order,
// then pushes the action's result message unless a step already reported
// its own outcome.
func (e *Engine) ApplyEffects(fx ruleset.Effects, s *models.GameState) {
	params := make(map[string]any)
	reported := false

	for _, step := range fx.Steps {
		switch step := step.(type) {
		case ruleset.SetLocation:
			s.World.CurrentLocation = step.Location
		case ruleset.ChangeStat:
			e.changeStat(step, s, params)
		case ruleset.AddItems:
			for _, iq := range step.Items {
				s.Player.AddItem(iq.Item, iq.Quantity)
			}
		case ruleset.AddRandomItems:
			e.addRandomItems(step, s, params)
		case ruleset.RemoveItem:
			if s.Player.Count(step.Item) > 0 {
				s.Player.AddItem(step.Item, -1)
			}
		case ruleset.SetPlayerState:
			s.Status.PlayerState = step.State
		case ruleset.SetToFalse:
			setFlag(s, step.Flag, false)
		case ruleset.AddScavengedFlag:
			s.World.Scavenge(step.Location)
		case ruleset.AddTrap:
			e.addTrap(step.Gate, s)
		case ruleset.Wait:
			e.wait(step, s)
			reported = true
		case ruleset.Craft:
			e.Craft(step.Item, fx.ResultRef, s)
			reported = true
		case ruleset.Attack:
			e.Attack(step.Type, fx, s)
			// the curse lasts for one attack
			setFlag(s, flagEnfeebled, false)
			reported = true
		default:
			e.logger.Warn("unknown effect, skipping", zap.String("effect", ruleset.EffectKind(step)))
		}
	}

	if fx.ResultRef != "" && !reported {
		s.Status.Push(fx.ResultRef, params)
	}
}

func (e *Engine) changeStat(step ruleset.ChangeStat, s *models.GameState, params map[string]any) {
	for _, d := range step.Deltas {
		switch d.Stat {
		case "health":
			before := s.Player.Health
			s.Player.Health = models.Clamp(before + d.Delta)
			params["health"] = s.Player.Health - before
		case "stamina":
			before := s.Player.Stamina
			s.Player.Stamina = models.Clamp(before + d.Delta)
			params["stamina"] = s.Player.Stamina - before
		case "noise":
			s.World.Noise = max(0, s.World.Noise+d.Delta)
			params["noise"] = d.Delta
		default:
			hp, ok := s.World.Fortifications[d.Stat]
			if !ok {
				e.logger.Warn("changeStat on unknown stat", zap.String("stat", d.Stat))
				continue
			}
			hp = max(0, hp+d.Delta)
			s.World.Fortifications[d.Stat] = hp
			params["strength"] = hp
		}
	}
}

func (e *Engine) addRandomItems(step ruleset.AddRandomItems, s *models.GameState, params map[string]any) {
	tracked := 0
	for _, ri := range step.Items {
		n := e.between(ri.Min, ri.Max)
		if n <= 0 {
			continue
		}
		s.Player.AddItem(ri.Item, n)
		if ri.Item == e.rules.Settings.TrackedRandomItem {
			tracked = n
		}
	}
	params["quantity"] = tracked
}

func (e *Engine) addTrap(gate string, s *models.GameState) {
	if s.World.Traps == nil {
		s.World.Traps = make(map[string]int)
	}
	s.World.Traps[gate]++
	for item, n := range e.rules.Settings.Trap.Materials {
		s.Player.AddItem(item, -n)
	}
}

func (e *Engine) wait(step ruleset.Wait, s *models.GameState) {
	if s.Status.PlayerState == models.PlayerHiding && s.Status.GameMode == models.ModeCombatLone {
		s.World.Noise = max(0, s.World.Noise-step.HidingNoiseReduction)
		s.Status.Push(refWaitHiding, nil)
		return
	}
	before := s.Player.Stamina
	s.Player.Stamina = models.Clamp(before + step.StaminaGain)
	s.World.Noise = max(0, s.World.Noise-step.NoiseReduction)
	s.Status.Push(refWaitNormal, map[string]any{"stamina": s.Player.Stamina - before})
}
