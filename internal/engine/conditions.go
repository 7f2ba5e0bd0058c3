package engine

import (
	"slices"

	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
	"go.uber.org/zap"
)

// ConditionsMet reports whether every condition holds for s. It never mutates
// s. Unknown condition kinds are logged and treated as satisfied.
func (e *Engine) ConditionsMet(conds ruleset.Conditions, s *models.GameState) bool {
	for _, c := range conds {
		if !e.conditionMet(c, s) {
			return false
		}
	}
	return true
}

func (e *Engine) conditionMet(c ruleset.Condition, s *models.GameState) bool {
	switch c := c.(type) {
	case ruleset.GameModeIs:
		return s.Status.GameMode == c.Mode
	case ruleset.MinStamina:
		return s.Player.Stamina >= c.Value
	case ruleset.HordeLocationNotIn:
		return !slices.Contains(c.Locations, s.World.HordeLocation)
	case ruleset.HasItem:
		return s.Player.Count(c.Item) > 0
	case ruleset.HasAnyItem:
		return slices.ContainsFunc(c.Items, func(item string) bool { return s.Player.Count(item) > 0 })
	case ruleset.HasItems:
		for _, iq := range c.Items {
			if s.Player.Count(iq.Item) < iq.Quantity {
				return false
			}
		}
		return true
	case ruleset.AtLocation:
		return s.World.CurrentLocation == c.Location
	case ruleset.IsTargetAdjacent:
		return e.rules.Settings.Topology.InReach(s.World.CurrentLocation, s.World.HordeLocation)
	case ruleset.NotScavenged:
		return !s.World.IsScavenged(c.Location)
	case ruleset.FlagIsTrue:
		v, ok := s.World.Flags[c.Flag]
		return ok && v
	case ruleset.FlagIsFalse:
		// an unset flag is neither true nor false
		v, ok := s.World.Flags[c.Flag]
		return ok && !v
	case ruleset.MonsterIsPresent:
		return s.Horde.Present(c.Monster)
	case ruleset.HordeSizeGreaterThan:
		return s.Horde.Total() > c.Size
	default:
		e.logger.Warn("unknown condition, treating as met", zap.String("condition", ruleset.Kind(c)))
		return true
	}
}
