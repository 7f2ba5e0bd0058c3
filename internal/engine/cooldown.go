package engine

import "github.com/frozen4917/What-Comes-At-Night/internal/models"

// checkGracePeriod ends combat once the horde is gone and starts the grace
// period that suppresses noise spawns.
func (e *Engine) checkGracePeriod(s *models.GameState) {
	if s.Status.GameMode == models.ModeExploring || s.Horde.Total() > 0 {
		return
	}
	s.Status.GameMode = models.ModeExploring
	s.World.HordeLocation = ""
	s.Status.GracePeriodCooldown = e.rules.Settings.Cooldowns.GracePeriod
	s.Status.RepeatedSpawnCooldown = 0
}

// tick advances the clock by one action.
func tick(s *models.GameState) {
	s.World.ActionsRemaining = max(0, s.World.ActionsRemaining-1)
	s.Status.RepeatedSpawnCooldown = max(0, s.Status.RepeatedSpawnCooldown-1)
	s.Status.GracePeriodCooldown = max(0, s.Status.GracePeriodCooldown-1)
}
