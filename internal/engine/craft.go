package engine

import (
	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"go.uber.org/zap"
)

// Craft consumes the recipe of item and adds one unit of it. Sufficiency is
// not re-checked here; show_if gates the craft actions, and any count that
// drops to zero or below is removed from the inventory.
func (e *Engine) Craft(item, resultRef string, s *models.GameState) {
	data, ok := e.rules.Items[item]
	if !ok || len(data.Recipe) == 0 {
		e.logger.Warn("craft: item has no recipe", zap.String("item", item))
		return
	}
	for _, ing := range data.Recipe {
		s.Player.AddItem(ing.Item, -ing.Quantity)
	}
	s.Player.AddItem(item, 1)
	if resultRef != "" {
		s.Status.Push(resultRef, nil)
	}
}
