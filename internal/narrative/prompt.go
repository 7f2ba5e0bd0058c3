package narrative

import (
	"fmt"
	"strings"

	"github.com/frozen4917/What-Comes-At-Night/internal/engine"
	"github.com/frozen4917/What-Comes-At-Night/internal/models"
)

const fallbackTimeline = "The night continues..."

// BuildPrompt assembles the text shown before the player's next choice:
// timeline flavor, the location description, this turn's messages and any
// status warnings. It drains the message queue and records the current
// location as visited.
func (r *Renderer) BuildPrompt(s *models.GameState) string {
	timeline, ok := r.optional(fmt.Sprintf("%s_flavor_%d", s.World.CurrentPhaseID, s.World.ActionsRemaining))
	if !ok {
		timeline = fallbackTimeline
	}

	parts := []string{
		timeline,
		r.locationText(&s.World),
		strings.Join(r.RenderAll(s.Status.Drain()), "\n"),
		strings.Join(r.warnings(&s.Player), "\n"),
	}
	return joinNonEmpty(parts, "\n\n")
}

func (r *Renderer) locationText(w *models.World) string {
	base := "loc_desc_" + w.CurrentLocation
	switch {
	case !w.HasVisited(w.CurrentLocation):
		w.Visit(w.CurrentLocation)
		return r.Text(base + "_first")
	case w.CurrentLocation == w.PreviousLocation:
		return r.Text(base + "_current")
	default:
		return r.Text(base + "_return")
	}
}

func (r *Renderer) warnings(p *models.Player) []string {
	limits := r.rules.Settings.StatusWarnings
	var out []string
	check := func(v int, stat string) {
		switch {
		case v <= limits.Critical:
			out = append(out, r.Text("status_"+stat+"_critical"))
		case v <= limits.Low:
			out = append(out, r.Text("status_"+stat+"_low"))
		}
	}
	check(p.Health, "health")
	check(p.Stamina, "stamina")
	return out
}

// EndGameText renders the leftover messages followed by the ending for
// outcome. It drains the message queue.
func (r *Renderer) EndGameText(s *models.GameState, outcome engine.Outcome) string {
	parts := r.RenderAll(s.Status.Drain())
	switch outcome {
	case engine.OutcomeLose:
		parts = append(parts, r.Text("game_over_lose"))
	case engine.OutcomeWin:
		parts = append(parts, r.Text("phase_intro_"+r.rules.FinalPhase()))
		if s.Horde.Total() > 0 {
			parts = append(parts, r.Text("game_over_win_monsters"))
		}
		if s.Player.Health <= r.rules.Settings.StatusWarnings.Critical {
			parts = append(parts, r.Text("game_over_win_critical"))
		} else {
			parts = append(parts, r.Text("game_over_win_normal"))
		}
	}
	return joinNonEmpty(parts, "\n\n")
}

func joinNonEmpty(parts []string, sep string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
