package engine

import (
	"fmt"
	"maps"

	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
	"go.uber.org/zap"
)

// Outcome is how a game ended.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
)

// Result is the game status after a turn.
type Result struct {
	Over    bool
	Outcome Outcome
}

// Action is a menu entry the player may choose right now.
type Action struct {
	ID       string
	Category string
	TextRef  string
	Effects  ruleset.Effects
}

// NewGame builds a session from the ruleset's initial state and runs the
// first monster turn.
func (e *Engine) NewGame() (*models.GameState, error) {
	init := e.rules.InitialState
	phase, ok := e.rules.Phase(init.World.CurrentPhaseID)
	if !ok {
		return nil, fmt.Errorf("new game: phase %q: %w", init.World.CurrentPhaseID, ruleset.ErrUnknownPhase)
	}

	s := &models.GameState{
		Player: models.Player{
			Health:    init.Player.Health,
			Stamina:   init.Player.Stamina,
			Inventory: make(map[string]int),
		},
		World: models.World{
			CurrentLocation:    init.World.CurrentLocation,
			CurrentPhaseID:     phase.ID,
			ActionsRemaining:   phase.DurationInActions,
			Noise:              init.World.Noise,
			Fortifications:     cloneOrEmpty(init.World.Fortifications),
			Traps:              cloneOrEmpty(init.World.Traps),
			Flags:              cloneOrEmpty(init.World.Flags),
			VisitedLocations:   []string{},
			ScavengedLocations: []string{},
		},
		Horde: make(models.Horde),
		Status: models.Status{
			GameMode:    init.Status.GameMode,
			PlayerState: init.Status.PlayerState,
		},
	}
	for item, n := range init.Player.Inventory {
		s.Player.AddItem(item, n)
	}
	for _, typ := range e.rules.MonsterTypes() {
		s.Horde[typ] = []models.MonsterInstance{}
	}
	if s.Status.GameMode == "" {
		s.Status.GameMode = models.ModeExploring
	}
	if s.Status.PlayerState == "" {
		s.Status.PlayerState = models.PlayerNormal
	}

	e.RunMonsterTurn(s)
	return s, nil
}

func cloneOrEmpty[M ~map[K]V, K comparable, V any](m M) M {
	if m == nil {
		return make(M)
	}
	return maps.Clone(m)
}

// AvailableActions lists the location's actions followed by the global ones,
// keeping only those whose conditions hold.
func (e *Engine) AvailableActions(s *models.GameState) []Action {
	var out []Action
	for _, menu := range e.rules.Menus(s.World.CurrentLocation) {
		for _, def := range menu.SubActions {
			if !e.ConditionsMet(def.ShowIf, s) {
				continue
			}
			out = append(out, Action{
				ID:       def.ID,
				Category: menu.Category,
				TextRef:  def.TextRef,
				Effects:  def.Effects,
			})
		}
	}
	return out
}

// RunPlayerTurn applies the chosen action, lets the horde strike back and
// advances the clock by one action.
func (e *Engine) RunPlayerTurn(s *models.GameState, a Action) {
	s.World.PreviousLocation = s.World.CurrentLocation
	if s.Status.PlayerState == models.PlayerHiding && !e.rules.Settings.KeepsHiding(a.ID) {
		s.Status.PlayerState = models.PlayerNormal
		s.Status.Push(refStopHiding, nil)
	}
	e.ApplyEffects(a.Effects, s)
	e.attackPlayer(s)
	tick(s)
	e.logger.Debug("player turn",
		zap.String("action", a.ID),
		zap.Int("health", s.Player.Health),
		zap.Int("stamina", s.Player.Stamina),
		zap.Int("noise", s.World.Noise),
		zap.Int("actions_remaining", s.World.ActionsRemaining))
}

// CheckStatus ends the game on death or dawn and moves to the next phase
// when the current one runs out of actions.
func (e *Engine) CheckStatus(s *models.GameState) Result {
	if s.Player.Health <= 0 {
		return Result{Over: true, Outcome: OutcomeLose}
	}
	if s.World.ActionsRemaining == 0 {
		// an unknown phase restarts from the first one
		next := e.rules.PhaseIndex(s.World.CurrentPhaseID) + 1
		if next < len(e.rules.Phases) {
			phase := e.rules.Phases[next]
			s.World.CurrentPhaseID = phase.ID
			s.World.ActionsRemaining = phase.DurationInActions
			e.logger.Info("phase advanced", zap.String("phase", phase.ID))
		}
	}
	if s.World.CurrentPhaseID == e.rules.FinalPhase() {
		return Result{Over: true, Outcome: OutcomeWin}
	}
	return Result{}
}

// Turn plays one full turn: the player's action, the status check and, if
// the game goes on, the monsters' turn.
func (e *Engine) Turn(s *models.GameState, a Action) Result {
	e.RunPlayerTurn(s, a)
	res := e.CheckStatus(s)
	if res.Over {
		e.logger.Info("game over", zap.String("outcome", string(res.Outcome)))
		return res
	}
	e.RunMonsterTurn(s)
	return res
}

// DrainMessages returns the turn's messages and clears the queue.
func DrainMessages(s *models.GameState) []models.Message {
	return s.Status.Drain()
}
