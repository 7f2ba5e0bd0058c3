package engine

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
)

func actionIDs(actions []Action) []string {
	var ids []string
	for _, a := range actions {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestNewGame(t *testing.T) {
	r := testRules(t)
	s, err := New(r).NewGame()
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if s.Player.Health != 100 || s.Player.Count("cloth") != 1 {
		t.Errorf("Unexpected player %+v", s.Player)
	}
	if s.World.CurrentPhaseID != "dusk" || s.World.ActionsRemaining != 8 {
		t.Errorf("Expected dusk with 8 actions, got %s with %d", s.World.CurrentPhaseID, s.World.ActionsRemaining)
	}
	for _, typ := range r.MonsterTypes() {
		if list, ok := s.Horde[typ]; !ok || len(list) != 0 {
			t.Errorf("Expected an empty %s list, got %v", typ, list)
		}
	}
	if s.Status.GameMode != models.ModeExploring || s.Status.PlayerState != models.PlayerNormal {
		t.Errorf("Unexpected status %+v", s.Status)
	}
	if !s.World.Flags["cabin_locked"] {
		t.Errorf("Expected the cabin to start locked")
	}
}

func TestNewGameCopiesInitialState(t *testing.T) {
	r := testRules(t)
	e := New(r)
	s, err := e.NewGame()
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	s.World.Fortifications["campGate"] = 1
	s.Player.AddItem("cloth", 5)
	if r.InitialState.World.Fortifications["campGate"] != 60 || r.InitialState.Player.Inventory["cloth"] != 1 {
		t.Errorf("Expected the ruleset's initial state to stay untouched")
	}
}

func TestNewGameUnknownPhase(t *testing.T) {
	r := testRules(t)
	r.InitialState.World.CurrentPhaseID = "noon"
	if _, err := New(r).NewGame(); !errors.Is(err, ruleset.ErrUnknownPhase) {
		t.Errorf("Expected ErrUnknownPhase, got %v", err)
	}
}

func TestAvailableActions(t *testing.T) {
	e := New(testRules(t))
	s, err := e.NewGame()
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	ids := actionIDs(e.AvailableActions(s))

	for _, want := range []string{"go_forest", "wait"} {
		if !slices.Contains(ids, want) {
			t.Errorf("Expected %s to be available, got %v", want, ids)
		}
	}
	for _, hidden := range []string{"go_cabin", "attack_zombie"} {
		if slices.Contains(ids, hidden) {
			t.Errorf("Expected %s to be hidden", hidden)
		}
	}
	if slices.Index(ids, "go_forest") > slices.Index(ids, "wait") {
		t.Errorf("Expected location actions before global ones, got %v", ids)
	}
}

func TestRunPlayerTurnHiding(t *testing.T) {
	e := New(testRules(t))
	s := blankState()
	s.Status.PlayerState = models.PlayerHiding

	wait := Action{ID: "wait", Effects: ruleset.Effects{Steps: []ruleset.Effect{ruleset.Wait{StaminaGain: 5}}}}
	e.RunPlayerTurn(s, wait)
	if s.Status.PlayerState != models.PlayerHiding {
		t.Errorf("Expected waiting to keep the player hidden")
	}
	DrainMessages(s)

	move := Action{ID: "go_forest", Effects: ruleset.Effects{Steps: []ruleset.Effect{ruleset.SetLocation{Location: "forest"}}}}
	e.RunPlayerTurn(s, move)
	if s.Status.PlayerState != models.PlayerNormal {
		t.Errorf("Expected moving to break hiding")
	}
	if s.World.PreviousLocation != "campsite" || s.World.CurrentLocation != "forest" {
		t.Errorf("Expected campsite -> forest, got %s -> %s", s.World.PreviousLocation, s.World.CurrentLocation)
	}
	if s.World.ActionsRemaining != 3 {
		t.Errorf("Expected 3 actions left after two turns, got %d", s.World.ActionsRemaining)
	}
	if got := refs(DrainMessages(s)); len(got) == 0 || got[0] != refStopHiding {
		t.Errorf("Expected the stop hiding message first, got %v", got)
	}
}

func TestTick(t *testing.T) {
	s := blankState()
	s.World.ActionsRemaining = 1
	s.Status.RepeatedSpawnCooldown = 2
	s.Status.GracePeriodCooldown = 0

	tick(s)
	tick(s)

	if s.World.ActionsRemaining != 0 || s.Status.RepeatedSpawnCooldown != 0 || s.Status.GracePeriodCooldown != 0 {
		t.Errorf("Expected every counter floored at 0, got %d/%d/%d",
			s.World.ActionsRemaining, s.Status.RepeatedSpawnCooldown, s.Status.GracePeriodCooldown)
	}
}

func TestCheckStatus(t *testing.T) {
	e := New(testRules(t))

	t.Run("death", func(t *testing.T) {
		s := blankState()
		s.Player.Health = 0
		if res := e.CheckStatus(s); !res.Over || res.Outcome != OutcomeLose {
			t.Errorf("Expected a loss, got %+v", res)
		}
	})

	t.Run("phase advance", func(t *testing.T) {
		s := blankState()
		s.World.ActionsRemaining = 0
		if res := e.CheckStatus(s); res.Over {
			t.Errorf("Expected the game to go on, got %+v", res)
		}
		if s.World.CurrentPhaseID != "evening" || s.World.ActionsRemaining != 10 {
			t.Errorf("Expected evening with 10 actions, got %s with %d", s.World.CurrentPhaseID, s.World.ActionsRemaining)
		}
	})

	t.Run("dawn", func(t *testing.T) {
		s := blankState()
		s.World.CurrentPhaseID = "witching_hour"
		s.World.ActionsRemaining = 0
		if res := e.CheckStatus(s); !res.Over || res.Outcome != OutcomeWin {
			t.Errorf("Expected a win, got %+v", res)
		}
	})
}

// play runs up to n turns, picking actions round-robin, and returns the
// text refs it saw.
func play(e *Engine, s *models.GameState, n int) []string {
	var seen []string
	for i := range n {
		actions := e.AvailableActions(s)
		res := e.Turn(s, actions[i%len(actions)])
		seen = append(seen, refs(DrainMessages(s))...)
		if res.Over {
			break
		}
	}
	return seen
}

func TestRestoredGameBehavesTheSame(t *testing.T) {
	r := testRules(t)
	s, err := New(r, WithSeed(7)).NewGame()
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	play(New(r, WithSeed(7)), s, 12)

	restored, err := models.UnmarshalState(marshal(t, s))
	if err != nil {
		t.Fatalf("Failed to restore state: %v", err)
	}

	liveRefs := play(New(r, WithSeed(99)), s, 20)
	restoredRefs := play(New(r, WithSeed(99)), restored, 20)

	if !slices.Equal(liveRefs, restoredRefs) {
		t.Errorf("Expected identical narration\nlive:     %v\nrestored: %v", liveRefs, restoredRefs)
	}
	if !bytes.Equal(marshal(t, s), marshal(t, restored)) {
		t.Errorf("Expected identical states after resuming")
	}
}
