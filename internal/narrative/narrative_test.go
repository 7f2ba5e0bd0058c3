package narrative

import (
	"strings"
	"testing"

	"github.com/frozen4917/What-Comes-At-Night/internal/engine"
	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// firstRand always picks the first variant.
type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

func testRenderer(t *testing.T) (*Renderer, *ruleset.Ruleset) {
	t.Helper()
	r, err := ruleset.Default()
	if err != nil {
		t.Fatalf("Failed to load default ruleset: %v", err)
	}
	return New(r, WithRand(firstRand{})), r
}

func testState() *models.GameState {
	return &models.GameState{
		Player: models.Player{Health: 100, Stamina: 100, Inventory: map[string]int{}},
		World: models.World{
			CurrentLocation:  "campsite",
			CurrentPhaseID:   "dusk",
			ActionsRemaining: 8,
			Flags:            map[string]bool{},
		},
		Horde:  models.Horde{},
		Status: models.Status{GameMode: models.ModeExploring, PlayerState: models.PlayerNormal},
	}
}

func TestRender(t *testing.T) {
	rd, _ := testRenderer(t)
	tests := []struct {
		msg  models.Message
		want string
	}{
		{
			models.Message{TextRef: "threat_monsters_attack_player", Params: map[string]any{
				"monsters": map[string]int{"zombie": 2, "spirit": 1},
				"damage":   14,
			}},
			"1 Spirit and 2 Zombies attack you for 14 damage.",
		},
		{
			models.Message{TextRef: "threat_lone_despawn", Params: map[string]any{
				"monsters": map[string]any{"zombie": 1},
			}},
			"Losing interest, Zombie wander off.",
		},
		{
			models.Message{TextRef: "threat_trap_triggered", Params: map[string]any{
				"gate":     "campGate",
				"monsters": map[string]int{"zombie": 3},
			}},
			"Your traps spring at the camp gate, catching 3 Zombies.",
		},
		{
			models.Message{TextRef: "threat_monsters_attack_player", Params: map[string]any{
				"monsters": map[string]int{"witch": 2, "zombie": 1, "skeleton": 3},
				"damage":   30,
			}},
			"3 Skeletons, 2 Witches, and 1 Zombie attack you for 30 damage.",
		},
		{
			models.Message{TextRef: "outcome_set_trap"},
			"You rig a net trap across the gate.",
		},
	}
	for _, tt := range tests {
		got, ok := rd.Render(tt.msg)
		if !ok || got != tt.want {
			t.Errorf("%s: expected %q, got %q (ok=%v)", tt.msg.TextRef, tt.want, got, ok)
		}
	}
}

func TestRenderMissingText(t *testing.T) {
	r, err := ruleset.Default()
	if err != nil {
		t.Fatalf("Failed to load default ruleset: %v", err)
	}
	core, logs := observer.New(zap.WarnLevel)
	rd := New(r, WithLogger(zap.New(core)))

	if got, ok := rd.Render(models.Message{TextRef: "no_such_text"}); ok || got != "" {
		t.Errorf("Expected a missing text to render empty, got %q", got)
	}
	if logs.FilterMessage("missing text").Len() != 1 {
		t.Errorf("Expected the missing text to be logged once, got %v", logs.All())
	}
}

func TestJoinList(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a and b"},
		{[]string{"a", "b", "c"}, "a, b, and c"},
		{[]string{"a", "b", "c", "d"}, "a, b, c, and d"},
	}
	for _, tt := range tests {
		if got := joinList(tt.parts); got != tt.want {
			t.Errorf("joinList(%v): expected %q, got %q", tt.parts, tt.want, got)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	rd, _ := testRenderer(t)
	s := testState()
	s.Status.Push("outcome_set_trap", nil)
	s.Player.Health = 30
	s.Player.Stamina = 10

	got := rd.BuildPrompt(s)
	want := strings.Join([]string{
		"The sun is setting.",
		"An abandoned campsite. Tents sag in the wind and a gate leans at the edge of the clearing.",
		"You rig a net trap across the gate.",
		"You are badly hurt.\nYou can barely stand.",
	}, "\n\n")
	if got != want {
		t.Errorf("Unexpected prompt:\n%s\nwant:\n%s", got, want)
	}
	if len(s.Status.MessageQueue) != 0 {
		t.Errorf("Expected the message queue to be drained")
	}
	if !s.World.HasVisited("campsite") {
		t.Errorf("Expected the campsite to be marked visited")
	}
}

func TestBuildPromptLocationText(t *testing.T) {
	rd, _ := testRenderer(t)
	s := testState()
	s.World.ActionsRemaining = 7
	s.World.Visit("campsite")

	s.World.PreviousLocation = "campsite"
	if got := rd.BuildPrompt(s); got != "The night continues...\n\nThe campsite is quiet." {
		t.Errorf("Expected the staying text, got %q", got)
	}

	s.World.PreviousLocation = "cabin"
	if got := rd.BuildPrompt(s); !strings.HasSuffix(got, "You are back at the campsite.") {
		t.Errorf("Expected the return text, got %q", got)
	}
}

func TestEndGameText(t *testing.T) {
	rd, _ := testRenderer(t)

	t.Run("lose", func(t *testing.T) {
		s := testState()
		s.Player.Health = 0
		if got := rd.EndGameText(s, engine.OutcomeLose); got != "The darkness takes you." {
			t.Errorf("Unexpected ending %q", got)
		}
	})

	t.Run("win with stragglers", func(t *testing.T) {
		s := testState()
		s.Player.Health = 12
		s.Horde["zombie"] = []models.MonsterInstance{{ID: "z", CurrentHealth: 5}}
		want := strings.Join([]string{
			"The first light of dawn breaks over the trees.",
			"The remaining monsters shriek and flee from the sunlight.",
			"Barely alive, you watch the sun rise.",
		}, "\n\n")
		if got := rd.EndGameText(s, engine.OutcomeWin); got != want {
			t.Errorf("Unexpected ending %q", got)
		}
	})

	t.Run("clean win", func(t *testing.T) {
		s := testState()
		if got := rd.EndGameText(s, engine.OutcomeWin); !strings.HasSuffix(got, "You survived the night.") {
			t.Errorf("Unexpected ending %q", got)
		}
	})
}

func TestTooltip(t *testing.T) {
	rd, _ := testRenderer(t)
	s := testState()
	s.Player.Inventory = map[string]int{"axe": 1}

	tests := []struct {
		name   string
		action engine.Action
		want   string
	}{
		{
			"move",
			engine.Action{Effects: ruleset.Effects{Steps: []ruleset.Effect{
				ruleset.SetLocation{Location: "forest"},
				ruleset.ChangeStat{Deltas: []ruleset.StatDelta{{Stat: "stamina", Delta: -5}, {Stat: "noise", Delta: 3}}},
			}}},
			"Costs: 5 Stamina\nStats: +3 Noise",
		},
		{
			"craft",
			engine.Action{Effects: ruleset.Effects{Steps: []ruleset.Effect{ruleset.Craft{Item: "molotov"}}}},
			"Costs: 1 Empty Bottle, 1 Alcohol, 1 Cloth",
		},
		{
			"cleave",
			engine.Action{Effects: ruleset.Effects{
				Steps:          []ruleset.Effect{ruleset.Attack{Type: ruleset.AttackCleave}},
				WeaponPriority: []string{"axe"},
			}},
			"Damage: 9 (3-4 Targets)",
		},
		{
			"shoot",
			engine.Action{Effects: ruleset.Effects{Steps: []ruleset.Effect{ruleset.Attack{Type: ruleset.AttackShoot}}}},
			"Costs: 1 Arrow\nDamage: 14 (1 Target)",
		},
		{
			"nothing",
			engine.Action{Effects: ruleset.Effects{Steps: []ruleset.Effect{ruleset.SetToFalse{Flag: "cabin_locked"}}}},
			noEffect,
		},
	}
	for _, tt := range tests {
		if got := rd.Tooltip(tt.action, s); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestTooltipWhileHiding(t *testing.T) {
	rd, _ := testRenderer(t)
	s := testState()
	wait := engine.Action{Effects: ruleset.Effects{Steps: []ruleset.Effect{
		ruleset.Wait{StaminaGain: 5, NoiseReduction: 10, HidingNoiseReduction: 20},
	}}}

	if got := rd.Tooltip(wait, s); got != "Stats: +5 Stamina, -10 Noise" {
		t.Errorf("Unexpected tooltip %q", got)
	}
	s.Status.PlayerState = models.PlayerHiding
	s.Status.GameMode = models.ModeCombatLone
	if got := rd.Tooltip(wait, s); got != "Stats: -20 Noise" {
		t.Errorf("Unexpected hiding tooltip %q", got)
	}
}
