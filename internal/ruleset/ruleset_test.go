package ruleset

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func findAction(t *testing.T, r *Ruleset, location, id string) ActionDef {
	t.Helper()
	for _, menu := range r.Menus(location) {
		for _, a := range menu.SubActions {
			if a.ID == id {
				return a
			}
		}
	}
	t.Fatalf("Action %q not found at %q", id, location)
	return ActionDef{}
}

func TestDefaultRuleset(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("Failed to load default ruleset: %v", err)
	}
	if r.FinalPhase() != "dawn" {
		t.Errorf("Expected dawn as the final phase, got %s", r.FinalPhase())
	}
	if !r.Monsters["vampire"].IsBoss() || r.Monsters["zombie"].IsBoss() {
		t.Errorf("Boss tags decoded incorrectly")
	}
	if got := r.Settings.Topology.SpawnGate("graveyard"); got != "graveyardGate" {
		t.Errorf("Expected graveyardGate, got %s", got)
	}
	if got := r.Settings.Topology.SpawnGate("nowhere"); got != r.Settings.Topology.DefaultGate {
		t.Errorf("Expected the default gate, got %s", got)
	}
	if r.Settings.Topology.InReach("cabin", "campGate") {
		t.Errorf("Expected the cabin to be out of reach of the camp gate")
	}
	if !r.Settings.KeepsHiding("wait") || r.Settings.KeepsHiding("go_forest") {
		t.Errorf("Hiding actions decoded incorrectly")
	}
	if len(r.Texts["game_over_lose"]) != 2 || len(r.Texts["outcome_set_trap"]) != 1 {
		t.Errorf("Expected text variants to accept both lists and scalars")
	}
}

func TestEffectsKeepDeclarationOrder(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("Failed to load default ruleset: %v", err)
	}

	salt := findAction(t, r, "campsite", "throw_black_salt")
	if len(salt.Effects.Steps) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(salt.Effects.Steps))
	}
	if _, ok := salt.Effects.Steps[0].(RemoveItem); !ok {
		t.Errorf("Expected removeItem first, got %T", salt.Effects.Steps[0])
	}
	if a, ok := salt.Effects.Steps[1].(Attack); !ok || a.Type != AttackSpecial {
		t.Errorf("Expected a special attack second, got %#v", salt.Effects.Steps[1])
	}
	if salt.Effects.AttackBoss != "vampire" || salt.Effects.RemovedItem() != "black_salt" {
		t.Errorf("Companion fields decoded incorrectly: %+v", salt.Effects)
	}
	if salt.Effects.ResultRef != "outcome_attack_special_vampire" {
		t.Errorf("Unexpected result_ref %q", salt.Effects.ResultRef)
	}

	forest := findAction(t, r, "campsite", "go_forest")
	if _, ok := forest.Effects.Steps[0].(SetLocation); !ok {
		t.Errorf("Expected setLocation first, got %T", forest.Effects.Steps[0])
	}
	cs, ok := forest.Effects.Steps[1].(ChangeStat)
	if !ok || len(cs.Deltas) != 2 || cs.Deltas[0] != (StatDelta{Stat: "stamina", Delta: -5}) {
		t.Errorf("Unexpected changeStat %#v", forest.Effects.Steps[1])
	}
}

func TestUnknownKinds(t *testing.T) {
	src := `
id: summon
text_ref: action_summon
show_if:
  - moonIsFull: true
  - hasItems: {salt: 2}
effects:
  summonRain: {hours: 2}
  changeStat: {noise: 3}
`
	var a ActionDef
	if err := yaml.Unmarshal([]byte(src), &a); err != nil {
		t.Fatalf("Failed to decode action: %v", err)
	}
	if len(a.ShowIf) != 2 || Kind(a.ShowIf[0]) != "moonIsFull" {
		t.Fatalf("Expected an unknown condition first, got %#v", a.ShowIf)
	}
	if _, ok := a.ShowIf[0].(UnknownCondition); !ok {
		t.Errorf("Expected UnknownCondition, got %T", a.ShowIf[0])
	}
	if hi, ok := a.ShowIf[1].(HasItems); !ok || hi.Items[0] != (ItemQuantity{Item: "salt", Quantity: 2}) {
		t.Errorf("Unexpected hasItems %#v", a.ShowIf[1])
	}
	if u, ok := a.Effects.Steps[0].(UnknownEffect); !ok || u.Key != "summonRain" {
		t.Errorf("Expected UnknownEffect first, got %#v", a.Effects.Steps[0])
	}
	if EffectKind(a.Effects.Steps[1]) != "changeStat" {
		t.Errorf("Expected changeStat second, got %s", EffectKind(a.Effects.Steps[1]))
	}
}

func TestBossPresentAlias(t *testing.T) {
	var cs Conditions
	if err := yaml.Unmarshal([]byte("- bossIsPresent: witch\n- monsterIsPresent: zombie\n"), &cs); err != nil {
		t.Fatalf("Failed to decode conditions: %v", err)
	}
	if cs[0] != (MonsterIsPresent{Monster: "witch"}) || cs[1] != (MonsterIsPresent{Monster: "zombie"}) {
		t.Errorf("Unexpected conditions %#v", cs)
	}
}

func TestValidate(t *testing.T) {
	src := `
items:
  arrow:
    recipe:
      - {item: feather, quantity: 0}
monsters:
  zombie: {name: Zombie, health: 20}
locations:
  campsite: {name: Campsite}
phases:
  - id: dusk
    noise_spawn_pool: [ghoul]
settings:
  combat:
    shoot_order: [zombie]
initial_state:
  world:
    current_location: campsite
    current_phase_id: noon
`
	_, err := Parse([]byte(src))
	if err == nil {
		t.Fatalf("Expected validation to fail")
	}
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
	if !errors.Is(err, ErrUnknownPhase) {
		t.Errorf("Expected ErrUnknownPhase, got %v", err)
	}
}
