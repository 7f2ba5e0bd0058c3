// Package ruleset holds the immutable game data: items, monsters,
// locations, phases, tunable settings, texts and the initial state.
// Nothing in this package is mutated once a Ruleset has been loaded.
package ruleset

import (
	"slices"
	"sort"
)

// Ruleset is the full static game data.
type Ruleset struct {
	Items         map[string]Item         `yaml:"items"`
	Monsters      map[string]Monster      `yaml:"monsters"`
	Locations     map[string]Location     `yaml:"locations"`
	GlobalActions Location                `yaml:"global_actions"`
	Phases        []Phase                 `yaml:"phases"`
	Settings      Settings                `yaml:"settings"`
	Texts         map[string]TextVariants `yaml:"texts"`
	InitialState  InitialState            `yaml:"initial_state"`
}

// Item is an inventory item, optionally craftable and usable as a weapon.
type Item struct {
	Name    string       `yaml:"name"`
	Recipe  []Ingredient `yaml:"recipe"`
	Effects ItemEffects  `yaml:"effects"`
}

// Ingredient is one line of a crafting recipe.
type Ingredient struct {
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
}

// ItemEffects describes what an item does in combat.
type ItemEffects struct {
	SingleAttack *Strike `yaml:"single_attack"`
	CleaveAttack *Cleave `yaml:"cleave_attack"`
	Incinerate   *Strike `yaml:"incinerate"`
	Damage       int     `yaml:"damage"` // special consumables used against bosses
}

// Strike is a single damage value.
type Strike struct {
	Damage int `yaml:"damage"`
}

// Cleave is a multi-target swing.
type Cleave struct {
	Damage  int   `yaml:"damage"`
	Targets Range `yaml:"targets"`
}

// Range is an inclusive integer range.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Monster special tags.
const (
	SpecialBoss         = "boss"
	SpecialLingersShort = "lingers_short"
	SpecialLingersLong  = "lingers_long"
)

// Monster targets.
const (
	TargetPlayer        = "player"
	TargetFortification = "fortification"
)

// Monster is a monster type definition.
type Monster struct {
	Name     string   `yaml:"name"`
	Health   int      `yaml:"health"`
	Behavior Behavior `yaml:"behavior"`
}

// Behavior describes how a monster type acts on its turn.
type Behavior struct {
	Damage  int      `yaml:"damage"`
	Target  []string `yaml:"target"`
	Special []string `yaml:"special"`
}

// Targets reports whether the monster attacks target.
func (m Monster) Targets(target string) bool {
	return slices.Contains(m.Behavior.Target, target)
}

// Has reports whether the monster carries the special tag.
func (m Monster) Has(special string) bool {
	return slices.Contains(m.Behavior.Special, special)
}

// IsBoss reports whether the monster is a boss.
func (m Monster) IsBoss() bool {
	return m.Has(SpecialBoss)
}

// Location is a place with its own action menu. GlobalActions reuses it for the
// menu shared by every location.
type Location struct {
	Name string         `yaml:"name"`
	Menu []MenuCategory `yaml:"menu"`
}

// MenuCategory groups actions under a heading such as MOVE or FORTIFY.
type MenuCategory struct {
	Category   string      `yaml:"category"`
	SubActions []ActionDef `yaml:"sub_actions"`
}

// ActionDef is an action the player may choose when its conditions hold.
type ActionDef struct {
	ID      string     `yaml:"id"`
	TextRef string     `yaml:"text_ref"`
	ShowIf  Conditions `yaml:"show_if"`
	Effects Effects    `yaml:"effects"`
}

// Phase is a stretch of the night.
type Phase struct {
	ID                string       `yaml:"id"`
	DurationInActions int          `yaml:"duration_in_actions"`
	MusicTrack        string       `yaml:"music_track"`
	NoiseSpawnPool    []string     `yaml:"noise_spawn_pool"`
	Events            []PhaseEvent `yaml:"events"`
}

// PhaseEvent is a scripted spawn fired when actions remaining hits Trigger.Value.
type PhaseEvent struct {
	Trigger struct {
		Value int `yaml:"value"`
	} `yaml:"trigger"`
	Effect struct {
		Spawn []Spawn `yaml:"spawn"`
	} `yaml:"effect"`
}

// Spawn is either a fixed monster count or a boss pool to roll one boss from.
type Spawn struct {
	Monster  string   `yaml:"monster"`
	Count    int      `yaml:"count"`
	BossPool []string `yaml:"boss_pool"`
}

// InitialState seeds a new session.
type InitialState struct {
	Player struct {
		Health    int            `yaml:"health"`
		Stamina   int            `yaml:"stamina"`
		Inventory map[string]int `yaml:"inventory"`
	} `yaml:"player"`
	World struct {
		CurrentLocation string          `yaml:"current_location"`
		CurrentPhaseID  string          `yaml:"current_phase_id"`
		Noise           int             `yaml:"noise"`
		Fortifications  map[string]int  `yaml:"fortifications"`
		Traps           map[string]int  `yaml:"traps"`
		Flags           map[string]bool `yaml:"flags"`
	} `yaml:"world"`
	Status struct {
		GameMode    string `yaml:"game_mode"`
		PlayerState string `yaml:"player_state"`
	} `yaml:"status"`
}

// Phase returns the phase with the given id.
func (r *Ruleset) Phase(id string) (Phase, bool) {
	i := r.PhaseIndex(id)
	if i < 0 {
		return Phase{}, false
	}
	return r.Phases[i], true
}

// PhaseIndex returns the position of phase id, or -1.
func (r *Ruleset) PhaseIndex(id string) int {
	return slices.IndexFunc(r.Phases, func(p Phase) bool { return p.ID == id })
}

// FinalPhase returns the id of the last phase, reaching it wins the game.
func (r *Ruleset) FinalPhase() string {
	if len(r.Phases) == 0 {
		return ""
	}
	return r.Phases[len(r.Phases)-1].ID
}

// MonsterTypes returns every monster type id in a stable order.
func (r *Ruleset) MonsterTypes() []string {
	types := make([]string, 0, len(r.Monsters))
	for id := range r.Monsters {
		types = append(types, id)
	}
	sort.Strings(types)
	return types
}

// MonsterName returns the display name of a monster type, or the id itself.
func (r *Ruleset) MonsterName(id string) string {
	if m, ok := r.Monsters[id]; ok && m.Name != "" {
		return m.Name
	}
	return id
}

// Menus returns the location menu followed by the global menu.
func (r *Ruleset) Menus(location string) []MenuCategory {
	var menus []MenuCategory
	if loc, ok := r.Locations[location]; ok {
		menus = append(menus, loc.Menu...)
	}
	return append(menus, r.GlobalActions.Menu...)
}
