package models

// Game modes.
const (
	ModeExploring  = "exploring"
	ModeCombat     = "combat"
	ModeCombatLone = "combat_lone"
)

// Player states.
const (
	PlayerNormal = "normal"
	PlayerHiding = "hiding"
)

// Stat bounds for player stats.
const (
	StatMin = 0
	StatMax = 100
)

// Player holds the player's stats and inventory.
type Player struct {
	Health    int            `yaml:"health"`
	Stamina   int            `yaml:"stamina"`
	Inventory map[string]int `yaml:"inventory"` // item id -> positive count
}

// World represents the dynamic state of the map.
type World struct {
	CurrentLocation    string          `yaml:"current_location"`
	PreviousLocation   string          `yaml:"previous_location"`
	CurrentPhaseID     string          `yaml:"current_phase_id"`
	ActionsRemaining   int             `yaml:"actions_remaining"`
	Noise              int             `yaml:"noise"`
	Fortifications     map[string]int  `yaml:"fortifications"` // fortification id -> hit points
	Traps              map[string]int  `yaml:"traps"`          // gate id -> armed traps
	Flags              map[string]bool `yaml:"flags"`
	VisitedLocations   []string        `yaml:"visited_locations"`
	ScavengedLocations []string        `yaml:"scavenged_locations"`
	HordeLocation      string          `yaml:"horde_location"` // "" when no horde is active
}

// MonsterInstance is a single live monster.
type MonsterInstance struct {
	ID            string `yaml:"id"`
	CurrentHealth int    `yaml:"current_health"`
	Persistent    bool   `yaml:"persistent"` // scripted spawn, never despawns from noise decay
}

// Horde groups live monsters by monster type.
type Horde map[string][]MonsterInstance

// Message is an opaque narrative record rendered by the presentation layer.
type Message struct {
	TextRef string         `yaml:"text_ref"`
	Params  map[string]any `yaml:"params,omitempty"`
}

// Status holds the turn-level bookkeeping.
type Status struct {
	GameMode              string    `yaml:"game_mode"`
	PlayerState           string    `yaml:"player_state"`
	MessageQueue          []Message `yaml:"message_queue"`
	NoiseSpawnCount       int       `yaml:"noise_spawn_count"`
	RepeatedSpawnCooldown int       `yaml:"repeated_spawn_cooldown"`
	GracePeriodCooldown   int       `yaml:"grace_period_cooldown"`
}

// GameState aggregates all mutable session data.
type GameState struct {
	Player Player `yaml:"player"`
	World  World  `yaml:"world"`
	Horde  Horde  `yaml:"horde"`
	Status Status `yaml:"status"`
}

// Push appends a message to the queue.
func (s *Status) Push(textRef string, params map[string]any) {
	s.MessageQueue = append(s.MessageQueue, Message{TextRef: textRef, Params: params})
}

// Drain returns the queued messages and empties the queue.
func (s *Status) Drain() []Message {
	msgs := s.MessageQueue
	s.MessageQueue = nil
	return msgs
}

// Count returns the number of units of item held.
func (p *Player) Count(item string) int {
	return p.Inventory[item]
}

// AddItem adds quantity units of item, deleting the entry if the result is not positive.
func (p *Player) AddItem(item string, quantity int) {
	if p.Inventory == nil {
		p.Inventory = make(map[string]int)
	}
	n := p.Inventory[item] + quantity
	if n <= 0 {
		delete(p.Inventory, item)
		return
	}
	p.Inventory[item] = n
}

// Clamp bounds a player stat to [StatMin, StatMax].
func Clamp(v int) int {
	return max(StatMin, min(StatMax, v))
}

// Total returns the number of live monsters across all types.
func (h Horde) Total() int {
	n := 0
	for _, list := range h {
		n += len(list)
	}
	return n
}

// Counts returns type -> live count, omitting empty types.
func (h Horde) Counts() map[string]int {
	counts := make(map[string]int)
	for typ, list := range h {
		if len(list) > 0 {
			counts[typ] = len(list)
		}
	}
	return counts
}

// Present reports whether at least one monster of typ is alive.
func (h Horde) Present(typ string) bool {
	return len(h[typ]) > 0
}

// Purge removes every instance with non-positive health and returns how many were removed.
func (h Horde) Purge() int {
	removed := 0
	for typ, list := range h {
		kept := list[:0]
		for _, m := range list {
			if m.CurrentHealth > 0 {
				kept = append(kept, m)
			} else {
				removed++
			}
		}
		h[typ] = kept
	}
	return removed
}

// Lone returns the number of non-persistent monsters of typ.
func (h Horde) Lone(typ string) int {
	n := 0
	for _, m := range h[typ] {
		if !m.Persistent {
			n++
		}
	}
	return n
}

// Persistent returns the number of persistent monsters of typ.
func (h Horde) Persistent(typ string) int {
	return len(h[typ]) - h.Lone(typ)
}

// HasVisited reports whether loc was visited before.
func (w *World) HasVisited(loc string) bool {
	for _, v := range w.VisitedLocations {
		if v == loc {
			return true
		}
	}
	return false
}

// Visit records loc as visited.
func (w *World) Visit(loc string) {
	if !w.HasVisited(loc) {
		w.VisitedLocations = append(w.VisitedLocations, loc)
	}
}

// IsScavenged reports whether loc was already scavenged.
func (w *World) IsScavenged(loc string) bool {
	for _, v := range w.ScavengedLocations {
		if v == loc {
			return true
		}
	}
	return false
}

// Scavenge marks loc as scavenged. It is idempotent.
func (w *World) Scavenge(loc string) {
	if !w.IsScavenged(loc) {
		w.ScavengedLocations = append(w.ScavengedLocations, loc)
	}
}
