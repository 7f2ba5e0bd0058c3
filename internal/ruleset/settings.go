package ruleset

import "slices"

// Settings are the tunable constants of the game.
type Settings struct {
	Player struct {
		EnfeebleMultiplier float64 `yaml:"enfeeble_multiplier"`
	} `yaml:"player"`
	Cooldowns struct {
		GracePeriod   int `yaml:"grace_period"`
		RepeatedSpawn int `yaml:"repeated_spawn"`
	} `yaml:"cooldowns"`
	Noise struct {
		SpawnThreshold int `yaml:"spawn_threshold"`
		DespawnShort   int `yaml:"despawn_short"` // lone monsters that linger briefly leave below this
		DespawnLong    int `yaml:"despawn_long"`  // lone monsters that linger long leave below this
	} `yaml:"noise"`
	StatusWarnings struct {
		Low      int `yaml:"low"`
		Critical int `yaml:"critical"`
	} `yaml:"status_warnings"`
	Boss     BossSettings `yaml:"boss"`
	Topology Topology     `yaml:"topology"`
	Combat   Combat       `yaml:"combat"`
	Trap     struct {
		Materials map[string]int `yaml:"materials"`
	} `yaml:"trap"`
	HidingActions     []string `yaml:"hiding_actions"`
	TrackedRandomItem string   `yaml:"tracked_random_item"`
}

// Combat tunes the player's attacks.
type Combat struct {
	ShootWeapon             string   `yaml:"shoot_weapon"`
	ShootAmmo               string   `yaml:"shoot_ammo"`
	ShootOrder              []string `yaml:"shoot_order"`
	IncinerateItem          string   `yaml:"incinerate_item"`
	IncinerateAppliesJitter bool     `yaml:"incinerate_applies_jitter"`
}

// BossSettings tunes the special moves of each boss.
type BossSettings struct {
	Vampire struct {
		LifeDrain struct {
			Weight          int `yaml:"weight"`
			MinPlayerHealth int `yaml:"min_player_health"`
			Damage          int `yaml:"damage"`
		} `yaml:"life_drain"`
		Enfeeble struct {
			Weight           int `yaml:"weight"`
			MinPlayerStamina int `yaml:"min_player_stamina"`
			StaminaDrain     int `yaml:"stamina_drain"`
		} `yaml:"enfeeble"`
	} `yaml:"vampire"`
	Witch struct {
		HealHorde struct {
			Weight           int `yaml:"weight"`
			MinDamagedAllies int `yaml:"min_damaged_allies"`
			Amount           int `yaml:"amount"`
		} `yaml:"heal_horde"`
		RangedPotion struct {
			Weight int `yaml:"weight"`
			Damage int `yaml:"damage"`
		} `yaml:"ranged_potion"`
	} `yaml:"witch"`
}

// Topology is the location graph the horde moves along.
type Topology struct {
	// SpawnGates maps the player's location to the gate a new horde gathers at.
	SpawnGates  map[string]string `yaml:"spawn_gates"`
	DefaultGate string            `yaml:"default_gate"`
	// Sieges maps a horde location to the fortification it attacks and the
	// location it moves to once that fortification falls.
	Sieges     map[string]Siege `yaml:"sieges"`
	OutOfReach []Reach          `yaml:"out_of_reach"`
}

// Siege is one tier of the gate -> site -> interior progression.
type Siege struct {
	Fortification string `yaml:"fortification"`
	BreachTo      string `yaml:"breach_to"`
}

// Reach is a player/horde location pair too far apart to interact.
type Reach struct {
	Player string `yaml:"player"`
	Horde  string `yaml:"horde"`
}

// SpawnGate returns the gate a horde gathers at when the player is at location.
func (t Topology) SpawnGate(location string) string {
	if gate, ok := t.SpawnGates[location]; ok {
		return gate
	}
	return t.DefaultGate
}

// InReach reports whether a player at playerLoc and a horde at hordeLoc can interact.
func (t Topology) InReach(playerLoc, hordeLoc string) bool {
	return !slices.Contains(t.OutOfReach, Reach{Player: playerLoc, Horde: hordeLoc})
}

// KeepsHiding reports whether actionID leaves a hiding player hidden.
func (s Settings) KeepsHiding(actionID string) bool {
	return slices.Contains(s.HidingActions, actionID)
}
