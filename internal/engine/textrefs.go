package engine

// Flags the engine reads or writes.
const flagEnfeebled = "enfeebled"

// Text references the engine pushes on its own. Actions supply the rest via
// result_ref.
const (
	refWaitHiding  = "outcome_wait_hiding"
	refWaitNormal  = "outcome_wait_normal"
	refStopHiding  = "outcome_stop_hiding"
	refLoneSpawn   = "threat_lone_spawn"
	refLoneDespawn = "threat_lone_despawn"
	refTrap        = "threat_trap_triggered"
	refHidingBroke = "threat_hiding_broken"
	refPlayerHit   = "threat_monsters_attack_player"

	// Suffixed with the phase, boss or fortification id.
	refTimedSpawn   = "threat_horde_spawn_timed_"
	refBossSpawn    = "threat_boss_spawn_"
	refFortAttacked = "threat_horde_attacks_fortification_"
	refFortBreached = "threat_fortification_breached_"

	refLifeDrain    = "boss_vampire_life_drain"
	refEnfeeble     = "boss_vampire_enfeeble"
	refHealHorde    = "boss_witch_heal_horde"
	refRangedPotion = "boss_witch_ranged_potion"
)
