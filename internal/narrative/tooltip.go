package narrative

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/frozen4917/What-Comes-At-Night/internal/engine"
	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
)

const noEffect = "No significant cost or effect."

// Tooltip summarizes what an action costs and does, one line per heading:
// "Costs: ...", "Stats: ..." and "Damage: ...".
func (r *Renderer) Tooltip(a engine.Action, s *models.GameState) string {
	var costs, stats []string
	damage := ""

	for _, step := range a.Effects.Steps {
		switch st := step.(type) {
		case ruleset.Wait:
			if s.Status.PlayerState == models.PlayerHiding && s.Status.GameMode == models.ModeCombatLone {
				stats = append(stats, fmt.Sprintf("-%d Noise", st.HidingNoiseReduction))
				continue
			}
			stats = append(stats, fmt.Sprintf("+%d Stamina", st.StaminaGain), fmt.Sprintf("-%d Noise", st.NoiseReduction))
		case ruleset.ChangeStat:
			for _, d := range st.Deltas {
				switch {
				case d.Stat == "stamina" && d.Delta < 0:
					costs = append(costs, fmt.Sprintf("%d Stamina", -d.Delta))
				case d.Stat == "noise":
					stats = append(stats, fmt.Sprintf("%+d Noise", d.Delta))
				case (d.Stat == "health" || d.Stat == "stamina") && d.Delta > 0:
					stats = append(stats, fmt.Sprintf("+%d %s", d.Delta, title(d.Stat)))
				case d.Delta > 0 && d.Stat != "health":
					stats = append(stats, fmt.Sprintf("+%d Fortification HP", d.Delta))
				}
			}
		case ruleset.RemoveItem:
			costs = append(costs, "1 "+r.itemName(st.Item))
		case ruleset.Craft:
			for _, ing := range r.rules.Items[st.Item].Recipe {
				costs = append(costs, fmt.Sprintf("%d %s", ing.Quantity, r.itemName(ing.Item)))
			}
		case ruleset.AddTrap:
			mats := r.rules.Settings.Trap.Materials
			for _, item := range slices.Sorted(maps.Keys(mats)) {
				costs = append(costs, fmt.Sprintf("%d %s", mats[item], r.itemName(item)))
			}
		case ruleset.Attack:
			var cost string
			damage, cost = r.attackSummary(st.Type, a.Effects, &s.Player)
			if cost != "" {
				costs = append(costs, cost)
			}
		}
	}

	var lines []string
	if len(costs) > 0 {
		lines = append(lines, "Costs: "+strings.Join(costs, ", "))
	}
	if len(stats) > 0 {
		lines = append(lines, "Stats: "+strings.Join(stats, ", "))
	}
	if damage != "" {
		lines = append(lines, "Damage: "+damage)
	}
	if len(lines) == 0 {
		return noEffect
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) attackSummary(typ string, fx ruleset.Effects, p *models.Player) (damage, cost string) {
	combat := r.rules.Settings.Combat
	switch typ {
	case ruleset.AttackSingle:
		if atk := r.rules.Items[held(fx.WeaponPriority, p)].Effects.SingleAttack; atk != nil {
			return fmt.Sprintf("%d (1 Target)", atk.Damage), ""
		}
	case ruleset.AttackCleave:
		if atk := r.rules.Items[held(fx.WeaponPriority, p)].Effects.CleaveAttack; atk != nil {
			return fmt.Sprintf("%d (%d-%d Targets)", atk.Damage, atk.Targets.Min, atk.Targets.Max), ""
		}
	case ruleset.AttackShoot:
		cost = "1 " + r.itemName(combat.ShootAmmo)
		if bow := r.rules.Items[combat.ShootWeapon].Effects.SingleAttack; bow != nil {
			return fmt.Sprintf("%d (1 Target)", bow.Damage), cost
		}
		return "", cost
	case ruleset.AttackIncinerate:
		if atk := r.rules.Items[combat.IncinerateItem].Effects.Incinerate; atk != nil {
			return fmt.Sprintf("%d (All Targets)", atk.Damage), ""
		}
	case ruleset.AttackSpecial:
		if item := fx.RemovedItem(); item != "" {
			return fmt.Sprintf("%d (Boss)", r.rules.Items[item].Effects.Damage), ""
		}
	}
	return "", ""
}

// held returns the first item in priority the player carries.
func held(priority []string, p *models.Player) string {
	for _, item := range priority {
		if p.Count(item) > 0 {
			return item
		}
	}
	return ""
}

func (r *Renderer) itemName(id string) string {
	if item, ok := r.rules.Items[id]; ok && item.Name != "" {
		return item.Name
	}
	return id
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
