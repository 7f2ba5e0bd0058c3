package engine

import (
	"slices"

	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
	"go.uber.org/zap"
)

// Attack resolves a player attack of the given type. Every strategy removes
// the monsters it kills and runs the grace period check when it kills one.
func (e *Engine) Attack(typ string, fx ruleset.Effects, s *models.GameState) {
	switch typ {
	case ruleset.AttackSingle:
		e.singleAttack(fx, s)
	case ruleset.AttackCleave:
		e.cleaveAttack(fx, s)
	case ruleset.AttackShoot:
		e.shootAttack(fx, s)
	case ruleset.AttackIncinerate:
		e.incinerateAttack(fx, s)
	case ruleset.AttackSpecial:
		e.specialAttack(fx, s)
	default:
		e.logger.Warn("unknown attack type", zap.String("attack", typ))
	}
}

// weapon returns the first weapon in priority order the player holds.
func weapon(priority []string, p *models.Player) string {
	for _, w := range priority {
		if p.Count(w) > 0 {
			return w
		}
	}
	return ""
}

func enfeebled(s *models.GameState) bool {
	return s.World.Flags[flagEnfeebled]
}

func (e *Engine) singleAttack(fx ruleset.Effects, s *models.GameState) {
	w := weapon(fx.WeaponPriority, &s.Player)
	data := e.rules.Items[w]
	if w == "" || data.Effects.SingleAttack == nil {
		e.logger.Debug("single attack without a usable weapon", zap.Strings("priority", fx.WeaponPriority))
		return
	}
	targets := s.Horde[fx.AttackTarget]
	if len(targets) == 0 {
		e.logger.Warn("single attack on an absent target", zap.String("target", fx.AttackTarget))
		return
	}

	cursed := enfeebled(s)
	damage := e.scaled(data.Effects.SingleAttack.Damage+e.between(-2, 2), cursed)
	i := e.rng.IntN(len(targets))
	targets[i].CurrentHealth -= damage
	killed := targets[i].CurrentHealth <= 0
	if killed {
		s.Horde[fx.AttackTarget] = slices.Delete(targets, i, i+1)
		e.checkGracePeriod(s)
	}

	if fx.ResultRef != "" {
		s.Status.Push(fx.ResultRef, map[string]any{
			"weapon":  data.Name,
			"monster": e.rules.MonsterName(fx.AttackTarget),
			"damage":  damage,
			"killed":  killed,
			"cursed":  cursed,
		})
	}
}

func (e *Engine) cleaveAttack(fx ruleset.Effects, s *models.GameState) {
	w := weapon(fx.WeaponPriority, &s.Player)
	cleave := e.rules.Items[w].Effects.CleaveAttack
	if w == "" || cleave == nil {
		e.logger.Debug("cleave attack without a cleaving weapon", zap.Strings("priority", fx.WeaponPriority))
		return
	}

	cursed := enfeebled(s)
	reach := e.between(cleave.Targets.Min, cleave.Targets.Max)
	all := allMonsters(s.Horde)
	e.shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	hit := all[:min(reach, len(all))]

	total, kills := 0, 0
	for _, m := range hit {
		damage := e.scaled(cleave.Damage+e.between(-1, 2), cursed)
		m.CurrentHealth -= damage
		total += damage
		if m.CurrentHealth <= 0 {
			kills++
		}
	}
	s.Horde.Purge()
	if kills > 0 {
		e.checkGracePeriod(s)
	}

	if fx.ResultRef != "" {
		s.Status.Push(fx.ResultRef, map[string]any{
			"numHit": len(hit),
			"damage": total,
			"kills":  kills,
			"cursed": cursed,
		})
	}
}

// shootOrder returns the configured target priority followed by any other
// monster type in the horde.
func (e *Engine) shootOrder(h models.Horde) []string {
	order := slices.Clone(e.rules.Settings.Combat.ShootOrder)
	for _, typ := range monsterTypes(h) {
		if !slices.Contains(order, typ) {
			order = append(order, typ)
		}
	}
	return order
}

func (e *Engine) shootAttack(fx ruleset.Effects, s *models.GameState) {
	cfg := e.rules.Settings.Combat
	if s.Player.Count(cfg.ShootAmmo) <= 0 {
		e.logger.Error("shoot attack without ammunition", zap.String("ammo", cfg.ShootAmmo))
		return
	}
	bow := e.rules.Items[cfg.ShootWeapon].Effects.SingleAttack
	if bow == nil {
		e.logger.Error("shoot weapon has no attack data", zap.String("weapon", cfg.ShootWeapon))
		return
	}
	target := ""
	for _, typ := range e.shootOrder(s.Horde) {
		if s.Horde.Present(typ) {
			target = typ
			break
		}
	}
	if target == "" {
		e.logger.Warn("shoot attack with no monster in sight")
		return
	}

	s.Player.AddItem(cfg.ShootAmmo, -1)
	cursed := enfeebled(s)
	damage := e.scaled(bow.Damage+e.between(-1, 1), cursed)
	targets := s.Horde[target]
	i := e.rng.IntN(len(targets))
	targets[i].CurrentHealth -= damage
	killed := targets[i].CurrentHealth <= 0
	if killed {
		s.Horde[target] = slices.Delete(targets, i, i+1)
		e.checkGracePeriod(s)
	}

	if fx.ResultRef != "" {
		s.Status.Push(fx.ResultRef, map[string]any{
			"monster": e.rules.MonsterName(target),
			"damage":  damage,
			"killed":  killed,
			"cursed":  cursed,
		})
	}
}

func (e *Engine) incinerateAttack(fx ruleset.Effects, s *models.GameState) {
	cfg := e.rules.Settings.Combat
	if s.Player.Count(cfg.IncinerateItem) <= 0 {
		e.logger.Error("incinerate attack without the item", zap.String("item", cfg.IncinerateItem))
		return
	}
	fire := e.rules.Items[cfg.IncinerateItem].Effects.Incinerate
	if fire == nil {
		e.logger.Error("incinerate item has no attack data", zap.String("item", cfg.IncinerateItem))
		return
	}
	s.Player.AddItem(cfg.IncinerateItem, -1)

	cursed := enfeebled(s)
	all := allMonsters(s.Horde)
	total, kills := 0, 0
	for _, m := range all {
		damage := e.scaled(fire.Damage+e.between(-4, 3), cursed)
		total += damage
		// the reported total carries jitter, the health loss does not unless configured
		if cfg.IncinerateAppliesJitter {
			m.CurrentHealth -= damage
		} else {
			m.CurrentHealth -= fire.Damage
		}
		if m.CurrentHealth <= 0 {
			kills++
		}
	}
	s.Horde.Purge()
	if kills > 0 {
		e.checkGracePeriod(s)
	}

	if fx.ResultRef != "" {
		s.Status.Push(fx.ResultRef, map[string]any{
			"numHit": len(all),
			"damage": total,
			"kills":  kills,
			"cursed": cursed,
		})
	}
}

// specialAttack hits the first boss of the targeted type with the consumable
// the action removed. The curse does not weaken it.
func (e *Engine) specialAttack(fx ruleset.Effects, s *models.GameState) {
	item := fx.RemovedItem()
	data, ok := e.rules.Items[item]
	if !ok {
		e.logger.Warn("special attack without a consumable", zap.String("boss", fx.AttackBoss))
		return
	}
	bosses := s.Horde[fx.AttackBoss]
	if len(bosses) == 0 {
		e.logger.Warn("special attack on an absent boss", zap.String("boss", fx.AttackBoss))
		return
	}

	damage := data.Effects.Damage + e.between(-2, 3)
	bosses[0].CurrentHealth -= damage
	killed := bosses[0].CurrentHealth <= 0
	if killed {
		s.Horde[fx.AttackBoss] = slices.Delete(bosses, 0, 1)
		e.checkGracePeriod(s)
	}

	if fx.ResultRef != "" {
		s.Status.Push(fx.ResultRef, map[string]any{
			"monster": e.rules.MonsterName(fx.AttackBoss),
			"damage":  damage,
			"killed":  killed,
		})
	}
}
