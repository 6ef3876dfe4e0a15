package engine

import (
	"math"
	"slices"

	"github.com/samber/lo"
)

// check either lets the move go ahead or stops it
type check func(p path, proceed next, stop next)

func (t *turn) gate(p path, checks []check, proceed next, stop next) {
	if len(checks) == 0 {
		proceed(p)
		return
	}
	checks[0](p, func(p path) {
		t.gate(p, checks[1:], proceed, stop)
	}, stop)
}

// useMove runs a move for the side. actor is the pokemon that chose it, if it is no longer out the move does nothing.
func (t *turn) useMove(side SideID, move *Move, actor string, first bool) step {
	return func(p path, k next) {
		attacker := t.state().Side(side).Active
		if attacker.Name != actor || !attacker.Alive() {
			k(p)
			return
		}

		checks := []check{
			t.flinchCheck(side),
			t.sleepCheck(side),
			t.freezeCheck(side, move),
			t.paralysisCheck(side),
			t.confusionCheck(side),
		}

		t.gate(p, checks, func(p path) {
			t.execute(side, move, first, p, k)
		}, k)
	}
}

func (t *turn) flinchCheck(side SideID) check {
	return func(p path, proceed next, stop next) {
		if t.state().Side(side).Active.Volatiles.Has(VOLATILE_FLINCH) {
			stop(p)
			return
		}
		proceed(p)
	}
}

func (t *turn) sleepCheck(side SideID) check {
	return func(p path, proceed next, stop next) {
		attacker := t.state().Side(side).Active
		if attacker.Status != STATUS_SLEEP {
			proceed(p)
			return
		}

		turnsAsleep := attacker.SleepTurns
		wake, ok := wakeChance[turnsAsleep]
		if !ok {
			wake = 1
		}

		t.branch(p, wake, func(e *emitter) {
			e.cureStatus(side)
		}, proceed)
		t.branch(p, 1-wake, func(e *emitter) {
			e.add(SleepTurnsInstruction{Side: side, Old: turnsAsleep, New: turnsAsleep + 1})
		}, stop)
	}
}

func (t *turn) freezeCheck(side SideID, move *Move) check {
	return func(p path, proceed next, stop next) {
		attacker := t.state().Side(side).Active
		if attacker.Status != STATUS_FROZEN {
			proceed(p)
			return
		}

		thaw := THAW_CHANCE
		if move.ID == "flareblitz" || move.ID == "scald" {
			thaw = 1
		}

		t.branch(p, thaw, func(e *emitter) {
			e.cureStatus(side)
		}, proceed)
		t.branch(p, 1-thaw, nil, stop)
	}
}

func (t *turn) paralysisCheck(side SideID) check {
	return func(p path, proceed next, stop next) {
		if t.state().Side(side).Active.Status != STATUS_PARA {
			proceed(p)
			return
		}

		t.branch(p, 1-FULL_PARA_CHANCE, nil, proceed)
		t.branch(p, FULL_PARA_CHANCE, nil, stop)
	}
}

func (t *turn) confusionCheck(side SideID) check {
	return func(p path, proceed next, stop next) {
		attacker := t.state().Side(side).Active
		if !attacker.Volatiles.Has(VOLATILE_CONFUSION) {
			proceed(p)
			return
		}

		t.branch(p, CONFUSION_END_CHANCE, func(e *emitter) {
			e.removeVolatile(side, VOLATILE_CONFUSION)
		}, proceed)

		stillConfused := 1 - CONFUSION_END_CHANCE
		t.branch(p, stillConfused*CONFUSION_HIT_CHANCE, func(e *emitter) {
			rolls := damageRolls(attacker, attacker, &confusionHit, Conditions{}, false)
			e.damage(side, lo.Sum(rolls)/len(rolls))
		}, stop)
		t.branch(p, stillConfused*(1-CONFUSION_HIT_CHANCE), nil, proceed)
	}
}

// execute spends pp then runs the move against its target
func (t *turn) execute(side SideID, move *Move, first bool, p path, k next) {
	t.branch(p, 1, func(e *emitter) {
		attacker := e.active(side)
		slot := attacker.MoveSlot(move.ID)
		if slot == -1 || attacker.Moves[slot].PP <= 0 {
			return
		}
		amount := 1
		if move.TargetsFoe() && e.active(side.Other()).Ability == "pressure" {
			amount = 2
		}
		e.add(PPInstruction{Side: side, Slot: slot, Amount: min(amount, attacker.Moves[slot].PP)})
	}, func(p path) {
		t.runMove(side, move, first, p, k)
	})
}

func (t *turn) runMove(side SideID, move *Move, first bool, p path, k next) {
	state := t.state()
	attacker, defender := state.Side(side).Active, state.Side(side.Other()).Active

	if move.VolatileStatus == VOLATILE_PROTECT.String() {
		chance := math.Pow(1.0/3.0, float64(state.Side(side).Conditions[SIDE_PROTECT]))
		t.chance(p, chance, func(e *emitter) {
			e.addVolatile(side, VOLATILE_PROTECT)
			e.setSideCondition(side, SIDE_PROTECT, state.Side(side).Conditions[SIDE_PROTECT]+1)
		}, k)
		return
	}

	if move.FutureSight {
		t.branch(p, 1, func(e *emitter) {
			target := e.state().Side(side.Other())
			if target.FutureSight.Turns > 0 {
				return
			}
			rolls := damageRolls(attacker, defender, move, state.ConditionsFor(side.Other()), false)
			damage := lo.Sum(rolls) / len(rolls)
			if isImmune(attacker, defender, move) {
				damage = 0
			}
			e.add(FutureSightInstruction{
				Side: side.Other(),
				Old:  target.FutureSight,
				New:  FutureSight{Turns: FUTURE_TURNS, Damage: damage},
			})
		}, k)
		return
	}

	if !move.TargetsFoe() {
		t.branch(p, 1, func(e *emitter) {
			t.fieldEffects(e, side, move)
		}, k)
		return
	}

	if !defender.Alive() || defender.Volatiles.Has(VOLATILE_PROTECT) {
		k(p)
		return
	}

	hit := hitChance(state, attacker, defender, move)
	t.branch(p, hit, nil, func(p path) {
		t.hit(side, move, first, p, k)
	})
	t.branch(p, 1-hit, nil, k)
}

func hitChance(state *BattleState, attacker, defender *Pokemon, move *Move) float64 {
	if move.Accuracy == 0 {
		return 1
	}
	if attacker.Ability == "noguard" || defender.Ability == "noguard" {
		return 1
	}
	if move.ID == "blizzard" && state.Weather.Kind == WEATHER_HAIL {
		return 1
	}

	stage := clamp(attacker.Boosts[STAT_ACCURACY]-defender.Boosts[STAT_EVASION], MIN_STAGE, MAX_STAGE)
	chance := float64(move.Accuracy) / 100 * accuracyStageMult[stage]
	if attacker.Ability == "compoundeyes" {
		chance *= 1.3
	}

	return min(chance, 1)
}

// hit runs a move that connected with the opposing active pokemon
func (t *turn) hit(side SideID, move *Move, first bool, p path, k next) {
	state := t.state()
	attacker, defender := state.Side(side).Active, state.Side(side.Other()).Active

	if !move.DealsDamage() {
		t.branch(p, 1, func(e *emitter) {
			t.statusMoveEffects(e, side, move)
		}, func(p path) {
			if move.ForceSwitch {
				t.dragOut(side.Other(), p, k)
				return
			}
			k(p)
		})
		return
	}

	if isImmune(attacker, defender, move) {
		t.branch(p, 1, func(e *emitter) {
			absorbEffects(e, side.Other(), move)
		}, k)
		return
	}

	outcomes := DamageOutcomes(attacker, defender, move, state.ConditionsFor(side.Other()), t.resolver.rolls)
	for _, outcome := range outcomes {
		t.branch(p, outcome.Probability, func(e *emitter) {
			dealt := e.damage(side.Other(), outcome.Amount)
			afterDamage(e, side, move, dealt)
		}, func(p path) {
			t.secondary(side, move, first, p, func(p path) {
				if move.ForceSwitch {
					t.dragOut(side.Other(), p, k)
					return
				}
				k(p)
			})
		})
	}
}

// absorbEffects are the abilities that trigger when they block a move
func absorbEffects(e *emitter, side SideID, move *Move) {
	defender := e.active(side)
	switch defender.Ability {
	case "flashfire":
		if move.Type == TYPENAME_FIRE {
			e.addVolatile(side, VOLATILE_FLASHFIRE)
		}
	case "waterabsorb", "voltabsorb", "dryskin":
		e.heal(side, defender.MaxHp/4)
	case "motordrive":
		e.boost(side, STAT_SPEED, 1)
	case "sapsipper":
		e.boost(side, STAT_ATTACK, 1)
	case "lightningrod", "stormdrain":
		e.boost(side, STAT_SPATTACK, 1)
	}
}

func afterDamage(e *emitter, side SideID, move *Move, dealt int) {
	attacker, defender := e.active(side), e.active(side.Other())
	indirectImmune := attacker.Ability == "magicguard"

	if move.Drain > 0 && dealt > 0 {
		e.heal(side, max(1, int(math.Floor(float64(dealt)*move.Drain))))
	}

	if move.Recoil > 0 && dealt > 0 && attacker.Ability != "rockhead" && !indirectImmune {
		e.damage(side, max(1, int(math.Floor(float64(dealt)*move.Recoil))))
	}

	if move.ID == STRUGGLE.ID {
		e.damage(side, max(1, attacker.MaxHp/STRUGGLE_RECOIL_DIVISOR))
	}

	if move.Flags.Contact && dealt > 0 && !indirectImmune {
		switch defender.Ability {
		case "roughskin", "ironbarbs":
			e.damage(side, attacker.MaxHp/8)
		}
		if defender.Item == "rockyhelmet" {
			e.damage(side, attacker.MaxHp/6)
		}
	}

	if attacker.Item == "lifeorb" && dealt > 0 && !indirectImmune {
		e.damage(side, attacker.MaxHp/10)
	}

	e.boosts(side, move.SelfBoosts)

	if move.ClearsHazards == CLEARS_SELF && attacker.Alive() {
		clearHazards(e, side)
		e.removeVolatile(side, VOLATILE_LEECHSEED)
		e.removeVolatile(side, VOLATILE_TRAPPED)
	}
}

// secondary rolls the move's secondary effect
func (t *turn) secondary(side SideID, move *Move, first bool, p path, k next) {
	sec := move.Secondary
	attacker := t.state().Side(side).Active
	if sec == nil || attacker.Ability == "sheerforce" {
		k(p)
		return
	}

	chance := float64(sec.Chance) / 100
	if attacker.Ability == "serenegrace" {
		chance *= 2
	}

	t.chance(p, min(chance, 1), func(e *emitter) {
		target := side.Other()
		defender := e.active(target)

		if defender.Alive() && defender.Ability != "shielddust" {
			if sec.Status != "" {
				if status, err := ParseStatus(sec.Status); err == nil && canBeStatused(e.state(), defender, status) {
					e.setStatus(target, status)
				}
			}
			switch sec.VolatileStatus {
			case VOLATILE_FLINCH.String():
				// only a pokemon that has not moved yet can flinch
				if first && defender.Ability != "innerfocus" {
					e.addVolatile(target, VOLATILE_FLINCH)
				}
			case VOLATILE_CONFUSION.String():
				if defender.Ability != "owntempo" {
					e.addVolatile(target, VOLATILE_CONFUSION)
				}
			}
			dropBoosts(e, target, sec.Boosts)
		}

		e.boosts(side, sec.SelfBoosts)
	}, k)
}

// dropBoosts applies boosts from the opponent, which some abilities ignore when they are drops
func dropBoosts(e *emitter, target SideID, boosts Boosts) {
	defender := e.active(target)
	for stat, amount := range boosts {
		if amount == 0 {
			continue
		}
		if amount < 0 {
			switch defender.Ability {
			case "clearbody", "whitesmoke", "fullmetalbody":
				continue
			case "hypercutter":
				if Stat(stat) == STAT_ATTACK {
					continue
				}
			case "keeneye":
				if Stat(stat) == STAT_ACCURACY {
					continue
				}
			}
		}
		e.boost(target, Stat(stat), amount)
	}
}

// canBeStatused checks typing, abilities and terrain that stop a major status
func canBeStatused(state *BattleState, p *Pokemon, status Status) bool {
	if !p.Alive() || p.Status != STATUS_NONE {
		return false
	}
	if p.Grounded() && state.Terrain.Kind == TERRAIN_MISTY {
		return false
	}

	switch status {
	case STATUS_BURN:
		return !p.HasType(TYPENAME_FIRE) && p.Ability != "waterveil"
	case STATUS_PARA:
		return !p.HasType(TYPENAME_ELECTRIC) && p.Ability != "limber"
	case STATUS_SLEEP:
		if p.Grounded() && state.Terrain.Kind == TERRAIN_ELECTRIC {
			return false
		}
		return p.Ability != "insomnia" && p.Ability != "vitalspirit"
	case STATUS_FROZEN:
		return !p.HasType(TYPENAME_ICE) && p.Ability != "magmaarmor" && state.Weather.Kind != WEATHER_SUN
	case STATUS_POISON, STATUS_TOXIC:
		return !p.HasType(TYPENAME_POISON) && !p.HasType(TYPENAME_STEEL) && p.Ability != "immunity"
	}
	return false
}

// statusMoveEffects runs a status move that hit the opposing active pokemon
func (t *turn) statusMoveEffects(e *emitter, side SideID, move *Move) {
	target := side.Other()
	defender := e.active(target)

	if move.Flags.Powder && (defender.HasType(TYPENAME_GRASS) || defender.Ability == "overcoat") {
		return
	}
	if move.IsSound() && defender.Ability == "soundproof" {
		return
	}

	if move.Status != "" {
		status, err := ParseStatus(move.Status)
		typeImmune := move.Type == TYPENAME_ELECTRIC && Effectiveness(move.Type, defender.DefensiveTypes()) == 0
		if err == nil && !typeImmune && canBeStatused(e.state(), defender, status) {
			e.setStatus(target, status)
		}
	}

	switch move.VolatileStatus {
	case VOLATILE_CONFUSION.String():
		if defender.Ability != "owntempo" {
			e.addVolatile(target, VOLATILE_CONFUSION)
		}
	case VOLATILE_LEECHSEED.String():
		if !defender.HasType(TYPENAME_GRASS) {
			e.addVolatile(target, VOLATILE_LEECHSEED)
		}
	}

	dropBoosts(e, target, move.Boosts)

	if move.ClearsHazards == CLEARS_BOTH {
		clearHazards(e, side)
		clearHazards(e, target)
		for _, screen := range []SideCondition{SIDE_REFLECT, SIDE_LIGHTSCREEN, SIDE_AURORAVEIL} {
			e.setSideCondition(target, screen, 0)
		}
	}
}

var hazards = []SideCondition{SIDE_STEALTHROCK, SIDE_SPIKES, SIDE_TOXICSPIKES, SIDE_STICKYWEB}

func clearHazards(e *emitter, side SideID) {
	for _, hazard := range hazards {
		e.setSideCondition(side, hazard, 0)
	}
}

// fieldEffects runs moves that target the user, its side, or the whole field
func (t *turn) fieldEffects(e *emitter, side SideID, move *Move) {
	own, opposing := e.state().Sides(side)
	user := own.Active

	e.boosts(side, move.Boosts)

	if move.Heal > 0 {
		e.heal(side, int(math.Floor(float64(user.MaxHp)*move.Heal)))
	}

	if move.Wish && own.Wish.Turns == 0 {
		e.add(WishInstruction{Side: side, Old: own.Wish, New: Wish{Turns: WISH_TURNS, Amount: user.MaxHp / 2}})
	}

	if move.SideCondition != "" {
		var cond SideCondition
		if err := cond.UnmarshalText([]byte(move.SideCondition)); err == nil {
			if move.Target == TARGET_FOE_SIDE {
				if current := opposing.Conditions[cond]; current < sideConditionMax[cond] {
					e.setSideCondition(side.Other(), cond, current+1)
				}
			} else if own.Conditions[cond] == 0 {
				t.raiseScreen(e, side, cond)
			}
		}
	}

	if move.Weather != "" {
		var kind WeatherKind
		if err := kind.UnmarshalText([]byte(move.Weather)); err == nil && e.state().Weather.Kind != kind {
			turns := WEATHER_TURNS
			if weatherRock(kind) == user.Item {
				turns = 8
			}
			e.setWeather(Weather{Kind: kind, Turns: turns})
		}
	}

	if move.Terrain != "" {
		var kind TerrainKind
		if err := kind.UnmarshalText([]byte(move.Terrain)); err == nil && e.state().Terrain.Kind != kind {
			e.setTerrain(Terrain{Kind: kind, Turns: TERRAIN_TURNS})
		}
	}

	if move.TrickRoom {
		if e.state().TrickRoom > 0 {
			e.setTrickRoom(0)
		} else {
			e.setTrickRoom(TRICK_ROOM_TURNS)
		}
	}
}

func (t *turn) raiseScreen(e *emitter, side SideID, cond SideCondition) {
	user := e.active(side)
	turns := SCREEN_TURNS
	switch cond {
	case SIDE_TAILWIND:
		turns = TAILWIND_TURNS
	case SIDE_AURORAVEIL:
		if e.state().Weather.Kind != WEATHER_HAIL {
			return
		}
	}
	if user.Item == "lightclay" && slices.Contains([]SideCondition{SIDE_REFLECT, SIDE_LIGHTSCREEN, SIDE_AURORAVEIL}, cond) {
		turns = 8
	}
	e.setSideCondition(side, cond, turns)
}

func weatherRock(kind WeatherKind) string {
	switch kind {
	case WEATHER_RAIN:
		return "damprock"
	case WEATHER_SUN:
		return "heatrock"
	case WEATHER_SANDSTORM:
		return "smoothrock"
	case WEATHER_HAIL:
		return "icyrock"
	}
	return ""
}
