package engine

// endOfTurn applies the residual effects in their fixed order. Nothing here branches.
func (t *turn) endOfTurn(p path, k next) {
	if t.state().GameOver() {
		k(p)
		return
	}

	t.branch(p, 1, func(e *emitter) {
		weatherDamage(e)
		weatherCountdown(e)
		terrainEffects(e)
		itemResiduals(e)
		statusDamage(e)
		leechSeed(e)
		delayedEffects(e)
		sideCountdowns(e)
		if tr := e.state().TrickRoom; tr > 0 {
			e.setTrickRoom(tr - 1)
		}
		protectBookkeeping(e)
		for _, id := range []SideID{USER, OPPONENT} {
			e.removeVolatile(id, VOLATILE_FLINCH)
		}
	}, k)
}

var sides = []SideID{USER, OPPONENT}

func weatherDamage(e *emitter) {
	weather := e.state().Weather.Kind
	if weather != WEATHER_SANDSTORM && weather != WEATHER_HAIL {
		return
	}

	for _, id := range sides {
		p := e.active(id)
		if !p.Alive() || p.Item == "safetygoggles" {
			continue
		}

		switch p.Ability {
		case "magicguard", "overcoat":
			continue
		}

		if weather == WEATHER_SANDSTORM {
			if p.HasType(TYPENAME_ROCK) || p.HasType(TYPENAME_GROUND) || p.HasType(TYPENAME_STEEL) {
				continue
			}
			if p.Ability == "sandveil" || p.Ability == "sandrush" || p.Ability == "sandforce" {
				continue
			}
		} else {
			if p.HasType(TYPENAME_ICE) || p.Ability == "icebody" || p.Ability == "snowcloak" {
				continue
			}
		}

		e.damage(id, max(1, p.MaxHp/16))
	}
}

func weatherCountdown(e *emitter) {
	weather := e.state().Weather
	if weather.Kind == WEATHER_NONE || weather.Turns <= 0 {
		return
	}

	weather.Turns--
	if weather.Turns == 0 {
		weather.Kind = WEATHER_NONE
	}
	e.setWeather(weather)
}

func terrainEffects(e *emitter) {
	terrain := e.state().Terrain
	if terrain.Kind == TERRAIN_GRASSY {
		for _, id := range sides {
			if p := e.active(id); p.Grounded() {
				e.heal(id, max(1, p.MaxHp/16))
			}
		}
	}

	if terrain.Kind == TERRAIN_NONE || terrain.Turns <= 0 {
		return
	}

	terrain.Turns--
	if terrain.Turns == 0 {
		terrain.Kind = TERRAIN_NONE
	}
	e.setTerrain(terrain)
}

func itemResiduals(e *emitter) {
	for _, id := range sides {
		p := e.active(id)
		if !p.Alive() {
			continue
		}

		switch p.Item {
		case "leftovers":
			e.heal(id, max(1, p.MaxHp/16))
		case "blacksludge":
			if p.HasType(TYPENAME_POISON) {
				e.heal(id, max(1, p.MaxHp/16))
			} else if p.Ability != "magicguard" {
				e.damage(id, max(1, p.MaxHp/8))
			}
		}
	}
}

func statusDamage(e *emitter) {
	for _, id := range sides {
		p := e.active(id)
		if !p.Alive() {
			continue
		}

		if p.Status == STATUS_TOXIC {
			e.add(ToxicCountInstruction{Side: id, Old: p.ToxicCount, New: p.ToxicCount + 1})
		}

		if p.Ability == "magicguard" {
			continue
		}

		if p.Ability == "poisonheal" && (p.Status == STATUS_POISON || p.Status == STATUS_TOXIC) {
			e.heal(id, max(1, p.MaxHp/8))
			continue
		}

		switch p.Status {
		case STATUS_BURN:
			e.damage(id, max(1, p.MaxHp/16))
		case STATUS_POISON:
			e.damage(id, max(1, p.MaxHp/8))
		case STATUS_TOXIC:
			e.damage(id, max(1, p.MaxHp*p.ToxicCount/16))
		}
	}
}

func leechSeed(e *emitter) {
	for _, id := range sides {
		p := e.active(id)
		if !p.Alive() || !p.Volatiles.Has(VOLATILE_LEECHSEED) || p.Ability == "magicguard" {
			continue
		}

		drained := e.damage(id, max(1, p.MaxHp/8))
		e.heal(id.Other(), drained)
	}
}

func delayedEffects(e *emitter) {
	for _, id := range sides {
		side := e.state().Side(id)

		if wish := side.Wish; wish.Turns > 0 {
			after := Wish{Turns: wish.Turns - 1, Amount: wish.Amount}
			if after.Turns == 0 {
				after.Amount = 0
			}
			e.add(WishInstruction{Side: id, Old: wish, New: after})
			if after.Turns == 0 {
				e.heal(id, wish.Amount)
			}
		}
	}

	for _, id := range sides {
		side := e.state().Side(id)

		if future := side.FutureSight; future.Turns > 0 {
			after := FutureSight{Turns: future.Turns - 1, Damage: future.Damage}
			if after.Turns == 0 {
				after.Damage = 0
			}
			e.add(FutureSightInstruction{Side: id, Old: future, New: after})
			if after.Turns == 0 && side.Active.Alive() {
				e.damage(id, future.Damage)
			}
		}
	}
}

var timedSideConditions = []SideCondition{SIDE_REFLECT, SIDE_LIGHTSCREEN, SIDE_AURORAVEIL, SIDE_TAILWIND}

func sideCountdowns(e *emitter) {
	for _, id := range sides {
		for _, cond := range timedSideConditions {
			if turns := e.state().Side(id).Conditions[cond]; turns > 0 {
				e.setSideCondition(id, cond, turns-1)
			}
		}
	}
}

// protectBookkeeping ends this turn's protection. The consecutive protect count only survives if the pokemon protected this turn.
func protectBookkeeping(e *emitter) {
	for _, id := range sides {
		if e.active(id).Volatiles.Has(VOLATILE_PROTECT) {
			e.removeVolatile(id, VOLATILE_PROTECT)
			continue
		}
		e.setSideCondition(id, SIDE_PROTECT, 0)
	}
}
