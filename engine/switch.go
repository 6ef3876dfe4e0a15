package engine

import "math"

// switchIn swaps the side's active pokemon for target. A missing or fainted target makes the switch a no-op.
func (t *turn) switchIn(side SideID, target string) step {
	return func(p path, k next) {
		own := t.state().Side(side)
		incoming, ok := own.Reserve[target]
		if !ok || !incoming.Alive() {
			t.resolver.logger().V(1).Info("switch target not available", "side", side.String(), "target", target)
			k(p)
			return
		}

		t.branch(p, 1, func(e *emitter) {
			switchOut(e, side)
			e.add(SwitchInstruction{Side: side, Out: e.active(side).Name, In: target})
			entryEffects(e, side)
		}, k)
	}
}

// switchOut drops everything that does not leave the field with the pokemon
func switchOut(e *emitter, side SideID) {
	out := e.active(side)

	e.clearBoosts(side)
	for _, v := range out.Volatiles.List() {
		e.removeVolatile(side, v)
	}
	if out.ToxicCount != 0 {
		e.add(ToxicCountInstruction{Side: side, Old: out.ToxicCount, New: 0})
	}
	e.setSideCondition(side, SIDE_PROTECT, 0)

	if !out.Alive() {
		return
	}
	switch out.Ability {
	case "regenerator":
		e.heal(side, out.MaxHp/3)
	case "naturalcure":
		e.cureStatus(side)
	}
}

// dragOut forces a random living reserve member in, one branch per candidate
func (t *turn) dragOut(side SideID, p path, k next) {
	candidates := t.state().Side(side).AliveReserve()
	if len(candidates) == 0 || !t.state().Side(side).Active.Alive() {
		k(p)
		return
	}

	for _, name := range candidates {
		t.branch(p, 1/float64(len(candidates)), nil, func(p path) {
			t.switchIn(side, name)(p, k)
		})
	}
}

func entryEffects(e *emitter, side SideID) {
	own, opposing := e.state().Sides(side)
	incoming := own.Active

	if incoming.Item != "heavydutyboots" {
		entryHazards(e, side)
	}

	if !incoming.Alive() {
		return
	}

	switch incoming.Ability {
	case "intimidate":
		target := opposing.Active
		switch target.Ability {
		case "clearbody", "hypercutter", "innerfocus", "oblivious", "owntempo", "scrappy", "whitesmoke", "fullmetalbody":
		default:
			e.boost(side.Other(), STAT_ATTACK, -1)
		}
	case "drizzle":
		e.setWeather(Weather{Kind: WEATHER_RAIN, Turns: WEATHER_TURNS})
	case "drought":
		e.setWeather(Weather{Kind: WEATHER_SUN, Turns: WEATHER_TURNS})
	case "sandstream":
		e.setWeather(Weather{Kind: WEATHER_SANDSTORM, Turns: WEATHER_TURNS})
	case "snowwarning":
		e.setWeather(Weather{Kind: WEATHER_HAIL, Turns: WEATHER_TURNS})
	case "electricsurge":
		e.setTerrain(Terrain{Kind: TERRAIN_ELECTRIC, Turns: TERRAIN_TURNS})
	case "grassysurge":
		e.setTerrain(Terrain{Kind: TERRAIN_GRASSY, Turns: TERRAIN_TURNS})
	case "psychicsurge":
		e.setTerrain(Terrain{Kind: TERRAIN_PSYCHIC, Turns: TERRAIN_TURNS})
	case "mistysurge":
		e.setTerrain(Terrain{Kind: TERRAIN_MISTY, Turns: TERRAIN_TURNS})
	}
}

func entryHazards(e *emitter, side SideID) {
	own := e.state().Side(side)
	incoming := own.Active
	magicGuard := incoming.Ability == "magicguard"

	if own.Conditions[SIDE_STEALTHROCK] > 0 && !magicGuard {
		effectiveness := Effectiveness(TYPENAME_ROCK, incoming.DefensiveTypes())
		e.damage(side, int(math.Floor(float64(incoming.MaxHp)*effectiveness/8)))
	}

	if !incoming.Grounded() {
		return
	}

	if layers := own.Conditions[SIDE_SPIKES]; layers > 0 && !magicGuard {
		divisor := map[int]int{1: 8, 2: 6, 3: 4}[min(layers, 3)]
		e.damage(side, incoming.MaxHp/divisor)
	}

	if layers := own.Conditions[SIDE_TOXICSPIKES]; layers > 0 {
		switch {
		case incoming.HasType(TYPENAME_POISON):
			e.setSideCondition(side, SIDE_TOXICSPIKES, 0)
		case canBeStatused(e.state(), incoming, STATUS_POISON):
			if layers >= 2 {
				e.setStatus(side, STATUS_TOXIC)
			} else {
				e.setStatus(side, STATUS_POISON)
			}
		}
	}

	if own.Conditions[SIDE_STICKYWEB] > 0 {
		e.boost(side, STAT_SPEED, -1)
	}
}
