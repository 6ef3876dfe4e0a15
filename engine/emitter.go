package engine

// emitter builds an instruction list while keeping the state in step with it, so each helper can read
// the result of the edits before it. undo must be called once the branch has been explored.
type emitter struct {
	mut    *StateMutator
	instrs []Instruction
}

func (e *emitter) state() *BattleState {
	return e.mut.State
}

func (e *emitter) add(instruction Instruction) {
	e.mut.ApplyOne(instruction)
	e.instrs = append(e.instrs, instruction)
}

func (e *emitter) undo() {
	e.mut.Reverse(e.instrs)
	e.instrs = nil
}

func (e *emitter) active(side SideID) *Pokemon {
	return e.state().Side(side).Active
}

// damage deals up to amount and returns what was actually taken off
func (e *emitter) damage(side SideID, amount int) int {
	amount = min(amount, e.active(side).Hp)
	if amount <= 0 {
		return 0
	}
	e.add(DamageInstruction{Side: side, Amount: amount})
	return amount
}

// heal restores up to amount. Fainted pokemon are not healed.
func (e *emitter) heal(side SideID, amount int) int {
	p := e.active(side)
	if !p.Alive() {
		return 0
	}
	amount = min(amount, p.MaxHp-p.Hp)
	if amount <= 0 {
		return 0
	}
	e.add(HealInstruction{Side: side, Amount: amount})
	return amount
}

// boost changes a stage, clamped to the legal range
func (e *emitter) boost(side SideID, stat Stat, amount int) {
	p := e.active(side)
	if !p.Alive() {
		return
	}
	current := p.Boosts[stat]
	delta := clamp(current+amount, MIN_STAGE, MAX_STAGE) - current
	if delta == 0 {
		return
	}
	e.add(BoostInstruction{Side: side, Stat: stat, Amount: delta})
}

func (e *emitter) boosts(side SideID, boosts Boosts) {
	for stat, amount := range boosts {
		if amount != 0 {
			e.boost(side, Stat(stat), amount)
		}
	}
}

func (e *emitter) clearBoosts(side SideID) {
	for stat, stage := range e.active(side).Boosts {
		if stage != 0 {
			e.add(BoostInstruction{Side: side, Stat: Stat(stat), Amount: -stage})
		}
	}
}

// setStatus puts a major status on a pokemon that has none. Immunity checks are up to the caller.
func (e *emitter) setStatus(side SideID, status Status) bool {
	p := e.active(side)
	if !p.Alive() || p.Status != STATUS_NONE || status == STATUS_NONE {
		return false
	}

	e.add(StatusInstruction{Side: side, Old: STATUS_NONE, New: status})
	if status == STATUS_SLEEP && p.SleepTurns != 0 {
		e.add(SleepTurnsInstruction{Side: side, Old: p.SleepTurns, New: 0})
	}
	if status == STATUS_TOXIC && p.ToxicCount != 0 {
		e.add(ToxicCountInstruction{Side: side, Old: p.ToxicCount, New: 0})
	}
	return true
}

func (e *emitter) cureStatus(side SideID) {
	p := e.active(side)
	if p.Status == STATUS_NONE {
		return
	}
	e.add(StatusInstruction{Side: side, Old: p.Status, New: STATUS_NONE})
	if p.SleepTurns != 0 {
		e.add(SleepTurnsInstruction{Side: side, Old: p.SleepTurns, New: 0})
	}
}

func (e *emitter) addVolatile(side SideID, v Volatile) bool {
	p := e.active(side)
	if !p.Alive() || p.Volatiles.Has(v) {
		return false
	}
	e.add(VolatileInstruction{Side: side, Volatile: v, Add: true})
	return true
}

func (e *emitter) removeVolatile(side SideID, v Volatile) {
	if !e.active(side).Volatiles.Has(v) {
		return
	}
	e.add(VolatileInstruction{Side: side, Volatile: v, Add: false})
}

// setSideCondition moves a side condition to value
func (e *emitter) setSideCondition(side SideID, cond SideCondition, value int) {
	current := e.state().Side(side).Conditions[cond]
	if current == value {
		return
	}
	e.add(SideConditionInstruction{Side: side, Condition: cond, Amount: value - current})
}

func (e *emitter) setWeather(weather Weather) {
	old := e.state().Weather
	if old == weather {
		return
	}
	e.add(WeatherInstruction{Old: old, New: weather})
}

func (e *emitter) setTerrain(terrain Terrain) {
	old := e.state().Terrain
	if old == terrain {
		return
	}
	e.add(TerrainInstruction{Old: old, New: terrain})
}

func (e *emitter) setTrickRoom(turns int) {
	old := e.state().TrickRoom
	if old == turns {
		return
	}
	e.add(TrickRoomInstruction{Old: old, New: turns})
}
