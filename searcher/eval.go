package searcher

import (
	"github.com/cjdiaz98/showdown/engine"
)

// Evaluator scores a state from the user's point of view, higher is better
type Evaluator func(state *engine.BattleState) float64

const (
	WIN_SCORE   = 1000.0
	ALIVE_BONUS = 30.0
	HP_WEIGHT   = 50.0

	BOOST_WEIGHT = 4.0
	SPEED_WEIGHT = 6.0
)

var statusPenalty = map[engine.Status]float64{
	engine.STATUS_BURN:   12,
	engine.STATUS_PARA:   10,
	engine.STATUS_SLEEP:  16,
	engine.STATUS_FROZEN: 20,
	engine.STATUS_POISON: 6,
	engine.STATUS_TOXIC:  10,
}

type conditionWeight struct {
	condition engine.SideCondition
	weight    float64
}

// per layer for hazards, flat for everything else. A slice keeps the float sums in a fixed order.
var sideConditionScore = []conditionWeight{
	{engine.SIDE_STEALTHROCK, -8},
	{engine.SIDE_SPIKES, -5},
	{engine.SIDE_TOXICSPIKES, -5},
	{engine.SIDE_STICKYWEB, -6},
	{engine.SIDE_REFLECT, 6},
	{engine.SIDE_LIGHTSCREEN, 6},
	{engine.SIDE_AURORAVEIL, 9},
	{engine.SIDE_TAILWIND, 5},
}

// Evaluate is the default static evaluation: the user's side score minus the opponent's,
// plus or minus WIN_SCORE once a side has lost
func Evaluate(state *engine.BattleState) float64 {
	score := sideScore(state, engine.USER) - sideScore(state, engine.OPPONENT)

	switch {
	case state.Opponent.Lost() && !state.User.Lost():
		score += WIN_SCORE
	case state.User.Lost() && !state.Opponent.Lost():
		score -= WIN_SCORE
	}

	return score
}

func sideScore(state *engine.BattleState, id engine.SideID) float64 {
	side := state.Side(id)
	score := 0.0

	for _, p := range side.Roster() {
		if !p.Alive() {
			continue
		}
		score += ALIVE_BONUS + HP_WEIGHT*p.HpPercent()
		score -= statusPenalty[p.Status]
	}

	if active := side.Active; active.Alive() {
		for stat, stage := range active.Boosts {
			switch engine.Stat(stat) {
			case engine.STAT_SPEED:
				score += SPEED_WEIGHT * float64(stage)
			case engine.STAT_ACCURACY, engine.STAT_EVASION:
			default:
				score += BOOST_WEIGHT * float64(stage)
			}
		}
	}

	// hazards only matter while something is left to switch in
	hasReserve := len(side.AliveReserve()) > 0
	for _, cw := range sideConditionScore {
		amount, weight := side.Conditions[cw.condition], cw.weight
		if amount == 0 || (weight < 0 && !hasReserve) {
			continue
		}
		if weight < 0 {
			score += weight * float64(amount)
		} else {
			score += weight
		}
	}

	return score
}
