package engine

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestResolveAddsUpAndRestoresState(t *testing.T) {
	dex := testDex(t)
	user := testPokemon(t, dex, "garchomp", "earthquake", "dragonclaw", "swordsdance", "stealthrock")
	opponent := testPokemon(t, dex, "gyarados", "dragondance", "bravebird", "thunderwave", "protect")
	userReserve := testPokemon(t, dex, "ferrothorn", "leechseed", "spikes", "protect", "ironhead")
	opponentReserve := testPokemon(t, dex, "toxapex", "toxic", "scald", "recover", "toxicspikes")
	state := testState(user, opponent, []*Pokemon{userReserve}, []*Pokemon{opponentReserve})
	state.Weather = Weather{Kind: WEATHER_SANDSTORM, Turns: 3}
	state.User.Conditions[SIDE_SPIKES] = 1

	resolver := NewResolver(dex, WithRollPolicy(ROLLS_MINMAX))
	mine, theirs, err := LegalOptions(state)
	require.NoError(t, err)

	before := state.Clone()
	for _, userAction := range mine {
		for _, opponentAction := range theirs {
			outcomes, err := resolver.Resolve(state, userAction, opponentAction)
			require.NoError(t, err)
			require.NotEmpty(t, outcomes)
			require.InDelta(t, 1.0, totalProbability(outcomes), 1e-9, "%s / %s", userAction, opponentAction)
			require.Equal(t, before, state, "%s / %s", userAction, opponentAction)
		}
	}
}

func TestSpeedTieBranches(t *testing.T) {
	dex := testDex(t)
	state := testState(testPokemon(t, dex, "bulbasaur", "tackle"), testPokemon(t, dex, "bulbasaur", "tackle"))

	outcomes, err := NewResolver(dex).Resolve(state, NewMoveAction("tackle"), NewMoveAction("tackle"))
	require.NoError(t, err)

	userFirst := lo.SumBy(outcomes, func(o Outcome) float64 {
		damage, ok := firstDamage(o.Instructions)
		require.True(t, ok)
		if damage.Side == OPPONENT {
			return o.Probability
		}
		return 0
	})
	require.InDelta(t, 0.5, userFirst, 1e-9)

	damage, _ := firstDamage(outcomes[0].Instructions)
	require.Equal(t, OPPONENT, damage.Side, "user first is listed first")
}

func TestFasterSideMovesFirst(t *testing.T) {
	dex := testDex(t)
	state := testState(testPokemon(t, dex, "pikachu", "tackle", "thunderbolt"), testPokemon(t, dex, "snorlax", "tackle", "quickattack"))
	resolver := NewResolver(dex)

	outcomes, err := resolver.Resolve(state, NewMoveAction("tackle"), NewMoveAction("tackle"))
	require.NoError(t, err)
	for _, outcome := range outcomes {
		damage, _ := firstDamage(outcome.Instructions)
		require.Equal(t, OPPONENT, damage.Side)
	}

	outcomes, err = resolver.Resolve(state, NewMoveAction("tackle"), NewMoveAction("quickattack"))
	require.NoError(t, err)
	for _, outcome := range outcomes {
		damage, _ := firstDamage(outcome.Instructions)
		require.Equal(t, USER, damage.Side, "priority beats speed")
	}

	state.TrickRoom = 3
	outcomes, err = resolver.Resolve(state, NewMoveAction("tackle"), NewMoveAction("tackle"))
	require.NoError(t, err)
	for _, outcome := range outcomes {
		damage, _ := firstDamage(outcome.Instructions)
		require.Equal(t, USER, damage.Side, "trick room flips speed")
	}
}

func TestSwitchGoesBeforeMoves(t *testing.T) {
	dex := testDex(t)
	reserve := testPokemon(t, dex, "snorlax", "tackle")
	state := testState(testPokemon(t, dex, "pikachu", "thunderbolt"), testPokemon(t, dex, "garchomp", "earthquake"), []*Pokemon{reserve})

	outcomes, err := NewResolver(dex).Resolve(state, NewSwitchAction("snorlax"), NewMoveAction("earthquake"))
	require.NoError(t, err)

	for _, outcome := range outcomes {
		require.Equal(t, SwitchInstruction{Side: USER, Out: "pikachu", In: "snorlax"}, outcome.Instructions[0])
	}
	require.Equal(t, "pikachu", state.User.Active.Name)
}

func TestStealthRockOnSwitchIn(t *testing.T) {
	dex := testDex(t)
	charizard := testPokemon(t, dex, "charizard", "flamethrower")
	state := testState(testPokemon(t, dex, "snorlax", "splash"), testPokemon(t, dex, "blissey", "splash"), []*Pokemon{charizard})
	state.User.Conditions[SIDE_STEALTHROCK] = 1

	outcomes, err := NewResolver(dex).Resolve(state, NewSwitchAction("charizard"), NewMoveAction("splash"))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.Contains(t, outcomes[0].Instructions, Instruction(DamageInstruction{Side: USER, Amount: charizard.MaxHp / 2}))
}

func TestFaintedOpponentMustSwitch(t *testing.T) {
	dex := testDex(t)
	opponent := testPokemon(t, dex, "bulbasaur", "tackle")
	opponent.Hp = 1
	reserve := testPokemon(t, dex, "snorlax", "tackle")
	state := testState(testPokemon(t, dex, "pikachu", "tackle"), opponent, nil, []*Pokemon{reserve})

	outcomes, err := NewResolver(dex).Resolve(state, NewMoveAction("tackle"), NewMoveAction("tackle"))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.Equal(t, [2]bool{false, true}, outcomes[0].ForceSwitch)
	require.NotContains(t, outcomes[0].Instructions, Instruction(PPInstruction{Side: OPPONENT, Slot: 0, Amount: 1}))
}

func TestReplacementTurnOnlySwitches(t *testing.T) {
	dex := testDex(t)
	opponent := testPokemon(t, dex, "bulbasaur", "tackle")
	opponent.Hp = 0
	reserve := testPokemon(t, dex, "snorlax", "tackle")
	state := testState(testPokemon(t, dex, "pikachu", "tackle"), opponent, nil, []*Pokemon{reserve})
	state.Weather = Weather{Kind: WEATHER_SANDSTORM, Turns: 3}

	outcomes, err := NewResolver(dex).Resolve(state, NewWaitAction(), NewSwitchAction("snorlax"))
	require.NoError(t, err)
	require.Equal(t, []Outcome{{
		Probability:  1,
		Instructions: []Instruction{SwitchInstruction{Side: OPPONENT, Out: "bulbasaur", In: "snorlax"}},
	}}, outcomes)
}

func TestNothingHappensTurn(t *testing.T) {
	dex := testDex(t)
	state := testState(testPokemon(t, dex, "pikachu", "splash"), testPokemon(t, dex, "snorlax", "splash"))

	outcomes, err := NewResolver(dex).Resolve(state, NewMoveAction("splash"), NewMoveAction("splash"))
	require.NoError(t, err)
	require.Equal(t, []Outcome{{
		Probability: 1,
		Instructions: []Instruction{
			PPInstruction{Side: USER, Slot: 0, Amount: 1},
			PPInstruction{Side: OPPONENT, Slot: 0, Amount: 1},
		},
	}}, outcomes)
}

func TestAccuracyBranches(t *testing.T) {
	dex := testDex(t)
	state := testState(testPokemon(t, dex, "snorlax", "thunderwave"), testPokemon(t, dex, "bulbasaur", "splash"))

	outcomes, err := NewResolver(dex).Resolve(state, NewMoveAction("thunderwave"), NewMoveAction("splash"))
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	paralyzed := lo.SumBy(outcomes, func(o Outcome) float64 {
		if lo.Contains(o.Instructions, Instruction(StatusInstruction{Side: OPPONENT, Old: STATUS_NONE, New: STATUS_PARA})) {
			return o.Probability
		}
		return 0
	})
	require.InDelta(t, 0.9, paralyzed, 1e-9)
}

func TestSleepWakeChance(t *testing.T) {
	dex := testDex(t)
	sleeper := testPokemon(t, dex, "snorlax", "tackle")
	sleeper.Status = STATUS_SLEEP
	sleeper.SleepTurns = 1
	state := testState(sleeper, testPokemon(t, dex, "blissey", "splash"))

	outcomes, err := NewResolver(dex).Resolve(state, NewMoveAction("tackle"), NewMoveAction("splash"))
	require.NoError(t, err)

	woke := lo.SumBy(outcomes, func(o Outcome) float64 {
		if lo.Contains(o.Instructions, Instruction(StatusInstruction{Side: USER, Old: STATUS_SLEEP, New: STATUS_NONE})) {
			return o.Probability
		}
		return 0
	})
	require.InDelta(t, 1.0/3.0, woke, 1e-9)
}

func TestProtectBlocksAttack(t *testing.T) {
	dex := testDex(t)
	state := testState(testPokemon(t, dex, "garchomp", "earthquake"), testPokemon(t, dex, "toxapex", "protect"))

	outcomes, err := NewResolver(dex).Resolve(state, NewMoveAction("earthquake"), NewMoveAction("protect"))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	_, damaged := firstDamage(outcomes[0].Instructions)
	require.False(t, damaged)

	state.Opponent.Conditions[SIDE_PROTECT] = 1
	outcomes, err = NewResolver(dex).Resolve(state, NewMoveAction("earthquake"), NewMoveAction("protect"))
	require.NoError(t, err)
	blocked := lo.SumBy(outcomes, func(o Outcome) float64 {
		if _, damaged := firstDamage(o.Instructions); !damaged {
			return o.Probability
		}
		return 0
	})
	require.InDelta(t, 1.0/3.0, blocked, 1e-9)
}

func TestUnknownMove(t *testing.T) {
	dex := testDex(t)
	state := testState(testPokemon(t, dex, "pikachu", "tackle"), testPokemon(t, dex, "snorlax", "tackle"))

	_, err := NewResolver(dex).Resolve(state, NewMoveAction("hyperbeam"), NewMoveAction("tackle"))
	require.ErrorIs(t, err, ErrUnknownMove)
}

func TestEffectiveSpeed(t *testing.T) {
	dex := testDex(t)
	pikachu := testPokemon(t, dex, "pikachu")
	state := testState(pikachu, testPokemon(t, dex, "snorlax"))
	base := EffectiveSpeed(state, USER)

	pikachu.Status = STATUS_PARA
	require.Equal(t, base/2, EffectiveSpeed(state, USER))

	pikachu.Status = STATUS_NONE
	state.User.Conditions[SIDE_TAILWIND] = 2
	require.Equal(t, base*2, EffectiveSpeed(state, USER))
}
