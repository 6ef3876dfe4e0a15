package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var testRng = rand.New(rand.NewPCG(1, 2))

func testDex(t *testing.T) *Dex {
	t.Helper()
	dex, err := DefaultDex()
	require.NoError(t, err)
	return dex
}

// testPokemon builds a level 100 pokemon with perfect ivs and a neutral nature
func testPokemon(t *testing.T, dex *Dex, species string, moves ...string) *Pokemon {
	t.Helper()
	s, err := dex.Species(species)
	require.NoError(t, err)

	known := lo.Map(moves, func(id string, _ int) *Move {
		move, err := dex.Move(id)
		require.NoError(t, err)
		return move
	})

	return NewPokeBuilder(s, testRng).SetMoves(known...).Build()
}

func testMove(t *testing.T, dex *Dex, id string) *Move {
	t.Helper()
	move, err := dex.Move(id)
	require.NoError(t, err)
	return move
}

func testState(user, opponent *Pokemon, reserves ...[]*Pokemon) *BattleState {
	var userReserve, opponentReserve []*Pokemon
	if len(reserves) > 0 {
		userReserve = reserves[0]
	}
	if len(reserves) > 1 {
		opponentReserve = reserves[1]
	}
	return NewState(NewSide(user, userReserve...), NewSide(opponent, opponentReserve...))
}

func totalProbability(outcomes []Outcome) float64 {
	return lo.SumBy(outcomes, func(o Outcome) float64 { return o.Probability })
}

func firstDamage(instructions []Instruction) (DamageInstruction, bool) {
	for _, instruction := range instructions {
		if damage, ok := instruction.(DamageInstruction); ok {
			return damage, true
		}
	}
	return DamageInstruction{}, false
}
