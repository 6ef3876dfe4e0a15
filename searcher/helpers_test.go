package searcher

import (
	"math/rand/v2"
	"testing"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var testRng = rand.New(rand.NewPCG(3, 4))

func testDex(t *testing.T) *engine.Dex {
	t.Helper()
	dex, err := engine.DefaultDex()
	require.NoError(t, err)
	return dex
}

func testPokemon(t *testing.T, dex *engine.Dex, species string, moves ...string) *engine.Pokemon {
	t.Helper()
	s, err := dex.Species(species)
	require.NoError(t, err)

	known := lo.Map(moves, func(id string, _ int) *engine.Move {
		move, err := dex.Move(id)
		require.NoError(t, err)
		return move
	})

	return engine.NewPokeBuilder(s, testRng).SetMoves(known...).Build()
}

// duelState is a small two pokemon a side battle used by the search tests
func duelState(t *testing.T, dex *engine.Dex) *engine.BattleState {
	t.Helper()
	user := testPokemon(t, dex, "garchomp", "earthquake", "dragonclaw")
	userReserve := testPokemon(t, dex, "skarmory", "bravebird", "roost")
	opponent := testPokemon(t, dex, "heatran", "flamethrower", "protect")
	opponentReserve := testPokemon(t, dex, "rotomwash", "hydropump", "thunderbolt")

	return engine.NewState(engine.NewSide(user, userReserve), engine.NewSide(opponent, opponentReserve))
}

func move(id string) engine.Action {
	return engine.NewMoveAction(id)
}

// fixedMatrix builds a fully computed single hypothesis matrix
func fixedMatrix(mine []engine.Action, theirs []engine.Action, scores [][]float64) *PayoffMatrix {
	m := NewPayoffMatrix(mine, keysFor(0, theirs))
	for i := range scores {
		for j, score := range scores[i] {
			m.Set(i, j, score)
		}
	}
	return m
}
