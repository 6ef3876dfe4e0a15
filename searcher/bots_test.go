package searcher

import (
	"context"
	"testing"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHeuristicAttackMove(t *testing.T) {
	dex := testDex(t)
	playerPokemon := testPokemon(t, dex, "charizard", "tackle", "ember", "tailwhip", "scaryface")
	aiPokemon := testPokemon(t, dex, "bulbasaur", "tackle")
	state := engine.NewState(engine.NewSide(playerPokemon), engine.NewSide(aiPokemon))

	decision, err := NewHeuristicBot(dex).Choose(context.Background(), Request{Hypotheses: []*engine.BattleState{state}})
	require.NoError(t, err)
	require.Equal(t, engine.NewMoveAction("ember"), decision.Action)
	require.NotEqual(t, uuid.Nil, decision.ID)
}

func TestHeuristicSlowMove(t *testing.T) {
	dex := testDex(t)
	playerPokemon := testPokemon(t, dex, "snorlax", "tackle", "tailwhip", "scaryface")
	aiPokemon := testPokemon(t, dex, "bulbasaur", "tackle")
	state := engine.NewState(engine.NewSide(playerPokemon), engine.NewSide(aiPokemon))

	decision, err := NewHeuristicBot(dex).Choose(context.Background(), Request{Hypotheses: []*engine.BattleState{state}})
	require.NoError(t, err)
	require.Equal(t, engine.NewMoveAction("scaryface"), decision.Action,
		"pSpeed: %d | aSpeed: %d", engine.EffectiveSpeed(state, engine.USER), engine.EffectiveSpeed(state, engine.OPPONENT))
}

func TestHeuristicSwitchesOnDeath(t *testing.T) {
	dex := testDex(t)
	fainted := testPokemon(t, dex, "pikachu", "thunderbolt")
	fainted.Hp = 0
	state := engine.NewState(
		engine.NewSide(fainted, testPokemon(t, dex, "snorlax", "tackle"), testPokemon(t, dex, "blissey", "seismictoss")),
		engine.NewSide(testPokemon(t, dex, "garchomp", "earthquake")),
	)

	decision, err := NewHeuristicBot(dex).Choose(context.Background(), Request{Hypotheses: []*engine.BattleState{state}})
	require.NoError(t, err)
	require.Equal(t, engine.NewSwitchAction("blissey"), decision.Action)
}

func TestFormatDecisionSavesTera(t *testing.T) {
	dex := testDex(t)
	s, err := dex.Species("garchomp")
	require.NoError(t, err)
	earthquake, err := dex.Move("earthquake")
	require.NoError(t, err)
	garchomp := engine.NewPokeBuilder(s, testRng).SetMoves(earthquake).SetTeraType(engine.TYPENAME_GROUND).Build()
	state := engine.NewState(engine.NewSide(garchomp, testPokemon(t, dex, "snorlax", "tackle")), engine.NewSide(testPokemon(t, dex, "heatran", "flamethrower")))

	legal, err := engine.LegalActions(state, engine.USER)
	require.NoError(t, err)
	require.Equal(t, move("earthquake"), FormatDecision(state, legal, move("earthquake")))

	state.User.Reserve["snorlax"].Hp = 0
	legal, err = engine.LegalActions(state, engine.USER)
	require.NoError(t, err)
	require.Equal(t, engine.NewGimmickMoveAction("earthquake", engine.GIMMICK_TERA), FormatDecision(state, legal, move("earthquake")))

	state.User.Active.CanMega = true
	state.User.Reserve["snorlax"].Hp = 10
	legal, err = engine.LegalActions(state, engine.USER)
	require.NoError(t, err)
	require.Equal(t, engine.NewGimmickMoveAction("earthquake", engine.GIMMICK_MEGA), FormatDecision(state, legal, move("earthquake")))
}

func TestSafestBot(t *testing.T) {
	dex := testDex(t)
	state := duelState(t, dex)

	bot, err := NewBot(BotConfig{Name: BOT_SAFEST, MaxDepth: 1, Workers: 1, Pruning: true, Dominance: true}, dex)
	require.NoError(t, err)
	require.Equal(t, BOT_SAFEST, bot.Name())

	decision, err := bot.Choose(context.Background(), Request{Hypotheses: []*engine.BattleState{state}})
	require.NoError(t, err)
	require.NoError(t, engine.ValidateAction(state, engine.USER, decision.Action))
	require.Equal(t, 1, decision.Report.Depth)
	require.NotNil(t, decision.Matrix)

	_, err = bot.Choose(context.Background(), Request{})
	require.ErrorIs(t, err, ErrNoHypotheses)
}

func TestNewBot(t *testing.T) {
	dex := testDex(t)

	bot, err := NewBot(BotConfig{Name: BOT_HEURISTIC}, dex)
	require.NoError(t, err)
	require.IsType(t, &HeuristicBot{}, bot)

	_, err = NewBot(BotConfig{Name: "random"}, dex)
	require.Error(t, err)
}
