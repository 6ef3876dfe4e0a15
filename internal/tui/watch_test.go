package tui

import (
	"context"
	"math/rand/v2"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cjdiaz98/showdown/engine"
	"github.com/cjdiaz98/showdown/searcher"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func testMatch(t *testing.T) (*searcher.Match, *engine.Dex) {
	t.Helper()
	dex, err := engine.DefaultDex()
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	build := func(species string, moves ...string) *engine.Pokemon {
		s, err := dex.Species(species)
		require.NoError(t, err)
		known := lo.Map(moves, func(id string, _ int) *engine.Move {
			move, err := dex.Move(id)
			require.NoError(t, err)
			return move
		})
		return engine.NewPokeBuilder(s, rng).SetMoves(known...).Build()
	}

	state := engine.NewState(
		engine.NewSide(build("garchomp", "earthquake", "dragonclaw"), build("skarmory", "bravebird")),
		engine.NewSide(build("heatran", "flamethrower", "protect"), build("rotomwash", "hydropump")),
	)

	safest, err := searcher.NewBot(searcher.BotConfig{Name: searcher.BOT_SAFEST, MaxDepth: 1, Workers: 1, Pruning: true}, dex)
	require.NoError(t, err)

	return searcher.NewMatch(state, engine.NewResolver(dex), safest, searcher.NewHeuristicBot(dex), rng), dex
}

func TestRenderMatrix(t *testing.T) {
	mine := []engine.Action{engine.NewMoveAction("earthquake"), engine.NewMoveAction("dragonclaw")}
	theirs := []engine.Action{engine.NewMoveAction("flamethrower"), engine.NewMoveAction("protect")}
	m := searcher.NewPayoffMatrix(mine, []searcher.OpponentKey{{Action: theirs[0]}, {Action: theirs[1]}})
	m.Set(0, 0, 12.5)
	m.Set(0, 1, 3)
	m.Set(1, 0, -4.25)

	out := RenderMatrix(m, mine[0])
	for _, want := range []string{"Earthquake", "Dragonclaw", "Flamethrower", "Protect", "12.5", "3.0", "-4.2", "-", "floor"} {
		require.Contains(t, out, want)
	}

	require.Contains(t, RenderMatrix(nil, mine[0]), "no payoff matrix")
}

func TestSidePanel(t *testing.T) {
	match, _ := testMatch(t)
	match.State.User.Active.Status = engine.STATUS_BURN
	match.State.User.Conditions[engine.SIDE_REFLECT] = 2

	view := newSidePanel("You", &match.State.User).View()
	require.Contains(t, view, "Garchomp")
	require.Contains(t, view, "BRN")
	require.Contains(t, view, "reflect 2")
	require.Contains(t, view, "Skarmory 100%")
}

func TestWatchModelSteps(t *testing.T) {
	match, _ := testMatch(t)
	model := NewWatchModel(context.Background(), match)

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = next.(WatchModel)
	require.True(t, model.deciding)
	require.NotNil(t, cmd)

	// a second key press while deciding does nothing
	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, next.(WatchModel).deciding)

	msg := model.step()()
	next, _ = model.Update(msg)
	model = next.(WatchModel)
	require.False(t, model.deciding)
	require.NoError(t, model.err)
	require.Equal(t, 1, model.turn)
	require.Len(t, model.lines, 1)
	require.NotNil(t, model.last.User.Matrix)

	view := model.View()
	require.Contains(t, view, "Turn 1")
	require.Contains(t, view, "safest chose")
}

func TestWatchModelQuit(t *testing.T) {
	match, _ := testMatch(t)
	_, cmd := NewWatchModel(context.Background(), match).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
}

func TestWatchModelShowsErrors(t *testing.T) {
	match, _ := testMatch(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := NewWatchModel(ctx, match)
	next, _ := model.Update(model.step()())
	model = next.(WatchModel)
	require.ErrorIs(t, model.err, context.Canceled)
	require.Contains(t, model.View(), "Error")
}
