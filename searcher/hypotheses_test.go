package searcher

import (
	"context"
	"testing"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/stretchr/testify/require"
)

func TestChooseDepth(t *testing.T) {
	require.Equal(t, 3, ChooseDepth(1, 6, 6))
	require.Equal(t, 2, ChooseDepth(3, 6, 6))
	require.Equal(t, 4, ChooseDepth(1, 3, 4))
	require.Equal(t, 2, ChooseDepth(2, 3, 4), "several hypotheses never go deeper")
	require.Equal(t, 3, ChooseDepth(1, 1, 4), "one side without a choice")
}

func TestSearchHypotheses(t *testing.T) {
	dex := testDex(t)
	known := duelState(t, dex)

	// the second hypothesis has a different unrevealed opponent reserve
	other := known.Clone()
	delete(other.Opponent.Reserve, "rotomwash")
	toxapex := testPokemon(t, dex, "toxapex", "scald", "recover")
	other.Opponent.Reserve[toxapex.Name] = toxapex

	hypotheses := []*engine.BattleState{known, other}
	matrices, report, err := NewSearcher(dex).SearchHypotheses(context.Background(), hypotheses, 1, 2)
	require.NoError(t, err)
	require.Len(t, matrices, 2)
	require.Equal(t, 1, report.Depth)
	require.Positive(t, report.Nodes)

	for _, m := range matrices {
		require.Zero(t, m.Pruned(), "merged roots keep every cell")
	}
	require.Contains(t, matrices[1].Theirs, OpponentKey{Action: engine.NewSwitchAction("toxapex")})
	require.NotContains(t, matrices[0].Theirs, OpponentKey{Action: engine.NewSwitchAction("toxapex")})

	merged, err := MergeHypotheses(matrices...)
	require.NoError(t, err)
	require.Len(t, merged.Theirs, len(matrices[0].Theirs)+len(matrices[1].Theirs))
	require.Contains(t, merged.Theirs, OpponentKey{Hypothesis: 1, Action: engine.NewSwitchAction("toxapex")})

	_, _, err = NewSearcher(dex).SearchHypotheses(context.Background(), nil, 1, 1)
	require.ErrorIs(t, err, ErrNoHypotheses)
}
