package searcher

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/stretchr/testify/require"
)

func TestChooseSafestMaximin(t *testing.T) {
	a, b := move("tackle"), move("bodyslam")
	x, y := move("ember"), move("surf")
	m := fixedMatrix([]engine.Action{a, b}, []engine.Action{x, y}, [][]float64{
		{10, -5},
		{2, 3},
	})

	chosen, err := ChooseSafest(m)
	require.NoError(t, err)
	require.Equal(t, b, chosen)

	choice, err := NewSelector().Choose(m)
	require.NoError(t, err)
	require.Equal(t, 2.0, choice.Floor)
}

func TestChooseSafestTieGoesToFirst(t *testing.T) {
	a, b := move("tackle"), move("bodyslam")
	m := fixedMatrix([]engine.Action{a, b}, []engine.Action{move("ember")}, [][]float64{{4}, {4}})

	chosen, err := ChooseSafest(m)
	require.NoError(t, err)
	require.Equal(t, a, chosen)
}

func TestMergeKeepsHypothesesApart(t *testing.T) {
	a := move("tackle")
	x, y := move("ember"), move("surf")
	first := fixedMatrix([]engine.Action{a}, []engine.Action{x}, [][]float64{{1}})
	second := fixedMatrix([]engine.Action{a}, []engine.Action{y}, [][]float64{{2}})

	merged, err := MergeHypotheses(first, second)
	require.NoError(t, err)
	require.Equal(t, []OpponentKey{{Hypothesis: 0, Action: x}, {Hypothesis: 1, Action: y}}, merged.Theirs)

	score, ok := merged.Score(a, OpponentKey{Hypothesis: 1, Action: y})
	require.True(t, ok)
	require.Equal(t, 2.0, score)

	_, ok = merged.Score(a, OpponentKey{Hypothesis: 0, Action: y})
	require.False(t, ok)
}

func TestMergeSameActionInBothHypotheses(t *testing.T) {
	a, b := move("tackle"), move("bodyslam")
	x := move("ember")
	first := fixedMatrix([]engine.Action{a, b}, []engine.Action{x}, [][]float64{{5}, {1}})
	second := fixedMatrix([]engine.Action{a, b}, []engine.Action{x}, [][]float64{{-3}, {2}})

	merged, err := MergeHypotheses(first, second)
	require.NoError(t, err)
	require.Len(t, merged.Theirs, 2)

	chosen, err := ChooseSafest(first, second)
	require.NoError(t, err)
	require.Equal(t, b, chosen)
}

func TestMergeErrors(t *testing.T) {
	_, err := MergeHypotheses()
	require.ErrorIs(t, err, ErrNoHypotheses)

	_, err = ChooseSafest(NewPayoffMatrix(nil, nil))
	require.ErrorIs(t, err, ErrEmptyMatrix)
}

func TestDominancePruningKeepsChoice(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	mine := []engine.Action{move("tackle"), move("bodyslam"), move("surf"), move("ember"), engine.NewSwitchAction("snorlax")}
	theirs := []engine.Action{move("earthquake"), move("icebeam"), move("toxic"), engine.NewSwitchAction("blissey")}

	for range 200 {
		scores := make([][]float64, len(mine))
		for i := range scores {
			scores[i] = make([]float64, len(theirs))
			for j := range scores[i] {
				// few distinct values so ties and dominance happen often
				scores[i][j] = float64(rng.IntN(5))
			}
		}
		m := fixedMatrix(mine, theirs, scores)

		plain, err := NewSelector().Choose(m)
		require.NoError(t, err)
		pruned, err := NewSelector(WithDominancePruning()).Choose(m)
		require.NoError(t, err)

		require.Equal(t, plain.Action, pruned.Action, "scores %v", scores)
		require.Equal(t, plain.Floor, pruned.Floor)
		require.LessOrEqual(t, len(pruned.Matrix.Mine), len(mine))
	}
}

func TestRemoveDominated(t *testing.T) {
	a, b, c := move("tackle"), move("bodyslam"), move("surf")
	x, y := move("ember"), move("icebeam")
	m := fixedMatrix([]engine.Action{a, b, c}, []engine.Action{x, y}, [][]float64{
		{1, 5},
		{3, 6},
		{2, 8},
	})

	reduced := RemoveDominated(m)
	// y is never a row minimum, then b beats a and c against x alone
	require.Equal(t, []OpponentKey{{Action: x}}, reduced.Theirs)
	require.Equal(t, []engine.Action{b}, reduced.Mine)

	choice, err := NewSelector(WithDominancePruning()).Choose(m)
	require.NoError(t, err)
	require.Equal(t, b, choice.Action)
	require.Equal(t, 3.0, choice.Floor)
}

func TestMatrixJSON(t *testing.T) {
	a, b := move("tackle"), move("bodyslam")
	x, y := move("ember"), move("surf")
	m := NewPayoffMatrix([]engine.Action{a, b}, keysFor(0, []engine.Action{x, y}))
	m.Set(0, 0, 1.5)
	m.Set(0, 1, -2)
	m.Set(1, 1, -7)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"mine": ["move tackle", "move bodyslam"],
		"theirs": [{"hypothesis": 0, "action": "move ember"}, {"hypothesis": 0, "action": "move surf"}],
		"scores": [[1.5, -2], [null, -7]]
	}`, string(data))

	var decoded PayoffMatrix
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, m, &decoded)
	require.Equal(t, 1, decoded.Pruned())
}
