package searcher

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/cjdiaz98/showdown/engine"
)

// OpponentKey is an opponent action tagged with the hypothesis it was drawn from.
// Actions of different hypotheses are never compared with each other.
type OpponentKey struct {
	Hypothesis int           `json:"hypothesis"`
	Action     engine.Action `json:"action"`
}

func (k OpponentKey) String() string {
	return fmt.Sprintf("h%d %s", k.Hypothesis, k.Action)
}

// PayoffMatrix holds the expected score of every (my action, opponent action) pair.
// Cells cut off by pruning have no score and are left out of every floor.
type PayoffMatrix struct {
	Mine   []engine.Action
	Theirs []OpponentKey

	scores [][]float64
	known  [][]bool
}

func NewPayoffMatrix(mine []engine.Action, theirs []OpponentKey) *PayoffMatrix {
	m := &PayoffMatrix{
		Mine:   slices.Clone(mine),
		Theirs: slices.Clone(theirs),
		scores: make([][]float64, len(mine)),
		known:  make([][]bool, len(mine)),
	}
	for i := range mine {
		m.scores[i] = make([]float64, len(theirs))
		m.known[i] = make([]bool, len(theirs))
	}
	return m
}

func keysFor(hypothesis int, actions []engine.Action) []OpponentKey {
	keys := make([]OpponentKey, len(actions))
	for i, action := range actions {
		keys[i] = OpponentKey{Hypothesis: hypothesis, Action: action}
	}
	return keys
}

func (m *PayoffMatrix) Set(i, j int, score float64) {
	m.scores[i][j] = score
	m.known[i][j] = true
}

// At returns the score of a cell and whether it was computed
func (m *PayoffMatrix) At(i, j int) (float64, bool) {
	return m.scores[i][j], m.known[i][j]
}

// Score looks a cell up by its actions
func (m *PayoffMatrix) Score(mine engine.Action, theirs OpponentKey) (float64, bool) {
	i := slices.Index(m.Mine, mine)
	j := slices.Index(m.Theirs, theirs)
	if i == -1 || j == -1 {
		return 0, false
	}
	return m.At(i, j)
}

// Floor is the worst computed score of row i. It is false for a row with nothing computed.
func (m *PayoffMatrix) Floor(i int) (float64, bool) {
	floor, found := math.Inf(1), false
	for j, known := range m.known[i] {
		if known {
			floor = min(floor, m.scores[i][j])
			found = true
		}
	}
	return floor, found
}

// RowComplete is true when no cell of row i was pruned
func (m *PayoffMatrix) RowComplete(i int) bool {
	return !slices.Contains(m.known[i], false)
}

// Pruned counts the cells that were cut off
func (m *PayoffMatrix) Pruned() int {
	pruned := 0
	for i := range m.known {
		for _, known := range m.known[i] {
			if !known {
				pruned++
			}
		}
	}
	return pruned
}

func (m *PayoffMatrix) Empty() bool {
	return len(m.Mine) == 0 || len(m.Theirs) == 0
}

// Safest returns the row with the highest floor, the first listed one on ties
func (m *PayoffMatrix) Safest() (int, float64, error) {
	if m.Empty() {
		return -1, 0, ErrEmptyMatrix
	}

	best, bestFloor := -1, math.Inf(-1)
	for i := range m.Mine {
		floor, ok := m.Floor(i)
		if ok && (best == -1 || floor > bestFloor) {
			best, bestFloor = i, floor
		}
	}
	if best == -1 {
		return -1, 0, ErrEmptyMatrix
	}
	return best, bestFloor, nil
}

func (m *PayoffMatrix) without(rows []bool, cols []bool) *PayoffMatrix {
	out := &PayoffMatrix{}
	for j, key := range m.Theirs {
		if !cols[j] {
			out.Theirs = append(out.Theirs, key)
		}
	}
	for i, action := range m.Mine {
		if rows[i] {
			continue
		}
		out.Mine = append(out.Mine, action)
		scores := make([]float64, 0, len(out.Theirs))
		known := make([]bool, 0, len(out.Theirs))
		for j := range m.Theirs {
			if !cols[j] {
				scores = append(scores, m.scores[i][j])
				known = append(known, m.known[i][j])
			}
		}
		out.scores = append(out.scores, scores)
		out.known = append(out.known, known)
	}
	return out
}

type matrixJSON struct {
	Mine   []engine.Action `json:"mine"`
	Theirs []OpponentKey   `json:"theirs"`
	// null marks a pruned cell
	Scores [][]*float64 `json:"scores"`
}

func (m *PayoffMatrix) MarshalJSON() ([]byte, error) {
	out := matrixJSON{
		Mine:   m.Mine,
		Theirs: m.Theirs,
		Scores: make([][]*float64, len(m.Mine)),
	}
	for i := range m.Mine {
		out.Scores[i] = make([]*float64, len(m.Theirs))
		for j := range m.Theirs {
			if m.known[i][j] {
				score := m.scores[i][j]
				out.Scores[i][j] = &score
			}
		}
	}
	return json.Marshal(out)
}

func (m *PayoffMatrix) UnmarshalJSON(data []byte) error {
	var in matrixJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in.Scores) != len(in.Mine) {
		return fmt.Errorf("payoff matrix: %d rows of scores for %d actions", len(in.Scores), len(in.Mine))
	}

	*m = *NewPayoffMatrix(in.Mine, in.Theirs)
	for i, row := range in.Scores {
		if len(row) != len(in.Theirs) {
			return fmt.Errorf("payoff matrix: row %d has %d scores for %d opponent actions", i, len(row), len(in.Theirs))
		}
		for j, score := range row {
			if score != nil {
				m.Set(i, j, *score)
			}
		}
	}
	return nil
}
