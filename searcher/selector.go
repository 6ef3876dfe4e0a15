package searcher

import (
	"fmt"
	"slices"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/go-logr/logr"
	"github.com/samber/lo"
)

// MergeHypotheses joins one matrix per hypothesis into a single matrix. The opponent actions of matrix k are tagged
// with hypothesis k so nothing is averaged or compared across hypotheses. Only actions of mine that every
// hypothesis lists are kept, in the order of the first matrix.
func MergeHypotheses(matrices ...*PayoffMatrix) (*PayoffMatrix, error) {
	if len(matrices) == 0 {
		return nil, ErrNoHypotheses
	}

	mine := lo.Filter(matrices[0].Mine, func(action engine.Action, _ int) bool {
		return lo.EveryBy(matrices, func(m *PayoffMatrix) bool { return slices.Contains(m.Mine, action) })
	})

	var theirs []OpponentKey
	for h, m := range matrices {
		for _, key := range m.Theirs {
			theirs = append(theirs, OpponentKey{Hypothesis: h, Action: key.Action})
		}
	}

	merged := NewPayoffMatrix(mine, theirs)
	if merged.Empty() {
		return nil, ErrEmptyMatrix
	}

	for i, action := range mine {
		offset := 0
		for _, m := range matrices {
			row := slices.Index(m.Mine, action)
			for j := range m.Theirs {
				if score, ok := m.At(row, j); ok {
					merged.Set(i, offset+j, score)
				}
			}
			offset += len(m.Theirs)
		}
	}

	return merged, nil
}

// Choice is the action picked by the selector together with its guaranteed floor
type Choice struct {
	Action engine.Action `json:"action"`
	Floor  float64       `json:"floor"`
	Matrix *PayoffMatrix `json:"matrix"`
}

type Selector struct {
	dominance bool
	logger    logr.Logger
}

type SelectorOption func(*Selector)

// WithDominancePruning drops dominated actions before picking. The pick is the same either way.
func WithDominancePruning() SelectorOption {
	return func(s *Selector) {
		s.dominance = true
	}
}

func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		logger: internalLogger.WithName("selector"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Choose merges the matrices and picks the action of mine with the highest worst case.
// Ties go to the action listed first.
func (s *Selector) Choose(matrices ...*PayoffMatrix) (Choice, error) {
	merged, err := MergeHypotheses(matrices...)
	if err != nil {
		return Choice{}, err
	}

	if s.dominance {
		before := [2]int{len(merged.Mine), len(merged.Theirs)}
		merged = RemoveDominated(merged)
		s.logger.V(2).Info("removed dominated actions",
			"mine", before[0]-len(merged.Mine),
			"theirs", before[1]-len(merged.Theirs))
	}

	best, floor, err := merged.Safest()
	if err != nil {
		return Choice{}, err
	}

	s.logger.V(1).Info("chose safest action", "action", merged.Mine[best].String(), "floor", floor)

	return Choice{Action: merged.Mine[best], Floor: floor, Matrix: merged}, nil
}

// ChooseSafest picks the maximin action over the merged matrices without dominance pruning
func ChooseSafest(matrices ...*PayoffMatrix) (engine.Action, error) {
	choice, err := NewSelector().Choose(matrices...)
	if err != nil {
		return engine.Action{}, fmt.Errorf("choose safest: %w", err)
	}
	return choice.Action, nil
}

// RemoveDominated drops opponent actions that are never the worst case of any row, then rows that another complete
// row scores at least as well against every remaining opponent action when that row has a higher floor or is listed
// earlier. Every row minimum sits in a remaining column, so neither step can change which row has the highest floor
// or which one is listed first among ties.
func RemoveDominated(m *PayoffMatrix) *PayoffMatrix {
	cols := make([]bool, len(m.Theirs))
	for j := range m.Theirs {
		cols[j] = !lo.SomeBy(lo.Range(len(m.Mine)), func(i int) bool {
			score, known := m.At(i, j)
			floor, ok := m.Floor(i)
			return known && ok && score == floor
		})
	}

	rows := make([]bool, len(m.Mine))
	for i := range m.Mine {
		if !m.RowComplete(i) {
			continue
		}
		floor, _ := m.Floor(i)
		for k := range m.Mine {
			if k == i || rows[k] || !m.RowComplete(k) {
				continue
			}
			other, _ := m.Floor(k)
			if (other > floor || k < i) && dominates(m, k, i, cols) {
				rows[i] = true
				break
			}
		}
	}

	return m.without(rows, cols)
}

// dominates is true when row k scores at least as well as row i against every opponent action not in removed
func dominates(m *PayoffMatrix, k, i int, removed []bool) bool {
	for j := range m.Theirs {
		if removed[j] {
			continue
		}
		a, _ := m.At(k, j)
		b, _ := m.At(i, j)
		if a < b {
			return false
		}
	}
	return true
}
