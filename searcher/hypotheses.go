package searcher

import (
	"context"
	"fmt"
	"runtime"

	"github.com/cjdiaz98/showdown/engine"
	"golang.org/x/sync/errgroup"
)

const (
	MULTI_HYPOTHESIS_DEPTH  = 2
	SINGLE_HYPOTHESIS_DEPTH = 3
	// below this many action pairs the search goes one turn deeper
	SMALL_ACTION_SPACE = 20
)

// ChooseDepth picks how many turns to search. Several hypotheses cost a search each so they get less depth.
// A single hypothesis with a small action space gets one more turn.
func ChooseDepth(hypotheses, mine, theirs int) int {
	depth := SINGLE_HYPOTHESIS_DEPTH
	if hypotheses > 1 {
		return MULTI_HYPOTHESIS_DEPTH
	}
	if mine > 1 && theirs > 1 && mine*theirs < SMALL_ACTION_SPACE {
		depth++
	}
	return depth
}

// SearchHypotheses searches every hypothesis on its own clone, at most workers at a time, and returns their matrices
// in hypothesis order. Row pruning of the returned matrices is off when there is more than one hypothesis
// since a row that loses inside one hypothesis can still be the safest once they are merged.
func (s *Searcher) SearchHypotheses(ctx context.Context, hypotheses []*engine.BattleState, depth int, workers int) ([]*PayoffMatrix, Report, error) {
	if len(hypotheses) == 0 {
		return nil, Report{}, ErrNoHypotheses
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	rootPruning := s.rootPruning && len(hypotheses) == 1
	matrices := make([]*PayoffMatrix, len(hypotheses))
	reports := make([]Report, len(hypotheses))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for h, hypothesis := range hypotheses {
		state := hypothesis.Clone()
		group.Go(func() error {
			mine, theirs, err := engine.LegalOptions(state)
			if err != nil {
				return fmt.Errorf("hypothesis %d: %w", h, err)
			}

			m, report, err := s.evaluate(groupCtx, state, mine, theirs, depth, rootPruning)
			if err != nil {
				return fmt.Errorf("hypothesis %d: %w", h, err)
			}

			matrices[h] = m
			reports[h] = report
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, Report{}, err
	}

	report := reports[0]
	for _, other := range reports[1:] {
		report = report.merge(other)
	}

	return matrices, report, nil
}
