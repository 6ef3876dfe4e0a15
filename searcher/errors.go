package searcher

import "errors"

var (
	ErrEmptyMatrix  = errors.New("payoff matrix has no actions")
	ErrNoHypotheses = errors.New("no hypotheses to search")
	ErrMatchOver    = errors.New("match is already over")
)
