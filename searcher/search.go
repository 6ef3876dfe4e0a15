package searcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/go-logr/logr"
)

// Budget bounds one decision. Zero values mean no bound.
type Budget struct {
	Timeout time.Duration
	Nodes   int
}

func (b Budget) bounded() bool {
	return b.Timeout > 0 || b.Nodes > 0
}

// Report describes how much of the requested search was actually done
type Report struct {
	RequestedDepth int           `json:"requestedDepth"`
	Depth          int           `json:"depth"`
	Nodes          int           `json:"nodes"`
	Pruned         int           `json:"pruned"`
	Degraded       bool          `json:"degraded"`
	Elapsed        time.Duration `json:"elapsed"`
}

// merge folds the report of another hypothesis into r
func (r Report) merge(other Report) Report {
	return Report{
		RequestedDepth: max(r.RequestedDepth, other.RequestedDepth),
		Depth:          min(r.Depth, other.Depth),
		Nodes:          r.Nodes + other.Nodes,
		Pruned:         r.Pruned + other.Pruned,
		Degraded:       r.Degraded || other.Degraded,
		Elapsed:        max(r.Elapsed, other.Elapsed),
	}
}

// Searcher builds payoff matrices by expanding every outcome of every action pair down to a fixed depth
type Searcher struct {
	resolver    *engine.Resolver
	evaluator   Evaluator
	pruning     bool
	rootPruning bool
	budget      Budget
	logger      logr.Logger
}

type Option func(*Searcher)

// WithPruning turns the row cut-off on or off below the root
func WithPruning(enabled bool) Option {
	return func(s *Searcher) {
		s.pruning = enabled
	}
}

// WithRootPruning turns the row cut-off on or off for the returned matrix itself
func WithRootPruning(enabled bool) Option {
	return func(s *Searcher) {
		s.rootPruning = enabled
	}
}

func WithEvaluator(evaluator Evaluator) Option {
	return func(s *Searcher) {
		s.evaluator = evaluator
	}
}

func WithBudget(budget Budget) Option {
	return func(s *Searcher) {
		s.budget = budget
	}
}

func WithLogger(logger logr.Logger) Option {
	return func(s *Searcher) {
		s.logger = logger
	}
}

func WithResolver(resolver *engine.Resolver) Option {
	return func(s *Searcher) {
		s.resolver = resolver
	}
}

func NewSearcher(dex *engine.Dex, opts ...Option) *Searcher {
	s := &Searcher{
		resolver:    engine.NewResolver(dex),
		evaluator:   Evaluate,
		pruning:     true,
		rootPruning: true,
		logger:      internalLogger.WithName("search"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// errBudget unwinds a search that ran out of budget. It never leaves the package.
var errBudget = errors.New("search budget exhausted")

// Evaluate returns the payoff matrix of mine against theirs searched depth turns deep.
// The state is not modified. Every action must be legal for its side.
//
// Root pruning is on by default: cells cut off by the row cut-off are left out of the returned matrix
// (Pruned, null in json) and every cell that is present holds its exact value. WithRootPruning(false) fills every cell.
//
// With a budget the depths are searched one after another and the deepest complete matrix is returned,
// with Report.Degraded set when the requested depth was not reached. A cancelled ctx abandons the search.
func (s *Searcher) Evaluate(ctx context.Context, state *engine.BattleState, mine, theirs []engine.Action, depth int) (*PayoffMatrix, Report, error) {
	return s.evaluate(ctx, state, mine, theirs, depth, s.rootPruning)
}

func (s *Searcher) evaluate(ctx context.Context, state *engine.BattleState, mine, theirs []engine.Action, depth int, rootPruning bool) (*PayoffMatrix, Report, error) {
	start := time.Now()
	depth = max(depth, 0)
	report := Report{RequestedDepth: depth}

	if len(mine) == 0 || len(theirs) == 0 {
		return nil, report, ErrEmptyMatrix
	}
	if err := state.Validate(); err != nil {
		return nil, report, fmt.Errorf("invalid state: %w", err)
	}
	if err := s.resolver.Dex().CheckState(state); err != nil {
		return nil, report, err
	}
	// a finished battle has no legal actions left to check against, every cell is the leaf value
	if !state.GameOver() {
		if err := validateActions(state, mine, theirs); err != nil {
			return nil, report, err
		}
	}

	run := &search{
		Searcher: s,
		ctx:      ctx,
		mut:      engine.NewStateMutator(state.Clone()),
	}
	if s.budget.Timeout > 0 {
		run.deadline = start.Add(s.budget.Timeout)
	}

	depths := []int{depth}
	if s.budget.bounded() {
		depths = make([]int, 0, depth+1)
		for d := 0; d <= depth; d++ {
			depths = append(depths, d)
		}
	}

	var best *PayoffMatrix
	for _, d := range depths {
		m, err := run.matrix(mine, keysFor(0, theirs), d, rootPruning)
		if errors.Is(err, errBudget) {
			report.Degraded = true
			s.logger.V(1).Info("budget exhausted", "completedDepth", report.Depth, "requestedDepth", depth, "nodes", run.nodes)
			break
		}
		if err != nil {
			return nil, report, err
		}
		best = m
		report.Depth = d
	}

	report.Nodes = run.nodes
	report.Pruned = best.Pruned()
	report.Elapsed = time.Since(start)

	s.logger.V(1).Info("search finished",
		"depth", report.Depth,
		"nodes", report.Nodes,
		"pruned", report.Pruned,
		"degraded", report.Degraded,
		"elapsed", report.Elapsed.String())

	return best, report, nil
}

func validateActions(state *engine.BattleState, mine, theirs []engine.Action) error {
	for _, action := range mine {
		if err := engine.ValidateAction(state, engine.USER, action); err != nil {
			return err
		}
	}
	for _, action := range theirs {
		if err := engine.ValidateAction(state, engine.OPPONENT, action); err != nil {
			return err
		}
	}
	return nil
}

// search is one walk over a private state. It is not safe for concurrent use.
type search struct {
	*Searcher
	ctx      context.Context
	mut      *engine.StateMutator
	nodes    int
	deadline time.Time
}

func (s *search) tick() error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	// depth 0 never ticks, so a budget can always fall back to the static matrix
	if s.budget.Nodes > 0 && s.nodes >= s.budget.Nodes {
		return errBudget
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return errBudget
	}
	s.nodes++
	return nil
}

// matrix fills the payoff matrix of the current state. With prune set a row stops as soon as one of its cells
// falls below the best floor found so far, and the opponent action that did it is tried first from then on.
func (s *search) matrix(mine []engine.Action, theirs []OpponentKey, depth int, prune bool) (*PayoffMatrix, error) {
	m := NewPayoffMatrix(mine, theirs)
	state := s.mut.State

	if depth <= 0 || state.GameOver() {
		leaf := s.evaluator(state)
		for i := range mine {
			for j := range theirs {
				m.Set(i, j, leaf)
			}
		}
		return m, nil
	}

	order := make([]int, len(theirs))
	for j := range order {
		order[j] = j
	}

	bestFloor := math.Inf(-1)
	for i, my := range mine {
		rowFloor := math.Inf(1)
		for pos, j := range order {
			score, err := s.cell(my, theirs[j].Action, depth)
			if err != nil {
				return nil, err
			}
			m.Set(i, j, score)
			rowFloor = min(rowFloor, score)

			if prune && score < bestFloor {
				order = slices.Insert(slices.Delete(order, pos, pos+1), 0, j)
				break
			}
		}
		bestFloor = max(bestFloor, rowFloor)
	}

	return m, nil
}

// cell is the expected score of one action pair: every outcome of the turn weighted by its probability
func (s *search) cell(mine, theirs engine.Action, depth int) (float64, error) {
	if err := s.tick(); err != nil {
		return 0, err
	}

	outcomes, err := s.resolver.Resolve(s.mut.State, mine, theirs)
	if err != nil {
		return 0, err
	}

	expected := 0.0
	for _, outcome := range outcomes {
		s.mut.Apply(outcome.Instructions)
		value, err := s.value(depth - 1)
		s.mut.Reverse(outcome.Instructions)
		if err != nil {
			return 0, err
		}
		expected += outcome.Probability * value
	}

	return expected, nil
}

// value is what the current state is worth when both sides choose again with depth turns left
func (s *search) value(depth int) (float64, error) {
	state := s.mut.State
	if depth <= 0 || state.GameOver() {
		return s.evaluator(state), nil
	}

	mine, theirs, err := engine.LegalOptions(state)
	if err != nil {
		return 0, err
	}

	m, err := s.matrix(mine, keysFor(0, theirs), depth, s.pruning)
	if err != nil {
		return 0, err
	}

	_, floor, err := m.Safest()
	return floor, err
}
