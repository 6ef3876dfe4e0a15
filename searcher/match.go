package searcher

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/cjdiaz98/showdown/engine"
)

// Match plays two bots against each other, sampling one outcome of every turn.
// The opponent bot chooses on the mirrored state.
type Match struct {
	State *engine.BattleState
	Turn  int

	resolver *engine.Resolver
	user     Bot
	opponent Bot
	rng      *rand.Rand
	mut      *engine.StateMutator
}

// TurnRecord is what happened in one turn of a match
type TurnRecord struct {
	Turn     int            `json:"turn"`
	User     Decision       `json:"user"`
	Opponent Decision       `json:"opponent"`
	Outcome  engine.Outcome `json:"-"`
}

func NewMatch(state *engine.BattleState, resolver *engine.Resolver, user Bot, opponent Bot, rng *rand.Rand) *Match {
	return &Match{
		State:    state,
		resolver: resolver,
		user:     user,
		opponent: opponent,
		rng:      rng,
		mut:      engine.NewStateMutator(state),
	}
}

func (m *Match) Over() bool {
	return m.State.GameOver()
}

func (m *Match) Winner() (winner engine.SideID, ok bool) {
	return Winner(m.State)
}

// Winner returns the side that still has pokemon left. ok is false while both have some and on a draw.
func Winner(state *engine.BattleState) (winner engine.SideID, ok bool) {
	userLost, opponentLost := state.User.Lost(), state.Opponent.Lost()
	switch {
	case opponentLost && !userLost:
		return engine.USER, true
	case userLost && !opponentLost:
		return engine.OPPONENT, true
	}
	return engine.USER, false
}

// Step asks both bots for an action, resolves the turn and applies one outcome drawn by probability
func (m *Match) Step(ctx context.Context) (TurnRecord, error) {
	if m.Over() {
		return TurnRecord{}, ErrMatchOver
	}

	user, err := m.user.Choose(ctx, Request{Hypotheses: []*engine.BattleState{m.State}})
	if err != nil {
		return TurnRecord{}, fmt.Errorf("turn %d user: %w", m.Turn, err)
	}
	opponent, err := m.opponent.Choose(ctx, Request{Hypotheses: []*engine.BattleState{m.State.Mirror()}})
	if err != nil {
		return TurnRecord{}, fmt.Errorf("turn %d opponent: %w", m.Turn, err)
	}

	outcomes, err := m.resolver.Resolve(m.State, user.Action, opponent.Action)
	if err != nil {
		return TurnRecord{}, fmt.Errorf("turn %d: %w", m.Turn, err)
	}

	outcome := sampleOutcome(outcomes, m.rng.Float64())
	m.mut.Apply(outcome.Instructions)
	m.Turn++

	internalLogger.WithName("match").V(1).Info("turn played",
		"turn", m.Turn,
		"user", user.Action.String(),
		"opponent", opponent.Action.String(),
		"probability", outcome.Probability,
		"instructions", len(outcome.Instructions))

	return TurnRecord{Turn: m.Turn, User: user, Opponent: opponent, Outcome: outcome}, nil
}

// sampleOutcome picks the outcome whose probability interval holds roll, a number in [0, 1)
func sampleOutcome(outcomes []engine.Outcome, roll float64) engine.Outcome {
	cumulative := 0.0
	for _, outcome := range outcomes {
		cumulative += outcome.Probability
		if roll < cumulative {
			return outcome
		}
	}
	// rounding can leave the total a hair under 1
	return outcomes[len(outcomes)-1]
}
