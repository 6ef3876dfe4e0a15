package engine

import (
	"fmt"
	"slices"

	"github.com/go-logr/logr"
)

// Outcome is one way a turn can play out
type Outcome struct {
	Probability  float64
	Instructions []Instruction
	// ForceSwitch marks sides whose active pokemon fainted and that have to pick a replacement before the next turn.
	// The resolver never picks the replacement itself.
	ForceSwitch [2]bool
}

// Resolver turns a state and a pair of actions into every outcome of the turn
type Resolver struct {
	dex   *Dex
	rolls RollPolicy
}

type ResolverOption func(*Resolver)

func WithRollPolicy(policy RollPolicy) ResolverOption {
	return func(r *Resolver) {
		r.rolls = policy
	}
}

func NewResolver(dex *Dex, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		dex:   dex,
		rolls: ROLLS_AVERAGE,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// logger is looked up on every call so a resolver built before SetLogger still logs
func (r *Resolver) logger() logr.Logger {
	return internalLogger.WithName("resolver")
}

func (r *Resolver) Dex() *Dex {
	return r.dex
}

// Resolve lists every outcome of the turn where the user plays userAction and the opponent plays opponentAction.
// The probabilities add up to 1 and outcomes with identical instructions are merged.
// The state is walked in place and is left exactly as it was given.
func (r *Resolver) Resolve(state *BattleState, userAction, opponentAction Action) ([]Outcome, error) {
	actions := [2]Action{userAction, opponentAction}
	moves := [2]*Move{}

	for _, id := range []SideID{USER, OPPONENT} {
		if actions[id].Kind != ACTION_MOVE {
			continue
		}
		move, err := r.dex.Move(actions[id].Move)
		if err != nil {
			return nil, fmt.Errorf("%s action %q: %w", id, actions[id], err)
		}
		moves[id] = move
	}

	t := &turn{
		resolver: r,
		mut:      NewStateMutator(state),
	}
	t.run(actions, moves)

	outcomes := mergeOutcomes(t.outcomes)
	r.logger().V(3).Info("resolved turn", "user", userAction.String(), "opponent", opponentAction.String(), "outcomes", len(outcomes))

	return outcomes, nil
}

func mergeOutcomes(outcomes []Outcome) []Outcome {
	merged := make([]Outcome, 0, len(outcomes))
	for _, outcome := range outcomes {
		i := slices.IndexFunc(merged, func(o Outcome) bool {
			return o.ForceSwitch == outcome.ForceSwitch && slices.Equal(o.Instructions, outcome.Instructions)
		})
		if i == -1 {
			merged = append(merged, outcome)
		} else {
			merged[i].Probability += outcome.Probability
		}
	}
	return merged
}

// path is the branch currently being explored. The state always has its instructions applied.
type path struct {
	probability  float64
	instructions []Instruction
}

func (p path) extend(probability float64, instrs []Instruction) path {
	return path{
		probability:  p.probability * probability,
		instructions: append(slices.Clip(p.instructions), instrs...),
	}
}

type next func(path)

type step func(p path, k next)

type turn struct {
	resolver *Resolver
	mut      *StateMutator
	outcomes []Outcome
}

func (t *turn) state() *BattleState {
	return t.mut.State
}

func (t *turn) emitter() *emitter {
	return &emitter{mut: t.mut}
}

// branch explores a child with the given probability whose instructions are produced by build.
// build may be nil for a branch that changes nothing.
func (t *turn) branch(p path, probability float64, build func(e *emitter), k next) {
	if probability <= 0 {
		return
	}
	e := t.emitter()
	if build != nil {
		build(e)
	}
	k(p.extend(probability, e.instrs))
	e.undo()
}

// chance splits into an effect branch and a nothing-happens branch. An effect with no instructions is not split.
func (t *turn) chance(p path, probability float64, build func(e *emitter), k next) {
	if probability >= 1 {
		t.branch(p, 1, build, k)
		return
	}
	if probability <= 0 {
		k(p)
		return
	}

	e := t.emitter()
	build(e)
	if len(e.instrs) == 0 {
		k(p)
		return
	}
	k(p.extend(probability, e.instrs))
	e.undo()

	k(p.extend(1-probability, nil))
}

func (t *turn) chain(p path, steps []step, done next) {
	if len(steps) == 0 {
		done(p)
		return
	}
	steps[0](p, func(p path) {
		t.chain(p, steps[1:], done)
	})
}

func (t *turn) record(p path) {
	state := t.state()
	t.outcomes = append(t.outcomes, Outcome{
		Probability:  p.probability,
		Instructions: slices.Clone(p.instructions),
		ForceSwitch:  [2]bool{state.User.MustSwitch(), state.Opponent.MustSwitch()},
	})
}

type ordering struct {
	probability float64
	first       SideID
}

func (t *turn) run(actions [2]Action, moves [2]*Move) {
	state := t.state()
	root := path{probability: 1}

	// A fainted active means this is the replacement step of a turn: only switches happen
	if !state.User.Active.Alive() || !state.Opponent.Active.Alive() {
		steps := make([]step, 0, 2)
		for _, id := range []SideID{USER, OPPONENT} {
			if actions[id].Kind == ACTION_SWITCH {
				steps = append(steps, t.switchIn(id, actions[id].Target))
			}
		}
		t.chain(root, steps, t.record)
		return
	}

	actors := [2]string{state.User.Active.Name, state.Opponent.Active.Name}

	for _, order := range t.actionOrder(actions, moves) {
		first, second := order.first, order.first.Other()
		steps := []step{
			t.gimmicks(actions),
			t.act(first, actions[first], moves[first], actors[first], true),
			t.act(second, actions[second], moves[second], actors[second], false),
			t.endOfTurn,
		}

		t.branch(root, order.probability, nil, func(p path) {
			t.chain(p, steps, t.record)
		})
	}
}

func (t *turn) gimmicks(actions [2]Action) step {
	return func(p path, k next) {
		t.branch(p, 1, func(e *emitter) {
			for _, id := range []SideID{USER, OPPONENT} {
				gimmick := actions[id].Gimmick
				side := e.state().Side(id)
				if actions[id].Kind != ACTION_MOVE || gimmick == GIMMICK_NONE {
					continue
				}
				if side.GimmicksUsed.Has(gimmick) || !side.Active.CanUseGimmick(gimmick) {
					continue
				}
				e.add(GimmickInstruction{Side: id, Gimmick: gimmick})
			}
		}, k)
	}
}

func (t *turn) act(side SideID, action Action, move *Move, actor string, first bool) step {
	switch action.Kind {
	case ACTION_SWITCH:
		return t.switchIn(side, action.Target)
	case ACTION_MOVE:
		return t.useMove(side, move, actor, first)
	}
	return func(p path, k next) { k(p) }
}

// actionOrder returns who acts first. Exact speed ties split into both orders at even odds, user first listed first.
func (t *turn) actionOrder(actions [2]Action, moves [2]*Move) []ordering {
	userFirst := []ordering{{probability: 1, first: USER}}
	opponentFirst := []ordering{{probability: 1, first: OPPONENT}}

	if actions[USER].Kind == ACTION_WAIT || actions[OPPONENT].Kind == ACTION_WAIT {
		return userFirst
	}

	userPriority := actionPriority(t.state().User.Active, actions[USER], moves[USER])
	opponentPriority := actionPriority(t.state().Opponent.Active, actions[OPPONENT], moves[OPPONENT])
	if userPriority != opponentPriority {
		if userPriority > opponentPriority {
			return userFirst
		}
		return opponentFirst
	}

	userSpeed := EffectiveSpeed(t.state(), USER)
	opponentSpeed := EffectiveSpeed(t.state(), OPPONENT)
	if t.state().TrickRoom > 0 {
		userSpeed, opponentSpeed = opponentSpeed, userSpeed
	}

	switch {
	case userSpeed > opponentSpeed:
		return userFirst
	case userSpeed < opponentSpeed:
		return opponentFirst
	}

	return []ordering{
		{probability: 0.5, first: USER},
		{probability: 0.5, first: OPPONENT},
	}
}

// switches go before every move
const SWITCH_PRIORITY = 7

func actionPriority(p *Pokemon, action Action, move *Move) int {
	switch action.Kind {
	case ACTION_SWITCH:
		return SWITCH_PRIORITY
	case ACTION_MOVE:
		priority := move.Priority
		if p.Ability == "prankster" && move.Category == CATEGORY_STATUS {
			priority++
		}
		return priority
	}
	return 0
}

// EffectiveSpeed is the speed used for turn order, after boosts, paralysis, items, abilities and tailwind
func EffectiveSpeed(state *BattleState, id SideID) int {
	side := state.Side(id)
	p := side.Active
	speed := p.BoostedStat(STAT_SPEED)

	switch {
	case p.Ability == "swiftswim" && state.Weather.Kind == WEATHER_RAIN,
		p.Ability == "chlorophyll" && state.Weather.Kind == WEATHER_SUN,
		p.Ability == "sandrush" && state.Weather.Kind == WEATHER_SANDSTORM,
		p.Ability == "slushrush" && state.Weather.Kind == WEATHER_HAIL:
		speed = modify(speed, 2, 1)
	}

	if p.Item == "choicescarf" {
		speed = modify(speed, 3, 2)
	}

	if side.Conditions[SIDE_TAILWIND] > 0 {
		speed = modify(speed, 2, 1)
	}

	if p.Status == STATUS_PARA && p.Ability != "quickfeet" {
		speed = modify(speed, 1, 2)
	}

	return speed
}
