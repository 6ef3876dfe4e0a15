package searcher

import (
	"context"
	"fmt"
	"time"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Request is one decision point. Hypotheses are candidate states that differ only in what is unknown about the opponent.
// The first one is the most likely.
type Request struct {
	Hypotheses []*engine.BattleState `json:"hypotheses"`
}

// Decision is what a bot answers with. Floor and Matrix are only set by bots that search.
type Decision struct {
	ID     uuid.UUID     `json:"id"`
	Bot    string        `json:"bot"`
	Action engine.Action `json:"action"`
	Floor  float64       `json:"floor"`
	Report Report        `json:"report"`
	Matrix *PayoffMatrix `json:"matrix,omitempty"`
}

// Bot picks the user's action for a decision point
type Bot interface {
	Name() string
	Choose(ctx context.Context, req Request) (Decision, error)
}

const (
	BOT_SAFEST    = "safest"
	BOT_HEURISTIC = "heuristic"
)

var BOT_NAMES = []string{BOT_SAFEST, BOT_HEURISTIC}

// BotConfig holds everything NewBot needs to set a bot up
type BotConfig struct {
	Name string
	// MaxDepth caps ChooseDepth, 0 leaves it alone
	MaxDepth  int
	Workers   int
	Budget    Budget
	Rolls     engine.RollPolicy
	Pruning   bool
	Dominance bool
}

func NewBot(cfg BotConfig, dex *engine.Dex) (Bot, error) {
	switch cfg.Name {
	case BOT_SAFEST, "":
		resolver := engine.NewResolver(dex, engine.WithRollPolicy(cfg.Rolls))
		searcher := NewSearcher(dex,
			WithResolver(resolver),
			WithPruning(cfg.Pruning),
			WithRootPruning(cfg.Pruning),
			WithBudget(cfg.Budget),
		)

		var selectorOpts []SelectorOption
		if cfg.Dominance {
			selectorOpts = append(selectorOpts, WithDominancePruning())
		}

		return &SafestBot{
			searcher: searcher,
			selector: NewSelector(selectorOpts...),
			maxDepth: cfg.MaxDepth,
			workers:  cfg.Workers,
		}, nil
	case BOT_HEURISTIC:
		return &HeuristicBot{dex: dex}, nil
	}

	return nil, fmt.Errorf("unknown bot %q, expected one of %v", cfg.Name, BOT_NAMES)
}

// SafestBot searches every hypothesis and plays the maximin action of the merged matrix
type SafestBot struct {
	searcher *Searcher
	selector *Selector
	maxDepth int
	workers  int
}

func NewSafestBot(searcher *Searcher, selector *Selector, maxDepth int, workers int) *SafestBot {
	return &SafestBot{searcher: searcher, selector: selector, maxDepth: maxDepth, workers: workers}
}

func (b *SafestBot) Name() string {
	return BOT_SAFEST
}

func (b *SafestBot) Choose(ctx context.Context, req Request) (Decision, error) {
	if len(req.Hypotheses) == 0 {
		return Decision{}, ErrNoHypotheses
	}

	mine, theirs, err := engine.LegalOptions(req.Hypotheses[0])
	if err != nil {
		return Decision{}, err
	}

	depth := ChooseDepth(len(req.Hypotheses), len(mine), len(theirs))
	if b.maxDepth > 0 {
		depth = min(depth, b.maxDepth)
	}

	matrices, report, err := b.searcher.SearchHypotheses(ctx, req.Hypotheses, depth, b.workers)
	if err != nil {
		return Decision{}, err
	}

	choice, err := b.selector.Choose(matrices...)
	if err != nil {
		return Decision{}, err
	}

	return Decision{
		ID:     uuid.New(),
		Bot:    b.Name(),
		Action: choice.Action,
		Floor:  choice.Floor,
		Report: report,
		Matrix: choice.Matrix,
	}, nil
}

// HeuristicBot looks one move ahead: the most damaging move, or a speed control move when it is slower.
// It only reads the first hypothesis.
type HeuristicBot struct {
	dex *engine.Dex
}

func NewHeuristicBot(dex *engine.Dex) *HeuristicBot {
	return &HeuristicBot{dex: dex}
}

func (b *HeuristicBot) Name() string {
	return BOT_HEURISTIC
}

func (b *HeuristicBot) Choose(ctx context.Context, req Request) (Decision, error) {
	if len(req.Hypotheses) == 0 {
		return Decision{}, ErrNoHypotheses
	}
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	start := time.Now()
	action, err := b.bestAction(req.Hypotheses[0])
	if err != nil {
		return Decision{}, err
	}

	return Decision{
		ID:     uuid.New(),
		Bot:    b.Name(),
		Action: action,
		Report: Report{Elapsed: time.Since(start)},
	}, nil
}

func (b *HeuristicBot) bestAction(state *engine.BattleState) (engine.Action, error) {
	legal, err := engine.LegalActions(state, engine.USER)
	if err != nil {
		return engine.Action{}, err
	}

	// switch on death, and wait while the opponent replaces its pokemon
	if len(legal) == 1 || !state.User.Active.Alive() {
		return legal[0], nil
	}

	mySpeed := engine.EffectiveSpeed(state, engine.USER)
	theirSpeed := engine.EffectiveSpeed(state, engine.OPPONENT)
	slower := mySpeed < theirSpeed
	if state.TrickRoom > 0 {
		slower = mySpeed > theirSpeed
	}

	moveID := ""
	if slower {
		moveID = b.bestSlowingMove(state)
	}
	if moveID == "" {
		moveID = b.bestAttackingMove(state)
	}

	if moveID == "" {
		internalLogger.WithName("heuristic").Info("no move stood out, using the first legal action",
			"pokemon_name", state.User.Active.Name)
		return legal[0], nil
	}

	return FormatDecision(state, legal, engine.NewMoveAction(moveID)), nil
}

func (b *HeuristicBot) bestAttackingMove(state *engine.BattleState) string {
	attacker, defender := state.User.Active, state.Opponent.Active
	cond := state.ConditionsFor(engine.OPPONENT)

	bestMove := ""
	bestDamage := 0

	for _, slot := range attacker.Moves {
		if !slot.Usable() {
			continue
		}
		move, err := b.dex.Move(slot.ID)
		if err != nil {
			continue
		}

		// assume no crits
		rolls := engine.CalculateDamage(attacker, defender, move, cond, false)
		if len(rolls) == 0 {
			continue
		}
		if damage := lo.Sum(rolls) / len(rolls); damage > bestDamage {
			bestMove = slot.ID
			bestDamage = damage
		}
	}

	return bestMove
}

func (b *HeuristicBot) bestSlowingMove(state *engine.BattleState) string {
	defender := state.Opponent.Active

	bestSlowChance := 0
	bestMove := ""

	for _, slot := range state.User.Active.Moves {
		if !slot.Usable() {
			continue
		}
		move, err := b.dex.Move(slot.ID)
		if err != nil {
			continue
		}

		accuracy := move.Accuracy
		if accuracy == 0 {
			accuracy = 100
		}

		chance := 0
		switch {
		case move.Boosts[engine.STAT_SPEED] < 0 && move.TargetsFoe():
			chance = accuracy
		// we make sure the opponent's pokemon can be para'd
		case move.Status == engine.STATUS_PARA.String() && defender.Status == engine.STATUS_NONE && !defender.HasType(engine.TYPENAME_ELECTRIC):
			chance = accuracy
		case move.Secondary != nil && move.Secondary.Boosts[engine.STAT_SPEED] < 0:
			chance = accuracy * move.Secondary.Chance / 100
		}

		if chance > bestSlowChance {
			bestMove = slot.ID
			bestSlowChance = chance
		}
	}

	return bestMove
}

// FormatDecision adds a one time gimmick to a move action. Mega evolution and ultra burst are used as soon as they are
// available, dynamax and tera are saved for the last living pokemon. The result is always one of legal.
func FormatDecision(state *engine.BattleState, legal []engine.Action, action engine.Action) engine.Action {
	if action.Kind != engine.ACTION_MOVE || action.Gimmick != engine.GIMMICK_NONE {
		return action
	}

	lastPokemon := state.User.AliveCount() == 1
	for _, gimmick := range []engine.Gimmick{engine.GIMMICK_MEGA, engine.GIMMICK_ULTRABURST, engine.GIMMICK_DYNAMAX, engine.GIMMICK_TERA} {
		if (gimmick == engine.GIMMICK_DYNAMAX || gimmick == engine.GIMMICK_TERA) && !lastPokemon {
			continue
		}
		candidate := engine.NewGimmickMoveAction(action.Move, gimmick)
		if lo.Contains(legal, candidate) {
			return candidate
		}
	}

	return action
}
