package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ActionKind int

const (
	ACTION_MOVE ActionKind = iota + 1
	ACTION_SWITCH
	// the side does nothing while the other side replaces a fainted pokemon
	ACTION_WAIT
)

// Action is one side's choice for a turn. It is comparable so it can key payoff matrices.
type Action struct {
	Kind ActionKind
	// move id for ACTION_MOVE
	Move string
	// reserve name for ACTION_SWITCH
	Target  string
	Gimmick Gimmick
}

func NewMoveAction(move string) Action {
	return Action{Kind: ACTION_MOVE, Move: move}
}

func NewGimmickMoveAction(move string, gimmick Gimmick) Action {
	return Action{Kind: ACTION_MOVE, Move: move, Gimmick: gimmick}
}

func NewSwitchAction(target string) Action {
	return Action{Kind: ACTION_SWITCH, Target: target}
}

func NewWaitAction() Action {
	return Action{Kind: ACTION_WAIT}
}

func (a Action) IsSwitch() bool {
	return a.Kind == ACTION_SWITCH
}

// String is the compact form used in logs, json and the wire formatter, e.g. "move earthquake tera" or "switch garchomp"
func (a Action) String() string {
	switch a.Kind {
	case ACTION_MOVE:
		if a.Gimmick != GIMMICK_NONE {
			return fmt.Sprintf("move %s %s", a.Move, a.Gimmick)
		}
		return "move " + a.Move
	case ACTION_SWITCH:
		return "switch " + a.Target
	case ACTION_WAIT:
		return "wait"
	}
	return "unknown"
}

// DisplayName is a human readable label, e.g. "Earthquake (Tera)"
func (a Action) DisplayName() string {
	title := cases.Title(language.English)
	switch a.Kind {
	case ACTION_MOVE:
		if a.Gimmick != GIMMICK_NONE {
			return fmt.Sprintf("%s (%s)", title.String(a.Move), title.String(a.Gimmick.String()))
		}
		return title.String(a.Move)
	case ACTION_SWITCH:
		return "Switch to " + title.String(a.Target)
	}
	return title.String(a.String())
}

func ParseAction(s string) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("empty action")
	}

	switch fields[0] {
	case "move":
		if len(fields) < 2 || len(fields) > 3 {
			return Action{}, fmt.Errorf("malformed move action %q", s)
		}
		action := NewMoveAction(ToID(fields[1]))
		if len(fields) == 3 {
			if err := action.Gimmick.UnmarshalText([]byte(fields[2])); err != nil {
				return Action{}, fmt.Errorf("malformed move action %q: %w", s, err)
			}
		}
		return action, nil
	case "switch":
		if len(fields) != 2 {
			return Action{}, fmt.Errorf("malformed switch action %q", s)
		}
		return NewSwitchAction(fields[1]), nil
	case "wait":
		return NewWaitAction(), nil
	}

	return Action{}, fmt.Errorf("unknown action %q", s)
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	action, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = action
	return nil
}
