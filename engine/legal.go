package engine

import (
	"fmt"
	"slices"
)

var gimmickOrder = []Gimmick{GIMMICK_MEGA, GIMMICK_TERA, GIMMICK_DYNAMAX, GIMMICK_ULTRABURST}

// LegalActions lists what the side may do this turn: usable moves (each gimmick variant listed after the plain move),
// then switches to living reserve members unless trapped. Struggle stands in when no move is usable.
// A side whose active pokemon fainted may only switch, and the other side waits.
func LegalActions(state *BattleState, id SideID) ([]Action, error) {
	own, opposing := state.Sides(id)
	active := own.Active

	if !active.Alive() {
		switches := switchActions(own)
		if len(switches) == 0 {
			return nil, fmt.Errorf("%s side: fainted with no replacement: %w", id, ErrNoLegalAction)
		}
		return switches, nil
	}

	if opposing.MustSwitch() {
		return []Action{NewWaitAction()}, nil
	}

	actions := make([]Action, 0, 8)
	for _, slot := range active.Moves {
		if !slot.Usable() {
			continue
		}
		actions = append(actions, NewMoveAction(slot.ID))
		for _, gimmick := range gimmickOrder {
			if active.CanUseGimmick(gimmick) && !own.GimmicksUsed.Has(gimmick) {
				actions = append(actions, NewGimmickMoveAction(slot.ID, gimmick))
			}
		}
	}

	if len(actions) == 0 {
		actions = append(actions, NewMoveAction(STRUGGLE.ID))
	}

	if !Trapped(state, id) {
		actions = append(actions, switchActions(own)...)
	}

	return actions, nil
}

func switchActions(side *Side) []Action {
	actions := make([]Action, 0, len(side.Reserve))
	for _, name := range side.AliveReserve() {
		actions = append(actions, NewSwitchAction(name))
	}
	return actions
}

// LegalOptions returns the legal actions of both sides
func LegalOptions(state *BattleState) ([]Action, []Action, error) {
	mine, err := LegalActions(state, USER)
	if err != nil {
		return nil, nil, err
	}
	theirs, err := LegalActions(state, OPPONENT)
	if err != nil {
		return nil, nil, err
	}
	return mine, theirs, nil
}

// Trapped is true when the side's active pokemon cannot switch out voluntarily
func Trapped(state *BattleState, id SideID) bool {
	own, opposing := state.Sides(id)
	active := own.Active

	if active.HasType(TYPENAME_GHOST) || active.Item == "shedshell" {
		return false
	}
	if active.Volatiles.Has(VOLATILE_TRAPPED) {
		return true
	}

	if !opposing.Active.Alive() {
		return false
	}
	switch opposing.Active.Ability {
	case "shadowtag":
		return active.Ability != "shadowtag"
	case "arenatrap":
		return active.Grounded()
	case "magnetpull":
		return active.HasType(TYPENAME_STEEL)
	}

	return false
}

// ValidateAction rejects anything LegalActions would not list
func ValidateAction(state *BattleState, id SideID, action Action) error {
	legal, err := LegalActions(state, id)
	if err != nil {
		return err
	}
	if !slices.Contains(legal, action) {
		return fmt.Errorf("%s side: %q: %w", id, action, ErrIllegalAction)
	}
	return nil
}
