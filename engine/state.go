package engine

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"
)

// SideConditions holds hazard layers and remaining turns of timed effects. In json it is an object of the non-zero entries.
type SideConditions [SIDE_CONDITION_COUNT]int

func (c SideConditions) MarshalJSON() ([]byte, error) {
	m := make(map[string]int)
	for i, v := range c {
		if v != 0 {
			m[sideConditionNames[i]] = v
		}
	}
	return json.Marshal(m)
}

func (c *SideConditions) UnmarshalJSON(data []byte) error {
	m := make(map[SideCondition]int)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	*c = SideConditions{}
	for cond, v := range m {
		c[cond] = v
	}
	return nil
}

// GimmickSet records the one time resources a side has spent
type GimmickSet uint8

func (g GimmickSet) Has(gimmick Gimmick) bool {
	return g&(1<<gimmick) != 0
}

func (g GimmickSet) With(gimmick Gimmick) GimmickSet {
	return g | (1 << gimmick)
}

func (g GimmickSet) Without(gimmick Gimmick) GimmickSet {
	return g &^ (1 << gimmick)
}

// Wish heals the active pokemon when Turns reaches zero
type Wish struct {
	Turns  int `json:"turns"`
	Amount int `json:"amount"`
}

// FutureSight hits the active pokemon of the side it is stored on when Turns reaches zero
type FutureSight struct {
	Turns  int `json:"turns"`
	Damage int `json:"damage"`
}

type Side struct {
	Active *Pokemon `json:"active"`
	// Reserve is keyed by Pokemon.Name and never contains Active
	Reserve map[string]*Pokemon `json:"reserve"`

	Conditions   SideConditions `json:"conditions"`
	Wish         Wish           `json:"wish"`
	FutureSight  FutureSight    `json:"futureSight"`
	GimmicksUsed GimmickSet     `json:"gimmicksUsed,omitempty"`
}

// ReserveNames lists the reserve in a stable order
func (s *Side) ReserveNames() []string {
	names := slices.Collect(maps.Keys(s.Reserve))
	slices.Sort(names)
	return names
}

func (s *Side) AliveReserve() []string {
	return lo.Filter(s.ReserveNames(), func(name string, _ int) bool {
		return s.Reserve[name].Alive()
	})
}

// Lost is true once every pokemon on the side has fainted
func (s *Side) Lost() bool {
	if s.Active != nil && s.Active.Alive() {
		return false
	}
	return len(s.AliveReserve()) == 0
}

// MustSwitch is true when the active pokemon fainted and there is something to replace it with
func (s *Side) MustSwitch() bool {
	return s.Active != nil && !s.Active.Alive() && len(s.AliveReserve()) > 0
}

// Roster lists the active pokemon followed by the reserve
func (s *Side) Roster() []*Pokemon {
	roster := []*Pokemon{s.Active}
	for _, name := range s.ReserveNames() {
		roster = append(roster, s.Reserve[name])
	}
	return roster
}

func (s *Side) AliveCount() int {
	return lo.CountBy(s.Roster(), func(p *Pokemon) bool { return p.Alive() })
}

func (s *Side) Clone() Side {
	newSide := *s
	newSide.Active = s.Active.Clone()
	newSide.Reserve = make(map[string]*Pokemon, len(s.Reserve))
	for name, p := range s.Reserve {
		newSide.Reserve[name] = p.Clone()
	}
	return newSide
}

type Weather struct {
	Kind WeatherKind `json:"kind"`
	// 0 with an active kind means the duration is unknown and the weather does not run out
	Turns int `json:"turns"`
}

type Terrain struct {
	Kind  TerrainKind `json:"kind"`
	Turns int         `json:"turns"`
}

type BattleState struct {
	User     Side `json:"user"`
	Opponent Side `json:"opponent"`

	Weather Weather `json:"weather"`
	Terrain Terrain `json:"terrain"`
	// remaining turns of trick room, 0 when it is not up
	TrickRoom int `json:"trickRoom"`
}

func (b *BattleState) Side(id SideID) *Side {
	if id == USER {
		return &b.User
	}
	return &b.Opponent
}

// Sides returns the side and its opponent
func (b *BattleState) Sides(id SideID) (*Side, *Side) {
	return b.Side(id), b.Side(id.Other())
}

// GameOver is true when either side has no pokemon left
func (b *BattleState) GameOver() bool {
	return b.User.Lost() || b.Opponent.Lost()
}

// Clone creates a deep copy of the state. Search uses it only where states cross workers.
func (b *BattleState) Clone() *BattleState {
	newState := *b
	newState.User = b.User.Clone()
	newState.Opponent = b.Opponent.Clone()
	return &newState
}

// Mirror returns a deep copy seen from the opponent's side, so a bot can choose for the opponent
func (b *BattleState) Mirror() *BattleState {
	newState := b.Clone()
	newState.User, newState.Opponent = newState.Opponent, newState.User
	return newState
}

// Validate checks the ownership rules of a snapshot before it is handed to search
func (b *BattleState) Validate() error {
	for _, id := range []SideID{USER, OPPONENT} {
		side := b.Side(id)
		if side.Active == nil {
			return fmt.Errorf("%s side has no active pokemon", id)
		}
		if _, ok := side.Reserve[side.Active.Name]; ok {
			return fmt.Errorf("%s active pokemon %s is also in reserve", id, side.Active.Name)
		}
		for name, p := range side.Reserve {
			if p == nil || p.Name != name {
				return fmt.Errorf("%s reserve entry %s does not match its pokemon", id, name)
			}
		}
		for _, p := range side.Roster() {
			if p.MaxHp <= 0 {
				return fmt.Errorf("%s pokemon %s has no max hp", id, p.Name)
			}
			if p.Hp < 0 || p.Hp > p.MaxHp {
				return fmt.Errorf("%s pokemon %s has hp %d out of range", id, p.Name, p.Hp)
			}
			if len(p.Types) == 0 || len(p.Types) > 2 {
				return fmt.Errorf("%s pokemon %s has %d types", id, p.Name, len(p.Types))
			}
			for stat, stage := range p.Boosts {
				if stage < MIN_STAGE || stage > MAX_STAGE {
					return fmt.Errorf("%s pokemon %s has %s stage %d out of range", id, p.Name, Stat(stat), stage)
				}
			}
		}
	}
	return nil
}

// ConditionsFor bundles what the damage calculator needs to know about the field when the given side is hit
func (b *BattleState) ConditionsFor(defender SideID) Conditions {
	side := b.Side(defender)
	return Conditions{
		Weather:     b.Weather.Kind,
		Terrain:     b.Terrain.Kind,
		Reflect:     side.Conditions[SIDE_REFLECT] > 0,
		LightScreen: side.Conditions[SIDE_LIGHTSCREEN] > 0,
		AuroraVeil:  side.Conditions[SIDE_AURORAVEIL] > 0,
	}
}
