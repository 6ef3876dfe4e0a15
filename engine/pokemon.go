package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"
	"golang.org/x/exp/constraints"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Stats struct {
	Attack   int `json:"atk"`
	Def      int `json:"def"`
	SpAttack int `json:"spa"`
	SpDef    int `json:"spd"`
	Speed    int `json:"spe"`
}

func (s Stats) Get(stat Stat) int {
	switch stat {
	case STAT_ATTACK:
		return s.Attack
	case STAT_DEFENSE:
		return s.Def
	case STAT_SPATTACK:
		return s.SpAttack
	case STAT_SPDEF:
		return s.SpDef
	case STAT_SPEED:
		return s.Speed
	}
	return 0
}

// Boosts holds a stage in [-6, 6] per Stat. In json it is an object of the non-zero stages, e.g. {"atk": 2}.
type Boosts [STAT_COUNT]int

func (b Boosts) IsZero() bool {
	return b == Boosts{}
}

func (b Boosts) MarshalJSON() ([]byte, error) {
	m := make(map[string]int)
	for i, stage := range b {
		if stage != 0 {
			m[statNames[i]] = stage
		}
	}
	return json.Marshal(m)
}

func (b *Boosts) UnmarshalJSON(data []byte) error {
	m := make(map[string]int)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	*b = Boosts{}
	for name, stage := range m {
		i := slices.Index(statNames, name)
		if i == -1 {
			return fmt.Errorf("unknown boost %q", name)
		}
		b[i] = stage
	}
	return nil
}

// VolatileSet is a bit set of Volatile. In json it is a list of names.
type VolatileSet uint32

func (v VolatileSet) Has(volatile Volatile) bool {
	return v&(1<<volatile) != 0
}

func (v VolatileSet) With(volatile Volatile) VolatileSet {
	return v | (1 << volatile)
}

func (v VolatileSet) Without(volatile Volatile) VolatileSet {
	return v &^ (1 << volatile)
}

func (v VolatileSet) List() []Volatile {
	list := make([]Volatile, 0)
	for i := range VOLATILE_COUNT {
		if v.Has(i) {
			list = append(list, i)
		}
	}
	return list
}

func (v VolatileSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(lo.Map(v.List(), func(vol Volatile, _ int) string { return vol.String() }))
}

func (v *VolatileSet) UnmarshalJSON(data []byte) error {
	names := make([]string, 0)
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}

	*v = 0
	for _, name := range names {
		vol, err := ParseVolatile(name)
		if err != nil {
			return err
		}
		*v = v.With(vol)
	}
	return nil
}

type MoveSlot struct {
	ID       string `json:"id"`
	PP       int    `json:"pp"`
	Disabled bool   `json:"disabled,omitempty"`
}

func (m MoveSlot) IsNil() bool {
	return m.ID == ""
}

func (m MoveSlot) Usable() bool {
	return !m.IsNil() && m.PP > 0 && !m.Disabled
}

type Pokemon struct {
	// Name is the roster key of this pokemon. It is unique within a side.
	Name    string   `json:"name"`
	Species string   `json:"species"`
	Level   int      `json:"level"`
	Types   []string `json:"types"`

	Hp    int   `json:"hp"`
	MaxHp int   `json:"maxHp"`
	Stats Stats `json:"stats"`

	Boosts    Boosts      `json:"boosts"`
	Status    Status      `json:"status"`
	Volatiles VolatileSet `json:"volatiles"`

	Moves [4]MoveSlot `json:"moves"`

	Ability string `json:"ability"`
	Item    string `json:"item"`

	TeraType      string `json:"teraType,omitempty"`
	Terastallized bool   `json:"terastallized,omitempty"`

	CanMega       bool `json:"canMega,omitempty"`
	CanTera       bool `json:"canTera,omitempty"`
	CanDynamax    bool `json:"canDynamax,omitempty"`
	CanUltraBurst bool `json:"canUltraBurst,omitempty"`

	// turns spent asleep so far
	SleepTurns int `json:"sleepTurns,omitempty"`
	// the n in n/16 toxic damage
	ToxicCount int `json:"toxicCount,omitempty"`
}

func (p *Pokemon) Alive() bool {
	return p.Hp > 0
}

func (p *Pokemon) DisplayName() string {
	return cases.Title(language.English).String(p.Name)
}

func (p *Pokemon) HpPercent() float64 {
	if p.MaxHp == 0 {
		return 0
	}
	return float64(p.Hp) / float64(p.MaxHp)
}

// DefensiveTypes are the types used when this pokemon is hit. Terastallizing replaces them.
func (p *Pokemon) DefensiveTypes() []string {
	if p.Terastallized && p.TeraType != "" {
		return []string{p.TeraType}
	}
	return p.Types
}

func (p *Pokemon) HasType(typeName string) bool {
	return slices.Contains(p.DefensiveTypes(), typeName)
}

// Grounded pokemon are affected by terrain, spikes and ground moves
func (p *Pokemon) Grounded() bool {
	if p.HasType(TYPENAME_FLYING) || p.Ability == "levitate" || p.Item == "airballoon" {
		return false
	}
	return true
}

func (p *Pokemon) HasMove(id string) bool {
	return p.MoveSlot(id) != -1
}

// MoveSlot returns the index of the move or -1
func (p *Pokemon) MoveSlot(id string) int {
	return slices.IndexFunc(p.Moves[:], func(m MoveSlot) bool { return m.ID == id })
}

func (p *Pokemon) HasUsableMove() bool {
	return lo.SomeBy(p.Moves[:], func(m MoveSlot) bool { return m.Usable() })
}

func (p *Pokemon) CanUseGimmick(g Gimmick) bool {
	switch g {
	case GIMMICK_MEGA:
		return p.CanMega
	case GIMMICK_TERA:
		return p.CanTera && !p.Terastallized
	case GIMMICK_DYNAMAX:
		return p.CanDynamax
	case GIMMICK_ULTRABURST:
		return p.CanUltraBurst
	}
	return false
}

// BoostedStat applies the stage multiplier to a raw stat, flooring the result
func (p *Pokemon) BoostedStat(stat Stat) int {
	return applyStage(p.Stats.Get(stat), p.Boosts[stat])
}

func applyStage(value int, stage int) int {
	return int(math.Floor(float64(value) * StageMultipliers[clamp(stage, MIN_STAGE, MAX_STAGE)]))
}

// Clone copies the pokemon so the copy shares nothing mutable with the original
func (p *Pokemon) Clone() *Pokemon {
	newPokemon := *p
	newPokemon.Types = slices.Clone(p.Types)
	return &newPokemon
}

func clamp[T constraints.Ordered](v, low, high T) T {
	return min(max(v, low), high)
}
