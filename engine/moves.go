package engine

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	TARGET_NORMAL    = "normal"
	TARGET_SELF      = "self"
	TARGET_FOE_SIDE  = "foeSide"
	TARGET_ALLY_SIDE = "allySide"
	TARGET_ALL       = "all"
)

const (
	CLEARS_SELF = "self"
	CLEARS_BOTH = "both"
)

type MoveFlags struct {
	Contact bool `json:"contact"`
	Sound   bool `json:"sound"`
	Powder  bool `json:"powder"`
}

// Secondary is an effect rolled after a move hits
type Secondary struct {
	Chance         int    `json:"chance"`
	Status         string `json:"status"`
	VolatileStatus string `json:"volatileStatus"`
	Boosts         Boosts `json:"boosts"`
	SelfBoosts     Boosts `json:"selfBoosts"`
}

type Move struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Category string    `json:"category"`
	Power    int       `json:"basePower"`
	// 0 means the move never misses
	Accuracy int       `json:"accuracy"`
	Priority int       `json:"priority"`
	PP       int       `json:"pp"`
	Target   string    `json:"target"`
	Flags    MoveFlags `json:"flags"`

	CritRatio   int  `json:"critRatio"`
	FixedDamage int  `json:"fixedDamage"`
	LevelDamage bool `json:"levelDamage"`
	HalfHp      bool `json:"halfHp"`

	Status         string  `json:"status"`
	VolatileStatus string  `json:"volatileStatus"`
	Boosts         Boosts  `json:"boosts"`
	SelfBoosts     Boosts  `json:"selfBoosts"`
	Heal           float64 `json:"heal"`
	Drain          float64 `json:"drain"`
	Recoil         float64 `json:"recoil"`

	SideCondition string `json:"sideCondition"`
	Weather       string `json:"weather"`
	Terrain       string `json:"terrain"`
	TrickRoom     bool   `json:"trickRoom"`
	ForceSwitch   bool   `json:"forceSwitch"`
	ClearsHazards string `json:"clearsHazards"`
	Wish          bool   `json:"wish"`
	FutureSight   bool   `json:"futureSight"`

	Secondary *Secondary `json:"secondary"`
}

// STRUGGLE is used when a pokemon has no usable move left. It is not part of any move table.
var STRUGGLE = Move{
	ID:       "struggle",
	Name:     "Struggle",
	Type:     TYPENAME_TYPELESS,
	Category: CATEGORY_PHYSICAL,
	Power:    50,
	PP:       1,
	Target:   TARGET_NORMAL,
	Flags:    MoveFlags{Contact: true},
}

// confusionHit is the move a confused pokemon uses on itself
var confusionHit = Move{
	ID:       "confusionhit",
	Type:     TYPENAME_TYPELESS,
	Category: CATEGORY_PHYSICAL,
	Power:    CONFUSION_SELF_HIT_BP,
	Target:   TARGET_SELF,
}

func (m Move) IsNil() bool {
	return m.ID == ""
}

// DealsDamage is true for moves that go through the damage calculator
func (m Move) DealsDamage() bool {
	if m.Category == CATEGORY_STATUS {
		return false
	}
	return m.Power > 0 || m.IsFixedDamage()
}

func (m Move) IsFixedDamage() bool {
	return m.FixedDamage > 0 || m.LevelDamage || m.HalfHp
}

func (m Move) TargetsFoe() bool {
	return m.Target == TARGET_NORMAL
}

func (m Move) IsSound() bool {
	return m.Flags.Sound || slices.Contains(SOUND_MOVES, m.ID)
}

func (m Move) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return cases.Title(language.English).String(m.ID)
}

// ToID normalizes a display name like "Will-O-Wisp" into a data key like "willowisp"
func ToID(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
