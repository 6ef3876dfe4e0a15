package engine

import (
	"fmt"
	"slices"
)

const (
	MAX_IV    = 31
	MAX_EV    = 252
	MAX_STAGE = 6
	MIN_STAGE = -6

	MAX_LEVEL = 100
)

const (
	CATEGORY_PHYSICAL = "physical"
	CATEGORY_SPECIAL  = "special"
	CATEGORY_STATUS   = "status"
)

const (
	TYPENAME_NORMAL   = "normal"
	TYPENAME_FIRE     = "fire"
	TYPENAME_WATER    = "water"
	TYPENAME_ELECTRIC = "electric"
	TYPENAME_GRASS    = "grass"
	TYPENAME_ICE      = "ice"
	TYPENAME_FIGHTING = "fighting"
	TYPENAME_POISON   = "poison"
	TYPENAME_GROUND   = "ground"
	TYPENAME_FLYING   = "flying"
	TYPENAME_PSYCHIC  = "psychic"
	TYPENAME_BUG      = "bug"
	TYPENAME_ROCK     = "rock"
	TYPENAME_GHOST    = "ghost"
	TYPENAME_DRAGON   = "dragon"
	TYPENAME_DARK     = "dark"
	TYPENAME_STEEL    = "steel"
	TYPENAME_FAIRY    = "fairy"
	// Struggle and confusion damage have no type
	TYPENAME_TYPELESS = ""
)

// SideID picks one of the two sides of a battle. It doubles as an index into per-side arrays.
type SideID int

const (
	USER SideID = iota
	OPPONENT
)

func (s SideID) Other() SideID {
	return 1 - s
}

func (s SideID) String() string {
	if s == USER {
		return "user"
	}
	return "opponent"
}

// enumText is shared by the small enums below that travel as strings in json snapshots
func enumText(names []string, v int) ([]byte, error) {
	if v < 0 || v >= len(names) {
		return nil, fmt.Errorf("enum value %d out of range", v)
	}
	return []byte(names[v]), nil
}

func parseEnumText(names []string, text []byte) (int, error) {
	i := slices.Index(names, string(text))
	if i == -1 {
		return 0, fmt.Errorf("unknown value %q", text)
	}
	return i, nil
}

type Status int

const (
	STATUS_NONE Status = iota
	STATUS_BURN
	STATUS_PARA
	STATUS_SLEEP
	STATUS_FROZEN
	STATUS_POISON
	STATUS_TOXIC
)

var statusNames = []string{"", "brn", "par", "slp", "frz", "psn", "tox"}

func (s Status) String() string {
	text, _ := enumText(statusNames, int(s))
	return string(text)
}

func (s Status) MarshalText() ([]byte, error) { return enumText(statusNames, int(s)) }

func (s *Status) UnmarshalText(text []byte) error {
	v, err := parseEnumText(statusNames, text)
	*s = Status(v)
	return err
}

type WeatherKind int

const (
	WEATHER_NONE WeatherKind = iota
	WEATHER_RAIN
	WEATHER_SUN
	WEATHER_SANDSTORM
	WEATHER_HAIL
)

var weatherNames = []string{"", "rain", "sun", "sand", "hail"}

func (w WeatherKind) String() string {
	text, _ := enumText(weatherNames, int(w))
	return string(text)
}

func (w WeatherKind) MarshalText() ([]byte, error) { return enumText(weatherNames, int(w)) }

func (w *WeatherKind) UnmarshalText(text []byte) error {
	v, err := parseEnumText(weatherNames, text)
	*w = WeatherKind(v)
	return err
}

type TerrainKind int

const (
	TERRAIN_NONE TerrainKind = iota
	TERRAIN_ELECTRIC
	TERRAIN_GRASSY
	TERRAIN_PSYCHIC
	TERRAIN_MISTY
)

var terrainNames = []string{"", "electric", "grassy", "psychic", "misty"}

func (t TerrainKind) String() string {
	text, _ := enumText(terrainNames, int(t))
	return string(text)
}

func (t TerrainKind) MarshalText() ([]byte, error) { return enumText(terrainNames, int(t)) }

func (t *TerrainKind) UnmarshalText(text []byte) error {
	v, err := parseEnumText(terrainNames, text)
	*t = TerrainKind(v)
	return err
}

type Gimmick int

const (
	GIMMICK_NONE Gimmick = iota
	GIMMICK_MEGA
	GIMMICK_TERA
	GIMMICK_DYNAMAX
	GIMMICK_ULTRABURST
)

var gimmickNames = []string{"", "mega", "tera", "dynamax", "ultraburst"}

func (g Gimmick) String() string {
	text, _ := enumText(gimmickNames, int(g))
	return string(text)
}

func (g Gimmick) MarshalText() ([]byte, error) { return enumText(gimmickNames, int(g)) }

func (g *Gimmick) UnmarshalText(text []byte) error {
	v, err := parseEnumText(gimmickNames, text)
	*g = Gimmick(v)
	return err
}

// Stat indexes Boosts. Hp has no stage so it is not listed.
type Stat int

const (
	STAT_ATTACK Stat = iota
	STAT_DEFENSE
	STAT_SPATTACK
	STAT_SPDEF
	STAT_SPEED
	STAT_ACCURACY
	STAT_EVASION

	STAT_COUNT
)

var statNames = []string{"atk", "def", "spa", "spd", "spe", "accuracy", "evasion"}

func (s Stat) String() string {
	text, _ := enumText(statNames, int(s))
	return string(text)
}

type SideCondition int

const (
	SIDE_STEALTHROCK SideCondition = iota
	SIDE_SPIKES
	SIDE_TOXICSPIKES
	SIDE_STICKYWEB
	SIDE_REFLECT
	SIDE_LIGHTSCREEN
	SIDE_AURORAVEIL
	SIDE_TAILWIND
	// consecutive successful protects by the side's active pokemon
	SIDE_PROTECT

	SIDE_CONDITION_COUNT
)

var sideConditionNames = []string{
	"stealthrock", "spikes", "toxicspikes", "stickyweb",
	"reflect", "lightscreen", "auroraveil", "tailwind", "protect",
}

func (c SideCondition) String() string {
	text, _ := enumText(sideConditionNames, int(c))
	return string(text)
}

func (c SideCondition) MarshalText() ([]byte, error) { return enumText(sideConditionNames, int(c)) }

func (c *SideCondition) UnmarshalText(text []byte) error {
	v, err := parseEnumText(sideConditionNames, text)
	*c = SideCondition(v)
	return err
}

// layer caps for hazards, everything else is a turn counter
var sideConditionMax = map[SideCondition]int{
	SIDE_STEALTHROCK: 1,
	SIDE_SPIKES:      3,
	SIDE_TOXICSPIKES: 2,
	SIDE_STICKYWEB:   1,
}

const (
	SCREEN_TURNS     = 5
	TAILWIND_TURNS   = 4
	WEATHER_TURNS    = 5
	TERRAIN_TURNS    = 5
	TRICK_ROOM_TURNS = 5
	WISH_TURNS       = 2
	FUTURE_TURNS     = 3
)

type Volatile int

const (
	VOLATILE_CONFUSION Volatile = iota
	VOLATILE_LEECHSEED
	VOLATILE_PROTECT
	VOLATILE_FLINCH
	VOLATILE_TRAPPED
	VOLATILE_FLASHFIRE

	VOLATILE_COUNT
)

var volatileNames = []string{"confusion", "leechseed", "protect", "flinch", "trapped", "flashfire"}

func (v Volatile) String() string {
	text, _ := enumText(volatileNames, int(v))
	return string(text)
}

func ParseVolatile(name string) (Volatile, error) {
	v, err := parseEnumText(volatileNames, []byte(name))
	return Volatile(v), err
}

func ParseStatus(name string) (Status, error) {
	var s Status
	err := s.UnmarshalText([]byte(name))
	return s, err
}

var StageMultipliers = map[int]float64{
	-6: 2.0 / 8.0,
	-5: 2.0 / 7.0,
	-4: 2.0 / 6.0,
	-3: 2.0 / 5.0,
	-2: 2.0 / 4.0,
	-1: 2.0 / 3.0,
	0:  1,
	1:  3.0 / 2.0,
	2:  4.0 / 2.0,
	3:  5.0 / 2.0,
	4:  6.0 / 2.0,
	5:  7.0 / 2.0,
	6:  8.0 / 2.0,
}

// indexed by accuracy stage minus evasion stage, clamped to [-6, 6]
var accuracyStageMult = map[int]float64{
	6:  9.0 / 3.0,
	5:  8.0 / 3.0,
	4:  7.0 / 3.0,
	3:  6.0 / 3.0,
	2:  5.0 / 3.0,
	1:  4.0 / 3.0,
	0:  1,
	-1: 3.0 / 4.0,
	-2: 3.0 / 5.0,
	-3: 3.0 / 6.0,
	-4: 3.0 / 7.0,
	-5: 3.0 / 8.0,
	-6: 3.0 / 9.0,
}

// critStageChance is keyed by a move's crit ratio stage
var critStageChance = map[int]float64{
	0: 1.0 / 24.0,
	1: 1.0 / 8.0,
	2: 1.0 / 2.0,
	3: 1.0,
}

// chance to wake up keyed by turns already spent asleep
var wakeChance = map[int]float64{
	0: 0,
	1: 1.0 / 3.0,
	2: 1.0 / 2.0,
}

const (
	FULL_PARA_CHANCE       = 0.25
	THAW_CHANCE            = 0.2
	CONFUSION_END_CHANCE   = 0.25
	CONFUSION_HIT_CHANCE   = 1.0 / 3.0
	CONFUSION_SELF_HIT_BP  = 40
	STRUGGLE_RECOIL_DIVISOR = 4
)

var SOUND_MOVES = []string{
	"growl",
	"roar",
	"sing",
	"supersonic",
	"screech",
	"snore",
	"perishsong",
	"healbell",
	"uproar",
	"hypervoice",
	"boomburst",
	"bugbuzz",
}
