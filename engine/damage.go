package engine

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-logr/logr"
	"github.com/samber/lo"
)

var damageLogger = func() logr.Logger {
	return internalLogger.WithName("damage")
}

// Conditions is the part of the field the damage calculator looks at. Screens are the defender's.
type Conditions struct {
	Weather     WeatherKind
	Terrain     TerrainKind
	Reflect     bool
	LightScreen bool
	AuroraVeil  bool
}

// RollPolicy decides which of the 16 damage rolls become separate branches
type RollPolicy int

const (
	// one branch at the floored mean of the rolls
	ROLLS_AVERAGE RollPolicy = iota
	// the lowest and highest roll, half each
	ROLLS_MINMAX
	// every distinct roll weighted by how many of the 16 produce it
	ROLLS_ALL
)

var rollPolicyNames = []string{"average", "minmax", "all"}

func (r RollPolicy) String() string {
	text, _ := enumText(rollPolicyNames, int(r))
	return string(text)
}

func ParseRollPolicy(name string) (RollPolicy, error) {
	v, err := parseEnumText(rollPolicyNames, []byte(name))
	if err != nil {
		return ROLLS_AVERAGE, fmt.Errorf("roll policy: %w", err)
	}
	return RollPolicy(v), nil
}

type DamageOutcome struct {
	Amount      int
	Crit        bool
	Probability float64
}

const (
	ROLL_MIN   = 85
	ROLL_MAX   = 100
	ROLL_COUNT = ROLL_MAX - ROLL_MIN + 1
)

// CalculateDamage returns every distinct amount the move can do, lowest first.
// Status and zero power moves give nothing, immunity gives exactly {0}. No input is modified.
func CalculateDamage(attacker, defender *Pokemon, move *Move, cond Conditions, crit bool) []int {
	if !move.DealsDamage() {
		return nil
	}

	if isImmune(attacker, defender, move) {
		return []int{0}
	}

	if move.IsFixedDamage() {
		return []int{fixedDamage(attacker, defender, move)}
	}

	rolls := damageRolls(attacker, defender, move, cond, crit)
	return lo.Uniq(rolls)
}

// DamageOutcomes weighs the crit and roll branches of a move by their probability
func DamageOutcomes(attacker, defender *Pokemon, move *Move, cond Conditions, policy RollPolicy) []DamageOutcome {
	if !move.DealsDamage() {
		return nil
	}

	if isImmune(attacker, defender, move) {
		return []DamageOutcome{{Amount: 0, Probability: 1}}
	}

	if move.IsFixedDamage() {
		return []DamageOutcome{{Amount: fixedDamage(attacker, defender, move), Probability: 1}}
	}

	critChance := CritChance(attacker, defender, move)
	outcomes := make([]DamageOutcome, 0, 4)

	for _, crit := range []bool{false, true} {
		branchChance := 1 - critChance
		if crit {
			branchChance = critChance
		}
		if branchChance == 0 {
			continue
		}

		rolls := damageRolls(attacker, defender, move, cond, crit)
		for _, picked := range pickRolls(rolls, policy) {
			outcomes = addDamageOutcome(outcomes, DamageOutcome{
				Amount:      picked.Amount,
				Crit:        crit,
				Probability: branchChance * picked.Probability,
			})
		}
	}

	return outcomes
}

func addDamageOutcome(outcomes []DamageOutcome, outcome DamageOutcome) []DamageOutcome {
	i := slices.IndexFunc(outcomes, func(o DamageOutcome) bool {
		return o.Amount == outcome.Amount && o.Crit == outcome.Crit
	})
	if i == -1 {
		return append(outcomes, outcome)
	}
	outcomes[i].Probability += outcome.Probability
	return outcomes
}

func pickRolls(rolls []int, policy RollPolicy) []DamageOutcome {
	switch policy {
	case ROLLS_MINMAX:
		return []DamageOutcome{
			{Amount: rolls[0], Probability: 0.5},
			{Amount: rolls[len(rolls)-1], Probability: 0.5},
		}
	case ROLLS_ALL:
		picked := make([]DamageOutcome, 0, len(rolls))
		for _, roll := range rolls {
			picked = addDamageOutcome(picked, DamageOutcome{Amount: roll, Probability: 1.0 / float64(len(rolls))})
		}
		return picked
	default:
		return []DamageOutcome{{Amount: lo.Sum(rolls) / len(rolls), Probability: 1}}
	}
}

// CritChance is the probability the move lands a critical hit
func CritChance(attacker, defender *Pokemon, move *Move) float64 {
	if defender.Ability == "battlearmor" || defender.Ability == "shellarmor" {
		return 0
	}

	stage := move.CritRatio
	if attacker.Item == "scopelens" || attacker.Item == "razorclaw" {
		stage++
	}
	if attacker.Ability == "superluck" {
		stage++
	}

	return critStageChance[clamp(stage, 0, 3)]
}

func isImmune(attacker, defender *Pokemon, move *Move) bool {
	effectiveness := Effectiveness(move.Type, defender.DefensiveTypes())
	if effectiveness == 0 {
		return true
	}

	if move.Type == TYPENAME_GROUND && defender.Item == "airballoon" {
		return true
	}

	if attacker.Ability == "moldbreaker" {
		return false
	}

	switch defender.Ability {
	case "levitate":
		return move.Type == TYPENAME_GROUND
	case "flashfire":
		return move.Type == TYPENAME_FIRE
	case "waterabsorb", "stormdrain", "dryskin":
		return move.Type == TYPENAME_WATER
	case "voltabsorb", "lightningrod", "motordrive":
		return move.Type == TYPENAME_ELECTRIC
	case "sapsipper":
		return move.Type == TYPENAME_GRASS
	case "soundproof":
		return move.IsSound()
	case "wonderguard":
		return move.Type != TYPENAME_TYPELESS && effectiveness <= 1
	}

	return false
}

func fixedDamage(attacker, defender *Pokemon, move *Move) int {
	switch {
	case move.LevelDamage:
		return attacker.Level
	case move.HalfHp:
		return max(1, defender.Hp/2)
	default:
		return move.FixedDamage
	}
}

// modify multiplies by num/den and floors
func modify(value, num, den int) int {
	return value * num / den
}

// damageRolls returns the damage for each of the 16 rolls in ascending roll order
func damageRolls(attacker, defender *Pokemon, move *Move, cond Conditions, crit bool) []int {
	rolls := make([]int, ROLL_COUNT)

	attackStat, defenseStat := STAT_ATTACK, STAT_DEFENSE
	if move.Category == CATEGORY_SPECIAL {
		attackStat, defenseStat = STAT_SPATTACK, STAT_SPDEF
	}

	if attacker.Stats.Get(attackStat) <= 0 || defender.Stats.Get(defenseStat) <= 0 || defender.MaxHp <= 0 {
		damageLogger().V(1).Info("zero stat, no damage", "attacker", attacker.Name, "defender", defender.Name, "move", move.ID)
		return rolls
	}

	attackStage := attacker.Boosts[attackStat]
	defenseStage := defender.Boosts[defenseStat]
	// Crits ignore the attacker's drops and the defender's raises
	if crit {
		attackStage = max(attackStage, 0)
		defenseStage = min(defenseStage, 0)
	}

	a := applyStage(attacker.Stats.Get(attackStat), attackStage)
	d := applyStage(defender.Stats.Get(defenseStat), defenseStage)

	a = attackModifiers(attacker, defender, move, a)
	d = defenseModifiers(defender, move, cond, d)
	a, d = max(a, 1), max(d, 1)

	power := move.Power
	if move.ID == "knockoff" && defender.Item != "" {
		power = modify(power, 3, 2)
	}

	base := (2*attacker.Level/5+2)*power*a/d/50 + 2

	damage := base
	switch {
	case cond.Weather == WEATHER_RAIN && move.Type == TYPENAME_WATER,
		cond.Weather == WEATHER_SUN && move.Type == TYPENAME_FIRE:
		damage = modify(damage, 3, 2)
	case cond.Weather == WEATHER_RAIN && move.Type == TYPENAME_FIRE,
		cond.Weather == WEATHER_SUN && move.Type == TYPENAME_WATER:
		damage = modify(damage, 1, 2)
	}

	if crit {
		damage = modify(damage, 3, 2)
	}

	effectiveness := Effectiveness(move.Type, defender.DefensiveTypes())
	stabNum, stabDen := stabModifier(attacker, move)

	for i := range rolls {
		rolled := modify(damage, ROLL_MIN+i, 100)
		rolled = modify(rolled, stabNum, stabDen)
		rolled = int(math.Floor(float64(rolled) * effectiveness))
		rolled = finalModifiers(attacker, defender, move, cond, crit, effectiveness, rolled)

		if rolled == 0 && effectiveness > 0 {
			rolled = 1
		}
		rolls[i] = rolled
	}

	damageLogger().V(2).Info("final damage",
		"move", move.ID,
		"power", power,
		"attackerLevel", attacker.Level,
		"attackValue", a,
		"attackChange", attackStage,
		"defValue", d,
		"defenseChange", defenseStage,
		"base", base,
		"crit", crit,
		"effectiveness", effectiveness,
		"weather", cond.Weather.String(),
		"minDamage", rolls[0],
		"maxDamage", rolls[len(rolls)-1])

	return rolls
}

func attackModifiers(attacker, defender *Pokemon, move *Move, a int) int {
	physical := move.Category == CATEGORY_PHYSICAL

	switch attacker.Ability {
	case "hugepower", "purepower":
		if physical {
			a = modify(a, 2, 1)
		}
	case "hustle":
		if physical {
			a = modify(a, 3, 2)
		}
	case "guts":
		if physical && attacker.Status != STATUS_NONE {
			a = modify(a, 3, 2)
		}
	case "overgrow", "blaze", "torrent", "swarm":
		pinchType := map[string]string{
			"overgrow": TYPENAME_GRASS,
			"blaze":    TYPENAME_FIRE,
			"torrent":  TYPENAME_WATER,
			"swarm":    TYPENAME_BUG,
		}[attacker.Ability]
		if move.Type == pinchType && attacker.Hp*3 <= attacker.MaxHp {
			a = modify(a, 3, 2)
		}
	}

	if attacker.Volatiles.Has(VOLATILE_FLASHFIRE) && move.Type == TYPENAME_FIRE {
		a = modify(a, 3, 2)
	}

	switch attacker.Item {
	case "choiceband":
		if physical {
			a = modify(a, 3, 2)
		}
	case "choicespecs":
		if !physical {
			a = modify(a, 3, 2)
		}
	}

	if defender.Ability == "thickfat" && attacker.Ability != "moldbreaker" {
		if move.Type == TYPENAME_ICE || move.Type == TYPENAME_FIRE {
			a = modify(a, 1, 2)
		}
	}

	return a
}

func defenseModifiers(defender *Pokemon, move *Move, cond Conditions, d int) int {
	physical := move.Category == CATEGORY_PHYSICAL

	if physical && defender.Ability == "marvelscale" && defender.Status != STATUS_NONE {
		d = modify(d, 3, 2)
	}
	if !physical && defender.Item == "assaultvest" {
		d = modify(d, 3, 2)
	}
	if !physical && cond.Weather == WEATHER_SANDSTORM && defender.HasType(TYPENAME_ROCK) {
		d = modify(d, 3, 2)
	}

	return d
}

func stabModifier(attacker *Pokemon, move *Move) (int, int) {
	if move.Type == TYPENAME_TYPELESS {
		return 1, 1
	}

	original := slices.Contains(attacker.Types, move.Type)
	tera := attacker.Terastallized && attacker.TeraType == move.Type
	adaptability := attacker.Ability == "adaptability"

	switch {
	case original && tera && adaptability:
		return 9, 4
	case original && tera, (original || tera) && adaptability:
		return 2, 1
	case original || tera:
		return 3, 2
	}
	return 1, 1
}

func finalModifiers(attacker, defender *Pokemon, move *Move, cond Conditions, crit bool, effectiveness float64, damage int) int {
	physical := move.Category == CATEGORY_PHYSICAL

	if physical && attacker.Status == STATUS_BURN && attacker.Ability != "guts" {
		damage = modify(damage, 1, 2)
	}

	if !crit && attacker.Ability != "infiltrator" {
		if (physical && cond.Reflect) || (!physical && cond.LightScreen) || cond.AuroraVeil {
			damage = modify(damage, 1, 2)
		}
	}

	if attacker.Grounded() {
		switch {
		case cond.Terrain == TERRAIN_ELECTRIC && move.Type == TYPENAME_ELECTRIC,
			cond.Terrain == TERRAIN_GRASSY && move.Type == TYPENAME_GRASS,
			cond.Terrain == TERRAIN_PSYCHIC && move.Type == TYPENAME_PSYCHIC:
			damage = modify(damage, 13, 10)
		}
	}
	if cond.Terrain == TERRAIN_MISTY && move.Type == TYPENAME_DRAGON && defender.Grounded() {
		damage = modify(damage, 1, 2)
	}

	if attacker.Ability != "moldbreaker" {
		switch defender.Ability {
		case "multiscale":
			if defender.Hp == defender.MaxHp {
				damage = modify(damage, 1, 2)
			}
		case "filter", "solidrock":
			if effectiveness > 1 {
				damage = modify(damage, 3, 4)
			}
		}
	}

	if attacker.Ability == "tintedlens" && effectiveness < 1 {
		damage = modify(damage, 2, 1)
	}

	switch attacker.Item {
	case "lifeorb":
		damage = modify(damage, 13, 10)
	case "expertbelt":
		if effectiveness > 1 {
			damage = modify(damage, 6, 5)
		}
	}

	return damage
}
