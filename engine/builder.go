package engine

import (
	"math/rand/v2"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var builderLogger = func() *zerolog.Logger {
	logger := log.With().Str("location", "pokemon-builder").Logger()
	return &logger
}

// Nature raises one stat by 10% and lowers another. Neutral natures raise and lower the same stat.
type Nature struct {
	Name    string
	Raised  Stat
	Lowered Stat
}

func (n Nature) modifier(stat Stat) (int, int) {
	switch {
	case n.Raised == n.Lowered:
		return 1, 1
	case stat == n.Raised:
		return 11, 10
	case stat == n.Lowered:
		return 9, 10
	}
	return 1, 1
}

var (
	NATURE_HARDY   = Nature{"Hardy", STAT_ATTACK, STAT_ATTACK}
	NATURE_BOLD    = Nature{"Bold", STAT_DEFENSE, STAT_ATTACK}
	NATURE_MODEST  = Nature{"Modest", STAT_SPATTACK, STAT_ATTACK}
	NATURE_CALM    = Nature{"Calm", STAT_SPDEF, STAT_ATTACK}
	NATURE_TIMID   = Nature{"Timid", STAT_SPEED, STAT_ATTACK}
	NATURE_ADAMANT = Nature{"Adamant", STAT_ATTACK, STAT_SPATTACK}
	NATURE_IMPISH  = Nature{"Impish", STAT_DEFENSE, STAT_SPATTACK}
	NATURE_CAREFUL = Nature{"Careful", STAT_SPDEF, STAT_SPATTACK}
	NATURE_JOLLY   = Nature{"Jolly", STAT_SPEED, STAT_SPATTACK}
	NATURE_BRAVE   = Nature{"Brave", STAT_ATTACK, STAT_SPEED}
	NATURE_RELAXED = Nature{"Relaxed", STAT_DEFENSE, STAT_SPEED}
	NATURE_QUIET   = Nature{"Quiet", STAT_SPATTACK, STAT_SPEED}
	NATURE_SASSY   = Nature{"Sassy", STAT_SPDEF, STAT_SPEED}
)

var NATURES = [...]Nature{
	NATURE_HARDY,
	NATURE_BOLD,
	NATURE_MODEST,
	NATURE_CALM,
	NATURE_TIMID,
	NATURE_ADAMANT,
	NATURE_IMPISH,
	NATURE_CAREFUL,
	NATURE_JOLLY,
	NATURE_BRAVE,
	NATURE_RELAXED,
	NATURE_QUIET,
	NATURE_SASSY,
}

// stat order used by ev and iv spreads
const (
	SPREAD_HP = iota
	SPREAD_ATTACK
	SPREAD_DEF
	SPREAD_SPATTACK
	SPREAD_SPDEF
	SPREAD_SPEED
)

type PokemonBuilder struct {
	poke    Pokemon
	species *Species
	evs     [6]int
	ivs     [6]int
	nature  Nature
	rng     *rand.Rand
}

// NewPokeBuilder starts a level 100 pokemon of the species with perfect ivs, no evs and a neutral nature
func NewPokeBuilder(species *Species, rng *rand.Rand) *PokemonBuilder {
	poke := Pokemon{
		Name:    species.ID,
		Species: species.ID,
		Level:   MAX_LEVEL,
		Types:   append([]string(nil), species.Types...),
	}
	if len(species.Abilities) > 0 {
		poke.Ability = species.Abilities[0]
	}

	return &PokemonBuilder{
		poke:    poke,
		species: species,
		ivs:     [6]int{MAX_IV, MAX_IV, MAX_IV, MAX_IV, MAX_IV, MAX_IV},
		nature:  NATURE_HARDY,
		rng:     rng,
	}
}

func (pb *PokemonBuilder) SetName(name string) *PokemonBuilder {
	pb.poke.Name = name
	return pb
}

func (pb *PokemonBuilder) SetLevel(level int) *PokemonBuilder {
	pb.poke.Level = clamp(level, 1, MAX_LEVEL)
	return pb
}

func (pb *PokemonBuilder) SetEvs(evs [6]int) *PokemonBuilder {
	pb.evs = evs

	builderLogger().Debug().
		Int("HP", evs[SPREAD_HP]).
		Int("ATTACK", evs[SPREAD_ATTACK]).
		Int("DEF", evs[SPREAD_DEF]).
		Int("SPATTACK", evs[SPREAD_SPATTACK]).
		Int("SPDEF", evs[SPREAD_SPDEF]).
		Int("SPEED", evs[SPREAD_SPEED]).Msg("Setting EVs")

	return pb
}

func (pb *PokemonBuilder) SetIvs(ivs [6]int) *PokemonBuilder {
	pb.ivs = ivs
	return pb
}

func (pb *PokemonBuilder) SetPerfectIvs() *PokemonBuilder {
	return pb.SetIvs([6]int{MAX_IV, MAX_IV, MAX_IV, MAX_IV, MAX_IV, MAX_IV})
}

func (pb *PokemonBuilder) SetRandomIvs() *PokemonBuilder {
	var ivs [6]int
	for i := range ivs {
		ivs[i] = pb.rng.IntN(MAX_IV + 1)
	}

	builderLogger().Debug().Msg("Setting Random IVs")
	return pb.SetIvs(ivs)
}

func (pb *PokemonBuilder) SetNature(nature Nature) *PokemonBuilder {
	pb.nature = nature
	return pb
}

func (pb *PokemonBuilder) SetRandomNature() *PokemonBuilder {
	pb.nature = NATURES[pb.rng.IntN(len(NATURES))]
	return pb
}

// SetMoves fills the move slots in order with full pp. Extra moves are ignored.
func (pb *PokemonBuilder) SetMoves(moves ...*Move) *PokemonBuilder {
	pb.poke.Moves = [4]MoveSlot{}
	for i, move := range moves {
		if i >= len(pb.poke.Moves) {
			builderLogger().Warn().Str("move", move.ID).Msg("Pokemon already knows four moves")
			break
		}
		pb.poke.Moves[i] = MoveSlot{ID: move.ID, PP: move.PP}
	}
	return pb
}

func (pb *PokemonBuilder) SetRandomMoves(possibleMoves []*Move) *PokemonBuilder {
	if len(possibleMoves) == 0 {
		builderLogger().Warn().Msg("This Pokemon was given no available moves to randomize with!")
		return pb
	}

	shuffled := append([]*Move(nil), possibleMoves...)
	pb.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	chosen := shuffled[:min(4, len(shuffled))]

	builderLogger().Debug().Strs("Moves", lo.Map(chosen, func(m *Move, _ int) string { return m.ID })).Msg("Setting Random Moves")

	return pb.SetMoves(chosen...)
}

func (pb *PokemonBuilder) SetAbility(ability string) *PokemonBuilder {
	pb.poke.Ability = ability
	return pb
}

func (pb *PokemonBuilder) SetRandomAbility() *PokemonBuilder {
	if len(pb.species.Abilities) == 0 {
		builderLogger().Warn().Msg("This Pokemon was given no available abilities to randomize with!")
		return pb
	}
	pb.poke.Ability = pb.species.Abilities[pb.rng.IntN(len(pb.species.Abilities))]
	return pb
}

func (pb *PokemonBuilder) SetItem(item string) *PokemonBuilder {
	pb.poke.Item = item
	return pb
}

// SetTeraType makes the pokemon eligible to terastallize into teraType
func (pb *PokemonBuilder) SetTeraType(teraType string) *PokemonBuilder {
	pb.poke.TeraType = teraType
	pb.poke.CanTera = teraType != ""
	return pb
}

func (pb *PokemonBuilder) SetGimmicks(mega, dynamax, ultraBurst bool) *PokemonBuilder {
	pb.poke.CanMega = mega
	pb.poke.CanDynamax = dynamax
	pb.poke.CanUltraBurst = ultraBurst
	return pb
}

func (pb *PokemonBuilder) SetStatus(status Status) *PokemonBuilder {
	pb.poke.Status = status
	return pb
}

func (pb *PokemonBuilder) Build() *Pokemon {
	base := pb.species.BaseStats
	level := pb.poke.Level

	if pb.species.ID == "shedinja" {
		pb.poke.MaxHp = 1
	} else {
		hpNumerator := (2*base.Hp + pb.ivs[SPREAD_HP] + pb.evs[SPREAD_HP]/4) * level
		pb.poke.MaxHp = hpNumerator/100 + level + 10
	}
	pb.poke.Hp = pb.poke.MaxHp

	pb.poke.Stats = Stats{
		Attack:   pb.calcStat(base.Attack, SPREAD_ATTACK, STAT_ATTACK),
		Def:      pb.calcStat(base.Def, SPREAD_DEF, STAT_DEFENSE),
		SpAttack: pb.calcStat(base.SpAttack, SPREAD_SPATTACK, STAT_SPATTACK),
		SpDef:    pb.calcStat(base.SpDef, SPREAD_SPDEF, STAT_SPDEF),
		Speed:    pb.calcStat(base.Speed, SPREAD_SPEED, STAT_SPEED),
	}

	builderLogger().Debug().Str("name", pb.poke.Name).Int("hp", pb.poke.MaxHp).Msg("Building pokemon")

	poke := pb.poke
	poke.Types = append([]string(nil), pb.poke.Types...)
	return &poke
}

func (pb *PokemonBuilder) calcStat(baseValue int, spread int, stat Stat) int {
	statNumerator := (2*baseValue + pb.ivs[spread] + pb.evs[spread]/4) * pb.poke.Level
	num, den := pb.nature.modifier(stat)
	return modify(statNumerator/100+5, num, den)
}

// NewSide puts active on the field and everything else in reserve
func NewSide(active *Pokemon, reserve ...*Pokemon) Side {
	side := Side{
		Active:  active,
		Reserve: make(map[string]*Pokemon, len(reserve)),
	}
	for _, p := range reserve {
		side.Reserve[p.Name] = p
	}
	return side
}

func NewState(user Side, opponent Side) *BattleState {
	return &BattleState{User: user, Opponent: opponent}
}

// RandomTeam builds size random pokemon with random moves from the dex
func RandomTeam(dex *Dex, rng *rand.Rand, size int) []*Pokemon {
	speciesIDs := dex.SpeciesIDs()
	damaging := lo.FilterMap(dex.MoveIDs(), func(id string, _ int) (*Move, bool) {
		move := dex.moves[id]
		return move, move.DealsDamage()
	})

	rng.Shuffle(len(speciesIDs), func(i, j int) {
		speciesIDs[i], speciesIDs[j] = speciesIDs[j], speciesIDs[i]
	})

	team := make([]*Pokemon, 0, size)
	for _, id := range speciesIDs[:min(size, len(speciesIDs))] {
		team = append(team, NewPokeBuilder(dex.species[id], rng).
			SetRandomIvs().
			SetRandomNature().
			SetRandomAbility().
			SetRandomMoves(damaging).
			Build())
	}
	return team
}
