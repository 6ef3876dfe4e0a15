package engine

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// Most of these set the ability directly on a pokemon rather than picking one that has it, the species does not matter here

func TestDrizzleOnSwitchIn(t *testing.T) {
	dex := testDex(t)
	drizzle := testPokemon(t, dex, "bulbasaur", "tackle")
	drizzle.Ability = "drizzle"
	state := testState(testPokemon(t, dex, "snorlax", "splash"), testPokemon(t, dex, "blissey", "splash"), []*Pokemon{drizzle})

	outcomes, err := NewResolver(dex).Resolve(state, NewSwitchAction("bulbasaur"), NewMoveAction("splash"))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.Contains(t, outcomes[0].Instructions, Instruction(WeatherInstruction{New: Weather{Kind: WEATHER_RAIN, Turns: WEATHER_TURNS}}))
	require.Equal(t, WEATHER_NONE, state.Weather.Kind)
}

func TestSandStreamOnSwitchIn(t *testing.T) {
	dex := testDex(t)
	sand := testPokemon(t, dex, "tyranitar", "tackle")
	sand.Ability = "sandstream"
	state := testState(testPokemon(t, dex, "snorlax", "splash"), testPokemon(t, dex, "blissey", "splash"), []*Pokemon{sand})
	state.Weather = Weather{Kind: WEATHER_RAIN, Turns: 2}

	outcomes, err := NewResolver(dex).Resolve(state, NewSwitchAction("tyranitar"), NewMoveAction("splash"))
	require.NoError(t, err)
	require.Contains(t, outcomes[0].Instructions, Instruction(WeatherInstruction{
		Old: Weather{Kind: WEATHER_RAIN, Turns: 2},
		New: Weather{Kind: WEATHER_SANDSTORM, Turns: WEATHER_TURNS},
	}))
}

func TestIntimidate(t *testing.T) {
	dex := testDex(t)
	intimidate := testPokemon(t, dex, "gyarados", "bravebird")
	intimidate.Ability = "intimidate"
	opponent := testPokemon(t, dex, "garchomp", "splash")
	state := testState(testPokemon(t, dex, "snorlax", "splash"), opponent, []*Pokemon{intimidate})
	resolver := NewResolver(dex)

	outcomes, err := resolver.Resolve(state, NewSwitchAction("gyarados"), NewMoveAction("splash"))
	require.NoError(t, err)
	require.Contains(t, outcomes[0].Instructions, Instruction(BoostInstruction{Side: OPPONENT, Stat: STAT_ATTACK, Amount: -1}))

	opponent.Ability = "clearbody"
	outcomes, err = resolver.Resolve(state, NewSwitchAction("gyarados"), NewMoveAction("splash"))
	require.NoError(t, err)
	for _, instruction := range outcomes[0].Instructions {
		_, ok := instruction.(BoostInstruction)
		require.False(t, ok, "clear body blocks intimidate")
	}
}

func TestFlashFire(t *testing.T) {
	dex := testDex(t)
	attacker := testPokemon(t, dex, "charizard", "flamethrower")
	flashFire := testPokemon(t, dex, "heatran", "flamethrower", "splash")
	flashFire.Ability = "flashfire"
	state := testState(attacker, flashFire)

	outcomes, err := NewResolver(dex).Resolve(state, NewMoveAction("flamethrower"), NewMoveAction("splash"))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.Contains(t, outcomes[0].Instructions, Instruction(VolatileInstruction{Side: OPPONENT, Volatile: VOLATILE_FLASHFIRE, Add: true}))
	_, damaged := firstDamage(outcomes[0].Instructions)
	require.False(t, damaged)

	flamethrower := testMove(t, dex, "flamethrower")
	target := testPokemon(t, dex, "snorlax")
	plain := CalculateDamage(flashFire, target, flamethrower, Conditions{}, false)
	flashFire.Volatiles = flashFire.Volatiles.With(VOLATILE_FLASHFIRE)
	powered := CalculateDamage(flashFire, target, flamethrower, Conditions{}, false)
	require.Greater(t, powered[0], plain[0])
}

func TestAbsorbAbilitiesHeal(t *testing.T) {
	dex := testDex(t)

	for ability, move := range map[string]string{"voltabsorb": "thunderbolt", "waterabsorb": "surf"} {
		t.Run(ability, func(t *testing.T) {
			absorber := testPokemon(t, dex, "snorlax", "splash")
			absorber.Ability = ability
			absorber.Hp = absorber.MaxHp / 2
			state := testState(testPokemon(t, dex, "pikachu", move), absorber)

			outcomes, err := NewResolver(dex).Resolve(state, NewMoveAction(move), NewMoveAction("splash"))
			require.NoError(t, err)
			require.Len(t, outcomes, 1)
			require.Contains(t, outcomes[0].Instructions, Instruction(HealInstruction{Side: OPPONENT, Amount: absorber.MaxHp / 4}))
		})
	}
}

func TestLevitate(t *testing.T) {
	dex := testDex(t)
	attacker := testPokemon(t, dex, "garchomp")
	defender := testPokemon(t, dex, "magnezone")
	earthquake := testMove(t, dex, "earthquake")

	require.NotEqual(t, []int{0}, CalculateDamage(attacker, defender, earthquake, Conditions{}, false))
	defender.Ability = "levitate"
	require.Equal(t, []int{0}, CalculateDamage(attacker, defender, earthquake, Conditions{}, false))
	attacker.Ability = "moldbreaker"
	require.NotEqual(t, []int{0}, CalculateDamage(attacker, defender, earthquake, Conditions{}, false))
}

func TestHugePower(t *testing.T) {
	dex := testDex(t)
	attacker := testPokemon(t, dex, "bulbasaur")
	defender := testPokemon(t, dex, "bulbasaur")
	tackle, ember := testMove(t, dex, "tackle"), testMove(t, dex, "ember")

	plainTackle := CalculateDamage(attacker, defender, tackle, Conditions{}, false)
	plainEmber := CalculateDamage(attacker, defender, ember, Conditions{}, false)

	attacker.Ability = "hugepower"
	require.Greater(t, lo.Max(CalculateDamage(attacker, defender, tackle, Conditions{}, false)), lo.Max(plainTackle))
	require.Equal(t, plainEmber, CalculateDamage(attacker, defender, ember, Conditions{}, false), "special moves are not boosted")
}

func TestThickFat(t *testing.T) {
	dex := testDex(t)
	attacker := testPokemon(t, dex, "alakazam")
	defender := testPokemon(t, dex, "snorlax")
	defender.Ability = "immunity"
	icebeam := testMove(t, dex, "icebeam")

	plain := CalculateDamage(attacker, defender, icebeam, Conditions{}, false)
	defender.Ability = "thickfat"
	halved := CalculateDamage(attacker, defender, icebeam, Conditions{}, false)

	require.Less(t, lo.Max(halved), lo.Max(plain))
	require.InDelta(t, float64(lo.Max(plain))/2, float64(lo.Max(halved)), 3)
}

func TestWonderGuard(t *testing.T) {
	dex := testDex(t)
	attacker := testPokemon(t, dex, "charizard")
	defender := testPokemon(t, dex, "shedinja")
	defender.Ability = "wonderguard"

	require.Equal(t, []int{0}, CalculateDamage(attacker, defender, testMove(t, dex, "earthquake"), Conditions{}, false))
	require.NotEqual(t, []int{0}, CalculateDamage(attacker, defender, testMove(t, dex, "flamethrower"), Conditions{}, false))
}

func TestSwiftSwim(t *testing.T) {
	dex := testDex(t)
	swimmer := testPokemon(t, dex, "kingdra", "surf")
	swimmer.Ability = "swiftswim"
	state := testState(swimmer, testPokemon(t, dex, "snorlax", "tackle"))

	dry := EffectiveSpeed(state, USER)
	state.Weather = Weather{Kind: WEATHER_RAIN, Turns: 3}
	require.Equal(t, dry*2, EffectiveSpeed(state, USER))
	require.Equal(t, EffectiveSpeed(state, OPPONENT), state.Opponent.Active.BoostedStat(STAT_SPEED))
}
