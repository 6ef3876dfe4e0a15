package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateJSONRoundTrip(t *testing.T) {
	dex := testDex(t)
	user := testPokemon(t, dex, "garchomp", "earthquake", "swordsdance")
	user.Boosts[STAT_ATTACK] = 2
	user.Boosts[STAT_SPEED] = -1
	user.Status = STATUS_TOXIC
	user.ToxicCount = 3
	user.Volatiles = user.Volatiles.With(VOLATILE_CONFUSION).With(VOLATILE_LEECHSEED)
	opponent := testPokemon(t, dex, "clefable", "moonblast")
	opponent.TeraType = TYPENAME_STEEL
	opponent.Terastallized = true

	state := testState(user, opponent, []*Pokemon{testPokemon(t, dex, "skarmory", "spikes")}, []*Pokemon{testPokemon(t, dex, "heatran", "flamethrower")})
	state.User.Conditions[SIDE_STEALTHROCK] = 1
	state.Opponent.Conditions[SIDE_REFLECT] = 4
	state.Opponent.GimmicksUsed = state.Opponent.GimmicksUsed.With(GIMMICK_TERA)
	state.Opponent.FutureSight = FutureSight{Turns: 2, Damage: 120}
	state.Weather = Weather{Kind: WEATHER_RAIN, Turns: 3}
	state.Terrain = Terrain{Kind: TERRAIN_PSYCHIC, Turns: 1}
	state.TrickRoom = 2

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded BattleState
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, state, &decoded)
}

func TestStateJSONRejectsUnknownNames(t *testing.T) {
	var p Pokemon
	require.Error(t, json.Unmarshal([]byte(`{"status": "sad"}`), &p))
	require.Error(t, json.Unmarshal([]byte(`{"volatiles": ["happy"]}`), &p))
}

func TestValidate(t *testing.T) {
	dex := testDex(t)
	state := testState(testPokemon(t, dex, "pikachu"), testPokemon(t, dex, "snorlax"))
	require.NoError(t, state.Validate())

	state.User.Active.Hp = state.User.Active.MaxHp + 1
	require.Error(t, state.Validate())

	state = testState(testPokemon(t, dex, "pikachu"), testPokemon(t, dex, "snorlax"))
	state.Opponent.Reserve["snorlax"] = state.Opponent.Active
	require.Error(t, state.Validate())

	state = testState(testPokemon(t, dex, "pikachu"), testPokemon(t, dex, "snorlax"))
	state.User.Active.Boosts[STAT_ATTACK] = MAX_STAGE
	state.Opponent.Active.Boosts[STAT_SPEED] = MIN_STAGE
	require.NoError(t, state.Validate())
	state.User.Active.Boosts[STAT_ATTACK] = MAX_STAGE + 4
	require.ErrorContains(t, state.Validate(), "stage")
	state.User.Active.Boosts[STAT_ATTACK] = 0
	state.Opponent.Active.Boosts[STAT_SPEED] = MIN_STAGE - 1
	require.Error(t, state.Validate())
}

func TestCheckState(t *testing.T) {
	dex := testDex(t)
	state := testState(testPokemon(t, dex, "pikachu", "thunderbolt"), testPokemon(t, dex, "snorlax", "tackle"))
	require.NoError(t, dex.CheckState(state))

	state.Opponent.Active.Species = "missingno"
	require.ErrorIs(t, dex.CheckState(state), ErrUnknownSpecies)
}

func TestGameOver(t *testing.T) {
	dex := testDex(t)
	reserve := testPokemon(t, dex, "snorlax")
	state := testState(testPokemon(t, dex, "pikachu"), testPokemon(t, dex, "blissey"), nil, []*Pokemon{reserve})

	state.Opponent.Active.Hp = 0
	require.False(t, state.GameOver())
	require.True(t, state.Opponent.MustSwitch())

	reserve.Hp = 0
	require.True(t, state.GameOver())
	require.True(t, state.Opponent.Lost())
	require.False(t, state.Opponent.MustSwitch())
}

func TestCloneIsDeep(t *testing.T) {
	dex := testDex(t)
	state := testState(testPokemon(t, dex, "pikachu", "thunderbolt"), testPokemon(t, dex, "snorlax"), []*Pokemon{testPokemon(t, dex, "gengar")})

	clone := state.Clone()
	clone.User.Active.Hp = 1
	clone.User.Active.Moves[0].PP = 0
	clone.User.Reserve["gengar"].Status = STATUS_BURN

	require.NotEqual(t, 1, state.User.Active.Hp)
	require.NotZero(t, state.User.Active.Moves[0].PP)
	require.Equal(t, STATUS_NONE, state.User.Reserve["gengar"].Status)
}

func TestMirror(t *testing.T) {
	dex := testDex(t)
	state := testState(testPokemon(t, dex, "pikachu", "thunderbolt"), testPokemon(t, dex, "snorlax", "tackle"))
	state.User.Conditions[SIDE_REFLECT] = 3
	state.TrickRoom = 2

	mirror := state.Mirror()
	require.Equal(t, "snorlax", mirror.User.Active.Name)
	require.Equal(t, "pikachu", mirror.Opponent.Active.Name)
	require.Equal(t, 3, mirror.Opponent.Conditions[SIDE_REFLECT])
	require.Equal(t, 2, mirror.TrickRoom)
	require.Equal(t, state, mirror.Mirror())

	mirror.User.Active.Hp = 1
	require.NotEqual(t, 1, state.Opponent.Active.Hp)
}
