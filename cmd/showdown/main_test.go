package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/cjdiaz98/showdown/searcher"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SHOWDOWN_LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("SHOWDOWN_MAX_DEPTH", "1")
	return filepath.Join(dir, "config.json")
}

func randomState(t *testing.T) *engine.BattleState {
	t.Helper()
	dex, err := engine.DefaultDex()
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(9, 9))
	user := engine.RandomTeam(dex, rng, 2)
	opponent := engine.RandomTeam(dex, rng, 2)
	return engine.NewState(engine.NewSide(user[0], user[1:]...), engine.NewSide(opponent[0], opponent[1:]...))
}

func TestDecideFromStdin(t *testing.T) {
	configPath := testConfig(t)
	state := randomState(t)
	input, err := json.Marshal(state)
	require.NoError(t, err)

	for _, bot := range searcher.BOT_NAMES {
		t.Run(bot, func(t *testing.T) {
			out := bytes.Buffer{}
			err := run(context.Background(), []string{"-config", configPath, "decide", "-bot", bot}, bytes.NewReader(input), &out)
			require.NoError(t, err)

			decision := searcher.Decision{}
			require.NoError(t, json.Unmarshal(out.Bytes(), &decision))
			require.Equal(t, bot, decision.Bot)

			legal, err := engine.LegalActions(state, engine.USER)
			require.NoError(t, err)
			require.Contains(t, legal, decision.Action)
		})
	}
}

func TestDecideFromFile(t *testing.T) {
	configPath := testConfig(t)
	state := randomState(t)
	input, err := json.Marshal(searcher.Request{Hypotheses: []*engine.BattleState{state, state.Clone()}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, input, 0640))

	out := bytes.Buffer{}
	require.NoError(t, run(context.Background(), []string{"-config", configPath, "decide", "-state", path, "-pretty"}, nil, &out))
	require.True(t, strings.HasPrefix(out.String(), "safest chose"), out.String())
	require.Contains(t, out.String(), "h1 ")
}

func TestRunErrors(t *testing.T) {
	configPath := testConfig(t)

	err := run(context.Background(), []string{"-config", configPath}, nil, &bytes.Buffer{})
	require.ErrorIs(t, err, errUsage)

	err = run(context.Background(), []string{"-config", configPath, "fly"}, nil, &bytes.Buffer{})
	require.ErrorIs(t, err, errUsage)

	err = run(context.Background(), []string{"-config", configPath, "decide"}, strings.NewReader("{"), &bytes.Buffer{})
	require.Error(t, err)

	err = run(context.Background(), []string{"-config", configPath, "watch", "-team-size", "0"}, nil, &bytes.Buffer{})
	require.ErrorIs(t, err, errUsage)
}
