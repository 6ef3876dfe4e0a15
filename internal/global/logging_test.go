package global

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestRollingFileWriter(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewRollingFileWriter(dir, "showdown")
	require.NoError(t, err)
	writer.maxSize = 10
	writer.maxLogs = 3

	for i := range 5 {
		_, err := writer.Write([]byte(strings.Repeat(string(rune('a'+i)), 20)))
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	require.ElementsMatch(t, []string{"showdown.log", "showdown-1.log", "showdown-2.log"}, names)

	for file, want := range map[string]string{"showdown.log": "e", "showdown-1.log": "d", "showdown-2.log": "c"} {
		contents, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err)
		require.Equal(t, strings.Repeat(want, 20), string(contents), file)
	}
}

func TestRollingFileWriterSingleLog(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewRollingFileWriter(dir, "showdown")
	require.NoError(t, err)
	writer.maxSize = 10
	writer.maxLogs = 1

	for range 3 {
		_, err := writer.Write([]byte(strings.Repeat("x", 20)))
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "showdown.log", entries[0].Name())
}

func TestGetLogIndex(t *testing.T) {
	tests := []struct {
		file string
		want int
	}{
		{"showdown-1.log", 1},
		{"/var/log/showdown-12.log", 12},
		{"showdown-0.log", -1},
		{"showdown-x.log", -1},
		{"other-3.log", -1},
	}

	for _, test := range tests {
		t.Run(test.file, func(t *testing.T) {
			require.Equal(t, test.want, getLogIndex("showdown", test.file))
		})
	}
}

func TestGlobalInit(t *testing.T) {
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")
	t.Setenv("SHOWDOWN_LOG_DIR", logDir)
	t.Setenv("SHOWDOWN_DEBUG", "true")

	require.NoError(t, GlobalInit(filepath.Join(dir, "config.json"), nil))
	require.True(t, Opt.Debug)
	require.Equal(t, logDir, Opt.LogDir)

	log.Info().Msg("hello from the test")

	contents, err := os.ReadFile(filepath.Join(logDir, "showdown.log"))
	require.NoError(t, err)
	require.Contains(t, string(contents), "hello from the test")

	StopLogging()
	log.Info().Msg("not written")
	ContinueLogging()

	contents, err = os.ReadFile(filepath.Join(logDir, "showdown.log"))
	require.NoError(t, err)
	require.NotContains(t, string(contents), "not written")
}

func TestForceRng(t *testing.T) {
	ForceRng(rand.NewPCG(1, 2))
	first := ShowdownRand.IntN(1000)
	ForceRng(rand.NewPCG(1, 2))
	require.Equal(t, first, ShowdownRand.IntN(1000))
	SetNormalRng()
}
