package global

import (
	"io"
	"math/rand/v2"
	"os"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/cjdiaz98/showdown/searcher"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	Opt = populateConfig(Config{})

	// Global RNG that can be changed for testing purposes
	ShowdownRand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	previousLevel zerolog.Level
	fileWriter    io.Writer
)

// GlobalInit loads the config at configPath (plus .env in the working directory) into Opt and sets up logging.
// Log lines go to the rolling file in Opt.LogDir and, when console is not nil, to console as well.
// The engine and searcher loggers are bridged onto the same zerolog logger.
func GlobalInit(configPath string, console io.Writer) error {
	// Basic logging for config debugging
	initLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	config, err := LoadConfig(configPath, ".env")
	if err != nil {
		initLogger.Err(err).Str("path", configPath).Msg("error occurred while loading config")
		return err
	}
	Opt = config

	rollingWriter, err := NewRollingFileWriter(Opt.LogDir, "showdown")
	if err != nil {
		initLogger.Err(err).Str("dir", Opt.LogDir).Msg("error occurred while creating the log dir")
		return err
	}
	fileWriter = zerolog.ConsoleWriter{Out: rollingWriter, NoColor: true}

	log.Logger = createLogger(console, logLevel(Opt.Debug))
	bridgeLoggers()

	log.Debug().Interface("config", Opt).Msg("config loaded")
	return nil
}

func logLevel(debug bool) zerolog.Level {
	if debug {
		// engine V(2) logs are trace
		return zerolog.TraceLevel
	}
	return zerolog.InfoLevel
}

func createLogger(console io.Writer, level zerolog.Level) zerolog.Logger {
	writers := []io.Writer{}
	if fileWriter != nil {
		writers = append(writers, fileWriter)
	}
	if console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: console})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Caller().Logger().Level(level)
}

func bridgeLoggers() {
	maxV := 0
	if Opt.Debug {
		maxV = 2
	}
	zerologr.SetMaxV(maxV)

	logrLogger := zerologr.New(&log.Logger)
	engine.SetLogger(logrLogger)
	searcher.SetLogger(logrLogger)
}

// StopLogging silences the global logger, the terminal ui uses it while it owns the screen
func StopLogging() {
	previousLevel = log.Logger.GetLevel()
	log.Logger = zerolog.Nop()
	bridgeLoggers()
}

// ContinueLogging restores file logging after StopLogging
func ContinueLogging() {
	log.Logger = createLogger(nil, previousLevel)
	bridgeLoggers()
}

func UpdateLogLevel(level zerolog.Level) {
	log.Logger = log.Logger.Level(level)
	bridgeLoggers()
}

func ForceRng(source rand.Source) {
	ShowdownRand = rand.New(source)
}

func SetNormalRng() {
	ShowdownRand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
