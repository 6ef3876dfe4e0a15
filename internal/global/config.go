package global

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/cjdiaz98/showdown/searcher"
	"github.com/joho/godotenv"
)

// Config is everything the binary reads from config.json, .env and the environment.
// Zero values are filled in by populateConfig.
type Config struct {
	Bot string
	// MaxDepth caps the depth policy, 0 leaves it alone
	MaxDepth int
	// SearchTimeoutMs and NodeBudget bound one decision, 0 means unbounded
	SearchTimeoutMs int
	NodeBudget      int
	// Workers is how many hypotheses are searched at once, 0 means one per cpu
	Workers        int
	Rolls          string
	DisablePruning bool
	Dominance      bool
	Debug          bool
	LogDir         string
	ListenAddr     string
}

const (
	ENV_PREFIX = "SHOWDOWN_"

	DEFAULT_LISTEN_ADDR = "127.0.0.1:8080"
)

func DefaultConfigDir() string {
	configDir, _ := os.UserConfigDir()
	return filepath.Join(configDir, "showdown")
}

func DefaultConfigLocation() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func populateConfig(config Config) Config {
	if config.Bot == "" {
		config.Bot = searcher.BOT_SAFEST
	}
	if config.Rolls == "" {
		config.Rolls = engine.ROLLS_AVERAGE.String()
	}
	if config.LogDir == "" {
		config.LogDir = filepath.Join(DefaultConfigDir(), "logs/")
	}
	if config.ListenAddr == "" {
		config.ListenAddr = DEFAULT_LISTEN_ADDR
	}

	return config
}

// LoadConfig reads the config file at path, writing the defaults there first when it is missing or empty,
// then applies overrides from the env files and the SHOWDOWN_* environment variables, in that order.
func LoadConfig(path string, envFiles ...string) (Config, error) {
	config, err := readConfigFile(path)
	if err != nil {
		return Config{}, err
	}

	env, err := envOverrides(envFiles...)
	if err != nil {
		return Config{}, err
	}

	config, err = applyEnv(config, env)
	if err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func readConfigFile(path string) (Config, error) {
	configContents, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	// Non-empty config file
	if len(configContents) > 0 {
		config := Config{}
		if err := json.Unmarshal(configContents, &config); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
		return populateConfig(config), nil
	}

	config := populateConfig(Config{})
	if err := SaveConfig(path, config); err != nil {
		return Config{}, err
	}

	return config, nil
}

func SaveConfig(path string, config Config) error {
	jsonBytes, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if err := os.WriteFile(path, jsonBytes, 0640); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}

	return nil
}

// envOverrides collects SHOWDOWN_* values from the env files, later files winning, and then from the process
// environment, which wins over every file. Missing env files are skipped.
func envOverrides(envFiles ...string) (map[string]string, error) {
	env := map[string]string{}

	for _, file := range envFiles {
		values, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", file, err)
		}
		maps.Copy(env, values)
	}

	for _, pair := range os.Environ() {
		key, value, ok := strings.Cut(pair, "=")
		if ok {
			env[key] = value
		}
	}

	maps.DeleteFunc(env, func(key string, _ string) bool {
		return !strings.HasPrefix(key, ENV_PREFIX)
	})

	return env, nil
}

func applyEnv(config Config, env map[string]string) (Config, error) {
	var err error
	setString := func(name string, field *string) {
		if value, ok := env[ENV_PREFIX+name]; ok && value != "" {
			*field = value
		}
	}
	setInt := func(name string, field *int) {
		value, ok := env[ENV_PREFIX+name]
		if !ok || value == "" || err != nil {
			return
		}
		n, parseErr := strconv.Atoi(strings.TrimSpace(value))
		if parseErr != nil {
			err = fmt.Errorf("%s%s: %w", ENV_PREFIX, name, parseErr)
			return
		}
		*field = n
	}
	setBool := func(name string, field *bool) {
		value, ok := env[ENV_PREFIX+name]
		if !ok || value == "" || err != nil {
			return
		}
		b, parseErr := strconv.ParseBool(strings.TrimSpace(value))
		if parseErr != nil {
			err = fmt.Errorf("%s%s: %w", ENV_PREFIX, name, parseErr)
			return
		}
		*field = b
	}

	setString("BOT", &config.Bot)
	setInt("MAX_DEPTH", &config.MaxDepth)
	setInt("SEARCH_TIMEOUT_MS", &config.SearchTimeoutMs)
	setInt("NODE_BUDGET", &config.NodeBudget)
	setInt("WORKERS", &config.Workers)
	setString("ROLLS", &config.Rolls)
	setBool("DISABLE_PRUNING", &config.DisablePruning)
	setBool("DOMINANCE", &config.Dominance)
	setBool("DEBUG", &config.Debug)
	setString("LOG_DIR", &config.LogDir)
	setString("LISTEN_ADDR", &config.ListenAddr)

	return config, err
}

func (c Config) Validate() error {
	if _, err := engine.ParseRollPolicy(c.Rolls); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	for name, value := range map[string]int{
		"MaxDepth":        c.MaxDepth,
		"SearchTimeoutMs": c.SearchTimeoutMs,
		"NodeBudget":      c.NodeBudget,
		"Workers":         c.Workers,
	} {
		if value < 0 {
			return fmt.Errorf("config: %s must not be negative, got %d", name, value)
		}
	}

	return nil
}

func (c Config) Budget() searcher.Budget {
	return searcher.Budget{
		Timeout: time.Duration(c.SearchTimeoutMs) * time.Millisecond,
		Nodes:   c.NodeBudget,
	}
}

// BotConfig turns the config into the settings searcher.NewBot takes
func (c Config) BotConfig() (searcher.BotConfig, error) {
	rolls, err := engine.ParseRollPolicy(c.Rolls)
	if err != nil {
		return searcher.BotConfig{}, fmt.Errorf("config: %w", err)
	}

	return searcher.BotConfig{
		Name:      c.Bot,
		MaxDepth:  c.MaxDepth,
		Workers:   c.Workers,
		Budget:    c.Budget(),
		Rolls:     rolls,
		Pruning:   !c.DisablePruning,
		Dominance: c.Dominance,
	}, nil
}
