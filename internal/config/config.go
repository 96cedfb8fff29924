package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
)

// Config holds all configuration for the application
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Runner  RunnerConfig  `mapstructure:"runner"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GameConfig holds the engine settings recorded in every artifact
type GameConfig struct {
	TurnLimit      int `mapstructure:"turn_limit"`
	ActionsPerTurn int `mapstructure:"actions_per_turn"`
	BoardColumns   int `mapstructure:"board_columns"`
}

// RunnerConfig holds match runner and pool settings
type RunnerConfig struct {
	Matches           int           `mapstructure:"matches"`
	Workers           int           `mapstructure:"workers"`
	BaseSeed          int64         `mapstructure:"base_seed"`
	ProviderTimeout   time.Duration `mapstructure:"provider_timeout"`
	Fallback          string        `mapstructure:"fallback"`
	MaxIllegalPerTurn int           `mapstructure:"max_illegal_per_turn"`
	Players           []string      `mapstructure:"players"`
}

// OutputConfig holds where artifacts and archives are written
type OutputConfig struct {
	Dir     string `mapstructure:"dir"`
	Archive bool   `mapstructure:"archive"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MatchConfig converts the game section to the engine's config type.
func (g GameConfig) MatchConfig() game.MatchConfig {
	return game.MatchConfig{
		TurnLimit:      g.TurnLimit,
		ActionsPerTurn: g.ActionsPerTurn,
		BoardColumns:   g.BoardColumns,
	}
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.turn_limit", core.DefaultTurnLimit)
	v.SetDefault("game.actions_per_turn", core.DefaultActionsPerTurn)
	v.SetDefault("game.board_columns", core.StandardColumns)

	// Runner defaults
	v.SetDefault("runner.matches", 8)
	v.SetDefault("runner.workers", 4)
	v.SetDefault("runner.base_seed", 1)
	v.SetDefault("runner.provider_timeout", "2s")
	v.SetDefault("runner.fallback", "end_turn")
	v.SetDefault("runner.max_illegal_per_turn", 3)
	v.SetDefault("runner.players", []string{"random", "greedy"})

	// Output defaults
	v.SetDefault("output.dir", "artifacts")
	v.SetDefault("output.archive", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/hexskirmish")
	}

	v.SetEnvPrefix("HEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path that does not exist falls back to defaults too
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)
	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}
	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) error {
	v.Set(key, value)
	return v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetDuration gets a duration value from config
func GetDuration(key string) time.Duration {
	return v.GetDuration(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig reloads the config file when it changes. Invalid edits are
// reported to onChange and the previous values are kept.
func WatchConfig(onChange func(*Config, error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := v.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err == nil {
			cfg = next
		}
		if onChange != nil {
			onChange(cfg, err)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if err := c.Game.MatchConfig().Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	if c.Runner.Matches < 1 {
		return fmt.Errorf("runner.matches must be positive")
	}
	if c.Runner.Workers < 1 {
		return fmt.Errorf("runner.workers must be positive")
	}
	if c.Runner.ProviderTimeout <= 0 {
		return fmt.Errorf("runner.provider_timeout must be positive")
	}
	switch c.Runner.Fallback {
	case "end_turn", "forfeit":
	default:
		return fmt.Errorf("runner.fallback must be end_turn or forfeit, got %q", c.Runner.Fallback)
	}
	if c.Runner.MaxIllegalPerTurn < 1 {
		return fmt.Errorf("runner.max_illegal_per_turn must be positive")
	}
	if len(c.Runner.Players) != 2 {
		return fmt.Errorf("runner.players must name exactly 2 providers, got %d", len(c.Runner.Players))
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
