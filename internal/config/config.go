package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. DASA_DEPTH or DASA_CACHE_TTL.
const EnvPrefix = "DASA"

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// CacheConfig mirrors dasa.CacheConfig.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	TTL             time.Duration `mapstructure:"ttl"`
	MaxEntries      int           `mapstructure:"max_entries"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Config holds all runtime configuration for the dasa command.
// Values are populated from .dasa.yaml, DASA_* env vars, and CLI flags.
type Config struct {
	Depth        int         `mapstructure:"depth"`
	DisplayLevel int         `mapstructure:"display_level"`
	IndentWidth  int         `mapstructure:"indent_width"`
	YearDays     float64     `mapstructure:"year_days"`
	Timezone     string      `mapstructure:"timezone"`
	MaxSamples   int         `mapstructure:"max_samples"`
	Log          LogConfig   `mapstructure:"log"`
	Cache        CacheConfig `mapstructure:"cache"`
}

// BindEnv maps DASA_* environment variables onto config keys.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("depth", 3)
	viper.SetDefault("display_level", 0)
	viper.SetDefault("indent_width", 4)
	viper.SetDefault("year_days", 365.25)
	viper.SetDefault("timezone", "UTC")
	viper.SetDefault("max_samples", 10000)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.ttl", 15*time.Minute)
	viper.SetDefault("cache.max_entries", 1000)
	viper.SetDefault("cache.cleanup_interval", 5*time.Minute)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot work with.
func (c Config) Validate() error {
	if c.Depth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", c.Depth)
	}
	if c.DisplayLevel < 0 || c.DisplayLevel > c.Depth {
		return fmt.Errorf("display_level must be between 0 and depth (%d), got %d", c.Depth, c.DisplayLevel)
	}
	if c.IndentWidth < 0 {
		return fmt.Errorf("indent_width must not be negative, got %d", c.IndentWidth)
	}
	if c.YearDays <= 0 {
		return fmt.Errorf("year_days must be positive, got %v", c.YearDays)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// EffectiveDisplayLevel returns the level to print down to for a tree of the
// given depth.
func (c Config) EffectiveDisplayLevel(depth int) int {
	if c.DisplayLevel <= 0 || c.DisplayLevel > depth {
		return depth
	}
	return c.DisplayLevel
}
