// Package config loads pyintroduce settings from defaults, an optional YAML
// file and PYINTRODUCE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PYINTRODUCE_SCAN_PARALLEL.
const EnvPrefix = "PYINTRODUCE"

// Replace modes of the occurrence question.
const (
	ReplaceAsk = "ask"
	ReplaceAll = "all"
	ReplaceOne = "one"
)

// Config holds the complete application configuration.
type Config struct {
	Introduce IntroduceConfig `mapstructure:"introduce"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Log       LogConfig       `mapstructure:"log"`
}

// IntroduceConfig holds defaults of the introduce command.
type IntroduceConfig struct {
	DefaultName string `mapstructure:"default_name"`
	Replace     string `mapstructure:"replace"`
	InitPlace   string `mapstructure:"init_place"`
	// Inplace introduces with the first suggestion and no up-front dialog.
	Inplace   bool `mapstructure:"inplace"`
	MaxSuffix int  `mapstructure:"max_suffix"`
}

// ScanConfig holds defaults of the scan command.
type ScanConfig struct {
	Parallel       int      `mapstructure:"parallel"`
	MinOccurrences int      `mapstructure:"min_occurrences"`
	Exclude        []string `mapstructure:"exclude"`
	Format         string   `mapstructure:"format"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("introduce.default_name", "x")
	v.SetDefault("introduce.replace", ReplaceAsk)
	v.SetDefault("introduce.init_place", string(m.InitSameScope))
	v.SetDefault("introduce.inplace", true)
	v.SetDefault("introduce.max_suffix", 1000)

	v.SetDefault("scan.parallel", 1)
	v.SetDefault("scan.min_occurrences", 2)
	v.SetDefault("scan.exclude", []string{})
	v.SetDefault("scan.format", "table")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// Load builds a viper instance from defaults, the environment and the config
// file. An explicit file must exist; otherwise ./.pyintroduce.yaml is read
// when present.
func Load(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".pyintroduce")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// New creates a new Config instance from Viper.
func New(v *viper.Viper) (*Config, error) {
	var config Config

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Introduce.DefaultName == "" {
		return errors.New("introduce.default_name is required")
	}

	switch c.Introduce.Replace {
	case ReplaceAsk, ReplaceAll, ReplaceOne:
	default:
		return fmt.Errorf("introduce.replace must be one of ask, all, one; got %q", c.Introduce.Replace)
	}

	if !m.InitPlace(c.Introduce.InitPlace).Valid() {
		return fmt.Errorf("introduce.init_place must be one of %s, %s, %s; got %q",
			m.InitSameScope, m.InitConstructor, m.InitSetUp, c.Introduce.InitPlace)
	}

	if c.Introduce.MaxSuffix < 1 {
		return errors.New("introduce.max_suffix must be at least 1")
	}

	if c.Scan.Parallel < 1 {
		return errors.New("scan.parallel must be at least 1")
	}

	if c.Scan.MinOccurrences < 2 {
		return errors.New("scan.min_occurrences must be at least 2")
	}

	switch c.Scan.Format {
	case "table", "yaml", "json":
	default:
		return fmt.Errorf("scan.format must be one of table, yaml, json; got %q", c.Scan.Format)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console; got %q", c.Log.Format)
	}

	return nil
}

// ReplaceAllPreset turns the replace mode into the preset of a session: nil
// means ask.
func (c IntroduceConfig) ReplaceAllPreset() *bool {
	var all bool

	switch c.Replace {
	case ReplaceAll:
		all = true
	case ReplaceOne:
		all = false
	default:
		return nil
	}

	return &all
}
