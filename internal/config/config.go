// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the CLI configuration that can be loaded from a YAML or JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Events  string   `mapstructure:"events"`  // Path to the match feed JSON
	Weights string   `mapstructure:"weights"` // Path to the weight table (JSON or YAML)
	Out     string   `mapstructure:"out"`     // Path of the story pack to write
	Schema  string   `mapstructure:"schema"`  // Optional schema override; embedded schema otherwise
	Assets  string   `mapstructure:"assets"`  // Asset description catalog for caption matching
	Squads  []string `mapstructure:"squads"`  // Squad files used to resolve player and team names

	// Limits
	MaxPages int `mapstructure:"max_pages"` // Overrides the weight table's max_pages when > 0

	// Behavior
	Strict          bool          `mapstructure:"strict"`           // Validate output against the schema before writing
	Captions        bool          `mapstructure:"captions"`         // Consult the caption collaborator for highlights
	OfflineCaptions bool          `mapstructure:"offline_captions"` // Caption highlights from their own commentary, no LLM
	APIKey          string        `mapstructure:"api_key"`          // Gemini API key
	Model           string        `mapstructure:"model"`            // Overrides the caption model
	RequestInterval time.Duration `mapstructure:"request_interval"` // Minimum spacing between caption requests
	Verbose         bool          `mapstructure:"verbose"`          // Print detailed debug information
}

// Default paths mirror the layout of a match data checkout.
const (
	DefaultEvents  = "data/match_events.json"
	DefaultWeights = "weights.example.json"
	DefaultOut     = "out/story.json"
	DefaultAssets  = "assets/asset_descriptions.json"
)

// Defaults returns the configuration used when neither flags nor a config file set a value.
func Defaults() Config {
	return Config{
		Events:  DefaultEvents,
		Weights: DefaultWeights,
		Out:     DefaultOut,
		Assets:  DefaultAssets,
	}
}

// LoadConfig loads configuration from a YAML or JSON file.
// STORY_* environment variables override file values and GEMINI_API_KEY fills api_key.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("STORY")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var unsupported viper.UnsupportedConfigError
		if errors.As(err, &unsupported) {
			return nil, fmt.Errorf("unsupported config file type %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv fills secrets that are conventionally kept out of config files.
func overrideFromEnv(cfg *Config) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.MaxPages < 0 {
		return fmt.Errorf("config error: 'max_pages' must be non-negative")
	}
	if c.RequestInterval < 0 {
		return fmt.Errorf("config error: 'request_interval' must be non-negative")
	}

	for _, squad := range c.Squads {
		if _, err := os.Stat(squad); os.IsNotExist(err) {
			return fmt.Errorf("config error: squad file not found: %s", squad)
		}
	}

	if c.Schema != "" {
		if _, err := os.Stat(c.Schema); os.IsNotExist(err) {
			return fmt.Errorf("config error: schema file not found: %s", c.Schema)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Events == "" {
		result.Events = defaults.Events
	}
	if result.Weights == "" {
		result.Weights = defaults.Weights
	}
	if result.Out == "" {
		result.Out = defaults.Out
	}
	if result.Schema == "" {
		result.Schema = defaults.Schema
	}
	if result.Assets == "" {
		result.Assets = defaults.Assets
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if len(result.Squads) == 0 {
		result.Squads = defaults.Squads
	}

	// Numeric fields: use default if zero
	if result.MaxPages == 0 {
		result.MaxPages = defaults.MaxPages
	}
	if result.RequestInterval == 0 {
		result.RequestInterval = defaults.RequestInterval
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
