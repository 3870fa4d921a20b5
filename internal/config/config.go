package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up when walking up from the working directory
const FileName = ".powermap.yaml"

// EnvPath overrides config discovery
const EnvPath = "POWERMAP_CONFIG"

var validate = validator.New()

// Config is the full powermap configuration as read from .powermap.yaml
type Config struct {
	Database    string `yaml:"database"`
	PostgresDSN string `yaml:"postgres_dsn"`

	Network   NetworkConfig   `yaml:"network"`
	Attrs     AttributeConfig `yaml:"attributes"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Log       LogConfig       `yaml:"log"`
}

// NetworkConfig controls graph assembly
type NetworkConfig struct {
	// 0 disables the fallback; an unfiltered request then yields an empty graph
	FallbackContactID int64 `yaml:"fallback_contact_id" validate:"gte=0"`
	ContactLimit      int   `yaml:"contact_limit" validate:"gte=0"`
}

// AttributeConfig names the custom fields holding stakeholder attributes
type AttributeConfig struct {
	Influence       string `yaml:"influence" validate:"required"`
	Support         string `yaml:"support" validate:"required"`
	Strength        string `yaml:"strength" validate:"required"`
	Notes           string `yaml:"notes" validate:"required"`
	DefaultLevel    int    `yaml:"default_level" validate:"min=1,max=5"`
	DefaultStrength int    `yaml:"default_strength" validate:"min=1,max=3"`
	CacheSize       int    `yaml:"cache_size" validate:"min=1"`
}

// AnalyticsConfig tunes the network analysis
type AnalyticsConfig struct {
	KeyInfluencerLimit  int     `yaml:"key_influencer_limit" validate:"gte=0"`
	HubThreshold        int     `yaml:"hub_threshold" validate:"min=1"`
	CommunityResolution float64 `yaml:"community_resolution" validate:"gt=0"`
	CommunitySeed       uint64  `yaml:"community_seed"`
}

// LogConfig selects the log level and output format
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			FallbackContactID: 1,
			ContactLimit:      1000,
		},
		Attrs: AttributeConfig{
			Influence:       "influence_level",
			Support:         "support_level",
			Strength:        "relationship_strength",
			Notes:           "powermap_notes",
			DefaultLevel:    1,
			DefaultStrength: 1,
			CacheSize:       64,
		},
		Analytics: AnalyticsConfig{
			KeyInfluencerLimit:  10,
			HubThreshold:        5,
			CommunityResolution: 1.0,
			CommunitySeed:       1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field against its constraints
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Discover finds the config file using priority: env > flag > walk-up.
// An empty path with a nil error means no file was found and defaults apply.
func Discover(flagPath string) (string, error) {
	if envPath := os.Getenv(EnvPath); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	if flagPath != "" {
		if _, err := os.Stat(flagPath); err == nil {
			return flagPath, nil
		}
		return "", fmt.Errorf("config not found at --config path: %s", flagPath)
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", nil
	}
	return walkUp(dir, FileName), nil
}

// LoadDiscovered discovers and loads the config, falling back to defaults
func LoadDiscovered(flagPath string) (*Config, string, error) {
	path, err := Discover(flagPath)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// walkUp returns the first dir/name found walking towards the root, or ""
func walkUp(dir, name string) string {
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// FindUp exposes the walk-up search for other dotfiles such as the database
func FindUp(name string) string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return walkUp(dir, name)
}
