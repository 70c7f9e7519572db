package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LimitsConfig holds the default result limits per operation. Zero means
// unlimited.
type LimitsConfig struct {
	Search    int `mapstructure:"search"`
	Recent    int `mapstructure:"recent"`
	TimeQuery int `mapstructure:"time_query"`
}

// DefaultLimits are applied when the config file and environment leave a
// limit unset. Consumers given a zero-valued Config fall back to them too.
var DefaultLimits = LimitsConfig{Search: 20, Recent: 10, TimeQuery: 0}

// CaptureConfig holds periodic capture configuration.
type CaptureConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Config holds the application configuration.
type Config struct {
	Storage       string        `mapstructure:"storage"`
	DataDir       string        `mapstructure:"data_dir"`
	Editor        string        `mapstructure:"editor"`
	LogLevel      string        `mapstructure:"log_level"`
	DetectProject bool          `mapstructure:"detect_project"`
	Limits        LimitsConfig  `mapstructure:"limits"`
	Capture       CaptureConfig `mapstructure:"capture"`
}

// DefaultDataDir returns the default data directory (~/.devjournal/).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".devjournal")
	}
	return filepath.Join(home, ".devjournal")
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Load reads configuration from file, environment variables, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("storage", "sqlite")
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("editor", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("detect_project", true)
	v.SetDefault("limits.search", DefaultLimits.Search)
	v.SetDefault("limits.recent", DefaultLimits.Recent)
	v.SetDefault("limits.time_query", DefaultLimits.TimeQuery)
	v.SetDefault("capture.interval", "30m")

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// XDG support
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "devjournal"))
		}
		v.AddConfigPath(DefaultDataDir())
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	// Environment variables: DEVJOURNAL_STORAGE, DEVJOURNAL_LIMITS_SEARCH, etc.
	v.SetEnvPrefix("DEVJOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only return error if it's not a "file not found" error
			if configPath != "" {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.DataDir = ExpandPath(cfg.DataDir)

	return cfg, nil
}
