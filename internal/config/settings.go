package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every settings environment variable.
const EnvPrefix = "RESTVIEW"

// Settings configures the server process.
type Settings struct {
	Addr      string  `mapstructure:"addr"`
	Driver    string  `mapstructure:"driver"`
	DSN       string  `mapstructure:"dsn"`
	Config    string  `mapstructure:"config"`
	LogLevel  string  `mapstructure:"log-level"`
	LogFormat string  `mapstructure:"log-format"`
	RateLimit float64 `mapstructure:"rate-limit"` // requests per second per client; 0 disables
	Burst     int     `mapstructure:"burst"`
	MaxLimit  int     `mapstructure:"max-limit"` // default for resources without max_limit
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Addr:      ":8080",
		Driver:    "sqlite3",
		DSN:       "restview.db",
		Config:    "restview.yaml",
		LogLevel:  "info",
		LogFormat: "text",
		RateLimit: 0,
		Burst:     20,
		MaxLimit:  100,
	}
}

// NewViper returns a viper instance with defaults and RESTVIEW_*
// environment lookup ("log-level" → RESTVIEW_LOG_LEVEL). Flags are bound
// by the caller with BindPFlags.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := DefaultSettings()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("driver", d.Driver)
	v.SetDefault("dsn", d.DSN)
	v.SetDefault("config", d.Config)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("rate-limit", d.RateLimit)
	v.SetDefault("burst", d.Burst)
	v.SetDefault("max-limit", d.MaxLimit)
	return v
}

// LoadSettings resolves and validates settings from v.
func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return Settings{}, fmt.Errorf("log-format must be text or json, got %q", s.LogFormat)
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return Settings{}, fmt.Errorf("log-level must be debug, info, warn or error, got %q", s.LogLevel)
	}
	if s.RateLimit < 0 || s.Burst < 0 || s.MaxLimit < 0 {
		return Settings{}, fmt.Errorf("rate-limit, burst and max-limit must not be negative")
	}
	return s, nil
}
