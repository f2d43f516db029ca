// Package daemon wires configuration, storage and the HTTP server together.
package daemon

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/finquest-app/finquest/internal/app/rewards"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config is the complete FinQuest configuration. Values come from
// DefaultConfig, then the TOML file, then FINQUEST_* environment variables.
type Config struct {
	API       APIConfig       `toml:"api" envPrefix:"FINQUEST_API_"`
	Storage   StorageConfig   `toml:"storage" envPrefix:"FINQUEST_STORAGE_"`
	Auth      AuthConfig      `toml:"auth" envPrefix:"FINQUEST_AUTH_"`
	Rewards   rewards.Config  `toml:"rewards" envPrefix:"FINQUEST_REWARDS_"`
	Quiz      QuizConfig      `toml:"quiz" envPrefix:"FINQUEST_QUIZ_"`
	Dashboard DashboardConfig `toml:"dashboard" envPrefix:"FINQUEST_DASHBOARD_"`
	Log       LogConfig       `toml:"log" envPrefix:"FINQUEST_LOG_"`
	Metrics   MetricsConfig   `toml:"metrics" envPrefix:"FINQUEST_METRICS_"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host string `toml:"host" env:"HOST"`
	Port int    `toml:"port" env:"PORT"`
}

// StorageConfig selects where profiles live.
type StorageConfig struct {
	Driver string `toml:"driver" env:"DRIVER"` // memory | sqlite
	Dir    string `toml:"dir" env:"DIR"`       // sqlite database directory
}

// AuthConfig configures session tokens. An empty secret is replaced by a
// random one at startup, which logs everyone out on restart.
type AuthConfig struct {
	Secret   string `toml:"secret" env:"SECRET"`
	TokenTTL string `toml:"token_ttl" env:"TOKEN_TTL"`
}

// QuizConfig selects the question bank. An empty file uses the built-in bank.
type QuizConfig struct {
	File string `toml:"file" env:"FILE"`
}

// DashboardConfig tunes the dashboard read model.
type DashboardConfig struct {
	RecentSavings int `toml:"recent_savings" env:"RECENT_SAVINGS"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level  string `toml:"level" env:"LEVEL"`   // debug | info | warn | error
	Format string `toml:"format" env:"FORMAT"` // text | json
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled" env:"ENABLED"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Storage: StorageConfig{
			Driver: DriverMemory,
			Dir:    DefaultHome(),
		},
		Auth: AuthConfig{
			TokenTTL: "24h",
		},
		Rewards: rewards.DefaultConfig(),
		Dashboard: DashboardConfig{
			RecentSavings: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// DefaultHome returns $FINQUEST_HOME, or ~/.finquest.
func DefaultHome() string {
	if h := os.Getenv("FINQUEST_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".finquest"
	}
	return filepath.Join(home, ".finquest")
}

// DefaultConfigPath returns the config file location under DefaultHome.
func DefaultConfigPath() string {
	return filepath.Join(DefaultHome(), "config.toml")
}

// LoadConfig reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the daemon cannot use.
func (c Config) Validate() error {
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port out of range: %d", c.API.Port)
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Dir == "" {
			return errors.New("storage.dir is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q (want %s or %s)", c.Storage.Driver, DriverMemory, DriverSQLite)
	}
	if _, err := c.TokenTTL(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return c.Rewards.Validate()
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// TokenTTL parses the session token lifetime.
func (c Config) TokenTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Auth.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("auth.token_ttl: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("auth.token_ttl must be positive, got %s", d)
	}
	return d, nil
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// NewLogger builds a logrus logger from the log section.
func NewLogger(c LogConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	if c.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}
