package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultHeartbeatIntervalSeconds is used when no config file sets one.
const DefaultHeartbeatIntervalSeconds = 30.0

// Config is the application configuration. The runner core consumes exactly
// one key (heartbeat.interval_seconds); everything else belongs to the CLI
// and its adapters.
type Config struct {
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
}

// HeartbeatConfig controls the liveness pulse cadence.
type HeartbeatConfig struct {
	IntervalSeconds float64 `yaml:"interval_seconds"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// StoreConfig selects the run snapshot store.
type StoreConfig struct {
	Kind  string      `yaml:"kind"` // "memory" (default) or "redis"
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis adapter.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Heartbeat: HeartbeatConfig{IntervalSeconds: DefaultHeartbeatIntervalSeconds},
		Log:       LogConfig{Level: "info"},
		Store: StoreConfig{
			Kind:  "memory",
			Redis: RedisConfig{Address: "localhost:6379"},
		},
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults; a missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Heartbeat.IntervalSeconds <= 0 {
		cfg.Heartbeat.IntervalSeconds = DefaultHeartbeatIntervalSeconds
	}
	return cfg, nil
}

// HeartbeatInterval returns the configured pulse cadence as a duration.
func (c *Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.Heartbeat.IntervalSeconds * float64(time.Second))
}
