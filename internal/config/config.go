// Package config loads the client's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Poll   PollConfig   `yaml:"poll"`

	// LegacyFactor is parsed and kept so existing config files remain
	// valid, but no algorithm consumes it.
	LegacyFactor float64 `yaml:"legacy_factor"`
}

type ServerConfig struct {
	// URL is the websocket endpoint, e.g. "ws://127.0.0.1:8080/ws".
	URL string `yaml:"url"`
}

type PollConfig struct {
	// Interval between getEvents polls. The first poll fires immediately
	// on connect regardless of this value.
	Interval time.Duration `yaml:"interval"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "ws://127.0.0.1:8080/ws",
		},
		Poll: PollConfig{
			Interval: 5 * time.Second,
		},
		LegacyFactor: 100,
	}
}

// Load reads the YAML file at path. Defaults are applied first, so a
// partial file only overrides what it mentions.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	return Load(path)
}

// Validate checks the fields the client cannot run without.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url required")
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %v", c.Poll.Interval)
	}
	return nil
}
