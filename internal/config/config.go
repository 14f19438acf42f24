// Package config handles viewer client configuration loading.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all client settings.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds backend connection settings.
type ServerConfig struct {
	BaseURL        string        `yaml:"base_url"`
	WebSocketURL   string        `yaml:"websocket_url"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			WebSocketURL:   "ws://localhost:8000/ws",
			ReconnectDelay: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration with priority: defaults < file. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
