package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is patter's user configuration, ~/.patter/config.yml.
type Config struct {
	// Author is the handle written on outgoing messages.
	Author string `yaml:"author"`

	// Database overrides the default board path (~/.patter/patter.db).
	Database string `yaml:"database,omitempty"`

	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
}

func Path() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".patter", "config.yml")
}

// Load reads the config file, filling defaults for anything missing.
// A missing file is not an error; defaults apply.
func Load() (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(Path())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Author == "" {
		cfg.Author = defaultAuthor()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// Save writes the config file, creating ~/.patter if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaults() Config {
	return Config{Author: defaultAuthor(), LogLevel: "info"}
}

func defaultAuthor() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "anonymous"
}
