// Package config handles loading the planner's config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the planner configuration file. Every field has a usable
// default, so a missing file is not an error.
type Config struct {
	// DBPath is the sqlite database location.
	DBPath string `toml:"db-path"`

	// LogPath is the debug log location.
	LogPath string `toml:"log-path"`

	// NotifyLeadMinutes is the upcoming-event window for notifications.
	NotifyLeadMinutes int `toml:"notify-lead-minutes"`

	// SweepTime is the HH:MM local time of the daily automation sweep.
	SweepTime string `toml:"sweep-time"`
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config directory: %w", err)
	}

	return filepath.Join(configDir, "planner", "config.toml"), nil
}

func defaults() (Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Config{}, fmt.Errorf("get config directory: %w", err)
	}

	base := filepath.Join(configDir, "planner")

	return Config{
		DBPath:            filepath.Join(base, "planner.sqlite"),
		LogPath:           filepath.Join(base, "planner.log"),
		NotifyLeadMinutes: 15,
		SweepTime:         "08:00",
	}, nil
}

// Load reads the config file at path, filling unset keys with defaults.
// A missing file yields the full default config.
func Load(path string) (Config, error) {
	cfg, err := defaults()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}

	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// EnsureDir creates the directory holding the given file path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
