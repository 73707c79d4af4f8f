package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings are per-user CLI defaults. Flags and FLOWLINT_* environment
// variables take precedence.
type Settings struct {
	Server        string `toml:"server,omitempty"`
	Token         string `toml:"token,omitempty"`
	Registry      string `toml:"registry,omitempty"`
	NATSURL       string `toml:"nats_url,omitempty"`
	DatabaseURL   string `toml:"database_url,omitempty"`
	StrictOutputs bool   `toml:"strict_outputs"`
	StrictEmpty   bool   `toml:"strict_empty"`
}

func settingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "flowlint", "config.toml"), nil
}

// mustLoadSettings loads the default settings file, warning and falling back
// to zero settings when it cannot be parsed.
func mustLoadSettings() Settings {
	s, err := loadDefaultSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring settings file: %v\n", err)
		return Settings{}
	}
	return s
}

func loadDefaultSettings() (Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return Settings{}, nil
	}
	return loadSettings(path)
}

// loadSettings reads path. A missing file yields zero settings.
func loadSettings(path string) (Settings, error) {
	var s Settings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, err
	}
	return s, nil
}

func envOrSetting(key, setting string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return setting
}
