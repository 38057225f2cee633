package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v9"
)

// Theme values accepted in the config file and the tray menu.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

const (
	DefaultHotkey = "ctrl+alt+space"
	DefaultModel  = "gemini-2.5-flash"
)

type Config struct {
	APIKey            string `json:"api_key" env:"GEMINI_API_KEY"`
	Hotkey            string `json:"hotkey"`
	Model             string `json:"model"`
	Theme             string `json:"theme"` // "light", "dark" or "system"
	AutoStart         bool   `json:"auto_start"`
	ShowNotifications bool   `json:"show_notifications"`
	CaptureSelection  bool   `json:"capture_selection"`
	PreferPaste       bool   `json:"prefer_paste"`
	LogLevel          string `json:"log_level" env:"GEMTYPE_LOG_LEVEL"`
	FirstRun          bool   `json:"first_run"`
}

// Load reads the config from disk, applies environment overrides and
// returns defaults for anything unset. GEMINI_API_KEY always wins over
// the api_key stored in the file.
func Load() (*Config, error) {
	path := configPath()

	cfg := &Config{
		Hotkey:            DefaultHotkey,
		Model:             DefaultModel,
		Theme:             ThemeSystem,
		AutoStart:         true,
		ShowNotifications: true,
		CaptureSelection:  false,
		PreferPaste:       true,
		LogLevel:          "info",
		FirstRun:          true,
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env overrides: %w", err)
	}

	cfg.normalize()

	return cfg, nil
}

// Save writes the config to disk. The file holds the API key, so it is
// not group/world readable.
func (c *Config) Save() error {
	path := configPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// normalize resets out-of-range values to defaults rather than failing
// startup over a hand-edited config file.
func (c *Config) normalize() {
	switch c.Theme {
	case ThemeSystem, ThemeLight, ThemeDark:
	default:
		c.Theme = ThemeSystem
	}
	if c.Hotkey == "" {
		c.Hotkey = DefaultHotkey
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "gemtype", "config.json")
}
