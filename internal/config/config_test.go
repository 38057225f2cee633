//go:build !windows && !darwin

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMTYPE_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Hotkey != DefaultHotkey {
		t.Errorf("expected default hotkey %q, got %q", DefaultHotkey, cfg.Hotkey)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("expected default model %q, got %q", DefaultModel, cfg.Model)
	}
	if cfg.Theme != ThemeSystem {
		t.Errorf("expected theme %q, got %q", ThemeSystem, cfg.Theme)
	}
	if !cfg.AutoStart {
		t.Error("expected auto start enabled by default")
	}
	if !cfg.ShowNotifications {
		t.Error("expected notifications enabled by default")
	}
	if !cfg.FirstRun {
		t.Error("expected first run true on a fresh config")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMTYPE_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg.Hotkey = "ctrl+shift+g"
	cfg.Theme = ThemeDark
	cfg.APIKey = "file-key"
	cfg.FirstRun = false

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}

	if loaded.Hotkey != "ctrl+shift+g" {
		t.Errorf("hotkey not persisted, got %q", loaded.Hotkey)
	}
	if loaded.Theme != ThemeDark {
		t.Errorf("theme not persisted, got %q", loaded.Theme)
	}
	if loaded.APIKey != "file-key" {
		t.Errorf("api key not persisted, got %q", loaded.APIKey)
	}
	if loaded.FirstRun {
		t.Error("first run flag not persisted")
	}
}

func TestEnvOverridesFileKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GEMTYPE_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.APIKey = "file-key"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.APIKey != "env-key" {
		t.Errorf("expected env key to win, got %q", loaded.APIKey)
	}
}

func TestNormalizeInvalidValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMTYPE_LOG_LEVEL", "")

	raw := map[string]any{
		"theme":  "solarized",
		"hotkey": "",
		"model":  "",
	}
	data, _ := json.Marshal(raw)
	path := filepath.Join(dir, "gemtype", "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Theme != ThemeSystem {
		t.Errorf("expected invalid theme reset to system, got %q", cfg.Theme)
	}
	if cfg.Hotkey != DefaultHotkey {
		t.Errorf("expected empty hotkey reset to default, got %q", cfg.Hotkey)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("expected empty model reset to default, got %q", cfg.Model)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "gemtype", "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}
