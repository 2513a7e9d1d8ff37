package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ThemePreset != PresetDefault {
		t.Errorf("ThemePreset = %q, want default", cfg.ThemePreset)
	}
	if cfg.LogLimit != 15 {
		t.Errorf("LogLimit = %d, want 15", cfg.LogLimit)
	}
	if cfg.DiffTarget != "worktree" {
		t.Errorf("DiffTarget = %q, want worktree", cfg.DiffTarget)
	}
	if len(cfg.Keybindings["quit"]) == 0 {
		t.Error("quit keybinding missing")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLimit != 15 {
		t.Errorf("LogLimit = %d, want default 15", cfg.LogLimit)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "theme: dracula\nhigh_contrast: true\nlog_limit: 30\ndiff_target: staged\nkeybindings:\n  quit: [\"x\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ThemePreset != PresetDracula {
		t.Errorf("ThemePreset = %q, want dracula", cfg.ThemePreset)
	}
	if !cfg.HighContrast {
		t.Error("HighContrast = false, want true")
	}
	if cfg.LogLimit != 30 {
		t.Errorf("LogLimit = %d, want 30", cfg.LogLimit)
	}
	if cfg.DiffTarget != "staged" {
		t.Errorf("DiffTarget = %q, want staged", cfg.DiffTarget)
	}
	if got := cfg.Keybindings["quit"]; len(got) != 1 || got[0] != "x" {
		t.Errorf("quit binding = %v, want [x]", got)
	}
	// Unmentioned bindings keep their defaults.
	if got := cfg.Keybindings["refresh"]; len(got) == 0 {
		t.Error("refresh binding lost during merge")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("theme: [unclosed"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load: want error for malformed YAML")
	}
}

func TestMergeKeybindings(t *testing.T) {
	merged := MergeKeybindings(Keybindings{
		"quit":        {"ctrl+d"},
		"toggle_help": {},
	})

	if got := merged["quit"]; len(got) != 1 || got[0] != "ctrl+d" {
		t.Errorf("quit = %v, want override", got)
	}
	// Empty overrides are ignored.
	if got := merged["toggle_help"]; len(got) == 0 {
		t.Error("toggle_help lost its default")
	}
}

func TestThemeForPresetHighContrast(t *testing.T) {
	plain := ThemeForPreset(PresetDefault, false)
	contrast := ThemeForPreset(PresetDefault, true)

	if plain.DimFg == contrast.DimFg {
		t.Error("high contrast did not adjust DimFg")
	}
}

func TestThemeForPresetUnknownFallsBack(t *testing.T) {
	got := ThemeForPreset("nope", false)
	if got != DefaultTheme() {
		t.Error("unknown preset should fall back to the default theme")
	}
}
