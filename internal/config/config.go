package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Theme        Theme
	ThemePreset  ThemePreset
	HighContrast bool
	LogLimit     int
	DiffTarget   string
	Keybindings  Keybindings
}

// ThemePreset describes a named theme configuration.
type ThemePreset string

const (
	PresetDefault  ThemePreset = "default"
	PresetSolarize ThemePreset = "solarized"
	PresetDracula  ThemePreset = "dracula"
)

// Keybindings maps semantic actions to one or more key sequences.
type Keybindings map[string][]string

// Theme defines the color scheme for the application
type Theme struct {
	OutputFg    lipgloss.Color
	ErrorBg     lipgloss.Color
	ErrorFg     lipgloss.Color
	AccentFg    lipgloss.Color
	DimFg       lipgloss.Color
	BorderFg    lipgloss.Color
	TitleFg     lipgloss.Color
	TitleBg     lipgloss.Color
	HelpFg      lipgloss.Color
	SelectionFg lipgloss.Color
	SelectionBg lipgloss.Color
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ThemePreset:  PresetDefault,
		Theme:        ThemeForPreset(PresetDefault, false),
		HighContrast: false,
		LogLimit:     15,
		DiffTarget:   "worktree",
		Keybindings:  DefaultKeybindings(),
	}
}

// fileConfig mirrors the YAML shape of the optional config file.
type fileConfig struct {
	Theme        string              `yaml:"theme"`
	HighContrast *bool               `yaml:"high_contrast"`
	LogLimit     *int                `yaml:"log_limit"`
	DiffTarget   string              `yaml:"diff_target"`
	Keybindings  map[string][]string `yaml:"keybindings"`
}

// DefaultPath returns the standard config file location,
// ~/.config/gtaz/config.yaml. Empty when the home directory cannot be
// resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gtaz", "config.yaml")
}

// Load reads the config file at path, falling back to DefaultPath when
// path is empty. A missing file yields the defaults; a malformed file
// is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Theme != "" {
		cfg.ThemePreset = ThemePreset(fc.Theme)
	}
	if fc.HighContrast != nil {
		cfg.HighContrast = *fc.HighContrast
	}
	if fc.LogLimit != nil && *fc.LogLimit > 0 {
		cfg.LogLimit = *fc.LogLimit
	}
	if fc.DiffTarget != "" {
		cfg.DiffTarget = fc.DiffTarget
	}
	if fc.Keybindings != nil {
		cfg.Keybindings = MergeKeybindings(fc.Keybindings)
	}

	cfg.Theme = ThemeForPreset(cfg.ThemePreset, cfg.HighContrast)
	return cfg, nil
}

// DefaultTheme returns the default color theme
func DefaultTheme() Theme {
	return Theme{
		OutputFg:    lipgloss.Color("#B0B0B0"),
		ErrorBg:     lipgloss.Color("#4A2D2D"),
		ErrorFg:     lipgloss.Color("#E6A3A3"),
		AccentFg:    lipgloss.Color("#A8E6A3"),
		DimFg:       lipgloss.Color("#666666"),
		BorderFg:    lipgloss.Color("#3A3A3A"),
		TitleFg:     lipgloss.Color("#FFFFFF"),
		TitleBg:     lipgloss.Color("#5F5FAF"),
		HelpFg:      lipgloss.Color("#888888"),
		SelectionFg: lipgloss.Color("#FFFFFF"),
		SelectionBg: lipgloss.Color("#5F5FAF"),
	}
}

// ThemeForPreset resolves a preset name to a concrete Theme, optionally
// applying a high-contrast variation.
func ThemeForPreset(preset ThemePreset, highContrast bool) Theme {
	switch preset {
	case PresetSolarize:
		return applyContrast(Theme{
			OutputFg:    lipgloss.Color("#93A1A1"),
			ErrorBg:     lipgloss.Color("#3C1F1E"),
			ErrorFg:     lipgloss.Color("#DC322F"),
			AccentFg:    lipgloss.Color("#859900"),
			DimFg:       lipgloss.Color("#586E75"),
			BorderFg:    lipgloss.Color("#657B83"),
			TitleFg:     lipgloss.Color("#EEE8D5"),
			TitleBg:     lipgloss.Color("#586E75"),
			HelpFg:      lipgloss.Color("#93A1A1"),
			SelectionFg: lipgloss.Color("#EEE8D5"),
			SelectionBg: lipgloss.Color("#268BD2"),
		}, highContrast)
	case PresetDracula:
		return applyContrast(Theme{
			OutputFg:    lipgloss.Color("#F8F8F2"),
			ErrorBg:     lipgloss.Color("#402036"),
			ErrorFg:     lipgloss.Color("#FF79C6"),
			AccentFg:    lipgloss.Color("#50FA7B"),
			DimFg:       lipgloss.Color("#6272A4"),
			BorderFg:    lipgloss.Color("#44475A"),
			TitleFg:     lipgloss.Color("#F8F8F2"),
			TitleBg:     lipgloss.Color("#6272A4"),
			HelpFg:      lipgloss.Color("#BD93F9"),
			SelectionFg: lipgloss.Color("#F8F8F2"),
			SelectionBg: lipgloss.Color("#BD93F9"),
		}, highContrast)
	default:
		return applyContrast(DefaultTheme(), highContrast)
	}
}

// DefaultKeybindings returns the built-in keybinding map.
func DefaultKeybindings() Keybindings {
	return Keybindings{
		"quit":        {"ctrl+c", "q"},
		"toggle_help": {"?"},
		"refresh":     {"ctrl+r"},
		"checkout":    {"ctrl+b"},
		"run_tool":    {"enter"},
		"next_tool":   {"j", "down"},
		"prev_tool":   {"k", "up"},
		"scroll_down": {"J", "pgdown"},
		"scroll_up":   {"K", "pgup"},
		"page_down":   {"d"},
		"page_up":     {"u"},
		"go_top":      {"g"},
		"go_bottom":   {"G"},
		"copy_output": {"y"},
	}
}

// MergeKeybindings overlays user overrides onto defaults.
func MergeKeybindings(overrides Keybindings) Keybindings {
	defaults := DefaultKeybindings()
	for action, keys := range overrides {
		if len(keys) == 0 {
			continue
		}
		defaults[action] = keys
	}
	return defaults
}

func applyContrast(theme Theme, highContrast bool) Theme {
	if !highContrast {
		return theme
	}

	return Theme{
		OutputFg:    lipgloss.Color(adjustBrightness(string(theme.OutputFg), 0.2)),
		ErrorBg:     lipgloss.Color(adjustBrightness(string(theme.ErrorBg), 0.15)),
		ErrorFg:     lipgloss.Color(adjustBrightness(string(theme.ErrorFg), 0.25)),
		AccentFg:    lipgloss.Color(adjustBrightness(string(theme.AccentFg), 0.25)),
		DimFg:       lipgloss.Color(adjustBrightness(string(theme.DimFg), 0.2)),
		BorderFg:    lipgloss.Color(adjustBrightness(string(theme.BorderFg), 0.2)),
		TitleFg:     lipgloss.Color(adjustBrightness(string(theme.TitleFg), 0.2)),
		TitleBg:     lipgloss.Color(adjustBrightness(string(theme.TitleBg), 0.2)),
		HelpFg:      lipgloss.Color(adjustBrightness(string(theme.HelpFg), 0.2)),
		SelectionFg: lipgloss.Color(adjustBrightness(string(theme.SelectionFg), 0.2)),
		SelectionBg: lipgloss.Color(adjustBrightness(string(theme.SelectionBg), 0.2)),
	}
}

func adjustBrightness(hex string, factor float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}

	var r, g, b int
	_, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
	if err != nil {
		return hex
	}

	boost := func(value int) int {
		adjusted := float64(value) * (1 + factor)
		if adjusted > 255 {
			adjusted = 255
		}
		return int(adjusted)
	}

	return fmt.Sprintf("#%02x%02x%02x", boost(r), boost(g), boost(b))
}
