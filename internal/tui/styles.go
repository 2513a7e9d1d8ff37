package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/cj3636/gtaz/internal/config"
)

// Styles holds all the lipgloss styles
type Styles struct {
	title        lipgloss.Style
	panel        lipgloss.Style
	panelTitle   lipgloss.Style
	repoName     lipgloss.Style
	repoPath     lipgloss.Style
	branch       lipgloss.Style
	menuItem     lipgloss.Style
	menuSelected lipgloss.Style
	menuCategory lipgloss.Style
	output       lipgloss.Style
	outputErr    lipgloss.Style
	statusBar    lipgloss.Style
	help         lipgloss.Style
	modal        lipgloss.Style
}

// createStyles initializes all lipgloss styles based on theme
func createStyles(theme config.Theme) *Styles {
	return &Styles{
		title: lipgloss.NewStyle().
			Foreground(theme.TitleFg).
			Background(theme.TitleBg).
			Bold(true).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.BorderFg).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().
			Foreground(theme.AccentFg).
			Bold(true),
		repoName: lipgloss.NewStyle().
			Foreground(theme.AccentFg).
			Bold(true),
		repoPath: lipgloss.NewStyle().
			Foreground(theme.DimFg),
		branch: lipgloss.NewStyle().
			Foreground(theme.AccentFg),
		menuItem: lipgloss.NewStyle().
			Foreground(theme.OutputFg),
		menuSelected: lipgloss.NewStyle().
			Foreground(theme.SelectionFg).
			Background(theme.SelectionBg).
			Bold(true),
		menuCategory: lipgloss.NewStyle().
			Foreground(theme.DimFg).
			Bold(true),
		output: lipgloss.NewStyle().
			Foreground(theme.OutputFg),
		outputErr: lipgloss.NewStyle().
			Foreground(theme.ErrorFg).
			Background(theme.ErrorBg),
		statusBar: lipgloss.NewStyle().
			Foreground(theme.TitleFg).
			Background(theme.TitleBg).
			Padding(0, 1),
		help: lipgloss.NewStyle().
			Foreground(theme.HelpFg).
			Italic(true),
		modal: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderFg).
			Padding(1, 2),
	}
}
