package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/stepnotes/internal/config"
	"github.com/gubarz/stepnotes/internal/markup"
)

// StyleManager encapsulates all TUI styles and provides methods for style operations
type StyleManager struct {
	// Note text styles
	Bold   lipgloss.Style
	Italic lipgloss.Style
	Code   lipgloss.Style
	Marker lipgloss.Style
	Rule   lipgloss.Style

	// Edit surface styles
	Cursor   lipgloss.Style
	Selected lipgloss.Style

	// Chrome styles
	Title       lipgloss.Style
	ModeEdit    lipgloss.Style
	ModeDisplay lipgloss.Style
	Status      lipgloss.Style
	Dim         lipgloss.Style
	Border      lipgloss.Style
	Divider     lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Bold:        lipgloss.NewStyle().Bold(true),
		Italic:      lipgloss.NewStyle().Italic(true),
		Code:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Marker:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Rule:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Cursor:      lipgloss.NewStyle().Reverse(true),
		Selected:    lipgloss.NewStyle().Background(lipgloss.Color("4")),
		Title:       lipgloss.NewStyle().Bold(true),
		ModeEdit:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		ModeDisplay: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Border:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Divider:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		SelectedBg:  lipgloss.Color("4"),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	boldColor := parseANSIColor(config.GetColorBold())
	codeColor := parseANSIColor(config.GetColorCode())
	markerColor := parseANSIColor(config.GetColorMarker())
	dimColor := parseANSIColor(config.GetColorDim())
	borderColor := parseANSIColor(config.GetColorBorder())
	selectedBg := parseANSIColor(config.GetColorSelected())

	s.Bold = lipgloss.NewStyle().Bold(true).Foreground(boldColor)
	s.Code = lipgloss.NewStyle().Foreground(codeColor)
	s.Marker = lipgloss.NewStyle().Foreground(markerColor)
	s.Rule = lipgloss.NewStyle().Foreground(dimColor)
	s.Dim = lipgloss.NewStyle().Foreground(dimColor)
	s.ModeDisplay = lipgloss.NewStyle().Bold(true).Foreground(markerColor)
	s.Selected = lipgloss.NewStyle().Background(selectedBg)

	s.Border = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderColor)
	s.Divider = lipgloss.NewStyle().Foreground(borderColor)
	s.SelectedBg = selectedBg
}

// Span renders one inline span, layering code, bold and italic.
func (s *StyleManager) Span(sp markup.Span) string {
	if sp.Style == 0 {
		return sp.Text
	}
	st := lipgloss.NewStyle()
	if sp.Style.Has(markup.StyleCode) {
		st = st.Inherit(s.Code)
	}
	if sp.Style.Has(markup.StyleBold) {
		st = st.Inherit(s.Bold)
	}
	if sp.Style.Has(markup.StyleItalic) {
		st = st.Inherit(s.Italic)
	}
	return st.Render(sp.Text)
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
