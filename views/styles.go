package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Core colors
var (
	primaryColor   = lipgloss.Color("#39ff14") // Bright digital green
	secondaryColor = lipgloss.Color("#FFFFFF") // Pure white for labels
	accentColor    = lipgloss.Color("#39ff14") // Bright green for borders
	warnColor      = lipgloss.Color("#ffb000") // Amber for 2.4GHz and hints
	errorColor     = lipgloss.Color("#ff3b3b")
	mutedColor     = lipgloss.Color("#444444")
)

// Styles holds all the application styles
type Styles struct {
	Banner    lipgloss.Style
	Box       lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Good      lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Title     lipgloss.Style
	Help      lipgloss.Style
	KeyStyle  lipgloss.Style
	DescStyle lipgloss.Style
}

// NewStyles creates a new Styles instance
func NewStyles() *Styles {
	s := &Styles{}

	s.Banner = lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryColor)

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(1, 2)

	s.Label = lipgloss.NewStyle().
		Foreground(primaryColor).
		Width(12).
		Align(lipgloss.Right)

	s.Value = lipgloss.NewStyle().
		Foreground(secondaryColor)

	s.Good = lipgloss.NewStyle().
		Foreground(primaryColor).
		Bold(true)

	s.Warn = lipgloss.NewStyle().
		Foreground(warnColor)

	s.Error = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	s.Muted = lipgloss.NewStyle().
		Foreground(mutedColor)

	s.Title = lipgloss.NewStyle().
		Foreground(secondaryColor).
		Bold(true)

	s.Help = lipgloss.NewStyle().
		Foreground(secondaryColor).
		MarginTop(1)

	s.KeyStyle = lipgloss.NewStyle().
		Foreground(primaryColor)

	s.DescStyle = lipgloss.NewStyle().
		Foreground(secondaryColor)

	return s
}

// RenderBanner creates the standard banner
func (s *Styles) RenderBanner() string {
	banner := []string{
		"────────────── BandLock ──────────────",
		lipgloss.NewStyle().Foreground(secondaryColor).Render("Keep your Wi-Fi on 5GHz"),
		"──────────────────────────────────────",
	}

	bannerStyle := s.Banner.Copy().
		Width(40).
		Align(lipgloss.Center)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		bannerStyle.Render(banner[0]),
		bannerStyle.Render(banner[1]),
		bannerStyle.Render(banner[2]),
	)
}

// Row renders one "label  value" line.
func (s *Styles) Row(label string, value string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		s.Label.Render(label),
		"  ",
		value,
	)
}
