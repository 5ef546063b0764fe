package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewcoach/internal/report"
)

// Palette. Success, Warning and Error double as the score band colors.
var (
	Primary   = lipgloss.Color("#14B8A6") // Teal
	Secondary = lipgloss.Color("#60A5FA") // Blue
	Accent    = lipgloss.Color("#FBBF24") // Amber
	Success   = lipgloss.Color("#4ADE80")
	Warning   = lipgloss.Color("#FACC15")
	Error     = lipgloss.Color("#F87171")
	Text      = lipgloss.Color("#E5E7EB")
	TextDim   = lipgloss.Color("#9CA3AF")
	BgCard    = lipgloss.Color("#1F2937")
	Border    = lipgloss.Color("#374151")
)

// BandColor is the color a score band renders in.
func BandColor(b report.Band) color.Color {
	switch b {
	case report.BandHigh:
		return Success
	case report.BandMedium:
		return Warning
	default:
		return Error
	}
}

// BandStyle is a bold foreground style in the band's color.
func BandStyle(b report.Band) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(BandColor(b)).Bold(true)
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Containers
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Notice = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Warning).
		Foreground(Warning).
		Padding(0, 1)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(TextDim).
			Faint(true)

	Answered = lipgloss.NewStyle().
			Foreground(Success)

	Unanswered = lipgloss.NewStyle().
			Foreground(TextDim)
)

// Components
var (
	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Foreground(TextDim).
			Padding(0, 2)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputBlurred = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)
)
