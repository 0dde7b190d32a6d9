// Package theme holds the road-sign palette and the shared styles of the
// terminal client.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette. Names follow the traffic signs they are taken from.
var (
	Primary   = lipgloss.Color("#2563EB") // informative sign blue
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F59E0B") // warning amber
	Success   = lipgloss.Color("#22C55E") // green light
	Error     = lipgloss.Color("#EF4444") // stop red
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A") // asphalt
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	// Prompt is the question above an exercise.
	Prompt = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	// Notice flags a degraded but usable state, such as playing offline.
	Notice = lipgloss.NewStyle().
		Foreground(Accent)

	// Empty is a centred placeholder for lists with nothing to show.
	Empty = lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(TextDim).
		Italic(true)

	Failure = lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(Error)
)

var Card = lipgloss.NewStyle().
	Background(BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// Menu entries and verification results.
var (
	Selected = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	// Locked lessons stay visible but dimmed until the previous one is done.
	Locked = lipgloss.NewStyle().
		Foreground(TextDim)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// The exercise button: ready to verify, waiting on the service, or
// advancing to the next lesson.
var (
	ButtonVerify = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonBusy = lipgloss.NewStyle().
			Foreground(TextDim).
			Background(BgCard).
			Padding(0, 2)

	ButtonContinue = lipgloss.NewStyle().
			Background(Success).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 2)
)
