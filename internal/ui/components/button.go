package components

import (
	"github.com/carnetlify/carnetlify/internal/ui/theme"
)

// ButtonMode selects how the exercise button is drawn.
type ButtonMode int

const (
	ButtonVerify ButtonMode = iota
	ButtonBusy
	ButtonContinue
)

// Button is the exercise's primary action. It only renders; the screen
// owns the Enter key.
type Button struct {
	Label string
	Mode  ButtonMode
}

// NewButton creates a button in mode.
func NewButton(label string, mode ButtonMode) Button {
	return Button{Label: label, Mode: mode}
}

// View renders the button.
func (b Button) View() string {
	switch b.Mode {
	case ButtonBusy:
		return theme.ButtonBusy.Render("… " + b.Label)
	case ButtonContinue:
		return theme.ButtonContinue.Render(b.Label + " ▸")
	default:
		return theme.ButtonVerify.Render("▸ " + b.Label)
	}
}
