package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/carnetlify/carnetlify/internal/ui/theme"
)

const bannerArt = `
  ██████╗ █████╗ ██████╗ ███╗   ██╗███████╗████████╗
 ██╔════╝██╔══██╗██╔══██╗████╗  ██║██╔════╝╚══██╔══╝
 ██║     ███████║██████╔╝██╔██╗ ██║█████╗     ██║
 ██║     ██╔══██║██╔══██╗██║╚██╗██║██╔══╝     ██║
 ╚██████╗██║  ██║██║  ██║██║ ╚████║███████╗   ██║
  ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝╚══════╝   ╚═╝   lify`

const bannerCompact = "C A R N E T L I F Y"

// RenderBanner returns the banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 60 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 60 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
