package welcome

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyquiz/internal/ui/theme"
)

const bannerArt = `
 ███████╗████████╗ ██████╗ ██████╗ ██╗   ██╗ ██████╗ ██╗   ██╗██╗███████╗
 ██╔════╝╚══██╔══╝██╔═══██╗██╔══██╗╚██╗ ██╔╝██╔═══██╗██║   ██║██║╚══███╔╝
 ███████╗   ██║   ██║   ██║██████╔╝ ╚████╔╝ ██║   ██║██║   ██║██║  ███╔╝
 ╚════██║   ██║   ██║   ██║██╔══██╗  ╚██╔╝  ██║▄▄ ██║██║   ██║██║ ███╔╝
 ███████║   ██║   ╚██████╔╝██║  ██║   ██║   ╚██████╔╝╚██████╔╝██║███████╗
 ╚══════╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝   ╚═╝    ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝`

const bannerCompact = "S T O R Y Q U I Z"

// BannerWidth is the column width of the full banner.
const BannerWidth = 74

// RenderBanner returns the STORYQUIZ banner styled in the given color.
// Uses a compact fallback for terminals narrower than BannerWidth.
func RenderBanner(width int, fg color.Color) string {
	style := lipgloss.NewStyle().
		Foreground(fg).
		Bold(true)

	if width < BannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

// DefaultBanner renders the banner in the primary color.
func DefaultBanner(width int) string {
	return RenderBanner(width, theme.Primary)
}
