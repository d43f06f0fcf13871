package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyquiz/internal/report"
	"github.com/abhisek/storyquiz/internal/screens/welcome"
	"github.com/abhisek/storyquiz/internal/ui/components"
	"github.com/abhisek/storyquiz/internal/ui/theme"
)

const arcadeTitleCompact = "S · T · O · R · Y · Q · U · I · Z"

// renderTitle returns the block-letter title, or the compact one when the
// frame is too narrow for it.
func renderTitle(width, cw int, compact bool) string {
	if !compact && width-6 >= welcome.BannerWidth {
		return welcome.RenderBanner(width, theme.ArcadeYellow)
	}
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(arcadeTitleCompact))
}

// renderStatsBar renders the quiz stats in a bordered box at content width.
func renderStatsBar(s report.Summary, cw int, compact bool) string {
	quizStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	bestStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	avgStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	switch {
	case s.Quizzes == 0:
		stats = dimStyle.Render("No quizzes yet. Pick a topic to begin!")
	case compact:
		stats = fmt.Sprintf("%s %s %s",
			quizStyle.Render(fmt.Sprintf("✎%d", s.Quizzes)),
			bestStyle.Render(fmt.Sprintf("★%d%%", s.BestScore)),
			avgStyle.Render(fmt.Sprintf("≈%d%%", s.AverageScore)),
		)
	default:
		stats = fmt.Sprintf("%s  %s  %s",
			quizStyle.Render(fmt.Sprintf("✎ %d QUIZZES", s.Quizzes)),
			bestStyle.Render(fmt.Sprintf("★ BEST %d%%", s.BestScore)),
			avgStyle.Render(fmt.Sprintf("≈ AVG %d%%", s.AverageScore)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a fixed-width button, or as
// plain lines when the terminal is short.
func renderArcadeMenu(items []string, selected, cw int, compact bool) string {
	var lines []string
	for i, label := range items {
		switch {
		case !compact:
			lines = append(lines, components.ArcadeButton(label, i == selected, buttonWidth))
		case i == selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ "+label+" "))
		default:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   "+label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderSourceNote says where stories come from.
func renderSourceNote(label string, cw int) string {
	if label == "" {
		return lipgloss.NewStyle().
			Foreground(theme.Accent).
			Width(cw).
			Align(lipgloss.Center).
			Render("⚠ No AI configured: using built-in stories")
	}
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render("Stories by " + label)
}

// renderMascotBox renders the mascot centered at content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
