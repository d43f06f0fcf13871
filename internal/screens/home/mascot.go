package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyquiz/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default teal
	MascotCelebrating                      // Gold, star eyes: last quiz was perfect
	MascotAlert                            // Orange, exclamation: last quiz needs another look
)

const mascotIdle = `╭───┬───╮
│ ◉ │ ◉ │
│ ─ ▽ ─ │
│ ─ │ ─ │
╰───┴───╯`

const mascotCelebrating = `╭───┬───╮
│ ★ │ ★ │
│ ─ ▿ ─ │
│ ─ │ ─ │
╰─╥─┴─╥─╯
  ╚═══╝`

const mascotAlert = `╭───┬───╮
│ ◉ │ ◉ │ !
│ ─ ▽ ─ │
│ ─ │ ─ │
╰───┴───╯`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art := mascotIdle
	fg := theme.Secondary

	switch variant {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
