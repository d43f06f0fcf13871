// Package placeholder shows a notice in place of a screen that can't be
// used in the current setup.
package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyquiz/internal/router"
	"github.com/abhisek/storyquiz/internal/screen"
	"github.com/abhisek/storyquiz/internal/ui/theme"
)

const defaultMessage = "╌╌ Not available ╌╌\n\nThis needs the quiz database,\nwhich could not be opened."

// PlaceholderScreen is a generic "not available" screen.
type PlaceholderScreen struct {
	title   string
	message string
}

var _ screen.Screen = (*PlaceholderScreen)(nil)

// New creates a PlaceholderScreen with the given title and the default
// message.
func New(title string) *PlaceholderScreen {
	return &PlaceholderScreen{title: title, message: defaultMessage}
}

// WithMessage replaces the body text.
func (p *PlaceholderScreen) WithMessage(msg string) *PlaceholderScreen {
	p.message = msg
	return p
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "esc" {
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return p, nil
}

func (p *PlaceholderScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(p.message)
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}
