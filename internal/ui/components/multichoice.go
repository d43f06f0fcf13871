package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyquiz/internal/ui/theme"
)

var choiceLabels = []string{"A", "B", "C", "D", "E", "F"}

// MultiChoice renders the choices of one question and tracks a cursor.
// Picking a choice never submits it; the owner decides when to check.
type MultiChoice struct {
	Options []string
	Cursor  int

	// Selected is the picked choice, or -1.
	Selected int

	// Locked freezes the component once the question is settled.
	Locked bool

	// CorrectIndex is highlighted when Locked.
	CorrectIndex int
}

// NewMultiChoice creates a component with nothing selected.
func NewMultiChoice(options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Options:      options,
		Selected:     -1,
		CorrectIndex: correctIndex,
	}
}

// Update moves the cursor with ↑/↓ (or k/j) or jumps to a choice with its
// number. picked is true when the key chose an option; the cursor
// and Selected then name it.
func (m MultiChoice) Update(msg tea.Msg) (mc MultiChoice, picked bool) {
	if m.Locked || len(m.Options) == 0 {
		return m, false
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, false
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	default:
		i, ok := choiceIndex(key)
		if !ok || i >= len(m.Options) {
			return m, false
		}
		m.Cursor = i
	}
	m.Selected = m.Cursor
	return m, true
}

// choiceIndex maps "1".."6" to a choice index. Letters are left to the
// owner's own shortcuts.
func choiceIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '6' {
		return 0, false
	}
	return int(key[0] - '1'), true
}

// View renders the choices.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		label := "?"
		if i < len(choiceLabels) {
			label = choiceLabels[i]
		}
		prefix := "  "
		if i == m.Cursor && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		var style lipgloss.Style
		switch {
		case m.Locked && i == m.CorrectIndex:
			style = theme.Correct
		case m.Locked:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
