package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyquiz/internal/ui/theme"
)

// Mark is the state of one question cell in a QuestionTrack.
type Mark int

const (
	MarkPending Mark = iota
	MarkCorrect
	MarkSkipped
	MarkMissed // answered at least once, not yet right
)

// QuestionTrack draws one cell per question, so a reader can see at a glance
// which questions are done and which one is current.
type QuestionTrack struct {
	Marks   []Mark
	Current int
	Width   int
}

// NewQuestionTrack creates a track for marks with current highlighted.
func NewQuestionTrack(marks []Mark, current, width int) QuestionTrack {
	return QuestionTrack{Marks: marks, Current: current, Width: width}
}

// cellWidth fits all cells plus one-column gaps into Width, between 1 and 6.
func (q QuestionTrack) cellWidth() int {
	n := len(q.Marks)
	if n == 0 {
		return 0
	}
	return min(max((q.Width-(n-1))/n, 1), 6)
}

// View renders the track.
func (q QuestionTrack) View() string {
	cw := q.cellWidth()
	if cw == 0 {
		return ""
	}

	cells := make([]string, len(q.Marks))
	for i, m := range q.Marks {
		style := markStyle(m)
		fill := " "
		if i == q.Current {
			style = style.Foreground(theme.BgDark).Bold(true)
			fill = "▾"
		}
		cells[i] = style.Render(centerPad(fill, cw))
	}
	return strings.Join(cells, " ")
}

func markStyle(m Mark) lipgloss.Style {
	switch m {
	case MarkCorrect:
		return theme.ProgressCorrect
	case MarkSkipped:
		return theme.ProgressSkipped
	case MarkMissed:
		return theme.ProgressMissed
	}
	return theme.ProgressEmpty
}

func centerPad(s string, width int) string {
	if width <= 1 {
		return s
	}
	left := (width - 1) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-1-left)
}
