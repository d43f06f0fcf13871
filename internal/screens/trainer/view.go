package trainer

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyquiz/internal/fallback"
	"github.com/abhisek/storyquiz/internal/session"
	"github.com/abhisek/storyquiz/internal/story"
	"github.com/abhisek/storyquiz/internal/ui/components"
	"github.com/abhisek/storyquiz/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Lines used around the story text: title, provenance, notice, gaps, hint.
const storyChrome = 8

// frameLines is the header plus footer height taken from the terminal.
const frameLines = 6

func (t *TrainerScreen) View(width, height int) string {
	switch t.sess.Phase {
	case session.PhaseLoadingStory:
		return t.viewLoading(width, height)
	case session.PhaseReadStory:
		return t.viewStory(width, height)
	case session.PhaseQuestioning:
		return t.viewQuestion(width, height)
	case session.PhaseFinished:
		return t.viewResults(width, height)
	}
	return t.viewTopic(width, height)
}

func (t *TrainerScreen) viewTopic(width, height int) string {
	cw := components.ContentWidth(width)

	prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render("What should today's story be about?")

	left, right := "◂", "▸"
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if t.sess.ParagraphCount <= fallback.MinParagraphs {
		left = dim.Render(left)
	}
	if t.sess.ParagraphCount >= fallback.MaxParagraphs {
		right = dim.Render(right)
	}
	length := fmt.Sprintf("Paragraphs:  %s %s %s", left,
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(fmt.Sprint(t.sess.ParagraphCount)),
		right)

	sections := []string{
		prompt,
		"",
		"Topic: " + t.input.View(),
		"",
		length,
	}
	if t.sess.Error != "" {
		sections = append(sections, "", theme.Notice.Render(t.sess.Error))
	}

	card := components.ArcadeCard(strings.Join(sections, "\n"), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (t *TrainerScreen) viewLoading(width, height int) string {
	frame := spinnerFrames[t.frame%len(spinnerFrames)]
	text := lipgloss.NewStyle().Foreground(theme.Secondary).Render(frame) + " " +
		lipgloss.NewStyle().Foreground(theme.Text).
			Render(fmt.Sprintf("Writing a story about %s...", story.TitleTopic(t.sess.Topic)))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}

// textWidth is the wrap width for story text at a given screen width.
func textWidth(width int) int {
	return min(max(width-8, 20), 90)
}

// storyLines wraps the story paragraphs, separated by blank lines.
func (t *TrainerScreen) storyLines(width int) []string {
	if t.sess.Story == nil {
		return nil
	}
	wrap := lipgloss.NewStyle().Width(textWidth(width))
	var lines []string
	for i, p := range t.sess.Story.Paragraphs {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, strings.Split(wrap.Render(p), "\n")...)
	}
	return lines
}

// visibleStoryLines is how many story lines fit in a content area.
func visibleStoryLines(height int) int {
	return max(height-storyChrome, 3)
}

// maxScroll is the last useful scroll offset at the current terminal size.
func (t *TrainerScreen) maxScroll() int {
	width, height := t.width, t.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}
	lines := t.storyLines(width)
	return max(len(lines)-visibleStoryLines(height-frameLines), 0)
}

func (t *TrainerScreen) viewStory(width, height int) string {
	s := t.sess.Story
	if s == nil {
		return ""
	}
	tw := textWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(tw).Render(s.Title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(tw).Render(provenance(t.sess)))
	b.WriteString("\n")
	if t.sess.Error != "" {
		b.WriteString(theme.Notice.Width(tw).Render(t.sess.Error))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	lines := t.storyLines(width)
	visible := visibleStoryLines(height)
	offset := min(t.scroll, max(len(lines)-visible, 0))
	end := min(offset+visible, len(lines))
	b.WriteString(theme.Body.Render(strings.Join(lines[offset:end], "\n")))
	b.WriteString("\n\n")

	hint := "Press Enter when you're ready for the questions."
	if end < len(lines) {
		hint = "↓ more below · " + hint
	}
	b.WriteString(theme.Hint.Render(hint))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// provenance describes where the story came from.
func provenance(s session.Session) string {
	topic := story.TitleTopic(s.Topic)
	if s.Source == session.SourceRemote {
		return fmt.Sprintf("An AI-written story about %s", topic)
	}
	return fmt.Sprintf("A story from the built-in library (you asked about %s)", topic)
}

func trackMarks(progress []session.Progress) []components.Mark {
	marks := make([]components.Mark, len(progress))
	for i, p := range progress {
		switch {
		case p.Correct:
			marks[i] = components.MarkCorrect
		case p.Skipped:
			marks[i] = components.MarkSkipped
		case p.Attempts > 0:
			marks[i] = components.MarkMissed
		}
	}
	return marks
}

func (t *TrainerScreen) viewQuestion(width, height int) string {
	q, ok := t.sess.Question()
	if !ok {
		return ""
	}
	entry, _ := t.sess.Entry()
	tw := textWidth(width)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(session.QuestionHeader(t.sess)))
	b.WriteString("\n")
	b.WriteString(components.NewQuestionTrack(trackMarks(t.sess.Progress), t.sess.Index, tw).View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(tw).Render(q.Text))
	b.WriteString("\n\n")
	b.WriteString(t.choices().View())
	b.WriteString("\n")

	status := fmt.Sprintf("Attempts: %d", entry.DisplayAttempts())
	switch {
	case entry.Correct:
		status += "  " + theme.Correct.Render(session.EntryStatus(entry))
	case entry.Skipped:
		status += "  " + theme.Skipped.Render(session.EntryStatus(entry))
	case entry.Attempts > 0:
		status += "  " + theme.Incorrect.Render("Not quite. Look back at the story and try again!")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(status))

	if t.sess.Error != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Notice.Render(t.sess.Error))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (t *TrainerScreen) viewResults(width, height int) string {
	sum := session.BuildSummary(t.sess)
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render(sum.Title))
	b.WriteString("\n\n")

	badge, desc := sum.GradeText()
	if sum.HasScore {
		b.WriteString(components.Badge(badge, theme.GradeColor(sum.Grade.Letter)))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render(badge))
	}
	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(desc))
	b.WriteString("\n\n")

	for _, line := range sum.Lines {
		style := theme.Body
		switch line.Status {
		case session.StatusCorrect:
			style = theme.Correct
		case session.StatusSkipped:
			style = theme.Skipped
		case session.StatusIncomplete:
			style = theme.Incorrect
		}
		b.WriteString(style.Render(line.String()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case sum.CanRetry:
		b.WriteString(theme.Hint.Render("Press R to try the questions again, or N for a new story."))
	case sum.HasScore:
		b.WriteString(theme.Hint.Render("Perfect score! Press N for a new story."))
	default:
		b.WriteString(theme.Hint.Render("Press N for a new story."))
	}

	card := components.ArcadeCard(b.String(), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
