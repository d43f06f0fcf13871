// Package history lists finished quizzes.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyquiz/internal/router"
	"github.com/abhisek/storyquiz/internal/screen"
	"github.com/abhisek/storyquiz/internal/store"
	"github.com/abhisek/storyquiz/internal/story"
	"github.com/abhisek/storyquiz/internal/ui/layout"
	"github.com/abhisek/storyquiz/internal/ui/theme"
)

// pageSize is how many results the screen loads.
const pageSize = 50

type historyLoadedMsg struct {
	Results []store.QuizResultRecord
	Err     error
}

// HistoryScreen displays past quiz results.
type HistoryScreen struct {
	eventRepo store.EventRepo
	results   []store.QuizResultRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		results, err := repo.QueryQuizResults(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Results: results, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "enter":
			if len(s.results) > 0 {
				s.expanded[s.selected] = !s.expanded[s.selected]
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Read a story to get started!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.results {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-24s  %s",
			prefix, r.Timestamp.Local().Format("Jan 02, 2006"), truncate(story.TitleTopic(r.Topic), 24), scoreText(r))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, d := range details(r) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(d)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func scoreText(r store.QuizResultRecord) string {
	if !r.HasScore {
		return "no questions"
	}
	return fmt.Sprintf("%3d%%  %s", r.Score, r.Grade)
}

func details(r store.QuizResultRecord) []string {
	source := "built-in story"
	if r.Source == "remote" {
		source = "AI story"
	}
	return []string{
		fmt.Sprintf("    %q (%s)", r.Title, source),
		fmt.Sprintf("    %d questions · %d correct · %d skipped · %d attempts",
			r.Questions, r.Correct, r.Skipped, r.Attempts),
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
