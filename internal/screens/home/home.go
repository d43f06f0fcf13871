// Package home is the main menu.
package home

import (
	"context"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyquiz/internal/report"
	"github.com/abhisek/storyquiz/internal/router"
	"github.com/abhisek/storyquiz/internal/screen"
	"github.com/abhisek/storyquiz/internal/screens/history"
	"github.com/abhisek/storyquiz/internal/screens/placeholder"
	"github.com/abhisek/storyquiz/internal/session"
	"github.com/abhisek/storyquiz/internal/store"
	"github.com/abhisek/storyquiz/internal/ui/components"
	"github.com/abhisek/storyquiz/internal/ui/layout"
)

// Options configures the home screen.
type Options struct {
	// NewTrainer builds the reading screen for "New Story".
	NewTrainer func() screen.Screen

	// EventRepo feeds the stats bar and the history screen; optional.
	EventRepo store.EventRepo

	// SourceLabel names the AI story source, empty when only built-in
	// stories are available.
	SourceLabel string

	Logger *slog.Logger
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu        components.Menu
	stats       report.Summary
	mascot      MascotVariant
	sourceLabel string
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
)

// New creates a new HomeScreen. Stats are read from the event log once.
func New(opts Options) *HomeScreen {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var results []store.QuizResultRecord
	if opts.EventRepo != nil {
		var err error
		results, err = opts.EventRepo.QueryQuizResults(context.Background(), store.QueryOpts{})
		if err != nil {
			logger.Warn("load quiz results", "error", err)
		}
	}

	items := []components.MenuItem{
		{Label: "NEW STORY", Action: func() tea.Cmd {
			if opts.NewTrainer == nil {
				return push(placeholder.New("New Story").WithMessage("╌╌ Not available ╌╌\n\nNo story source is set up."))
			}
			return push(opts.NewTrainer())
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			if opts.EventRepo == nil {
				return push(placeholder.New("History"))
			}
			return push(history.New(opts.EventRepo))
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:        components.NewMenu(items),
		stats:       report.Summarize(results),
		mascot:      mascotFor(results),
		sourceLabel: opts.SourceLabel,
	}
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

// mascotFor picks the mascot from the most recent result.
func mascotFor(results []store.QuizResultRecord) MascotVariant {
	if len(results) == 0 || !results[0].HasScore {
		return MascotIdle
	}
	switch {
	case results[0].Score == 100:
		return MascotCelebrating
	case results[0].Grade == session.GradeU.Letter:
		return MascotAlert
	}
	return MascotIdle
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	termHeight := height + 6
	compact := layout.IsCompactHeight(termHeight) || layout.IsCompactWidth(width)

	cw := components.ContentWidth(width)

	sections := []string{renderTitle(width, cw, compact)}
	if !compact {
		sections = append(sections, renderMascotBox(h.mascot, cw))
	}
	sections = append(sections,
		renderStatsBar(h.stats, cw, compact),
		renderArcadeMenu(h.menu.Labels(), h.menu.Selected, cw, compact),
		renderSourceNote(h.sourceLabel, cw),
	)

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}
