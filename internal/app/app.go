// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyquiz/internal/router"
	"github.com/abhisek/storyquiz/internal/screen"
	"github.com/abhisek/storyquiz/internal/screens/home"
	"github.com/abhisek/storyquiz/internal/screens/trainer"
	"github.com/abhisek/storyquiz/internal/screens/welcome"
	"github.com/abhisek/storyquiz/internal/store"
	"github.com/abhisek/storyquiz/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Resolver     trainer.StoryResolver
	EventRepo    store.EventRepo
	SnapshotRepo store.SnapshotRepo

	// Topic and ParagraphCount prefill the reading screen.
	Topic          string
	ParagraphCount int

	GradeLevel    int
	QuestionCount int

	// Play skips the menu and opens the reading screen directly, asking
	// for a story right away when Topic is set.
	Play bool

	// SourceLabel names the AI story source for the home screen; empty
	// means built-in stories only.
	SourceLabel string

	Logger *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	newTrainer := func(autoStart bool) screen.Screen {
		return trainer.New(trainer.Options{
			Resolver:       opts.Resolver,
			EventRepo:      opts.EventRepo,
			SnapshotRepo:   opts.SnapshotRepo,
			Topic:          opts.Topic,
			ParagraphCount: opts.ParagraphCount,
			GradeLevel:     opts.GradeLevel,
			QuestionCount:  opts.QuestionCount,
			AutoStart:      autoStart,
			Logger:         opts.Logger,
		})
	}

	if opts.Play {
		return AppModel{router: router.New(newTrainer(opts.Topic != ""))}
	}

	newHome := func() screen.Screen {
		return home.New(home.Options{
			NewTrainer:  func() screen.Screen { return newTrainer(false) },
			EventRepo:   opts.EventRepo,
			SourceLabel: opts.SourceLabel,
			Logger:      opts.Logger,
		})
	}
	return AppModel{router: router.New(welcome.New(newHome))}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	// Screens handle esc themselves; the reading screen uses it to go back
	// a step before leaving.
	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.keyHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) keyHints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		return append(kp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
