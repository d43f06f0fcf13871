// Package trainer is the reading screen: topic entry, the story, the
// questions and the results, all driven by a session.Session.
package trainer

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/storyquiz/internal/content"
	"github.com/abhisek/storyquiz/internal/router"
	"github.com/abhisek/storyquiz/internal/screen"
	"github.com/abhisek/storyquiz/internal/session"
	"github.com/abhisek/storyquiz/internal/store"
	"github.com/abhisek/storyquiz/internal/story"
	"github.com/abhisek/storyquiz/internal/ui/components"
	"github.com/abhisek/storyquiz/internal/ui/layout"
)

// snapshotsKept bounds the settings history in the store.
const snapshotsKept = 10

// maxTopicLen limits the topic input.
const maxTopicLen = 80

// StoryResolver turns a request into a story. It must not fail; see
// content.Resolver.
type StoryResolver interface {
	Resolve(ctx context.Context, req content.Request) content.Resolution
}

// Options configures a TrainerScreen.
type Options struct {
	// Resolver supplies stories. Nil uses the built-in pool only.
	Resolver StoryResolver

	// EventRepo and SnapshotRepo are optional. Without them nothing is
	// recorded and the form is not prefilled.
	EventRepo    store.EventRepo
	SnapshotRepo store.SnapshotRepo

	// Topic and ParagraphCount prefill the form. Zero values fall back to
	// the last saved settings.
	Topic          string
	ParagraphCount int

	// GradeLevel and QuestionCount shape requests; zero means the content
	// defaults.
	GradeLevel    int
	QuestionCount int

	// AutoStart requests a story for Topic as soon as the screen opens.
	AutoStart bool

	Logger *slog.Logger
}

// TrainerScreen implements screen.Screen for one reading session.
type TrainerScreen struct {
	opts   Options
	sess   session.Session
	input  components.TextInput
	cursor int
	scroll int
	frame  int

	// runID identifies the quiz attempt being recorded; empty between runs.
	runID string

	width, height int
	logger        *slog.Logger
}

var (
	_ screen.Screen          = (*TrainerScreen)(nil)
	_ screen.KeyHintProvider = (*TrainerScreen)(nil)
	_ screen.StatusProvider  = (*TrainerScreen)(nil)
)

// New creates a TrainerScreen in the topic form.
func New(opts Options) *TrainerScreen {
	t := &TrainerScreen{
		opts:   opts,
		sess:   session.New(),
		input:  components.NewTextInput("e.g. sea turtles, volcanoes, robots", maxTopicLen),
		logger: opts.Logger,
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.opts.Resolver == nil {
		t.opts.Resolver = content.NewResolver(nil, nil)
	}

	topic, paragraphs := opts.Topic, opts.ParagraphCount
	if opts.SnapshotRepo != nil && (topic == "" || paragraphs == 0) {
		snap, err := opts.SnapshotRepo.Latest(context.Background())
		if err != nil {
			t.logger.Warn("load last settings", "error", err)
		}
		if snap != nil {
			if topic == "" && !opts.AutoStart {
				topic = snap.Data.Topic
			}
			if paragraphs == 0 {
				paragraphs = snap.Data.ParagraphCount
			}
		}
	}
	if paragraphs > 0 {
		t.sess = session.Apply(t.sess, session.SetParagraphCount{Count: paragraphs})
	}
	if topic != "" {
		t.sess = session.Apply(t.sess, session.SetTopic{Topic: topic})
		t.input.SetValue(topic)
	}
	return t
}

// Session returns the current session state.
func (t *TrainerScreen) Session() session.Session { return t.sess }

func (t *TrainerScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{t.input.Init()}
	if t.opts.AutoStart {
		cmds = append(cmds, t.dispatch(session.GenerateStory{}))
	}
	return tea.Batch(cmds...)
}

func (t *TrainerScreen) Title() string {
	return "Reading Trainer"
}

func (t *TrainerScreen) Status() string {
	if !t.sess.HasStory() {
		return ""
	}
	if t.sess.Source == session.SourceRemote {
		return "AI story"
	}
	return "Built-in story"
}

func (t *TrainerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width, t.height = msg.Width, msg.Height
		return t, nil

	case storyLoadedMsg:
		res := msg.Resolution
		src := session.SourceFallback
		if res.Remote {
			src = session.SourceRemote
		}
		t.scroll = 0
		return t, t.dispatch(session.ContentResolved{
			Generation: msg.Generation,
			Story:      res.Story,
			Source:     src,
			Notice:     res.Notice,
		})

	case persistedMsg:
		if msg.Err != nil {
			t.logger.Warn("store write failed", "what", msg.What, "error", msg.Err)
		}
		return t, nil

	case spinnerTickMsg:
		if !t.sess.Loading() {
			return t, nil
		}
		t.frame++
		return t, spinnerTick()

	case tea.KeyPressMsg:
		return t.handleKey(msg)
	}

	if t.sess.Phase == session.PhaseSelectTopic {
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return t, cmd
	}
	return t, nil
}

func (t *TrainerScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch t.sess.Phase {
	case session.PhaseSelectTopic:
		switch key {
		case "esc":
			return t, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			set := t.dispatch(session.SetTopic{Topic: t.input.Value()})
			return t, tea.Batch(set, t.dispatch(session.GenerateStory{}))
		case "left":
			return t, t.dispatch(session.SetParagraphCount{Count: t.sess.ParagraphCount - 1})
		case "right":
			return t, t.dispatch(session.SetParagraphCount{Count: t.sess.ParagraphCount + 1})
		}
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return t, tea.Batch(cmd, t.dispatch(session.SetTopic{Topic: t.input.Value()}))

	case session.PhaseLoadingStory:
		if key == "esc" {
			return t, t.restart()
		}

	case session.PhaseReadStory:
		switch key {
		case "esc":
			return t, t.restart()
		case "up", "k":
			t.scroll = max(t.scroll-1, 0)
		case "down", "j":
			t.scroll = min(t.scroll+1, t.maxScroll())
		case "enter", "space":
			return t, t.dispatch(session.AcknowledgeRead{})
		}

	case session.PhaseQuestioning:
		switch key {
		case "esc":
			return t, t.restart()
		case "enter":
			return t, t.dispatch(session.SubmitAnswer{})
		case "s":
			return t, t.dispatch(session.SkipQuestion{})
		case "b":
			t.scroll = 0
			return t, t.dispatch(session.ReviewStory{})
		}
		mc, picked := t.choices().Update(msg)
		t.cursor = mc.Cursor
		if picked {
			return t, t.dispatch(session.SelectChoice{Index: mc.Selected})
		}

	case session.PhaseFinished:
		switch key {
		case "esc", "n":
			return t, t.restart()
		case "r":
			return t, t.dispatch(session.RetryStory{})
		case "b":
			t.scroll = 0
			return t, t.dispatch(session.ReviewStory{})
		}
	}

	return t, nil
}

// dispatch applies ev and returns the commands the transition calls for:
// loading content, recording the quiz and saving the form settings.
func (t *TrainerScreen) dispatch(ev session.Event) tea.Cmd {
	prev := t.sess
	next := session.Apply(prev, ev)
	t.sess = next

	if next.Index != prev.Index || next.Phase != prev.Phase {
		t.cursor = 0
	}

	var cmds []tea.Cmd
	if session.StartsLoad(prev, next) {
		t.frame = 0
		cmds = append(cmds, t.loadStory(next), t.saveSettings(next), spinnerTick())
	}

	_, retry := ev.(session.RetryStory)
	if next.Phase == session.PhaseQuestioning && (prev.Phase != session.PhaseQuestioning || retry) {
		t.runID = uuid.NewString()
		cmds = append(cmds, t.record(store.QuizStarted, next))
	}
	if next.Phase == session.PhaseFinished && prev.Phase != session.PhaseFinished {
		if t.runID == "" {
			t.runID = uuid.NewString()
		}
		cmds = append(cmds, t.record(store.QuizFinished, next))
		t.runID = ""
	}

	return tea.Batch(cmds...)
}

func (t *TrainerScreen) restart() tea.Cmd {
	cmd := t.dispatch(session.Restart{})
	t.input.SetValue(t.sess.Topic)
	t.scroll = 0
	t.runID = ""
	return cmd
}

// choices builds the choice list for the current question.
func (t *TrainerScreen) choices() components.MultiChoice {
	q, ok := t.sess.Question()
	if !ok {
		return components.MultiChoice{Selected: -1}
	}
	mc := components.NewMultiChoice(q.Choices(), q.CorrectIndex())
	mc.Cursor = min(t.cursor, max(len(mc.Options)-1, 0))
	if t.sess.Selected != nil {
		mc.Selected = *t.sess.Selected
	}
	if e, ok := t.sess.Entry(); ok && e.Terminal() {
		mc.Locked = true
	}
	return mc
}

func (t *TrainerScreen) request(s session.Session) content.Request {
	req := content.NewRequest(s.Topic, s.ParagraphCount)
	if t.opts.GradeLevel > 0 {
		req.GradeLevel = t.opts.GradeLevel
	}
	if t.opts.QuestionCount > 0 {
		req.QuestionCount = t.opts.QuestionCount
	}
	return req
}

func (t *TrainerScreen) loadStory(s session.Session) tea.Cmd {
	resolver := t.opts.Resolver
	req := t.request(s)
	gen := s.Generation
	return func() tea.Msg {
		return storyLoadedMsg{Generation: gen, Resolution: resolver.Resolve(context.Background(), req)}
	}
}

func (t *TrainerScreen) record(action string, s session.Session) tea.Cmd {
	repo := t.opts.EventRepo
	if repo == nil {
		return nil
	}

	sum := session.BuildSummary(s)
	data := store.QuizEventData{
		RunID:     t.runID,
		Action:    action,
		Topic:     story.NormalizeTopic(s.Topic),
		Title:     sum.Title,
		Source:    s.Source.String(),
		Questions: sum.Questions,
	}
	if action == store.QuizFinished {
		data.Correct = sum.Correct
		data.Skipped = sum.Skipped
		data.Attempts = sum.Attempts
		data.HasScore = sum.HasScore
		data.Score = sum.Score
		data.Grade = sum.Grade.Letter
	}

	return func() tea.Msg {
		return persistedMsg{What: "quiz " + action, Err: repo.AppendQuizEvent(context.Background(), data)}
	}
}

func (t *TrainerScreen) saveSettings(s session.Session) tea.Cmd {
	repo := t.opts.SnapshotRepo
	if repo == nil {
		return nil
	}
	data := store.SnapshotData{
		Version:        1,
		Topic:          story.NormalizeTopic(s.Topic),
		ParagraphCount: s.ParagraphCount,
	}
	return func() tea.Msg {
		ctx := context.Background()
		if err := repo.Save(ctx, &store.Snapshot{Data: data}); err != nil {
			return persistedMsg{What: "settings", Err: err}
		}
		return persistedMsg{What: "settings", Err: repo.Prune(ctx, snapshotsKept)}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (t *TrainerScreen) KeyHints() []layout.KeyHint {
	switch t.sess.Phase {
	case session.PhaseSelectTopic:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Get story"},
			{Key: "←→", Description: "Paragraphs"},
			{Key: "Esc", Description: "Back"},
		}
	case session.PhaseLoadingStory:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel"},
		}
	case session.PhaseReadStory:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Questions"},
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Esc", Description: "Start over"},
		}
	case session.PhaseQuestioning:
		return []layout.KeyHint{
			{Key: "↑↓/1-4", Description: "Choose"},
			{Key: "Enter", Description: "Check"},
			{Key: "S", Description: "Skip"},
			{Key: "B", Description: "Back to story"},
			{Key: "Esc", Description: "Start over"},
		}
	case session.PhaseFinished:
		hints := []layout.KeyHint{}
		if t.sess.CanRetry() {
			hints = append(hints, layout.KeyHint{Key: "R", Description: "Retry"})
		}
		return append(hints,
			layout.KeyHint{Key: "B", Description: "Read again"},
			layout.KeyHint{Key: "N", Description: "New story"},
		)
	}
	return nil
}
