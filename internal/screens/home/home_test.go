package home

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyquiz/internal/router"
	"github.com/abhisek/storyquiz/internal/screen"
	"github.com/abhisek/storyquiz/internal/screens/history"
	"github.com/abhisek/storyquiz/internal/screens/placeholder"
	"github.com/abhisek/storyquiz/internal/store"
)

// resultsRepo implements store.EventRepo with canned quiz results.
type resultsRepo struct {
	store.EventRepo
	results []store.QuizResultRecord
	err     error
}

func (r *resultsRepo) QueryQuizResults(_ context.Context, _ store.QueryOpts) ([]store.QuizResultRecord, error) {
	return r.results, r.err
}

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "trainer" }
func (s *stubScreen) Title() string                          { return "Trainer" }

func result(score int, grade string) store.QuizResultRecord {
	return store.QuizResultRecord{QuizEventData: store.QuizEventData{
		RunID: "r", Action: store.QuizFinished, HasScore: true, Score: score, Grade: grade,
	}}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestHome_Stats(t *testing.T) {
	repo := &resultsRepo{results: []store.QuizResultRecord{result(100, "A"), result(50, "Unsatisfactory")}}
	h := New(Options{EventRepo: repo})

	if h.stats.Quizzes != 2 || h.stats.BestScore != 100 || h.stats.AverageScore != 75 {
		t.Errorf("stats = %+v", h.stats)
	}
	if h.mascot != MascotCelebrating {
		t.Errorf("mascot = %v, want celebrating after a perfect score", h.mascot)
	}
	if view := h.View(120, 40); !strings.Contains(view, "BEST 100%") {
		t.Error("view should show the best score")
	}
}

func TestHome_StatsErrorIsNotFatal(t *testing.T) {
	h := New(Options{EventRepo: &resultsRepo{err: errors.New("disk gone")}})
	if h.stats.Quizzes != 0 {
		t.Errorf("stats = %+v", h.stats)
	}
	if !strings.Contains(h.View(120, 40), "No quizzes yet") {
		t.Error("empty stats message expected")
	}
}

func TestMascotFor(t *testing.T) {
	tests := []struct {
		name    string
		results []store.QuizResultRecord
		want    MascotVariant
	}{
		{"none", nil, MascotIdle},
		{"perfect", []store.QuizResultRecord{result(100, "A")}, MascotCelebrating},
		{"low", []store.QuizResultRecord{result(25, "Unsatisfactory"), result(100, "A")}, MascotAlert},
		{"good", []store.QuizResultRecord{result(80, "B")}, MascotIdle},
		{"no score", []store.QuizResultRecord{{}}, MascotIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mascotFor(tt.results); got != tt.want {
				t.Errorf("mascotFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHome_NewStoryPushesTrainer(t *testing.T) {
	h := New(Options{NewTrainer: func() screen.Screen { return &stubScreen{} }})

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*stubScreen); !ok {
		t.Errorf("pushed %T", push.Screen)
	}
}

func TestHome_HistoryWithoutStore(t *testing.T) {
	h := New(Options{})
	h.Update(specialKey(tea.KeyDown))

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*placeholder.PlaceholderScreen); !ok {
		t.Errorf("pushed %T, want placeholder", push.Screen)
	}
}

func TestHome_History(t *testing.T) {
	h := New(Options{EventRepo: &resultsRepo{}})
	h.Update(specialKey(tea.KeyDown))

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	push := cmd().(router.PushScreenMsg)
	if _, ok := push.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("pushed %T, want history", push.Screen)
	}
}

func TestHome_SourceNote(t *testing.T) {
	if view := New(Options{}).View(120, 40); !strings.Contains(view, "built-in stories") {
		t.Error("expected the no-AI banner")
	}
	if view := New(Options{SourceLabel: "anthropic"}).View(120, 40); !strings.Contains(view, "Stories by anthropic") {
		t.Error("expected the source label")
	}
}
