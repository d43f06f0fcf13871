package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abhisek/storyquiz/internal/story"
)

func testStory(questions int) story.Story {
	s := story.Story{
		Title:      "The Kite Contest",
		Paragraphs: []string{"Ana built a kite.", "The wind was strong.", "Her kite flew highest."},
	}
	for i := range questions {
		// Choice 1 is always correct.
		s.Questions = append(s.Questions, story.NewMultipleChoice(
			"Question?", i%3, []string{"wrong", "right", "also wrong"}, 1))
	}
	return s
}

// apply runs events in order and returns the final session.
func apply(s Session, events ...Event) Session {
	for _, ev := range events {
		s = Apply(s, ev)
	}
	return s
}

// loaded returns a session reading a story with n questions.
func loaded(n int) Session {
	s := apply(New(), SetTopic{Topic: "kites"}, GenerateStory{})
	return Apply(s, ContentResolved{Generation: s.Generation, Story: testStory(n), Source: SourceRemote})
}

// questioning returns a session on the first of n questions.
func questioning(n int) Session {
	return Apply(loaded(n), AcknowledgeRead{})
}

func TestNew(t *testing.T) {
	s := New()
	if s.Phase != PhaseSelectTopic {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseSelectTopic)
	}
	if s.ParagraphCount != DefaultParagraphCount {
		t.Errorf("ParagraphCount = %d, want %d", s.ParagraphCount, DefaultParagraphCount)
	}
	if s.HasStory() || len(s.Progress) != 0 {
		t.Error("new session should have no story or progress")
	}
}

func TestGenerateStory_EmptyTopic(t *testing.T) {
	for _, topic := range []string{"", "   ", "\t\n"} {
		s := apply(New(), SetTopic{Topic: topic}, GenerateStory{})
		if s.Phase != PhaseSelectTopic {
			t.Errorf("topic %q: Phase = %v, want %v", topic, s.Phase, PhaseSelectTopic)
		}
		if s.Error != MsgEmptyTopic {
			t.Errorf("topic %q: Error = %q, want %q", topic, s.Error, MsgEmptyTopic)
		}
		if s.Generation != 0 {
			t.Errorf("topic %q: Generation = %d, want 0", topic, s.Generation)
		}
	}
}

func TestGenerateStory_StartsLoad(t *testing.T) {
	prev := apply(New(), SetTopic{Topic: "kites"}, SetParagraphCount{Count: 5})
	next := Apply(prev, GenerateStory{})

	if next.Phase != PhaseLoadingStory {
		t.Fatalf("Phase = %v, want %v", next.Phase, PhaseLoadingStory)
	}
	if !StartsLoad(prev, next) {
		t.Error("StartsLoad = false, want true")
	}
	if next.ParagraphCount != 5 {
		t.Errorf("ParagraphCount = %d, want 5", next.ParagraphCount)
	}
	if next.Error != "" {
		t.Errorf("Error = %q, want empty", next.Error)
	}
}

func TestGenerateStory_IgnoredWhileLoading(t *testing.T) {
	s := apply(New(), SetTopic{Topic: "kites"}, GenerateStory{})
	again := Apply(s, GenerateStory{})

	if diff := cmp.Diff(s, again); diff != "" {
		t.Errorf("second GenerateStory changed session (-want +got):\n%s", diff)
	}
	if StartsLoad(s, again) {
		t.Error("second GenerateStory should not start a load")
	}
}

func TestSetters_IgnoredWhileLoading(t *testing.T) {
	s := apply(New(), SetTopic{Topic: "kites"}, GenerateStory{})
	got := apply(s, SetTopic{Topic: "volcanoes"}, SetParagraphCount{Count: 1})
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("setters changed a loading session (-want +got):\n%s", diff)
	}
}

func TestSetParagraphCount_Clamps(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1}, {-2, 1}, {1, 1}, {4, 4}, {6, 6}, {10, 6},
	}
	for _, tt := range tests {
		s := Apply(New(), SetParagraphCount{Count: tt.in})
		if s.ParagraphCount != tt.want {
			t.Errorf("SetParagraphCount(%d) = %d, want %d", tt.in, s.ParagraphCount, tt.want)
		}
	}
}

func TestContentResolved_InstallsStory(t *testing.T) {
	for _, k := range []int{1, 3, 4, 7} {
		s := loaded(k)
		if s.Phase != PhaseReadStory {
			t.Errorf("k=%d: Phase = %v, want %v", k, s.Phase, PhaseReadStory)
		}
		if len(s.Progress) != k {
			t.Errorf("k=%d: len(Progress) = %d, want %d", k, len(s.Progress), k)
		}
		for i, p := range s.Progress {
			if p != (Progress{}) {
				t.Errorf("k=%d: Progress[%d] = %+v, want zero", k, i, p)
			}
		}
		if s.Index != 0 || s.Selected != nil {
			t.Errorf("k=%d: Index = %d, Selected = %v; want 0, nil", k, s.Index, s.Selected)
		}
		if s.Source != SourceRemote {
			t.Errorf("k=%d: Source = %v, want %v", k, s.Source, SourceRemote)
		}
	}
}

func TestContentResolved_Notice(t *testing.T) {
	s := apply(New(), SetTopic{Topic: "kites"}, GenerateStory{})
	notice := "Could not reach AI Worker; using fallback. (timeout)"
	s = Apply(s, ContentResolved{Generation: s.Generation, Story: testStory(3), Source: SourceFallback, Notice: notice})

	if s.Error != notice {
		t.Errorf("Error = %q, want %q", s.Error, notice)
	}
	if s.Source != SourceFallback {
		t.Errorf("Source = %v, want %v", s.Source, SourceFallback)
	}
}

func TestContentResolved_StaleDiscarded(t *testing.T) {
	first := apply(New(), SetTopic{Topic: "kites"}, GenerateStory{})
	staleGen := first.Generation

	// Restart and ask again before the first response arrives.
	second := apply(first, Restart{}, SetTopic{Topic: "volcanoes"}, GenerateStory{})
	if second.Generation == staleGen {
		t.Fatal("new request reused the stale generation")
	}

	got := Apply(second, ContentResolved{Generation: staleGen, Story: testStory(3)})
	if diff := cmp.Diff(second, got); diff != "" {
		t.Errorf("stale response applied (-want +got):\n%s", diff)
	}

	got = Apply(second, ContentResolved{Generation: second.Generation, Story: testStory(2)})
	if got.Phase != PhaseReadStory || len(got.Progress) != 2 {
		t.Errorf("current response not applied: Phase = %v, len(Progress) = %d", got.Phase, len(got.Progress))
	}
}

func TestContentResolved_AfterRestartDiscarded(t *testing.T) {
	s := apply(New(), SetTopic{Topic: "kites"}, GenerateStory{})
	gen := s.Generation
	s = Apply(s, Restart{})

	got := Apply(s, ContentResolved{Generation: gen, Story: testStory(3)})
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("response after restart applied (-want +got):\n%s", diff)
	}
}

func TestContentResolved_ClonesStory(t *testing.T) {
	src := testStory(2)
	s := apply(New(), SetTopic{Topic: "kites"}, GenerateStory{})
	s = Apply(s, ContentResolved{Generation: s.Generation, Story: src})

	src.Questions[0].Choices()[1] = "mutated"
	if got := s.Story.Questions[0].Choices()[1]; got != "right" {
		t.Errorf("installed story changed through caller's copy: %q", got)
	}
}

func TestAcknowledgeRead(t *testing.T) {
	s := questioning(3)
	if s.Phase != PhaseQuestioning {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseQuestioning)
	}

	// Not valid outside ReadStory.
	if got := Apply(New(), AcknowledgeRead{}); got.Phase != PhaseSelectTopic {
		t.Errorf("AcknowledgeRead from SelectTopic: Phase = %v", got.Phase)
	}
}

func TestAcknowledgeRead_NoQuestions(t *testing.T) {
	s := Apply(loaded(0), AcknowledgeRead{})
	if s.Phase != PhaseFinished {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseFinished)
	}
	if _, ok := s.Score(); ok {
		t.Error("story without questions should have no score")
	}
	if s.CanRetry() {
		t.Error("CanRetry = true for story without questions")
	}
}

func TestSelectChoice(t *testing.T) {
	s := Apply(questioning(3), SelectChoice{Index: 2})
	if s.Selected == nil || *s.Selected != 2 {
		t.Fatalf("Selected = %v, want 2", s.Selected)
	}
	if s.Index != 0 {
		t.Errorf("Index = %d, want 0", s.Index)
	}

	for _, i := range []int{-1, 3, 99} {
		got := Apply(s, SelectChoice{Index: i})
		if diff := cmp.Diff(s, got); diff != "" {
			t.Errorf("SelectChoice(%d) out of range changed session (-want +got):\n%s", i, diff)
		}
	}
}

func TestSelectChoice_DoesNotAliasPrevious(t *testing.T) {
	a := Apply(questioning(3), SelectChoice{Index: 0})
	b := Apply(a, SelectChoice{Index: 2})
	if *a.Selected != 0 {
		t.Errorf("previous session's selection changed to %d", *a.Selected)
	}
	if *b.Selected != 2 {
		t.Errorf("Selected = %d, want 2", *b.Selected)
	}
}

func TestSubmitAnswer_NoSelection(t *testing.T) {
	before := questioning(3)
	s := Apply(before, SubmitAnswer{})

	if s.Error != MsgNoSelection {
		t.Errorf("Error = %q, want %q", s.Error, MsgNoSelection)
	}
	if s.Progress[0].Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", s.Progress[0].Attempts)
	}

	// The error clears on the next successful action.
	s = apply(s, SelectChoice{Index: 1}, SubmitAnswer{})
	if s.Error != "" {
		t.Errorf("Error = %q after successful submit, want empty", s.Error)
	}
}

func TestSubmitAnswer_Correct(t *testing.T) {
	s := apply(questioning(3), SelectChoice{Index: 1}, SubmitAnswer{})

	if s.Index != 1 {
		t.Errorf("Index = %d, want 1", s.Index)
	}
	if s.Selected != nil {
		t.Errorf("Selected = %d, want nil", *s.Selected)
	}
	if want := (Progress{Attempts: 1, Correct: true}); s.Progress[0] != want {
		t.Errorf("Progress[0] = %+v, want %+v", s.Progress[0], want)
	}
	if s.Phase != PhaseQuestioning {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseQuestioning)
	}
}

func TestSubmitAnswer_CorrectOnLastFinishes(t *testing.T) {
	s := questioning(2)
	s = apply(s, SelectChoice{Index: 1}, SubmitAnswer{}, SelectChoice{Index: 1}, SubmitAnswer{})

	if s.Phase != PhaseFinished {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseFinished)
	}
	if s.Selected != nil {
		t.Error("selection should be cleared on finish")
	}
	if s.Index != 1 {
		t.Errorf("Index = %d, want 1", s.Index)
	}
}

func TestSubmitAnswer_Incorrect(t *testing.T) {
	s := Apply(questioning(3), SelectChoice{Index: 0})
	for i := 1; i <= 3; i++ {
		s = Apply(s, SubmitAnswer{})
		if s.Progress[0].Attempts != i {
			t.Errorf("after %d wrong submits: Attempts = %d", i, s.Progress[0].Attempts)
		}
		if s.Progress[0].Correct {
			t.Error("incorrect answer marked correct")
		}
		if s.Index != 0 {
			t.Errorf("Index = %d, want 0", s.Index)
		}
		if s.Phase != PhaseQuestioning {
			t.Errorf("Phase = %v, want %v", s.Phase, PhaseQuestioning)
		}
	}
}

func TestSubmitAnswer_DoesNotMutateInput(t *testing.T) {
	before := Apply(questioning(3), SelectChoice{Index: 0})
	snapshot := append([]Progress(nil), before.Progress...)

	_ = Apply(before, SubmitAnswer{})

	if diff := cmp.Diff(snapshot, before.Progress); diff != "" {
		t.Errorf("Apply wrote through the input session (-want +got):\n%s", diff)
	}
}

func TestSkipQuestion(t *testing.T) {
	s := apply(questioning(3), SelectChoice{Index: 0}, SkipQuestion{})

	if want := (Progress{Skipped: true}); s.Progress[0] != want {
		t.Errorf("Progress[0] = %+v, want %+v", s.Progress[0], want)
	}
	if s.Index != 1 {
		t.Errorf("Index = %d, want 1", s.Index)
	}
	if s.Selected != nil {
		t.Error("skip should clear the selection")
	}

	s = apply(s, SkipQuestion{}, SkipQuestion{})
	if s.Phase != PhaseFinished {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseFinished)
	}
	if score, _ := s.Score(); score != 0 {
		t.Errorf("Score = %d, want 0", score)
	}
}

func TestTerminalEntry_NoOps(t *testing.T) {
	// Finish on the last question, then poke at the terminal entry.
	s := apply(questioning(1), SelectChoice{Index: 1}, SubmitAnswer{})
	if s.Phase != PhaseFinished {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhaseFinished)
	}

	// Force the phase back to exercise the entry guard directly.
	forced := s
	forced.Phase = PhaseQuestioning
	forced.Selected = new(int)

	for _, ev := range []Event{SubmitAnswer{}, SkipQuestion{}, SelectChoice{Index: 0}} {
		got := Apply(forced, ev)
		if got.Progress[0] != forced.Progress[0] {
			t.Errorf("%T changed terminal entry: %+v", ev, got.Progress[0])
		}
		if got.Phase != forced.Phase || got.Index != forced.Index {
			t.Errorf("%T moved the session: Phase = %v, Index = %d", ev, got.Phase, got.Index)
		}
	}
}

func TestReviewStory_ResetsQuiz(t *testing.T) {
	s := apply(questioning(3), SelectChoice{Index: 1}, SubmitAnswer{}, SelectChoice{Index: 0})
	s = Apply(s, ReviewStory{})

	if s.Phase != PhaseReadStory {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseReadStory)
	}
	if diff := cmp.Diff(make([]Progress, 3), s.Progress); diff != "" {
		t.Errorf("progress not reset (-want +got):\n%s", diff)
	}
	if s.Index != 0 || s.Selected != nil {
		t.Errorf("Index = %d, Selected = %v; want 0, nil", s.Index, s.Selected)
	}
	if !s.HasStory() {
		t.Error("story should be kept")
	}

	if got := Apply(New(), ReviewStory{}); got.Phase != PhaseSelectTopic {
		t.Errorf("ReviewStory without a story: Phase = %v", got.Phase)
	}
}

func TestRetryStory(t *testing.T) {
	// [correct, skipped, incorrect-pending]
	s := apply(questioning(3),
		SelectChoice{Index: 1}, SubmitAnswer{},
		SkipQuestion{},
		SelectChoice{Index: 0}, SubmitAnswer{},
	)
	want := []Progress{{Attempts: 1, Correct: true}, {Skipped: true}, {Attempts: 1}}
	if diff := cmp.Diff(want, s.Progress); diff != "" {
		t.Fatalf("setup progress mismatch (-want +got):\n%s", diff)
	}

	s = Apply(s, RetryStory{})
	if diff := cmp.Diff(make([]Progress, 3), s.Progress); diff != "" {
		t.Errorf("progress not reset (-want +got):\n%s", diff)
	}
	if s.Index != 0 || s.Selected != nil {
		t.Errorf("Index = %d, Selected = %v; want 0, nil", s.Index, s.Selected)
	}
	if s.Phase != PhaseQuestioning {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseQuestioning)
	}
}

func TestRetryStory_FinishedPerfectRejected(t *testing.T) {
	s := questioning(3)
	for range 3 {
		s = apply(s, SelectChoice{Index: 1}, SubmitAnswer{})
	}
	if s.Phase != PhaseFinished {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhaseFinished)
	}

	got := Apply(s, RetryStory{})
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("retry of a perfect score accepted (-want +got):\n%s", diff)
	}
}

func TestRetryStory_FinishedImperfect(t *testing.T) {
	s := apply(questioning(2), SkipQuestion{}, SelectChoice{Index: 1}, SubmitAnswer{})
	if s.Phase != PhaseFinished {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhaseFinished)
	}
	s = Apply(s, RetryStory{})
	if s.Phase != PhaseQuestioning {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseQuestioning)
	}
}

func TestRetryStory_NoProgress(t *testing.T) {
	s := New()
	if got := Apply(s, RetryStory{}); got.Phase != PhaseSelectTopic {
		t.Errorf("Phase = %v, want %v", got.Phase, PhaseSelectTopic)
	}
}

func TestRestart_EqualsNew(t *testing.T) {
	sessions := map[string]Session{
		"select topic": apply(New(), SetTopic{Topic: "kites"}, GenerateStory{}, Restart{}),
		"loading":      apply(New(), SetTopic{Topic: "kites"}, SetParagraphCount{Count: 6}, GenerateStory{}),
		"reading":      loaded(3),
		"questioning":  apply(questioning(3), SelectChoice{Index: 0}, SubmitAnswer{}),
		"finished":     apply(questioning(1), SkipQuestion{}),
		"error":        apply(questioning(3), SubmitAnswer{}),
	}

	for name, s := range sessions {
		t.Run(name, func(t *testing.T) {
			got := Apply(s, Restart{})
			want := New()
			want.Generation = s.Generation
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Restart mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_WrongPhaseEventsIgnored(t *testing.T) {
	reading := loaded(3)
	for _, ev := range []Event{SelectChoice{Index: 1}, SubmitAnswer{}, SkipQuestion{}} {
		got := Apply(reading, ev)
		if diff := cmp.Diff(reading, got); diff != "" {
			t.Errorf("%T in ReadStory changed session (-want +got):\n%s", ev, diff)
		}
	}
}

func TestApply_NilEvent(t *testing.T) {
	s := loaded(2)
	got := Apply(s, nil)
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("nil event changed session (-want +got):\n%s", diff)
	}
}
