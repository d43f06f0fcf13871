package session

import (
	"strings"

	"github.com/abhisek/storyquiz/internal/fallback"
)

// Learner-visible messages.
const (
	MsgEmptyTopic  = "Please enter a story topic first."
	MsgNoStory     = "No story is loaded yet."
	MsgNoSelection = "Please choose an answer before checking."
)

// Apply returns the session that results from applying ev to s. It is pure:
// s is never modified, and events that are not valid in the current state
// return s unchanged (or with only Error set).
func Apply(s Session, ev Event) Session {
	switch ev := ev.(type) {
	case SetTopic:
		return setTopic(s, ev)
	case SetParagraphCount:
		return setParagraphCount(s, ev)
	case GenerateStory:
		return generateStory(s)
	case ContentResolved:
		return contentResolved(s, ev)
	case AcknowledgeRead:
		return acknowledgeRead(s)
	case ReviewStory:
		return reviewStory(s)
	case SelectChoice:
		return selectChoice(s, ev)
	case SubmitAnswer:
		return submitAnswer(s)
	case SkipQuestion:
		return skipQuestion(s)
	case RetryStory:
		return retryStory(s)
	case Restart:
		return restart(s)
	}
	return s
}

// StartsLoad reports whether the transition prev -> next began a content
// request. The caller should fetch content for next.Topic and answer with a
// ContentResolved carrying next.Generation.
func StartsLoad(prev, next Session) bool {
	return next.Phase == PhaseLoadingStory && next.Generation != prev.Generation
}

func setTopic(s Session, ev SetTopic) Session {
	if s.Loading() {
		return s
	}
	s.Topic = ev.Topic
	s.Error = ""
	return s
}

func setParagraphCount(s Session, ev SetParagraphCount) Session {
	if s.Loading() {
		return s
	}
	s.ParagraphCount = fallback.ClampParagraphs(ev.Count)
	s.Error = ""
	return s
}

func generateStory(s Session) Session {
	// One outstanding request at a time.
	if s.Loading() {
		return s
	}
	if strings.TrimSpace(s.Topic) == "" {
		s.Error = MsgEmptyTopic
		return s
	}
	s.Error = ""
	s.Story = nil
	s.Progress = nil
	s.Index = 0
	s.Selected = nil
	s.Generation++
	s.Phase = PhaseLoadingStory
	return s
}

func contentResolved(s Session, ev ContentResolved) Session {
	if !s.Loading() || ev.Generation != s.Generation {
		return s
	}
	st := ev.Story.Clone()
	s.Story = &st
	s.Progress = freshProgress(len(st.Questions))
	s.Index = 0
	s.Selected = nil
	s.Source = ev.Source
	s.Error = ev.Notice
	s.Phase = PhaseReadStory
	return s
}

func acknowledgeRead(s Session) Session {
	if s.Phase != PhaseReadStory || s.Story == nil {
		return s
	}
	s.Error = ""
	if len(s.Progress) == 0 {
		// Nothing to ask.
		s.Phase = PhaseFinished
		return s
	}
	s.Phase = PhaseQuestioning
	return s
}

func reviewStory(s Session) Session {
	if s.Story == nil {
		return s
	}
	switch s.Phase {
	case PhaseReadStory, PhaseQuestioning, PhaseFinished:
	default:
		return s
	}
	s = resetQuiz(s)
	s.Phase = PhaseReadStory
	return s
}

func selectChoice(s Session, ev SelectChoice) Session {
	if s.Phase != PhaseQuestioning {
		return s
	}
	q, ok := s.Question()
	if !ok || !q.ValidChoice(ev.Index) {
		return s
	}
	if e, ok := s.Entry(); !ok || e.Terminal() {
		return s
	}
	i := ev.Index
	s.Selected = &i
	s.Error = ""
	return s
}

func submitAnswer(s Session) Session {
	if s.Phase != PhaseQuestioning {
		return s
	}
	s.Error = ""
	if s.Story == nil {
		s.Error = MsgNoStory
		return s
	}
	q, ok := s.Question()
	if !ok {
		return s
	}
	e, ok := s.Entry()
	if !ok || e.Terminal() {
		return s
	}
	if s.Selected == nil {
		s.Error = MsgNoSelection
		return s
	}

	e.Attempts++
	if !q.IsCorrect(*s.Selected) {
		return s.withEntry(e)
	}
	e.Correct = true
	return advance(s.withEntry(e))
}

func skipQuestion(s Session) Session {
	if s.Phase != PhaseQuestioning || s.Story == nil {
		return s
	}
	e, ok := s.Entry()
	if !ok || e.Terminal() {
		return s
	}
	e.Skipped = true
	s = s.withEntry(e)
	s.Error = ""
	return advance(s)
}

func retryStory(s Session) Session {
	if len(s.Progress) == 0 {
		return s
	}
	switch s.Phase {
	case PhaseReadStory, PhaseQuestioning:
	case PhaseFinished:
		if !s.CanRetry() {
			return s
		}
	default:
		return s
	}
	s = resetQuiz(s)
	s.Phase = PhaseQuestioning
	return s
}

// restart keeps only the generation counter so a request still in flight
// can never match a later one.
func restart(s Session) Session {
	n := New()
	n.Generation = s.Generation
	return n
}

// advance moves past a terminal entry, finishing after the last question.
func advance(s Session) Session {
	s.Selected = nil
	if s.Index+1 >= len(s.Progress) {
		s.Phase = PhaseFinished
		return s
	}
	s.Index++
	return s
}

func resetQuiz(s Session) Session {
	s.Progress = freshProgress(len(s.Progress))
	s.Index = 0
	s.Selected = nil
	s.Error = ""
	return s
}

// withEntry returns s with the current entry replaced, copying the progress
// slice so the caller's session is untouched.
func (s Session) withEntry(e Progress) Session {
	p := make([]Progress, len(s.Progress))
	copy(p, s.Progress)
	p[s.Index] = e
	s.Progress = p
	return s
}
