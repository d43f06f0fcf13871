package session

import "github.com/abhisek/storyquiz/internal/story"

// Phase is the coarse stage of a session.
type Phase int

const (
	PhaseSelectTopic  Phase = iota // Choosing a topic and length
	PhaseLoadingStory              // Waiting on the content source
	PhaseReadStory                 // Reading the installed story
	PhaseQuestioning               // Answering questions in order
	PhaseFinished                  // Showing the score
)

func (p Phase) String() string {
	switch p {
	case PhaseSelectTopic:
		return "select-topic"
	case PhaseLoadingStory:
		return "loading-story"
	case PhaseReadStory:
		return "read-story"
	case PhaseQuestioning:
		return "questioning"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// Source records where the installed story came from. It is display-only.
type Source int

const (
	SourceFallback Source = iota
	SourceRemote
)

func (s Source) String() string {
	if s == SourceRemote {
		return "remote"
	}
	return "fallback"
}

// DefaultParagraphCount is the story length a new session asks for.
const DefaultParagraphCount = 3

// Session is the whole state of one learner's run through a story. Sessions
// are values: Apply returns a new Session and never writes through the one it
// was given.
type Session struct {
	// Topic is the raw text the learner typed.
	Topic string

	// ParagraphCount is the requested story length, always in [1,6].
	ParagraphCount int

	// Story is nil until content has been resolved.
	Story *story.Story

	// Progress has one entry per question while Story is set, none otherwise.
	Progress []Progress

	// Index is the current question while questioning.
	Index int

	// Selected is the not-yet-submitted choice for the current question.
	Selected *int

	Phase  Phase
	Source Source

	// Error is a learner-visible message; empty means none.
	Error string

	// Generation identifies the most recent GenerateStory. A ContentResolved
	// carrying any other value is stale and dropped.
	Generation uint64
}

// New returns a session in its initial state.
func New() Session {
	return Session{
		ParagraphCount: DefaultParagraphCount,
		Phase:          PhaseSelectTopic,
		Source:         SourceFallback,
	}
}

// HasStory reports whether a story is installed.
func (s Session) HasStory() bool { return s.Story != nil }

// Question returns the current question, if any.
func (s Session) Question() (story.Question, bool) {
	if s.Story == nil || s.Index < 0 || s.Index >= len(s.Story.Questions) {
		return story.Question{}, false
	}
	return s.Story.Questions[s.Index], true
}

// Entry returns the progress entry for the current question, if any.
func (s Session) Entry() (Progress, bool) {
	if s.Index < 0 || s.Index >= len(s.Progress) {
		return Progress{}, false
	}
	return s.Progress[s.Index], true
}

// Loading reports whether a content request is outstanding.
func (s Session) Loading() bool { return s.Phase == PhaseLoadingStory }

// Completed counts the terminal entries.
func (s Session) Completed() int {
	n := 0
	for _, p := range s.Progress {
		if p.Terminal() {
			n++
		}
	}
	return n
}
