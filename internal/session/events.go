package session

import "github.com/abhisek/storyquiz/internal/story"

// Event is an input to Apply.
type Event interface {
	event()
}

// SetTopic replaces the topic text.
type SetTopic struct{ Topic string }

// SetParagraphCount sets the requested story length; it is clamped to [1,6].
type SetParagraphCount struct{ Count int }

// GenerateStory starts loading a story for the current topic.
type GenerateStory struct{}

// ContentResolved installs the result of a content request. Generation must
// be the value the session had when the request started.
type ContentResolved struct {
	Generation uint64
	Story      story.Story
	Source     Source

	// Notice is shown to the learner, e.g. why the fallback pool was used.
	Notice string
}

// AcknowledgeRead moves from reading to the questions.
type AcknowledgeRead struct{}

// ReviewStory goes back to the story and restarts the quiz on it.
type ReviewStory struct{}

// SelectChoice picks a choice for the current question without submitting.
type SelectChoice struct{ Index int }

// SubmitAnswer checks the selected choice.
type SubmitAnswer struct{}

// SkipQuestion gives up on the current question for zero points.
type SkipQuestion struct{}

// RetryStory restarts the quiz on the same story.
type RetryStory struct{}

// Restart returns to the initial state.
type Restart struct{}

func (SetTopic) event()          {}
func (SetParagraphCount) event() {}
func (GenerateStory) event()     {}
func (ContentResolved) event()   {}
func (AcknowledgeRead) event()   {}
func (ReviewStory) event()       {}
func (SelectChoice) event()      {}
func (SubmitAnswer) event()      {}
func (SkipQuestion) event()      {}
func (RetryStory) event()        {}
func (Restart) event()           {}
