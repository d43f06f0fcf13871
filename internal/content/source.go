// Package content obtains stories for a session: from a remote worker or an
// LLM, with caching and retries, falling back to the canned pool on failure.
package content

import (
	"context"
	"fmt"

	"github.com/abhisek/storyquiz/internal/story"
)

// Request defaults.
const (
	DefaultGradeLevel    = 5
	DefaultQuestionCount = 4
)

// Request describes the story a session wants.
type Request struct {
	Topic          string
	GradeLevel     int
	ParagraphCount int
	QuestionCount  int
}

// NewRequest builds a Request with the default grade level and question count.
func NewRequest(topic string, paragraphs int) Request {
	return Request{
		Topic:          story.NormalizeTopic(topic),
		GradeLevel:     DefaultGradeLevel,
		ParagraphCount: paragraphs,
		QuestionCount:  DefaultQuestionCount,
	}
}

// Key identifies equivalent requests, e.g. for caching.
func (r Request) Key() string {
	return fmt.Sprintf("%s|g%d|p%d|q%d", story.NormalizeTopic(r.Topic), r.GradeLevel, r.ParagraphCount, r.QuestionCount)
}

// Source produces a story for a request. Failures should be one of the typed
// errors in this package so the resolver can describe them.
type Source interface {
	Generate(ctx context.Context, req Request) (story.Story, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, req Request) (story.Story, error)

func (f SourceFunc) Generate(ctx context.Context, req Request) (story.Story, error) {
	return f(ctx, req)
}
