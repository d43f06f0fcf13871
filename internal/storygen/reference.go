package storygen

import (
	"fmt"

	"github.com/abhisek/storyquiz/internal/content"
	"github.com/abhisek/storyquiz/internal/story"
)

// ParagraphReferenceValidator checks that every question points at a
// paragraph that exists.
type ParagraphReferenceValidator struct{}

func (v *ParagraphReferenceValidator) Name() string { return "paragraph-reference" }

func (v *ParagraphReferenceValidator) Validate(s *story.Story, _ content.Request) *ValidationError {
	for i, q := range s.Questions {
		if q.ParagraphIndex < 0 || q.ParagraphIndex >= len(s.Paragraphs) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d refers to paragraph %d of %d", i+1, q.ParagraphIndex, len(s.Paragraphs)),
				Retryable: true,
			}
		}
	}
	return nil
}
