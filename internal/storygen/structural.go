package storygen

import (
	"fmt"

	"github.com/abhisek/storyquiz/internal/content"
	"github.com/abhisek/storyquiz/internal/story"
)

// StructuralValidator checks that the story is playable and has the
// paragraph count that was asked for.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(s *story.Story, req content.Request) *ValidationError {
	if err := s.Validate(); err != nil {
		return &ValidationError{
			Validator: v.Name(),
			Message:   err.Error(),
			Retryable: true,
		}
	}
	if req.ParagraphCount > 0 && len(s.Paragraphs) != req.ParagraphCount {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("has %d paragraphs, asked for %d", len(s.Paragraphs), req.ParagraphCount),
			Retryable: true,
		}
	}
	return nil
}
