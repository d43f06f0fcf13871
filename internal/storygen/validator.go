package storygen

import (
	"fmt"

	"github.com/abhisek/storyquiz/internal/content"
	"github.com/abhisek/storyquiz/internal/story"
)

// Validator checks a generated story.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name is a short identifier used in error messages, e.g. "structural".
	Name() string

	// Validate returns nil if the story passes. req is the request the story
	// was generated for.
	Validate(s *story.Story, req content.Request) *ValidationError
}

// ValidationError describes why a story failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
