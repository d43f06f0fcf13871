package story

import (
	"errors"
	"fmt"
	"strings"
)

// Limits bound the shape of a story accepted from an outside source.
type Limits struct {
	MinParagraphs int
	MaxParagraphs int
	MinQuestions  int
	MaxQuestions  int
	MinChoices    int
}

// DefaultLimits matches what the built-in pool and the generators produce.
var DefaultLimits = Limits{
	MinParagraphs: 1,
	MaxParagraphs: 6,
	MinQuestions:  1,
	MaxQuestions:  10,
	MinChoices:    2,
}

// Validate checks the structure of s against DefaultLimits.
func (s Story) Validate() error {
	return s.ValidateWith(DefaultLimits)
}

// ValidateWith checks that s can be played: a title, a bounded number of
// paragraphs and questions, and answerable multiple-choice questions. It does
// not judge whether the content is correct. All problems are reported
// together.
func (s Story) ValidateWith(l Limits) error {
	var errs []error

	if strings.TrimSpace(s.Title) == "" {
		errs = append(errs, errors.New("title is empty"))
	}

	if n := len(s.Paragraphs); n < l.MinParagraphs || (l.MaxParagraphs > 0 && n > l.MaxParagraphs) {
		errs = append(errs, fmt.Errorf("has %d paragraphs, want %d-%d", n, l.MinParagraphs, l.MaxParagraphs))
	}
	for i, p := range s.Paragraphs {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("paragraph %d is empty", i+1))
		}
	}

	if n := len(s.Questions); n < l.MinQuestions || (l.MaxQuestions > 0 && n > l.MaxQuestions) {
		errs = append(errs, fmt.Errorf("has %d questions, want %d-%d", n, l.MinQuestions, l.MaxQuestions))
	}
	for i, q := range s.Questions {
		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, fmt.Errorf("question %d: text is empty", i+1))
		}
		if q.Kind == nil {
			errs = append(errs, fmt.Errorf("question %d: missing kind", i+1))
			continue
		}
		choices := q.Choices()
		if len(choices) < l.MinChoices {
			errs = append(errs, fmt.Errorf("question %d: has %d choices, want at least %d", i+1, len(choices), l.MinChoices))
		}
		if !q.ValidChoice(q.CorrectIndex()) {
			errs = append(errs, fmt.Errorf("question %d: correct_index %d out of range", i+1, q.CorrectIndex()))
		}
	}

	return errors.Join(errs...)
}
