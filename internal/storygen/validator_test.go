package storygen

import (
	"testing"

	"github.com/abhisek/storyquiz/internal/content"
	"github.com/abhisek/storyquiz/internal/llm"
	"github.com/abhisek/storyquiz/internal/story"
)

func mc(text string, paragraph, correct int, choices ...string) story.Question {
	return story.NewMultipleChoice(text, paragraph, choices, correct)
}

func TestStructuralValidator(t *testing.T) {
	req := content.Request{ParagraphCount: 2}
	tests := []struct {
		name    string
		story   story.Story
		wantErr bool
	}{
		{
			name: "valid",
			story: story.Story{
				Title:      "Kites",
				Paragraphs: []string{"Kites fly.", "Wind helps."},
				Questions:  []story.Question{mc("What flies?", 0, 0, "Kites", "Rocks")},
			},
		},
		{
			name: "wrong paragraph count",
			story: story.Story{
				Title:      "Kites",
				Paragraphs: []string{"Kites fly."},
				Questions:  []story.Question{mc("What flies?", 0, 0, "Kites", "Rocks")},
			},
			wantErr: true,
		},
		{
			name: "missing title",
			story: story.Story{
				Paragraphs: []string{"Kites fly.", "Wind helps."},
				Questions:  []story.Question{mc("What flies?", 0, 0, "Kites", "Rocks")},
			},
			wantErr: true,
		},
		{
			name: "one choice",
			story: story.Story{
				Title:      "Kites",
				Paragraphs: []string{"Kites fly.", "Wind helps."},
				Questions:  []story.Question{mc("What flies?", 0, 0, "Kites")},
			},
			wantErr: true,
		},
		{
			name: "correct index out of range",
			story: story.Story{
				Title:      "Kites",
				Paragraphs: []string{"Kites fly.", "Wind helps."},
				Questions:  []story.Question{mc("What flies?", 0, 2, "Kites", "Rocks")},
			},
			wantErr: true,
		},
		{
			name: "no questions",
			story: story.Story{
				Title:      "Kites",
				Paragraphs: []string{"Kites fly.", "Wind helps."},
			},
			wantErr: true,
		},
	}

	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := v.Validate(&tt.story, req)
			if (verr != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", verr, tt.wantErr)
			}
			if verr != nil && (!verr.Retryable || verr.Validator != "structural") {
				t.Errorf("unexpected error fields: %+v", verr)
			}
		})
	}
}

func TestStructuralValidator_AnyParagraphCountWhenUnset(t *testing.T) {
	s := story.Story{
		Title:      "Kites",
		Paragraphs: []string{"a", "b", "c"},
		Questions:  []story.Question{mc("?", 0, 0, "x", "y")},
	}
	if verr := (&StructuralValidator{}).Validate(&s, content.Request{}); verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
}

func TestParagraphReferenceValidator(t *testing.T) {
	s := story.Story{
		Title:      "Kites",
		Paragraphs: []string{"Kites fly.", "Wind helps."},
	}
	v := &ParagraphReferenceValidator{}

	for _, idx := range []int{0, 1} {
		s.Questions = []story.Question{mc("?", idx, 0, "x", "y")}
		if verr := v.Validate(&s, content.Request{}); verr != nil {
			t.Errorf("index %d: unexpected error %v", idx, verr)
		}
	}
	for _, idx := range []int{-1, 2} {
		s.Questions = []story.Question{mc("?", idx, 0, "x", "y")}
		if verr := v.Validate(&s, content.Request{}); verr == nil {
			t.Errorf("index %d: expected error", idx)
		}
	}
}

func TestStorySchemaCompiles(t *testing.T) {
	if _, err := llm.CompileSchema(StorySchema); err != nil {
		t.Fatalf("compile: %v", err)
	}
}
