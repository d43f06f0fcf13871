package storygen

import (
	"github.com/abhisek/storyquiz/internal/llm"
	"github.com/abhisek/storyquiz/internal/story"
)

// StorySchema is the JSON shape the model must return. It matches the story
// wire format, so a valid response decodes with story.Decode.
var StorySchema = &llm.Schema{
	Name:        "reading-story",
	Description: "A short reading passage for children with multiple-choice comprehension questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A short, friendly story title",
			},
			"paragraphs": map[string]any{
				"type":        "array",
				"minItems":    story.DefaultLimits.MinParagraphs,
				"maxItems":    story.DefaultLimits.MaxParagraphs,
				"items":       map[string]any{"type": "string"},
				"description": "The story, one paragraph per item",
			},
			"questions": map[string]any{
				"type":     "array",
				"minItems": story.DefaultLimits.MinQuestions,
				"maxItems": story.DefaultLimits.MaxQuestions,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "The question shown to the reader",
						},
						"paragraph_index": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Zero-based index of the paragraph that answers the question",
						},
						"kind": map[string]any{
							"type": "string",
							"enum": []any{story.KindMultipleChoice},
						},
						"choices": map[string]any{
							"type":        "array",
							"minItems":    story.DefaultLimits.MinChoices,
							"maxItems":    4,
							"items":       map[string]any{"type": "string"},
							"description": "Answer options; exactly one is correct",
						},
						"correct_index": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Zero-based index of the correct choice",
						},
					},
					"required":             []any{"text", "paragraph_index", "kind", "choices", "correct_index"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "paragraphs", "questions"},
		"additionalProperties": false,
	},
}
