package story

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// questionWire is the flattened wire form of a Question. The kind tag and
// the kind's own fields live next to the common fields:
//
//	{"text": "...", "paragraph_index": 0, "kind": "multiple_choice",
//	 "choices": ["..."], "correct_index": 1}
type questionWire struct {
	Text           string   `json:"text" yaml:"text"`
	ParagraphIndex int      `json:"paragraph_index" yaml:"paragraph_index"`
	Kind           string   `json:"kind" yaml:"kind"`
	Choices        []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	CorrectIndex   *int     `json:"correct_index,omitempty" yaml:"correct_index,omitempty"`
}

func (q Question) toWire() (questionWire, error) {
	w := questionWire{Text: q.Text, ParagraphIndex: q.ParagraphIndex}
	switch k := q.Kind.(type) {
	case MultipleChoice:
		idx := k.CorrectIndex
		w.Kind = k.Name()
		w.Choices = k.Choices
		w.CorrectIndex = &idx
	case nil:
		return w, fmt.Errorf("question %q: missing kind", q.Text)
	default:
		return w, fmt.Errorf("question %q: unsupported kind %q", q.Text, k.Name())
	}
	return w, nil
}

func (w questionWire) toQuestion() (Question, error) {
	q := Question{Text: w.Text, ParagraphIndex: w.ParagraphIndex}
	switch w.Kind {
	case KindMultipleChoice:
		if w.CorrectIndex == nil {
			return q, fmt.Errorf("question %q: missing correct_index", w.Text)
		}
		q.Kind = MultipleChoice{Choices: w.Choices, CorrectIndex: *w.CorrectIndex}
	case "":
		return q, fmt.Errorf("question %q: missing kind", w.Text)
	default:
		return q, fmt.Errorf("question %q: unknown kind %q", w.Text, w.Kind)
	}
	return q, nil
}

// MarshalJSON writes the flattened, kind-tagged form.
func (q Question) MarshalJSON() ([]byte, error) {
	w, err := q.toWire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the flattened, kind-tagged form.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsed, err := w.toQuestion()
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// MarshalYAML writes the same layout as MarshalJSON.
func (q Question) MarshalYAML() (any, error) {
	return q.toWire()
}

// UnmarshalYAML reads the same layout as UnmarshalJSON.
func (q *Question) UnmarshalYAML(node *yaml.Node) error {
	var w questionWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	parsed, err := w.toQuestion()
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*q = parsed
	return nil
}

// Decode parses a Story from its JSON form.
func Decode(data []byte) (Story, error) {
	var s Story
	if err := json.Unmarshal(data, &s); err != nil {
		return Story{}, err
	}
	return s, nil
}
