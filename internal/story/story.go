package story

// Story is a titled reading passage followed by comprehension questions.
// Once installed into a session a Story is treated as immutable; callers that
// need to change one work on a Clone.
type Story struct {
	Title      string     `json:"title" yaml:"title"`
	Paragraphs []string   `json:"paragraphs" yaml:"paragraphs"`
	Questions  []Question `json:"questions" yaml:"questions"`
}

// Question is a single comprehension question.
type Question struct {
	Text string

	// ParagraphIndex points at the paragraph the question is about. It is
	// advisory and may be out of range after fallback truncation.
	ParagraphIndex int

	Kind Kind
}

// Kind is the answer format of a question. MultipleChoice is the only
// implementation.
type Kind interface {
	// Name is the wire tag for the kind, e.g. "multiple_choice".
	Name() string

	clone() Kind
}

// KindMultipleChoice is the wire tag for MultipleChoice.
const KindMultipleChoice = "multiple_choice"

// MultipleChoice asks the learner to pick one of several choices.
type MultipleChoice struct {
	Choices      []string
	CorrectIndex int
}

func (MultipleChoice) Name() string { return KindMultipleChoice }

func (mc MultipleChoice) clone() Kind {
	return MultipleChoice{
		Choices:      append([]string(nil), mc.Choices...),
		CorrectIndex: mc.CorrectIndex,
	}
}

// NewMultipleChoice builds a multiple-choice question.
func NewMultipleChoice(text string, paragraphIndex int, choices []string, correctIndex int) Question {
	return Question{
		Text:           text,
		ParagraphIndex: paragraphIndex,
		Kind: MultipleChoice{
			Choices:      choices,
			CorrectIndex: correctIndex,
		},
	}
}

// Choices returns the options the learner can pick from.
func (q Question) Choices() []string {
	if mc, ok := q.Kind.(MultipleChoice); ok {
		return mc.Choices
	}
	return nil
}

// CorrectIndex returns the index of the right choice, or -1 when the
// question has no multiple-choice kind.
func (q Question) CorrectIndex() int {
	if mc, ok := q.Kind.(MultipleChoice); ok {
		return mc.CorrectIndex
	}
	return -1
}

// IsCorrect reports whether choice answers the question.
func (q Question) IsCorrect(choice int) bool {
	mc, ok := q.Kind.(MultipleChoice)
	return ok && choice == mc.CorrectIndex
}

// ValidChoice reports whether choice is an index into the question's choices.
func (q Question) ValidChoice(choice int) bool {
	return choice >= 0 && choice < len(q.Choices())
}

// Clone returns a deep copy of s.
func (s Story) Clone() Story {
	out := Story{
		Title:      s.Title,
		Paragraphs: append([]string(nil), s.Paragraphs...),
	}
	if s.Questions != nil {
		out.Questions = make([]Question, len(s.Questions))
		for i, q := range s.Questions {
			out.Questions[i] = q.clone()
		}
	}
	return out
}

func (q Question) clone() Question {
	c := q
	if q.Kind != nil {
		c.Kind = q.Kind.clone()
	}
	return c
}
