package session

import "fmt"

// Result statuses shown per question.
const (
	StatusCorrect    = "Correct"
	StatusSkipped    = "Skipped (0 pts)"
	StatusIncomplete = "Incomplete"
)

// ResultLine is one question's row on the results view.
type ResultLine struct {
	Number   int
	Question string
	Status   string
	Attempts int
}

func (r ResultLine) String() string {
	return fmt.Sprintf("Q%d: %s · attempts: %d", r.Number, r.Status, r.Attempts)
}

// Summary holds the data displayed when a quiz finishes.
type Summary struct {
	Title     string
	Topic     string
	Source    Source
	Questions int
	Correct   int
	Skipped   int
	Attempts  int

	// HasScore is false for a story without questions.
	HasScore bool
	Score    int
	Grade    Grade
	CanRetry bool

	Lines []ResultLine
}

// BuildSummary creates a Summary from the session.
func BuildSummary(s Session) Summary {
	sum := Summary{
		Topic:     s.Topic,
		Source:    s.Source,
		Questions: len(s.Progress),
	}
	if s.Story != nil {
		sum.Title = s.Story.Title
	}

	for i, p := range s.Progress {
		line := ResultLine{Number: i + 1, Attempts: p.DisplayAttempts()}
		if s.Story != nil && i < len(s.Story.Questions) {
			line.Question = s.Story.Questions[i].Text
		}
		switch {
		case p.Skipped:
			line.Status = StatusSkipped
			sum.Skipped++
		case p.Correct:
			line.Status = StatusCorrect
			sum.Correct++
		default:
			line.Status = StatusIncomplete
		}
		sum.Attempts += p.Attempts
		sum.Lines = append(sum.Lines, line)
	}

	sum.Score, sum.HasScore = s.Score()
	if sum.HasScore {
		sum.Grade = GradeFor(sum.Score)
	}
	sum.CanRetry = s.CanRetry()
	return sum
}

// GradeText is the grade badge, e.g. "B (83%)", and its description.
func (sum Summary) GradeText() (badge, desc string) {
	if !sum.HasScore {
		return "No score", "Try generating a story first."
	}
	return fmt.Sprintf("%s (%d%%)", sum.Grade.Letter, sum.Score), sum.Grade.Label
}

// QuestionHeader is the progress line above the current question, e.g.
// "Question 2 of 4 · Completed: 1/4".
func QuestionHeader(s Session) string {
	n := len(s.Progress)
	return fmt.Sprintf("Question %d of %d · Completed: %d/%d", s.Index+1, n, s.Completed(), n)
}

// EntryStatus is the short status after the attempt counter on the question
// view; empty while the entry is open.
func EntryStatus(p Progress) string {
	switch {
	case p.Correct:
		return "Correct!"
	case p.Skipped:
		return "This question was skipped (0 points)."
	}
	return ""
}
