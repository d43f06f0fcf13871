package session

import "math"

// Grade is a letter grade with its description.
type Grade struct {
	Letter string
	Label  string
}

var (
	GradeA = Grade{Letter: "A", Label: "Excellent"}
	GradeB = Grade{Letter: "B", Label: "Good"}
	GradeC = Grade{Letter: "C", Label: "Needs Practice"}
	GradeU = Grade{Letter: "Unsatisfactory", Label: "Keep Working!"}
)

// Score returns the rounded percentage earned by progress. Each correct entry
// is worth 100/len(progress) points; skipped and open entries earn nothing.
// ok is false when there are no questions.
func Score(progress []Progress) (score int, ok bool) {
	n := len(progress)
	if n == 0 {
		return 0, false
	}
	correct := 0
	for _, p := range progress {
		if p.Correct {
			correct++
		}
	}
	raw := float64(correct) * 100 / float64(n)
	return int(math.Round(raw)), true
}

// GradeFor maps a rounded score to its grade.
func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	default:
		return GradeU
	}
}

// Score is the session's current score.
func (s Session) Score() (int, bool) {
	return Score(s.Progress)
}

// Grade is the session's grade; ok is false when there is no score.
func (s Session) Grade() (Grade, bool) {
	score, ok := s.Score()
	if !ok {
		return Grade{}, false
	}
	return GradeFor(score), true
}

// CanRetry reports whether a finished quiz may be retried: only when it has
// a score below 100.
func (s Session) CanRetry() bool {
	score, ok := s.Score()
	return ok && score < 100
}
