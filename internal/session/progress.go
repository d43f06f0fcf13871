package session

// Progress tracks one question's attempts and outcome.
type Progress struct {
	// Attempts counts submitted answers, right or wrong.
	Attempts int
	Correct  bool
	Skipped  bool
}

// Terminal reports whether the entry is settled. Terminal entries are never
// changed again until the quiz is reset.
func (p Progress) Terminal() bool {
	return p.Correct || p.Skipped
}

// DisplayAttempts is the attempt count shown to the learner. A correct entry
// always shows 1; the stored count is left alone.
func (p Progress) DisplayAttempts() int {
	if p.Correct && p.Attempts > 1 {
		return 1
	}
	return p.Attempts
}

// freshProgress returns n zeroed entries.
func freshProgress(n int) []Progress {
	if n == 0 {
		return nil
	}
	return make([]Progress, n)
}
