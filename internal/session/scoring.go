package session

// ScoredFrom is the first 1-based position that counts toward the score.
// The opening problems only calibrate difficulty.
const ScoredFrom = 4

// Counts reports whether the problem at the 1-based index is scored.
func Counts(index int) bool {
	return index >= ScoredFrom
}

// recordOutcome logs the current problem's outcome exactly as the scoring
// rules require. Callers guard against recording the same problem twice.
func (s *State) recordOutcome(correct bool) AnsweredEntry {
	entry := AnsweredEntry{Difficulty: s.CurrentDifficulty, Correct: correct}
	s.Answered = append(s.Answered, entry)
	s.Tally.add(s.CurrentDifficulty, correct)

	if Counts(s.CurrentIndex) {
		s.ScoreCounted++
		if correct {
			s.ScoreSum += int(s.CurrentDifficulty)
		}
	}
	s.Resolved = true
	return entry
}

// Average is ScoreSum / ScoreCounted, or 0 before any scored problem.
func (s *State) Average() float64 {
	return average(s.ScoreSum, s.ScoreCounted)
}

func average(sum, counted int) float64 {
	if counted == 0 {
		return 0
	}
	return float64(sum) / float64(counted)
}
