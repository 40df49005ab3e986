package mockexam

import (
	"math"
	"time"

	"github.com/examprep/quizcore/internal/domain/progress"
)

// Result is the graded outcome of one submitted exam. WrongIDs only lists
// answered questions graded incorrect; unanswered ones are in
// UnansweredIDs and count against the score through Total-CorrectCount.
type Result struct {
	Score            int
	Total            int
	CorrectCount     int
	WrongIDs         []int
	UnansweredIDs    []int
	TimeSpentSeconds int
	Auto             bool // submitted by the countdown
}

// Percent is the rounded correct rate, 0 for an empty exam.
func (r Result) Percent() int {
	if r.Total == 0 {
		return 0
	}
	return int(math.Round(float64(r.CorrectCount) / float64(r.Total) * 100))
}

// Passed compares Percent against a pass line such as 72.
func (r Result) Passed(passPercent int) bool {
	return r.Percent() >= passPercent
}

// HistoryEntry converts the result into its persisted summary.
func (r Result) HistoryEntry(entryID string, at time.Time) progress.MockHistoryEntry {
	return progress.MockHistoryEntry{
		ID:               entryID,
		Date:             at.UTC().Format(time.RFC3339),
		CorrectCount:     r.CorrectCount,
		Total:            r.Total,
		TimeSpentSeconds: r.TimeSpentSeconds,
	}
}
