// Package progress holds the records persisted per device: the
// per-question progress map, the answer-event log and mock history.
package progress

import "time"

// DateLayout is the calendar-date format used to group answer events.
const DateLayout = "2006-01-02"

// DateKey returns the local calendar date of t.
func DateKey(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// Entry is the last known outcome for one question. Re-answering
// overwrites it.
type Entry struct {
	Answered string `json:"answered"`
	Correct  bool   `json:"correct"`
}

// Map is keyed by question id.
type Map map[int]Entry

// Counts returns how many questions were answered and how many of those
// were last answered correctly.
func (m Map) Counts() (done, correct int) {
	for _, e := range m {
		done++
		if e.Correct {
			correct++
		}
	}
	return done, correct
}

// AnswerEvent is one graded interaction, appended once and never edited.
type AnswerEvent struct {
	QuestionID int       `json:"id"`
	Answer     string    `json:"answer"`
	Correct    bool      `json:"correct"`
	Date       string    `json:"date"`
	At         time.Time `json:"at"`
}

// NewAnswerEvent stamps an event with its calendar date.
func NewAnswerEvent(questionID int, answer string, correct bool, at time.Time) AnswerEvent {
	return AnswerEvent{
		QuestionID: questionID,
		Answer:     answer,
		Correct:    correct,
		Date:       DateKey(at),
		At:         at,
	}
}

// MockHistoryEntry is the persisted summary of one submitted mock exam.
type MockHistoryEntry struct {
	ID               string `json:"id"`
	Date             string `json:"date"` // RFC 3339
	CorrectCount     int    `json:"correctCount"`
	Total            int    `json:"total"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
}
