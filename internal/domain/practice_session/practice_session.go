package practicesession

import (
	"math/rand"
	"sort"
	"time"

	"github.com/examprep/quizcore/internal/domain/progress"
	"github.com/examprep/quizcore/internal/domain/question"
	"github.com/examprep/quizcore/internal/id"
)

// PracticeSession is an ordered working list plus the current position.
// The order is fixed at creation; navigation never reshuffles.
type PracticeSession struct {
	ID        string
	Config    SessionConfig
	Questions []question.Question
	Index     int
}

// New builds the working list for cfg and starts at the first question.
func New(pool []question.Question, config SessionConfig, rng *rand.Rand) *PracticeSession {
	return &PracticeSession{
		ID:        id.New(),
		Config:    config,
		Questions: Build(pool, config, rng),
		Index:     0,
	}
}

// NewRand returns a time-seeded source for callers that do not need
// reproducible draws.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Build narrows pool by filter and topic, optionally samples, and orders
// the result. Sampling happens before ordering, so a sequential sample is
// still ascending by id. With no SampleSize, sequential and topic modes
// never touch rng. An empty result is an empty, non-nil slice.
func Build(pool []question.Question, config SessionConfig, rng *rand.Rand) []question.Question {
	if rng == nil {
		rng = NewRand()
	}

	base := narrow(pool, config)

	if config.SampleSize != nil && *config.SampleSize > 0 && len(base) > 0 {
		n := *config.SampleSize
		if n > len(base) {
			n = len(base)
		}
		base = shuffleQuestions(base, rng)[:n]
	}

	if config.Mode == ModeShuffle {
		return shuffleQuestions(base, rng)
	}

	ordered := make([]question.Question, len(base))
	copy(ordered, base)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

func narrow(pool []question.Question, config SessionConfig) []question.Question {
	out := make([]question.Question, 0, len(pool))
	for _, q := range pool {
		switch config.Filter {
		case FilterWrong:
			if !config.WrongIDs[q.ID] {
				continue
			}
		case FilterFavorite:
			if !config.FavoriteIDs[q.ID] {
				continue
			}
		}
		if config.Mode == ModeTopic && config.Topic != "" && !q.HasTopic(config.Topic) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// shuffleQuestions returns a new slice in Fisher-Yates order.
func shuffleQuestions(questions []question.Question, rng *rand.Rand) []question.Question {
	shuffled := make([]question.Question, len(questions))
	copy(shuffled, questions)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// Sample draws n distinct questions uniformly without replacement.
// It returns fewer than n only when the pool is smaller.
func Sample(pool []question.Question, n int, rng *rand.Rand) []question.Question {
	if rng == nil {
		rng = NewRand()
	}
	shuffled := shuffleQuestions(pool, rng)
	if n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// Current returns the question at Index.
func (s *PracticeSession) Current() (question.Question, bool) {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return question.Question{}, false
	}
	return s.Questions[s.Index], true
}

// Contains reports whether questionID is part of the session.
func (s *PracticeSession) Contains(questionID int) bool {
	for _, q := range s.Questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}

// Next moves forward, wrapping to the start. It reports whether the move
// wrapped past the last question.
func (s *PracticeSession) Next() (completed bool) {
	if len(s.Questions) == 0 {
		return false
	}
	completed = s.Index == len(s.Questions)-1
	s.Index = (s.Index + 1) % len(s.Questions)
	return completed
}

// Prev moves back, wrapping to the end.
func (s *PracticeSession) Prev() {
	if len(s.Questions) == 0 {
		return
	}
	s.Index = (s.Index - 1 + len(s.Questions)) % len(s.Questions)
}

// Goto jumps to index. It reports false and stays put when index is
// outside the list.
func (s *PracticeSession) Goto(index int) bool {
	if index < 0 || index >= len(s.Questions) {
		return false
	}
	s.Index = index
	return true
}

// MarkerKey returns the resume key for this session. Shuffled and
// sampled sessions have none.
func (s *PracticeSession) MarkerKey() (MarkerKey, bool) {
	if s.Config.SampleSize != nil {
		return MarkerKey{}, false
	}
	switch s.Config.Mode {
	case ModeSequential:
		return SequentialKey(), true
	case ModeTopic:
		if s.Config.Topic == "" {
			return MarkerKey{}, false
		}
		return TopicKey(s.Config.Topic), true
	}
	return MarkerKey{}, false
}

// Marker snapshots the current position.
func (s *PracticeSession) Marker() Marker {
	return Marker{Index: s.Index, Total: len(s.Questions)}
}

// Resume moves to the stored position when the marker is still valid for
// this list. A stale marker is ignored and the session stays at 0.
func (s *PracticeSession) Resume(m *Marker) bool {
	if m == nil || !m.ResumableFor(len(s.Questions)) {
		s.Index = 0
		return false
	}
	s.Index = m.Index
	return true
}

// SheetStatus is the answer-sheet state of one position.
type SheetStatus string

const (
	SheetUnanswered SheetStatus = "unanswered"
	SheetCorrect    SheetStatus = "correct"
	SheetWrong      SheetStatus = "wrong"
)

// SheetEntry is one cell of the answer sheet.
type SheetEntry struct {
	Position   int
	QuestionID int
	Status     SheetStatus
}

// Sheet reports every position's status from the progress map.
func (s *PracticeSession) Sheet(p progress.Map) []SheetEntry {
	sheet := make([]SheetEntry, len(s.Questions))
	for i, q := range s.Questions {
		status := SheetUnanswered
		if e, ok := p[q.ID]; ok {
			status = SheetWrong
			if e.Correct {
				status = SheetCorrect
			}
		}
		sheet[i] = SheetEntry{Position: i, QuestionID: q.ID, Status: status}
	}
	return sheet
}
