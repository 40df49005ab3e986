// Package mockexam runs a fixed-size, time-boxed exam from start to a
// graded result.
//
// An Exam moves NotStarted -> InProgress -> Submitted, or
// InProgress -> Abandoned. Both end states are terminal; a new exam needs
// a new Exam. While in progress a ticker recomputes the remaining time
// from the start timestamp and submits automatically when it reaches
// zero. Every exit from InProgress stops the ticker, and the state check
// under the lock makes submission happen at most once.
package mockexam

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	practicesession "github.com/examprep/quizcore/internal/domain/practice_session"
	"github.com/examprep/quizcore/internal/domain/question"
	"github.com/examprep/quizcore/internal/grader"
	"github.com/examprep/quizcore/internal/id"
)

var (
	ErrNotEnoughQuestions = errors.New("not enough questions for a mock exam")
	ErrAlreadyStarted     = errors.New("mock exam already started")
	ErrNotInProgress      = errors.New("mock exam is not in progress")
	ErrUnknownQuestion    = errors.New("question is not part of this exam")
)

type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
	StateAbandoned  State = "abandoned"
)

// Config fixes the exam shape.
type Config struct {
	QuestionCount int
	Duration      time.Duration
	TickInterval  time.Duration
}

// DefaultConfig is 65 questions in 130 minutes, checked every second.
func DefaultConfig() Config {
	return Config{
		QuestionCount: 65,
		Duration:      130 * time.Minute,
		TickInterval:  time.Second,
	}
}

type Option func(*Exam)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Exam) { e.now = now }
}

// WithRand fixes the question draw.
func WithRand(rng *rand.Rand) Option {
	return func(e *Exam) { e.rng = rng }
}

func WithGrader(g grader.Grader) Option {
	return func(e *Exam) { e.grader = g }
}

// OnSubmit registers a function called once after submission, manual or
// automatic, outside the exam's lock. It typically calls TakeResult.
func OnSubmit(fn func(*Exam)) Option {
	return func(e *Exam) { e.onSubmit = fn }
}

// Exam is safe for concurrent use; the countdown runs on its own
// goroutine.
type Exam struct {
	ID string

	config   Config
	now      func() time.Time
	rng      *rand.Rand
	grader   grader.Grader
	onSubmit func(*Exam)

	mu        sync.Mutex
	state     State
	questions []question.Question
	byID      map[int]question.Question
	answers   map[int]string
	startedAt time.Time
	result    *Result
	cancel    context.CancelFunc
}

// New creates an exam in StateNotStarted.
func New(config Config, opts ...Option) *Exam {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	e := &Exam{
		ID:      id.New(),
		config:  config,
		now:     time.Now,
		grader:  grader.Exact{},
		state:   StateNotStarted,
		answers: make(map[int]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start draws the questions, records the start time and begins the
// countdown. The countdown lives until ctx is cancelled or the exam
// leaves InProgress, so ctx must outlive any single request. A pool
// smaller than QuestionCount is refused and leaves the exam untouched.
func (e *Exam) Start(ctx context.Context, pool []question.Question) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateNotStarted {
		return ErrAlreadyStarted
	}
	if len(pool) < e.config.QuestionCount {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughQuestions, len(pool), e.config.QuestionCount)
	}

	e.questions = practicesession.Sample(pool, e.config.QuestionCount, e.rng)
	e.byID = question.Index(e.questions)
	e.startedAt = e.now()
	e.state = StateInProgress

	timerCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	go e.countdown(timerCtx)

	return nil
}

func (e *Exam) countdown(ctx context.Context) {
	ticker := time.NewTicker(e.config.TickInterval)
	defer ticker.Stop()

	for {
		if e.RemainingSeconds() == 0 {
			e.submit(true)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RemainingSeconds is max(0, ceil((start + duration - now) / 1s)) while
// in progress, the full duration before start, and 0 afterwards.
func (e *Exam) RemainingSeconds() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateNotStarted:
		return int(e.config.Duration / time.Second)
	case StateInProgress:
		ms := e.startedAt.Add(e.config.Duration).Sub(e.now()).Milliseconds()
		if ms <= 0 {
			return 0
		}
		return int((ms + 999) / 1000)
	}
	return 0
}

// SetAnswer overwrites the selection for questionID. An empty selection
// clears it; a letter the question does not offer is refused.
func (e *Exam) SetAnswer(questionID int, answer question.Answer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkAnswerable(questionID); err != nil {
		return err
	}
	if err := grader.CheckOptions(e.byID[questionID], answer); err != nil {
		return err
	}
	e.store(questionID, grader.Join(answer))
	return nil
}

// Toggle applies one option click: single-select questions take the
// letter, multi-select questions add or remove it.
func (e *Exam) Toggle(questionID int, letter string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkAnswerable(questionID); err != nil {
		return err
	}

	q := e.byID[questionID]
	if err := grader.CheckOptions(q, question.Answer{letter}); err != nil {
		return err
	}
	if !grader.IsMultiple(q) {
		e.store(questionID, grader.Join(question.Answer{letter}))
		return nil
	}

	chosen := grader.Normalize(grader.Parse(e.answers[questionID]))
	toggled := grader.Normalize(question.Answer{letter})
	if len(toggled) == 0 {
		return nil
	}

	next := make([]string, 0, len(chosen)+1)
	found := false
	for _, c := range chosen {
		if c == toggled[0] {
			found = true
			continue
		}
		next = append(next, c)
	}
	if !found {
		next = append(next, toggled[0])
	}
	e.store(questionID, grader.Join(question.Answer(next)))
	return nil
}

func (e *Exam) checkAnswerable(questionID int) error {
	if e.state != StateInProgress {
		return ErrNotInProgress
	}
	if _, ok := e.byID[questionID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	return nil
}

func (e *Exam) store(questionID int, joined string) {
	if joined == "" {
		delete(e.answers, questionID)
		return
	}
	e.answers[questionID] = joined
}

// Submit grades the exam on the user's behalf. Callers are expected to
// have confirmed with ConfirmationPrompt first.
func (e *Exam) Submit() (Result, error) {
	return e.submit(false)
}

func (e *Exam) submit(auto bool) (Result, error) {
	e.mu.Lock()
	if e.state != StateInProgress {
		e.mu.Unlock()
		return Result{}, ErrNotInProgress
	}
	e.state = StateSubmitted
	e.cancel()

	res := e.grade(auto)
	e.result = &res
	hook := e.onSubmit
	e.mu.Unlock()

	if hook != nil {
		hook(e)
	}
	return res, nil
}

// grade must be called with mu held.
func (e *Exam) grade(auto bool) Result {
	res := Result{
		Total:         len(e.questions),
		WrongIDs:      []int{},
		UnansweredIDs: []int{},
		Auto:          auto,
	}

	for _, q := range e.questions {
		chosen, ok := e.answers[q.ID]
		if !ok {
			res.UnansweredIDs = append(res.UnansweredIDs, q.ID)
			continue
		}
		if e.grader.IsCorrect(q, grader.Parse(chosen)) {
			res.CorrectCount++
		} else {
			res.WrongIDs = append(res.WrongIDs, q.ID)
		}
	}

	res.Score = res.CorrectCount
	res.TimeSpentSeconds = int(math.Round(float64(e.now().Sub(e.startedAt).Milliseconds()) / 1000))
	return res
}

// Abandon leaves the exam without grading or a result.
func (e *Exam) Abandon() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateInProgress {
		return ErrNotInProgress
	}
	e.state = StateAbandoned
	e.cancel()
	return nil
}

// TakeResult hands out the submission result exactly once.
func (e *Exam) TakeResult() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.result == nil {
		return Result{}, false
	}
	res := *e.result
	e.result = nil
	return res, true
}

// ConfirmationPrompt is the text to confirm a manual submission with.
func (e *Exam) ConfirmationPrompt() string {
	if n := e.Unanswered(); n > 0 {
		return fmt.Sprintf("%d questions are still unanswered. Submit anyway? Your score and wrong answers will be shown afterwards.", n)
	}
	return "Submit the exam? Your score and wrong answers will be shown afterwards."
}

func (e *Exam) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Exam) Config() Config {
	return e.config
}

func (e *Exam) StartedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startedAt
}

// Questions returns the drawn questions in exam order.
func (e *Exam) Questions() []question.Question {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]question.Question, len(e.questions))
	copy(out, e.questions)
	return out
}

// Answers returns a copy of the joined selections by question id.
func (e *Exam) Answers() map[int]string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[int]string, len(e.answers))
	for k, v := range e.answers {
		out[k] = v
	}
	return out
}

// Unanswered counts drawn questions without a selection.
func (e *Exam) Unanswered() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.questions) - len(e.answers)
}
