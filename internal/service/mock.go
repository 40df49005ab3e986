package service

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/examprep/quizcore/internal/content"
	"github.com/examprep/quizcore/internal/domain/mockexam"
	"github.com/examprep/quizcore/internal/domain/progress"
	"github.com/examprep/quizcore/internal/domain/question"
	"github.com/examprep/quizcore/internal/store"
)

// MockConfig fixes the exam shape and the pass line.
type MockConfig struct {
	QuestionCount int
	Duration      time.Duration
	PassPercent   int
	TickInterval  time.Duration
}

func DefaultMockConfig() MockConfig {
	d := mockexam.DefaultConfig()
	return MockConfig{
		QuestionCount: d.QuestionCount,
		Duration:      d.Duration,
		PassPercent:   72,
		TickInterval:  d.TickInterval,
	}
}

// Outcome is the displayed result of the last submitted exam.
type Outcome struct {
	ExamID      string
	Result      mockexam.Result
	Percent     int
	Passed      bool
	PassPercent int
	History     progress.MockHistoryEntry
	WrongAdded  bool
}

// ExamView is the in-progress exam as a client sees it.
type ExamView struct {
	ID                 string
	State              mockexam.State
	RemainingSeconds   int
	Questions          []question.Question
	Answers            map[int]string
	Unanswered         int
	ConfirmationPrompt string
	StartedAt          time.Time
}

// MockService keeps at most one current exam. Submission, manual or by
// the countdown, persists exactly one history entry through the exam's
// submit hook.
type MockService struct {
	lifetime context.Context
	content  *content.Content
	state    *store.State
	config   MockConfig
	logger   *slog.Logger
	now      func() time.Time
	newRand  func() *rand.Rand

	// mu guards exam and outcome. Only State may be called on an exam
	// while it is held; the submit hook takes mu itself.
	mu      sync.Mutex
	exam    *mockexam.Exam
	outcome *Outcome
}

// NewMockService ties every countdown to lifetime, which should last as
// long as the process serves requests.
func NewMockService(lifetime context.Context, c *content.Content, st *store.State, config MockConfig, logger *slog.Logger) *MockService {
	return &MockService{
		lifetime: lifetime,
		content:  c,
		state:    st,
		config:   config,
		logger:   logger,
		now:      time.Now,
		newRand:  func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
	}
}

func (s *MockService) WithClock(now func() time.Time) *MockService {
	s.now = now
	return s
}

func (s *MockService) WithRand(newRand func() *rand.Rand) *MockService {
	s.newRand = newRand
	return s
}

func (s *MockService) current() *mockexam.Exam {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exam
}

// Start begins a new exam unless one is in progress or still starting.
// A refused start leaves the current exam and outcome untouched.
func (s *MockService) Start() (ExamView, error) {
	exam := mockexam.New(
		mockexam.Config{
			QuestionCount: s.config.QuestionCount,
			Duration:      s.config.Duration,
			TickInterval:  s.config.TickInterval,
		},
		mockexam.WithClock(s.now),
		mockexam.WithRand(s.newRand()),
		mockexam.OnSubmit(s.consume),
	)

	s.mu.Lock()
	if s.exam != nil && live(s.exam.State()) {
		s.mu.Unlock()
		return ExamView{}, mockexam.ErrAlreadyStarted
	}
	prevExam, prevOutcome := s.exam, s.outcome
	s.exam, s.outcome = exam, nil
	s.mu.Unlock()

	if err := exam.Start(s.lifetime, s.content.Questions()); err != nil {
		s.mu.Lock()
		s.exam, s.outcome = prevExam, prevOutcome
		s.mu.Unlock()
		return ExamView{}, err
	}

	s.logger.Info("mock exam started", "exam_id", exam.ID, "questions", s.config.QuestionCount, "duration", s.config.Duration)
	return view(exam), nil
}

// live reports whether an exam has not reached a terminal state. An exam
// published by a concurrent Start is NotStarted until its draw completes.
func live(state mockexam.State) bool {
	return state == mockexam.StateNotStarted || state == mockexam.StateInProgress
}

// consume is the submit hook. It takes the single-delivery result,
// persists the history entry and keeps the outcome for display.
func (s *MockService) consume(exam *mockexam.Exam) {
	res, ok := exam.TakeResult()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry, err := s.state.AddMockHistory(ctx, res.HistoryEntry("", s.now()))
	if err != nil {
		s.logger.Error("failed to save mock history", "exam_id", exam.ID, "error", err)
	}

	s.logger.Info("mock exam submitted",
		"exam_id", exam.ID,
		"auto", res.Auto,
		"correct", res.CorrectCount,
		"total", res.Total,
		"time_spent_seconds", res.TimeSpentSeconds,
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcome = &Outcome{
		ExamID:      exam.ID,
		Result:      res,
		Percent:     res.Percent(),
		Passed:      res.Passed(s.config.PassPercent),
		PassPercent: s.config.PassPercent,
		History:     entry,
	}
}

func view(exam *mockexam.Exam) ExamView {
	return ExamView{
		ID:                 exam.ID,
		State:              exam.State(),
		RemainingSeconds:   exam.RemainingSeconds(),
		Questions:          exam.Questions(),
		Answers:            exam.Answers(),
		Unanswered:         exam.Unanswered(),
		ConfirmationPrompt: exam.ConfirmationPrompt(),
		StartedAt:          exam.StartedAt(),
	}
}

// Current returns the in-progress exam, or the submitted one until a new
// exam starts.
func (s *MockService) Current() (ExamView, error) {
	exam := s.current()
	if exam == nil {
		return ExamView{}, ErrNoActiveExam
	}
	return view(exam), nil
}

func (s *MockService) SetAnswer(questionID int, answer question.Answer) (ExamView, error) {
	exam := s.current()
	if exam == nil {
		return ExamView{}, ErrNoActiveExam
	}
	if err := exam.SetAnswer(questionID, answer); err != nil {
		return ExamView{}, err
	}
	return view(exam), nil
}

func (s *MockService) Toggle(questionID int, letter string) (ExamView, error) {
	exam := s.current()
	if exam == nil {
		return ExamView{}, ErrNoActiveExam
	}
	if err := exam.Toggle(questionID, letter); err != nil {
		return ExamView{}, err
	}
	return view(exam), nil
}

// ConfirmationPrompt is the text a client must confirm before Submit.
func (s *MockService) ConfirmationPrompt() (string, error) {
	exam := s.current()
	if exam == nil {
		return "", ErrNoActiveExam
	}
	return exam.ConfirmationPrompt(), nil
}

// Submit grades the current exam once the user has confirmed.
func (s *MockService) Submit(confirmed bool) (Outcome, error) {
	exam := s.current()
	if exam == nil {
		return Outcome{}, ErrNoActiveExam
	}
	if exam.State() != mockexam.StateInProgress {
		return Outcome{}, mockexam.ErrNotInProgress
	}
	if !confirmed {
		return Outcome{}, ErrConfirmationRequired
	}

	if _, err := exam.Submit(); err != nil {
		return Outcome{}, err
	}
	return s.LastOutcome()
}

// Abandon drops the current exam without a result.
func (s *MockService) Abandon() error {
	exam := s.current()
	if exam == nil {
		return ErrNoActiveExam
	}
	if err := exam.Abandon(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.exam == exam {
		s.exam = nil
	}
	s.mu.Unlock()

	s.logger.Info("mock exam abandoned", "exam_id", exam.ID)
	return nil
}

func (s *MockService) LastOutcome() (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome == nil {
		return Outcome{}, ErrNoOutcome
	}
	return *s.outcome, nil
}

// AddOutcomeToWrong copies the last outcome's wrong ids into the wrong
// set. Repeated calls add nothing.
func (s *MockService) AddOutcomeToWrong(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome == nil {
		return Outcome{}, ErrNoOutcome
	}
	if s.outcome.WrongAdded {
		return *s.outcome, nil
	}
	if err := s.state.AddWrong(ctx, s.outcome.Result.WrongIDs...); err != nil {
		return Outcome{}, err
	}
	s.outcome.WrongAdded = true
	return *s.outcome, nil
}

func (s *MockService) History(ctx context.Context) ([]progress.MockHistoryEntry, error) {
	return s.state.MockHistory(ctx)
}

func (s *MockService) RemoveHistory(ctx context.Context, entryID string) error {
	return s.state.RemoveMockHistory(ctx, entryID)
}

func (s *MockService) ClearHistory(ctx context.Context) error {
	return s.state.ClearMockHistory(ctx)
}
