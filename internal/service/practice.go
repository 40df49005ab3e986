// Package service orchestrates the domain packages over the content pool
// and the persisted state.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/examprep/quizcore/internal/analytics"
	"github.com/examprep/quizcore/internal/content"
	practicesession "github.com/examprep/quizcore/internal/domain/practice_session"
	"github.com/examprep/quizcore/internal/domain/progress"
	"github.com/examprep/quizcore/internal/domain/question"
	"github.com/examprep/quizcore/internal/grader"
	"github.com/examprep/quizcore/internal/store"
)

// PracticeService owns the live practice sessions of the process.
type PracticeService struct {
	content *content.Content
	state   *store.State
	grader  grader.Grader
	logger  *slog.Logger
	now     func() time.Time
	newRand func() *rand.Rand

	mu       sync.Mutex
	sessions map[string]*practicesession.PracticeSession
}

func NewPracticeService(c *content.Content, st *store.State, g grader.Grader, logger *slog.Logger) *PracticeService {
	if g == nil {
		g = grader.Exact{}
	}
	return &PracticeService{
		content:  c,
		state:    st,
		grader:   g,
		logger:   logger,
		now:      time.Now,
		newRand:  practicesession.NewRand,
		sessions: make(map[string]*practicesession.PracticeSession),
	}
}

// WithRand fixes the random source used for new sessions.
func (s *PracticeService) WithRand(newRand func() *rand.Rand) *PracticeService {
	s.newRand = newRand
	return s
}

// WithClock replaces time.Now for answer events.
func (s *PracticeService) WithClock(now func() time.Time) *PracticeService {
	s.now = now
	return s
}

// StartResult carries the resume notification along with the session.
type StartResult struct {
	Session *practicesession.PracticeSession
	Resumed bool
	// Position is 1-based.
	Position int
}

// Start builds a session, resumes it from a still-valid marker and saves
// the starting position.
func (s *PracticeService) Start(ctx context.Context, config practicesession.SessionConfig) (StartResult, error) {
	if config.Filter == "" {
		config.Filter = practicesession.FilterAll
	}
	if err := config.Validate(); err != nil {
		return StartResult{}, err
	}
	if config.SampleSize != nil {
		n := practicesession.ClampSampleSize(*config.SampleSize)
		config.SampleSize = &n
	}

	switch config.Filter {
	case practicesession.FilterWrong:
		ids, err := s.state.WrongIDs(ctx)
		if err != nil {
			return StartResult{}, err
		}
		config.WrongIDs = practicesession.IDSet(ids)
	case practicesession.FilterFavorite:
		ids, err := s.state.FavoriteIDs(ctx)
		if err != nil {
			return StartResult{}, err
		}
		config.FavoriteIDs = practicesession.IDSet(ids)
	}

	session := practicesession.New(s.content.Questions(), config, s.newRand())

	resumed := false
	if key, ok := session.MarkerKey(); ok {
		marker, err := s.state.LoadMarker(ctx, key)
		if err != nil {
			return StartResult{}, err
		}
		resumed = session.Resume(marker)
		if len(session.Questions) > 0 {
			if err := s.state.SaveMarker(ctx, key, session.Marker()); err != nil {
				return StartResult{}, err
			}
		}
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Info("practice session started",
		"session_id", session.ID,
		"filter", config.Filter,
		"mode", config.Mode,
		"topic", config.Topic,
		"questions", len(session.Questions),
		"resumed", resumed,
	)

	return StartResult{Session: session, Resumed: resumed, Position: session.Index + 1}, nil
}

// Get returns a copy of the session state.
func (s *PracticeService) Get(sessionID string) (practicesession.PracticeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return practicesession.PracticeSession{}, ErrSessionNotFound
	}
	return *session, nil
}

// AnswerResult is what the client shows after grading.
type AnswerResult struct {
	QuestionID    int
	Chosen        string
	Correct       bool
	BestAnswer    []string
	RequiredCount int
	Explanation   *question.Explanation
	TodayCount    int
	Milestone     *analytics.Milestone
}

// Answer grades one selection and records it. Letters the question does
// not offer are refused, and multi-select answers are refused until the
// required number of options is chosen; nothing is written for a refused
// answer.
func (s *PracticeService) Answer(ctx context.Context, sessionID string, questionID int, answer question.Answer) (AnswerResult, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return AnswerResult{}, err
	}
	if !session.Contains(questionID) {
		return AnswerResult{}, fmt.Errorf("%w: %d is not in session %s", ErrUnknownQuestion, questionID, sessionID)
	}
	q, _ := s.content.Question(questionID)

	if err := grader.CheckOptions(q, answer); err != nil {
		return AnswerResult{}, err
	}
	chosen := grader.Normalize(answer)
	required := grader.RequiredCount(q)
	if len(chosen) == 0 || (grader.IsMultiple(q) && len(chosen) < required) {
		return AnswerResult{}, fmt.Errorf("%w: chose %d of %d", ErrIncompleteSelection, len(chosen), required)
	}

	correct := s.grader.IsCorrect(q, chosen)
	joined := grader.Join(chosen)
	now := s.now()

	p, err := s.state.RecordProgress(ctx, questionID, progress.Entry{Answered: joined, Correct: correct})
	if err != nil {
		return AnswerResult{}, err
	}
	if !correct {
		if err := s.state.AddWrong(ctx, questionID); err != nil {
			return AnswerResult{}, err
		}
	}
	today, err := s.state.IncrementToday(ctx)
	if err != nil {
		return AnswerResult{}, err
	}
	if err := s.state.AppendAnswerEvent(ctx, progress.NewAnswerEvent(questionID, joined, correct, now)); err != nil {
		return AnswerResult{}, err
	}

	res := AnswerResult{
		QuestionID:    questionID,
		Chosen:        joined,
		Correct:       correct,
		BestAnswer:    grader.BestAnswer(q),
		RequiredCount: required,
		Explanation:   q.Explanation,
		TodayCount:    today,
	}

	shown, err := s.state.MilestonesShown(ctx)
	if err != nil {
		return AnswerResult{}, err
	}
	if m, ok := analytics.EvaluateMilestone(len(p), shown); ok {
		if err := s.state.MarkMilestone(ctx, m.Threshold); err != nil {
			return AnswerResult{}, err
		}
		s.logger.Info("milestone reached", "threshold", m.Threshold)
		res.Milestone = &m
	}

	return res, nil
}

// CompletionReport summarises a session when navigation wraps past the
// last question.
type CompletionReport struct {
	Total    int
	Answered int
	Correct  int
}

// NavResult is the session after a move.
type NavResult struct {
	Session    practicesession.PracticeSession
	Completion *CompletionReport
}

func (s *PracticeService) Next(ctx context.Context, sessionID string) (NavResult, error) {
	return s.move(ctx, sessionID, func(session *practicesession.PracticeSession) (bool, error) {
		return session.Next(), nil
	})
}

func (s *PracticeService) Prev(ctx context.Context, sessionID string) (NavResult, error) {
	return s.move(ctx, sessionID, func(session *practicesession.PracticeSession) (bool, error) {
		session.Prev()
		return false, nil
	})
}

// Goto jumps to a 0-based index, as from the answer sheet, and saves the
// marker there.
func (s *PracticeService) Goto(ctx context.Context, sessionID string, index int) (NavResult, error) {
	return s.move(ctx, sessionID, func(session *practicesession.PracticeSession) (bool, error) {
		if !session.Goto(index) {
			return false, fmt.Errorf("%w: %d of %d", ErrPositionOutOfRange, index, len(session.Questions))
		}
		return false, nil
	})
}

// Restart goes back to the first question and forgets the saved marker,
// so the next session over the same list starts from the beginning too.
func (s *PracticeService) Restart(ctx context.Context, sessionID string) (practicesession.PracticeSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return practicesession.PracticeSession{}, ErrSessionNotFound
	}
	session.Index = 0
	snapshot := *session
	s.mu.Unlock()

	if key, ok := snapshot.MarkerKey(); ok {
		if err := s.state.ClearMarker(ctx, key); err != nil {
			return practicesession.PracticeSession{}, err
		}
	}

	s.logger.Info("practice session restarted", "session_id", snapshot.ID)
	return snapshot, nil
}

func (s *PracticeService) move(ctx context.Context, sessionID string, step func(*practicesession.PracticeSession) (bool, error)) (NavResult, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return NavResult{}, ErrSessionNotFound
	}
	completed, err := step(session)
	if err != nil {
		s.mu.Unlock()
		return NavResult{}, err
	}
	snapshot := *session
	s.mu.Unlock()

	if key, ok := snapshot.MarkerKey(); ok && len(snapshot.Questions) > 0 {
		if err := s.state.SaveMarker(ctx, key, snapshot.Marker()); err != nil {
			return NavResult{}, err
		}
	}

	res := NavResult{Session: snapshot}
	if completed {
		p, err := s.state.Progress(ctx)
		if err != nil {
			return NavResult{}, err
		}
		report := &CompletionReport{Total: len(snapshot.Questions)}
		for _, q := range snapshot.Questions {
			if e, ok := p[q.ID]; ok {
				report.Answered++
				if e.Correct {
					report.Correct++
				}
			}
		}
		res.Completion = report
	}
	return res, nil
}

// Sheet reports per-position status for the session.
func (s *PracticeService) Sheet(ctx context.Context, sessionID string) ([]practicesession.SheetEntry, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	p, err := s.state.Progress(ctx)
	if err != nil {
		return nil, err
	}
	return session.Sheet(p), nil
}

// Topics lists topic roots with progress.
func (s *PracticeService) Topics(ctx context.Context) ([]practicesession.TopicSummary, error) {
	p, err := s.state.Progress(ctx)
	if err != nil {
		return nil, err
	}
	return practicesession.Topics(s.content.Questions(), p), nil
}
