package mockexam_test

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/examprep/quizcore/internal/domain/mockexam"
	"github.com/examprep/quizcore/internal/domain/question"
	"github.com/examprep/quizcore/internal/grader"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func createPool(n int) []question.Question {
	pool := make([]question.Question, n)
	for i := range pool {
		pool[i] = question.Question{
			ID:         i + 1,
			PromptCN:   "Question",
			OptionsCN:  map[string]string{"A": "a", "B": "b", "C": "c"},
			BestAnswer: question.Answer{"A"},
		}
	}
	return pool
}

func smallConfig(n int) mockexam.Config {
	return mockexam.Config{
		QuestionCount: n,
		Duration:      10 * time.Minute,
		TickInterval:  time.Hour,
	}
}

func TestStart_RefusesSmallPool(t *testing.T) {
	exam := mockexam.New(mockexam.DefaultConfig())

	err := exam.Start(context.Background(), createPool(40))
	if !errors.Is(err, mockexam.ErrNotEnoughQuestions) {
		t.Fatalf("expected ErrNotEnoughQuestions, got %v", err)
	}
	if exam.State() != mockexam.StateNotStarted {
		t.Errorf("expected state %s, got %s", mockexam.StateNotStarted, exam.State())
	}
	if len(exam.Questions()) != 0 {
		t.Error("expected no questions drawn after refusal")
	}
}

func TestStart_DrawsDistinctQuestions(t *testing.T) {
	exam := mockexam.New(mockexam.DefaultConfig(), mockexam.WithRand(rand.New(rand.NewSource(3))))
	if err := exam.Start(context.Background(), createPool(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer exam.Abandon()

	questions := exam.Questions()
	if len(questions) != 65 {
		t.Fatalf("expected 65 questions, got %d", len(questions))
	}
	seen := map[int]bool{}
	for _, q := range questions {
		if seen[q.ID] {
			t.Fatalf("duplicate question %d", q.ID)
		}
		seen[q.ID] = true
	}

	if err := exam.Start(context.Background(), createPool(100)); !errors.Is(err, mockexam.ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestRemainingSeconds_FromStartTimestamp(t *testing.T) {
	clock := newFakeClock()
	exam := mockexam.New(smallConfig(3), mockexam.WithClock(clock.Now))

	if got := exam.RemainingSeconds(); got != 600 {
		t.Errorf("expected full duration before start, got %d", got)
	}

	if err := exam.Start(context.Background(), createPool(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer exam.Abandon()

	clock.Advance(1500 * time.Millisecond)
	if got := exam.RemainingSeconds(); got != 599 {
		t.Errorf("expected ceil to 599, got %d", got)
	}

	clock.Advance(9 * time.Minute)
	if got := exam.RemainingSeconds(); got != 59 {
		t.Errorf("expected 59 after a suspension, got %d", got)
	}
}

func TestSubmit_UnansweredNotInWrongIDs(t *testing.T) {
	clock := newFakeClock()
	exam := mockexam.New(smallConfig(3), mockexam.WithClock(clock.Now))
	if err := exam.Start(context.Background(), createPool(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	questions := exam.Questions()
	exam.SetAnswer(questions[0].ID, question.Answer{"A"})
	exam.SetAnswer(questions[1].ID, question.Answer{"a"})

	clock.Advance(90*time.Second + 600*time.Millisecond)
	res, err := exam.Submit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Total != 3 || res.CorrectCount != 2 || res.Score != 2 {
		t.Errorf("expected 2/3, got %+v", res)
	}
	if len(res.WrongIDs) != 0 {
		t.Errorf("expected no wrong ids, got %v", res.WrongIDs)
	}
	if len(res.UnansweredIDs) != 1 || res.UnansweredIDs[0] != questions[2].ID {
		t.Errorf("expected unanswered [%d], got %v", questions[2].ID, res.UnansweredIDs)
	}
	if res.TimeSpentSeconds != 91 {
		t.Errorf("expected 91 seconds, got %d", res.TimeSpentSeconds)
	}
	if res.Auto {
		t.Error("expected manual submission")
	}
	if exam.State() != mockexam.StateSubmitted {
		t.Errorf("expected submitted state, got %s", exam.State())
	}
}

func TestSubmit_WrongAnswerListed(t *testing.T) {
	exam := mockexam.New(smallConfig(2))
	exam.Start(context.Background(), createPool(2))

	questions := exam.Questions()
	exam.SetAnswer(questions[0].ID, question.Answer{"B"})

	res, _ := exam.Submit()
	if len(res.WrongIDs) != 1 || res.WrongIDs[0] != questions[0].ID {
		t.Errorf("expected wrong [%d], got %v", questions[0].ID, res.WrongIDs)
	}
}

func TestSubmit_AtMostOnce(t *testing.T) {
	calls := 0
	exam := mockexam.New(smallConfig(3), mockexam.OnSubmit(func(*mockexam.Exam) { calls++ }))
	exam.Start(context.Background(), createPool(3))

	if _, err := exam.Submit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := exam.Submit(); !errors.Is(err, mockexam.ErrNotInProgress) {
		t.Errorf("expected ErrNotInProgress on second submit, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected hook once, got %d", calls)
	}
}

func TestTakeResult_SingleDelivery(t *testing.T) {
	exam := mockexam.New(smallConfig(3))
	exam.Start(context.Background(), createPool(3))
	exam.Submit()

	if _, ok := exam.TakeResult(); !ok {
		t.Fatal("expected a result")
	}
	if _, ok := exam.TakeResult(); ok {
		t.Error("expected nothing on second read")
	}
}

func TestAutoSubmit_WhenTimeRunsOut(t *testing.T) {
	clock := newFakeClock()
	submitted := make(chan mockexam.Result, 2)

	config := smallConfig(3)
	config.TickInterval = time.Millisecond
	exam := mockexam.New(config,
		mockexam.WithClock(clock.Now),
		mockexam.OnSubmit(func(e *mockexam.Exam) {
			if res, ok := e.TakeResult(); ok {
				submitted <- res
			}
		}),
	)
	if err := exam.Start(context.Background(), createPool(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(config.Duration)

	select {
	case res := <-submitted:
		if !res.Auto {
			t.Error("expected automatic submission")
		}
		if res.TimeSpentSeconds != 600 {
			t.Errorf("expected 600 seconds, got %d", res.TimeSpentSeconds)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected auto-submission")
	}

	if _, err := exam.Submit(); !errors.Is(err, mockexam.ErrNotInProgress) {
		t.Errorf("expected manual submit after auto-submit to be refused, got %v", err)
	}

	select {
	case <-submitted:
		t.Error("expected a single submission")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestAbandon_NoResult(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	config := smallConfig(3)
	config.TickInterval = time.Millisecond
	exam := mockexam.New(config, mockexam.WithClock(clock.Now), mockexam.OnSubmit(func(*mockexam.Exam) { calls++ }))
	exam.Start(context.Background(), createPool(3))

	if err := exam.Abandon(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(config.Duration)
	time.Sleep(20 * time.Millisecond)

	if calls != 0 {
		t.Errorf("expected no submission after abandon, got %d", calls)
	}
	if _, ok := exam.TakeResult(); ok {
		t.Error("expected no result after abandon")
	}
	if _, err := exam.Submit(); !errors.Is(err, mockexam.ErrNotInProgress) {
		t.Errorf("expected ErrNotInProgress, got %v", err)
	}
	if exam.State() != mockexam.StateAbandoned {
		t.Errorf("expected abandoned state, got %s", exam.State())
	}
}

func TestSetAnswer_OverwriteAndClear(t *testing.T) {
	exam := mockexam.New(smallConfig(1))
	exam.Start(context.Background(), createPool(1))
	defer exam.Abandon()

	qid := exam.Questions()[0].ID
	exam.SetAnswer(qid, question.Answer{"B"})
	exam.SetAnswer(qid, question.Answer{"C", "A"})

	if got := exam.Answers()[qid]; got != "A,C" {
		t.Errorf("expected A,C, got %q", got)
	}

	exam.SetAnswer(qid, nil)
	if _, ok := exam.Answers()[qid]; ok {
		t.Error("expected empty selection to clear the answer")
	}

	if err := exam.SetAnswer(999, question.Answer{"A"}); !errors.Is(err, mockexam.ErrUnknownQuestion) {
		t.Errorf("expected ErrUnknownQuestion, got %v", err)
	}
}

func TestSetAnswer_AfterSubmitRefused(t *testing.T) {
	exam := mockexam.New(smallConfig(1))
	exam.Start(context.Background(), createPool(1))
	exam.Submit()

	if err := exam.SetAnswer(exam.Questions()[0].ID, question.Answer{"A"}); !errors.Is(err, mockexam.ErrNotInProgress) {
		t.Errorf("expected ErrNotInProgress, got %v", err)
	}
}

func TestSetAnswer_UnknownOptionRefused(t *testing.T) {
	exam := mockexam.New(smallConfig(1))
	exam.Start(context.Background(), createPool(1))
	defer exam.Abandon()

	qid := exam.Questions()[0].ID
	exam.SetAnswer(qid, question.Answer{"B"})

	if err := exam.SetAnswer(qid, question.Answer{"A", "Z"}); !errors.Is(err, grader.ErrUnknownOption) {
		t.Errorf("expected ErrUnknownOption, got %v", err)
	}
	if err := exam.Toggle(qid, "E"); !errors.Is(err, grader.ErrUnknownOption) {
		t.Errorf("expected ErrUnknownOption from toggle, got %v", err)
	}
	if got := exam.Answers()[qid]; got != "B" {
		t.Errorf("expected refused selections to leave B, got %q", got)
	}
}

func TestToggle(t *testing.T) {
	pool := []question.Question{
		{ID: 1, OptionsCN: map[string]string{"A": "a", "B": "b"}, BestAnswer: question.Answer{"A"}},
		{ID: 2, OptionsCN: map[string]string{"A": "a", "B": "b", "C": "c"}, BestAnswer: question.Answer{"AC"}},
	}
	exam := mockexam.New(smallConfig(2))
	exam.Start(context.Background(), pool)
	defer exam.Abandon()

	exam.Toggle(1, "A")
	exam.Toggle(1, "B")
	if got := exam.Answers()[1]; got != "B" {
		t.Errorf("expected single-select to keep the last letter, got %q", got)
	}

	exam.Toggle(2, "C")
	exam.Toggle(2, "A")
	exam.Toggle(2, "B")
	exam.Toggle(2, "B")
	if got := exam.Answers()[2]; got != "A,C" {
		t.Errorf("expected A,C, got %q", got)
	}

	exam.Toggle(2, "A")
	exam.Toggle(2, "C")
	if _, ok := exam.Answers()[2]; ok {
		t.Error("expected toggling everything off to clear the answer")
	}
}

func TestConfirmationPrompt(t *testing.T) {
	exam := mockexam.New(smallConfig(2))
	exam.Start(context.Background(), createPool(2))
	defer exam.Abandon()

	if !strings.Contains(exam.ConfirmationPrompt(), "2 questions are still unanswered") {
		t.Errorf("expected unanswered count in prompt, got %q", exam.ConfirmationPrompt())
	}

	for _, q := range exam.Questions() {
		exam.SetAnswer(q.ID, question.Answer{"A"})
	}
	if strings.Contains(exam.ConfirmationPrompt(), "unanswered") {
		t.Errorf("expected plain prompt when all answered, got %q", exam.ConfirmationPrompt())
	}
}

func TestResultPercentAndHistory(t *testing.T) {
	res := mockexam.Result{Total: 65, CorrectCount: 47, TimeSpentSeconds: 3600}

	if res.Percent() != 72 {
		t.Errorf("expected 72%%, got %d", res.Percent())
	}
	if !res.Passed(72) {
		t.Error("expected pass at 72%")
	}
	if (mockexam.Result{}).Percent() != 0 {
		t.Error("expected 0% for empty result")
	}

	entry := res.HistoryEntry("h1", time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	if entry.Date != "2026-05-01T09:00:00Z" || entry.CorrectCount != 47 || entry.Total != 65 {
		t.Errorf("unexpected history entry: %+v", entry)
	}
}
